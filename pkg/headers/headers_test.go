package headers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContainerRegions(t *testing.T) {
	c := New()
	c.Add("x-request-id", "abc")
	c.MarkTrailersBegin()
	c.Add("grpc-status", "0")

	var headerKeys, trailerKeys []string
	c.Each(func(key, _ string, trailer bool) {
		if trailer {
			trailerKeys = append(trailerKeys, key)
		} else {
			headerKeys = append(headerKeys, key)
		}
	})

	assert.Equal(t, []string{"x-request-id"}, headerKeys)
	assert.Equal(t, []string{"grpc-status"}, trailerKeys)
}

func TestMarkTrailersBeginIdempotent(t *testing.T) {
	c := New()
	c.Add("a", "1")
	c.MarkTrailersBegin()
	c.Add("b", "2")
	c.MarkTrailersBegin()
	c.Add("c", "3")

	var trailers []string
	c.Each(func(key, _ string, trailer bool) {
		if trailer {
			trailers = append(trailers, key)
		}
	})

	// Entries after the first mark all land in the trailer region.
	assert.Equal(t, []string{"b", "c"}, trailers)
	assert.True(t, c.TrailersStarted())
}

func TestGetMergesRegions(t *testing.T) {
	c := New()
	c.Add("x-checksum", "")
	c.MarkTrailersBegin()
	c.Add("x-checksum", "deadbeef")

	got, ok := c.Get("x-checksum")
	require.True(t, ok)
	assert.Equal(t, "deadbeef", got, "lookup should skip empty values and merge regions")

	_, ok = c.Get("missing")
	assert.False(t, ok)
}

func TestSetReplacesAllEntries(t *testing.T) {
	c := New()
	c.Add("k", "1")
	c.Add("k", "2")
	c.Set("k", "3")

	assert.Equal(t, []string{"3"}, c.Values("k"))
	assert.Equal(t, 1, c.Len())
}

func TestSetKeepsMarkConsistent(t *testing.T) {
	c := New()
	c.Add("k", "1")
	c.Add("other", "x")
	c.MarkTrailersBegin()
	c.Set("k", "2")

	var trailers []string
	c.Each(func(key, value string, trailer bool) {
		if trailer {
			trailers = append(trailers, key+"="+value)
		}
	})
	assert.Equal(t, []string{"k=2"}, trailers)

	// The untouched header entry stays in the header region.
	hdr := c.HTTPHeader()
	assert.Equal(t, "x", hdr.Get("other"))
}

func TestKeyCanonicalization(t *testing.T) {
	c := New()
	c.Add("X-Mixed-Case", "v")

	got, ok := c.Get("x-mixed-case")
	require.True(t, ok)
	assert.Equal(t, "v", got)
	assert.Equal(t, []string{"x-mixed-case"}, c.Keys())
}

func TestTrailerEligibility(t *testing.T) {
	c := New()
	assert.False(t, c.TrailerEligible("x-custom"), "keys default to ineligible")

	c.AllowTrailers("X-Custom")
	assert.True(t, c.TrailerEligible("x-custom"))
}

func TestHTTPTrailerDropsIneligibleKeys(t *testing.T) {
	c := New()
	c.AllowTrailers("grpc-status")
	c.MarkTrailersBegin()
	c.Add("grpc-status", "0")
	c.Add("x-sneaky", "nope")

	trailer := c.HTTPTrailer()
	assert.Equal(t, "0", trailer.Get("grpc-status"))
	assert.Empty(t, trailer.Get("x-sneaky"))
}

func TestFromHTTPNormalizesMultiValues(t *testing.T) {
	h := http.Header{}
	h["X-Multi"] = []string{"", "first", "second"}
	h.Set("Content-Type", "application/grpc")

	c := FromHTTP(h)

	got, ok := c.Get("x-multi")
	require.True(t, ok)
	assert.Equal(t, "first", got, "boundary normalization takes the first non-empty element")
	assert.Equal(t, []string{"first"}, c.Values("x-multi"))
}

package httputil

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/grpcwire/grpcwire/pkg/headers"
)

func TestApplyHeadersSkipsTrailerRegion(t *testing.T) {
	c := headers.New()
	c.Add("content-type", "application/grpc")
	c.MarkTrailersBegin()
	c.Add("grpc-status", "0")

	rec := httptest.NewRecorder()
	ApplyHeaders(rec, c)

	assert.Equal(t, "application/grpc", rec.Header().Get("content-type"))
	assert.Empty(t, rec.Header().Get("grpc-status"))
}

func TestApplyTrailers(t *testing.T) {
	c := headers.New()
	c.AllowTrailers("grpc-status")
	c.MarkTrailersBegin()
	c.Add("grpc-status", "0")
	c.Add("x-private", "nope")

	rec := httptest.NewRecorder()
	ApplyTrailers(rec, c)

	assert.Equal(t, "0", rec.Header().Get(http.TrailerPrefix+"grpc-status"))
	assert.Empty(t, rec.Header().Get(http.TrailerPrefix+"x-private"), "ineligible keys never reach the trailer section")
}

func TestFlushToleratesNonFlusher(t *testing.T) {
	// http.ResponseWriter without Flusher support must not panic.
	Flush(nonFlusher{httptest.NewRecorder()})
}

type nonFlusher struct{ http.ResponseWriter }

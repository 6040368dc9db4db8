package headers

import "net/http"

// FromHTTP builds a container from an inbound http.Header. Lenient HTTP
// stacks deliver some keys as multi-element sequences; those are normalized
// here, once, to their first non-empty element so downstream code never has
// to re-check.
func FromHTTP(h http.Header) *Container {
	c := New()
	for key, vals := range h {
		c.Add(key, firstNonEmpty(vals))
	}
	return c
}

// HTTPHeader returns the initial-header region as an http.Header.
func (c *Container) HTTPHeader() http.Header {
	out := make(http.Header)
	c.Each(func(key, value string, trailer bool) {
		if !trailer {
			out.Add(key, value)
		}
	})
	return out
}

// HTTPTrailer returns the trailer region as an http.Header, dropping any
// entries whose key is not trailer-eligible.
func (c *Container) HTTPTrailer() http.Header {
	out := make(http.Header)
	c.Each(func(key, value string, trailer bool) {
		if trailer && c.TrailerEligible(key) {
			out.Add(key, value)
		}
	})
	return out
}

func firstNonEmpty(vals []string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

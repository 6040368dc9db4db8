// Package httputil provides shared HTTP glue for applying wire-protocol
// metadata containers to net/http responses.
package httputil

import (
	"net/http"

	"github.com/grpcwire/grpcwire/pkg/headers"
)

// ApplyHeaders copies the container's initial-header region onto the
// response headers. Call it before the first body byte is written.
func ApplyHeaders(w http.ResponseWriter, c *headers.Container) {
	dst := w.Header()
	c.Each(func(key, value string, trailer bool) {
		if !trailer {
			dst.Add(key, value)
		}
	})
}

// ApplyTrailers emits the container's trailer region after the body, using
// the http.TrailerPrefix convention so the transport sends true HTTP/2
// trailers. Entries whose key is not trailer-eligible are dropped. Keys are
// added in their lowercase wire form; the prefix makes them exempt from
// net/http's MIME canonicalization.
func ApplyTrailers(w http.ResponseWriter, c *headers.Container) {
	dst := w.Header()
	c.Each(func(key, value string, trailer bool) {
		if trailer && c.TrailerEligible(key) {
			dst.Add(http.TrailerPrefix+key, value)
		}
	})
}

// Flush pushes buffered body bytes to the client when the underlying
// transport supports it.
func Flush(w http.ResponseWriter) {
	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}

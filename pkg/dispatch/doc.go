// Package dispatch implements the top-level request-dispatch middleware of
// the wire layer.
//
// The Handler is a net/http middleware. Requests whose content type does not
// start with the protocol's media-type prefix pass through to the next
// handler untouched. Applicable requests are routed by wire path to a
// registered Service, the bound method implementation is invoked, and every
// outcome, success or failure, is translated into a well-formed status
// response. Callers of the middleware never observe an escaped fault, and
// the outer HTTP status is always 200: protocol-level failure travels in the
// status metadata, not the transport status line.
//
// Two response shapes exist: trailers-only (status as initial headers, no
// body, used when the call fails before any message is produced) and normal
// (zero or more message frames, then status in the trailer section).
package dispatch

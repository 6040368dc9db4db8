package status

import (
	"strconv"

	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"

	"github.com/grpcwire/grpcwire/pkg/headers"
)

// Reserved metadata keys of the status protocol.
const (
	// StatusKey carries the numeric status code.
	StatusKey = "grpc-status"

	// MessageKey carries the percent-encoded status message.
	MessageKey = "grpc-message"

	// DiagnosticsKey is repeatable and carries diagnostic data, one entry
	// per value. It is reserved but, unlike StatusKey and MessageKey, not
	// trailer-eligible.
	DiagnosticsKey = "grpc-diagnostics"
)

// ReservedTrailerKeys are the metadata keys that are always
// trailer-eligible, whatever the container's own policy says.
var ReservedTrailerKeys = []string{StatusKey, MessageKey}

// Reserve extends a container's trailer-eligibility policy with the reserved
// status keys. Call it once on every response container before Annotate.
func Reserve(c *headers.Container) {
	c.AllowTrailers(ReservedTrailerKeys...)
}

// Annotate writes a status record into the container's current region:
// trailers if the trailers-begin mark was set, initial headers otherwise. An
// empty message omits the message key; diagnostic data with no entries omits
// the diagnostics key entirely.
func Annotate(c *headers.Container, code codes.Code, message string, debug *errdetails.DebugInfo) {
	Reserve(c)
	c.Set(StatusKey, strconv.Itoa(int(code)))
	if message != "" {
		c.Set(MessageKey, EncodeMessage(message))
	}
	for _, line := range diagnosticLines(debug) {
		c.Add(DiagnosticsKey, line)
	}
}

// CodeFrom extracts the status code from a container. A container with no
// status key, or one whose value does not parse, yields UNKNOWN (2).
func CodeFrom(c *headers.Container) codes.Code {
	raw, ok := c.Get(StatusKey)
	if !ok || raw == "" {
		return codes.Unknown
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 || n > int(codes.Unauthenticated) {
		return codes.Unknown
	}
	return codes.Code(n)
}

// MessageFrom extracts and decodes the status message from a container. The
// second result is false when the message key is absent.
func MessageFrom(c *headers.Container) (string, bool) {
	raw, ok := c.Get(MessageKey)
	if !ok {
		return "", false
	}
	return DecodeMessage(raw), true
}

// diagnosticLines flattens diagnostic data into one string per metadata
// value: every stack entry, then the detail text if present.
func diagnosticLines(debug *errdetails.DebugInfo) []string {
	if debug == nil {
		return nil
	}
	lines := make([]string, 0, len(debug.GetStackEntries())+1)
	lines = append(lines, debug.GetStackEntries()...)
	if d := debug.GetDetail(); d != "" {
		lines = append(lines, d)
	}
	return lines
}

package status

import (
	"errors"
	"fmt"

	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"

	"github.com/grpcwire/grpcwire/pkg/headers"
)

// Error is a protocol-level RPC failure: a status code, a human-readable
// message, optional diagnostic data, and optional metadata to merge into the
// response container.
type Error struct {
	Code    codes.Code
	Message string

	// Debug carries structured diagnostic data, typically stack entries
	// captured at the failure site. Serialized one entry per metadata value.
	Debug *errdetails.DebugInfo

	// Meta is merged into the response container before the status itself.
	Meta *headers.Container
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("rpc error: code = %s desc = %s", e.Code, e.Message)
}

// WithDiagnostics attaches stack entries as diagnostic data and returns e.
func (e *Error) WithDiagnostics(entries ...string) *Error {
	if len(entries) == 0 {
		return e
	}
	if e.Debug == nil {
		e.Debug = &errdetails.DebugInfo{}
	}
	e.Debug.StackEntries = append(e.Debug.StackEntries, entries...)
	return e
}

// WithMetadata attaches response metadata and returns e.
func (e *Error) WithMetadata(md *headers.Container) *Error {
	e.Meta = md
	return e
}

// New returns an Error with the given code and message.
func New(code codes.Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Newf returns an Error with the given code and a formatted message.
func Newf(code codes.Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Named constructors for the common failure classes. Each fixes the code and
// adds nothing else.

// Cancelled returns a CANCELLED (1) error.
func Cancelled(format string, args ...any) *Error {
	return Newf(codes.Canceled, format, args...)
}

// InvalidArgument returns an INVALID_ARGUMENT (3) error.
func InvalidArgument(format string, args ...any) *Error {
	return Newf(codes.InvalidArgument, format, args...)
}

// DeadlineExceeded returns a DEADLINE_EXCEEDED (4) error.
func DeadlineExceeded(format string, args ...any) *Error {
	return Newf(codes.DeadlineExceeded, format, args...)
}

// NotFound returns a NOT_FOUND (5) error.
func NotFound(format string, args ...any) *Error {
	return Newf(codes.NotFound, format, args...)
}

// Internal returns an INTERNAL (13) error.
func Internal(format string, args ...any) *Error {
	return Newf(codes.Internal, format, args...)
}

// Unavailable returns an UNAVAILABLE (14) error.
func Unavailable(format string, args ...any) *Error {
	return Newf(codes.Unavailable, format, args...)
}

// Unauthenticated returns an UNAUTHENTICATED (16) error.
func Unauthenticated(format string, args ...any) *Error {
	return Newf(codes.Unauthenticated, format, args...)
}

// Unimplemented returns an UNIMPLEMENTED (12) error.
func Unimplemented(format string, args ...any) *Error {
	return Newf(codes.Unimplemented, format, args...)
}

// FromError extracts an *Error from err's chain.
func FromError(err error) (*Error, bool) {
	var se *Error
	ok := errors.As(err, &se)
	return se, ok
}

// Convert returns err as an *Error, wrapping anything outside the status
// taxonomy into INTERNAL with the fault's text. Raw collaborator faults
// never cross the dispatch boundary unwrapped.
func Convert(err error) *Error {
	if err == nil {
		return nil
	}
	if se, ok := FromError(err); ok {
		return se
	}
	return New(codes.Internal, err.Error())
}

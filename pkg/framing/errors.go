package framing

import (
	"errors"
	"fmt"
	"reflect"
)

var (
	// ErrTruncated is returned when the byte source ends mid-prefix or
	// mid-payload. A clean end of stream is reported as io.EOF instead;
	// the two are never conflated.
	ErrTruncated = errors.New("framing: truncated frame")

	// ErrWriterClosed is returned by Write after CloseSend.
	ErrWriterClosed = errors.New("framing: writer is half-closed")
)

// TypeMismatchError is a writer-side validation fault: the writer is bound
// to a message type and was handed something else. It sits outside the
// status taxonomy; the dispatcher remaps it to INTERNAL before it can reach
// the wire.
type TypeMismatchError struct {
	Want reflect.Type
	Got  reflect.Type
}

// Error implements the error interface.
func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("framing: message type mismatch: want %v, got %v", e.Want, e.Got)
}

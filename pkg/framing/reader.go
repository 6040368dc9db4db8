package framing

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"iter"

	"google.golang.org/grpc/codes"

	"github.com/grpcwire/grpcwire/pkg/codec"
	"github.com/grpcwire/grpcwire/pkg/status"
)

// headerSize is the fixed frame prefix: 1 compression-flag byte plus a
// 4-byte big-endian payload length.
const headerSize = 5

// Reader reassembles length-prefixed frames from a chunked byte source into
// decoded messages. Reads are strictly ordered and single-pass. A Reader is
// confined to one call and is not safe for concurrent use.
type Reader struct {
	src      io.Reader
	encoding string
	cdc      codec.Codec
	next     func() any
	maxSize  int
	closed   bool
	done     bool
}

// ReaderOption configures a Reader.
type ReaderOption func(*Reader)

// WithReaderEncoding sets the negotiated message encoding. Frames with the
// compression flag set are decompressed with its inverse transform; an
// unrecognized name surfaces as an INTERNAL error at read time.
func WithReaderEncoding(name string) ReaderOption {
	return func(r *Reader) { r.encoding = name }
}

// WithReaderMessage binds the reader to a message type: every payload is
// decoded through cdc into a fresh instance from next. Without this option
// the reader yields raw payload bytes.
func WithReaderMessage(cdc codec.Codec, next func() any) ReaderOption {
	return func(r *Reader) {
		r.cdc = cdc
		r.next = next
	}
}

// WithReaderMaxSize caps the decompressed-before, on-wire payload size.
// Oversized frames surface as RESOURCE_EXHAUSTED. Zero means no cap.
func WithReaderMaxSize(n int) ReaderOption {
	return func(r *Reader) { r.maxSize = n }
}

// NewReader wraps a byte source. If src implements io.Closer it is closed
// exactly once when the stream ends cleanly or Close is called.
func NewReader(src io.Reader, opts ...ReaderOption) *Reader {
	r := &Reader{src: src}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Next blocks until a whole frame is available and returns its decoded
// message, or the raw payload bytes when no message type is bound.
//
// A clean boundary between frames (no bytes of a new frame consumed) ends
// the stream with io.EOF and closes the source. EOF mid-prefix or
// mid-payload is a protocol violation reported as ErrTruncated, never as a
// silent end of stream.
func (r *Reader) Next() (any, error) {
	if r.done {
		return nil, io.EOF
	}

	var header [headerSize]byte
	if _, err := io.ReadFull(r.src, header[:]); err != nil {
		if errors.Is(err, io.EOF) {
			// Clean boundary: no bytes of a new frame consumed.
			r.done = true
			if cerr := r.closeSource(); cerr != nil {
				return nil, cerr
			}
			return nil, io.EOF
		}
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, fmt.Errorf("%w: stream ended mid-prefix", ErrTruncated)
		}
		return nil, err
	}

	flag := header[0]
	if flag > 1 {
		return nil, status.Internal("framing: invalid compression flag %#x", flag)
	}
	length := binary.BigEndian.Uint32(header[1:])
	if r.maxSize > 0 && length > uint32(r.maxSize) {
		return nil, status.Newf(codes.ResourceExhausted,
			"framing: frame of %d bytes exceeds limit of %d", length, r.maxSize)
	}

	payload := make([]byte, length)
	if _, err := io.ReadFull(r.src, payload); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, fmt.Errorf("%w: stream ended mid-payload, want %d bytes", ErrTruncated, length)
		}
		return nil, err
	}

	if flag == 1 {
		enc, ok := LookupEncoding(r.encoding)
		if !ok {
			return nil, status.Internal("framing: unrecognized message encoding %q", r.encoding)
		}
		if enc == nil {
			return nil, status.Internal("framing: compressed frame with identity encoding")
		}
		decoded, err := enc.Decompress(payload)
		if err != nil {
			return nil, status.Internal("framing: decompress: %v", err)
		}
		payload = decoded
	}

	if r.cdc == nil {
		// Binary passthrough.
		return payload, nil
	}

	msg := r.next()
	if err := r.cdc.Unmarshal(payload, msg); err != nil {
		return nil, status.Internal("framing: decode: %v", err)
	}
	return msg, nil
}

// Messages exposes the stream as a lazy, single-pass sequence. Iteration
// stops after a clean end of stream; any other failure is yielded once with
// a nil message and then ends the sequence.
func (r *Reader) Messages() iter.Seq2[any, error] {
	return func(yield func(any, error) bool) {
		for {
			msg, err := r.Next()
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				yield(nil, err)
				return
			}
			if !yield(msg, nil) {
				return
			}
		}
	}
}

// Close ends the stream and closes the underlying source, if closable,
// exactly once. Subsequent Next calls return io.EOF.
func (r *Reader) Close() error {
	r.done = true
	return r.closeSource()
}

// closeSource closes the byte source on first call only.
func (r *Reader) closeSource() error {
	if r.closed {
		return nil
	}
	r.closed = true
	if c, ok := r.src.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

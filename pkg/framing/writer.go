package framing

import (
	"encoding/binary"
	"io"
	"reflect"

	"github.com/grpcwire/grpcwire/pkg/codec"
	"github.com/grpcwire/grpcwire/pkg/status"
)

// Writer serializes messages into length-prefixed, optionally compressed
// frames on a byte sink. Writes are strictly ordered; each frame is handed
// to the sink in a single call so frames from one writer never interleave.
// A Writer is confined to one call and is not safe for concurrent use.
type Writer struct {
	dst      io.Writer
	encoding string
	cdc      codec.Codec
	msgType  reflect.Type
	closed   bool
}

// WriterOption configures a Writer.
type WriterOption func(*Writer)

// WithWriterEncoding sets the configured message encoding. Anything but
// identity (or the empty name) compresses frames by default; per-write
// overrides still apply.
func WithWriterEncoding(name string) WriterOption {
	return func(w *Writer) { w.encoding = name }
}

// WithWriterMessage binds the writer to the message type of prototype,
// encoded through cdc. Non-raw input of any other type fails with a
// TypeMismatchError.
func WithWriterMessage(cdc codec.Codec, prototype any) WriterOption {
	return func(w *Writer) {
		w.cdc = cdc
		w.msgType = reflect.TypeOf(prototype)
	}
}

// NewWriter wraps a byte sink.
func NewWriter(dst io.Writer, opts ...WriterOption) *Writer {
	w := &Writer{dst: dst}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// WriteOption adjusts a single Write call.
type WriteOption func(*writeConfig)

type writeConfig struct {
	compress    bool
	compressSet bool
}

// Compressed overrides the writer's derived compression decision for one
// frame.
func Compressed(on bool) WriteOption {
	return func(c *writeConfig) {
		c.compress = on
		c.compressSet = true
	}
}

// Write frames and emits one message. Raw []byte input bypasses encoding;
// anything else must match the bound message type and is encoded through the
// writer's codec.
func (w *Writer) Write(msg any, opts ...WriteOption) error {
	if w.closed {
		return ErrWriterClosed
	}

	var cfg writeConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	payload, raw := msg.([]byte)
	if !raw {
		if w.msgType != nil && reflect.TypeOf(msg) != w.msgType {
			return &TypeMismatchError{Want: w.msgType, Got: reflect.TypeOf(msg)}
		}
		if w.cdc == nil {
			return &TypeMismatchError{Want: reflect.TypeOf([]byte(nil)), Got: reflect.TypeOf(msg)}
		}
		encoded, err := w.cdc.Marshal(msg)
		if err != nil {
			return status.Internal("framing: encode: %v", err)
		}
		payload = encoded
	}

	compress := w.compressByDefault()
	if cfg.compressSet {
		compress = cfg.compress
	}

	var flag byte
	if compress {
		enc, ok := LookupEncoding(w.encoding)
		if !ok {
			return status.Internal("framing: unrecognized message encoding %q", w.encoding)
		}
		if enc != nil {
			compressed, err := enc.Compress(payload)
			if err != nil {
				return status.Internal("framing: compress: %v", err)
			}
			payload = compressed
			flag = 1
		}
	}

	// One buffer, one sink write: the frame is appended atomically.
	frame := make([]byte, headerSize+len(payload))
	frame[0] = flag
	binary.BigEndian.PutUint32(frame[1:headerSize], uint32(len(payload)))
	copy(frame[headerSize:], payload)

	_, err := w.dst.Write(frame)
	return err
}

// CloseSend half-closes the write side: no further frames will be emitted.
// It does not touch the sink or the read side of the call.
func (w *Writer) CloseSend() error {
	w.closed = true
	return nil
}

// Closed reports whether CloseSend has been called.
func (w *Writer) Closed() bool {
	return w.closed
}

// compressByDefault derives the compression decision from the configured
// encoding: anything but identity or absent triggers compression.
func (w *Writer) compressByDefault() bool {
	return w.encoding != "" && w.encoding != EncodingIdentity
}

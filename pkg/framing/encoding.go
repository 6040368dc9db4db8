package framing

import (
	"bytes"
	"fmt"
	"io"
	"sync"

	"github.com/klauspost/compress/gzip"
)

// Encoding names with built-in support.
const (
	// EncodingIdentity is the no-op encoding; frames carry it with the
	// compression flag unset.
	EncodingIdentity = "identity"

	// EncodingGzip is RFC 1952 gzip compression.
	EncodingGzip = "gzip"
)

// Encoding transforms frame payloads. Implementations must be safe for
// concurrent use; one instance serves every call.
type Encoding interface {
	// Name is the value transmitted in the message-encoding metadata.
	Name() string

	// Compress applies the forward transform.
	Compress(payload []byte) ([]byte, error)

	// Decompress applies the inverse transform.
	Decompress(payload []byte) ([]byte, error)
}

var (
	encodingsMu sync.RWMutex
	encodings   = map[string]Encoding{
		EncodingGzip: gzipEncoding{},
	}
)

// RegisterEncoding makes a custom encoding available to readers and writers
// by name. Registration is expected at init time, before traffic flows.
func RegisterEncoding(enc Encoding) {
	encodingsMu.Lock()
	defer encodingsMu.Unlock()
	encodings[enc.Name()] = enc
}

// LookupEncoding resolves an encoding name. The empty name and "identity"
// resolve to no encoding at all (nil, true).
func LookupEncoding(name string) (Encoding, bool) {
	if name == "" || name == EncodingIdentity {
		return nil, true
	}
	encodingsMu.RLock()
	defer encodingsMu.RUnlock()
	enc, ok := encodings[name]
	return enc, ok
}

// gzipEncoding implements Encoding with klauspost/compress.
type gzipEncoding struct{}

func (gzipEncoding) Name() string { return EncodingGzip }

func (gzipEncoding) Compress(payload []byte) ([]byte, error) {
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write(payload); err != nil {
		return nil, fmt.Errorf("gzip compress: %w", err)
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("gzip compress: %w", err)
	}
	return buf.Bytes(), nil
}

func (gzipEncoding) Decompress(payload []byte) ([]byte, error) {
	zr, err := gzip.NewReader(bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("gzip decompress: %w", err)
	}
	defer zr.Close()
	out, err := io.ReadAll(zr)
	if err != nil {
		return nil, fmt.Errorf("gzip decompress: %w", err)
	}
	return out, nil
}

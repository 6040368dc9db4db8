// Package codec defines the message serialization contract of the wire
// layer and its built-in implementations.
//
// Any serializer can participate by implementing Codec; the framing layer
// never inspects payload bytes itself. Proto is the codec used for standard
// gRPC traffic; JSON exists for descriptor-less services and tests.
package codec

import (
	"encoding/json"
	"fmt"

	"google.golang.org/protobuf/proto"
)

// Codec turns messages into payload bytes and back. Implementations must be
// safe for concurrent use; the same codec instance is shared across calls.
type Codec interface {
	// Marshal encodes v into payload bytes.
	Marshal(v any) ([]byte, error)

	// Unmarshal decodes data into v, which must be a pointer.
	Unmarshal(data []byte, v any) error

	// Name identifies the codec in content-type subtypes
	// (e.g. "proto" in "application/grpc+proto").
	Name() string
}

// Proto is a Codec backed by google.golang.org/protobuf. Values must
// implement proto.Message.
type Proto struct{}

// Marshal implements Codec.
func (Proto) Marshal(v any) ([]byte, error) {
	m, ok := v.(proto.Message)
	if !ok {
		return nil, fmt.Errorf("codec/proto: %T does not implement proto.Message", v)
	}
	return proto.Marshal(m)
}

// Unmarshal implements Codec.
func (Proto) Unmarshal(data []byte, v any) error {
	m, ok := v.(proto.Message)
	if !ok {
		return fmt.Errorf("codec/proto: %T does not implement proto.Message", v)
	}
	return proto.Unmarshal(data, m)
}

// Name implements Codec.
func (Proto) Name() string { return "proto" }

// JSON is a Codec backed by encoding/json.
type JSON struct{}

// Marshal implements Codec.
func (JSON) Marshal(v any) ([]byte, error) { return json.Marshal(v) }

// Unmarshal implements Codec.
func (JSON) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }

// Name implements Codec.
func (JSON) Name() string { return "json" }

// Interface compliance checks.
var (
	_ Codec = Proto{}
	_ Codec = JSON{}
)

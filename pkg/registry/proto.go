package registry

import (
	"reflect"

	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/types/dynamicpb"
)

// FromServiceDescriptor builds a registry from a protobuf service
// descriptor. Request and response messages are constructed dynamically from
// their message descriptors, so no generated code is required.
func FromServiceDescriptor(sd protoreflect.ServiceDescriptor) (*Registry, error) {
	reg := New(string(sd.FullName()))

	methods := sd.Methods()
	for i := 0; i < methods.Len(); i++ {
		m := methods.Get(i)
		rpc := RPC{
			Name:         string(m.Name()),
			RequestType:  reflect.TypeOf(&dynamicpb.Message{}),
			ResponseType: reflect.TypeOf(&dynamicpb.Message{}),
			NewRequest:   dynamicFactory(m.Input()),
			NewResponse:  dynamicFactory(m.Output()),
			Shape:        shapeOf(m),
		}
		if err := reg.RegisterRPC(rpc); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

func dynamicFactory(md protoreflect.MessageDescriptor) func() any {
	return func() any { return dynamicpb.NewMessage(md) }
}

func shapeOf(m protoreflect.MethodDescriptor) Shape {
	switch {
	case m.IsStreamingClient() && m.IsStreamingServer():
		return Bidirectional
	case m.IsStreamingClient():
		return ClientStreaming
	case m.IsStreamingServer():
		return ServerStreaming
	default:
		return Unary
	}
}

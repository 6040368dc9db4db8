package dispatch

import (
	"fmt"

	"github.com/grpcwire/grpcwire/pkg/call"
	"github.com/grpcwire/grpcwire/pkg/codec"
	"github.com/grpcwire/grpcwire/pkg/registry"
)

// UnaryHandler implements a unary RPC: one request message in, one response
// message out. Returning an error carrying a status code maps 1:1 to that
// code on the wire; any other error maps to INTERNAL.
type UnaryHandler func(ctx *call.Context, req any) (any, error)

// StreamHandler implements a streaming RPC of any shape over a Stream.
type StreamHandler func(ctx *call.Context, stream *Stream) error

// Service pairs a registry of RPC contracts with the implementations bound
// to them. Bind implementations at construction time; a Service is read-only
// while serving.
type Service struct {
	reg    *registry.Registry
	cdc    codec.Codec
	unary  map[string]UnaryHandler
	stream map[string]StreamHandler
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithCodec sets the message codec; the default is the proto codec.
func WithCodec(cdc codec.Codec) ServiceOption {
	return func(s *Service) { s.cdc = cdc }
}

// NewService wraps a registry.
func NewService(reg *registry.Registry, opts ...ServiceOption) *Service {
	s := &Service{
		reg:    reg,
		cdc:    codec.Proto{},
		unary:  make(map[string]UnaryHandler),
		stream: make(map[string]StreamHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the service's wire name.
func (s *Service) Name() string {
	return s.reg.Service()
}

// Registry returns the declared RPC contracts.
func (s *Service) Registry() *registry.Registry {
	return s.reg
}

// Unary binds a unary implementation. The name may be the wire name or the
// local method alias; the declared shape must be unary.
func (s *Service) Unary(name string, h UnaryHandler) error {
	rpc, err := s.resolve(name)
	if err != nil {
		return err
	}
	if rpc.Shape != registry.Unary {
		return fmt.Errorf("%w: %s is %s", ErrShapeMismatch, rpc.Name, rpc.Shape)
	}
	if _, dup := s.unary[rpc.Name]; dup {
		return fmt.Errorf("%w: %s", ErrDuplicateHandler, rpc.Name)
	}
	s.unary[rpc.Name] = h
	return nil
}

// Stream binds a streaming implementation to a client-streaming,
// server-streaming, or bidirectional RPC.
func (s *Service) Stream(name string, h StreamHandler) error {
	rpc, err := s.resolve(name)
	if err != nil {
		return err
	}
	if rpc.Shape == registry.Unary {
		return fmt.Errorf("%w: %s is unary", ErrShapeMismatch, rpc.Name)
	}
	if _, dup := s.stream[rpc.Name]; dup {
		return fmt.Errorf("%w: %s", ErrDuplicateHandler, rpc.Name)
	}
	s.stream[rpc.Name] = h
	return nil
}

// resolve finds an RPC by wire name first, then by alias.
func (s *Service) resolve(name string) (registry.RPC, error) {
	if rpc, ok := s.reg.Lookup(name); ok {
		return rpc, nil
	}
	if rpc, ok := s.reg.LookupAlias(name); ok {
		return rpc, nil
	}
	return registry.RPC{}, fmt.Errorf("%w: %s", ErrUnknownRPC, name)
}

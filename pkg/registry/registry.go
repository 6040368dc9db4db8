package registry

import (
	"errors"
	"fmt"
	"reflect"
)

// Registration errors.
var (
	// ErrEmptyName is returned when an RPC is registered without a wire name.
	ErrEmptyName = errors.New("registry: rpc name must not be empty")

	// ErrDuplicateRPC is returned when a name is registered twice in the
	// same registry. Overriding an ancestor's definition is done in a child
	// registry, not by re-registering.
	ErrDuplicateRPC = errors.New("registry: rpc already registered")

	// ErrNilMessage is returned when a request or response prototype is nil.
	ErrNilMessage = errors.New("registry: request and response prototypes must not be nil")
)

// Shape is the cardinality contract of a call.
type Shape int

// Streaming shapes.
const (
	Unary Shape = iota
	ClientStreaming
	ServerStreaming
	Bidirectional
)

// String returns the shape's wire-level label.
func (s Shape) String() string {
	switch s {
	case ClientStreaming:
		return "client_streaming"
	case ServerStreaming:
		return "server_streaming"
	case Bidirectional:
		return "bidirectional"
	default:
		return "unary"
	}
}

// RPC describes one method contract. Descriptors are immutable once
// registered.
type RPC struct {
	// Name is the wire name, capitalization preserved exactly as declared.
	Name string

	// Alias is the lowercase-underscore local form of Name, used to bind
	// handler implementations.
	Alias string

	// RequestType and ResponseType identify the bound message types.
	RequestType  reflect.Type
	ResponseType reflect.Type

	// NewRequest and NewResponse construct fresh message instances for
	// decoding and encoding.
	NewRequest  func() any
	NewResponse func() any

	// Shape is the streaming shape of the call.
	Shape Shape
}

// Registry holds the RPC contracts of one service.
type Registry struct {
	service string
	parent  *Registry
	rpcs    map[string]RPC
	order   []string
}

// Option configures a Registry at construction.
type Option func(*Registry)

// WithParent chains the new registry under parent: lookups fall through to
// it, and same-name registrations here replace its definitions.
func WithParent(parent *Registry) Option {
	return func(r *Registry) { r.parent = parent }
}

// New creates a registry for the named service.
func New(service string, opts ...Option) *Registry {
	r := &Registry{
		service: service,
		rpcs:    make(map[string]RPC),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Service returns the declared service name.
func (r *Registry) Service() string {
	return r.service
}

// RegisterOption adjusts a single registration.
type RegisterOption func(*RPC)

// WithShape sets the streaming shape; the default is unary.
func WithShape(s Shape) RegisterOption {
	return func(rpc *RPC) { rpc.Shape = s }
}

// WithAlias overrides the derived method alias.
func WithAlias(alias string) RegisterOption {
	return func(rpc *RPC) { rpc.Alias = alias }
}

// Register declares an RPC from request/response prototypes, deriving the
// message factories by reflection. The prototypes must be pointers (or other
// reference-constructible values); descriptor-backed messages that cannot be
// built by reflection go through RegisterRPC with explicit factories.
func (r *Registry) Register(name string, request, response any, opts ...RegisterOption) error {
	if request == nil || response == nil {
		return ErrNilMessage
	}
	rpc := RPC{
		Name:         name,
		RequestType:  reflect.TypeOf(request),
		ResponseType: reflect.TypeOf(response),
		NewRequest:   factoryFor(reflect.TypeOf(request)),
		NewResponse:  factoryFor(reflect.TypeOf(response)),
	}
	for _, opt := range opts {
		opt(&rpc)
	}
	return r.RegisterRPC(rpc)
}

// RegisterRPC declares a fully specified RPC. An empty alias is derived from
// the wire name.
func (r *Registry) RegisterRPC(rpc RPC) error {
	if rpc.Name == "" {
		return ErrEmptyName
	}
	if _, dup := r.rpcs[rpc.Name]; dup {
		return fmt.Errorf("%w: %s", ErrDuplicateRPC, rpc.Name)
	}
	if rpc.Alias == "" {
		rpc.Alias = MethodAlias(rpc.Name)
	}
	r.rpcs[rpc.Name] = rpc
	r.order = append(r.order, rpc.Name)
	return nil
}

// Lookup resolves a wire name through the parent chain: the current
// definition first, then the ancestors, first match wins.
func (r *Registry) Lookup(name string) (RPC, bool) {
	for reg := r; reg != nil; reg = reg.parent {
		if rpc, ok := reg.rpcs[name]; ok {
			return rpc, true
		}
	}
	return RPC{}, false
}

// LookupAlias resolves a local method alias through the parent chain.
func (r *Registry) LookupAlias(alias string) (RPC, bool) {
	for reg := r; reg != nil; reg = reg.parent {
		for _, name := range reg.order {
			if reg.rpcs[name].Alias == alias {
				return reg.rpcs[name], true
			}
		}
	}
	return RPC{}, false
}

// RPCs returns the flattened, override-resolved contract set across the
// chain. Ancestor declarations come first, in registration order; a
// descendant redefinition replaces the ancestor's in place.
func (r *Registry) RPCs() []RPC {
	var chain []*Registry
	for reg := r; reg != nil; reg = reg.parent {
		chain = append(chain, reg)
	}

	var flat []RPC
	index := make(map[string]int)
	for i := len(chain) - 1; i >= 0; i-- {
		for _, name := range chain[i].order {
			rpc := chain[i].rpcs[name]
			if at, seen := index[name]; seen {
				flat[at] = rpc
				continue
			}
			index[name] = len(flat)
			flat = append(flat, rpc)
		}
	}
	return flat
}

// Path returns the wire path for a method: "/" + service + "/" + name,
// unescaped, casing preserved exactly as declared.
func (r *Registry) Path(name string) string {
	return "/" + r.service + "/" + name
}

// factoryFor builds new message instances of typ. Pointer types get a fresh
// pointee; anything else gets its zero value.
func factoryFor(typ reflect.Type) func() any {
	if typ.Kind() == reflect.Ptr {
		elem := typ.Elem()
		return func() any { return reflect.New(elem).Interface() }
	}
	return func() any { return reflect.Zero(typ).Interface() }
}

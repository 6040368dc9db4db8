package dispatch

import "errors"

// Service binding errors.
var (
	// ErrUnknownRPC is returned when binding an implementation to a name
	// the service's registry does not declare.
	ErrUnknownRPC = errors.New("dispatch: rpc not declared in registry")

	// ErrShapeMismatch is returned when a handler kind does not match the
	// declared streaming shape.
	ErrShapeMismatch = errors.New("dispatch: handler does not match rpc streaming shape")

	// ErrDuplicateService is returned when two services register under the
	// same name.
	ErrDuplicateService = errors.New("dispatch: service already registered")

	// ErrDuplicateHandler is returned when a method is bound twice.
	ErrDuplicateHandler = errors.New("dispatch: handler already bound")
)

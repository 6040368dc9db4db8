// Package schema compiles Protocol Buffer definition files into RPC
// registries, so services can be declared in .proto form without generated
// code.
package schema

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sort"

	"github.com/bufbuild/protocompile"
	"google.golang.org/protobuf/reflect/protoreflect"

	"github.com/grpcwire/grpcwire/pkg/registry"
)

// ErrNoProtoFiles is returned when Compile is called with no paths.
var ErrNoProtoFiles = errors.New("schema: no proto files provided")

// Schema is the compiled view of one or more .proto files: their file
// descriptors plus a ready-made registry per declared service.
type Schema struct {
	files      []protoreflect.FileDescriptor
	registries map[string]*registry.Registry
}

// Compile parses and links .proto files. importPaths lists directories to
// search for imports, like protoc's -I flag; the directories of the input
// files themselves are always searched.
func Compile(ctx context.Context, paths []string, importPaths []string) (*Schema, error) {
	if len(paths) == 0 {
		return nil, ErrNoProtoFiles
	}

	search := make([]string, 0, len(importPaths)+len(paths))
	search = append(search, importPaths...)
	for _, p := range paths {
		search = append(search, filepath.Dir(p))
	}

	compiler := protocompile.Compiler{
		Resolver: protocompile.WithStandardImports(&protocompile.SourceResolver{
			ImportPaths: search,
		}),
	}

	compiled, err := compiler.Compile(ctx, paths...)
	if err != nil {
		return nil, fmt.Errorf("schema: compile: %w", err)
	}

	s := &Schema{
		files:      make([]protoreflect.FileDescriptor, 0, len(compiled)),
		registries: make(map[string]*registry.Registry),
	}
	for _, file := range compiled {
		s.files = append(s.files, file)

		services := file.Services()
		for i := 0; i < services.Len(); i++ {
			sd := services.Get(i)
			reg, err := registry.FromServiceDescriptor(sd)
			if err != nil {
				return nil, fmt.Errorf("schema: service %s: %w", sd.FullName(), err)
			}
			s.registries[string(sd.FullName())] = reg
		}
	}
	return s, nil
}

// Registry returns the registry for a fully qualified service name, or nil.
func (s *Schema) Registry(name string) *registry.Registry {
	return s.registries[name]
}

// Registries returns every service registry, ordered by service name.
func (s *Schema) Registries() []*registry.Registry {
	regs := make([]*registry.Registry, 0, len(s.registries))
	for _, name := range s.Services() {
		regs = append(regs, s.registries[name])
	}
	return regs
}

// Services returns the fully qualified service names in sorted order.
func (s *Schema) Services() []string {
	names := make([]string, 0, len(s.registries))
	for name := range s.registries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Files returns the compiled file descriptors.
func (s *Schema) Files() []protoreflect.FileDescriptor {
	return s.files
}

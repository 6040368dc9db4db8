// Package registry declares RPC contracts: for each method its wire name,
// local alias, request/response types, and streaming shape.
//
// A Registry is an explicit value owned by whoever constructs the service
// definition and handed to the dispatcher; nothing is looked up via type
// identity or inherited live. Refinement works through a single-parent chain
// of registries: Lookup searches the current definition first, then the
// ancestors, and a same-name redefinition in a descendant fully replaces the
// inherited one. Once built, a Registry is immutable and safe for concurrent
// lookup.
package registry

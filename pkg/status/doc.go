// Package status implements the status and trailer metadata protocol of the
// wire layer.
//
// An RPC outcome is a numeric code from the fixed gRPC table (see
// google.golang.org/grpc/codes) plus an optional percent-encoded message and
// optional diagnostic data. Exactly one status is delivered per call, either
// as initial headers (trailers-only responses) or as trailers after the body
// frames.
//
// Error is the protocol-level error type carried across the dispatch
// boundary. Named constructors (NotFound, Internal, ...) fix the code and
// add no behavior beyond it.
package status

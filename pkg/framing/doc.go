// Package framing implements the length-prefixed message framing of the
// wire protocol.
//
// Each frame is 5 header bytes followed by the payload: byte 0 is the
// compression flag (0 or 1), bytes 1-4 are the payload length as a
// big-endian uint32. A Reader reassembles frames from a chunked byte source
// into decoded messages; a Writer serializes messages into frames on a byte
// sink. Compression is pluggable per encoding name, with identity and gzip
// built in.
//
// Readers and writers are single-call-scoped: frames are read and written in
// strict order and neither type is safe for concurrent use.
package framing

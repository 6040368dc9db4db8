// Package headers implements the ordered header/trailer container used by
// the wire-protocol layer.
//
// A Container is an ordered multimap of metadata entries with a
// trailers-begin mark. Entries added before the mark are initial headers,
// entries added after it are trailers; key lookup transparently merges both
// regions. Each key carries a trailer-eligibility policy: by default only
// keys explicitly declared with AllowTrailers may appear in the trailer
// section of a response.
//
// Containers are not safe for concurrent mutation; each is confined to the
// call that owns it.
package headers

// Package call holds per-call state: request metadata, deadline,
// cancellation, and peer identity.
//
// A Context is created once per inbound call and destroyed with it. Deadline
// expiry and cancellation are advisory at this layer: handlers and the
// surrounding transport poll them, nothing here aborts in-flight reads or
// writes. A Context is confined to its owning call; only Cancel and
// Cancelled are safe to use across goroutines.
package call

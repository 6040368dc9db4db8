package call

import (
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/grpcwire/grpcwire/pkg/headers"
)

// Context is the per-call state of one inbound RPC.
type Context struct {
	id   string
	peer string

	header http.Header
	mdOnce sync.Once
	md     *headers.Container

	deadline    time.Time
	hasDeadline bool

	cancelled atomic.Bool
}

// Option configures a Context at construction.
type Option func(*Context)

// WithDeadline sets an absolute deadline, overriding any transport-supplied
// timeout.
func WithDeadline(t time.Time) Option {
	return func(c *Context) {
		c.deadline = t
		c.hasDeadline = true
	}
}

// FromRequest builds the call context for an inbound request. The deadline
// is taken from the grpc-timeout header when present; peer identity comes
// from the transport's remote address.
func FromRequest(r *http.Request, opts ...Option) *Context {
	c := &Context{
		id:     uuid.NewString(),
		peer:   r.RemoteAddr,
		header: r.Header,
	}
	if raw := r.Header.Get(TimeoutKey); raw != "" {
		if d, err := ParseTimeout(raw); err == nil {
			c.deadline = time.Now().Add(d)
			c.hasDeadline = true
		}
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ID returns the unique identifier assigned to this call.
func (c *Context) ID() string {
	return c.id
}

// Metadata returns the call metadata, computed lazily from the inbound
// headers on first use and cached for the life of the call.
func (c *Context) Metadata() *headers.Container {
	c.mdOnce.Do(func() {
		c.md = headers.FromHTTP(c.header)
	})
	return c.md
}

// Deadline returns the absolute deadline, if one was supplied.
func (c *Context) Deadline() (time.Time, bool) {
	return c.deadline, c.hasDeadline
}

// DeadlineExceeded reports whether the deadline has passed. A call without a
// deadline never expires.
func (c *Context) DeadlineExceeded() bool {
	return c.hasDeadline && !time.Now().Before(c.deadline)
}

// TimeRemaining returns the time left before the deadline, floored at zero.
// The second result is false when no deadline was supplied.
func (c *Context) TimeRemaining() (time.Duration, bool) {
	if !c.hasDeadline {
		return 0, false
	}
	rem := time.Until(c.deadline)
	if rem < 0 {
		rem = 0
	}
	return rem, true
}

// Cancel marks the call cancelled. Cancellation is one-way and advisory.
func (c *Context) Cancel() {
	c.cancelled.Store(true)
}

// Cancelled reports whether Cancel has been called.
func (c *Context) Cancelled() bool {
	return c.cancelled.Load()
}

// Peer returns the transport-supplied peer address, or "" when the
// transport provided none.
func (c *Context) Peer() string {
	return c.peer
}

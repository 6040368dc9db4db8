package dispatch

import (
	"net/http"

	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"

	"github.com/grpcwire/grpcwire/pkg/call"
	"github.com/grpcwire/grpcwire/pkg/framing"
	"github.com/grpcwire/grpcwire/pkg/headers"
	"github.com/grpcwire/grpcwire/pkg/httputil"
	"github.com/grpcwire/grpcwire/pkg/status"
)

// Stream is the handler-facing view of one call: ordered message receive
// from the request body and ordered message send onto the response. It is
// confined to the call's goroutine.
type Stream struct {
	ctx    *call.Context
	reader *framing.Reader
	writer *framing.Writer
	rep    *reply
	w      http.ResponseWriter
}

// Context returns the per-call state.
func (s *Stream) Context() *call.Context {
	return s.ctx
}

// Recv returns the next inbound message. io.EOF signals the client finished
// sending; a truncated or malformed frame surfaces as an error.
func (s *Stream) Recv() (any, error) {
	return s.reader.Next()
}

// Send frames and emits one response message. The first send commits the
// response to the normal (non-trailers-only) shape.
func (s *Stream) Send(msg any) error {
	s.rep.start()
	if err := s.writer.Write(msg); err != nil {
		return err
	}
	httputil.Flush(s.w)
	return nil
}

// reply tracks the state of one response: its metadata container and
// whether the header section has been committed. The response shape is
// decided by whether any body frame was written before the status.
type reply struct {
	w       http.ResponseWriter
	md      *headers.Container
	started bool
}

func newReply(w http.ResponseWriter) *reply {
	md := headers.New()
	status.Reserve(md)
	md.Set("content-type", MediaTypePrefix)
	return &reply{w: w, md: md}
}

// start commits the header section with a 200 status. Idempotent.
func (r *reply) start() {
	if r.started {
		return
	}
	r.started = true
	httputil.ApplyHeaders(r.w, r.md)
	r.w.WriteHeader(http.StatusOK)
}

// close delivers the status record. Before any body frame it produces a
// trailers-only response: status as ordinary initial headers, no body.
// After body frames it appends the status past the trailers-begin mark and
// emits it as HTTP trailers. Either way the outer transport status is 200.
func (r *reply) close(code codes.Code, message string, debug *errdetails.DebugInfo, meta *headers.Container) {
	if r.started {
		r.md.MarkTrailersBegin()
	}
	if meta != nil {
		meta.Each(func(key, value string, _ bool) {
			r.md.Add(key, value)
		})
	}
	status.Annotate(r.md, code, message, debug)
	if !r.started {
		r.started = true
		httputil.ApplyHeaders(r.w, r.md)
		r.w.WriteHeader(http.StatusOK)
		return
	}
	httputil.ApplyTrailers(r.w, r.md)
}

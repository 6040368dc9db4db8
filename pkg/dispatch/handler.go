package dispatch

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"google.golang.org/grpc/codes"

	"github.com/grpcwire/grpcwire/pkg/call"
	"github.com/grpcwire/grpcwire/pkg/framing"
	"github.com/grpcwire/grpcwire/pkg/logging"
	"github.com/grpcwire/grpcwire/pkg/registry"
	"github.com/grpcwire/grpcwire/pkg/status"
)

// MediaTypePrefix is the content-type prefix that makes a request
// applicable to this middleware. The match is case-sensitive.
const MediaTypePrefix = "application/grpc"

// Handler is the dispatch middleware. Register services before serving; a
// Handler is read-only while traffic flows and safe for concurrent calls.
type Handler struct {
	next     http.Handler
	services map[string]*Service
	log      *slog.Logger
	encoding string
	maxRecv  int
}

// Option configures a Handler.
type Option func(*Handler)

// WithNext sets the handler for requests outside the protocol's media type.
// Without it such requests get a plain 404.
func WithNext(next http.Handler) Option {
	return func(h *Handler) { h.next = next }
}

// WithLogger sets the operational logger.
func WithLogger(log *slog.Logger) Option {
	return func(h *Handler) {
		if log != nil {
			h.log = log
		}
	}
}

// WithEncoding sets the response message encoding, applied when the client
// advertises it in grpc-accept-encoding.
func WithEncoding(name string) Option {
	return func(h *Handler) { h.encoding = name }
}

// WithMaxRecvSize caps inbound frame payloads in bytes. Zero means no cap.
func WithMaxRecvSize(n int) Option {
	return func(h *Handler) { h.maxRecv = n }
}

// New creates a dispatch middleware.
func New(opts ...Option) *Handler {
	h := &Handler{
		services: make(map[string]*Service),
		log:      logging.Nop(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Register adds services to the routing table.
func (h *Handler) Register(svcs ...*Service) error {
	for _, svc := range svcs {
		name := svc.Name()
		if _, dup := h.services[name]; dup {
			return fmt.Errorf("%w: %s", ErrDuplicateService, name)
		}
		h.services[name] = svc
	}
	return nil
}

// ServeHTTP implements http.Handler. Every applicable request is answered
// with a well-formed status response; no fault escapes to the transport.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !strings.HasPrefix(r.Header.Get("Content-Type"), MediaTypePrefix) {
		if h.next != nil {
			h.next.ServeHTTP(w, r)
			return
		}
		http.NotFound(w, r)
		return
	}

	start := time.Now()
	ctx := call.FromRequest(r)
	rep := newReply(w)

	serr := h.serveRPC(ctx, rep, w, r)

	code := codes.OK
	if serr != nil {
		rep.close(serr.Code, serr.Message, serr.Debug, serr.Meta)
		code = serr.Code
	} else {
		rep.close(codes.OK, "", nil, nil)
	}

	h.log.Info("rpc completed",
		"path", r.URL.Path,
		"code", code.String(),
		"duration", time.Since(start),
		"call_id", ctx.ID(),
		"peer", ctx.Peer(),
	)
}

// serveRPC routes and invokes one call, returning the failure status or nil
// on success.
func (h *Handler) serveRPC(ctx *call.Context, rep *reply, w http.ResponseWriter, r *http.Request) *status.Error {
	service, method, ok := splitWirePath(r.URL.Path)
	if !ok {
		return status.Unimplemented("malformed wire path %q", r.URL.Path)
	}

	svc, ok := h.services[service]
	if !ok {
		return status.Unimplemented("service %s not found", service)
	}

	rpc, ok := svc.reg.Lookup(method)
	if !ok {
		return status.Unimplemented("method %s not found", method)
	}

	respEncoding := h.responseEncoding(r)
	if respEncoding != "" {
		rep.md.Set("grpc-encoding", respEncoding)
	}

	reader := framing.NewReader(r.Body,
		framing.WithReaderMessage(svc.cdc, rpc.NewRequest),
		framing.WithReaderEncoding(r.Header.Get("grpc-encoding")),
		framing.WithReaderMaxSize(h.maxRecv),
	)
	writer := framing.NewWriter(w,
		framing.WithWriterMessage(svc.cdc, rpc.NewResponse()),
		framing.WithWriterEncoding(respEncoding),
	)
	stream := &Stream{ctx: ctx, reader: reader, writer: writer, rep: rep, w: w}

	if rpc.Shape == registry.Unary {
		hnd, bound := svc.unary[rpc.Name]
		if !bound {
			return status.Unimplemented("method %s not implemented", method)
		}
		return h.serveUnary(ctx, stream, hnd)
	}

	hnd, bound := svc.stream[rpc.Name]
	if !bound {
		return status.Unimplemented("method %s not implemented", method)
	}
	err := safely(func() error { return hnd(ctx, stream) })
	if err != nil {
		return translate(err)
	}
	return nil
}

// serveUnary reads the single request message, invokes the handler, and
// emits the single response message.
func (h *Handler) serveUnary(ctx *call.Context, stream *Stream, hnd UnaryHandler) *status.Error {
	req, err := stream.Recv()
	if errors.Is(err, io.EOF) {
		return status.InvalidArgument("missing request message")
	}
	if err != nil {
		return translate(err)
	}

	var resp any
	err = safely(func() error {
		var herr error
		resp, herr = hnd(ctx, req)
		return herr
	})
	if err != nil {
		return translate(err)
	}

	if err := stream.Send(resp); err != nil {
		return translate(err)
	}
	return nil
}

// translate converts any failure into a protocol status. A handler-raised
// error carrying an explicit code maps 1:1; the writer-side type-mismatch
// fault is remapped to INTERNAL before it can reach the wire; everything
// else maps to INTERNAL with the fault's text.
func translate(err error) *status.Error {
	var tme *framing.TypeMismatchError
	if errors.As(err, &tme) {
		return status.Internal("%s", tme.Error())
	}
	return status.Convert(err)
}

// safely invokes fn, converting a panic into an INTERNAL status carrying
// the stack trace as diagnostic data.
func safely(fn func() error) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = status.Internal("handler panic: %v", p).WithDiagnostics(stackLines()...)
		}
	}()
	return fn()
}

func stackLines() []string {
	raw := strings.Split(string(debug.Stack()), "\n")
	lines := raw[:0]
	for _, l := range raw {
		if strings.TrimSpace(l) != "" {
			lines = append(lines, l)
		}
	}
	return lines
}

// splitWirePath parses "/service/method". Exactly two non-empty segments
// after the leading slash are required.
func splitWirePath(path string) (service, method string, ok bool) {
	parts := strings.Split(path, "/")
	if len(parts) != 3 || parts[0] != "" || parts[1] == "" || parts[2] == "" {
		return "", "", false
	}
	return parts[1], parts[2], true
}

// responseEncoding picks the outbound encoding: the configured one when the
// client advertises support for it, identity otherwise.
func (h *Handler) responseEncoding(r *http.Request) string {
	if h.encoding == "" || h.encoding == framing.EncodingIdentity {
		return ""
	}
	for _, accepted := range strings.Split(r.Header.Get("grpc-accept-encoding"), ",") {
		if strings.TrimSpace(accepted) == h.encoding {
			return h.encoding
		}
	}
	return ""
}

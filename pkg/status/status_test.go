package status

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"

	"github.com/grpcwire/grpcwire/pkg/headers"
)

func TestEncodeMessage(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "plain ascii", in: "ok", want: "ok"},
		{name: "space", in: "Not found", want: "Not%20found"},
		{name: "percent", in: "100%", want: "100%25"},
		{name: "newline", in: "a\nb", want: "a%0Ab"},
		{name: "utf8 encoded bytewise", in: "é", want: "%C3%A9"},
		{name: "empty", in: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EncodeMessage(tt.in))
		})
	}
}

func TestDecodeMessage(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "plain", in: "ok", want: "ok"},
		{name: "space", in: "Not%20found", want: "Not found"},
		{name: "lowercase hex", in: "Not%20found%2c sorry", want: "Not found, sorry"},
		{name: "malformed escape passes through", in: "50%", want: "50%"},
		{name: "truncated escape passes through", in: "a%2", want: "a%2"},
		{name: "utf8", in: "%C3%A9", want: "é"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DecodeMessage(tt.in))
		})
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	for _, msg := range []string{"Not found", "déjà vu", "tab\tand\nnewline", "100% done"} {
		assert.Equal(t, msg, DecodeMessage(EncodeMessage(msg)), "round trip of %q", msg)
	}
}

func TestAnnotatePlacement(t *testing.T) {
	t.Run("before trailers mark writes initial headers", func(t *testing.T) {
		c := headers.New()
		Annotate(c, codes.NotFound, "Not found", nil)

		hdr := c.HTTPHeader()
		assert.Equal(t, "5", hdr.Get("grpc-status"))
		assert.Equal(t, "Not%20found", hdr.Get("grpc-message"))
	})

	t.Run("after trailers mark writes trailers", func(t *testing.T) {
		c := headers.New()
		c.MarkTrailersBegin()
		Annotate(c, codes.OK, "", nil)

		assert.Empty(t, c.HTTPHeader().Get("grpc-status"))
		assert.Equal(t, "0", c.HTTPTrailer().Get("grpc-status"))
	})
}

func TestAnnotateOmitsEmptyMessage(t *testing.T) {
	c := headers.New()
	Annotate(c, codes.OK, "", nil)

	assert.True(t, c.Has("grpc-status"))
	assert.False(t, c.Has("grpc-message"))
}

func TestAnnotateDiagnostics(t *testing.T) {
	debug := &errdetails.DebugInfo{
		StackEntries: []string{"frame one", "frame two"},
		Detail:       "boom",
	}

	c := headers.New()
	Annotate(c, codes.Internal, "boom", debug)

	assert.Equal(t, []string{"frame one", "frame two", "boom"}, c.Values("grpc-diagnostics"))
}

func TestAnnotateEmptyDiagnosticsOmitKey(t *testing.T) {
	c := headers.New()
	Annotate(c, codes.Internal, "boom", &errdetails.DebugInfo{})
	assert.False(t, c.Has("grpc-diagnostics"))

	c = headers.New()
	Annotate(c, codes.Internal, "boom", nil)
	assert.False(t, c.Has("grpc-diagnostics"))
}

func TestReservedKeysTrailerEligible(t *testing.T) {
	c := headers.New()
	Reserve(c)

	assert.True(t, c.TrailerEligible("grpc-status"))
	assert.True(t, c.TrailerEligible("grpc-message"))
	assert.False(t, c.TrailerEligible("grpc-diagnostics"))
	assert.False(t, c.TrailerEligible("x-custom"))
}

func TestCodeFrom(t *testing.T) {
	tests := []struct {
		name  string
		setup func(c *headers.Container)
		want  codes.Code
	}{
		{
			name:  "absent defaults to unknown",
			setup: func(c *headers.Container) {},
			want:  codes.Unknown,
		},
		{
			name:  "valid code",
			setup: func(c *headers.Container) { c.Set("grpc-status", "5") },
			want:  codes.NotFound,
		},
		{
			name:  "unparsable value",
			setup: func(c *headers.Container) { c.Set("grpc-status", "banana") },
			want:  codes.Unknown,
		},
		{
			name:  "out of range value",
			setup: func(c *headers.Container) { c.Set("grpc-status", "42") },
			want:  codes.Unknown,
		},
		{
			name: "found in trailers",
			setup: func(c *headers.Container) {
				c.MarkTrailersBegin()
				c.Set("grpc-status", "13")
			},
			want: codes.Internal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := headers.New()
			tt.setup(c)
			assert.Equal(t, tt.want, CodeFrom(c))
		})
	}
}

func TestMessageFrom(t *testing.T) {
	c := headers.New()
	_, ok := MessageFrom(c)
	assert.False(t, ok)

	c.Set("grpc-message", "Not%20found")
	got, ok := MessageFrom(c)
	require.True(t, ok)
	assert.Equal(t, "Not found", got)
}

func TestNamedConstructorsFixCode(t *testing.T) {
	tests := []struct {
		err  *Error
		want codes.Code
	}{
		{Cancelled("c"), codes.Canceled},
		{InvalidArgument("ia"), codes.InvalidArgument},
		{DeadlineExceeded("de"), codes.DeadlineExceeded},
		{NotFound("nf"), codes.NotFound},
		{Internal("i"), codes.Internal},
		{Unavailable("u"), codes.Unavailable},
		{Unauthenticated("ua"), codes.Unauthenticated},
		{Unimplemented("ui"), codes.Unimplemented},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.err.Code)
	}
}

func TestConvert(t *testing.T) {
	t.Run("nil", func(t *testing.T) {
		assert.Nil(t, Convert(nil))
	})

	t.Run("status error passes through", func(t *testing.T) {
		se := NotFound("x")
		assert.Same(t, se, Convert(se))
	})

	t.Run("wrapped status error is unwrapped", func(t *testing.T) {
		se := NotFound("x")
		got := Convert(fmt.Errorf("handler: %w", se))
		assert.Same(t, se, got)
	})

	t.Run("generic fault maps to internal", func(t *testing.T) {
		got := Convert(errors.New("disk on fire"))
		assert.Equal(t, codes.Internal, got.Code)
		assert.Equal(t, "disk on fire", got.Message)
	})
}

func TestErrorString(t *testing.T) {
	err := New(codes.NotFound, "x")
	assert.Equal(t, "rpc error: code = NotFound desc = x", err.Error())
}

func TestWithDiagnostics(t *testing.T) {
	err := Internal("boom").WithDiagnostics("a", "b")
	require.NotNil(t, err.Debug)
	assert.Equal(t, []string{"a", "b"}, err.Debug.GetStackEntries())

	// No entries leaves Debug untouched.
	err2 := Internal("boom").WithDiagnostics()
	assert.Nil(t, err2.Debug)
}

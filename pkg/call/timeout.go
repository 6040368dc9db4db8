package call

import (
	"errors"
	"fmt"
	"strconv"
	"time"
)

// TimeoutKey is the metadata key carrying the call timeout on the wire.
const TimeoutKey = "grpc-timeout"

// ErrInvalidTimeout is returned for a grpc-timeout value that does not
// follow the wire format: one to eight ASCII digits followed by a single
// unit letter.
var ErrInvalidTimeout = errors.New("call: invalid grpc-timeout value")

// ParseTimeout decodes a grpc-timeout header value into a duration. Units:
// H (hours), M (minutes), S (seconds), m (milliseconds), u (microseconds),
// n (nanoseconds).
func ParseTimeout(s string) (time.Duration, error) {
	if len(s) < 2 || len(s) > 9 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeout, s)
	}

	var unit time.Duration
	switch s[len(s)-1] {
	case 'H':
		unit = time.Hour
	case 'M':
		unit = time.Minute
	case 'S':
		unit = time.Second
	case 'm':
		unit = time.Millisecond
	case 'u':
		unit = time.Microsecond
	case 'n':
		unit = time.Nanosecond
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeout, s)
	}

	n, err := strconv.ParseUint(s[:len(s)-1], 10, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeout, s)
	}
	return time.Duration(n) * unit, nil
}

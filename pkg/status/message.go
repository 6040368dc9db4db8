package status

import "strings"

const hexdigits = "0123456789ABCDEF"

// EncodeMessage percent-encodes a status message for transmission. Every
// byte outside the printable ASCII range 0x21..0x7E, plus '%' itself, is
// written as %XX; in particular a space becomes "%20". Multi-byte UTF-8
// sequences are encoded byte by byte.
func EncodeMessage(msg string) string {
	for i := 0; i < len(msg); i++ {
		if needsEscape(msg[i]) {
			return encodeMessageSlow(msg, i)
		}
	}
	return msg
}

func needsEscape(b byte) bool {
	return b <= 0x20 || b >= 0x7F || b == '%'
}

func encodeMessageSlow(msg string, first int) string {
	var sb strings.Builder
	sb.Grow(len(msg) + 2)
	sb.WriteString(msg[:first])
	for i := first; i < len(msg); i++ {
		b := msg[i]
		if needsEscape(b) {
			sb.WriteByte('%')
			sb.WriteByte(hexdigits[b>>4])
			sb.WriteByte(hexdigits[b&0x0F])
		} else {
			sb.WriteByte(b)
		}
	}
	return sb.String()
}

// DecodeMessage reverses EncodeMessage. Malformed escapes are forgiven: a
// '%' not followed by two hex digits is passed through verbatim rather than
// rejected, since the message is diagnostic text, not a load-bearing value.
func DecodeMessage(msg string) string {
	if !strings.ContainsRune(msg, '%') {
		return msg
	}
	var sb strings.Builder
	sb.Grow(len(msg))
	for i := 0; i < len(msg); i++ {
		b := msg[i]
		if b == '%' && i+2 < len(msg) {
			hi, okHi := unhex(msg[i+1])
			lo, okLo := unhex(msg[i+2])
			if okHi && okLo {
				sb.WriteByte(hi<<4 | lo)
				i += 2
				continue
			}
		}
		sb.WriteByte(b)
	}
	return sb.String()
}

func unhex(b byte) (byte, bool) {
	switch {
	case b >= '0' && b <= '9':
		return b - '0', true
	case b >= 'A' && b <= 'F':
		return b - 'A' + 10, true
	case b >= 'a' && b <= 'f':
		return b - 'a' + 10, true
	}
	return 0, false
}

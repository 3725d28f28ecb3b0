package display

import (
	"strings"
)

// MaxPatternDisplay is the number of pattern bytes shown before the text is
// cut off with "...".
const MaxPatternDisplay = 80

// FormatPattern renders pattern text between braces. Text containing any
// non-printable byte in the displayed prefix is shown as space separated
// hex pairs instead, e.g. {00 ff 41}.
func FormatPattern(text []byte) string {
	shown := text
	if len(shown) > MaxPatternDisplay {
		shown = shown[:MaxPatternDisplay]
	}

	var b strings.Builder
	b.Grow(len(shown)*3 + 5)
	b.WriteByte('{')

	if isPrintable(shown) {
		b.Write(shown)
	} else {
		const hexdigits = "0123456789abcdef"
		for i, c := range shown {
			if i > 0 {
				b.WriteByte(' ')
			}
			b.WriteByte(hexdigits[c>>4])
			b.WriteByte(hexdigits[c&0x0f])
		}
	}

	if len(text) > MaxPatternDisplay {
		b.WriteString("...")
	}
	b.WriteByte('}')
	return b.String()
}

// isPrintable matches the C locale isprint: bytes 0x20 through 0x7e.
func isPrintable(b []byte) bool {
	for _, c := range b {
		if c < 0x20 || c > 0x7e {
			return false
		}
	}
	return true
}

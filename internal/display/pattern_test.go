package display

import (
	"strings"
	"testing"
)

func TestFormatPattern(t *testing.T) {
	tests := []struct {
		name string
		in   []byte
		want string
	}{
		{"plain text", []byte("hello world"), "{hello world}"},
		{"empty", []byte{}, "{}"},
		{"binary", []byte{0x00, 0xff, 'A'}, "{00 ff 41}"},
		{"newline is not printable", []byte("a\nb"), "{61 0a 62}"},
		{"long text truncated", []byte(strings.Repeat("x", 90)), "{" + strings.Repeat("x", 80) + "...}"},
		{"exact limit", []byte(strings.Repeat("y", 80)), "{" + strings.Repeat("y", 80) + "}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatPattern(tt.in); got != tt.want {
				t.Errorf("FormatPattern(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestFormatPattern_BinaryOnlyLooksAtShownPrefix(t *testing.T) {
	in := append([]byte(strings.Repeat("z", 80)), 0x01)

	got := FormatPattern(in)

	if got != "{"+strings.Repeat("z", 80)+"...}" {
		t.Errorf("FormatPattern() = %q", got)
	}
}

package display

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/harrison/multifast/internal/ahocorasick"
)

// Fields selects what a match line shows.
type Fields struct {
	Item       bool // #N, the per-file match number
	DecimalPos bool // @N, the 1-based start position in decimal
	HexPos     bool // @XXXXXXXX, the 1-based start position in hex
	ID         bool // the pattern identifier
	Pattern    bool // {pattern}
}

// Any reports whether at least one field is selected.
func (f Fields) Any() bool {
	return f.Item || f.DecimalPos || f.HexPos || f.ID || f.Pattern
}

// WithDefaults returns f, or decimal position plus pattern when nothing
// is selected.
func (f Fields) WithDefaults() Fields {
	if f.Any() {
		return f
	}
	return Fields{DecimalPos: true, Pattern: true}
}

// ParseFields builds Fields from names such as "item", "dpos", "xpos",
// "id" and "pattern".
func ParseFields(names []string) (Fields, error) {
	var f Fields
	for _, name := range names {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "item", "n":
			f.Item = true
		case "dpos", "d", "position":
			f.DecimalPos = true
		case "xpos", "x", "hex":
			f.HexPos = true
		case "id", "r":
			f.ID = true
		case "pattern", "p":
			f.Pattern = true
		default:
			return Fields{}, fmt.Errorf("unknown output field %q (valid: item, dpos, xpos, id, pattern)", name)
		}
	}
	return f, nil
}

// MatchPrinter writes one line per reported pattern occurrence:
//
//	name: #item @dpos @XPOS id {pattern}
//
// The name prefix is left out for standard input.
type MatchPrinter struct {
	w      io.Writer
	fields Fields
	name   *color.Color
	buf    []byte
}

// NewMatchPrinter creates a printer writing to w. When colorize is set the
// file name prefix is colored.
func NewMatchPrinter(w io.Writer, fields Fields, colorize bool) *MatchPrinter {
	name := color.New(color.FgMagenta)
	if colorize {
		name.EnableColor()
	} else {
		name.DisableColor()
	}
	return &MatchPrinter{
		w:      w,
		fields: fields.WithDefaults(),
		name:   name,
	}
}

// Fields returns the active field selection.
func (mp *MatchPrinter) Fields() Fields {
	return mp.fields
}

// Print writes the line for pattern p found at the 0-based absolute offset
// start. name is empty for standard input.
func (mp *MatchPrinter) Print(name string, item, start int64, p *ahocorasick.Pattern) error {
	b := mp.buf[:0]
	sep := func() {
		if len(b) > 0 && b[len(b)-1] != ' ' {
			b = append(b, ' ')
		}
	}

	if name != "" {
		b = append(b, mp.name.Sprint(name)...)
		b = append(b, ": "...)
	}
	if mp.fields.Item {
		sep()
		b = append(b, '#')
		b = strconv.AppendInt(b, item, 10)
	}
	// positions are shown 1-based
	if mp.fields.DecimalPos {
		sep()
		b = append(b, '@')
		b = strconv.AppendInt(b, start+1, 10)
	}
	if mp.fields.HexPos {
		sep()
		b = fmt.Appendf(b, "@%08X", uint64(start+1))
	}
	if mp.fields.ID {
		sep()
		b = append(b, p.ID...)
	}
	if mp.fields.Pattern {
		sep()
		b = append(b, FormatPattern(p.Text)...)
	}
	b = append(b, '\n')
	mp.buf = b

	_, err := mp.w.Write(b)
	return err
}

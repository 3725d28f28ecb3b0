// Package pattern loads pattern definition files into the automaton.
//
// A definition file is read by the Lexer; the Catalog turns its token
// stream into ahocorasick.Pattern records. Pattern, replacement and
// identifier text are copied into a string arena as soon as they are read,
// because token values only live until the next token. An entry is
// registered with the trie once it is complete, that is when the next
// separator or the end of the file is seen.
package pattern

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/harrison/multifast/internal/ahocorasick"
	"github.com/harrison/multifast/internal/arena"
	"github.com/harrison/multifast/internal/display"
)

var (
	// ErrMalformed is returned when the definition file has a syntax error.
	ErrMalformed = errors.New("malformed pattern file")

	// ErrTruncated is returned when the definition file ends in the middle
	// of an entry or cannot be read to the end.
	ErrTruncated = errors.New("unexpected end of pattern file")
)

// FatalError reports a condition that must end the run at once, such as a
// pattern too large for the string arena.
type FatalError struct {
	Err error
}

func (e *FatalError) Error() string {
	return "fatal: " + e.Err.Error()
}

func (e *FatalError) Unwrap() error {
	return e.Err
}

// Logger receives catalog diagnostics.
type Logger interface {
	LogDebug(message string)
	LogWarn(message string)
}

// Stats summarizes one load.
type Stats struct {
	// Entries is the number of complete entries seen.
	Entries int
	// Added is the number of patterns the trie accepted.
	Added int
	// Skipped is the number of patterns the trie rejected.
	Skipped int
}

type loadState int

const (
	stateIdle loadState = iota
	statePatternSeen
	stateReplacementSeen
)

// pending is the entry being accumulated.
type pending struct {
	text    arena.Handle
	repl    arena.Handle
	hasRepl bool
	id      arena.Handle
	hasID   bool
}

// Catalog registers definition file entries with a trie.
type Catalog struct {
	arena       *arena.Arena
	trie        *ahocorasick.Trie
	logger      Logger
	insensitive bool

	seq   int
	stats Stats
}

// NewCatalog creates a catalog storing text in a and registering patterns
// with t. With insensitive set, pattern text (not replacement text) is
// lower-cased before it is stored. logger may be nil.
func NewCatalog(a *arena.Arena, t *ahocorasick.Trie, logger Logger, insensitive bool) *Catalog {
	return &Catalog{
		arena:       a,
		trie:        t,
		logger:      logger,
		insensitive: insensitive,
	}
}

// Stats returns counters for everything loaded so far.
func (c *Catalog) Stats() Stats {
	return c.stats
}

// LoadFile loads the definition file at path and finalizes the trie.
func (c *Catalog) LoadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to read pattern file %s: %w", path, err)
	}
	defer f.Close()

	if err := c.Load(f); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

// Load reads definitions from r, registers every complete entry and
// finalizes the trie. A syntax error or truncated input aborts the load;
// patterns the trie rejects are logged and skipped.
func (c *Catalog) Load(r io.Reader) error {
	lex := NewLexer(r)
	state := stateIdle
	var cur pending

	for {
		tok := lex.Next()

		switch tok.Type {
		case TokenSeparator, TokenEnd:
			if state != stateIdle {
				if err := c.commit(&cur); err != nil {
					return err
				}
			}
			state = stateIdle
			cur = pending{}

			if tok.Type == TokenEnd {
				c.trie.Finalize()
				return nil
			}

		case TokenIdentifier:
			if len(tok.Value) == 0 {
				// "()" asks for a generated identifier.
				continue
			}
			h, err := c.store(tok.Value)
			if err != nil {
				return err
			}
			cur.id, cur.hasID = h, true

		case TokenPattern:
			if c.insensitive {
				Fold(tok.Value)
			}
			h, err := c.store(tok.Value)
			if err != nil {
				return err
			}
			cur.text = h
			state = statePatternSeen

		case TokenReplacement:
			if state != statePatternSeen {
				return fmt.Errorf("%w: line %d: replacement without pattern", ErrMalformed, tok.Line)
			}
			h, err := c.store(tok.Value)
			if err != nil {
				return err
			}
			cur.repl, cur.hasRepl = h, true
			state = stateReplacementSeen

		case TokenError:
			if errors.Is(lex.Err(), io.ErrUnexpectedEOF) {
				return fmt.Errorf("%w: %w", ErrTruncated, lex.Err())
			}
			return fmt.Errorf("%w: %s", ErrMalformed, tok.Value)
		}
	}
}

// store copies b into the arena. Running out of chunk space for a single
// item is a configuration error and is reported as fatal.
func (c *Catalog) store(b []byte) (arena.Handle, error) {
	h, err := c.arena.Add(b)
	if err != nil {
		return arena.Handle{}, &FatalError{Err: fmt.Errorf("copy failed: %w", err)}
	}
	return h, nil
}

// nextID returns the next generated identifier: p000001, p000002, ...
func (c *Catalog) nextID() (arena.Handle, error) {
	c.seq++
	h, err := c.arena.AddID(fmt.Sprintf("p%06d", c.seq))
	if err != nil {
		return arena.Handle{}, &FatalError{Err: fmt.Errorf("copy failed: %w", err)}
	}
	return h, nil
}

// commit builds the record for e and registers it with the trie.
func (c *Catalog) commit(e *pending) error {
	c.stats.Entries++

	if !e.hasID {
		h, err := c.nextID()
		if err != nil {
			return err
		}
		e.id, e.hasID = h, true
	}

	p := &ahocorasick.Pattern{
		Text: c.arena.Bytes(e.text),
		ID:   c.arena.View(e.id),
	}
	if e.hasRepl {
		p.Replacement = c.arena.Bytes(e.repl)
		p.HasReplacement = true
	}

	err := c.trie.Add(p)
	switch {
	case err == nil:
		c.stats.Added++
		c.debug(fmt.Sprintf("Added successfully: %s - %s", p.ID, display.FormatPattern(p.Text)))
		return nil
	case errors.Is(err, ahocorasick.ErrDuplicatePattern):
		c.warn(fmt.Sprintf("Skip duplicate string: %s", display.FormatPattern(p.Text)))
	case errors.Is(err, ahocorasick.ErrLongPattern):
		c.warn(fmt.Sprintf("Skip long string: %s", display.FormatPattern(p.Text)))
	case errors.Is(err, ahocorasick.ErrZeroPattern):
		c.warn("Skip zero length string")
	default:
		c.warn(fmt.Sprintf("Skip adding string %s: %v", display.FormatPattern(p.Text), err))
	}
	c.stats.Skipped++
	return nil
}

func (c *Catalog) debug(msg string) {
	if c.logger != nil {
		c.logger.LogDebug(msg)
	}
}

func (c *Catalog) warn(msg string) {
	if c.logger != nil {
		c.logger.LogWarn(msg)
	}
}

// Fold lower-cases ASCII letters in b in place. Other bytes are left as is,
// so binary patterns and UTF-8 text keep their length.
func Fold(b []byte) {
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
}

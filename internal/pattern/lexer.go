package pattern

import (
	"bufio"
	"errors"
	"fmt"
	"io"
)

// TokenType identifies a lexer token.
type TokenType int

const (
	// TokenSeparator starts a new entry ("AX" or "AX:").
	TokenSeparator TokenType = iota
	// TokenIdentifier is a "(...)" identifier. An empty value asks for a
	// generated identifier.
	TokenIdentifier
	// TokenPattern is the first "{...}" block of an entry.
	TokenPattern
	// TokenReplacement is the second "{...}" block of an entry.
	TokenReplacement
	// TokenError carries a diagnostic in Value.
	TokenError
	// TokenEnd marks the end of the definition file.
	TokenEnd
)

// String returns a readable token type name.
func (t TokenType) String() string {
	switch t {
	case TokenSeparator:
		return "separator"
	case TokenIdentifier:
		return "identifier"
	case TokenPattern:
		return "pattern"
	case TokenReplacement:
		return "replacement"
	case TokenError:
		return "error"
	case TokenEnd:
		return "end"
	default:
		return fmt.Sprintf("token(%d)", int(t))
	}
}

// Token is one lexical unit of a definition file. Value aliases the lexer's
// scratch buffer and is overwritten by the next call to Next.
type Token struct {
	Type  TokenType
	Value []byte
	Line  int
}

// lexer positions inside an entry
const (
	lexOutside     = iota // before the first separator
	lexEntry              // after a separator, nothing else yet
	lexID                 // identifier seen
	lexPattern            // pattern block seen
	lexReplacement        // replacement block seen
)

// Lexer splits a definition file into tokens:
//
//	# comment
//	AX: {pattern}
//	AX: {pattern} {replacement}
//	AX: (identifier) {pattern} {replacement}
//
// Text blocks understand the escapes \\ \{ \} \n \r \t \0 and \xHH.
type Lexer struct {
	r     *bufio.Reader
	line  int
	state int
	buf   []byte
	done  bool
	last  Token
	err   error
}

// NewLexer returns a lexer reading from r.
func NewLexer(r io.Reader) *Lexer {
	return &Lexer{
		r:    bufio.NewReaderSize(r, readBufferSize),
		line: 1,
		buf:  make([]byte, 0, 256),
	}
}

const readBufferSize = 4096

// Next returns the next token. Once TokenEnd or TokenError has been
// returned, every further call returns that token again.
func (l *Lexer) Next() Token {
	if l.done {
		return l.last
	}

	for {
		c, err := l.r.ReadByte()
		if err != nil {
			return l.eof(err)
		}

		switch {
		case c == '\n':
			l.line++
		case c == ' ' || c == '\t' || c == '\r' || c == '\f' || c == '\v':
		case c == '#':
			if err := l.skipLine(); err != nil {
				return l.eof(err)
			}
		case c == 'A':
			return l.separator()
		case c == '(':
			return l.identifier()
		case c == '{':
			return l.block()
		default:
			return l.errorf("unexpected character %q", c)
		}
	}
}

// Err describes the last TokenError. Input that ends inside an
// identifier, text block or escape, and read failures, yield an error
// wrapping io.ErrUnexpectedEOF.
func (l *Lexer) Err() error {
	return l.err
}

func (l *Lexer) eof(err error) Token {
	if !errors.Is(err, io.EOF) {
		return l.fail(err, "")
	}
	l.done = true
	l.last = Token{Type: TokenEnd, Line: l.line}
	return l.last
}

func (l *Lexer) errorf(format string, args ...any) Token {
	l.done = true
	l.buf = fmt.Appendf(l.buf[:0], "line %d: "+format, append([]any{l.line}, args...)...)
	l.last = Token{Type: TokenError, Value: l.buf, Line: l.line}
	l.err = errors.New(string(l.buf))
	return l.last
}

// fail reports a read failure while inside the construct named by what.
func (l *Lexer) fail(err error, what string) Token {
	if errors.Is(err, io.EOF) {
		tok := l.errorf("unterminated %s", what)
		l.err = fmt.Errorf("%s: %w", tok.Value, io.ErrUnexpectedEOF)
		return tok
	}
	tok := l.errorf("read error: %v", err)
	l.err = fmt.Errorf("line %d: %w: %w", l.line, io.ErrUnexpectedEOF, err)
	return tok
}

func (l *Lexer) skipLine() error {
	for {
		c, err := l.r.ReadByte()
		if err != nil {
			return err
		}
		if c == '\n' {
			l.line++
			return nil
		}
	}
}

func (l *Lexer) separator() Token {
	c, err := l.r.ReadByte()
	if err != nil || c != 'X' {
		return l.errorf("expected AX")
	}
	if c, err := l.r.ReadByte(); err == nil && c != ':' {
		_ = l.r.UnreadByte()
	}
	l.state = lexEntry
	return Token{Type: TokenSeparator, Line: l.line}
}

func (l *Lexer) identifier() Token {
	if l.state != lexEntry {
		return l.errorf("identifier must directly follow AX")
	}

	l.buf = l.buf[:0]
	for {
		c, err := l.r.ReadByte()
		if err != nil {
			return l.fail(err, "identifier")
		}
		switch c {
		case ')':
			l.state = lexID
			return Token{Type: TokenIdentifier, Value: l.buf, Line: l.line}
		case '\n':
			return l.errorf("unterminated identifier")
		default:
			l.buf = append(l.buf, c)
		}
	}
}

func (l *Lexer) block() Token {
	var typ TokenType
	switch l.state {
	case lexEntry, lexID:
		typ = TokenPattern
	case lexPattern:
		typ = TokenReplacement
	case lexOutside:
		return l.errorf("text block before the first AX")
	default:
		return l.errorf("too many text blocks in entry")
	}

	start := l.line
	l.buf = l.buf[:0]
	for {
		c, err := l.r.ReadByte()
		if err != nil {
			l.line = start
			return l.fail(err, "text block")
		}
		switch c {
		case '}':
			if typ == TokenPattern {
				l.state = lexPattern
			} else {
				l.state = lexReplacement
			}
			return Token{Type: typ, Value: l.buf, Line: start}
		case '\\':
			b, err := l.escape()
			if err != nil {
				if !errors.Is(err, errBadEscape) {
					l.line = start
					return l.fail(err, "text block")
				}
				return l.errorf("%v", err)
			}
			l.buf = append(l.buf, b)
		case '\n':
			l.line++
			l.buf = append(l.buf, c)
		default:
			l.buf = append(l.buf, c)
		}
	}
}

var errBadEscape = errors.New("bad escape")

// escape decodes the byte after a backslash. Read failures are returned
// unwrapped; malformed escapes wrap errBadEscape.
func (l *Lexer) escape() (byte, error) {
	c, err := l.r.ReadByte()
	if err != nil {
		return 0, err
	}
	switch c {
	case '\\', '{', '}':
		return c, nil
	case 'n':
		return '\n', nil
	case 'r':
		return '\r', nil
	case 't':
		return '\t', nil
	case '0':
		return 0, nil
	case 'x':
		hi, err := l.hexDigit()
		if err != nil {
			return 0, err
		}
		lo, err := l.hexDigit()
		if err != nil {
			return 0, err
		}
		return hi<<4 | lo, nil
	default:
		return 0, fmt.Errorf("%w: unknown escape \\%c", errBadEscape, c)
	}
}

func (l *Lexer) hexDigit() (byte, error) {
	c, err := l.r.ReadByte()
	if err != nil {
		return 0, err
	}
	switch {
	case c >= '0' && c <= '9':
		return c - '0', nil
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, nil
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, nil
	default:
		return 0, fmt.Errorf("%w: bad hex digit %q in \\x escape", errBadEscape, c)
	}
}

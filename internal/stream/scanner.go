package stream

import (
	"fmt"
	"io"
	"os"

	"github.com/harrison/multifast/internal/ahocorasick"
	"github.com/harrison/multifast/internal/fileutil"
)

// MatchFunc receives one pattern occurrence. name is "" for standard
// input, start is the absolute offset of the occurrence and item its
// 1-based number within the file. Returning false ends the file once the
// other patterns ending at the same position have been reported.
type MatchFunc func(name string, start, item int64, p *ahocorasick.Pattern) bool

// Counters summarize one scanned file.
type Counters struct {
	// Item is the number of pattern occurrences reported.
	Item int64
	// Total is the number of positions at which at least one pattern ended.
	Total int64
	// LastPos is the start offset of the last reported occurrence.
	LastPos int64
}

// Scanner searches files for every pattern of a finalized trie.
type Scanner struct {
	trie *ahocorasick.Trie
	sink MatchFunc
	opts Options
	buf  []byte

	// Stdin is read for the input name "-".
	Stdin io.Reader
}

// NewScanner creates a scanner reporting to sink.
func NewScanner(t *ahocorasick.Trie, sink MatchFunc, opts Options) *Scanner {
	return &Scanner{
		trie:  t,
		sink:  sink,
		opts:  opts,
		buf:   make([]byte, WindowSize),
		Stdin: os.Stdin,
	}
}

// ScanFile searches name, or standard input for "-". Read errors abort
// the file; counters reflect what was reported up to then.
func (s *Scanner) ScanFile(name string) (Counters, error) {
	var c Counters

	r, closeFn, _, err := openInput(name, s.Stdin)
	if err != nil {
		return c, err
	}
	defer closeFn()

	label := name
	if name == fileutil.StdinName {
		label = ""
	}

	err = windows(r, s.buf, s.opts.Insensitive, func(w []byte, first bool) (bool, error) {
		for m := range s.trie.Search(w, !first) {
			c.Total++
			more := true
			for i, p := range m.Patterns {
				c.Item++
				c.LastPos = m.Start(i)
				if !s.sink(label, c.LastPos, c.Item, p) {
					more = false
				}
			}
			if !more {
				return false, nil
			}
		}
		return true, nil
	})
	if err != nil {
		return c, fmt.Errorf("error while reading from %s: %w", name, err)
	}
	return c, nil
}

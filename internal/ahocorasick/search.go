package ahocorasick

import "iter"

// Match reports the patterns that end at one position of the input.
type Match struct {
	// End is the absolute offset just past the last matched byte, counted
	// from the start of the stream (the first non-continued Search call).
	End int64

	// Patterns ending at End, longest first. The slice is owned by the
	// trie and must not be modified.
	Patterns []*Pattern
}

// Start returns the absolute offset where Patterns[i] begins.
func (m Match) Start(i int) int64 {
	return m.End - int64(len(m.Patterns[i].Text))
}

type searchState struct {
	cur  int32
	base int64 // absolute offset of the next byte to be fed
}

func (s *searchState) reset() {
	s.cur = root
	s.base = 0
}

// Search returns an iterator over the matches in text.
//
// With keep set, text is treated as the continuation of the text passed to
// the previous Search call: the automaton resumes from its last state and
// positions keep counting from where the previous window ended, so a
// pattern spanning both windows is reported once at its true offset.
// Without keep the traversal restarts at the root and offsets restart at 0.
//
// Breaking out of the loop stops the search; a later continued call then
// resumes after the last byte that produced a match. The iterator drives
// shared trie state and must be consumed at most once.
func (t *Trie) Search(text []byte, keep bool) iter.Seq[Match] {
	return func(yield func(Match) bool) {
		if !t.ensureReady() {
			return
		}

		s := &t.search
		if !keep {
			s.reset()
		}

		for i, b := range text {
			s.cur = t.step(s.cur, b)
			out := t.nodes[s.cur].outputs
			if len(out) == 0 {
				continue
			}

			m := Match{End: s.base + int64(i) + 1, Patterns: out}
			if !yield(m) {
				s.base += int64(i) + 1
				return
			}
		}
		s.base += int64(len(text))
	}
}

package ahocorasick

// ReplaceMode selects how overlapping occurrences are substituted.
type ReplaceMode int

const (
	// ReplaceNormal replaces every occurrence. An occurrence that lies
	// wholly inside another one is dropped; partially overlapping
	// occurrences are both replaced and the overlap goes to the earlier one.
	ReplaceNormal ReplaceMode = iota

	// ReplaceLazy replaces the occurrence that ends first and ignores any
	// later occurrence that overlaps text already replaced.
	ReplaceLazy
)

// String returns the mode name.
func (m ReplaceMode) String() string {
	switch m {
	case ReplaceLazy:
		return "lazy"
	default:
		return "normal"
	}
}

// EmitFunc receives output produced by Replace and Flush. The slice is only
// valid for the duration of the call.
type EmitFunc func(out []byte) error

type nominee struct {
	start, end int64
	p          *Pattern
}

// replaceState holds the substitution engine's position in the stream.
// backlog[head:] always holds the input bytes in [cursor, pos) that have
// not yet been written out.
type replaceState struct {
	cur     int32
	pos     int64
	cursor  int64
	backlog []byte
	head    int
	pending []nominee
}

func (r *replaceState) reset() {
	r.cur = root
	r.pos = 0
	r.cursor = 0
	r.backlog = r.backlog[:0]
	r.head = 0
	r.pending = r.pending[:0]
}

// Replace feeds text through the substitution engine and passes whatever
// output is final to emit. Every call continues the stream of the previous
// one; bytes that could still become part of a longer match are held in a
// backlog until more input arrives or Flush is called.
func (t *Trie) Replace(text []byte, mode ReplaceMode, emit EmitFunc) error {
	if !t.ensureReady() {
		return ErrTrieClosed
	}

	r := &t.repl
	r.backlog = append(r.backlog, text...)

	for i, b := range text {
		r.cur = t.step(r.cur, b)
		out := t.nodes[r.cur].outputs
		if len(out) == 0 {
			continue
		}
		end := r.pos + int64(i) + 1

		if mode == ReplaceLazy {
			for _, p := range out {
				if !p.HasReplacement {
					continue
				}
				start := end - int64(len(p.Text))
				if start < r.cursor {
					continue
				}
				if err := r.emitNominee(nominee{start: start, end: end, p: p}, emit); err != nil {
					return err
				}
				break
			}
			continue
		}

		p := longestReplaceable(out)
		if p == nil {
			continue
		}
		c := nominee{start: end - int64(len(p.Text)), end: end, p: p}
		// Drop earlier candidates that c swallows.
		for n := len(r.pending); n > 0 && r.pending[n-1].start >= c.start; n = len(r.pending) {
			r.pending = r.pending[:n-1]
		}
		r.pending = append(r.pending, c)
	}
	r.pos += int64(len(text))

	return r.settle(t.maxReplLen, emit)
}

// Flush writes out every pending replacement and the whole backlog. With
// final set the engine also resets, ready for an unrelated stream; without
// it the automaton keeps its position, so later output may differ from an
// unflushed run when a match spans the flush point.
func (t *Trie) Flush(final bool, emit EmitFunc) error {
	r := &t.repl

	for _, n := range r.pending {
		if err := r.emitNominee(n, emit); err != nil {
			return err
		}
	}
	r.pending = r.pending[:0]

	if r.pos > r.cursor {
		if err := r.emitText(r.pos, emit); err != nil {
			return err
		}
	}
	r.compact()

	if final {
		r.reset()
	}
	return nil
}

// settle emits everything no future match can alter. A match that ends
// after pos starts at or after pos-maxLen+1, so pending candidates starting
// before that frontier are final and so is unclaimed text before it.
func (r *replaceState) settle(maxLen int, emit EmitFunc) error {
	frontier := r.pos - int64(maxLen) + 1
	if frontier > r.pos {
		frontier = r.pos
	}

	k := 0
	for ; k < len(r.pending) && r.pending[k].start < frontier; k++ {
		if err := r.emitNominee(r.pending[k], emit); err != nil {
			return err
		}
	}
	if k > 0 {
		n := copy(r.pending, r.pending[k:])
		r.pending = r.pending[:n]
	}

	if frontier > r.cursor {
		if err := r.emitText(frontier, emit); err != nil {
			return err
		}
	}
	r.compact()
	return nil
}

func (r *replaceState) emitNominee(n nominee, emit EmitFunc) error {
	if n.start > r.cursor {
		if err := r.emitText(n.start, emit); err != nil {
			return err
		}
	}
	if len(n.p.Replacement) > 0 {
		if err := emit(n.p.Replacement); err != nil {
			return err
		}
	}
	if n.end > r.cursor {
		r.head += int(n.end - r.cursor)
		r.cursor = n.end
	}
	return nil
}

// emitText writes the backlog up to absolute offset upto.
func (r *replaceState) emitText(upto int64, emit EmitFunc) error {
	k := int(upto - r.cursor)
	chunk := r.backlog[r.head : r.head+k]
	r.head += k
	r.cursor = upto
	if len(chunk) == 0 {
		return nil
	}
	return emit(chunk)
}

func (r *replaceState) compact() {
	if r.head == 0 {
		return
	}
	n := copy(r.backlog, r.backlog[r.head:])
	r.backlog = r.backlog[:n]
	r.head = 0
}

func longestReplaceable(out []*Pattern) *Pattern {
	for _, p := range out {
		if p.HasReplacement {
			return p
		}
	}
	return nil
}

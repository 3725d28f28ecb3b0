// Package ahocorasick implements the Aho-Corasick automaton used by
// multifast: a byte trie with failure links, a resumable streaming search
// and a substitution engine that keeps a backlog between input windows.
//
// A Trie is built by calling Add for every pattern and then Finalize.
// Search and Replace keep independent traversal state inside the Trie so a
// large input can be fed in consecutive windows; a Trie therefore serves one
// input stream at a time and is not safe for concurrent use.
package ahocorasick

import (
	"errors"
)

// MaxPatternLength is the longest pattern the trie accepts.
const MaxPatternLength = 1024

var (
	// ErrDuplicatePattern is returned when the same pattern text is added twice.
	ErrDuplicatePattern = errors.New("duplicate pattern")

	// ErrLongPattern is returned when a pattern exceeds MaxPatternLength.
	ErrLongPattern = errors.New("pattern too long")

	// ErrZeroPattern is returned for an empty pattern.
	ErrZeroPattern = errors.New("zero length pattern")

	// ErrTrieClosed is returned when adding to a finalized or released trie.
	ErrTrieClosed = errors.New("trie is closed")
)

// Pattern is one registered search string. Text and Replacement are not
// copied by the trie; callers keep them alive and unchanged.
type Pattern struct {
	// Text is the byte sequence searched for.
	Text []byte

	// Replacement is substituted for Text in replace mode when
	// HasReplacement is set. An empty replacement deletes the match.
	Replacement    []byte
	HasReplacement bool

	// ID identifies the pattern in reports.
	ID string
}

const root = 0

type edge struct {
	b    byte
	next int32
}

type node struct {
	edges []edge // sorted by b
	fail  int32
	own   *Pattern

	// outputs lists every pattern that ends at this node, longest first.
	// Nodes without a pattern of their own share their failure node's slice.
	outputs []*Pattern
}

// Trie is an Aho-Corasick automaton over bytes.
type Trie struct {
	nodes     []node
	patterns  []*Pattern
	finalized bool
	released  bool

	maxReplLen int
	hasRepl    bool

	search searchState
	repl   replaceState
}

// New returns an empty trie ready for Add.
func New() *Trie {
	return &Trie{
		nodes: []node{{}},
	}
}

// Add registers p. The trie references p directly.
func (t *Trie) Add(p *Pattern) error {
	if t.finalized || t.released {
		return ErrTrieClosed
	}
	if len(p.Text) == 0 {
		return ErrZeroPattern
	}
	if len(p.Text) > MaxPatternLength {
		return ErrLongPattern
	}

	cur := int32(root)
	for _, b := range p.Text {
		next, ok := t.child(cur, b)
		if !ok {
			next = t.addChild(cur, b)
		}
		cur = next
	}

	n := &t.nodes[cur]
	if n.own != nil {
		return ErrDuplicatePattern
	}
	n.own = p

	t.patterns = append(t.patterns, p)
	if p.HasReplacement {
		t.hasRepl = true
		if len(p.Text) > t.maxReplLen {
			t.maxReplLen = len(p.Text)
		}
	}
	return nil
}

// Finalize computes failure links and per-node outputs. After Finalize no
// more patterns can be added. Calling it again is a no-op.
func (t *Trie) Finalize() {
	if t.finalized || t.released {
		return
	}
	t.finalized = true

	queue := make([]int32, 0, len(t.nodes))
	for _, e := range t.nodes[root].edges {
		c := &t.nodes[e.next]
		c.fail = root
		c.outputs = ownOutputs(c.own, nil)
		queue = append(queue, e.next)
	}

	for head := 0; head < len(queue); head++ {
		u := queue[head]
		for _, e := range t.nodes[u].edges {
			f := t.nodes[u].fail
			for {
				if next, ok := t.child(f, e.b); ok {
					f = next
					break
				}
				if f == root {
					break
				}
				f = t.nodes[f].fail
			}

			v := &t.nodes[e.next]
			v.fail = f
			v.outputs = ownOutputs(v.own, t.nodes[f].outputs)
			queue = append(queue, e.next)
		}
	}

	t.search.reset()
	t.repl.reset()
}

func ownOutputs(own *Pattern, inherited []*Pattern) []*Pattern {
	if own == nil {
		return inherited
	}
	out := make([]*Pattern, 0, len(inherited)+1)
	out = append(out, own)
	return append(out, inherited...)
}

// Release drops the automaton. The trie cannot be used afterwards.
func (t *Trie) Release() {
	t.nodes = nil
	t.patterns = nil
	t.released = true
	t.finalized = false
	t.repl.backlog = nil
}

// PatternCount reports how many patterns were accepted.
func (t *Trie) PatternCount() int {
	return len(t.patterns)
}

// HasReplacement reports whether any accepted pattern carries a replacement.
func (t *Trie) HasReplacement() bool {
	return t.hasRepl
}

// Patterns returns the accepted patterns in insertion order.
func (t *Trie) Patterns() []*Pattern {
	return t.patterns
}

func (t *Trie) child(n int32, b byte) (int32, bool) {
	edges := t.nodes[n].edges
	lo, hi := 0, len(edges)
	for lo < hi {
		mid := int(uint(lo+hi) >> 1)
		if edges[mid].b < b {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	if lo < len(edges) && edges[lo].b == b {
		return edges[lo].next, true
	}
	return 0, false
}

func (t *Trie) addChild(n int32, b byte) int32 {
	id := int32(len(t.nodes))
	t.nodes = append(t.nodes, node{})

	edges := t.nodes[n].edges
	i := len(edges)
	for i > 0 && edges[i-1].b > b {
		i--
	}
	edges = append(edges, edge{})
	copy(edges[i+1:], edges[i:])
	edges[i] = edge{b: b, next: id}
	t.nodes[n].edges = edges

	return id
}

// step advances from state n over byte b following failure links.
func (t *Trie) step(n int32, b byte) int32 {
	for {
		if next, ok := t.child(n, b); ok {
			return next
		}
		if n == root {
			return root
		}
		n = t.nodes[n].fail
	}
}

// ensureReady finalizes a trie that is still open, as searching an open
// trie would miss failure transitions.
func (t *Trie) ensureReady() bool {
	if t.released {
		return false
	}
	if !t.finalized {
		t.Finalize()
	}
	return true
}

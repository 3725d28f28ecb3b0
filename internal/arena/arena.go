// Package arena provides append-only, chunked storage for the many small
// strings a pattern definition file produces.
//
// Items are copied into fixed-capacity chunks and addressed by Handle.
// A chunk is never moved or resized once allocated: when the chunk
// directory fills up only the directory (the slice of chunk headers) is
// reallocated, so every slice handed out by Bytes stays valid until
// Release is called.
package arena

import (
	"errors"
	"fmt"
	"unsafe"
)

const (
	// ChunkSize is the fixed capacity of every chunk in bytes.
	// A single item plus its terminator must fit in one chunk.
	ChunkSize = 4096

	// DirectoryIncrement is how many chunk slots the directory grows by
	// each time it runs out of room.
	DirectoryIncrement = 40
)

var (
	// ErrEntryTooLarge is returned when an item plus its terminator does
	// not fit in a single chunk.
	ErrEntryTooLarge = errors.New("arena: entry does not fit in a chunk")

	// ErrReleased is returned when adding to an arena after Release.
	ErrReleased = errors.New("arena: use after Release")
)

// Handle addresses one stored item.
type Handle struct {
	Chunk  int
	Offset int
	Length int
}

// Arena is an append-only string store. It is not safe for concurrent use.
type Arena struct {
	chunks [][]byte // directory; len is the number of live chunks
	last   int      // index of the chunk being filled
	pos    int      // write offset inside chunks[last]
}

// New creates an arena with its first chunk allocated and the cursor at zero.
func New() *Arena {
	a := &Arena{
		chunks: make([][]byte, 1, DirectoryIncrement),
	}
	a.chunks[0] = make([]byte, ChunkSize)
	return a
}

// Add copies b followed by a zero terminator into the arena and returns
// its handle. When the current chunk lacks room a new chunk is started.
// Previously stored items are never touched, even on error.
func (a *Arena) Add(b []byte) (Handle, error) {
	if a.chunks == nil {
		return Handle{}, ErrReleased
	}
	if len(b)+1 > ChunkSize {
		return Handle{}, fmt.Errorf("%w: %d bytes (chunk size %d)", ErrEntryTooLarge, len(b), ChunkSize)
	}

	if a.pos+len(b)+1 > ChunkSize {
		a.nextChunk()
	}

	chunk := a.chunks[a.last]
	h := Handle{Chunk: a.last, Offset: a.pos, Length: len(b)}
	copy(chunk[a.pos:], b)
	a.pos += len(b)
	chunk[a.pos] = 0
	a.pos++

	return h, nil
}

// AddID stores an identifier. Like a C string, the stored text ends at the
// first NUL byte in s, if there is one.
func (a *Arena) AddID(s string) (Handle, error) {
	for i := 0; i < len(s); i++ {
		if s[i] == 0 {
			s = s[:i]
			break
		}
	}
	return a.Add([]byte(s))
}

// nextChunk allocates a fresh chunk and moves the cursor to its start.
// Only the directory is reallocated when it is full.
func (a *Arena) nextChunk() {
	if len(a.chunks) == cap(a.chunks) {
		dir := make([][]byte, len(a.chunks), cap(a.chunks)+DirectoryIncrement)
		copy(dir, a.chunks)
		a.chunks = dir
	}
	a.chunks = append(a.chunks, make([]byte, ChunkSize))
	a.last = len(a.chunks) - 1
	a.pos = 0
}

// Bytes returns the stored item for h. The slice aliases arena memory and
// its capacity is clipped to the item, so appending to it never writes
// into neighbouring entries.
func (a *Arena) Bytes(h Handle) []byte {
	if a.chunks == nil {
		panic("arena: use after Release()")
	}
	end := h.Offset + h.Length
	return a.chunks[h.Chunk][h.Offset:end:end]
}

// View returns the stored item for h as a string that shares arena memory.
// Stored items are never modified, so the string is immutable; it must not
// be used after Release.
func (a *Arena) View(h Handle) string {
	b := a.Bytes(h)
	if len(b) == 0 {
		return ""
	}
	return unsafe.String(&b[0], len(b))
}

// NumChunks reports how many chunks are allocated.
func (a *Arena) NumChunks() int {
	return len(a.chunks)
}

// Len reports the write position across all chunks. Earlier chunks count
// in full, including any tail left unused when the next chunk was started.
func (a *Arena) Len() int {
	if a.chunks == nil {
		return 0
	}
	return a.last*ChunkSize + a.pos
}

// Release drops every chunk and the directory. Slices previously returned
// by Bytes must not be used afterwards; further Adds fail with ErrReleased.
func (a *Arena) Release() {
	a.chunks = nil
	a.last = 0
	a.pos = 0
}

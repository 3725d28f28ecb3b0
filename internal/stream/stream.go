// Package stream drives the automaton over input files in fixed-size
// windows, so inputs of any size are searched or rewritten with bounded
// memory and matches spanning window boundaries are still found.
package stream

import (
	"errors"
	"fmt"
	"io"
	"os"
	"syscall"

	"github.com/harrison/multifast/internal/fileutil"
	"github.com/harrison/multifast/internal/pattern"
)

// WindowSize is the number of bytes fed to the automaton at a time.
const WindowSize = 4096

// ErrIsDirectory is returned when a directory is given where a regular
// file is required.
var ErrIsDirectory = errors.New("is a directory")

// Options are the per-run settings shared by Scanner and Replacer.
type Options struct {
	// Insensitive lower-cases every window before it reaches the
	// automaton. Patterns must have been folded at load time.
	Insensitive bool
}

// openInput opens name for reading, or returns stdin for "-". The returned
// closer is a no-op for stdin.
func openInput(name string, stdin io.Reader) (io.Reader, func() error, os.FileInfo, error) {
	if name == fileutil.StdinName {
		var info os.FileInfo
		if f, ok := stdin.(*os.File); ok {
			info, _ = f.Stat()
		}
		return stdin, func() error { return nil }, info, nil
	}

	f, err := os.OpenFile(name, os.O_RDONLY|syscall.O_NONBLOCK, 0)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("cannot read from input file %s: %w", name, err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, nil, nil, fmt.Errorf("cannot get file stat for %s: %w", name, err)
	}
	return f, f.Close, info, nil
}

// windows calls fn for every window of r. A short read marks the last
// window, which may be empty. fn returning false stops early.
func windows(r io.Reader, buf []byte, insensitive bool, fn func(w []byte, first bool) (bool, error)) error {
	first := true
	for {
		n, err := io.ReadFull(r, buf)
		last := false
		switch {
		case err == nil:
		case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
			last = true
		default:
			return err
		}

		w := buf[:n]
		if insensitive {
			pattern.Fold(w)
		}
		more, ferr := fn(w, first)
		if ferr != nil {
			return ferr
		}
		if !more || last {
			return nil
		}
		first = false
	}
}

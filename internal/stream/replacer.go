package stream

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/harrison/multifast/internal/ahocorasick"
	"github.com/harrison/multifast/internal/filelock"
	"github.com/harrison/multifast/internal/outpath"
)

// Replacer rewrites files through the substitution engine of a trie.
type Replacer struct {
	trie     *ahocorasick.Trie
	resolver *outpath.Resolver
	mode     ahocorasick.ReplaceMode
	opts     Options
	buf      []byte
	out      *bufio.Writer

	// Stdin is read for the input name "-".
	Stdin io.Reader
	// Stdout receives the output when the resolver selects standard output.
	Stdout io.Writer
}

// NewReplacer creates a replacer writing under resolver's root using mode
// for every file of the run.
func NewReplacer(t *ahocorasick.Trie, resolver *outpath.Resolver, mode ahocorasick.ReplaceMode, opts Options) *Replacer {
	return &Replacer{
		trie:     t,
		resolver: resolver,
		mode:     mode,
		opts:     opts,
		buf:      make([]byte, WindowSize),
		out:      bufio.NewWriterSize(nil, WindowSize),
		Stdin:    os.Stdin,
		Stdout:   os.Stdout,
	}
}

// ReplaceFile rewrites name into its destination and returns the
// destination path, or "" when the output went to standard output.
// Output already written when an error occurs stays in place.
func (r *Replacer) ReplaceFile(name string) (dest string, err error) {
	in, closeIn, info, err := openInput(name, r.Stdin)
	if err != nil {
		return "", err
	}
	defer closeIn()

	if info != nil && info.IsDir() {
		return "", fmt.Errorf("directories are not supported in replace mode: skipped %s: %w", name, ErrIsDirectory)
	}

	dest, err = r.resolver.Resolve(name)
	if err != nil {
		return "", err
	}

	var w io.Writer = r.Stdout
	if dest != "" {
		perm := os.FileMode(0o644)
		if info != nil {
			perm = info.Mode().Perm()
		}
		d, oerr := filelock.OpenLocked(dest, perm)
		if oerr != nil {
			return "", oerr
		}
		defer func() {
			if cerr := d.Close(); cerr != nil && err == nil {
				err = fmt.Errorf("failed to close %s: %w", dest, cerr)
			}
		}()
		w = d
	}

	r.out.Reset(w)
	emit := func(b []byte) error {
		_, err := r.out.Write(b)
		return err
	}

	err = windows(in, r.buf, r.opts.Insensitive, func(win []byte, _ bool) (bool, error) {
		return true, r.trie.Replace(win, r.mode, emit)
	})
	if err != nil {
		r.discard()
		return dest, fmt.Errorf("error while replacing %s: %w", name, err)
	}

	if err := r.trie.Flush(true, emit); err != nil {
		r.discard()
		return dest, fmt.Errorf("error while writing %s: %w", name, err)
	}
	if err := r.out.Flush(); err != nil {
		return dest, fmt.Errorf("error while writing %s: %w", name, err)
	}
	return dest, nil
}

// discard writes out what is already buffered and drops whatever the
// engine still holds, so the next file starts from a clean state.
func (r *Replacer) discard() {
	_ = r.out.Flush()
	_ = r.trie.Flush(true, func([]byte) error { return nil })
	r.out.Reset(io.Discard)
}

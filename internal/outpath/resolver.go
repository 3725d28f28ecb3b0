// Package outpath maps input files to destination paths under an output
// root, recreating the input's directory structure there.
package outpath

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// DefaultDirPerm is used for a created directory whose source counterpart
// cannot be stat'ed.
const DefaultDirPerm fs.FileMode = 0o755

// Resolver mirrors input paths under a root directory. It is not safe for
// concurrent use.
type Resolver struct {
	root    string
	stdout  bool
	scratch []byte
}

// New creates a resolver for root. An empty root or "-" selects standard
// output, for which Resolve always returns "".
func New(root string) *Resolver {
	r := &Resolver{root: root}
	if root == "" || root == "-" {
		r.stdout = true
		return r
	}
	if !strings.HasSuffix(r.root, string(filepath.Separator)) {
		r.root += string(filepath.Separator)
	}
	return r
}

// Stdout reports whether output goes to standard output.
func (r *Resolver) Stdout() bool {
	return r.stdout
}

// Root returns the normalized root, ending in a separator, or "" for
// standard output.
func (r *Resolver) Root() string {
	if r.stdout {
		return ""
	}
	return r.root
}

// Resolve returns the destination for input, creating every missing
// level of the root and of the mirrored input directory. A leading
// "/" of the input directory is dropped, so "/a/b.txt" under "out/"
// becomes "out/a/b.txt". It returns "" when writing to standard output.
func (r *Resolver) Resolve(input string) (string, error) {
	if r.stdout {
		return "", nil
	}

	dir, file := filepath.Split(input)
	rel := strings.TrimLeft(dir, "/")

	b := append(r.scratch[:0], r.root...)
	if err := os.MkdirAll(r.root, DefaultDirPerm); err != nil {
		r.scratch = b
		return "", fmt.Errorf("failed to create directory %s: %w", r.root, err)
	}

	srcDir := ""
	if strings.HasPrefix(dir, "/") {
		srcDir = "/"
	}
	for _, part := range strings.Split(rel, "/") {
		if part == "" {
			continue
		}
		srcDir = filepath.Join(srcDir, part)
		b = append(b, part...)
		b = append(b, filepath.Separator)

		perm := DefaultDirPerm
		if info, err := os.Stat(srcDir); err == nil && info.IsDir() {
			perm = info.Mode().Perm()
		}
		if err := mkdir(string(b), perm); err != nil {
			r.scratch = b
			return "", err
		}
	}

	b = append(b, file...)
	r.scratch = b
	return string(b), nil
}

func mkdir(path string, perm fs.FileMode) error {
	if err := os.Mkdir(path, perm); err != nil && !errors.Is(err, fs.ErrExist) {
		return fmt.Errorf("failed to create directory %s: %w", path, err)
	}
	return nil
}

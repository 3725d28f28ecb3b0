package fileutil

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

// StdinName is the input argument that stands for standard input.
const StdinName = "-"

// ScanOptions configures how a directory input is expanded
type ScanOptions struct {
	// Pattern is a regex a file's base name must match (empty = any)
	Pattern string
	// Extensions limits files to these extensions, case-insensitively (e.g., ".txt", "log")
	Extensions []string
	// Recursive descends into subdirectories
	Recursive bool
	// ExcludeDirs lists directory names that are never entered (e.g., ".git", "node_modules")
	ExcludeDirs []string
	// IncludeHidden also enters directories whose name starts with "."
	IncludeHidden bool
	// MaxDepth limits recursion depth (0 = unlimited, 1 = the directory itself only)
	MaxDepth int
}

// ScanResult contains the results of a directory scan
type ScanResult struct {
	// Files holds the matched paths, joined onto the scanned directory as given
	Files []string
	// Errors holds entries that could not be read; the scan continues past them
	Errors []error
}

type matcher struct {
	pattern *regexp.Regexp
	exts    map[string]bool
	exclude map[string]bool
}

func newMatcher(opts ScanOptions) (*matcher, error) {
	m := &matcher{
		exts:    make(map[string]bool, len(opts.Extensions)),
		exclude: make(map[string]bool, len(opts.ExcludeDirs)),
	}
	if opts.Pattern != "" {
		re, err := regexp.Compile(opts.Pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern: %w", err)
		}
		m.pattern = re
	}
	for _, ext := range opts.Extensions {
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		m.exts[strings.ToLower(ext)] = true
	}
	for _, d := range opts.ExcludeDirs {
		m.exclude[d] = true
	}
	return m, nil
}

func (m *matcher) wantFile(name string) bool {
	if len(m.exts) > 0 && !m.exts[strings.ToLower(filepath.Ext(name))] {
		return false
	}
	return m.pattern == nil || m.pattern.MatchString(name)
}

// ScanDirectory lists the regular files under dir that match opts, sorted.
// Symbolic links are not followed.
func ScanDirectory(dir string, opts ScanOptions) (*ScanResult, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to access directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("path is not a directory: %s", dir)
	}

	m, err := newMatcher(opts)
	if err != nil {
		return nil, err
	}

	result := &ScanResult{
		Files:  make([]string, 0),
		Errors: make([]error, 0),
	}

	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			result.Errors = append(result.Errors, fmt.Errorf("error accessing %s: %w", path, err))
			return nil
		}
		if path == dir {
			return nil
		}

		if d.IsDir() {
			name := d.Name()
			if m.exclude[name] || (!opts.IncludeHidden && strings.HasPrefix(name, ".")) || !opts.Recursive {
				return filepath.SkipDir
			}
			if opts.MaxDepth > 0 {
				rel, _ := filepath.Rel(dir, path)
				if strings.Count(rel, string(filepath.Separator))+1 >= opts.MaxDepth {
					return filepath.SkipDir
				}
			}
			return nil
		}

		if !d.Type().IsRegular() {
			return nil
		}
		if m.wantFile(d.Name()) {
			result.Files = append(result.Files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk directory: %w", err)
	}

	sort.Strings(result.Files)
	return result, nil
}

// ExpandInputs replaces every directory among inputs with the files
// ScanDirectory finds in it. Other inputs, including "-" and paths that do
// not exist, are passed through unchanged so that opening them reports the
// problem. Order is preserved.
func ExpandInputs(inputs []string, opts ScanOptions) ([]string, []error) {
	files := make([]string, 0, len(inputs))
	var errs []error

	for _, in := range inputs {
		if in == StdinName {
			files = append(files, in)
			continue
		}
		info, err := os.Stat(in)
		if err != nil || !info.IsDir() {
			files = append(files, in)
			continue
		}

		res, err := ScanDirectory(in, opts)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		files = append(files, res.Files...)
		errs = append(errs, res.Errors...)
	}
	return files, errs
}

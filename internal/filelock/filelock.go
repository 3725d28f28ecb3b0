// Package filelock guards replace destinations with advisory locks, so two
// runs writing the same output file fail fast instead of interleaving.
package filelock

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/gofrs/flock"
)

// ErrLocked is returned when a destination is already locked elsewhere.
var ErrLocked = errors.New("file is locked by another writer")

// FileLock wraps a flock file lock on a single path.
type FileLock struct {
	flock *flock.Flock
	path  string
}

// NewFileLock creates a lock for path. The file is created on first lock
// if it does not exist.
func NewFileLock(path string) *FileLock {
	return &FileLock{
		flock: flock.New(path),
		path:  path,
	}
}

// TryLock attempts to acquire an exclusive lock without blocking.
// Returns true if the lock was acquired, false if it is held elsewhere.
func (fl *FileLock) TryLock() (bool, error) {
	acquired, err := fl.flock.TryLock()
	if err != nil {
		return false, fmt.Errorf("failed to try lock on %s: %w", fl.path, err)
	}
	return acquired, nil
}

// Unlock releases the lock.
func (fl *FileLock) Unlock() error {
	err := fl.flock.Unlock()
	if err != nil {
		return fmt.Errorf("failed to release lock on %s: %w", fl.path, err)
	}
	return nil
}

// Destination is an output file held under an exclusive lock.
type Destination struct {
	*os.File
	lock *FileLock
}

// OpenLocked opens path for writing, creating it with perm when missing,
// locks it and only then truncates it. A destination locked by another
// writer is left untouched and ErrLocked is returned.
func OpenLocked(path string, perm fs.FileMode) (*Destination, error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE, perm)
	if err != nil {
		return nil, fmt.Errorf("cannot open %s for writing: %w", path, err)
	}

	lock := NewFileLock(path)
	acquired, err := lock.TryLock()
	if err != nil {
		f.Close()
		return nil, err
	}
	if !acquired {
		f.Close()
		return nil, fmt.Errorf("%s: %w", path, ErrLocked)
	}

	if err := f.Truncate(0); err != nil {
		lock.Unlock()
		f.Close()
		return nil, fmt.Errorf("failed to truncate %s: %w", path, err)
	}

	return &Destination{File: f, lock: lock}, nil
}

// Close closes the file and releases its lock.
func (d *Destination) Close() error {
	closeErr := d.File.Close()
	if err := d.lock.Unlock(); err != nil && closeErr == nil {
		return err
	}
	return closeErr
}

// Package filelock serializes whole build runs against a shared output
// directory and provides atomic whole-file writes for the manifest.
package filelock

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// BuildLock guards an output directory so two concurrent builds cannot
// interleave partial archives or manifests.
type BuildLock struct {
	flock *flock.Flock
	path  string
}

// NewBuildLock creates a lock for the given output directory. The lock
// file lives next to the directory rather than inside it, because the
// archiver sweeps the directory's contents between runs.
func NewBuildLock(outputDir string) *BuildLock {
	path := filepath.Clean(outputDir) + ".lock"
	return &BuildLock{
		flock: flock.New(path),
		path:  path,
	}
}

// Acquire takes the lock without blocking. A held lock means another
// build is running against the same output directory.
func (l *BuildLock) Acquire() error {
	acquired, err := l.flock.TryLock()
	if err != nil {
		return fmt.Errorf("failed to acquire build lock %s: %w", l.path, err)
	}
	if !acquired {
		return fmt.Errorf("another build is already running (lock held: %s)", l.path)
	}
	return nil
}

// Release releases the lock.
func (l *BuildLock) Release() error {
	if err := l.flock.Unlock(); err != nil {
		return fmt.Errorf("failed to release build lock %s: %w", l.path, err)
	}
	return nil
}

// AtomicWrite writes data to a file atomically via a temp file in the
// target directory followed by a rename, so readers never observe a
// partial write.
func AtomicWrite(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	// Same directory keeps the temp file on the same filesystem, which is
	// what makes the rename atomic
	tempFile, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tempPath := tempFile.Name()

	defer func() {
		if tempFile != nil {
			tempFile.Close()
			os.Remove(tempPath)
		}
	}()

	if _, err := tempFile.Write(data); err != nil {
		return fmt.Errorf("failed to write to temp file: %w", err)
	}
	if err := tempFile.Sync(); err != nil {
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Chmod(tempPath, 0644); err != nil {
		return fmt.Errorf("failed to set permissions: %w", err)
	}
	if err := os.Rename(tempPath, path); err != nil {
		return fmt.Errorf("failed to rename temp file to %s: %w", path, err)
	}

	tempFile = nil
	return nil
}

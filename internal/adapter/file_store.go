// Package adapter contains filesystem and persistence adapters for the retouch CLI.
package adapter

import (
	"bytes"
	"crypto/sha256"
	"fmt"
	"os"

	"github.com/natefinch/atomic"

	m "github.com/flatgrass/retouch/internal/model"
)

// FileStore abstracts target-file access so the patching workflow can be
// tested without touching the disk.
type FileStore interface {
	// ReadFile loads a file from disk and returns its contents.
	ReadFile(path m.Path) ([]byte, error)

	// WriteFile replaces the content of the file at path. The write must be
	// atomic: a crash mid-write may leave the old content but never a
	// truncated file.
	WriteFile(path m.Path, content []byte) error

	// FileInfo returns metadata for a path so callers can check existence or
	// distinguish files from directories.
	FileInfo(path m.Path) (os.FileInfo, error)
}

// LocalFileStore is the FileStore implementation backed by the local filesystem.
type LocalFileStore struct{}

// NewLocalFileStore constructs a LocalFileStore ready to be wired into the workflow.
func NewLocalFileStore() *LocalFileStore {
	return &LocalFileStore{}
}

// ReadFile loads file contents from disk.
func (s *LocalFileStore) ReadFile(path m.Path) ([]byte, error) {
	return os.ReadFile(string(path))
}

// WriteFile replaces the file at path via a temp file and rename, preserving
// the original permissions.
func (s *LocalFileStore) WriteFile(path m.Path, content []byte) error {
	return atomic.WriteFile(string(path), bytes.NewReader(content))
}

// FileInfo returns os.FileInfo metadata for the given path.
func (s *LocalFileStore) FileInfo(path m.Path) (os.FileInfo, error) {
	return os.Stat(string(path))
}

// Fingerprint returns the SHA-256 hex digest of content. Run reports use it
// to record before/after file states.
func Fingerprint(content []byte) string {
	return fmt.Sprintf("%x", sha256.Sum256(content))
}

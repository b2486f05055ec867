package filesystem

import (
	"io"
	"io/fs"
)

// FileInfo is an alias for fs.FileInfo from the standard library.
// This provides compatibility with the fs.FS ecosystem while maintaining
// a stable local type for our abstraction layer.
type FileInfo = fs.FileInfo

// FileSystemProvider is the narrow filesystem surface the scanner and loader need.
// Missing paths are reported with errors that satisfy errors.Is(err, fs.ErrNotExist).
type FileSystemProvider interface {
	// ReadDir returns the entries of a directory sorted by name.
	// Symbolic links are resolved so IsDir reports the target's type.
	ReadDir(path string) ([]FileInfo, error)

	// Stat returns file information for the given path
	Stat(path string) (FileInfo, error)

	// OpenFile opens a regular file for streaming reads.
	OpenFile(path string) (io.ReadCloser, error)

	// Abs returns an absolute, cleaned form of path.
	Abs(path string) (string, error)

	// Join joins path elements using the provider's separator.
	Join(elem ...string) string
}

package filesystem

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// OSFileSystem implements FileSystemProvider for the OS filesystem
type OSFileSystem struct{}

// NewOSFileSystem creates a new OS filesystem provider
func NewOSFileSystem() *OSFileSystem {
	return &OSFileSystem{}
}

func (p *OSFileSystem) ReadDir(path string) ([]FileInfo, error) {
	// os.ReadDir already sorts by filename
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory: %w", err)
	}

	result := make([]FileInfo, 0, len(entries))
	for _, entry := range entries {
		info, err := entry.Info()
		if err != nil {
			return nil, fmt.Errorf("failed to get file info for %s: %w", entry.Name(), err)
		}
		if info.Mode()&os.ModeSymlink != 0 {
			target, err := os.Stat(filepath.Join(path, entry.Name()))
			if err != nil {
				// Dangling link: keep the link's own info so callers can skip it
				result = append(result, info)
				continue
			}
			info = renamedInfo{FileInfo: target, name: entry.Name()}
		}
		result = append(result, info)
	}

	return result, nil
}

func (p *OSFileSystem) Stat(path string) (FileInfo, error) {
	return os.Stat(path)
}

func (p *OSFileSystem) OpenFile(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	return f, nil
}

func (p *OSFileSystem) Abs(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to get absolute path: %w", err)
	}
	return abs, nil
}

func (p *OSFileSystem) Join(elem ...string) string {
	return filepath.Join(elem...)
}

// renamedInfo reports a symlink target's metadata under the link's name.
type renamedInfo struct {
	FileInfo
	name string
}

func (r renamedInfo) Name() string { return r.name }

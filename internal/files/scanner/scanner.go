package scanner

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/vvka-141/pgcsv/internal/files/filesystem"
	"github.com/vvka-141/pgcsv/pkg/pgcsv"
)

// Scanner discovers candidate files from a directory tree.
// Scanner is safe for concurrent use by multiple goroutines as long as
// the provided fsProvider is also thread-safe.
type Scanner struct {
	fsProvider filesystem.FileSystemProvider
}

// NewScanner creates a new file scanner over the OS filesystem.
func NewScanner() *Scanner {
	return &Scanner{fsProvider: filesystem.NewOSFileSystem()}
}

// NewScannerWithFS creates a new file scanner with a custom filesystem provider.
// This is primarily useful for testing with in-memory filesystems.
// Panics if fsProvider is nil.
func NewScannerWithFS(fsProvider filesystem.FileSystemProvider) *Scanner {
	if fsProvider == nil {
		panic("fsProvider cannot be nil")
	}
	return &Scanner{fsProvider: fsProvider}
}

// Discover returns the candidate files under root in load order.
//
// A missing root is reported as pgcsv.ErrSourceNotFound. Unreadable
// directories abort discovery with the underlying error.
func (s *Scanner) Discover(root, dirSuffix, fileSuffix string) ([]pgcsv.CandidateFile, error) {
	absRoot, err := s.fsProvider.Abs(root)
	if err != nil {
		return nil, err
	}

	info, err := s.fsProvider.Stat(absRoot)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", root, pgcsv.ErrSourceNotFound)
		}
		return nil, fmt.Errorf("failed to access %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory: %w", root, pgcsv.ErrSourceNotFound)
	}

	batches, err := s.fsProvider.ReadDir(absRoot)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", absRoot, err)
	}

	var candidates []pgcsv.CandidateFile
	for _, batch := range batches {
		if !batch.IsDir() || !strings.HasSuffix(batch.Name(), dirSuffix) {
			continue
		}

		batchPath := s.fsProvider.Join(absRoot, batch.Name())
		entries, err := s.fsProvider.ReadDir(batchPath)
		if err != nil {
			return nil, fmt.Errorf("failed to list %s: %w", batchPath, err)
		}

		for _, entry := range entries {
			if !entry.Mode().IsRegular() || !strings.HasSuffix(entry.Name(), fileSuffix) {
				continue
			}
			candidates = append(candidates, pgcsv.CandidateFile{
				Path:      s.fsProvider.Join(batchPath, entry.Name()),
				Name:      entry.Name(),
				Directory: batch.Name(),
				SizeBytes: entry.Size(),
			})
		}
	}

	return candidates, nil
}

package pgcsv

// FileScanner discovers candidate files under a root directory.
// Implementations must be safe for concurrent use by multiple goroutines.
type FileScanner interface {
	// Discover lists first-level directories of root whose name ends with dirSuffix,
	// then the files inside each whose name ends with fileSuffix.
	// Results are in load order.
	Discover(root, dirSuffix, fileSuffix string) ([]CandidateFile, error)
}

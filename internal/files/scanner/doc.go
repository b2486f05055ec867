// Package scanner discovers CSV batch files for loading.
//
// Discovery is two levels deep: first-level directories of the root whose
// name carries the directory suffix (".csv" by default, matching how the
// OpenSky dumps unpack), then the files inside each of those whose name
// carries the file suffix. Files at the root itself and deeper nesting are
// ignored.
//
// Both levels are listed in lexicographic order, so the load order is the
// same on every platform and every run.
//
// The scanner is filesystem-agnostic through the filesystem.FileSystemProvider
// interface, enabling both production use with the OS filesystem and testing
// with in-memory filesystems.
package scanner

// Package filesystem provides filesystem abstraction interfaces and implementations.
//
// This package defines the directory listing and file streaming operations used
// to discover and read CSV batches, enabling testability through an in-memory
// implementation while maintaining compatibility with the OS filesystem.
//
// Implementations:
//   - OSFileSystem: Production implementation using OS filesystem
//   - MemoryFileSystem: In-memory implementation for testing
package filesystem

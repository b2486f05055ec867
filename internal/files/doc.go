// Package files groups the filesystem side of a load run into sub-packages:
//   - filesystem: Filesystem abstraction with OS and in-memory implementations
//   - scanner: Two-level discovery of candidate CSV files
//   - loader: COPY statement rendering and per-file transactional loading
//
// # Usage
//
//	import (
//	    "github.com/vvka-141/pgcsv/internal/files/loader"
//	    "github.com/vvka-141/pgcsv/internal/files/scanner"
//	)
//
//	files, err := scanner.NewScanner().Discover("./states", ".csv", ".csv")
//	...
//	l := loader.NewLoader()
//	for _, f := range files {
//	    result, err := l.LoadFile(ctx, conn, spec, f)
//	    ...
//	}
package files

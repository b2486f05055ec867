// Package loader bulk-loads CSV files into PostgreSQL with COPY.
//
// The loader package is responsible for:
//   - Rendering the COPY statement for a target table and column list
//   - Streaming file content over the connection (COPY ... FROM STDIN), or
//     pointing the server at the file (COPY ... FROM '<path>')
//   - Running each file in its own transaction and committing it
//
// Identifiers are quoted with pgx's sanitizer. In server mode the path is
// embedded as a quoted literal and must be absolute; client mode never puts
// a path into SQL text.
package loader

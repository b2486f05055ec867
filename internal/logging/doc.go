// Package logging provides concrete implementations of the pgcsv.Logger interface.
//
// Available implementations:
//   - ConsoleLogger: writes notices to stderr, styled when stderr is a terminal
//   - NullLogger: discards all messages
//
// All logger implementations are safe for concurrent use by multiple goroutines.
package logging

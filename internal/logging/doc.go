// Package logging provides concrete implementations of the retailload.Logger interface.
//
// Available implementations:
//   - ConsoleLogger: zap-backed, writes level-tagged lines to stderr
//   - NullLogger: Discards all messages (useful for testing)
//
// All logger implementations are safe for concurrent use by multiple goroutines.
package logging

// Package diag defines the diagnostic model shared by the tree builder and the
// dependency resolver.
//
// Producers report through a Reporter, so resolution code never decides how a
// finding is stored or shown. BagReporter collects into a Bag, DedupReporter
// drops repeats (the same cycle is usually met from several files), and Pretty
// renders a sorted bag for the terminal.
//
// A Diagnostic carries:
//
//   - Severity: Info, Warning or Error.
//   - Code: numeric identifier with a stable "PRJ5001"-style ID.
//   - Message: short, actionable text.
//   - Path: the repository-relative file the finding is about.
//   - Notes: optional extra context pointing at other files.
//
// Nothing in this package aborts a build. Only a failed tree write is fatal,
// and that travels as an ordinary error.
package diag

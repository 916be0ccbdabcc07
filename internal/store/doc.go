// Package store provides the SQLite-backed rewrite ledger.
//
// The ledger is an append-only record of rewrite runs: which
// declaration (by content-addressed identity) was rewritten, under
// which effective bounds and mode, into which output tree. The
// rewriting core itself stays a pure function; only the CLI writes
// here, and only when recording is requested.
//
// Ordering uses a logical seq counter, never wall-clock timestamps, so
// history reads are reproducible. All queries order by
// seq ASC, id ASC COLLATE BINARY.
//
// Database configuration:
//   - WAL mode: concurrent reads during writes
//   - synchronous=NORMAL: balance durability/performance
//   - busy_timeout=5000: wait for locks up to 5 seconds
//   - foreign_keys=ON
//
// Record identities are computed in internal/ir/hash.go over canonical
// JSON with SHA-256 domain separation; duplicate writes of the same
// record are silently ignored.
package store

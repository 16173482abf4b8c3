// Package store provides the SQLite-backed run log.
//
// Every interpreter run (successful or failed) is appended to the runs
// table with the module hash, the raw argument lines and either the
// rendered result or the error code. The log is what replay reads to
// check that a module still produces byte-identical results.
//
// # Ordering
//
// Runs are ordered by seq, a logical counter assigned on insert, never by
// wall-clock time. Run IDs are UUIDv7, so they also sort by creation time,
// but queries always ORDER BY seq ASC, id ASC COLLATE BINARY.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - A single open connection serialises writers
package store

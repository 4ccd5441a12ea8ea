// Package tasks runs bulk operations against the todo service with real-time progress reporting.
//
// # Import
//
// [Importer.Import] adds many items through the HTTP client:
//   - A producer hands items to a bounded pool of workers, paced by a token bucket ([rate.Limiter])
//   - Each worker issues one add per item; failures are recorded and do not stop the others
//   - Results are collected in input order, optionally followed by a single list to report the stored count
//
// Items are read from text with [ParseItems], one per line.
//
// # Progress Reporting
//
// All operations use non-blocking channels for progress updates.
//
// The [ProgressUpdate] struct contains phase, step counters, messages, and the per-item [ItemResult] as data.
// Updates use select with default to prevent blocking.
package tasks

// Package history provides SQLite-based storage of completed tabreport runs.
//
// Each run is stored with its input path, a BLAKE2b-256 digest of the input
// file, the table shape, the overall average and the full run report as
// JSON, so earlier results can be listed and compared with a new run of the
// same file. The database is a single file opened through modernc.org/sqlite,
// which needs no cgo.
package history

// Package log provides slog loggers that mask sensitive values.
//
// A RedactHandler wraps any slog.Handler and replaces the value of every
// attribute whose key names a sensitive column (for example "Salary") or
// looks like a credential ("password", "token", ...) with MaskValue before
// the record reaches the underlying handler. Debug output can therefore
// mention per-column results without leaking the values of those columns.
//
//	logger := log.NewLogger(os.Stderr, verbose, "salary")
//	logger.Debug("mean computed", "Salary", 52000.0) // Salary=***REDACTED***
//	slog.SetDefault(logger)
package log

package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() so callers can match
// them with errors.Is().
var (
	// ErrNoInput is returned when the input CSV path is empty.
	ErrNoInput = errors.New("no input specified: provide a CSV file with --input")

	// ErrNoOutput is returned when the output CSV path is empty.
	ErrNoOutput = errors.New("no output specified: provide a destination with --output")

	// ErrSameInputOutput is returned when input and output name the same file.
	// Persisting would replace the table that is being read.
	ErrSameInputOutput = errors.New("input and output must be different files")

	// ErrEmptyColumnName is returned when the age or salary column name is empty.
	ErrEmptyColumnName = errors.New("invalid column name: must not be empty")

	// ErrInvalidPreviewRows is returned when the preview row count is negative.
	ErrInvalidPreviewRows = errors.New("invalid preview rows: must be non-negative")

	// ErrInvalidDelimiter is returned when the delimiter is not a single character
	// or is a character encoding/csv cannot split on.
	ErrInvalidDelimiter = errors.New("invalid delimiter: must be a single character other than quote, CR or LF")

	// ErrConflictingReportFormats is returned when both --json and --markdown
	// are specified. Only one output format can be used at a time.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")
)

package frame

import (
	"errors"
	"fmt"
)

// Kind classifies a table error.
type Kind int

const (
	// KindUnknown is reported for errors that did not originate from a table operation.
	KindUnknown Kind = iota

	// KindIO covers files that are missing, unreadable or unwritable.
	KindIO

	// KindParse covers input that is not well-formed delimited text.
	KindParse

	// KindSchema covers expected columns that are absent.
	KindSchema

	// KindComputation covers statistics that cannot be computed,
	// e.g. the mean of a non-numeric or empty column.
	KindComputation
)

// String returns the kind name used in log output.
func (k Kind) String() string {
	switch k {
	case KindIO:
		return "io"
	case KindParse:
		return "parse"
	case KindSchema:
		return "schema"
	case KindComputation:
		return "computation"
	default:
		return "unknown"
	}
}

// Sentinel errors wrapped by *Error. Match them with errors.Is.
var (
	// ErrFileNotFound is returned when the input path does not exist.
	ErrFileNotFound = errors.New("file not found")

	// ErrMalformedCSV is returned when the input cannot be parsed as
	// delimited text with a header row.
	ErrMalformedCSV = errors.New("malformed CSV")

	// ErrColumnNotFound is returned when a required column is absent.
	ErrColumnNotFound = errors.New("column not found")

	// ErrNonNumericColumn is returned when a numeric operation targets a
	// column whose values are not numbers.
	ErrNonNumericColumn = errors.New("column is not numeric")
)

// Error is the error type returned by table operations.
type Error struct {
	// Kind is the error class.
	Kind Kind

	// Op is the operation that failed ("load", "save", "column", ...).
	Op string

	// Subject is the file path or column name the operation targeted.
	Subject string

	// Err is the underlying cause. It wraps one of the sentinel errors.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Subject == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Subject, e.Err)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the Kind of the first *Error in err's chain,
// or KindUnknown if there is none.
func KindOf(err error) Kind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return KindUnknown
}

// columnError builds the schema/computation error for a column lookup.
func columnError(kind Kind, column string, sentinel error) *Error {
	return &Error{Kind: kind, Op: "column", Subject: column, Err: sentinel}
}

// Package frame provides the in-memory table used by tabreport.
//
// A Frame wraps a gota DataFrame loaded from delimited text. Frames are
// immutable: Head and Subset return new frames that share no mutable state
// with their parent, and Save serializes the frame exactly as loaded.
//
// # Missing values
//
// Cells matching one of the configured NA tokens (DefaultNAValues unless
// overridden with WithNAValues) are loaded as missing. Numeric accessors
// report missing cells as NaN.
//
// # Errors
//
// Every failure is reported as an *Error carrying a Kind (IO, Parse,
// Schema, Computation). Sentinel errors such as ErrFileNotFound and
// ErrColumnNotFound are wrapped so callers can use errors.Is, and KindOf
// classifies any error returned by this package or by analysis.
package frame

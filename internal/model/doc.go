// Package model defines the data structures shared by the pipeline, the
// report writers and the run history.
//
// This package contains the following main types:
//   - RunReport: everything one run derived from its input table
//   - TableView: a serializable snapshot of table rows with their positions
//   - ColumnSummary, ValueCount and GroupMean: the derived statistics
//   - Number: a float64 that prints like a dataframe scalar and encodes NaN as null
//
// The models are serializable to JSON for report output and history storage.
package model

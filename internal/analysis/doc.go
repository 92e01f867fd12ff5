// Package analysis computes the derived views of a frame: descriptive
// statistics, value counts, column means, threshold filters and grouped
// means.
//
// Every function is read-only with respect to its input frame. Missing
// values (NaN) are skipped by all statistics, the way a dataframe library
// skips them by default.
package analysis

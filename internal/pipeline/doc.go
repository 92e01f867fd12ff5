// Package pipeline runs the steps of a tabreport run in sequence.
//
// A run loads the input table, derives the preview, the summary statistics,
// the value counts, the overall mean, the filtered view and the group means,
// and finally persists the table. Each stage is a Step that receives the
// report filled in by the stages before it. The first failing step stops the
// run, so nothing is printed and nothing is persisted after a failure.
package pipeline

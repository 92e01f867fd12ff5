// Package main provides the entry point for the tabreport CLI.
//
// tabreport loads a CSV table, prints a preview, summary statistics, the
// age distribution, the average salary, the rows above an age threshold and
// the average salary per age, and writes the table back to a new CSV file.
//
// Usage:
//
//	tabreport
//	tabreport -i people.csv -o copy.csv --threshold 30
//
// See --help for all available options.
package main

// main is the entry point for tabreport.
func main() {
	Execute()
}

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nao1215/tabreport/internal/config"
)

// NewRootCmd creates the root command for tabreport.
// Running it without a subcommand produces the report.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tabreport",
		Short: "Summarize a CSV table and save a copy",
		Long: `tabreport loads a CSV table and prints, in order:

  1. the first rows of the table
  2. summary statistics of every numeric column
  3. the distribution of the age column
  4. the average of the salary column
  5. the rows whose age is above a threshold
  6. the average salary per age
  7. where the table copy was saved

The unmodified table is then written to the output file.

Examples:
  # Read data.csv and write modified_data.csv
  tabreport

  # Use other files and a different threshold
  tabreport -i people.csv -o people_copy.csv --threshold 30

  # Write a Markdown report to a file as well
  tabreport --markdown --report-file report/summary.md

  # Record the run in the history database
  tabreport --history

Configuration file (.tabreport) example:
  input: people.csv
  ageColumn: Years
  salaryColumn: Pay
  ageThreshold: 30
  strictMean: true`,
		Version:       getVersion(),
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runRootCmd,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().String("db-dir", config.XDGDataDir(),
		"Directory of the run history database")

	// Input and output
	cmd.Flags().StringP("input", "i", config.DefaultInput, "CSV file to read")
	cmd.Flags().StringP("output", "o", config.DefaultOutput,
		"CSV file the table is written to (overwritten if it exists)")
	cmd.Flags().StringP("delimiter", "d", config.DefaultDelimiter, "Field delimiter of the input file")
	cmd.Flags().StringSlice("na-values", nil, "Cell values read as missing (replaces the defaults)")

	// Analysis
	cmd.Flags().String("age-column", config.DefaultAgeColumn, "Column counted, filtered and grouped on")
	cmd.Flags().String("salary-column", config.DefaultSalaryColumn, "Column averaged overall and per group")
	cmd.Flags().Float64P("threshold", "t", config.DefaultAgeThreshold,
		"Rows whose age is strictly greater than this are listed")
	cmd.Flags().IntP("preview-rows", "n", config.DefaultPreviewRows, "Number of rows in the preview")
	cmd.Flags().Bool("strict-mean", false, "Fail instead of printing nan when the salary column has no values")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .tabreport in current or home directory)")

	// Report flags
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().StringP("report-file", "r", "",
		"Also write the report to this file (creates directories if needed)")
	cmd.Flags().Bool("history", false, "Store the run in the history database")

	// Add subcommands
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nao1215/tabreport/internal/config"
	"github.com/nao1215/tabreport/internal/history"
	"github.com/nao1215/tabreport/internal/report"
)

// defaultHistoryLimit is the number of runs listed when --limit is not set.
const defaultHistoryLimit = 20

// NewHistoryCmd creates the history command.
// It lists runs stored with --history.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [input]",
		Short: "List runs stored in the history database",
		Long: `History lists the runs recorded with --history, newest first.

Each entry shows the run ID, when it ran, the table shape, the average
salary and the input file. Pass an input path to list only its runs.

Examples:
  # List the latest runs
  tabreport history

  # List runs of one input file as JSON
  tabreport history --json data.csv

  # Print a stored report again
  tabreport history show 3`,
		Args: cobra.MaximumNArgs(1),
		RunE: runHistoryCmd,
	}

	cmd.Flags().BoolP("json", "j", false, "Output the run list in JSON format")
	cmd.Flags().IntP("limit", "l", defaultHistoryLimit, "Maximum number of runs to list (0 for all)")

	cmd.AddCommand(newHistoryShowCmd())

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, args []string) error {
	jsonOutput, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}
	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return err
	}

	var input string
	if len(args) > 0 {
		input = args[0]
	}

	db, err := history.Open(getDBDir(cmd), history.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open history database: %w", err)
	}
	defer db.Close()

	runs, err := db.ListRuns(cmd.Context(), input, limit)
	if err != nil {
		return err
	}

	if jsonOutput {
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		return encoder.Encode(runs)
	}
	return printRuns(cmd.OutOrStdout(), input, runs)
}

// printRuns writes the run list as an aligned table.
func printRuns(w io.Writer, input string, runs []history.Run) error {
	if len(runs) == 0 {
		if input != "" {
			fmt.Fprintf(w, "No runs recorded for %s\n", input)
		} else {
			fmt.Fprintln(w, "No runs recorded")
		}
		fmt.Fprintln(w, "\nUse 'tabreport --history' to record a run.")
		return nil
	}

	fmt.Fprintf(w, "Run history (%d runs):\n\n", len(runs))
	fmt.Fprintf(w, "  %-6s  %-19s  %-10s  %-12s  %s\n", "ID", "Date", "Shape", "Average", "Input")
	fmt.Fprintln(w, "  "+strings.Repeat("-", 70))

	for _, run := range runs {
		fmt.Fprintf(w, "  %-6d  %-19s  %-10s  %-12s  %s\n",
			run.ID,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			fmt.Sprintf("%dx%d", run.Rows, run.Columns),
			run.Average.String(),
			run.InputPath,
		)
	}

	fmt.Fprintln(w, "\nUse 'tabreport history show <id>' to print a stored report.")
	return nil
}

// newHistoryShowCmd creates the history show command.
func newHistoryShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Print a stored report",
		Long: `Show prints the report of a stored run in the text, JSON or Markdown format.

Examples:
  tabreport history show 3
  tabreport history show --markdown 3`,
		Args: cobra.ExactArgs(1),
		RunE: runHistoryShowCmd,
	}

	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json)")

	return cmd
}

// runHistoryShowCmd executes the history show command.
func runHistoryShowCmd(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid run ID %q: %w", args[0], err)
	}

	cfg := config.NewConfig()
	if cfg.JSONReport, err = cmd.Flags().GetBool("json"); err != nil {
		return err
	}
	if cfg.MarkdownReport, err = cmd.Flags().GetBool("markdown"); err != nil {
		return err
	}
	if cfg.JSONReport && cfg.MarkdownReport {
		return config.ErrConflictingReportFormats
	}

	return showRun(cmd.Context(), getDBDir(cmd), id, formatWriter(cfg, cmd.OutOrStdout()))
}

// showRun renders the stored report of run id with w.
func showRun(ctx context.Context, dbDir string, id int64, w report.Writer) error {
	db, err := history.Open(dbDir, history.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open history database: %w", err)
	}
	defer db.Close()

	stored, err := db.GetRun(ctx, id)
	if err != nil {
		return err
	}

	_, err = w.Write(stored)
	return err
}

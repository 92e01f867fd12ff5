package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/nao1215/tabreport/internal/config"
	"github.com/nao1215/tabreport/internal/history"
	tlog "github.com/nao1215/tabreport/internal/log"
	"github.com/nao1215/tabreport/internal/model"
	"github.com/nao1215/tabreport/internal/pipeline"
	"github.com/nao1215/tabreport/internal/report"
)

// runRootCmd executes the report run.
func runRootCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := tlog.NewLogger(cmd.ErrOrStderr(), cfg.Verbose, cfg.SensitiveColumns...)
	slog.SetDefault(logger)

	// Interrupts stop the run between steps.
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return runReport(ctx, cfg, cmd.OutOrStdout(), logger)
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// getDBDir retrieves the history directory from the command or its parent.
func getDBDir(cmd *cobra.Command) string {
	dir, err := cmd.Flags().GetString("db-dir")
	if err != nil {
		dir, err = cmd.Root().PersistentFlags().GetString("db-dir")
		if err != nil {
			return config.XDGDataDir()
		}
	}
	return dir
}

// buildConfig creates a Config from defaults, the configuration file and
// the command flags, in increasing precedence.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewConfig()

	var err error
	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	// An explicit path must exist; the default locations are optional.
	if _, err := config.Load(cfg); err != nil {
		if errors.Is(err, config.ErrConfigNotFound) {
			return nil, fmt.Errorf("%w: %s", err, cfg.ConfigFilePath)
		}
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	if err := applyFlags(cmd, cfg); err != nil {
		return nil, err
	}

	cfg.Verbose = getVerboseFlag(cmd)
	cfg.DBDir = getDBDir(cmd)

	return cfg, nil
}

// applyFlags copies the flags the user set onto cfg. Flags left at their
// default do not override the configuration file.
func applyFlags(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()

	var err error
	set := func(name string, apply func() error) {
		if err == nil && flags.Changed(name) {
			err = apply()
		}
	}

	set("input", func() (e error) { cfg.Input, e = flags.GetString("input"); return })
	set("output", func() (e error) { cfg.Output, e = flags.GetString("output"); return })
	set("delimiter", func() (e error) { cfg.Delimiter, e = flags.GetString("delimiter"); return })
	set("na-values", func() (e error) { cfg.NAValues, e = flags.GetStringSlice("na-values"); return })
	set("age-column", func() (e error) { cfg.AgeColumn, e = flags.GetString("age-column"); return })
	set("salary-column", func() (e error) { cfg.SalaryColumn, e = flags.GetString("salary-column"); return })
	set("threshold", func() (e error) { cfg.AgeThreshold, e = flags.GetFloat64("threshold"); return })
	set("preview-rows", func() (e error) { cfg.PreviewRows, e = flags.GetInt("preview-rows"); return })
	set("strict-mean", func() (e error) { cfg.StrictMean, e = flags.GetBool("strict-mean"); return })
	set("history", func() (e error) { cfg.History, e = flags.GetBool("history"); return })
	set("json", func() (e error) { cfg.JSONReport, e = flags.GetBool("json"); return })
	set("markdown", func() (e error) { cfg.MarkdownReport, e = flags.GetBool("markdown"); return })
	set("report-file", func() (e error) { cfg.ReportFile, e = flags.GetString("report-file"); return })

	return err
}

// runReport executes the pipeline, then renders the report and records the
// run. Nothing is rendered when a step fails.
func runReport(ctx context.Context, cfg *config.Config, stdout io.Writer, logger *slog.Logger) error {
	logger.Info("starting run",
		"input", cfg.Input,
		"output", cfg.Output,
		"history", cfg.History,
	)

	rep := pipeline.NewReport(cfg)
	p := pipeline.DefaultPipeline(cfg, pipeline.WithLogger(logger))

	startTime := time.Now()
	if err := p.Execute(ctx, rep); err != nil {
		return err
	}
	logger.Debug("run completed", "elapsed", time.Since(startTime).Round(time.Millisecond))

	if err := outputReport(cfg, rep, stdout); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	if cfg.History {
		if err := saveRun(ctx, cfg.DBDir, rep, logger); err != nil {
			logger.Error("failed to save run", "input", cfg.Input, "error", err)
		}
	}

	return nil
}

// formatWriter returns the writer of the format selected in cfg.
func formatWriter(cfg *config.Config, w io.Writer) report.Writer {
	switch {
	case cfg.JSONReport:
		return report.NewJSONWriter(w, report.WithPrettyPrint(), report.WithVersion(getVersion()))
	case cfg.MarkdownReport:
		return report.NewMarkdownWriter(w)
	default:
		return report.NewTextWriter(w)
	}
}

// outputReport renders the report. Without a report file the selected
// format goes to stdout. With one, the selected format goes to the file and
// the text report still goes to stdout.
func outputReport(cfg *config.Config, rep *model.RunReport, stdout io.Writer) error {
	if cfg.ReportFile == "" {
		_, err := formatWriter(cfg, stdout).Write(rep)
		return err
	}

	// Create directories if they don't exist
	dir := filepath.Dir(cfg.ReportFile)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	// Reports contain row values, so the file is only readable by the owner.
	f, err := os.OpenFile(cfg.ReportFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	defer f.Close()

	writer := report.NewMultiWriter(report.NewTextWriter(stdout), formatWriter(cfg, f))
	if _, err := writer.Write(rep); err != nil {
		return err
	}
	return f.Close()
}

// saveRun stores the report in the history database in dbDir.
func saveRun(ctx context.Context, dbDir string, rep *model.RunReport, logger *slog.Logger) error {
	db, err := history.Open(dbDir, history.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open history database: %w", err)
	}
	defer db.Close()

	id, err := db.SaveRun(ctx, rep)
	if err != nil {
		return err
	}

	logger.Info("run saved to history", "id", id, "db", db.Path())
	return nil
}

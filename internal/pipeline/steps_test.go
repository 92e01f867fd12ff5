package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/nao1215/tabreport/internal/analysis"
	"github.com/nao1215/tabreport/internal/config"
	"github.com/nao1215/tabreport/internal/frame"
	"github.com/nao1215/tabreport/internal/model"
)

// setupRun writes content to an input file in a temporary directory and
// returns a configuration reading it.
func setupRun(t *testing.T, content string) *config.Config {
	t.Helper()

	dir := t.TempDir()
	cfg := config.NewConfig()
	cfg.Input = filepath.Join(dir, "data.csv")
	cfg.Output = filepath.Join(dir, "modified_data.csv")
	cfg.DBDir = filepath.Join(dir, "db")
	if content != "" {
		if err := os.WriteFile(cfg.Input, []byte(content), 0600); err != nil {
			t.Fatalf("failed to write input: %v", err)
		}
	}
	return cfg
}

// run executes the default pipeline for cfg.
func run(t *testing.T, cfg *config.Config) (*model.RunReport, error) {
	t.Helper()

	report := NewReport(cfg)
	err := DefaultPipeline(cfg).Execute(context.Background(), report)
	return report, err
}

const scenarioCSV = "Age,Salary\n20,100\n30,200\n30,300\n"

// TestDefaultPipeline tests complete runs over the input file.
func TestDefaultPipeline(t *testing.T) {
	t.Parallel()

	t.Run("three-row table", func(t *testing.T) {
		t.Parallel()

		cfg := setupRun(t, scenarioCSV)
		report, err := run(t, cfg)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if report.Rows != 3 || strings.Join(report.Columns, ",") != "Age,Salary" {
			t.Errorf("unexpected shape %d %v", report.Rows, report.Columns)
		}
		if report.Preview.Len() != 3 {
			t.Errorf("expected 3 preview rows, got %d", report.Preview.Len())
		}
		if len(report.Summary) != 2 || report.Summary[1].Mean != 200 {
			t.Errorf("unexpected summary %+v", report.Summary)
		}

		counts := report.AgeDistribution
		if len(counts) != 2 || counts[0].Label != "30" || counts[0].Count != 2 ||
			counts[1].Label != "20" || counts[1].Count != 1 {
			t.Errorf("unexpected age distribution %+v", counts)
		}

		if report.AverageSalary != 200 {
			t.Errorf("expected average 200, got %v", report.AverageSalary)
		}

		if !slices.Equal(report.Filtered.Index, []int{1, 2}) {
			t.Errorf("expected filtered index [1 2], got %v", report.Filtered.Index)
		}
		for _, row := range report.Filtered.Rows {
			if row[0] != "30" {
				t.Errorf("unexpected filtered row %v", row)
			}
		}

		groups := report.SalaryByAge
		if len(groups) != 2 || groups[0].Key != 20 || groups[0].Mean != 100 ||
			groups[1].Key != 30 || groups[1].Mean != 250 {
			t.Errorf("unexpected group means %+v", groups)
		}

		data, err := os.ReadFile(cfg.Output)
		if err != nil {
			t.Fatalf("failed to read output: %v", err)
		}
		if string(data) != scenarioCSV {
			t.Errorf("expected output identical to input, got %q", data)
		}
		if !report.Saved {
			t.Error("expected report to be marked saved")
		}

		want := []string{"load", "preview", "describe", "value_counts", "mean", "filter", "group_mean", "persist"}
		if !slices.Equal(report.PerformedSteps, want) {
			t.Errorf("expected steps %v, got %v", want, report.PerformedSteps)
		}
	})

	t.Run("missing input produces no output", func(t *testing.T) {
		t.Parallel()

		cfg := setupRun(t, "")
		report, err := run(t, cfg)

		if !errors.Is(err, frame.ErrFileNotFound) {
			t.Fatalf("expected ErrFileNotFound, got %v", err)
		}
		if frame.KindOf(err) != frame.KindIO {
			t.Errorf("expected io kind, got %v", frame.KindOf(err))
		}
		if _, err := os.Stat(cfg.Output); !errors.Is(err, os.ErrNotExist) {
			t.Error("output file should not be created")
		}
		if len(report.PerformedSteps) != 0 {
			t.Errorf("expected no performed steps, got %v", report.PerformedSteps)
		}
	})

	t.Run("missing input leaves an existing output untouched", func(t *testing.T) {
		t.Parallel()

		cfg := setupRun(t, "")
		if err := os.WriteFile(cfg.Output, []byte("previous\n"), 0600); err != nil {
			t.Fatalf("failed to write output: %v", err)
		}

		if _, err := run(t, cfg); err == nil {
			t.Fatal("expected error")
		}
		data, err := os.ReadFile(cfg.Output)
		if err != nil {
			t.Fatalf("failed to read output: %v", err)
		}
		if string(data) != "previous\n" {
			t.Errorf("output was modified: %q", data)
		}
	})

	t.Run("zero rows", func(t *testing.T) {
		t.Parallel()

		cfg := setupRun(t, "Age,Salary\n")
		report, err := run(t, cfg)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if report.Preview.Len() != 0 || report.Filtered.Len() != 0 {
			t.Error("expected empty preview and filtered views")
		}
		if len(report.Summary) != 0 {
			t.Errorf("expected no summary columns, got %+v", report.Summary)
		}
		if len(report.AgeDistribution) != 0 || len(report.SalaryByAge) != 0 {
			t.Error("expected empty distributions")
		}
		if !report.AverageSalary.IsNaN() {
			t.Errorf("expected NaN average, got %v", report.AverageSalary)
		}

		data, err := os.ReadFile(cfg.Output)
		if err != nil {
			t.Fatalf("failed to read output: %v", err)
		}
		if string(data) != "Age,Salary\n" {
			t.Errorf("expected header-only output, got %q", data)
		}
	})

	t.Run("strict mean rejects zero rows", func(t *testing.T) {
		t.Parallel()

		cfg := setupRun(t, "Age,Salary\n")
		cfg.StrictMean = true
		_, err := run(t, cfg)

		if !errors.Is(err, analysis.ErrEmptyColumn) {
			t.Fatalf("expected ErrEmptyColumn, got %v", err)
		}
		if frame.KindOf(err) != frame.KindComputation {
			t.Errorf("expected computation kind, got %v", frame.KindOf(err))
		}
		if _, err := os.Stat(cfg.Output); !errors.Is(err, os.ErrNotExist) {
			t.Error("output file should not be created")
		}
	})

	t.Run("missing salary column", func(t *testing.T) {
		t.Parallel()

		cfg := setupRun(t, "Age,Wage\n20,100\n")
		report, err := run(t, cfg)

		if !errors.Is(err, frame.ErrColumnNotFound) {
			t.Fatalf("expected ErrColumnNotFound, got %v", err)
		}
		if !strings.Contains(err.Error(), "Salary") {
			t.Errorf("expected column name in error, got %v", err)
		}
		if report.ErrorMessage == "" {
			t.Error("expected error message in report")
		}
		if _, err := os.Stat(cfg.Output); !errors.Is(err, os.ErrNotExist) {
			t.Error("output file should not be created")
		}
	})

	t.Run("non-numeric age column", func(t *testing.T) {
		t.Parallel()

		cfg := setupRun(t, "Age,Salary\nyoung,100\nold,200\n")
		_, err := run(t, cfg)

		if !errors.Is(err, frame.ErrNonNumericColumn) {
			t.Fatalf("expected ErrNonNumericColumn, got %v", err)
		}
	})

	t.Run("malformed input", func(t *testing.T) {
		t.Parallel()

		cfg := setupRun(t, "Age,Salary\n20,100,extra\n")
		_, err := run(t, cfg)

		if !errors.Is(err, frame.ErrMalformedCSV) {
			t.Fatalf("expected ErrMalformedCSV, got %v", err)
		}
	})

	t.Run("existing output is overwritten", func(t *testing.T) {
		t.Parallel()

		cfg := setupRun(t, scenarioCSV)
		if err := os.WriteFile(cfg.Output, []byte("stale\n"), 0600); err != nil {
			t.Fatalf("failed to write output: %v", err)
		}

		if _, err := run(t, cfg); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		data, err := os.ReadFile(cfg.Output)
		if err != nil {
			t.Fatalf("failed to read output: %v", err)
		}
		if string(data) != scenarioCSV {
			t.Errorf("expected overwritten output, got %q", data)
		}
	})

	t.Run("configured columns, threshold and preview rows", func(t *testing.T) {
		t.Parallel()

		cfg := setupRun(t, "Years;Pay\n41;10\n52;20\n52;40\n18;5\n")
		cfg.AgeColumn = "Years"
		cfg.SalaryColumn = "Pay"
		cfg.AgeThreshold = 45
		cfg.PreviewRows = 2
		cfg.Delimiter = ";"

		report, err := run(t, cfg)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if report.Preview.Len() != 2 {
			t.Errorf("expected 2 preview rows, got %d", report.Preview.Len())
		}
		if !slices.Equal(report.Filtered.Index, []int{1, 2}) {
			t.Errorf("expected filtered index [1 2], got %v", report.Filtered.Index)
		}
		if report.AverageSalary != 18.75 {
			t.Errorf("expected average 18.75, got %v", report.AverageSalary)
		}
		if report.AgeColumn != "Years" || report.AgeThreshold != 45 {
			t.Errorf("run parameters not recorded: %+v", report)
		}
	})

	t.Run("history adds the input digest", func(t *testing.T) {
		t.Parallel()

		cfg := setupRun(t, scenarioCSV)
		cfg.History = true

		report, err := run(t, cfg)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(report.InputDigest) != 64 {
			t.Errorf("expected hex digest, got %q", report.InputDigest)
		}
		if report.PerformedSteps[1] != "digest" {
			t.Errorf("expected digest after load, got %v", report.PerformedSteps)
		}
	})
}

// TestDefaultPipelineSteps tests the step list built from the configuration.
func TestDefaultPipelineSteps(t *testing.T) {
	t.Parallel()

	t.Run("without history", func(t *testing.T) {
		t.Parallel()

		p := DefaultPipeline(config.NewConfig())
		want := []string{"load", "preview", "describe", "value_counts", "mean", "filter", "group_mean", "persist"}
		if !slices.Equal(p.StepNames(), want) {
			t.Errorf("expected %v, got %v", want, p.StepNames())
		}
	})

	t.Run("with history", func(t *testing.T) {
		t.Parallel()

		cfg := config.NewConfig()
		cfg.History = true
		if p := DefaultPipeline(cfg); p.StepCount() != 9 || p.StepNames()[1] != "digest" {
			t.Errorf("unexpected steps %v", p.StepNames())
		}
	})
}

// TestStepsWithoutTable tests that analysis steps require a loaded table.
func TestStepsWithoutTable(t *testing.T) {
	t.Parallel()

	steps := []Step{
		NewPreviewStep(5),
		NewDescribeStep(),
		NewValueCountsStep("Age"),
		NewMeanStep("Salary", analysis.MeanNaN, nil),
		NewFilterStep("Age", 25),
		NewGroupMeanStep("Age", "Salary", nil),
		NewPersistStep(nil),
	}

	for _, step := range steps {

		step := step
		t.Run(step.Name(), func(t *testing.T) {
			t.Parallel()

			report := model.NewRunReport("data.csv", filepath.Join(t.TempDir(), "out.csv"))
			if err := step.Do(context.Background(), report); !errors.Is(err, errNoTable) {
				t.Errorf("expected errNoTable, got %v", err)
			}
		})
	}
}

// TestDigestStep tests the digest step on its own.
func TestDigestStep(t *testing.T) {
	t.Parallel()

	t.Run("missing file is an io error", func(t *testing.T) {
		t.Parallel()

		report := model.NewRunReport(filepath.Join(t.TempDir(), "missing.csv"), "out.csv")
		err := NewDigestStep().Do(context.Background(), report)

		if frame.KindOf(err) != frame.KindIO {
			t.Errorf("expected io kind, got %v", err)
		}
		if !errors.Is(err, os.ErrNotExist) {
			t.Errorf("expected os.ErrNotExist, got %v", err)
		}
	})
}

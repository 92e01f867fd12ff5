package model

import (
	"time"

	"github.com/nao1215/tabreport/internal/frame"
)

// RunReport holds everything one pipeline run derived from its input table.
// Steps fill it in order; writers render it once every step has succeeded.
type RunReport struct {
	// === Run parameters ===

	// InputPath is the CSV file the table was loaded from.
	InputPath string `json:"input_path"`

	// OutputPath is where the unmodified table is persisted.
	OutputPath string `json:"output_path"`

	// AgeColumn is the column used for value counts, filtering and grouping.
	AgeColumn string `json:"age_column"`

	// SalaryColumn is the column averaged overall and per group.
	SalaryColumn string `json:"salary_column"`

	// AgeThreshold is the strict lower bound of the filtered view.
	AgeThreshold float64 `json:"age_threshold"`

	// StartedAt is when the run began.
	StartedAt time.Time `json:"started_at"`

	// === Table shape ===

	// Rows is the number of data rows in the input table.
	Rows int `json:"rows"`

	// Columns lists the input column names in file order.
	Columns []string `json:"columns"`

	// InputDigest is the hex BLAKE2b-256 digest of the input file.
	// It is only set when run history is enabled.
	InputDigest string `json:"input_digest,omitempty"`

	// === Derived views ===

	// Preview holds the first rows of the table.
	Preview *TableView `json:"preview"`

	// Summary holds descriptive statistics of every numeric column.
	Summary []ColumnSummary `json:"summary"`

	// AgeDistribution maps each distinct age to its row count.
	AgeDistribution []ValueCount `json:"age_distribution"`

	// AverageSalary is the mean salary over all rows. NaN (JSON null)
	// when the column has no values.
	AverageSalary Number `json:"average_salary"`

	// Filtered holds the rows whose age exceeds AgeThreshold.
	Filtered *TableView `json:"filtered"`

	// SalaryByAge maps each distinct age to its mean salary, ascending by age.
	SalaryByAge []GroupMean `json:"salary_by_age"`

	// Saved is true once the table has been written to OutputPath.
	Saved bool `json:"saved"`

	// === Execution ===

	// PerformedSteps lists the pipeline steps that completed.
	PerformedSteps []string `json:"performed_steps,omitempty"`

	// Error contains the error that stopped the run, if any.
	Error error `json:"-"`

	// ErrorMessage is the string form of Error for serialization.
	ErrorMessage string `json:"error,omitempty"` //nolint:tagliatelle // error is conventional

	// Table is the loaded input table. It is not serialized.
	Table *frame.Frame `json:"-"`
}

// NewRunReport creates a report for a run reading input and writing output.
func NewRunReport(input, output string) *RunReport {
	return &RunReport{
		InputPath:       input,
		OutputPath:      output,
		StartedAt:       time.Now(),
		Columns:         make([]string, 0),
		Summary:         make([]ColumnSummary, 0),
		AgeDistribution: make([]ValueCount, 0),
		SalaryByAge:     make([]GroupMean, 0),
		PerformedSteps:  make([]string, 0),
	}
}

// TableView is a serializable snapshot of a frame.
// Index holds the position of each row in the input table.
type TableView struct {
	Columns []string   `json:"columns"`
	Index   []int      `json:"index"`
	Rows    [][]string `json:"rows"`
}

// NewTableView snapshots f as display strings: floats in their shortest
// form and missing cells as NaN. index gives the input position of
// each row of f; nil means f starts at the first input row.
func NewTableView(f *frame.Frame, index []int) *TableView {
	records := f.DisplayRecords()
	view := &TableView{Columns: f.Names(), Rows: make([][]string, 0, f.Nrow())}
	if len(records) > 1 {
		view.Rows = append(view.Rows, records[1:]...)
	}
	if index == nil {
		index = make([]int, len(view.Rows))
		for i := range index {
			index[i] = i
		}
	}
	view.Index = index
	return view
}

// Len returns the number of rows.
func (v *TableView) Len() int {
	if v == nil {
		return 0
	}
	return len(v.Rows)
}

// ColumnSummary is the describe row set of one numeric column.
type ColumnSummary struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
	Mean  Number `json:"mean"`
	Std   Number `json:"std"`
	Min   Number `json:"min"`
	Q25   Number `json:"q25"`
	Q50   Number `json:"q50"`
	Q75   Number `json:"q75"`
	Max   Number `json:"max"`
}

// Values returns the statistics in count, mean, std, min, 25%, 50%, 75%, max order.
func (c ColumnSummary) Values() []Number {
	return []Number{Number(c.Count), c.Mean, c.Std, c.Min, c.Q25, c.Q50, c.Q75, c.Max}
}

// ValueCount is one entry of a value-count mapping.
type ValueCount struct {
	Value Number `json:"value"`
	Label string `json:"label"`
	Count int    `json:"count"`
}

// GroupMean is the mean salary of one age group.
type GroupMean struct {
	Key   Number `json:"key"`
	Label string `json:"label"`
	Mean  Number `json:"mean"`
	Count int    `json:"count"`
}

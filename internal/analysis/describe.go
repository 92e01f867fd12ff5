package analysis

import (
	"math"

	"github.com/aclements/go-moremath/stats"
	"github.com/nao1215/tabreport/internal/frame"
)

// StatNames lists the rows of a summary in display order.
var StatNames = []string{"count", "mean", "std", "min", "25%", "50%", "75%", "max"}

// ColumnSummary holds the descriptive statistics of one numeric column.
type ColumnSummary struct {
	Name  string
	Count int
	Mean  float64
	Std   float64
	Min   float64
	Q25   float64
	Q50   float64
	Q75   float64
	Max   float64
}

// Values returns the statistics in StatNames order.
func (c ColumnSummary) Values() []float64 {
	return []float64{float64(c.Count), c.Mean, c.Std, c.Min, c.Q25, c.Q50, c.Q75, c.Max}
}

// Summary is the describe report of a frame.
// It is empty when the frame has no numeric columns.
type Summary struct {
	Columns []ColumnSummary
}

// IsEmpty reports whether the summary has no columns.
func (s *Summary) IsEmpty() bool {
	return len(s.Columns) == 0
}

// Describe computes count, mean, standard deviation, min, quartiles and max
// for every numeric column of f. Non-numeric columns are skipped.
func Describe(f *frame.Frame) (*Summary, error) {
	summary := &Summary{Columns: make([]ColumnSummary, 0)}
	for _, name := range f.NumericColumns() {
		values, err := f.Floats(name)
		if err != nil {
			return nil, err
		}
		summary.Columns = append(summary.Columns, describeColumn(name, values))
	}
	return summary, nil
}

// describeColumn summarizes the non-missing values of one column.
// The standard deviation is the sample deviation and is NaN below two values.
func describeColumn(name string, values []float64) ColumnSummary {
	sample := stats.Sample{Xs: present(values)}
	cs := ColumnSummary{Name: name, Count: len(sample.Xs)}
	if cs.Count == 0 {
		nan := math.NaN()
		cs.Mean, cs.Std, cs.Min, cs.Q25, cs.Q50, cs.Q75, cs.Max = nan, nan, nan, nan, nan, nan, nan
		return cs
	}

	sample.Sort()
	cs.Mean = sample.Mean()
	cs.Std = math.NaN()
	if cs.Count > 1 {
		cs.Std = sample.StdDev()
	}
	cs.Min, cs.Max = sample.Bounds()
	cs.Q25 = quantile(sample.Xs, 0.25)
	cs.Q50 = quantile(sample.Xs, 0.5)
	cs.Q75 = quantile(sample.Xs, 0.75)
	return cs
}

// quantile returns the q-quantile of sorted, interpolating linearly between
// the two closest ranks at position (n-1)*q (Hyndman-Fan method 7).
// sorted must be non-empty and ascending.
func quantile(sorted []float64, q float64) float64 {
	pos := float64(len(sorted)-1) * q
	lo := int(math.Floor(pos))
	hi := min(lo+1, len(sorted)-1)
	return sorted[lo] + (pos-float64(lo))*(sorted[hi]-sorted[lo])
}

// present returns the non-NaN values of xs.
func present(xs []float64) []float64 {
	out := make([]float64, 0, len(xs))
	for _, x := range xs {
		if !math.IsNaN(x) {
			out = append(out, x)
		}
	}
	return out
}

package analysis

import (
	"cmp"
	"errors"
	"math"
	"slices"
	"sort"
	"strconv"

	"github.com/aclements/go-moremath/stats"

	"github.com/nao1215/tabreport/internal/frame"
)

// ErrEmptyColumn is returned under MeanStrict when a column has no
// non-missing values.
var ErrEmptyColumn = errors.New("column has no non-missing values")

// MeanPolicy selects what Mean does with an empty or all-missing column.
type MeanPolicy int

const (
	// MeanNaN returns NaN for an empty column.
	MeanNaN MeanPolicy = iota

	// MeanStrict fails with ErrEmptyColumn for an empty column.
	MeanStrict
)

// ValueCount is one entry of a value-count mapping.
type ValueCount struct {
	Value float64
	Label string
	Count int
}

// GroupMean is the mean of one column within a partition keyed by another.
type GroupMean struct {
	Key   float64
	Label string
	Mean  float64

	// Count is the number of non-missing values averaged.
	Count int
}

// FormatKey renders a numeric key without a trailing fraction when it is integral.
func FormatKey(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// ValueCounts counts each distinct non-missing value of column.
// Entries are ordered by descending count; ties keep first-seen order.
func ValueCounts(f *frame.Frame, column string) ([]ValueCount, error) {
	values, err := f.Floats(column)
	if err != nil {
		return nil, err
	}

	index := make(map[float64]int)
	counts := make([]ValueCount, 0)
	for _, v := range values {
		if math.IsNaN(v) {
			continue
		}
		if i, ok := index[v]; ok {
			counts[i].Count++
			continue
		}
		index[v] = len(counts)
		counts = append(counts, ValueCount{Value: v, Label: FormatKey(v), Count: 1})
	}

	sort.SliceStable(counts, func(i, j int) bool {
		return counts[i].Count > counts[j].Count
	})
	return counts, nil
}

// Mean returns the arithmetic mean of the non-missing values of column.
// An empty or all-missing column yields NaN under MeanNaN and ErrEmptyColumn
// under MeanStrict.
func Mean(f *frame.Frame, column string, policy MeanPolicy) (float64, error) {
	values, err := f.Floats(column)
	if err != nil {
		return 0, err
	}
	m, n := mean(values)
	if n == 0 && policy == MeanStrict {
		return 0, &frame.Error{Kind: frame.KindComputation, Op: "mean", Subject: column, Err: ErrEmptyColumn}
	}
	return m, nil
}

// FilterGreater returns the rows whose column value is strictly greater
// than threshold. Rows with a missing value are excluded.
func FilterGreater(f *frame.Frame, column string, threshold float64) (*frame.Frame, error) {
	idx, err := GreaterIndex(f, column, threshold)
	if err != nil {
		return nil, err
	}
	return f.Subset(idx), nil
}

// GreaterIndex returns the ascending row positions FilterGreater keeps.
func GreaterIndex(f *frame.Frame, column string, threshold float64) ([]int, error) {
	values, err := f.Floats(column)
	if err != nil {
		return nil, err
	}
	idx := make([]int, 0, len(values))
	for i, v := range values {
		// NaN compares false, so missing values drop out here.
		if v > threshold {
			idx = append(idx, i)
		}
	}
	return idx, nil
}

// GroupMeans partitions rows by the non-missing values of key and returns
// the mean of value within each partition, ordered by ascending key.
// A partition whose values are all missing has a NaN mean.
func GroupMeans(f *frame.Frame, key, value string) ([]GroupMean, error) {
	keys, err := f.Floats(key)
	if err != nil {
		return nil, err
	}
	values, err := f.Floats(value)
	if err != nil {
		return nil, err
	}

	groups := make(map[float64][]float64)
	for i, k := range keys {
		if math.IsNaN(k) {
			continue
		}
		groups[k] = append(groups[k], values[i])
	}

	out := make([]GroupMean, 0, len(groups))
	for k, vs := range groups {
		m, n := mean(vs)
		out = append(out, GroupMean{Key: k, Label: FormatKey(k), Mean: m, Count: n})
	}
	slices.SortFunc(out, func(a, b GroupMean) int {
		return cmp.Compare(a.Key, b.Key)
	})
	return out, nil
}

// mean returns the mean of the non-NaN values and how many there were.
func mean(xs []float64) (float64, int) {
	values := present(xs)
	if len(values) == 0 {
		return math.NaN(), 0
	}
	return stats.Mean(values), len(values)
}

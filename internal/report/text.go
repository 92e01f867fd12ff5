package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/nao1215/tabreport/internal/analysis"
	"github.com/nao1215/tabreport/internal/model"
)

// TextWriter outputs the plain-text report: seven labelled sections in a
// fixed order, separated by blank lines. Tables are laid out the way an
// interactive dataframe session prints them, with the row index on the left.
type TextWriter struct {
	baseWriter
}

// NewTextWriter creates a TextWriter that outputs to the given writer.
func NewTextWriter(output io.Writer) *TextWriter {
	return &TextWriter{baseWriter: newBaseWriter(output)}
}

// Labels returns the seven section labels for report in output order.
func Labels(report *model.RunReport) []string {
	return []string{
		"First few rows of the dataframe:",
		"Summary statistics:",
		report.AgeColumn + " distribution:",
		"Average " + report.SalaryColumn + ":",
		fmt.Sprintf("Individuals with %s greater than %s:",
			strings.ToLower(report.AgeColumn), formatThreshold(report.AgeThreshold)),
		"Average " + report.SalaryColumn + " by " + report.AgeColumn + ":",
		fmt.Sprintf("Modified data saved to '%s'", report.OutputPath),
	}
}

// Write outputs the report in plain text.
func (w *TextWriter) Write(report *model.RunReport) (int, error) {
	labels := Labels(report)
	sections := []string{
		labels[0] + "\n" + renderView(report.Preview),
		labels[1] + "\n" + renderSummary(report.Summary),
		labels[2] + "\n" + renderCounts(report.AgeColumn, report.AgeDistribution),
		labels[3] + " " + report.AverageSalary.String(),
		labels[4] + "\n" + renderView(report.Filtered),
		labels[5] + "\n" + renderGroupMeans(report.AgeColumn, report.SalaryColumn, report.SalaryByAge),
		labels[6],
	}
	return io.WriteString(w.output, strings.Join(sections, "\n\n")+"\n")
}

// renderView lays out a table view with its row index.
func renderView(view *model.TableView) string {
	if view == nil {
		return renderEmpty(nil, nil)
	}
	if view.Len() == 0 {
		return renderEmpty(view.Columns, nil)
	}
	index := make([]string, len(view.Rows))
	for i := range view.Rows {
		pos := i
		if i < len(view.Index) {
			pos = view.Index[i]
		}
		index[i] = strconv.Itoa(pos)
	}
	return renderTable(view.Columns, index, view.Rows)
}

// renderSummary lays out the statistics with one column per numeric column.
func renderSummary(summary []model.ColumnSummary) string {
	if len(summary) == 0 {
		return renderEmpty(nil, analysis.StatNames)
	}
	columns := make([]string, len(summary))
	rows := make([][]string, len(analysis.StatNames))
	for i := range rows {
		rows[i] = make([]string, len(summary))
	}
	for j, c := range summary {
		columns[j] = c.Name
		for i, v := range c.Values() {
			rows[i][j] = formatStat(v)
		}
	}
	return renderTable(columns, analysis.StatNames, rows)
}

// formatStat prints a statistic with six decimals, or NaN.
func formatStat(v model.Number) string {
	if v.IsNaN() {
		return "NaN"
	}
	return strconv.FormatFloat(v.Float(), 'f', 6, 64)
}

// renderCounts lays out a value-count mapping as a named series.
func renderCounts(column string, counts []model.ValueCount) string {
	labels := make([]string, len(counts))
	values := make([]string, len(counts))
	for i, c := range counts {
		labels[i] = c.Label
		values[i] = strconv.Itoa(c.Count)
	}
	return renderSeries(column, labels, values, "count", "int64")
}

// renderGroupMeans lays out per-group means as a named series.
func renderGroupMeans(key, value string, groups []model.GroupMean) string {
	labels := make([]string, len(groups))
	values := make([]string, len(groups))
	for i, g := range groups {
		labels[i] = g.Label
		values[i] = g.Mean.String()
	}
	return renderSeries(key, labels, values, value, "float64")
}

// renderSeries prints an index header, one "label    value" line per entry
// and a name/dtype footer.
func renderSeries(indexName string, labels, values []string, name, dtype string) string {
	if len(labels) == 0 {
		return fmt.Sprintf("Series([], Name: %s, dtype: %s)", name, dtype)
	}
	labelWidth := maxWidth(labels)
	valueWidth := maxWidth(values)

	var sb strings.Builder
	sb.WriteString(indexName)
	sb.WriteString("\n")
	for i := range labels {
		sb.WriteString(padRight(labels[i], labelWidth))
		sb.WriteString("    ")
		sb.WriteString(padLeft(values[i], valueWidth))
		sb.WriteString("\n")
	}
	fmt.Fprintf(&sb, "Name: %s, dtype: %s", name, dtype)
	return sb.String()
}

// renderTable lays out rows under columns. The index is left-aligned and
// every column is right-aligned to its widest cell, two spaces apart.
func renderTable(columns, index []string, rows [][]string) string {
	indexWidth := maxWidth(index)
	widths := make([]int, len(columns))
	for j, c := range columns {
		widths[j] = utf8.RuneCountInString(c)
		for _, row := range rows {
			if j < len(row) {
				widths[j] = max(widths[j], utf8.RuneCountInString(row[j]))
			}
		}
	}

	var sb strings.Builder
	sb.WriteString(strings.Repeat(" ", indexWidth))
	for j, c := range columns {
		sb.WriteString("  ")
		sb.WriteString(padLeft(c, widths[j]))
	}
	for i, row := range rows {
		sb.WriteString("\n")
		sb.WriteString(padRight(index[i], indexWidth))
		for j := range columns {
			cell := ""
			if j < len(row) {
				cell = row[j]
			}
			sb.WriteString("  ")
			sb.WriteString(padLeft(cell, widths[j]))
		}
	}
	return sb.String()
}

// renderEmpty prints the placeholder of a table without rows or columns.
func renderEmpty(columns, index []string) string {
	return fmt.Sprintf("Empty DataFrame\nColumns: [%s]\nIndex: [%s]",
		strings.Join(columns, ", "), strings.Join(index, ", "))
}

func maxWidth(values []string) int {
	w := 0
	for _, v := range values {
		w = max(w, utf8.RuneCountInString(v))
	}
	return w
}

func padLeft(s string, width int) string {
	if n := width - utf8.RuneCountInString(s); n > 0 {
		return strings.Repeat(" ", n) + s
	}
	return s
}

func padRight(s string, width int) string {
	if n := width - utf8.RuneCountInString(s); n > 0 {
		return s + strings.Repeat(" ", n)
	}
	return s
}

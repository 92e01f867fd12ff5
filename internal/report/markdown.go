package report

import (
	"io"
	"strconv"
	"strings"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/nao1215/tabreport/internal/analysis"
	"github.com/nao1215/tabreport/internal/model"
)

// MarkdownWriter outputs reports in Markdown format.
// This format is designed for documentation and sharing.
type MarkdownWriter struct {
	baseWriter

	// lang controls number grouping and heading case.
	lang language.Tag
}

// MarkdownWriterOption configures a MarkdownWriter.
type MarkdownWriterOption func(*MarkdownWriter)

// WithLanguage sets the language used to format counts and headings.
func WithLanguage(tag language.Tag) MarkdownWriterOption {
	return func(w *MarkdownWriter) {
		w.lang = tag
	}
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer, opts ...MarkdownWriterOption) *MarkdownWriter {
	w := &MarkdownWriter{
		baseWriter: newBaseWriter(output),
		lang:       language.English,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write outputs the full report in Markdown format.
func (w *MarkdownWriter) Write(report *model.RunReport) (int, error) {
	md := markdown.NewMarkdown(w.output)
	printer := message.NewPrinter(w.lang)
	title := cases.Title(w.lang)

	w.writeHeader(md, printer, report)

	md.H2("Preview")
	md.PlainText("")
	writeView(md, report.Preview)

	w.writeSummary(md, report)
	w.writeDistribution(md, printer, title, report)

	md.H2(title.String("Average " + report.SalaryColumn))
	md.PlainText("")
	md.PlainTextf("**%s**", report.AverageSalary.String())
	md.PlainText("")
	w.writeAlert(md, printer, report)

	md.H2(title.String(report.AgeColumn + " above " + formatThreshold(report.AgeThreshold)))
	md.PlainText("")
	writeView(md, report.Filtered)

	w.writeGroupMeans(md, printer, title, report)
	w.writeFooter(md, report)

	return len(md.String()), md.Build()
}

// writeHeader writes the report title and run information.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, p *message.Printer, report *model.RunReport) {
	md.H1("tabreport Report")
	md.PlainText("")

	rows := [][]string{
		{"Input", "`" + report.InputPath + "`"},
		{"Output", "`" + report.OutputPath + "`"},
		{"Rows", p.Sprintf("%d", report.Rows)},
		{"Columns", strings.Join(report.Columns, ", ")},
	}
	if report.InputDigest != "" {
		rows = append(rows, []string{"BLAKE2b-256", "`" + report.InputDigest + "`"})
	}
	rows = append(rows, []string{"Started", report.StartedAt.Format("2006-01-02 15:04:05 MST")})

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeView writes a table view with its row index as the first column.
func writeView(md *markdown.Markdown, view *model.TableView) {
	if view.Len() == 0 {
		md.PlainText("No rows.")
		md.PlainText("")
		return
	}

	header := append([]string{"#"}, view.Columns...)
	rows := make([][]string, len(view.Rows))
	for i, row := range view.Rows {
		pos := i
		if i < len(view.Index) {
			pos = view.Index[i]
		}
		rows[i] = append([]string{strconv.Itoa(pos)}, row...)
	}

	md.Table(markdown.TableSet{Header: header, Rows: rows})
	md.PlainText("")
}

// writeSummary writes the descriptive statistics table.
func (w *MarkdownWriter) writeSummary(md *markdown.Markdown, report *model.RunReport) {
	md.H2("Summary Statistics")
	md.PlainText("")

	if len(report.Summary) == 0 {
		md.PlainText("No numeric columns.")
		md.PlainText("")
		return
	}

	header := []string{"Stat"}
	for _, c := range report.Summary {
		header = append(header, c.Name)
	}
	rows := make([][]string, len(analysis.StatNames))
	for i, name := range analysis.StatNames {
		rows[i] = []string{name}
	}
	for _, c := range report.Summary {
		for i, v := range c.Values() {
			rows[i] = append(rows[i], formatStat(v))
		}
	}

	md.Table(markdown.TableSet{Header: header, Rows: rows})
	md.PlainText("")
}

// writeDistribution writes the value counts table and a mermaid pie chart.
func (w *MarkdownWriter) writeDistribution(md *markdown.Markdown, p *message.Printer, title cases.Caser, report *model.RunReport) {
	md.H2(title.String(report.AgeColumn + " distribution"))
	md.PlainText("")

	if len(report.AgeDistribution) == 0 {
		md.PlainText("No values.")
		md.PlainText("")
		return
	}

	rows := make([][]string, len(report.AgeDistribution))
	for i, vc := range report.AgeDistribution {
		rows[i] = []string{vc.Label, p.Sprintf("%d", vc.Count)}
	}
	md.Table(markdown.TableSet{
		Header: []string{report.AgeColumn, "Count"},
		Rows:   rows,
	})

	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle(report.AgeColumn+" Distribution"),
		piechart.WithShowData(true),
	)
	for _, vc := range report.AgeDistribution {
		chart.LabelAndIntValue(vc.Label, uint64(vc.Count)) //nolint:gosec // counts are never negative
	}

	md.PlainText("")
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeAlert writes an alert describing the overall average.
func (w *MarkdownWriter) writeAlert(md *markdown.Markdown, p *message.Printer, report *model.RunReport) {
	switch {
	case report.Rows == 0:
		md.Warningf("The input table has no rows. The average of %s is undefined.", report.SalaryColumn)
	case report.AverageSalary.IsNaN():
		md.Cautionf("Column %s has no numeric values. The average is undefined.", report.SalaryColumn)
	case len(report.SalaryByAge) > 0:
		md.Note(p.Sprintf("Averaged over %d rows in %d %s groups.",
			report.Rows, len(report.SalaryByAge), report.AgeColumn))
	default:
		md.Tip("All values were aggregated into a single average.")
	}
	md.PlainText("")
}

// writeGroupMeans writes the per-group mean table.
func (w *MarkdownWriter) writeGroupMeans(md *markdown.Markdown, p *message.Printer, title cases.Caser, report *model.RunReport) {
	md.H2(title.String("Average " + report.SalaryColumn + " by " + report.AgeColumn))
	md.PlainText("")

	if len(report.SalaryByAge) == 0 {
		md.PlainText("No groups.")
		md.PlainText("")
		return
	}

	rows := make([][]string, len(report.SalaryByAge))
	for i, g := range report.SalaryByAge {
		rows[i] = []string{g.Label, g.Mean.String(), p.Sprintf("%d", g.Count)}
	}
	md.Table(markdown.TableSet{
		Header: []string{report.AgeColumn, report.SalaryColumn, "Rows"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeFooter writes the persistence note and the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown, report *model.RunReport) {
	if report.Saved {
		md.Importantf("Modified data saved to `%s`.", report.OutputPath)
		md.PlainText("")
	}
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by [tabreport](https://github.com/nao1215/tabreport)*")
}

// formatThreshold prints a threshold without trailing zeros.
func formatThreshold(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

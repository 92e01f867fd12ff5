package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/nao1215/tabreport/internal/model"
)

// createTestReport creates the report of the three-row Age/Salary table.
func createTestReport() *model.RunReport {
	report := model.NewRunReport("data.csv", "modified_data.csv")
	report.AgeColumn = "Age"
	report.SalaryColumn = "Salary"
	report.AgeThreshold = 25
	report.Rows = 3
	report.Columns = []string{"Age", "Salary"}
	report.Preview = &model.TableView{
		Columns: []string{"Age", "Salary"},
		Index:   []int{0, 1, 2},
		Rows:    [][]string{{"20", "100"}, {"30", "200"}, {"30", "300"}},
	}
	report.Summary = []model.ColumnSummary{
		{Name: "Age", Count: 3, Mean: 80.0 / 3, Std: 5.773502691896258, Min: 20, Q25: 25, Q50: 30, Q75: 30, Max: 30},
		{Name: "Salary", Count: 3, Mean: 200, Std: 100, Min: 100, Q25: 150, Q50: 200, Q75: 250, Max: 300},
	}
	report.AgeDistribution = []model.ValueCount{
		{Value: 30, Label: "30", Count: 2},
		{Value: 20, Label: "20", Count: 1},
	}
	report.AverageSalary = 200
	report.Filtered = &model.TableView{
		Columns: []string{"Age", "Salary"},
		Index:   []int{1, 2},
		Rows:    [][]string{{"30", "200"}, {"30", "300"}},
	}
	report.SalaryByAge = []model.GroupMean{
		{Key: 20, Label: "20", Mean: 100, Count: 1},
		{Key: 30, Label: "30", Mean: 250, Count: 2},
	}
	report.Saved = true
	return report
}

// createEmptyReport creates the report of a header-only table.
func createEmptyReport() *model.RunReport {
	report := model.NewRunReport("empty.csv", "modified_data.csv")
	report.AgeColumn = "Age"
	report.SalaryColumn = "Salary"
	report.AgeThreshold = 25
	report.Columns = []string{"Age", "Salary"}
	report.Preview = &model.TableView{Columns: []string{"Age", "Salary"}, Index: []int{}, Rows: [][]string{}}
	report.Filtered = &model.TableView{Columns: []string{"Age", "Salary"}, Index: []int{}, Rows: [][]string{}}
	report.AverageSalary = model.Number(math.NaN())
	report.Saved = true
	return report
}

// TestTextWriter tests the plain-text report.
func TestTextWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes every section of the three-row table", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewTextWriter(&buf).Write(createTestReport()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		want := strings.Join([]string{
			"First few rows of the dataframe:",
			"   Age  Salary",
			"0   20     100",
			"1   30     200",
			"2   30     300",
			"",
			"Summary statistics:",
			"             Age      Salary",
			"count   3.000000    3.000000",
			"mean   26.666667  200.000000",
			"std     5.773503  100.000000",
			"min    20.000000  100.000000",
			"25%    25.000000  150.000000",
			"50%    30.000000  200.000000",
			"75%    30.000000  250.000000",
			"max    30.000000  300.000000",
			"",
			"Age distribution:",
			"Age",
			"30    2",
			"20    1",
			"Name: count, dtype: int64",
			"",
			"Average Salary: 200.0",
			"",
			"Individuals with age greater than 25:",
			"   Age  Salary",
			"1   30     200",
			"2   30     300",
			"",
			"Average Salary by Age:",
			"Age",
			"20    100.0",
			"30    250.0",
			"Name: Salary, dtype: float64",
			"",
			"Modified data saved to 'modified_data.csv'",
			"",
		}, "\n")

		if got := buf.String(); got != want {
			t.Errorf("unexpected output\ngot:\n%s\nwant:\n%s", got, want)
		}
	})

	t.Run("writes placeholders for an empty table", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewTextWriter(&buf).Write(createEmptyReport()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		for _, want := range []string{
			"First few rows of the dataframe:\nEmpty DataFrame\nColumns: [Age, Salary]\nIndex: []",
			"Summary statistics:\nEmpty DataFrame\nColumns: []\nIndex: [count, mean, std, min, 25%, 50%, 75%, max]",
			"Age distribution:\nSeries([], Name: count, dtype: int64)",
			"Average Salary: nan",
			"Average Salary by Age:\nSeries([], Name: Salary, dtype: float64)",
			"Modified data saved to 'modified_data.csv'",
		} {
			if !strings.Contains(output, want) {
				t.Errorf("expected output to contain %q\ngot:\n%s", want, output)
			}
		}
	})

	t.Run("labels follow configured columns", func(t *testing.T) {
		t.Parallel()

		report := createTestReport()
		report.AgeColumn = "Years"
		report.SalaryColumn = "Pay"
		report.AgeThreshold = 40.5

		labels := Labels(report)
		if len(labels) != 7 {
			t.Fatalf("expected 7 labels, got %d", len(labels))
		}
		want := []string{
			"Years distribution:",
			"Average Pay:",
			"Individuals with years greater than 40.5:",
			"Average Pay by Years:",
		}
		got := []string{labels[2], labels[3], labels[4], labels[5]}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("label %d: expected %q, got %q", i, want[i], got[i])
			}
		}
	})

	t.Run("sections appear in order", func(t *testing.T) {
		t.Parallel()

		report := createTestReport()
		var buf bytes.Buffer
		if _, err := NewTextWriter(&buf).Write(report); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		last := -1
		for _, label := range Labels(report) {
			pos := strings.Index(output, label)
			if pos <= last {
				t.Errorf("label %q out of order", label)
			}
			last = pos
		}
	})
}

// TestJSONWriter tests the JSON report.
func TestJSONWriter(t *testing.T) {
	t.Parallel()

	t.Run("outputs valid JSON", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf).Write(createTestReport()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var parsed JSONReport
		if err := json.Unmarshal(buf.Bytes(), &parsed); err != nil {
			t.Fatalf("output is not valid JSON: %v", err)
		}
		if parsed.Version != "dev" {
			t.Errorf("expected default version dev, got %q", parsed.Version)
		}
		if parsed.Report == nil || parsed.Report.AverageSalary != 200 {
			t.Fatalf("unexpected report %+v", parsed.Report)
		}
		if len(parsed.Report.SalaryByAge) != 2 || parsed.Report.SalaryByAge[1].Mean != 250 {
			t.Errorf("unexpected group means %+v", parsed.Report.SalaryByAge)
		}
	})

	t.Run("compact output by default", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf).Write(createTestReport()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
		if len(lines) > 1 {
			t.Errorf("expected compact output (1 line), got %d lines", len(lines))
		}
	})

	t.Run("pretty print with version", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewJSONWriter(&buf, WithPrettyPrint(), WithVersion("1.2.3"))
		if _, err := w.Write(createTestReport()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if lines := strings.Split(strings.TrimSpace(output), "\n"); len(lines) < 5 {
			t.Errorf("expected multi-line output, got %d lines", len(lines))
		}
		if !strings.Contains(output, `"version": "1.2.3"`) {
			t.Errorf("expected version in output:\n%s", output)
		}
	})

	t.Run("undefined average is null", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf).Write(createEmptyReport()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), `"average_salary":null`) {
			t.Errorf("expected null average in %s", buf.String())
		}
	})
}

// TestWithIndent tests custom indentation.
func TestWithIndent(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	w := NewJSONWriter(&buf, WithIndent("", "\t"))
	if _, err := w.Write(createTestReport()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(buf.String(), "\n\t\"report\"") {
		t.Errorf("expected tab indentation:\n%s", buf.String())
	}
}

// TestMarkdownWriter tests the Markdown report.
func TestMarkdownWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes every section", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewMarkdownWriter(&buf).Write(createTestReport()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		for _, want := range []string{
			"# tabreport Report",
			"data.csv",
			"## Preview",
			"## Summary Statistics",
			"## Age Distribution",
			"```mermaid",
			"pie",
			"## Average Salary",
			"**200.0**",
			"## Age Above 25",
			"## Average Salary By Age",
			"250.0",
			"[!NOTE]",
			"[!IMPORTANT]",
			"modified_data.csv",
		} {
			if !strings.Contains(output, want) {
				t.Errorf("expected output to contain %q", want)
			}
		}
	})

	t.Run("digest row only when set", func(t *testing.T) {
		t.Parallel()

		report := createTestReport()
		var buf bytes.Buffer
		if _, err := NewMarkdownWriter(&buf).Write(report); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if strings.Contains(buf.String(), "BLAKE2b-256") {
			t.Error("expected no digest row")
		}

		report.InputDigest = "0e5751c0"
		buf.Reset()
		if _, err := NewMarkdownWriter(&buf).Write(report); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "0e5751c0") {
			t.Error("expected digest row")
		}
	})

	t.Run("warns about an empty table", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewMarkdownWriter(&buf).Write(createEmptyReport()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if !strings.Contains(output, "[!WARNING]") {
			t.Error("expected warning alert")
		}
		if !strings.Contains(output, "No rows.") {
			t.Error("expected empty preview placeholder")
		}
		if strings.Contains(output, "```mermaid") {
			t.Error("expected no pie chart without values")
		}
	})

	t.Run("cautions about a non-numeric average", func(t *testing.T) {
		t.Parallel()

		report := createTestReport()
		report.AverageSalary = model.Number(math.NaN())

		var buf bytes.Buffer
		if _, err := NewMarkdownWriter(&buf).Write(report); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "[!CAUTION]") {
			t.Error("expected caution alert")
		}
	})
}

// TestMultiWriter tests writing to multiple outputs.
func TestMultiWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes to all writers", func(t *testing.T) {
		t.Parallel()

		var buf1, buf2 bytes.Buffer
		multi := NewMultiWriter(NewTextWriter(&buf1), NewJSONWriter(&buf2))

		n, err := multi.Write(createTestReport())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if n != buf1.Len()+buf2.Len() {
			t.Errorf("expected %d bytes, got %d", buf1.Len()+buf2.Len(), n)
		}
		if strings.Contains(buf1.String(), "{") {
			t.Error("expected buf1 (text) to not be JSON")
		}
		if !strings.Contains(buf2.String(), "{") {
			t.Error("expected buf2 (JSON) to contain JSON")
		}
	})

	t.Run("stops on first error", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		multi := NewMultiWriter(NewTextWriter(failingWriter{}), NewJSONWriter(&buf))

		if _, err := multi.Write(createTestReport()); err == nil {
			t.Fatal("expected error")
		}
		if buf.Len() != 0 {
			t.Error("expected second writer to be skipped")
		}
	})
}

// failingWriter is an io.Writer that always fails.
type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errWriteFailed
}

var errWriteFailed = errors.New("write failed")

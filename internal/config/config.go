package config

import (
	"path/filepath"
	"unicode/utf8"

	"github.com/adrg/xdg"
	"github.com/nao1215/tabreport/internal/frame"
)

// Default configuration values.
// With these values a run reproduces the classic report over data.csv.
const (
	// DefaultInput is the CSV file read when no input is given.
	DefaultInput = "data.csv"

	// DefaultOutput is the CSV file the table is persisted to.
	DefaultOutput = "modified_data.csv"

	// DefaultAgeColumn is the column used for value counts, filtering and grouping.
	DefaultAgeColumn = "Age"

	// DefaultSalaryColumn is the column that is averaged.
	DefaultSalaryColumn = "Salary"

	// DefaultAgeThreshold is the strict lower bound of the filtered view.
	DefaultAgeThreshold = 25.0

	// DefaultPreviewRows is the number of rows shown in the preview.
	DefaultPreviewRows = 5

	// DefaultDelimiter is the CSV field separator.
	DefaultDelimiter = ","

	// AppName is the application name used for XDG directory paths.
	AppName = "tabreport"
)

// DefaultSensitiveColumns lists the columns whose values are masked in logs.
var DefaultSensitiveColumns = []string{"salary"}

// Config holds all configuration options for tabreport.
// It is populated from defaults, the configuration file and CLI flags, in
// that order, and passed through the application explicitly.
type Config struct {
	// Input is the path of the CSV file to load.
	Input string

	// Output is the path the unmodified table is written to.
	// An existing file is overwritten.
	Output string

	// AgeColumn names the column counted, filtered and grouped on.
	AgeColumn string

	// SalaryColumn names the column averaged overall and per group.
	SalaryColumn string

	// AgeThreshold is the value AgeColumn must strictly exceed for a row to
	// appear in the filtered view.
	AgeThreshold float64

	// PreviewRows is the number of leading rows printed in the preview.
	PreviewRows int

	// NAValues lists the cell values read as missing.
	NAValues []string

	// Delimiter is the single-character field separator of the input file.
	Delimiter string

	// StrictMean makes the mean of a column without values an error
	// instead of NaN.
	StrictMean bool

	// History stores each successful run in the SQLite history database.
	History bool

	// SensitiveColumns lists column names whose values are masked in log output.
	// Matching is case-insensitive.
	SensitiveColumns []string

	// Verbose enables detailed log output using slog.LevelDebug.
	// When false, only warnings and errors are logged.
	Verbose bool

	// ConfigFilePath is the path to the configuration file.
	// If empty, the default search locations are used.
	ConfigFilePath string

	// JSONReport selects the JSON report format.
	// Mutually exclusive with MarkdownReport.
	JSONReport bool

	// MarkdownReport selects the Markdown report format.
	// Mutually exclusive with JSONReport.
	MarkdownReport bool

	// ReportFile is the output file path for the report.
	// When set, the selected format is written to this file and the text
	// report still goes to stdout. Directories are created automatically.
	ReportFile string

	// DBDir is the directory holding the history database.
	// Defaults to the XDG data directory (~/.local/share/tabreport on Linux).
	DBDir string
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		Input:            DefaultInput,
		Output:           DefaultOutput,
		AgeColumn:        DefaultAgeColumn,
		SalaryColumn:     DefaultSalaryColumn,
		AgeThreshold:     DefaultAgeThreshold,
		PreviewRows:      DefaultPreviewRows,
		NAValues:         append([]string(nil), frame.DefaultNAValues...),
		Delimiter:        DefaultDelimiter,
		SensitiveColumns: append([]string(nil), DefaultSensitiveColumns...),
		DBDir:            XDGDataDir(),
	}
}

// XDGDataDir returns the XDG data directory for tabreport.
// On Linux: ~/.local/share/tabreport
// On macOS: ~/Library/Application Support/tabreport
// On Windows: %LOCALAPPDATA%\tabreport
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for tabreport.
// On Linux: ~/.config/tabreport
// On macOS: ~/Library/Application Support/tabreport
// On Windows: %APPDATA%\tabreport
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks if the configuration is valid.
// It returns the first problem found as one of the sentinel errors.
func (c *Config) Validate() error {
	if c.Input == "" {
		return ErrNoInput
	}

	if c.Output == "" {
		return ErrNoOutput
	}

	if samePath(c.Input, c.Output) {
		return ErrSameInputOutput
	}

	if c.AgeColumn == "" || c.SalaryColumn == "" {
		return ErrEmptyColumnName
	}

	if c.PreviewRows < 0 {
		return ErrInvalidPreviewRows
	}

	if c.Delimiter != "" {
		r, size := utf8.DecodeRuneInString(c.Delimiter)
		if size != len(c.Delimiter) || r == utf8.RuneError || r == '"' || r == '\r' || r == '\n' {
			return ErrInvalidDelimiter
		}
	}

	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}

	return nil
}

// samePath reports whether a and b refer to the same path after cleaning
// and, where possible, resolving to absolute form.
func samePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}
	return absA == absB
}

package frame

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// DefaultNAValues are the cell values loaded as missing.
var DefaultNAValues = []string{
	"", "NA", "N/A", "NaN", "nan", "null", "NULL", "<NA>", "#N/A", "<nil>",
}

// DefaultDelimiter is the field separator used when none is configured.
const DefaultDelimiter = ','

// Frame is an immutable table of named, homogeneously typed columns.
type Frame struct {
	df dataframe.DataFrame
}

// LoadOption configures Load and Read.
type LoadOption func(*loadOptions)

type loadOptions struct {
	naValues  []string
	delimiter rune
}

// WithNAValues replaces the set of cell values treated as missing.
func WithNAValues(values []string) LoadOption {
	return func(o *loadOptions) {
		o.naValues = values
	}
}

// WithDelimiter sets the field separator.
func WithDelimiter(d rune) LoadOption {
	return func(o *loadOptions) {
		o.delimiter = d
	}
}

// Load reads the delimited file at path into a Frame.
// A missing file yields ErrFileNotFound (KindIO); content that is not
// well-formed delimited text yields ErrMalformedCSV (KindParse).
func Load(path string, opts ...LoadOption) (*Frame, error) {
	f, err := os.Open(path) //nolint:gosec // input path is chosen by the user
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &Error{Kind: KindIO, Op: "load", Subject: path, Err: fmt.Errorf("%w: %w", ErrFileNotFound, err)}
		}
		return nil, &Error{Kind: KindIO, Op: "load", Subject: path, Err: err}
	}
	defer f.Close()

	fr, err := Read(f, opts...)
	if err != nil {
		var fe *Error
		if errors.As(err, &fe) {
			fe.Subject = path
		}
		return nil, err
	}
	return fr, nil
}

// Read parses delimited text with a header row from r.
func Read(r io.Reader, opts ...LoadOption) (*Frame, error) {
	o := loadOptions{
		naValues:  DefaultNAValues,
		delimiter: DefaultDelimiter,
	}
	for _, opt := range opts {
		opt(&o)
	}

	reader := csv.NewReader(r)
	reader.Comma = o.delimiter
	records, err := reader.ReadAll()
	if err != nil {
		return nil, &Error{Kind: KindParse, Op: "load", Err: fmt.Errorf("%w: %w", ErrMalformedCSV, err)}
	}
	if len(records) == 0 {
		return nil, &Error{Kind: KindParse, Op: "load", Err: fmt.Errorf("%w: no header row", ErrMalformedCSV)}
	}

	// gota refuses a header without rows; build the empty frame directly.
	if len(records) == 1 {
		cols := make([]series.Series, 0, len(records[0]))
		for _, name := range records[0] {
			cols = append(cols, series.New([]string{}, series.String, name))
		}
		return New(cols...)
	}

	df := dataframe.LoadRecords(records,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(true),
		dataframe.NaNValues(o.naValues),
	)
	if df.Err != nil {
		return nil, &Error{Kind: KindParse, Op: "load", Err: fmt.Errorf("%w: %w", ErrMalformedCSV, df.Err)}
	}
	return &Frame{df: df}, nil
}

// New builds a Frame from already constructed gota series.
func New(columns ...series.Series) (*Frame, error) {
	df := dataframe.New(columns...)
	if df.Err != nil {
		return nil, &Error{Kind: KindSchema, Op: "new", Err: df.Err}
	}
	return &Frame{df: df}, nil
}

// Nrow returns the number of rows.
func (f *Frame) Nrow() int {
	return f.df.Nrow()
}

// Ncol returns the number of columns.
func (f *Frame) Ncol() int {
	return f.df.Ncol()
}

// Names returns the column names in file order.
func (f *Frame) Names() []string {
	return f.df.Names()
}

// HasColumn reports whether a column named name exists.
func (f *Frame) HasColumn(name string) bool {
	return slices.Contains(f.df.Names(), name)
}

// Types returns the column types in file order.
func (f *Frame) Types() []series.Type {
	return f.df.Types()
}

// IsNumeric reports whether the named column holds int or float values.
func (f *Frame) IsNumeric(name string) bool {
	if !f.HasColumn(name) {
		return false
	}
	return isNumericType(f.df.Col(name).Type())
}

// NumericColumns returns the names of int and float columns in file order.
func (f *Frame) NumericColumns() []string {
	names := f.df.Names()
	types := f.df.Types()
	out := make([]string, 0, len(names))
	for i, name := range names {
		if isNumericType(types[i]) {
			out = append(out, name)
		}
	}
	return out
}

// Floats returns the named column as float64 values, with missing cells as NaN.
// The column must exist, and must be numeric unless the frame has no rows.
func (f *Frame) Floats(name string) ([]float64, error) {
	if !f.HasColumn(name) {
		return nil, columnError(KindSchema, name, ErrColumnNotFound)
	}
	col := f.df.Col(name)
	if f.Nrow() == 0 {
		return []float64{}, nil
	}
	if !isNumericType(col.Type()) {
		// A column with no values at all is detected as text; treat it as all-missing.
		if !slices.Contains(col.IsNaN(), false) {
			return col.Float(), nil
		}
		return nil, columnError(KindComputation, name, ErrNonNumericColumn)
	}
	return col.Float(), nil
}

// Head returns the first n rows, or the whole frame if it is shorter.
func (f *Frame) Head(n int) *Frame {
	n = max(0, min(n, f.Nrow()))
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	return f.Subset(idx)
}

// Subset returns the rows at the given indexes, in that order.
func (f *Frame) Subset(idx []int) *Frame {
	if len(idx) == 0 {
		return f.emptyLike()
	}
	return &Frame{df: f.df.Subset(idx)}
}

// emptyLike returns a zero-row frame with the same column names and types.
func (f *Frame) emptyLike() *Frame {
	cols := make([]series.Series, 0, f.Ncol())
	for _, name := range f.df.Names() {
		cols = append(cols, series.New([]string{}, f.df.Col(name).Type(), name))
	}
	return &Frame{df: dataframe.New(cols...)}
}

// Records returns the header row followed by every data row in the form
// Save writes them: missing cells are empty and floats keep full precision.
func (f *Frame) Records() [][]string {
	return f.records("")
}

// DisplayRecords is Records with missing cells shown as NaN.
func (f *Frame) DisplayRecords() [][]string {
	return f.records("NaN")
}

func (f *Frame) records(missing string) [][]string {
	names := f.df.Names()
	cols := make([]series.Series, len(names))
	for j, name := range names {
		cols[j] = f.df.Col(name)
	}

	out := make([][]string, 0, f.Nrow()+1)
	out = append(out, names)
	for i, n := 0, f.Nrow(); i < n; i++ {
		row := make([]string, len(cols))
		for j, col := range cols {
			row[j] = formatCell(col.Elem(i), missing)
		}
		out = append(out, row)
	}
	return out
}

// formatCell renders one value, or missing for an NA cell.
func formatCell(e series.Element, missing string) string {
	if e.IsNA() {
		return missing
	}
	if e.Type() == series.Float {
		return FormatFloat(e.Float())
	}
	return e.String()
}

// FormatFloat returns the shortest representation of v that parses back to
// the same value, always with a fractional part ("200.0", "0.123456789").
// Very large and very small magnitudes use exponent notation ("1e-07").
func FormatFloat(v float64) string {
	abs := math.Abs(v)
	if math.IsInf(v, 0) || (abs != 0 && (abs >= 1e16 || abs < 1e-4)) {
		return strconv.FormatFloat(v, 'g', -1, 64)
	}
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// WriteCSV writes the frame as comma-separated text with a header row and
// no index column.
func (f *Frame) WriteCSV(w io.Writer) error {
	return csv.NewWriter(w).WriteAll(f.Records())
}

// Save writes the frame to path, overwriting any existing file. The data is
// written to a temporary file in the same directory and renamed into place,
// so a failed write never leaves a partial file behind.
func (f *Frame) Save(path string) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return &Error{Kind: KindIO, Op: "save", Subject: path, Err: err}
	}

	tmp, err := os.CreateTemp(dir, ".tabreport-*.csv")
	if err != nil {
		return &Error{Kind: KindIO, Op: "save", Subject: path, Err: err}
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()

	if err = f.WriteCSV(tmp); err != nil {
		_ = tmp.Close()
		return &Error{Kind: KindIO, Op: "save", Subject: path, Err: err}
	}
	if err = tmp.Chmod(0o644); err != nil { //nolint:gosec // report output is meant to be readable
		_ = tmp.Close()
		return &Error{Kind: KindIO, Op: "save", Subject: path, Err: err}
	}
	if err = tmp.Close(); err != nil {
		return &Error{Kind: KindIO, Op: "save", Subject: path, Err: err}
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return &Error{Kind: KindIO, Op: "save", Subject: path, Err: err}
	}
	return nil
}

// Equal reports whether two frames have the same columns, types and values.
// Missing values compare equal to each other.
func (f *Frame) Equal(other *Frame) bool {
	if f.Nrow() != other.Nrow() || !slices.Equal(f.Names(), other.Names()) {
		return false
	}
	for _, name := range f.Names() {
		a, b := f.df.Col(name), other.df.Col(name)
		if isNumericType(a.Type()) && isNumericType(b.Type()) {
			if !floatsEqual(a.Float(), b.Float()) {
				return false
			}
			continue
		}
		if a.Type() != b.Type() || !slices.Equal(a.Records(), b.Records()) {
			return false
		}
	}
	return true
}

// String renders the frame in gota's tabular layout.
func (f *Frame) String() string {
	return f.df.String()
}

func floatsEqual(a, b []float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if math.IsNaN(a[i]) && math.IsNaN(b[i]) {
			continue
		}
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func isNumericType(t series.Type) bool {
	return t == series.Int || t == series.Float
}

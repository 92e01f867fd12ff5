package pipeline

import (
	"context"
	"errors"
	"log/slog"

	"github.com/nao1215/tabreport/internal/analysis"
	"github.com/nao1215/tabreport/internal/config"
	"github.com/nao1215/tabreport/internal/frame"
	"github.com/nao1215/tabreport/internal/history"
	"github.com/nao1215/tabreport/internal/model"
)

// errNoTable is returned by steps that run before the table was loaded.
var errNoTable = errors.New("table not loaded")

// table returns the loaded table of report or errNoTable.
func table(report *model.RunReport) (*frame.Frame, error) {
	if report.Table == nil {
		return nil, errNoTable
	}
	return report.Table, nil
}

// LoadStep reads report.InputPath into report.Table.
type LoadStep struct {
	opts   []frame.LoadOption
	logger *slog.Logger
}

// LoadStepOption configures a LoadStep.
type LoadStepOption func(*LoadStep)

// WithNAValues sets the tokens read as missing values.
func WithNAValues(values []string) LoadStepOption {
	return func(s *LoadStep) {
		s.opts = append(s.opts, frame.WithNAValues(values))
	}
}

// WithDelimiter sets the field delimiter of the input file.
func WithDelimiter(r rune) LoadStepOption {
	return func(s *LoadStep) {
		s.opts = append(s.opts, frame.WithDelimiter(r))
	}
}

// WithLoadLogger sets a custom logger for the load step.
func WithLoadLogger(logger *slog.Logger) LoadStepOption {
	return func(s *LoadStep) {
		s.logger = logger
	}
}

// NewLoadStep creates a new load step.
func NewLoadStep(opts ...LoadStepOption) *LoadStep {
	s := &LoadStep{logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the step name.
func (s *LoadStep) Name() string {
	return "load"
}

// Do executes the load step.
func (s *LoadStep) Do(_ context.Context, report *model.RunReport) error {
	f, err := frame.Load(report.InputPath, s.opts...)
	if err != nil {
		return err
	}
	report.Table = f
	report.Rows = f.Nrow()
	report.Columns = f.Names()
	s.logger.Debug("table loaded",
		"path", report.InputPath,
		"rows", f.Nrow(),
		"columns", f.Ncol(),
	)
	return nil
}

// DigestStep records the BLAKE2b-256 digest of the input file.
// It only runs when run history is enabled.
type DigestStep struct{}

// NewDigestStep creates a new digest step.
func NewDigestStep() *DigestStep {
	return &DigestStep{}
}

// Name returns the step name.
func (s *DigestStep) Name() string {
	return "digest"
}

// Do executes the digest step.
func (s *DigestStep) Do(_ context.Context, report *model.RunReport) error {
	sum, err := history.FileDigest(report.InputPath)
	if err != nil {
		return &frame.Error{Kind: frame.KindIO, Op: "digest", Subject: report.InputPath, Err: err}
	}
	report.InputDigest = sum
	return nil
}

// PreviewStep keeps the first rows of the table.
type PreviewStep struct {
	rows int
}

// NewPreviewStep creates a preview of at most rows rows.
func NewPreviewStep(rows int) *PreviewStep {
	return &PreviewStep{rows: rows}
}

// Name returns the step name.
func (s *PreviewStep) Name() string {
	return "preview"
}

// Do executes the preview step.
func (s *PreviewStep) Do(_ context.Context, report *model.RunReport) error {
	f, err := table(report)
	if err != nil {
		return err
	}
	report.Preview = model.NewTableView(f.Head(s.rows), nil)
	return nil
}

// DescribeStep computes summary statistics of every numeric column.
type DescribeStep struct{}

// NewDescribeStep creates a new describe step.
func NewDescribeStep() *DescribeStep {
	return &DescribeStep{}
}

// Name returns the step name.
func (s *DescribeStep) Name() string {
	return "describe"
}

// Do executes the describe step.
func (s *DescribeStep) Do(_ context.Context, report *model.RunReport) error {
	f, err := table(report)
	if err != nil {
		return err
	}
	summary, err := analysis.Describe(f)
	if err != nil {
		return err
	}
	report.Summary = make([]model.ColumnSummary, 0, len(summary.Columns))
	for _, c := range summary.Columns {
		report.Summary = append(report.Summary, model.ColumnSummary{
			Name:  c.Name,
			Count: c.Count,
			Mean:  model.Number(c.Mean),
			Std:   model.Number(c.Std),
			Min:   model.Number(c.Min),
			Q25:   model.Number(c.Q25),
			Q50:   model.Number(c.Q50),
			Q75:   model.Number(c.Q75),
			Max:   model.Number(c.Max),
		})
	}
	return nil
}

// ValueCountsStep counts the distinct values of the age column.
type ValueCountsStep struct {
	column string
}

// NewValueCountsStep creates a value count step over column.
func NewValueCountsStep(column string) *ValueCountsStep {
	return &ValueCountsStep{column: column}
}

// Name returns the step name.
func (s *ValueCountsStep) Name() string {
	return "value_counts"
}

// Do executes the value count step.
func (s *ValueCountsStep) Do(_ context.Context, report *model.RunReport) error {
	f, err := table(report)
	if err != nil {
		return err
	}
	counts, err := analysis.ValueCounts(f, s.column)
	if err != nil {
		return err
	}
	report.AgeDistribution = make([]model.ValueCount, 0, len(counts))
	for _, c := range counts {
		report.AgeDistribution = append(report.AgeDistribution, model.ValueCount{
			Value: model.Number(c.Value),
			Label: c.Label,
			Count: c.Count,
		})
	}
	return nil
}

// MeanStep averages the salary column.
type MeanStep struct {
	column string
	policy analysis.MeanPolicy
	logger *slog.Logger
}

// NewMeanStep creates a mean step over column using policy for empty columns.
// A nil logger means slog.Default().
func NewMeanStep(column string, policy analysis.MeanPolicy, logger *slog.Logger) *MeanStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &MeanStep{column: column, policy: policy, logger: logger}
}

// Name returns the step name.
func (s *MeanStep) Name() string {
	return "mean"
}

// Do executes the mean step.
func (s *MeanStep) Do(_ context.Context, report *model.RunReport) error {
	f, err := table(report)
	if err != nil {
		return err
	}
	m, err := analysis.Mean(f, s.column, s.policy)
	if err != nil {
		return err
	}
	report.AverageSalary = model.Number(m)
	s.logger.Debug("mean computed", s.column, m)
	return nil
}

// FilterStep keeps the rows whose column value exceeds a threshold.
type FilterStep struct {
	column    string
	threshold float64
}

// NewFilterStep creates a filter step keeping rows where column > threshold.
func NewFilterStep(column string, threshold float64) *FilterStep {
	return &FilterStep{column: column, threshold: threshold}
}

// Name returns the step name.
func (s *FilterStep) Name() string {
	return "filter"
}

// Do executes the filter step.
func (s *FilterStep) Do(_ context.Context, report *model.RunReport) error {
	f, err := table(report)
	if err != nil {
		return err
	}
	idx, err := analysis.GreaterIndex(f, s.column, s.threshold)
	if err != nil {
		return err
	}
	report.Filtered = model.NewTableView(f.Subset(idx), idx)
	return nil
}

// GroupMeanStep averages a value column per distinct key.
type GroupMeanStep struct {
	key    string
	value  string
	logger *slog.Logger
}

// NewGroupMeanStep creates a step averaging value grouped by key.
// A nil logger means slog.Default().
func NewGroupMeanStep(key, value string, logger *slog.Logger) *GroupMeanStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &GroupMeanStep{key: key, value: value, logger: logger}
}

// Name returns the step name.
func (s *GroupMeanStep) Name() string {
	return "group_mean"
}

// Do executes the group mean step.
func (s *GroupMeanStep) Do(_ context.Context, report *model.RunReport) error {
	f, err := table(report)
	if err != nil {
		return err
	}
	groups, err := analysis.GroupMeans(f, s.key, s.value)
	if err != nil {
		return err
	}
	report.SalaryByAge = make([]model.GroupMean, 0, len(groups))
	for _, g := range groups {
		report.SalaryByAge = append(report.SalaryByAge, model.GroupMean{
			Key:   model.Number(g.Key),
			Label: g.Label,
			Mean:  model.Number(g.Mean),
			Count: g.Count,
		})
		s.logger.Debug("group mean computed", s.key, g.Label, s.value, g.Mean)
	}
	return nil
}

// PersistStep writes the unmodified table to report.OutputPath.
type PersistStep struct {
	logger *slog.Logger
}

// NewPersistStep creates a new persist step.
func NewPersistStep(logger *slog.Logger) *PersistStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &PersistStep{logger: logger}
}

// Name returns the step name.
func (s *PersistStep) Name() string {
	return "persist"
}

// Do executes the persist step.
func (s *PersistStep) Do(_ context.Context, report *model.RunReport) error {
	f, err := table(report)
	if err != nil {
		return err
	}
	if err := f.Save(report.OutputPath); err != nil {
		return err
	}
	report.Saved = true
	s.logger.Debug("table saved", "path", report.OutputPath, "rows", f.Nrow())
	return nil
}

// NewReport creates an empty report carrying the run parameters of cfg.
func NewReport(cfg *config.Config) *model.RunReport {
	report := model.NewRunReport(cfg.Input, cfg.Output)
	report.AgeColumn = cfg.AgeColumn
	report.SalaryColumn = cfg.SalaryColumn
	report.AgeThreshold = cfg.AgeThreshold
	return report
}

// DefaultPipeline creates the standard run: load, preview, describe,
// value counts, mean, filter, group mean and persist, in that order.
// A digest step follows the load when cfg.History is set.
func DefaultPipeline(cfg *config.Config, pipelineOpts ...Option) *Pipeline {
	p := New(pipelineOpts...)

	policy := analysis.MeanNaN
	if cfg.StrictMean {
		policy = analysis.MeanStrict
	}

	loadOpts := []LoadStepOption{WithLoadLogger(p.logger)}
	if len(cfg.NAValues) > 0 {
		loadOpts = append(loadOpts, WithNAValues(cfg.NAValues))
	}
	if cfg.Delimiter != "" {
		loadOpts = append(loadOpts, WithDelimiter([]rune(cfg.Delimiter)[0]))
	}

	p.AddStep(NewLoadStep(loadOpts...))
	if cfg.History {
		p.AddStep(NewDigestStep())
	}
	p.AddSteps(
		NewPreviewStep(cfg.PreviewRows),
		NewDescribeStep(),
		NewValueCountsStep(cfg.AgeColumn),
		NewMeanStep(cfg.SalaryColumn, policy, p.logger),
		NewFilterStep(cfg.AgeColumn, cfg.AgeThreshold),
		NewGroupMeanStep(cfg.AgeColumn, cfg.SalaryColumn, p.logger),
		NewPersistStep(p.logger),
	)

	return p
}

package report

import (
	"io"

	"github.com/nao1215/tabreport/internal/model"
)

// Writer renders a completed RunReport in one output format.
// Write is only called after every pipeline step has succeeded.
type Writer interface {
	// Write renders report and returns the number of bytes written.
	Write(report *model.RunReport) (int, error)
}

// MultiWriter renders one report with several writers, in order.
// The CLI uses it to print the text report while a file receives the
// JSON or Markdown form.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a MultiWriter over writers.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// Write renders report with each writer and returns the byte total.
// The first failing writer stops the sequence.
func (m *MultiWriter) Write(report *model.RunReport) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.Write(report)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// baseWriter holds the destination shared by the format writers.
type baseWriter struct {
	output io.Writer
}

func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}

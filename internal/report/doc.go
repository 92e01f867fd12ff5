// Package report provides report generation and output functionality.
//
// This package contains writers for different output formats:
//   - TextWriter: the labelled plain-text report printed to the terminal
//   - JSONWriter: structured JSON output for tool integration
//   - MarkdownWriter: GitHub Flavored Markdown with tables and a pie chart
//
// Writers implement the Writer interface, allowing them to be used
// interchangeably and composed with MultiWriter.
package report

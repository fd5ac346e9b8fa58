// Package report renders lookup results for the command line.
package report

import (
	"io"
	"proplookup/pkg/domain"
)

// Writer renders lookup results to an output destination.
type Writer interface {
	// WriteLookup renders a single lookup. It returns the number of bytes written.
	WriteLookup(res domain.LookupResult) (int, error)
	// WriteBatch renders a batch outcome. It returns the number of bytes written.
	WriteBatch(out domain.BatchOutcome) (int, error)
}

// Formats lists the names accepted by New.
var Formats = []string{FormatJSON, FormatMarkdown}

const (
	FormatJSON     = "json"
	FormatMarkdown = "markdown"
)

// New returns the Writer for format, or false when the format is unknown.
func New(format string, output io.Writer) (Writer, bool) {
	switch format {
	case FormatJSON:
		return NewJSONWriter(output), true
	case FormatMarkdown:
		return NewMarkdownWriter(output), true
	default:
		return nil, false
	}
}

type baseWriter struct {
	output io.Writer
}

func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}

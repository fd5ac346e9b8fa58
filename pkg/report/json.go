package report

import (
	"encoding/json"
	"io"
	"proplookup/pkg/domain"

	"github.com/go-faster/errors"
)

// JSONWriter writes results as indented JSON, one document per call.
type JSONWriter struct {
	baseWriter
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
func NewJSONWriter(output io.Writer) *JSONWriter {
	return &JSONWriter{baseWriter: newBaseWriter(output)}
}

// WriteLookup writes res as JSON.
func (w *JSONWriter) WriteLookup(res domain.LookupResult) (int, error) {
	return w.write(res)
}

// WriteBatch writes out as JSON.
func (w *JSONWriter) WriteBatch(out domain.BatchOutcome) (int, error) {
	return w.write(out)
}

func (w *JSONWriter) write(v any) (int, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return 0, errors.Wrap(err, "encode report")
	}
	b = append(b, '\n')

	n, err := w.output.Write(b)
	if err != nil {
		return n, errors.Wrap(err, "write report")
	}

	return n, nil
}

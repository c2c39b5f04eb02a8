package output

import (
	"encoding/json"
	"io"

	"github.com/lgbarn/chessrules-go/internal/config"
	"github.com/lgbarn/chessrules-go/internal/worker"
)

// ResultWriter is the interface for writing replay results.
type ResultWriter interface {
	// WriteResult writes a single result.
	WriteResult(r worker.Result) error

	// Flush flushes any buffered data to the underlying writer.
	Flush() error

	// Close flushes and releases the writer. Batch writers emit their
	// pending output here.
	Close() error
}

// NewWriter returns the writer selected by cfg.Output.
func NewWriter(w io.Writer, cfg *config.Config) ResultWriter {
	if cfg.Output.JSONFormat {
		return NewJSONWriter(w, cfg)
	}
	return NewTextWriter(w, cfg)
}

// TextWriter writes results as text blocks.
type TextWriter struct {
	w   io.Writer
	cfg *config.Config
}

// NewTextWriter creates a new text writer.
func NewTextWriter(w io.Writer, cfg *config.Config) *TextWriter {
	return &TextWriter{w: w, cfg: cfg}
}

// WriteResult writes a result immediately.
func (tw *TextWriter) WriteResult(r worker.Result) error {
	OutputResult(tw.w, r, tw.cfg)
	return nil
}

// Flush is a no-op; text is written immediately.
func (tw *TextWriter) Flush() error { return nil }

// Close is a no-op.
func (tw *TextWriter) Close() error { return nil }

// JSONWriter buffers results and writes them as one JSON document on Flush.
type JSONWriter struct {
	w       io.Writer
	cfg     *config.Config
	results []*JSONGame
}

// NewJSONWriter creates a new batching JSON writer.
func NewJSONWriter(w io.Writer, cfg *config.Config) *JSONWriter {
	return &JSONWriter{w: w, cfg: cfg}
}

// WriteResult converts and buffers a result.
func (jw *JSONWriter) WriteResult(r worker.Result) error {
	jw.results = append(jw.results, ResultToJSON(r, jw.cfg))
	return nil
}

// Flush writes all buffered results as a JSON object with a games array.
func (jw *JSONWriter) Flush() error {
	if len(jw.results) == 0 {
		return nil
	}
	enc := json.NewEncoder(jw.w)
	enc.SetIndent("", "  ")
	err := enc.Encode(&JSONOutput{Games: jw.results})
	jw.results = jw.results[:0]
	return err
}

// Close flushes the JSON writer.
func (jw *JSONWriter) Close() error {
	return jw.Flush()
}

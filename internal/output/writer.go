package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"

	ddqerrors "github.com/ddqhq/ddq/internal/errors"
)

// NDJSONWriter handles streaming NDJSON output to a file or io.Writer.
// It ensures memory-efficient writing without accumulating data.
type NDJSONWriter struct {
	mu        sync.Mutex
	output    io.Writer
	count     int
	closeFunc func() error
}

// NewWriter creates a new NDJSON writer that writes to the specified output.
func NewWriter(w io.Writer) *NDJSONWriter {
	return &NDJSONWriter{output: w}
}

// NewFileWriter creates a new NDJSON writer that writes to a file.
// The caller must call Close() when done to ensure the file is properly closed.
func NewFileWriter(filename string) (*NDJSONWriter, error) {
	file, err := os.Create(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %v: %w", err, ddqerrors.ErrIO)
	}

	return &NDJSONWriter{
		output:    file,
		closeFunc: file.Close,
	}, nil
}

// Write writes a single record as one NDJSON line. Each record is
// immediately flushed to the output. Encoding failures and transport
// failures carry distinct sentinels so callers can tell a bad record
// apart from a bad destination.
func (w *NDJSONWriter) Write(record any) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to encode record: %v: %w", err, ddqerrors.ErrSerialization)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if _, err := w.output.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write record: %v: %w", err, ddqerrors.ErrIO)
	}

	w.count++
	return nil
}

// Count returns the number of records written.
func (w *NDJSONWriter) Count() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.count
}

// Close closes the underlying writer if it's a file.
func (w *NDJSONWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closeFunc != nil {
		return w.closeFunc()
	}
	return nil
}

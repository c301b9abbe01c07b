package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// JSONLExporter exports records in JSONL format (one record per line)
type JSONLExporter struct{}

// Export writes each record of a list on its own line. A single record is
// written as one line.
func (e *JSONLExporter) Export(d Dataset, w io.Writer) error {
	data, err := json.Marshal(d.Records())
	if err != nil {
		return fmt.Errorf("failed to encode records: %w", err)
	}

	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		items = []json.RawMessage{data}
	}

	for _, item := range items {
		var line bytes.Buffer
		if err := json.Compact(&line, item); err != nil {
			return fmt.Errorf("failed to encode record: %w", err)
		}
		line.WriteByte('\n')
		if _, err := w.Write(line.Bytes()); err != nil {
			return err
		}
	}

	return nil
}

// Extension returns the file extension for this format
func (e *JSONLExporter) Extension() string {
	return "jsonl"
}

package export

import (
	"encoding/json"
	"io"
)

// JSONExporter exports records in JSON format (pretty-printed)
type JSONExporter struct{}

// Export exports the records as one JSON document
func (e *JSONExporter) Export(d Dataset, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(d.Records())
}

// Extension returns the file extension for this format
func (e *JSONExporter) Extension() string {
	return "json"
}

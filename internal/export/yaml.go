package export

import (
	"io"

	"gopkg.in/yaml.v3"
)

// YAMLExporter exports records in YAML format
type YAMLExporter struct{}

// Export exports the records as one YAML document
func (e *YAMLExporter) Export(d Dataset, w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	defer func() { _ = enc.Close() }()

	return enc.Encode(d.Records())
}

// Extension returns the file extension for this format
func (e *YAMLExporter) Extension() string {
	return "yaml"
}

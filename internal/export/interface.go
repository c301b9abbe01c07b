package export

import (
	"fmt"
	"io"
)

// Dataset is a listing that every exporter can render. Rows drive the
// table and markdown formats, Records the structured ones.
type Dataset interface {
	Title() string
	Headers() []string
	Rows() [][]string
	Records() interface{}
}

// Exporter defines the interface for all export formats
type Exporter interface {
	Export(d Dataset, w io.Writer) error
	Extension() string
}

// Formats lists the accepted values of the --output flag
var Formats = []string{"table", "json", "jsonl", "yaml", "md"}

// NewExporter creates a new exporter based on format
func NewExporter(format string) (Exporter, error) {
	switch format {
	case "", "table":
		return &TableExporter{}, nil
	case "jsonl":
		return &JSONLExporter{}, nil
	case "md", "markdown":
		return &MarkdownExporter{}, nil
	case "yaml":
		return &YAMLExporter{}, nil
	case "json":
		return &JSONExporter{}, nil
	default:
		return nil, fmt.Errorf("unsupported format: %s (supported: table, json, jsonl, yaml, md)", format)
	}
}

// Table is a Dataset built from prepared rows
type Table struct {
	Name    string
	Columns []string
	Data    [][]string
	Items   interface{}
}

func (t *Table) Title() string        { return t.Name }
func (t *Table) Headers() []string    { return t.Columns }
func (t *Table) Rows() [][]string     { return t.Data }
func (t *Table) Records() interface{} { return t.Items }

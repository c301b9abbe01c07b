package export

import (
	"fmt"
	"io"
	"strings"
)

// MarkdownExporter exports rows as a Markdown table
type MarkdownExporter struct{}

// Export exports the dataset as a titled Markdown table
func (e *MarkdownExporter) Export(d Dataset, w io.Writer) error {
	if d.Title() != "" {
		_, _ = fmt.Fprintf(w, "## %s\n\n", d.Title())
	}

	rows := d.Rows()
	if len(rows) == 0 {
		_, err := fmt.Fprintf(w, "_No entries._\n")
		return err
	}

	headers := d.Headers()
	cells := make([]string, len(headers))
	for i, h := range headers {
		cells[i] = escapeCell(h)
	}
	_, _ = fmt.Fprintf(w, "| %s |\n", strings.Join(cells, " | "))
	_, _ = fmt.Fprintf(w, "|%s\n", strings.Repeat(" --- |", len(headers)))

	for _, row := range rows {
		cells := make([]string, len(headers))
		for i := range headers {
			if i < len(row) {
				cells[i] = escapeCell(row[i])
			}
		}
		if _, err := fmt.Fprintf(w, "| %s |\n", strings.Join(cells, " | ")); err != nil {
			return err
		}
	}

	return nil
}

// escapeCell keeps a value on one line and escapes table syntax
func escapeCell(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\n", "<br>")
	text = strings.ReplaceAll(text, "|", "\\|")
	return text
}

// Extension returns the file extension for this format
func (e *MarkdownExporter) Extension() string {
	return "md"
}

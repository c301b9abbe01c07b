package export

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("62"))

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)
)

const maxCellWidth = 50

// TableExporter renders rows as aligned columns for the terminal
type TableExporter struct{}

// Export writes a header line, the column titles and one line per row
func (e *TableExporter) Export(d Dataset, w io.Writer) error {
	rows := d.Rows()
	if len(rows) == 0 {
		_, err := fmt.Fprintln(w, mutedStyle.Render(fmt.Sprintf("No %s found", strings.ToLower(d.Title()))))
		return err
	}

	if d.Title() != "" {
		_, _ = fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("%s (%d)", d.Title(), len(rows))))
		_, _ = fmt.Fprintln(w)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
	headers := d.Headers()
	titles := make([]string, len(headers))
	for i, h := range headers {
		titles[i] = strings.ToUpper(h)
	}
	_, _ = fmt.Fprintln(tw, strings.Join(titles, "\t"))

	for _, row := range rows {
		cells := make([]string, len(headers))
		for i := range headers {
			cell := "—"
			if i < len(row) && row[i] != "" {
				cell = truncate(row[i])
			}
			cells[i] = cell
		}
		_, _ = fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}

	return tw.Flush()
}

// truncate keeps long values to one readable line
func truncate(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	if utf8.RuneCountInString(s) <= maxCellWidth {
		return s
	}
	r := []rune(s)
	return string(r[:maxCellWidth-3]) + "..."
}

// Extension returns the file extension for this format
func (e *TableExporter) Extension() string {
	return "txt"
}

package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/iksnae/complaint-desk/internal/export"
	"github.com/spf13/cobra"
)

var (
	sectionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("62")).
			Bold(true).
			Underline(true)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243")).
			Width(14)

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39"))

	idStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("240")).
		Italic(true)
)

func addOutputFlag(cmd *cobra.Command, format *string) {
	cmd.Flags().StringVarP(format, "output", "o", "table",
		"Output format: "+strings.Join(export.Formats, ", "))
}

// render writes d to the command's stdout in the requested format
func render(cmd *cobra.Command, format string, d export.Dataset) error {
	exp, err := export.NewExporter(format)
	if err != nil {
		return err
	}
	return exp.Export(d, cmd.OutOrStdout())
}

func parseID(arg, what string) (int, error) {
	id, err := strconv.Atoi(arg)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s id %q: must be a positive number", what, arg)
	}
	return id, nil
}

// confirm asks before a destructive action unless yes is set
func (c *console) confirm(yes bool, label string) (bool, error) {
	if yes {
		return true, nil
	}
	return c.prompter.Confirm(label)
}

func field(label, value string) string {
	if value == "" {
		value = "—"
	}
	return labelStyle.Render(label) + value
}

func optionalID(id *int) string {
	if id == nil {
		return ""
	}
	return strconv.Itoa(*id)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

// createdMessage names what was created, with the new id when the backend
// returned one.
func createdMessage(what string, id int) string {
	if id > 0 {
		return fmt.Sprintf("%s created (id %d)", what, id)
	}
	return what + " created"
}

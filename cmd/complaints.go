package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/iksnae/complaint-desk/internal"
	"github.com/iksnae/complaint-desk/internal/api"
	"github.com/iksnae/complaint-desk/internal/export"
	"github.com/spf13/cobra"
)

var statusColors = map[string]*color.Color{
	api.StatusOpen:     color.New(color.FgRed, color.Bold),
	api.StatusPending:  color.New(color.FgYellow),
	api.StatusResolved: color.New(color.FgGreen),
}

func newComplaintsCmd(c *console) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "complaints",
		Aliases: []string{"complaint"},
		Short:   "Review and resolve complaints",
	}

	cmd.AddCommand(
		newComplaintsListCmd(c),
		newComplaintsShowCmd(c),
		newComplaintsSetStatusCmd(c),
		newComplaintsExportCmd(c),
	)
	return cmd
}

func newComplaintsListCmd(c *console) *cobra.Command {
	var (
		filter api.ComplaintFilter
		output string
	)

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List complaints",
		Long: `List the complaints of your branch, optionally narrowed by status, by
the day they were created or by a search term.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			var complaints []api.Complaint
			err := internal.ShowProgress(ctx, "Loading complaints", func() error {
				var err error
				complaints, err = c.client.ListComplaints(ctx, filter)
				return err
			})
			if err != nil {
				return fmt.Errorf("failed to load complaints: %w", err)
			}

			rows := make([][]string, len(complaints))
			for i, cp := range complaints {
				rows[i] = []string{strconv.Itoa(cp.ID), cp.Subject, cp.UserEmail, cp.Status, createdDay(cp.CreatedAt)}
			}
			return render(cmd, output, &export.Table{
				Name:    "Complaints",
				Columns: []string{"ID", "Subject", "User", "Status", "Created"},
				Data:    rows,
				Items:   complaints,
			})
		},
	}

	cmd.Flags().StringVar(&filter.Status, "status", api.AllFilter,
		"Status to show: all, "+strings.Join(api.Statuses, ", "))
	cmd.Flags().StringVar(&filter.Date, "date", "", "Only complaints created on this day (YYYY-MM-DD)")
	cmd.Flags().StringVarP(&filter.Search, "search", "s", "", "Search term")
	addOutputFlag(cmd, &output)
	return cmd
}

func newComplaintsShowCmd(c *console) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one complaint",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "complaint")
			if err != nil {
				return err
			}

			cp, err := c.client.GetComplaint(cmd.Context(), id)
			if err != nil {
				return fmt.Errorf("failed to load complaint: %w", err)
			}

			if output != "" && output != "table" {
				return render(cmd, output, &export.Table{
					Name:    fmt.Sprintf("Complaint %d", cp.ID),
					Columns: []string{"ID", "Subject", "Status"},
					Data:    [][]string{{strconv.Itoa(cp.ID), cp.Subject, cp.Status}},
					Items:   cp,
				})
			}
			printComplaint(cmd.OutOrStdout(), cp)
			return nil
		},
	}

	addOutputFlag(cmd, &output)
	return cmd
}

func printComplaint(w io.Writer, cp *api.Complaint) {
	fmt.Fprintln(w, sectionStyle.Render(fmt.Sprintf("Complaint %d", cp.ID)))
	fmt.Fprintln(w, field("Subject:", cp.Subject))
	fmt.Fprintln(w, field("Status:", colorStatus(cp.Status)))
	fmt.Fprintln(w, field("User:", cp.UserEmail))
	fmt.Fprintln(w, field("Branch:", cp.BranchName))
	fmt.Fprintln(w, field("Category:", cp.CategoryName))
	fmt.Fprintln(w, field("Created:", cp.CreatedAt))
	fmt.Fprintln(w)
	fmt.Fprintln(w, sectionStyle.Render("Description"))
	fmt.Fprintln(w, valueOrDash(cp.Description))
	fmt.Fprintln(w)
	fmt.Fprintln(w, sectionStyle.Render("Admin notes"))
	fmt.Fprintln(w, valueOrDash(cp.AdminNotes))
}

func colorStatus(status string) string {
	if c, ok := statusColors[status]; ok {
		return c.Sprint(status)
	}
	return status
}

func valueOrDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "—"
	}
	return s
}

// createdDay trims a timestamp to its date
func createdDay(ts string) string {
	if len(ts) >= 10 {
		return ts[:10]
	}
	return ts
}

func newComplaintsSetStatusCmd(c *console) *cobra.Command {
	var update api.StatusUpdate

	cmd := &cobra.Command{
		Use:   "set-status <id>",
		Short: "Change the status of a complaint",
		Long: `Change the status of a complaint and record admin notes. The status must
be one of: ` + strings.Join(api.Statuses, ", ") + `. Existing admin notes are kept
unless --notes is given.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "complaint")
			if err != nil {
				return err
			}

			if err := api.ValidateStatusUpdate(update); err != nil {
				return err
			}

			ctx := cmd.Context()
			if !cmd.Flags().Changed("notes") {
				current, err := c.client.GetComplaint(ctx, id)
				if err != nil {
					return fmt.Errorf("failed to load complaint: %w", err)
				}
				update.AdminNotes = current.AdminNotes
			}

			cp, err := c.client.UpdateComplaintStatus(ctx, id, update)
			if err != nil {
				return fmt.Errorf("failed to update complaint: %w", err)
			}
			status := cp.Status
			if status == "" {
				status = update.Status
			}
			internal.PrintSuccess(cmd.OutOrStdout(), fmt.Sprintf("Complaint %d is now %s", id, status))
			return nil
		},
	}

	cmd.Flags().StringVar(&update.Status, "status", "", "New status")
	cmd.Flags().StringVar(&update.AdminNotes, "notes", "", "Admin notes")
	_ = cmd.MarkFlagRequired("status")
	return cmd
}

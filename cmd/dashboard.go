package cmd

import (
	"fmt"
	"strconv"
	"time"

	"github.com/iksnae/complaint-desk/internal"
	"github.com/iksnae/complaint-desk/internal/api"
	"github.com/iksnae/complaint-desk/internal/export"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func newDashboardCmd(c *console) *cobra.Command {
	var (
		filter api.DashboardFilter
		output string
	)

	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Show complaint totals",
		Long: `Show the total, open, pending and resolved complaint counts for a day,
optionally narrowed to one branch or category. Use 'dashboard filters' to
list the accepted branch and category IDs.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			var d *api.Dashboard
			err := internal.ShowProgress(ctx, "Loading dashboard", func() error {
				var err error
				d, err = c.client.Dashboard(ctx, filter)
				return err
			})
			if err != nil {
				return fmt.Errorf("failed to load dashboard: %w", err)
			}

			return render(cmd, output, &export.Table{
				Name:    fmt.Sprintf("Dashboard for %s", filter.Date),
				Columns: []string{"Metric", "Count"},
				Data: [][]string{
					{"Total", strconv.Itoa(d.TotalComplaints)},
					{"Open", strconv.Itoa(d.OpenComplaints)},
					{"Pending", strconv.Itoa(d.PendingComplaints)},
					{"Resolved", strconv.Itoa(d.ResolvedComplaints)},
				},
				Items: d,
			})
		},
	}

	cmd.Flags().StringVar(&filter.Date, "date", time.Now().Format("2006-01-02"), "Day to report (YYYY-MM-DD)")
	cmd.Flags().StringVar(&filter.BranchID, "branch", api.AllFilter, "Branch ID, or all")
	cmd.Flags().StringVar(&filter.Category, "category", api.AllFilter, "Category ID, or all")
	addOutputFlag(cmd, &output)

	cmd.AddCommand(newDashboardFiltersCmd(c))
	return cmd
}

type filterChoice struct {
	Filter string `json:"filter" yaml:"filter"`
	Value  string `json:"value" yaml:"value"`
	Label  string `json:"label" yaml:"label"`
}

func newDashboardFiltersCmd(c *console) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "filters",
		Short: "List the branch and category filter choices",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			var (
				branches   []api.Branch
				categories []api.Category
			)
			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				var err error
				branches, err = c.client.Branches(gctx)
				return err
			})
			g.Go(func() error {
				var err error
				categories, err = c.client.Categories(gctx)
				return err
			})
			if err := g.Wait(); err != nil {
				return fmt.Errorf("failed to load filter choices: %w", err)
			}

			choices := []filterChoice{{Filter: "branch", Value: api.AllFilter, Label: "All Branches"}}
			for _, b := range branches {
				choices = append(choices, filterChoice{Filter: "branch", Value: strconv.Itoa(b.ID), Label: b.Name})
			}
			choices = append(choices, filterChoice{Filter: "category", Value: api.AllFilter, Label: "All Categories"})
			for _, cat := range categories {
				choices = append(choices, filterChoice{Filter: "category", Value: cat.ID.String(), Label: cat.Name})
			}

			rows := make([][]string, len(choices))
			for i, ch := range choices {
				rows[i] = []string{ch.Filter, ch.Value, ch.Label}
			}
			return render(cmd, output, &export.Table{
				Name:    "Filter choices",
				Columns: []string{"Filter", "Value", "Label"},
				Data:    rows,
				Items:   choices,
			})
		},
	}

	addOutputFlag(cmd, &output)
	return cmd
}

package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/iksnae/complaint-desk/internal"
	"github.com/iksnae/complaint-desk/internal/api"
	"github.com/iksnae/complaint-desk/internal/export"
	"github.com/spf13/cobra"
)

func newComplaintsExportCmd(c *console) *cobra.Command {
	var (
		filter    api.ComplaintFilter
		format    string
		outputDir string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export complaints to files",
		Long: `Export complaints to files, one per complaint, in jsonl, md, yaml, json
or table format. The same filters as 'complaints list' apply.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			exporter, err := export.NewExporter(format)
			if err != nil {
				return err
			}

			complaints, err := c.client.ListComplaints(ctx, filter)
			if err != nil {
				return fmt.Errorf("failed to load complaints: %w", err)
			}

			if err := os.MkdirAll(outputDir, 0755); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}

			written := 0
			err = internal.ShowProgress(ctx, fmt.Sprintf("Exporting %d complaint(s) to %s", len(complaints), outputDir), func() error {
				for i := range complaints {
					cp := &complaints[i]
					path := filepath.Join(outputDir, fmt.Sprintf("complaint_%d.%s", cp.ID, exporter.Extension()))
					if err := writeComplaint(exporter, cp, path); err != nil {
						internal.LogError("Failed to export complaint %d: %v", cp.ID, err)
						continue
					}
					written++
				}
				return nil
			})
			if err != nil {
				return err
			}

			if written < len(complaints) {
				return fmt.Errorf("exported %d of %d complaint(s) to %s", written, len(complaints), outputDir)
			}
			internal.PrintSuccess(cmd.OutOrStdout(), fmt.Sprintf("Export complete: %d complaint(s) exported to %s", written, outputDir))
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "jsonl", "Export format (jsonl, md, yaml, json, table)")
	cmd.Flags().StringVar(&outputDir, "out", "./exports", "Output directory")
	cmd.Flags().StringVar(&filter.Status, "status", api.AllFilter, "Status to export")
	cmd.Flags().StringVar(&filter.Date, "date", "", "Only complaints created on this day (YYYY-MM-DD)")
	cmd.Flags().StringVarP(&filter.Search, "search", "s", "", "Search term")
	return cmd
}

func writeComplaint(exporter export.Exporter, cp *api.Complaint, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}

	err = exporter.Export(&export.Table{
		Name:    fmt.Sprintf("Complaint %d", cp.ID),
		Columns: []string{"Field", "Value"},
		Data: [][]string{
			{"ID", strconv.Itoa(cp.ID)},
			{"Subject", cp.Subject},
			{"Status", cp.Status},
			{"User", cp.UserEmail},
			{"Branch", cp.BranchName},
			{"Category", cp.CategoryName},
			{"Created", cp.CreatedAt},
			{"Description", cp.Description},
			{"Admin notes", cp.AdminNotes},
		},
		Items: cp,
	}, file)
	if err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}

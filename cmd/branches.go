package cmd

import (
	"fmt"
	"strconv"

	"github.com/iksnae/complaint-desk/internal"
	"github.com/iksnae/complaint-desk/internal/api"
	"github.com/iksnae/complaint-desk/internal/export"
	"github.com/spf13/cobra"
)

func newBranchesCmd(c *console) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "branches",
		Aliases: []string{"branch"},
		Short:   "Manage branches",
	}

	cmd.AddCommand(
		newBranchesListCmd(c),
		newBranchesUnassignedAdminsCmd(c),
		newBranchesCreateCmd(c),
		newBranchesUpdateCmd(c),
		newBranchesDeleteCmd(c),
	)
	return cmd
}

func branchTable(name string, branches []api.Branch) *export.Table {
	rows := make([][]string, len(branches))
	for i, b := range branches {
		admin := b.AdminName
		if admin == "" && b.AdminID != nil {
			admin = "#" + optionalID(b.AdminID)
		}
		if admin == "" {
			admin = "Unassigned"
		}
		rows[i] = []string{strconv.Itoa(b.ID), b.Name, b.Address, admin}
	}
	return &export.Table{
		Name:    name,
		Columns: []string{"ID", "Name", "Address", "Admin"},
		Data:    rows,
		Items:   branches,
	}
}

func newBranchesListCmd(c *console) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List branches",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			branches, err := c.client.ListBranches(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to load branches: %w", err)
			}
			return render(cmd, output, branchTable("Branches", branches))
		},
	}

	addOutputFlag(cmd, &output)
	return cmd
}

func newBranchesUnassignedAdminsCmd(c *console) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "unassigned-admins",
		Short: "List admins that can be assigned to a branch",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			admins, err := c.client.UnassignedAdmins(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to load unassigned admins: %w", err)
			}
			return render(cmd, output, adminTable("Unassigned admins", admins))
		},
	}

	addOutputFlag(cmd, &output)
	return cmd
}

type branchFlags struct {
	name    string
	address string
	admin   int
}

func (f *branchFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.name, "name", "", "Branch name")
	cmd.Flags().StringVar(&f.address, "address", "", "Branch address")
	cmd.Flags().IntVar(&f.admin, "admin", 0, "ID of the admin to assign (0 leaves the branch unassigned)")
}

// apply overlays the flags the user set on in
func (f *branchFlags) apply(cmd *cobra.Command, in *api.BranchInput) {
	if cmd.Flags().Changed("name") {
		in.Name = f.name
	}
	if cmd.Flags().Changed("address") {
		in.Address = f.address
	}
	if cmd.Flags().Changed("admin") {
		in.AdminID = nil
		if f.admin > 0 {
			admin := f.admin
			in.AdminID = &admin
		}
	}
}

func newBranchesCreateCmd(c *console) *cobra.Command {
	var flags branchFlags

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a branch",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var in api.BranchInput
			flags.apply(cmd, &in)

			b, err := c.client.CreateBranch(cmd.Context(), in)
			if err != nil {
				return fmt.Errorf("failed to save branch: %w", err)
			}
			internal.PrintSuccess(cmd.OutOrStdout(), createdMessage(fmt.Sprintf("Branch %q", in.Name), b.ID))
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}

func newBranchesUpdateCmd(c *console) *cobra.Command {
	var flags branchFlags

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a branch",
		Long:  `Update a branch. Fields whose flags are not given keep their current values.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "branch")
			if err != nil {
				return err
			}

			current, err := findBranch(cmd, c, id)
			if err != nil {
				return err
			}
			in := api.BranchInput{Name: current.Name, Address: current.Address, AdminID: current.AdminID}
			flags.apply(cmd, &in)

			if _, err := c.client.UpdateBranch(cmd.Context(), id, in); err != nil {
				return fmt.Errorf("failed to save branch: %w", err)
			}
			internal.PrintSuccess(cmd.OutOrStdout(), fmt.Sprintf("Branch %q updated", in.Name))
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}

func newBranchesDeleteCmd(c *console) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a branch",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "branch")
			if err != nil {
				return err
			}

			ok, err := c.confirm(yes, fmt.Sprintf("Delete branch %d? This action cannot be undone", id))
			if err != nil {
				return err
			}
			if !ok {
				internal.PrintInfo(cmd.OutOrStdout(), "Cancelled")
				return nil
			}

			if err := c.client.DeleteBranch(cmd.Context(), id); err != nil {
				return fmt.Errorf("failed to delete branch: %w", err)
			}
			internal.PrintSuccess(cmd.OutOrStdout(), fmt.Sprintf("Branch %d deleted", id))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}

func findBranch(cmd *cobra.Command, c *console, id int) (*api.Branch, error) {
	branches, err := c.client.ListBranches(cmd.Context())
	if err != nil {
		return nil, fmt.Errorf("failed to load branches: %w", err)
	}
	for i := range branches {
		if branches[i].ID == id {
			return &branches[i], nil
		}
	}
	return nil, fmt.Errorf("branch %d not found", id)
}

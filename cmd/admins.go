package cmd

import (
	"fmt"
	"strconv"

	"github.com/iksnae/complaint-desk/internal"
	"github.com/iksnae/complaint-desk/internal/api"
	"github.com/iksnae/complaint-desk/internal/export"
	"github.com/spf13/cobra"
)

func newAdminsCmd(c *console) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "admins",
		Aliases: []string{"admin"},
		Short:   "Manage branch admin accounts",
	}

	cmd.AddCommand(
		newAdminsListCmd(c),
		newAdminsUnassignedBranchesCmd(c),
		newAdminsCreateCmd(c),
		newAdminsUpdateCmd(c),
		newAdminsDeleteCmd(c),
		newAdminsResetPasswordCmd(c),
	)
	return cmd
}

func adminTable(name string, admins []api.Admin) *export.Table {
	rows := make([][]string, len(admins))
	for i, a := range admins {
		branch := a.BranchName
		if branch == "" && a.BranchID != nil {
			branch = "#" + optionalID(a.BranchID)
		}
		if branch == "" {
			branch = "No Branch Assigned"
		}
		status := "Active"
		if !a.IsActive {
			status = "Inactive"
		}
		rows[i] = []string{strconv.Itoa(a.ID), a.Name, a.Email, a.Permissions.Label(), status, branch}
	}
	return &export.Table{
		Name:    name,
		Columns: []string{"ID", "Name", "Email", "Permissions", "Status", "Branch"},
		Data:    rows,
		Items:   admins,
	}
}

func newAdminsListCmd(c *console) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List admin accounts",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			admins, err := c.client.ListAdmins(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to load admins: %w", err)
			}
			return render(cmd, output, adminTable("Admins", admins))
		},
	}

	addOutputFlag(cmd, &output)
	return cmd
}

func newAdminsUnassignedBranchesCmd(c *console) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "unassigned-branches",
		Short: "List branches that have no admin",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			branches, err := c.client.UnassignedBranches(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to load unassigned branches: %w", err)
			}
			return render(cmd, output, branchTable("Unassigned branches", branches))
		},
	}

	addOutputFlag(cmd, &output)
	return cmd
}

type adminFlags struct {
	name       string
	email      string
	password   string
	viewOnly   bool
	fullAccess bool
	inactive   bool
	branch     int
}

func (f *adminFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.name, "name", "", "Admin name")
	cmd.Flags().StringVar(&f.email, "email", "", "Admin email")
	cmd.Flags().StringVar(&f.password, "password", "", "Account password")
	cmd.Flags().BoolVar(&f.viewOnly, "view-only", false, "Grant view-only access")
	cmd.Flags().BoolVar(&f.fullAccess, "full-access", false, "Grant full access")
	cmd.Flags().BoolVar(&f.inactive, "inactive", false, "Mark the account inactive (--inactive=false re-activates)")
	cmd.Flags().IntVar(&f.branch, "branch", 0, "ID of the branch to assign (0 for none)")
}

// apply overlays the flags the user set on in. Choosing one permission
// clears the other.
func (f *adminFlags) apply(cmd *cobra.Command, in *api.AdminInput) {
	flags := cmd.Flags()
	if flags.Changed("name") {
		in.Name = f.name
	}
	if flags.Changed("email") {
		in.Email = f.email
	}
	if flags.Changed("password") {
		in.Password = f.password
	}
	if flags.Changed("view-only") || flags.Changed("full-access") {
		in.Permissions = api.Permissions{ViewOnly: f.viewOnly, FullAccess: f.fullAccess}
	}
	if flags.Changed("inactive") {
		in.IsActive = !f.inactive
	}
	if flags.Changed("branch") {
		in.BranchID = nil
		if f.branch > 0 {
			branch := f.branch
			in.BranchID = &branch
		}
	}
}

func newAdminsCreateCmd(c *console) *cobra.Command {
	var flags adminFlags

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an admin account",
		Long: `Create an admin account. Name, email, a password and one of --view-only
or --full-access are required. The password is prompted for when not given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			in := api.AdminInput{IsActive: true}
			flags.apply(cmd, &in)

			if in.Password == "" {
				pw, err := c.prompter.Password("Password for the new admin")
				if err != nil {
					return err
				}
				in.Password = pw
			}

			a, err := c.client.CreateAdmin(cmd.Context(), in)
			if err != nil {
				return fmt.Errorf("failed to save admin: %w", err)
			}
			internal.PrintSuccess(cmd.OutOrStdout(), createdMessage("Admin account "+in.Email, a.ID))
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}

func newAdminsUpdateCmd(c *console) *cobra.Command {
	var flags adminFlags

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update an admin account",
		Long: `Update an admin account. Fields whose flags are not given keep their
current values; the password is only changed when --password is given.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "admin")
			if err != nil {
				return err
			}

			current, err := findAdmin(cmd, c, id)
			if err != nil {
				return err
			}
			in := api.AdminInput{
				Name:        current.Name,
				Email:       current.Email,
				Permissions: current.Permissions,
				IsActive:    current.IsActive,
				BranchID:    current.BranchID,
			}
			flags.apply(cmd, &in)

			if _, err := c.client.UpdateAdmin(cmd.Context(), id, in); err != nil {
				return fmt.Errorf("failed to save admin: %w", err)
			}
			internal.PrintSuccess(cmd.OutOrStdout(), fmt.Sprintf("Admin account %s updated", in.Email))
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}

func newAdminsDeleteCmd(c *console) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an admin account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "admin")
			if err != nil {
				return err
			}

			ok, err := c.confirm(yes, fmt.Sprintf("Delete admin account %d? This action cannot be undone", id))
			if err != nil {
				return err
			}
			if !ok {
				internal.PrintInfo(cmd.OutOrStdout(), "Cancelled")
				return nil
			}

			if err := c.client.DeleteAdmin(cmd.Context(), id); err != nil {
				return fmt.Errorf("failed to delete admin: %w", err)
			}
			internal.PrintSuccess(cmd.OutOrStdout(), fmt.Sprintf("Admin account %d deleted", id))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}

func newAdminsResetPasswordCmd(c *console) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "reset-password <id>",
		Short: "Send a password reset link to an admin",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "admin")
			if err != nil {
				return err
			}

			ok, err := c.confirm(yes, fmt.Sprintf("Send a password reset link to admin %d", id))
			if err != nil {
				return err
			}
			if !ok {
				internal.PrintInfo(cmd.OutOrStdout(), "Cancelled")
				return nil
			}

			msg, err := c.client.ResetAdminPassword(cmd.Context(), id)
			if err != nil {
				return fmt.Errorf("failed to send reset link: %w", err)
			}
			if msg == "" {
				msg = "Password reset link sent."
			}
			internal.PrintSuccess(cmd.OutOrStdout(), msg)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}

func findAdmin(cmd *cobra.Command, c *console, id int) (*api.Admin, error) {
	admins, err := c.client.ListAdmins(cmd.Context())
	if err != nil {
		return nil, fmt.Errorf("failed to load admins: %w", err)
	}
	for i := range admins {
		if admins[i].ID == id {
			return &admins[i], nil
		}
	}
	return nil, fmt.Errorf("admin %d not found", id)
}

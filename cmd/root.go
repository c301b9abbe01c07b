package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/iksnae/complaint-desk/internal"
	"github.com/iksnae/complaint-desk/internal/api"
	"github.com/iksnae/complaint-desk/internal/session"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var (
	version string = "dev"
	commit  string = "unknown"
	date    string = "unknown"
)

const consoleGroup = "console"

// newRootCmd builds the root command with the always-present commands and
// the tree routed from the current session.
func newRootCmd(c *console) *cobra.Command {
	root := &cobra.Command{
		Use:   "complaint-desk",
		Short: "Admin console for the complaint management backend",
		Long: `An admin console for the complaint management backend.

Which commands are available depends on who is signed in:
  • Signed out: login, forgot-password
  • Super admin: dashboard, branches, admins, logout
  • Branch admin: complaints, logout

Quick Start:
  complaint-desk login                   # Sign in
  complaint-desk whoami                  # Show the active console
  complaint-desk shell                   # Interactive session`,
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	root.SetVersionTemplate(`{{printf "%s\n" .Version}}`)
	internal.AddConfigFlags(root.PersistentFlags())

	root.AddCommand(
		newWhoamiCmd(c),
		newHealthcheckCmd(c),
		newConfigCmd(c),
	)
	if c.inShell {
		root.PersistentPreRunE = rejectConsoleFlags
	} else {
		root.AddCommand(newShellCmd(c))
	}

	mountTree(root, c, c.resolver.Route())
	return root
}

// rejectConsoleFlags fails when a line typed in the shell sets one of the
// global flags. The console they configure is already open.
func rejectConsoleFlags(cmd *cobra.Command, args []string) error {
	var set []string
	cmd.Root().PersistentFlags().VisitAll(func(f *pflag.Flag) {
		if cmd.Flags().Changed(f.Name) {
			set = append(set, "--"+f.Name)
		}
	})
	if len(set) > 0 {
		return fmt.Errorf("%s cannot be changed inside the shell; restart complaint-desk with the flag instead", strings.Join(set, ", "))
	}
	return nil
}

// mountTree attaches exactly the commands of tree to root. The loading tree
// mounts nothing.
func mountTree(root *cobra.Command, c *console, tree session.Tree) {
	var cmds []*cobra.Command
	var title string

	switch tree {
	case session.TreeUnauthenticated:
		title = "Sign-in Commands:"
		cmds = []*cobra.Command{newLoginCmd(c), newForgotPasswordCmd(c)}
	case session.TreeSuperAdmin:
		title = "Super Admin Commands:"
		cmds = []*cobra.Command{newDashboardCmd(c), newBranchesCmd(c), newAdminsCmd(c), newLogoutCmd(c)}
	case session.TreeNormalAdmin:
		title = "Branch Admin Commands:"
		cmds = []*cobra.Command{newComplaintsCmd(c), newLogoutCmd(c)}
	default:
		return
	}

	root.AddGroup(&cobra.Group{ID: consoleGroup, Title: title})
	for _, cmd := range cmds {
		cmd.GroupID = consoleGroup
		root.AddCommand(cmd)
	}
}

// run opens the console for args and executes the routed command tree
func run(ctx context.Context, args []string, opts options) error {
	fs, err := parseGlobalFlags(args)
	if err != nil {
		return err
	}

	c, err := openConsole(ctx, fs, opts)
	if err != nil {
		return err
	}
	defer func() {
		if err := c.Close(); err != nil {
			internal.LogWarn("Failed to close credential store: %v", err)
		}
	}()

	root := newRootCmd(c)
	root.SetArgs(args)
	root.SetOut(opts.stdout)
	root.SetErr(opts.stderr)
	return root.ExecuteContext(ctx)
}

// Execute runs the console with the process arguments and exits non-zero on error.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := run(ctx, os.Args[1:], options{
		stdout:   os.Stdout,
		stderr:   os.Stderr,
		prompter: internal.NewTerminalPrompter(),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if hint := errorHint(err); hint != "" {
			fmt.Fprintln(os.Stderr, hint)
		}
		stop()
		os.Exit(1)
	}
}

// errorHint suggests a next step for errors users commonly hit
func errorHint(err error) string {
	var apiErr *api.Error
	switch {
	case errors.As(err, &apiErr) && apiErr.IsUnauthorized() && !strings.HasPrefix(apiErr.Path, "/auth/"):
		return "The server rejected the stored session. Run 'complaint-desk logout' and sign in again."
	case strings.HasPrefix(err.Error(), "unknown command"):
		return "Run 'complaint-desk whoami' to see which console is active."
	default:
		return ""
	}
}

package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/iksnae/complaint-desk/internal"
	"github.com/kballard/go-shellquote"
	"github.com/spf13/cobra"
)

func newShellCmd(c *console) *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Start an interactive console session",
		Long: `Start an interactive session. Each line is run as a complaint-desk
command. The available commands follow the session, so after 'login' the
admin commands appear and after 'logout' only the sign-in commands remain.
Global flags such as --api-url, --store or -v apply to the whole session
and are rejected inside it.

Type 'exit' or 'quit', or press Ctrl-D, to leave.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runShell(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}
}

// runShell reads commands until exit or end of input. The command tree is
// rebuilt for every line so it always matches the current session.
func (c *console) runShell(ctx context.Context, stdout, stderr io.Writer) error {
	c.inShell = true
	defer func() { c.inShell = false }()

	internal.PrintInfo(stdout, "Type 'help' for commands, 'exit' to leave.")
	for {
		if ctx.Err() != nil {
			return nil
		}

		line, err := c.prompter.Line(fmt.Sprintf("complaint-desk (%s)", c.resolver.Route()))
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read command: %w", err)
		}

		line = strings.TrimSpace(line)
		switch line {
		case "":
			continue
		case "exit", "quit":
			return nil
		}

		args, err := shellquote.Split(line)
		if err != nil {
			internal.PrintError(stderr, fmt.Sprintf("could not parse %q: %v", line, err))
			continue
		}

		if err := c.execLine(ctx, args, stdout, stderr); err != nil {
			internal.PrintError(stderr, err.Error())
			if hint := errorHint(err); hint != "" {
				fmt.Fprintln(stderr, hint)
			}
		}
	}
}

func (c *console) execLine(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	root := newRootCmd(c)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	return root.ExecuteContext(ctx)
}

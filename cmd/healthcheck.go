package cmd

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/iksnae/complaint-desk/internal"
	"github.com/spf13/cobra"
)

var (
	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)
)

// keyLister is implemented by stores that can enumerate their keys
type keyLister interface {
	Keys() ([]string, error)
}

func newHealthcheckCmd(c *console) *cobra.Command {
	var detailed bool

	cmd := &cobra.Command{
		Use:   "healthcheck",
		Short: "Check that the console can run",
		Long: `Check the health of complaint-desk by verifying:
  • Data directory detection
  • Configuration
  • Credential store access
  • Session routing
  • Backend reachability

Fails when the credential store or the backend cannot be reached.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			failed := 0
			detail := func(format string, a ...interface{}) {
				if detailed {
					fmt.Fprintf(out, "   "+format+"\n", a...)
				}
			}

			fmt.Fprintln(out, sectionStyle.Render("🔍 Complaint Desk Health Check"))
			fmt.Fprintln(out)

			fmt.Fprintln(out, infoStyle.Render("Step 1: Detecting data directory..."))
			fmt.Fprintln(out, successStyle.Render("✅ Data directory detected"))
			detail("Base: %s", c.paths.BaseDir)
			fmt.Fprintln(out)

			fmt.Fprintln(out, infoStyle.Render("Step 2: Reading configuration..."))
			if c.cfg.File != "" {
				fmt.Fprintln(out, successStyle.Render("✅ Config file loaded"))
				detail("File: %s", c.cfg.File)
			} else {
				fmt.Fprintln(out, warningStyle.Render("⚠️  No config file, using defaults"))
				detail("Run 'complaint-desk config init' to create %s", c.paths.ConfigFile)
			}
			detail("API: %s", c.cfg.APIURL)
			fmt.Fprintln(out)

			fmt.Fprintln(out, infoStyle.Render("Step 3: Checking credential store..."))
			if ok := checkStore(out, c, detail); !ok {
				failed++
			}
			fmt.Fprintln(out)

			fmt.Fprintln(out, infoStyle.Render("Step 4: Resolving session..."))
			fmt.Fprintln(out, successStyle.Render(fmt.Sprintf("✅ Routed to the %s console", c.resolver.Route())))
			if err := c.resolver.LastSignOutError(); err != nil {
				fmt.Fprintln(out, warningStyle.Render("⚠️  Last sign-out left credentials behind:"), err)
			}
			fmt.Fprintln(out)

			fmt.Fprintln(out, infoStyle.Render("Step 5: Contacting backend..."))
			err := internal.ShowProgress(cmd.Context(), "Pinging "+c.client.BaseURL(), func() error {
				return c.client.Ping(cmd.Context())
			})
			if err != nil {
				fmt.Fprintln(out, errorStyle.Render("❌ Backend unreachable:"), err)
				failed++
			} else {
				fmt.Fprintln(out, successStyle.Render("✅ Backend reachable"))
			}
			detail("URL: %s", c.client.BaseURL())
			fmt.Fprintln(out)

			fmt.Fprintln(out, sectionStyle.Render("📊 Summary"))
			fmt.Fprintln(out)
			if failed > 0 {
				fmt.Fprintln(out, errorStyle.Render("❌ Health check failed"))
				return fmt.Errorf("health check failed: %d check(s) did not pass", failed)
			}
			fmt.Fprintln(out, successStyle.Render("✅ Health check passed!"))
			return nil
		},
	}

	cmd.Flags().BoolVar(&detailed, "detailed", false, "Show detailed diagnostic information")
	return cmd
}

func checkStore(out io.Writer, c *console, detail func(string, ...interface{})) bool {
	if u, ok := c.store.(unavailableStore); ok {
		fmt.Fprintln(out, errorStyle.Render("❌ Credential store unavailable:"), u.err)
		return false
	}
	if c.cfg.Ephemeral {
		fmt.Fprintln(out, warningStyle.Render("⚠️  Ephemeral mode, credentials are kept in memory"))
		return true
	}

	fmt.Fprintln(out, successStyle.Render("✅ Credential store opened"))
	detail("Database: %s", c.cfg.StorePath)
	if l, ok := c.store.(keyLister); ok {
		keys, err := l.Keys()
		if err != nil {
			fmt.Fprintln(out, warningStyle.Render("⚠️  Could not list stored keys:"), err)
			return true
		}
		detail("Stored keys: %d", len(keys))
	}
	return true
}

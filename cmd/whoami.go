package cmd

import (
	"fmt"
	"strings"

	"github.com/iksnae/complaint-desk/internal/session"
	"github.com/spf13/cobra"
)

func newWhoamiCmd(c *console) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in role and active console",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s := c.resolver.Session()
			tree := session.Route(s)
			out := cmd.OutOrStdout()

			fmt.Fprintln(out, field("Console:", tree.String()))
			if !s.Authenticated() {
				fmt.Fprintln(out, field("Status:", "signed out"))
				fmt.Fprintln(out, infoStyle.Render("Run 'complaint-desk login' to sign in."))
				return nil
			}

			fmt.Fprintln(out, field("Role:", s.RoleTag))
			fmt.Fprintln(out, field("Token:", maskToken(s.Token)))
			fmt.Fprintln(out, field("Store:", c.storeLocation()))
			fmt.Fprintln(out, field("API:", c.client.BaseURL()))
			return nil
		},
	}
}

// maskToken keeps only a short prefix of the credential
func maskToken(token string) string {
	if len(token) <= 4 {
		return strings.Repeat("*", len(token))
	}
	return token[:4] + strings.Repeat("*", 8)
}

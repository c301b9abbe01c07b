package cmd

import (
	"fmt"
	"strings"

	"github.com/iksnae/complaint-desk/internal"
	"github.com/iksnae/complaint-desk/internal/api"
	"github.com/spf13/cobra"
)

func newLoginCmd(c *console) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in to the complaint console",
		Long: `Sign in with an admin account. The returned token and role are stored
in the credential database and decide which console the next command sees.

The password is read from the terminal without echo when --password is not given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			var err error
			if strings.TrimSpace(email) == "" {
				if email, err = c.prompter.Line("Email"); err != nil {
					return fmt.Errorf("failed to read email: %w", err)
				}
			}
			if password == "" {
				if password, err = c.prompter.Password("Password"); err != nil {
					return err
				}
			}
			email = strings.TrimSpace(email)
			if email == "" || password == "" {
				return fmt.Errorf("email and password are required")
			}

			var resp *api.LoginResponse
			err = internal.ShowProgress(ctx, "Signing in", func() error {
				var loginErr error
				resp, loginErr = c.client.Login(ctx, email, password)
				return loginErr
			})
			if err != nil {
				return fmt.Errorf("login failed: %w", err)
			}

			if err := c.resolver.SignIn(ctx, resp.Token, resp.User.Role); err != nil {
				return fmt.Errorf("login succeeded but the session could not be saved: %w", err)
			}

			name := resp.User.Name
			if name == "" {
				name = email
			}
			internal.PrintSuccess(cmd.OutOrStdout(), fmt.Sprintf("Signed in as %s (%s console)", name, c.resolver.Route()))
			return nil
		},
	}

	cmd.Flags().StringVarP(&email, "email", "e", "", "Account email")
	cmd.Flags().StringVarP(&password, "password", "p", "", "Account password (prompted when omitted)")
	return cmd
}

func newForgotPasswordCmd(c *console) *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "forgot-password",
		Short: "Request a password reset link",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			var err error
			if strings.TrimSpace(email) == "" {
				if email, err = c.prompter.Line("Email"); err != nil {
					return fmt.Errorf("failed to read email: %w", err)
				}
			}
			email = strings.TrimSpace(email)
			if email == "" {
				return fmt.Errorf("email is required")
			}

			msg, err := c.client.ForgotPassword(ctx, email)
			if err != nil {
				return fmt.Errorf("failed to request password reset: %w", err)
			}
			if msg == "" {
				msg = "Password reset instructions sent to " + email
			}
			internal.PrintSuccess(cmd.OutOrStdout(), msg)
			return nil
		},
	}

	cmd.Flags().StringVarP(&email, "email", "e", "", "Account email")
	return cmd
}

func newLogoutCmd(c *console) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and forget the stored credentials",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c.resolver.SignOut(cmd.Context())
			if err := c.resolver.LastSignOutError(); err != nil {
				internal.PrintWarning(cmd.ErrOrStderr(), fmt.Sprintf("Stored credentials could not be fully removed: %v", err))
			}
			internal.PrintSuccess(cmd.OutOrStdout(), "Signed out")
			return nil
		},
	}
}

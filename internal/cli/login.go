package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

func (a *app) newLoginCmd() *cobra.Command {
	var email, password string
	var register bool

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and print a session token",
		Long: `Sign in with email and password and print the session token on stdout.

Examples:
  collector login --email me@example.com --password ...
  export COLLECTOR_TOKEN=$(collector login --email me@example.com)   # password from COLLECTOR_PASSWORD
  collector login --register --email new@example.com --password ...`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				password = os.Getenv("COLLECTOR_PASSWORD")
			}
			if strings.TrimSpace(email) == "" || password == "" {
				return fmt.Errorf("--email and --password (or COLLECTOR_PASSWORD) are required")
			}
			c, err := a.client()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			if register {
				if _, err := c.Register(ctx, email, password); err != nil {
					return fmt.Errorf("register: %w", err)
				}
			}
			session, err := c.Login(ctx, email, password)
			if err != nil {
				return fmt.Errorf("login: %w", err)
			}
			a.out.Plain("%s", session.Token)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "Account email")
	cmd.Flags().StringVar(&password, "password", "", "Account password")
	cmd.Flags().BoolVar(&register, "register", false, "Create the account first")
	return cmd
}

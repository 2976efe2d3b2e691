// Package auth implements the spreadsheet authorization commands.
package auth

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agentstation/sheetlink/cmd/application"
	"github.com/agentstation/sheetlink/internal/auth/google"
	"github.com/agentstation/sheetlink/internal/cmd/output"
	"github.com/agentstation/sheetlink/pkg/errors"
)

// NewCommand creates the auth command.
func NewCommand(app application.Application) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "auth",
		GroupID: "management",
		Short:   "Manage Google Sheets authorization",
		Long: `Manage the Google credential used for spreadsheet access.

OAuth client secrets need a one-time browser consent ("auth login"); the
resulting token is stored and refreshed automatically. Service account
keys need no login.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
	cmd.AddCommand(newStatusCommand(app))
	cmd.AddCommand(newLoginCommand(app))
	return cmd
}

func authorizer(app application.Application) (application.Authorizer, error) {
	a := app.Authorizer()
	if a == nil {
		return nil, errors.NewConfigError("auth", "spreadsheet authorization not configured", nil)
	}
	return a, nil
}

func newStatusCommand(app application.Application) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the spreadsheet credential state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := authorizer(app)
			if err != nil {
				return err
			}
			st := a.Check()
			format := output.DetectFormat(app.OutputFormat())
			if err := output.Emit(cmd.OutOrStdout(), format, output.AuthStatus{Status: st}, st); err != nil {
				return err
			}
			if st.State != google.StateConfigured {
				fmt.Fprintln(cmd.ErrOrStderr(), "Hint: run 'sheetlink auth login' to authorize spreadsheet access")
			}
			return nil
		},
	}
}

func newLoginCommand(app application.Application) *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "Authorize spreadsheet access in a browser",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := authorizer(app)
			if err != nil {
				return err
			}
			tok, err := a.Login(cmd.Context(), func(url string) {
				fmt.Fprintf(cmd.ErrOrStderr(), "Open this URL in your browser to authorize:\n\n  %s\n\n", url)
			})
			if err != nil {
				return err
			}
			msg := "Authorization saved"
			if tok != nil && !tok.Expiry.IsZero() {
				msg += fmt.Sprintf("; access token valid until %s", tok.Expiry.Local().Format("2006-01-02 15:04"))
			}
			fmt.Fprintln(cmd.OutOrStdout(), msg)
			return nil
		},
	}
}

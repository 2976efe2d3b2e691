// Package products implements the products command group.
package products

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/agentstation/sheetlink/cmd/application"
	"github.com/agentstation/sheetlink/internal/cmd/output"
	"github.com/agentstation/sheetlink/pkg/reconciler"
)

// NewCommand creates the products command.
func NewCommand(app application.Application) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "products",
		Aliases: []string{"product"},
		GroupID: "core",
		Short:   "Show and edit inventory products",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
	cmd.AddCommand(newListCommand(app))
	cmd.AddCommand(newUpdateCommand(app))
	return cmd
}

func newListCommand(app application.Application) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List products with their configured attributes",
		Example: `  sheetlink products list
  sheetlink products list -o wide
  sheetlink products list -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rec, err := app.Reconciler()
			if err != nil {
				return err
			}
			snap, err := rec.Load(cmd.Context())
			if err != nil {
				return err
			}
			warnUnmatched(cmd, snap)

			format := output.DetectFormat(app.OutputFormat())
			return output.Emit(cmd.OutOrStdout(), format, output.Products{Config: rec.Config(), Snapshot: snap}, snap)
		},
	}
}

// warnUnmatched reports listed identifiers that came back without details.
func warnUnmatched(cmd *cobra.Command, snap *reconciler.Snapshot) {
	if len(snap.Unmatched) == 0 {
		return
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Warning: no details returned for %d product(s): %s\n",
		len(snap.Unmatched), strings.Join(snap.Unmatched, ", "))
}

// Package inventories implements the inventories command.
package inventories

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/sheetlink/cmd/application"
	"github.com/agentstation/sheetlink/internal/cmd/output"
)

// NewCommand creates the inventories command.
func NewCommand(app application.Application) *cobra.Command {
	return &cobra.Command{
		Use:     "inventories",
		Aliases: []string{"inv"},
		GroupID: "management",
		Short:   "List inventories visible to the API token",
		Long: `List the inventories the configured API token can see. Use the ID column
to pick a value for inventory_id.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			lister, err := app.Inventories()
			if err != nil {
				return err
			}
			list, err := lister.ListInventories(cmd.Context())
			if err != nil {
				return err
			}
			format := output.DetectFormat(app.OutputFormat())
			return output.Emit(cmd.OutOrStdout(), format, output.Inventories(list), list)
		},
	}
}

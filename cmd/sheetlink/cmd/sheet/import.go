package sheet

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agentstation/sheetlink/cmd/application"
	"github.com/agentstation/sheetlink/internal/cmd/output"
)

func newImportCommand(app application.Application, f *flags) *cobra.Command {
	var productID string

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Copy a product's target value from the worksheet into the inventory",
		Long: `Import finds the product's row by ID, takes the value under the target
column and writes it to the inventory. An Inventory ID cell on that row
overrides the configured inventory.`,
		Example: `  sheetlink sheet import
  sheetlink sheet import --product 500 -w Products`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ref, err := f.ref(app)
			if err != nil {
				return err
			}
			rec, err := app.Reconciler()
			if err != nil {
				return err
			}
			if productID == "" {
				productID = rec.Config().TargetProductID
			}
			result, err := rec.Import(cmd.Context(), ref, productID)
			if err != nil {
				return err
			}

			format := output.DetectFormat(app.OutputFormat())
			if format == output.FormatJSON || format == output.FormatYAML {
				return output.Write(cmd.OutOrStdout(), format, result)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %s from %s: %s\n", productID, ref, result.String())
			return nil
		},
	}
	cmd.Flags().StringVarP(&productID, "product", "p", "", "product ID (default: configured target product)")
	return cmd
}

// Package preview implements the preview command.
package preview

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/agentstation/sheetlink/cmd/application"
	"github.com/agentstation/sheetlink/internal/cmd/output"
	"github.com/agentstation/sheetlink/internal/upload"
	"github.com/agentstation/sheetlink/pkg/errors"
)

// NewCommand creates the preview command.
func NewCommand(app application.Application) *cobra.Command {
	return &cobra.Command{
		Use:     "preview <file>",
		GroupID: "core",
		Short:   "Show the contents of a CSV or XLSX file",
		Long: `Preview parses a local .csv or .xlsx file and prints it as a table.
The first row is taken as the header. Nothing is written anywhere.`,
		Example: `  sheetlink preview products.csv
  sheetlink preview export.xlsx -o json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			f, err := os.Open(path) //nolint:gosec // user-supplied path is the point
			if err != nil {
				return errors.WrapIO("open", path, err)
			}
			defer f.Close() //nolint:errcheck // read-only

			table, err := upload.Parse(filepath.Base(path), f)
			if err != nil {
				return err
			}

			format := output.DetectFormat(app.OutputFormat())
			if err := output.Emit(cmd.OutOrStdout(), format, output.Sheet{Table: table}, table); err != nil {
				return err
			}
			if format == output.FormatTable || format == output.FormatWide {
				fmt.Fprintf(cmd.ErrOrStderr(), "%d row(s), %d column(s)\n", table.Len(), len(table.Headers))
			}
			return nil
		},
	}
}

// Package sheet implements the spreadsheet commands: show, export and import.
package sheet

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/sheetlink/cmd/application"
	"github.com/agentstation/sheetlink/internal/cmd/output"
	"github.com/agentstation/sheetlink/pkg/records"
)

// flags shared by every sheet subcommand.
type flags struct {
	spreadsheet string
	worksheet   string
}

func (f *flags) ref(app application.Application) (records.SheetRef, error) {
	return app.SheetRef(f.spreadsheet, f.worksheet)
}

// NewCommand creates the sheet command.
func NewCommand(app application.Application) *cobra.Command {
	f := &flags{}
	cmd := &cobra.Command{
		Use:     "sheet",
		Aliases: []string{"sheets"},
		GroupID: "core",
		Short:   "Exchange product data with a Google Sheets worksheet",
		Long: `Read, export to, and import from a Google Sheets worksheet.

The spreadsheet may be given as a full URL or a bare key. The worksheet is a
tab title or a zero-based index; both default to the configured values.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
	cmd.PersistentFlags().StringVarP(&f.spreadsheet, "spreadsheet", "s", "", "spreadsheet URL or key (default: configured spreadsheet)")
	cmd.PersistentFlags().StringVarP(&f.worksheet, "worksheet", "w", "", "worksheet title or zero-based index (default: configured worksheet)")

	cmd.AddCommand(newShowCommand(app, f))
	cmd.AddCommand(newExportCommand(app, f))
	cmd.AddCommand(newImportCommand(app, f))
	return cmd
}

func newShowCommand(app application.Application, f *flags) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the worksheet contents",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ref, err := f.ref(app)
			if err != nil {
				return err
			}
			rec, err := app.Reconciler()
			if err != nil {
				return err
			}
			table, err := rec.LoadSheet(cmd.Context(), ref)
			if err != nil {
				return err
			}
			format := output.DetectFormat(app.OutputFormat())
			return output.Emit(cmd.OutOrStdout(), format, output.Sheet{Table: table}, table)
		},
	}
}

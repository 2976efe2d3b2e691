package sheet

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agentstation/sheetlink/cmd/application"
	"github.com/agentstation/sheetlink/internal/cmd/output"
	"github.com/agentstation/sheetlink/pkg/reconciler"
	"github.com/agentstation/sheetlink/pkg/records"
)

// Report is the machine-readable summary of an export.
type Report struct {
	Sheet    string    `json:"sheet" yaml:"sheet"`
	Updated  int       `json:"updated" yaml:"updated"`
	Appended int       `json:"appended" yaml:"appended"`
	Failures []Failure `json:"failures,omitempty" yaml:"failures,omitempty"`
}

// Failure is one row that could not be written.
type Failure struct {
	ID    string `json:"id" yaml:"id"`
	Error string `json:"error" yaml:"error"`
}

func newReport(result *reconciler.ExportResult) Report {
	r := Report{
		Sheet:    result.Sheet.String(),
		Updated:  result.Count(records.ActionUpdated),
		Appended: result.Count(records.ActionAppended),
	}
	for _, o := range result.Failed() {
		r.Failures = append(r.Failures, Failure{ID: o.ID, Error: o.Error()})
	}
	return r
}

func newExportCommand(app application.Application, f *flags) *cobra.Command {
	return &cobra.Command{
		Use:   "export",
		Short: "Write every product row into the worksheet",
		Long: `Export loads the inventory and upserts one row per product into the
worksheet, matched on the ID column: existing rows are rewritten in place,
new products are appended. A failing row does not stop the others.`,
		Example: `  sheetlink sheet export
  sheetlink sheet export -s https://docs.google.com/spreadsheets/d/<key>/edit -w Products`,
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
			result, err := rec.Export(cmd.Context(), ref, nil)
			if err != nil {
				return err
			}

			report := newReport(result)
			w := cmd.OutOrStdout()
			format := output.DetectFormat(app.OutputFormat())
			switch format {
			case output.FormatJSON, output.FormatYAML:
				if err := output.Write(w, format, report); err != nil {
					return err
				}
			default:
				fmt.Fprintf(w, "Exported to %s: %d updated, %d appended, %d failed\n",
					report.Sheet, report.Updated, report.Appended, len(report.Failures))
				if len(report.Failures) > 0 || format == output.FormatWide {
					if err := output.Write(w, format, output.Export{Result: result}); err != nil {
						return err
					}
				}
			}

			if n := len(report.Failures); n > 0 {
				return fmt.Errorf("%d of %d row(s) failed to export", n, len(result.Outcomes))
			}
			return nil
		},
	}
}

package products

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/agentstation/sheetlink/cmd/application"
	"github.com/agentstation/sheetlink/internal/cmd/output"
	"github.com/agentstation/sheetlink/pkg/errors"
	"github.com/agentstation/sheetlink/pkg/reconciler"
	"github.com/agentstation/sheetlink/pkg/records"
)

// UpdateResult is the machine-readable outcome of an update.
type UpdateResult struct {
	ProductID   string `json:"product_id" yaml:"product_id"`
	Field       string `json:"field" yaml:"field"`
	Status      string `json:"status" yaml:"status"`
	Response    string `json:"response" yaml:"response"`
	Value       string `json:"value" yaml:"value"`
	ReloadError string `json:"reload_error,omitempty" yaml:"reload_error,omitempty"`
}

func newUpdateCommand(app application.Application) *cobra.Command {
	var productID string

	cmd := &cobra.Command{
		Use:   "update [value]",
		Short: "Set the target attribute of a product",
		Long: `Update writes one value to the configured target attribute of a product
(the configured target product unless --product is given), then reloads the
catalog and prints the value read back. Without an argument the new value
is read from standard input.`,
		Example: `  sheetlink products update "Large"
  sheetlink products update --product 500 "Small"
  echo "Large" | sheetlink products update`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rec, err := app.Reconciler()
			if err != nil {
				return err
			}
			cfg := rec.Config()
			if productID == "" {
				productID = cfg.TargetProductID
			}

			var value string
			if len(args) == 1 {
				value = args[0]
			} else {
				if value, err = prompt(cmd, rec, productID); err != nil {
					return err
				}
			}

			result, snap, err := rec.Update(cmd.Context(), productID, value)
			if result == nil {
				if err == nil {
					err = errors.New("update returned no result")
				}
				return fmt.Errorf("update failed: %w", err)
			}
			return report(cmd, app, cfg, productID, result, snap, err)
		},
	}

	cmd.Flags().StringVarP(&productID, "product", "p", "", "product ID (default: configured target product)")
	return cmd
}

// prompt shows the current value and reads one line from stdin.
func prompt(cmd *cobra.Command, rec application.Reconciler, productID string) (string, error) {
	cfg := rec.Config()
	current := "(unknown)"
	if snap, err := rec.Load(cmd.Context()); err == nil {
		if v, ok := snap.Value(productID, cfg.TargetField); ok {
			current = v
		}
	} else {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: could not load current value: %v\n", err)
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "Product %s %s is currently %q\nNew value: ", productID, cfg.TargetLabel(), current)
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", errors.WrapIO("read", "stdin", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func report(cmd *cobra.Command, app application.Application, cfg reconciler.Config, productID string, result *records.WriteResult, snap *reconciler.Snapshot, reloadErr error) error {
	out := UpdateResult{
		ProductID: productID,
		Field:     cfg.TargetField,
		Status:    result.Status,
		Response:  result.String(),
	}
	if snap != nil {
		out.Value, _ = snap.Value(productID, cfg.TargetField)
	}
	if reloadErr != nil {
		out.ReloadError = reloadErr.Error()
	}

	format := output.DetectFormat(app.OutputFormat())
	if format == output.FormatJSON || format == output.FormatYAML {
		if err := output.Write(cmd.OutOrStdout(), format, out); err != nil {
			return err
		}
		return reloadErr
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "Update succeeded: %s\n", out.Response)
	if reloadErr != nil {
		return fmt.Errorf("reload after update failed: %w", reloadErr)
	}
	fmt.Fprintf(w, "%s of %s is now %q\n", cfg.TargetLabel(), productID, out.Value)
	return nil
}

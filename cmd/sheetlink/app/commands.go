package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agentstation/sheetlink/cmd/sheetlink/cmd/auth"
	"github.com/agentstation/sheetlink/cmd/sheetlink/cmd/inventories"
	"github.com/agentstation/sheetlink/cmd/sheetlink/cmd/preview"
	"github.com/agentstation/sheetlink/cmd/sheetlink/cmd/products"
	"github.com/agentstation/sheetlink/cmd/sheetlink/cmd/serve"
	"github.com/agentstation/sheetlink/cmd/sheetlink/cmd/sheet"
)

// registerCommands registers all subcommands with the root command.
func (a *App) registerCommands(rootCmd *cobra.Command) {
	// Core commands
	rootCmd.AddCommand(products.NewCommand(a))
	rootCmd.AddCommand(sheet.NewCommand(a))
	rootCmd.AddCommand(preview.NewCommand(a))
	rootCmd.AddCommand(serve.NewCommand(a))

	// Management commands
	rootCmd.AddCommand(inventories.NewCommand(a))
	rootCmd.AddCommand(auth.NewCommand(a))

	rootCmd.AddCommand(a.newVersionCommand())
}

func (a *App) newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, _ []string) {
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "sheetlink %s\n", a.version)
			if a.config.Verbose {
				fmt.Fprintf(w, "  commit:   %s\n", a.commit)
				fmt.Fprintf(w, "  built:    %s\n", a.date)
				fmt.Fprintf(w, "  built by: %s\n", a.builtBy)
			}
		},
	}
}

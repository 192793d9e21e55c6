package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newTranslateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "t KEY...",
		Short: "Print the translation of each dotted key in the current language",
		Example: `  mdprinter t buttons.print
  mdprinter t app.title messages.ready`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			if err := app.Store.Initialize(cmd.Context()); err != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), "warning:", err)
			}
			for _, key := range args {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), app.Store.Translate(key))
			}
			return nil
		},
	}
}

package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/erkantaylan/md-printer/internal/render"
)

const defaultPreviewWidth = 80

func newPreviewCmd() *cobra.Command {
	var width int
	var style string
	cmd := &cobra.Command{
		Use:   "preview FILE",
		Short: "Show a Markdown or HTML file in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			if err := app.Store.Initialize(cmd.Context()); err != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), "warning:", err)
			}

			doc, err := app.Docs.Load(args[0])
			if err != nil {
				return err
			}
			if strings.TrimSpace(doc.Markdown) == "" {
				return &localizedError{msg: app.Store.Translate("messages.noPreviewContent"), err: render.ErrEmptyDocument}
			}

			if style == "" {
				style = app.Cfg.GetString("render.terminal_style")
			}
			if width <= 0 {
				width = terminalWidth()
			}
			out, err := render.Terminal(doc.Markdown, width, style)
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), out)
			return err
		},
	}
	cmd.Flags().IntVarP(&width, "width", "w", 0, "wrap width (defaults to the terminal width)")
	cmd.Flags().StringVar(&style, "style", "", "glamour style: auto, dark, light, notty, ... (overrides render.terminal_style)")
	return cmd
}

func terminalWidth() int {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return defaultPreviewWidth
	}
	w, _, err := term.GetSize(fd)
	if err != nil || w <= 0 {
		return defaultPreviewWidth
	}
	return w
}

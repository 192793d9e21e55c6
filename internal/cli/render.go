package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/erkantaylan/md-printer/internal/render"
)

// createOutput opens the -o destination.
var createOutput = func(name string) (io.WriteCloser, error) { return os.Create(name) }

func newRenderCmd() *cobra.Command {
	var out string
	var printable bool
	var autoPrint bool
	var title string
	cmd := &cobra.Command{
		Use:   "render FILE",
		Short: "Render a Markdown or HTML file to HTML",
		Long: `Render FILE to an HTML fragment, or with --print to a standalone page
styled for printing. The page language follows the selected UI language.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (retErr error) {
			app := getApp(cmd)
			if err := app.Store.Initialize(cmd.Context()); err != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), "warning:", err)
			}

			html, err := renderDocument(app, args[0])
			if errors.Is(err, render.ErrEmptyDocument) {
				return &localizedError{msg: app.Store.Translate("messages.noPrintContent"), err: err}
			}
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if out != "" && out != "-" {
				f, err := createOutput(out)
				if err != nil {
					return err
				}
				defer func() {
					if err := f.Close(); err != nil && retErr == nil {
						retErr = err
					}
				}()
				w = f
			}

			if !printable {
				_, err = io.WriteString(w, html)
				return err
			}
			if title == "" {
				title = render.Title(html)
			}
			if title == "" {
				title = filepath.Base(args[0])
			}
			return render.WriteDocument(w, html, render.Page{
				Title:     title,
				Lang:      string(app.Store.CurrentLanguage()),
				AutoPrint: autoPrint,
			})
		},
	}
	cmd.Flags().StringVarP(&out, "output", "o", "", "write to this file instead of stdout")
	cmd.Flags().BoolVar(&printable, "print", false, "wrap the output in a standalone printable page")
	cmd.Flags().BoolVar(&autoPrint, "autoprint", true, "open the print dialog when the page loads (with --print)")
	cmd.Flags().StringVar(&title, "title", "", "page title (with --print); defaults to the first heading")
	return cmd
}

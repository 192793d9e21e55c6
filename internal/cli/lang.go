package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/erkantaylan/md-printer/internal/i18n"
)

func newLangCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lang",
		Short: "Show or change the UI language",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			if err := app.Store.Initialize(cmd.Context()); err != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), "warning:", err)
			}
			cur := app.Store.CurrentLanguage()
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\n", cur, app.Store.Translate("language."+string(cur)))
			return nil
		},
	}
	cmd.AddCommand(newLangSetCmd())
	cmd.AddCommand(newLangListCmd())
	return cmd
}

func newLangSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set CODE",
		Short: "Select and save the UI language",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			lang := i18n.Language(strings.ToLower(strings.TrimSpace(args[0])))

			err := app.Store.SetLanguage(cmd.Context(), lang)
			if errors.Is(err, i18n.ErrUnsupportedLanguage) {
				return fmt.Errorf("%w (supported: %s)", err, joinLanguages(app.Store.Supported()))
			}
			var loadErr *i18n.LoadError
			if errors.As(err, &loadErr) {
				// The choice is saved even though its strings are unavailable.
				fmt.Fprintln(cmd.ErrOrStderr(), "warning:", err)
			} else if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n",
				app.Store.Translate("messages.languageChanged"),
				app.Store.Translate("language."+string(lang)))
			return nil
		},
	}
}

func newLangListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List supported languages",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			if err := app.Store.Initialize(cmd.Context()); err != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), "warning:", err)
			}
			cur := app.Store.CurrentLanguage()
			for _, l := range app.Store.Supported() {
				marker := " "
				if l == cur {
					marker = "*"
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s %-3s %s\n", marker, l, app.Store.Translate("language."+string(l)))
			}
			return nil
		},
	}
}

func joinLanguages(langs []i18n.Language) string {
	parts := make([]string, len(langs))
	for i, l := range langs {
		parts[i] = string(l)
	}
	return strings.Join(parts, ", ")
}

package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/erkantaylan/md-printer/internal/config"
	"github.com/erkantaylan/md-printer/internal/wire"
)

type ctxKey string

const appKey ctxKey = "app"

// Execute builds the root command and runs it.
func Execute() error {
	cmd, sess := newRootCmd()
	defer sess.close()
	return cmd.Execute()
}

// session owns the App built for one invocation. Cobra skips post-run hooks
// when a command fails, so Execute closes it.
type session struct {
	app *wire.App
}

func (s *session) close() error {
	if s.app == nil {
		return nil
	}
	err := s.app.Close()
	s.app = nil
	return err
}

// newRootCmd constructs the Cobra root command and wires dependencies.
func newRootCmd() (*cobra.Command, *session) {
	var cfgPath string
	var locale string
	sess := &session{}

	cmd := &cobra.Command{
		Use:           "mdprinter",
		Short:         "Preview and print Markdown documents",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !requiresApp(cmd) || sess.app != nil {
				return nil
			}
			v := viper.New()
			if cfgPath != "" {
				v.SetConfigFile(cfgPath)
			}
			if err := config.Load(cmd.Context(), v); err != nil {
				return err
			}
			if locale != "" {
				v.Set("i18n.locale_hint", locale)
			}
			if err := config.CheckConfigValidity(v); err != nil {
				return err
			}
			a, err := wire.BuildApp(cmd.Context(), v)
			if err != nil {
				return err
			}
			sess.app = a
			cmd.SetContext(context.WithValue(cmd.Context(), appKey, a))
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&cfgPath, "config", "", "path to config file (toml|yaml|json)")
	cmd.PersistentFlags().StringVar(&locale, "locale", "", "locale hint: env, browser or a tag such as en-US (overrides i18n.locale_hint)")

	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newRenderCmd())
	cmd.AddCommand(newPreviewCmd())
	cmd.AddCommand(newLangCmd())
	cmd.AddCommand(newTranslateCmd())
	cmd.AddCommand(newConfigCmd())

	cmd.Run = func(cmd *cobra.Command, args []string) { _ = cmd.Help() }

	return cmd, sess
}

func getApp(cmd *cobra.Command) *wire.App {
	v := cmd.Context().Value(appKey)
	if v == nil {
		fmt.Fprintln(os.Stderr, "internal error: app not initialized")
		os.Exit(1)
	}
	return v.(*wire.App)
}

// requiresApp reports whether cmd needs configuration and storage. Help,
// completion and config commands run without them.
func requiresApp(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		switch c.Name() {
		case "help", "completion", "config":
			return false
		}
	}
	return cmd.Parent() != nil
}

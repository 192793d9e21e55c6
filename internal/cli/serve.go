package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/erkantaylan/md-printer/internal/render"
	"github.com/erkantaylan/md-printer/internal/server"
	"github.com/erkantaylan/md-printer/internal/watch"
	"github.com/erkantaylan/md-printer/internal/wire"
)

func newServeCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve [FILE]",
		Short: "Start the browser UI, live-reloading FILE when given",
		Example: `  mdprinter serve
  mdprinter serve README.md
  mdprinter serve --addr :8080 docs/guide.md`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			if addr == "" {
				addr = app.Cfg.GetString("http_addr")
			}
			file := ""
			if len(args) == 1 {
				file = args[0]
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, cmd.OutOrStdout(), app, addr, file)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides http_addr)")
	return cmd
}

func runServe(ctx context.Context, out io.Writer, app *wire.App, addr, file string) error {
	hub := server.NewHub()
	go hub.Run()
	defer hub.Stop()

	// In browser mode the first request's Accept-Language picks the language.
	if !app.BrowserHint {
		if err := app.Store.Initialize(ctx); err != nil {
			log.Printf("serve: %v", err)
		}
	}

	w, err := watch.New(time.Duration(app.Cfg.GetInt("watch.debounce_ms")) * time.Millisecond)
	if err != nil {
		return fmt.Errorf("start watcher: %w", err)
	}
	defer w.Close()

	name := ""
	if file != "" {
		absPath, err := filepath.Abs(file)
		if err != nil {
			return fmt.Errorf("resolve path: %w", err)
		}
		if _, err := os.Stat(absPath); err != nil {
			return fmt.Errorf("file not found: %w", err)
		}
		name = filepath.Base(absPath)

		update := func() error {
			html, err := renderDocument(app, absPath)
			if err != nil && !errors.Is(err, render.ErrEmptyDocument) {
				hub.SetError(err.Error())
				return err
			}
			hub.SetContent(name, html)
			return nil
		}
		if err := update(); err != nil {
			log.Printf("serve: initial render failed: %v", err)
		}
		if err := w.Watch(absPath, func() {
			if update() == nil {
				log.Printf("watch: %s: %s", app.Store.Translate("watch.updated"), name)
			}
		}); err != nil {
			return fmt.Errorf("watch %s: %w", absPath, err)
		}
	}

	if app.LocalesDir != "" {
		if err := w.Watch(app.LocalesDir, func() {
			if err := app.Store.Reload(ctx); err != nil {
				log.Printf("watch: reload translations: %v", err)
				return
			}
			log.Printf("watch: translations reloaded from %s", app.LocalesDir)
		}); err != nil {
			return fmt.Errorf("watch %s: %w", app.LocalesDir, err)
		}
	}

	srv, err := server.New(hub, app.Store, app.Renderer, app.Docs, server.Options{
		Addr:        addr,
		BrowserHint: app.BrowserHint,
	})
	if err != nil {
		return err
	}

	go func() {
		<-ctx.Done()
		fmt.Fprintln(out, "\nShutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("serve: shutdown: %v", err)
		}
	}()

	fmt.Fprintf(out, "\n  %s\n", app.Store.Translate("app.title"))
	if name != "" {
		fmt.Fprintf(out, "  %s: %s\n", app.Store.Translate("watch.watching"), name)
	}
	fmt.Fprintf(out, "  http://%s\n\n", displayAddr(addr))

	return srv.Start()
}

// renderDocument loads path (Markdown or HTML) and renders it to HTML.
func renderDocument(app *wire.App, path string) (string, error) {
	doc, err := app.Docs.Load(path)
	if err != nil {
		return "", err
	}
	return app.Renderer.Render([]byte(doc.Markdown))
}

func displayAddr(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		return "localhost" + addr
	}
	return addr
}

package wire

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/erkantaylan/md-printer/internal/config"
	"github.com/erkantaylan/md-printer/internal/document"
	"github.com/erkantaylan/md-printer/internal/i18n"
	"github.com/erkantaylan/md-printer/internal/prefs"
	"github.com/erkantaylan/md-printer/internal/render"
)

// Locale hint modes accepted by i18n.locale_hint. Any other value is used as
// a fixed locale tag.
const (
	HintEnv     = "env"
	HintBrowser = "browser"
)

// App aggregates the major services for easy injection.
type App struct {
	Cfg      *viper.Viper
	Prefs    prefs.Store
	Store    *i18n.Store
	Renderer *render.Renderer
	Docs     *document.Loader

	// LocalesDir is set when tables are read from disk and can be watched.
	LocalesDir string
	// BrowserHint defers language detection to the first HTTP request.
	BrowserHint bool
}

// BuildApp wires dependencies with the provided config.
func BuildApp(ctx context.Context, v *viper.Viper) (*App, error) {
	p, err := prefs.Open(ctx, v.GetString("prefs.backend"), config.ResolveDataDir(v))
	if err != nil {
		return nil, fmt.Errorf("open preferences: %w", err)
	}

	loader, localesDir, err := newLoader(v)
	if err != nil {
		_ = p.Close()
		return nil, err
	}

	hintMode := strings.TrimSpace(v.GetString("i18n.locale_hint"))
	store, err := i18n.NewStore(i18n.Options{
		Loader:      loader,
		Preferences: p,
		Hint:        NewHint(hintMode),
		Supported:   i18n.ParseLanguages(v.GetStringSlice("i18n.supported")),
		Default:     i18n.Language(strings.ToLower(strings.TrimSpace(v.GetString("i18n.default_language")))),
	})
	if err != nil {
		_ = p.Close()
		return nil, err
	}

	renderer := render.NewRenderer(render.Options{
		HighlightStyle: v.GetString("render.highlight_style"),
		HardWraps:      v.GetBool("render.hard_wraps"),
		UnsafeHTML:     v.GetBool("render.unsafe_html"),
	})

	return &App{
		Cfg:         v,
		Prefs:       p,
		Store:       store,
		Renderer:    renderer,
		Docs:        document.NewLoader(),
		LocalesDir:  localesDir,
		BrowserHint: strings.EqualFold(hintMode, HintBrowser),
	}, nil
}

// Close releases the preference backend.
func (a *App) Close() error {
	if a == nil || a.Prefs == nil {
		return nil
	}
	return a.Prefs.Close()
}

// newLoader picks the table source: locales_url, then locales_dir, then the
// tables built into the binary.
func newLoader(v *viper.Viper) (i18n.Loader, string, error) {
	format, err := i18n.ParseFormat(v.GetString("i18n.format"))
	if err != nil {
		return nil, "", err
	}
	if u := strings.TrimSpace(v.GetString("i18n.locales_url")); u != "" {
		client := &http.Client{Timeout: 10 * time.Second}
		return i18n.NewHTTPLoader(client, u, format), "", nil
	}
	if dir := strings.TrimSpace(v.GetString("i18n.locales_dir")); dir != "" {
		info, err := os.Stat(dir)
		if err != nil {
			return nil, "", fmt.Errorf("locales_dir: %w", err)
		}
		if !info.IsDir() {
			return nil, "", fmt.Errorf("locales_dir: %s is not a directory", dir)
		}
		return i18n.NewFSLoader(os.DirFS(dir), ".", format), dir, nil
	}
	return i18n.EmbeddedLoader(), "", nil
}

// NewHint maps an i18n.locale_hint value to a hint source. Browser mode reads
// the hint a request attached to the context and falls back to the
// environment outside of requests.
func NewHint(mode string) i18n.HintSource {
	switch strings.ToLower(mode) {
	case "", HintEnv:
		return i18n.EnvHint()
	case HintBrowser:
		return i18n.ContextHint(i18n.EnvHint())
	default:
		return i18n.StaticHint(mode)
	}
}

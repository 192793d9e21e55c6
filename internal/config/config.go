package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const appName = "mdprinter"

type ConfigOption struct {
	Key     string
	Default any
	Comment string
}

// GetConfigOptions returns the configuration keys, their defaults and meanings.
func GetConfigOptions() []ConfigOption {
	return []ConfigOption{
		{Key: "http_addr", Default: ":3000", Comment: "Listen address for the preview server"},
		{Key: "data_dir", Default: defaultDataDir(), Comment: "Directory for local state (saved language preference)"},

		{Key: "i18n.default_language", Default: "ko", Comment: "Language used when no preference or locale matches"},
		{Key: "i18n.supported", Default: []string{"ko", "en", "ja", "zh"}, Comment: "Selectable UI languages"},
		{Key: "i18n.locales_dir", Default: "", Comment: "Directory with <lang>.<format> tables; empty uses the built-in tables"},
		{Key: "i18n.locales_url", Default: "", Comment: "Base URL serving <lang>.<format> tables; overrides locales_dir"},
		{Key: "i18n.format", Default: "json", Comment: "Translation table format: json or toml"},
		{Key: "i18n.locale_hint", Default: "env", Comment: "Locale hint source: env, browser, or a fixed tag such as en-US"},

		{Key: "prefs.backend", Default: "file", Comment: "Preference storage: file, sqlite or memory"},

		{Key: "render.highlight_style", Default: "github", Comment: "Code highlighting style; empty disables highlighting"},
		{Key: "render.hard_wraps", Default: true, Comment: "Render single newlines as line breaks"},
		{Key: "render.unsafe_html", Default: true, Comment: "Pass raw HTML in Markdown through to the output"},
		{Key: "render.terminal_style", Default: "auto", Comment: "glamour style for the preview command"},

		{Key: "watch.debounce_ms", Default: 100, Comment: "Delay before reacting to file changes"},
	}
}

func applyDefaults(v *viper.Viper) {
	for _, o := range GetConfigOptions() {
		v.SetDefault(o.Key, o.Default)
	}
}

// Load resolves configuration with precedence: defaults < file < .env < env.
func Load(ctx context.Context, v *viper.Viper) error {
	if v.ConfigFileUsed() == "" {
		v.SetConfigName("config")
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			v.AddConfigPath(filepath.Join(xdg, appName))
		}
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", appName))
		}
		v.AddConfigPath(".")
	}

	applyDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("read config: %w", err)
		}
	}

	// .env is optional; real environment variables win over it.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}

	// Environment variables: MDPRINTER_*
	v.SetEnvPrefix(appName)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if strings.TrimSpace(v.GetString("data_dir")) == "" {
		v.Set("data_dir", defaultDataDir())
	}
	// Allow comma-separated env override for i18n.supported
	if s, ok := os.LookupEnv("MDPRINTER_I18N_SUPPORTED"); ok && strings.TrimSpace(s) != "" {
		v.Set("i18n.supported", splitList(s))
	}
	return nil
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// defaultDataDir resolves $XDG_DATA_HOME/mdprinter or ~/.local/share/mdprinter
func defaultDataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, appName)
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", appName)
}

// DefaultConfigPath resolves the standard config.toml location.
func DefaultConfigPath() string {
	xdg := os.Getenv("XDG_CONFIG_HOME")
	if xdg == "" {
		home, _ := os.UserHomeDir()
		xdg = filepath.Join(home, ".config")
	}
	return filepath.Join(xdg, appName, "config.toml")
}

// ResolveDataDir returns data_dir with a leading ~ expanded.
func ResolveDataDir(v *viper.Viper) string {
	dir := v.GetString("data_dir")
	if dir == "" {
		dir = defaultDataDir()
	}
	if strings.HasPrefix(dir, "~") {
		if home, err := os.UserHomeDir(); err == nil {
			dir = filepath.Join(home, dir[1:])
		}
	}
	return dir
}

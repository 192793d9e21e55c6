package config

import (
	"errors"
	"net/url"
	"slices"
	"strings"

	"github.com/spf13/viper"
)

// CheckConfigValidity reports every problem found in v as one error.
func CheckConfigValidity(v *viper.Viper) error {
	var problems []string

	if strings.TrimSpace(v.GetString("http_addr")) == "" {
		problems = append(problems, "http_addr is required")
	}
	if strings.TrimSpace(v.GetString("data_dir")) == "" {
		problems = append(problems, "data_dir is required")
	}

	supported := v.GetStringSlice("i18n.supported")
	if len(supported) == 0 {
		problems = append(problems, "i18n.supported must list at least one language")
	}
	def := strings.ToLower(strings.TrimSpace(v.GetString("i18n.default_language")))
	if def == "" {
		problems = append(problems, "i18n.default_language is required")
	} else if len(supported) > 0 && !slices.ContainsFunc(supported, func(s string) bool {
		return strings.EqualFold(strings.TrimSpace(s), def)
	}) {
		problems = append(problems, "i18n.default_language must be one of i18n.supported")
	}

	switch strings.ToLower(v.GetString("i18n.format")) {
	case "", "json", "toml":
	default:
		problems = append(problems, "i18n.format must be json or toml")
	}
	if raw := strings.TrimSpace(v.GetString("i18n.locales_url")); raw != "" {
		u, err := url.Parse(raw)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			problems = append(problems, "i18n.locales_url must be an http(s) URL")
		}
	}

	switch strings.ToLower(v.GetString("prefs.backend")) {
	case "", "file", "sqlite", "memory":
	default:
		problems = append(problems, "prefs.backend must be file, sqlite or memory")
	}

	if v.GetInt("watch.debounce_ms") < 0 {
		problems = append(problems, "watch.debounce_ms must be >= 0")
	}

	if len(problems) > 0 {
		return errors.New("invalid config: " + strings.Join(problems, "; "))
	}
	return nil
}

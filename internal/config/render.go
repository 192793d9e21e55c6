package config

import (
	"bytes"
	"strings"

	"github.com/BurntSushi/toml"
)

// RenderDefaultTOML renders a commented config.toml holding every default.
func RenderDefaultTOML() (string, error) {
	var b strings.Builder
	b.WriteString("# mdprinter configuration (TOML)\n")

	opts := GetConfigOptions()
	topLevel := map[string]any{}
	sections := map[string]map[string]any{}
	var sectionOrder []string
	for _, o := range opts {
		section, key, nested := strings.Cut(o.Key, ".")
		if !nested {
			topLevel[o.Key] = o.Default
			continue
		}
		if _, ok := sections[section]; !ok {
			sections[section] = map[string]any{}
			sectionOrder = append(sectionOrder, section)
		}
		sections[section][key] = o.Default
	}

	b.WriteString("#\n")
	for _, o := range opts {
		b.WriteString("# " + o.Key + ": " + o.Comment + "\n")
	}
	b.WriteString("\n")

	if err := encode(&b, topLevel); err != nil {
		return "", err
	}
	for _, section := range sectionOrder {
		b.WriteString("\n")
		if err := encode(&b, map[string]any{section: sections[section]}); err != nil {
			return "", err
		}
	}
	return b.String(), nil
}

func encode(b *strings.Builder, v any) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(v); err != nil {
		return err
	}
	b.Write(buf.Bytes())
	return nil
}

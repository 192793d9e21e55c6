package i18n

import (
	"slices"
	"strings"
)

// Language is a short UI language code such as "en" or "ko".
type Language string

const (
	Korean   Language = "ko"
	English  Language = "en"
	Japanese Language = "ja"
	Chinese  Language = "zh"
)

// DefaultLanguage is used when nothing better can be determined.
const DefaultLanguage = Korean

// PreferenceKey is the key the selected language is persisted under.
const PreferenceKey = "md-printer-language"

// DefaultSupported returns the built-in supported language set.
func DefaultSupported() []Language {
	return []Language{Korean, English, Japanese, Chinese}
}

// DetectLanguage extracts the primary subtag of a locale hint ("en-US" -> "en")
// and returns it when it is in supported, otherwise def.
func DetectLanguage(hint string, supported []Language, def Language) Language {
	primary, _, _ := strings.Cut(strings.TrimSpace(hint), "-")
	lang := Language(strings.ToLower(primary))
	if lang != "" && slices.Contains(supported, lang) {
		return lang
	}
	return def
}

// ParseLanguages converts raw codes (config values, flags) into Languages,
// lowercasing and dropping blanks and duplicates.
func ParseLanguages(codes []string) []Language {
	out := make([]Language, 0, len(codes))
	for _, c := range codes {
		l := Language(strings.ToLower(strings.TrimSpace(c)))
		if l == "" || slices.Contains(out, l) {
			continue
		}
		out = append(out, l)
	}
	return out
}

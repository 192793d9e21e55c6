package i18n

import (
	"context"
	"os"
	"strings"

	"golang.org/x/text/language"
)

// HintSource reports the user's preferred locale, e.g. "en-US". An empty
// string means no hint is available.
type HintSource interface {
	LocaleHint(ctx context.Context) string
}

// HintFunc adapts a function to HintSource.
type HintFunc func(ctx context.Context) string

func (f HintFunc) LocaleHint(ctx context.Context) string { return f(ctx) }

// StaticHint always reports tag.
func StaticHint(tag string) HintSource {
	return HintFunc(func(context.Context) string { return tag })
}

// EnvHint reads the POSIX locale variables (LC_ALL, LC_MESSAGES, LANG).
func EnvHint() HintSource {
	return HintFunc(func(context.Context) string {
		for _, name := range []string{"LC_ALL", "LC_MESSAGES", "LANG"} {
			if v := strings.TrimSpace(os.Getenv(name)); v != "" {
				return POSIXLocaleTag(v)
			}
		}
		return ""
	})
}

// POSIXLocaleTag converts "en_US.UTF-8" or "de_DE@euro" to a BCP 47 tag
// ("en-US"). "C" and "POSIX" carry no language and yield "".
func POSIXLocaleTag(v string) string {
	if i := strings.IndexAny(v, ".@"); i >= 0 {
		v = v[:i]
	}
	if v == "" || v == "C" || v == "POSIX" {
		return ""
	}
	tag, err := language.Parse(strings.ReplaceAll(v, "_", "-"))
	if err != nil {
		return ""
	}
	return tag.String()
}

// AcceptLanguageHint returns the highest weighted tag of an Accept-Language
// header, or "" when the header is empty or malformed.
func AcceptLanguageHint(header string) string {
	if strings.TrimSpace(header) == "" {
		return ""
	}
	tags, _, err := language.ParseAcceptLanguage(header)
	if err != nil || len(tags) == 0 {
		return ""
	}
	return tags[0].String()
}

type hintKey struct{}

// ContextWithHint attaches a locale hint (typically from a request) to ctx.
func ContextWithHint(ctx context.Context, hint string) context.Context {
	return context.WithValue(ctx, hintKey{}, hint)
}

// ContextHint reads the hint attached by ContextWithHint and falls back to
// fallback (which may be nil) when none is present.
func ContextHint(fallback HintSource) HintSource {
	return HintFunc(func(ctx context.Context) string {
		if v, ok := ctx.Value(hintKey{}).(string); ok && v != "" {
			return v
		}
		if fallback == nil {
			return ""
		}
		return fallback.LocaleHint(ctx)
	})
}

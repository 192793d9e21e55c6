package i18n

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"path"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed locales/*.json
var localeFS embed.FS

// Format is the encoding of a translation table file, also used as its extension.
type Format string

const (
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
)

// ParseFormat validates a format name from configuration.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "", FormatJSON:
		return FormatJSON, nil
	case FormatTOML:
		return FormatTOML, nil
	default:
		return "", fmt.Errorf("unknown translation format %q", s)
	}
}

// Loader fetches the translation table of one language.
type Loader interface {
	Load(ctx context.Context, lang Language) (Table, error)
}

// DecodeTable parses a translation document. The top level must be an object.
func DecodeTable(format Format, data []byte) (Table, error) {
	var t Table
	switch format {
	case FormatJSON:
		if err := json.Unmarshal(data, &t); err != nil {
			return nil, fmt.Errorf("parse json: %w", err)
		}
	case FormatTOML:
		if err := toml.Unmarshal(data, &t); err != nil {
			return nil, fmt.Errorf("parse toml: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown translation format %q", format)
	}
	if t == nil {
		return nil, errors.New("translation document is empty")
	}
	return t, nil
}

// FSLoader reads <base>/<lang>.<format> from a file system.
type FSLoader struct {
	fsys   fs.FS
	base   string
	format Format
}

func NewFSLoader(fsys fs.FS, base string, format Format) *FSLoader {
	if base == "" {
		base = "."
	}
	return &FSLoader{fsys: fsys, base: base, format: format}
}

// EmbeddedLoader serves the JSON tables compiled into the binary.
func EmbeddedLoader() *FSLoader {
	return NewFSLoader(localeFS, "locales", FormatJSON)
}

// Path returns the resource path for lang.
func (l *FSLoader) Path(lang Language) string {
	return path.Join(l.base, string(lang)+"."+string(l.format))
}

func (l *FSLoader) Load(ctx context.Context, lang Language) (Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := fs.ReadFile(l.fsys, l.Path(lang))
	if err != nil {
		return nil, err
	}
	return DecodeTable(l.format, data)
}

// MaxTableBytes bounds a translation table fetched over HTTP.
const MaxTableBytes = 1 << 20

// HTTPLoader fetches <baseURL>/<lang>.<format> over HTTP.
type HTTPLoader struct {
	client  *http.Client
	baseURL string
	format  Format
}

func NewHTTPLoader(client *http.Client, baseURL string, format Format) *HTTPLoader {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPLoader{
		client:  client,
		baseURL: strings.TrimRight(baseURL, "/"),
		format:  format,
	}
}

func (l *HTTPLoader) URL(lang Language) string {
	return l.baseURL + "/" + string(lang) + "." + string(l.format)
}

func (l *HTTPLoader) Load(ctx context.Context, lang Language) (Table, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.URL(lang), nil)
	if err != nil {
		return nil, err
	}
	resp, err := l.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("fetch %s: status %d", l.URL(lang), resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxTableBytes+1))
	if err != nil {
		return nil, err
	}
	if len(data) > MaxTableBytes {
		return nil, fmt.Errorf("fetch %s: table exceeds %d bytes", l.URL(lang), MaxTableBytes)
	}
	return DecodeTable(l.format, data)
}

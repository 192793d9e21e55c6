package render

import (
	"bytes"
	"errors"
	"os"
	"strings"

	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
)

// ErrEmptyDocument is returned when there is nothing to render.
var ErrEmptyDocument = errors.New("document is empty")

// Options controls how Markdown is converted.
type Options struct {
	// HighlightStyle is a chroma style name; empty disables highlighting.
	HighlightStyle string
	// HardWraps turns single newlines into <br>.
	HardWraps bool
	// UnsafeHTML passes raw HTML in the source through.
	UnsafeHTML bool
}

func DefaultOptions() Options {
	return Options{
		HighlightStyle: "github",
		HardWraps:      true,
		UnsafeHTML:     true,
	}
}

// Renderer converts markdown to HTML
type Renderer struct {
	md goldmark.Markdown
}

func NewRenderer(opts Options) *Renderer {
	exts := []goldmark.Extender{
		extension.GFM, // GitHub Flavored Markdown (tables, strikethrough, autolinks, task lists)
	}
	if opts.HighlightStyle != "" {
		exts = append(exts, highlighting.NewHighlighting(
			highlighting.WithStyle(opts.HighlightStyle),
			highlighting.WithFormatOptions(),
		))
	}

	var rendererOpts []renderer.Option
	if opts.HardWraps {
		rendererOpts = append(rendererOpts, html.WithHardWraps())
	}
	if opts.UnsafeHTML {
		rendererOpts = append(rendererOpts, html.WithUnsafe()) // Allow raw HTML in markdown
	}

	md := goldmark.New(
		goldmark.WithExtensions(exts...),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(rendererOpts...),
	)

	return &Renderer{md: md}
}

// Render converts src to an HTML fragment. Blank input yields ErrEmptyDocument.
func (r *Renderer) Render(src []byte) (string, error) {
	if strings.TrimSpace(string(src)) == "" {
		return "", ErrEmptyDocument
	}

	var buf bytes.Buffer
	if err := r.md.Convert(src, &buf); err != nil {
		return "", err
	}

	return buf.String(), nil
}

func (r *Renderer) RenderFile(path string) (string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return r.Render(content)
}

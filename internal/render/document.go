package render

import (
	_ "embed"
	"encoding/hex"
	"html/template"
	"io"
	"strings"

	"github.com/zeebo/blake3"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

//go:embed print.html.tmpl
var printTemplateSrc string

var printTemplate = template.Must(template.New("print").Parse(printTemplateSrc))

// Page describes the standalone document wrapped around a rendered fragment.
type Page struct {
	Title string
	Lang  string
	// AutoPrint opens the browser print dialog once the page has loaded.
	AutoPrint bool
}

// WriteDocument writes a complete printable HTML document containing body.
// An empty Title is replaced by the text of the first <h1> in body.
func WriteDocument(w io.Writer, body string, p Page) error {
	if p.Title == "" {
		p.Title = Title(body)
	}
	return printTemplate.Execute(w, struct {
		Page
		Body template.HTML
	}{Page: p, Body: template.HTML(body)})
}

// Title returns the text content of the first <h1> in an HTML fragment.
func Title(fragment string) string {
	nodes, err := html.ParseFragment(strings.NewReader(fragment), &html.Node{
		Type:     html.ElementNode,
		Data:     "body",
		DataAtom: atom.Body,
	})
	if err != nil {
		return ""
	}
	for _, n := range nodes {
		if h := findHeading(n); h != nil {
			return strings.TrimSpace(textContent(h))
		}
	}
	return ""
}

func findHeading(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.Data == "h1" {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if h := findHeading(c); h != nil {
			return h
		}
	}
	return nil
}

func textContent(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		b.WriteString(textContent(c))
	}
	return b.String()
}

// ETag returns a strong entity tag for content.
func ETag(content string) string {
	sum := blake3.Sum256([]byte(content))
	return `"` + hex.EncodeToString(sum[:16]) + `"`
}

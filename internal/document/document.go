// Package document reads user supplied files into Markdown source.
package document

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	markdown "github.com/JohannesKaufmann/html-to-markdown"
)

// ErrUnsupportedFileType is returned for files that are neither Markdown,
// plain text nor HTML.
var ErrUnsupportedFileType = errors.New("unsupported file type")

// Kind classifies a file by extension.
type Kind int

const (
	KindUnsupported Kind = iota
	KindMarkdown
	KindHTML
)

// KindOf reports how a file name will be read.
func KindOf(name string) Kind {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".md", ".markdown", ".txt":
		return KindMarkdown
	case ".html", ".htm":
		return KindHTML
	default:
		return KindUnsupported
	}
}

// Document is a loaded source file.
type Document struct {
	Name     string
	Markdown string
}

// Loader reads files, converting HTML to Markdown on the way in.
type Loader struct {
	converter *markdown.Converter
}

func NewLoader() *Loader {
	return &Loader{converter: markdown.NewConverter("", true, nil)}
}

// Load reads path and returns its Markdown source.
func (l *Loader) Load(path string) (Document, error) {
	kind := KindOf(path)
	if kind == KindUnsupported {
		return Document{}, fmt.Errorf("%s: %w", filepath.Base(path), ErrUnsupportedFileType)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Document{}, err
	}
	return l.Parse(filepath.Base(path), data)
}

// Parse converts already-read content named name.
func (l *Loader) Parse(name string, data []byte) (Document, error) {
	switch KindOf(name) {
	case KindMarkdown:
		return Document{Name: name, Markdown: string(data)}, nil
	case KindHTML:
		md, err := l.converter.ConvertString(string(data))
		if err != nil {
			return Document{}, fmt.Errorf("convert %s: %w", name, err)
		}
		return Document{Name: name, Markdown: strings.TrimSpace(md) + "\n"}, nil
	default:
		return Document{}, fmt.Errorf("%s: %w", name, ErrUnsupportedFileType)
	}
}

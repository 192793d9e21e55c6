package document

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindOf(t *testing.T) {
	tests := map[string]Kind{
		"notes.md":       KindMarkdown,
		"NOTES.MARKDOWN": KindMarkdown,
		"a.txt":          KindMarkdown,
		"page.html":      KindHTML,
		"page.HTM":       KindHTML,
		"image.png":      KindUnsupported,
		"README":         KindUnsupported,
	}
	for name, want := range tests {
		assert.Equal(t, want, KindOf(name), name)
	}
}

func TestLoadMarkdown(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.md")
	require.NoError(t, os.WriteFile(path, []byte("# Title\n"), 0o600))

	doc, err := NewLoader().Load(path)
	require.NoError(t, err)
	assert.Equal(t, "doc.md", doc.Name)
	assert.Equal(t, "# Title\n", doc.Markdown)
}

func TestLoadHTML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "page.html")
	require.NoError(t, os.WriteFile(path, []byte("<h1>Title</h1><p>Some <strong>bold</strong> text</p>"), 0o600))

	doc, err := NewLoader().Load(path)
	require.NoError(t, err)
	assert.Contains(t, doc.Markdown, "# Title")
	assert.Contains(t, doc.Markdown, "**bold**")
}

func TestLoadUnsupported(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "image.png")
	require.NoError(t, os.WriteFile(path, []byte{0x89, 'P', 'N', 'G'}, 0o600))

	_, err := NewLoader().Load(path)
	assert.ErrorIs(t, err, ErrUnsupportedFileType)

	_, err = NewLoader().Parse("x.pdf", []byte("%PDF"))
	assert.ErrorIs(t, err, ErrUnsupportedFileType)
}

func TestLoadMissing(t *testing.T) {
	_, err := NewLoader().Load(filepath.Join(t.TempDir(), "missing.md"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erkantaylan/md-printer/internal/document"
	"github.com/erkantaylan/md-printer/internal/i18n"
	"github.com/erkantaylan/md-printer/internal/render"
)

// isolate points config, data and locale lookups at temp dirs.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
	t.Setenv("MDPRINTER_I18N_LOCALE_HINT", "en-US")
	return dir
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd, sess := newRootCmd()
	defer sess.close()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	return p
}

func TestRequiresApp(t *testing.T) {
	root := &cobra.Command{Use: "mdprinter"}
	serve := &cobra.Command{Use: "serve"}
	root.AddCommand(serve)
	cfg := &cobra.Command{Use: "config"}
	gen := &cobra.Command{Use: "generate"}
	cfg.AddCommand(gen)
	root.AddCommand(cfg)
	help := &cobra.Command{Use: "help"}
	root.AddCommand(help)

	assert.True(t, requiresApp(serve))
	assert.False(t, requiresApp(gen))
	assert.False(t, requiresApp(help))
	assert.False(t, requiresApp(root))
}

func TestTranslateCommand(t *testing.T) {
	isolate(t)

	out, err := run(t, "t", "buttons.print", "missing.key", "buttons")
	require.NoError(t, err)
	assert.Equal(t, "Print\nmissing.key\nbuttons\n", out)
}

func TestLangSetPersists(t *testing.T) {
	isolate(t)

	out, err := run(t, "lang")
	require.NoError(t, err)
	assert.Equal(t, "en (English)\n", out)

	out, err = run(t, "lang", "set", "JA")
	require.NoError(t, err)
	assert.Equal(t, "言語が変更されました: 日本語\n", out)

	// A saved preference wins over the locale hint on the next start.
	out, err = run(t, "lang")
	require.NoError(t, err)
	assert.Equal(t, "ja (日本語)\n", out)

	out, err = run(t, "t", "buttons.print")
	require.NoError(t, err)
	assert.Equal(t, "印刷\n", out)
}

func TestLangSetUnsupported(t *testing.T) {
	isolate(t)

	_, err := run(t, "lang", "set", "fr")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported language")
	assert.Contains(t, err.Error(), "supported: ko, en, ja, zh")
}

func TestLangList(t *testing.T) {
	isolate(t)

	out, err := run(t, "lang", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "  ko  한국어\n")
	assert.Contains(t, out, "* en  English\n")
	assert.Contains(t, out, "  zh  中文\n")
}

func TestRenderCommand(t *testing.T) {
	dir := isolate(t)
	src := writeFile(t, dir, "doc.md", "# Hello\n\nworld\n")

	out, err := run(t, "render", src)
	require.NoError(t, err)
	assert.Contains(t, out, `<h1 id="hello">Hello</h1>`)
	assert.NotContains(t, out, "<!DOCTYPE html>")

	dst := filepath.Join(dir, "doc.html")
	_, err = run(t, "render", src, "--print", "-o", dst)
	require.NoError(t, err)
	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	page := string(data)
	assert.Contains(t, page, `<html lang="en">`)
	assert.Contains(t, page, "<title>Hello</title>")
	assert.Contains(t, page, "window.print()")
}

func TestRenderCommandHTMLInput(t *testing.T) {
	dir := isolate(t)
	src := writeFile(t, dir, "page.html", "<h2>Section</h2><p>text</p>")

	out, err := run(t, "render", src, "--print", "--autoprint=false")
	require.NoError(t, err)
	assert.Contains(t, out, "Section</h2>")
	assert.Contains(t, out, "<title>page.html</title>")
	assert.NotContains(t, out, "window.print()")
}

func TestRenderCommandErrors(t *testing.T) {
	dir := isolate(t)

	_, err := run(t, "render", writeFile(t, dir, "empty.md", "  \n"))
	require.Error(t, err)
	assert.Equal(t, "There is no content to print. Upload a file or enter Markdown.", err.Error())

	_, err = run(t, "render", writeFile(t, dir, "image.png", "png"))
	assert.Error(t, err)
}

func TestPreviewCommand(t *testing.T) {
	dir := isolate(t)
	src := writeFile(t, dir, "doc.md", "# Hello\n\nSome **text**.\n")

	out, err := run(t, "preview", src, "--style", "notty", "--width", "40")
	require.NoError(t, err)
	assert.Contains(t, out, "Hello")
	assert.Contains(t, out, "text")
}

func TestConfigGenerate(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "out", "config.toml")

	out, err := run(t, "config", "generate", "-o", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote "+path)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `http_addr = ":3000"`)
	assert.Contains(t, string(data), "[i18n]")

	_, err = run(t, "config", "generate", "-o", path)
	assert.ErrorContains(t, err, "already exists")

	out, err = run(t, "config", "generate", "-o", path, "--overwrite")
	require.NoError(t, err)
	assert.Contains(t, out, "Backup: "+path+".bak")
}

func TestInvalidConfig(t *testing.T) {
	isolate(t)
	t.Setenv("MDPRINTER_PREFS_BACKEND", "redis")

	_, err := run(t, "t", "app.title")
	assert.ErrorContains(t, err, "prefs.backend must be file, sqlite or memory")
}

func TestErrorExitCode(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{nil, 0},
		{fmt.Errorf("%w: %q", i18n.ErrUnsupportedLanguage, "fr"), exitInvalidInput},
		{fmt.Errorf("load: %w", document.ErrUnsupportedFileType), exitInvalidInput},
		{&localizedError{msg: "nothing to print", err: render.ErrEmptyDocument}, exitInvalidInput},
		{fmt.Errorf("open: %w", os.ErrNotExist), exitNotFound},
		{errors.New("boom"), exitInternal},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.code, ErrorExitCode(tc.err), "%v", tc.err)
	}
	assert.Equal(t, "Error [invalid-input]: nothing to print",
		FormatError(&localizedError{msg: "nothing to print", err: render.ErrEmptyDocument}))
}

func TestMissingFileExitCode(t *testing.T) {
	dir := isolate(t)

	_, err := run(t, "render", filepath.Join(dir, "missing.md"))
	require.Error(t, err)
	assert.Equal(t, exitNotFound, ErrorExitCode(err))

	_, err = run(t, "lang", "set", "xx")
	assert.Equal(t, exitInvalidInput, ErrorExitCode(err))
}

type failingCloser struct{ bytes.Buffer }

func (f *failingCloser) Close() error { return errors.New("disk full") }

func TestRenderReportsCloseError(t *testing.T) {
	dir := isolate(t)
	src := writeFile(t, dir, "doc.md", "# Hello\n")

	var written *failingCloser
	orig := createOutput
	createOutput = func(string) (io.WriteCloser, error) {
		written = &failingCloser{}
		return written, nil
	}
	t.Cleanup(func() { createOutput = orig })

	_, err := run(t, "render", src, "-o", filepath.Join(dir, "out.html"))
	assert.EqualError(t, err, "disk full")
	require.NotNil(t, written)
	assert.Contains(t, written.String(), "Hello</h1>")
}

func TestLocaleFlag(t *testing.T) {
	isolate(t)

	out, err := run(t, "--locale", "zh-CN", "t", "buttons.print")
	require.NoError(t, err)
	assert.Equal(t, "打印\n", out)

	out, err = run(t, "t", "--locale", "ja-JP", "buttons.print")
	require.NoError(t, err)
	assert.Equal(t, "印刷\n", out)
}

func TestAppClosedWhenCommandFails(t *testing.T) {
	dir := isolate(t)
	t.Setenv("MDPRINTER_PREFS_BACKEND", "sqlite")

	cmd, sess := newRootCmd()
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	cmd.SetArgs([]string{"render", filepath.Join(dir, "missing.md")})
	require.Error(t, cmd.Execute())

	app := sess.app
	require.NotNil(t, app, "app stays open until the session is closed")
	require.NoError(t, sess.close())
	assert.Nil(t, sess.app)

	_, _, err := app.Prefs.Get(context.Background(), "k")
	assert.Error(t, err, "preference store should be closed")
	assert.NoError(t, sess.close())
}

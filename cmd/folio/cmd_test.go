package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// run executes folio with args and stdin, returning its output.
func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, data := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
	}
	return dir
}

func TestAnalyze(t *testing.T) {
	const post = "# Title\n\n## Setup\n\n- [x] a\n- [ ] b\n"

	t.Run("json", func(t *testing.T) {
		out, err := run(t, post, "analyze", "--format", "json")
		require.NoError(t, err)
		assert.Contains(t, out, `"id": "setup"`)
		assert.Contains(t, out, `"id": "checklist-1"`)
		assert.Contains(t, out, `"kind": "checklist"`)
	})

	t.Run("yaml", func(t *testing.T) {
		out, err := run(t, post, "analyze", "-f", "yaml")
		require.NoError(t, err)
		assert.Contains(t, out, "id: setup")
		assert.Contains(t, out, "kind: heading")
	})

	t.Run("text", func(t *testing.T) {
		out, err := run(t, post, "analyze")
		require.NoError(t, err)
		assert.Contains(t, out, "Headings\n")
		assert.Contains(t, out, "Setup")
		assert.Contains(t, out, "#setup")
	})

	t.Run("unknown format", func(t *testing.T) {
		_, err := run(t, post, "analyze", "--format", "xml")
		var usageErr *usageError
		assert.True(t, errors.As(err, &usageErr))
	})

	t.Run("empty", func(t *testing.T) {
		out, err := run(t, "", "analyze", "--format", "json")
		require.NoError(t, err)
		assert.Equal(t, "[]\n", out)
	})
}

func TestNormalize(t *testing.T) {
	t.Run("stdin", func(t *testing.T) {
		out, err := run(t, "• one\n• two", "normalize")
		require.NoError(t, err)
		assert.Equal(t, "- one\n- two\n", out)
	})

	t.Run("title", func(t *testing.T) {
		out, err := run(t, "", "normalize", "--title", "My Title")
		require.NoError(t, err)
		assert.Equal(t, "# My Title\n", out)
	})

	t.Run("check and write", func(t *testing.T) {
		dir := writeFiles(t, map[string]string{"a.md": "a\n\n\n\nb"})
		path := filepath.Join(dir, "a.md")

		out, err := run(t, "", "normalize", "--check", path)
		var exitErr *exitCodeError
		require.True(t, errors.As(err, &exitErr))
		assert.Equal(t, 1, exitErr.exitCode)
		assert.Contains(t, out, "would change")

		_, err = run(t, "", "normalize", "--write", path)
		require.NoError(t, err)
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "a\n\nb\n", string(data))

		_, err = run(t, "", "normalize", "--check", path)
		assert.NoError(t, err)
	})

	t.Run("write needs files", func(t *testing.T) {
		_, err := run(t, "a", "normalize", "--write")
		var usageErr *usageError
		assert.True(t, errors.As(err, &usageErr))
	})
}

func TestCheck(t *testing.T) {
	t.Run("file", func(t *testing.T) {
		dir := writeFiles(t, map[string]string{"a.md": "no headings here"})
		out, err := run(t, "", "check", filepath.Join(dir, "a.md"))
		var exitErr *exitCodeError
		require.True(t, errors.As(err, &exitErr))
		assert.Contains(t, out, "no headings found")
		assert.Contains(t, out, "add a title")
	})

	t.Run("library", func(t *testing.T) {
		dir := writeFiles(t, map[string]string{
			"a.md":       "# A\n\n[b](b.md)",
			"folio.yaml": "check:\n  min_words: 0\n  recommended_words: 0\n",
		})
		out, err := run(t, "", "check", "--content", dir, "--config", filepath.Join(dir, "folio.yaml"))
		var exitErr *exitCodeError
		require.True(t, errors.As(err, &exitErr))
		assert.Contains(t, out, "a.md: broken link to /preview/b")
	})

	t.Run("library clean", func(t *testing.T) {
		dir := writeFiles(t, map[string]string{
			"a.md":       "# A\n\nSee [b](b.md).",
			"b.md":       "# B\n\nBack to [a](a.md).",
			"folio.yaml": "check:\n  min_words: 0\n  recommended_words: 0\n",
		})
		out, err := run(t, "", "check", "--content", dir, "--config", filepath.Join(dir, "folio.yaml"))
		require.NoError(t, err)
		assert.Contains(t, out, "no problems found")
	})
}

func TestRender(t *testing.T) {
	t.Run("html", func(t *testing.T) {
		out, err := run(t, "# T\n\n## A\n", "render", "--html")
		require.NoError(t, err)
		assert.Contains(t, out, `<h2 id="a">`)
	})

	t.Run("terminal", func(t *testing.T) {
		out, err := run(t, "---\ntitle: x\n---\n# Hello\n\nworld\n", "render")
		require.NoError(t, err)
		assert.Contains(t, out, "Hello")
		assert.Contains(t, out, "world")
		assert.NotContains(t, out, "title: x")
	})
}

func TestSearch(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"a.md": "# A\n\n## Setup\n\nInstall the tool.",
	})

	out, err := run(t, "", "search", "--content", dir, "install")
	require.NoError(t, err)
	assert.Equal(t, "a.md#setup: Install the tool.\n", out)

	_, err = run(t, "", "search", "--content", dir, "nothing")
	var exitErr *exitCodeError
	assert.True(t, errors.As(err, &exitErr))
}

func TestInfo(t *testing.T) {
	out, err := run(t, "", "info", "--content", "posts")
	require.NoError(t, err)
	assert.Contains(t, out, `"Dir": "posts"`)
	assert.Contains(t, out, `"Addr": ":8080"`)
}

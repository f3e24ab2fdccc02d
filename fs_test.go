package folio

import (
	"errors"
	"io/fs"
	"path"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWalkFileSystem(t *testing.T) {
	wantAllPaths := []string{
		"a/b.md",
		"a/c/d.md",
		"e.md",
		"f/g.md",
		"f/h.md",
	}
	fsys := fstest.MapFS{}
	for _, p := range wantAllPaths {
		fsys[p] = &fstest.MapFile{}
	}
	fsys["x/y.png"] = &fstest.MapFile{}   // add file that does not pass the isMarkdown filter
	fsys[".git/z.md"] = &fstest.MapFile{} // dot-dirs are skipped

	var allPaths []string
	isMarkdown := func(p string) bool { return path.Ext(p) == ".md" }
	collect := func(p string) error {
		allPaths = append(allPaths, p)
		return nil
	}
	require.NoError(t, WalkFileSystem(fsys, isMarkdown, collect))
	assert.Equal(t, wantAllPaths, allPaths)
}

func TestWalkFileSystem_error(t *testing.T) {
	fsys := fstest.MapFS{"a.md": &fstest.MapFile{}}
	errStop := errors.New("stop")
	err := WalkFileSystem(fsys, nil, func(string) error { return errStop })
	assert.ErrorIs(t, err, errStop)
	assert.Contains(t, err.Error(), "walk a.md")
}

func TestWalkFileSystem_unsupportedMode(t *testing.T) {
	fsys := fstest.MapFS{"link.md": &fstest.MapFile{Mode: fs.ModeSymlink}}
	err := WalkFileSystem(fsys, nil, func(string) error { return nil })
	assert.ErrorContains(t, err, "unsupported mode")
}

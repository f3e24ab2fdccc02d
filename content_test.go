package folio

import (
	"io/fs"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContentFilePathToPath(t *testing.T) {
	tests := map[string]string{
		"index.md":   "",
		"a.md":       "a",
		"a/b.md":     "a/b",
		"a/index.md": "a",
	}
	for filePath, wantPath := range tests {
		assert.Equal(t, wantPath, contentFilePathToPath(filePath), filePath)
	}
}

func TestResolveAndReadAll(t *testing.T) {
	fsys := fstest.MapFS{
		"index.md":     {Data: []byte("z")},
		"a/b/index.md": {Data: []byte("e")},
		"a/b/c.md":     {Data: []byte("d")},
	}
	tests := map[string]struct {
		path         string
		wantFilePath string
		wantData     string
	}{
		"root":          {path: "", wantFilePath: "index.md", wantData: "z"},
		"page":          {path: "a/b/c", wantFilePath: "a/b/c.md", wantData: "d"},
		"dir":           {path: "a/b", wantFilePath: "a/b/index.md", wantData: "e"},
		"explicit":      {path: "a/b/index", wantFilePath: "a/b/index.md", wantData: "e"},
		"slashes":       {path: "/a/b/c/", wantFilePath: "a/b/c.md", wantData: "d"},
		"leading slash": {path: "/", wantFilePath: "index.md", wantData: "z"},
	}
	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			filePath, data, err := resolveAndReadAll(fsys, test.path)
			require.NoError(t, err)
			assert.Equal(t, test.wantFilePath, filePath)
			assert.Equal(t, test.wantData, string(data))
		})
	}

	t.Run("not found", func(t *testing.T) {
		_, _, err := resolveAndReadAll(fsys, "not/found")
		assert.ErrorIs(t, err, fs.ErrNotExist)
	})
}

func TestMakeBreadcrumbEntries(t *testing.T) {
	tests := map[string][]breadcrumbEntry{
		"a/b/c": {
			{Label: "Posts", URL: "/preview/", IsActive: false},
			{Label: "a", URL: "/preview/a", IsActive: false},
			{Label: "b", URL: "/preview/a/b", IsActive: false},
			{Label: "c", URL: "/preview/a/b/c", IsActive: true},
		},
		"a": {
			{Label: "Posts", URL: "/preview/", IsActive: false},
			{Label: "a", URL: "/preview/a", IsActive: true},
		},
		"": nil,
	}
	for path, want := range tests {
		t.Run(path, func(t *testing.T) {
			assert.Equal(t, want, makeBreadcrumbEntries("/preview/", path))
		})
	}
}

func TestIsContentAsset(t *testing.T) {
	assert.True(t, isContentAsset("img/a.png"))
	assert.False(t, isContentAsset("a.md"))
	assert.False(t, isContentAsset("a/b"))
}

package folio

import (
	"errors"
	"io/fs"
	pathpkg "path"
	"strings"
)

func contentFilePathToPath(filePath string) string {
	path := strings.TrimSuffix(filePath, ".md")
	if path == "index" {
		return ""
	}
	return strings.TrimSuffix(path, "/index")
}

// resolveAndReadAll resolves a URL path to a file path, adding a file extension (.md) and a
// directory index filename as needed. It also returns the file content.
func resolveAndReadAll(fsys fs.FS, path string) (filePath string, data []byte, err error) {
	path = strings.Trim(path, "/")
	filePath = path + ".md"
	data, err = fs.ReadFile(fsys, filePath)
	if isDir(fsys, filePath) || (errors.Is(err, fs.ErrNotExist) && pathpkg.Base(path) != "index") {
		// Try looking up the path as a directory and reading its index file (index.md).
		return resolveAndReadAll(fsys, pathpkg.Join(path, "index"))
	}
	return filePath, data, err
}

func isDir(fsys fs.FS, path string) bool {
	fi, err := fs.Stat(fsys, path)
	return err == nil && fi.IsDir()
}

type breadcrumbEntry struct {
	Label    string
	URL      string
	IsActive bool
}

func makeBreadcrumbEntries(basePath, path string) []breadcrumbEntry {
	if path == "" {
		return nil
	}
	parts := strings.Split(path, "/")
	entries := make([]breadcrumbEntry, len(parts)+1)
	entries[0] = breadcrumbEntry{
		Label: "Posts",
		URL:   basePath,
	}
	for i, part := range parts {
		entries[i+1] = breadcrumbEntry{
			Label:    part,
			URL:      pathpkg.Join(basePath, pathpkg.Join(parts[:i+1]...)),
			IsActive: i == len(parts)-1,
		}
	}
	return entries
}

// isContentAsset reports whether the file in the content file system is an asset (i.e., not a
// Markdown file). It typically matches .png, .gif, and .svg files.
func isContentAsset(urlPath string) bool {
	ext := pathpkg.Ext(urlPath)
	return ext != "" && ext != ".md"
}

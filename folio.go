// Package folio serves a library of Markdown posts: it lists and resolves posts in a content file
// system, analyzes them for in-page navigation, checks them for problems, searches them and
// renders them for preview.
package folio

import (
	"io/fs"
	"net/url"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/pkg/errors"

	"github.com/foliopress/folio/markdown"
)

// DefaultInclude is the content glob used when Library.Include is empty.
const DefaultInclude = "**/*.md"

// Library is a collection of Markdown posts stored in a file system.
type Library struct {
	// Content is the file system containing the Markdown files and the assets (e.g., images)
	// embedded in them.
	Content fs.FS

	// Include and Exclude are doublestar globs (relative to Content) selecting the post files.
	// A file is a post if it matches any Include pattern and no Exclude pattern.
	Include []string
	Exclude []string

	// Base is the base URL (typically including only the path, such as "/preview/") where rendered
	// posts are available.
	Base *url.URL

	// CheckOptions are the thresholds used by Check.
	CheckOptions markdown.CheckOptions

	// HighlightStyle is the chroma style used for fenced code blocks.
	HighlightStyle string

	// Templates is the file system containing the Go html/template templates (root.html,
	// post.html and search.html) used to render previews. If nil, built-in templates are used.
	Templates fs.FS
}

// Validate reports an error if any include or exclude pattern is malformed.
func (l *Library) Validate() error {
	if l.Content == nil {
		return errors.New("library has no content file system")
	}
	for _, pattern := range append(append([]string(nil), l.Include...), l.Exclude...) {
		if !doublestar.ValidatePattern(pattern) {
			return errors.Errorf("invalid content pattern %q", pattern)
		}
	}
	return nil
}

// isPost reports whether the file at path (relative to Content) is a post.
func (l *Library) isPost(path string) bool {
	include := l.Include
	if len(include) == 0 {
		include = []string{DefaultInclude}
	}
	return matchAny(include, path) && !matchAny(l.Exclude, path)
}

func matchAny(patterns []string, path string) bool {
	for _, pattern := range patterns {
		if ok, _ := doublestar.Match(pattern, path); ok {
			return true
		}
	}
	return false
}

func (l *Library) base() *url.URL {
	if l.Base == nil {
		return &url.URL{Path: "/"}
	}
	return l.Base
}

package folio

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	pathpkg "path"
	"strings"

	"github.com/mozillazg/go-slugify"
	pkgerrors "github.com/pkg/errors"

	"github.com/foliopress/folio/markdown"
)

// Post is a Markdown post in the library. To create a Post, use one of the Library methods.
type Post struct {
	Path        string            `json:"path"`     // the canonical URL path (without ".md" or "/index.md")
	FilePath    string            `json:"filePath"` // the filename in the content file system
	Slug        string            `json:"slug"`
	Title       string            `json:"title"`
	Meta        markdown.Metadata `json:"meta"`
	Data        []byte            `json:"-"` // the post's file contents
	Body        string            `json:"-"` // the Markdown after the front matter
	Items       []markdown.Item   `json:"items"`
	Breadcrumbs []breadcrumbEntry `json:"-"`
}

// newPost creates a new Post in the library.
func (l *Library) newPost(filePath string, data []byte) (*Post, error) {
	meta, body, err := markdown.ParseMetadata(data)
	if err != nil {
		return nil, pkgerrors.WithMessage(err, filePath)
	}
	content := string(body)

	title := meta.Title
	if title == "" {
		title = markdown.Title(content)
	}
	path := contentFilePathToPath(filePath)
	return &Post{
		Path:        path,
		FilePath:    filePath,
		Slug:        postSlug(meta, title, filePath),
		Title:       title,
		Meta:        meta,
		Data:        data,
		Body:        content,
		Items:       markdown.Analyze(content),
		Breadcrumbs: makeBreadcrumbEntries(l.base().Path, path),
	}, nil
}

// postSlug is the front matter slug, else the slugified title, else the file name.
func postSlug(meta markdown.Metadata, title, filePath string) string {
	if meta.Slug != "" {
		return meta.Slug
	}
	if s := slugify.Slugify(title); s != "" {
		return s
	}
	name := strings.TrimSuffix(pathpkg.Base(filePath), ".md")
	if name == "index" {
		if dir := pathpkg.Dir(filePath); dir != "." {
			name = pathpkg.Base(dir)
		}
	}
	return name
}

// AllPosts returns a list of all posts in the library, ordered by file path.
func (l *Library) AllPosts(ctx context.Context) ([]*Post, error) {
	var posts []*Post
	err := WalkFileSystem(l.Content, l.isPost, func(path string) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		data, err := fs.ReadFile(l.Content, path)
		if err != nil {
			return err
		}
		post, err := l.newPost(path, data)
		if err != nil {
			return err
		}
		posts = append(posts, post)
		return nil
	})
	return posts, err
}

// Post looks up the post at the given path (which generally comes from a URL). The path may omit
// the ".md" file extension and the "/index" or "/index.md" suffix. If no file matches, the path is
// looked up as a post slug.
//
// If the resulting Post's Path differs from the path argument, the caller should (if possible)
// communicate a redirect.
func (l *Library) Post(ctx context.Context, path string) (*Post, error) {
	filePath, data, err := resolveAndReadAll(l.Content, path)
	if err == nil && l.isPost(filePath) {
		return l.newPost(filePath, data)
	}
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	posts, err := l.AllPosts(ctx)
	if err != nil {
		return nil, err
	}
	slug := strings.Trim(path, "/")
	for _, post := range posts {
		if post.Slug == slug {
			return post, nil
		}
	}
	return nil, &fs.PathError{Op: "post", Path: path, Err: fs.ErrNotExist}
}

// Render parses and HTML-renders the post. Relative links and images resolve against the post's
// location under the library's base URL.
func (l *Library) Render(post *Post) (*markdown.Document, error) {
	dir := pathpkg.Dir(post.FilePath)
	var prefix string
	if dir != "." {
		prefix = dir + "/"
	}
	doc, err := markdown.Run(post.Data, markdown.Options{
		Base:                      l.base().ResolveReference(&url.URL{Path: prefix}),
		ContentFilePathToLinkPath: contentFilePathToPath,
		HighlightStyle:            l.HighlightStyle,
	})
	if err != nil {
		return nil, pkgerrors.WithMessage(err, fmt.Sprintf("render %s", post.FilePath))
	}
	return doc, nil
}

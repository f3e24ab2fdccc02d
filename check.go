package folio

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	pathpkg "path"
	"sort"
	"strings"
	"sync"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/foliopress/folio/markdown"
)

// Check checks every post in the library for structural problems (see markdown.Check) and for
// invalid or broken links. Each problem is reported as "file: problem", sorted.
func (l *Library) Check(ctx context.Context) (problems []string, err error) {
	posts, err := l.AllPosts(ctx)
	if err != nil {
		return nil, err
	}

	problemPrefix := func(post *Post) string {
		return fmt.Sprintf("%s: ", post.FilePath)
	}

	// Render and parse the posts.
	var (
		wg sync.WaitGroup
		mu sync.Mutex
	)
	addProblem := func(problem string) {
		mu.Lock()
		problems = append(problems, problem)
		mu.Unlock()
	}
	for _, post := range posts {
		wg.Add(1)
		go func(post *Post) {
			defer wg.Done()
			if ctx.Err() != nil {
				return
			}
			for _, p := range l.checkPost(post) {
				addProblem(problemPrefix(post) + p)
			}
		}(post)
	}
	wg.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sort.Strings(problems)
	return problems, nil
}

func (l *Library) checkPost(post *Post) (problems []string) {
	for _, p := range markdown.Check(post.Body, l.CheckOptions) {
		problems = append(problems, p.String())
	}
	problems = append(problems, checkLinks(post)...)

	doc, err := l.Render(post)
	if err != nil {
		return append(problems, err.Error())
	}
	root, err := html.Parse(bytes.NewReader(doc.HTML))
	if err != nil {
		return append(problems, err.Error())
	}

	// Find broken links.
	basePath := l.base().Path
	walkHTMLDocument(root, walkHTMLDocumentOptions{
		url: func(urlStr string) {
			u, err := url.Parse(urlStr)
			if err != nil || u.Scheme != "" || u.Host != "" || u.Path == "" || !strings.HasPrefix(u.Path, basePath) {
				return // invalid and absolute URLs are reported by checkLinks
			}
			if !l.exists(strings.TrimPrefix(u.Path, basePath)) {
				problems = append(problems, fmt.Sprintf("broken link to %s", u.Path))
			}
		},
	})
	return problems
}

// exists reports whether the content path names an asset or a post.
func (l *Library) exists(path string) bool {
	if isContentAsset(path) {
		_, err := fs.Stat(l.Content, strings.Trim(path, "/"))
		return err == nil
	}
	filePath, _, err := resolveAndReadAll(l.Content, path)
	if errors.Is(err, fs.ErrNotExist) {
		return false
	}
	return err == nil && l.isPost(filePath)
}

// checkLinks finds link and image destinations in the post's Markdown that will break when the
// content is browsed as files.
func checkLinks(post *Post) (problems []string) {
	source := []byte(post.Body)
	root := markdown.NewParser(markdown.Options{}).Parser().Parse(text.NewReader(source))
	_ = ast.Walk(root, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		var dest []byte
		switch n := node.(type) {
		case *ast.Link:
			dest = n.Destination
		case *ast.Image:
			dest = n.Destination
		default:
			return ast.WalkContinue, nil
		}

		u, err := url.Parse(string(dest))
		if err != nil {
			problems = append(problems, fmt.Sprintf("invalid URL %q", dest))
			return ast.WalkContinue, nil
		}

		isPathOnly := u.Scheme == "" && u.Host == ""

		// Reject absolute paths because they will break when browsing the posts in the repository,
		// or if the base path ever changes.
		if isPathOnly && strings.HasPrefix(u.Path, "/") {
			problems = append(problems, fmt.Sprintf("must use relative, not absolute, link to %s", dest))
		}

		// Require that relative paths link to the actual .md file, so that browsing posts on the
		// file system works.
		if node.Kind() == ast.KindLink && isPathOnly && u.Path != "" && !isContentAsset(u.Path) && pathpkg.Ext(u.Path) != ".md" {
			problems = append(problems, fmt.Sprintf("must link to .md file, not %s", u.Path))
		}
		return ast.WalkContinue, nil
	})
	return problems
}

type walkHTMLDocumentOptions struct {
	url func(url string) // called for each URL encountered
}

func walkHTMLDocument(node *html.Node, opt walkHTMLDocumentOptions) {
	if node.Type == html.ElementNode {
		switch node.DataAtom {
		case atom.A:
			if href, ok := getAttribute(node, "href"); ok {
				opt.url(href)
			}
		case atom.Img:
			if src, ok := getAttribute(node, "src"); ok {
				opt.url(src)
			}
		}
	}

	for c := node.FirstChild; c != nil; c = c.NextSibling {
		walkHTMLDocument(c, opt)
	}
}

func getAttribute(n *html.Node, key string) (string, bool) {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val, true
		}
	}
	return "", false
}

package folio

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html"
	"html/template"
	"io/fs"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
	pkgerrors "github.com/pkg/errors"

	"github.com/foliopress/folio/internal/search"
	"github.com/foliopress/folio/internal/search/query"
	"github.com/foliopress/folio/markdown"
)

const (
	rootTemplateName   = "root"
	postTemplateName   = "post"
	searchTemplateName = "search"
)

//go:embed templates/*.html
var defaultTemplates embed.FS

// PageData is the data available to the HTML template used to render a post preview.
type PageData struct {
	PostPath          string // post path requested
	PostNotFoundError bool   // whether the requested post was not found

	// Post and Doc are the post and its rendering, when it is found.
	Post *Post
	Doc  *markdown.Document

	// Groups is the quick-link navigation for the post.
	Groups []markdown.Group
}

func (l *Library) templates() fs.FS {
	if l.Templates != nil {
		return l.Templates
	}
	sub, _ := fs.Sub(defaultTemplates, "templates")
	return sub
}

func (l *Library) getTemplate(name string, extraFuncs template.FuncMap) (*template.Template, error) {
	tmpl := template.New(rootTemplateName)
	tmpl.Funcs(template.FuncMap{
		"base":       func() string { return l.base().Path },
		"subtract":   func(a, b int) int { return a - b },
		"trimPrefix": strings.TrimPrefix,
		"markdown": func(doc *markdown.Document) template.HTML {
			return template.HTML(doc.HTML)
		},
	})
	tmpl.Funcs(extraFuncs)

	// Read root and named template files.
	templatesFS := l.templates()
	for _, name := range []string{rootTemplateName, name} {
		path := name + ".html"
		data, err := fs.ReadFile(templatesFS, path)
		if name == rootTemplateName && errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, pkgerrors.WithMessage(err, fmt.Sprintf("read template %s", path))
		}
		if _, err := tmpl.Parse(string(data)); err != nil {
			return nil, pkgerrors.WithMessage(err, fmt.Sprintf("parse template %s", path))
		}
	}
	return tmpl, nil
}

// RenderPreview renders a post preview page using the templates.
func (l *Library) RenderPreview(data *PageData) ([]byte, error) {
	tmpl, err := l.getTemplate(postTemplateName, nil)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (l *Library) renderSearchPage(queryStr string, result *search.Result) ([]byte, error) {
	query := query.Parse(queryStr)
	tmpl, err := l.getTemplate(searchTemplateName, template.FuncMap{
		"highlight": func(text string) template.HTML {
			var s []string
			c := 0
			for _, match := range query.FindAllIndex(text) {
				start, end := match[0], match[1]
				if start > c {
					s = append(s, html.EscapeString(text[c:start]))
				}
				s = append(s, "<strong>"+html.EscapeString(text[start:end])+"</strong>")
				c = end
			}
			if c < len(text) {
				s = append(s, html.EscapeString(text[c:]))
			}
			return template.HTML(strings.Join(s, ""))
		},
	})
	if err != nil {
		return nil, err
	}

	data := struct {
		Query  string
		Result *search.Result
	}{
		Query:  queryStr,
		Result: result,
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func isNoCacheRequest(r *http.Request) bool {
	return r.Header.Get("Cache-Control") == "no-cache"
}

func setCacheControl(w http.ResponseWriter, r *http.Request, cacheControl string) {
	if isNoCacheRequest(r) {
		w.Header().Set("Cache-Control", cacheMaxAge0)
	} else {
		w.Header().Set("Cache-Control", cacheControl)
	}
}

func (l *Library) handlePreviewSearch(w http.ResponseWriter, r *http.Request) {
	queryStr := r.URL.Query().Get("q")
	result, err := l.Search(r.Context(), queryStr)
	if err != nil {
		w.Header().Set("Cache-Control", cacheMaxAge0)
		http.Error(w, "search error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	respData, err := l.renderSearchPage(queryStr, result)
	if err != nil {
		w.Header().Set("Cache-Control", cacheMaxAge0)
		http.Error(w, "template error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	setCacheControl(w, r, cacheMaxAgeShort)
	_, _ = w.Write(respData)
}

func (l *Library) handlePreview(w http.ResponseWriter, r *http.Request) {
	urlPath := chi.URLParam(r, "*")

	if isContentAsset(urlPath) {
		// Serve non-Markdown content files (such as images) from the content file system.
		if !fs.ValidPath(strings.Trim(urlPath, "/")) {
			http.NotFound(w, r)
			return
		}
		setCacheControl(w, r, cacheMaxAgeLong)
		http.ServeFileFS(w, r, l.Content, strings.Trim(urlPath, "/"))
		return
	}

	data := PageData{PostPath: urlPath}
	post, err := l.Post(r.Context(), urlPath)
	switch {
	case err == nil:
		// Redirect to the canonical URL (e.g., strip trailing slashes, resolve slugs).
		if post.Path != urlPath {
			http.Redirect(w, r, l.base().ResolveReference(&url.URL{Path: post.Path}).Path, http.StatusMovedPermanently)
			return
		}
		data.Post = post
		data.Groups = markdown.GroupByKind(post.Items)
		data.Doc, err = l.Render(post)
		if err != nil {
			w.Header().Set("Cache-Control", cacheMaxAge0)
			http.Error(w, "render error: "+err.Error(), http.StatusInternalServerError)
			return
		}
	case errors.Is(err, fs.ErrNotExist):
		data.PostNotFoundError = true
	default:
		w.Header().Set("Cache-Control", cacheMaxAge0)
		http.Error(w, "content error: "+err.Error(), http.StatusInternalServerError)
		return
	}

	respData, err := l.RenderPreview(&data)
	if err != nil {
		w.Header().Set("Cache-Control", cacheMaxAge0)
		http.Error(w, "template error: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	// Don't cache errors; do cache on success.
	if data.Post == nil {
		w.Header().Set("Cache-Control", cacheMaxAge0)
		w.WriteHeader(http.StatusNotFound)
	} else {
		setCacheControl(w, r, cacheMaxAgeShort)
	}
	_, _ = w.Write(respData)
}

package folio

import (
	"encoding/json"
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/foliopress/folio/markdown"
)

const (
	cacheMaxAge0     = "max-age=0"
	cacheMaxAgeShort = "max-age=60"
	cacheMaxAgeLong  = "max-age=300"
)

// maxRequestBytes bounds the JSON body of API requests.
const maxRequestBytes = 4 << 20

// Handler returns an http.Handler that serves the JSON API and the post previews. Requests are
// logged to log.
func (l *Library) Handler(log *slog.Logger) http.Handler {
	if log == nil {
		log = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(log))

	r.Get("/health", handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Post("/analyze", handleAnalyze)
		r.Post("/normalize", handleNormalize)
		r.Post("/check", l.handleCheck)
		r.Post("/render", l.handleRender)
		r.Get("/posts", l.handleListPosts)
		r.Get("/posts/*", l.handleGetPost)
		r.Get("/search", l.handleSearch)
	})

	prefix := strings.TrimSuffix(l.base().Path, "/")
	r.Get(prefix+"/search", l.handlePreviewSearch)
	r.Get(prefix+"/*", l.handlePreview)
	return r
}

// RequestLogger logs every request with its status and duration.
func RequestLogger(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(sw, r)
			log.Info("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", sw.status,
				"request_id", middleware.GetReqID(r.Context()),
				"duration_ms", time.Since(start).Milliseconds(),
			)
		})
	}
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// documentRequest is the body of the POST endpoints that take a document.
type documentRequest struct {
	Content string `json:"content"`
	Title   string `json:"title,omitempty"`
}

func readDocumentRequest(w http.ResponseWriter, r *http.Request) (documentRequest, bool) {
	var req documentRequest
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBytes)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return req, false
	}
	return req, true
}

func handleAnalyze(w http.ResponseWriter, r *http.Request) {
	req, ok := readDocumentRequest(w, r)
	if !ok {
		return
	}
	items := markdown.Analyze(req.Content)
	writeJSON(w, http.StatusOK, map[string]any{
		"title":   markdown.Title(req.Content),
		"items":   items,
		"groups":  markdown.GroupByKind(items),
		"outline": markdown.Outline(items),
	})
}

func handleNormalize(w http.ResponseWriter, r *http.Request) {
	req, ok := readDocumentRequest(w, r)
	if !ok {
		return
	}
	out := markdown.Normalize(req.Content, req.Title)
	writeJSON(w, http.StatusOK, map[string]any{
		"content": out,
		"changed": out != req.Content,
	})
}

func (l *Library) handleCheck(w http.ResponseWriter, r *http.Request) {
	req, ok := readDocumentRequest(w, r)
	if !ok {
		return
	}
	problems := markdown.Check(req.Content, l.CheckOptions)
	if problems == nil {
		problems = []markdown.Problem{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"problems": problems})
}

// renderResponse is the JSON form of a rendered markdown.Document.
type renderResponse struct {
	Title   string                  `json:"title"`
	Meta    markdown.Metadata       `json:"meta"`
	HTML    string                  `json:"html"`
	Anchors []string                `json:"anchors"`
	Tree    []*markdown.SectionNode `json:"tree"`
}

func (l *Library) handleRender(w http.ResponseWriter, r *http.Request) {
	req, ok := readDocumentRequest(w, r)
	if !ok {
		return
	}
	doc, err := markdown.Run([]byte(req.Content), markdown.Options{HighlightStyle: l.HighlightStyle})
	if err != nil {
		jsonError(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	writeJSON(w, http.StatusOK, renderResponse{
		Title:   doc.Title,
		Meta:    doc.Meta,
		HTML:    string(doc.HTML),
		Anchors: doc.Anchors,
		Tree:    doc.Tree,
	})
}

func (l *Library) handleListPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := l.AllPosts(r.Context())
	if err != nil {
		jsonError(w, "list posts: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if posts == nil {
		posts = []*Post{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"posts": posts})
}

func (l *Library) handleGetPost(w http.ResponseWriter, r *http.Request) {
	post, err := l.Post(r.Context(), chi.URLParam(r, "*"))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			jsonError(w, "post not found", http.StatusNotFound)
		} else {
			jsonError(w, "post error: "+err.Error(), http.StatusInternalServerError)
		}
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"post":   post,
		"groups": markdown.GroupByKind(post.Items),
	})
}

func (l *Library) handleSearch(w http.ResponseWriter, r *http.Request) {
	result, err := l.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		jsonError(w, "search error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Cache-Control", cacheMaxAge0)
	writeJSON(w, code, map[string]string{"error": msg})
}

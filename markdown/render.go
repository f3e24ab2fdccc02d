package markdown

import (
	"bytes"
	"net/url"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/pkg/errors"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
)

// DefaultHighlightStyle is the chroma style used when Options.HighlightStyle is empty.
const DefaultHighlightStyle = "github"

// Document is a parsed and HTML-rendered Markdown document.
type Document struct {
	// Meta is the document's metadata in the Markdown "front matter", if any.
	Meta Metadata

	// Title is taken from the metadata (if it exists) or else from the text content of the first
	// heading.
	Title string

	// HTML is the rendered Markdown content.
	HTML []byte

	// Tree is the tree of sections (used to show a table of contents).
	Tree []*SectionNode

	// Anchors are the ids of every anchor in HTML, in the order they were assigned.
	Anchors []string
}

// Options customize how Run parses and HTML-renders the Markdown document.
type Options struct {
	// Base is the base URL (typically including only the path, such as "/" or "/help/") to use when
	// resolving relative links.
	Base *url.URL

	// ContentFilePathToLinkPath converts references to file paths of other content files to the URL
	// path to use in links. For example, ContentFilePathToLinkPath("a/index.md") == "a".
	ContentFilePathToLinkPath func(string) string

	// HighlightStyle is the chroma style for fenced code blocks.
	HighlightStyle string
}

// resolve maps a relative link destination to the URL it is served at: content file paths become
// link paths, and the result is resolved against Base. Absolute URLs and fragments are unchanged.
func (o Options) resolve(dest []byte) []byte {
	u, err := url.Parse(string(dest))
	if err != nil || u.IsAbs() || u.Path == "" {
		return dest
	}
	if o.ContentFilePathToLinkPath != nil {
		u.Path = o.ContentFilePathToLinkPath(u.Path)
	}
	if o.Base != nil {
		u = o.Base.ResolveReference(u)
	}
	return []byte(u.String())
}

// NewParser creates a new Markdown parser and renderer (the same one used by Run) that assigns
// anchors the way Analyze does.
func NewParser(opt Options) goldmark.Markdown {
	style := opt.HighlightStyle
	if style == "" {
		style = DefaultHighlightStyle
	}
	return goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			highlighting.NewHighlighting(
				highlighting.WithStyle(style),
				highlighting.WithFormatOptions(chromahtml.WithClasses(true)),
			),
			&extender{Options: opt},
		),
		goldmark.WithParserOptions(parser.WithHeadingAttribute()),
		goldmark.WithRendererOptions(html.WithUnsafe()),
	)
}

// Run parses and HTML-renders a Markdown document (with optional metadata in the Markdown "front
// matter").
func Run(input []byte, opt Options) (*Document, error) {
	meta, markdown, err := ParseMetadata(input)
	if err != nil {
		return nil, err
	}

	md := NewParser(opt)
	pc := parser.NewContext()
	root := md.Parser().Parse(text.NewReader(markdown), parser.WithContext(pc))

	var buf bytes.Buffer
	if err := md.Renderer().Render(&buf, markdown, root); err != nil {
		return nil, errors.WithMessage(err, "render markdown")
	}

	doc := Document{
		Meta:    meta,
		HTML:    buf.Bytes(),
		Tree:    newTree(root, markdown, opt),
		Anchors: anchorsFrom(pc),
	}
	if meta.Title != "" {
		doc.Title = meta.Title
	} else {
		doc.Title = getTitle(root, markdown)
	}
	return &doc, nil
}

func getTitle(root ast.Node, source []byte) string {
	for n := root.FirstChild(); n != nil; n = n.NextSibling() {
		if n.Kind() == KindAnchor {
			continue
		}
		if h, ok := n.(*ast.Heading); ok && h.Level == 1 {
			return string(RenderText(h, source))
		}
		return ""
	}
	return ""
}

// RenderText returns the concatenated text of the inline nodes under node.
func RenderText(node ast.Node, source []byte) []byte {
	var parts [][]byte
	_ = ast.Walk(node, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch n := n.(type) {
		case *ast.Text:
			parts = append(parts, n.Value(source))
			if n.SoftLineBreak() {
				parts = append(parts, []byte(" "))
			}
		case *ast.String:
			parts = append(parts, n.Value)
		}
		return ast.WalkContinue, nil
	})
	return bytes.Join(parts, nil)
}

package markdown

import (
	"bytes"
	"fmt"
	"html"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	goldmarkhtml "github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/util"
)

var _ goldmark.Extender = (*extender)(nil)

// extender adds the analyzer's anchors to the parsed document and renders them, together with
// post-relative links and callout asides.
type extender struct {
	Options
}

func (e *extender) Extend(m goldmark.Markdown) {
	m.Parser().AddOptions(
		parser.WithASTTransformers(
			util.Prioritized(&anchorTransformer{}, 100),
		),
	)
	m.Renderer().AddOptions(
		renderer.WithNodeRenderers(
			util.Prioritized(&nodeRenderer{e.Options}, 10),
		),
	)
}

var _ renderer.NodeRenderer = (*nodeRenderer)(nil)

type nodeRenderer struct {
	Options
}

func (r *nodeRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(ast.KindHeading, r.renderHeading)
	reg.Register(ast.KindHTMLBlock, r.renderHTMLBlock)
	reg.Register(ast.KindRawHTML, r.renderRawHTML)
	reg.Register(ast.KindBlockquote, r.renderBlockquote)
	reg.Register(KindAnchor, r.renderAnchor)
	reg.Register(ast.KindLink, r.renderLink)
	reg.Register(ast.KindImage, r.renderImage)
}

// renderHeading ends every heading that is not itself a link with a "#" permalink to its id.
func (r *nodeRenderer) renderHeading(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	n := node.(*ast.Heading)
	if entering {
		_, _ = fmt.Fprintf(w, "<h%d", n.Level)
		if n.Attributes() != nil {
			goldmarkhtml.RenderAttributes(w, n, goldmarkhtml.HeadingAttributeFilter)
		}
		_ = w.WriteByte('>')
		return ast.WalkContinue, nil
	}
	if id := GetAttributeID(n); id != "" && headingLink(n) == nil {
		_, _ = fmt.Fprintf(w, `<a class="permalink" href="#%s" aria-label="Permalink">#</a>`, html.EscapeString(id))
	}
	_, _ = fmt.Fprintf(w, "</h%d>\n", n.Level)
	return ast.WalkContinue, nil
}

func (r *nodeRenderer) renderHTMLBlock(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	n := node.(*ast.HTMLBlock)
	if !entering {
		if n.HasClosure() {
			_, _ = w.Write(n.ClosureLine.Value(source))
		}
		return ast.WalkContinue, nil
	}
	var val []byte
	for i := 0; i < n.Lines().Len(); i++ {
		seg := n.Lines().At(i)
		val = append(val, seg.Value(source)...)
	}
	_, _ = w.Write(r.rebaseHTML(val))
	return ast.WalkContinue, nil
}

func (r *nodeRenderer) renderRawHTML(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkSkipChildren, nil
	}
	n := node.(*ast.RawHTML)
	var val []byte
	for i := 0; i < n.Segments.Len(); i++ {
		seg := n.Segments.At(i)
		val = append(val, seg.Value(source)...)
	}
	_, _ = w.Write(r.rebaseHTML(val))
	return ast.WalkSkipChildren, nil
}

// rebaseHTML resolves the relative URLs in raw HTML against Base. HTML that does not parse is
// kept as is.
func (r *nodeRenderer) rebaseHTML(val []byte) []byte {
	if r.Base == nil {
		return val
	}
	if v, err := rewriteRelativeURLsInHTML(val, r.Options); err == nil {
		return v
	}
	return val
}

// renderBlockquote renders callouts as <aside>.
func (r *nodeRenderer) renderBlockquote(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	n := node.(*ast.Blockquote)
	tag := "blockquote"
	if class := asideClass(n, source); class != "" {
		tag = "aside"
		if entering {
			n.SetAttributeString("class", []byte(class))
		}
	}
	if !entering {
		_, _ = w.WriteString("</" + tag + ">\n")
		return ast.WalkContinue, nil
	}
	_, _ = w.WriteString("<" + tag)
	if n.Attributes() != nil {
		goldmarkhtml.RenderAttributes(w, n, goldmarkhtml.BlockquoteAttributeFilter)
	}
	_, _ = w.WriteString(">\n")
	return ast.WalkContinue, nil
}

// asideClass returns "callout" for a blockquote the analyzer reported as a callout, "note" or
// "warning" for one whose text starts with "NOTE:" or "WARNING:", and "" for any other.
func asideClass(n *ast.Blockquote, source []byte) string {
	if class, ok := n.AttributeString("class"); ok {
		if b, _ := class.([]byte); len(b) > 0 {
			return string(b)
		}
	}
	p := n.FirstChild()
	if p == nil {
		return ""
	}
	text := linesText(p, source)
	for _, label := range []string{"NOTE", "WARNING"} {
		if bytes.HasPrefix(text, []byte(label+":")) {
			return strings.ToLower(label)
		}
	}
	return ""
}

func (r *nodeRenderer) renderAnchor(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if entering {
		_, _ = fmt.Fprintf(w, `<a id="%s" class="anchor-target" aria-hidden="true"></a>`+"\n", html.EscapeString(node.(*Anchor).ID))
	}
	return ast.WalkSkipChildren, nil
}

func (r *nodeRenderer) renderLink(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	n := node.(*ast.Link)
	if !entering {
		_, _ = w.WriteString("</a>")
		return ast.WalkContinue, nil
	}
	_, _ = w.WriteString(`<a href="`)
	writeURL(w, r.resolve(n.Destination))
	_ = w.WriteByte('"')
	writeTitle(w, n.Title)
	if n.Attributes() != nil {
		goldmarkhtml.RenderAttributes(w, n, goldmarkhtml.LinkAttributeFilter)
	}
	_ = w.WriteByte('>')
	return ast.WalkContinue, nil
}

func (r *nodeRenderer) renderImage(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	n := node.(*ast.Image)
	_, _ = w.WriteString(`<img src="`)
	writeURL(w, r.resolve(n.Destination))
	_, _ = w.WriteString(`" alt="`)
	_, _ = w.Write(util.EscapeHTML(RenderText(n, source)))
	_ = w.WriteByte('"')
	writeTitle(w, n.Title)
	if n.Attributes() != nil {
		goldmarkhtml.RenderAttributes(w, n, goldmarkhtml.ImageAttributeFilter)
	}
	_ = w.WriteByte('>')
	return ast.WalkSkipChildren, nil
}

// writeURL writes an escaped URL, or nothing for a javascript: or similar URL.
func writeURL(w util.BufWriter, dest []byte) {
	if !goldmarkhtml.IsDangerousURL(dest) {
		_, _ = w.Write(util.EscapeHTML(util.URLEscape(dest, true)))
	}
}

func writeTitle(w util.BufWriter, title []byte) {
	if title == nil {
		return
	}
	_, _ = w.WriteString(` title="`)
	_, _ = w.Write(util.EscapeHTML(title))
	_ = w.WriteByte('"')
}

// GetAttributeID returns the id attribute of node, or "".
func GetAttributeID(node ast.Node) string {
	attr, ok := node.AttributeString("id")
	if !ok {
		return ""
	}
	b, _ := attr.([]byte)
	return string(b)
}

// headingLink returns the link that makes up the whole of a heading, or nil.
func headingLink(h *ast.Heading) *ast.Link {
	var link *ast.Link
	for c := h.FirstChild(); c != nil; c = c.NextSibling() {
		if t, ok := c.(*ast.Text); ok && t.Segment.Len() == 0 {
			continue
		}
		l, ok := c.(*ast.Link)
		if !ok || link != nil {
			return nil
		}
		link = l
	}
	return link
}

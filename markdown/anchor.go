package markdown

import (
	"bytes"
	"sort"
	"strings"

	"github.com/yuin/goldmark/ast"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

// Anchor is a block node that renders as an empty link target in front of an element that has no
// id attribute of its own (tables, lists and code blocks).
type Anchor struct {
	ast.BaseBlock
	ID string
}

// KindAnchor is the NodeKind of the Anchor node.
var KindAnchor = ast.NewNodeKind("Anchor")

// Kind implements ast.Node.
func (n *Anchor) Kind() ast.NodeKind { return KindAnchor }

// Dump implements ast.Node.
func (n *Anchor) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{"ID": n.ID}, nil)
}

func newAnchor(id string) *Anchor {
	return &Anchor{ID: id}
}

var anchorsKey = parser.NewContextKey()

func anchorsFrom(pc parser.Context) []string {
	ids, _ := pc.Get(anchorsKey).([]string)
	return ids
}

// anchorTransformer assigns the ids Analyze reports for the same source to the parsed document.
// Elements are matched to analyzer items by the source line they start on; an analyzer id that
// matches no element gets an Anchor in front of the nearest following top-level block.
type anchorTransformer struct{}

func (t *anchorTransformer) Transform(doc *ast.Document, reader text.Reader, pc parser.Context) {
	source := reader.Source()
	items, headings := analyze(string(source))
	lines := newLineIndex(source)

	ids := NewIDs()
	pending := map[int][]string{} // 0-based line -> ids not yet placed
	var order []string
	for _, h := range headings {
		ids.Put(h.id)
	}
	for _, item := range items {
		ids.Put(item.ID)
	}

	headingAt := map[int]string{}
	for _, h := range headings {
		headingAt[h.line] = h.id
	}
	type key struct {
		kind Kind
		line int
	}
	itemAt := map[key]string{}
	images := map[string][]string{} // ImageID base -> ids in document order
	for _, item := range items {
		switch item.Kind {
		case Heading:
		case Image:
			base := imageBase(item.ID)
			images[base] = append(images[base], item.ID)
		default:
			itemAt[key{item.Kind, item.Line - 1}] = item.ID
		}
	}

	type insertion struct {
		target ast.Node
		id     string
	}
	var inserts []insertion
	placed := map[string]bool{}
	place := func(n ast.Node, id string) {
		n.SetAttributeString("id", []byte(id))
		placed[id] = true
	}
	claim := func(k key) (string, bool) {
		id, ok := itemAt[k]
		if ok {
			delete(itemAt, k)
		}
		return id, ok
	}

	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		line := func() int { return lines.of(startOffset(n, source)) }
		switch n := n.(type) {
		case *ast.Heading:
			l := line()
			id, ok := headingAt[l]
			if ok && l >= 0 {
				delete(headingAt, l)
			} else {
				// Not a heading Analyze sees (a setext heading, or one inside a container).
				id, _, _ = HeadingAnchor(string(linesText(n, source)))
				id = ids.Unique(id)
			}
			place(n, id)
			order = append(order, id)
		case *east.Table:
			if id, ok := claim(key{Table, line()}); ok {
				inserts = append(inserts, insertion{n, id})
			}
		case *ast.List:
			kind := StepList
			if isChecklist(n) {
				kind = Checklist
			}
			if id, ok := claim(key{kind, line()}); ok {
				inserts = append(inserts, insertion{n, id})
			}
		case *ast.FencedCodeBlock:
			if id, ok := claim(key{CodeBlock, line()}); ok {
				inserts = append(inserts, insertion{n, id})
			}
		case *ast.Blockquote:
			if id, ok := claim(key{Callout, line()}); ok {
				place(n, id)
				n.SetAttributeString("class", []byte("callout"))
			}
		case *ast.Image:
			base := ImageID(string(n.Destination))
			if queue := images[base]; len(queue) > 0 {
				place(n, queue[0])
				images[base] = queue[1:]
			}
		}
		return ast.WalkContinue, nil
	})

	for _, ins := range inserts {
		ins.target.Parent().InsertBefore(ins.target.Parent(), ins.target, newAnchor(ins.id))
		placed[ins.id] = true
	}

	// Whatever is left could not be matched to an element; give it a bare anchor so every link
	// built from Analyze still resolves.
	for _, h := range headings {
		if !placed[h.id] {
			pending[h.line] = append(pending[h.line], h.id)
		}
	}
	for _, item := range items {
		if item.Kind != Heading && !placed[item.ID] {
			pending[item.Line-1] = append(pending[item.Line-1], item.ID)
		}
	}
	insertPending(doc, source, lines, pending)

	for _, item := range items {
		if item.Kind != Heading {
			order = append(order, item.ID)
		}
	}
	pc.Set(anchorsKey, order)
}

// insertPending puts an Anchor for each pending id in front of the first top-level block that
// starts after its line.
func insertPending(doc *ast.Document, source []byte, lines lineIndex, pending map[int][]string) {
	if len(pending) == 0 {
		return
	}
	keys := make([]int, 0, len(pending))
	for line := range pending {
		keys = append(keys, line)
	}
	sort.Ints(keys)

	type block struct {
		node ast.Node
		line int
	}
	var blocks []block
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		if line := lines.of(startOffset(n, source)); line >= 0 {
			blocks = append(blocks, block{n, line})
		}
	}
	for _, line := range keys {
		i := sort.Search(len(blocks), func(i int) bool { return blocks[i].line > line })
		for _, id := range pending[line] {
			a := newAnchor(id)
			if i < len(blocks) {
				doc.InsertBefore(doc, blocks[i].node, a)
			} else {
				doc.AppendChild(doc, a)
			}
		}
	}
}

// imageBase strips the collision suffix from an image id. ImageID never emits a hyphen after the
// "img-" prefix.
func imageBase(id string) string {
	rest := strings.TrimPrefix(id, "img-")
	if i := strings.IndexByte(rest, '-'); i >= 0 {
		rest = rest[:i]
	}
	return "img-" + rest
}

func isChecklist(list *ast.List) bool {
	if list.IsOrdered() {
		return false
	}
	for item := list.FirstChild(); item != nil; item = item.NextSibling() {
		first := item.FirstChild()
		if first == nil || first.FirstChild() == nil || first.FirstChild().Kind() != east.KindTaskCheckBox {
			return false
		}
	}
	return true
}

// startOffset returns the source offset of the first byte of content that belongs to n, or -1.
func startOffset(n ast.Node, source []byte) int {
	switch n := n.(type) {
	case *ast.Text:
		return n.Segment.Start
	case *ast.FencedCodeBlock:
		if n.Info != nil {
			return n.Info.Segment.Start
		}
		if n.Lines().Len() > 0 {
			// The content starts on the line after the opening fence.
			start := n.Lines().At(0).Start
			if i := bytes.LastIndexByte(source[:start], '\n'); i > 0 {
				return i - 1
			}
		}
		return -1
	}
	if n.Type() == ast.TypeBlock && n.Lines().Len() > 0 {
		return n.Lines().At(0).Start
	}
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if off := startOffset(c, source); off >= 0 {
			return off
		}
	}
	return -1
}

func linesText(n ast.Node, source []byte) []byte {
	var buf bytes.Buffer
	for i := 0; i < n.Lines().Len(); i++ {
		seg := n.Lines().At(i)
		buf.Write(seg.Value(source))
	}
	return bytes.TrimSpace(buf.Bytes())
}

// lineIndex maps source offsets to 0-based line numbers.
type lineIndex []int

func newLineIndex(source []byte) lineIndex {
	var newlines lineIndex
	for i, c := range source {
		if c == '\n' {
			newlines = append(newlines, i)
		}
	}
	return newlines
}

func (l lineIndex) of(offset int) int {
	if offset < 0 {
		return -1
	}
	return sort.SearchInts(l, offset)
}

package markdown

import "github.com/yuin/goldmark/ast"

// SectionNode is a heading and the headings nested under it.
type SectionNode struct {
	Title    string         `json:"title"`
	ID       string         `json:"id"`  // anchor id of the heading
	URL      string         `json:"url"` // "#" + ID, or the target of a heading that is only a link
	Level    int            `json:"level"`
	Children []*SectionNode `json:"children,omitempty"`
}

// newTree nests the headings of a parsed document under the nearest heading of a lower level
// before them. Ids are the ones the anchor transformer assigned.
func newTree(root ast.Node, source []byte, opt Options) []*SectionNode {
	var roots, open []*SectionNode
	_ = ast.Walk(root, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		h, ok := node.(*ast.Heading)
		if !entering || !ok {
			return ast.WalkContinue, nil
		}
		sn := &SectionNode{
			Title: string(RenderText(h, source)),
			ID:    GetAttributeID(h),
			Level: h.Level,
		}
		sn.URL = "#" + sn.ID
		if link := headingLink(h); link != nil && len(link.Destination) > 0 {
			sn.URL = string(opt.resolve(link.Destination))
		}

		for len(open) > 0 && open[len(open)-1].Level >= h.Level {
			open = open[:len(open)-1]
		}
		if len(open) == 0 {
			roots = append(roots, sn)
		} else {
			parent := open[len(open)-1]
			parent.Children = append(parent.Children, sn)
		}
		open = append(open, sn)
		return ast.WalkSkipChildren, nil
	})
	return roots
}

// Outline nests the heading items of an analysis: each level 3 heading becomes a child of the
// level 2 heading before it. Items of other kinds are ignored.
func Outline(items []Item) []*SectionNode {
	var roots []*SectionNode
	var parent *SectionNode
	for _, item := range items {
		if item.Kind != Heading {
			continue
		}
		sn := &SectionNode{Title: item.Label, ID: item.ID, URL: "#" + item.ID, Level: item.Level}
		if item.Level > 2 && parent != nil {
			parent.Children = append(parent.Children, sn)
			continue
		}
		if item.Level == 2 {
			parent = sn
		}
		roots = append(roots, sn)
	}
	return roots
}

package search

import (
	"strings"

	"github.com/foliopress/folio/internal/search/query"
	"github.com/foliopress/folio/markdown"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// SectionResult is a match in one section of a document.
type SectionResult struct {
	ID       string   `json:"id"`       // the URL fragment (without "#") of the section, or empty if in the first section
	Stack    []string `json:"stack"`    // the stack of section IDs
	Excerpts []string `json:"excerpts"` // the match excerpt
}

const excerptMaxLength = 220

// documentSectionResults finds the sections of a Markdown body that match the query. Section IDs
// are the same heading anchors that Analyze and the renderer assign.
func documentSectionResults(data []byte, query query.Query) ([]SectionResult, error) {
	type stackEntry struct {
		id    string
		level int
	}
	stack := []stackEntry{{}}
	cur := func() stackEntry { return stack[len(stack)-1] }

	root := markdown.NewParser(markdown.Options{}).Parser().Parse(text.NewReader(data))
	title := titleHeading(root)

	var results []SectionResult
	addResult := func(excerpts []string) {
		stackIDs := make([]string, len(stack))
		for i, e := range stack {
			stackIDs[i] = e.id
		}
		results = append(results, SectionResult{
			ID:       cur().id,
			Stack:    stackIDs,
			Excerpts: excerpts,
		})
	}

	err := ast.Walk(root, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		heading, isHeading := node.(*ast.Heading)
		if isHeading {
			for heading.Level <= cur().level {
				stack = stack[:len(stack)-1]
			}
			// For the document title heading, use the empty ID.
			var id string
			if node != title {
				id = markdown.GetAttributeID(node)
			}
			stack = append(stack, stackEntry{id: id, level: heading.Level})
		}

		var nodeText string
		switch node.Kind() {
		case ast.KindParagraph, ast.KindTextBlock, ast.KindHeading:
			nodeText = string(markdown.RenderText(node, data))
		case ast.KindCodeBlock, ast.KindFencedCodeBlock:
			nodeText = linesText(node, data)
		default:
			return ast.WalkContinue, nil
		}

		matches := query.FindAllIndex(nodeText)
		if len(matches) == 0 {
			return ast.WalkSkipChildren, nil
		}

		// Don't include excerpts for heading because all of the heading is considered the match.
		var excerpts []string
		if !isHeading {
			excerpts = make([]string, len(matches))
			for i, match := range matches {
				excerpts[i] = excerpt(nodeText, match[0], match[1], excerptMaxLength)
			}
		}

		// Remove the previous heading-only match for the same section, if any. A match with an
		// excerpt is strictly better than one without.
		if len(results) > 0 {
			last := results[len(results)-1]
			if last.ID == cur().id && len(last.Excerpts) == 0 {
				results = results[:len(results)-1]
			}
		}
		addResult(excerpts)
		return ast.WalkSkipChildren, nil
	})
	return results, err
}

// titleHeading returns the level 1 heading that opens the document, if any.
func titleHeading(root ast.Node) ast.Node {
	for n := root.FirstChild(); n != nil; n = n.NextSibling() {
		if n.Kind() == markdown.KindAnchor {
			continue
		}
		if h, ok := n.(*ast.Heading); ok && h.Level == 1 {
			return h
		}
		return nil
	}
	return nil
}

func linesText(node ast.Node, source []byte) string {
	var sb strings.Builder
	lines := node.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		sb.Write(seg.Value(source))
	}
	return sb.String()
}

package markdown

import (
	"bytes"
	"net/url"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestNewTree(t *testing.T) {
	doc := render(t, `# Guide

## Install

### From source

#### Requirements

### With go install

## Install

`+"```sh\n# not a heading\n```"+`

## Reference {#ref}

# Appendix

### Skipped level
`, Options{})
	want := []*SectionNode{
		{
			Title: "Guide", ID: "guide", URL: "#guide", Level: 1,
			Children: []*SectionNode{
				{
					Title: "Install", ID: "install", URL: "#install", Level: 2,
					Children: []*SectionNode{
						{
							Title: "From source", ID: "from-source", URL: "#from-source", Level: 3,
							Children: []*SectionNode{
								{Title: "Requirements", ID: "requirements", URL: "#requirements", Level: 4},
							},
						},
						{Title: "With go install", ID: "with-go-install", URL: "#with-go-install", Level: 3},
					},
				},
				{Title: "Install", ID: "install-1", URL: "#install-1", Level: 2},
				{Title: "Reference", ID: "ref", URL: "#ref", Level: 2},
			},
		},
		{
			Title: "Appendix", ID: "appendix", URL: "#appendix", Level: 1,
			Children: []*SectionNode{
				{Title: "Skipped level", ID: "skipped-level", URL: "#skipped-level", Level: 3},
			},
		},
	}
	if diff := cmp.Diff(want, doc.Tree); diff != "" {
		t.Errorf("tree mismatch (-want +got):\n%s", diff)
	}
}

func TestNewTree_linkHeading(t *testing.T) {
	doc := render(t, "## [Changelog](changelog.md)\n\n## Notes", Options{
		Base:                      &url.URL{Path: "/posts/"},
		ContentFilePathToLinkPath: func(p string) string { return strings.TrimSuffix(p, ".md") },
	})
	want := []*SectionNode{
		{Title: "Changelog", ID: "changelog", URL: "/posts/changelog", Level: 2},
		{Title: "Notes", ID: "notes", URL: "#notes", Level: 2},
	}
	if diff := cmp.Diff(want, doc.Tree); diff != "" {
		t.Errorf("tree mismatch (-want +got):\n%s", diff)
	}
	if bytes.Contains(doc.HTML, []byte(`href="#changelog"`)) {
		t.Errorf("link heading got a permalink:\n%s", doc.HTML)
	}
}

func TestOutline(t *testing.T) {
	items := Analyze("# Title\n\n### Orphan\n\n## A\n\n### A1\n\n### A2\n\n## B\n")
	want := []*SectionNode{
		{Title: "Orphan", ID: "orphan", URL: "#orphan", Level: 3},
		{
			Title: "A", ID: "a", URL: "#a", Level: 2,
			Children: []*SectionNode{
				{Title: "A1", ID: "a1", URL: "#a1", Level: 3},
				{Title: "A2", ID: "a2", URL: "#a2", Level: 3},
			},
		},
		{Title: "B", ID: "b", URL: "#b", Level: 2},
	}
	if diff := cmp.Diff(want, Outline(items)); diff != "" {
		t.Errorf("outline mismatch (-want +got):\n%s", diff)
	}
}

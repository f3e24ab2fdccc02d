package markdown

import (
	"bytes"
	"net/url"
	"strings"
	"testing"

	"golang.org/x/net/html"
)

func render(t *testing.T, input string, opt Options) *Document {
	t.Helper()
	doc, err := Run([]byte(input), opt)
	if err != nil {
		t.Fatal(err)
	}
	return doc
}

func TestMarkdown(t *testing.T) {
	got := strings.TrimSpace(string(render(t, "Hello world **cool**, and #1!", Options{}).HTML))
	want := "<p>Hello world <strong>cool</strong>, and #1!</p>"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestRelativeURL(t *testing.T) {
	got := strings.TrimSpace(string(render(t, "[a](./b/c)", Options{Base: &url.URL{Path: "/d/"}}).HTML))
	want := `<p><a href="/d/b/c">a</a></p>`
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestHeadingAnchorLink(t *testing.T) {
	got := strings.TrimSpace(string(render(t, `## A & B`, Options{}).HTML))
	want := `<h2 id="a-b">A &amp; B<a class="permalink" href="#a-b" aria-label="Permalink">#</a></h2>`
	if got != want {
		t.Errorf("\ngot:  %s\nwant: %s", got, want)
	}
}

func TestRun_links(t *testing.T) {
	tests := map[string]string{
		`[x](/a "T<b>")`:           `<p><a href="/a" title="T&lt;b&gt;">x</a></p>`,
		"[x](#setup)":              `<p><a href="#setup">x</a></p>`,
		"[x](https://example.com)": `<p><a href="https://example.com">x</a></p>`,
		"[x](javascript:alert(1))": `<p><a href="">x</a></p>`,
	}
	for input, want := range tests {
		t.Run(input, func(t *testing.T) {
			got := strings.TrimSpace(string(render(t, input, Options{Base: &url.URL{Path: "/posts/"}}).HTML))
			if got != want {
				t.Errorf("got %q, want %q", got, want)
			}
		})
	}
}

func TestRun_title(t *testing.T) {
	tests := map[string]string{
		"# Hello *there*\n\ntext":          "Hello there",
		"---\ntitle: From meta\n---\n# H1": "From meta",
		"text\n\n# Late":                   "",
	}
	for input, want := range tests {
		t.Run(input, func(t *testing.T) {
			if got := render(t, input, Options{}).Title; got != want {
				t.Errorf("got %q, want %q", got, want)
			}
		})
	}
}

func TestRun_callout(t *testing.T) {
	doc := render(t, "> ⚠️ **Warning**\n> be careful\n", Options{})
	if want := `<aside id="callout-1" class="callout">`; !bytes.Contains(doc.HTML, []byte(want)) {
		t.Errorf("got %s, want it to contain %s", doc.HTML, want)
	}

	doc = render(t, "> NOTE: plain note\n", Options{})
	if want := `<aside class="note">`; !bytes.Contains(doc.HTML, []byte(want)) {
		t.Errorf("got %s, want it to contain %s", doc.HTML, want)
	}
}

func TestRun_highlighting(t *testing.T) {
	doc := render(t, "```go\npackage main\n```\n", Options{})
	if !bytes.Contains(doc.HTML, []byte(`class="chroma"`)) {
		t.Errorf("code block was not highlighted: %s", doc.HTML)
	}
	if !bytes.Contains(doc.HTML, []byte(`<a id="code-1" class="anchor-target" aria-hidden="true"></a>`)) {
		t.Errorf("code block has no anchor: %s", doc.HTML)
	}
}

const contractDocument = `# Guide

Intro paragraph with ![Logo](images/logo.png).

## Setup

| Tool | Version |
|------|---------|
| go   | 1.23    |

- [x] Install
- [ ] Configure

` + "```go\npackage main\n```" + `

> ⚠️ **Warning**
> be careful

1. One
2. Two
3. Three

## Setup

### Custom {#my-anchor}

Setext Heading
--------------

#

<div>
# not a heading
</div>

![Logo again](images/logo.png)
`

// Every anchor the analyzer links to must exist in the rendered document, exactly once.
func TestRun_anchorContract(t *testing.T) {
	docs := map[string]string{
		"mixed":        contractDocument,
		"empty":        "",
		"only code":    "```\n# not a heading\n```\n",
		"front matter": "---\ntitle: T\n---\n## A\n\n## A\n",
		"duplicates":   "## Table 1\n\n| a | b |\n|---|---|\n| 1 | 2 |\n\n## table-1\n",
	}
	for name, input := range docs {
		t.Run(name, func(t *testing.T) {
			doc := render(t, input, Options{})
			got := htmlIDs(t, doc.HTML)

			_, body, err := ParseMetadata([]byte(input))
			if err != nil {
				t.Fatal(err)
			}
			for _, id := range Anchors(string(body)) {
				switch got[id] {
				case 0:
					t.Errorf("anchor %q missing from HTML:\n%s", id, doc.HTML)
				case 1:
				default:
					t.Errorf("anchor %q appears %d times in HTML", id, got[id])
				}
			}
			for _, item := range Analyze(string(body)) {
				if got[item.ID] == 0 {
					t.Errorf("item %q missing from HTML", item.ID)
				}
			}
		})
	}
}

func TestRun_anchorPlacement(t *testing.T) {
	doc := render(t, contractDocument, Options{})
	for _, want := range []string{
		`<h2 id="setup">`,
		`<h2 id="setup-1">`,
		`<h3 id="my-anchor">`,
		`<h2 id="setext-heading">`,
		`<a id="table-1" class="anchor-target" aria-hidden="true"></a>`,
		`<a id="checklist-1" class="anchor-target" aria-hidden="true"></a>`,
		`<a id="steps-1" class="anchor-target" aria-hidden="true"></a>`,
		`<img src="images/logo.png" alt="Logo" id="img-imageslogopng">`,
		`<img src="images/logo.png" alt="Logo again" id="img-imageslogopng-1">`,
	} {
		if !bytes.Contains(doc.HTML, []byte(want)) {
			t.Errorf("HTML does not contain %s:\n%s", want, doc.HTML)
		}
	}
}

func htmlIDs(t *testing.T, src []byte) map[string]int {
	t.Helper()
	root, err := html.Parse(bytes.NewReader(src))
	if err != nil {
		t.Fatal(err)
	}
	ids := map[string]int{}
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			for _, attr := range n.Attr {
				if attr.Key == "id" {
					ids[attr.Val]++
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return ids
}

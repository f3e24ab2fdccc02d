package markdown

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestAnalyze(t *testing.T) {
	tests := map[string]struct {
		input string
		want  []Item
	}{
		"headings": {
			input: "# Title\n## Getting Started!\n### Install\n#### Deep\n## Getting Started!\n",
			want: []Item{
				{ID: "getting-started", Kind: Heading, Label: "Getting Started!", Level: 2, Line: 2},
				{ID: "install", Kind: Heading, Label: "Install", Level: 3, Line: 3},
				{ID: "getting-started-1", Kind: Heading, Label: "Getting Started!", Level: 2, Line: 5},
			},
		},
		"explicit heading id": {
			input: "## Intro {#start}\n## Intro\n",
			want: []Item{
				{ID: "start", Kind: Heading, Label: "Intro", Level: 2, Line: 1},
				{ID: "intro", Kind: Heading, Label: "Intro", Level: 2, Line: 2},
			},
		},
		"table": {
			input: "## Pricing\n| Plan | Price |\n|------|-------|\n| Free | $0 |\n| Pro | $10 |\n",
			want: []Item{
				{ID: "pricing", Kind: Heading, Label: "Pricing", Level: 2, Line: 1},
				{ID: "table-1", Kind: Table, Label: "Pricing", Count: 2, Line: 2},
			},
		},
		"table without usable context": {
			input: "## Plans, prices\n\n| a | b |\n|---|---|\n| 1 | 2 |\n",
			want: []Item{
				{ID: "plans-prices", Kind: Heading, Label: "Plans, prices", Level: 2, Line: 1},
				{ID: "table-1", Kind: Table, Label: "Table 1", Count: 1, Line: 3},
			},
		},
		"table id collides with heading": {
			input: "## Table 1\n\n| a | b |\n|---|---|\n| 1 | 2 |\n",
			want: []Item{
				{ID: "table-1", Kind: Heading, Label: "Table 1", Level: 2, Line: 1},
				{ID: "table-1-1", Kind: Table, Label: "Table 1", Count: 1, Line: 3},
			},
		},
		"header without rows": {
			input: "| a | b |\n|---|---|\n",
		},
		"checklist": {
			input: "## Launch\n- [x] Write\n- [ ] Test\n- [X] Ship\n",
			want: []Item{
				{ID: "launch", Kind: Heading, Label: "Launch", Level: 2, Line: 1},
				{ID: "checklist-1", Kind: Checklist, Label: "Launch (2/3)", Count: 3, Completed: 2, Line: 2},
			},
		},
		"checklist without heading": {
			input: "- [ ] a\n- [ ] b\n",
			want: []Item{
				{ID: "checklist-1", Kind: Checklist, Label: "Checklist 1 (0/2)", Count: 2, Line: 1},
			},
		},
		"code": {
			input: "```go\n// main entry point\npackage main\n```\n\n```\n\n```\n",
			want: []Item{
				{ID: "code-1", Kind: CodeBlock, Label: "main entry point", Language: "go", Line: 1},
				{ID: "code-2", Kind: CodeBlock, Label: "Code block 2", Line: 6},
			},
		},
		"code hides structure": {
			input: "```\n## not a heading\n| a | b |\n```\n",
			want: []Item{
				{ID: "code-1", Kind: CodeBlock, Label: "not a heading", Line: 1},
			},
		},
		"tilde fences and unterminated blocks are not code items": {
			input: "~~~\n## hidden\n~~~\n```go\nfmt.Println()\n",
		},
		"images": {
			input: "See ![Logo](img/logo.png \"title\") and `![not](x.png)`\n\n![](img/logo.png)\n",
			want: []Item{
				{ID: "img-imglogopng", Kind: Image, Label: "Logo", Line: 1},
				{ID: "img-imglogopng-1", Kind: Image, Label: "Image 2", Line: 3},
			},
		},
		"callout": {
			input: "> ⚠️ **Warning**\n> be careful\n\n> 💡**Tip** text\n",
			want: []Item{
				{ID: "callout-1", Kind: Callout, Label: "Warning", Line: 1},
				{ID: "callout-2", Kind: Callout, Label: "Tip", Line: 4},
			},
		},
		"steps": {
			input: "## Deploy\n1. Build\n2. Push\n3. Release\n\n1. Only\n2. Two\n",
			want: []Item{
				{ID: "deploy", Kind: Heading, Label: "Deploy", Level: 2, Line: 1},
				{ID: "steps-1", Kind: StepList, Label: "Deploy", Count: 3, Line: 2},
			},
		},
		"empty": {
			input: "",
		},
		"whitespace": {
			input: "  \n\t\n",
		},
	}
	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			got := Analyze(test.input)
			if diff := cmp.Diff(test.want, got); diff != "" {
				t.Errorf("items mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestAnalyze_uniqueIDs(t *testing.T) {
	input := "## Code 1\n## code-1\n```sh\nls\n```\n## img-a\n![a](a)\n![a](a)\n"
	seen := map[string]bool{}
	for _, item := range Analyze(input) {
		if seen[item.ID] {
			t.Errorf("duplicate id %q", item.ID)
		}
		seen[item.ID] = true
	}
}

func TestAnalyze_crlf(t *testing.T) {
	want := Analyze("## A\n| a | b |\n|---|---|\n| 1 | 2 |\n")
	got := Analyze("## A\r\n| a | b |\r\n|---|---|\r\n| 1 | 2 |\r\n")
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("CRLF input analyzed differently (-want +got):\n%s", diff)
	}
}

func TestAnchors(t *testing.T) {
	got := Anchors("# T\n## A\n| a | b |\n|---|---|\n| 1 | 2 |\n")
	want := []string{"t", "a", "table-1"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("anchors mismatch (-want +got):\n%s", diff)
	}
}

func TestImageID(t *testing.T) {
	tests := map[string]string{
		"img/logo.png": "img-imglogopng",
		"https://example.com/a/very/long/path/image.png": "img-httpsexamplecomavery",
		"": "img-",
	}
	for input, want := range tests {
		t.Run(input, func(t *testing.T) {
			if got := ImageID(input); got != want {
				t.Errorf("got %q, want %q", got, want)
			}
		})
	}
}

func TestTitle(t *testing.T) {
	tests := map[string]string{
		"intro\n# **Main** title\n# Second": "Main title",
		"## Only a section":                 "",
		"```\n# not a title\n```":           "",
	}
	for input, want := range tests {
		t.Run(input, func(t *testing.T) {
			if got := Title(input); got != want {
				t.Errorf("got %q, want %q", got, want)
			}
		})
	}
}

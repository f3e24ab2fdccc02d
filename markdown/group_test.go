package markdown

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestGroupByKind(t *testing.T) {
	items := Analyze("## A\n- [ ] x\n## B\n```sh\nls\n```\n- [x] y\n")
	var got []string
	for _, g := range GroupByKind(items) {
		for _, item := range g.Items {
			got = append(got, g.Title+":"+item.ID)
		}
	}
	want := []string{"Headings:a", "Headings:b", "Checklists:checklist-1", "Checklists:checklist-2", "Code:code-1"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("groups mismatch (-want +got):\n%s", diff)
	}
	if GroupByKind(nil) != nil {
		t.Error("want no groups for no items")
	}
}

func TestActiveID(t *testing.T) {
	items := []Item{
		{ID: "a", Kind: Heading},
		{ID: "table-1", Kind: Table},
		{ID: "b", Kind: Heading},
		{ID: "c", Kind: Heading},
	}
	offsets := map[string]int{"a": 100, "table-1": 300, "b": 900, "c": 2000}
	tests := map[string]struct {
		scrollY int
		want    string
	}{
		"above everything": {scrollY: -100, want: ""},
		"top":              {scrollY: 0, want: "a"},
		"within offset":    {scrollY: 750, want: "b"},
		"just short":       {scrollY: 749, want: "a"},
		"bottom":           {scrollY: 5000, want: "c"},
	}
	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			if got := ActiveID(items, offsets, test.scrollY); got != test.want {
				t.Errorf("got %q, want %q", got, test.want)
			}
		})
	}
}

func TestKind_String(t *testing.T) {
	for _, k := range Kinds {
		if k.String() == "unknown" || k.Title() == "Other" {
			t.Errorf("kind %d has no name", k)
		}
	}
	if Kind(99).String() != "unknown" {
		t.Error("want unknown for out-of-range kind")
	}
}

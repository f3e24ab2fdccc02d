package query

import (
	"reflect"
	"testing"
)

func TestParse(t *testing.T) {
	tests := map[string]struct {
		terms, excluded []string
	}{
		"":                           {},
		"  Setup setup ":             {terms: []string{"setup"}},
		`"Getting  Started" install`: {terms: []string{"getting started", "install"}},
		"go -draft -Draft":           {terms: []string{"go"}, excluded: []string{"draft"}},
		`-"work in progress" notes`:  {terms: []string{"notes"}, excluded: []string{"work in progress"}},
		`""`:                         {},
		"-":                          {terms: []string{"-"}},
	}
	for input, want := range tests {
		t.Run(input, func(t *testing.T) {
			q := Parse(input)
			if got := texts(q.terms); !reflect.DeepEqual(got, want.terms) {
				t.Errorf("got terms %q, want %q", got, want.terms)
			}
			if got := texts(q.excluded); !reflect.DeepEqual(got, want.excluded) {
				t.Errorf("got excluded %q, want %q", got, want.excluded)
			}
			if q.String() != input {
				t.Errorf("got %q, want %q", q.String(), input)
			}
			if q.IsEmpty() != (len(want.terms) == 0) {
				t.Errorf("got IsEmpty %v", q.IsEmpty())
			}
		})
	}
}

func texts(terms []term) []string {
	var s []string
	for _, t := range terms {
		s = append(s, t.text)
	}
	return s
}

func TestQuery_FindAllIndex(t *testing.T) {
	tests := map[string]struct {
		text  string
		query string
		want  []Match
	}{
		"repeated": {
			text:  "make test && make lint",
			query: "make",
			want:  []Match{{0, 4}, {13, 17}},
		},
		"in text order": {
			text:  "## Install\n\nRun make.",
			query: "make install",
			want:  []Match{{3, 10}, {16, 20}},
		},
		"case insensitive": {
			text:  "Folio folio",
			query: "FOLIO",
			want:  []Match{{0, 5}, {6, 11}},
		},
		"phrase across lines": {
			text:  "Getting\nstarted with folio",
			query: `"getting started"`,
			want:  []Match{{0, 15}},
		},
		"overlaps merged": {
			text:  "checklists",
			query: "check checklist list",
			want:  []Match{{0, 9}},
		},
		"excluded terms are not matches": {
			text:  "draft post",
			query: "post -draft",
			want:  []Match{{6, 10}},
		},
		"no match": {
			text:  "aa",
			query: "b",
			want:  nil,
		},
	}
	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			if got := Parse(test.query).FindAllIndex(test.text); !reflect.DeepEqual(got, test.want) {
				t.Errorf("got matches %v, want %v", got, test.want)
			}
		})
	}
}

func TestQuery_Score(t *testing.T) {
	q := Parse("setup go")

	inTitle := q.Score(Target{Path: "a.md", Title: "Setup", Text: []byte("nothing")})
	inName := q.Score(Target{Path: "guides/setup.md", Text: []byte("nothing")})
	allInText := q.Score(Target{Path: "a.md", Text: []byte("setup for go")})
	oneInText := q.Score(Target{Path: "a.md", Text: []byte("setup only")})

	if inTitle != inName {
		t.Errorf("got title score %v != file name score %v", inTitle, inName)
	}
	if inTitle <= allInText {
		t.Errorf("got title score %v <= text score %v", inTitle, allInText)
	}
	if allInText <= oneInText || oneInText <= 0 {
		t.Errorf("got scores %v (all terms), %v (one term), want all > one > 0", allInText, oneInText)
	}
	if got := q.Score(Target{Path: "a.md", Text: []byte("text")}); got != 0 {
		t.Errorf("got score %v for no match, want 0", got)
	}
	if q.Match(Target{Path: "a.md", Text: []byte("text")}) {
		t.Error("want no match")
	}
}

func TestQuery_Score_excluded(t *testing.T) {
	q := Parse("setup -draft")
	for _, target := range []Target{
		{Path: "setup.md", Text: []byte("a draft")},
		{Path: "setup.md", Title: "Draft setup"},
		{Path: "draft.md", Text: []byte("setup")},
	} {
		if q.Match(target) {
			t.Errorf("%+v: want no match", target)
		}
	}
	if !q.Match(Target{Path: "setup.md"}) {
		t.Error("want match")
	}
}

package index

import (
	"context"
	"reflect"
	"testing"

	"github.com/foliopress/folio/internal/search/query"
)

func TestIndex_Search(t *testing.T) {
	ctx := context.Background()
	idx, err := New()
	if err != nil {
		t.Fatal(err)
	}
	docs := []Document{
		{ID: "install.md", Title: "Installing folio", Data: []byte("# Installing folio\n\nRun make.")},
		{ID: "guides/config.md", Title: "Configuration", Data: []byte("Install first, then edit folio.yaml.")},
		{ID: "drafts/install-notes.md", Title: "Notes", Data: []byte("install draft")},
		{ID: "about.md", Title: "About", Data: []byte("Nothing here.")},
	}
	for _, doc := range docs {
		if err := idx.Add(ctx, doc); err != nil {
			t.Fatal(err)
		}
	}
	if got, want := idx.Len(), 4; got != want {
		t.Errorf("got %d documents, want %d", got, want)
	}

	tests := map[string][]DocID{
		"install":           {"drafts/install-notes.md", "install.md", "guides/config.md"},
		"install -draft":    {"install.md", "guides/config.md"},
		`"edit folio.yaml"`: {"guides/config.md"},
		"nonexistent":       nil,
		"-draft":            nil,
		"":                  nil,
	}
	for queryStr, want := range tests {
		t.Run(queryStr, func(t *testing.T) {
			result, err := idx.Search(ctx, query.Parse(queryStr))
			if err != nil {
				t.Fatal(err)
			}
			var ids []DocID
			for _, dr := range result.DocumentResults {
				ids = append(ids, dr.ID)
			}
			if !reflect.DeepEqual(ids, want) {
				t.Errorf("got %v, want %v", ids, want)
			}
			if result.Total != len(want) {
				t.Errorf("got total %d, want %d", result.Total, len(want))
			}
		})
	}
}

func TestIndex_Search_canceled(t *testing.T) {
	idx, _ := New()
	ctx, cancel := context.WithCancel(context.Background())
	_ = idx.Add(ctx, Document{ID: "a.md", Data: []byte("a")})
	cancel()
	if _, err := idx.Search(ctx, query.Parse("a")); err != context.Canceled {
		t.Errorf("got error %v, want %v", err, context.Canceled)
	}
}

package index

import (
	"context"
	"sort"

	"github.com/foliopress/folio/internal/search/query"
)

// Result lists the posts a query selects, best first.
type Result struct {
	DocumentResults []DocumentResult `json:"documentResults"`
	Total           int              `json:"total"`
}

// DocumentResult is one selected post and its score.
type DocumentResult struct {
	Document
	Score float64 `json:"score"`
}

// Search scores every document against q. Documents with equal scores are ordered by ID. An
// empty query selects nothing.
func (i *Index) Search(ctx context.Context, q query.Query) (*Result, error) {
	if q.IsEmpty() {
		return &Result{}, nil
	}

	i.mu.RLock()
	defer i.mu.RUnlock()

	var results []DocumentResult
	for _, doc := range i.index {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		score := q.Score(query.Target{Path: string(doc.ID), Title: doc.Title, Text: doc.Data})
		if score > 0 {
			results = append(results, DocumentResult{Document: doc, Score: score})
		}
	}
	sort.Slice(results, func(a, b int) bool {
		if results[a].Score != results[b].Score {
			return results[a].Score > results[b].Score
		}
		return results[a].ID < results[b].ID
	})
	return &Result{DocumentResults: results, Total: len(results)}, nil
}

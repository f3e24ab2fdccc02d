// Package search finds the documents and sections that match a query.
package search

import (
	"context"

	"github.com/foliopress/folio/internal/search/index"
	"github.com/foliopress/folio/internal/search/query"
	"github.com/pkg/errors"
)

// Result is the result of a search.
type Result struct {
	Query           string           `json:"query"`
	DocumentResults []DocumentResult `json:"documentResults"`
	Total           int              `json:"total"` // total number of document results
}

// DocumentResult is the result of a search for a single document
type DocumentResult struct {
	index.DocumentResult
	SectionResults []SectionResult `json:"sectionResults"`
}

// Search runs the query against the index and breaks each matching document down into the
// sections that match.
func Search(ctx context.Context, query query.Query, index *index.Index) (*Result, error) {
	result0, err := index.Search(ctx, query)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Query:           query.String(),
		DocumentResults: make([]DocumentResult, len(result0.DocumentResults)),
		Total:           result0.Total,
	}
	for i, dr := range result0.DocumentResults {
		srs, err := documentSectionResults(dr.Data, query)
		if err != nil {
			return nil, errors.WithMessagef(err, "document section results for %q", dr.ID)
		}
		result.DocumentResults[i] = DocumentResult{
			DocumentResult: dr,
			SectionResults: srs,
		}
	}
	return result, nil
}

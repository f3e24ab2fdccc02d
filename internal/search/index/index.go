package index

import (
	"context"
	"sync"
)

// DocID is a unique identifier of a document in an index.
type DocID string

// Document is a document to be indexed.
type Document struct {
	ID    DocID  `json:"id"`    // the document ID (the content file path)
	Title string `json:"title"` // the document title
	URL   string `json:"url"`   // the URL where the document is served
	Data  []byte `json:"-"`     // the Markdown body
}

// Index is a search index.
type Index struct {
	mu    sync.RWMutex
	index map[DocID]Document
}

// New returns a new index.
func New() (*Index, error) {
	return &Index{index: map[DocID]Document{}}, nil
}

// Add adds a document to the index, replacing any document with the same ID.
func (i *Index) Add(ctx context.Context, doc Document) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.index[doc.ID] = doc
	return nil
}

// Len returns the number of documents in the index.
func (i *Index) Len() int {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return len(i.index)
}

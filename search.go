package folio

import (
	"context"
	"net/url"

	"github.com/foliopress/folio/internal/search"
	"github.com/foliopress/folio/internal/search/index"
	"github.com/foliopress/folio/internal/search/query"
)

// Search searches all posts for a query. Section results are keyed by the same anchors that
// Post.Items lists.
func (l *Library) Search(ctx context.Context, queryStr string) (*search.Result, error) {
	posts, err := l.AllPosts(ctx)
	if err != nil {
		return nil, err
	}

	idx, err := index.New()
	if err != nil {
		return nil, err
	}
	for _, post := range posts {
		if err := idx.Add(ctx, index.Document{
			ID:    index.DocID(post.FilePath),
			Title: post.Title,
			URL:   l.base().ResolveReference(&url.URL{Path: post.Path}).String(),
			Data:  []byte(post.Body),
		}); err != nil {
			return nil, err
		}
	}

	return search.Search(ctx, query.Parse(queryStr), idx)
}

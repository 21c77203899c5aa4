// Package storage defines the persistence interface and its implementations.
package storage

import (
	"context"

	"mediawatch/internal/model"
)

// Storage is the interface for all persistence operations.
type Storage interface {
	// InsertArticle stores an article keyed by its hyperlink. It reports
	// whether the article was new; an already-known hyperlink is a no-op.
	InsertArticle(ctx context.Context, a *model.Article) (bool, error)
	// ListArticles returns the full collection in load order.
	ListArticles(ctx context.Context) ([]model.Article, error)
	CountArticles(ctx context.Context) (int64, error)

	// GetValue reads a key from the key-value store. A missing key
	// returns ("", nil).
	GetValue(ctx context.Context, key string) (string, error)
	// PutValueIfAbsent stores value under key unless the key already
	// exists, and returns the value that ended up stored. A concurrent
	// first writer always wins.
	PutValueIfAbsent(ctx context.Context, key, value string) (string, error)

	Close() error
}

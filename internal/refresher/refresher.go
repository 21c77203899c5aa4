// Package refresher keeps the article collection current by periodically
// downloading the configured RSS feeds and storing items it has not seen.
package refresher

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"mediawatch/internal/ingest"
	"mediawatch/internal/model"
	"mediawatch/internal/storage"
)

// Notifier receives articles that were newly added during a refresh pass.
type Notifier interface {
	NotifyNewArticles(ctx context.Context, articles []model.Article)
}

// Refresher periodically fetches feeds and ingests new articles.
type Refresher struct {
	store    storage.Storage
	fetcher  *ingest.Fetcher
	notifier Notifier
	log      *slog.Logger
	feeds    []string
	tick     time.Duration
}

// New creates a Refresher with the default HTTP client.
func New(store storage.Storage, feeds []string, notifier Notifier, log *slog.Logger) *Refresher {
	return &Refresher{
		store:    store,
		fetcher:  ingest.NewFetcher(http.DefaultClient),
		notifier: notifier,
		log:      log,
		feeds:    feeds,
		tick:     60 * time.Minute,
	}
}

// NewWithFetcher creates a Refresher with a custom fetcher (useful for testing).
func NewWithFetcher(store storage.Storage, f *ingest.Fetcher, feeds []string, notifier Notifier, log *slog.Logger) *Refresher {
	return &Refresher{
		store:    store,
		fetcher:  f,
		notifier: notifier,
		log:      log,
		feeds:    feeds,
		tick:     60 * time.Minute,
	}
}

// SetTickInterval overrides the default 60-minute refresh interval.
func (r *Refresher) SetTickInterval(d time.Duration) {
	r.tick = d
}

// Run starts the refresh loop, blocking until ctx is cancelled.
func (r *Refresher) Run(ctx context.Context) {
	r.refreshAll(ctx)

	ticker := time.NewTicker(r.tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.refreshAll(ctx)
		}
	}
}

func (r *Refresher) refreshAll(ctx context.Context) {
	var added []model.Article

	for _, url := range r.feeds {
		if ctx.Err() != nil {
			return
		}
		added = append(added, r.refreshFeed(ctx, url)...)
	}

	if len(added) > 0 {
		r.log.Info("ingested new articles", "count", len(added))
		if r.notifier != nil {
			r.notifier.NotifyNewArticles(ctx, added)
		}
	}
}

func (r *Refresher) refreshFeed(ctx context.Context, url string) []model.Article {
	r.log.Debug("checking feed", "url", url)

	articles, err := r.fetcher.Fetch(ctx, url)
	if err != nil {
		r.log.Error("fetch feed", "url", url, "error", err)
		return nil
	}

	var added []model.Article
	for i := range articles {
		inserted, err := r.store.InsertArticle(ctx, &articles[i])
		if err != nil {
			r.log.Error("insert article", "hyperlink", articles[i].Hyperlink, "error", err)
			continue
		}
		if inserted {
			added = append(added, articles[i])
		}
	}
	return added
}

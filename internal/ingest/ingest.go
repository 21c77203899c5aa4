// Package ingest loads articles into the collection, either from a JSON
// seed file or by downloading and parsing RSS feeds.
package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"mediawatch/internal/model"
)

// HTTPClient is the interface for performing HTTP requests.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// LoadFile reads a JSON array of articles from path. Sources that emit
// 0/1 attribute flags and ones that emit booleans both decode.
func LoadFile(path string) ([]model.Article, error) {
	data, err := os.ReadFile(path) //nolint:gosec // operator-supplied seed path
	if err != nil {
		return nil, fmt.Errorf("read articles file: %w", err)
	}

	var articles []model.Article
	if err := json.Unmarshal(data, &articles); err != nil {
		return nil, fmt.Errorf("parse articles file: %w", err)
	}
	return articles, nil
}

// Fetcher downloads RSS feeds and converts their items into articles.
type Fetcher struct {
	client HTTPClient
}

// NewFetcher creates a Fetcher with the given HTTP client.
func NewFetcher(client HTTPClient) *Fetcher {
	return &Fetcher{client: client}
}

// Fetch downloads url and returns its items as articles in feed order.
func (f *Fetcher) Fetch(ctx context.Context, url string) ([]model.Article, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", "MediawatchBot/1.0")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http get: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 5*1024*1024))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	feed, err := gofeed.NewParser().ParseString(string(body))
	if err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}

	articles := make([]model.Article, 0, len(feed.Items))
	for _, item := range feed.Items {
		articles = append(articles, feedItemToArticle(feed, item))
	}
	return articles, nil
}

// feedItemToArticle maps an RSS item onto the Article shape. Fields the
// feed cannot supply (company, country, attribute flags) stay zero and
// are filled by downstream enrichment or simply unconstrained in filters.
func feedItemToArticle(feed *gofeed.Feed, item *gofeed.Item) model.Article {
	a := model.Article{
		Hyperlink: item.Link,
		Headline:  item.Title,
		Summary:   item.Description,
		Text:      item.Content,
		Outlet:    feed.Title,
		Source:    "rss",
		MediaType: "Online",
		Keyword:   strings.Join(item.Categories, ", "),
	}
	if a.Hyperlink == "" {
		a.Hyperlink = item.GUID
	}
	if a.Text == "" {
		a.Text = item.Description
	}
	if item.PublishedParsed != nil {
		a.Date = item.PublishedParsed.UTC().Format(model.DateLayout)
	} else {
		a.Date = time.Now().UTC().Format(model.DateLayout)
	}
	return a
}

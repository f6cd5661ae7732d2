// Package news aggregates forex headlines from RSS feeds.
package news

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"
	"golang.org/x/sync/errgroup"

	"github.com/forexbot-ai/forexbot/internal/fetch"
	"github.com/forexbot-ai/forexbot/internal/lexicon"
	"github.com/forexbot-ai/forexbot/pkg/models"
)

// Source is one RSS feed configuration.
type Source struct {
	Name   string
	RSSURL string
}

// DefaultSources lists the forex news RSS feeds queried out of the box.
var DefaultSources = []Source{
	{
		Name:   "Investing.com Forex",
		RSSURL: "https://www.investing.com/rss/news_1.rss",
	},
	{
		Name:   "FXStreet",
		RSSURL: "https://www.fxstreet.com/rss/news",
	},
	{
		Name:   "DailyFX",
		RSSURL: "https://www.dailyfx.com/feeds/market-news",
	},
}

// Aggregator fetches and merges headlines from the configured sources.
type Aggregator struct {
	sources []Source
	cache   *fetch.Cache
	limiter *fetch.RateLimiter
	parser  *gofeed.Parser
}

// NewAggregator creates an aggregator over the default sources.
func NewAggregator() *Aggregator {
	return NewAggregatorWithSources(DefaultSources)
}

// NewAggregatorWithSources creates an aggregator over custom sources.
func NewAggregatorWithSources(sources []Source) *Aggregator {
	return &Aggregator{
		sources: sources,
		cache:   fetch.NewCache(10 * time.Minute),
		limiter: fetch.NewRateLimiter(2, time.Second), // conservative: 2 req/s
		parser:  gofeed.NewParser(),
	}
}

// ForexNews returns recent headlines from all sources, newest first. Failed
// sources are skipped; the call fails only when every source fails.
func (a *Aggregator) ForexNews(ctx context.Context, limit int) ([]models.NewsArticle, error) {
	cacheKey := fmt.Sprintf("news:forex:%d", limit)
	if cached, ok := a.cache.Get(cacheKey); ok {
		return cached.([]models.NewsArticle), nil
	}

	var (
		mu       sync.Mutex
		articles []models.NewsArticle
		failures int
	)
	g, gctx := errgroup.WithContext(ctx)
	for _, src := range a.sources {
		src := src
		g.Go(func() error {
			items, err := a.fetchRSS(gctx, src)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				// Non-critical: skip failed sources.
				failures++
				return nil
			}
			articles = append(articles, items...)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if failures == len(a.sources) {
		return nil, fmt.Errorf("news: all %d sources failed", failures)
	}

	sortArticlesByDate(articles)
	if limit > 0 && len(articles) > limit {
		articles = articles[:limit]
	}

	a.cache.Set(cacheKey, articles)
	return articles, nil
}

// CurrencyNews filters forex headlines down to those mentioning a currency,
// by code or by any of its lexicon aliases.
func (a *Aggregator) CurrencyNews(ctx context.Context, code string, limit int) ([]models.NewsArticle, error) {
	code = models.NormalizeCode(code)

	cacheKey := fmt.Sprintf("news:currency:%s:%d", code, limit)
	if cached, ok := a.cache.Get(cacheKey); ok {
		return cached.([]models.NewsArticle), nil
	}

	all, err := a.ForexNews(ctx, 0)
	if err != nil {
		return nil, err
	}

	keywords := currencyKeywords(code)
	var filtered []models.NewsArticle
	for _, art := range all {
		if matchesAny(art.Title+" "+art.Summary, keywords) {
			filtered = append(filtered, art)
		}
	}

	if limit > 0 && len(filtered) > limit {
		filtered = filtered[:limit]
	}

	a.cache.Set(cacheKey, filtered)
	return filtered, nil
}

func (a *Aggregator) fetchRSS(ctx context.Context, src Source) ([]models.NewsArticle, error) {
	if err := a.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	feed, err := a.parser.ParseURLWithContext(src.RSSURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("parse RSS %s: %w", src.Name, err)
	}

	articles := make([]models.NewsArticle, 0, len(feed.Items))
	for _, item := range feed.Items {
		art := models.NewsArticle{
			Title:   item.Title,
			URL:     item.Link,
			Source:  src.Name,
			Summary: cleanHTML(item.Description),
		}
		if item.PublishedParsed != nil {
			art.PublishedAt = *item.PublishedParsed
		}
		articles = append(articles, art)
	}

	return articles, nil
}

// cleanHTML strips HTML tags from a string using goquery.
func cleanHTML(s string) string {
	if s == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader("<body>" + s + "</body>"))
	if err != nil {
		return s
	}
	return strings.TrimSpace(doc.Text())
}

// currencyKeywords returns search terms for a currency code, e.g.
// "EUR" matches "eur", "euro" and "euros".
func currencyKeywords(code string) []string {
	keywords := []string{strings.ToLower(code)}
	for _, alias := range lexicon.Aliases() {
		if alias.Code == code {
			keywords = append(keywords, alias.Name)
		}
	}
	return keywords
}

// matchesAny checks if text contains any of the keywords (case-insensitive).
func matchesAny(text string, keywords []string) bool {
	lower := strings.ToLower(text)
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// sortArticlesByDate sorts articles by published date (newest first).
// Simple insertion sort, fine for small slices.
func sortArticlesByDate(articles []models.NewsArticle) {
	for i := 1; i < len(articles); i++ {
		key := articles[i]
		j := i - 1
		for j >= 0 && articles[j].PublishedAt.Before(key.PublishedAt) {
			articles[j+1] = articles[j]
			j--
		}
		articles[j+1] = key
	}
}

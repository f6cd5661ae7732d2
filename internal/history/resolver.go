// Package history reconciles the local observation store with the remote
// provider when a rate series or a point-in-time rate is needed.
package history

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/forexbot-ai/forexbot/internal/store"
	"github.com/forexbot-ai/forexbot/pkg/models"
)

// ErrNoData is returned when neither the cache nor the provider has rates
// for the requested pair.
var ErrNoData = errors.New("history: no data for pair")

// SeriesProvider serves daily close series for a pair, most-recent points
// first truncated to maxPoints, returned in chronological order.
type SeriesProvider interface {
	DailySeries(ctx context.Context, base, target string, maxPoints int) (models.RateSeries, error)
}

// Resolver answers historical rate queries, cache first.
type Resolver struct {
	store    store.Store
	provider SeriesProvider
}

func NewResolver(st store.Store, provider SeriesProvider) *Resolver {
	return &Resolver{store: st, provider: provider}
}

// Resolve returns up to days of chronological rates for a pair. Cached
// observations win when any exist in the window; otherwise the provider's
// daily series is used as-is. The remote read does not backfill the cache.
func (r *Resolver) Resolve(ctx context.Context, base, target string, days int) (models.RateSeries, error) {
	since := time.Now().AddDate(0, 0, -days)

	records, err := r.store.ReadRange(base, target, since)
	if err != nil {
		log.Printf("history: cache read failed for %s/%s: %v", base, target, err)
	}
	if len(records) > 0 {
		series := models.RateSeries{
			Dates: make([]string, 0, len(records)),
			Rates: make([]float64, 0, len(records)),
		}
		for _, rec := range records {
			series.Dates = append(series.Dates, rec.Timestamp.Format("2006-01-02"))
			series.Rates = append(series.Rates, rec.MidPrice)
		}
		return series, nil
	}

	log.Printf("history: no cached rates for %s/%s, falling back to provider", base, target)
	series, err := r.provider.DailySeries(ctx, base, target, days)
	if err != nil {
		return models.RateSeries{}, fmt.Errorf("%w: %s/%s: %v", ErrNoData, base, target, err)
	}
	return series, nil
}

// RateAt returns the cached observation closest to the calendar day of at.
// The comparison uses day granularity, matching how rows are queried by
// users ("hace 2 semanas" names a day, not an instant).
func (r *Resolver) RateAt(base, target string, at time.Time) (models.HistoryRecord, error) {
	day := time.Date(at.Year(), at.Month(), at.Day(), 0, 0, 0, 0, at.Location())

	rec, err := r.store.Nearest(base, target, day)
	if errors.Is(err, store.ErrNotFound) {
		return models.HistoryRecord{}, fmt.Errorf("%w: %s/%s", ErrNoData, base, target)
	}
	if err != nil {
		return models.HistoryRecord{}, fmt.Errorf("history: nearest lookup %s/%s: %w", base, target, err)
	}
	return rec, nil
}

// Package models defines the shared value types exchanged between the
// NLU pipeline, the quote provider, the history store, and the API layer.
package models

import (
	"fmt"
	"strings"
	"time"
)

// HalfSpread is the synthetic half-spread applied around a mid price.
// Bid and ask are derived, not market-observed.
const HalfSpread = 0.0025

// Quote is a point-in-time exchange rate quote for a currency pair.
type Quote struct {
	MidPrice  float64 `json:"mid_price"`
	BidPrice  float64 `json:"bid_price"`
	AskPrice  float64 `json:"ask_price"`
	Timestamp string  `json:"timestamp"` // provider format, e.g. "2025-03-14 16:05:00"
}

// QuoteFromMid builds a Quote from a mid price, deriving bid/ask with the
// synthetic spread.
func QuoteFromMid(mid float64, timestamp string) Quote {
	return Quote{
		MidPrice:  mid,
		BidPrice:  mid * (1 - HalfSpread),
		AskPrice:  mid * (1 + HalfSpread),
		Timestamp: timestamp,
	}
}

// Time parses the quote timestamp. Falls back to now when the provider
// returns a format we do not recognize.
func (q Quote) Time() time.Time {
	if t, err := ParseTimestamp(q.Timestamp); err == nil {
		return t
	}
	return time.Now()
}

// timestampLayouts lists the formats providers have been observed to return.
var timestampLayouts = []string{
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006-01-02",
}

// ParseTimestamp parses a provider timestamp string.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}

// HistoryRecord is one stored observation of a currency pair.
type HistoryRecord struct {
	Timestamp time.Time `json:"timestamp"`
	MidPrice  float64   `json:"mid_price"`
	BidPrice  float64   `json:"bid_price"`
	AskPrice  float64   `json:"ask_price"`
}

// RateSeries is a chronologically ordered series of daily rates.
type RateSeries struct {
	Dates []string  `json:"dates"` // YYYY-MM-DD, ascending
	Rates []float64 `json:"rates"`
}

// Len returns the number of points in the series.
func (s RateSeries) Len() int { return len(s.Rates) }

// NormalizeCode uppercases a currency token into ISO-like form.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

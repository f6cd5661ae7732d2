// Package store persists observed quotes per currency pair. Each pair gets
// an append-only table of observations; rows are never rewritten or deleted.
package store

import (
	"errors"
	"time"

	"github.com/forexbot-ai/forexbot/pkg/models"
)

// Epsilon is the minimum mid-price change that creates a new observation.
// Repeated quotes within this distance of the last stored row are dropped.
const Epsilon = 0.0001

// ErrNotFound is returned when a pair has no stored history.
var ErrNotFound = errors.New("store: no history for pair")

// Store is the quote history cache. Implementations must be safe for
// concurrent use; the read-modify-append in RecordIfChanged is atomic per
// store.
type Store interface {
	// RecordIfChanged appends an observation unless the pair's last stored
	// mid price is within Epsilon of the quote's. Reports whether a row was
	// written.
	RecordIfChanged(base, target string, q models.Quote) (bool, error)

	// ReadRange returns the pair's observations at or after since, ascending
	// by timestamp. A missing pair or an empty range yields a nil slice.
	ReadRange(base, target string, since time.Time) ([]models.HistoryRecord, error)

	// Nearest returns the observation closest in time to at, ties broken by
	// earliest-inserted row. Returns ErrNotFound when the pair has no rows.
	Nearest(base, target string, at time.Time) (models.HistoryRecord, error)

	Close() error
}

package store

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/forexbot-ai/forexbot/pkg/models"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func quoteAt(mid float64, ts time.Time) models.Quote {
	return models.QuoteFromMid(mid, ts.Format("2006-01-02 15:04:05"))
}

func TestRecordIfChangedDedup(t *testing.T) {
	s := newTestStore(t)
	now := time.Now()

	recorded, err := s.RecordIfChanged("EUR", "USD", quoteAt(1.0800, now))
	if err != nil {
		t.Fatal(err)
	}
	if !recorded {
		t.Fatal("first observation must be recorded")
	}

	// Within epsilon of the last row: dropped.
	recorded, err = s.RecordIfChanged("EUR", "USD", quoteAt(1.08005, now.Add(time.Minute)))
	if err != nil {
		t.Fatal(err)
	}
	if recorded {
		t.Fatal("unchanged quote must not be recorded")
	}

	// A real move: recorded.
	recorded, err = s.RecordIfChanged("EUR", "USD", quoteAt(1.0805, now.Add(2*time.Minute)))
	if err != nil {
		t.Fatal(err)
	}
	if !recorded {
		t.Fatal("changed quote must be recorded")
	}

	records, err := s.ReadRange("EUR", "USD", now.Add(-time.Hour))
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(records))
	}
	if records[0].MidPrice != 1.08 || records[1].MidPrice != 1.0805 {
		t.Fatalf("unexpected rows: %+v", records)
	}
}

func TestRecordIfChangedComparesLastRowOnly(t *testing.T) {
	s := newTestStore(t)
	now := time.Now()

	for i, mid := range []float64{1.08, 1.09, 1.08} {
		recorded, err := s.RecordIfChanged("EUR", "USD", quoteAt(mid, now.Add(time.Duration(i)*time.Minute)))
		if err != nil {
			t.Fatal(err)
		}
		if !recorded {
			t.Fatalf("observation %d must be recorded", i)
		}
	}
}

func TestReadRangeFiltersBySince(t *testing.T) {
	s := newTestStore(t)
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	for i, mid := range []float64{1.05, 1.06, 1.07} {
		if _, err := s.RecordIfChanged("EUR", "USD", quoteAt(mid, base.AddDate(0, 0, i))); err != nil {
			t.Fatal(err)
		}
	}

	records, err := s.ReadRange("EUR", "USD", base.AddDate(0, 0, 1))
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(records))
	}
	if records[0].MidPrice != 1.06 {
		t.Fatalf("unexpected first row: %+v", records[0])
	}
}

func TestReadRangeMissingPair(t *testing.T) {
	s := newTestStore(t)

	records, err := s.ReadRange("GBP", "JPY", time.Now().AddDate(0, 0, -7))
	if err != nil {
		t.Fatal(err)
	}
	if records != nil {
		t.Fatalf("expected nil for missing pair, got %+v", records)
	}
}

func TestNearest(t *testing.T) {
	s := newTestStore(t)
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	for i, mid := range []float64{1.05, 1.06, 1.07} {
		if _, err := s.RecordIfChanged("EUR", "USD", quoteAt(mid, base.AddDate(0, 0, i*2))); err != nil {
			t.Fatal(err)
		}
	}

	// Closest to day 3 is the row on day 2.
	rec, err := s.Nearest("EUR", "USD", base.AddDate(0, 0, 3).Add(-time.Hour))
	if err != nil {
		t.Fatal(err)
	}
	if rec.MidPrice != 1.06 {
		t.Fatalf("expected 1.06, got %v", rec.MidPrice)
	}
}

func TestNearestTieEarliestInserted(t *testing.T) {
	s := newTestStore(t)
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	// Two rows equidistant from the probe time.
	if _, err := s.RecordIfChanged("EUR", "USD", quoteAt(1.05, base)); err != nil {
		t.Fatal(err)
	}
	if _, err := s.RecordIfChanged("EUR", "USD", quoteAt(1.07, base.Add(2*time.Hour))); err != nil {
		t.Fatal(err)
	}

	rec, err := s.Nearest("EUR", "USD", base.Add(time.Hour))
	if err != nil {
		t.Fatal(err)
	}
	if rec.MidPrice != 1.05 {
		t.Fatalf("tie must resolve to earliest row, got %v", rec.MidPrice)
	}
}

func TestNearestMissingPair(t *testing.T) {
	s := newTestStore(t)

	if _, err := s.Nearest("GBP", "JPY", time.Now()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPairsAreDirectional(t *testing.T) {
	s := newTestStore(t)
	now := time.Now()

	if _, err := s.RecordIfChanged("EUR", "USD", quoteAt(1.08, now)); err != nil {
		t.Fatal(err)
	}
	if _, err := s.RecordIfChanged("USD", "EUR", quoteAt(0.9259, now)); err != nil {
		t.Fatal(err)
	}

	records, err := s.ReadRange("USD", "EUR", now.Add(-time.Hour))
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 || records[0].MidPrice != 0.9259 {
		t.Fatalf("unexpected rows: %+v", records)
	}
}

func TestInvalidPairRejected(t *testing.T) {
	s := newTestStore(t)

	if _, err := s.RecordIfChanged("EUR; DROP TABLE x", "USD", quoteAt(1.08, time.Now())); err == nil {
		t.Fatal("expected error for invalid code")
	}
}

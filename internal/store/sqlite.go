package store

import (
	"database/sql"
	"fmt"
	"log"
	"math"
	"regexp"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/forexbot-ai/forexbot/pkg/models"
)

// SQLiteStore keeps one append-only observation table per currency pair.
type SQLiteStore struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteStore opens (or creates) the SQLite database.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so readers don't block the writer.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	log.Printf("store: sqlite opened: %s", dbPath)
	return &SQLiteStore{db: db}, nil
}

// codeRe guards table names built from currency codes.
var codeRe = regexp.MustCompile(`^[A-Za-z0-9]{1,8}$`)

func tableName(base, target string) (string, error) {
	if !codeRe.MatchString(base) || !codeRe.MatchString(target) {
		return "", fmt.Errorf("store: invalid pair %q/%q", base, target)
	}
	return fmt.Sprintf("history_%s_%s", models.NormalizeCode(base), models.NormalizeCode(target)), nil
}

func (s *SQLiteStore) ensureTable(table string) error {
	_, err := s.db.Exec(fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		id        INTEGER PRIMARY KEY AUTOINCREMENT,
		timestamp INTEGER NOT NULL,
		mid_price REAL NOT NULL,
		bid_price REAL NOT NULL,
		ask_price REAL NOT NULL
	)`, table))
	if err != nil {
		return fmt.Errorf("create %s: %w", table, err)
	}
	_, err = s.db.Exec(fmt.Sprintf(`CREATE INDEX IF NOT EXISTS idx_%s_ts ON %s(timestamp)`, table, table))
	if err != nil {
		return fmt.Errorf("index %s: %w", table, err)
	}
	return nil
}

// RecordIfChanged appends the quote unless the last stored mid price is
// within Epsilon of it.
func (s *SQLiteStore) RecordIfChanged(base, target string, q models.Quote) (bool, error) {
	table, err := tableName(base, target)
	if err != nil {
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureTable(table); err != nil {
		return false, err
	}

	var last float64
	err = s.db.QueryRow(fmt.Sprintf(`SELECT mid_price FROM %s ORDER BY id DESC LIMIT 1`, table)).Scan(&last)
	switch {
	case err == sql.ErrNoRows:
		// First observation for this pair.
	case err != nil:
		return false, fmt.Errorf("read last %s: %w", table, err)
	case math.Abs(last-q.MidPrice) < Epsilon:
		return false, nil
	}

	_, err = s.db.Exec(
		fmt.Sprintf(`INSERT INTO %s (timestamp, mid_price, bid_price, ask_price) VALUES (?,?,?,?)`, table),
		q.Time().Unix(), q.MidPrice, q.BidPrice, q.AskPrice,
	)
	if err != nil {
		return false, fmt.Errorf("append %s: %w", table, err)
	}
	log.Printf("store: recorded %s/%s at %v", base, target, q.MidPrice)
	return true, nil
}

// ReadRange returns observations at or after since, ascending.
func (s *SQLiteStore) ReadRange(base, target string, since time.Time) ([]models.HistoryRecord, error) {
	table, err := tableName(base, target)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.tableExists(table) {
		return nil, nil
	}

	rows, err := s.db.Query(
		fmt.Sprintf(`SELECT timestamp, mid_price, bid_price, ask_price FROM %s
			WHERE timestamp >= ? ORDER BY timestamp ASC, id ASC`, table),
		since.Unix(),
	)
	if err != nil {
		return nil, fmt.Errorf("read range %s: %w", table, err)
	}
	defer rows.Close()

	var records []models.HistoryRecord
	for rows.Next() {
		var ts int64
		var rec models.HistoryRecord
		if err := rows.Scan(&ts, &rec.MidPrice, &rec.BidPrice, &rec.AskPrice); err != nil {
			return nil, fmt.Errorf("scan %s: %w", table, err)
		}
		rec.Timestamp = time.Unix(ts, 0)
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Nearest returns the row closest in time to at, earliest-inserted on ties.
func (s *SQLiteStore) Nearest(base, target string, at time.Time) (models.HistoryRecord, error) {
	table, err := tableName(base, target)
	if err != nil {
		return models.HistoryRecord{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.tableExists(table) {
		return models.HistoryRecord{}, ErrNotFound
	}

	var ts int64
	var rec models.HistoryRecord
	err = s.db.QueryRow(
		fmt.Sprintf(`SELECT timestamp, mid_price, bid_price, ask_price FROM %s
			ORDER BY ABS(timestamp - ?) ASC, id ASC LIMIT 1`, table),
		at.Unix(),
	).Scan(&ts, &rec.MidPrice, &rec.BidPrice, &rec.AskPrice)
	if err == sql.ErrNoRows {
		return models.HistoryRecord{}, ErrNotFound
	}
	if err != nil {
		return models.HistoryRecord{}, fmt.Errorf("nearest %s: %w", table, err)
	}
	rec.Timestamp = time.Unix(ts, 0)
	return rec, nil
}

func (s *SQLiteStore) tableExists(table string) bool {
	var name string
	err := s.db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&name)
	return err == nil
}

func (s *SQLiteStore) Close() error {
	log.Println("store: closing sqlite")
	return s.db.Close()
}

// Package sqlite records the synthetic bar session to a local database so a
// run can be re-rendered offline (chartshot --db). Recording is optional;
// the pane never depends on it.
package sqlite

import (
	"context"
	"database/sql"
	"log"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"chart-systemv1/internal/model"
)

const schema = `
CREATE TABLE IF NOT EXISTS bars (
	time   INTEGER PRIMARY KEY,
	open   REAL NOT NULL,
	high   REAL NOT NULL,
	low    REAL NOT NULL,
	close  REAL NOT NULL,
	volume REAL NOT NULL
);`

// Recorder appends bars to SQLite in batched transactions.
type Recorder struct {
	db *sql.DB

	mu      sync.Mutex
	pending []model.Bar
}

// Open opens (creating if needed) the bar database at path.
func Open(path string) (*Recorder, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, err
	}
	return &Recorder{db: db}, nil
}

// Append buffers one bar for the next flush.
func (r *Recorder) Append(b model.Bar) {
	r.mu.Lock()
	r.pending = append(r.pending, b)
	r.mu.Unlock()
}

// Flush commits all buffered bars in one transaction.
func (r *Recorder) Flush() error {
	r.mu.Lock()
	batch := r.pending
	r.pending = nil
	r.mu.Unlock()

	if len(batch) == 0 {
		return nil
	}

	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	stmt, err := tx.Prepare(`INSERT OR REPLACE INTO bars (time, open, high, low, close, volume) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		tx.Rollback()
		return err
	}
	defer stmt.Close()

	for _, b := range batch {
		if _, err := stmt.Exec(b.Time, b.Open, b.High, b.Low, b.Close, b.Volume); err != nil {
			tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

// Run flushes on an interval until ctx is cancelled, then does a final
// flush.
func (r *Recorder) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			if err := r.Flush(); err != nil {
				log.Printf("[sqlite] final flush failed: %v", err)
			}
			return
		case <-ticker.C:
			if err := r.Flush(); err != nil {
				log.Printf("[sqlite] flush failed: %v", err)
			}
		}
	}
}

// ReadBars returns all recorded bars with time ≥ fromTime, time-ascending.
// fromTime 0 reads everything.
func (r *Recorder) ReadBars(fromTime int64) ([]model.Bar, error) {
	rows, err := r.db.Query(`SELECT time, open, high, low, close, volume FROM bars WHERE time >= ? ORDER BY time ASC`, fromTime)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bars []model.Bar
	for rows.Next() {
		var b model.Bar
		if err := rows.Scan(&b.Time, &b.Open, &b.High, &b.Low, &b.Close, &b.Volume); err != nil {
			return nil, err
		}
		bars = append(bars, b)
	}
	return bars, rows.Err()
}

// Close flushes and closes the database.
func (r *Recorder) Close() error {
	if err := r.Flush(); err != nil {
		log.Printf("[sqlite] flush on close failed: %v", err)
	}
	return r.db.Close()
}

package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	json "github.com/goccy/go-json"
	_ "modernc.org/sqlite"

	"search-analysis/models"
)

// SQLiteWriter keeps every run's dataset in a local SQLite file.
type SQLiteWriter struct {
	db *sql.DB
}

// NewSQLiteWriter opens (or creates) the database at path and migrates it.
func NewSQLiteWriter(path string) (*SQLiteWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("sqlite: create dir: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open: %w", err)
	}
	// One connection keeps writes serialized.
	db.SetMaxOpenConns(1)

	sw := &SQLiteWriter{db: db}
	if err := sw.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite: migrate: %w", err)
	}
	return sw, nil
}

func (sw *SQLiteWriter) migrate() error {
	_, err := sw.db.Exec(`
	CREATE TABLE IF NOT EXISTS posts (
		id             INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id         TEXT NOT NULL,
		platform       TEXT NOT NULL,
		search_term    TEXT NOT NULL,
		url            TEXT NOT NULL DEFAULT '',
		user_name      TEXT,
		likes          INTEGER,
		upload_time    DATETIME,
		rank           INTEGER,
		trending_time  TEXT NOT NULL DEFAULT '[]',
		collected_time DATETIME NOT NULL,
		first_trending DATETIME NOT NULL,
		cat            TEXT,
		fields         TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_posts_run_id ON posts(run_id);
	CREATE INDEX IF NOT EXISTS idx_posts_url ON posts(url);
	`)
	return err
}

// Write inserts the dataset under runID in one transaction.
func (sw *SQLiteWriter) Write(ctx context.Context, runID string, dataset models.Dataset) error {
	tx, err := sw.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: begin: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO posts (run_id, platform, search_term, url, user_name, likes, upload_time,
			rank, trending_time, collected_time, first_trending, cat, fields)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("sqlite: prepare: %w", err)
	}
	defer stmt.Close()

	for _, e := range dataset {
		r, err := newPostRecord(e)
		if err != nil {
			return fmt.Errorf("sqlite: %w", err)
		}
		trending, _ := json.Marshal(r.TrendingTime)
		if _, err := stmt.ExecContext(ctx,
			runID, r.Platform, r.SearchTerm, r.URL, r.UserName, r.Likes, r.UploadTime,
			r.Rank, string(trending), r.CollectedTime, r.FirstTrending, r.Category,
			string(r.Fields)); err != nil {
			return fmt.Errorf("sqlite: insert %q: %w", r.URL, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: commit: %w", err)
	}
	return nil
}

// FetchRun loads the dataset stored under runID in insertion order.
func (sw *SQLiteWriter) FetchRun(ctx context.Context, runID string) (models.Dataset, error) {
	rows, err := sw.db.QueryContext(ctx, `
		SELECT platform, search_term, trending_time, collected_time, first_trending, cat, fields
		FROM posts
		WHERE run_id = ?
		ORDER BY id
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("sqlite: fetch run: %w", err)
	}
	defer rows.Close()

	var out models.Dataset
	for rows.Next() {
		var r postRecord
		var trending, fields string
		var collected, first time.Time
		if err := rows.Scan(&r.Platform, &r.SearchTerm, &trending, &collected, &first,
			&r.Category, &fields); err != nil {
			return nil, fmt.Errorf("sqlite: scan row: %w", err)
		}
		if err := json.Unmarshal([]byte(trending), &r.TrendingTime); err != nil {
			return nil, fmt.Errorf("sqlite: decode trending time: %w", err)
		}
		r.CollectedTime, r.FirstTrending, r.Fields = collected, first, []byte(fields)

		e, err := r.entry()
		if err != nil {
			return nil, fmt.Errorf("sqlite: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// CountRun returns how many rows were stored under runID.
func (sw *SQLiteWriter) CountRun(ctx context.Context, runID string) (int, error) {
	var n int
	err := sw.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM posts WHERE run_id = ?", runID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("sqlite: count run: %w", err)
	}
	return n, nil
}

func (sw *SQLiteWriter) Close() error {
	return sw.db.Close()
}

package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"search-analysis/models"
	"search-analysis/utils"
)

const postColumns = 13

// PostgresWriter persists the unified dataset to PostgreSQL, one row per entry
// tagged with the run that produced it.
type PostgresWriter struct {
	db      *sql.DB
	replace bool
}

// NewPostgresWriter opens a connection to PostgreSQL, waits for it with retry,
// runs schema migrations and returns a ready-to-use PostgresWriter. With
// replace set every Write clears earlier runs first.
func NewPostgresWriter(ctx context.Context, dsn string, retry *utils.RetryConfig, replace bool) (*PostgresWriter, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	if err := retry.Do(ctx, "postgres ping", func() error { return db.PingContext(ctx) }); err != nil {
		db.Close()
		return nil, fmt.Errorf("postgres: %w", err)
	}

	pw := &PostgresWriter{db: db, replace: replace}
	if err := pw.migrate(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("postgres: migrate: %w", err)
	}

	return pw, nil
}

func (pw *PostgresWriter) migrate(ctx context.Context) error {
	_, err := pw.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS posts (
			id             SERIAL PRIMARY KEY,
			run_id         UUID        NOT NULL,
			platform       VARCHAR(20) NOT NULL,
			search_term    TEXT        NOT NULL,
			url            TEXT        NOT NULL DEFAULT '',
			user_name      TEXT,
			likes          BIGINT,
			upload_time    TIMESTAMP,
			rank           BIGINT,
			trending_time  TEXT[]      NOT NULL DEFAULT '{}',
			collected_time TIMESTAMP   NOT NULL,
			first_trending TIMESTAMP   NOT NULL,
			cat            TEXT,
			fields         JSONB       NOT NULL,
			created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE INDEX IF NOT EXISTS idx_posts_run_id      ON posts(run_id);
		CREATE INDEX IF NOT EXISTS idx_posts_platform    ON posts(platform);
		CREATE INDEX IF NOT EXISTS idx_posts_search_term ON posts(search_term);
		CREATE INDEX IF NOT EXISTS idx_posts_url         ON posts(url);
	`)
	return err
}

// Clear deletes all stored posts.
func (pw *PostgresWriter) Clear(ctx context.Context) error {
	if _, err := pw.db.ExecContext(ctx, "DELETE FROM posts"); err != nil {
		return fmt.Errorf("postgres: clear: %w", err)
	}
	return nil
}

// Write batch-inserts every entry of the dataset under runID.
func (pw *PostgresWriter) Write(ctx context.Context, runID string, dataset models.Dataset) error {
	if len(dataset) == 0 {
		return nil
	}

	if pw.replace {
		if err := pw.Clear(ctx); err != nil {
			return err
		}
	}

	const batchSize = 50
	for i := 0; i < len(dataset); i += batchSize {
		end := min(i+batchSize, len(dataset))
		if err := pw.insertBatch(ctx, runID, dataset[i:end]); err != nil {
			return err
		}
	}
	return nil
}

func (pw *PostgresWriter) insertBatch(ctx context.Context, runID string, batch models.Dataset) error {
	valueStrings := make([]string, 0, len(batch))
	valueArgs := make([]any, 0, len(batch)*postColumns)

	for idx, e := range batch {
		r, err := newPostRecord(e)
		if err != nil {
			return fmt.Errorf("postgres: %w", err)
		}

		placeholders := make([]string, postColumns)
		for j := range placeholders {
			placeholders[j] = fmt.Sprintf("$%d", idx*postColumns+j+1)
		}
		valueStrings = append(valueStrings, "("+strings.Join(placeholders, ",")+")")
		valueArgs = append(valueArgs,
			runID, r.Platform, r.SearchTerm, r.URL, r.UserName, r.Likes, r.UploadTime,
			r.Rank, pq.Array(r.TrendingTime), r.CollectedTime, r.FirstTrending, r.Category,
			string(r.Fields))
	}

	query := fmt.Sprintf(`
		INSERT INTO posts (run_id, platform, search_term, url, user_name, likes, upload_time,
			rank, trending_time, collected_time, first_trending, cat, fields)
		VALUES %s
	`, strings.Join(valueStrings, ","))

	if _, err := pw.db.ExecContext(ctx, query, valueArgs...); err != nil {
		return fmt.Errorf("postgres: insert batch: %w", err)
	}
	return nil
}

func (pw *PostgresWriter) Close() error {
	return pw.db.Close()
}

// Package store persists evaluations in a local sqlite database so that
// repeated runs can reuse verdicts instead of paying for new LLM calls.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/Z-vren/brand-value-actor/internal/ai"
)

const schema = `
CREATE TABLE IF NOT EXISTS evaluations (
	website_url  TEXT PRIMARY KEY,
	company_name TEXT NOT NULL,
	payload      TEXT NOT NULL,
	evaluated_at TEXT NOT NULL
);`

type Store struct {
	pool *sql.DB
}

// Open opens (and if needed creates) the evaluation database at path.
func Open(path string) (*Store, error) {
	// modernc sqlite DSN: file:foo.db?_pragma=busy_timeout(5000)
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)", path)

	pool, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	// sqlite wants a single writer
	pool.SetMaxOpenConns(1)
	pool.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := pool.PingContext(ctx); err != nil {
		_ = pool.Close()
		return nil, err
	}

	if _, err := pool.ExecContext(ctx, schema); err != nil {
		_ = pool.Close()
		return nil, fmt.Errorf("create evaluations table: %w", err)
	}

	return &Store{pool: pool}, nil
}

func (s *Store) Close() error {
	if s == nil || s.pool == nil {
		return nil
	}
	return s.pool.Close()
}

// Upsert inserts or replaces the evaluation keyed by website URL.
func (s *Store) Upsert(ctx context.Context, ev *ai.Evaluation) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal evaluation: %w", err)
	}

	_, err = s.pool.ExecContext(ctx, `
INSERT INTO evaluations (website_url, company_name, payload, evaluated_at)
VALUES (?, ?, ?, ?)
ON CONFLICT(website_url) DO UPDATE SET
	company_name = excluded.company_name,
	payload      = excluded.payload,
	evaluated_at = excluded.evaluated_at;`,
		ev.WebsiteURL, ev.CompanyName, string(payload), time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("upsert evaluation: %w", err)
	}

	return nil
}

// Get returns the stored evaluation for the website URL, if any.
func (s *Store) Get(ctx context.Context, websiteURL string) (*ai.Evaluation, bool, error) {
	var payload string
	err := s.pool.QueryRowContext(ctx,
		`SELECT payload FROM evaluations WHERE website_url = ?;`, websiteURL,
	).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get evaluation: %w", err)
	}

	var ev ai.Evaluation
	if err := json.Unmarshal([]byte(payload), &ev); err != nil {
		return nil, false, fmt.Errorf("decode stored evaluation: %w", err)
	}

	return &ev, true, nil
}

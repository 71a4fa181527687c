package usage

import (
	"context"
	"database/sql"
)

type sqliteStore struct {
	db *sql.DB
}

func newSQLiteStore(db *sql.DB) *sqliteStore {
	return &sqliteStore{db: db}
}

func (s *sqliteStore) Insert(ctx context.Context, e Event) error {
	_, err := s.db.ExecContext(ctx, `
INSERT INTO usage_events (id, kind, client_key, role, company, status, error_code, duration_ms, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, string(e.Kind), e.ClientKey, e.Role, e.Company, string(e.Status), e.ErrorCode, e.DurationMs, e.CreatedAt)
	return err
}

func (s *sqliteStore) Summary(ctx context.Context, clientKey string) (Summary, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT kind, status, COUNT(*) FROM usage_events WHERE client_key = ? GROUP BY kind, status`, clientKey)
	if err != nil {
		return Summary{}, err
	}
	return scanSummary(rows)
}

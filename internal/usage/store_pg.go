package usage

import (
	"context"
	"database/sql"
)

type pgStore struct {
	DB *sql.DB
}

func newPGStore(db *sql.DB) *pgStore {
	return &pgStore{DB: db}
}

func (s *pgStore) Insert(ctx context.Context, e Event) error {
	_, err := s.DB.ExecContext(ctx, `
INSERT INTO usage_events (id, kind, client_key, role, company, status, error_code, duration_ms, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		e.ID, string(e.Kind), e.ClientKey, e.Role, e.Company, string(e.Status), e.ErrorCode, e.DurationMs, e.CreatedAt)
	return err
}

func (s *pgStore) Summary(ctx context.Context, clientKey string) (Summary, error) {
	rows, err := s.DB.QueryContext(ctx, `
SELECT kind, status, COUNT(*) FROM usage_events WHERE client_key = $1 GROUP BY kind, status`, clientKey)
	if err != nil {
		return Summary{}, err
	}
	return scanSummary(rows)
}

func scanSummary(rows *sql.Rows) (Summary, error) {
	defer rows.Close()
	var out Summary
	for rows.Next() {
		var (
			kind, status string
			n            int
		)
		if err := rows.Scan(&kind, &status, &n); err != nil {
			return Summary{}, err
		}
		out.add(Kind(kind), Status(status), n)
	}
	if err := rows.Err(); err != nil {
		return Summary{}, err
	}
	return out, nil
}

package usage

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestPGStoreInsert(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })

	store := newPGStore(sqlDB)
	e := Event{
		ID:         "4f1c2a9e-5d7b-4a43-9a51-0c4f7d8e2b10",
		Kind:       KindEvaluate,
		ClientKey:  "client-a",
		Role:       "AI/ML Engineer",
		Company:    "Amazon",
		Status:     StatusFailed,
		ErrorCode:  "MALFORMED_RESPONSE",
		DurationMs: 1234,
		CreatedAt:  time.Now().UTC(),
	}

	mock.ExpectExec("INSERT INTO usage_events").
		WithArgs(e.ID, "evaluate", e.ClientKey, e.Role, e.Company, "failed", e.ErrorCode, e.DurationMs, e.CreatedAt).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := store.Insert(context.Background(), e); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGStoreSummary(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })

	mock.ExpectQuery("SELECT kind, status").
		WithArgs("client-a").
		WillReturnRows(sqlmock.NewRows([]string{"kind", "status", "count"}).
			AddRow("evaluate", "ok", 3).
			AddRow("generate", "ok", 2).
			AddRow("evaluate", "failed", 1).
			AddRow("generate", "failed", 2))

	got, err := NewPostgresService(sqlDB).Summary(context.Background(), "client-a")
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	want := Summary{Evaluations: 3, Generations: 2, Failed: 3}
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

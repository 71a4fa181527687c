package usage

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"star-backend/internal/shared/storage/db"
	"star-backend/internal/shared/telemetry"
)

type failingStore struct{}

func (failingStore) Insert(ctx context.Context, e Event) error { return errors.New("disk full") }
func (failingStore) Summary(ctx context.Context, clientKey string) (Summary, error) {
	return Summary{}, errors.New("disk full")
}

func recordAll(svc *Service, ctx context.Context) {
	svc.Record(ctx, Event{Kind: KindEvaluate, Status: StatusOK})
	svc.Record(ctx, Event{Kind: KindEvaluate, Status: StatusOK})
	svc.Record(ctx, Event{Kind: KindGenerate, Status: StatusOK})
	svc.Record(ctx, Event{Kind: KindGenerate, Status: StatusFailed, ErrorCode: "UPSTREAM_ERROR"})
	svc.Record(context.Background(), Event{Kind: KindEvaluate, Status: StatusOK, ClientKey: "someone-else"})
}

func TestMemoryServiceSummary(t *testing.T) {
	svc := NewService()
	ctx := WithClientKey(context.Background(), "client-a")
	recordAll(svc, ctx)

	got, err := svc.Summary(context.Background(), "client-a")
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	want := Summary{Evaluations: 2, Generations: 1, Failed: 1}
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

type capturingStore struct {
	events []Event
}

func (c *capturingStore) Insert(ctx context.Context, e Event) error {
	c.events = append(c.events, e)
	return nil
}

func (c *capturingStore) Summary(ctx context.Context, clientKey string) (Summary, error) {
	return Summary{}, nil
}

func TestRecordFillsIDAndTimestamp(t *testing.T) {
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	captured := &capturingStore{}
	svc := &Service{store: captured, now: func() time.Time { return fixed }}

	svc.Record(WithClientKey(context.Background(), "k"), Event{Kind: KindEvaluate, Status: StatusOK})

	if len(captured.events) != 1 {
		t.Fatalf("expected one event, got %d", len(captured.events))
	}
	e := captured.events[0]
	if len(e.ID) != 36 || !e.CreatedAt.Equal(fixed) || e.ClientKey != "k" {
		t.Fatalf("unexpected event %+v", e)
	}
}

func TestMemoryStoreKeepsOneEntryPerClient(t *testing.T) {
	mem := newMemoryStore()
	ctx := context.Background()
	for i := 0; i < 1000; i++ {
		_ = mem.Insert(ctx, Event{Kind: KindEvaluate, Status: StatusOK, ClientKey: "a"})
	}
	_ = mem.Insert(ctx, Event{Kind: KindGenerate, Status: StatusFailed, ClientKey: "b"})

	if len(mem.totals) != 2 {
		t.Fatalf("expected one entry per client, got %d", len(mem.totals))
	}
	if got, _ := mem.Summary(ctx, "a"); got != (Summary{Evaluations: 1000}) {
		t.Fatalf("unexpected totals %+v", got)
	}
	if got, _ := mem.Summary(ctx, "b"); got != (Summary{Failed: 1}) {
		t.Fatalf("unexpected totals %+v", got)
	}
}

func TestRecordSurvivesCancelledRequest(t *testing.T) {
	svc := NewService()
	ctx, cancel := context.WithCancel(WithClientKey(context.Background(), "k"))
	cancel()
	svc.Record(ctx, Event{Kind: KindGenerate, Status: StatusOK})

	got, _ := svc.Summary(context.Background(), "k")
	if got.Generations != 1 {
		t.Fatalf("expected event recorded after request ended, got %+v", got)
	}
}

func TestRecordLogsStoreErrors(t *testing.T) {
	var buf bytes.Buffer
	t.Cleanup(telemetry.SetOutput(&buf))

	svc := &Service{store: failingStore{}, now: time.Now}
	svc.Record(context.Background(), Event{Kind: KindEvaluate, Status: StatusOK})

	if !strings.Contains(buf.String(), "usage.record_failed") || !strings.Contains(buf.String(), "disk full") {
		t.Fatalf("expected failure to be logged, got %q", buf.String())
	}
}

func TestNilServiceRecordIsNoop(t *testing.T) {
	var svc *Service
	svc.Record(context.Background(), Event{Kind: KindEvaluate})
}

func TestSQLiteServiceSummary(t *testing.T) {
	path := filepath.Join(t.TempDir(), "usage.db")
	sqlDB, err := db.OpenSQLite(context.Background(), path)
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })
	if err := db.RunMigrations(context.Background(), sqlDB, db.DialectSQLite); err != nil {
		t.Fatalf("RunMigrations: %v", err)
	}

	svc := NewSQLiteService(sqlDB)
	recordAll(svc, WithClientKey(context.Background(), "client-a"))

	got, err := svc.Summary(context.Background(), "client-a")
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	want := Summary{Evaluations: 2, Generations: 1, Failed: 1}
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

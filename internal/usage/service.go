package usage

import (
	"context"
	"database/sql"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"star-backend/internal/shared/telemetry"
	"star-backend/internal/shared/util"
)

const recordTimeout = 5 * time.Second

type store interface {
	Insert(ctx context.Context, e Event) error
	Summary(ctx context.Context, clientKey string) (Summary, error)
}

// Service records usage events via an underlying store.
type Service struct {
	store store
	now   func() time.Time
}

// NewService constructs a Service with in-memory store.
func NewService() *Service {
	return &Service{store: newMemoryStore(), now: time.Now}
}

// NewPostgresService constructs a Service backed by Postgres.
func NewPostgresService(db *sql.DB) *Service {
	return &Service{store: newPGStore(db), now: time.Now}
}

// NewSQLiteService constructs a Service backed by SQLite.
func NewSQLiteService(db *sql.DB) *Service {
	return &Service{store: newSQLiteStore(db), now: time.Now}
}

// Record stores e, assigning an ID and timestamp when missing. Failures are
// logged and never reach the caller.
func (s *Service) Record(ctx context.Context, e Event) {
	if s == nil {
		return
	}
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = s.now().UTC()
	}
	if e.ClientKey == "" {
		e.ClientKey = ClientKeyFromContext(ctx)
	}

	// The request may already be finished; keep the insert alive on its own deadline.
	insertCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), recordTimeout)
	defer cancel()
	if err := s.store.Insert(insertCtx, e); err != nil {
		telemetry.Error("usage.record_failed", map[string]any{
			"event_id": e.ID,
			"kind":     string(e.Kind),
			"error":    err,
		})
	}
}

// Summary returns the totals recorded for clientKey.
func (s *Service) Summary(ctx context.Context, clientKey string) (Summary, error) {
	return s.store.Summary(ctx, clientKey)
}

type clientKeyCtx struct{}

// WithClientKey returns a context carrying the hashed caller identity.
func WithClientKey(ctx context.Context, key string) context.Context {
	return context.WithValue(ctx, clientKeyCtx{}, key)
}

// ClientKeyFromContext returns the key stored by WithClientKey, if any.
func ClientKeyFromContext(ctx context.Context) string {
	key, _ := ctx.Value(clientKeyCtx{}).(string)
	return key
}

// ClientKey derives the caller identity from the request's client IP.
func ClientKey(c *gin.Context) string {
	return util.HashClientKey(c.ClientIP())
}

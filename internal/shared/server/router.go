package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"star-backend/internal/catalog"
	"star-backend/internal/evaluations"
	"star-backend/internal/generations"
	"star-backend/internal/health"
	"star-backend/internal/shared/config"
	"star-backend/internal/shared/metrics"
	"star-backend/internal/shared/server/middleware"
	"star-backend/internal/shared/server/respond"
	"star-backend/internal/shared/telemetry"
	"star-backend/internal/usage"
)

const exemptGroup = "EXEMPT"

// RouterDeps carries the handlers the router mounts. Nil handlers are skipped.
type RouterDeps struct {
	Config            config.Config
	CatalogHandler    *catalog.Handler
	EvaluationHandler *evaluations.Handler
	GenerationHandler *generations.Handler
	HealthHandler     *health.Handler
	UsageHandler      *usage.Handler
	Limiter           *middleware.RateLimiter
}

// NewRouter constructs the Gin engine with middleware and routes registered.
// Forwarding headers are honoured only from Config.TrustedProxies; with none
// configured the client IP is the connection's remote address.
func NewRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.HandleMethodNotAllowed = true
	if err := r.SetTrustedProxies(deps.Config.TrustedProxies); err != nil {
		telemetry.Error("router.trusted_proxies_invalid", map[string]any{"error": err.Error()})
		_ = r.SetTrustedProxies(nil)
	}

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
		middleware.RateLimit(middleware.RateLimitConfig{
			Rules: map[string][]middleware.RateLimitRule{
				"DEFAULT": {
					middleware.PerWindow(deps.Config.RateLimitPerDay, 24*time.Hour),
					middleware.PerWindow(deps.Config.RateLimitPerHour, time.Hour),
				},
			},
			GroupFor: rateLimitGroup,
			Limiter:  deps.Limiter,
		}),
	)

	r.NoRoute(notFound)
	r.NoMethod(methodNotAllowed)
	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api")
	if deps.HealthHandler != nil {
		deps.HealthHandler.RegisterRoutes(api)
	}
	if deps.CatalogHandler != nil {
		deps.CatalogHandler.RegisterRoutes(api.Group("/data"))
	}
	if deps.EvaluationHandler != nil {
		deps.EvaluationHandler.RegisterRoutes(api)
	}
	if deps.GenerationHandler != nil {
		deps.GenerationHandler.RegisterRoutes(api)
	}
	if deps.UsageHandler != nil {
		deps.UsageHandler.RegisterRoutes(api)
	}

	return r
}

// Health checks and metrics scrapes are not limited.
func rateLimitGroup(c *gin.Context) string {
	switch c.FullPath() {
	case "/api/health", "/metrics":
		return exemptGroup
	default:
		return ""
	}
}

func notFound(c *gin.Context) {
	respond.Error(c, http.StatusNotFound, "Not found", "")
}

func methodNotAllowed(c *gin.Context) {
	respond.Error(c, http.StatusMethodNotAllowed, "Method not allowed", "")
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":7860"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}

package health

import (
	"github.com/gin-gonic/gin"

	"star-backend/internal/shared/server/respond"
)

// Handler exposes the health check.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches the health route to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/health", h.health)
}

func (h *Handler) health(c *gin.Context) {
	respond.OK(c, h.Svc.Status())
}

package usage

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"star-backend/internal/shared/server/respond"
)

// Handler exposes usage endpoints.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches usage routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/usage", h.getUsage)
}

func (h *Handler) getUsage(c *gin.Context) {
	summary, err := h.Svc.Summary(c.Request.Context(), ClientKey(c))
	if err != nil {
		switch {
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			respond.Error(c, http.StatusRequestTimeout, "Request canceled", "")
		default:
			respond.Error(c, http.StatusInternalServerError, "Failed to fetch usage", "")
		}
		return
	}
	respond.OK(c, summary)
}

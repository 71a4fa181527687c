package evaluations

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"star-backend/internal/interview"
	"star-backend/internal/shared/server/respond"
	"star-backend/internal/usage"
)

// Handler wires HTTP handlers to the evaluation service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches evaluation routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/evaluate", h.evaluate)
	rg.POST("/evaluate/", h.evaluate)
}

func (h *Handler) evaluate(c *gin.Context) {
	var req Request
	if err := c.ShouldBindJSON(&req); err != nil {
		verr := interview.FromBindingError(err, &req, validationMessages)
		respond.Error(c, http.StatusBadRequest, verr.Error(), "")
		return
	}

	ctx := usage.WithClientKey(c.Request.Context(), usage.ClientKey(c))
	result, err := h.Svc.Evaluate(ctx, req.Context())
	if err != nil {
		var verr *interview.ValidationError
		if errors.As(err, &verr) {
			respond.Error(c, http.StatusBadRequest, verr.Message, "")
			return
		}
		respond.Error(c, http.StatusInternalServerError, "Failed to evaluate answer", err.Error())
		return
	}

	respond.RawJSON(c, http.StatusOK, result.Raw())
}

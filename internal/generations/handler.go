package generations

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"star-backend/internal/interview"
	"star-backend/internal/shared/server/respond"
	"star-backend/internal/usage"
)

// Handler wires HTTP handlers to the generation service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches generation routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/generate-answer", h.generate)
	rg.POST("/generate-answer/", h.generate)
}

type generateResponse struct {
	Answer string `json:"answer"`
}

func (h *Handler) generate(c *gin.Context) {
	var req Request
	if err := c.ShouldBindJSON(&req); err != nil {
		verr := interview.FromBindingError(err, &req, validationMessages)
		respond.Error(c, http.StatusBadRequest, verr.Error(), "")
		return
	}

	ctx := usage.WithClientKey(c.Request.Context(), usage.ClientKey(c))
	answer, err := h.Svc.Generate(ctx, req.interviewContext())
	if err != nil {
		var verr *interview.ValidationError
		if errors.As(err, &verr) {
			respond.Error(c, http.StatusBadRequest, verr.Message, "")
			return
		}
		respond.Error(c, http.StatusInternalServerError, "Failed to generate answer", err.Error())
		return
	}

	respond.OK(c, generateResponse{Answer: answer})
}

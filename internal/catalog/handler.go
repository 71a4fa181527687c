package catalog

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"star-backend/internal/shared/server/respond"
)

// Handler exposes the catalog over HTTP.
type Handler struct {
	Catalog *Catalog
}

// NewHandler constructs a Handler.
func NewHandler(c *Catalog) *Handler {
	return &Handler{Catalog: c}
}

// RegisterRoutes attaches reference data routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/roles", h.roles)
	rg.GET("/companies", h.companies)
	rg.GET("/experience-levels", h.experienceLevels)
	rg.GET("/questions", h.questions)
	rg.GET("/company-values/:company", h.companyValues)
}

func (h *Handler) roles(c *gin.Context) {
	respond.OK(c, h.Catalog.Roles())
}

func (h *Handler) companies(c *gin.Context) {
	respond.OK(c, h.Catalog.Companies())
}

func (h *Handler) experienceLevels(c *gin.Context) {
	respond.OK(c, h.Catalog.ExperienceLevels())
}

func (h *Handler) questions(c *gin.Context) {
	respond.OK(c, h.Catalog.Questions(c.Query("role")))
}

func (h *Handler) companyValues(c *gin.Context) {
	values, ok := h.Catalog.CompanyValues(c.Param("company"))
	if !ok {
		respond.Error(c, http.StatusNotFound, "Company not found", "")
		return
	}
	respond.OK(c, values)
}

package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	httpapi "github.com/talenthub/portal-backend/internal/api/http"
	"github.com/talenthub/portal-backend/internal/cohorts/domain"
	"github.com/talenthub/portal-backend/internal/cohorts/service"
)

type Handler struct {
	cohorts *service.CohortService
}

func New(cohorts *service.CohortService) *Handler {
	return &Handler{cohorts: cohorts}
}

// Register attaches cohort routes. manage guards creation.
func (h *Handler) Register(rg *gin.RouterGroup, manage gin.HandlerFunc) {
	rg.GET("", h.list)
	rg.GET("/:id", h.get)
	rg.GET("/:id/roster", h.roster)
	rg.POST("", manage, h.create)
}

func (h *Handler) list(c *gin.Context) {
	items, err := h.cohorts.List(c.Request.Context())
	if err != nil {
		httpapi.RespondError(c, "list cohorts", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"cohorts": items})
}

func (h *Handler) get(c *gin.Context) {
	cohort, err := h.cohorts.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		httpapi.RespondError(c, "load cohort", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"cohort": cohort})
}

func (h *Handler) roster(c *gin.Context) {
	cohort, members, err := h.cohorts.Roster(c.Request.Context(), c.Param("id"))
	if err != nil {
		httpapi.RespondError(c, "load roster", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"cohort": cohort, "members": members})
}

func (h *Handler) create(c *gin.Context) {
	var in domain.CohortInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body", "details": err.Error()})
		return
	}

	cohort, err := h.cohorts.Create(c.Request.Context(), in)
	if err != nil {
		httpapi.RespondError(c, "create cohort", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"cohort": cohort})
}

package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/talenthub/portal-backend/internal/analytics/domain"
	"github.com/talenthub/portal-backend/internal/analytics/service"
	httpapi "github.com/talenthub/portal-backend/internal/api/http"
	"github.com/talenthub/portal-backend/internal/auth"
)

type Handler struct {
	analytics *service.AnalyticsService
}

func New(analytics *service.AnalyticsService) *Handler {
	return &Handler{analytics: analytics}
}

// Register attaches analytics routes. read guards the candidate risk views.
func (h *Handler) Register(rg *gin.RouterGroup, read gin.HandlerFunc) {
	rg.GET("/dashboard", h.dashboard)
	rg.GET("/metrics", read, h.metrics)
	rg.POST("/risk", read, h.scoreRisk)
}

func (h *Handler) dashboard(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"stats": h.analytics.DashboardStats(c.Request.Context(), auth.CurrentUser(c))})
}

func (h *Handler) metrics(c *gin.Context) {
	items, err := h.analytics.Metrics(c.Request.Context())
	if err != nil {
		httpapi.RespondError(c, "list candidate metrics", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"candidates": items})
}

type scoreRiskReq struct {
	Candidates []domain.CandidateMetric `json:"candidates"`
}

func (h *Handler) scoreRisk(c *gin.Context) {
	var req scoreRiskReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body", "details": err.Error()})
		return
	}

	scored, err := h.analytics.ScoreRisk(c.Request.Context(), req.Candidates)
	if err != nil {
		httpapi.RespondError(c, "score risk", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"candidates": scored})
}

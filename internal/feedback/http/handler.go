package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/talenthub/portal-backend/internal/access"
	httpapi "github.com/talenthub/portal-backend/internal/api/http"
	"github.com/talenthub/portal-backend/internal/auth"
	"github.com/talenthub/portal-backend/internal/feedback/domain"
	"github.com/talenthub/portal-backend/internal/feedback/service"
)

type Handler struct {
	feedback *service.FeedbackService
	access   *access.Enforcer
}

func New(feedback *service.FeedbackService, enforcer *access.Enforcer) *Handler {
	return &Handler{feedback: feedback, access: enforcer}
}

func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("", h.list)
	rg.POST("", h.submit)
}

func (h *Handler) submit(c *gin.Context) {
	var in domain.Input
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body", "details": err.Error()})
		return
	}

	e, err := h.feedback.Submit(c.Request.Context(), auth.CurrentUser(c), in)
	if err != nil {
		httpapi.RespondError(c, "submit feedback", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"feedback": e})
}

// list shows analysts every entry and everyone else their own.
func (h *Handler) list(c *gin.Context) {
	user := auth.CurrentUser(c)
	owner := user.ID
	if h.access.Allowed(user.Role, access.ObjAnalytics, access.ActRead) {
		owner = c.Query("userId")
	}

	items, err := h.feedback.List(c.Request.Context(), owner)
	if err != nil {
		httpapi.RespondError(c, "list feedback", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"feedback": items})
}

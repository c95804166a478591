package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/talenthub/portal-backend/internal/access"
	httpapi "github.com/talenthub/portal-backend/internal/api/http"
	"github.com/talenthub/portal-backend/internal/auth"
	"github.com/talenthub/portal-backend/internal/scorecards/domain"
	"github.com/talenthub/portal-backend/internal/scorecards/service"
)

type Handler struct {
	scorecards *service.ScoreCardService
	access     *access.Enforcer
}

func New(scorecards *service.ScoreCardService, enforcer *access.Enforcer) *Handler {
	return &Handler{scorecards: scorecards, access: enforcer}
}

// Register attaches scorecard routes. write guards creation.
func (h *Handler) Register(rg *gin.RouterGroup, write gin.HandlerFunc) {
	rg.GET("", h.list)
	rg.POST("", write, h.create)
}

// list returns the caller's own scorecards unless they may write them, in
// which case ?candidateId narrows the full list.
func (h *Handler) list(c *gin.Context) {
	user := auth.CurrentUser(c)
	ctx := c.Request.Context()

	var (
		items []domain.ScoreCard
		err   error
	)
	switch {
	case !h.access.Allowed(user.Role, access.ObjScorecards, access.ActWrite):
		items, err = h.scorecards.ListForCandidate(ctx, user.ID)
	case c.Query("candidateId") != "":
		items, err = h.scorecards.ListForCandidate(ctx, c.Query("candidateId"))
	default:
		items, err = h.scorecards.List(ctx)
	}
	if err != nil {
		httpapi.RespondError(c, "list scorecards", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"scorecards": items})
}

func (h *Handler) create(c *gin.Context) {
	var in domain.ScoreCardInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body", "details": err.Error()})
		return
	}

	sc, err := h.scorecards.Create(c.Request.Context(), auth.CurrentUser(c), in)
	if err != nil {
		httpapi.RespondError(c, "save scorecard", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"scorecard": sc})
}

package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/talenthub/portal-backend/internal/access"
	"github.com/talenthub/portal-backend/internal/announcements/domain"
	"github.com/talenthub/portal-backend/internal/announcements/service"
	httpapi "github.com/talenthub/portal-backend/internal/api/http"
	"github.com/talenthub/portal-backend/internal/auth"
	"github.com/talenthub/portal-backend/internal/imagesearch"
)

type Handler struct {
	announcements *service.AnnouncementService
	images        *imagesearch.Searcher
	access        *access.Enforcer
}

func New(announcements *service.AnnouncementService, images *imagesearch.Searcher, enforcer *access.Enforcer) *Handler {
	return &Handler{announcements: announcements, images: images, access: enforcer}
}

// Register attaches announcement routes. manage guards writes and image search.
func (h *Handler) Register(rg *gin.RouterGroup, manage gin.HandlerFunc) {
	rg.GET("", h.list)
	rg.GET("/images", manage, h.searchImages)
	rg.POST("", manage, h.create)
	rg.DELETE("/:id", manage, h.delete)
}

// list shows managers everything and everyone else what targets their cohort.
func (h *Handler) list(c *gin.Context) {
	user := auth.CurrentUser(c)

	var (
		items []domain.Announcement
		err   error
	)
	if h.access.Allowed(user.Role, access.ObjAnnouncements, access.ActManage) {
		items, err = h.announcements.List(c.Request.Context())
	} else {
		items, err = h.announcements.ListForCohort(c.Request.Context(), user.CohortID)
	}
	if err != nil {
		httpapi.RespondError(c, "list announcements", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"announcements": items})
}

func (h *Handler) create(c *gin.Context) {
	var in domain.AnnouncementInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body", "details": err.Error()})
		return
	}

	a, err := h.announcements.Create(c.Request.Context(), auth.CurrentUser(c), in)
	if err != nil {
		httpapi.RespondError(c, "create announcement", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"announcement": a})
}

func (h *Handler) delete(c *gin.Context) {
	if err := h.announcements.Delete(c.Request.Context(), c.Param("id")); err != nil {
		httpapi.RespondError(c, "delete announcement", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *Handler) searchImages(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"images": h.images.Search(c.Request.Context(), c.Query("q"))})
}

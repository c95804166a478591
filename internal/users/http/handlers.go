package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	httpapi "github.com/talenthub/portal-backend/internal/api/http"
	"github.com/talenthub/portal-backend/internal/auth"
	"github.com/talenthub/portal-backend/internal/users/domain"
)

// session returns the caller's profile together with the views their role
// may open. The client builds its sidebar from views.
func (h *Handler) session(c *gin.Context) {
	user := auth.CurrentUser(c)
	c.JSON(http.StatusOK, gin.H{"user": user, "views": h.access.Views(user.Role)})
}

func (h *Handler) views(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"views": h.access.Views(auth.CurrentUser(c).Role)})
}

func (h *Handler) directory(c *gin.Context) {
	role := c.Query("role")

	var (
		users []domain.User
		err   error
	)
	if role != "" {
		users, err = h.users.ByRole(c.Request.Context(), domain.Role(role))
	} else {
		users, err = h.users.Directory(c.Request.Context())
	}
	if err != nil {
		httpapi.RespondError(c, "load directory", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

func (h *Handler) get(c *gin.Context) {
	user, err := h.users.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		httpapi.RespondError(c, "load user", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

func (h *Handler) provision(c *gin.Context) {
	var in domain.ProvisionInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body", "details": err.Error()})
		return
	}

	user, err := h.users.Provision(c.Request.Context(), in)
	if err != nil {
		httpapi.RespondError(c, "create user", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"user": user})
}

func (h *Handler) update(c *gin.Context) {
	var upd domain.AdminUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body", "details": err.Error()})
		return
	}

	user, err := h.users.AdminUpdate(c.Request.Context(), c.Param("id"), upd)
	if err != nil {
		httpapi.RespondError(c, "update user", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

func (h *Handler) delete(c *gin.Context) {
	id := c.Param("id")
	if id == auth.CurrentUser(c).ID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "delete user failed", "details": "cannot delete your own account"})
		return
	}

	if err := h.users.Delete(c.Request.Context(), id); err != nil {
		httpapi.RespondError(c, "delete user", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

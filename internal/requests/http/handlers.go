package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	httpapi "github.com/talenthub/portal-backend/internal/api/http"
	"github.com/talenthub/portal-backend/internal/auth"
	"github.com/talenthub/portal-backend/internal/requests/domain"
	usersdomain "github.com/talenthub/portal-backend/internal/users/domain"
	"github.com/talenthub/portal-backend/internal/validation"
)

func (h *Handler) submitLeave(c *gin.Context) {
	var in domain.LeaveInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body", "details": err.Error()})
		return
	}

	req, err := h.submission.SubmitLeave(c.Request.Context(), auth.CurrentUser(c), in)
	if err != nil {
		httpapi.RespondError(c, "submit leave request", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"request": req})
}

func (h *Handler) submitITTicket(c *gin.Context) {
	var in domain.ITTicketInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body", "details": err.Error()})
		return
	}

	req, err := h.submission.SubmitITTicket(c.Request.Context(), auth.CurrentUser(c), in)
	if err != nil {
		httpapi.RespondError(c, "submit IT ticket", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"request": req})
}

func (h *Handler) submitProfileUpdate(c *gin.Context) {
	var in usersdomain.ProfileFields
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body", "details": err.Error()})
		return
	}

	req, err := h.submission.SubmitProfileUpdate(c.Request.Context(), auth.CurrentUser(c), in)
	if err != nil {
		httpapi.RespondError(c, "submit profile update", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"request": req})
}

func (h *Handler) myPendingProfileUpdate(c *gin.Context) {
	pending, err := h.submission.HasPendingProfileUpdate(c.Request.Context(), auth.CurrentUser(c).ID)
	if err != nil {
		httpapi.RespondError(c, "check pending profile update", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"pending": pending})
}

func (h *Handler) ownerHistory(c *gin.Context) {
	items, err := h.history.OwnerHistory(c.Request.Context(), auth.CurrentUser(c).ID)
	if err != nil {
		httpapi.RespondError(c, "load request history", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"requests": items})
}

func (h *Handler) pendingQueue(c *gin.Context) {
	items, err := h.history.PendingQueue(c.Request.Context())
	if err != nil {
		httpapi.RespondError(c, "load approval queue", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"requests": items})
}

func (h *Handler) inProgressTickets(c *gin.Context) {
	items, err := h.history.InProgressTickets(c.Request.Context())
	if err != nil {
		httpapi.RespondError(c, "load in-progress tickets", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"requests": items})
}

func (h *Handler) pendingProfileUpdates(c *gin.Context) {
	items, err := h.approval.PendingProfileUpdates(c.Request.Context())
	if err != nil {
		httpapi.RespondError(c, "load pending profile updates", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"requests": items})
}

func (h *Handler) approve(c *gin.Context) {
	kind, err := domain.ParseKind(c.Param("kind"))
	if err != nil {
		httpapi.RespondError(c, "approve request", err)
		return
	}

	// body is optional; only profile updates read it
	var body approveReq
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body", "details": err.Error()})
			return
		}
	}

	req, err := h.approval.Approve(c.Request.Context(), auth.CurrentUser(c), kind, c.Param("id"), body.Applied)
	if err != nil {
		httpapi.RespondError(c, "approve request", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"request": req})
}

func (h *Handler) reject(c *gin.Context) {
	kind, err := domain.ParseKind(c.Param("kind"))
	if err != nil {
		httpapi.RespondError(c, "reject request", err)
		return
	}

	req, err := h.approval.Reject(c.Request.Context(), auth.CurrentUser(c), kind, c.Param("id"))
	if err != nil {
		httpapi.RespondError(c, "reject request", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"request": req})
}

func (h *Handler) startProgress(c *gin.Context) {
	kind, err := domain.ParseKind(c.Param("kind"))
	if err == nil && kind != domain.KindITTicket {
		err = validation.New("kind", "only IT tickets can be put in progress")
	}
	if err != nil {
		httpapi.RespondError(c, "start ticket progress", err)
		return
	}

	req, err := h.approval.StartProgress(c.Request.Context(), auth.CurrentUser(c), c.Param("id"))
	if err != nil {
		httpapi.RespondError(c, "start ticket progress", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"request": req})
}

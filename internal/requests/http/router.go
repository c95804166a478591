package http

import "github.com/gin-gonic/gin"

// Register attaches request routes. approver guards the decision endpoints.
func (h *Handler) Register(rg *gin.RouterGroup, approver gin.HandlerFunc) {
	rg.POST("/leave", h.submitLeave)
	rg.POST("/it-tickets", h.submitITTicket)
	rg.POST("/profile-updates", h.submitProfileUpdate)
	rg.GET("/profile-updates/pending/me", h.myPendingProfileUpdate)
	rg.GET("/history", h.ownerHistory)

	rg.GET("/queue", approver, h.pendingQueue)
	rg.GET("/queue/in-progress", approver, h.inProgressTickets)
	rg.GET("/profile-updates/pending", approver, h.pendingProfileUpdates)
	rg.POST("/:kind/:id/approve", approver, h.approve)
	rg.POST("/:kind/:id/reject", approver, h.reject)
	rg.POST("/:kind/:id/progress", approver, h.startProgress)
}

package policychat

import (
	"net/http"

	"github.com/gin-gonic/gin"

	httpapi "github.com/talenthub/portal-backend/internal/api/http"
	"github.com/talenthub/portal-backend/internal/oracle"
)

type Handler struct {
	chat *Service
}

func NewHandler(chat *Service) *Handler {
	return &Handler{chat: chat}
}

func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.POST("/ask", h.ask)
}

type askReq struct {
	History []oracle.Message `json:"history"`
	Message string           `json:"message"`
}

func (h *Handler) ask(c *gin.Context) {
	var req askReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body", "details": err.Error()})
		return
	}

	reply, err := h.chat.Ask(c.Request.Context(), req.History, req.Message)
	if err != nil {
		httpapi.RespondError(c, "ask policy navigator", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reply": reply})
}

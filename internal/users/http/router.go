package http

import "github.com/gin-gonic/gin"

// Register attaches session and user routes to the authenticated API group.
// manage guards account administration.
func (h *Handler) Register(rg *gin.RouterGroup, manage gin.HandlerFunc) {
	rg.GET("/session", h.session)
	rg.GET("/views", h.views)

	users := rg.Group("/users")
	users.GET("", h.directory)
	users.GET("/:id", h.get)
	users.POST("", manage, h.provision)
	users.PATCH("/:id", manage, h.update)
	users.DELETE("/:id", manage, h.delete)
}

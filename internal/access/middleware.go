package access

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/talenthub/portal-backend/internal/auth"
)

// Require aborts with 403 unless the loaded user's role may perform act on obj.
func (a *Enforcer) Require(obj, act string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := auth.CurrentUser(c)
		if user == nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
			c.Abort()
			return
		}
		if !a.Allowed(user.Role, obj, act) {
			c.JSON(http.StatusForbidden, gin.H{"error": "forbidden", "details": obj + ":" + act})
			c.Abort()
			return
		}
		c.Next()
	}
}

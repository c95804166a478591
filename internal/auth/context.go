package auth

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/talenthub/portal-backend/internal/users/domain"
)

const (
	CtxFirebaseUID = "firebase_uid"
	CtxEmail       = "email"
	CtxUser        = "user"
)

// UserFirebaseUID extracts the verified uid set by the auth middleware.
func UserFirebaseUID(c *gin.Context) string {
	return strings.TrimSpace(c.GetString(CtxFirebaseUID))
}

// CurrentUser returns the profile loaded by middleware.LoadUser, or nil.
func CurrentUser(c *gin.Context) *domain.User {
	v, ok := c.Get(CtxUser)
	if !ok {
		return nil
	}
	u, _ := v.(*domain.User)
	return u
}

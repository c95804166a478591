package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/talenthub/portal-backend/internal/auth"
	"github.com/talenthub/portal-backend/internal/store"
	"github.com/talenthub/portal-backend/internal/users/domain"
)

// UserLookup loads a profile by uid.
type UserLookup interface {
	Get(ctx context.Context, id string) (*domain.User, error)
}

// LoadUser resolves the authenticated uid to its profile. The stored role is
// trusted from here on.
func LoadUser(users UserLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid := auth.UserFirebaseUID(c)
		if uid == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
			c.Abort()
			return
		}

		user, err := users.Get(c.Request.Context(), uid)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "User profile not found"})
			} else {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load user profile", "details": err.Error()})
			}
			c.Abort()
			return
		}

		if user.Status == domain.StatusInactive {
			c.JSON(http.StatusForbidden, gin.H{"error": "account is inactive"})
			c.Abort()
			return
		}

		c.Set(auth.CtxUser, user)
		c.Next()
	}
}

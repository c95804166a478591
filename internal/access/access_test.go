package access

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talenthub/portal-backend/internal/auth"
	"github.com/talenthub/portal-backend/internal/users/domain"
)

func TestViews(t *testing.T) {
	e, err := New()
	require.NoError(t, err)

	assert.Equal(t,
		[]string{"dashboard", "profile", "learning", "performance", "forms", "certs", "directory", "documents", "feedback"},
		e.Views(domain.RoleCandidate))
	assert.Equal(t,
		[]string{"dashboard", "profile", "approvals", "risk", "cohorts", "announcements", "directory", "documents", "feedback"},
		e.Views(domain.RoleManager))
	assert.Equal(t,
		[]string{"dashboard", "profile", "admin", "risk", "cohorts", "announcements", "directory", "documents", "feedback"},
		e.Views(domain.RoleAdmin))
	assert.Equal(t,
		[]string{"dashboard", "profile", "risk", "performance", "cohorts", "announcements", "directory", "documents", "feedback"},
		e.Views(domain.RoleTechChampion))

	assert.Empty(t, e.Views(domain.Role("Intern")))
}

func TestAllowed_Approver(t *testing.T) {
	e, err := New()
	require.NoError(t, err)

	for _, role := range domain.Roles {
		assert.Equal(t, role.IsApprover(), e.Allowed(role, ObjRequests, ActApprove), string(role))
	}
	assert.True(t, e.Allowed(domain.RoleAdmin, ObjUsers, ActManage))
	assert.False(t, e.Allowed(domain.RoleManager, ObjUsers, ActManage))
	assert.False(t, e.Allowed(domain.RoleCandidate, ObjAnalytics, ActRead))
}

func TestRequire(t *testing.T) {
	gin.SetMode(gin.TestMode)
	e, err := New()
	require.NoError(t, err)

	build := func(user *domain.User) *gin.Engine {
		r := gin.New()
		r.Use(func(c *gin.Context) {
			if user != nil {
				c.Set(auth.CtxUser, user)
			}
			c.Next()
		})
		r.POST("/approve", e.Require(ObjRequests, ActApprove), func(c *gin.Context) {
			c.Status(http.StatusNoContent)
		})
		return r
	}

	cases := []struct {
		name string
		user *domain.User
		want int
	}{
		{"anonymous", nil, http.StatusUnauthorized},
		{"candidate", &domain.User{ID: "c", Role: domain.RoleCandidate}, http.StatusForbidden},
		{"manager", &domain.User{ID: "m", Role: domain.RoleManager}, http.StatusNoContent},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			build(tc.user).ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/approve", nil))
			assert.Equal(t, tc.want, w.Code)
		})
	}
}

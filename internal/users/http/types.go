package http

import (
	"github.com/talenthub/portal-backend/internal/access"
	"github.com/talenthub/portal-backend/internal/users/service"
)

// Handler serves the session, directory and admin user endpoints.
type Handler struct {
	users  *service.UserService
	access *access.Enforcer
}

func New(users *service.UserService, enforcer *access.Enforcer) *Handler {
	return &Handler{users: users, access: enforcer}
}

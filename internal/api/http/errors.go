package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/talenthub/portal-backend/internal/oracle"
	requestdomain "github.com/talenthub/portal-backend/internal/requests/domain"
	"github.com/talenthub/portal-backend/internal/store"
	"github.com/talenthub/portal-backend/internal/validation"
)

var ErrForbidden = errors.New("forbidden")

// StatusFor maps a service error onto an HTTP status.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, validation.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, requestdomain.ErrInvalidTransition), errors.Is(err, store.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ErrForbidden), errors.Is(err, requestdomain.ErrNotApprover):
		return http.StatusForbidden
	case errors.Is(err, oracle.ErrExternalService):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// RespondError writes {"error": ...} with the mapped status, naming the
// failed action so the client can surface it.
func RespondError(c *gin.Context, action string, err error) {
	body := gin.H{"error": action + " failed", "details": err.Error()}

	var verr *validation.Error
	if errors.As(err, &verr) {
		body["field"] = verr.Field
	}

	c.JSON(StatusFor(err), body)
}

package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	authdomain "github.com/gatherkit/gatherkit/internal/auth/domain"
	"github.com/gatherkit/gatherkit/internal/authz"
	eventdomain "github.com/gatherkit/gatherkit/internal/event/domain"
	invitedomain "github.com/gatherkit/gatherkit/internal/invite/domain"
	orgdomain "github.com/gatherkit/gatherkit/internal/organization/domain"
	"gorm.io/gorm"
)

var (
	ErrUnauthorized   = errors.New("unauthorized")
	ErrInvalidRequest = errors.New("invalid request")
	ErrNotFound       = errors.New("not_found")
)

// envelope is the uniform response body. Error holds nil on success, a
// message string, or a per-field map for validation failures.
type envelope struct {
	Data  any `json:"data"`
	Error any `json:"error"`
}

func respond(c *gin.Context, status int, data any) {
	c.JSON(status, envelope{Data: data, Error: nil})
}

// AbortWithError records err for the error handling middleware and
// stops the handler chain.
func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, message := mapError(lastErr.Err)
		c.AbortWithStatusJSON(status, envelope{Data: nil, Error: message})
	}
}

func mapError(err error) (int, any) {
	var fieldErrs *authdomain.FieldErrors
	if errors.As(err, &fieldErrs) && fieldErrs != nil {
		return http.StatusBadRequest, fieldErrs
	}

	switch {
	case errors.Is(err, ErrUnauthorized),
		errors.Is(err, authdomain.ErrInvalidCredentials),
		errors.Is(err, authdomain.ErrInvalidSession),
		errors.Is(err, authdomain.ErrSessionNotFound),
		errors.Is(err, authdomain.ErrSessionExpired),
		errors.Is(err, authdomain.ErrSessionRevoked),
		errors.Is(err, authdomain.ErrUserNotFound):
		return http.StatusUnauthorized, "unauthorized"

	case errors.Is(err, authz.ErrForbidden):
		return http.StatusForbidden, "forbidden"
	case errors.Is(err, orgdomain.ErrNotMember),
		errors.Is(err, eventdomain.ErrPublishForbidden),
		errors.Is(err, eventdomain.ErrDeleteForbidden):
		return http.StatusForbidden, err.Error()

	case errors.Is(err, invitedomain.ErrOrganizationGone):
		return http.StatusGone, "organization no longer exists"

	case errors.Is(err, ErrNotFound),
		errors.Is(err, orgdomain.ErrNotFound),
		errors.Is(err, invitedomain.ErrNotFound),
		errors.Is(err, eventdomain.ErrNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return http.StatusNotFound, "not found"

	case errors.Is(err, authdomain.ErrUserExists),
		errors.Is(err, orgdomain.ErrNameTaken):
		return http.StatusConflict, "already exists"
	case errors.Is(err, invitedomain.ErrAlreadyInvited),
		errors.Is(err, invitedomain.ErrAlreadyMember),
		errors.Is(err, invitedomain.ErrNotPending),
		errors.Is(err, invitedomain.ErrAlreadyCancelled),
		errors.Is(err, invitedomain.ErrAlreadyAccepted):
		return http.StatusConflict, err.Error()

	case errors.Is(err, ErrInvalidRequest):
		return http.StatusBadRequest, "invalid request"
	case errors.Is(err, invitedomain.ErrInviteeNotFound),
		errors.Is(err, eventdomain.ErrTitleRequired):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, orgdomain.ErrInvalidName):
		return http.StatusBadRequest, "Name is required"

	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

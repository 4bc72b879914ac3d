package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/inkpost/server/internal/models"
)

// statusFromError maps business error kinds to HTTP status codes.
func statusFromError(err error) int {
	switch {
	case errors.Is(err, models.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrInvalidCredentials),
		errors.Is(err, models.ErrTokenExpiredOrInvalid):
		return http.StatusUnauthorized
	case errors.Is(err, models.ErrAccessBlocked),
		errors.Is(err, models.ErrAccessUnverified),
		errors.Is(err, models.ErrContentRejected):
		return http.StatusForbidden
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrDuplicateAccount),
		errors.Is(err, models.ErrAlreadyFollowing):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, err error) {
	c.JSON(statusFromError(err), models.ErrorResponse(err.Error()))
}

// currentUser returns the user record attached by the auth middleware.
func currentUser(c *gin.Context) (*models.User, bool) {
	v, exists := c.Get("user")
	if !exists {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse("unauthorized"))
		return nil, false
	}
	user, ok := v.(*models.User)
	if !ok {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse("invalid user in context"))
		return nil, false
	}
	return user, true
}

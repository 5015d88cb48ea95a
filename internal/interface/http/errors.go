package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/pratsy91/todo-backend/internal/application"
	"github.com/pratsy91/todo-backend/pkg/helpers"
	"github.com/pratsy91/todo-backend/pkg/response"
)

// writeError maps application errors to status codes. Ownership violations
// answer 401 like missing credentials. Unknown errors are logged and reported
// with a generic message.
func writeError(c *gin.Context, logger *logrus.Logger, err error) {
	switch {
	case errors.Is(err, application.ErrValidation):
		response.Error(c, http.StatusBadRequest, "invalid payload", validationDetail(err))
	case errors.Is(err, application.ErrEmailTaken):
		response.Error(c, http.StatusBadRequest, err.Error(), nil)
	case errors.Is(err, application.ErrInvalidCredentials):
		response.Error(c, http.StatusUnauthorized, "invalid email or password", nil)
	case errors.Is(err, application.ErrForbidden):
		response.Error(c, http.StatusUnauthorized, err.Error(), nil)
	case errors.Is(err, application.ErrTodoNotFound), errors.Is(err, application.ErrUserNotFound):
		response.Error(c, http.StatusNotFound, err.Error(), nil)
	default:
		helpers.LogError(logger, "request failed", err, logrus.Fields{
			"request_id": c.GetString("request_id"),
			"path":       c.Request.URL.Path,
		})
		response.Error(c, http.StatusBadRequest, "request could not be completed", nil)
	}
}

// validationDetail strips the sentinel prefix from a wrapped ErrValidation.
func validationDetail(err error) string {
	msg := err.Error()
	prefix := application.ErrValidation.Error() + ": "
	return strings.TrimPrefix(msg, prefix)
}

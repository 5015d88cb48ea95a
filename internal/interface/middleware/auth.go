package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/pratsy91/todo-backend/internal/domain/entity"
	"github.com/pratsy91/todo-backend/pkg/helpers"
	"github.com/pratsy91/todo-backend/pkg/response"
)

const (
	CtxUserIDKey = "userID"
	CtxUserKey   = "user"
)

type userCtxKey struct{}

// UserLookup resolves the token subject to a user. Satisfied by the user
// repository and by the Redis user cache.
type UserLookup interface {
	GetByID(ctx context.Context, id string) (*entity.User, error)
}

// Auth requires an "Authorization: Bearer <token>" header, verifies the token
// and loads its user. On success userID and user are set in the Gin context
// and the user is attached to the request context.
func Auth(tokens *helpers.JWTManager, users UserLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" {
			response.Error(c, http.StatusUnauthorized, "not authorized, no token", nil)
			return
		}
		claims, err := tokens.ParseToken(token)
		if err != nil {
			response.Error(c, http.StatusUnauthorized, "not authorized, token failed", nil)
			return
		}
		u, err := users.GetByID(c.Request.Context(), claims.UserID)
		if err != nil || u == nil {
			response.Error(c, http.StatusUnauthorized, "not authorized, user not found", nil)
			return
		}

		c.Set(CtxUserIDKey, u.ID)
		c.Set(CtxUserKey, u)
		c.Request = c.Request.WithContext(context.WithValue(c.Request.Context(), userCtxKey{}, u))
		c.Next()
	}
}

// UserFromContext returns the user attached by Auth, if any.
func UserFromContext(ctx context.Context) (*entity.User, bool) {
	u, ok := ctx.Value(userCtxKey{}).(*entity.User)
	return u, ok && u != nil
}

func bearerToken(header string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/pratsy91/todo-backend/internal/interface/http"
)

// UserModule wires account routes.
// Public: POST /users/register, POST /users/login
// Protected: GET /users/me
type UserModule struct {
	Auth *handlers.AuthHandler
	User *handlers.UserHandler
	// AuthMW guards the protected routes.
	AuthMW gin.HandlerFunc
}

func NewUserModule(auth *handlers.AuthHandler, user *handlers.UserHandler, authMW gin.HandlerFunc) *UserModule {
	return &UserModule{Auth: auth, User: user, AuthMW: authMW}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	users := rg.Group("/users")
	users.POST("/register", m.Auth.Register)
	users.POST("/login", m.Auth.Login)
	users.GET("/me", m.AuthMW, m.User.Me)
}

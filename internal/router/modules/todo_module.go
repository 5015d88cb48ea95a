package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/pratsy91/todo-backend/internal/interface/http"
)

// TodoModule wires the todo CRUD routes; all of them require a token.
type TodoModule struct {
	Handler *handlers.TodoHandler
	AuthMW  gin.HandlerFunc
}

func NewTodoModule(h *handlers.TodoHandler, authMW gin.HandlerFunc) *TodoModule {
	return &TodoModule{Handler: h, AuthMW: authMW}
}

func (m *TodoModule) Register(rg *gin.RouterGroup) {
	todos := rg.Group("/todos")
	todos.Use(m.AuthMW)
	{
		todos.GET("", m.Handler.List)
		todos.POST("", m.Handler.Create)
		todos.PUT("/:id", m.Handler.Update)
		todos.DELETE("/:id", m.Handler.Delete)
	}
}

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/pratsy91/todo-backend/internal/application"
	"github.com/pratsy91/todo-backend/internal/interface/middleware"
	"github.com/pratsy91/todo-backend/pkg/response"
	"github.com/pratsy91/todo-backend/pkg/validation"
)

// TodoHandler serves /api/todos. Every route sits behind middleware.Auth.
type TodoHandler struct {
	Svc    *application.TodoService
	Logger *logrus.Logger
}

func NewTodoHandler(svc *application.TodoService, logger *logrus.Logger) *TodoHandler {
	return &TodoHandler{Svc: svc, Logger: logger}
}

// The owner is never read from the body.
type createTodoRequest struct {
	Text string `json:"text" binding:"required,notblank"`
}

// Blank text is rejected by the service once ownership is settled.
type updateTodoRequest struct {
	Text      *string `json:"text"`
	Completed *bool   `json:"completed"`
}

func (h *TodoHandler) List(c *gin.Context) {
	todos, err := h.Svc.List(c.Request.Context(), c.GetString(middleware.CtxUserIDKey))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toTodoResponses(todos))
}

func (h *TodoHandler) Create(c *gin.Context) {
	var req createTodoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	t, err := h.Svc.Create(c.Request.Context(), c.GetString(middleware.CtxUserIDKey), req.Text)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, toTodoResponse(t))
}

func (h *TodoHandler) Update(c *gin.Context) {
	var req updateTodoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	t, err := h.Svc.Update(c.Request.Context(), c.GetString(middleware.CtxUserIDKey), c.Param("id"), application.TodoPatch{
		Text:      req.Text,
		Completed: req.Completed,
	})
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toTodoResponse(t))
}

func (h *TodoHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	if err := h.Svc.Delete(c.Request.Context(), c.GetString(middleware.CtxUserIDKey), id); err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"id": id})
}

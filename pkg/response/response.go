package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorBody is the JSON shape of every failed request.
type ErrorBody struct {
	Message   string      `json:"message"`
	Error     interface{} `json:"error,omitempty"`
	RequestID string      `json:"request_id,omitempty"`
}

// Success writes data as the raw JSON body.
func Success[T any](ctx *gin.Context, status int, data T) {
	if status == 0 {
		status = http.StatusOK
	}
	ctx.JSON(status, data)
}

// Error aborts the chain and writes an ErrorBody.
func Error(ctx *gin.Context, status int, message string, err interface{}) ErrorBody {
	if status == 0 {
		status = http.StatusBadRequest
	}
	body := ErrorBody{
		Message:   message,
		Error:     err,
		RequestID: ctx.GetString("request_id"),
	}
	ctx.AbortWithStatusJSON(status, body)
	return body
}

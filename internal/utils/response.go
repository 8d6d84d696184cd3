package utils

import (
	"github.com/gin-gonic/gin"
	"github.com/inkwell-hq/inkwell/internal/apperrors"
)

// Response is the uniform envelope every endpoint returns.
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// Respond writes a success envelope with the given status code.
func Respond(c *gin.Context, status int, message string, data interface{}) {
	c.JSON(status, Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// Fail maps err to its HTTP status and writes an error envelope. For
// unexpected (500-class) errors the underlying error text is included
// only outside release mode.
func Fail(c *gin.Context, err error) {
	status := apperrors.StatusOf(err)

	resp := Response{
		Success: false,
		Message: apperrors.MessageOf(err),
	}
	if status >= 500 && gin.Mode() != gin.ReleaseMode {
		resp.Error = err.Error()
	}

	c.JSON(status, resp)
}

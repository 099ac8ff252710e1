package response

import (
	"go-timesheet/internal/shared/apperror"

	"github.com/gin-gonic/gin"
)

// ErrorBody is the JSON shape of every failed request.
type ErrorBody struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Details any    `json:"details,omitempty"`
}

// Success writes data under a single named key, e.g. {"leave_request": {...}}.
func Success(c *gin.Context, status int, key string, data any) {
	c.JSON(status, gin.H{key: data})
}

func Error(c *gin.Context, status int, errorCode string, message string, details any) {
	c.JSON(status, ErrorBody{
		Error:   errorCode,
		Message: message,
		Details: details,
	})
}

// Abort writes an error body and stops the handler chain.
func Abort(c *gin.Context, status int, errorCode string, message string) {
	c.AbortWithStatusJSON(status, ErrorBody{
		Error:   errorCode,
		Message: message,
	})
}

// DevModeKey is set on the gin context when error internals may be exposed.
const DevModeKey = "dev_mode"

// FromError maps err through apperror and writes the error body.
func FromError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err, c.GetBool(DevModeKey))
	Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"go-timesheet/internal/shared/apperror"
	"go-timesheet/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// DevMode marks the request so error bodies may carry internal details.
func DevMode(enabled bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(response.DevModeKey, enabled)
		c.Next()
	}
}

// Recovery turns a panic into a 500 body. The stack trace is only included
// when devMode is set.
func Recovery(devMode bool, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}

			stack := string(debug.Stack())
			logger.Error("panic recovered",
				zap.Any("panic", rec),
				zap.String("path", c.Request.URL.Path),
				zap.String("request_id", c.GetString("request_id")),
				zap.String("stack", stack),
			)

			body := response.ErrorBody{
				Error:   apperror.CodeInternalError,
				Message: apperror.ErrInternal.Message,
			}
			if devMode {
				body.Details = gin.H{
					"panic": fmt.Sprint(rec),
					"stack": stack,
				}
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError, body)
		}()

		c.Next()
	}
}

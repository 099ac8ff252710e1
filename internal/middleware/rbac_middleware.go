package middleware

import (
	"go-timesheet/internal/rbac"
	"go-timesheet/internal/shared/apperror"

	"github.com/gin-gonic/gin"
)

// HasReadAllKey is set by ReadScope; handlers pass it to services to decide
// between all rows and the caller's own rows.
const HasReadAllKey = "has_read_all"

// RBACService is the subset of rbac.Service the middleware needs.
type RBACService interface {
	Enforce(req rbac.EnforceRequest) (bool, error)
	CanReadAll(role, resource string) bool
}

func RBACAuthorize(service RBACService, resource, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString("role")
		if c.GetString("user_id") == "" {
			abortWith(c, apperror.ErrUnauthorized)
			return
		}

		allowed, err := service.Enforce(rbac.EnforceRequest{
			Role:     role,
			Resource: resource,
			Action:   action,
		})
		if err != nil {
			abortWith(c, apperror.Wrap(err, apperror.KindInternal, apperror.CodeInternalError, "authorization check failed"))
			return
		}

		if !allowed {
			abortWith(c, apperror.ErrForbidden.WithDetails(gin.H{"required": resource + ":" + action}))
			return
		}
		c.Next()
	}
}

// ReadScope records whether the caller may read every user's rows of resource.
func ReadScope(service RBACService, resource string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(HasReadAllKey, service.CanReadAll(c.GetString("role"), resource))
		c.Next()
	}
}

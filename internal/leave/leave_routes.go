package leave

import (
	"go-timesheet/internal/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts the leave request endpoints on an authenticated
// /leave-calendar group. idempotency may be nil.
func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService middleware.RBACService,
	idempotency gin.HandlerFunc,
) {
	create := []gin.HandlerFunc{middleware.RBACAuthorize(rbacService, "leave", "create")}
	if idempotency != nil {
		create = append(create, idempotency)
	}
	create = append(create, handler.Create)

	scope := middleware.ReadScope(rbacService, "leave")

	r.GET("", middleware.RBACAuthorize(rbacService, "leave", "read"), scope, handler.List)
	r.POST("", create...)
	r.GET("/:id", middleware.RBACAuthorize(rbacService, "leave", "read"), scope, handler.GetByID)
	r.PUT("/:id/status", middleware.RBACAuthorize(rbacService, "leave", "approve"), handler.UpdateStatus)
	r.PUT("/:id/notes", middleware.RBACAuthorize(rbacService, "leave", "approve"), handler.UpdateNotes)
}

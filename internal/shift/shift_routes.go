package shift

import (
	"go-timesheet/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rbacService middleware.RBACService) {
	r.GET("",
		middleware.RBACAuthorize(rbacService, "shift", "read"),
		middleware.ReadScope(rbacService, "shift"),
		handler.List,
	)
	r.POST("", middleware.RBACAuthorize(rbacService, "shift", "write"), handler.Upsert)
}

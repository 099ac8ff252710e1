package leavebalance

import (
	"go-timesheet/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rbacService middleware.RBACService) {
	read := middleware.RBACAuthorize(rbacService, "balance", "read")
	scope := middleware.ReadScope(rbacService, "balance")

	r.GET("", read, scope, handler.List)
	r.GET("/current", read, scope, handler.Current)
	r.PUT("", middleware.RBACAuthorize(rbacService, "balance", "write"), handler.Upsert)
}

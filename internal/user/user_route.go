package user

import (
	"go-timesheet/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, rbacService middleware.RBACService) {
	r.GET("/me", h.Me)
	r.GET("", middleware.RBACAuthorize(rbacService, "user", "read"), h.GetAll)
	r.PUT("/:id", middleware.RBACAuthorize(rbacService, "user", "write"), h.Upsert)
	r.PATCH("/:id/status", middleware.RBACAuthorize(rbacService, "user", "write"), h.ToggleStatus)
}

package attendance

import (
	"go-timesheet/internal/featureflag"
	"go-timesheet/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, rbacService middleware.RBACService) {
	r.GET("",
		middleware.RBACAuthorize(rbacService, "attendance", "read"),
		middleware.ReadScope(rbacService, "attendance"),
		h.List,
	)
	r.POST("", middleware.RBACAuthorize(rbacService, "attendance", "write"), h.Upsert)

	self := r.Group("", middleware.RequireFeature(featureflag.AttendanceSelfService))
	{
		self.POST("/clock-in", middleware.RBACAuthorize(rbacService, "attendance", "clock"), h.ClockIn)
		self.POST("/clock-out", middleware.RBACAuthorize(rbacService, "attendance", "clock"), h.ClockOut)
	}
}

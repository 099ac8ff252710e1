package report

import (
	"go-timesheet/internal/featureflag"
	"go-timesheet/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, rbacService middleware.RBACService) {
	reports := r.Group("",
		middleware.RequireFeature(featureflag.Reports),
		middleware.RBACAuthorize(rbacService, "report", "read"),
	)
	{
		reports.GET("/monthly-attendance", h.MonthlyAttendance)
		reports.GET("/shift-analysis", h.ShiftAnalysis)
	}
}

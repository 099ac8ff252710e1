package report

import (
	"bytes"
	"fmt"
	"net/http"

	"go-timesheet/internal/shared/apperror"
	"go-timesheet/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("report.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("report.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) MonthlyAttendance(c *gin.Context) {
	var query MonthlyQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.FromError(c, apperror.MapValidationError(err))
		return
	}

	if query.Format != "" && query.Format != FormatJSON {
		h.export(c, query)
		return
	}

	rows, err := h.service.MonthlyAttendance(c.Request.Context(), query.Month, query.Year)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "monthly_attendance_report", rows)
}

func (h *Handler) export(c *gin.Context, query MonthlyQuery) {
	var buf bytes.Buffer
	info, err := h.service.Export(c.Request.Context(), query.Month, query.Year, query.Format, &buf)
	if err != nil {
		response.FromError(c, err)
		return
	}

	h.logger.Info("report exported",
		zap.String("format", query.Format),
		zap.Int("bytes", buf.Len()),
	)
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, info.Filename))
	c.Data(http.StatusOK, info.ContentType, buf.Bytes())
}

func (h *Handler) ShiftAnalysis(c *gin.Context) {
	var query ShiftAnalysisQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.FromError(c, apperror.MapValidationError(err))
		return
	}

	rows, err := h.service.ShiftAnalysis(c.Request.Context(), query.StartDate, query.EndDate)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "shift_wise_attendance_analysis", rows)
}

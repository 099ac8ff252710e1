package shift

import (
	"net/http"

	"go-timesheet/internal/middleware"
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
	l := zap.L().Named("shift.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("shift.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) Upsert(c *gin.Context) {
	var req UpsertShiftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("shift request validation failed", zap.Error(err))
		response.FromError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.Upsert(c.Request.Context(), c.GetString("user_id"), req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "shift", resp)
}

func (h *Handler) List(c *gin.Context) {
	var query ListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.FromError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.List(c.Request.Context(), c.GetString("user_id"), c.GetBool(middleware.HasReadAllKey), query)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "shift_roster", resp)
}

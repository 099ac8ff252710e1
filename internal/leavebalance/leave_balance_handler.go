package leavebalance

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
	l := zap.L().Named("leavebalance.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leavebalance.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) fail(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err, c.GetBool(response.DevModeKey))
	h.logger.Warn("leave balance request failed",
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) List(c *gin.Context) {
	var query ListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.fail(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.List(c.Request.Context(), c.GetString("user_id"), c.GetBool(middleware.HasReadAllKey), query)
	if err != nil {
		h.fail(c, err)
		return
	}

	response.Success(c, http.StatusOK, "leave_balances", resp)
}

func (h *Handler) Current(c *gin.Context) {
	var query ListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.fail(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.Current(c.Request.Context(), c.GetString("user_id"), c.GetBool(middleware.HasReadAllKey), query)
	if err != nil {
		h.fail(c, err)
		return
	}

	response.Success(c, http.StatusOK, "leave_balances", resp)
}

func (h *Handler) Upsert(c *gin.Context) {
	var req UpsertLeaveBalanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.Upsert(c.Request.Context(), c.GetString("user_id"), req)
	if err != nil {
		h.fail(c, err)
		return
	}

	response.Success(c, http.StatusOK, "leave_balance", resp)
}

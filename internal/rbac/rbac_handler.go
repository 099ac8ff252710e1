package rbac

import (
	"go-timesheet/internal/shared/response"
	"net/http"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// Permissions lists the grants of the caller's role.
func (h *Handler) Permissions(c *gin.Context) {
	role := c.GetString("role")

	resp, err := h.service.Permissions(role)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "permissions", resp)
}

package handler

import (
	"net/http"

	"roofing_crm_backend/internal/assistant/service"
	"roofing_crm_backend/internal/assistant/transport"
	"roofing_crm_backend/platform/httpkit"
	"roofing_crm_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

// Handler serves the AI assistant endpoints.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// RegisterRoutes mounts the assistant routes. Extra handlers run before
// each route, such as a rate limiter.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, middleware ...gin.HandlerFunc) {
	handlers := append(middleware, h.GenerateFollowUpTasks)
	rg.POST("/follow-up-tasks", handlers...)
}

func (h *Handler) GenerateFollowUpTasks(c *gin.Context) {
	var req transport.GenerateFollowUpTasksRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, validator.FieldErrors(err))
		return
	}

	result, err := h.svc.GenerateFollowUpTasks(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// Package assistant provides the AI follow-up task drafter module.
package assistant

import (
	"roofing_crm_backend/internal/assistant/handler"
	"roofing_crm_backend/internal/assistant/service"
	apphttp "roofing_crm_backend/internal/http"
	"roofing_crm_backend/platform/logger"
	"roofing_crm_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

// Module is the assistant module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule wires the assistant. drafter may be nil when no AI provider is
// configured; the endpoint then answers 503.
func NewModule(drafter service.TaskDrafter, val *validator.Validator, log *logger.Logger) *Module {
	svc := service.New(drafter, log)
	return &Module{
		handler: handler.New(svc, val),
		service: svc,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "assistant"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts the assistant routes, rate limited per client IP.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	var middleware []gin.HandlerFunc
	if ctx.DraftRateLimiter != nil {
		middleware = append(middleware, ctx.DraftRateLimiter.RateLimit())
	}
	m.handler.RegisterRoutes(ctx.V1.Group("/assistant"), middleware...)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)

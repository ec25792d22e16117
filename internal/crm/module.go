// Package crm provides the accounts, contacts, properties and leads module.
package crm

import (
	"roofing_crm_backend/internal/crm/handler"
	"roofing_crm_backend/internal/crm/repository"
	"roofing_crm_backend/internal/crm/service"
	"roofing_crm_backend/internal/events"
	apphttp "roofing_crm_backend/internal/http"
	"roofing_crm_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the CRM bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates and initializes the CRM module with all its dependencies.
func NewModule(pool *pgxpool.Pool, eventBus events.Bus, val *validator.Validator) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, eventBus)
	return &Module{handler: handler.New(svc, val), service: svc}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "crm"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts CRM routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.V1)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)

// Package followups provides the dashboard module: follow-up tasks, their
// urgency buckets and pipeline health alerts.
package followups

import (
	"context"
	"log/slog"
	"time"

	"roofing_crm_backend/internal/events"
	"roofing_crm_backend/internal/followups/handler"
	"roofing_crm_backend/internal/followups/ports"
	"roofing_crm_backend/internal/followups/service"
	apphttp "roofing_crm_backend/internal/http"
	"roofing_crm_backend/platform/logger"
)

// Module is the followups bounded context module implementing http.Module.
type Module struct {
	handler     *handler.Handler
	service     *service.Service
	invalidator ports.SnapshotInvalidator
	log         *logger.Logger
}

// NewModule wires the dashboard service. invalidator may be nil when no
// snapshot cache is configured.
func NewModule(reader ports.SnapshotReader, invalidator ports.SnapshotInvalidator, loc *time.Location, log *logger.Logger) *Module {
	svc := service.New(reader, service.SystemClock{}, loc)
	return &Module{
		handler:     handler.New(svc),
		service:     svc,
		invalidator: invalidator,
		log:         log,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "followups"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts dashboard routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.V1.Group("/dashboard"))
}

// RegisterHandlers subscribes the module to CRM write events so cached
// snapshots never outlive a follow-up change.
func (m *Module) RegisterHandlers(bus events.Bus) {
	if m.invalidator == nil {
		return
	}
	bus.Subscribe(events.FollowUpScheduled{}.EventName(), events.HandlerFunc(func(ctx context.Context, event events.Event) error {
		if err := m.invalidator.Invalidate(ctx); err != nil {
			m.log.CacheError("snapshot_invalidate", err)
			return nil
		}
		if e, ok := event.(events.FollowUpScheduled); ok {
			m.log.Debug("snapshot invalidated",
				slog.String("subject_type", e.SubjectType),
				slog.String("subject_id", e.SubjectID),
			)
		}
		return nil
	}))
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)

// Package notification turns pipeline events into outbound notifications:
// a live SSE feed for open dashboards and an email digest per scan.
// Domain modules publish events and never talk to email or SSE directly.
package notification

import (
	"context"
	"log/slog"

	"roofing_crm_backend/internal/email"
	"roofing_crm_backend/internal/events"
	apphttp "roofing_crm_backend/internal/http"
	"roofing_crm_backend/internal/notification/sse"
	"roofing_crm_backend/platform/logger"
)

// Options configures delivery channels. Every field is optional.
type Options struct {
	Sender       email.Sender
	DigestTo     string
	DashboardURL string
	// Relay forwards alerts to other processes. Set it in processes that
	// raise alerts but serve no dashboards.
	Relay *RedisRelay
}

// Module handles pipeline notification events.
type Module struct {
	sse          *sse.Service
	sender       email.Sender
	digestTo     string
	dashboardURL string
	relay        *RedisRelay
	log          *logger.Logger
}

// New creates the notification module.
func New(opts Options, log *logger.Logger) *Module {
	sender := opts.Sender
	if sender == nil {
		sender = email.NoopSender{}
	}
	return &Module{
		sse:          sse.New(log),
		sender:       sender,
		digestTo:     opts.DigestTo,
		dashboardURL: opts.DashboardURL,
		relay:        opts.Relay,
		log:          log,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string { return "notification" }

// SSE returns the hub serving connected dashboards.
func (m *Module) SSE() *sse.Service { return m.sse }

// RegisterRoutes mounts the live alert stream.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.V1.GET("/dashboard/stream", m.sse.Handler())
}

// RegisterHandlers subscribes the module to pipeline and CRM events.
func (m *Module) RegisterHandlers(bus events.Bus) {
	bus.Subscribe(events.PipelineAlertRaised{}.EventName(), m)
	bus.Subscribe(events.PipelineScanCompleted{}.EventName(), m)
	bus.Subscribe(events.FollowUpScheduled{}.EventName(), m)

	m.log.Info("notification module registered event handlers")
}

// Handle routes events to the appropriate handler method.
func (m *Module) Handle(ctx context.Context, event events.Event) error {
	switch e := event.(type) {
	case events.PipelineAlertRaised:
		return m.handlePipelineAlertRaised(ctx, e)
	case events.PipelineScanCompleted:
		return m.handlePipelineScanCompleted(ctx, e)
	case events.FollowUpScheduled:
		m.push(ctx, sse.Event{
			Type: sse.EventFollowUpScheduled,
			Data: e,
		})
		return nil
	default:
		m.log.Warn("unhandled event type", "event", event.EventName())
		return nil
	}
}

func (m *Module) handlePipelineAlertRaised(ctx context.Context, e events.PipelineAlertRaised) error {
	m.log.AlertRaised(e.AlertID, e.AlertType, e.LeadID)
	m.push(ctx, sse.Event{
		Type:    sse.EventPipelineAlert,
		LeadID:  e.LeadID,
		Message: e.Message,
		Data:    e,
	})
	return nil
}

func (m *Module) handlePipelineScanCompleted(ctx context.Context, e events.PipelineScanCompleted) error {
	m.log.Info("pipeline scan completed",
		slog.Int("total", e.Total),
		slog.Int("raised", len(e.Raised)),
	)
	if len(e.Raised) == 0 || m.digestTo == "" {
		return nil
	}

	digest := email.AlertDigest{
		ScannedAt:    e.ScannedAt,
		DashboardURL: m.dashboardURL,
		Alerts:       make([]email.AlertLine, 0, len(e.Raised)),
	}
	for _, alert := range e.Raised {
		digest.Alerts = append(digest.Alerts, email.AlertLine{
			Type:            alert.AlertType,
			OpportunityName: alert.OpportunityName,
			AccountName:     alert.AccountName,
			Message:         alert.Message,
		})
	}

	if err := m.sender.SendAlertDigest(ctx, m.digestTo, digest); err != nil {
		m.log.Error("failed to send alert digest", "error", err, "alerts", len(digest.Alerts))
		return err
	}
	m.log.Info("alert digest sent", "to", m.digestTo, "alerts", len(digest.Alerts))
	return nil
}

// push broadcasts locally and, when configured, to other processes.
func (m *Module) push(ctx context.Context, event sse.Event) {
	m.sse.Broadcast(event)
	if m.relay == nil {
		return
	}
	if err := m.relay.Publish(ctx, event); err != nil {
		m.log.Warn("sse relay publish failed", slog.String("error", err.Error()))
	}
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)

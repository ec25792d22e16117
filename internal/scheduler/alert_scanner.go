package scheduler

import (
	"context"
	"fmt"
	"time"

	"roofing_crm_backend/internal/events"
	"roofing_crm_backend/internal/followups/domain"
	"roofing_crm_backend/internal/followups/ports"
	"roofing_crm_backend/platform/cache"
	"roofing_crm_backend/platform/logger"
)

// AlertLedger remembers which alert ids were already announced.
type AlertLedger interface {
	// Claim reports true the first time alertID is seen within ttl.
	Claim(ctx context.Context, alertID string, ttl time.Duration) (bool, error)
}

// RedisAlertLedger claims alert ids with SET NX.
type RedisAlertLedger struct {
	cache *cache.JSONCache
}

func NewRedisAlertLedger(c *cache.JSONCache) *RedisAlertLedger {
	return &RedisAlertLedger{cache: c}
}

func (l *RedisAlertLedger) Claim(ctx context.Context, alertID string, ttl time.Duration) (bool, error) {
	return l.cache.SetNX(ctx, "alert:"+alertID, ttl)
}

// AlertScanner runs the pipeline health rules and announces new alerts.
type AlertScanner struct {
	reader ports.SnapshotReader
	ledger AlertLedger
	bus    events.Bus
	now    func() time.Time
	loc    *time.Location
	ttl    time.Duration
	log    *logger.Logger
}

func NewAlertScanner(reader ports.SnapshotReader, ledger AlertLedger, bus events.Bus, loc *time.Location, ttl time.Duration, log *logger.Logger) *AlertScanner {
	if loc == nil {
		loc = time.UTC
	}
	return &AlertScanner{
		reader: reader,
		ledger: ledger,
		bus:    bus,
		now:    time.Now,
		loc:    loc,
		ttl:    ttl,
		log:    log,
	}
}

// Scan detects alerts as of now. Alerts already claimed within the ledger
// window are skipped. A ledger failure announces the alert anyway.
func (s *AlertScanner) Scan(ctx context.Context) (events.PipelineScanCompleted, error) {
	snap, err := s.reader.Snapshot(ctx)
	if err != nil {
		return events.PipelineScanCompleted{}, fmt.Errorf("load snapshot: %w", err)
	}

	ref := s.now().In(s.loc)
	alerts := domain.DetectAlerts(snap.Leads, ref)

	leads := make(map[string]string, len(snap.Leads))
	accountOf := make(map[string]string, len(snap.Leads))
	for _, lead := range snap.Leads {
		leads[lead.ID] = lead.OpportunityName
		accountOf[lead.ID] = lead.AccountID
	}
	accounts := snap.AccountIndex()

	completed := events.PipelineScanCompleted{
		BaseEvent: events.NewBaseEventAt(ref),
		ScannedAt: ref,
		Total:     len(alerts),
		Raised:    []events.PipelineAlertRaised{},
	}

	for _, alert := range alerts {
		if s.ledger != nil {
			fresh, err := s.ledger.Claim(ctx, alert.ID, s.ttl)
			if err != nil {
				s.log.CacheError("alert_ledger_claim", err)
			} else if !fresh {
				continue
			}
		}

		raised := events.PipelineAlertRaised{
			BaseEvent:       events.NewBaseEventAt(ref),
			AlertID:         alert.ID,
			AlertType:       alert.Type,
			Message:         alert.Message,
			LeadID:          alert.RelatedLeadID,
			OpportunityName: leads[alert.RelatedLeadID],
			AccountName:     accounts[accountOf[alert.RelatedLeadID]].Name,
		}
		completed.Raised = append(completed.Raised, raised)
		if s.bus != nil {
			s.bus.Publish(ctx, raised)
		}
	}

	if s.bus != nil {
		s.bus.Publish(ctx, completed)
	}
	return completed, nil
}

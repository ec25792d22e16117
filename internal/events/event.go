// Package events declares the CRM's domain events. The bus itself lives in
// platform/events; the aliases below let modules depend on this package only.
package events

import (
	"time"

	"roofing_crm_backend/platform/events"
	"roofing_crm_backend/platform/logger"
)

type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
	InMemoryBus = events.InMemoryBus
)

var (
	NewBaseEvent   = events.NewBaseEvent
	NewBaseEventAt = events.NewBaseEventAt
)

// NewInMemoryBus returns the process-local bus both binaries run on.
func NewInMemoryBus(log *logger.Logger) *InMemoryBus {
	return events.NewInMemoryBus(log)
}

// Subject types carried by FollowUpScheduled.
const (
	SubjectLead    = "lead"
	SubjectContact = "contact"
)

// FollowUpScheduled is published when a lead or contact follow-up is set or
// cleared. DueAt is nil when the follow-up was cleared.
type FollowUpScheduled struct {
	BaseEvent
	SubjectType  string     `json:"subjectType"`
	SubjectID    string     `json:"subjectId"`
	DueAt        *time.Time `json:"dueAt,omitempty"`
	FollowUpType string     `json:"followUpType,omitempty"`
}

func (e FollowUpScheduled) EventName() string { return "crm.follow_up.scheduled" }

// PipelineAlertRaised is published the first time an alert id is seen within
// the dedup window.
type PipelineAlertRaised struct {
	BaseEvent
	AlertID         string `json:"alertId"`
	AlertType       string `json:"alertType"`
	Message         string `json:"message"`
	LeadID          string `json:"leadId"`
	OpportunityName string `json:"opportunityName"`
	AccountName     string `json:"accountName,omitempty"`
}

func (e PipelineAlertRaised) EventName() string { return "pipeline.alert.raised" }

// PipelineScanCompleted is published after every alert scan, carrying the
// batch of newly raised alerts so subscribers can send one digest.
type PipelineScanCompleted struct {
	BaseEvent
	ScannedAt time.Time             `json:"scannedAt"`
	Total     int                   `json:"total"`
	Raised    []PipelineAlertRaised `json:"raised"`
}

func (e PipelineScanCompleted) EventName() string { return "pipeline.scan.completed" }

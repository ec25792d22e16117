package service

import (
	"context"
	"time"

	"roofing_crm_backend/internal/crm/domain"
	"roofing_crm_backend/internal/crm/transport"
	"roofing_crm_backend/internal/events"
	"roofing_crm_backend/platform/apperr"
)

// ScheduleLeadFollowUp sets the next follow-up on an open lead.
func (s *Service) ScheduleLeadFollowUp(ctx context.Context, id string, req transport.ScheduleFollowUpRequest) (domain.Lead, error) {
	lead, err := s.store.GetLead(ctx, id)
	if err != nil {
		return domain.Lead{}, err
	}
	if !lead.IsOpen() {
		return domain.Lead{}, apperr.Validation("cannot schedule a follow-up on a closed lead").
			WithDetails(map[string]string{"status": lead.Status})
	}

	dueAt := req.DueAt.UTC()
	if err := s.store.SetLeadFollowUp(ctx, id, &dueAt, req.FollowUpType); err != nil {
		return domain.Lead{}, err
	}
	if err := s.publishScheduled(ctx, events.SubjectLead, id, &dueAt, req.FollowUpType); err != nil {
		return domain.Lead{}, err
	}

	lead.NextFollowUpAt = &dueAt
	lead.FollowUpType = req.FollowUpType
	return lead, nil
}

// ClearLeadFollowUp removes a lead's next follow-up.
func (s *Service) ClearLeadFollowUp(ctx context.Context, id string) error {
	if err := s.store.SetLeadFollowUp(ctx, id, nil, ""); err != nil {
		return err
	}
	return s.publishScheduled(ctx, events.SubjectLead, id, nil, "")
}

// ScheduleContactFollowUp sets a contact's next touch.
func (s *Service) ScheduleContactFollowUp(ctx context.Context, id string, req transport.ScheduleFollowUpRequest) (domain.Contact, error) {
	contact, err := s.store.GetContact(ctx, id)
	if err != nil {
		return domain.Contact{}, err
	}

	dueAt := req.DueAt.UTC()
	if err := s.store.SetContactFollowUp(ctx, id, &dueAt, req.FollowUpType); err != nil {
		return domain.Contact{}, err
	}
	if err := s.publishScheduled(ctx, events.SubjectContact, id, &dueAt, req.FollowUpType); err != nil {
		return domain.Contact{}, err
	}

	contact.FollowUpDate = &dueAt
	contact.FollowUpType = req.FollowUpType
	return contact, nil
}

// ClearContactFollowUp removes a contact's next touch.
func (s *Service) ClearContactFollowUp(ctx context.Context, id string) error {
	if err := s.store.SetContactFollowUp(ctx, id, nil, ""); err != nil {
		return err
	}
	return s.publishScheduled(ctx, events.SubjectContact, id, nil, "")
}

// publishScheduled runs subscribers, cache invalidation included, before the
// write returns. Writes are idempotent, so a subscriber failure is returned.
func (s *Service) publishScheduled(ctx context.Context, subjectType, id string, dueAt *time.Time, followUpType string) error {
	if s.eventBus == nil {
		return nil
	}
	err := s.eventBus.PublishSync(ctx, events.FollowUpScheduled{
		BaseEvent:    events.NewBaseEvent(),
		SubjectType:  subjectType,
		SubjectID:    id,
		DueAt:        dueAt,
		FollowUpType: followUpType,
	})
	if err != nil {
		return apperr.Wrap(apperr.KindInternal, "follow-up saved but dashboard refresh failed", err)
	}
	return nil
}

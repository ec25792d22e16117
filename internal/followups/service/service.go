// Package service resolves CRM snapshots and runs the follow-up and alert
// derivations over them.
package service

import (
	"context"
	"time"

	"roofing_crm_backend/internal/followups/domain"
	"roofing_crm_backend/internal/followups/ports"
)

// Clock returns the current instant.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// ClockFunc adapts a function to Clock.
type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time { return f() }

// Service answers dashboard queries.
type Service struct {
	reader ports.SnapshotReader
	clock  Clock
	loc    *time.Location
}

// New creates the service. Reference days are evaluated in loc.
func New(reader ports.SnapshotReader, clock Clock, loc *time.Location) *Service {
	if clock == nil {
		clock = SystemClock{}
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Service{reader: reader, clock: clock, loc: loc}
}

// Location returns the dashboard time zone.
func (s *Service) Location() *time.Location {
	return s.loc
}

// reference returns ref, or now when ref is nil, in the dashboard time zone.
func (s *Service) reference(ref *time.Time) time.Time {
	if ref == nil {
		return s.clock.Now().In(s.loc)
	}
	return ref.In(s.loc)
}

// GetFollowUpTasks returns every outstanding follow-up ordered by due date.
func (s *Service) GetFollowUpTasks(ctx context.Context) ([]domain.FollowUpTask, error) {
	snap, err := s.reader.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return domain.BuildTasks(snap), nil
}

// GetCategorizedTasks buckets follow-ups relative to ref (nil means now).
func (s *Service) GetCategorizedTasks(ctx context.Context, ref *time.Time) (domain.Categorized, error) {
	tasks, err := s.GetFollowUpTasks(ctx)
	if err != nil {
		return domain.Categorized{}, err
	}
	return domain.Categorize(tasks, s.reference(ref)), nil
}

// GetPipelineAlerts scans open leads relative to ref (nil means now).
func (s *Service) GetPipelineAlerts(ctx context.Context, ref *time.Time) ([]domain.PipelineAlert, error) {
	snap, err := s.reader.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return domain.DetectAlerts(snap.Leads, s.reference(ref)), nil
}

// GetToday builds the landing summary from a single snapshot.
func (s *Service) GetToday(ctx context.Context, ref *time.Time) (domain.TodaySummary, error) {
	snap, err := s.reader.Snapshot(ctx)
	if err != nil {
		return domain.TodaySummary{}, err
	}
	at := s.reference(ref)
	categorized := domain.Categorize(domain.BuildTasks(snap), at)
	return domain.Summarize(categorized, domain.DetectAlerts(snap.Leads, at)), nil
}

// Package service validates drafter input and maps drafter failures to
// domain errors.
package service

import (
	"context"

	"roofing_crm_backend/internal/assistant/agent"
	"roofing_crm_backend/internal/assistant/transport"
	"roofing_crm_backend/platform/apperr"
	"roofing_crm_backend/platform/logger"
	"roofing_crm_backend/platform/sanitize"
)

const maxNotesRunes = 4000

const msgGenerateFailed = "failed to generate tasks"

// TaskDrafter produces follow-up tasks from interaction notes.
type TaskDrafter interface {
	DraftTasks(ctx context.Context, input agent.DraftInput) ([]string, error)
}

type Service struct {
	drafter TaskDrafter
	log     *logger.Logger
}

// New creates the service. A nil drafter disables generation.
func New(drafter TaskDrafter, log *logger.Logger) *Service {
	return &Service{drafter: drafter, log: log}
}

// Enabled reports whether an AI provider is configured.
func (s *Service) Enabled() bool {
	return s.drafter != nil
}

// GenerateFollowUpTasks drafts tasks for the described interaction.
func (s *Service) GenerateFollowUpTasks(ctx context.Context, req transport.GenerateFollowUpTasksRequest) (transport.GenerateFollowUpTasksResponse, error) {
	if s.drafter == nil {
		return transport.GenerateFollowUpTasksResponse{}, apperr.Unavailable("AI assistant is not configured")
	}

	input := agent.DraftInput{
		InteractionNotes: sanitize.Notes(req.InteractionNotes, maxNotesRunes),
		ProspectType:     sanitize.Text(req.ProspectType),
		ProspectName:     sanitize.Text(req.ProspectName),
		ProductOffered:   sanitize.Text(req.ProductOffered),
	}
	if input.InteractionNotes == "" {
		return transport.GenerateFollowUpTasksResponse{}, apperr.Validation("interaction notes are empty")
	}

	tasks, err := s.drafter.DraftTasks(ctx, input)
	if err != nil {
		s.log.WithContext(ctx).Error("task drafter failed", "error", err)
		return transport.GenerateFollowUpTasksResponse{}, apperr.Wrap(apperr.KindUnavailable, msgGenerateFailed, err)
	}
	if len(tasks) == 0 {
		s.log.WithContext(ctx).Warn("task drafter returned no tasks")
		return transport.GenerateFollowUpTasksResponse{}, apperr.Unavailable(msgGenerateFailed)
	}

	return transport.GenerateFollowUpTasksResponse{Tasks: tasks}, nil
}

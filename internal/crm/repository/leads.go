package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"roofing_crm_backend/internal/crm/domain"
	"roofing_crm_backend/platform/apperr"

	"github.com/jackc/pgx/v5"
)

const leadColumns = `
	id, opportunity_name, account_id, property_id, contact_id,
	opportunity_type, status, estimated_value, probability, expected_close_date,
	last_interaction, next_follow_up_at, COALESCE(follow_up_type, ''),
	COALESCE(delay_reason, ''), risk_score, competitors_involved`

func scanLead(row pgx.Row) (domain.Lead, error) {
	var l domain.Lead
	err := row.Scan(
		&l.ID, &l.OpportunityName, &l.AccountID, &l.PropertyID, &l.ContactID,
		&l.OpportunityType, &l.Status, &l.EstimatedValue, &l.Probability, &l.ExpectedCloseDate,
		&l.LastInteraction, &l.NextFollowUpAt, &l.FollowUpType,
		&l.DelayReason, &l.RiskScore, &l.CompetitorsInvolved,
	)
	return l, err
}

func (r *Repository) queryLeads(ctx context.Context, where string, args ...any) ([]domain.Lead, error) {
	rows, err := r.db.Query(ctx, `SELECT `+leadColumns+` FROM crm_leads `+where+` ORDER BY seq`, args...)
	if err != nil {
		return nil, fmt.Errorf("list leads: %w", err)
	}
	defer rows.Close()

	leads := []domain.Lead{}
	for rows.Next() {
		l, err := scanLead(rows)
		if err != nil {
			return nil, fmt.Errorf("scan lead: %w", err)
		}
		leads = append(leads, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate leads: %w", err)
	}
	return leads, nil
}

// ListLeads returns all leads in insertion order.
func (r *Repository) ListLeads(ctx context.Context) ([]domain.Lead, error) {
	return r.queryLeads(ctx, "")
}

// ListLeadsByAccount returns the leads of one account.
func (r *Repository) ListLeadsByAccount(ctx context.Context, accountID string) ([]domain.Lead, error) {
	return r.queryLeads(ctx, "WHERE account_id = $1", accountID)
}

// ListLeadsByContact returns the leads whose primary contact is contactID.
func (r *Repository) ListLeadsByContact(ctx context.Context, contactID string) ([]domain.Lead, error) {
	return r.queryLeads(ctx, "WHERE contact_id = $1", contactID)
}

// GetLead returns one lead.
func (r *Repository) GetLead(ctx context.Context, id string) (domain.Lead, error) {
	l, err := scanLead(r.db.QueryRow(ctx, `SELECT `+leadColumns+` FROM crm_leads WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Lead{}, apperr.NotFound(leadNotFoundMsg)
		}
		return domain.Lead{}, fmt.Errorf("get lead: %w", err)
	}
	return l, nil
}

// SetLeadFollowUp sets or clears (nil dueAt) a lead's next follow-up.
func (r *Repository) SetLeadFollowUp(ctx context.Context, id string, dueAt *time.Time, followUpType string) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE crm_leads
		SET next_follow_up_at = $2, follow_up_type = NULLIF($3, '')
		WHERE id = $1
	`, id, dueAt, followUpType)
	if err != nil {
		return fmt.Errorf("set lead follow-up: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(leadNotFoundMsg)
	}
	return nil
}

// UpsertLead inserts or replaces a lead by id.
func (r *Repository) UpsertLead(ctx context.Context, l domain.Lead) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO crm_leads (
			id, opportunity_name, account_id, property_id, contact_id,
			opportunity_type, status, estimated_value, probability, expected_close_date,
			last_interaction, next_follow_up_at, follow_up_type, delay_reason,
			risk_score, competitors_involved
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, NULLIF($13, ''), NULLIF($14, ''), $15, $16)
		ON CONFLICT (id) DO UPDATE SET
			opportunity_name = EXCLUDED.opportunity_name,
			account_id = EXCLUDED.account_id,
			property_id = EXCLUDED.property_id,
			contact_id = EXCLUDED.contact_id,
			opportunity_type = EXCLUDED.opportunity_type,
			status = EXCLUDED.status,
			estimated_value = EXCLUDED.estimated_value,
			probability = EXCLUDED.probability,
			expected_close_date = EXCLUDED.expected_close_date,
			last_interaction = EXCLUDED.last_interaction,
			next_follow_up_at = EXCLUDED.next_follow_up_at,
			follow_up_type = EXCLUDED.follow_up_type,
			delay_reason = EXCLUDED.delay_reason,
			risk_score = EXCLUDED.risk_score,
			competitors_involved = EXCLUDED.competitors_involved
	`,
		l.ID, l.OpportunityName, l.AccountID, l.PropertyID, l.ContactID,
		l.OpportunityType, l.Status, l.EstimatedValue, l.Probability, l.ExpectedCloseDate,
		l.LastInteraction, l.NextFollowUpAt, l.FollowUpType, l.DelayReason,
		l.RiskScore, l.CompetitorsInvolved,
	)
	if err != nil {
		return fmt.Errorf("upsert lead %s: %w", l.ID, err)
	}
	return nil
}

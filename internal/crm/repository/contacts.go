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

const contactColumns = `
	id, name, job_title, role_type, email, phone, account_id,
	COALESCE(relationship_status, ''), COALESCE(preferred_contact_method, ''),
	created_at, last_activity_date, follow_up_date, COALESCE(follow_up_type, '')`

func scanContact(row pgx.Row) (domain.Contact, error) {
	var c domain.Contact
	err := row.Scan(
		&c.ID, &c.Name, &c.JobTitle, &c.RoleType, &c.Email, &c.Phone, &c.AccountID,
		&c.RelationshipStatus, &c.PreferredContactMethod,
		&c.CreatedAt, &c.LastActivityDate, &c.FollowUpDate, &c.FollowUpType,
	)
	return c, err
}

func (r *Repository) queryContacts(ctx context.Context, where string, args ...any) ([]domain.Contact, error) {
	rows, err := r.db.Query(ctx, `SELECT `+contactColumns+` FROM crm_contacts `+where+` ORDER BY seq`, args...)
	if err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	defer rows.Close()

	contacts := []domain.Contact{}
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, fmt.Errorf("scan contact: %w", err)
		}
		contacts = append(contacts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate contacts: %w", err)
	}
	return contacts, nil
}

// ListContacts returns all contacts in insertion order.
func (r *Repository) ListContacts(ctx context.Context) ([]domain.Contact, error) {
	return r.queryContacts(ctx, "")
}

// ListContactsByAccount returns the contacts of one account.
func (r *Repository) ListContactsByAccount(ctx context.Context, accountID string) ([]domain.Contact, error) {
	return r.queryContacts(ctx, "WHERE account_id = $1", accountID)
}

// GetContact returns one contact.
func (r *Repository) GetContact(ctx context.Context, id string) (domain.Contact, error) {
	c, err := scanContact(r.db.QueryRow(ctx, `SELECT `+contactColumns+` FROM crm_contacts WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Contact{}, apperr.NotFound(contactNotFoundMsg)
		}
		return domain.Contact{}, fmt.Errorf("get contact: %w", err)
	}
	return c, nil
}

// SetContactFollowUp sets or clears (nil dueAt) a contact's next touch.
func (r *Repository) SetContactFollowUp(ctx context.Context, id string, dueAt *time.Time, followUpType string) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE crm_contacts
		SET follow_up_date = $2, follow_up_type = NULLIF($3, '')
		WHERE id = $1
	`, id, dueAt, followUpType)
	if err != nil {
		return fmt.Errorf("set contact follow-up: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(contactNotFoundMsg)
	}
	return nil
}

// UpsertContact inserts or replaces a contact by id.
func (r *Repository) UpsertContact(ctx context.Context, c domain.Contact) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO crm_contacts (
			id, name, job_title, role_type, email, phone, account_id,
			relationship_status, preferred_contact_method, created_at,
			last_activity_date, follow_up_date, follow_up_type
		) VALUES ($1, $2, $3, $4, $5, $6, $7, NULLIF($8, ''), NULLIF($9, ''), $10, $11, $12, NULLIF($13, ''))
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			job_title = EXCLUDED.job_title,
			role_type = EXCLUDED.role_type,
			email = EXCLUDED.email,
			phone = EXCLUDED.phone,
			account_id = EXCLUDED.account_id,
			relationship_status = EXCLUDED.relationship_status,
			preferred_contact_method = EXCLUDED.preferred_contact_method,
			created_at = EXCLUDED.created_at,
			last_activity_date = EXCLUDED.last_activity_date,
			follow_up_date = EXCLUDED.follow_up_date,
			follow_up_type = EXCLUDED.follow_up_type
	`,
		c.ID, c.Name, c.JobTitle, c.RoleType, c.Email, c.Phone, c.AccountID,
		c.RelationshipStatus, c.PreferredContactMethod, c.CreatedAt,
		c.LastActivityDate, c.FollowUpDate, c.FollowUpType,
	)
	if err != nil {
		return fmt.Errorf("upsert contact %s: %w", c.ID, err)
	}
	return nil
}

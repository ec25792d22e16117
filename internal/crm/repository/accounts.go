package repository

import (
	"context"
	"errors"
	"fmt"

	"roofing_crm_backend/internal/crm/domain"
	"roofing_crm_backend/platform/apperr"

	"github.com/jackc/pgx/v5"
)

const accountColumns = `
	a.id, a.name, COALESCE(a.company_name, ''), COALESCE(a.office_address, ''),
	COALESCE(a.phone, ''), COALESCE(a.website, ''), a.industry, a.stage,
	COALESCE(a.account_type, ''), a.total_value,
	ARRAY(SELECT c.id FROM crm_contacts c WHERE c.account_id = a.id ORDER BY c.seq),
	ARRAY(SELECT p.id FROM crm_properties p WHERE p.account_id = a.id ORDER BY p.seq),
	a.created_at, a.last_activity_date`

func scanAccount(row pgx.Row) (domain.Account, error) {
	var a domain.Account
	err := row.Scan(
		&a.ID, &a.Name, &a.CompanyName, &a.OfficeAddress,
		&a.Phone, &a.Website, &a.Industry, &a.Stage,
		&a.AccountType, &a.TotalValue,
		&a.ContactIDs, &a.PropertyIDs,
		&a.CreatedAt, &a.LastActivityDate,
	)
	return a, err
}

// ListAccounts returns all accounts in insertion order.
func (r *Repository) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	rows, err := r.db.Query(ctx, `SELECT `+accountColumns+` FROM crm_accounts a ORDER BY a.seq`)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer rows.Close()

	accounts := []domain.Account{}
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}
		accounts = append(accounts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate accounts: %w", err)
	}
	return accounts, nil
}

// GetAccount returns one account.
func (r *Repository) GetAccount(ctx context.Context, id string) (domain.Account, error) {
	a, err := scanAccount(r.db.QueryRow(ctx, `SELECT `+accountColumns+` FROM crm_accounts a WHERE a.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Account{}, apperr.NotFound(accountNotFoundMsg)
		}
		return domain.Account{}, fmt.Errorf("get account: %w", err)
	}
	return a, nil
}

// UpsertAccount inserts or replaces an account by id.
func (r *Repository) UpsertAccount(ctx context.Context, a domain.Account) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO crm_accounts (
			id, name, company_name, office_address, phone, website,
			industry, stage, account_type, total_value, created_at, last_activity_date
		) VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''), NULLIF($5, ''), NULLIF($6, ''),
			$7, $8, NULLIF($9, ''), $10, $11, $12)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			company_name = EXCLUDED.company_name,
			office_address = EXCLUDED.office_address,
			phone = EXCLUDED.phone,
			website = EXCLUDED.website,
			industry = EXCLUDED.industry,
			stage = EXCLUDED.stage,
			account_type = EXCLUDED.account_type,
			total_value = EXCLUDED.total_value,
			created_at = EXCLUDED.created_at,
			last_activity_date = EXCLUDED.last_activity_date
	`,
		a.ID, a.Name, a.CompanyName, a.OfficeAddress, a.Phone, a.Website,
		a.Industry, a.Stage, a.AccountType, a.TotalValue, a.CreatedAt, a.LastActivityDate,
	)
	if err != nil {
		return fmt.Errorf("upsert account %s: %w", a.ID, err)
	}
	return nil
}

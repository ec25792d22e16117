package repository

import (
	"context"
	"errors"
	"fmt"

	"roofing_crm_backend/internal/crm/domain"
	"roofing_crm_backend/platform/apperr"

	"github.com/jackc/pgx/v5"
)

const propertyColumns = `
	id, property_name, account_id, street_address, city, state, zip,
	property_type, roof_type, approx_sqft, stories, year_built,
	known_leaks, maintenance_program`

func scanProperty(row pgx.Row) (domain.Property, error) {
	var p domain.Property
	err := row.Scan(
		&p.ID, &p.PropertyName, &p.AccountID,
		&p.Address.Street, &p.Address.City, &p.Address.State, &p.Address.Zip,
		&p.PropertyType, &p.RoofType, &p.ApproxSqft, &p.Stories, &p.YearBuilt,
		&p.KnownLeaks, &p.MaintenanceProgram,
	)
	return p, err
}

func (r *Repository) queryProperties(ctx context.Context, where string, args ...any) ([]domain.Property, error) {
	rows, err := r.db.Query(ctx, `SELECT `+propertyColumns+` FROM crm_properties `+where+` ORDER BY seq`, args...)
	if err != nil {
		return nil, fmt.Errorf("list properties: %w", err)
	}
	defer rows.Close()

	properties := []domain.Property{}
	for rows.Next() {
		p, err := scanProperty(rows)
		if err != nil {
			return nil, fmt.Errorf("scan property: %w", err)
		}
		properties = append(properties, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate properties: %w", err)
	}
	return properties, nil
}

// ListProperties returns all properties in insertion order.
func (r *Repository) ListProperties(ctx context.Context) ([]domain.Property, error) {
	return r.queryProperties(ctx, "")
}

// ListPropertiesByAccount returns the properties of one account.
func (r *Repository) ListPropertiesByAccount(ctx context.Context, accountID string) ([]domain.Property, error) {
	return r.queryProperties(ctx, "WHERE account_id = $1", accountID)
}

// GetProperty returns one property.
func (r *Repository) GetProperty(ctx context.Context, id string) (domain.Property, error) {
	p, err := scanProperty(r.db.QueryRow(ctx, `SELECT `+propertyColumns+` FROM crm_properties WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Property{}, apperr.NotFound(propertyNotFoundMsg)
		}
		return domain.Property{}, fmt.Errorf("get property: %w", err)
	}
	return p, nil
}

// UpsertProperty inserts or replaces a property by id.
func (r *Repository) UpsertProperty(ctx context.Context, p domain.Property) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO crm_properties (
			id, property_name, account_id, street_address, city, state, zip,
			property_type, roof_type, approx_sqft, stories, year_built,
			known_leaks, maintenance_program
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (id) DO UPDATE SET
			property_name = EXCLUDED.property_name,
			account_id = EXCLUDED.account_id,
			street_address = EXCLUDED.street_address,
			city = EXCLUDED.city,
			state = EXCLUDED.state,
			zip = EXCLUDED.zip,
			property_type = EXCLUDED.property_type,
			roof_type = EXCLUDED.roof_type,
			approx_sqft = EXCLUDED.approx_sqft,
			stories = EXCLUDED.stories,
			year_built = EXCLUDED.year_built,
			known_leaks = EXCLUDED.known_leaks,
			maintenance_program = EXCLUDED.maintenance_program
	`,
		p.ID, p.PropertyName, p.AccountID, p.Address.Street, p.Address.City, p.Address.State, p.Address.Zip,
		p.PropertyType, p.RoofType, p.ApproxSqft, p.Stories, p.YearBuilt,
		p.KnownLeaks, p.MaintenanceProgram,
	)
	if err != nil {
		return fmt.Errorf("upsert property %s: %w", p.ID, err)
	}
	return nil
}

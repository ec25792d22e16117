package repository

import (
	"context"
	"fmt"

	"roofing_crm_backend/internal/crm/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	accountNotFoundMsg  = "account not found"
	contactNotFoundMsg  = "contact not found"
	propertyNotFoundMsg = "property not found"
	leadNotFoundMsg     = "lead not found"
)

// DBTX is satisfied by both the pool and a transaction.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Repository provides database operations for CRM entities.
type Repository struct {
	pool *pgxpool.Pool
	db   DBTX
}

// New creates a new CRM repository.
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool, db: pool}
}

// WithTx runs fn with a repository bound to a single transaction.
func (r *Repository) WithTx(ctx context.Context, fn func(tx *Repository) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(&Repository{pool: r.pool, db: tx}); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// Snapshot reads all four collections in one read-only REPEATABLE READ
// transaction, so a concurrent follow-up write is either fully visible or not
// at all.
func (r *Repository) Snapshot(ctx context.Context) (domain.Snapshot, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly})
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("begin snapshot tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	read := &Repository{pool: r.pool, db: tx}
	var snap domain.Snapshot
	if snap.Accounts, err = read.ListAccounts(ctx); err != nil {
		return domain.Snapshot{}, err
	}
	if snap.Contacts, err = read.ListContacts(ctx); err != nil {
		return domain.Snapshot{}, err
	}
	if snap.Properties, err = read.ListProperties(ctx); err != nil {
		return domain.Snapshot{}, err
	}
	if snap.Leads, err = read.ListLeads(ctx); err != nil {
		return domain.Snapshot{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.Snapshot{}, fmt.Errorf("commit snapshot tx: %w", err)
	}
	return snap, nil
}

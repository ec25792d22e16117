package repository

import (
	"context"
	"os"
	"testing"
	"time"

	"roofing_crm_backend/internal/crm/domain"
	"roofing_crm_backend/platform/db"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testRepository connects to TEST_DATABASE_URL and skips when it is unset.
func testRepository(t *testing.T) (*Repository, *pgxpool.Pool) {
	t.Helper()
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" || testing.Short() {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, url)
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	require.NoError(t, db.RunMigrations(ctx, pool))
	return New(pool), pool
}

func findLead(leads []domain.Lead, id string) (domain.Lead, bool) {
	for _, l := range leads {
		if l.ID == id {
			return l, true
		}
	}
	return domain.Lead{}, false
}

func TestSnapshotSeesCommittedFollowUpWrites(t *testing.T) {
	repo, pool := testRepository(t)
	ctx := context.Background()
	t.Cleanup(func() {
		_, _ = pool.Exec(ctx, `DELETE FROM crm_leads WHERE id = 'rt-lead'`)
		_, _ = pool.Exec(ctx, `DELETE FROM crm_accounts WHERE id = 'rt-acc'`)
	})

	touched := time.Date(2024, 5, 20, 15, 0, 0, 0, time.UTC)
	require.NoError(t, repo.WithTx(ctx, func(tx *Repository) error {
		if err := tx.UpsertAccount(ctx, domain.Account{ID: "rt-acc", Name: "Harbor Logistics", Stage: "Prospect"}); err != nil {
			return err
		}
		return tx.UpsertLead(ctx, domain.Lead{
			ID:              "rt-lead",
			OpportunityName: "Dock Reroof",
			AccountID:       "rt-acc",
			OpportunityType: domain.OpportunityTypeReplacement,
			Status:          domain.LeadStatusProposal,
			LastInteraction: touched,
		})
	}))

	before, err := repo.Snapshot(ctx)
	require.NoError(t, err)
	lead, ok := findLead(before.Leads, "rt-lead")
	require.True(t, ok)
	assert.Nil(t, lead.NextFollowUpAt)

	due := time.Date(2024, 6, 3, 14, 0, 0, 0, time.UTC)
	require.NoError(t, repo.SetLeadFollowUp(ctx, "rt-lead", &due, domain.FollowUpTypeCall))

	after, err := repo.Snapshot(ctx)
	require.NoError(t, err)
	lead, ok = findLead(after.Leads, "rt-lead")
	require.True(t, ok)
	require.NotNil(t, lead.NextFollowUpAt)
	assert.True(t, due.Equal(*lead.NextFollowUpAt))
	assert.NotEmpty(t, after.Accounts)
}

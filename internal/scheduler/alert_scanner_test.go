package scheduler

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	crm "roofing_crm_backend/internal/crm/domain"
	"roofing_crm_backend/internal/events"
	"roofing_crm_backend/platform/cache"
	"roofing_crm_backend/platform/logger"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticReader struct {
	snap crm.Snapshot
	err  error
}

func (r staticReader) Snapshot(context.Context) (crm.Snapshot, error) { return r.snap, r.err }

type recordingBus struct {
	mu        sync.Mutex
	published []events.Event
}

func (b *recordingBus) Publish(_ context.Context, e events.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.published = append(b.published, e)
}

func (b *recordingBus) PublishSync(ctx context.Context, e events.Event) error {
	b.Publish(ctx, e)
	return nil
}

func (b *recordingBus) Subscribe(string, events.Handler) {}

type failingLedger struct{}

func (failingLedger) Claim(context.Context, string, time.Duration) (bool, error) {
	return false, errors.New("redis down")
}

func ptr[T any](v T) *T { return &v }

func pipeline() crm.Snapshot {
	return crm.Snapshot{
		Accounts: []crm.Account{{ID: "A1", Name: "Lakeside Property Group"}},
		Leads: []crm.Lead{
			{
				ID: "L1", OpportunityName: "Warehouse Reroof", AccountID: "A1",
				Status:              crm.LeadStatusProposal,
				LastInteraction:     time.Date(2024, 4, 1, 9, 0, 0, 0, time.UTC),
				RiskScore:           ptr(80),
				CompetitorsInvolved: ptr(true),
			},
			{
				ID: "L2", OpportunityName: "Clinic Coating", AccountID: "A1",
				Status:          crm.LeadStatusWon,
				LastInteraction: time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC),
				RiskScore:       ptr(90),
			},
		},
	}
}

func newScanner(t *testing.T, ledger AlertLedger, bus events.Bus) *AlertScanner {
	t.Helper()
	s := NewAlertScanner(staticReader{snap: pipeline()}, ledger, bus, time.UTC, time.Hour,
		logger.NewWithWriter("production", io.Discard))
	s.now = func() time.Time { return time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC) }
	return s
}

func redisLedger(t *testing.T) (*RedisAlertLedger, *miniredis.Miniredis) {
	t.Helper()
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisAlertLedger(cache.New(client, "test")), srv
}

func raisedIDs(e events.PipelineScanCompleted) []string {
	ids := make([]string, len(e.Raised))
	for i, r := range e.Raised {
		ids[i] = r.AlertID
	}
	return ids
}

func TestScanRaisesNewAlerts(t *testing.T) {
	ledger, _ := redisLedger(t)
	bus := &recordingBus{}
	scanner := newScanner(t, ledger, bus)

	completed, err := scanner.Scan(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, completed.Total)
	assert.Equal(t, []string{"untouched:L1", "missing-follow-up:L1", "high-risk:L1"}, raisedIDs(completed))
	assert.Equal(t, "Warehouse Reroof", completed.Raised[0].OpportunityName)
	assert.Equal(t, "Lakeside Property Group", completed.Raised[0].AccountName)

	require.Len(t, bus.published, 4)
	last, ok := bus.published[3].(events.PipelineScanCompleted)
	require.True(t, ok)
	assert.Equal(t, completed.Total, last.Total)

	scannedAt := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	for _, e := range bus.published {
		assert.Equal(t, scannedAt, e.OccurredAt())
	}
}

func TestScanSkipsAlertsAlreadyClaimed(t *testing.T) {
	ledger, srv := redisLedger(t)
	scanner := newScanner(t, ledger, &recordingBus{})

	_, err := scanner.Scan(context.Background())
	require.NoError(t, err)

	second, err := scanner.Scan(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, second.Total)
	assert.Empty(t, second.Raised)

	srv.FastForward(2 * time.Hour)
	third, err := scanner.Scan(context.Background())
	require.NoError(t, err)
	assert.Len(t, third.Raised, 3)
}

func TestScanAnnouncesWhenLedgerFails(t *testing.T) {
	scanner := newScanner(t, failingLedger{}, &recordingBus{})

	completed, err := scanner.Scan(context.Background())
	require.NoError(t, err)
	assert.Len(t, completed.Raised, 3)
}

func TestScanReturnsSnapshotError(t *testing.T) {
	scanner := NewAlertScanner(staticReader{err: errors.New("db down")}, nil, nil, nil, time.Hour,
		logger.NewWithWriter("production", io.Discard))

	_, err := scanner.Scan(context.Background())
	assert.ErrorContains(t, err, "db down")
}

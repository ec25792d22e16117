package notification

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"roofing_crm_backend/internal/email"
	"roofing_crm_backend/internal/events"
	"roofing_crm_backend/internal/notification/sse"
	"roofing_crm_backend/platform/logger"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSender struct {
	mu      sync.Mutex
	to      []string
	digests []email.AlertDigest
	err     error
}

func (s *recordingSender) SendAlertDigest(_ context.Context, toEmail string, digest email.AlertDigest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.to = append(s.to, toEmail)
	s.digests = append(s.digests, digest)
	return s.err
}

func testLogger() *logger.Logger {
	return logger.NewWithWriter("production", io.Discard)
}

func raised(id, leadID string) events.PipelineAlertRaised {
	return events.PipelineAlertRaised{
		BaseEvent:       events.NewBaseEvent(),
		AlertID:         id,
		AlertType:       "High Risk",
		Message:         "\"Roof\" has a high risk score.",
		LeadID:          leadID,
		OpportunityName: "Roof",
		AccountName:     "Acme",
	}
}

func TestScanCompletedSendsDigest(t *testing.T) {
	sender := &recordingSender{}
	m := New(Options{Sender: sender, DigestTo: "ops@example.com", DashboardURL: "http://dash"}, testLogger())

	scannedAt := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	err := m.Handle(context.Background(), events.PipelineScanCompleted{
		BaseEvent: events.NewBaseEvent(),
		ScannedAt: scannedAt,
		Total:     3,
		Raised:    []events.PipelineAlertRaised{raised("high-risk:L4", "L4")},
	})
	require.NoError(t, err)

	require.Len(t, sender.digests, 1)
	assert.Equal(t, []string{"ops@example.com"}, sender.to)
	digest := sender.digests[0]
	assert.Equal(t, scannedAt, digest.ScannedAt)
	assert.Equal(t, "http://dash", digest.DashboardURL)
	require.Len(t, digest.Alerts, 1)
	assert.Equal(t, "Roof", digest.Alerts[0].OpportunityName)
	assert.Equal(t, "Acme", digest.Alerts[0].AccountName)
}

func TestScanCompletedWithoutNewAlertsSendsNothing(t *testing.T) {
	sender := &recordingSender{}
	m := New(Options{Sender: sender, DigestTo: "ops@example.com"}, testLogger())

	require.NoError(t, m.Handle(context.Background(), events.PipelineScanCompleted{Total: 4}))
	assert.Empty(t, sender.digests)
}

func TestScanCompletedWithoutRecipientSendsNothing(t *testing.T) {
	sender := &recordingSender{}
	m := New(Options{Sender: sender}, testLogger())

	err := m.Handle(context.Background(), events.PipelineScanCompleted{
		Raised: []events.PipelineAlertRaised{raised("high-risk:L4", "L4")},
	})
	require.NoError(t, err)
	assert.Empty(t, sender.digests)
}

func TestScanCompletedReturnsSenderError(t *testing.T) {
	sender := &recordingSender{err: errors.New("smtp down")}
	m := New(Options{Sender: sender, DigestTo: "ops@example.com"}, testLogger())

	err := m.Handle(context.Background(), events.PipelineScanCompleted{
		Raised: []events.PipelineAlertRaised{raised("high-risk:L4", "L4")},
	})
	assert.Error(t, err)
}

func TestAlertRaisedIsRelayed(t *testing.T) {
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	relay := NewRedisRelay(client, "", testLogger())
	hub := sse.New(testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	runDone := make(chan error, 1)
	go func() { runDone <- relay.Run(ctx, hub) }()

	require.Eventually(t, func() bool {
		return srv.PubSubNumSub(DefaultRelayChannel)[DefaultRelayChannel] == 1
	}, time.Second, 5*time.Millisecond)

	received, unsubscribe := hub.Subscribe()
	defer unsubscribe()

	publisher := New(Options{Relay: relay}, testLogger())
	require.NoError(t, publisher.Handle(ctx, raised("high-risk:L4", "L4")))

	select {
	case event := <-received:
		assert.Equal(t, sse.EventPipelineAlert, event.Type)
		assert.Equal(t, "L4", event.LeadID)
	case <-time.After(time.Second):
		t.Fatal("relayed event not received")
	}

	cancel()
	assert.NoError(t, <-runDone)
}

func TestUnknownEventIsIgnored(t *testing.T) {
	m := New(Options{}, testLogger())
	assert.NoError(t, m.Handle(context.Background(), unknownEvent{}))
}

type unknownEvent struct{ events.BaseEvent }

func (unknownEvent) EventName() string { return "unknown" }

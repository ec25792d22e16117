// Package email delivers notification emails.
package email

import (
	"context"
	"time"
)

// AlertLine is one row of an alert digest.
type AlertLine struct {
	Type            string
	OpportunityName string
	AccountName     string
	Message         string
}

// AlertDigest is a batch of newly raised pipeline alerts.
type AlertDigest struct {
	ScannedAt    time.Time
	DashboardURL string
	Alerts       []AlertLine
}

type Sender interface {
	SendAlertDigest(ctx context.Context, toEmail string, digest AlertDigest) error
}

type NoopSender struct{}

func (NoopSender) SendAlertDigest(ctx context.Context, toEmail string, digest AlertDigest) error {
	return nil
}

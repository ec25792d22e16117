package email

import (
	"context"
	"fmt"
	"time"

	"roofing_crm_backend/platform/config"

	gomail "github.com/wneessen/go-mail"
)

// SMTPSender implements the Sender interface using a direct SMTP connection via go-mail.
type SMTPSender struct {
	host      string
	port      int
	username  string
	password  string
	fromName  string
	fromEmail string
}

// NewSMTPSender creates a new SMTPSender with the given SMTP credentials.
func NewSMTPSender(host string, port int, username, password, fromEmail, fromName string) *SMTPSender {
	return &SMTPSender{
		host:      host,
		port:      port,
		username:  username,
		password:  password,
		fromName:  fromName,
		fromEmail: fromEmail,
	}
}

// NewSender returns an SMTP sender when SMTP is configured and a no-op
// sender otherwise.
func NewSender(cfg config.SMTPConfig) Sender {
	if !cfg.IsSMTPEnabled() {
		return NoopSender{}
	}
	return NewSMTPSender(
		cfg.GetSMTPHost(), cfg.GetSMTPPort(),
		cfg.GetSMTPUsername(), cfg.GetSMTPPassword(),
		cfg.GetEmailFromAddress(), cfg.GetEmailFromName(),
	)
}

func (s *SMTPSender) buildMessage(toEmail, subject, htmlContent string) (*gomail.Msg, error) {
	msg := gomail.NewMsg()
	if err := msg.FromFormat(s.fromName, s.fromEmail); err != nil {
		return nil, fmt.Errorf("smtp from: %w", err)
	}
	if err := msg.To(toEmail); err != nil {
		return nil, fmt.Errorf("smtp to: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextHTML, htmlContent)
	return msg, nil
}

func (s *SMTPSender) send(ctx context.Context, toEmail, subject, htmlContent string) error {
	msg, err := s.buildMessage(toEmail, subject, htmlContent)
	if err != nil {
		return err
	}

	opts := []gomail.Option{
		gomail.WithPort(s.port),
		gomail.WithTLSPortPolicy(gomail.TLSOpportunistic),
		gomail.WithTimeout(15 * time.Second),
	}
	if s.username != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(s.username),
			gomail.WithPassword(s.password),
		)
	}

	client, err := gomail.NewClient(s.host, opts...)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}

	return nil
}

func (s *SMTPSender) SendAlertDigest(ctx context.Context, toEmail string, digest AlertDigest) error {
	subject, content, err := renderAlertDigest(digest)
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, subject, content)
}

func renderAlertDigest(digest AlertDigest) (string, string, error) {
	content, err := renderEmailTemplate("alert_digest.html", alertDigestEmailData{
		baseEmailData: baseEmailData{
			Title:      "Pipeline alerts",
			Heading:    "New pipeline alerts",
			Subheading: "Scan of " + digest.ScannedAt.Format("Mon Jan 2, 2006 3:04 PM MST"),
			CTALabel:   "Open dashboard",
			CTAURL:     digest.DashboardURL,
		},
		Alerts: digest.Alerts,
	})
	if err != nil {
		return "", "", err
	}
	return fmt.Sprintf(subjectAlertDigestFmt, len(digest.Alerts)), content, nil
}

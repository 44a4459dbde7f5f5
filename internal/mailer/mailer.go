// Package mailer sends the finished report over SMTP. The message carries
// an HTML body with a plain-text fallback plus the chart and PDF attachments.
package mailer

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"net/smtp"

	"github.com/jordan-wright/email"

	"reportcli/internal/config"
)

// DefaultTextBody is the plain-text fallback for HTML-incapable clients
const DefaultTextBody = "Your email client does not support HTML."

// Attachment represents a file attached to the report email
type Attachment struct {
	Filename string
	Data     []byte
	MimeType string
}

// Message represents an email to be sent
type Message struct {
	To          []string
	Subject     string
	HTML        string
	Text        string
	Attachments []Attachment
}

// SendError wraps an SMTP authentication, connection or delivery failure
type SendError struct {
	Host  string
	Cause error
}

// Error implements the error interface
func (e *SendError) Error() string {
	return fmt.Sprintf("send via %s failed: %v", e.Host, e.Cause)
}

// Unwrap returns the underlying error
func (e *SendError) Unwrap() error {
	return e.Cause
}

// Mailer sends report emails through a single SMTP account
type Mailer struct {
	cfg    config.SMTPConfig
	logger *slog.Logger

	// send is swapped in tests to avoid a live SMTP connection
	send func(e *email.Email, addr string, auth smtp.Auth, tlsCfg *tls.Config) error
}

// New creates a mailer for the given SMTP configuration
func New(cfg config.SMTPConfig, logger *slog.Logger) *Mailer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Mailer{
		cfg:    cfg,
		logger: logger,
		send: func(e *email.Email, addr string, auth smtp.Auth, tlsCfg *tls.Config) error {
			return e.SendWithStartTLS(addr, auth, tlsCfg)
		},
	}
}

// Send delivers the message with STARTTLS and plain authentication.
// No retries; any failure is returned as *SendError.
func (m *Mailer) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return &SendError{Host: m.cfg.Host, Cause: err}
	}
	if len(msg.To) == 0 {
		msg.To = m.cfg.Recipients
	}
	if msg.Text == "" {
		msg.Text = DefaultTextBody
	}

	e := email.NewEmail()
	e.From = m.cfg.From
	e.To = msg.To
	e.Subject = msg.Subject
	e.Text = []byte(msg.Text)
	if msg.HTML != "" {
		e.HTML = []byte(msg.HTML)
	}

	for _, a := range msg.Attachments {
		if _, err := e.Attach(bytes.NewReader(a.Data), a.Filename, a.MimeType); err != nil {
			return &SendError{Host: m.cfg.Host, Cause: fmt.Errorf("failed to attach %s: %w", a.Filename, err)}
		}
	}

	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)
	auth := smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)

	m.logger.InfoContext(ctx, "sending report email",
		slog.String("smtp_addr", addr),
		slog.Int("recipients", len(e.To)),
		slog.Int("attachments", len(msg.Attachments)))

	// The SMTP transaction itself is not context-aware, so run it aside and
	// give up when ctx expires. An abandoned transaction finishes or times
	// out on its own in the background.
	done := make(chan error, 1)
	go func() {
		done <- m.send(e, addr, auth, &tls.Config{ServerName: m.cfg.Host})
	}()

	select {
	case err := <-done:
		if err != nil {
			return &SendError{Host: m.cfg.Host, Cause: err}
		}
		return nil
	case <-ctx.Done():
		return &SendError{Host: m.cfg.Host, Cause: ctx.Err()}
	}
}

package mailer

import (
	"context"
	"crypto/tls"
	"errors"
	"net/smtp"
	"testing"
	"time"

	"github.com/jordan-wright/email"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reportcli/internal/config"
)

func testConfig() config.SMTPConfig {
	return config.SMTPConfig{
		Host:       "smtp.example.com",
		Port:       587,
		Username:   "reports@example.com",
		Password:   "secret",
		From:       "reports@example.com",
		Recipients: []string{"boss@example.com"},
	}
}

// capture intercepts the outgoing message instead of dialing SMTP
type capture struct {
	email  *email.Email
	addr   string
	tlsCfg *tls.Config
	err    error
}

func newCapturingMailer(cfg config.SMTPConfig, sendErr error) (*Mailer, *capture) {
	cap := &capture{err: sendErr}
	m := New(cfg, nil)
	m.send = func(e *email.Email, addr string, auth smtp.Auth, tlsCfg *tls.Config) error {
		cap.email = e
		cap.addr = addr
		cap.tlsCfg = tlsCfg
		return cap.err
	}
	return m, cap
}

func TestSendBuildsMessage(t *testing.T) {
	m, cap := newCapturingMailer(testConfig(), nil)

	err := m.Send(context.Background(), Message{
		Subject: "Sales Report",
		HTML:    "<h1>Report</h1>",
		Attachments: []Attachment{
			{Filename: "report.pdf", Data: []byte("%PDF-1.4"), MimeType: "application/pdf"},
			{Filename: "revenue_chart.png", Data: []byte{0x89, 'P', 'N', 'G'}, MimeType: "image/png"},
		},
	})
	require.NoError(t, err)

	require.NotNil(t, cap.email)
	assert.Equal(t, "reports@example.com", cap.email.From)
	assert.Equal(t, []string{"boss@example.com"}, cap.email.To)
	assert.Equal(t, "Sales Report", cap.email.Subject)
	assert.Equal(t, "<h1>Report</h1>", string(cap.email.HTML))
	assert.Equal(t, DefaultTextBody, string(cap.email.Text))
	assert.Len(t, cap.email.Attachments, 2)

	assert.Equal(t, "smtp.example.com:587", cap.addr)
	assert.Equal(t, "smtp.example.com", cap.tlsCfg.ServerName)
}

func TestSendExplicitRecipientsWin(t *testing.T) {
	m, cap := newCapturingMailer(testConfig(), nil)

	err := m.Send(context.Background(), Message{
		To:      []string{"other@example.com"},
		Subject: "Sales Report",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"other@example.com"}, cap.email.To)
}

func TestSendFailureWrapped(t *testing.T) {
	cause := errors.New("535 authentication failed")
	m, _ := newCapturingMailer(testConfig(), cause)

	err := m.Send(context.Background(), Message{Subject: "Sales Report"})
	require.Error(t, err)

	var sendErr *SendError
	require.True(t, errors.As(err, &sendErr))
	assert.True(t, errors.Is(err, cause))
	assert.Equal(t, "smtp.example.com", sendErr.Host)
}

func TestSendCancelledContext(t *testing.T) {
	m, cap := newCapturingMailer(testConfig(), nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := m.Send(ctx, Message{Subject: "Sales Report"})
	require.Error(t, err)
	assert.Nil(t, cap.email, "no message should be built after cancellation")
}

func TestSendInterruptedByContext(t *testing.T) {
	release := make(chan struct{})
	defer close(release)

	m := New(testConfig(), nil)
	m.send = func(e *email.Email, addr string, auth smtp.Auth, tlsCfg *tls.Config) error {
		<-release
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := m.Send(ctx, Message{Subject: "Sales Report"})
	require.Error(t, err)

	var sendErr *SendError
	require.True(t, errors.As(err, &sendErr))
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

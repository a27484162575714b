package mailer

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/dmitrijs2005/contactbook/internal/logging"
	"github.com/dmitrijs2005/contactbook/internal/server/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wneessen/go-mail"
)

type fakeSender struct {
	sent []*mail.Msg
	err  error
}

func (f *fakeSender) DialAndSendWithContext(_ context.Context, messages ...*mail.Msg) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, messages...)
	return nil
}

func TestRenderConfirmation_EscapesAndLinks(t *testing.T) {
	body, err := renderConfirmation("<b>deadpool</b>", "http://localhost:8000/api/v1/auth/confirmed_email/abc")
	require.NoError(t, err)
	assert.Contains(t, body, `href="http://localhost:8000/api/v1/auth/confirmed_email/abc"`)
	assert.Contains(t, body, "&lt;b&gt;deadpool&lt;/b&gt;")
}

func TestSMTPMailer_SendConfirmation(t *testing.T) {
	f := &fakeSender{}
	m := newSMTPMailer(f, "noreply@example.com", "Contact Book", logging.Discard())

	err := m.SendConfirmation(context.Background(), "deadpool@example.com", "deadpool", "http://x/confirm")
	require.NoError(t, err)
	require.Len(t, f.sent, 1)

	msg := f.sent[0]
	rcpts, err := msg.GetRecipients()
	require.NoError(t, err)
	assert.Equal(t, []string{"deadpool@example.com"}, rcpts)
	assert.Equal(t, []string{confirmationSubject}, msg.GetGenHeader(mail.HeaderSubject))

	from := msg.GetFrom()
	require.Len(t, from, 1)
	assert.Equal(t, "noreply@example.com", from[0].Address)
}

func TestSMTPMailer_BadRecipient(t *testing.T) {
	f := &fakeSender{}
	m := newSMTPMailer(f, "noreply@example.com", "Contact Book", logging.Discard())

	err := m.SendConfirmation(context.Background(), "not an address", "u", "http://x")
	require.Error(t, err)
	assert.Empty(t, f.sent)
}

func TestSMTPMailer_SendError(t *testing.T) {
	f := &fakeSender{err: errors.New("connection refused")}
	m := newSMTPMailer(f, "noreply@example.com", "Contact Book", logging.Discard())

	err := m.SendConfirmation(context.Background(), "a@example.com", "u", "http://x")
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "connection refused"))
}

func TestNew_SelectsImplementation(t *testing.T) {
	cfg := &config.Config{}
	cfg.LoadDefaults()

	m, err := New(cfg, logging.Discard())
	require.NoError(t, err)
	assert.IsType(t, &LogMailer{}, m)
	require.NoError(t, m.SendConfirmation(context.Background(), "a@example.com", "a", "http://x"))

	cfg.SMTPHost = "smtp.example.com"
	cfg.SMTPUser = "user"
	m, err = New(cfg, logging.Discard())
	require.NoError(t, err)
	assert.IsType(t, &SMTPMailer{}, m)
}

func TestLogMailer_LinkOnlyAtDebug(t *testing.T) {
	const link = "http://localhost:8000/api/v1/auth/confirmed_email/secret-token"

	var info bytes.Buffer
	m := NewLogMailer(logging.NewJSONLogger(&info, "info"))
	require.NoError(t, m.SendConfirmation(context.Background(), "deadpool@example.com", "deadpool", link))
	assert.Contains(t, info.String(), "deadpool@example.com")
	assert.NotContains(t, info.String(), "secret-token")

	var debug bytes.Buffer
	m = NewLogMailer(logging.NewJSONLogger(&debug, "debug"))
	require.NoError(t, m.SendConfirmation(context.Background(), "deadpool@example.com", "deadpool", link))
	assert.Contains(t, debug.String(), "secret-token")
}

// Package mailer delivers account confirmation emails.
package mailer

import (
	"bytes"
	"context"
	"html/template"

	"github.com/dmitrijs2005/contactbook/internal/logging"
	"github.com/dmitrijs2005/contactbook/internal/server/config"
)

// Mailer sends the confirmation link to a freshly registered address.
type Mailer interface {
	SendConfirmation(ctx context.Context, to, username, link string) error
}

// New returns an SMTP mailer, or a LogMailer when no SMTP host is configured.
func New(cfg *config.Config, logger logging.Logger) (Mailer, error) {
	if cfg.SMTPHost == "" {
		return NewLogMailer(logger), nil
	}
	return NewSMTPMailer(cfg, logger)
}

const confirmationSubject = "Confirm your email"

var confirmationTemplate = template.Must(template.New("confirm").Parse(`<!DOCTYPE html>
<html>
<body>
<p>Hello {{.Username}},</p>
<p>Thanks for signing up. Please confirm your email address by following the link below.</p>
<p><a href="{{.Link}}">Confirm email</a></p>
<p>If you did not create an account, ignore this message.</p>
</body>
</html>
`))

func renderConfirmation(username, link string) (string, error) {
	var buf bytes.Buffer
	err := confirmationTemplate.Execute(&buf, struct {
		Username string
		Link     string
	}{username, link})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}

// LogMailer writes confirmation links to the log. Used in development.
type LogMailer struct {
	logger logging.Logger
}

func NewLogMailer(logger logging.Logger) *LogMailer {
	return &LogMailer{logger: logger.With("module", "mailer")}
}

func (m *LogMailer) SendConfirmation(ctx context.Context, to, username, link string) error {
	// The link carries a live confirmation token; keep it out of info logs.
	m.logger.Info(ctx, "confirmation email queued", "to", to, "username", username)
	m.logger.Debug(ctx, "confirmation link", "to", to, "link", link)
	return nil
}

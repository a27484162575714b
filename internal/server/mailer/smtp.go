package mailer

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/contactbook/internal/logging"
	"github.com/dmitrijs2005/contactbook/internal/server/config"
	"github.com/wneessen/go-mail"
)

type sender interface {
	DialAndSendWithContext(ctx context.Context, messages ...*mail.Msg) error
}

// SMTPMailer sends HTML confirmation emails through an SMTP relay.
type SMTPMailer struct {
	client   sender
	from     string
	fromName string
	logger   logging.Logger
}

func NewSMTPMailer(cfg *config.Config, logger logging.Logger) (*SMTPMailer, error) {
	opts := []mail.Option{mail.WithPort(cfg.SMTPPort)}
	if cfg.SMTPPort == 465 {
		opts = append(opts, mail.WithSSL())
	} else {
		opts = append(opts, mail.WithTLSPolicy(mail.TLSOpportunistic))
	}
	if cfg.SMTPUser != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.SMTPUser),
			mail.WithPassword(cfg.SMTPPassword),
		)
	}

	client, err := mail.NewClient(cfg.SMTPHost, opts...)
	if err != nil {
		return nil, fmt.Errorf("smtp client: %w", err)
	}

	return newSMTPMailer(client, cfg.SMTPFrom, cfg.SMTPFromName, logger), nil
}

func newSMTPMailer(client sender, from, fromName string, logger logging.Logger) *SMTPMailer {
	return &SMTPMailer{client: client, from: from, fromName: fromName, logger: logger.With("module", "mailer")}
}

func (m *SMTPMailer) buildMessage(to, username, link string) (*mail.Msg, error) {
	body, err := renderConfirmation(username, link)
	if err != nil {
		return nil, fmt.Errorf("render template: %w", err)
	}

	msg := mail.NewMsg()
	if err := msg.FromFormat(m.fromName, m.from); err != nil {
		return nil, fmt.Errorf("from address: %w", err)
	}
	if err := msg.To(to); err != nil {
		return nil, fmt.Errorf("to address: %w", err)
	}
	msg.Subject(confirmationSubject)
	msg.SetBodyString(mail.TypeTextHTML, body)
	return msg, nil
}

func (m *SMTPMailer) SendConfirmation(ctx context.Context, to, username, link string) error {
	msg, err := m.buildMessage(to, username, link)
	if err != nil {
		return err
	}
	if err := m.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("send confirmation: %w", err)
	}
	m.logger.Info(ctx, "confirmation email sent", "to", to)
	return nil
}

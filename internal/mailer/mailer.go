// Package mailer sends transactional emails of the storefront, such as
// password reset links.
//
// [NewMailer] returns an SMTP mailer built on gomail when an SMTP host is
// configured, and a mailer that only logs the message otherwise.
package mailer

import (
	"context"
	"errors"
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/MKhiriev/go-storefront/internal/config"
	"github.com/MKhiriev/go-storefront/internal/logger"
	"github.com/MKhiriev/go-storefront/models"
)

// ErrNoRecipients is returned when an email has no To addresses.
var ErrNoRecipients = errors.New("no recipients specified")

// sender is satisfied by *gomail.Dialer.
type sender interface {
	DialAndSend(m ...*gomail.Message) error
}

type smtpMailer struct {
	from   string
	dialer sender
	logger *logger.Logger
}

// NewMailer returns the mailer selected by cfg.
func NewMailer(cfg config.Mail, log *logger.Logger) Mailer {
	if cfg.Host == "" {
		log.Warn().Msg("smtp host is not set: emails will be written to the log")
		return NewLogMailer(cfg.From, log)
	}

	return &smtpMailer{
		from:   cfg.From,
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		logger: log,
	}
}

// Send dials the SMTP server and sends a single HTML email.
func (m *smtpMailer) Send(ctx context.Context, email models.Email) error {
	if len(email.To) == 0 {
		return ErrNoRecipients
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	if err := m.dialer.DialAndSend(m.newMessage(email)); err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "*smtpMailer.Send").Str("subject", email.Subject).Msg("failed to send email")
		return fmt.Errorf("error sending email: %w", err)
	}

	return nil
}

func (m *smtpMailer) newMessage(email models.Email) *gomail.Message {
	from := email.From
	if from == "" {
		from = m.from
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", from)
	msg.SetHeader("To", email.To...)
	msg.SetHeader("Subject", email.Subject)
	msg.SetBody("text/html", email.HTMLBody)

	return msg
}

type logMailer struct {
	from   string
	logger *logger.Logger
}

// NewLogMailer returns a [Mailer] that writes every email to the log
// instead of sending it. Useful for local development.
func NewLogMailer(from string, log *logger.Logger) Mailer {
	return &logMailer{from: from, logger: log}
}

func (m *logMailer) Send(ctx context.Context, email models.Email) error {
	if len(email.To) == 0 {
		return ErrNoRecipients
	}

	logger.FromContext(ctx).Info().
		Str("from", m.from).
		Strs("to", email.To).
		Str("subject", email.Subject).
		Str("body", email.HTMLBody).
		Msg("email not sent: smtp is disabled")

	return nil
}

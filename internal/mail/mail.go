// Package mail composes and sends the donor thank-you email.
package mail

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"html/template"
	"log/slog"

	"gopkg.in/gomail.v2"
)

// ThankYouSubject is the subject line of every thank-you email.
const ThankYouSubject = "Obrigado pela sua doação!"

// Message is a composed HTML email.
type Message struct {
	To      string
	Subject string
	HTML    string
}

// Sender delivers a composed message.
type Sender interface {
	Send(ctx context.Context, m Message) error
}

var thankYouTmpl = template.Must(template.New("thank_you").Parse(`<!DOCTYPE html>
<html lang="pt-BR">
<body style="font-family: Arial, sans-serif; color: #333;">
  <h2>Obrigado pela sua doação!</h2>
  <p>Olá,</p>
  <p>Recebemos sua doação de <strong>{{.Item}}</strong>.</p>
  <p>Sua contribuição ajuda a biblioteca a levar leitura e diversão a mais pessoas da comunidade.</p>
  <p>Atenciosamente,<br>Equipe da Biblioteca</p>
</body>
</html>
`))

// ComposeThankYou renders the thank-you email for a donor.  The item text is
// HTML-escaped.
func ComposeThankYou(to, item string) (Message, error) {
	var buf bytes.Buffer
	if err := thankYouTmpl.Execute(&buf, struct{ Item string }{item}); err != nil {
		return Message{}, fmt.Errorf("render thank-you: %w", err)
	}
	return Message{To: to, Subject: ThankYouSubject, HTML: buf.String()}, nil
}

// SMTPConfig holds the SMTP relay settings.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	UseTLS   bool
}

// SMTPMailer sends messages through an SMTP relay.
type SMTPMailer struct {
	cfg    SMTPConfig
	dialer *gomail.Dialer
}

// NewSMTPMailer builds a mailer.  gomail upgrades to STARTTLS whenever the
// relay offers it and always verifies the certificate; UseTLS only raises
// the minimum protocol version.
func NewSMTPMailer(cfg SMTPConfig) *SMTPMailer {
	d := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	if cfg.UseTLS {
		d.TLSConfig = &tls.Config{ServerName: cfg.Host, MinVersion: tls.VersionTLS12}
	}
	return &SMTPMailer{cfg: cfg, dialer: d}
}

// Send dials the relay and delivers m.  gomail has no context support, so
// ctx is only checked before dialing.
func (s *SMTPMailer) Send(ctx context.Context, m Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg := gomail.NewMessage()
	msg.SetHeader("From", s.cfg.From)
	msg.SetHeader("To", m.To)
	msg.SetHeader("Subject", m.Subject)
	msg.SetBody("text/html", m.HTML)
	if err := s.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("smtp send to %s: %w", m.To, err)
	}
	return nil
}

// LogMailer writes messages to the log instead of sending them.
type LogMailer struct {
	Log *slog.Logger
}

func (l LogMailer) Send(_ context.Context, m Message) error {
	log := l.Log
	if log == nil {
		log = slog.Default()
	}
	log.Info("mail not sent (disabled)", "to", m.To, "subject", m.Subject, "bytes", len(m.HTML))
	return nil
}

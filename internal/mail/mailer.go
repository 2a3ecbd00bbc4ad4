package mail

import (
	"fmt"
	"net/smtp"

	"go.uber.org/zap"

	"github.com/swiftcart/swiftcart/internal/config"
)

// Sender delivers transactional mail. Callers treat delivery as
// fire-and-forget: failures are logged, never surfaced.
type Sender interface {
	Send(to, subject, htmlBody string) error
}

type smtpSender struct {
	config *config.MailConfig
}

func NewSender(cfg *config.MailConfig, log *zap.Logger) Sender {
	if !cfg.Enabled {
		return &logSender{log: log}
	}
	return &smtpSender{config: cfg}
}

func (s *smtpSender) Send(to, subject, htmlBody string) error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	auth := smtp.PlainAuth("", s.config.Username, s.config.Password, s.config.Host)

	msg := []byte("From: " + s.config.From + "\r\n" +
		"To: " + to + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"MIME-Version: 1.0\r\n" +
		"Content-Type: text/html; charset=\"UTF-8\"\r\n" +
		"\r\n" +
		htmlBody + "\r\n")

	return smtp.SendMail(addr, auth, s.config.From, []string{to}, msg)
}

// logSender stands in for SMTP in development and tests.
type logSender struct {
	log *zap.Logger
}

func (s *logSender) Send(to, subject, _ string) error {
	s.log.Info("mail delivery disabled, skipping send",
		zap.String("to", to),
		zap.String("subject", subject))
	return nil
}

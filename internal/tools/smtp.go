package tools

import (
	"context"
	"fmt"
	"net/smtp"

	"github.com/sandevgo/reliefbot/internal/config"
)

// SMTPSender delivers notification emails through a plain SMTP relay with
// STARTTLS (the net/smtp default when the server offers it).
type SMTPSender struct {
	cfg *config.EmailConfig
}

func NewSMTPSender(cfg *config.EmailConfig) *SMTPSender {
	return &SMTPSender{cfg: cfg}
}

func (s *SMTPSender) Send(ctx context.Context, to, subject, body string) error {
	if !s.cfg.Enabled() {
		return fmt.Errorf("email sending is not configured")
	}

	msg := fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n%s",
		s.cfg.SenderEmail, to, subject, body,
	)

	addr := fmt.Sprintf("%s:%d", s.cfg.SMTPHost, s.cfg.SMTPPort)
	auth := smtp.PlainAuth("", s.cfg.SenderEmail, s.cfg.AppPassword, s.cfg.SMTPHost)

	done := make(chan error, 1)
	go func() {
		done <- smtp.SendMail(addr, auth, s.cfg.SenderEmail, []string{to}, []byte(msg))
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-done:
		if err != nil {
			return fmt.Errorf("smtp send: %w", err)
		}
		return nil
	}
}

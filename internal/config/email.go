package config

import (
	"context"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/reliefbot/pkg/log"
)

type EmailConfig struct {
	SMTPHost    string `env:"SMTP_HOST" envDefault:"smtp.gmail.com"`
	SMTPPort    int    `env:"SMTP_PORT" envDefault:"587"`
	SenderEmail string `env:"SENDER_EMAIL"`
	AppPassword string `env:"APP_PASSWORD"`
}

func NewEmailConfig(ctx context.Context) *EmailConfig {
	c := &EmailConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse Email config")
	}
	return c
}

// Enabled reports whether booking notification emails can actually be sent.
// Without credentials the email tool degrades to a polite refusal.
func (c EmailConfig) Enabled() bool {
	return c.SenderEmail != "" && c.AppPassword != ""
}

package config

import (
	"context"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/reliefbot/pkg/log"
)

type WhatsAppConfig struct {
	AccessToken   string `env:"WHATSAPP_ACCESS_TOKEN,required,notEmpty"`
	PhoneNumberID string `env:"WHATSAPP_PHONE_NUMBER_ID,required,notEmpty"`
	VerifyToken   string `env:"WHATSAPP_VERIFY_TOKEN,required,notEmpty"`
	ListenAddr    string `env:"WHATSAPP_LISTEN_ADDR" envDefault:":8081"`
}

func NewWhatsAppConfig(ctx context.Context) *WhatsAppConfig {
	c := &WhatsAppConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse WhatsApp config")
	}
	return c
}

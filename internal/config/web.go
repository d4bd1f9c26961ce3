package config

import (
	"context"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/reliefbot/pkg/log"
)

type WebConfig struct {
	ListenAddr string `env:"WEB_LISTEN_ADDR" envDefault:":8080"`
}

func NewWebConfig(ctx context.Context) *WebConfig {
	c := &WebConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse Web config")
	}
	return c
}

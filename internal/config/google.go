package config

import (
	"context"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/reliefbot/pkg/log"
)

type GoogleConfig struct {
	APIKey string `env:"GOOGLE_API_KEY"`
}

func NewGoogleConfig(ctx context.Context) *GoogleConfig {
	c := &GoogleConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse Google config")
	}
	return c
}

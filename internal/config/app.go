package config

import (
	"context"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/reliefbot/pkg/log"
)

type AppConfig struct {
	RuntimePath string `env:"RELIEF_RUNTIME_PATH" envDefault:".reliefbot"`

	// Transport flags
	EnableWeb      bool `env:"ENABLE_WEB" envDefault:"true"`
	EnableWhatsApp bool `env:"ENABLE_WHATSAPP" envDefault:"false"`
	EnableTelegram bool `env:"ENABLE_TELEGRAM" envDefault:"false"`

	// How many history messages the per-turn context window carries.
	ContextWindowSize int `env:"CONTEXT_WINDOW_SIZE" envDefault:"10"`
}

func NewAppConfig(ctx context.Context) *AppConfig {
	c := &AppConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse App config")
	}
	return c
}

func (c AppConfig) GetDatabasePath() string {
	return filepath.Join(c.RuntimePath, "reliefbot.db")
}

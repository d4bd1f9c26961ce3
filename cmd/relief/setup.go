package main

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"github.com/sandevgo/reliefbot/internal/config"
	"github.com/sandevgo/reliefbot/internal/providers/llm"
	"github.com/sandevgo/reliefbot/internal/service/chat"
	"github.com/sandevgo/reliefbot/internal/storage/sqlite"
	"github.com/sandevgo/reliefbot/internal/tools"
	"github.com/sandevgo/reliefbot/internal/transport/httpapi"
	"github.com/sandevgo/reliefbot/internal/transport/telegram"
	"github.com/sandevgo/reliefbot/internal/transport/whatsapp"
	"github.com/sandevgo/reliefbot/internal/workflow"
	"github.com/sandevgo/reliefbot/pkg/log"
	"github.com/sandevgo/reliefbot/pkg/srv"
)

func NewServices(ctx context.Context) []srv.Service {
	logger := log.FromCtx(ctx)
	services := make([]srv.Service, 0)

	// init env
	if err := initEnv(ctx, config.GetRuntimePath()); err != nil {
		logger.Fatal().Err(err).Msg("failed to init env")
	}

	// 1. Configuration
	appCfg := config.NewAppConfig(ctx)
	llmCfg := config.NewLLMConfig(ctx)

	// 2. Storage
	db, err := sqlite.NewDB(ctx, appCfg.GetDatabasePath())
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize storage")
	}
	services = append(services, srv.NewCleanup(db.Close))

	// 3. Completion provider
	provider, err := llm.NewProvider(ctx, llmCfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize LLM provider")
	}

	// 4. Tools
	registry := initTools(ctx, db)

	// 5. Workflow
	lanes := workflow.NewLaneSet(provider, registry)
	coordinator := workflow.NewCoordinator(
		workflow.NewGuidance(provider),
		workflow.NewOrchestrator(provider),
		lanes,
	)

	// 6. Chat service
	chatService := chat.NewService(
		coordinator,
		sqlite.NewUsers(db),
		sqlite.NewHistory(db),
		appCfg.ContextWindowSize,
	)

	// 7. Transports
	services = append(services, initTransports(ctx, appCfg, chatService)...)

	return services
}

func initTools(ctx context.Context, db *sql.DB) *tools.Registry {
	googleCfg := config.NewGoogleConfig(ctx)
	emailCfg := config.NewEmailConfig(ctx)

	facilities := sqlite.NewFacilities(db)
	bookings := sqlite.NewBookings(db)

	registry := tools.NewRegistry()
	registry.RegisterToolset(tools.NewFacilities(facilities))
	registry.RegisterToolset(tools.NewLocation(googleCfg.APIKey))
	registry.RegisterToolset(tools.NewFAQ(sqlite.NewFAQs(db)))
	registry.RegisterToolset(tools.NewBookingEmail(tools.NewSMTPSender(emailCfg), facilities, bookings))

	return registry
}

func initTransports(ctx context.Context, cfg *config.AppConfig, chatService *chat.Service) []srv.Service {
	logger := log.FromCtx(ctx)
	var services []srv.Service

	if cfg.EnableWeb {
		webCfg := config.NewWebConfig(ctx)
		services = append(services, httpapi.NewServer(ctx, webCfg, chatService))
	}

	if cfg.EnableWhatsApp {
		waCfg := config.NewWhatsAppConfig(ctx)
		client := whatsapp.NewClient(waCfg)
		services = append(services, whatsapp.NewServer(ctx, waCfg, client, chatService))
	}

	if cfg.EnableTelegram {
		tgCfg := config.NewTelegramConfig(ctx)
		bot, err := telegram.NewBot(ctx, tgCfg, chatService)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to initialize telegram bot")
		}
		services = append(services, bot)
	}

	if len(services) == 0 {
		logger.Fatal().Msg("no transports enabled")
	}
	return services
}

func initEnv(ctx context.Context, runtimePath string) error {
	logger := log.FromCtx(ctx)
	envFile := filepath.Join(runtimePath, ".env")

	if _, err := os.Stat(envFile); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	if err := godotenv.Load(envFile); err != nil {
		logger.Warn().Err(err).Str("path", envFile).Msg("failed to load .env file")
		return err
	}

	logger.Debug().Str("path", envFile).Msg("loaded .env file")
	return nil
}

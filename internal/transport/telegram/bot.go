package telegram

import (
	"context"
	"fmt"
	"strings"
	"time"

	tele "gopkg.in/telebot.v3"

	"github.com/sandevgo/reliefbot/internal/config"
	"github.com/sandevgo/reliefbot/internal/convo"
	"github.com/sandevgo/reliefbot/internal/service/chat"
	"github.com/sandevgo/reliefbot/pkg/log"
)

const baseContextKey = "base_context"

// Bot is the Telegram channel. Chats are keyed by a synthetic tg:<id>
// identifier since Telegram does not expose phone numbers.
type Bot struct {
	bot    *tele.Bot
	chat   *chat.Service
	sender *sender
}

func NewBot(ctx context.Context, cfg *config.TelegramConfig, chatService *chat.Service) (*Bot, error) {
	pref := tele.Settings{
		Token:  cfg.Token,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	}

	b, err := tele.NewBot(pref)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	bot := &Bot{
		bot:    b,
		chat:   chatService,
		sender: newSender(b),
	}

	b.Use(func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			c.Set(baseContextKey, ctx)
			return next(c)
		}
	})

	b.Handle("/start", bot.handleStart)
	b.Handle(tele.OnText, bot.handleMessage)

	return bot, nil
}

func (b *Bot) Start(ctx context.Context) error {
	log.FromCtx(ctx).Info().Msg("starting telegram bot")
	b.bot.Start()
	return nil
}

func (b *Bot) Shutdown(ctx context.Context) error {
	b.bot.Stop()
	return nil
}

func (b *Bot) handleStart(c tele.Context) error {
	return c.Send("Assalamoalaikum! I can help you find hospitals, police stations and book appointments. How can I help you today?")
}

func (b *Bot) handleMessage(c tele.Context) error {
	ctx := c.Get(baseContextKey).(context.Context)
	logger := log.FromCtx(ctx)

	_ = c.Notify(tele.Typing)

	username := strings.TrimSpace(c.Sender().FirstName + " " + c.Sender().LastName)
	reply, err := b.chat.Handle(ctx, chat.Request{
		Profile: convo.Profile{
			PhoneNumber: fmt.Sprintf("tg:%d", c.Chat().ID),
			Username:    username,
		},
		Message: c.Text(),
	})
	if err != nil {
		logger.Error().Err(err).Int64("chat_id", c.Chat().ID).Msg("telegram chat handling failed")
		return c.Send("Sorry, something went wrong while processing your request. Please try again.")
	}

	if err := b.sender.sendMarkdown(ctx, c.Chat(), reply); err != nil {
		logger.Error().Err(err).Int64("chat_id", c.Chat().ID).Msg("failed to send telegram reply")
	}
	return nil
}

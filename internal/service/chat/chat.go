package chat

import (
	"context"
	"fmt"

	"github.com/sandevgo/reliefbot/internal/convo"
	"github.com/sandevgo/reliefbot/internal/device"
	"github.com/sandevgo/reliefbot/internal/workflow"
	"github.com/sandevgo/reliefbot/pkg/log"
)

type UserStore interface {
	Upsert(ctx context.Context, p convo.Profile) error
	Get(ctx context.Context, phoneNumber string) (convo.Profile, error)
}

type HistoryStore interface {
	AddMessage(ctx context.Context, phoneNumber string, msg convo.StoredMessage) error
	GetRecent(ctx context.Context, phoneNumber string, limit int) ([]convo.StoredMessage, error)
}

// Request is one inbound message from any channel. Status and Coordinates are
// only ever set by the web transport; the messaging channels have neither.
type Request struct {
	Profile     convo.Profile
	Message     string
	Coordinates *convo.Coordinates
	Status      *device.Snapshot
}

// Service glues transports to the workflow: it rebuilds the per-turn
// conversation context from storage, runs the coordinator and persists both
// sides of the exchange.
type Service struct {
	coordinator *workflow.Coordinator
	users       UserStore
	history     HistoryStore
	windowSize  int
}

func NewService(coordinator *workflow.Coordinator, users UserStore, history HistoryStore, windowSize int) *Service {
	return &Service{
		coordinator: coordinator,
		users:       users,
		history:     history,
		windowSize:  windowSize,
	}
}

func (s *Service) Handle(ctx context.Context, req Request) (string, error) {
	logger := log.FromCtx(ctx)

	if req.Profile.PhoneNumber == "" {
		return "", fmt.Errorf("missing phone number")
	}

	if err := s.users.Upsert(ctx, req.Profile); err != nil {
		return "", fmt.Errorf("upsert user: %w", err)
	}
	profile, err := s.users.Get(ctx, req.Profile.PhoneNumber)
	if err != nil {
		return "", fmt.Errorf("load user: %w", err)
	}

	history, err := s.history.GetRecent(ctx, profile.PhoneNumber, s.windowSize)
	if err != nil {
		return "", fmt.Errorf("load history: %w", err)
	}

	cc := convo.NewContext(profile, history, req.Coordinates, s.windowSize)
	outcome := s.coordinator.Process(ctx, req.Message, cc, req.Status)

	if outcome.Fallback {
		logger.Warn().Str("reason", outcome.Reason).Msg("turn ended in fallback")
	}

	// History write failures must not eat an already-computed reply.
	if err := s.history.AddMessage(ctx, profile.PhoneNumber, convo.StoredMessage{
		Sender:  convo.SenderUser,
		Content: req.Message,
	}); err != nil {
		logger.Error().Err(err).Msg("failed to persist user message")
	}
	if err := s.history.AddMessage(ctx, profile.PhoneNumber, convo.StoredMessage{
		Sender:  convo.SenderBot,
		Content: outcome.Text,
	}); err != nil {
		logger.Error().Err(err).Msg("failed to persist bot message")
	}

	return outcome.Text, nil
}

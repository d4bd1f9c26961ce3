package chat

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandevgo/reliefbot/internal/convo"
	"github.com/sandevgo/reliefbot/internal/core"
	"github.com/sandevgo/reliefbot/internal/tools"
	"github.com/sandevgo/reliefbot/internal/workflow"
)

type memUsers struct {
	profiles map[string]convo.Profile
}

func (m *memUsers) Upsert(_ context.Context, p convo.Profile) error {
	if m.profiles == nil {
		m.profiles = make(map[string]convo.Profile)
	}
	existing := m.profiles[p.PhoneNumber]
	existing.PhoneNumber = p.PhoneNumber
	if p.Username != "" {
		existing.Username = p.Username
	}
	if p.Address != "" {
		existing.Address = p.Address
	}
	if p.Email != "" {
		existing.Email = p.Email
	}
	m.profiles[p.PhoneNumber] = existing
	return nil
}

func (m *memUsers) Get(_ context.Context, phone string) (convo.Profile, error) {
	if p, ok := m.profiles[phone]; ok {
		return p, nil
	}
	return convo.Profile{PhoneNumber: phone}, nil
}

type memHistory struct {
	messages map[string][]convo.StoredMessage
}

func (m *memHistory) AddMessage(_ context.Context, phone string, msg convo.StoredMessage) error {
	if m.messages == nil {
		m.messages = make(map[string][]convo.StoredMessage)
	}
	m.messages[phone] = append(m.messages[phone], msg)
	return nil
}

func (m *memHistory) GetRecent(_ context.Context, phone string, limit int) ([]convo.StoredMessage, error) {
	msgs := m.messages[phone]
	if len(msgs) > limit {
		msgs = msgs[len(msgs)-limit:]
	}
	return msgs, nil
}

type cannedProvider struct {
	content string
	calls   []core.CompletionRequest
}

func (p *cannedProvider) Complete(_ context.Context, req core.CompletionRequest) (core.Message, error) {
	p.calls = append(p.calls, req)
	return core.Message{Role: core.RoleAssistant, Content: p.content}, nil
}

func newChatService(provider core.CompletionProvider) (*Service, *memHistory) {
	registry := tools.NewRegistry()
	lanes := workflow.NewLaneSet(provider, registry)
	coordinator := workflow.NewCoordinator(
		workflow.NewGuidance(provider),
		workflow.NewOrchestrator(provider),
		lanes,
	)
	history := &memHistory{}
	return NewService(coordinator, &memUsers{}, history, 10), history
}

func TestHandlePersistsBothSides(t *testing.T) {
	provider := &cannedProvider{content: `{"is_critical": false, "response": "We open at 9am.", "handoff_target": ""}`}
	svc, history := newChatService(provider)

	reply, err := svc.Handle(context.Background(), Request{
		Profile: convo.Profile{PhoneNumber: "+921", Username: "Ayesha"},
		Message: "when do you open?",
	})

	require.NoError(t, err)
	assert.Equal(t, "We open at 9am.", reply)

	stored := history.messages["+921"]
	require.Len(t, stored, 2)
	assert.Equal(t, convo.SenderUser, stored[0].Sender)
	assert.Equal(t, "when do you open?", stored[0].Content)
	assert.Equal(t, convo.SenderBot, stored[1].Sender)
	assert.Equal(t, "We open at 9am.", stored[1].Content)
}

func TestHandleCarriesHistoryIntoPrompt(t *testing.T) {
	provider := &cannedProvider{content: `{"is_critical": false, "response": "ok", "handoff_target": ""}`}
	svc, history := newChatService(provider)

	_ = history.AddMessage(context.Background(), "+921", convo.StoredMessage{
		Sender: convo.SenderUser, Content: "my earlier question about timings",
	})

	_, err := svc.Handle(context.Background(), Request{
		Profile: convo.Profile{PhoneNumber: "+921"},
		Message: "and on sundays?",
	})

	require.NoError(t, err)
	require.NotEmpty(t, provider.calls)
	system := provider.calls[0].Messages[0].Content
	assert.Contains(t, system, "my earlier question about timings")
}

func TestHandleRequiresPhoneNumber(t *testing.T) {
	provider := &cannedProvider{content: "{}"}
	svc, _ := newChatService(provider)

	_, err := svc.Handle(context.Background(), Request{Message: "hello"})

	require.Error(t, err)
}

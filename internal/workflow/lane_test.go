package workflow

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandevgo/reliefbot/internal/convo"
	"github.com/sandevgo/reliefbot/internal/core"
	"github.com/sandevgo/reliefbot/internal/tools"
)

// scriptProvider replays a fixed sequence of completions and records every
// request it saw.
type scriptProvider struct {
	steps []func(req core.CompletionRequest) (core.Message, error)
	calls []core.CompletionRequest
}

func (p *scriptProvider) Complete(_ context.Context, req core.CompletionRequest) (core.Message, error) {
	p.calls = append(p.calls, req)
	if len(p.steps) == 0 {
		return core.Message{}, errors.New("script exhausted")
	}
	step := p.steps[0]
	p.steps = p.steps[1:]
	return step(req)
}

func reply(content string) func(core.CompletionRequest) (core.Message, error) {
	return func(core.CompletionRequest) (core.Message, error) {
		return core.Message{Role: core.RoleAssistant, Content: content}, nil
	}
}

func replyErr(err error) func(core.CompletionRequest) (core.Message, error) {
	return func(core.CompletionRequest) (core.Message, error) {
		return core.Message{}, err
	}
}

func replyToolCall(name, args string) func(core.CompletionRequest) (core.Message, error) {
	return func(core.CompletionRequest) (core.Message, error) {
		return core.Message{
			Role: core.RoleAssistant,
			ToolCalls: []core.ToolCall{
				{ID: "call_1", Type: "function", Function: core.FunctionCall{Name: name, Arguments: args}},
			},
		}, nil
	}
}

func testContext() *convo.Context {
	return convo.NewContext(convo.Profile{PhoneNumber: "+920000000000", Username: "Test"}, nil, nil, 0)
}

func newTestRegistry(t *testing.T) *tools.Registry {
	t.Helper()
	registry := tools.NewRegistry()
	registry.Register("echo", tools.Definition{
		Description: "Echo the input back.",
		Schema:      json.RawMessage(`{"type":"object","properties":{"text":{"type":"string"}}}`),
		Handler: func(_ context.Context, args json.RawMessage) (string, error) {
			var input struct {
				Text string `json:"text"`
			}
			if err := json.Unmarshal(args, &input); err != nil {
				return "", err
			}
			return "echo: " + input.Text, nil
		},
	})
	registry.Register("broken", tools.Definition{
		Description: "Always fails.",
		Schema:      json.RawMessage(`{"type":"object"}`),
		Handler: func(context.Context, json.RawMessage) (string, error) {
			return "", errors.New("upstream unavailable")
		},
	})
	// The lanes resolve these by name, so stand-ins are enough here.
	for _, name := range []string{
		tools.ToolSearchHealthFacilities,
		tools.ToolSearchPoliceFacilities,
		tools.ToolGetLocationInfo,
		tools.ToolGetNearestPlace,
		tools.ToolSendBookingEmail,
		tools.ToolSearchFAQs,
	} {
		registry.Register(name, tools.Definition{
			Description: "stub",
			Schema:      json.RawMessage(`{"type":"object"}`),
			Handler: func(context.Context, json.RawMessage) (string, error) {
				return "no results", nil
			},
		})
	}
	return registry
}

func TestLaneRunDirectResponse(t *testing.T) {
	provider := &scriptProvider{steps: []func(core.CompletionRequest) (core.Message, error){
		reply("All good."),
	}}
	lane := NewLane(provider, newTestRegistry(t), LaneConfig{
		Name:         "test",
		Instructions: medicalInstructions,
		Fallback:     "fallback",
	})

	outcome := lane.Run(context.Background(), "hello", testContext())

	require.False(t, outcome.Fallback)
	assert.Equal(t, "All good.", outcome.Text)
}

func TestLaneRunToolLoop(t *testing.T) {
	provider := &scriptProvider{steps: []func(core.CompletionRequest) (core.Message, error){
		replyToolCall("echo", `{"text":"ping"}`),
		reply("The tool said ping."),
	}}
	lane := NewLane(provider, newTestRegistry(t), LaneConfig{
		Name:         "test",
		Instructions: medicalInstructions,
		ToolNames:    []string{"echo"},
		Fallback:     "fallback",
	})

	outcome := lane.Run(context.Background(), "use the tool", testContext())

	require.False(t, outcome.Fallback)
	assert.Equal(t, "The tool said ping.", outcome.Text)

	// Second call must carry the tool result back to the model.
	require.Len(t, provider.calls, 2)
	last := provider.calls[1].Messages[len(provider.calls[1].Messages)-1]
	assert.Equal(t, core.RoleTool, last.Role)
	assert.Equal(t, "echo: ping", last.Content)
	assert.Equal(t, "call_1", last.ToolCallID)
}

func TestLaneRunCompletionFailure(t *testing.T) {
	provider := &scriptProvider{steps: []func(core.CompletionRequest) (core.Message, error){
		replyErr(errors.New("timeout")),
	}}
	lane := NewLane(provider, newTestRegistry(t), LaneConfig{
		Name:         "medical",
		Instructions: medicalInstructions,
		Fallback:     medicalFallback,
	})

	outcome := lane.Run(context.Background(), "help", testContext())

	require.True(t, outcome.Fallback)
	assert.Equal(t, medicalFallback, outcome.Text)
	assert.Contains(t, outcome.Reason, "timeout")
}

func TestLaneRunToolFailure(t *testing.T) {
	provider := &scriptProvider{steps: []func(core.CompletionRequest) (core.Message, error){
		replyToolCall("broken", `{}`),
	}}
	lane := NewLane(provider, newTestRegistry(t), LaneConfig{
		Name:         "police",
		Instructions: policeInstructions,
		ToolNames:    []string{"broken"},
		Fallback:     policeFallback,
	})

	outcome := lane.Run(context.Background(), "help", testContext())

	require.True(t, outcome.Fallback)
	assert.Equal(t, policeFallback, outcome.Text)
	assert.Contains(t, outcome.Reason, "broken")
	// The provider is never consulted again after a failed tool.
	assert.Len(t, provider.calls, 1)
}

func TestLaneRunHopLimit(t *testing.T) {
	var steps []func(core.CompletionRequest) (core.Message, error)
	for i := 0; i < maxToolHops+1; i++ {
		steps = append(steps, replyToolCall("echo", `{"text":"again"}`))
	}
	provider := &scriptProvider{steps: steps}
	lane := NewLane(provider, newTestRegistry(t), LaneConfig{
		Name:         "test",
		Instructions: medicalInstructions,
		ToolNames:    []string{"echo"},
		Fallback:     "fallback",
	})

	outcome := lane.Run(context.Background(), "loop", testContext())

	require.True(t, outcome.Fallback)
	assert.Len(t, provider.calls, maxToolHops)
}

func TestTruncate(t *testing.T) {
	short := "short result"
	assert.Equal(t, short, truncate(short))

	long := strings.Repeat("x", maxToolResultLen+500)
	got := truncate(long)
	assert.Less(t, len(got), len(long))
	assert.Contains(t, got, "TRUNCATED")
	assert.True(t, strings.HasPrefix(got, strings.Repeat("x", 500)))
}

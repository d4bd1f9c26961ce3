package workflow

import (
	"context"
	"fmt"
	"time"

	"github.com/sandevgo/reliefbot/internal/convo"
	"github.com/sandevgo/reliefbot/internal/core"
	"github.com/sandevgo/reliefbot/pkg/log"
)

// ToolExecutor is the slice of the tool registry a lane needs.
type ToolExecutor interface {
	Definitions(names ...string) []core.Tool
	Call(ctx context.Context, name, args string) (string, error)
}

// InstructionFunc renders a lane's policy document against the current turn.
type InstructionFunc func(cc *convo.Context, now time.Time) string

// maxToolHops bounds the completion/tool loop within one turn.
const maxToolHops = 8

// maxToolResultLen caps how much tool output is fed back into the prompt.
const maxToolResultLen = 2000

// Lane is one specialized agent: a fixed tool set, an instruction template
// and a canned fallback. It holds no state between turns.
type Lane struct {
	name         string
	instructions InstructionFunc
	toolNames    []string
	tools        ToolExecutor
	fallback     string
	provider     core.CompletionProvider
}

type LaneConfig struct {
	Name         string
	Instructions InstructionFunc
	ToolNames    []string
	Fallback     string
}

func NewLane(provider core.CompletionProvider, tools ToolExecutor, cfg LaneConfig) *Lane {
	return &Lane{
		name:         cfg.Name,
		instructions: cfg.Instructions,
		toolNames:    cfg.ToolNames,
		tools:        tools,
		fallback:     cfg.Fallback,
		provider:     provider,
	}
}

func (l *Lane) Name() string {
	return l.name
}

// Run executes one request/response turn. Any completion or tool failure is
// converted to the lane's fallback; a raw error never leaves the lane.
func (l *Lane) Run(ctx context.Context, message string, cc *convo.Context) Outcome {
	logger := log.FromCtx(ctx)
	logger.Info().Str("lane", l.name).Msg("lane received message")

	messages := []core.Message{
		{Role: core.RoleSystem, Content: l.instructions(cc, time.Now())},
		{Role: core.RoleUser, Content: message},
	}

	var toolDefs []core.Tool
	if len(l.toolNames) > 0 {
		toolDefs = l.tools.Definitions(l.toolNames...)
	}

	for hop := 0; hop < maxToolHops; hop++ {
		response, err := l.provider.Complete(ctx, core.CompletionRequest{
			Messages: messages,
			Tools:    toolDefs,
		})
		if err != nil {
			logger.Error().Err(err).Str("lane", l.name).Msg("completion failed")
			return NewFallback(l.fallback, fmt.Sprintf("completion: %v", err))
		}

		messages = append(messages, response)

		if len(response.ToolCalls) == 0 {
			return Success(response.Content)
		}

		for _, tc := range response.ToolCalls {
			result, err := l.tools.Call(ctx, tc.Function.Name, tc.Function.Arguments)
			if err != nil {
				logger.Error().Err(err).Str("lane", l.name).Str("tool", tc.Function.Name).Msg("tool failed")
				return NewFallback(l.fallback, fmt.Sprintf("tool %s: %v", tc.Function.Name, err))
			}
			messages = append(messages, core.Message{
				Role:       core.RoleTool,
				Content:    truncate(result),
				ToolCallID: tc.ID,
			})
		}
	}

	logger.Error().Str("lane", l.name).Msg("tool loop exceeded hop limit")
	return NewFallback(l.fallback, "tool loop exceeded")
}

func truncate(input string) string {
	if len(input) <= maxToolResultLen {
		return input
	}

	head := input[:500]
	tail := input[len(input)-(maxToolResultLen-500):]
	return fmt.Sprintf("%s\n\n... [TRUNCATED %d bytes] ...\n\n%s", head, len(input)-maxToolResultLen, tail)
}

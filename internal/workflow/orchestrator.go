package workflow

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sandevgo/reliefbot/internal/convo"
	"github.com/sandevgo/reliefbot/internal/core"
	"github.com/sandevgo/reliefbot/pkg/log"
)

// Orchestrator is the second-pass classifier, invoked only for critical
// messages. It assigns exactly one of the medical/police/catastrophic lanes.
// Catastrophic here is a content-severity category; it is independent of the
// device-degraded resource state.
type Orchestrator struct {
	provider core.CompletionProvider
}

func NewOrchestrator(provider core.CompletionProvider) *Orchestrator {
	return &Orchestrator{provider: provider}
}

func (o *Orchestrator) Dispatch(ctx context.Context, message string, cc *convo.Context) (DispatchVerdict, error) {
	log.FromCtx(ctx).Info().Msg("orchestrator received message")

	response, err := o.provider.Complete(ctx, core.CompletionRequest{
		Messages: []core.Message{
			{Role: core.RoleSystem, Content: orchestratorInstructions(cc, time.Now())},
			{Role: core.RoleUser, Content: message},
		},
		Schema: &core.ResponseSchema{
			Name:   "dispatch_verdict",
			Schema: dispatchVerdictSchema,
		},
	})
	if err != nil {
		return DispatchVerdict{}, fmt.Errorf("orchestrator completion: %w", err)
	}

	var classified struct {
		RequestType RequestType `json:"request_type"`
		RequestText string      `json:"request_text"`
	}
	if err := json.Unmarshal([]byte(response.Content), &classified); err != nil {
		return DispatchVerdict{}, fmt.Errorf("decode dispatch verdict: %w", err)
	}

	// Correlation fields are filled locally at construction time; the model
	// only classifies.
	return DispatchVerdict{
		CaseID:      NewCaseID(),
		RequestType: classified.RequestType,
		RequestText: classified.RequestText,
		Timestamp:   time.Now().In(convo.Karachi()).Format(time.RFC3339),
	}, nil
}

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

// Guidance is the first-pass classifier. It answers simple queries itself
// and flags medical or police matters for escalation. It has no tools; its
// whole contract is the structured RoutingVerdict.
type Guidance struct {
	provider core.CompletionProvider
}

func NewGuidance(provider core.CompletionProvider) *Guidance {
	return &Guidance{provider: provider}
}

func (g *Guidance) Route(ctx context.Context, message string, cc *convo.Context) (RoutingVerdict, error) {
	log.FromCtx(ctx).Info().Msg("guidance received message")

	response, err := g.provider.Complete(ctx, core.CompletionRequest{
		Messages: []core.Message{
			{Role: core.RoleSystem, Content: guidanceInstructions(cc, time.Now())},
			{Role: core.RoleUser, Content: message},
		},
		Schema: &core.ResponseSchema{
			Name:   "routing_verdict",
			Schema: routingVerdictSchema,
		},
	})
	if err != nil {
		return RoutingVerdict{}, fmt.Errorf("guidance completion: %w", err)
	}

	var verdict RoutingVerdict
	if err := json.Unmarshal([]byte(response.Content), &verdict); err != nil {
		return RoutingVerdict{}, fmt.Errorf("decode routing verdict: %w", err)
	}
	return verdict, nil
}

package workflow

import (
	"context"
	"fmt"

	"github.com/sandevgo/reliefbot/internal/convo"
	"github.com/sandevgo/reliefbot/internal/device"
	"github.com/sandevgo/reliefbot/pkg/log"
)

// GenericFailureMessage is the terminal reply when routing itself breaks
// and no lane-specific fallback applies.
const GenericFailureMessage = "Sorry, something went wrong while processing your request. Please try again."

// Coordinator drives one message through the routing pipeline:
// degraded check, guidance, orchestrator, then the assigned lane.
type Coordinator struct {
	guidance     *Guidance
	orchestrator *Orchestrator
	lanes        *LaneSet
}

func NewCoordinator(guidance *Guidance, orchestrator *Orchestrator, lanes *LaneSet) *Coordinator {
	return &Coordinator{
		guidance:     guidance,
		orchestrator: orchestrator,
		lanes:        lanes,
	}
}

// Process handles a single inbound message and always returns a usable
// Outcome. Failures at any stage are contained; callers never see an error
// or a panic from here.
func (c *Coordinator) Process(ctx context.Context, message string, cc *convo.Context, status *device.Snapshot) (outcome Outcome) {
	logger := log.FromCtx(ctx)

	defer func() {
		if r := recover(); r != nil {
			logger.Error().Any("panic", r).Msg("workflow panicked")
			outcome = NewFallback(GenericFailureMessage, fmt.Sprintf("panic: %v", r))
		}
	}()

	// The booking lane runs as a sub-tool of the medical lane and needs the
	// turn's conversation context without it threading through the registry.
	ctx = convo.IntoContext(ctx, cc)

	if device.Evaluate(status) {
		logger.Info().Msg("degraded mode active")
		return c.lanes.Degraded.Run(ctx, message, cc)
	}

	routing, err := c.guidance.Route(ctx, message, cc)
	if err != nil {
		logger.Error().Err(err).Msg("guidance failed")
		return NewFallback(GenericFailureMessage, fmt.Sprintf("guidance: %v", err))
	}

	if !routing.IsCritical {
		return Success(routing.Response)
	}

	dispatch, err := c.orchestrator.Dispatch(ctx, message, cc)
	if err != nil {
		logger.Error().Err(err).Msg("orchestrator failed")
		return NewFallback(GenericFailureMessage, fmt.Sprintf("orchestrator: %v", err))
	}

	logger.Info().
		Str("case_id", dispatch.CaseID).
		Str("request_type", string(dispatch.RequestType)).
		Msg("dispatching to lane")

	switch dispatch.RequestType {
	case RequestMedical:
		return c.lanes.Medical.Run(ctx, message, cc)
	case RequestPolice:
		return c.lanes.Police.Run(ctx, message, cc)
	case RequestCatastrophic:
		return c.lanes.Catastrophic.Run(ctx, message, cc)
	default:
		logger.Error().Str("request_type", string(dispatch.RequestType)).Msg("unknown request type")
		return NewFallback(GenericFailureMessage, fmt.Sprintf("unknown request type %q", dispatch.RequestType))
	}
}

package workflow

import (
	"context"
	"encoding/json"

	"github.com/sandevgo/reliefbot/internal/convo"
	"github.com/sandevgo/reliefbot/internal/core"
	"github.com/sandevgo/reliefbot/internal/tools"
)

// ToolBookMedicalAppointment lets the medical lane delegate the whole booking
// conversation to the booking lane as if it were an ordinary tool.
const ToolBookMedicalAppointment = "book_medical_appointment"

// LaneSet bundles the five specialized lanes sharing one provider and one
// tool registry.
type LaneSet struct {
	Medical      *Lane
	Police       *Lane
	Booking      *Lane
	Catastrophic *Lane
	Degraded     *Lane
}

func NewLaneSet(provider core.CompletionProvider, registry *tools.Registry) *LaneSet {
	set := &LaneSet{
		Police: NewLane(provider, registry, LaneConfig{
			Name:         "police",
			Instructions: policeInstructions,
			ToolNames: []string{
				tools.ToolSearchPoliceFacilities,
				tools.ToolGetLocationInfo,
				tools.ToolGetNearestPlace,
			},
			Fallback: policeFallback,
		}),
		Booking: NewLane(provider, registry, LaneConfig{
			Name:         "booking",
			Instructions: bookingInstructions,
			ToolNames: []string{
				tools.ToolSearchHealthFacilities,
				tools.ToolSearchPoliceFacilities,
				tools.ToolGetLocationInfo,
				tools.ToolGetNearestPlace,
				tools.ToolSendBookingEmail,
			},
			Fallback: bookingFallback,
		}),
		Catastrophic: NewLane(provider, registry, LaneConfig{
			Name:         "catastrophic",
			Instructions: catastrophicInstructions,
			Fallback:     catastrophicFallback,
		}),
		Degraded: NewLane(provider, registry, LaneConfig{
			Name:         "degraded",
			Instructions: degradedInstructions,
			ToolNames:    []string{tools.ToolSearchFAQs},
			Fallback:     degradedFallback,
		}),
	}

	registry.Register(ToolBookMedicalAppointment, tools.Definition{
		Description: "Book a medical appointment for the user. Pass a plain-language request including the facility, preferred date and time.",
		Schema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"request": {"type": "string", "description": "Plain-language booking request, e.g. 'Book me at City Hospital tomorrow at 3pm'."}
			},
			"required": ["request"]
		}`),
		Handler: func(ctx context.Context, args json.RawMessage) (string, error) {
			var input struct {
				Request string `json:"request"`
			}
			if err := json.Unmarshal(args, &input); err != nil {
				return "", err
			}
			outcome := set.Booking.Run(ctx, input.Request, convo.FromContext(ctx))
			return outcome.Text, nil
		},
	})

	set.Medical = NewLane(provider, registry, LaneConfig{
		Name:         "medical",
		Instructions: medicalInstructions,
		ToolNames: []string{
			tools.ToolSearchHealthFacilities,
			tools.ToolGetLocationInfo,
			tools.ToolGetNearestPlace,
			ToolBookMedicalAppointment,
		},
		Fallback: medicalFallback,
	})

	return set
}

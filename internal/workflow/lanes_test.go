package workflow

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandevgo/reliefbot/internal/convo"
	"github.com/sandevgo/reliefbot/internal/core"
)

func TestLaneSetRegistersBookingTool(t *testing.T) {
	provider := &scriptProvider{steps: []func(core.CompletionRequest) (core.Message, error){
		reply("Your appointment at City Hospital is confirmed for 3pm."),
	}}
	registry := newTestRegistry(t)
	NewLaneSet(provider, registry)

	ctx := convo.IntoContext(context.Background(), testContext())
	result, err := registry.Call(ctx, ToolBookMedicalAppointment, `{"request": "Book me at City Hospital at 3pm"}`)

	require.NoError(t, err)
	assert.Contains(t, result, "City Hospital")
	// The booking lane ran its own completion turn.
	require.Len(t, provider.calls, 1)
	assert.Equal(t, core.RoleSystem, provider.calls[0].Messages[0].Role)
	assert.Contains(t, provider.calls[0].Messages[0].Content, "Booking Support Agent")
}

func TestLaneSetToolAssignments(t *testing.T) {
	registry := newTestRegistry(t)
	set := NewLaneSet(&scriptProvider{}, registry)

	assert.Equal(t, "medical", set.Medical.Name())
	assert.Equal(t, "police", set.Police.Name())
	assert.Equal(t, "booking", set.Booking.Name())
	assert.Equal(t, "catastrophic", set.Catastrophic.Name())
	assert.Equal(t, "degraded", set.Degraded.Name())
}

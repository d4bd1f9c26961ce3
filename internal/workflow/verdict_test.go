package workflow

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandevgo/reliefbot/internal/core"
)

func TestNewCaseID(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		id := NewCaseID()
		require.Len(t, id, 4)
		for _, r := range id {
			assert.True(t, strings.ContainsRune(caseIDAlphabet, r), "unexpected rune %q", r)
		}
		seen[id] = true
	}
	// Not a strict guarantee, but 50 draws from 36^4 collapsing to one value
	// would mean a broken generator.
	assert.Greater(t, len(seen), 1)
}

func TestGuidanceRoute(t *testing.T) {
	provider := &scriptProvider{steps: []func(core.CompletionRequest) (core.Message, error){
		reply(`{"is_critical": true, "response": "", "handoff_target": "police"}`),
	}}
	g := NewGuidance(provider)

	verdict, err := g.Route(context.Background(), "someone broke into my house", testContext())

	require.NoError(t, err)
	assert.True(t, verdict.IsCritical)
	assert.Equal(t, HandoffPolice, verdict.HandoffTarget)
	require.Len(t, provider.calls, 1)
	assert.Equal(t, "routing_verdict", provider.calls[0].Schema.Name)
	assert.Equal(t, core.RoleSystem, provider.calls[0].Messages[0].Role)
}

func TestGuidanceRouteBadJSON(t *testing.T) {
	provider := &scriptProvider{steps: []func(core.CompletionRequest) (core.Message, error){
		reply(`not json`),
	}}
	g := NewGuidance(provider)

	_, err := g.Route(context.Background(), "hello", testContext())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode routing verdict")
}

func TestOrchestratorDispatch(t *testing.T) {
	provider := &scriptProvider{steps: []func(core.CompletionRequest) (core.Message, error){
		reply(`{"request_type": "catastrophic", "request_text": "flood in the area"}`),
	}}
	o := NewOrchestrator(provider)

	verdict, err := o.Dispatch(context.Background(), "the whole street is flooding", testContext())

	require.NoError(t, err)
	assert.Equal(t, RequestCatastrophic, verdict.RequestType)
	assert.Equal(t, "flood in the area", verdict.RequestText)
	assert.Len(t, verdict.CaseID, 4)
	assert.NotEmpty(t, verdict.Timestamp)
}

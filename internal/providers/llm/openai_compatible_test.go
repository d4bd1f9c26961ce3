package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandevgo/reliefbot/internal/core"
)

func newCompatible(baseURL string) *OpenAICompatible {
	return NewOpenAICompatible(OpenAICompatibleConfig{
		BaseURL:    baseURL,
		APIKey:     "key",
		Model:      "test-model",
		AuthHeader: "Authorization",
		AuthPrefix: "Bearer ",
	})
}

func TestCompleteSendsToolsAndAuth(t *testing.T) {
	var payload map[string]any
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		w.Write([]byte(`{"choices": [{"message": {"role": "assistant", "content": "hello"}}]}`))
	}))
	t.Cleanup(api.Close)

	provider := newCompatible(api.URL)
	msg, err := provider.Complete(context.Background(), core.CompletionRequest{
		Messages: []core.Message{{Role: core.RoleUser, Content: "hi"}},
		Tools: []core.Tool{
			core.NewFunctionTool("echo", "Echo", json.RawMessage(`{"type":"object"}`)),
		},
	})

	require.NoError(t, err)
	assert.Equal(t, "hello", msg.Content)
	assert.Equal(t, "test-model", payload["model"])
	require.Len(t, payload["tools"], 1)
	_, hasFormat := payload["response_format"]
	assert.False(t, hasFormat)
}

func TestCompleteSendsResponseFormat(t *testing.T) {
	var payload map[string]any
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		w.Write([]byte(`{"choices": [{"message": {"role": "assistant", "content": "{\"ok\": true}"}}]}`))
	}))
	t.Cleanup(api.Close)

	provider := newCompatible(api.URL)
	_, err := provider.Complete(context.Background(), core.CompletionRequest{
		Messages: []core.Message{{Role: core.RoleUser, Content: "classify"}},
		Schema: &core.ResponseSchema{
			Name:   "verdict",
			Schema: json.RawMessage(`{"type":"object"}`),
		},
	})

	require.NoError(t, err)
	format, ok := payload["response_format"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "json_schema", format["type"])
	schema := format["json_schema"].(map[string]any)
	assert.Equal(t, "verdict", schema["name"])
	assert.Equal(t, true, schema["strict"])
}

func TestCompleteParsesToolCalls(t *testing.T) {
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"choices": [{"message": {
			"role": "assistant",
			"tool_calls": [{"id": "call_1", "type": "function", "function": {"name": "echo", "arguments": "{\"text\":\"hi\"}"}}]
		}}]}`))
	}))
	t.Cleanup(api.Close)

	provider := newCompatible(api.URL)
	msg, err := provider.Complete(context.Background(), core.CompletionRequest{
		Messages: []core.Message{{Role: core.RoleUser, Content: "hi"}},
	})

	require.NoError(t, err)
	require.Len(t, msg.ToolCalls, 1)
	assert.Equal(t, "echo", msg.ToolCalls[0].Function.Name)
	assert.Equal(t, `{"text":"hi"}`, msg.ToolCalls[0].Function.Arguments)
}

func TestCompleteHTTPError(t *testing.T) {
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error": "rate limited"}`, http.StatusTooManyRequests)
	}))
	t.Cleanup(api.Close)

	provider := newCompatible(api.URL)
	_, err := provider.Complete(context.Background(), core.CompletionRequest{
		Messages: []core.Message{{Role: core.RoleUser, Content: "hi"}},
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

package whatsapp

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandevgo/reliefbot/internal/config"
)

func testConfig() *config.WhatsAppConfig {
	return &config.WhatsAppConfig{
		AccessToken:   "token",
		PhoneNumberID: "12345",
		VerifyToken:   "secret",
		ListenAddr:    ":0",
	}
}

func TestHandleVerify(t *testing.T) {
	server := NewServer(context.Background(), testConfig(), nil, nil)

	req := httptest.NewRequest(http.MethodGet,
		"/webhook?hub.mode=subscribe&hub.verify_token=secret&hub.challenge=42", nil)
	rec := httptest.NewRecorder()
	server.http.Handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "42", rec.Body.String())
}

func TestHandleVerifyWrongToken(t *testing.T) {
	server := NewServer(context.Background(), testConfig(), nil, nil)

	req := httptest.NewRequest(http.MethodGet,
		"/webhook?hub.mode=subscribe&hub.verify_token=wrong&hub.challenge=42", nil)
	rec := httptest.NewRecorder()
	server.http.Handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestClientSendText(t *testing.T) {
	var got map[string]any
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/12345/messages", r.URL.Path)
		assert.Equal(t, "Bearer token", r.Header.Get("Authorization"))
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &got))
		w.Write([]byte(`{"messages": [{"id": "wamid.1"}]}`))
	}))
	t.Cleanup(api.Close)

	client := NewClient(testConfig()).WithBaseURL(api.URL)

	err := client.SendText(context.Background(), "923001234567", "hello")

	require.NoError(t, err)
	assert.Equal(t, "whatsapp", got["messaging_product"])
	assert.Equal(t, "923001234567", got["to"])
	assert.Equal(t, map[string]any{"body": "hello"}, got["text"])
}

func TestClientSendTextRetriesServerError(t *testing.T) {
	var attempts int
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		attempts++
		if attempts == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(`{}`))
	}))
	t.Cleanup(api.Close)

	client := NewClient(testConfig()).WithBaseURL(api.URL)

	err := client.SendText(context.Background(), "923001234567", "hello")

	require.NoError(t, err)
	assert.Equal(t, 2, attempts)
}

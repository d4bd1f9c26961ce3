package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sandevgo/reliefbot/internal/config"
	"github.com/sandevgo/reliefbot/internal/core"
	"github.com/sandevgo/reliefbot/pkg/retry"
)

const graphAPIBase = "https://graph.facebook.com/v19.0"

// Client sends messages through the WhatsApp Cloud API. Deliveries are
// retried with backoff since Meta's edge occasionally 5xxes.
type Client struct {
	http          *http.Client
	retrier       *retry.Retrier
	baseURL       string
	accessToken   string
	phoneNumberID string
}

func NewClient(cfg *config.WhatsAppConfig) *Client {
	return &Client{
		http: &http.Client{
			Timeout: 30 * time.Second,
		},
		retrier:       retry.NewDefaultRetrier(),
		baseURL:       graphAPIBase,
		accessToken:   cfg.AccessToken,
		phoneNumberID: cfg.PhoneNumberID,
	}
}

// WithBaseURL overrides the API host, for tests.
func (c *Client) WithBaseURL(baseURL string) *Client {
	c.baseURL = baseURL
	return c
}

func (c *Client) SendText(ctx context.Context, to, text string) error {
	payload, err := json.Marshal(map[string]any{
		"messaging_product": "whatsapp",
		"recipient_type":    "individual",
		"to":                to,
		"type":              "text",
		"text":              map[string]string{"body": text},
	})
	if err != nil {
		return fmt.Errorf("encode whatsapp message: %w", err)
	}

	url := fmt.Sprintf("%s/%s/messages", c.baseURL, c.phoneNumberID)

	return c.retrier.Do(ctx, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
		if err != nil {
			return fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+c.accessToken)
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("User-Agent", core.ReliefUserAgent)

		resp, err := c.http.Do(req)
		if err != nil {
			return fmt.Errorf("whatsapp send: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 300 {
			body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
			return fmt.Errorf("whatsapp send http %d: %s", resp.StatusCode, body)
		}
		return nil
	})
}

package whatsapp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sandevgo/reliefbot/internal/config"
	"github.com/sandevgo/reliefbot/internal/convo"
	"github.com/sandevgo/reliefbot/internal/service/chat"
	"github.com/sandevgo/reliefbot/pkg/log"
)

// Server receives WhatsApp Cloud API webhooks. Meta requires a fast 200, so
// inbound messages are acknowledged immediately and processed in their own
// goroutine.
type Server struct {
	http   *http.Server
	client *Client
	chat   *chat.Service
	cfg    *config.WhatsAppConfig
	base   context.Context
}

func NewServer(ctx context.Context, cfg *config.WhatsAppConfig, client *Client, chatService *chat.Service) *Server {
	s := &Server{
		client: client,
		chat:   chatService,
		cfg:    cfg,
		base:   ctx,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /webhook", s.handleVerify)
	mux.HandleFunc("POST /webhook", s.handleInbound)

	s.http = &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

func (s *Server) Start(ctx context.Context) error {
	log.FromCtx(ctx).Info().Str("addr", s.http.Addr).Msg("starting whatsapp webhook server")
	if err := s.http.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("whatsapp server: %w", err)
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.http.Shutdown(shutdownCtx)
}

// handleVerify answers Meta's subscription handshake.
func (s *Server) handleVerify(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if q.Get("hub.mode") == "subscribe" && q.Get("hub.verify_token") == s.cfg.VerifyToken {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(q.Get("hub.challenge")))
		return
	}
	http.Error(w, "verification failed", http.StatusForbidden)
}

type webhookPayload struct {
	Entry []struct {
		Changes []struct {
			Value struct {
				Contacts []struct {
					WaID    string `json:"wa_id"`
					Profile struct {
						Name string `json:"name"`
					} `json:"profile"`
				} `json:"contacts"`
				Messages []struct {
					From string `json:"from"`
					Type string `json:"type"`
					Text struct {
						Body string `json:"body"`
					} `json:"text"`
				} `json:"messages"`
			} `json:"value"`
		} `json:"changes"`
	} `json:"entry"`
}

func (s *Server) handleInbound(w http.ResponseWriter, r *http.Request) {
	var payload webhookPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		// Still 200: Meta retries on errors and the payload will not improve.
		log.FromCtx(s.base).Error().Err(err).Msg("failed to decode whatsapp webhook")
		w.WriteHeader(http.StatusOK)
		return
	}
	w.WriteHeader(http.StatusOK)

	for _, entry := range payload.Entry {
		for _, change := range entry.Changes {
			names := make(map[string]string)
			for _, contact := range change.Value.Contacts {
				names[contact.WaID] = contact.Profile.Name
			}
			for _, msg := range change.Value.Messages {
				if msg.Type != "text" || msg.Text.Body == "" {
					continue
				}
				go s.process(msg.From, names[msg.From], msg.Text.Body)
			}
		}
	}
}

func (s *Server) process(from, name, text string) {
	ctx, cancel := context.WithTimeout(s.base, 2*time.Minute)
	defer cancel()
	logger := log.FromCtx(ctx)

	reply, err := s.chat.Handle(ctx, chat.Request{
		Profile: convo.Profile{
			PhoneNumber: "+" + from,
			Username:    name,
		},
		Message: text,
	})
	if err != nil {
		logger.Error().Err(err).Str("from", from).Msg("whatsapp chat handling failed")
		return
	}

	if err := s.client.SendText(ctx, from, reply); err != nil {
		logger.Error().Err(err).Str("to", from).Msg("failed to deliver whatsapp reply")
	}
}

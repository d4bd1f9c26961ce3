package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sandevgo/reliefbot/internal/config"
	"github.com/sandevgo/reliefbot/internal/convo"
	"github.com/sandevgo/reliefbot/internal/core"
	"github.com/sandevgo/reliefbot/internal/device"
	"github.com/sandevgo/reliefbot/internal/service/chat"
	"github.com/sandevgo/reliefbot/pkg/log"
)

const maxBodyBytes = 64 << 10

// Server is the web channel: a JSON chat endpoint carrying the device
// telemetry that WhatsApp and Telegram cannot provide.
type Server struct {
	http *http.Server
	chat *chat.Service
}

func NewServer(ctx context.Context, cfg *config.WebConfig, chatService *chat.Service) *Server {
	s := &Server{chat: chatService}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /chat", s.handleChat)
	mux.HandleFunc("GET /healthz", s.handleHealth)

	s.http = &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           withRequestContext(ctx, mux),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// withRequestContext grafts the app context (with its logger) onto each
// request so handler logging works like everywhere else.
func withRequestContext(base context.Context, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.FromCtx(base)
		next.ServeHTTP(w, r.WithContext(logger.WithContext(r.Context())))
	})
}

func (s *Server) Start(ctx context.Context) error {
	log.FromCtx(ctx).Info().Str("addr", s.http.Addr).Msg("starting web server")
	if err := s.http.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("web server: %w", err)
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.http.Shutdown(shutdownCtx)
}

type chatRequest struct {
	PhoneNumber string             `json:"phone_number"`
	Username    string             `json:"username,omitempty"`
	Email       string             `json:"email,omitempty"`
	Message     string             `json:"message"`
	Coordinates *convo.Coordinates `json:"coordinates,omitempty"`
	Status      *device.Snapshot   `json:"status,omitempty"`
}

type chatResponse struct {
	Reply string `json:"reply"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := log.FromCtx(ctx)

	var req chatRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	if req.PhoneNumber == "" || req.Message == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "phone_number and message are required"})
		return
	}

	reply, err := s.chat.Handle(ctx, chat.Request{
		Profile: convo.Profile{
			PhoneNumber: req.PhoneNumber,
			Username:    req.Username,
			Email:       req.Email,
		},
		Message:     req.Message,
		Coordinates: req.Coordinates,
		Status:      req.Status,
	})
	if err != nil {
		logger.Error().Err(err).Msg("chat handling failed")
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
		return
	}

	writeJSON(w, http.StatusOK, chatResponse{Reply: reply})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"service": core.ReliefName,
		"version": core.ReliefVersion,
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

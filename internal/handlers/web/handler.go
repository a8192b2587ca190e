package web

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/KirkDiggler/diceroom/internal/services/messaging"
	"github.com/KirkDiggler/diceroom/internal/services/roll"
	"github.com/KirkDiggler/diceroom/internal/services/session"
	"github.com/KirkDiggler/diceroom/internal/services/synchronizer"
)

// Config holds the dependencies of the HTTP handlers
type Config struct {
	SessionService   session.Service
	RollService      roll.Service
	Synchronizer     synchronizer.Service
	MessagingService messaging.Service

	// HealthCheck reports whether the store is reachable, optional
	HealthCheck func(ctx context.Context) error

	// AllowedOrigins for CORS and WebSocket upgrades, empty allows all
	AllowedOrigins []string

	Socket SocketConfig
}

// SocketConfig holds configuration for WebSocket connections
type SocketConfig struct {
	WriteTimeout    time.Duration
	ReadTimeout     time.Duration
	PingInterval    time.Duration
	MaxMessageSize  int64
	ReadBufferSize  int
	WriteBufferSize int
	SendBuffer      int
}

// DefaultSocketConfig returns default WebSocket configuration
func DefaultSocketConfig() SocketConfig {
	return SocketConfig{
		WriteTimeout:    10 * time.Second,
		ReadTimeout:     60 * time.Second,
		PingInterval:    30 * time.Second,
		MaxMessageSize:  1024,
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		SendBuffer:      64,
	}
}

// Handler contains shared dependencies for all HTTP handlers
type Handler struct {
	sessions    session.Service
	rolls       roll.Service
	sync        synchronizer.Service
	messaging   messaging.Service
	healthCheck func(ctx context.Context) error
	origins     []string
	socket      SocketConfig
	upgrader    websocket.Upgrader
}

// New creates a new Handler
func New(cfg *Config) (*Handler, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.SessionService == nil {
		return nil, errors.New("session service cannot be nil")
	}

	if cfg.RollService == nil {
		return nil, errors.New("roll service cannot be nil")
	}

	if cfg.Synchronizer == nil {
		return nil, errors.New("synchronizer cannot be nil")
	}

	if cfg.MessagingService == nil {
		return nil, errors.New("messaging service cannot be nil")
	}

	socket := cfg.Socket
	defaults := DefaultSocketConfig()
	if socket.WriteTimeout <= 0 {
		socket.WriteTimeout = defaults.WriteTimeout
	}
	if socket.ReadTimeout <= 0 {
		socket.ReadTimeout = defaults.ReadTimeout
	}
	if socket.PingInterval <= 0 {
		socket.PingInterval = defaults.PingInterval
	}
	if socket.MaxMessageSize <= 0 {
		socket.MaxMessageSize = defaults.MaxMessageSize
	}
	if socket.SendBuffer <= 0 {
		socket.SendBuffer = defaults.SendBuffer
	}

	h := &Handler{
		sessions:    cfg.SessionService,
		rolls:       cfg.RollService,
		sync:        cfg.Synchronizer,
		messaging:   cfg.MessagingService,
		healthCheck: cfg.HealthCheck,
		origins:     cfg.AllowedOrigins,
		socket:      socket,
	}

	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  socket.ReadBufferSize,
		WriteBufferSize: socket.WriteBufferSize,
		CheckOrigin:     h.checkOrigin,
	}

	return h, nil
}

func (h *Handler) checkOrigin(r *http.Request) bool {
	if len(h.origins) == 0 {
		return true
	}

	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}

	for _, allowed := range h.origins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}
	return false
}

// JSON sends a JSON response with the given status code
func (h *Handler) JSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Warn().Err(err).Msg("failed to write response")
	}
}

// Error sends a JSON error response with the given status code
func (h *Handler) Error(w http.ResponseWriter, status int, message string) {
	h.JSON(w, status, map[string]string{"error": message})
}

// decode reads a JSON request body
func decode(r *http.Request, v interface{}) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}

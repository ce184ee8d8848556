package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"galaxy-recommender/internal/application/port/input"
	"galaxy-recommender/internal/application/port/output"
	"galaxy-recommender/internal/domain/entity"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog"
)

const maxBodyBytes = 1 << 20

type Config struct {
	Addr        string
	CORSOrigins []string
	ServiceName string
	// AccessLog enables structured request logging.
	AccessLog bool
}

// Server exposes the chat service over HTTP. Turns are serialized because
// the conversation is a single shared log.
type Server struct {
	chat    input.ChatService
	logger  output.LoggerPort
	onEvent entity.EventHandler
	cfg     Config

	turnMu sync.Mutex
}

type chatRequest struct {
	Message string `json:"message"`
	Model   string `json:"model,omitempty"`
}

type chatResponse struct {
	Reply  string             `json:"reply"`
	Events []entity.TurnEvent `json:"events"`
}

func NewServer(chat input.ChatService, logger output.LoggerPort, cfg Config, onEvent entity.EventHandler) *Server {
	return &Server{
		chat:    chat,
		logger:  logger,
		onEvent: onEvent,
		cfg:     cfg,
	}
}

func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	if s.cfg.AccessLog {
		r.Use(httplog.RequestLogger(httplog.NewLogger(s.serviceName(), httplog.Options{JSON: true, Concise: true})))
	}

	origins := s.cfg.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{"X-Request-Id"},
		MaxAge:         300,
	}))

	r.Get("/healthz", s.health)
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/chat", s.postChat)
		r.Get("/messages", s.listMessages)
	})
	return r
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("HTTP server listening", "addr", s.cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	s.logger.Info("Shutting down HTTP server")
	return srv.Shutdown(shutdownCtx)
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) postChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.Message = strings.TrimSpace(req.Message)
	if req.Message == "" {
		respondError(w, http.StatusBadRequest, "message is required")
		return
	}

	var (
		eventsMu sync.Mutex
		events   = []entity.TurnEvent{}
	)
	collect := func(ctx context.Context, ev entity.TurnEvent) error {
		eventsMu.Lock()
		defer eventsMu.Unlock()
		events = append(events, ev)
		return nil
	}

	// A turn runs to completion even if the client goes away, so the stored
	// conversation never ends on unanswered tool calls.
	s.turnMu.Lock()
	reply, err := s.chat.Turn(context.WithoutCancel(r.Context()), req.Message, input.TurnOptions{
		Model:   req.Model,
		OnEvent: entity.FanOut(collect, s.onEvent),
	})
	s.turnMu.Unlock()

	if err != nil {
		s.logger.Error("Chat turn failed", "error", err, "requestId", chimw.GetReqID(r.Context()))
		respondError(w, http.StatusBadGateway, err.Error())
		return
	}

	eventsMu.Lock()
	defer eventsMu.Unlock()
	respondJSON(w, http.StatusOK, chatResponse{Reply: reply, Events: events})
}

func (s *Server) listMessages(w http.ResponseWriter, r *http.Request) {
	messages, err := s.chat.History(r.Context())
	if err != nil {
		s.logger.Error("Failed to load history", "error", err)
		respondError(w, http.StatusBadGateway, err.Error())
		return
	}
	if messages == nil {
		messages = []entity.Message{}
	}
	respondJSON(w, http.StatusOK, messages)
}

func (s *Server) serviceName() string {
	if s.cfg.ServiceName != "" {
		return s.cfg.ServiceName
	}
	return "galaxy-recommender"
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

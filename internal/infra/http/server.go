package http

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"xeyronox-link-bot/internal/application"
	"xeyronox-link-bot/internal/config"
	"xeyronox-link-bot/internal/domain"
	"xeyronox-link-bot/internal/domain/ports/repository"
	"xeyronox-link-bot/internal/infra/adapters/telegram"
	"xeyronox-link-bot/internal/infra/logging"
	"xeyronox-link-bot/internal/infra/metrics"
	"xeyronox-link-bot/internal/infra/worker"
)

const (
	BotName   = "Xeyronox Link Bot"
	Developer = "Xeyronox || Red/Black Hat Hacker"

	maxUpdateBytes = 1 << 20
)

// TaskQueue is the part of the worker pool the ingress needs.
type TaskQueue interface {
	Submit(name string, task worker.Task) (string, error)
}

// Server is the webhook ingress plus the health, index and metrics routes.
type Server struct {
	cfg    *config.Config
	app    *application.App
	dedup  repository.UpdateDedupStore
	queue  TaskQueue
	log    *zerolog.Logger
	now    func() time.Time
	server *http.Server
}

func NewServer(cfg *config.Config, app *application.App, dedup repository.UpdateDedupStore, queue TaskQueue, logger *zerolog.Logger) *Server {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	l := logger.With().Str("component", "HTTPServer").Logger()
	s := &Server{cfg: cfg, app: app, dedup: dedup, queue: queue, log: &l, now: time.Now}
	s.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(TraceID(), RequestLog(s.log), Recover(s.log))

	webhook := Chain(http.HandlerFunc(s.handleWebhook), MaxBody(maxUpdateBytes), Timeout(s.cfg.HTTP.RequestTimeout))
	if s.cfg.Bot.WebhookSecret == "" {
		r.Method(http.MethodPost, config.DefaultWebhookDir, webhook)
	} else {
		r.Method(http.MethodPost, config.DefaultWebhookDir+"/{secret}", Chain(webhook, s.requireSecret))
	}

	r.Get("/health", s.handleHealth)
	r.Get("/healthz", s.handleHealth)
	r.Get("/", s.handleIndex)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())
	return r
}

// Start blocks until the listener stops. A graceful Shutdown is not an error,
// including one that lands before Start.
func (s *Server) Start() error {
	s.log.Info().Int("port", s.cfg.HTTP.Port).Msg("HTTP server listening")
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Server) requireSecret(next http.Handler) http.Handler {
	want := []byte(s.cfg.Bot.WebhookSecret)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got := []byte(chi.URLParam(r, "secret"))
		if subtle.ConstantTimeCompare(got, want) != 1 {
			writeJSON(w, http.StatusNotFound, errorBody{Error: "not found"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := logging.With(ctx, s.log)

	if !s.app.Ready() {
		metrics.IncWebhookUpdate("not_ready")
		l.Error().Msg("update received before the bot was initialized")
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: domain.ErrNotInitialized.Error()})
		return
	}

	var update tgbotapi.Update
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		metrics.IncWebhookUpdate("malformed")
		l.Warn().Err(err).Msg("malformed update")
		writeJSON(w, http.StatusBadRequest, errorBody{Error: domain.ErrMalformedUpdate.Error()})
		return
	}

	ctx = logging.WithUpdateID(ctx, update.UpdateID)
	l = logging.With(ctx, s.log)

	if s.dedup != nil {
		first, err := s.dedup.MarkSeen(ctx, update.UpdateID)
		switch {
		case err != nil:
			// fail open; a redelivered update is better than a lost one
			l.Warn().Err(err).Msg("dedup store unavailable")
		case !first:
			metrics.IncWebhookUpdate("duplicate")
			l.Info().Msg("duplicate update skipped")
			writeJSON(w, http.StatusOK, okBody)
			return
		}
	}

	incoming, ok := telegram.ToIncoming(update)
	if !ok {
		metrics.IncWebhookUpdate("ignored")
		l.Debug().Msg("update carries nothing to answer")
		writeJSON(w, http.StatusOK, okBody)
		return
	}

	traceID := logging.TraceIDFrom(ctx)
	taskID, err := s.queue.Submit("update", func(taskCtx context.Context) error {
		taskCtx = logging.WithTraceID(taskCtx, traceID)
		if err := s.app.HandleUpdate(taskCtx, incoming); err != nil {
			logging.With(logging.WithUpdateID(taskCtx, incoming.UpdateID), s.log).
				Error().Err(err).Str("command", incoming.Command).Msg("update handling failed")
		}
		return nil
	})
	if err != nil {
		metrics.IncWebhookUpdate("dropped")
		l.Error().Err(err).Int64("chat_id", incoming.ChatID).Msg("update dropped")
		writeJSON(w, http.StatusOK, okBody)
		return
	}

	metrics.IncWebhookUpdate("accepted")
	l.Debug().Str("task_id", taskID).Msg("update queued")
	writeJSON(w, http.StatusOK, okBody)
}

type healthBody struct {
	Status        string `json:"status"`
	Bot           string `json:"bot"`
	BotStatus     string `json:"bot_status"`
	Timestamp     string `json:"timestamp"`
	Environment   string `json:"environment"`
	Version       string `json:"version"`
	UptimeSeconds int64  `json:"uptime_seconds"`
}

// handleHealth always answers 200 so the platform keeps routing to us while
// the bot is still coming up; status says whether it is ready.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	now := s.now().UTC()
	st := s.app.Status()
	body := healthBody{
		Status:        "degraded",
		Bot:           BotName,
		BotStatus:     "not_initialized",
		Timestamp:     now.Format(time.RFC3339),
		Environment:   st.Environment,
		Version:       st.Version,
		UptimeSeconds: int64(st.Uptime(now).Seconds()),
	}
	if s.app.Ready() {
		body.Status = "healthy"
		body.BotStatus = "healthy"
	}
	writeJSON(w, http.StatusOK, body)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	now := s.now().UTC()
	writeJSON(w, http.StatusOK, map[string]string{
		"bot":              BotName,
		"status":           "running",
		"developer":        Developer,
		"version":          s.app.Status().Version,
		"health_endpoint":  "/health",
		"webhook_endpoint": config.DefaultWebhookDir,
		"metrics_endpoint": "/metrics",
		"daily_wisdom":     s.app.Dispatcher().Catalog().QuoteOfDay(now),
	})
}

type errorBody struct {
	Error string `json:"error"`
}

var okBody = map[string]string{"status": "ok"}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

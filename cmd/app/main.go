// File: cmd/app/main.go
package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"xeyronox-link-bot/internal/application"
	"xeyronox-link-bot/internal/catalog"
	"xeyronox-link-bot/internal/config"
	"xeyronox-link-bot/internal/domain/model"
	"xeyronox-link-bot/internal/domain/ports/adapter"
	"xeyronox-link-bot/internal/domain/ports/repository"
	tele "xeyronox-link-bot/internal/infra/adapters/telegram"
	httpapi "xeyronox-link-bot/internal/infra/http"
	"xeyronox-link-bot/internal/infra/logging"
	"xeyronox-link-bot/internal/infra/memstore"
	"xeyronox-link-bot/internal/infra/metrics"
	red "xeyronox-link-bot/internal/infra/redis"
	"xeyronox-link-bot/internal/infra/retry"
	"xeyronox-link-bot/internal/infra/sched"
	"xeyronox-link-bot/internal/infra/worker"
)

// set via -ldflags
var (
	version = "1.0.0"
	commit  = "none"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "", "optional path to YAML config file")
	envFile := flag.String("env-file", ".env", "dotenv file loaded before reading the environment")
	devMode := flag.Bool("dev", false, "enable developer mode (console logs, no redaction)")
	flag.Parse()

	boot := zerolog.New(os.Stderr).With().Timestamp().Logger()
	if err := godotenv.Load(*envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		boot.Warn().Err(err).Str("file", *envFile).Msg("dotenv file not loaded")
	}

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		boot.Fatal().Err(err).Msg("config")
	}

	logger := logging.New(cfg.Log, cfg.Environment, cfg.Runtime.Dev)
	metrics.MustRegister()
	metrics.SetBuildInfo(version, commit, cfg.Environment)
	logger.Info().
		Str("version", version).
		Int("port", cfg.HTTP.Port).
		Bool("dry_run", cfg.Bot.DryRun).
		Str("token", logging.Redact(cfg.Bot.Token, cfg.Runtime.Dev)).
		Msg("starting Xeyronox Link Bot")

	// ---- Catalog + dispatcher ----
	cat, err := catalog.Default()
	if err != nil {
		logger.Fatal().Err(err).Msg("response catalog")
	}
	status := model.NewProcessStatus(time.Now(), cfg.Environment, version)
	dispatcher := application.NewDispatcher(cat, status, time.Now)
	app := application.NewApp(dispatcher, logger)

	// ---- Update de-dup ----
	dedup, err := newDedupStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("dedup store")
	}

	// ---- Worker pool ----
	// not derived from ctx: queued updates must survive the signal until the grace period ends
	pool := worker.NewPool(cfg.Worker.Workers, cfg.Worker.QueueSize, logger)
	pool.Start(context.Background())

	// ---- HTTP ingress ----
	srv := httpapi.NewServer(cfg, app, dedup, pool, logger)
	go func() {
		if err := srv.Start(); err != nil {
			logger.Fatal().Err(err).Msg("http server")
		}
	}()

	// ---- Telegram ----
	policy := retry.FromConfig(cfg.Retry, logger)
	sender, err := initBot(ctx, cfg, policy, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("bot initialization failed")
	}
	app.Attach(sender)

	// ---- Daily wisdom ----
	if cfg.Wisdom.ChatID != 0 {
		ww, err := sched.NewWisdomWorker(cfg.Wisdom.Cron, cfg.Wisdom.ChatID, dispatcher, sender, logger)
		if err != nil {
			logger.Fatal().Err(err).Msg("wisdom worker")
		}
		go func() { _ = ww.Run(ctx) }()
	}

	// ---- Graceful shutdown ----
	<-ctx.Done()
	logger.Info().Msg("shutdown requested")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownGrace)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("http shutdown")
	}
	if err := pool.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("worker pool shutdown")
	}
	if err := dedup.Close(); err != nil {
		logger.Error().Err(err).Msg("dedup store close")
	}
	logger.Info().Msg("bye")
}

// initBot builds the sender and registers the webhook, both under the retry
// policy. In dry-run mode replies are only logged.
func initBot(ctx context.Context, cfg *config.Config, policy retry.Policy, logger *zerolog.Logger) (adapter.TelegramBotAdapter, error) {
	if cfg.Bot.DryRun {
		logger.Warn().Msg("DRY_RUN set: replies are logged, webhook not registered")
		return tele.NewNoopBotAdapter(logger), nil
	}

	var bot *tele.RealTelegramBotAdapter
	err := policy.Do(ctx, "telegram.getMe", func(ctx context.Context) error {
		b, err := tele.NewRealTelegramBotAdapter(cfg.Bot, policy, logger)
		if err != nil {
			return err
		}
		bot = b
		return nil
	})
	if err != nil {
		return nil, err
	}

	endpoint := cfg.Bot.WebhookEndpoint()
	if err := bot.RegisterWebhook(ctx, endpoint, cfg.Bot.AllowedUpdates, cfg.Bot.DropPending()); err != nil {
		return nil, err
	}
	logger.Info().
		Str("bot", bot.Username()).
		Str("webhook", logging.RedactPath(endpoint, cfg.Bot.WebhookSecret)).
		Strs("allowed_updates", cfg.Bot.AllowedUpdates).
		Msg("webhook registered")
	return bot, nil
}

// newDedupStore prefers Redis so redeliveries are caught across restarts;
// without REDIS_URL an in-process store is used.
func newDedupStore(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) (repository.UpdateDedupStore, error) {
	if cfg.Redis.URL == "" {
		logger.Info().Msg("REDIS_URL not set; using in-memory update de-dup")
		store, err := memstore.NewDedupStore(cfg.Dedup.TTL)
		if err != nil {
			return nil, err
		}
		return store, nil
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	client, err := red.NewClient(pingCtx, &cfg.Redis)
	if err != nil {
		return nil, err
	}
	logger.Info().Msg("using redis update de-dup")
	return red.NewDedupStore(client, cfg.Dedup.TTL), nil
}

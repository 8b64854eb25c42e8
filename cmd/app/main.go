// File: cmd/app/main.go
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"soulsync/internal/config"
	"soulsync/internal/counselor"
	"soulsync/internal/domain/ports/adapter"
	aiAdapters "soulsync/internal/infra/adapters/ai"
	tele "soulsync/internal/infra/adapters/telegram"
	"soulsync/internal/infra/api"
	pg "soulsync/internal/infra/db/postgres"
	"soulsync/internal/infra/i18n"
	"soulsync/internal/infra/logging"
	"soulsync/internal/infra/metrics"
	red "soulsync/internal/infra/redis"
	"soulsync/internal/infra/sched"
	"soulsync/internal/infra/security"
	"soulsync/internal/infra/worker"
	"soulsync/internal/usecase"
)

// set with -ldflags "-X main.version=... -X main.commit=..."
var (
	version = "dev"
	commit  = "none"
)

func main() {
	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode (console logs, unredacted PII)")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	log := logging.New(cfg.Log, cfg.Runtime.Dev)
	if cfg.Runtime.Dev {
		log.Warn().Msg("[DEV MODE] Enabled")
	}

	metrics.MustRegister()
	metrics.SetBuildInfo(version, commit)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ---- Postgres ----
	pool, err := pg.NewPool(ctx, cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("postgres")
	}
	defer pool.Close()

	// ---- Redis ----
	redisClient, err := red.NewClient(ctx, &cfg.Redis)
	if err != nil {
		log.Fatal().Err(err).Msg("redis")
	}
	defer redisClient.Close()

	// ---- Encryption ----
	var cipher security.TextCipher = security.PlainCipher{}
	if key := cfg.Security.EncryptionKey; key != "" {
		c, err := security.NewTurnCipher(key)
		if err != nil {
			log.Fatal().Err(err).Msg("encryption")
		}
		cipher = c
	} else {
		log.Warn().Msg("security.encryption_key not set; conversation turns are stored in plaintext")
	}

	// ---- Repositories ----
	tm := pg.NewTxManager(pool)
	userRepo := pg.NewUserRepoCacheDecorator(pg.NewPostgresUserRepo(pool), redisClient, cfg.Redis.TTL)
	moodRepo := pg.NewPostgresMoodRepo(pool)
	turnRepo := pg.NewConversationRepoCacheDecorator(pg.NewPostgresConversationRepo(pool, cipher), redisClient, cipher, cfg.Redis.TTL)
	postRepo := pg.NewPostgresCommunityRepo(pool)
	sessionRepo := pg.NewPostgresSessionRepo(pool)
	wellnessRepo := pg.NewWellnessRepoCacheDecorator(pg.NewPostgresWellnessRepo(pool), redisClient, cfg.Redis.TTL)
	stateRepo := red.NewStateRepo(redisClient)

	// ---- Counselor engine ----
	engine, err := counselor.NewDefaultEngine()
	if err != nil {
		log.Fatal().Err(err).Msg("counselor templates")
	}

	// ---- AI adapters (Gemini + OpenAI behind one router) ----
	ai := buildAI(ctx, cfg, log)

	// ---- Counselor alerts ----
	var notifier adapter.Notifier = tele.NewNoopNotifier(log)
	if cfg.Notify.TelegramToken != "" {
		n, err := tele.NewTelegramNotifier(cfg.Notify.TelegramToken)
		if err != nil {
			log.Fatal().Err(err).Msg("telegram")
		}
		notifier = n
	}
	alerts := worker.NewPool(cfg.Notify.Workers, cfg.Notify.QueueSize, log)

	// ---- Use cases ----
	chat := usecase.NewChatUseCase(ai, userRepo, turnRepo, tm, usecase.ChatOptions{
		Model:        cfg.AI.DefaultModel,
		HistoryTurns: cfg.AI.HistoryTurns,
		PromptBudget: cfg.AI.PromptBudget,
		Timeout:      cfg.AI.Timeout,
	}, log)
	svc := api.Services{
		Users:     usecase.NewUserUseCase(userRepo, log, cfg.Runtime.Dev),
		Moods:     usecase.NewMoodUseCase(moodRepo, log),
		Counselor: usecase.NewCounselorUseCase(engine, userRepo, moodRepo, turnRepo, stateRepo, tm, cfg.Auth.TokenTTL, log),
		Chat:      chat,
		Community: usecase.NewCommunityUseCase(postRepo, userRepo, tm, cfg.Community.Retention, log),
		Sessions:  usecase.NewSessionUseCase(sessionRepo, notifier, alerts, cfg.Notify.CounselorIDs, log, cfg.Runtime.Dev),
		Wellness:  usecase.NewWellnessUseCase(moodRepo, wellnessRepo, log),
	}

	// ---- HTTP ----
	tr, err := i18n.NewTranslator(i18n.LocalesFS, cfg.Server.Locale)
	if err != nil {
		log.Fatal().Err(err).Msg("i18n")
	}
	local, err := api.NewLocalLimiter(0)
	if err != nil {
		log.Fatal().Err(err).Msg("local rate limiter")
	}
	srv := api.NewServer(svc,
		api.NewAuthManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL),
		api.NewFallbackLimiter(red.NewRateLimiter(redisClient), local, log),
		tr,
		api.Options{
			ClientURL:      cfg.Server.ClientURL,
			BodyLimit:      cfg.Server.BodyLimit,
			RequestTimeout: cfg.Server.RequestTimeout,
			RateLimit:      cfg.RateLimit.Requests,
			RateWindow:     cfg.RateLimit.Window,
			Health: func(ctx context.Context) error {
				if err := pool.Ping(ctx); err != nil {
					return fmt.Errorf("postgres: %w", err)
				}
				if err := redisClient.Ping(ctx); err != nil {
					return fmt.Errorf("redis: %w", err)
				}
				return nil
			},
		},
		log,
	)
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           srv.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// ---- Background work ----
	purge := sched.NewPurgeWorker(cfg.Community.PurgeInterval, svc.Community, red.NewLocker(redisClient), log)

	g, gctx := errgroup.WithContext(ctx)
	alerts.Start(context.WithoutCancel(gctx))
	g.Go(func() error {
		log.Info().Str("addr", server.Addr).Msg("http listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutdown requested")
		sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		err := server.Shutdown(sctx)
		alerts.Stop()
		return err
	})
	g.Go(func() error {
		if err := purge.Run(gctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		pg.ReportPoolStats(gctx, pool, 15*time.Second, log)
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("exited with error")
		os.Exit(1)
	}
	log.Info().Msg("bye")
}

// buildAI falls back to NoopAIAdapter when no provider key is configured; the
// chat endpoint then answers 503.
func buildAI(ctx context.Context, cfg *config.Config, log *zerolog.Logger) adapter.AIServiceAdapter {
	providers := map[string]adapter.AIServiceAdapter{}
	defaultProvider := ""

	if cfg.AI.GeminiKey != "" {
		g, err := aiAdapters.NewGeminiAdapter(ctx, cfg.AI.GeminiKey, "", cfg.AI.DefaultModel, 1024)
		if err != nil {
			log.Fatal().Err(err).Msg("gemini adapter")
		}
		providers["gemini"] = aiAdapters.NewInstrumentedAI(g, "gemini")
		defaultProvider = "gemini"
	}
	if cfg.AI.OpenAIKey != "" {
		o, err := aiAdapters.NewOpenAIAdapter(cfg.AI.OpenAIKey, cfg.AI.OpenAIBaseURL, "")
		if err != nil {
			log.Fatal().Err(err).Msg("openai adapter")
		}
		providers["openai"] = aiAdapters.NewInstrumentedAI(o, "openai")
		if defaultProvider == "" {
			defaultProvider = "openai"
		}
	}
	if len(providers) == 0 {
		log.Warn().Msg("no AI provider configured; /api/ai-chat will report unavailable")
		return aiAdapters.NewNoopAIAdapter()
	}
	log.Info().Str("default_provider", defaultProvider).Str("model", cfg.AI.DefaultModel).Msg("AI adapters ready")
	multi := aiAdapters.NewMultiAIAdapter(defaultProvider, providers, nil)
	return aiAdapters.NewLimitedAI(multi, cfg.AI.ConcurrentLimit)
}

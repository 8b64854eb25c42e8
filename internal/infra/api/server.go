package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"soulsync/internal/infra/i18n"
	"soulsync/internal/usecase"
)

// Services are the use cases behind the routes.
type Services struct {
	Users     usecase.UserUseCase
	Moods     usecase.MoodUseCase
	Counselor usecase.CounselorUseCase
	Chat      usecase.ChatUseCase
	Community usecase.CommunityUseCase
	Sessions  usecase.SessionUseCase
	Wellness  usecase.WellnessUseCase
}

type Options struct {
	ClientURL      string
	BodyLimit      int64
	RequestTimeout time.Duration
	RateLimit      int
	RateWindow     time.Duration
	// Health reports dependency readiness for /health; nil means always ready.
	Health func(ctx context.Context) error
}

// Server exposes the SoulSync JSON API.
type Server struct {
	svc     Services
	auth    *AuthManager
	limiter Limiter
	tr      *i18n.Translator
	opts    Options
	log     *zerolog.Logger
}

// NewServer builds the HTTP layer. A nil limiter disables rate limiting.
func NewServer(svc Services, auth *AuthManager, limiter Limiter, tr *i18n.Translator, opts Options, logger *zerolog.Logger) *Server {
	if opts.BodyLimit <= 0 {
		opts.BodyLimit = 10 << 10
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 30 * time.Second
	}
	return &Server{svc: svc, auth: auth, limiter: limiter, tr: tr, opts: opts, log: logger}
}

// Router returns the fully wired handler.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(TraceID())
	r.Use(RequestLog(s.log))
	r.Use(Recover(s.log, s.tr.T("server_error")))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{s.opts.ClientURL},
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{traceHeader},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Use(Timeout(s.opts.RequestTimeout))
		r.Use(BodyLimit(s.opts.BodyLimit))
		if s.limiter != nil && s.opts.RateLimit > 0 {
			r.Use(RateLimit(s.limiter, s.opts.RateLimit, s.opts.RateWindow, s.log, s.tr.T("rate_limited")))
		}

		// public
		r.Post("/login", s.handleLogin)
		r.Get("/user_details/{id}", s.handleUserDetails)
		r.Post("/session", s.handleBookSession)
		r.Get("/get_all_messages", s.handleListMessages)

		r.Group(func(r chi.Router) {
			r.Use(s.RequireAuth)

			r.Get("/me", s.handleMe)

			r.Post("/mood", s.handleSubmitMood)
			r.Get("/check_mood", s.handleCheckMood)
			r.Get("/get_mood", s.handleGetMood)
			r.Get("/range", s.handleMoodRange)
			r.Get("/stats", s.handleMoodStats)

			r.Post("/send_message", s.handleSendMessage)
			r.Get("/wellness_today", s.handleWellnessToday)
			r.Post("/ai-chat", s.handleAIChat)

			r.Route("/counselor", func(r chi.Router) {
				r.Post("/reply", s.handleCounselorReply)
				r.Get("/intro", s.handleCounselorIntro)
				r.Get("/quick_replies", s.handleQuickReplies)
				r.Get("/history", s.handleHistory)
			})
		})
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		s.fail(w, http.StatusNotFound, "not_found")
	})
	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.opts.Health != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := s.opts.Health(ctx); err != nil {
			s.log.Warn().Err(err).Msg("health check failed")
			writeJSON(w, http.StatusServiceUnavailable, envelope{"success": false, "status": "unavailable"})
			return
		}
	}
	s.ok(w, http.StatusOK, envelope{"status": "ok"})
}

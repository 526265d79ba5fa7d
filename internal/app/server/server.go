package server

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"leaveportal/internal/domain/faq"
	"leaveportal/internal/domain/leave"
	"leaveportal/internal/domain/ledger"
	"leaveportal/internal/domain/roster"
	"leaveportal/internal/platform/config"
	"leaveportal/internal/platform/email"
	"leaveportal/internal/platform/metrics"
	adminhandler "leaveportal/internal/transport/http/handlers/admin"
	clinicianhandler "leaveportal/internal/transport/http/handlers/clinician"
	faqhandler "leaveportal/internal/transport/http/handlers/faq"
	"leaveportal/internal/transport/http/middleware"
)

type App struct {
	Config config.Config
	Roster *roster.Store
	Router http.Handler
}

func Run() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	ctx := context.Background()

	rosterStore, err := roster.Load(cfg.LeaveDataFile, cfg.RateDataFile)
	if err != nil {
		log.Fatalf("roster load failed: %v", err)
	}
	log.Printf("roster loaded: %d clinicians", len(rosterStore.Names()))

	leaveLog := ledger.New(cfg.LeaveLogFile)
	pending := leave.NewPendingStore(cfg.PendingTTL)
	mailer := email.New(cfg)

	var collector *metrics.Collector
	if cfg.MetricsEnabled {
		collector = metrics.New()
	}

	responder := buildResponder(ctx, cfg)

	router := buildRouter(cfg, rosterStore, leaveLog, pending, mailer, collector, responder)

	log.Printf("leave portal listening on %s", cfg.Addr)
	if err := http.ListenAndServe(cfg.Addr, router); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}

// buildResponder wires the Gemini-backed assistant. A missing API key or an
// unreachable policy page degrades the FAQ surface instead of blocking boot.
func buildResponder(ctx context.Context, cfg config.Config) *faq.Responder {
	if cfg.GeminiAPIKey == "" {
		slog.Warn("GEMINI_API_KEY not set, policy assistant disabled")
		return nil
	}

	policy := ""
	fetchCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	fetched, err := faq.FetchPolicy(fetchCtx, &http.Client{Timeout: 30 * time.Second}, cfg.PolicyURL)
	if err != nil {
		slog.Warn("policy page fetch failed, answers will note the gap", "url", cfg.PolicyURL, "err", err)
	} else {
		policy = fetched
	}

	responder, err := faq.NewResponder(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, policy)
	if err != nil {
		slog.Warn("policy assistant init failed, FAQ disabled", "err", err)
		return nil
	}
	return responder
}

func buildRouter(
	cfg config.Config,
	rosterStore *roster.Store,
	leaveLog *ledger.Log,
	pending *leave.PendingStore,
	mailer email.Mailer,
	collector *metrics.Collector,
	responder *faq.Responder,
) http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(collector))
	router.Use(middleware.Recoverer)
	router.Use(middleware.SecureHeaders(cfg.Environment == "production"))
	router.Use(middleware.BodyLimit(cfg.MaxBodyBytes))
	router.Use(middleware.RateLimit(cfg.RateLimitPerMinute, time.Minute))
	router.Use(middleware.Auth(cfg.JWTSecret))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if len(rosterStore.Names()) == 0 {
			http.Error(w, "roster not loaded", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	router.Route("/api/v1", func(r chi.Router) {
		clinicianHandler := clinicianhandler.NewHandler(rosterStore, pending, leaveLog, mailer, collector, cfg.NotifyEmail)
		clinicianHandler.RegisterRoutes(r)

		faqHandler := faqhandler.NewHandler(responder, collector)
		faqHandler.RegisterRoutes(r)

		adminHandler := adminhandler.NewHandler(cfg, rosterStore, leaveLog, responder, collector)
		adminHandler.RegisterRoutes(r)
	})

	return router
}

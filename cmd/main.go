// cmd/main.go
package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/lmittmann/tint"
	"github.com/rs/cors"

	"innerpath/internal/config"
	"innerpath/internal/corpus"
	"innerpath/internal/crypto"
	"innerpath/internal/handlers"
	"innerpath/internal/llm"
	"innerpath/internal/middleware"
	"innerpath/internal/repository"
	"innerpath/internal/safety"
	"innerpath/internal/service"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

func main() {
	// Temporary logger until the config tells us the real handler.
	tempLogger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(tempLogger)

	if err := config.LoadConfig("./configs"); err != nil {
		slog.Error("Error loading configuration", slog.Any("error", err))
		os.Exit(1)
	}

	logger := buildLogger()
	slog.SetDefault(logger)

	slog.Info("Application starting...")

	db, err := repository.NewDB(config.Cfg.Database.URL, logger)
	if err != nil {
		slog.Error("Error initializing database", slog.Any("error", err))
		os.Exit(1)
	}
	sqlDB, err := db.DB()
	if err != nil {
		slog.Error("Error getting underlying sql.DB from GORM", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := sqlDB.Close(); err != nil {
			slog.Error("Error closing database connection", slog.Any("error", err))
		} else {
			slog.Info("Database connection closed.")
		}
	}()

	// Reflection cipher. In prod a missing key is a startup failure, never a
	// silent plaintext fallback.
	cipher, err := crypto.New(config.Cfg.Crypto.Keys, config.Cfg.Crypto.ActiveKeyVersion, config.Cfg.IsProd(), logger)
	if err != nil {
		slog.Error("Error initializing reflection cipher", slog.Any("error", err))
		os.Exit(1)
	}

	corpusAdapter, err := corpus.NewStatic()
	if err != nil {
		slog.Error("Error loading content corpus", slog.Any("error", err))
		os.Exit(1)
	}

	providers := buildProviders(logger)
	gate := safety.NewGate()
	mailer := service.NewMailer(&config.Cfg)

	// Dependency Injection
	tplRepo := repository.NewGormTemplateRepository()
	jrnRepo := repository.NewGormJourneyRepository()
	stepRepo := repository.NewGormStepRepository()
	secRepo := repository.NewGormSecurityEventRepository()

	// Plaintext fallback is allowed outside prod, but never silently: the
	// warning goes to the log and the audit trail.
	if !cipher.Enabled() {
		if err := service.RecordCryptoDisabled(context.Background(), db, secRepo, logger); err != nil {
			slog.Error("Error recording crypto-disabled audit event", slog.Any("error", err))
		}
	}

	generator := service.NewContentGenerator(db, stepRepo, secRepo, providers, corpusAdapter, gate)
	journeyService := service.NewJourneyService(db, jrnRepo, tplRepo, stepRepo, cipher, &config.Cfg)
	stepService := service.NewStepService(db, jrnRepo, stepRepo, secRepo, generator, gate, cipher, mailer, config.Cfg.Alerts.To)
	agendaService := service.NewAgendaService(db, jrnRepo, stepRepo, generator, &config.Cfg)

	journeyHandler := handlers.NewJourneyHandler(journeyService)
	stepHandler := handlers.NewStepHandler(stepService)
	agendaHandler := handlers.NewAgendaHandler(agendaService)

	// Router
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.LoggingMiddleware(logger))

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   config.Cfg.CORS.AllowedOrigins,
		AllowedMethods:   config.Cfg.CORS.AllowedMethods,
		AllowedHeaders:   config.Cfg.CORS.AllowedHeaders,
		ExposedHeaders:   config.Cfg.CORS.ExposedHeaders,
		AllowCredentials: config.Cfg.CORS.AllowCredentials,
		MaxAge:           config.Cfg.CORS.MaxAge,
	})
	r.Use(corsHandler.Handler)

	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(60 * time.Second))

	r.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			if config.Cfg.Auth.Enabled {
				slog.Info("Applying JWT authentication middleware")
				r.Use(middleware.JWTAuthMiddleware(&config.Cfg))
			} else {
				slog.Warn("Authentication disabled, identifying users via X-User-ID header")
				r.Use(middleware.DevUserContextMiddleware)
			}

			r.Get("/templates", journeyHandler.ListTemplates)

			r.Route("/journeys", func(r chi.Router) {
				r.Post("/", journeyHandler.StartJourneys)
				r.Get("/", journeyHandler.ListJourneys)

				r.Route("/{journey_id}", func(r chi.Router) {
					r.Post("/pause", journeyHandler.Pause)
					r.Post("/resume", journeyHandler.Resume)
					r.Post("/abandon", journeyHandler.Abandon)
					r.Get("/history", journeyHandler.History)
					r.Get("/steps/{day_index}", stepHandler.GetStep)
					r.Post("/steps/{day_index}/complete", stepHandler.CompleteStep)
				})
			})

			r.Get("/agenda/today", agendaHandler.GetTodayAgenda)
		})
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		if err := sqlDB.PingContext(r.Context()); err != nil {
			slog.ErrorContext(r.Context(), "Health check failed: could not ping DB", slog.Any("error", err))
			http.Error(w, "Health check failed", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	server := &http.Server{
		Addr:         config.Cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		slog.Info("Server listening", slog.String("port", config.Cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Could not listen on port", slog.String("port", config.Cfg.Server.Port), slog.Any("error", err))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		slog.Error("Server forced to shutdown", slog.Any("error", err))
	}

	log.Println("Server exiting")
}

func buildLogger() *slog.Logger {
	logLevel := new(slog.LevelVar)
	switch strings.ToLower(config.Cfg.Log.Level) {
	case "debug":
		logLevel.Set(slog.LevelDebug)
	case "info":
		logLevel.Set(slog.LevelInfo)
	case "warn", "warning":
		logLevel.Set(slog.LevelWarn)
	case "error":
		logLevel.Set(slog.LevelError)
	default:
		logLevel.Set(slog.LevelInfo)
		slog.Warn("Unknown log level specified in config, defaulting to INFO", slog.String("level", config.Cfg.Log.Level))
	}

	var handler slog.Handler
	if config.Cfg.IsProd() {
		handler = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
			Level:     logLevel,
			AddSource: true,
		})
	} else {
		handler = tint.NewHandler(os.Stderr, &tint.Options{
			Level:      logLevel,
			TimeFormat: time.RFC3339,
		})
	}
	return slog.New(handler)
}

// buildProviders turns the configured provider chain into live clients.
// A provider that fails to construct is skipped with a warning; with an
// empty chain every step falls back to the curated corpus content.
func buildProviders(logger *slog.Logger) []llm.Provider {
	timeout := time.Duration(config.Cfg.AI.RequestTimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 20 * time.Second
	}

	providers := make([]llm.Provider, 0, len(config.Cfg.AI.Providers))
	for _, pc := range config.Cfg.AI.Providers {
		p, err := llm.NewOpenAIProvider(pc, timeout, logger)
		if err != nil {
			logger.Warn("Skipping misconfigured AI provider", slog.String("provider", pc.Name), slog.Any("error", err))
			continue
		}
		providers = append(providers, p)
	}
	if len(providers) == 0 {
		logger.Warn("No AI providers configured, all content will use curated fallbacks")
	}
	return providers
}

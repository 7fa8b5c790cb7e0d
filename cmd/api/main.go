package main

import (
	"context"
	_ "embed"
	"errors"
	"log"
	"log/slog"
	nethttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"holidays-app/internal/auth"
	"holidays-app/internal/config"
	"holidays-app/internal/http"
	"holidays-app/internal/llm"
	"holidays-app/internal/relay"
	"holidays-app/internal/service"
	"holidays-app/internal/storage"
)

//go:generate swagger generate spec -o swagger.json

// General API information
//
// This API serves a holiday calendar and relays chat completions from an
// OpenAI-compatible model as plain text, server-sent events or websocket frames.
//
// swagger:meta
//
// ---
// swagger: '2.0'
// info:
//   title: Holidays App API
//   description: |
//     Holiday CRUD plus chat endpoints that stream model output in word-aligned groups.
//   version: 1.0.0
// schemes:
//   - http
//   - https
// consumes:
//   - application/json
// produces:
//   - application/json

//go:embed index.html
var indexHTML string

const shutdownTimeout = 15 * time.Second

func main() {
	// Load configuration first (needed for log level)
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Configure structured logging with configurable level and format
	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}
	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)
	slog.Debug("Logging configured", "level", cfg.LogLevel.String(), "format", cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize database
	db, err := storage.Open(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer func() {
		_ = db.Close()
	}()

	if err := storage.Migrate(ctx, db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	slog.Info("Database initialized", "driver", cfg.DBDriver)

	// Create LLM client (external service layer)
	llmClient := llm.NewClient(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMModelName).
		WithDefaultTemperature(cfg.LLMTemperature).
		WithTimeout(cfg.LLMTimeout)

	chatService := service.NewChatService(llmClient, service.ChatOptions{
		Prompts: cfg.Prompts,
		Timeout: cfg.LLMTimeout,
		Relay: relay.Options{
			FlushThreshold: cfg.RelayFlushThreshold,
			IdleTimeout:    cfg.RelayIdleTimeout,
			FlushOnError:   cfg.RelayFlushOnError,
		},
	})
	holidayService := service.NewHolidayService(storage.NewHolidayRepo(db))

	// Create router with dependencies
	deps := &http.Deps{
		ChatService:    chatService,
		HolidayService: holidayService,
		DB:             db,
		Models:         llmClient,
		AllowedOrigins: cfg.CORSAllowedOrigins,
		IndexHTML:      indexHTML,
	}
	if cfg.AuthEnabled() {
		sessions := auth.NewSessionStore(cfg.SessionTTL)
		go sessions.RunSweeper(ctx, time.Hour)

		github := auth.NewGitHub(cfg.GitHubClientID, cfg.GitHubClientSecret, cfg.GitHubRedirectURL)
		deps.Auth = auth.NewHandler(github, storage.NewUserRepo(db), sessions)
		slog.Info("GitHub login enabled")
	}
	router := http.NewRouter(deps)

	// Start API server
	server := &nethttp.Server{
		Addr:              ":" + cfg.APIPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("Graceful shutdown failed", "error", err)
		}
	}()

	slog.Info("Starting API server", "addr", server.Addr)
	slog.Debug("LLM configuration", "base_url", cfg.LLMBaseURL, "model", cfg.LLMModelName)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
		log.Fatalf("API server failed to start: %v", err)
	}
	slog.Info("API server stopped")
}

package main

import (
	"log"
	"log/slog"
	nethttp "net/http"
	"os"

	"flexone-api/internal/config"
	"flexone-api/internal/http"
	"flexone-api/internal/knowledge"
	"flexone-api/internal/llm"
	"flexone-api/internal/service"
	"flexone-api/internal/storage"
)

const version = "1.0.0"

func main() {
	// Load configuration first (needed for log level). A missing provider
	// credential is a fatal startup error.
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

	// Initialize usage accounting database
	db, err := storage.New(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer func() {
		_ = db.Close()
	}()

	if err := storage.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	slog.Info("Database initialized", "path", cfg.DBPath)
	usageRepo := storage.NewUsageRepo(db)

	// Load the knowledge base. A missing or malformed file degrades to an
	// unloaded store; the service keeps running without knowledge context.
	store := knowledge.NewStore(cfg.KnowledgeBasePath)
	if err := store.Load(); err != nil {
		slog.Warn("Knowledge base not loaded; continuing without it",
			"path", cfg.KnowledgeBasePath, "error", err)
	} else {
		slog.Info("Knowledge base loaded",
			"path", cfg.KnowledgeBasePath, "categories", len(store.CategoryNames()))
	}

	// Create LLM client (external service layer)
	llmClient := llm.NewClient(cfg.OpenAIAPIKey, llm.Options{
		BaseURL: cfg.OpenAIBaseURL,
		Timeout: cfg.RequestTimeout,
	})

	// Create relay service
	relay := service.NewRelayService(llmClient, store, cfg.Model)
	slog.Info("Relay service initialized", "model", cfg.Model, "timeout", cfg.RequestTimeout)

	// Create router with dependencies
	deps := &http.Deps{
		RelayService:   relay,
		KnowledgeStore: store,
		UsageStore:     usageRepo,
		Version:        version,
	}
	router := http.NewRouter(deps)

	// Start API server
	addr := ":" + cfg.APIPort
	slog.Info("Starting API server", "addr", addr)
	if err := nethttp.ListenAndServe(addr, router); err != nil {
		log.Fatalf("API server failed to start: %v", err)
	}
}

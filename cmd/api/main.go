package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dmelikhov/finbuddy/internal/api/handlers"
	"github.com/dmelikhov/finbuddy/internal/api/middleware"
	"github.com/dmelikhov/finbuddy/internal/archive"
	"github.com/dmelikhov/finbuddy/internal/config"
	"github.com/dmelikhov/finbuddy/internal/extract"
	"github.com/dmelikhov/finbuddy/internal/logger"
	"github.com/dmelikhov/finbuddy/internal/store"
	"github.com/dmelikhov/finbuddy/internal/store/inmemory"
)

func main() {
	cfg := config.Load()

	// Initialize logger
	log := logger.New()

	ctx := context.Background()

	// Initialize transaction repository
	var repo store.TransactionRepository
	if cfg.ProjectID != "" {
		bqRepo, err := store.NewBigQueryRepository(ctx, cfg.ProjectID, cfg.Dataset)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create transaction repository")
		}
		repo = bqRepo
		log.Info().Str("project", cfg.ProjectID).Str("dataset", cfg.Dataset).Msg("Using BigQuery transaction store")
	} else {
		repo = inmemory.NewStore()
		log.Warn().Msg("No GCP project configured - using in-memory transaction store")
	}
	defer repo.Close()

	// Initialize model gateway
	var gen extract.Generator
	if cfg.GeminiAPIKey != "" {
		gw, err := extract.NewGeminiGateway(ctx, cfg.Model)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create model gateway")
		}
		gen = gw
	} else {
		log.Warn().Msg("No Gemini API key configured - extraction will rely on text fallback only")
	}

	svc := extract.NewService(gen, log)

	arc := archive.New(cfg.Bucket)
	if !arc.Enabled() {
		log.Warn().Msg("No GCS bucket configured - uploaded documents will not be archived")
	}

	// Initialize handlers
	extractionsHandler := handlers.NewExtractionsHandler(svc, arc, log)
	transactionsHandler := handlers.NewTransactionsHandler(repo, log)
	chatHandler := handlers.NewChatHandler(svc, repo)

	// Create router
	mux := http.NewServeMux()

	// Extraction endpoints
	mux.HandleFunc("/api/receipts/extract", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			extractionsHandler.ExtractReceipt(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/statements/extract", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			extractionsHandler.ExtractStatement(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	// Transactions endpoints
	mux.HandleFunc("/api/transactions", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			transactionsHandler.ListTransactions(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/transactions/bulk", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			transactionsHandler.BulkCreate(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/summary", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			transactionsHandler.Summary(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	// Chat endpoint
	mux.HandleFunc("/api/chat", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			chatHandler.Chat(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	// Health check endpoint
	mux.HandleFunc("/api/health", func(w http.ResponseWriter, r *http.Request) {
		middleware.WriteJSON(w, http.StatusOK, map[string]string{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// Apply middleware
	handler := middleware.Recovery(log)(
		middleware.Logger(log)(
			middleware.RequestID(log)(
				middleware.CORS(mux),
			),
		),
	)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting API server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}

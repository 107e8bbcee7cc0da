package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	firebase "firebase.google.com/go/v4"
	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"google.golang.org/api/option"

	"github.com/notexhq/notex-backend/internal/api"
	"github.com/notexhq/notex-backend/internal/auth"
	"github.com/notexhq/notex-backend/internal/config"
	"github.com/notexhq/notex-backend/internal/core"
	"github.com/notexhq/notex-backend/internal/extract"
	"github.com/notexhq/notex-backend/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer logger.Sync()

	ctx := context.Background()

	// Firebase is optional at startup: without credentials the service still
	// serves the stateless summarization and chat routes, with persistence
	// and auth disabled.
	verifier, chats := initFirebase(ctx, cfg, logger)

	genAI, err := genai.NewClient(ctx, option.WithAPIKey(cfg.GoogleAPIKey))
	if err != nil {
		logger.Fatal("failed to create GenAI client", zap.Error(err))
	}
	defer genAI.Close()

	generator := core.NewGenerator(genAI, cfg.GeminiModel, logger)
	transcripts := extract.NewTranscriptClient(logger)

	handler := api.NewAPIHandler(verifier, generator, transcripts, extract.Document,
		chats, cfg.MaxUploadBytes, cfg.GoogleAPIKey != "", logger)
	router := api.NewRouter(handler, logger)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second, // transcript fetch plus generation can be slow
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info("starting server", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("server forced to shutdown", zap.Error(err))
	}
	logger.Info("server exited gracefully")
}

// initFirebase builds the token verifier and chat store. Both are nil when
// initialization fails, which the handlers treat as the degraded mode.
func initFirebase(ctx context.Context, cfg *config.Config, logger *zap.Logger) (api.TokenVerifier, api.ChatStore) {
	if _, err := os.Stat(cfg.FirebaseCredentials); err != nil {
		logger.Warn("firebase credentials not found, chat persistence disabled",
			zap.String("path", cfg.FirebaseCredentials))
		return nil, nil
	}

	app, err := firebase.NewApp(ctx,
		&firebase.Config{DatabaseURL: cfg.FirebaseDatabaseURL},
		option.WithCredentialsFile(cfg.FirebaseCredentials))
	if err != nil {
		logger.Error("firebase initialization failed", zap.Error(err))
		return nil, nil
	}

	authClient, err := app.Auth(ctx)
	if err != nil {
		logger.Error("firebase auth client failed", zap.Error(err))
		return nil, nil
	}

	dbClient, err := app.Database(ctx)
	if err != nil {
		logger.Error("firebase database client failed", zap.Error(err))
		return nil, nil
	}

	logger.Info("firebase initialized", zap.String("database_url", cfg.FirebaseDatabaseURL))
	return auth.NewVerifier(authClient, logger), store.NewFirebaseStore(dbClient, logger)
}

func newLogger(level string) (*zap.Logger, error) {
	zcfg := zap.NewProductionConfig()
	if lvl, err := zapcore.ParseLevel(strings.ToLower(level)); err == nil {
		zcfg.Level = zap.NewAtomicLevelAt(lvl)
	}
	return zcfg.Build()
}

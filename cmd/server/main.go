package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"vark-assistant/internal/config"
	"vark-assistant/internal/database"
	"vark-assistant/internal/handlers"
	"vark-assistant/internal/logging"
	"vark-assistant/internal/middleware"
	"vark-assistant/internal/router"
	"vark-assistant/internal/services"
	"vark-assistant/internal/websocket"
)

func main() {
	// ──── Step 1: Load Environment Variables ────
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("✗ Configuration invalid: %v", err)
	}

	// ──── Step 2: Initialize Logger ────
	logger, err := logging.New(cfg.Logging)
	if err != nil {
		log.Fatalf("✗ Logger initialization failed: %v", err)
	}
	defer logger.Sync()

	logger.Info("🚀 Starting Learning Style Assistant...", zap.String("env", cfg.Env))
	if cfg.GeneratedSecret {
		logger.Warn("SESSION_SECRET not set; using a per-process secret, sessions will not survive a restart")
	}

	// ──── Step 3: Initialize Session Store ────
	var (
		store        services.SessionStore
		pubsubClient *redis.Client
	)
	switch cfg.SessionStore {
	case config.StoreRedis:
		connectCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		redisClients, err := database.NewRedisClients(connectCtx, cfg.RedisURL)
		cancel()
		if err != nil {
			logger.Fatal("✗ Redis connection failed", zap.Error(err))
		}
		defer redisClients.Close()
		store = services.NewRedisSessionStore(redisClients.Sessions, cfg.SessionTTL)
		pubsubClient = redisClients.PubSub
		logger.Info("✓ Redis session store connected")
	default:
		store = services.NewMemorySessionStore()
		logger.Info("✓ In-memory session store ready")
	}

	// ──── Step 4: Initialize Inference Backend ────
	ctx := context.Background()
	qaClient, closeQA, err := services.NewQAClient(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("✗ Inference backend initialization failed", zap.Error(err))
	}
	defer closeQA()
	logger.Info("✓ Inference backend ready", zap.String("provider", cfg.InferenceProvider))

	// ──── Initialize Services ────
	answerService := services.NewAnswerService(qaClient, logger)
	conversationService := services.NewConversationService(answerService, cfg.AnswerDelay, logger)
	chatService := services.NewChatService(conversationService, store, logger)
	guideService := services.NewGuideService()

	sessionAuth := middleware.NewSessionAuth(cfg.SessionSecret, cfg.SessionTTL, !cfg.IsDevelopment(), logger)
	chatLimiter := middleware.NewRateLimiter(cfg.RateLimitPerMinute, time.Minute)
	defer chatLimiter.Stop()

	// ──── Initialize Handlers ────
	pageHandler := handlers.NewPageHandler(logger)
	chatHandler := handlers.NewChatHandler(chatService, logger)
	guideHandler := handlers.NewGuideHandler(guideService)

	// ──── Step 5: Start WebSocket Hub ────
	wsHub := websocket.NewHub(chatService, pubsubClient, chatLimiter, logger)
	logger.Info("✓ WebSocket hub started")

	// ──── Step 6: Start HTTP Server ────
	r := router.New(logger, sessionAuth, chatLimiter, pageHandler, chatHandler, guideHandler, wsHub)

	// No WriteTimeout: a chat turn includes the pacing delay plus model latency.
	server := &http.Server{
		Addr:        fmt.Sprintf(":%s", cfg.Port),
		Handler:     r,
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		logger.Info("Shutting down...")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		server.Shutdown(ctx)
	}()

	logger.Info(fmt.Sprintf("✓ Learning Style Assistant ready on http://localhost:%s", cfg.Port))
	logger.Info(fmt.Sprintf("  API: http://localhost:%s/api/v1", cfg.Port))
	logger.Info(fmt.Sprintf("  WS:  ws://localhost:%s/api/v1/ws", cfg.Port))

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		logger.Fatal("Server error", zap.Error(err))
	}
}

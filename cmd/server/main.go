package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"

	"nexus-backend/internal/config"
	"nexus-backend/internal/content"
	"nexus-backend/internal/database"
	"nexus-backend/internal/handlers"
	"nexus-backend/internal/middleware"
	"nexus-backend/internal/repository"
	"nexus-backend/internal/router"
	"nexus-backend/internal/services"
	"nexus-backend/internal/websocket"
	"nexus-backend/internal/worker"
	"nexus-backend/migrations"
)

func main() {
	log.Info("🚀 Starting Nexus Backend...")

	// ──── Step 1: Load Environment Variables ────
	cfg := config.Load()
	if level, err := log.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(level)
	} else {
		log.WithField("level", cfg.LogLevel).Warn("Unknown LOG_LEVEL, keeping info")
	}
	if cfg.Env == "production" {
		log.SetFormatter(&log.JSONFormatter{})
	}
	log.Info("✓ Environment variables loaded")

	// ──── Step 2: Initialize PostgreSQL Connection Pool ────
	pool, err := database.NewPostgresPool(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("✗ PostgreSQL connection failed: %v", err)
	}
	defer pool.Close()
	log.Info("✓ PostgreSQL connected")

	// ──── Step 3: Initialize Redis Clients ────
	redisClients, err := database.NewRedisClients(cfg.RedisURL)
	if err != nil {
		log.Fatalf("✗ Redis connection failed: %v", err)
	}
	defer redisClients.Close()
	log.Info("✓ Redis connected")

	// ──── Step 4: Run Database Migrations ────
	if err := database.RunMigrations(pool, migrations.FS); err != nil {
		log.Fatalf("✗ Database migration failed: %v", err)
	}
	log.Info("✓ Database migrations applied")

	// ──── Step 5: Load Site Content ────
	site, err := content.Load()
	if err != nil {
		log.Fatalf("✗ Site content invalid: %v", err)
	}
	log.Info("✓ Site content loaded")

	// ──── Initialize Repositories ────
	inquiryRepo := repository.NewInquiryRepo(pool)
	consentRepo := repository.NewConsentRepo(redisClients.Data)

	// ──── Step 6: Initialize Strategist Chat ────
	if cfg.Advisor.GeminiAPIKey == "" {
		log.Warn("⚠ GEMINI_API_KEY not set, the strategist will answer with the fallback message")
	}
	advisorCfg := services.NewAdvisorConfig(cfg.Advisor.Model, cfg.Advisor.Temperature, cfg.Advisor.Timeout)
	publisher := services.NewEventPublisher(redisClients.Data)
	registry := services.NewSessionRegistry(
		services.NewGeminiOpener(cfg.Advisor.GeminiAPIKey),
		advisorCfg,
		publisher,
		cfg.SessionTTL,
	)
	registry.Start()
	log.WithFields(log.Fields{
		"model":       advisorCfg.Model,
		"session_ttl": cfg.SessionTTL,
	}).Info("✓ Strategist chat ready")

	// ──── Initialize Services ────
	jwtAuth := middleware.NewJWTAuth(cfg.JWTSecret)
	adminAuth := middleware.NewAdminAuth(cfg.AdminUser, cfg.AdminPasswordHash)
	if cfg.AdminPasswordHash == "" {
		log.Warn("⚠ ADMIN_PASSWORD_HASH not set, admin routes are disabled")
	}
	emailService := services.NewEmailService(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPFrom)
	mailQueue := worker.NewMailQueue(redisClients.Data)
	inquiryService := services.NewInquiryService(inquiryRepo, mailQueue, cfg.TeamInbox)

	// ──── Initialize Handlers ────
	contentHandler := handlers.NewContentHandler(site)
	chatHandler := handlers.NewChatHandler(registry, jwtAuth)
	consentHandler := handlers.NewConsentHandler(consentRepo)
	inquiryHandler := handlers.NewInquiryHandler(inquiryService)

	// ──── Step 7: Start Mail Worker Pool ────
	workerPool := worker.NewPool(redisClients.Data, emailService, 2)
	workerPool.Start()
	log.Info("✓ Mail worker pool started (2 goroutines)")

	// ──── Step 8: Start WebSocket Hub ────
	wsHub := websocket.NewHub(redisClients.PubSub, jwtAuth, cfg.FrontendURL)
	log.Info("✓ WebSocket hub started")

	// ──── Step 9: Start HTTP Server ────
	limiters := router.NewLimiters()
	r := router.New(
		jwtAuth,
		adminAuth,
		limiters,
		contentHandler,
		chatHandler,
		consentHandler,
		inquiryHandler,
		wsHub,
		cfg.FrontendURL,
	)

	// WriteTimeout has to outlast one advice round trip.
	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: advisorCfg.Timeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	shutdownDone := make(chan struct{})
	go func() {
		defer close(shutdownDone)

		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Info("Shutting down...")
		registry.Stop()
		workerPool.Stop()
		limiters.Stop()

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		server.Shutdown(ctx)

		wsHub.Close()
		registry.CloseAll()
	}()

	log.Infof("✓ Nexus Backend ready on http://localhost:%s", cfg.Port)
	log.Infof("  API: http://localhost:%s/api/v1", cfg.Port)
	log.Infof("  WS:  ws://localhost:%s/api/v1/ws", cfg.Port)

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("Server error: %v", err)
	}
	<-shutdownDone
}

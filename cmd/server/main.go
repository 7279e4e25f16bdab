// Package main is the entry point for the RailSahayak complaint server.
// It accepts complaint submissions, answers them with a tracking ID, and
// hosts the chat assistant sessions used by the front end.
//
// Architecture:
//   - Intake is stateless: submissions are validated, acknowledged and echoed,
//     never stored
//   - Tracking IDs are "RC" + acceptance time in epoch milliseconds
//   - Assistant sessions live in memory and expire when idle
//   - Rate limit counters are in memory, or in Redis when REDIS_URL is set
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/railsahayak/complaint-server/internal/config"
	"github.com/railsahayak/complaint-server/internal/handlers"
	"github.com/railsahayak/complaint-server/internal/metrics"
	"github.com/railsahayak/complaint-server/internal/ratelimit"
	"github.com/railsahayak/complaint-server/internal/services"
	"go.uber.org/zap"
)

func main() {
	// Load configuration from environment
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize structured logger
	var logger *zap.Logger
	if cfg.IsProduction() {
		logger, _ = zap.NewProduction()
	} else {
		logger, _ = zap.NewDevelopment()
	}
	defer logger.Sync()
	sugar := logger.Sugar()

	sugar.Infow("Starting RailSahayak complaint server",
		"port", cfg.Port,
		"env", cfg.Environment,
		"reply_delay", cfg.ReplyDelay,
	)

	metrics.Init()

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	// Rate limiting backend
	var (
		limiter ratelimit.Limiter
		pinger  handlers.Pinger
	)
	if cfg.RateLimitRPM > 0 {
		if cfg.RedisURL != "" {
			rl, err := ratelimit.NewRedis(ctx, cfg.RedisURL, cfg.RateLimitRPM, time.Minute)
			if err != nil {
				sugar.Fatalf("Failed to connect to redis: %v", err)
			}
			defer rl.Close()
			limiter, pinger = rl, rl
		} else {
			mem := ratelimit.NewMemory(cfg.RateLimitRPM, time.Minute)
			go mem.StartSweeper(ctx, 5*time.Minute)
			limiter = mem
		}
	}

	// Initialize services
	intakeSvc := services.NewIntakeService(services.NewTrackingMinter(), sugar)
	sessions := services.NewSessionStore(cfg.ReplyDelay, cfg.MaxSessions, sugar)
	janitor := services.NewSessionJanitor(sessions, cfg.SessionTTL, sugar)

	// Start background session janitor
	go janitor.Start(ctx, time.Minute)

	router := handlers.NewRouter(handlers.RouterConfig{
		Complaints:     handlers.NewComplaintHandler(intakeSvc, sugar),
		Assistant:      handlers.NewAssistantHandler(sessions, sugar),
		Health:         handlers.NewHealthHandler(pinger, sessions, sugar),
		Limiter:        limiter,
		AllowedOrigins: cfg.AllowedOrigins,
		MaxBodyBytes:   cfg.MaxBodyBytes,
		StaticDir:      cfg.StaticDir,
		Logger:         logger,
	})

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sugar.Infof("Server listening on :%d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			sugar.Fatalf("Server error: %v", err)
		}
	}()

	<-done
	sugar.Info("Shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		sugar.Errorf("Forced shutdown: %v", err)
	}

	stop()
	sessions.CloseAll()
	sugar.Info("Server stopped")
}

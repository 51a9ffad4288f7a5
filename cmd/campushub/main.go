package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/campushub/campushub/internal/assistant"
	"github.com/campushub/campushub/internal/backup"
	"github.com/campushub/campushub/internal/database"
	"github.com/campushub/campushub/internal/email"
	"github.com/campushub/campushub/internal/logging"
	"github.com/campushub/campushub/internal/push"
	"github.com/campushub/campushub/internal/server"
)

func main() {
	logger := logging.Setup(os.Getenv("CAMPUSHUB_LOG_LEVEL"))

	port := os.Getenv("CAMPUSHUB_PORT")
	if port == "" {
		port = "8080"
	}

	dbPath := os.Getenv("CAMPUSHUB_DB_PATH")
	if dbPath == "" {
		dbPath = "campushub.db"
	}

	tokenSecret := os.Getenv("CAMPUSHUB_TOKEN_SECRET")
	if tokenSecret == "" {
		logger.Warn("CAMPUSHUB_TOKEN_SECRET not set, bearer tokens will not survive restarts")
		tokenSecret = "dev-only-secret"
	}

	db, err := database.Open(dbPath)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	cfg := server.Config{
		TokenSecret: tokenSecret,
		Assistant: assistant.Config{
			APIKey:  os.Getenv("CAMPUSHUB_ASSISTANT_API_KEY"),
			BaseURL: os.Getenv("CAMPUSHUB_ASSISTANT_BASE_URL"),
			Model:   os.Getenv("CAMPUSHUB_ASSISTANT_MODEL"),
		},
		Backup: backup.Config{
			S3: backup.S3Config{
				Endpoint:  os.Getenv("CAMPUSHUB_S3_ENDPOINT"),
				Bucket:    os.Getenv("CAMPUSHUB_S3_BUCKET"),
				Region:    os.Getenv("CAMPUSHUB_S3_REGION"),
				AccessKey: os.Getenv("CAMPUSHUB_S3_ACCESS_KEY"),
				SecretKey: os.Getenv("CAMPUSHUB_S3_SECRET_KEY"),
			},
			DBPath: dbPath,
		},
		Push: push.Config{
			VAPIDPublicKey:  os.Getenv("CAMPUSHUB_VAPID_PUBLIC_KEY"),
			VAPIDPrivateKey: os.Getenv("CAMPUSHUB_VAPID_PRIVATE_KEY"),
		},
		Email: email.NewClient(
			os.Getenv("CAMPUSHUB_POSTMARK_TOKEN"),
			os.Getenv("CAMPUSHUB_FROM_EMAIL"),
			os.Getenv("CAMPUSHUB_FEEDBACK_EMAIL"),
		),
	}

	srv := server.New(db, cfg, logger)

	httpServer := &http.Server{
		Addr:              ":" + port,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	bgCtx, bgCancel := context.WithCancel(context.Background())
	defer bgCancel()

	srv.BackupManager().Start(bgCtx)
	defer srv.BackupManager().Stop()

	if sched := srv.PushScheduler(); sched != nil {
		sched.Start(bgCtx)
		defer sched.Stop()
	}

	// Background cleanup goroutine
	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if n, err := srv.SessionStore().DeleteExpired(); err != nil {
					slog.Error("cleanup expired sessions", "error", err)
				} else if n > 0 {
					slog.Info("cleaned up expired sessions", "count", n)
				}
				srv.RateLimiter().Cleanup()
			case <-bgCtx.Done():
				return
			}
		}
	}()

	go func() {
		slog.Info("campus hub starting", "addr", ":"+port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down")
	bgCancel()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		slog.Error("shutdown error", "error", err)
		os.Exit(1)
	}
}

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kiwari-pos/ordering/internal/config"
	"github.com/kiwari-pos/ordering/internal/database"
	"github.com/kiwari-pos/ordering/internal/menu"
	"github.com/kiwari-pos/ordering/internal/notify"
	"github.com/kiwari-pos/ordering/internal/router"
	"github.com/kiwari-pos/ordering/internal/ws"
	"github.com/sirupsen/logrus"
)

func main() {
	cfg := config.Load()
	log := newLogger(cfg)

	if err := run(cfg, log); err != nil {
		log.WithError(err).Fatal("server stopped")
	}
}

func newLogger(cfg *config.Config) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stdout)
	if cfg.LogFormat == "json" {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.WithField("level", cfg.LogLevel).Warn("unknown log level, using info")
		level = logrus.InfoLevel
	}
	log.SetLevel(level)
	return log
}

func run(cfg *config.Config, log *logrus.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.AutoMigrate {
		if err := database.Migrate(cfg.DatabaseURL); err != nil {
			return err
		}
		log.Info("migrations applied")
	}

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}
	log.Info("connected to database")

	hub := ws.NewHub(log)
	go hub.Run(ctx)

	var notifier menu.Notifier
	if cfg.Notify.TelegramToken != "" {
		tg, err := notify.NewTelegram(cfg.Notify.TelegramToken, cfg.Notify.TelegramChatID, log)
		if err != nil {
			// Staff notification is optional; orders still go through without it.
			log.WithError(err).Warn("telegram notifier disabled")
		} else {
			notifier = tg
		}
	}

	r := router.New(ctx, cfg, database.New(pool), pool, hub, notifier, log)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.WithField("port", cfg.Port).Info("starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

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

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/slot-scheduler/internal/audit"
	"github.com/BruksfildServices01/slot-scheduler/internal/config"
	dbpkg "github.com/BruksfildServices01/slot-scheduler/internal/db"
	"github.com/BruksfildServices01/slot-scheduler/internal/domain/booking"
	"github.com/BruksfildServices01/slot-scheduler/internal/infra/calendar"
	"github.com/BruksfildServices01/slot-scheduler/internal/infra/notify"
	"github.com/BruksfildServices01/slot-scheduler/internal/logger"
	"github.com/BruksfildServices01/slot-scheduler/internal/routes"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			log, err := logger.New(cfg.IsProduction(), cfg.LogLevel)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			return serve(cmd.Context(), cfg, log)
		},
	}
}

func serve(ctx context.Context, cfg *config.Config, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	cal, err := newCalendar(ctx, cfg, log)
	if err != nil {
		return err
	}

	// ------------------------------
	// audit trail
	// ------------------------------
	var (
		db          *gorm.DB
		auditWriter audit.Writer = audit.NewLogWriter(log)
	)
	if cfg.DBUrl != "" {
		db, err = dbpkg.NewDB(cfg.DBUrl)
		if err != nil {
			return err
		}
		defer func() { _ = dbpkg.Close(db) }()
		auditWriter = audit.New(db)
	} else {
		log.Info("DATABASE_URL not set, audit events go to the log only")
	}

	dispatcher := audit.NewDispatcher(auditWriter, log)
	defer dispatcher.Close()

	rdb := newRedis(ctx, cfg, log)
	if rdb != nil {
		defer func() { _ = rdb.Close() }()
	}

	var notifier booking.Notifier = notify.NewLogNotifier(log)
	if cfg.SMTPEnabled() {
		notifier = notify.NewSMTPNotifier(notify.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			User:     cfg.SMTPUser,
			Password: cfg.SMTPPassword,
			ReplyTo:  cfg.BusinessEmail,
		}, cfg.Location(), log)
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())

	routes.RegisterRoutes(r, cfg, routes.Deps{
		Calendar: cal,
		Notifier: notifier,
		Audit:    dispatcher,
		DB:       db,
		Redis:    rdb,
		Logger:   log,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server running",
			zap.String("addr", cfg.Addr()),
			zap.String("calendar", cfg.CalendarSource),
			zap.String("timezone", cfg.BusinessTimezone),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}

// newCalendar picks the busy source once for the life of the process.
func newCalendar(ctx context.Context, cfg *config.Config, log *zap.Logger) (routes.Calendar, error) {
	switch cfg.CalendarSource {
	case config.SourceMock:
		log.Warn("using the seeded mock calendar", zap.Int64("seed", cfg.MockSeed))
		return calendar.NewMockCalendar(cfg.MockSeed, cfg.Location(), cfg.Rules().BusinessHours), nil
	default:
		cal, err := calendar.NewGoogleCalendar(
			// the token source outlives this call, so it must not inherit a
			// cancelled command context
			context.WithoutCancel(ctx),
			cfg.GoogleCredentials(),
			cfg.BusinessTimezone,
			cfg.CalendarTimeout,
			log,
		)
		if err != nil {
			return nil, err
		}
		return cal, nil
	}
}

// newRedis returns nil when Redis is not configured or unreachable; the
// in-memory limiter takes over then.
func newRedis(ctx context.Context, cfg *config.Config, log *zap.Logger) *redis.Client {
	if cfg.RedisAddr == "" {
		return nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if err := rdb.Ping(pingCtx).Err(); err != nil {
		log.Warn("redis unreachable, falling back to in-memory rate limiting", zap.Error(err))
		_ = rdb.Close()
		return nil
	}
	return rdb
}

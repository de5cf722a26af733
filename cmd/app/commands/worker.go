package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/contractflow/contractflow/internal/app"
	"github.com/contractflow/contractflow/internal/config"
)

// RunWorker starts the notification delivery workers and the reminder cron
// scheduler, blocking until SIGINT/SIGTERM.
func RunWorker(ctx context.Context) error {
	cfg := config.Load()

	container := app.NewContainer(cfg)

	logger := container.Logger()
	logger.Info("starting delivery worker", slog.Int("worker_count", cfg.WorkerCount))

	defer closeContainer(container, logger)

	worker, err := container.WorkerUseCase()
	if err != nil {
		return fmt.Errorf("failed to initialize worker use case: %w", err)
	}

	cronRunner, err := container.CronRunner()
	if err != nil {
		return fmt.Errorf("failed to initialize cron runner: %w", err)
	}

	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := cronRunner.Start(ctx); err != nil {
		return fmt.Errorf("failed to start cron runner: %w", err)
	}

	go container.RateLimiter().StartCleanup(ctx, time.Hour)

	if err := worker.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("worker error: %w", err)
	}

	return nil
}

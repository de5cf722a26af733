package commands

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/contractflow/contractflow/internal/app"
	"github.com/contractflow/contractflow/internal/config"
)

// RunPause suspends notification dispatch until the given RFC 3339 deadline.
func RunPause(ctx context.Context, until string) error {
	deadline, err := time.Parse(time.RFC3339, until)
	if err != nil {
		return fmt.Errorf("invalid pause deadline %q (expected RFC 3339): %w", until, err)
	}

	cfg := config.Load()

	container := app.NewContainer(cfg)
	logger := container.Logger()

	defer closeContainer(container, logger)

	settings, err := container.SettingsUseCase()
	if err != nil {
		return fmt.Errorf("failed to initialize settings use case: %w", err)
	}

	if err := settings.PauseNotifications(ctx, deadline); err != nil {
		return fmt.Errorf("failed to pause notifications: %w", err)
	}

	logger.Info("notifications paused", slog.Time("until", deadline))
	return nil
}

// RunResume resumes notification dispatch.
func RunResume(ctx context.Context) error {
	cfg := config.Load()

	container := app.NewContainer(cfg)
	logger := container.Logger()

	defer closeContainer(container, logger)

	settings, err := container.SettingsUseCase()
	if err != nil {
		return fmt.Errorf("failed to initialize settings use case: %w", err)
	}

	if err := settings.ResumeNotifications(ctx); err != nil {
		return fmt.Errorf("failed to resume notifications: %w", err)
	}

	logger.Info("notifications resumed")
	return nil
}

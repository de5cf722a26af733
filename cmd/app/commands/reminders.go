package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/contractflow/contractflow/internal/app"
	"github.com/contractflow/contractflow/internal/config"
)

// RunRemindAll runs one reminder pass over every contract pending signature
// and prints how many reminders were dispatched.
func RunRemindAll(ctx context.Context) error {
	cfg := config.Load()

	container := app.NewContainer(cfg)
	logger := container.Logger()

	defer closeContainer(container, logger)

	scheduler, err := container.SchedulerUseCase()
	if err != nil {
		return fmt.Errorf("failed to initialize scheduler use case: %w", err)
	}

	created, err := scheduler.ProcessAll(ctx)
	if err != nil {
		return fmt.Errorf("reminder pass failed: %w", err)
	}

	logger.Info("reminder pass finished", slog.Int("created", created))
	return nil
}

// RunRemindContract evaluates the reminder policy for a single contract.
func RunRemindContract(ctx context.Context, id string) error {
	contractID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid contract id %q: %w", id, err)
	}

	cfg := config.Load()

	container := app.NewContainer(cfg)
	logger := container.Logger()

	defer closeContainer(container, logger)

	scheduler, err := container.SchedulerUseCase()
	if err != nil {
		return fmt.Errorf("failed to initialize scheduler use case: %w", err)
	}

	dispatched, err := scheduler.ProcessContract(ctx, contractID)
	if err != nil {
		return fmt.Errorf("reminder evaluation failed: %w", err)
	}

	logger.Info("reminder evaluation finished",
		slog.String("contract_id", contractID.String()),
		slog.Bool("dispatched", dispatched),
	)
	return nil
}

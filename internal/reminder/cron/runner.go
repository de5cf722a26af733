// Package cron runs the reminder policy on the business-day schedule.
package cron

import (
	"context"
	"log/slog"

	"github.com/robfig/cron/v3"

	reminderUseCase "github.com/contractflow/contractflow/internal/reminder/usecase"
)

// Runner triggers scheduled reminder runs.
type Runner struct {
	schedulerUseCase reminderUseCase.UseCase
	spec             string
	logger           *slog.Logger
	cron             *cron.Cron
}

// NewRunner creates a new Runner with the given cron spec, e.g.
// "0 9 * * 1-5" for 09:00 on business days.
func NewRunner(scheduler reminderUseCase.UseCase, spec string, logger *slog.Logger) *Runner {
	return &Runner{
		schedulerUseCase: scheduler,
		spec:             spec,
		logger:           logger,
		cron:             cron.New(),
	}
}

// Start registers the schedule and starts the cron loop.
func (r *Runner) Start(ctx context.Context) error {
	_, err := r.cron.AddFunc(r.spec, func() {
		created, err := r.schedulerUseCase.ProcessAll(ctx)
		if err != nil {
			r.logger.ErrorContext(ctx, "scheduled reminder run failed", slog.Any("error", err))
			return
		}
		r.logger.InfoContext(ctx, "scheduled reminder run completed", slog.Int("created", created))
	})
	if err != nil {
		return err
	}

	r.cron.Start()
	r.logger.InfoContext(ctx, "reminder schedule started", slog.String("spec", r.spec))
	return nil
}

// Stop halts the cron loop and waits for a running job to finish.
func (r *Runner) Stop() {
	stopCtx := r.cron.Stop()
	<-stopCtx.Done()
}

// Package usecase implements the operational settings service. Its main
// client is the notification dispatcher, which consults the pause flag
// before creating reminders.
package usecase

import (
	"context"
	"time"

	"github.com/contractflow/contractflow/internal/settings/domain"

	apperrors "github.com/contractflow/contractflow/internal/errors"
)

// UseCase defines the interface for operational settings.
type UseCase interface {
	PauseNotifications(ctx context.Context, until time.Time) error
	ResumeNotifications(ctx context.Context) error
	NotificationsPausedAt(ctx context.Context, now time.Time) (bool, error)
}

// SettingsRepository defines settings persistence operations.
type SettingsRepository interface {
	Upsert(ctx context.Context, setting *domain.Setting) error
	Get(ctx context.Context, key string) (*domain.Setting, error)
	Delete(ctx context.Context, key string) error
}

// SettingsUseCase handles operational settings business logic.
type SettingsUseCase struct {
	settingsRepo SettingsRepository
}

// NewSettingsUseCase creates a new SettingsUseCase.
func NewSettingsUseCase(settingsRepo SettingsRepository) *SettingsUseCase {
	return &SettingsUseCase{
		settingsRepo: settingsRepo,
	}
}

// PauseNotifications suspends notification dispatch until the given time.
func (uc *SettingsUseCase) PauseNotifications(ctx context.Context, until time.Time) error {
	if !until.After(time.Now().UTC()) {
		return apperrors.Wrap(apperrors.ErrInvalidInput, "pause deadline must be in the future")
	}

	setting := &domain.Setting{
		Key:   domain.KeyNotificationsPausedUntil,
		Value: until.UTC().Format(time.RFC3339Nano),
	}
	return uc.settingsRepo.Upsert(ctx, setting)
}

// ResumeNotifications lifts a notification pause. Resuming when no pause is
// active is a no-op.
func (uc *SettingsUseCase) ResumeNotifications(ctx context.Context) error {
	err := uc.settingsRepo.Delete(ctx, domain.KeyNotificationsPausedUntil)
	if err != nil && !apperrors.Is(err, apperrors.ErrNotFound) {
		return err
	}
	return nil
}

// NotificationsPausedAt reports whether notification dispatch is suspended
// at the given instant. An expired pause row reads as not paused.
func (uc *SettingsUseCase) NotificationsPausedAt(
	ctx context.Context,
	now time.Time,
) (bool, error) {
	setting, err := uc.settingsRepo.Get(ctx, domain.KeyNotificationsPausedUntil)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			return false, nil
		}
		return false, err
	}

	until, err := time.Parse(time.RFC3339Nano, setting.Value)
	if err != nil {
		return false, apperrors.Wrap(err, "failed to parse pause deadline")
	}

	return now.Before(until), nil
}

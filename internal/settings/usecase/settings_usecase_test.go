package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "github.com/contractflow/contractflow/internal/errors"
	"github.com/contractflow/contractflow/internal/settings/domain"
)

// MockSettingsRepository is a mock implementation of SettingsRepository.
type MockSettingsRepository struct {
	mock.Mock
}

func (m *MockSettingsRepository) Upsert(ctx context.Context, setting *domain.Setting) error {
	args := m.Called(ctx, setting)
	return args.Error(0)
}

func (m *MockSettingsRepository) Get(ctx context.Context, key string) (*domain.Setting, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Setting), args.Error(1)
}

func (m *MockSettingsRepository) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func TestSettingsUseCase_PauseNotifications(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		repo := new(MockSettingsRepository)
		uc := NewSettingsUseCase(repo)

		until := time.Now().UTC().Add(2 * time.Hour)

		repo.On("Upsert", mock.Anything, mock.MatchedBy(func(s *domain.Setting) bool {
			return s.Key == domain.KeyNotificationsPausedUntil &&
				s.Value == until.Format(time.RFC3339Nano)
		})).Return(nil).Once()

		err := uc.PauseNotifications(context.Background(), until)
		assert.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("Error_DeadlineInPast", func(t *testing.T) {
		repo := new(MockSettingsRepository)
		uc := NewSettingsUseCase(repo)

		err := uc.PauseNotifications(context.Background(), time.Now().UTC().Add(-time.Minute))
		assert.True(t, apperrors.Is(err, apperrors.ErrInvalidInput))
		repo.AssertNotCalled(t, "Upsert")
	})
}

func TestSettingsUseCase_ResumeNotifications(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		repo := new(MockSettingsRepository)
		uc := NewSettingsUseCase(repo)

		repo.On("Delete", mock.Anything, domain.KeyNotificationsPausedUntil).Return(nil).Once()

		err := uc.ResumeNotifications(context.Background())
		assert.NoError(t, err)
	})

	t.Run("Success_NoActivePause", func(t *testing.T) {
		repo := new(MockSettingsRepository)
		uc := NewSettingsUseCase(repo)

		repo.On("Delete", mock.Anything, domain.KeyNotificationsPausedUntil).
			Return(domain.ErrSettingNotFound).Once()

		err := uc.ResumeNotifications(context.Background())
		assert.NoError(t, err)
	})
}

func TestSettingsUseCase_NotificationsPausedAt(t *testing.T) {
	now := time.Now().UTC()

	t.Run("Paused", func(t *testing.T) {
		repo := new(MockSettingsRepository)
		uc := NewSettingsUseCase(repo)

		repo.On("Get", mock.Anything, domain.KeyNotificationsPausedUntil).
			Return(&domain.Setting{
				Key:   domain.KeyNotificationsPausedUntil,
				Value: now.Add(time.Hour).Format(time.RFC3339Nano),
			}, nil).Once()

		paused, err := uc.NotificationsPausedAt(context.Background(), now)
		require.NoError(t, err)
		assert.True(t, paused)
	})

	t.Run("PauseExpired", func(t *testing.T) {
		repo := new(MockSettingsRepository)
		uc := NewSettingsUseCase(repo)

		repo.On("Get", mock.Anything, domain.KeyNotificationsPausedUntil).
			Return(&domain.Setting{
				Key:   domain.KeyNotificationsPausedUntil,
				Value: now.Add(-time.Hour).Format(time.RFC3339Nano),
			}, nil).Once()

		paused, err := uc.NotificationsPausedAt(context.Background(), now)
		require.NoError(t, err)
		assert.False(t, paused)
	})

	t.Run("NoPauseRow", func(t *testing.T) {
		repo := new(MockSettingsRepository)
		uc := NewSettingsUseCase(repo)

		repo.On("Get", mock.Anything, domain.KeyNotificationsPausedUntil).
			Return(nil, domain.ErrSettingNotFound).Once()

		paused, err := uc.NotificationsPausedAt(context.Background(), now)
		require.NoError(t, err)
		assert.False(t, paused)
	})

	t.Run("Error_CorruptValue", func(t *testing.T) {
		repo := new(MockSettingsRepository)
		uc := NewSettingsUseCase(repo)

		repo.On("Get", mock.Anything, domain.KeyNotificationsPausedUntil).
			Return(&domain.Setting{
				Key:   domain.KeyNotificationsPausedUntil,
				Value: "not-a-timestamp",
			}, nil).Once()

		_, err := uc.NotificationsPausedAt(context.Background(), now)
		assert.Error(t, err)
	})
}

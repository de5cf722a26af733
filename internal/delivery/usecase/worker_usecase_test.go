package usecase

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	contractDomain "github.com/contractflow/contractflow/internal/contract/domain"
	"github.com/contractflow/contractflow/internal/delivery/domain"
	apperrors "github.com/contractflow/contractflow/internal/errors"
	notifDomain "github.com/contractflow/contractflow/internal/notification/domain"
	queueDomain "github.com/contractflow/contractflow/internal/queue/domain"
)

// MockJobQueue is a mock implementation of JobQueue
type MockJobQueue struct {
	mock.Mock
}

func (m *MockJobQueue) Dequeue(ctx context.Context, limit int) ([]*queueDomain.Job, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*queueDomain.Job), args.Error(1)
}

func (m *MockJobQueue) Release(
	ctx context.Context,
	job *queueDomain.Job,
	delay time.Duration,
	lastError string,
) error {
	args := m.Called(ctx, job, delay, lastError)
	return args.Error(0)
}

func (m *MockJobQueue) Complete(ctx context.Context, job *queueDomain.Job) error {
	args := m.Called(ctx, job)
	return args.Error(0)
}

func (m *MockJobQueue) Bury(ctx context.Context, job *queueDomain.Job, lastError string) error {
	args := m.Called(ctx, job, lastError)
	return args.Error(0)
}

// MockNotificationStore is a mock implementation of NotificationStore
type MockNotificationStore struct {
	mock.Mock
}

func (m *MockNotificationStore) GetByID(
	ctx context.Context,
	id uuid.UUID,
) (*notifDomain.Notification, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*notifDomain.Notification), args.Error(1)
}

func (m *MockNotificationStore) GetPendingByContract(
	ctx context.Context,
	contractID uuid.UUID,
) (*notifDomain.Notification, error) {
	args := m.Called(ctx, contractID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*notifDomain.Notification), args.Error(1)
}

func (m *MockNotificationStore) MarkSent(
	ctx context.Context,
	id uuid.UUID,
	externalID string,
	sentAt time.Time,
) error {
	args := m.Called(ctx, id, externalID, sentAt)
	return args.Error(0)
}

func (m *MockNotificationStore) MarkFailed(ctx context.Context, id uuid.UUID, reason string) error {
	args := m.Called(ctx, id, reason)
	return args.Error(0)
}

// MockContractReader is a mock implementation of ContractReader
type MockContractReader struct {
	mock.Mock
}

func (m *MockContractReader) Get(ctx context.Context, id uuid.UUID) (*contractDomain.Contract, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*contractDomain.Contract), args.Error(1)
}

// MockGateway is a mock implementation of Gateway
type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) Send(
	ctx context.Context,
	channel notifDomain.Channel,
	recipient string,
	content string,
) (string, error) {
	args := m.Called(ctx, channel, recipient, content)
	return args.String(0), args.Error(1)
}

// MockRateLimiter is a mock implementation of RateLimiter
type MockRateLimiter struct {
	mock.Mock
}

func (m *MockRateLimiter) Allow(recipient string) bool {
	args := m.Called(recipient)
	return args.Bool(0)
}

type workerMocks struct {
	queue         *MockJobQueue
	notifications *MockNotificationStore
	contracts     *MockContractReader
	gateway       *MockGateway
	limiter       *MockRateLimiter
}

func testWorkerConfig() Config {
	return Config{
		Count:           4,
		PollInterval:    10 * time.Millisecond,
		BatchSize:       10,
		MaxRedeliveries: 5,
		RetryBaseDelay:  30 * time.Second,
		SerializeDelay:  time.Minute,
	}
}

func setupWorker(config Config) (*WorkerUseCase, workerMocks) {
	m := workerMocks{
		queue:         new(MockJobQueue),
		notifications: new(MockNotificationStore),
		contracts:     new(MockContractReader),
		gateway:       new(MockGateway),
		limiter:       new(MockRateLimiter),
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	uc := NewWorkerUseCase(
		config, m.queue, m.notifications, m.contracts, m.gateway, m.limiter, logger,
	)
	return uc, m
}

func testDeliveryJob(notificationID uuid.UUID) *queueDomain.Job {
	return &queueDomain.Job{
		ID:             uuid.Must(uuid.NewV7()),
		NotificationID: notificationID,
		Status:         queueDomain.StatusProcessing,
		AvailableAt:    time.Now(),
		CreatedAt:      time.Now(),
		UpdatedAt:      time.Now(),
	}
}

func testPendingNotification(contractID uuid.UUID) *notifDomain.Notification {
	return &notifDomain.Notification{
		ID:            uuid.Must(uuid.NewV7()),
		ContractID:    contractID,
		SellerID:      uuid.Must(uuid.NewV7()),
		Recipient:     "+5511999998888",
		Type:          notifDomain.TypeSignatureRequest,
		Channel:       notifDomain.ChannelWhatsApp,
		Content:       "please sign: https://sign.example.com/abc",
		Status:        notifDomain.StatusPending,
		AttemptNumber: 1,
		CreatedAt:     time.Now(),
	}
}

func testPendingContract(id uuid.UUID) *contractDomain.Contract {
	return &contractDomain.Contract{
		ID:       id,
		SellerID: uuid.Must(uuid.NewV7()),
		Status:   contractDomain.StatusPendingSignature,
	}
}

func TestWorkerUseCase_ProcessJob(t *testing.T) {
	ctx := context.Background()

	t.Run("Sent", func(t *testing.T) {
		uc, m := setupWorker(testWorkerConfig())
		contractID := uuid.Must(uuid.NewV7())
		notification := testPendingNotification(contractID)
		job := testDeliveryJob(notification.ID)

		m.notifications.On("GetByID", ctx, notification.ID).Return(notification, nil)
		m.contracts.On("Get", ctx, contractID).Return(testPendingContract(contractID), nil)
		m.notifications.On("GetPendingByContract", ctx, contractID).Return(notification, nil)
		m.limiter.On("Allow", notification.Recipient).Return(true)
		m.gateway.On("Send", ctx, notification.Channel, notification.Recipient, notification.Content).
			Return("msg-123", nil)
		m.notifications.On("MarkSent", ctx, notification.ID, "msg-123", mock.AnythingOfType("time.Time")).
			Return(nil)
		m.queue.On("Complete", ctx, job).Return(nil)

		result := uc.ProcessJob(ctx, job)

		assert.Equal(t, domain.OutcomeSent, result.Outcome)
		require.NoError(t, result.Err)
		m.gateway.AssertExpectations(t)
		m.notifications.AssertExpectations(t)
		m.queue.AssertExpectations(t)
	})

	t.Run("Discarded_MissingNotification", func(t *testing.T) {
		uc, m := setupWorker(testWorkerConfig())
		job := testDeliveryJob(uuid.Must(uuid.NewV7()))

		m.notifications.On("GetByID", ctx, job.NotificationID).
			Return(nil, notifDomain.ErrNotificationNotFound)
		m.queue.On("Complete", ctx, job).Return(nil)

		result := uc.ProcessJob(ctx, job)

		assert.Equal(t, domain.OutcomeDiscarded, result.Outcome)
		m.gateway.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		m.queue.AssertExpectations(t)
	})

	t.Run("Superseded_ContractSigned", func(t *testing.T) {
		uc, m := setupWorker(testWorkerConfig())
		contractID := uuid.Must(uuid.NewV7())
		notification := testPendingNotification(contractID)
		job := testDeliveryJob(notification.ID)
		contract := testPendingContract(contractID)
		contract.Status = contractDomain.StatusSigned

		m.notifications.On("GetByID", ctx, notification.ID).Return(notification, nil)
		m.contracts.On("Get", ctx, contractID).Return(contract, nil)
		m.notifications.On("MarkFailed", ctx, notification.ID,
			mock.MatchedBy(func(reason string) bool { return reason != "" })).Return(nil)
		m.queue.On("Complete", ctx, job).Return(nil)

		result := uc.ProcessJob(ctx, job)

		assert.Equal(t, domain.OutcomeSuperseded, result.Outcome)
		m.gateway.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		m.notifications.AssertExpectations(t)
		m.queue.AssertExpectations(t)
	})

	t.Run("Discarded_AlreadySent", func(t *testing.T) {
		uc, m := setupWorker(testWorkerConfig())
		contractID := uuid.Must(uuid.NewV7())
		notification := testPendingNotification(contractID)
		notification.Status = notifDomain.StatusSent
		job := testDeliveryJob(notification.ID)

		m.notifications.On("GetByID", ctx, notification.ID).Return(notification, nil)
		m.contracts.On("Get", ctx, contractID).Return(testPendingContract(contractID), nil)
		m.queue.On("Complete", ctx, job).Return(nil)

		result := uc.ProcessJob(ctx, job)

		assert.Equal(t, domain.OutcomeDiscarded, result.Outcome)
		m.notifications.AssertNotCalled(t, "GetPendingByContract", mock.Anything, mock.Anything)
		m.gateway.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		m.queue.AssertExpectations(t)
	})

	t.Run("Retry_EarlierPendingGoesFirst", func(t *testing.T) {
		uc, m := setupWorker(testWorkerConfig())
		contractID := uuid.Must(uuid.NewV7())
		earlier := testPendingNotification(contractID)
		notification := testPendingNotification(contractID)
		job := testDeliveryJob(notification.ID)

		m.notifications.On("GetByID", ctx, notification.ID).Return(notification, nil)
		m.contracts.On("Get", ctx, contractID).Return(testPendingContract(contractID), nil)
		m.notifications.On("GetPendingByContract", ctx, contractID).Return(earlier, nil)
		m.queue.On("Release", ctx, job, time.Minute, "waiting for earlier pending notification").
			Return(nil)

		result := uc.ProcessJob(ctx, job)

		assert.Equal(t, domain.OutcomeRetry, result.Outcome)
		require.NoError(t, result.Err)
		m.gateway.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		m.queue.AssertExpectations(t)
	})

	t.Run("Retry_PendingLookupFails", func(t *testing.T) {
		uc, m := setupWorker(testWorkerConfig())
		contractID := uuid.Must(uuid.NewV7())
		notification := testPendingNotification(contractID)
		job := testDeliveryJob(notification.ID)

		m.notifications.On("GetByID", ctx, notification.ID).Return(notification, nil)
		m.contracts.On("Get", ctx, contractID).Return(testPendingContract(contractID), nil)
		m.notifications.On("GetPendingByContract", ctx, contractID).
			Return(nil, apperrors.New("connection reset"))
		m.queue.On("Release", ctx, job, 30*time.Second, mock.AnythingOfType("string")).Return(nil)

		result := uc.ProcessJob(ctx, job)

		assert.Equal(t, domain.OutcomeRetry, result.Outcome)
		assert.Error(t, result.Err)
		m.gateway.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		m.queue.AssertExpectations(t)
	})

	t.Run("Retry_RateLimited", func(t *testing.T) {
		uc, m := setupWorker(testWorkerConfig())
		contractID := uuid.Must(uuid.NewV7())
		notification := testPendingNotification(contractID)
		job := testDeliveryJob(notification.ID)

		m.notifications.On("GetByID", ctx, notification.ID).Return(notification, nil)
		m.contracts.On("Get", ctx, contractID).Return(testPendingContract(contractID), nil)
		m.notifications.On("GetPendingByContract", ctx, contractID).Return(notification, nil)
		m.limiter.On("Allow", notification.Recipient).Return(false)
		m.queue.On("Release", ctx, job, 30*time.Second, mock.AnythingOfType("string")).Return(nil)

		result := uc.ProcessJob(ctx, job)

		assert.Equal(t, domain.OutcomeRetry, result.Outcome)
		assert.ErrorIs(t, result.Err, apperrors.ErrRateLimited)
		m.gateway.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		m.queue.AssertExpectations(t)
	})

	t.Run("Retry_GatewayFailureBacksOffExponentially", func(t *testing.T) {
		uc, m := setupWorker(testWorkerConfig())
		contractID := uuid.Must(uuid.NewV7())
		notification := testPendingNotification(contractID)
		job := testDeliveryJob(notification.ID)
		job.RedeliveryCount = 2

		m.notifications.On("GetByID", ctx, notification.ID).Return(notification, nil)
		m.contracts.On("Get", ctx, contractID).Return(testPendingContract(contractID), nil)
		m.notifications.On("GetPendingByContract", ctx, contractID).Return(notification, nil)
		m.limiter.On("Allow", notification.Recipient).Return(true)
		m.gateway.On("Send", ctx, notification.Channel, notification.Recipient, notification.Content).
			Return("", apperrors.Wrap(apperrors.ErrGateway, "gateway returned status 502"))
		m.queue.On("Release", ctx, job, 2*time.Minute, mock.AnythingOfType("string")).Return(nil)

		result := uc.ProcessJob(ctx, job)

		assert.Equal(t, domain.OutcomeRetry, result.Outcome)
		assert.ErrorIs(t, result.Err, apperrors.ErrGateway)
		m.queue.AssertExpectations(t)
	})

	t.Run("Failed_AfterRedeliveriesExhausted", func(t *testing.T) {
		uc, m := setupWorker(testWorkerConfig())
		contractID := uuid.Must(uuid.NewV7())
		notification := testPendingNotification(contractID)
		job := testDeliveryJob(notification.ID)

		m.notifications.On("GetByID", ctx, notification.ID).Return(notification, nil)
		m.contracts.On("Get", ctx, contractID).Return(testPendingContract(contractID), nil)
		m.notifications.On("GetPendingByContract", ctx, contractID).Return(notification, nil)
		m.limiter.On("Allow", notification.Recipient).Return(true)
		m.gateway.On("Send", ctx, notification.Channel, notification.Recipient, notification.Content).
			Return("", apperrors.Wrap(apperrors.ErrGateway, "gateway returned status 502"))
		// The repository bumps the counter on every release.
		m.queue.On("Release", ctx, job, mock.AnythingOfType("time.Duration"), mock.AnythingOfType("string")).
			Run(func(args mock.Arguments) { job.RedeliveryCount++ }).
			Return(nil)
		m.notifications.On("MarkFailed", ctx, notification.ID, mock.AnythingOfType("string")).Return(nil)
		m.queue.On("Bury", ctx, job, mock.AnythingOfType("string")).Return(nil)

		var result domain.Result
		passes := 0
		for passes < 10 {
			passes++
			result = uc.ProcessJob(ctx, job)
			if result.Outcome == domain.OutcomeFailed {
				break
			}
			require.Equal(t, domain.OutcomeRetry, result.Outcome)
		}

		// The initial attempt plus one attempt per allowed redelivery.
		assert.Equal(t, domain.OutcomeFailed, result.Outcome)
		assert.Equal(t, 6, passes)
		m.gateway.AssertNumberOfCalls(t, "Send", 6)
		m.queue.AssertNumberOfCalls(t, "Release", 5)
		m.notifications.AssertNumberOfCalls(t, "MarkFailed", 1)
		m.queue.AssertNumberOfCalls(t, "Bury", 1)
	})

	t.Run("Retry_LastAllowedRedeliveryStillReleases", func(t *testing.T) {
		uc, m := setupWorker(testWorkerConfig())
		contractID := uuid.Must(uuid.NewV7())
		notification := testPendingNotification(contractID)
		job := testDeliveryJob(notification.ID)
		job.RedeliveryCount = 4

		m.notifications.On("GetByID", ctx, notification.ID).Return(notification, nil)
		m.contracts.On("Get", ctx, contractID).Return(testPendingContract(contractID), nil)
		m.notifications.On("GetPendingByContract", ctx, contractID).Return(notification, nil)
		m.limiter.On("Allow", notification.Recipient).Return(true)
		m.gateway.On("Send", ctx, notification.Channel, notification.Recipient, notification.Content).
			Return("", apperrors.Wrap(apperrors.ErrGateway, "gateway returned status 502"))
		m.queue.On("Release", ctx, job, 8*time.Minute, mock.AnythingOfType("string")).Return(nil)

		result := uc.ProcessJob(ctx, job)

		assert.Equal(t, domain.OutcomeRetry, result.Outcome)
		m.queue.AssertNotCalled(t, "Bury", mock.Anything, mock.Anything, mock.Anything)
		m.notifications.AssertNotCalled(t, "MarkFailed", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestWorkerUseCase_ProcessBatch(t *testing.T) {
	ctx := context.Background()

	t.Run("EmptyQueue", func(t *testing.T) {
		uc, m := setupWorker(testWorkerConfig())
		m.queue.On("Dequeue", ctx, 10).Return([]*queueDomain.Job{}, nil)

		claimed, err := uc.ProcessBatch(ctx)

		require.NoError(t, err)
		assert.Zero(t, claimed)
	})

	t.Run("DequeueError", func(t *testing.T) {
		uc, m := setupWorker(testWorkerConfig())
		m.queue.On("Dequeue", ctx, 10).Return(nil, apperrors.New("connection reset"))

		_, err := uc.ProcessBatch(ctx)

		assert.Error(t, err)
	})

	t.Run("ProcessesEveryClaimedJob", func(t *testing.T) {
		uc, m := setupWorker(testWorkerConfig())
		jobs := []*queueDomain.Job{
			testDeliveryJob(uuid.Must(uuid.NewV7())),
			testDeliveryJob(uuid.Must(uuid.NewV7())),
		}

		m.queue.On("Dequeue", ctx, 10).Return(jobs, nil)
		// Both notifications are gone, so both jobs get discarded.
		m.notifications.On("GetByID", mock.Anything, mock.AnythingOfType("uuid.UUID")).
			Return(nil, notifDomain.ErrNotificationNotFound)
		m.queue.On("Complete", mock.Anything, mock.AnythingOfType("*domain.Job")).Return(nil)

		claimed, err := uc.ProcessBatch(ctx)

		require.NoError(t, err)
		assert.Equal(t, 2, claimed)
		m.queue.AssertNumberOfCalls(t, "Complete", 2)
	})
}

func TestWorkerUseCase_Start(t *testing.T) {
	t.Run("StopsOnContextCancel", func(t *testing.T) {
		uc, m := setupWorker(testWorkerConfig())
		m.queue.On("Dequeue", mock.Anything, 10).Return([]*queueDomain.Job{}, nil).Maybe()

		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()

		err := uc.Start(ctx)

		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})
}

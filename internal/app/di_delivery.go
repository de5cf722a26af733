package app

import (
	"fmt"

	"github.com/contractflow/contractflow/internal/delivery/gateway"
	deliveryUsecase "github.com/contractflow/contractflow/internal/delivery/usecase"
)

// Gateway returns the messaging gateway client.
func (c *Container) Gateway() (deliveryUsecase.Gateway, error) {
	c.gatewayInit.Do(func() {
		c.gateway = gateway.NewHTTPGateway(
			c.config.GatewayURL, c.config.GatewayAPIKey, c.config.GatewayTimeout,
		)
	})
	return c.gateway, nil
}

// WorkerUseCase returns the delivery worker use case, decorated with metrics
// when metrics are enabled.
func (c *Container) WorkerUseCase() (deliveryUsecase.UseCase, error) {
	var err error
	c.workerUseCaseInit.Do(func() {
		c.workerUseCase, err = c.initWorkerUseCase()
		if err != nil {
			c.initErrors["workerUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["workerUseCase"]; exists {
		return nil, storedErr
	}
	return c.workerUseCase, nil
}

// initWorkerUseCase creates the delivery worker with all its dependencies.
func (c *Container) initWorkerUseCase() (deliveryUsecase.UseCase, error) {
	jobRepo, err := c.JobRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get job repository for worker use case: %w", err)
	}

	notificationRepo, err := c.NotificationRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get notification repository for worker use case: %w", err)
	}

	contracts, err := c.ContractUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get contract use case for worker use case: %w", err)
	}

	messagingGateway, err := c.Gateway()
	if err != nil {
		return nil, fmt.Errorf("failed to get gateway for worker use case: %w", err)
	}

	workerConfig := deliveryUsecase.Config{
		Count:           c.config.WorkerCount,
		PollInterval:    c.config.WorkerPollInterval,
		BatchSize:       c.config.WorkerBatchSize,
		MaxRedeliveries: c.config.WorkerMaxRedeliveries,
		RetryBaseDelay:  c.config.WorkerRetryBaseDelay,
		SerializeDelay:  c.config.WorkerSerializeDelay,
	}

	useCase := deliveryUsecase.NewWorkerUseCase(
		workerConfig,
		jobRepo,
		notificationRepo,
		contracts,
		messagingGateway,
		c.RateLimiter(),
		c.Logger(),
	)

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for worker use case: %w", err)
	}
	if businessMetrics != nil {
		return deliveryUsecase.NewWorkerUseCaseWithMetrics(useCase, businessMetrics), nil
	}

	return useCase, nil
}

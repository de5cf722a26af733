package app

import (
	"fmt"

	"github.com/contractflow/contractflow/internal/notification/directory"
	notificationRepository "github.com/contractflow/contractflow/internal/notification/repository"
	notificationUsecase "github.com/contractflow/contractflow/internal/notification/usecase"
	queueRepository "github.com/contractflow/contractflow/internal/queue/repository"
	reminderCron "github.com/contractflow/contractflow/internal/reminder/cron"
	reminderUsecase "github.com/contractflow/contractflow/internal/reminder/usecase"
)

// NotificationRepository returns the notification repository instance.
func (c *Container) NotificationRepository() (notificationUsecase.NotificationRepository, error) {
	var err error
	c.notificationRepoInit.Do(func() {
		db, dbErr := c.DB()
		if dbErr != nil {
			err = dbErr
			c.initErrors["notificationRepo"] = dbErr
			return
		}
		c.notificationRepo = notificationRepository.NewPostgreSQLNotificationRepository(db)
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["notificationRepo"]; exists {
		return nil, storedErr
	}
	return c.notificationRepo, nil
}

// JobRepository returns the delivery job queue repository instance.
func (c *Container) JobRepository() (*queueRepository.PostgreSQLJobRepository, error) {
	var err error
	c.jobRepoInit.Do(func() {
		db, dbErr := c.DB()
		if dbErr != nil {
			err = dbErr
			c.initErrors["jobRepo"] = dbErr
			return
		}
		c.jobRepo = queueRepository.NewPostgreSQLJobRepository(db, c.config.WorkerVisibilityTimeout)
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["jobRepo"]; exists {
		return nil, storedErr
	}
	return c.jobRepo, nil
}

// RecipientResolver returns the seller directory recipient resolver.
func (c *Container) RecipientResolver() (notificationUsecase.RecipientResolver, error) {
	c.recipientResolverInit.Do(func() {
		c.recipientResolver = directory.NewHTTPResolver(
			c.config.SellerDirectoryURL, c.config.SellerDirectoryTimeout,
		)
	})
	return c.recipientResolver, nil
}

// NotificationUseCase returns the notification dispatcher use case, decorated
// with metrics when metrics are enabled.
func (c *Container) NotificationUseCase() (notificationUsecase.UseCase, error) {
	var err error
	c.notificationUseCaseInit.Do(func() {
		c.notificationUseCase, err = c.initNotificationUseCase()
		if err != nil {
			c.initErrors["notificationUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["notificationUseCase"]; exists {
		return nil, storedErr
	}
	return c.notificationUseCase, nil
}

// SchedulerUseCase returns the reminder scheduler use case instance.
func (c *Container) SchedulerUseCase() (reminderUsecase.UseCase, error) {
	var err error
	c.schedulerUseCaseInit.Do(func() {
		c.schedulerUseCase, err = c.initSchedulerUseCase()
		if err != nil {
			c.initErrors["schedulerUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["schedulerUseCase"]; exists {
		return nil, storedErr
	}
	return c.schedulerUseCase, nil
}

// CronRunner returns the reminder cron runner instance.
func (c *Container) CronRunner() (*reminderCron.Runner, error) {
	var err error
	c.cronRunnerInit.Do(func() {
		scheduler, schedErr := c.SchedulerUseCase()
		if schedErr != nil {
			err = fmt.Errorf("failed to get scheduler use case for cron runner: %w", schedErr)
			c.initErrors["cronRunner"] = err
			return
		}
		c.cronRunner = reminderCron.NewRunner(scheduler, c.config.ReminderCronSpec, c.Logger())
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["cronRunner"]; exists {
		return nil, storedErr
	}
	return c.cronRunner, nil
}

// initNotificationUseCase creates the dispatcher use case with all its
// dependencies. The contract reader is the repository rather than the
// contract use case, which keeps construction cycle-free: the contract use
// case publishes to the event bus, whose subscriber is this dispatcher.
func (c *Container) initNotificationUseCase() (notificationUsecase.UseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for notification use case: %w", err)
	}

	notificationRepo, err := c.NotificationRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get notification repository for notification use case: %w", err)
	}

	contractRepo, err := c.ContractRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get contract repository for notification use case: %w", err)
	}

	jobRepo, err := c.JobRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get job repository for notification use case: %w", err)
	}

	settings, err := c.SettingsUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get settings use case for notification use case: %w", err)
	}

	useCase := notificationUsecase.NewDispatcherUseCase(
		txManager, notificationRepo, contractRepo, jobRepo, settings, c.Logger(),
	)

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for notification use case: %w", err)
	}
	if businessMetrics != nil {
		return notificationUsecase.NewDispatcherUseCaseWithMetrics(useCase, businessMetrics), nil
	}

	return useCase, nil
}

// initSchedulerUseCase creates the reminder scheduler with all its
// dependencies.
func (c *Container) initSchedulerUseCase() (reminderUsecase.UseCase, error) {
	contracts, err := c.ContractUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get contract use case for scheduler use case: %w", err)
	}

	notificationRepo, err := c.NotificationRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get notification repository for scheduler use case: %w", err)
	}

	dispatcher, err := c.NotificationUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get notification use case for scheduler use case: %w", err)
	}

	resolver, err := c.RecipientResolver()
	if err != nil {
		return nil, fmt.Errorf("failed to get recipient resolver for scheduler use case: %w", err)
	}

	settings, err := c.SettingsUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get settings use case for scheduler use case: %w", err)
	}

	return reminderUsecase.NewSchedulerUseCase(
		contracts, notificationRepo, dispatcher, resolver, settings, c.Logger(),
	), nil
}

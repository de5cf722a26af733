// Package app provides the dependency injection container for assembling
// application components.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/contractflow/contractflow/internal/config"
	contractUsecase "github.com/contractflow/contractflow/internal/contract/usecase"
	"github.com/contractflow/contractflow/internal/database"
	deliveryUsecase "github.com/contractflow/contractflow/internal/delivery/usecase"
	"github.com/contractflow/contractflow/internal/events"
	"github.com/contractflow/contractflow/internal/http"
	"github.com/contractflow/contractflow/internal/metrics"
	notificationUsecase "github.com/contractflow/contractflow/internal/notification/usecase"
	queueRepository "github.com/contractflow/contractflow/internal/queue/repository"
	"github.com/contractflow/contractflow/internal/ratelimit"
	reminderCron "github.com/contractflow/contractflow/internal/reminder/cron"
	reminderUsecase "github.com/contractflow/contractflow/internal/reminder/usecase"
	settingsUsecase "github.com/contractflow/contractflow/internal/settings/usecase"
	webhookUsecase "github.com/contractflow/contractflow/internal/webhook/usecase"
)

// Container holds all application dependencies and provides methods to access
// them. Components are created lazily on first access.
type Container struct {
	// Configuration
	config *config.Config

	// Infrastructure
	logger          *slog.Logger
	db              *sql.DB
	txManager       database.TxManager
	metricsProvider *metrics.Provider
	businessMetrics metrics.BusinessMetrics
	eventBus        *events.Bus
	rateLimiter     *ratelimit.TokenBucket

	// Repositories
	contractRepo     contractUsecase.ContractRepository
	historyRepo      contractUsecase.StatusHistoryRepository
	settingsRepo     settingsUsecase.SettingsRepository
	notificationRepo notificationUsecase.NotificationRepository
	jobRepo          *queueRepository.PostgreSQLJobRepository

	// External collaborators
	recipientResolver notificationUsecase.RecipientResolver
	gateway           deliveryUsecase.Gateway

	// Use Cases
	contractUseCase     contractUsecase.UseCase
	settingsUseCase     settingsUsecase.UseCase
	notificationUseCase notificationUsecase.UseCase
	webhookUseCase      webhookUsecase.UseCase
	schedulerUseCase    reminderUsecase.UseCase
	workerUseCase       deliveryUsecase.UseCase

	// Servers and Workers
	httpServer    *http.Server
	metricsServer *http.MetricsServer
	cronRunner    *reminderCron.Runner

	// Initialization flags and mutex for thread-safety
	mu                      sync.Mutex
	loggerInit              sync.Once
	dbInit                  sync.Once
	txManagerInit           sync.Once
	metricsProviderInit     sync.Once
	businessMetricsInit     sync.Once
	eventBusInit            sync.Once
	rateLimiterInit         sync.Once
	contractRepoInit        sync.Once
	historyRepoInit         sync.Once
	settingsRepoInit        sync.Once
	notificationRepoInit    sync.Once
	jobRepoInit             sync.Once
	recipientResolverInit   sync.Once
	gatewayInit             sync.Once
	contractUseCaseInit     sync.Once
	settingsUseCaseInit     sync.Once
	notificationUseCaseInit sync.Once
	webhookUseCaseInit      sync.Once
	schedulerUseCaseInit    sync.Once
	workerUseCaseInit       sync.Once
	httpServerInit          sync.Once
	metricsServerInit       sync.Once
	cronRunnerInit          sync.Once
	initErrors              map[string]error
}

// NewContainer creates a new dependency injection container with the provided
// configuration.
func NewContainer(cfg *config.Config) *Container {
	return &Container{
		config:     cfg,
		initErrors: make(map[string]error),
	}
}

// Config returns the application configuration.
func (c *Container) Config() *config.Config {
	return c.config
}

// Logger returns the configured logger instance.
func (c *Container) Logger() *slog.Logger {
	c.loggerInit.Do(func() {
		c.logger = c.initLogger()
	})
	return c.logger
}

// DB returns the database connection.
func (c *Container) DB() (*sql.DB, error) {
	var err error
	c.dbInit.Do(func() {
		c.db, err = c.initDB()
		if err != nil {
			c.initErrors["db"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["db"]; exists {
		return nil, storedErr
	}
	return c.db, nil
}

// TxManager returns the transaction manager.
func (c *Container) TxManager() (database.TxManager, error) {
	var err error
	c.txManagerInit.Do(func() {
		c.txManager, err = c.initTxManager()
		if err != nil {
			c.initErrors["txManager"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["txManager"]; exists {
		return nil, storedErr
	}
	return c.txManager, nil
}

// MetricsProvider returns the metrics provider, or nil when metrics are
// disabled.
func (c *Container) MetricsProvider() (*metrics.Provider, error) {
	var err error
	c.metricsProviderInit.Do(func() {
		if !c.config.MetricsEnabled {
			return
		}
		c.metricsProvider, err = metrics.NewProvider(c.config.MetricsNamespace)
		if err != nil {
			c.initErrors["metricsProvider"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["metricsProvider"]; exists {
		return nil, storedErr
	}
	return c.metricsProvider, nil
}

// BusinessMetrics returns the business metrics recorder, or nil when metrics
// are disabled.
func (c *Container) BusinessMetrics() (metrics.BusinessMetrics, error) {
	var err error
	c.businessMetricsInit.Do(func() {
		var provider *metrics.Provider
		provider, err = c.MetricsProvider()
		if err != nil {
			c.initErrors["businessMetrics"] = err
			return
		}
		if provider == nil {
			return
		}
		c.businessMetrics, err = metrics.NewBusinessMetrics(
			provider.MeterProvider(), c.config.MetricsNamespace,
		)
		if err != nil {
			c.initErrors["businessMetrics"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["businessMetrics"]; exists {
		return nil, storedErr
	}
	return c.businessMetrics, nil
}

// EventBus returns the in-process contract event bus with all subscribers
// registered.
func (c *Container) EventBus() (*events.Bus, error) {
	var err error
	c.eventBusInit.Do(func() {
		c.eventBus, err = c.initEventBus()
		if err != nil {
			c.initErrors["eventBus"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["eventBus"]; exists {
		return nil, storedErr
	}
	return c.eventBus, nil
}

// RateLimiter returns the per-recipient send limiter.
func (c *Container) RateLimiter() *ratelimit.TokenBucket {
	c.rateLimiterInit.Do(func() {
		c.rateLimiter = ratelimit.NewTokenBucket(
			c.config.RateLimitPoints, c.config.RateLimitWindow,
		)
	})
	return c.rateLimiter
}

// Shutdown performs cleanup of all initialized resources.
func (c *Container) Shutdown(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var shutdownErrors []error

	if c.cronRunner != nil {
		c.cronRunner.Stop()
	}

	if c.httpServer != nil {
		if err := c.httpServer.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("http server shutdown: %w", err))
		}
	}

	if c.metricsServer != nil {
		if err := c.metricsServer.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics server shutdown: %w", err))
		}
	}

	if c.metricsProvider != nil {
		if err := c.metricsProvider.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics provider shutdown: %w", err))
		}
	}

	if c.db != nil {
		if err := c.db.Close(); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("database close: %w", err))
		}
	}

	if len(shutdownErrors) > 0 {
		return fmt.Errorf("shutdown errors: %v", shutdownErrors)
	}

	return nil
}

// initLogger creates a structured logger based on the configured log level.
func (c *Container) initLogger() *slog.Logger {
	var logLevel slog.Level
	switch c.config.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})

	return slog.New(handler)
}

// initDB creates and configures the database connection.
func (c *Container) initDB() (*sql.DB, error) {
	db, err := database.Connect(database.Config{
		ConnectionString:   c.config.DBConnectionString,
		MaxOpenConnections: c.config.DBMaxOpenConnections,
		MaxIdleConnections: c.config.DBMaxIdleConnections,
		ConnMaxLifetime:    c.config.DBConnMaxLifetime,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// initTxManager creates the transaction manager using the database connection.
func (c *Container) initTxManager() (database.TxManager, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for tx manager: %w", err)
	}
	return database.NewTxManager(db), nil
}

// initEventBus creates the event bus and subscribes the notification
// dispatcher so a contract reaching PENDING_SIGNATURE triggers the first
// signature request.
func (c *Container) initEventBus() (*events.Bus, error) {
	logger := c.Logger()
	bus := events.NewBus(logger)

	dispatcher, err := c.NotificationUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get notification use case for event bus: %w", err)
	}

	resolver, err := c.RecipientResolver()
	if err != nil {
		return nil, fmt.Errorf("failed to get recipient resolver for event bus: %w", err)
	}

	subscriber := notificationUsecase.NewContractEventSubscriber(dispatcher, resolver, logger)
	bus.Subscribe(subscriber.HandleContractEvent)

	return bus, nil
}

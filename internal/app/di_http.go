package app

import (
	"fmt"

	contractHTTP "github.com/contractflow/contractflow/internal/contract/http"
	"github.com/contractflow/contractflow/internal/http"
	"github.com/contractflow/contractflow/internal/metrics"
	notificationHTTP "github.com/contractflow/contractflow/internal/notification/http"
	ratelimitHTTP "github.com/contractflow/contractflow/internal/ratelimit/http"
	reminderHTTP "github.com/contractflow/contractflow/internal/reminder/http"
	webhookHTTP "github.com/contractflow/contractflow/internal/webhook/http"
)

// HTTPServer returns the API server with every route registered.
func (c *Container) HTTPServer() (*http.Server, error) {
	var err error
	c.httpServerInit.Do(func() {
		c.httpServer, err = c.initHTTPServer()
		if err != nil {
			c.initErrors["httpServer"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["httpServer"]; exists {
		return nil, storedErr
	}
	return c.httpServer, nil
}

// MetricsServer returns the Prometheus metrics server, or nil when metrics
// are disabled.
func (c *Container) MetricsServer() (*http.MetricsServer, error) {
	var err error
	c.metricsServerInit.Do(func() {
		var provider *metrics.Provider
		provider, err = c.MetricsProvider()
		if err != nil {
			c.initErrors["metricsServer"] = err
			return
		}
		if provider == nil {
			return
		}
		c.metricsServer = http.NewMetricsServer(
			c.config.ServerHost, c.config.MetricsPort, c.Logger(), provider,
		)
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["metricsServer"]; exists {
		return nil, storedErr
	}
	return c.metricsServer, nil
}

// initHTTPServer creates the HTTP server with all its handlers.
func (c *Container) initHTTPServer() (*http.Server, error) {
	logger := c.Logger()

	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for http server: %w", err)
	}

	contractUC, err := c.ContractUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get contract use case for http server: %w", err)
	}

	notificationUC, err := c.NotificationUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get notification use case for http server: %w", err)
	}

	settingsUC, err := c.SettingsUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get settings use case for http server: %w", err)
	}

	webhookUC, err := c.WebhookUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get webhook use case for http server: %w", err)
	}

	schedulerUC, err := c.SchedulerUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get scheduler use case for http server: %w", err)
	}

	routerConfig := http.RouterConfig{
		ContractHandler:     contractHTTP.NewContractHandler(contractUC, logger),
		NotificationHandler: notificationHTTP.NewNotificationHandler(notificationUC, settingsUC, logger),
		WebhookHandler:      webhookHTTP.NewWebhookHandler(webhookUC, logger),
		RateLimitHandler:    ratelimitHTTP.NewRateLimitHandler(c.RateLimiter(), logger),
		ReminderHandler:     reminderHTTP.NewReminderHandler(schedulerUC, logger),
		CORSEnabled:         c.config.CORSEnabled,
		CORSAllowOrigins:    c.config.CORSAllowOrigins,
	}

	provider, err := c.MetricsProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics provider for http server: %w", err)
	}
	if provider != nil {
		routerConfig.MetricsMiddleware = metrics.HTTPMetricsMiddleware(
			provider.MeterProvider(), c.config.MetricsNamespace,
		)
	}

	server := http.NewServer(db, c.config.ServerHost, c.config.ServerPort, logger)
	server.SetupRouter(routerConfig)

	return server, nil
}

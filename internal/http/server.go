// Package http provides the HTTP server, routing and request middleware.
package http

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	contractHTTP "github.com/contractflow/contractflow/internal/contract/http"
	notificationHTTP "github.com/contractflow/contractflow/internal/notification/http"
	ratelimitHTTP "github.com/contractflow/contractflow/internal/ratelimit/http"
	reminderHTTP "github.com/contractflow/contractflow/internal/reminder/http"
	webhookHTTP "github.com/contractflow/contractflow/internal/webhook/http"
)

// RouterConfig holds the handlers and options used to build the router.
type RouterConfig struct {
	ContractHandler     *contractHTTP.ContractHandler
	NotificationHandler *notificationHTTP.NotificationHandler
	WebhookHandler      *webhookHTTP.WebhookHandler
	RateLimitHandler    *ratelimitHTTP.RateLimitHandler
	ReminderHandler     *reminderHTTP.ReminderHandler

	CORSEnabled      bool
	CORSAllowOrigins string

	// MetricsMiddleware is applied to every route when set.
	MetricsMiddleware gin.HandlerFunc
}

// Server represents the HTTP API server.
type Server struct {
	server *http.Server
	router *gin.Engine
	db     *sql.DB
	logger *slog.Logger
}

// NewServer creates a new HTTP server. The database handle is only used by
// the readiness probe.
func NewServer(db *sql.DB, host string, port int, logger *slog.Logger) *Server {
	return &Server{
		db:     db,
		logger: logger,
		server: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", host, port),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
	}
}

// Handler returns the configured router. It is nil until SetupRouter runs.
func (s *Server) Handler() http.Handler {
	return s.router
}

// SetupRouter builds the gin router and registers every route.
func (s *Server) SetupRouter(cfg RouterConfig) {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestid.New(requestid.WithGenerator(func() string {
		return uuid.Must(uuid.NewV7()).String()
	})))
	router.Use(CustomLoggerMiddleware(s.logger))

	if corsMiddleware := createCORSMiddleware(cfg.CORSEnabled, cfg.CORSAllowOrigins, s.logger); corsMiddleware != nil {
		router.Use(corsMiddleware)
	}
	if cfg.MetricsMiddleware != nil {
		router.Use(cfg.MetricsMiddleware)
	}

	router.GET("/health", s.healthHandler)
	router.GET("/ready", s.readinessHandler)

	v1 := router.Group("/v1")

	contracts := v1.Group("/contracts")
	contracts.POST("", cfg.ContractHandler.CreateHandler)
	contracts.GET("/:id", cfg.ContractHandler.GetHandler)
	contracts.PATCH("/:id/status", cfg.ContractHandler.ChangeStatusHandler)
	contracts.POST("/:id/send-to-signature", cfg.ContractHandler.SendToSignatureHandler)
	contracts.POST("/:id/reminders", cfg.ReminderHandler.ProcessContractHandler)

	notifications := v1.Group("/notifications")
	notifications.GET("/:id", cfg.NotificationHandler.GetHandler)
	notifications.PUT("/pause", cfg.NotificationHandler.PauseHandler)
	notifications.DELETE("/pause", cfg.NotificationHandler.ResumeHandler)
	notifications.POST("/delivery-receipts", cfg.NotificationHandler.DeliveryReceiptHandler)

	v1.POST("/webhooks/signature", cfg.WebhookHandler.SignatureEventHandler)
	v1.POST("/reminders/process", cfg.ReminderHandler.ProcessAllHandler)
	v1.DELETE("/rate-limits/:recipient", cfg.RateLimitHandler.ResetHandler)

	s.router = router
	s.server.Handler = router
}

// healthHandler reports process liveness.
func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// readinessHandler reports whether the server can reach its dependencies.
func (s *Server) readinessHandler(c *gin.Context) {
	components := gin.H{"database": "ok"}

	ready := s.db != nil
	if ready {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		ready = s.db.PingContext(ctx) == nil
	}

	if !ready {
		components["database"] = "error"
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":     "not_ready",
			"components": components,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":     "ready",
		"components": components,
	})
}

// Start starts the HTTP server.
func (s *Server) Start(ctx context.Context) error {
	s.logger.Info("starting http server", slog.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.server.Shutdown(ctx)
}

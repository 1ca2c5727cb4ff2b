package server

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	httpHandlers "github.com/crewbase/core/internal/adapters/http"
	"github.com/crewbase/core/internal/adapters/memory"
	"github.com/crewbase/core/internal/application/services"
	"github.com/crewbase/core/internal/infrastructure/config"
	"github.com/crewbase/core/internal/infrastructure/logger"
)

// Server represents the HTTP server
type Server struct {
	echo   *echo.Echo
	config *config.Config
	logger *logger.Logger
}

// CustomValidator wraps the validator
type CustomValidator struct {
	validator *validator.Validate
}

// Validate validates structs
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

// New creates a new server instance with freshly initialized in-memory
// stores, optionally seeded with the mock crew fixtures.
func New(cfg *config.Config, appLogger *logger.Logger) (*Server, error) {
	e := echo.New()

	// Set custom validator
	e.Validator = &CustomValidator{validator: validator.New()}

	// Configure Echo
	e.HideBanner = true
	e.HidePort = true

	// Custom error handler
	e.HTTPErrorHandler = customErrorHandler(appLogger)

	// Initialize stores
	userStore := memory.NewUserStore()
	projectStore := memory.NewProjectStore()
	activityStore := memory.NewActivityStore()

	if cfg.Fixtures.SeedOnStart {
		result, err := memory.Seed(context.Background(), userStore, projectStore, activityStore)
		if err != nil {
			return nil, fmt.Errorf("failed to seed fixtures: %w", err)
		}
		appLogger.Info("Fixtures seeded", "users", len(result.Users), "projects", len(result.Projects))
	}

	// Initialize services
	sessionService := services.NewSessionService(userStore, appLogger)
	projectService := services.NewProjectService(projectStore, userStore, appLogger)
	taskService := services.NewTaskService(projectStore, userStore, activityStore, appLogger)
	messageService := services.NewMessageService(projectStore, userStore, activityStore, appLogger)
	activityService := services.NewActivityService(projectStore, activityStore, appLogger)

	// Initialize handlers
	sessionHandler := httpHandlers.NewSessionHandler(sessionService, appLogger)
	projectHandler := httpHandlers.NewProjectHandler(projectService, appLogger)
	taskHandler := httpHandlers.NewTaskHandler(taskService, appLogger)
	messageHandler := httpHandlers.NewMessageHandler(messageService, appLogger)
	activityHandler := httpHandlers.NewActivityHandler(activityService, appLogger)

	server := &Server{
		echo:   e,
		config: cfg,
		logger: appLogger,
	}

	// Setup middleware
	server.setupMiddleware()

	// Setup routes
	server.setupRoutes(sessionHandler, projectHandler, taskHandler, messageHandler, activityHandler, sessionService)

	// Setup metrics
	if cfg.Metrics.Enabled {
		server.setupMetrics()
	}

	return server, nil
}

// setupMiddleware configures middleware
func (s *Server) setupMiddleware() {
	// Recovery middleware
	s.echo.Use(middleware.Recover())

	// Logger middleware
	s.echo.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		LogMethod:    true,
		LogLatency:   true,
		LogError:     true,
		LogRemoteIP:  true,
		LogUserAgent: true,
		LogValuesFunc: func(c echo.Context, values middleware.RequestLoggerValues) error {
			fields := []interface{}{
				"method", values.Method,
				"uri", values.URI,
				"status", values.Status,
				"latency_ms", float64(values.Latency.Nanoseconds()) / 1000000,
				"remote_ip", values.RemoteIP,
				"user_agent", values.UserAgent,
			}

			if values.Error != nil {
				fields = append(fields, "error", values.Error.Error())
				s.logger.Errorw("HTTP request failed", fields...)
			} else {
				s.logger.Infow("HTTP request", fields...)
			}

			return nil
		},
	}))

	// CORS middleware
	s.echo.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: strings.Split(s.config.Security.CORSAllowedOrigins, ","),
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, "X-User-ID"},
		AllowMethods: []string{echo.GET, echo.HEAD, echo.PUT, echo.PATCH, echo.POST, echo.DELETE},
	}))

	// Rate limiting middleware
	s.echo.Use(middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Store: middleware.NewRateLimiterMemoryStoreWithConfig(
			middleware.RateLimiterMemoryStoreConfig{Rate: rate.Limit(s.config.Security.RateLimitRequests), Burst: s.config.Security.RateLimitRequests, ExpiresIn: s.config.Security.RateLimitWindow},
		),
		IdentifierExtractor: func(ctx echo.Context) (string, error) {
			id := ctx.RealIP()
			return id, nil
		},
		ErrorHandler: func(context echo.Context, err error) error {
			return context.JSON(http.StatusForbidden, map[string]string{"message": "rate limit exceeded"})
		},
		DenyHandler: func(context echo.Context, identifier string, err error) error {
			return context.JSON(http.StatusTooManyRequests, map[string]string{"message": "rate limit exceeded"})
		},
	}))

	// Security headers
	s.echo.Use(middleware.SecureWithConfig(middleware.SecureConfig{
		XSSProtection:         "1; mode=block",
		ContentTypeNosniff:    "nosniff",
		XFrameOptions:         "DENY",
		HSTSMaxAge:            31536000,
		ContentSecurityPolicy: "default-src 'self'",
	}))

	// Request ID middleware
	s.echo.Use(middleware.RequestID())

	// Timeout middleware
	s.echo.Use(middleware.TimeoutWithConfig(middleware.TimeoutConfig{
		Timeout: 30 * time.Second,
	}))
}

// setupRoutes configures all routes
func (s *Server) setupRoutes(sessionHandler *httpHandlers.SessionHandler, projectHandler *httpHandlers.ProjectHandler, taskHandler *httpHandlers.TaskHandler, messageHandler *httpHandlers.MessageHandler, activityHandler *httpHandlers.ActivityHandler, sessionService *services.SessionServiceImpl) {
	// Health check routes
	s.echo.GET("/health", s.healthCheck)
	s.echo.GET("/ready", s.readinessCheck)

	// API v1 routes
	v1 := s.echo.Group("/api/v1")

	// Identity routes (no acting user required)
	v1.GET("/users", sessionHandler.ListUsers)
	v1.GET("/session", sessionHandler.GetSession)
	v1.PUT("/session", sessionHandler.SwitchUser)

	// Everything below resolves an acting user per request
	acting := httpHandlers.ActingUserMiddleware(sessionService)

	projectGroup := v1.Group("/projects", acting)
	projectGroup.GET("", projectHandler.ListProjects)
	projectGroup.POST("", projectHandler.CreateProject)
	projectGroup.GET("/:id", projectHandler.GetProject)
	projectGroup.GET("/:id/attachments", projectHandler.ListProjectAttachments)
	projectGroup.POST("/:id/attachments", projectHandler.AddProjectAttachment)

	// Task routes
	projectGroup.GET("/:id/tasks", taskHandler.ListTasks)
	projectGroup.POST("/:id/tasks", taskHandler.CreateTask)
	projectGroup.GET("/:id/tasks/:taskId", taskHandler.GetTask)
	projectGroup.PUT("/:id/tasks/:taskId/title", taskHandler.RenameTask)
	projectGroup.POST("/:id/tasks/:taskId/toggle", taskHandler.ToggleTask)
	projectGroup.POST("/:id/tasks/:taskId/accept", taskHandler.AcceptTask)
	projectGroup.DELETE("/:id/tasks/:taskId", taskHandler.DeleteTask)
	projectGroup.POST("/:id/tasks/:taskId/subtasks", taskHandler.AddSubtask)
	projectGroup.POST("/:id/tasks/:taskId/subtasks/:subtaskId/toggle", taskHandler.ToggleSubtask)
	projectGroup.POST("/:id/tasks/:taskId/attachments", taskHandler.AddTaskAttachment)
	projectGroup.GET("/:id/tasks/:taskId/unread", taskHandler.GetUnreadCount)

	// Message routes
	projectGroup.GET("/:id/messages", messageHandler.ListMessages)
	projectGroup.POST("/:id/messages", messageHandler.SendMessage)
	projectGroup.POST("/:id/messages/read", messageHandler.MarkRead)
	projectGroup.POST("/:id/messages/:messageId/reactions", messageHandler.ToggleReaction)

	// Dashboard and feed routes
	v1.GET("/dashboard", activityHandler.GetDashboard, acting)
	v1.GET("/activity", activityHandler.GetFeed, acting)
	v1.GET("/inbox", activityHandler.GetInbox, acting)
}

// setupMetrics configures Prometheus metrics
func (s *Server) setupMetrics() {
	registry := prometheus.NewRegistry()

	requestsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	requestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	registry.MustRegister(requestsTotal, requestDuration)

	// Custom metrics middleware
	s.echo.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)

			duration := time.Since(start)
			status := c.Response().Status

			requestsTotal.WithLabelValues(
				c.Request().Method,
				c.Path(),
				fmt.Sprintf("%d", status),
			).Inc()

			requestDuration.WithLabelValues(
				c.Request().Method,
				c.Path(),
			).Observe(duration.Seconds())

			return err
		}
	})

	// Metrics endpoint
	metricsHandler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
	s.echo.GET("/metrics", echo.WrapHandler(metricsHandler))
}

// Health check handlers
func (s *Server) healthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) readinessCheck(c echo.Context) error {
	// The store lives in process memory; once the server is up it is ready.
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ready",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// Start starts the HTTP server
func (s *Server) Start(address string) error {
	s.logger.Info("Starting server", "address", address)
	return s.echo.Start(address)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down server")
	return s.echo.Shutdown(ctx)
}

// customErrorHandler handles HTTP errors
func customErrorHandler(logger *logger.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		var (
			code = http.StatusInternalServerError
			msg  interface{}
		)

		if he, ok := err.(*echo.HTTPError); ok {
			code = he.Code
			msg = he.Message
			if he.Internal != nil {
				err = fmt.Errorf("%v, %v", err, he.Internal)
			}
		} else if e, ok := err.(*validator.ValidationErrors); ok {
			code = http.StatusBadRequest
			msg = map[string]string{"message": "validation failed", "details": e.Error()}
		} else {
			msg = map[string]string{"message": http.StatusText(code)}
		}

		if code == http.StatusInternalServerError {
			logger.Error("Internal server error", "error", err, "path", c.Request().URL.Path)
		}

		// Send response
		if !c.Response().Committed {
			if c.Request().Method == echo.HEAD {
				err = c.NoContent(code)
			} else {
				err = c.JSON(code, msg)
			}
			if err != nil {
				logger.Error("Error sending response", "error", err)
			}
		}
	}
}

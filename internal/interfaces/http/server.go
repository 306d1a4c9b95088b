// Package http provides the HTTP server adapter for the application layer.
// This is a thin adapter layer that translates HTTP requests to application service calls.
package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/stormline/roofcrm/internal/application/service"
)

// Logger interface for logging operations
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	// ReportsDir is where commission exports are written
	ReportsDir string
}

// DefaultServerConfig returns default server configuration
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Host:         "0.0.0.0",
		Port:         8080,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		ReportsDir:   "generated_reports",
	}
}

// Server is the HTTP server adapter
type Server struct {
	config            ServerConfig
	httpServer        *http.Server
	router            *gin.Engine
	dealService       service.DealService
	customerService   service.CustomerService
	documentService   service.DocumentService
	commissionService service.CommissionService
	logger            Logger
}

// NewServer creates a new HTTP server with the given services
func NewServer(
	config ServerConfig,
	dealService service.DealService,
	customerService service.CustomerService,
	documentService service.DocumentService,
	commissionService service.CommissionService,
	logger Logger,
) *Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	server := &Server{
		config:            config,
		router:            router,
		dealService:       dealService,
		customerService:   customerService,
		documentService:   documentService,
		commissionService: commissionService,
		logger:            logger,
	}

	server.setupMiddleware()
	server.setupRoutes()

	return server
}

// setupMiddleware configures middleware for the router
func (s *Server) setupMiddleware() {
	s.router.Use(gin.Recovery())
	s.router.Use(s.loggingMiddleware())
	s.router.Use(corsMiddleware())
}

// corsMiddleware adds CORS headers for the browser clients
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Rep-ID")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// loggingMiddleware creates a logging middleware
func (s *Server) loggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		s.logger.Info("HTTP request",
			"method", method,
			"path", path,
			"status", status,
			"latency", latency.String(),
			"client_ip", c.ClientIP(),
		)
	}
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() {
	handlers := NewHandlers(s.dealService, s.customerService, s.documentService, s.commissionService, s.config.ReportsDir, s.logger)

	// Health check
	s.router.GET("/health", handlers.HealthCheck)

	api := s.router.Group("/api")
	{
		// Customers
		api.POST("/customers", handlers.CreateCustomer)
		api.GET("/customers", handlers.ListCustomers)
		api.GET("/customers/:id", handlers.GetCustomer)

		// Deals
		api.POST("/deals", handlers.CreateDeal)
		api.GET("/deals", handlers.ListDeals)
		api.GET("/deals/:id", handlers.GetDeal)
		api.PATCH("/deals/:id", handlers.UpdateDeal)

		// Workflow
		api.GET("/deals/:id/status", handlers.GetDealStatus)
		api.POST("/deals/:id/advance", handlers.AdvanceDeal)
		api.POST("/deals/:id/revert", handlers.RevertDeal)
		api.PUT("/deals/:id/status", handlers.OverrideDealStatus)
		api.GET("/deals/:id/history", handlers.GetDealHistory)

		// Documents
		api.POST("/deals/:id/documents/contract", handlers.GenerateContract)
		api.POST("/deals/:id/documents/invoice", handlers.GenerateInvoice)
		api.GET("/deals/:id/documents", handlers.ListDocuments)

		// Commissions
		api.POST("/deals/:id/commission", handlers.RecordCommission)
		api.GET("/deals/:id/commission", handlers.GetCommission)
		api.GET("/commissions", handlers.ListCommissions)
		api.POST("/commissions/export", handlers.ExportCommissions)

		// Estimates
		api.POST("/estimates/insurance-split", handlers.InsuranceSplit)
		api.POST("/estimates/waste", handlers.WasteEstimate)
	}
}

// Start starts the HTTP server
func (s *Server) Start(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}

	s.logger.Info("Starting HTTP server", "address", addr)

	errCh := make(chan error, 1)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("HTTP server shutdown requested")
		return s.Stop()
	case err := <-errCh:
		s.logger.Error("HTTP server error", "error", err)
		return err
	}
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop() error {
	if s.httpServer == nil {
		return nil
	}

	s.logger.Info("Stopping HTTP server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.logger.Error("HTTP server shutdown error", "error", err)
		return err
	}

	s.logger.Info("HTTP server stopped")
	return nil
}

// Router returns the underlying gin router (for testing)
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Address returns the server address
func (s *Server) Address() string {
	return fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
}

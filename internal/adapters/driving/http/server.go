package http

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/custodia-labs/veridoc-core/internal/core/ports/driven"
	"github.com/custodia-labs/veridoc-core/internal/core/ports/driving"
	"github.com/custodia-labs/veridoc-core/internal/runtime"
)

// Pinger is a simple health check interface
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server represents the HTTP server
type Server struct {
	httpServer *http.Server
	router     *http.ServeMux
	version    string

	// Services
	analysisService driving.AnalysisService
	policyService   driving.PolicyService
	reportService   driving.ReportService
	services        *runtime.Services

	// Infrastructure
	taskQueue driven.TaskQueue
	db        Pinger // PostgreSQL health check (optional)
}

// Config holds server configuration
type Config struct {
	Host    string
	Port    int
	Version string
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Host:    "0.0.0.0",
		Port:    8080,
		Version: "dev",
	}
}

// NewServer creates a new HTTP server
func NewServer(
	cfg Config,
	analysisService driving.AnalysisService,
	policyService driving.PolicyService,
	reportService driving.ReportService,
	services *runtime.Services,
	taskQueue driven.TaskQueue,
	db Pinger, // can be nil
) *Server {
	s := &Server{
		router:          http.NewServeMux(),
		version:         cfg.Version,
		analysisService: analysisService,
		policyService:   policyService,
		reportService:   reportService,
		services:        services,
		taskQueue:       taskQueue,
		db:              db,
	}

	recovery := NewRecoveryMiddleware()
	cors := NewCORSMiddleware([]string{"*"})
	logging := NewLoggingMiddleware()

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      recovery.Handler(cors.Handler(logging.Handler(s.router))),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.setupRoutes()
	return s
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() {
	// Health endpoints
	s.router.HandleFunc("GET /health", s.handleHealth)
	s.router.HandleFunc("GET /ready", s.handleReady)
	s.router.HandleFunc("GET /version", s.handleVersion)

	// Analysis endpoints
	s.router.HandleFunc("POST /api/v1/analyze", s.handleAnalyze)
	s.router.HandleFunc("GET /api/v1/status", s.handleGetStatus)

	// Report endpoints
	s.router.HandleFunc("GET /api/v1/reports", s.handleListReports)
	s.router.HandleFunc("GET /api/v1/reports/{id}", s.handleGetReport)

	// Policy endpoints
	s.router.HandleFunc("POST /api/v1/policies", s.handleIngestPolicy)
	s.router.HandleFunc("GET /api/v1/policies", s.handleListPolicies)
	s.router.HandleFunc("GET /api/v1/policies/{id}", s.handleGetPolicy)
	s.router.HandleFunc("DELETE /api/v1/policies/{id}", s.handleDeletePolicy)
}

// Start starts the HTTP server with graceful shutdown
func (s *Server) Start() error {
	// Channel to listen for OS signals
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	// Start server in goroutine
	go func() {
		log.Printf("Starting server on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Wait for shutdown signal
	<-stop
	log.Println("Shutting down server...")

	// Create shutdown context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Attempt graceful shutdown
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Println("Server stopped")
	return nil
}

// Stop stops the server
func (s *Server) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

package rest

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/simaogato/papertrade-backend/internal/domain"
	"github.com/simaogato/papertrade-backend/pkg/logger"
)

// StatusService values the current portfolio
type StatusService interface {
	GetPortfolioStatus(ctx context.Context) (*domain.PortfolioSnapshot, error)
}

// TradeSimulator validates and simulates orders
type TradeSimulator interface {
	ValidateAndSimulate(symbol string, rawQuantity any, side string) (*domain.TradeResult, error)
}

// TradePreviewer checks order feasibility against the portfolio
type TradePreviewer interface {
	Preview(ctx context.Context, symbol string, rawQuantity any, side string) (*domain.TradePreview, error)
}

// Config holds server configuration
type Config struct {
	Addr     string
	Log      zerolog.Logger
	Status   StatusService
	Trades   TradeSimulator
	Previews TradePreviewer
}

// Server represents the HTTP server
type Server struct {
	router   *chi.Mux
	server   *http.Server
	log      zerolog.Logger
	status   StatusService
	trades   TradeSimulator
	previews TradePreviewer
}

// New creates a new HTTP server
func New(cfg Config) *Server {
	s := &Server{
		router:   chi.NewRouter(),
		log:      logger.Component(cfg.Log, "http_server"),
		status:   cfg.Status,
		trades:   cfg.Trades,
		previews: cfg.Previews,
	}

	s.setupMiddleware()
	s.setupRoutes()

	s.server = &http.Server{
		Addr:         cfg.Addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// setupMiddleware configures middleware
func (s *Server) setupMiddleware() {
	// Request ID
	s.router.Use(middleware.RequestID)

	// Real IP
	s.router.Use(middleware.RealIP)

	// Logging
	s.router.Use(s.loggingMiddleware)

	// Recovery from panics, answered with the trade failure shape
	s.router.Use(s.recoveryMiddleware)

	// CORS
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))
}

// setupRoutes configures all routes
func (s *Server) setupRoutes() {
	s.router.NotFound(s.handleNotFound)
	s.router.MethodNotAllowed(s.handleMethodNotAllowed)

	// Health check
	s.router.Get("/healthz", s.handleHealth)

	// API routes
	s.router.Get("/api/status", s.handleStatus)
	s.router.Post("/api/trade", s.handleTrade)
	s.router.Post("/api/trade/preview", s.handlePreview)
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.log.Info().Str("addr", s.server.Addr).Msg("Starting HTTP server")
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info().Msg("Shutting down HTTP server")
	return s.server.Shutdown(ctx)
}

// loggingMiddleware logs HTTP requests
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		s.log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("duration_ms", time.Since(start)).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("HTTP request")
	})
}

// Package app wires configuration, adapters and use cases into runnable servers.
package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	grpclib "google.golang.org/grpc"
	"google.golang.org/grpc/reflection"

	grpcadapter "github.com/simaogato/papertrade-backend/internal/adapter/grpc"
	"github.com/simaogato/papertrade-backend/internal/adapter/marketdata/mock"
	"github.com/simaogato/papertrade-backend/internal/adapter/marketdata/yahoo"
	"github.com/simaogato/papertrade-backend/internal/adapter/repository/holdings"
	"github.com/simaogato/papertrade-backend/internal/adapter/rest"
	"github.com/simaogato/papertrade-backend/internal/config"
	"github.com/simaogato/papertrade-backend/internal/domain"
	"github.com/simaogato/papertrade-backend/internal/usecase/quote"
	"github.com/simaogato/papertrade-backend/internal/usecase/trade"
	"github.com/simaogato/papertrade-backend/internal/usecase/valuation"
	"github.com/simaogato/papertrade-backend/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

// App holds the wired services
type App struct {
	Config    *config.Config
	Provider  domain.MarketDataProvider
	Holdings  domain.HoldingsSource
	Resolver  *quote.Resolver
	Valuation *valuation.ValuationService
	Validator *trade.Validator
	Previewer *trade.PreviewService

	log zerolog.Logger
}

// New wires the application from configuration
func New(cfg *config.Config, log zerolog.Logger) (*App, error) {
	provider, err := NewProvider(cfg, log)
	if err != nil {
		return nil, err
	}

	return NewWithSources(cfg, provider, NewHoldingsSource(cfg), log), nil
}

// NewWithSources wires the application around explicit provider and holdings adapters
func NewWithSources(cfg *config.Config, provider domain.MarketDataProvider, source domain.HoldingsSource, log zerolog.Logger) *App {
	resolver := quote.NewResolver(provider, cfg.QuoteTimeout, log)

	return &App{
		Config:    cfg,
		Provider:  provider,
		Holdings:  source,
		Resolver:  resolver,
		Valuation: valuation.NewValuationService(resolver, source, log),
		Validator: trade.NewValidator(log),
		Previewer: trade.NewPreviewService(resolver, source, log),
		log:       logger.Component(log, "app"),
	}
}

// NewProvider builds the configured market-data provider
func NewProvider(cfg *config.Config, log zerolog.Logger) (domain.MarketDataProvider, error) {
	switch cfg.QuoteProvider {
	case config.ProviderYahoo:
		return yahoo.NewClient(log), nil
	case config.ProviderMock:
		return mock.NewProvider(cfg.MockConfig()), nil
	default:
		return nil, fmt.Errorf("%w: %q", config.ErrUnknownProvider, cfg.QuoteProvider)
	}
}

// NewHoldingsSource builds the holdings source: the YAML file when configured, the demo book otherwise
func NewHoldingsSource(cfg *config.Config) domain.HoldingsSource {
	if cfg.HoldingsFile != "" {
		return holdings.NewFileSource(cfg.HoldingsFile)
	}
	return holdings.NewStaticSource(holdings.DemoPortfolio())
}

// HTTPServer builds the REST server
func (a *App) HTTPServer() *rest.Server {
	return rest.New(rest.Config{
		Addr:     a.Config.HTTPAddr,
		Log:      a.log,
		Status:   a.Valuation,
		Trades:   a.Validator,
		Previews: a.Previewer,
	})
}

// GRPCServer builds the gRPC server with recovery, logging and reflection
func (a *App) GRPCServer() *grpclib.Server {
	grpcServer := grpclib.NewServer(
		grpclib.ChainUnaryInterceptor(
			grpcadapter.RecoveryInterceptor(a.log),
			grpcadapter.LoggingInterceptor(a.log),
		),
	)

	grpcadapter.RegisterPaperTradeServiceServer(grpcServer, grpcadapter.NewServer(a.Valuation, a.Validator, a.Previewer, a.log))
	reflection.Register(grpcServer)

	return grpcServer
}

// Run serves HTTP and gRPC until ctx is cancelled or a listener fails, then shuts both down
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 2)

	var httpServer *rest.Server
	if a.Config.HTTPAddr != "" {
		httpServer = a.HTTPServer()
		go func() {
			if err := httpServer.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- fmt.Errorf("http server: %w", err)
			}
		}()
	}

	var grpcServer *grpclib.Server
	if a.Config.GRPCAddr != "" {
		lis, err := net.Listen("tcp", a.Config.GRPCAddr)
		if err != nil {
			if httpServer != nil {
				_ = httpServer.Shutdown(context.Background())
			}
			return fmt.Errorf("failed to listen on %s: %w", a.Config.GRPCAddr, err)
		}

		grpcServer = a.GRPCServer()
		go func() {
			a.log.Info().Str("addr", a.Config.GRPCAddr).Msg("Starting gRPC server")
			if err := grpcServer.Serve(lis); err != nil {
				errCh <- fmt.Errorf("grpc server: %w", err)
			}
		}()
	}

	var runErr error
	select {
	case <-ctx.Done():
		a.log.Info().Msg("Shutting down gracefully")
	case runErr = <-errCh:
		a.log.Error().Err(runErr).Msg("Server failed, shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if httpServer != nil {
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			a.log.Error().Err(err).Msg("HTTP server forced to shut down")
		}
	}
	if grpcServer != nil {
		grpcServer.GracefulStop()
		a.log.Info().Msg("gRPC server stopped")
	}

	return runErr
}

package grpc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/simaogato/papertrade-backend/internal/adapter/presenter"
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

// Server implements the PaperTradeService gRPC server
type Server struct {
	StatusService  StatusService
	TradeSimulator TradeSimulator
	TradePreviewer TradePreviewer
	log            zerolog.Logger
}

// NewServer creates a new gRPC server instance
func NewServer(
	statusService StatusService,
	tradeSimulator TradeSimulator,
	tradePreviewer TradePreviewer,
	log zerolog.Logger,
) *Server {
	return &Server{
		StatusService:  statusService,
		TradeSimulator: tradeSimulator,
		TradePreviewer: tradePreviewer,
		log:            logger.Component(log, "grpc_server"),
	}
}

// GetPortfolioStatus handles the GetPortfolioStatus RPC
func (s *Server) GetPortfolioStatus(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	snapshot, err := s.StatusService.GetPortfolioStatus(ctx)
	if err != nil {
		return nil, mapError(err)
	}

	return toStruct(presenter.NewStatusResponse(snapshot))
}

// SimulateTrade handles the SimulateTrade RPC
// A rejected order is a regular response with success=false
func (s *Server) SimulateTrade(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	order := presenter.TradeRequestFromMap(req.AsMap())

	result, err := s.TradeSimulator.ValidateAndSimulate(order.SymbolText(), order.Quantity, order.TypeText())
	if err != nil {
		return nil, mapError(err)
	}

	return toStruct(presenter.NewTradeResponse(result))
}

// PreviewTrade handles the PreviewTrade RPC
func (s *Server) PreviewTrade(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	order := presenter.TradeRequestFromMap(req.AsMap())

	preview, err := s.TradePreviewer.Preview(ctx, order.SymbolText(), order.Quantity, order.TypeText())
	if err != nil {
		return nil, mapError(err)
	}

	return toStruct(presenter.NewPreviewResponse(preview))
}

// toStruct converts a presenter payload to a protobuf Struct through its JSON form
func toStruct(v any) (*structpb.Struct, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "Server Error: encode response: %v", err)
	}

	out := &structpb.Struct{}
	if err := protojson.Unmarshal(data, out); err != nil {
		return nil, status.Errorf(codes.Internal, "Server Error: encode response: %v", err)
	}
	return out, nil
}

// mapError converts usecase faults to gRPC status errors
func mapError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return status.Errorf(codes.DeadlineExceeded, "%s", err.Error())
	case errors.Is(err, context.Canceled):
		return status.Errorf(codes.Canceled, "%s", err.Error())
	}

	// Everything else is an unexpected fault
	return status.Errorf(codes.Internal, "%s", fmt.Sprintf("Server Error: %s", err.Error()))
}

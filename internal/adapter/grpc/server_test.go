package grpc

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/simaogato/papertrade-backend/internal/domain"
)

// MockStatusService is a mock implementation of StatusService
type MockStatusService struct {
	mock.Mock
}

func (m *MockStatusService) GetPortfolioStatus(ctx context.Context) (*domain.PortfolioSnapshot, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PortfolioSnapshot), args.Error(1)
}

// MockTradeSimulator is a mock implementation of TradeSimulator
type MockTradeSimulator struct {
	mock.Mock
}

func (m *MockTradeSimulator) ValidateAndSimulate(symbol string, rawQuantity any, side string) (*domain.TradeResult, error) {
	args := m.Called(symbol, rawQuantity, side)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TradeResult), args.Error(1)
}

// MockTradePreviewer is a mock implementation of TradePreviewer
type MockTradePreviewer struct {
	mock.Mock
}

func (m *MockTradePreviewer) Preview(ctx context.Context, symbol string, rawQuantity any, side string) (*domain.TradePreview, error) {
	args := m.Called(ctx, symbol, rawQuantity, side)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TradePreview), args.Error(1)
}

// startServer serves srv over an in-memory listener and returns a connected client
func startServer(t *testing.T, srv PaperTradeServiceServer) *Client {
	t.Helper()

	lis := bufconn.Listen(1 << 20)
	grpcServer := grpc.NewServer(grpc.ChainUnaryInterceptor(
		RecoveryInterceptor(zerolog.Nop()),
		LoggingInterceptor(zerolog.Nop()),
	))
	RegisterPaperTradeServiceServer(grpcServer, srv)

	go func() {
		_ = grpcServer.Serve(lis)
	}()
	t.Cleanup(grpcServer.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	return NewClient(conn)
}

func tradeStruct(t *testing.T, fields map[string]any) *structpb.Struct {
	t.Helper()
	s, err := structpb.NewStruct(fields)
	require.NoError(t, err)
	return s
}

func TestGetPortfolioStatus(t *testing.T) {
	statusService := new(MockStatusService)
	holding := domain.Holding{Symbol: "RELIANCE.NS", Quantity: 10, AvgPrice: decimal.NewFromInt(2500)}
	snapshot := &domain.PortfolioSnapshot{
		CashBalance:         decimal.NewFromInt(100000),
		Holdings:            []domain.ValuedHolding{domain.NewValuedHolding(holding, decimal.NewFromInt(2600), domain.PriceSourceLive)},
		TotalMarketValue:    decimal.NewFromInt(26000),
		TotalPortfolioValue: decimal.NewFromInt(126000),
		LastUpdated:         time.Date(2024, 3, 1, 9, 15, 0, 0, time.UTC),
	}
	statusService.On("GetPortfolioStatus", mock.Anything).Return(snapshot, nil).Once()
	client := startServer(t, NewServer(statusService, new(MockTradeSimulator), new(MockTradePreviewer), zerolog.Nop()))

	resp, err := client.GetPortfolioStatus(context.Background())

	require.NoError(t, err)
	body := resp.AsMap()
	assert.Equal(t, 126000.0, body["total_portfolio_value"])
	assert.Equal(t, "2024-03-01T09:15:00.000000", body["last_updated_utc"])
	holdings := body["holdings"].([]any)
	require.Len(t, holdings, 1)
	first := holdings[0].(map[string]any)
	assert.Equal(t, "RELIANCE.NS", first["ticker"])
	assert.Equal(t, 1000.0, first["pl_absolute"])
	assert.Equal(t, 4.0, first["pl_percent"])
	statusService.AssertExpectations(t)
}

func TestGetPortfolioStatus_Fault(t *testing.T) {
	statusService := new(MockStatusService)
	statusService.On("GetPortfolioStatus", mock.Anything).Return(nil, errors.New("holdings unavailable"))
	client := startServer(t, NewServer(statusService, new(MockTradeSimulator), new(MockTradePreviewer), zerolog.Nop()))

	_, err := client.GetPortfolioStatus(context.Background())

	st, ok := status.FromError(err)
	require.True(t, ok)
	assert.Equal(t, codes.Internal, st.Code())
	assert.Equal(t, "Server Error: holdings unavailable", st.Message())
}

func TestSimulateTrade(t *testing.T) {
	simulator := new(MockTradeSimulator)
	record := &domain.TradeRecord{ID: uuid.New(), Symbol: "TCS", Quantity: 10, Side: domain.TradeSideBuy, Timestamp: time.Now().UTC()}
	// Struct numbers always arrive as float64
	simulator.On("ValidateAndSimulate", "TCS", 10.0, "BUY").
		Return(&domain.TradeResult{Success: true, Message: "done", Details: record}, nil).Once()
	client := startServer(t, NewServer(new(MockStatusService), simulator, new(MockTradePreviewer), zerolog.Nop()))

	resp, err := client.SimulateTrade(context.Background(), tradeStruct(t, map[string]any{
		"symbol": "TCS", "quantity": 10, "type": "BUY",
	}))

	require.NoError(t, err)
	body := resp.AsMap()
	assert.Equal(t, true, body["success"])
	details := body["trade_details"].(map[string]any)
	assert.Equal(t, 10.0, details["quantity"])
	assert.Equal(t, record.ID.String(), details["id"])
	simulator.AssertExpectations(t)
}

func TestSimulateTrade_RejectionIsNotAnError(t *testing.T) {
	simulator := new(MockTradeSimulator)
	simulator.On("ValidateAndSimulate", "", "abc", "BUY").Return(domain.Rejected(domain.MsgQuantityNotNumber), nil)
	client := startServer(t, NewServer(new(MockStatusService), simulator, new(MockTradePreviewer), zerolog.Nop()))

	resp, err := client.SimulateTrade(context.Background(), tradeStruct(t, map[string]any{
		"symbol": true, "quantity": "abc", "type": "BUY",
	}))

	require.NoError(t, err)
	assert.Equal(t, map[string]any{"success": false, "message": "Quantity must be a valid number."}, resp.AsMap())
}

func TestSimulateTrade_PanicBecomesInternal(t *testing.T) {
	simulator := new(MockTradeSimulator)
	simulator.On("ValidateAndSimulate", mock.Anything, mock.Anything, mock.Anything).Run(func(mock.Arguments) {
		panic("boom")
	})
	client := startServer(t, NewServer(new(MockStatusService), simulator, new(MockTradePreviewer), zerolog.Nop()))

	_, err := client.SimulateTrade(context.Background(), tradeStruct(t, map[string]any{"type": "BUY"}))

	st, ok := status.FromError(err)
	require.True(t, ok)
	assert.Equal(t, codes.Internal, st.Code())
	assert.Equal(t, "Server Error: boom", st.Message())
}

func TestPreviewTrade(t *testing.T) {
	previewer := new(MockTradePreviewer)
	preview := &domain.TradePreview{
		Symbol:   "TCS.NS",
		Side:     domain.TradeSideSell,
		Quantity: 50,
		Reason:   "Insufficient shares of TCS.NS to sell. Held: 5",
	}
	previewer.On("Preview", mock.Anything, "TCS.NS", 50.0, "SELL").Return(preview, nil).Once()
	client := startServer(t, NewServer(new(MockStatusService), new(MockTradeSimulator), previewer, zerolog.Nop()))

	resp, err := client.PreviewTrade(context.Background(), tradeStruct(t, map[string]any{
		"symbol": "TCS.NS", "quantity": 50, "type": "SELL",
	}))

	require.NoError(t, err)
	body := resp.AsMap()
	assert.Equal(t, false, body["feasible"])
	assert.Equal(t, "Insufficient shares of TCS.NS to sell. Held: 5", body["message"])
	previewer.AssertExpectations(t)
}

func TestMapError(t *testing.T) {
	tests := []struct {
		name         string
		err          error
		expectedCode codes.Code
	}{
		{"Nil", nil, codes.OK},
		{"Deadline", context.DeadlineExceeded, codes.DeadlineExceeded},
		{"Wrapped Canceled", errors.Join(errors.New("load"), context.Canceled), codes.Canceled},
		{"Unknown", errors.New("disk on fire"), codes.Internal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expectedCode, status.Code(mapError(tt.err)))
		})
	}
}

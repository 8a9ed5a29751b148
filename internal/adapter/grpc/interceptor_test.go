package grpc

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestRecoveryInterceptor(t *testing.T) {
	interceptor := RecoveryInterceptor(zerolog.Nop())

	tests := []struct {
		name           string
		handler        grpc.UnaryHandler
		expectedCode   codes.Code
		expectedErrMsg string
	}{
		{
			name: "Handler Succeeds",
			handler: func(ctx context.Context, req interface{}) (interface{}, error) {
				return "success", nil
			},
			expectedCode: codes.OK,
		},
		{
			name: "Handler Returns Error",
			handler: func(ctx context.Context, req interface{}) (interface{}, error) {
				return nil, status.Error(codes.DeadlineExceeded, "too slow")
			},
			expectedCode:   codes.DeadlineExceeded,
			expectedErrMsg: "too slow",
		},
		{
			name: "Handler Panics",
			handler: func(ctx context.Context, req interface{}) (interface{}, error) {
				panic("quote feed exploded")
			},
			expectedCode:   codes.Internal,
			expectedErrMsg: "Server Error: quote feed exploded",
		},
		{
			name: "Handler Panics With Error",
			handler: func(ctx context.Context, req interface{}) (interface{}, error) {
				panic(errors.New("nil map"))
			},
			expectedCode:   codes.Internal,
			expectedErrMsg: "Server Error: nil map",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := &grpc.UnaryServerInfo{
				FullMethod: "/test.Service/Method",
			}

			resp, err := interceptor(context.Background(), "test-request", info, tt.handler)

			if tt.expectedCode == codes.OK {
				assert.NoError(t, err)
				assert.Equal(t, "success", resp)
			} else {
				assert.Error(t, err)
				assert.Nil(t, resp)
				st, ok := status.FromError(err)
				assert.True(t, ok, "error should be a gRPC status")
				assert.Equal(t, tt.expectedCode, st.Code())
				assert.Contains(t, st.Message(), tt.expectedErrMsg)
			}
		})
	}
}

func TestLoggingInterceptor(t *testing.T) {
	var buf bytes.Buffer
	interceptor := LoggingInterceptor(zerolog.New(&buf))
	info := &grpc.UnaryServerInfo{FullMethod: SimulateTradeMethod}

	resp, err := interceptor(context.Background(), "req", info, func(ctx context.Context, req interface{}) (interface{}, error) {
		return "ok", nil
	})

	assert.NoError(t, err)
	assert.Equal(t, "ok", resp)
	assert.Contains(t, buf.String(), `"method":"/papertrade.v1.PaperTradeService/SimulateTrade"`)
	assert.Contains(t, buf.String(), `"code":"OK"`)
	assert.Contains(t, buf.String(), `"level":"info"`)

	buf.Reset()
	_, err = interceptor(context.Background(), "req", info, func(ctx context.Context, req interface{}) (interface{}, error) {
		return nil, status.Error(codes.Internal, "broken")
	})

	assert.Error(t, err)
	assert.Contains(t, buf.String(), `"code":"Internal"`)
	assert.Contains(t, buf.String(), `"level":"warn"`)
}

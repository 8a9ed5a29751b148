package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully-qualified gRPC service name
const ServiceName = "papertrade.v1.PaperTradeService"

// Full method names
const (
	GetPortfolioStatusMethod = "/" + ServiceName + "/GetPortfolioStatus"
	SimulateTradeMethod      = "/" + ServiceName + "/SimulateTrade"
	PreviewTradeMethod       = "/" + ServiceName + "/PreviewTrade"
)

// PaperTradeServiceServer is the server API for the PaperTradeService
// Payloads are well-known protobuf types mirroring the REST JSON shapes.
type PaperTradeServiceServer interface {
	GetPortfolioStatus(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	SimulateTrade(context.Context, *structpb.Struct) (*structpb.Struct, error)
	PreviewTrade(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

// RegisterPaperTradeServiceServer registers srv on s
func RegisterPaperTradeServiceServer(s grpc.ServiceRegistrar, srv PaperTradeServiceServer) {
	s.RegisterService(&PaperTradeServiceDesc, srv)
}

// PaperTradeServiceDesc describes the PaperTradeService
var PaperTradeServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*PaperTradeServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "GetPortfolioStatus", Handler: getPortfolioStatusHandler},
		{MethodName: "SimulateTrade", Handler: simulateTradeHandler},
		{MethodName: "PreviewTrade", Handler: previewTradeHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "papertrade/v1/papertrade.proto",
}

func getPortfolioStatusHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(PaperTradeServiceServer).GetPortfolioStatus(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: GetPortfolioStatusMethod}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(PaperTradeServiceServer).GetPortfolioStatus(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

func simulateTradeHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(PaperTradeServiceServer).SimulateTrade(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: SimulateTradeMethod}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(PaperTradeServiceServer).SimulateTrade(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

func previewTradeHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(PaperTradeServiceServer).PreviewTrade(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: PreviewTradeMethod}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(PaperTradeServiceServer).PreviewTrade(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

// Client is a thin PaperTradeService client over any connection
type Client struct {
	cc grpc.ClientConnInterface
}

// NewClient creates a new Client
func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

// GetPortfolioStatus calls the GetPortfolioStatus RPC
func (c *Client) GetPortfolioStatus(ctx context.Context, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, GetPortfolioStatusMethod, &emptypb.Empty{}, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// SimulateTrade calls the SimulateTrade RPC
func (c *Client) SimulateTrade(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, SimulateTradeMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// PreviewTrade calls the PreviewTrade RPC
func (c *Client) PreviewTrade(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, PreviewTradeMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

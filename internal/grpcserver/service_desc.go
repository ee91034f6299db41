package grpcserver

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "jobmate.match.v1.MatchService"

// MatchServiceServer is the server API. Requests and responses are
// google.protobuf.Struct documents carrying the same JSON shapes as the REST
// API, so gateway clients need no generated stubs.
type MatchServiceServer interface {
	ScoreApplication(context.Context, *structpb.Struct) (*structpb.Struct, error)
	SubmitFeedback(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetWeights(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ResetWeights(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

type unaryMethod func(MatchServiceServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func handler(method string, call unaryMethod) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(MatchServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + ServiceName + "/" + method}
		return interceptor(ctx, in, info, func(ctx context.Context, req any) (any, error) {
			return call(srv.(MatchServiceServer), ctx, req.(*structpb.Struct))
		})
	}
}

// ServiceDesc describes MatchService for grpc.Server.RegisterService.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*MatchServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "ScoreApplication", Handler: handler("ScoreApplication", MatchServiceServer.ScoreApplication)},
		{MethodName: "SubmitFeedback", Handler: handler("SubmitFeedback", MatchServiceServer.SubmitFeedback)},
		{MethodName: "GetWeights", Handler: handler("GetWeights", MatchServiceServer.GetWeights)},
		{MethodName: "ResetWeights", Handler: handler("ResetWeights", MatchServiceServer.ResetWeights)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "jobmate/match/v1/match.proto",
}

// RegisterMatchServiceServer registers srv on s.
func RegisterMatchServiceServer(s grpc.ServiceRegistrar, srv MatchServiceServer) {
	s.RegisterService(&ServiceDesc, srv)
}

// MatchServiceClient is the client API for MatchService.
type MatchServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewMatchServiceClient wraps cc.
func NewMatchServiceClient(cc grpc.ClientConnInterface) *MatchServiceClient {
	return &MatchServiceClient{cc: cc}
}

func (c *MatchServiceClient) invoke(ctx context.Context, method string, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, "/"+ServiceName+"/"+method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// ScoreApplication calls MatchService.ScoreApplication.
func (c *MatchServiceClient) ScoreApplication(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, "ScoreApplication", in, opts...)
}

// SubmitFeedback calls MatchService.SubmitFeedback.
func (c *MatchServiceClient) SubmitFeedback(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, "SubmitFeedback", in, opts...)
}

// GetWeights calls MatchService.GetWeights.
func (c *MatchServiceClient) GetWeights(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, "GetWeights", in, opts...)
}

// ResetWeights calls MatchService.ResetWeights.
func (c *MatchServiceClient) ResetWeights(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, "ResetWeights", in, opts...)
}

// Package grpcserver implements the MatchService gRPC server.
//
// It delegates all business logic to match.Service and handles
// only the gRPC transport concerns: metadata extraction, error mapping,
// and conversion between domain records and Struct messages.
package grpcserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"jobmate/match-service/internal/match"
	"jobmate/match-service/internal/ratelimit"
	"jobmate/match-service/internal/store"
)

// Service is the subset of *match.Service exposed over gRPC.
type Service interface {
	ScoreApplication(ctx context.Context, userID, appID string) (*store.ScoreRecord, error)
	SubmitFeedback(ctx context.Context, userID, appID, outcome string, accuracy int, factor string) (*store.FeedbackRecord, error)
	GetWeights(ctx context.Context, userID string) (*store.WeightsRecord, error)
	ResetWeights(ctx context.Context, userID string) (*store.WeightsRecord, error)
}

// Server implements MatchServiceServer.
type Server struct {
	svc Service
}

// NewServer constructs a gRPC Server backed by svc.
func NewServer(svc Service) *Server {
	return &Server{svc: svc}
}

// New builds a grpc.Server with MatchService and the standard health
// service registered. limiter may be nil.
func New(svc Service, limiter *ratelimit.Limiter) *grpc.Server {
	var opts []grpc.ServerOption
	if limiter != nil {
		opts = append(opts, grpc.UnaryInterceptor(RateLimitInterceptor(limiter)))
	}
	s := grpc.NewServer(opts...)
	RegisterMatchServiceServer(s, NewServer(svc))

	hs := health.NewServer()
	hs.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(s, hs)
	return s
}

// ─── RPC implementations ──────────────────────────────────────────────────────

// ScoreApplication scores the caller's application and returns the record.
func (s *Server) ScoreApplication(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	userID, err := userIDFromCtx(ctx)
	if err != nil {
		return nil, err
	}
	appID, err := requiredString(req, "applicationId")
	if err != nil {
		return nil, err
	}

	rec, err := s.svc.ScoreApplication(ctx, userID, appID)
	if err != nil {
		return nil, toGRPCError(err)
	}
	return toStruct(rec)
}

// SubmitFeedback records feedback and returns the calibrated weights.
func (s *Server) SubmitFeedback(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	userID, err := userIDFromCtx(ctx)
	if err != nil {
		return nil, err
	}
	appID, err := requiredString(req, "applicationId")
	if err != nil {
		return nil, err
	}

	accuracy, err := requiredInt(req, "accuracy")
	if err != nil {
		return nil, err
	}
	fields := req.GetFields()
	rec, err := s.svc.SubmitFeedback(ctx, userID, appID,
		fields["outcome"].GetStringValue(), accuracy, fields["factor"].GetStringValue())
	if err != nil {
		return nil, toGRPCError(err)
	}
	return toStruct(rec)
}

// GetWeights returns the caller's weights.
func (s *Server) GetWeights(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	userID, err := userIDFromCtx(ctx)
	if err != nil {
		return nil, err
	}
	rec, err := s.svc.GetWeights(ctx, userID)
	if err != nil {
		return nil, toGRPCError(err)
	}
	return toStruct(rec)
}

// ResetWeights restores the caller's default weights.
func (s *Server) ResetWeights(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	userID, err := userIDFromCtx(ctx)
	if err != nil {
		return nil, err
	}
	rec, err := s.svc.ResetWeights(ctx, userID)
	if err != nil {
		return nil, toGRPCError(err)
	}
	return toStruct(rec)
}

// ─── Interceptors ────────────────────────────────────────────────────────────

// RateLimitInterceptor applies limiter per x-user-id. Calls without a user
// (health checks) are not limited.
func RateLimitInterceptor(limiter *ratelimit.Limiter) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, next grpc.UnaryHandler) (any, error) {
		userID, err := userIDFromCtx(ctx)
		if err != nil {
			return next(ctx, req)
		}
		if d := limiter.Allow(ctx, userID); !d.Allowed {
			return nil, status.Errorf(codes.ResourceExhausted, "rate limit exceeded, retry after %s", d.ResetAt.UTC().Format("15:04:05"))
		}
		return next(ctx, req)
	}
}

// ─── Helpers ─────────────────────────────────────────────────────────────────

// userIDFromCtx extracts the x-user-id value forwarded by the Gateway
// via gRPC metadata.
func userIDFromCtx(ctx context.Context) (string, error) {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return "", status.Error(codes.Unauthenticated, "missing metadata")
	}
	vals := md.Get("x-user-id")
	if len(vals) == 0 || vals[0] == "" {
		return "", status.Error(codes.Unauthenticated, "missing x-user-id metadata")
	}
	return vals[0], nil
}

func requiredString(req *structpb.Struct, key string) (string, error) {
	v := req.GetFields()[key].GetStringValue()
	if v == "" {
		return "", status.Errorf(codes.InvalidArgument, "%s is required", key)
	}
	return v, nil
}

// requiredInt reads a whole number. Struct carries every number as a
// double, so 3.7 is rejected rather than truncated.
func requiredInt(req *structpb.Struct, key string) (int, error) {
	v, ok := req.GetFields()[key].GetKind().(*structpb.Value_NumberValue)
	if !ok {
		return 0, status.Errorf(codes.InvalidArgument, "%s must be a number", key)
	}
	n := v.NumberValue
	if n != math.Trunc(n) || math.IsInf(n, 0) || math.Abs(n) > math.MaxInt32 {
		return 0, status.Errorf(codes.InvalidArgument, "%s must be an integer", key)
	}
	return int(n), nil
}

// toGRPCError maps domain errors to gRPC status errors.
func toGRPCError(err error) error {
	if errors.Is(err, match.ErrNotFound) {
		return status.Error(codes.NotFound, err.Error())
	}
	var ve *match.ValidationError
	if errors.As(err, &ve) {
		return status.Error(codes.InvalidArgument, ve.Msg)
	}
	return status.Error(codes.Internal, "internal server error")
}

// toStruct converts a record to a Struct through its JSON form so both
// transports share one wire shape.
func toStruct(v any) (*structpb.Struct, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, status.Error(codes.Internal, fmt.Sprintf("encode response: %v", err))
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, status.Error(codes.Internal, fmt.Sprintf("encode response: %v", err))
	}
	out, err := structpb.NewStruct(m)
	if err != nil {
		return nil, status.Error(codes.Internal, fmt.Sprintf("encode response: %v", err))
	}
	return out, nil
}

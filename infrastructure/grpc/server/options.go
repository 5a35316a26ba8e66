package server

import (
	"context"
	"fmt"
	"learning-lab/auth"
	pb "learning-lab/proto/learning"
	"log/slog"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ServerOptions gathers the codec and the interceptor chains of the learning server.
// The identity check runs last so it sees streams already covered by logging and recovery.
func ServerOptions(log *slog.Logger) []grpc.ServerOption {
	return []grpc.ServerOption{
		pb.ServerCodec(),
		grpc.ChainUnaryInterceptor(
			LoggingUnaryInterceptor(log),
			RecoveryUnaryInterceptor(log),
		),
		grpc.ChainStreamInterceptor(
			LoggingStreamInterceptor(log),
			RecoveryStreamInterceptor(log),
			auth.IdentityStreamInterceptor,
		),
	}
}

// NewGRPCServer builds a gRPC server exposing the learning service.
func NewGRPCServer(log *slog.Logger, learningServer pb.LearningServer) *grpc.Server {
	s := grpc.NewServer(ServerOptions(log)...)
	pb.RegisterLearningServer(s, learningServer)
	return s
}

func LoggingUnaryInterceptor(log *slog.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		log.Debug("unary call",
			"method", info.FullMethod,
			"code", status.Code(err).String(),
			"duration", time.Since(start))
		return resp, err
	}
}

func LoggingStreamInterceptor(log *slog.Logger) grpc.StreamServerInterceptor {
	return func(srv any, ss grpc.ServerStream, info *grpc.StreamServerInfo, handler grpc.StreamHandler) error {
		start := time.Now()
		err := handler(srv, ss)
		log.Debug("stream call",
			"method", info.FullMethod,
			"code", status.Code(err).String(),
			"duration", time.Since(start))
		return err
	}
}

// RecoveryUnaryInterceptor turns a handler panic into an Internal error
// so one faulty call never brings the process down.
func RecoveryUnaryInterceptor(log *slog.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (resp any, err error) {
		defer func() {
			if r := recover(); r != nil {
				log.Error("unary handler panicked", "method", info.FullMethod, "panic", r)
				err = status.Error(codes.Internal, fmt.Sprintf("panic: %v", r))
			}
		}()
		return handler(ctx, req)
	}
}

func RecoveryStreamInterceptor(log *slog.Logger) grpc.StreamServerInterceptor {
	return func(srv any, ss grpc.ServerStream, info *grpc.StreamServerInfo, handler grpc.StreamHandler) (err error) {
		defer func() {
			if r := recover(); r != nil {
				log.Error("stream handler panicked", "method", info.FullMethod, "panic", r)
				err = status.Error(codes.Internal, fmt.Sprintf("panic: %v", r))
			}
		}()
		return handler(srv, ss)
	}
}

package e2e

import (
	"context"
	"encoding/json"
	"fmt"
	"learning-lab/infrastructure/grpc/server"
	"learning-lab/observability"
	pb "learning-lab/proto/learning"
	"learning-lab/runtime"
	"learning-lab/services"
	"log/slog"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/gookit/color"
	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/suite"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

type BaseGrpcSuite struct {
	suite.Suite
	Config Config

	server *grpc.Server
}

// SetupSuite loads the environment configuration and, without LEARNING_ADDR,
// starts a full server on a loopback port.
func (s *BaseGrpcSuite) SetupSuite() {
	var err error
	s.Config, err = LoadConfig()
	s.Require().NoError(err)

	if s.Config.LearningAddr != "" {
		return
	}
	log := logs.GetLoggerFromLevel(slog.LevelWarn)
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	s.Require().NoError(err)

	chatService := services.NewChatService(log, runtime.NewRegistry(), observability.NewChatStats())
	learningServer := server.NewLearningServer(log, chatService, services.NewCalculatorService(false), 64)
	s.server = server.NewGRPCServer(log, learningServer)
	go func() {
		_ = s.server.Serve(lis)
	}()
	s.Config.LearningAddr = lis.Addr().String()
}

func (s *BaseGrpcSuite) TearDownSuite() {
	if s.server != nil {
		s.server.Stop()
	}
}

// GrpcConn initializes a gRPC connection with logging, colors, and JSON debugging
func (s *BaseGrpcSuite) GrpcConn(t *testing.T, name string, addr string) *grpc.ClientConn {
	header := fmt.Sprintf("  ====== %s ======", name)
	if s.Config.Colours {
		header = color.New(color.BgBlack, color.FgGreen).Render(header)
	}
	t.Log(header)

	conn, err := grpc.NewClient(addr,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		pb.WithCodec(),
		grpc.WithUnaryInterceptor(func(ctx context.Context, method string, req, reply any, cc *grpc.ClientConn, invoker grpc.UnaryInvoker, opts ...grpc.CallOption) error {
			start := time.Now()
			err := invoker(ctx, method, req, reply, cc, opts...)

			logBuilder := strings.Builder{}
			fmt.Fprintf(&logBuilder, "GRPC %s [%s] in %v", method, status.Code(err), time.Since(start))

			// Log full JSON request/response bodies if E2E_DEBUG_JSON is enabled
			if s.Config.DebugJSON {
				fmt.Fprintln(&logBuilder, "\nREQUEST:")
				fmt.Fprintln(&logBuilder, asJSON(req))
				if err != nil {
					fmt.Fprintln(&logBuilder, "ERROR:", err)
				} else {
					fmt.Fprintln(&logBuilder, "RESPONSE:")
					fmt.Fprintln(&logBuilder, asJSON(reply))
				}
			}
			t.Log(logBuilder.String())
			return err
		}),
		grpc.WithStreamInterceptor(func(ctx context.Context, desc *grpc.StreamDesc, cc *grpc.ClientConn, method string, streamer grpc.Streamer, opts ...grpc.CallOption) (grpc.ClientStream, error) {
			t.Logf("GRPC stream %s opened", method)
			return streamer(ctx, desc, cc, method, opts...)
		}),
	)
	s.Require().NoError(err, "Failed to connect to gRPC server at "+addr)
	return conn
}

// WithLearning provides a Learning client within a contextual test step
func (s *BaseGrpcSuite) WithLearning(name string, fn func(ctx context.Context, client pb.LearningClient)) {
	conn := s.GrpcConn(s.T(), name, s.Config.LearningAddr)
	defer conn.Close()

	client := pb.NewLearningClient(conn)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	fn(ctx, client)
}

// AsUser attaches the chat identity to the outgoing metadata.
func AsUser(ctx context.Context, username string) context.Context {
	return metadata.AppendToOutgoingContext(ctx, "username", username)
}

func asJSON(v any) string {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf("%+v", v)
	}
	return string(b)
}

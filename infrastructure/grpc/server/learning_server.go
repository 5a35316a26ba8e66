package server

import (
	"context"
	stderrors "errors"
	"io"
	"learning-lab/auth"
	"learning-lab/errors"
	pb "learning-lab/proto/learning"
	"learning-lab/services"
	"learning-lab/sink"
	"log/slog"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const pong = "Pong"

type LearningServer struct {
	pb.UnimplementedLearningServer
	log                  *slog.Logger
	chatService          services.IChatService
	calculatorService    services.ICalculatorService
	connectionBufferSize int
}

func NewLearningServer(log *slog.Logger, chatService services.IChatService,
	calculatorService services.ICalculatorService, connectionBufferSize int) *LearningServer {
	return &LearningServer{
		log:                  log,
		chatService:          chatService,
		calculatorService:    calculatorService,
		connectionBufferSize: connectionBufferSize,
	}
}

func (s *LearningServer) PingPong(_ context.Context, req *pb.PingRequest) (*pb.PongResponse, error) {
	s.log.Info("ping received", "message", req.GetMessage())
	return &pb.PongResponse{Message: pong}, nil
}

// ComputeAverage answers once the client half-closes its stream.
func (s *LearningServer) ComputeAverage(stream grpc.ClientStreamingServer[pb.ComputeAverageRequest, pb.ComputeAverageResponse]) error {
	averager := s.calculatorService.NewAverager()
	for {
		req, err := stream.Recv()
		if stderrors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}
		s.log.Debug("number received", "number", req.GetNumber())
		averager.Add(req.GetNumber())
	}

	average, err := averager.Average()
	if err != nil {
		return errors.MapToGRPCError(err)
	}
	return stream.SendAndClose(&pb.ComputeAverageResponse{Average: average})
}

func (s *LearningServer) PrimeNumberDecomposition(req *pb.PrimeNumberDecompositionRequest,
	stream grpc.ServerStreamingServer[pb.PrimeNumberDecompositionResponse]) error {
	s.log.Debug("decomposing", "number", req.GetNumber())
	err := s.calculatorService.PrimeFactors(req.GetNumber(), func(factor int64) error {
		return stream.Send(&pb.PrimeNumberDecompositionResponse{PrimeFactor: factor})
	})
	return errors.MapToGRPCError(err)
}

// Chat relays the participant's messages to everyone else for as long as the stream lives.
// Outbound messages go through a dedicated sink drained by its own goroutine,
// so a slow recipient never stalls this connection's read loop.
// The handler returns only once the sink is drained, farewell included.
func (s *LearningServer) Chat(stream grpc.BidiStreamingServer[pb.ChatRequest, pb.ChatResponse]) error {
	identity, ok := auth.IdentityFromContext(stream.Context())
	if !ok {
		return status.Error(codes.InvalidArgument, errors.ErrMissingIdentity.Error())
	}
	connectionID := uuid.NewString()
	log := s.log.With("identity", identity, "connection_id", connectionID)
	log.Info("chat stream opened")

	outbound := sink.NewGrpcSink(log, s.connectionBufferSize)
	delivered := make(chan error, 1)
	go func() {
		delivered <- outbound.Deliver(stream)
	}()

	sessionErr := s.chatService.Join(identity, chatInbound{stream: stream}, outbound)
	if deliverErr := <-delivered; deliverErr != nil {
		log.Debug("outbound stream ended early", "error", deliverErr)
	}

	if sessionErr != nil {
		if stream.Context().Err() != nil {
			log.Info("chat stream aborted by client")
			return nil
		}
		log.Warn("chat stream ended with error", "error", sessionErr)
		return errors.MapToGRPCError(sessionErr)
	}
	log.Info("chat stream closed")
	return nil
}

// chatInbound adapts the receiving half of the chat stream.
type chatInbound struct {
	stream grpc.BidiStreamingServer[pb.ChatRequest, pb.ChatResponse]
}

func (i chatInbound) Next() (string, error) {
	req, err := i.stream.Recv()
	if err != nil {
		return "", err
	}
	return req.GetMessage(), nil
}

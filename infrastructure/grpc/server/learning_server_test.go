package server

import (
	"context"
	"io"
	"learning-lab/domain/chat"
	"learning-lab/observability"
	pb "learning-lab/proto/learning"
	"learning-lab/runtime"
	"learning-lab/services"
	"log/slog"
	"net"
	"testing"
	"time"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/encoding/protowire"
)

type testServer struct {
	conn        *grpc.ClientConn
	client      pb.LearningClient
	chatService *services.ChatService
}

func newTestServer(t *testing.T, legacyTrailingFactor bool) testServer {
	t.Helper()
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	lis := bufconn.Listen(1 << 20)

	chatService := services.NewChatService(log, runtime.NewRegistry(), observability.NewChatStats())
	learningServer := NewLearningServer(log, chatService, services.NewCalculatorService(legacyTrailingFactor), 16)
	s := NewGRPCServer(log, learningServer)
	go func() {
		_ = s.Serve(lis)
	}()

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		pb.WithCodec(),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = conn.Close()
		s.Stop()
	})
	return testServer{conn: conn, client: pb.NewLearningClient(conn), chatService: chatService}
}

func testContext(t *testing.T) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func TestLearningServer_PingPong(t *testing.T) {
	req := require.New(t)
	ts := newTestServer(t, false)

	resp, err := ts.client.PingPong(testContext(t), &pb.PingRequest{Message: "Ping"})

	req.NoError(err)
	req.Equal("Pong", resp.GetMessage())
}

func TestLearningServer_ComputeAverage(t *testing.T) {
	req := require.New(t)
	ts := newTestServer(t, false)

	stream, err := ts.client.ComputeAverage(testContext(t))
	req.NoError(err)
	for _, n := range []int32{1, 2, 3, 4} {
		req.NoError(stream.Send(&pb.ComputeAverageRequest{Number: n}))
	}
	resp, err := stream.CloseAndRecv()

	req.NoError(err)
	req.Equal(2.5, resp.GetAverage())
}

func TestLearningServer_ComputeAverageOfNothingIsAnError(t *testing.T) {
	req := require.New(t)
	ts := newTestServer(t, false)

	stream, err := ts.client.ComputeAverage(testContext(t))
	req.NoError(err)
	_, err = stream.CloseAndRecv()

	req.Equal(codes.InvalidArgument, status.Code(err))
}

func decompose(t *testing.T, client pb.LearningClient, n int64) ([]int64, error) {
	stream, err := client.PrimeNumberDecomposition(testContext(t), &pb.PrimeNumberDecompositionRequest{Number: n})
	require.NoError(t, err)
	var factors []int64
	for {
		resp, err := stream.Recv()
		if err == io.EOF {
			return factors, nil
		}
		if err != nil {
			return factors, err
		}
		factors = append(factors, resp.GetPrimeFactor())
	}
}

func TestLearningServer_PrimeNumberDecomposition(t *testing.T) {
	req := require.New(t)

	factors, err := decompose(t, newTestServer(t, false).client, 12)
	req.NoError(err)
	req.Equal([]int64{2, 2, 3}, factors)

	factors, err = decompose(t, newTestServer(t, true).client, 12)
	req.NoError(err)
	req.Equal([]int64{2, 2, 3, 3}, factors)

	_, err = decompose(t, newTestServer(t, false).client, 0)
	req.Equal(codes.InvalidArgument, status.Code(err))
}

func openChat(t *testing.T, client pb.LearningClient, username string) grpc.BidiStreamingClient[pb.ChatRequest, pb.ChatResponse] {
	t.Helper()
	ctx := metadata.AppendToOutgoingContext(testContext(t), "username", username)
	stream, err := client.Chat(ctx)
	require.NoError(t, err)
	return stream
}

func join(t *testing.T, ts testServer, username string) grpc.BidiStreamingClient[pb.ChatRequest, pb.ChatResponse] {
	t.Helper()
	stream := openChat(t, ts.client, username)
	require.NoError(t, stream.Send(&pb.ChatRequest{Message: "hi, " + username + " here"}))
	require.Eventually(t, func() bool {
		for _, id := range ts.chatService.Participants() {
			if id == chat.Identity(username) {
				return true
			}
		}
		return false
	}, 2*time.Second, 5*time.Millisecond)
	return stream
}

func recvAll(t *testing.T, stream grpc.BidiStreamingClient[pb.ChatRequest, pb.ChatResponse]) []*pb.ChatResponse {
	t.Helper()
	var all []*pb.ChatResponse
	for {
		resp, err := stream.Recv()
		if err == io.EOF {
			return all
		}
		require.NoError(t, err)
		all = append(all, resp)
	}
}

func TestLearningServer_ChatRelaysToOthersAndSaysGoodbye(t *testing.T) {
	req := require.New(t)
	ts := newTestServer(t, false)

	bob := join(t, ts, "bob")
	alice := join(t, ts, "alice")

	resp, err := bob.Recv()
	req.NoError(err)
	req.Equal(&pb.ChatResponse{Username: "alice", Message: "hi, alice here"}, resp)

	req.NoError(alice.Send(&pb.ChatRequest{Message: "how are you?"}))
	resp, err = bob.Recv()
	req.NoError(err)
	req.Equal(&pb.ChatResponse{Username: "alice", Message: "how are you?"}, resp)

	req.NoError(alice.CloseSend())
	req.Equal([]*pb.ChatResponse{{Username: "Server", Message: "See you later"}}, recvAll(t, alice))

	resp, err = bob.Recv()
	req.NoError(err)
	req.Equal(&pb.ChatResponse{Username: "alice", Message: "Left the chat"}, resp)

	req.NoError(bob.CloseSend())
	req.Equal([]*pb.ChatResponse{{Username: "Server", Message: "See you later"}}, recvAll(t, bob))
	req.Eventually(func() bool { return len(ts.chatService.Participants()) == 0 }, time.Second, 5*time.Millisecond)
}

func TestLearningServer_ChatWithoutUsernameIsRejected(t *testing.T) {
	req := require.New(t)
	ts := newTestServer(t, false)

	stream, err := ts.client.Chat(testContext(t))
	req.NoError(err)
	_, err = stream.Recv()

	req.Equal(codes.InvalidArgument, status.Code(err))
	req.Empty(ts.chatService.Participants())
}

func TestLearningServer_ChatRejectsSecondClaimOfLiveIdentity(t *testing.T) {
	req := require.New(t)
	ts := newTestServer(t, false)

	alice := join(t, ts, "alice")
	impostor := openChat(t, ts.client, "alice")
	req.NoError(impostor.Send(&pb.ChatRequest{Message: "I am alice"}))

	_, err := impostor.Recv()
	req.Equal(codes.AlreadyExists, status.Code(err))
	req.Equal([]chat.Identity{"alice"}, ts.chatService.Participants())

	req.NoError(alice.CloseSend())
	req.Equal([]*pb.ChatResponse{{Username: "Server", Message: "See you later"}}, recvAll(t, alice))
}

func TestLearningServer_ClientCancelUnregistersParticipant(t *testing.T) {
	req := require.New(t)
	ts := newTestServer(t, false)

	bob := join(t, ts, "bob")

	ctx, cancel := context.WithCancel(testContext(t))
	stream, err := ts.client.Chat(metadata.AppendToOutgoingContext(ctx, "username", "carol"))
	req.NoError(err)
	req.NoError(stream.Send(&pb.ChatRequest{Message: "brb"}))

	resp, err := bob.Recv()
	req.NoError(err)
	req.Equal("brb", resp.GetMessage())

	cancel()

	resp, err = bob.Recv()
	req.NoError(err)
	req.Equal(&pb.ChatResponse{Username: "carol", Message: "Left the chat"}, resp)
	req.Equal([]chat.Identity{"bob"}, ts.chatService.Participants())

	req.NoError(bob.CloseSend())
	recvAll(t, bob)
}

// rawFrame is sent as is, bypassing the message validation of the learning codec.
type rawFrame []byte

type rawCodec struct{}

func (rawCodec) Marshal(v any) ([]byte, error) { return *v.(*rawFrame), nil }

func (rawCodec) Unmarshal(data []byte, v any) error {
	*v.(*rawFrame) = append(rawFrame(nil), data...)
	return nil
}

func (rawCodec) Name() string { return "proto" }

func TestLearningServer_ChatDropsConnectionSendingInvalidUTF8(t *testing.T) {
	req := require.New(t)
	ts := newTestServer(t, false)

	bob := join(t, ts, "bob")

	ctx := metadata.AppendToOutgoingContext(testContext(t), "username", "mallory")
	raw, err := ts.conn.NewStream(ctx, &pb.Learning_ServiceDesc.Streams[2], pb.Learning_Chat_FullMethodName,
		grpc.ForceCodec(rawCodec{}))
	req.NoError(err)

	valid := rawFrame(protowire.AppendString(protowire.AppendTag(nil, 1, protowire.BytesType), "hello"))
	req.NoError(raw.SendMsg(&valid))
	resp, err := bob.Recv()
	req.NoError(err)
	req.Equal(&pb.ChatResponse{Username: "mallory", Message: "hello"}, resp)

	invalid := rawFrame(protowire.AppendBytes(protowire.AppendTag(nil, 1, protowire.BytesType), []byte{0xff, 0xfe, 'h', 'i'}))
	req.NoError(raw.SendMsg(&invalid))

	var frame rawFrame
	for err == nil {
		err = raw.RecvMsg(&frame)
	}
	req.NotEqual(codes.OK, status.Code(err))

	// bob only learns that mallory left and keeps chatting
	resp, err = bob.Recv()
	req.NoError(err)
	req.Equal(&pb.ChatResponse{Username: "mallory", Message: "Left the chat"}, resp)
	req.Equal([]chat.Identity{"bob"}, ts.chatService.Participants())

	req.NoError(bob.CloseSend())
	req.Equal([]*pb.ChatResponse{{Username: "Server", Message: "See you later"}}, recvAll(t, bob))
}

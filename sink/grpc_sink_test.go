package sink

import (
	"fmt"
	"learning-lab/domain/chat"
	"learning-lab/errors"
	pb "learning-lab/proto/learning"
	"log/slog"
	"sync"
	"testing"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
)

type recordingSender struct {
	mu        sync.Mutex
	responses []*pb.ChatResponse
	err       error
}

func (r *recordingSender) Send(resp *pb.ChatResponse) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.responses = append(r.responses, resp)
	return nil
}

func TestGrpcSink_DeliversInPushOrderUntilClosed(t *testing.T) {
	req := require.New(t)
	s := NewGrpcSink(logs.GetLoggerFromLevel(slog.LevelDebug), 8)
	sender := &recordingSender{}

	req.NoError(s.Push(chat.NewMessage("alice", "one")))
	req.NoError(s.Push(chat.NewMessage("alice", "two")))
	req.NoError(s.Push(chat.Farewell()))
	req.NoError(s.Close())

	req.NoError(s.Deliver(sender))
	req.Equal([]*pb.ChatResponse{
		{Username: "alice", Message: "one"},
		{Username: "alice", Message: "two"},
		{Username: "Server", Message: "See you later"},
	}, sender.responses)
}

func TestGrpcSink_PushAfterCloseFails(t *testing.T) {
	req := require.New(t)
	s := NewGrpcSink(logs.GetLoggerFromLevel(slog.LevelDebug), 1)

	req.NoError(s.Close())
	req.NoError(s.Close())

	req.ErrorIs(s.Push(chat.NewMessage("bob", "late")), errors.ErrSinkClosed)
}

func TestGrpcSink_FullBufferDropsMessage(t *testing.T) {
	req := require.New(t)
	s := NewGrpcSink(logs.GetLoggerFromLevel(slog.LevelDebug), 1)

	req.NoError(s.Push(chat.NewMessage("bob", "fits")))
	req.ErrorIs(s.Push(chat.NewMessage("bob", "dropped")), errors.ErrSinkFull)

	length, capacity := s.Backlog()
	req.Equal(1, length)
	req.Equal(1, capacity)
}

func TestGrpcSink_SendFailureClosesSink(t *testing.T) {
	req := require.New(t)
	s := NewGrpcSink(logs.GetLoggerFromLevel(slog.LevelDebug), 4)
	gone := fmt.Errorf("stream gone")

	req.NoError(s.Push(chat.NewMessage("bob", "hello")))
	req.NoError(s.Push(chat.NewMessage("bob", "again")))

	err := s.Deliver(&recordingSender{err: gone})

	req.ErrorIs(err, gone)
	req.ErrorIs(s.Push(chat.NewMessage("bob", "after")), errors.ErrSinkClosed)
}

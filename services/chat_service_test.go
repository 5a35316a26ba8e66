package services

import (
	"io"
	"learning-lab/domain/chat"
	"learning-lab/mocks"
	"learning-lab/observability"
	"learning-lab/runtime"
	"log/slog"
	"testing"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestChatService_JoinRunsTheWholeSession(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	stats := observability.NewChatStats()
	service := NewChatService(log, runtime.NewRegistry(), stats)

	inbound := mocks.NewMockInbound(ctrl)
	sink := mocks.NewMockSink(ctrl)

	var participantsWhileActive []chat.Identity
	gomock.InOrder(
		inbound.EXPECT().Next().Return("hi", nil),
		inbound.EXPECT().Next().DoAndReturn(func() (string, error) {
			participantsWhileActive = service.Participants()
			return "", io.EOF
		}),
		sink.EXPECT().Push(gomock.Any()).DoAndReturn(func(msg chat.Message) error {
			req.Equal(chat.ServerIdentity, msg.Sender)
			req.Equal(chat.FarewellText, msg.Text)
			return nil
		}),
		sink.EXPECT().Close().Return(nil),
	)

	req.NoError(service.Join("alice", inbound, sink))
	req.Equal([]chat.Identity{"alice"}, participantsWhileActive)
	req.Empty(service.Participants())

	snapshot := stats.Snapshot()
	req.Equal(uint64(1), snapshot.Messages)
	req.Equal(uint64(1), snapshot.Departures)
	req.Zero(snapshot.ActiveSessions)
}

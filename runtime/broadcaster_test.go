package runtime

import (
	"fmt"
	"learning-lab/contract"
	"learning-lab/domain/chat"
	"learning-lab/errors"
	"learning-lab/mocks"
	"learning-lab/observability"
	"log/slog"
	"sync"
	"testing"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestBroadcaster_SkipsSender(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)

	alice := mocks.NewMockSink(ctrl)
	bob := mocks.NewMockSink(ctrl)
	registry := mocks.NewMockRegistry(ctrl)
	msg := chat.NewMessage("alice", "hello")

	registry.EXPECT().Snapshot().Return([]contract.Participant{
		{Identity: "alice", Sink: alice},
		{Identity: "bob", Sink: bob},
	})
	bob.EXPECT().Push(msg).Return(nil).Times(1)
	alice.EXPECT().Push(gomock.Any()).Times(0)

	delivery := NewBroadcaster(log, registry, nil).Broadcast("alice", msg)

	req.Equal(chat.Delivery{Delivered: 1}, delivery)
}

func TestBroadcaster_FailedPushDoesNotAbortNorUnregister(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	stats := observability.NewChatStats()

	gone := mocks.NewMockSink(ctrl)
	carol := mocks.NewMockSink(ctrl)
	registry := mocks.NewMockRegistry(ctrl)
	msg := chat.NewMessage("alice", "anyone there?")

	registry.EXPECT().Snapshot().Return([]contract.Participant{
		{Identity: "bob", Sink: gone},
		{Identity: "carol", Sink: carol},
	})
	registry.EXPECT().Unregister(gomock.Any()).Times(0)
	gone.EXPECT().Push(msg).Return(errors.ErrSinkClosed)
	carol.EXPECT().Push(msg).Return(nil)

	delivery := NewBroadcaster(log, registry, stats).Broadcast("alice", msg)

	req.Equal(chat.Delivery{Delivered: 1, Failed: 1}, delivery)
	req.Equal(uint64(1), stats.Snapshot().FailedPushes)
	req.Equal(uint64(1), stats.Snapshot().Delivered)
}

func TestBroadcaster_FanOutReachesEveryOtherParticipant(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelInfo)
	registry := NewRegistry()
	broadcaster := NewBroadcaster(log, registry, nil)

	const participants = 12
	sinks := make(map[chat.Identity]*recordingSink, participants)
	for i := 0; i < participants; i++ {
		id := chat.Identity(fmt.Sprintf("user-%02d", i))
		sinks[id] = newRecordingSink()
		req.True(registry.Register(id, sinks[id]))
	}

	var wg sync.WaitGroup
	for id := range sinks {
		wg.Add(1)
		go func(sender chat.Identity) {
			defer wg.Done()
			broadcaster.Broadcast(sender, chat.NewMessage(sender, "hi from "+string(sender)))
		}(id)
	}
	wg.Wait()

	for id, sink := range sinks {
		received := sink.Messages()
		req.Len(received, participants-1, "participant %s", id)
		senders := make(map[chat.Identity]struct{})
		for _, m := range received {
			req.NotEqual(id, m.Sender, "participant %s received its own message", id)
			senders[m.Sender] = struct{}{}
		}
		req.Len(senders, participants-1)
	}
}

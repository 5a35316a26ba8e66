package services

import (
	"learning-lab/contract"
	"learning-lab/domain/chat"
	"learning-lab/observability"
	"learning-lab/runtime"
	"log/slog"
)

type IChatService interface {
	Join(identity chat.Identity, inbound contract.Inbound, sink contract.Sink) error
	Participants() []chat.Identity
}

// ChatService owns the process-wide registry and runs one session per connection.
type ChatService struct {
	log         *slog.Logger
	registry    *runtime.Registry
	broadcaster *runtime.Broadcaster
	stats       *observability.ChatStats
}

func NewChatService(log *slog.Logger, registry *runtime.Registry, stats *observability.ChatStats) *ChatService {
	return &ChatService{
		log:         log,
		registry:    registry,
		broadcaster: runtime.NewBroadcaster(log, registry, stats),
		stats:       stats,
	}
}

// Join blocks for the whole life of the connection.
// The sink is closed when Join returns.
func (s *ChatService) Join(identity chat.Identity, inbound contract.Inbound, sink contract.Sink) error {
	session := runtime.NewSession(s.log, identity, sink, s.registry, s.broadcaster, s.stats)
	return session.Run(inbound)
}

func (s *ChatService) Participants() []chat.Identity {
	return s.registry.Identities()
}

package runtime

import (
	"learning-lab/contract"
	"learning-lab/domain/chat"
	"learning-lab/observability"
	"log/slog"
)

var _ contract.Broadcaster = (*Broadcaster)(nil)

// Broadcaster fans a message out to every registered participant but its sender.
//
// Delivery is best-effort: a failing sink is logged and counted, the loop
// goes on with the remaining targets, and the failing entry stays registered.
// Only the owning session removes its own entry, when its stream ends.
type Broadcaster struct {
	log      *slog.Logger
	registry contract.Registry
	stats    *observability.ChatStats
}

func NewBroadcaster(log *slog.Logger, registry contract.Registry, stats *observability.ChatStats) *Broadcaster {
	return &Broadcaster{log: log, registry: registry, stats: stats}
}

func (b *Broadcaster) Broadcast(sender chat.Identity, msg chat.Message) chat.Delivery {
	var delivery chat.Delivery
	for _, p := range b.registry.Snapshot() {
		if p.Identity == sender {
			continue
		}
		if err := p.Sink.Push(msg); err != nil {
			delivery.Failed++
			b.stats.IncrFailedPushes()
			b.log.Warn("failed to push message",
				"sender", sender,
				"target", p.Identity,
				"message_id", msg.ID,
				"error", err)
			continue
		}
		delivery.Delivered++
	}
	b.stats.AddDelivered(delivery.Delivered)
	return delivery
}

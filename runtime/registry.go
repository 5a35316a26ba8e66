package runtime

import (
	"learning-lab/contract"
	"learning-lab/domain/chat"
	"slices"
	"strings"
	"sync"

	"github.com/samber/lo"
)

var _ contract.Registry = (*Registry)(nil)

// Registry maps every active participant to the sink of its connection.
// It is process-wide and holds at most one entry per identity.
type Registry struct {
	mu       sync.RWMutex
	sessions map[chat.Identity]contract.Sink
}

func NewRegistry() *Registry {
	return &Registry{
		sessions: make(map[chat.Identity]contract.Sink),
	}
}

// Register inserts the participant only if its identity is free.
// The first registration wins: a later claim never replaces the live sink,
// and the caller learns about it through the returned value.
func (r *Registry) Register(identity chat.Identity, sink contract.Sink) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[identity]; ok {
		return false
	}
	r.sessions[identity] = sink
	return true
}

// Unregister removes the participant, if present.
func (r *Registry) Unregister(identity chat.Identity) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.sessions, identity)
}

// Snapshot copies the registry under the lock so callers can iterate
// while other connections keep joining and leaving.
// Participants are sorted by identity.
func (r *Registry) Snapshot() []contract.Participant {
	r.mu.RLock()
	participants := lo.MapToSlice(r.sessions, func(identity chat.Identity, sink contract.Sink) contract.Participant {
		return contract.Participant{Identity: identity, Sink: sink}
	})
	r.mu.RUnlock()

	slices.SortFunc(participants, func(a, b contract.Participant) int {
		return strings.Compare(string(a.Identity), string(b.Identity))
	})
	return participants
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Identities returns the sorted identities currently registered.
func (r *Registry) Identities() []chat.Identity {
	return lo.Map(r.Snapshot(), func(p contract.Participant, _ int) chat.Identity {
		return p.Identity
	})
}

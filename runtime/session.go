package runtime

import (
	stderrors "errors"
	"fmt"
	"io"
	"learning-lab/contract"
	"learning-lab/domain/chat"
	"learning-lab/errors"
	"learning-lab/observability"
	"log/slog"
	"sync"
	"sync/atomic"
)

// Session drives one chat connection through Idle -> Active -> Terminated.
//
// The identity is resolved once, before the session starts. The participant is
// registered lazily on its first message, every message is broadcast to the
// others, and the termination sequence runs exactly once whatever ends the stream.
type Session struct {
	log         *slog.Logger
	identity    chat.Identity
	sink        contract.Sink
	registry    contract.Registry
	broadcaster contract.Broadcaster
	stats       *observability.ChatStats

	state      atomic.Int32
	registered bool
	rejected   bool
	terminate  sync.Once
}

func NewSession(log *slog.Logger, identity chat.Identity, sink contract.Sink,
	registry contract.Registry, broadcaster contract.Broadcaster, stats *observability.ChatStats) *Session {
	return &Session{
		log:         log.With("identity", identity),
		identity:    identity,
		sink:        sink,
		registry:    registry,
		broadcaster: broadcaster,
		stats:       stats,
	}
}

func (s *Session) State() chat.State {
	return chat.State(s.state.Load())
}

// Run reads inbound messages until the stream ends and then terminates the session.
// A graceful half-close returns nil; any other receive error is returned as is.
func (s *Session) Run(inbound contract.Inbound) (err error) {
	s.stats.SessionOpened()
	defer s.stats.SessionClosed()
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("chat session panicked", "panic", r)
			err = fmt.Errorf("%w: %v", errors.ErrSessionPanic, r)
		}
		s.Terminate()
	}()

	for {
		text, recvErr := inbound.Next()
		if recvErr != nil {
			if stderrors.Is(recvErr, io.EOF) {
				s.log.Debug("participant closed its stream")
				return nil
			}
			s.log.Warn("participant disconnected", "error", recvErr)
			return recvErr
		}
		if handleErr := s.handle(text); handleErr != nil {
			return handleErr
		}
	}
}

func (s *Session) handle(text string) error {
	if s.State() == chat.Idle {
		if !s.registry.Register(s.identity, s.sink) {
			s.rejected = true
			s.stats.IncrRejectedClaims()
			s.log.Warn("identity already claimed by another connection")
			return errors.ErrIdentityInUse
		}
		s.registered = true
		s.state.Store(int32(chat.Active))
		s.log.Info("participant joined")
	}

	msg := chat.NewMessage(s.identity, text)
	s.stats.IncrMessages()
	delivery := s.broadcaster.Broadcast(s.identity, msg)
	s.log.Debug("message broadcast",
		"message_id", msg.ID,
		"delivered", delivery.Delivered,
		"failed", delivery.Failed)
	return nil
}

// Terminate unregisters the participant, notifies the others, says goodbye
// to the participant and closes its sink. Only the first call has an effect.
//
// The farewell is best-effort: it is lost when the participant's own buffer is full.
//
// A connection rejected for claiming a live identity skips the departure
// notice: the identity it claimed is still present.
func (s *Session) Terminate() {
	s.terminate.Do(func() {
		defer s.state.Store(int32(chat.Terminated))

		if s.registered {
			s.registry.Unregister(s.identity)
		}
		if !s.rejected {
			s.broadcaster.Broadcast(s.identity, chat.Departure(s.identity))
			s.stats.IncrDepartures()
			if err := s.sink.Push(chat.Farewell()); err != nil {
				s.log.Warn("farewell not delivered", "error", err)
			}
		}
		if err := s.sink.Close(); err != nil {
			s.log.Debug("failed to close sink", "error", err)
		}
		s.log.Info("participant left")
	})
}

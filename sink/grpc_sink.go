package sink

import (
	"learning-lab/contract"
	"learning-lab/domain/chat"
	"learning-lab/errors"
	pb "learning-lab/proto/learning"
	"log/slog"
	"sync"
)

var _ contract.Sink = (*GrpcSink)(nil)

// Sender is the outbound half of a chat stream.
type Sender interface {
	Send(*pb.ChatResponse) error
}

// GrpcSink buffers the messages addressed to one connection.
// Broadcasters only enqueue; Deliver, running on the connection's own
// goroutine, is the single writer of the underlying stream.
type GrpcSink struct {
	log      *slog.Logger
	mu       sync.RWMutex
	closed   bool
	outbound chan chat.Message
}

func NewGrpcSink(log *slog.Logger, bufferSize int) *GrpcSink {
	return &GrpcSink{
		log:      log,
		outbound: make(chan chat.Message, bufferSize),
	}
}

// Push never blocks. It fails once the sink is closed or when the
// recipient's buffer is full, in which case the message is dropped.
func (s *GrpcSink) Push(msg chat.Message) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return errors.ErrSinkClosed
	}
	select {
	case s.outbound <- msg:
		return nil
	default:
		return errors.ErrSinkFull
	}
}

// Close stops accepting messages. Messages already buffered are still delivered.
func (s *GrpcSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.closed = true
		close(s.outbound)
	}
	return nil
}

// Backlog reports how many messages wait in the buffer and how many it can hold.
// Reading len and cap never blocks, so it is safe to sample at any time.
func (s *GrpcSink) Backlog() (length, capacity int) {
	return len(s.outbound), cap(s.outbound)
}

// Deliver forwards buffered messages to the stream until the sink is closed
// and drained. A send failure closes the sink and is returned.
func (s *GrpcSink) Deliver(sender Sender) error {
	for msg := range s.outbound {
		if err := sender.Send(toChatResponse(msg)); err != nil {
			s.log.Debug("failed to send message, closing sink", "message_id", msg.ID, "error", err)
			_ = s.Close()
			s.discard()
			return err
		}
	}
	return nil
}

// discard drops what is left in a closed sink.
func (s *GrpcSink) discard() {
	for range s.outbound {
	}
}

func toChatResponse(msg chat.Message) *pb.ChatResponse {
	return &pb.ChatResponse{
		Username: string(msg.Sender),
		Message:  msg.Text,
	}
}

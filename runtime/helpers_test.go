package runtime

import (
	"learning-lab/domain/chat"
	"learning-lab/errors"
	"sync"
)

// recordingSink keeps every pushed message in memory.
type recordingSink struct {
	mu       sync.Mutex
	messages []chat.Message
	closed   bool
	closes   int
	failing  bool
}

func newRecordingSink() *recordingSink {
	return &recordingSink{}
}

func (s *recordingSink) Push(msg chat.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || s.failing {
		return errors.ErrSinkClosed
	}
	s.messages = append(s.messages, msg)
	return nil
}

func (s *recordingSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.closes++
	return nil
}

func (s *recordingSink) Messages() []chat.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]chat.Message(nil), s.messages...)
}

func (s *recordingSink) Closes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closes
}

func texts(messages []chat.Message) []string {
	res := make([]string, 0, len(messages))
	for _, m := range messages {
		res = append(res, string(m.Sender)+": "+m.Text)
	}
	return res
}

// scriptedInbound replays texts and then returns end.
type scriptedInbound struct {
	texts []string
	end   error
}

func (i *scriptedInbound) Next() (string, error) {
	if len(i.texts) == 0 {
		return "", i.end
	}
	text := i.texts[0]
	i.texts = i.texts[1:]
	return text, nil
}

// channelInbound lets a test feed a running session step by step.
type channelInbound struct {
	texts chan string
	end   chan error
}

func newChannelInbound() *channelInbound {
	return &channelInbound{texts: make(chan string), end: make(chan error, 1)}
}

func (i *channelInbound) Next() (string, error) {
	select {
	case text := <-i.texts:
		return text, nil
	case err := <-i.end:
		return "", err
	}
}

// panickingInbound crashes on the first read.
type panickingInbound struct{}

func (panickingInbound) Next() (string, error) {
	panic("transport exploded")
}

// Package chat contains the core concepts of the chat relay.
// Messages are immutable values; no runtime, network or UI logic belongs here.
package chat

import (
	"time"

	"github.com/google/uuid"
)

// Identity is the participant name claimed once per connection.
type Identity string

const (
	// ServerIdentity signs messages produced by the relay itself.
	ServerIdentity Identity = "Server"

	DepartureText = "Left the chat"
	FarewellText  = "See you later"
)

// Message represents an immutable chat line.
type Message struct {
	ID     uuid.UUID // unique identifier
	Sender Identity
	Text   string
	SentAt time.Time
}

func NewMessage(sender Identity, text string) Message {
	return Message{
		ID:     uuid.New(),
		Sender: sender,
		Text:   text,
		SentAt: time.Now().UTC(),
	}
}

// Departure is broadcast to the remaining participants when identity leaves.
func Departure(identity Identity) Message {
	return NewMessage(identity, DepartureText)
}

// Farewell is pushed to the leaving participant only.
func Farewell() Message {
	return NewMessage(ServerIdentity, FarewellText)
}

// Delivery summarizes one broadcast.
type Delivery struct {
	Delivered int
	Failed    int
}

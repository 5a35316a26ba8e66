//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"context"
	"learning-lab/domain/chat"
	"reflect"
)

type ISupervisor interface {
	Add(worker ...Worker) ISupervisor
	Run(ctx context.Context)
	Start(ctx context.Context, worker Worker)
	Stop()
}

type WorkerName string

// Worker doesn't protect itself
// Can be silly, focused
type Worker interface {
	Run(ctx context.Context) error
}

// GetWorkerName uses reflection to retrieve the type name of the worker.
// This is used for logging and supervision purposes during worker initialization
// or lifecycle events, avoiding the need for manual naming in the Worker interface.
func GetWorkerName(w Worker) string {
	if w == nil {
		return "NilWorker"
	}
	t := reflect.TypeOf(w)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}

// Sink is the outbound side of exactly one connection.
// Push is best-effort and fails once the connection is gone.
type Sink interface {
	Push(msg chat.Message) error
	Close() error
}

type Participant struct {
	Identity chat.Identity
	Sink     Sink
}

type Registry interface {
	Register(identity chat.Identity, sink Sink) bool
	Unregister(identity chat.Identity)
	Snapshot() []Participant
	Len() int
}

type Broadcaster interface {
	Broadcast(sender chat.Identity, msg chat.Message) chat.Delivery
}

// Inbound yields the text of each message a participant sends.
// It returns io.EOF once the participant half-closes its stream.
type Inbound interface {
	Next() (string, error)
}

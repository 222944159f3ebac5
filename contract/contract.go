//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"chat-relay/domain"
	"context"
	"reflect"
	"time"
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

// Signer is the agent's identity on the ledger.
type Signer interface {
	Address() string
	Sign(payload []byte) []byte
}

// Row is a raw record of a room table as stored by the ledger.
type Row struct {
	TxRef     domain.TxRef
	Table     string
	Signer    string
	Payload   []byte
	WrittenAt time.Time
}

// Ledger is the external ledger SDK. Address derivation is pure and deterministic.
type Ledger interface {
	DeriveTableAddress(namespaceID string, key domain.RoomKey) (string, error)
	WriteRow(ctx context.Context, signer Signer, namespaceID string, key domain.RoomKey, payload []byte) (domain.TxRef, error)
	ReadRows(ctx context.Context, table string, limit int) ([]Row, error)
}

// MessageSource is one tier of the inbound read path.
type MessageSource interface {
	Fetch(ctx context.Context, room domain.Chatroom, limit int) ([]domain.Message, error)
}

// MessageConsumer receives every new inbound message surfaced by the polling loop.
type MessageConsumer interface {
	Consume(ctx context.Context, room string, message domain.Message) error
}

// Tracker is a best-effort side channel.
// Callers run Track in a detached goroutine and discard its error.
type Tracker interface {
	Track(ctx context.Context, room string, message domain.Message) error
}

// RoomDirectory exposes the connected rooms in insertion order.
type RoomDirectory interface {
	ListRooms() []string
}

// InboundReader reads the most recent messages of a room, never failing.
type InboundReader interface {
	Read(ctx context.Context, limit int, roomRef string) []domain.Message
}

// SeenSet remembers message ids already dispatched.
type SeenSet interface {
	Contains(id string) bool
	Add(id string) bool
}

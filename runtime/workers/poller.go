package workers

import (
	"chat-relay/contract"
	"chat-relay/domain"
	"chat-relay/domain/event"
	"context"
	"fmt"
	"log/slog"
	"time"
)

const (
	DefaultBatchSize    = 20
	DefaultPollInterval = 5 * time.Second
)

// PollingWorker sweeps every connected room, one after the other, and hands
// new messages to the consumer. Messages already seen and messages written by
// the local identity are skipped. The consumer is awaited, so a slow consumer
// delays the remaining rooms of the sweep.
type PollingWorker struct {
	log         *slog.Logger
	rooms       contract.RoomDirectory
	reader      contract.InboundReader
	seen        contract.SeenSet
	consumer    contract.MessageConsumer
	events      chan<- event.Event
	selfAddress string
	batchSize   int
	interval    time.Duration
}

func NewPollingWorker(log *slog.Logger, rooms contract.RoomDirectory, reader contract.InboundReader,
	seen contract.SeenSet, consumer contract.MessageConsumer, events chan<- event.Event,
	selfAddress string, batchSize int, interval time.Duration) *PollingWorker {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &PollingWorker{
		log:         log,
		rooms:       rooms,
		reader:      reader,
		seen:        seen,
		consumer:    consumer,
		events:      events,
		selfAddress: selfAddress,
		batchSize:   batchSize,
		interval:    interval,
	}
}

// Run sweeps until ctx is canceled, sleeping interval between two sweeps.
func (w *PollingWorker) Run(ctx context.Context) error {
	w.log.Info("Starting polling worker", "interval", w.interval, "batch", w.batchSize)
	for {
		w.Sweep(ctx)
		select {
		case <-ctx.Done():
			w.log.Debug("Stopping polling worker")
			return ctx.Err()
		case <-time.After(w.interval):
		}
	}
}

// Sweep polls every room once and returns how many messages were dispatched.
// The room list is read fresh on each sweep.
func (w *PollingWorker) Sweep(ctx context.Context) int {
	dispatched := 0
	for _, room := range w.rooms.ListRooms() {
		if ctx.Err() != nil {
			return dispatched
		}
		n, err := w.pollRoom(ctx, room)
		dispatched += n
		if err != nil {
			w.log.Error("Polling room failed", "room", room, "error", err)
		}
	}
	return dispatched
}

func (w *PollingWorker) pollRoom(ctx context.Context, room string) (dispatched int, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic while polling %s: %v", room, r)
		}
	}()

	for _, message := range w.reader.Read(ctx, w.batchSize, room) {
		if !w.isNew(message) {
			continue
		}
		if !event.Publish(w.events, event.NewMessageReceived(room, message)) {
			w.log.Debug("Message received event dropped", "room", room, "id", message.ID)
		}
		if err := w.consumer.Consume(ctx, room, message); err != nil {
			w.log.Warn("Consumer rejected message", "room", room, "id", message.ID, "error", err)
			continue
		}
		dispatched++
	}
	return dispatched, nil
}

// isNew marks the message as seen unless it was already seen or is our own.
func (w *PollingWorker) isNew(message domain.Message) bool {
	if message.ID == "" || w.seen.Contains(message.ID) {
		return false
	}
	if w.selfAddress != "" && message.SenderAddress == w.selfAddress {
		return false
	}
	return w.seen.Add(message.ID)
}

package runtime

import (
	"chat-relay/contract"
	"chat-relay/domain"
	"chat-relay/domain/event"
	"chat-relay/errors"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"
)

// OutboundWriter persists one message per call into a room's ledger table.
type OutboundWriter struct {
	log         *slog.Logger
	capability  Capability
	registry    *Registry
	resolver    *Resolver
	seen        contract.SeenSet
	tracker     contract.Tracker
	events      chan<- event.Event
	agentName   string
	namespaceID string
	timeout     time.Duration
	now         func() time.Time
}

func NewOutboundWriter(log *slog.Logger, capability Capability, registry *Registry, resolver *Resolver,
	seen contract.SeenSet, tracker contract.Tracker, events chan<- event.Event,
	agentName, namespaceID string, timeout time.Duration) *OutboundWriter {
	return &OutboundWriter{
		log:         log,
		capability:  capability,
		registry:    registry,
		resolver:    resolver,
		seen:        seen,
		tracker:     tracker,
		events:      events,
		agentName:   agentName,
		namespaceID: namespaceID,
		timeout:     timeout,
		now:         time.Now,
	}
}

// Send writes content to the room referenced by roomRef (the default room when empty).
// The write is attempted exactly once and its error is returned as is.
func (w *OutboundWriter) Send(ctx context.Context, content, roomRef string) (domain.TxRef, error) {
	ledger, ok := writeCapable(w.capability)
	if !ok || ledger.Signer == nil {
		return "", errors.ErrNotInitialized
	}
	if strings.TrimSpace(content) == "" {
		return "", errors.ErrEmptyContent
	}

	room := w.registry.EnsureRoom(w.resolver.Resolve(roomRef))
	message := domain.NewMessage(w.agentName, ledger.Signer.Address(), content, w.now())

	payload, err := json.Marshal(message)
	if err != nil {
		return "", err
	}

	writeCtx, cancel := w.withTimeout(ctx)
	defer cancel()
	txRef, err := ledger.Ledger.WriteRow(writeCtx, ledger.Signer, w.namespaceID, room.Key, payload)
	if err != nil {
		w.log.Error("Failed to send message", "room", room.Name, "id", message.ID, "error", err)
		return "", err
	}

	w.seen.Add(message.ID)
	w.track(room.Name, message.InRoom(room.Name))
	if !event.Publish(w.events, event.NewMessageSent(room.Name, message.InRoom(room.Name), txRef)) {
		w.log.Debug("Message sent event dropped", "room", room.Name, "id", message.ID)
	}
	w.log.Info("Message sent", "room", room.Name, "id", message.ID, "tx", txRef)
	return txRef, nil
}

// track runs the tracker detached from the caller. Its outcome is discarded.
func (w *OutboundWriter) track(room string, message domain.Message) {
	if w.tracker == nil {
		return
	}
	go func() {
		defer func() { _ = recover() }()
		ctx, cancel := w.withTimeout(context.Background())
		defer cancel()
		_ = w.tracker.Track(ctx, room, message)
	}()
}

func (w *OutboundWriter) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if w.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, w.timeout)
}

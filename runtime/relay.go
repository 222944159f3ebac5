// Package runtime owns the chat relay state: connected rooms, the seen-set,
// the outbound and inbound paths and the supervised polling loop.
// It orchestrates the system without talking to any transport directly.
package runtime

import (
	"chat-relay/contract"
	"chat-relay/domain"
	"chat-relay/domain/event"
	"chat-relay/runtime/workers"
	"context"
	"log/slog"
	"sync"
	"time"
)

// Options are loaded once at startup and never change afterwards.
// A zero MetricInterval disables the event bus sampling.
type Options struct {
	AgentName            string
	NamespaceID          string
	DefaultRoom          string
	Rooms                []string
	PollInterval         time.Duration
	BatchSize            int
	RequestTimeout       time.Duration
	SeenCapacity         int
	EventBufferSize      int
	MetricInterval       time.Duration
	LowCapacityThreshold int
}

type Relay struct {
	mu         sync.Mutex
	log        *slog.Logger
	options    Options
	capability Capability
	supervisor contract.ISupervisor
	consumer   contract.MessageConsumer
	events     chan event.Event
	handlers   []event.Handler
	counter    *event.Counter
	registry   *Registry
	resolver   *Resolver
	seen       *SeenSet
	writer     *OutboundWriter
	reader     *InboundReader
	poller     *workers.PollingWorker
	registered bool
}

// NewRelay wires the relay and connects the default and configured rooms.
// events is the bus shared with the supervisor; when nil a bus of
// EventBufferSize is created. Events raised before Start stay buffered.
func NewRelay(log *slog.Logger, supervisor contract.ISupervisor, events chan event.Event, capability Capability,
	tracker contract.Tracker, consumer contract.MessageConsumer, options Options, tiers ...Tier) *Relay {
	if options.EventBufferSize <= 0 {
		options.EventBufferSize = 256
	}
	if capability == nil {
		capability = ReadOnly{}
	}
	if events == nil {
		events = make(chan event.Event, options.EventBufferSize)
	}
	counter := event.NewCounter()
	registry := NewRegistry(log, capability, options.NamespaceID, events)
	resolver := NewResolver(registry, options.DefaultRoom)
	seen := NewSeenSet(options.SeenCapacity)

	r := &Relay{
		log:        log,
		options:    options,
		capability: capability,
		supervisor: supervisor,
		consumer:   consumer,
		events:     events,
		counter:    counter,
		registry:   registry,
		resolver:   resolver,
		seen:       seen,
		writer: NewOutboundWriter(log, capability, registry, resolver, seen, tracker, events,
			options.AgentName, options.NamespaceID, options.RequestTimeout),
		reader: NewInboundReader(log, registry, resolver, options.RequestTimeout, tiers...),
		handlers: []event.Handler{
			event.NewRoomConnectedHandler(log, counter),
			event.NewMessageSentHandler(log, counter),
			event.NewMessageReceivedHandler(log, counter),
			event.NewWorkerRestartedAfterPanicHandler(log, counter),
			event.NewChannelCapacityHandler(log, counter, options.LowCapacityThreshold),
		},
	}

	registry.EnsureRoom(options.DefaultRoom)
	for _, room := range options.Rooms {
		registry.EnsureRoom(room)
	}
	return r
}

// AddHandlers registers extra event handlers. It must be called before Start.
func (r *Relay) AddHandlers(handlers ...event.Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers = append(r.handlers, handlers...)
}

func (r *Relay) Events() chan<- event.Event {
	return r.events
}

func (r *Relay) Send(ctx context.Context, content, roomRef string) (domain.TxRef, error) {
	return r.writer.Send(ctx, content, roomRef)
}

func (r *Relay) Read(ctx context.Context, limit int, roomRef string) []domain.Message {
	return r.reader.Read(ctx, limit, roomRef)
}

func (r *Relay) Resolve(ref string) string {
	return r.resolver.Resolve(ref)
}

// JoinRoom registers name as is, without fuzzy matching.
func (r *Relay) JoinRoom(name string) domain.Chatroom {
	return r.registry.EnsureRoom(name)
}

func (r *Relay) ListRooms() []string {
	return r.registry.ListRooms()
}

func (r *Relay) Room(name string) (domain.Chatroom, bool) {
	return r.registry.Get(name)
}

func (r *Relay) SelfAddress() string {
	return r.capability.SelfAddress()
}

func (r *Relay) Stats() map[event.Type]uint64 {
	return r.counter.Snapshot()
}

// Poller exposes the polling worker so callers can run bounded sweeps.
func (r *Relay) Poller() *workers.PollingWorker {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pollerLocked()
}

func (r *Relay) pollerLocked() *workers.PollingWorker {
	if r.poller == nil {
		r.poller = workers.NewPollingWorker(r.log, r.registry, r.reader, r.seen, r.consumer, r.events,
			r.capability.SelfAddress(), r.options.BatchSize, r.options.PollInterval)
	}
	return r.poller
}

// Start registers the polling and fanout workers and blocks until ctx is
// canceled or Stop is called. Workers are registered on the first Start only,
// a later Start runs the same set again.
func (r *Relay) Start(ctx context.Context) error {
	r.mu.Lock()
	if !r.registered {
		r.registerWorkersLocked()
		r.registered = true
	}
	r.mu.Unlock()

	r.log.Info("Starting relay", "rooms", r.registry.ListRooms(), "self", r.capability.SelfAddress())
	r.supervisor.Run(ctx)
	return nil
}

func (r *Relay) registerWorkersLocked() {
	r.supervisor.Add(workers.NewEventFanout(r.log, r.events, r.handlers...))
	if r.options.MetricInterval > 0 {
		r.supervisor.Add(workers.NewChannelCapacityWorker(r.log,
			[]workers.NamedChannel{{Name: "events", Channel: r.events}}, r.events, r.options.MetricInterval))
	}
	if r.consumer != nil {
		r.supervisor.Add(r.pollerLocked())
	} else {
		r.log.Warn("No message consumer configured, polling disabled")
	}
}

// Stop cancels the supervised workers.
func (r *Relay) Stop() {
	r.log.Info("Requesting relay shutdown")
	r.supervisor.Stop()
}

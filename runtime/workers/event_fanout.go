package workers

import (
	"chat-relay/domain/event"
	"context"
	"log/slog"
)

// EventFanout broadcasts relay events to in-process handlers.
//
// It provides best-effort fan-out with no guarantees regarding delivery,
// ordering, durability, or retries. EventFanout is not a message broker.
// Producers publish without blocking; a slow handler only delays the fanout.
type EventFanout struct {
	log      *slog.Logger
	events   <-chan event.Event
	handlers []event.Handler
}

func NewEventFanout(log *slog.Logger, events <-chan event.Event, handlers ...event.Handler) *EventFanout {
	return &EventFanout{log: log, events: events, handlers: handlers}
}

func (w *EventFanout) Run(ctx context.Context) error {
	for {
		select {
		case evt, ok := <-w.events:
			if !ok {
				return nil
			}
			w.Fanout(evt)
		case <-ctx.Done():
			w.log.Debug("Context done, stopping event fanout")
			return ctx.Err()
		}
	}
}

// Fanout One handler call for each event
func (w *EventFanout) Fanout(evt event.Event) {
	for _, handler := range w.handlers {
		w.handle(handler, evt)
	}
}

func (w *EventFanout) handle(handler event.Handler, evt event.Event) {
	defer func() {
		if r := recover(); r != nil {
			w.log.Error("Event handler panicked", "type", evt.Type, "panic", r)
		}
	}()
	handler.Handle(evt)
}

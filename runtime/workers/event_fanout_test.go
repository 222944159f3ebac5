package workers

import (
	"chat-relay/domain"
	"chat-relay/domain/event"
	"context"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
)

type recordingHandler struct {
	mu     sync.Mutex
	events []event.Event
}

func (h *recordingHandler) Handle(evt event.Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, evt)
}

func (h *recordingHandler) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.events)
}

type panickingHandler struct{}

func (panickingHandler) Handle(event.Event) { panic("handler boom") }

func TestEventFanout_Fanout(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	first, second := &recordingHandler{}, &recordingHandler{}

	// Given a panicking handler between two healthy ones
	fanout := NewEventFanout(log, nil, first, panickingHandler{}, second)

	// When an event is fanned out
	fanout.Fanout(event.NewRoomConnected(domain.NewChatroom("General")))

	// Then every healthy handler received it
	req.Equal(1, first.count())
	req.Equal(1, second.count())
}

func TestEventFanout_Run(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	handler := &recordingHandler{}
	events := make(chan event.Event, 10)
	fanout := NewEventFanout(log, events, handler)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- fanout.Run(ctx) }()

	// Given three published events
	for i := 0; i < 3; i++ {
		req.True(event.Publish(events, event.NewMessageReceived("General", domain.Message{ID: "m"})))
	}

	// Then all of them reach the handler
	req.Eventually(func() bool { return handler.count() == 3 }, time.Second, 10*time.Millisecond)

	// When the context is canceled the worker stops
	cancel()
	select {
	case err := <-done:
		req.ErrorIs(err, context.Canceled)
	case <-time.After(time.Second):
		req.Fail("Fanout did not stop")
	}
}

package workers

import (
	"chat-relay/domain/event"
	"context"
	"log/slog"
	"reflect"
	"time"
)

type NamedChannel struct {
	Name    string
	Channel any
}

// ChannelCapacityWorker periodically samples the length and capacity of channels.
// Reading len and cap is non-blocking, so this won't interfere with other
// goroutines. A sample dropped on a full bus is fine: the next one follows.
type ChannelCapacityWorker struct {
	log            *slog.Logger
	channels       []NamedChannel
	events         chan<- event.Event
	metricInterval time.Duration
}

func NewChannelCapacityWorker(log *slog.Logger, channels []NamedChannel, events chan<- event.Event,
	metricInterval time.Duration) *ChannelCapacityWorker {
	return &ChannelCapacityWorker{log: log, channels: channels, events: events, metricInterval: metricInterval}
}

func (w *ChannelCapacityWorker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.metricInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Context done, stopping channel sampling")
			return ctx.Err()
		case <-ticker.C:
			w.Sample()
		}
	}
}

// Sample publishes one CHANNEL_CAPACITY event per channel.
func (w *ChannelCapacityWorker) Sample() {
	for _, nc := range w.channels {
		v := reflect.ValueOf(nc.Channel)
		if v.Kind() != reflect.Chan {
			w.log.Error("Provided object is not a channel", "name", nc.Name)
			continue
		}
		if !event.Publish(w.events, event.NewChannelCapacity(nc.Name, v.Cap(), v.Len())) {
			w.log.Debug("Channel capacity sample lost", "name", nc.Name)
		}
	}
}

package event

import (
	"chat-relay/errors"
	"fmt"
	"log/slog"
)

// ChannelCapacityHandler warns when an internal channel is close to full.
// A full event bus means notifications start being dropped.
type ChannelCapacityHandler struct {
	log                  *slog.Logger
	counter              *Counter
	lowCapacityThreshold int
}

func NewChannelCapacityHandler(log *slog.Logger, counter *Counter, lowCapacityThreshold int) *ChannelCapacityHandler {
	return &ChannelCapacityHandler{log: log, counter: counter, lowCapacityThreshold: lowCapacityThreshold}
}

func (h *ChannelCapacityHandler) Handle(event Event) {
	switch event.Type {
	case ChannelCapacityType:
		payload, ok := event.Payload.(ChannelCapacity)
		if !ok {
			h.log.Error(errors.ErrInvalidPayload.Error())
			return
		}
		h.log.Debug(fmt.Sprintf("Channel %s usage: %d / %d", payload.ChannelName, payload.Length, payload.Capacity))
		if payload.Capacity <= 0 {
			// In case of unbuffered channel
			return
		}
		capacityLeft := payload.Capacity - payload.Length
		if capacityLeft <= h.lowCapacityThreshold {
			h.counter.Increment(ChannelCapacityType)
			h.log.Warn(fmt.Sprintf("Channel %s capacity left : %d", payload.ChannelName, capacityLeft))
		}
	}
}

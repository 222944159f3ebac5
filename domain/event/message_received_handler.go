package event

import (
	"chat-relay/errors"
	"log/slog"
)

// MessageReceivedHandler counts messages surfaced by the polling loop.
type MessageReceivedHandler struct {
	log     *slog.Logger
	counter *Counter
}

func NewMessageReceivedHandler(log *slog.Logger, counter *Counter) *MessageReceivedHandler {
	return &MessageReceivedHandler{log: log, counter: counter}
}

func (h *MessageReceivedHandler) Handle(event Event) {
	switch event.Type {
	case MessageReceivedType:
		payload, ok := event.Payload.(MessageReceived)
		if !ok {
			h.log.Error(errors.ErrInvalidPayload.Error())
			return
		}
		h.counter.Increment(MessageReceivedType)
		h.log.Debug("Message received", "room", event.Room, "id", payload.Message.ID, "author", payload.Message.Author)
	}
}

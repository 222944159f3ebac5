package event

import (
	"chat-relay/errors"
	"log/slog"
)

// MessageSentHandler handles events when the agent wrote a message to a room.
// Useful for updating observability metrics, logging, or telemetry.
type MessageSentHandler struct {
	log     *slog.Logger
	counter *Counter
}

func NewMessageSentHandler(log *slog.Logger, counter *Counter) *MessageSentHandler {
	return &MessageSentHandler{log: log, counter: counter}
}

func (p *MessageSentHandler) Handle(event Event) {
	switch event.Type {
	case MessageSentType:
		payload, ok := event.Payload.(MessageSent)
		if !ok {
			p.log.Error(errors.ErrInvalidPayload.Error())
			return
		}
		p.counter.Increment(MessageSentType)
		p.log.Debug("Message sent", "room", event.Room, "id", payload.Message.ID, "tx", payload.TxRef)
	}
}

package sink

import (
	"chat-relay/domain"
	"context"
	"log/slog"
)

// LogConsumer writes every inbound message to the log.
type LogConsumer struct {
	log *slog.Logger
}

func NewLogConsumer(log *slog.Logger) LogConsumer {
	return LogConsumer{log: log}
}

func (c LogConsumer) Consume(_ context.Context, room string, message domain.Message) error {
	c.log.Info("Inbound message",
		"room", room,
		"id", message.ID,
		"author", message.Author,
		"sender", message.SenderAddress,
		"content", message.Content)
	return nil
}

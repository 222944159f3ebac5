package event

import (
	"chat-relay/errors"
	"log/slog"
)

type RoomConnectedHandler struct {
	log     *slog.Logger
	counter *Counter
}

func NewRoomConnectedHandler(log *slog.Logger, counter *Counter) *RoomConnectedHandler {
	return &RoomConnectedHandler{log: log, counter: counter}
}

func (h *RoomConnectedHandler) Handle(event Event) {
	switch event.Type {
	case RoomConnectedType:
		payload, ok := event.Payload.(RoomConnected)
		if !ok {
			h.log.Error(errors.ErrInvalidPayload.Error())
			return
		}
		h.counter.Increment(RoomConnectedType)
		h.log.Info("Room connected", "room", payload.Room.Name, "table", payload.Room.TableAddress)
	}
}

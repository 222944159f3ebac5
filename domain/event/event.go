package event

import (
	"chat-relay/domain"
	"time"
)

type Type string

const (
	RoomConnectedType   Type = "ROOM_CONNECTED"
	MessageSentType     Type = "MESSAGE_SENT"
	MessageReceivedType Type = "MESSAGE_RECEIVED"
)

// Event is a fire-and-forget notification. Producers never wait for handlers.
type Event struct {
	Type      Type
	Room      string
	CreatedAt time.Time
	Payload   any
}

type RoomConnected struct {
	Room domain.Chatroom
}

type MessageSent struct {
	Message domain.Message
	TxRef   domain.TxRef
}

type MessageReceived struct {
	Message domain.Message
}

func NewRoomConnected(room domain.Chatroom) Event {
	return Event{Type: RoomConnectedType, Room: room.Name, CreatedAt: time.Now().UTC(), Payload: RoomConnected{Room: room}}
}

func NewMessageSent(room string, message domain.Message, txRef domain.TxRef) Event {
	return Event{Type: MessageSentType, Room: room, CreatedAt: time.Now().UTC(), Payload: MessageSent{Message: message, TxRef: txRef}}
}

func NewMessageReceived(room string, message domain.Message) Event {
	return Event{Type: MessageReceivedType, Room: room, CreatedAt: time.Now().UTC(), Payload: MessageReceived{Message: message}}
}

// Publish hands the event to the bus without blocking.
// It reports false when the buffer is full and the event was dropped.
func Publish(bus chan<- Event, e Event) bool {
	if bus == nil {
		return false
	}
	select {
	case bus <- e:
		return true
	default:
		return false
	}
}

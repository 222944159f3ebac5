package runtime

import (
	"chat-relay/domain"
	"chat-relay/domain/event"
	"log/slog"
	"strings"
	"sync"
)

// Registry is the only owner of the room name -> Chatroom mapping.
// Rooms are keyed by lowercased name and kept in insertion order.
type Registry struct {
	mu          sync.RWMutex
	log         *slog.Logger
	capability  Capability
	namespaceID string
	rooms       map[string]domain.Chatroom
	order       []string
	events      chan<- event.Event
}

func NewRegistry(log *slog.Logger, capability Capability, namespaceID string, events chan<- event.Event) *Registry {
	return &Registry{
		log:         log,
		capability:  capability,
		namespaceID: namespaceID,
		rooms:       make(map[string]domain.Chatroom),
		events:      events,
	}
}

// EnsureRoom returns the room registered under name, creating it on first use.
// Creation derives the table address when the ledger is available and emits a
// ROOM_CONNECTED event. It never fails: without a ledger the address stays empty.
func (r *Registry) EnsureRoom(name string) domain.Chatroom {
	name = strings.TrimSpace(name)
	key := domain.NormalizeRoomName(name)
	if key == "" {
		r.log.Warn("Refusing to register a room without a name")
		return domain.Chatroom{}
	}

	if room, ok := r.Get(key); ok {
		return room
	}

	room := domain.NewChatroom(name)
	if w, ok := writeCapable(r.capability); ok {
		address, err := w.Ledger.DeriveTableAddress(r.namespaceID, room.Key)
		if err != nil {
			r.log.Warn("Table address derivation failed, room stays read-only", "room", name, "error", err)
		} else {
			room.TableAddress = address
		}
	}

	r.mu.Lock()
	if existing, ok := r.rooms[key]; ok {
		r.mu.Unlock()
		return existing
	}
	r.rooms[key] = room
	r.order = append(r.order, key)
	r.mu.Unlock()

	r.log.Info("Connected to chatroom", "room", room.Name, "key", room.Key.String(), "table", room.TableAddress)
	if !event.Publish(r.events, event.NewRoomConnected(room)) {
		r.log.Debug("Room connected event dropped", "room", room.Name)
	}
	return room
}

// Get looks a room up case-insensitively.
func (r *Registry) Get(name string) (domain.Chatroom, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	room, ok := r.rooms[domain.NormalizeRoomName(name)]
	return room, ok
}

// ListRooms is a snapshot of the connected room names, in insertion order.
func (r *Registry) ListRooms() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.order))
	for _, key := range r.order {
		names = append(names, r.rooms[key].Name)
	}
	return names
}

// snapshot returns the rooms in insertion order.
func (r *Registry) snapshot() []domain.Chatroom {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rooms := make([]domain.Chatroom, 0, len(r.order))
	for _, key := range r.order {
		rooms = append(rooms, r.rooms[key])
	}
	return rooms
}

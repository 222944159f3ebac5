package runtime

import (
	"chat-relay/domain"
	"strings"

	"github.com/samber/lo"
)

// Resolver turns a loose room reference into a canonical room name.
type Resolver struct {
	registry    *Registry
	defaultRoom string
}

func NewResolver(registry *Registry, defaultRoom string) *Resolver {
	return &Resolver{registry: registry, defaultRoom: defaultRoom}
}

// Resolve never fails. It tries, in order: the default room for an empty
// reference, an exact case-insensitive match, a substring match in either
// direction, and finally registers ref as a new room.
//
// When several rooms overlap with ref the earliest registered one wins.
// There is no ambiguity signal.
func (r *Resolver) Resolve(ref string) string {
	normalized := domain.NormalizeRoomName(ref)
	if normalized == "" {
		return r.defaultRoom
	}

	if room, ok := r.registry.Get(normalized); ok {
		return room.Name
	}

	overlapping, ok := lo.Find(r.registry.snapshot(), func(room domain.Chatroom) bool {
		key := domain.NormalizeRoomName(room.Name)
		return strings.Contains(normalized, key) || strings.Contains(key, normalized)
	})
	if ok {
		return overlapping.Name
	}

	return r.registry.EnsureRoom(ref).Name
}

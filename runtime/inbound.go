package runtime

import (
	"chat-relay/contract"
	"chat-relay/domain"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/samber/lo"
)

// Tier is one named source of the inbound read path.
type Tier struct {
	Name   string
	Source contract.MessageSource
}

// InboundReader reads recent messages of a room through its tiers, in order.
// The first tier that answers wins; errors only move to the next tier.
type InboundReader struct {
	log      *slog.Logger
	registry *Registry
	resolver *Resolver
	tiers    []Tier
	timeout  time.Duration
}

func NewInboundReader(log *slog.Logger, registry *Registry, resolver *Resolver, timeout time.Duration, tiers ...Tier) *InboundReader {
	return &InboundReader{log: log, registry: registry, resolver: resolver, tiers: tiers, timeout: timeout}
}

// Read never fails: when every tier fails the result is empty, which cannot be
// told apart from an empty room.
func (r *InboundReader) Read(ctx context.Context, limit int, roomRef string) []domain.Message {
	room := r.registry.EnsureRoom(r.resolver.Resolve(roomRef))

	for _, tier := range r.tiers {
		messages, err := r.fetch(ctx, tier, room, limit)
		if err != nil {
			r.log.Debug("Read tier failed, falling back", "tier", tier.Name, "room", room.Name, "error", err)
			continue
		}
		return lo.Map(messages, func(m domain.Message, _ int) domain.Message {
			return m.InRoom(room.Name)
		})
	}

	r.log.Debug("No read tier answered", "room", room.Name)
	return []domain.Message{}
}

func (r *InboundReader) fetch(ctx context.Context, tier Tier, room domain.Chatroom, limit int) (messages []domain.Message, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("%s tier panicked: %v", tier.Name, rec)
		}
	}()
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}
	return tier.Source.Fetch(ctx, room, limit)
}

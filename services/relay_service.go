package services

import (
	"chat-relay/domain"
	"chat-relay/domain/event"
	"chat-relay/errors"
	"chat-relay/runtime"
	"context"
	"fmt"
	"log/slog"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

type IRelayService interface {
	SendMessage(ctx context.Context, cmd domain.SendMessageCommand) (domain.TxRef, error)
	ReadMessages(ctx context.Context, cmd domain.ReadMessagesCommand) ([]domain.Message, error)
	JoinRoom(name string) (domain.Chatroom, error)
	ListRooms() []string
	Stats() map[event.Type]uint64
}

// RelayService is the entry point used by the agent framework actions.
type RelayService struct {
	log   *slog.Logger
	relay *runtime.Relay
}

func NewRelayService(log *slog.Logger, relay *runtime.Relay) *RelayService {
	return &RelayService{log: log, relay: relay}
}

// SendMessage validates the command and forwards it. The relay error is
// returned untouched so callers see the ledger's own message.
func (s *RelayService) SendMessage(ctx context.Context, cmd domain.SendMessageCommand) (domain.TxRef, error) {
	if err := validate.Struct(cmd); err != nil {
		return "", fmt.Errorf("invalid send command: %w", err)
	}
	return s.relay.Send(ctx, cmd.Content, cmd.Room)
}

func (s *RelayService) ReadMessages(ctx context.Context, cmd domain.ReadMessagesCommand) ([]domain.Message, error) {
	if err := validate.Struct(cmd); err != nil {
		return nil, fmt.Errorf("invalid read command: %w", err)
	}
	return s.relay.Read(ctx, cmd.Limit, cmd.Room), nil
}

func (s *RelayService) JoinRoom(name string) (domain.Chatroom, error) {
	if domain.NormalizeRoomName(name) == "" {
		return domain.Chatroom{}, fmt.Errorf("room name is required: %w", errors.ErrInvalidPayload)
	}
	room := s.relay.JoinRoom(name)
	s.log.Debug("Joined room", "room", room.Name)
	return room, nil
}

func (s *RelayService) ListRooms() []string {
	return s.relay.ListRooms()
}

func (s *RelayService) Stats() map[event.Type]uint64 {
	return s.relay.Stats()
}

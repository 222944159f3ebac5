package ledger

import (
	"chat-relay/contract"
	"chat-relay/domain"
	"chat-relay/errors"
	"chat-relay/infrastructure/wire"
	"context"
	"log/slog"
)

// Source reads a room table directly from the ledger. It is the last read tier.
type Source struct {
	ledger contract.Ledger
	log    *slog.Logger
}

func NewSource(ledger contract.Ledger, log *slog.Logger) *Source {
	return &Source{ledger: ledger, log: log}
}

func (s *Source) Fetch(ctx context.Context, room domain.Chatroom, limit int) ([]domain.Message, error) {
	if !room.HasTable() {
		return nil, errors.ErrNoTableAddress
	}
	rows, err := s.ledger.ReadRows(ctx, room.TableAddress, limit)
	if err != nil {
		return nil, err
	}
	messages := make([]domain.Message, 0, len(rows))
	for _, row := range rows {
		message, err := wire.DecodeMessage(row.Payload)
		if err != nil {
			s.log.Debug("Skipping unreadable row", "table", row.Table, "tx", row.TxRef, "error", err)
			continue
		}
		if message.SenderAddress == "" {
			message.SenderAddress = row.Signer
		}
		messages = append(messages, message)
	}
	return messages, nil
}

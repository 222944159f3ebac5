package services

import (
	"chat-relay/contract"
	"chat-relay/domain"
	"chat-relay/domain/event"
	"chat-relay/errors"
	"chat-relay/mocks"
	"chat-relay/runtime"
	"chat-relay/runtime/workers"
	"context"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newRelay(log *slog.Logger, ledger contract.Ledger, signer contract.Signer, tiers ...runtime.Tier) *runtime.Relay {
	return runtime.NewRelay(log, workers.NewSupervisor(log, nil, 0), nil,
		runtime.WriteCapable{Ledger: ledger, Signer: signer}, nil, nil,
		runtime.Options{AgentName: "bot", NamespaceID: "ns", DefaultRoom: "General", RequestTimeout: time.Second},
		tiers...)
}

func TestRelayService_SendMessage(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	log := logs.GetLoggerFromLevel(slog.LevelDebug)

	ledger := mocks.NewMockLedger(ctrl)
	signer := mocks.NewMockSigner(ctrl)
	signer.EXPECT().Address().Return("0xme").AnyTimes()
	ledger.EXPECT().DeriveTableAddress("ns", gomock.Any()).Return("table", nil).AnyTimes()
	svc := NewRelayService(log, newRelay(log, ledger, signer))

	t.Run("should write once when the command is valid", func(t *testing.T) {
		req := require.New(t)
		ledger.EXPECT().
			WriteRow(gomock.Any(), signer, "ns", domain.NewRoomKey("General"), gomock.Any()).
			Return(domain.TxRef("tx-1"), nil).
			Times(1)

		txRef, err := svc.SendMessage(context.Background(), domain.SendMessageCommand{Content: "gm"})

		req.NoError(err)
		req.Equal(domain.TxRef("tx-1"), txRef)
		req.Equal(uint64(0), svc.Stats()[event.MessageSentType]) // counted only once the fanout runs
	})

	t.Run("should return the ledger error untouched", func(t *testing.T) {
		req := require.New(t)
		ledgerErr := fmt.Errorf("nonce too low")
		ledger.EXPECT().WriteRow(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(domain.TxRef(""), ledgerErr).Times(1)

		_, err := svc.SendMessage(context.Background(), domain.SendMessageCommand{Content: "gm"})

		req.Equal(ledgerErr, err)
	})

	t.Run("should fail when content is missing", func(t *testing.T) {
		req := require.New(t)
		ledger.EXPECT().WriteRow(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

		_, err := svc.SendMessage(context.Background(), domain.SendMessageCommand{Room: "General"})

		req.Error(err)
	})
}

func TestRelayService_ReadMessages(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	log := logs.GetLoggerFromLevel(slog.LevelDebug)

	ledger := mocks.NewMockLedger(ctrl)
	signer := mocks.NewMockSigner(ctrl)
	source := mocks.NewMockMessageSource(ctrl)
	ledger.EXPECT().DeriveTableAddress(gomock.Any(), gomock.Any()).Return("table", nil).AnyTimes()
	svc := NewRelayService(log, newRelay(log, ledger, signer, runtime.Tier{Name: "api", Source: source}))

	t.Run("should tag messages with the resolved room", func(t *testing.T) {
		req := require.New(t)
		source.EXPECT().Fetch(gomock.Any(), gomock.Any(), 10).
			Return([]domain.Message{{ID: "1", Content: "hi"}}, nil).Times(1)

		messages, err := svc.ReadMessages(context.Background(), domain.ReadMessagesCommand{Room: "gen", Limit: 10})

		req.NoError(err)
		req.Len(messages, 1)
		req.Equal("General", messages[0].Room)
	})

	t.Run("should reject an out of range limit", func(t *testing.T) {
		req := require.New(t)
		source.EXPECT().Fetch(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

		_, err := svc.ReadMessages(context.Background(), domain.ReadMessagesCommand{Limit: 500})

		req.Error(err)
	})
}

func TestRelayService_JoinRoom(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	ledger := mocks.NewMockLedger(ctrl)
	ledger.EXPECT().DeriveTableAddress(gomock.Any(), gomock.Any()).Return("table", nil).AnyTimes()
	svc := NewRelayService(log, newRelay(log, ledger, mocks.NewMockSigner(ctrl)))

	t.Run("should register the room as is", func(t *testing.T) {
		req := require.New(t)

		room, err := svc.JoinRoom("Gen Z")

		req.NoError(err)
		req.Equal("Gen Z", room.Name)
		req.Equal("table", room.TableAddress)
		req.Equal([]string{"General", "Gen Z"}, svc.ListRooms())
	})

	t.Run("should reject a blank name", func(t *testing.T) {
		req := require.New(t)

		_, err := svc.JoinRoom("  ")

		req.ErrorIs(err, errors.ErrInvalidPayload)
	})
}

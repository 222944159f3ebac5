package gateway

import (
	"chat-relay/domain"
	"chat-relay/infrastructure/httpapi"
	"chat-relay/infrastructure/ledger"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
)

const namespaceID = "ns-test"

func setupLedger(t *testing.T) (*ledger.Local, *ledger.KeySigner) {
	t.Helper()
	db, err := badger.Open(badger.DefaultOptions("").WithInMemory(true).WithLogger(nil))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	signer, err := ledger.GenerateSigner()
	require.NoError(t, err)
	return ledger.NewLocal(db, logs.GetLoggerFromLevel(slog.LevelDebug)), signer
}

func writeMessage(t *testing.T, local *ledger.Local, signer *ledger.KeySigner, room, content string) domain.Message {
	t.Helper()
	message := domain.NewMessage("bot", signer.Address(), content, time.Now())
	payload, err := json.Marshal(message)
	require.NoError(t, err)
	_, err = local.WriteRow(context.Background(), signer, namespaceID, domain.NewRoomKey(room), payload)
	require.NoError(t, err)
	return message
}

func TestHandler_Serves_Both_Read_Tiers(t *testing.T) {
	req := require.New(t)
	local, signer := setupLedger(t)
	written := writeMessage(t, local, signer, "General", "hello gateway")

	server := httptest.NewServer(NewRouter(New(logs.GetLoggerFromLevel(slog.LevelDebug), local, namespaceID)))
	defer server.Close()

	room := domain.NewChatroom("General")
	room.TableAddress, _ = local.DeriveTableAddress(namespaceID, room.Key)
	client := httpapi.NewHTTPClient(time.Second)

	// When reading through the message API client
	messages, err := httpapi.NewMessageAPI(server.URL, client).Fetch(context.Background(), room, 10)
	req.NoError(err)
	req.Len(messages, 1)
	req.Equal(written.ID, messages[0].ID)
	req.Equal("General", messages[0].Room)

	// And through the gateway rows client
	messages, err = httpapi.NewGateway(server.URL, client).Fetch(context.Background(), room, 10)
	req.NoError(err)
	req.Len(messages, 1)
	req.Equal(written.ID, messages[0].ID)
	req.Equal(signer.Address(), messages[0].SenderAddress)
}

func TestHandler_Messages_Matches_Room_Case_Insensitively(t *testing.T) {
	req := require.New(t)
	local, signer := setupLedger(t)

	// Given a message written to "General"
	written := writeMessage(t, local, signer, "General", "hello lowercase")
	router := NewRouter(New(logs.GetLoggerFromLevel(slog.LevelDebug), local, namespaceID))

	// When the room is requested in lowercase
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/messages?chatroom=general&limit=5", nil))

	// Then the same table answers
	req.Equal(http.StatusOK, recorder.Code)
	var body struct {
		Messages []domain.Message `json:"messages"`
	}
	req.NoError(json.Unmarshal(recorder.Body.Bytes(), &body))
	req.Len(body.Messages, 1)
	req.Equal(written.ID, body.Messages[0].ID)
}

func TestHandler_Messages_Requires_Chatroom(t *testing.T) {
	req := require.New(t)
	local, _ := setupLedger(t)
	router := NewRouter(New(logs.GetLoggerFromLevel(slog.LevelDebug), local, namespaceID))

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/messages", nil))

	req.Equal(http.StatusBadRequest, recorder.Code)
}

func TestParseLimit(t *testing.T) {
	req := require.New(t)
	limitOf := func(query string) int {
		return parseLimit(httptest.NewRequest(http.MethodGet, "/messages?"+query, nil))
	}

	req.Equal(defaultLimit, limitOf(""))
	req.Equal(defaultLimit, limitOf("limit=-3"))
	req.Equal(7, limitOf("limit=7"))
	req.Equal(maxLimit, limitOf("limit=5000"))
}

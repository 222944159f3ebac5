package gateway

import (
	"bytes"
	"chat-relay/domain"
	"chat-relay/infrastructure/ledger"
	"chat-relay/runtime"
	"chat-relay/runtime/workers"
	"chat-relay/services"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
)

func newAgentRouter(t *testing.T, capability func(*ledger.Local, *ledger.KeySigner) runtime.Capability) http.Handler {
	t.Helper()
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	local, signer := setupLedger(t)
	relay := runtime.NewRelay(log, workers.NewSupervisor(log, nil, 0), nil, capability(local, signer), nil, nil,
		runtime.Options{AgentName: "bot", NamespaceID: namespaceID, DefaultRoom: "General", RequestTimeout: time.Second},
		runtime.Tier{Name: "ledger", Source: ledger.NewSource(local, log)})
	router := chi.NewRouter()
	NewAgentHandler(log, services.NewRelayService(log, relay), nil).RegisterRoutes(router)
	return router
}

func writeCapable(local *ledger.Local, signer *ledger.KeySigner) runtime.Capability {
	return runtime.WriteCapable{Ledger: local, Signer: signer}
}

func serve(router http.Handler, method, target string, body any) *httptest.ResponseRecorder {
	var payload []byte
	if body != nil {
		payload, _ = json.Marshal(body)
	}
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(method, target, bytes.NewReader(payload)))
	return recorder
}

func TestAgentHandler_Send_Then_Read(t *testing.T) {
	req := require.New(t)
	router := newAgentRouter(t, writeCapable)

	// When a message is posted
	recorder := serve(router, http.MethodPost, "/agent/messages", domain.SendMessageCommand{Room: "Trading", Content: "gm"})
	req.Equal(http.StatusCreated, recorder.Code)

	// Then the room exists and the message reads back
	recorder = serve(router, http.MethodGet, "/agent/rooms", nil)
	req.Equal(http.StatusOK, recorder.Code)
	var rooms struct {
		Rooms []string `json:"rooms"`
	}
	req.NoError(json.Unmarshal(recorder.Body.Bytes(), &rooms))
	req.Equal([]string{"General", "Trading"}, rooms.Rooms)

	recorder = serve(router, http.MethodGet, "/agent/messages?room=trading&limit=5", nil)
	req.Equal(http.StatusOK, recorder.Code)
	var read struct {
		Messages []domain.Message `json:"messages"`
	}
	req.NoError(json.Unmarshal(recorder.Body.Bytes(), &read))
	req.Len(read.Messages, 1)
	req.Equal("gm", read.Messages[0].Content)
	req.Equal("Trading", read.Messages[0].Room)
}

func TestAgentHandler_Error_Statuses(t *testing.T) {
	req := require.New(t)
	readOnly := newAgentRouter(t, func(_ *ledger.Local, signer *ledger.KeySigner) runtime.Capability {
		return runtime.ReadOnly{Address: signer.Address()}
	})

	// Not write capable
	recorder := serve(readOnly, http.MethodPost, "/agent/messages", domain.SendMessageCommand{Content: "gm"})
	req.Equal(http.StatusServiceUnavailable, recorder.Code)

	// Missing content fails validation
	recorder = serve(readOnly, http.MethodPost, "/agent/messages", domain.SendMessageCommand{Room: "General"})
	req.Equal(http.StatusBadRequest, recorder.Code)

	// Blank room name
	recorder = serve(readOnly, http.MethodPost, "/agent/rooms", map[string]string{"name": " "})
	req.Equal(http.StatusBadRequest, recorder.Code)

	// Social routes are not mounted without a social service
	recorder = serve(readOnly, http.MethodGet, "/agent/social/posts", nil)
	req.Equal(http.StatusNotFound, recorder.Code)
}

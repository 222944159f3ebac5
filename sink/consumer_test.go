package sink

import (
	"chat-relay/domain"
	"chat-relay/errors"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
)

func TestWebhookConsumer_Consume(t *testing.T) {
	req := require.New(t)
	received := make(chan webhookPayload, 1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body webhookPayload
		req.NoError(json.NewDecoder(r.Body).Decode(&body))
		received <- body
	}))
	defer server.Close()

	consumer := NewWebhookConsumer(server.URL, &http.Client{Timeout: time.Second})
	err := consumer.Consume(context.Background(), "General", domain.Message{ID: "1", Content: "hi"})

	req.NoError(err)
	body := <-received
	req.Equal("General", body.Room)
	req.Equal("hi", body.Message.Content)
}

func TestWebhookConsumer_Consume_Rejected(t *testing.T) {
	req := require.New(t)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	err := NewWebhookConsumer(server.URL, &http.Client{Timeout: time.Second}).
		Consume(context.Background(), "General", domain.Message{ID: "1"})

	req.ErrorIs(err, errors.ErrUnexpectedStatus)
}

func TestLogConsumer_Consume(t *testing.T) {
	req := require.New(t)
	consumer := NewLogConsumer(logs.GetLoggerFromLevel(slog.LevelDebug))

	req.NoError(consumer.Consume(context.Background(), "General", domain.Message{ID: "1"}))
}

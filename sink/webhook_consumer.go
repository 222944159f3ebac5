package sink

import (
	"bytes"
	"chat-relay/domain"
	"chat-relay/errors"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

type webhookPayload struct {
	Room    string         `json:"room"`
	Message domain.Message `json:"message"`
}

// WebhookConsumer forwards inbound messages to the agent runtime over HTTP.
type WebhookConsumer struct {
	url    string
	client *http.Client
}

func NewWebhookConsumer(url string, client *http.Client) *WebhookConsumer {
	return &WebhookConsumer{url: url, client: client}
}

func (c *WebhookConsumer) Consume(ctx context.Context, room string, message domain.Message) error {
	body, err := json.Marshal(webhookPayload{Room: room, Message: message})
	if err != nil {
		return err
	}
	request, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	request.Header.Set("Content-Type", "application/json")
	response, err := c.client.Do(request)
	if err != nil {
		return err
	}
	defer response.Body.Close()
	if response.StatusCode >= 300 {
		return fmt.Errorf("%w: webhook returned %d", errors.ErrUnexpectedStatus, response.StatusCode)
	}
	return nil
}

package httpapi

import (
	"bytes"
	"chat-relay/domain"
	"chat-relay/errors"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

type trackRequest struct {
	Event     string    `json:"event"`
	Room      string    `json:"room"`
	MessageID string    `json:"messageId"`
	Author    string    `json:"author"`
	Sender    string    `json:"sender"`
	At        time.Time `json:"at"`
}

// Tracker pings a tracking endpoint after each sent message.
// It is only ever called detached from the send path; its errors are informative.
type Tracker struct {
	url    string
	client *http.Client
}

func NewTracker(url string, client *http.Client) *Tracker {
	return &Tracker{url: url, client: client}
}

func (t *Tracker) Track(ctx context.Context, room string, message domain.Message) error {
	if t.url == "" {
		return nil
	}
	body, err := json.Marshal(trackRequest{
		Event:     "message_sent",
		Room:      room,
		MessageID: message.ID,
		Author:    message.Author,
		Sender:    message.SenderAddress,
		At:        message.CreatedAt,
	})
	if err != nil {
		return err
	}
	request, err := http.NewRequestWithContext(ctx, http.MethodPost, t.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	request.Header.Set("Content-Type", "application/json")
	response, err := t.client.Do(request)
	if err != nil {
		return err
	}
	defer response.Body.Close()
	if response.StatusCode >= 300 {
		return fmt.Errorf("%w: tracker returned %d", errors.ErrUnexpectedStatus, response.StatusCode)
	}
	return nil
}

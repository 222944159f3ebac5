package httpapi

import (
	"chat-relay/domain"
	"chat-relay/errors"
	"chat-relay/infrastructure/wire"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// MessageAPI is the primary read tier: GET /messages?chatroom=<name>&limit=<n>.
type MessageAPI struct {
	baseURL string
	client  *http.Client
}

func NewMessageAPI(baseURL string, client *http.Client) *MessageAPI {
	return &MessageAPI{baseURL: trimBase(baseURL), client: client}
}

func (a *MessageAPI) Fetch(ctx context.Context, room domain.Chatroom, limit int) ([]domain.Message, error) {
	if a.baseURL == "" {
		return nil, errors.ErrSourceUnavailable
	}
	query := url.Values{}
	query.Set("chatroom", room.Name)
	query.Set("limit", strconv.Itoa(limit))

	body, err := get(ctx, a.client, a.baseURL+"/messages?"+query.Encode())
	if err != nil {
		return nil, err
	}
	var envelope struct {
		Messages []json.RawMessage `json:"messages"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrInvalidPayload, err)
	}
	return wire.DecodeMessages(envelope.Messages), nil
}

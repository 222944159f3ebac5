package httpapi

import (
	"chat-relay/domain"
	"chat-relay/errors"
	"chat-relay/infrastructure/wire"
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// Gateway is the caching read tier in front of the ledger:
// GET /table/<address>/rows?limit=<n>, answering {"rows": [...]} or a bare array.
type Gateway struct {
	baseURL string
	client  *http.Client
}

func NewGateway(baseURL string, client *http.Client) *Gateway {
	return &Gateway{baseURL: trimBase(baseURL), client: client}
}

func (g *Gateway) Fetch(ctx context.Context, room domain.Chatroom, limit int) ([]domain.Message, error) {
	if g.baseURL == "" {
		return nil, errors.ErrSourceUnavailable
	}
	if !room.HasTable() {
		return nil, errors.ErrNoTableAddress
	}
	endpoint := fmt.Sprintf("%s/table/%s/rows?limit=%d", g.baseURL, url.PathEscape(room.TableAddress), limit)
	body, err := get(ctx, g.client, endpoint)
	if err != nil {
		return nil, err
	}
	rows, err := wire.DecodeRows(body)
	if err != nil {
		return nil, err
	}
	return wire.DecodeMessages(rows), nil
}

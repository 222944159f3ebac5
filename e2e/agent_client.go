package e2e

import (
	"bytes"
	"chat-relay/domain"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gookit/color"
)

// AgentClient drives a running relay through its /agent endpoints.
type AgentClient struct {
	baseURL   string
	client    *http.Client
	logf      func(format string, args ...any)
	debugJSON bool
	colours   bool
}

func NewAgentClient(config Config, logf func(format string, args ...any)) *AgentClient {
	return &AgentClient{
		baseURL:   strings.TrimRight(config.RelayAddr, "/"),
		client:    &http.Client{Timeout: 10 * time.Second},
		logf:      logf,
		debugJSON: config.DebugJSON,
		colours:   config.Colours,
	}
}

// Header prints a step title, coloured when enabled.
func (c *AgentClient) Header(name string) {
	header := fmt.Sprintf("  ====== %s ======", name)
	if c.colours {
		header = color.New(color.BgBlack, color.FgGreen).Render(header)
	}
	c.logf("%s", header)
}

func (c *AgentClient) Send(ctx context.Context, room, content string) (domain.TxRef, error) {
	var out struct {
		Tx domain.TxRef `json:"tx"`
	}
	err := c.do(ctx, http.MethodPost, "/agent/messages", domain.SendMessageCommand{Room: room, Content: content}, &out)
	return out.Tx, err
}

func (c *AgentClient) Read(ctx context.Context, room string, limit int) ([]domain.Message, error) {
	var out struct {
		Messages []domain.Message `json:"messages"`
	}
	query := url.Values{"room": {room}, "limit": {strconv.Itoa(limit)}}
	err := c.do(ctx, http.MethodGet, "/agent/messages?"+query.Encode(), nil, &out)
	return out.Messages, err
}

func (c *AgentClient) Rooms(ctx context.Context) ([]string, error) {
	var out struct {
		Rooms []string `json:"rooms"`
	}
	err := c.do(ctx, http.MethodGet, "/agent/rooms", nil, &out)
	return out.Rooms, err
}

// AwaitContent polls room until a message with content shows up or ctx expires.
func (c *AgentClient) AwaitContent(ctx context.Context, room, content string, interval time.Duration) (domain.Message, error) {
	for {
		messages, err := c.Read(ctx, room, 50)
		if err == nil {
			for _, m := range messages {
				if m.Content == content {
					return m, nil
				}
			}
		}
		select {
		case <-ctx.Done():
			return domain.Message{}, fmt.Errorf("message %q not visible in %s: %w", content, room, ctx.Err())
		case <-time.After(interval):
		}
	}
}

func (c *AgentClient) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	var raw []byte
	if in != nil {
		var err error
		if raw, err = json.Marshal(in); err != nil {
			return err
		}
		body = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	logBuilder := strings.Builder{}
	fmt.Fprintf(&logBuilder, "HTTP %s %s [%d] in %v", method, path, resp.StatusCode, time.Since(start))
	if c.debugJSON {
		fmt.Fprintf(&logBuilder, "\nREQUEST:\n%s\nRESPONSE:\n%s", raw, respBody)
	}
	c.logf("%s", logBuilder.String())

	if resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("%s %s: status %d: %s", method, path, resp.StatusCode, strings.TrimSpace(string(respBody)))
	}
	return json.Unmarshal(respBody, out)
}

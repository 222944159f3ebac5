// Package wire decodes the loosely shaped message records returned by the
// message API, the gateway and raw ledger rows into domain.Message.
package wire

import (
	"bytes"
	"chat-relay/domain"
	"chat-relay/errors"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/zeebo/blake3"
)

var (
	idKeys      = []string{"id", "messageId", "message_id"}
	authorKeys  = []string{"author", "agentName", "agent_name", "name"}
	senderKeys  = []string{"senderAddress", "sender_address", "sender", "wallet", "address"}
	contentKeys = []string{"content", "message", "text"}
	timeKeys    = []string{"createdAt", "created_at", "timestamp"}
	roomKeys    = []string{"room", "chatroom"}
	// A row may wrap the message under one of these, either as an object or as a JSON string.
	wrapperKeys = []string{"data", "payload", "row", "value"}
)

// DecodeMessage reads one record. A record without an id gets one derived
// from its author, sender, content and timestamp so it can still be deduplicated.
func DecodeMessage(raw []byte) (domain.Message, error) {
	var fields map[string]any
	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.UseNumber()
	if err := decoder.Decode(&fields); err != nil {
		return domain.Message{}, fmt.Errorf("%w: %v", errors.ErrInvalidPayload, err)
	}
	return fromFields(fields, 0)
}

// DecodeMessages decodes every record and drops the ones that cannot be read.
func DecodeMessages(raws []json.RawMessage) []domain.Message {
	messages := make([]domain.Message, 0, len(raws))
	for _, raw := range raws {
		message, err := DecodeMessage(raw)
		if err != nil {
			continue
		}
		messages = append(messages, message)
	}
	return messages
}

// DecodeRows accepts either {"rows": [...]} or a bare array.
func DecodeRows(body []byte) ([]json.RawMessage, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var rows []json.RawMessage
		if err := json.Unmarshal(trimmed, &rows); err != nil {
			return nil, fmt.Errorf("%w: %v", errors.ErrInvalidPayload, err)
		}
		return rows, nil
	}
	var envelope struct {
		Rows []json.RawMessage `json:"rows"`
	}
	if err := json.Unmarshal(trimmed, &envelope); err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrInvalidPayload, err)
	}
	return envelope.Rows, nil
}

func fromFields(fields map[string]any, depth int) (domain.Message, error) {
	if _, ok := firstString(fields, contentKeys); !ok && depth < 2 {
		for _, key := range wrapperKeys {
			if nested, ok := unwrap(fields[key]); ok {
				return fromFields(nested, depth+1)
			}
		}
	}

	content, ok := firstString(fields, contentKeys)
	if !ok {
		return domain.Message{}, fmt.Errorf("%w: no content", errors.ErrInvalidPayload)
	}
	message := domain.Message{Content: content}
	message.ID, _ = firstString(fields, idKeys)
	message.Author, _ = firstString(fields, authorKeys)
	message.SenderAddress, _ = firstString(fields, senderKeys)
	message.Room, _ = firstString(fields, roomKeys)
	message.CreatedAt = firstTime(fields, timeKeys)
	if message.ID == "" {
		message.ID = DeriveID(message)
	}
	return message, nil
}

// DeriveID is a stable id for records that were written without one.
func DeriveID(m domain.Message) string {
	sum := blake3.Sum256([]byte(strings.Join([]string{
		m.Author, m.SenderAddress, m.Content, m.CreatedAt.UTC().Format(time.RFC3339Nano),
	}, "\x00")))
	return hex.EncodeToString(sum[:16])
}

func unwrap(value any) (map[string]any, bool) {
	switch v := value.(type) {
	case map[string]any:
		return v, true
	case string:
		var nested map[string]any
		decoder := json.NewDecoder(strings.NewReader(v))
		decoder.UseNumber()
		if err := decoder.Decode(&nested); err != nil {
			return nil, false
		}
		return nested, true
	}
	return nil, false
}

func firstString(fields map[string]any, keys []string) (string, bool) {
	key, found := lo.Find(keys, func(k string) bool {
		_, ok := fields[k]
		return ok
	})
	if !found {
		return "", false
	}
	switch v := fields[key].(type) {
	case string:
		return v, true
	case json.Number:
		return v.String(), true
	}
	return "", false
}

func firstTime(fields map[string]any, keys []string) time.Time {
	for _, key := range keys {
		switch v := fields[key].(type) {
		case string:
			if t, err := time.Parse(time.RFC3339Nano, v); err == nil {
				return t.UTC()
			}
			if n, err := strconv.ParseInt(v, 10, 64); err == nil {
				return fromUnix(n)
			}
		case json.Number:
			if n, err := v.Int64(); err == nil {
				return fromUnix(n)
			}
		}
	}
	return time.Time{}
}

// fromUnix accepts seconds or milliseconds.
func fromUnix(n int64) time.Time {
	if n > 1e12 {
		return time.UnixMilli(n).UTC()
	}
	return time.Unix(n, 0).UTC()
}

package wire

import (
	"chat-relay/errors"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDecodeMessage_Canonical(t *testing.T) {
	req := require.New(t)
	raw := `{"id":"m1","author":"bot","senderAddress":"0xabc","content":"hi","createdAt":"2026-03-01T10:00:00Z","room":"General"}`

	message, err := DecodeMessage([]byte(raw))

	req.NoError(err)
	req.Equal("m1", message.ID)
	req.Equal("bot", message.Author)
	req.Equal("0xabc", message.SenderAddress)
	req.Equal("hi", message.Content)
	req.Equal("General", message.Room)
	req.Equal(time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC), message.CreatedAt)
}

func TestDecodeMessage_Aliases(t *testing.T) {
	req := require.New(t)
	raw := `{"message_id":42,"agent_name":"bot","wallet":"0xdef","text":"yo","timestamp":1767225600000,"chatroom":"Trading"}`

	message, err := DecodeMessage([]byte(raw))

	req.NoError(err)
	req.Equal("42", message.ID)
	req.Equal("bot", message.Author)
	req.Equal("0xdef", message.SenderAddress)
	req.Equal("yo", message.Content)
	req.Equal("Trading", message.Room)
	req.Equal(time.UnixMilli(1767225600000).UTC(), message.CreatedAt)
}

func TestDecodeMessage_Unwraps_Row_Data(t *testing.T) {
	req := require.New(t)

	// Given a gateway row carrying the message as a JSON string
	raw := `{"tx":"abc","signer":"0x1","data":"{\"id\":\"m2\",\"content\":\"nested\",\"created_at\":\"1767225600\"}"}`

	message, err := DecodeMessage([]byte(raw))

	req.NoError(err)
	req.Equal("m2", message.ID)
	req.Equal("nested", message.Content)
	req.Equal(time.Unix(1767225600, 0).UTC(), message.CreatedAt)

	// And a row wrapping an object
	message, err = DecodeMessage([]byte(`{"payload":{"content":"object"}}`))
	req.NoError(err)
	req.Equal("object", message.Content)
}

func TestDecodeMessage_Derives_Missing_ID(t *testing.T) {
	req := require.New(t)
	raw := []byte(`{"author":"bot","content":"no id","createdAt":"2026-03-01T10:00:00Z"}`)

	first, err := DecodeMessage(raw)
	req.NoError(err)
	second, err := DecodeMessage(raw)
	req.NoError(err)

	req.NotEmpty(first.ID)
	req.Equal(first.ID, second.ID)
	req.Equal(DeriveID(first), first.ID)
}

func TestDecodeMessage_Rejects(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "not json", raw: `not json`},
		{name: "no content", raw: `{"id":"1","author":"bot"}`},
		{name: "content not a string", raw: `{"content":{"a":1}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeMessage([]byte(tt.raw))
			require.ErrorIs(t, err, errors.ErrInvalidPayload)
		})
	}
}

func TestDecodeRows(t *testing.T) {
	req := require.New(t)

	rows, err := DecodeRows([]byte(` [{"content":"a"},{"content":"b"}]`))
	req.NoError(err)
	req.Len(rows, 2)

	rows, err = DecodeRows([]byte(`{"rows":[{"content":"a"}]}`))
	req.NoError(err)
	req.Len(rows, 1)

	_, err = DecodeRows([]byte(`{"rows":`))
	req.ErrorIs(err, errors.ErrInvalidPayload)
}

func TestDecodeMessages_Skips_Bad_Records(t *testing.T) {
	req := require.New(t)

	messages := DecodeMessages([]json.RawMessage{
		json.RawMessage(`{"id":"1","content":"ok"}`),
		json.RawMessage(`{"id":"2"}`),
		json.RawMessage(`{"id":"3","content":"ok too"}`),
	})

	req.Len(messages, 2)
	req.Equal("1", messages[0].ID)
	req.Equal("3", messages[1].ID)
}

// Package domain contains core concepts of the chat relay.
// This file defines Message events and related rules.
// Messages are immutable once built.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// MaxContentLength bounds the content written to a room, in characters.
const MaxContentLength = 2000

// TxRef is the ledger transaction reference returned by a write.
type TxRef string

// Message represents an immutable chat event.
// Room is attached when the message is read back and is not required on write.
type Message struct {
	ID            string    `json:"id"`
	Author        string    `json:"author"`
	SenderAddress string    `json:"senderAddress"`
	Content       string    `json:"content"`
	CreatedAt     time.Time `json:"createdAt"`
	Room          string    `json:"room,omitempty"`
}

// NewMessage stamps a fresh id and the current time on an outbound message.
func NewMessage(author, senderAddress, content string, now time.Time) Message {
	return Message{
		ID:            uuid.NewString(),
		Author:        author,
		SenderAddress: senderAddress,
		Content:       BoundContent(content),
		CreatedAt:     now.UTC(),
	}
}

// BoundContent cuts content to MaxContentLength characters.
func BoundContent(content string) string {
	runes := []rune(content)
	if len(runes) <= MaxContentLength {
		return content
	}
	return string(runes[:MaxContentLength])
}

// InRoom returns a copy of the message tagged with the room it was read from.
func (m Message) InRoom(room string) Message {
	m.Room = room
	return m
}

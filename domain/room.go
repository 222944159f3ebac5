package domain

import (
	"encoding/hex"
	"strings"

	"github.com/zeebo/blake3"
)

// RoomNamespace prefixes every room name before hashing so that room keys
// never collide with other tables owned by the same ledger namespace.
const RoomNamespace = "chatroom:"

// RoomKey identifies a room's table inside the ledger namespace.
type RoomKey [32]byte

// NewRoomKey hashes the normalized name, so every spelling of a room maps
// to the same table.
func NewRoomKey(name string) RoomKey {
	return blake3.Sum256([]byte(RoomNamespace + NormalizeRoomName(name)))
}

func (k RoomKey) String() string {
	return hex.EncodeToString(k[:])
}

// Chatroom is a named room mapped 1:1 to a ledger table.
// TableAddress stays empty while the ledger is not write capable.
type Chatroom struct {
	Name         string
	Key          RoomKey
	TableAddress string
}

func NewChatroom(name string) Chatroom {
	return Chatroom{Name: name, Key: NewRoomKey(name)}
}

// HasTable reports whether the room can be addressed on the ledger.
func (c Chatroom) HasTable() bool {
	return c.TableAddress != ""
}

// NormalizeRoomName is the registry key of a room reference.
func NormalizeRoomName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

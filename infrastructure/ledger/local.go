// Package ledger provides the embedded ledger backend: one append-only table
// per room, stored in BadgerDB and addressed by a hash of namespace and room key.
package ledger

import (
	"chat-relay/contract"
	"chat-relay/domain"
	"chat-relay/errors"
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/zeebo/blake3"
)

// RowPrefix starts every row key.
const RowPrefix = "row:"

// StoredRow is the value kept for each row key.
type StoredRow struct {
	TxRef     domain.TxRef `json:"tx"`
	Table     string       `json:"table"`
	Signer    string       `json:"signer"`
	Signature []byte       `json:"signature"`
	Payload   []byte       `json:"payload"`
	WrittenAt time.Time    `json:"writtenAt"`
}

type Local struct {
	db  *badger.DB
	log *slog.Logger
	now func() time.Time
}

func NewLocal(db *badger.DB, log *slog.Logger) *Local {
	return &Local{db: db, log: log, now: time.Now}
}

// DeriveTableAddress is deterministic: the same namespace and room key always
// give the same table address.
func DeriveTableAddress(namespaceID string, key domain.RoomKey) (string, error) {
	if namespaceID == "" {
		return "", fmt.Errorf("namespace id is required to derive a table address")
	}
	hasher := blake3.New()
	_, _ = hasher.Write([]byte(namespaceID))
	_, _ = hasher.Write([]byte{0})
	_, _ = hasher.Write(key[:])
	return hex.EncodeToString(hasher.Sum(nil)), nil
}

func (l *Local) DeriveTableAddress(namespaceID string, key domain.RoomKey) (string, error) {
	return DeriveTableAddress(namespaceID, key)
}

// WriteRow signs and appends payload to the room table.
// The key is formatted as "row:{table}:{timestamp_padded}:{tx}" so a reverse
// prefix scan returns the most recent rows first.
func (l *Local) WriteRow(ctx context.Context, signer contract.Signer, namespaceID string, key domain.RoomKey, payload []byte) (domain.TxRef, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if signer == nil {
		return "", errors.ErrNotInitialized
	}
	table, err := DeriveTableAddress(namespaceID, key)
	if err != nil {
		return "", err
	}

	signature := signer.Sign(payload)
	if !Verify(signer.Address(), payload, signature) {
		return "", errors.ErrInvalidSignature
	}

	at := l.now().UTC()
	row := StoredRow{
		Table:     table,
		Signer:    signer.Address(),
		Signature: signature,
		Payload:   payload,
		WrittenAt: at,
	}
	row.TxRef = txRef(row)

	bytes, err := json.Marshal(row)
	if err != nil {
		return "", err
	}
	rowKey := fmt.Sprintf("%s%s:%019d:%s", RowPrefix, table, at.UnixNano(), row.TxRef)
	if err = l.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(rowKey), bytes)
	}); err != nil {
		return "", err
	}
	l.log.Debug("Row written", "table", table, "tx", row.TxRef, "size", len(payload))
	return row.TxRef, nil
}

// ReadRows returns at most limit rows of the table, most recent first.
func (l *Local) ReadRows(ctx context.Context, table string, limit int) ([]contract.Row, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var rows []contract.Row
	err := l.db.View(func(txn *badger.Txn) error {
		prefix := []byte(RowPrefix + table + ":")
		options := badger.DefaultIteratorOptions
		options.Reverse = true
		it := txn.NewIterator(options)
		defer it.Close()

		// Seek past the newest possible timestamp, then walk backwards.
		seekKey := append(append([]byte{}, prefix...), []byte("9999999999999999999")...)
		for it.Seek(seekKey); it.ValidForPrefix(prefix); it.Next() {
			if limit > 0 && len(rows) == limit {
				break
			}
			var stored StoredRow
			if err := it.Item().Value(func(value []byte) error {
				return json.Unmarshal(value, &stored)
			}); err != nil {
				return err
			}
			rows = append(rows, toRow(stored))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func toRow(stored StoredRow) contract.Row {
	return contract.Row{
		TxRef:     stored.TxRef,
		Table:     stored.Table,
		Signer:    stored.Signer,
		Payload:   stored.Payload,
		WrittenAt: stored.WrittenAt,
	}
}

func txRef(row StoredRow) domain.TxRef {
	hasher := blake3.New()
	_, _ = hasher.Write([]byte(row.Table))
	_, _ = hasher.Write([]byte(row.Signer))
	_, _ = hasher.Write(row.Signature)
	_, _ = hasher.Write(row.Payload)
	_, _ = hasher.Write([]byte(row.WrittenAt.Format(time.RFC3339Nano)))
	return domain.TxRef(hex.EncodeToString(hasher.Sum(nil)))
}

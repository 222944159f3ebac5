package main

import (
	"chat-relay/infrastructure/ledger"
	"chat-relay/infrastructure/wire"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/olekukonko/tablewriter"
)

func main() {
	dbPath := flag.String("db", "./data/ledger", "Path to the ledger badger DB")
	prefix := flag.String("prefix", ledger.RowPrefix, "Prefix to scan")
	flag.Parse()

	db, err := openDB(*dbPath)
	if err != nil {
		log.Fatal("Error while opening Badger: ", err)
	}
	defer db.Close()

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Table", "Written", "Tx", "Signer", "Author", "Content"})
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")

	err = db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefixBytes := []byte(*prefix)
		for it.Seek(prefixBytes); it.ValidForPrefix(prefixBytes); it.Next() {
			item := it.Item()
			err := item.Value(func(v []byte) error {
				var row ledger.StoredRow
				if err := json.Unmarshal(v, &row); err != nil {
					fmt.Printf("Error decoding key %s: %v\n", string(item.Key()), err)
					return nil
				}
				author, content := "?", "<undecodable payload>"
				if message, err := wire.DecodeMessage(row.Payload); err == nil {
					author, content = message.Author, message.Content
				}
				table.Append([]string{
					short(row.Table, 12),
					row.WrittenAt.Format("2006-01-02 15:04:05"),
					short(string(row.TxRef), 12),
					short(row.Signer, 12),
					author,
					short(content, 60),
				})
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Fatal(err)
	}

	table.Render()
}

func short(s string, n int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if len([]rune(s)) <= n {
		return s
	}
	return string([]rune(s)[:n]) + "…"
}

func openDB(path string) (*badger.DB, error) {
	opts := badger.DefaultOptions(path).
		WithReadOnly(true).
		WithLogger(nil).
		WithBypassLockGuard(true)
	return badger.Open(opts)
}

// Package journal records the last reconciliation outcome per managed
// resource in a local BadgerDB, so operators can inspect what the most
// recent pass decided without replaying it.
package journal

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dgraph-io/badger/v3"

	"github.com/cloudsync-io/identity-sync/internal/metrics"
)

const resourcePrefix = "resource:"

type Journal interface {
	Record(ctx context.Context, entry Entry) error
	Load(ctx context.Context) ([]Entry, error)
	Close() error
}

// Entry is the persisted outcome of one converge.
type Entry struct {
	Kind       string `json:"kind"`
	Name       string `json:"name"`
	Action     string `json:"action"`
	Changed    bool   `json:"changed"`
	ResourceID string `json:"resourceId"`
	SyncedAt   int64  `json:"syncedAt"`
}

func (e Entry) key() []byte {
	return []byte(resourcePrefix + e.Kind + "/" + e.Name)
}

type badgerJournal struct {
	db      *badger.DB
	metrics *metrics.Metrics
}

func New(path string, metrics *metrics.Metrics) (Journal, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil // Disable Badger's internal logger

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger db: %w", err)
	}
	j := &badgerJournal{db: db, metrics: metrics}
	return j, nil
}

func (j *badgerJournal) Record(ctx context.Context, entry Entry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		j.metrics.IncJournalRequest("update", false)
		return err
	}
	err = j.db.Update(func(txn *badger.Txn) error {
		return txn.Set(entry.key(), data)
	})
	j.metrics.IncJournalRequest("update", err == nil)
	return err
}

func (j *badgerJournal) Load(ctx context.Context) ([]Entry, error) {
	var entries []Entry

	err := j.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(resourcePrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			err := item.Value(func(val []byte) error {
				var entry Entry
				if err := json.Unmarshal(val, &entry); err != nil {
					return err
				}
				entries = append(entries, entry)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	j.metrics.IncJournalRequest("read", err == nil)
	return entries, err
}

func (j *badgerJournal) Close() error {
	return j.db.Close()
}

// NewBadgerSnapshotStore backs a Store with an on-disk Badger database.
// The replicated map itself never uses this — it is wired up only by
// the optional debug snapshot exporter (see cmd/server's -snapshot-dir
// flag), so Badger never participates in recovery and the "no durable
// storage" non-goal for the consensus path still holds.
package kvstore

import (
	"errors"

	"github.com/dgraph-io/badger/v4"
)

func NewBadgerSnapshotStore(db *badger.DB) Store {
	return &badgerSnapshot{db: db}
}

type badgerSnapshot struct {
	db *badger.DB
}

func (b *badgerSnapshot) Update(fn func(txn Txn) any) any {
	var out any
	_ = b.db.Update(func(txn *badger.Txn) error {
		out = fn(&badgerTxn{txn: txn})
		return nil
	})
	return out
}

func (b *badgerSnapshot) Keys() []string {
	var keys []string
	_ = b.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			keys = append(keys, string(it.Item().KeyCopy(nil)))
		}
		return nil
	})
	return keys
}

type badgerTxn struct {
	txn *badger.Txn
}

func (b *badgerTxn) Get(key string) (value string, ok bool) {
	item, err := b.txn.Get([]byte(key))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return "", false
	}
	if err != nil {
		panic(err)
	}
	err = item.Value(func(val []byte) error {
		value = string(val)
		return nil
	})
	if err != nil {
		panic(err)
	}
	return value, true
}

func (b *badgerTxn) Set(key, value string) {
	if err := b.txn.Set([]byte(key), []byte(value)); err != nil {
		panic(err)
	}
}

func (b *badgerTxn) Del(key string) {
	if err := b.txn.Delete([]byte(key)); err != nil {
		panic(err)
	}
}

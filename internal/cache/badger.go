// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package cache

import (
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/tomtom215/spatial/internal/logging"
)

// badgerPrefix namespaces version cache keys inside a shared badger database.
const badgerPrefix = "vcache:"

// Badger keeps cached lookups in a badger database so they survive restarts
// of the process within their ttl.
type Badger struct {
	db *badger.DB
}

// OpenBadger opens a badger database at path, or an in-memory one when path
// is empty.
func OpenBadger(path string) (*Badger, error) {
	opts := badger.DefaultOptions(path).WithLogger(nil)
	if path == "" {
		opts = opts.WithInMemory(true)
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger cache at %q: %w", path, err)
	}
	return &Badger{db: db}, nil
}

func (b *Badger) Get(key string) ([]byte, bool) {
	var value []byte
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(badgerPrefix + key))
		if err != nil {
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		if !errors.Is(err, badger.ErrKeyNotFound) {
			logging.Warn().Err(err).Str("key", key).Msg("badger cache read failed")
		}
		return nil, false
	}
	return value, true
}

func (b *Badger) Set(key string, value []byte, ttl time.Duration) {
	err := b.db.Update(func(txn *badger.Txn) error {
		e := badger.NewEntry([]byte(badgerPrefix+key), value)
		if ttl > 0 {
			e = e.WithTTL(ttl)
		}
		return txn.SetEntry(e)
	})
	if err != nil {
		logging.Warn().Err(err).Str("key", key).Msg("badger cache write failed")
	}
}

func (b *Badger) Delete(key string) {
	err := b.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(badgerPrefix + key))
	})
	if err != nil {
		logging.Warn().Err(err).Str("key", key).Msg("badger cache delete failed")
	}
}

func (b *Badger) Close() error {
	return b.db.Close()
}

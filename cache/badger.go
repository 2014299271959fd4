// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package cache

import (
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/options"
)

// Badger is a Store backed by an in-memory BadgerDB instance. Entry expiry
// is enforced natively via per-entry TTLs, so a Get on an expired entry
// misses without waiting for a sweep. Nothing is ever written to disk:
// supplier data is request-scoped or cache-scoped only.
type Badger struct {
	db     *badger.DB
	logger *slog.Logger

	hits   atomic.Uint64
	misses atomic.Uint64
	errors atomic.Uint64
}

var _ Store = (*Badger)(nil)

// badgerLoggerAdapter adapts slog.Logger to badger.Logger interface.
type badgerLoggerAdapter struct {
	logger *slog.Logger
}

var _ badger.Logger = (*badgerLoggerAdapter)(nil)

func (bl *badgerLoggerAdapter) Errorf(msg string, items ...any) {
	bl.logger.Error(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Warningf(msg string, items ...any) {
	bl.logger.Warn(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Infof(msg string, items ...any) {
	bl.logger.Info(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Debugf(msg string, items ...any) {
	bl.logger.Debug(fmt.Sprintf(msg, items...))
}

// BadgerOption configures a Badger store.
type BadgerOption func(*Badger)

// WithBadgerLogger sets a custom logger.
// Default is slog.Default().
func WithBadgerLogger(logger *slog.Logger) BadgerOption {
	return func(b *Badger) {
		if logger == nil {
			logger = slog.Default()
		}
		b.logger = logger
	}
}

// NewBadger opens an in-memory BadgerDB store.
func NewBadger(opts ...BadgerOption) (*Badger, error) {
	b := &Badger{logger: slog.Default()}
	for _, opt := range opts {
		opt(b)
	}

	dbOpts := badger.DefaultOptions("").WithInMemory(true)
	dbOpts.Logger = &badgerLoggerAdapter{logger: b.logger}
	dbOpts.Compression = options.None

	db, err := badger.Open(dbOpts)
	if err != nil {
		return nil, err
	}
	b.db = db
	return b, nil
}

// Get returns the cached value. Expired entries miss natively.
func (b *Badger) Get(key string) ([]byte, bool) {
	var value []byte
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})

	switch {
	case err == nil:
		b.hits.Add(1)
		return value, true
	case errors.Is(err, badger.ErrKeyNotFound):
		b.misses.Add(1)
		return nil, false
	default:
		b.errors.Add(1)
		b.logger.Error("badger cache read failed", "key", key, "err", err)
		return nil, false
	}
}

// Set stores value under key with the given TTL.
func (b *Badger) Set(key string, value []byte, ttl time.Duration) {
	err := b.db.Update(func(txn *badger.Txn) error {
		e := badger.NewEntry([]byte(key), value).WithTTL(ttl)
		return txn.SetEntry(e)
	})
	if err != nil {
		b.errors.Add(1)
		b.logger.Error("badger cache write failed", "key", key, "err", err)
	}
}

// Delete removes the entry, reporting whether it was present and live.
func (b *Badger) Delete(key string) bool {
	present := false
	err := b.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get([]byte(key)); err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return nil
			}
			return err
		}
		present = true
		return txn.Delete([]byte(key))
	})
	if err != nil {
		b.errors.Add(1)
		b.logger.Error("badger cache delete failed", "key", key, "err", err)
		return false
	}
	return present
}

// Sweep explicitly drops entries whose TTL has elapsed. Badger already
// hides expired entries from reads, so this only reclaims space early.
func (b *Badger) Sweep() (int, error) {
	now := uint64(time.Now().Unix())

	var expired [][]byte
	err := b.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.IteratorOptions{PrefetchValues: false})
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()
			if exp := item.ExpiresAt(); exp != 0 && exp <= now {
				expired = append(expired, item.KeyCopy(nil))
			}
		}
		return nil
	})
	if err != nil {
		b.errors.Add(1)
		return 0, err
	}
	if len(expired) == 0 {
		return 0, nil
	}

	err = b.db.Update(func(txn *badger.Txn) error {
		for _, key := range expired {
			if err := txn.Delete(key); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		b.errors.Add(1)
		return 0, err
	}
	return len(expired), nil
}

// Stats returns current counters. The entry count walks the keyspace; it is
// intended for the occasional health probe, not hot paths.
func (b *Badger) Stats() Stats {
	entries := 0
	_ = b.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.IteratorOptions{PrefetchValues: false})
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			entries++
		}
		return nil
	})

	return Stats{
		Entries: entries,
		Hits:    b.hits.Load(),
		Misses:  b.misses.Load(),
		Errors:  b.errors.Load(),
	}
}

// Close closes the underlying database.
func (b *Badger) Close() error {
	return b.db.Close()
}

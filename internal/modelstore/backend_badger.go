// Campkit - Campsite Recommendations and Weather Forecasting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campkit

package modelstore

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dgraph-io/badger/v4"
)

const artifactKeyPrefix = "artifact:"

// BadgerBackend stores envelopes in BadgerDB under "artifact:{name}".
type BadgerBackend struct {
	db     *badger.DB
	ownsDB bool
}

// OpenBadgerBackend opens a BadgerDB at dir. An empty dir opens an in-memory DB.
func OpenBadgerBackend(dir string) (*BadgerBackend, error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	if dir == "" {
		opts = opts.WithInMemory(true)
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger: %w", err)
	}
	return &BadgerBackend{db: db, ownsDB: true}, nil
}

// NewBadgerBackend wraps an existing DB. Close leaves the DB open.
func NewBadgerBackend(db *badger.DB) *BadgerBackend {
	return &BadgerBackend{db: db}
}

// Get implements Backend.
func (b *BadgerBackend) Get(_ context.Context, name string) ([]byte, error) {
	var data []byte
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(artifactKeyPrefix + name))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("get artifact: %w", err)
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		return nil, err
	}
	return data, nil
}

// Put implements Backend.
func (b *BadgerBackend) Put(_ context.Context, name string, data []byte) error {
	return b.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set([]byte(artifactKeyPrefix+name), data); err != nil {
			return fmt.Errorf("set artifact: %w", err)
		}
		return nil
	})
}

// Delete implements Backend.
func (b *BadgerBackend) Delete(_ context.Context, name string) error {
	return b.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(artifactKeyPrefix + name))
	})
}

// Names implements Backend. Badger iterates keys in sorted order.
func (b *BadgerBackend) Names(_ context.Context) ([]string, error) {
	var names []string
	err := b.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = []byte(artifactKeyPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			names = append(names, strings.TrimPrefix(string(it.Item().Key()), artifactKeyPrefix))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list artifacts: %w", err)
	}
	return names, nil
}

// Close implements Backend.
func (b *BadgerBackend) Close() error {
	if !b.ownsDB {
		return nil
	}
	return b.db.Close()
}

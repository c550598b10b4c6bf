// Presto - Product Recommendations from Review Graphs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/presto

package ingest

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
)

// ProgressTracker stores resume checkpoints, one per table and source.
type ProgressTracker interface {
	Save(ctx context.Context, stats *Stats) error
	// Load returns nil, nil when nothing was saved for the key.
	Load(ctx context.Context, table Table, source string) (*Stats, error)
	Clear(ctx context.Context, table Table, source string) error
}

func progressKey(table Table, source string) []byte {
	return []byte("ingest:" + string(table) + ":" + source)
}

// BadgerProgress persists checkpoints in BadgerDB so an interrupted
// ingest resumes after a restart.
type BadgerProgress struct {
	db *badger.DB
}

func NewBadgerProgress(db *badger.DB) *BadgerProgress {
	return &BadgerProgress{db: db}
}

// OpenBadgerProgress opens (or creates) a progress store at dir.
// The caller closes the returned database.
func OpenBadgerProgress(dir string) (*BadgerProgress, *badger.DB, error) {
	db, err := badger.Open(badger.DefaultOptions(dir).WithLogger(nil))
	if err != nil {
		return nil, nil, fmt.Errorf("open progress store: %w", err)
	}
	return NewBadgerProgress(db), db, nil
}

// OpenProgress returns a Badger tracker when dir is set and an in-memory
// one otherwise. closeFn is never nil.
func OpenProgress(dir string) (tracker ProgressTracker, closeFn func() error, err error) {
	if dir == "" {
		return NewInMemoryProgress(), func() error { return nil }, nil
	}
	p, db, err := OpenBadgerProgress(dir)
	if err != nil {
		return nil, nil, err
	}
	return p, db.Close, nil
}

func (p *BadgerProgress) Save(_ context.Context, stats *Stats) error {
	data, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("marshal stats: %w", err)
	}
	return p.db.Update(func(txn *badger.Txn) error {
		return txn.Set(progressKey(stats.Table, stats.Source), data)
	})
}

func (p *BadgerProgress) Load(_ context.Context, table Table, source string) (*Stats, error) {
	var (
		stats Stats
		found bool
	)
	err := p.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(progressKey(table, source))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		found = true
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &stats)
		})
	})
	if err != nil {
		return nil, fmt.Errorf("load progress: %w", err)
	}
	if !found {
		return nil, nil
	}
	return &stats, nil
}

func (p *BadgerProgress) Clear(_ context.Context, table Table, source string) error {
	return p.db.Update(func(txn *badger.Txn) error {
		err := txn.Delete(progressKey(table, source))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		return err
	})
}

// InMemoryProgress keeps checkpoints for the life of the process.
type InMemoryProgress struct {
	mu    sync.Mutex
	stats map[string]Stats
}

func NewInMemoryProgress() *InMemoryProgress {
	return &InMemoryProgress{stats: make(map[string]Stats)}
}

func (p *InMemoryProgress) Save(_ context.Context, stats *Stats) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stats[string(progressKey(stats.Table, stats.Source))] = *stats
	return nil
}

func (p *InMemoryProgress) Load(_ context.Context, table Table, source string) (*Stats, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	s, ok := p.stats[string(progressKey(table, source))]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (p *InMemoryProgress) Clear(_ context.Context, table Table, source string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.stats, string(progressKey(table, source)))
	return nil
}

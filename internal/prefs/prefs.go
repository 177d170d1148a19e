// Package prefs persists per-client column visibility for each table shape.
package prefs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"

	"tawny-metrics/internal/prospect"
	"tawny-metrics/internal/table"
)

// ErrNotFound is returned by stores when nothing has been saved for a key.
var ErrNotFound = errors.New("preference not found")

// Store holds raw preference blobs keyed by client and table shape.
type Store interface {
	Get(ctx context.Context, owner, tableKey string) ([]byte, error)
	Put(ctx context.Context, owner, tableKey string, blob []byte) error
	Close() error
}

// Preferences reads and writes column visibility through a Store.
type Preferences struct {
	store Store
}

func New(store Store) *Preferences {
	return &Preferences{store: store}
}

// Restore overlays saved visibility onto set. Missing, unreadable or malformed
// preferences leave the defaults in place.
func (p *Preferences) Restore(ctx context.Context, owner string, set *table.ColumnSet) {
	blob, err := p.store.Get(ctx, owner, set.StorageKey())
	if errors.Is(err, ErrNotFound) {
		return
	}
	if err != nil {
		log.Warn().Err(err).Str("table", set.StorageKey()).Msg("Failed to read column preferences")
		return
	}
	var visible map[string]bool
	if err := json.Unmarshal(blob, &visible); err != nil {
		log.Warn().Err(err).Str("table", set.StorageKey()).Msg("Ignoring malformed column preferences")
		return
	}
	set.Overlay(visible)
}

// Toggle flips one column and writes the whole visibility map back.
func (p *Preferences) Toggle(ctx context.Context, owner string, set *table.ColumnSet, key prospect.Field) error {
	if !set.Toggle(key) {
		return fmt.Errorf("unknown column %q", key)
	}
	blob, err := json.Marshal(set.Snapshot())
	if err != nil {
		return fmt.Errorf("encoding column preferences: %w", err)
	}
	if err := p.store.Put(ctx, owner, set.StorageKey(), blob); err != nil {
		return fmt.Errorf("saving column preferences: %w", err)
	}
	return nil
}

type pinger interface {
	Ping(ctx context.Context) error
}

// Ping checks the backing store when it supports a health probe.
func (p *Preferences) Ping(ctx context.Context) error {
	if s, ok := p.store.(pinger); ok {
		return s.Ping(ctx)
	}
	return nil
}

// Close releases the backing store.
func (p *Preferences) Close() error {
	return p.store.Close()
}

// MemoryStore keeps preferences in process. It backs tests and runs without a
// configured database.
type MemoryStore struct {
	mu   sync.Mutex
	data map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string][]byte)}
}

func (m *MemoryStore) Get(_ context.Context, owner, tableKey string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	blob, ok := m.data[owner+"/"+tableKey]
	if !ok {
		return nil, ErrNotFound
	}
	return blob, nil
}

func (m *MemoryStore) Put(_ context.Context, owner, tableKey string, blob []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[owner+"/"+tableKey] = append([]byte(nil), blob...)
	return nil
}

func (m *MemoryStore) Close() error { return nil }

package prefs

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tawny-metrics/internal/prospect"
	"tawny-metrics/internal/table"
)

func TestPreferencesRoundTrip(t *testing.T) {
	ctx := context.Background()
	p := New(NewMemoryStore())

	set := table.NewColumnSet(table.ConsensusColumns)
	require.NoError(t, p.Toggle(ctx, "client-1", set, prospect.Boards))

	restored := table.NewColumnSet(table.ConsensusColumns)
	p.Restore(ctx, "client-1", restored)
	c, ok := restored.Lookup(prospect.Boards)
	require.True(t, ok)
	assert.True(t, c.Visible)

	other := table.NewColumnSet(table.ConsensusColumns)
	p.Restore(ctx, "client-2", other)
	c, _ = other.Lookup(prospect.Boards)
	assert.False(t, c.Visible)
}

func TestPreferencesScopedByTableShape(t *testing.T) {
	ctx := context.Background()
	p := New(NewMemoryStore())

	consensus := table.NewColumnSet(table.ConsensusColumns)
	require.NoError(t, p.Toggle(ctx, "c", consensus, prospect.Name))

	history := table.NewColumnSet(table.HistoryColumns)
	p.Restore(ctx, "c", history)
	c, _ := history.Lookup(prospect.Name)
	assert.True(t, c.Visible)
}

func TestRestoreIgnoresMalformedBlob(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	set := table.NewColumnSet(table.ConsensusColumns)
	require.NoError(t, store.Put(ctx, "c", set.StorageKey(), []byte("{not json")))

	New(store).Restore(ctx, "c", set)
	assert.Equal(t, table.NewColumnSet(table.ConsensusColumns).Snapshot(), set.Snapshot())
}

func TestToggleUnknownColumn(t *testing.T) {
	set := table.NewColumnSet(table.ConsensusColumns)
	err := New(NewMemoryStore()).Toggle(context.Background(), "c", set, "Shoe Size")
	assert.Error(t, err)
}

func TestSQLiteStore(t *testing.T) {
	ctx := context.Background()
	store, err := OpenSQLite(ctx, filepath.Join(t.TempDir(), "prefs.db"))
	require.NoError(t, err)
	defer store.Close()

	_, err = store.Get(ctx, "c", "columns:1")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.Put(ctx, "c", "columns:1", []byte(`{"Tier":false}`)))
	require.NoError(t, store.Put(ctx, "c", "columns:1", []byte(`{"Tier":true}`)))

	blob, err := store.Get(ctx, "c", "columns:1")
	require.NoError(t, err)
	assert.JSONEq(t, `{"Tier":true}`, string(blob))
	assert.NoError(t, store.Ping(ctx))
}

func TestRedisStore(t *testing.T) {
	url := os.Getenv("REDIS_URL")
	if url == "" {
		t.Skip("REDIS_URL not set")
	}
	ctx := context.Background()
	store, err := OpenRedis(ctx, url)
	require.NoError(t, err)
	defer store.Close()

	owner := uuid.NewString()
	_, err = store.Get(ctx, owner, "columns:1")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.Put(ctx, owner, "columns:1", []byte(`{"Tier":true}`)))
	blob, err := store.Get(ctx, owner, "columns:1")
	require.NoError(t, err)
	assert.JSONEq(t, `{"Tier":true}`, string(blob))
	store.client.Del(ctx, redisKey(owner, "columns:1"))
}

func TestRedisKey(t *testing.T) {
	assert.Equal(t, "prefs:abc:columns:ff", redisKey("abc", "columns:ff"))
}

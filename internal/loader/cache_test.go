package loader

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchCachesValue(t *testing.T) {
	c := NewCache(time.Minute)
	calls := 0
	load := func(context.Context) (string, error) {
		calls++
		return "board", nil
	}

	for i := 0; i < 3; i++ {
		v, err := Fetch(context.Background(), c, "board-2025", nil, load)
		require.NoError(t, err)
		assert.Equal(t, "board", v)
	}
	assert.Equal(t, 1, calls)
}

func TestFetchExpiresAfterTTL(t *testing.T) {
	c := NewCache(time.Minute)
	now := time.Date(2025, 6, 25, 20, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	calls := 0
	load := func(context.Context) (int, error) {
		calls++
		return calls, nil
	}

	v, _ := Fetch(context.Background(), c, "k", nil, load)
	assert.Equal(t, 1, v)

	now = now.Add(59 * time.Second)
	v, _ = Fetch(context.Background(), c, "k", nil, load)
	assert.Equal(t, 1, v)

	now = now.Add(2 * time.Second)
	v, _ = Fetch(context.Background(), c, "k", nil, load)
	assert.Equal(t, 2, v)
}

func TestFetchDoesNotCacheErrors(t *testing.T) {
	c := NewCache(0)
	calls := 0
	load := func(context.Context) (int, error) {
		calls++
		if calls == 1 {
			return 0, errors.New("boom")
		}
		return 7, nil
	}

	_, err := Fetch(context.Background(), c, "k", nil, load)
	assert.Error(t, err)
	v, err := Fetch(context.Background(), c, "k", nil, load)
	require.NoError(t, err)
	assert.Equal(t, 7, v)
}

func TestFetchCollapsesConcurrentLoads(t *testing.T) {
	c := NewCache(0)
	var calls atomic.Int32
	release := make(chan struct{})
	load := func(context.Context) (int, error) {
		calls.Add(1)
		<-release
		return 42, nil
	}

	var wg sync.WaitGroup
	results := make([]int, 5)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = Fetch(context.Background(), c, "k", nil, load)
		}(i)
	}
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, []int{42, 42, 42, 42, 42}, results)
}

func TestSupersededLoadIsNotStored(t *testing.T) {
	c := NewCache(0)
	started := make(chan struct{})
	release := make(chan struct{})
	stale := func(context.Context) (string, error) {
		close(started)
		<-release
		return "2024 data", nil
	}

	done := make(chan string)
	go func() {
		v, _ := Fetch(context.Background(), c, "history", []string{"history/2024.csv"}, stale)
		done <- v
	}()

	<-started
	assert.Equal(t, 1, c.InvalidateFile("history/2024.csv"))
	assert.Equal(t, uint64(1), c.Generation("history"))

	fresh, err := Fetch(context.Background(), c, "history", []string{"history/2024.csv"}, func(context.Context) (string, error) {
		return "2024 data v2", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "2024 data v2", fresh)

	close(release)
	assert.Equal(t, "2024 data", <-done)

	// the superseded result must not replace the newer one
	v, err := Fetch(context.Background(), c, "history", nil, func(context.Context) (string, error) {
		t.Fatal("expected cached value")
		return "", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "2024 data v2", v)
}

func TestPurge(t *testing.T) {
	c := NewCache(0)
	calls := 0
	load := func(context.Context) (int, error) {
		calls++
		return calls, nil
	}
	Fetch(context.Background(), c, "a", nil, load)
	c.Purge()
	v, _ := Fetch(context.Background(), c, "a", nil, load)
	assert.Equal(t, 2, v)
}

func TestWatcherInvalidatesChangedFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "history"), 0o755))
	file := filepath.Join(dir, "history", "2025.csv")
	require.NoError(t, os.WriteFile(file, []byte("Name\nA\n"), 0o644))

	c := NewCache(0)
	_, err := Fetch(context.Background(), c, "history-2025", []string{"history/2025.csv"}, func(context.Context) (int, error) {
		return 1, nil
	})
	require.NoError(t, err)

	w, err := NewWatcher(dir, c)
	require.NoError(t, err)
	w.debounceDur = 10 * time.Millisecond
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	w.Start(ctx)
	defer w.Stop()

	require.NoError(t, os.WriteFile(file, []byte("Name\nA\nB\n"), 0o644))

	assert.Eventually(t, func() bool {
		return c.Generation("history-2025") > 0
	}, 2*time.Second, 20*time.Millisecond)
}

package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestStore_GetOrLoad_CollapsesConcurrentLoads(t *testing.T) {
	t.Parallel()

	store := NewStore[[]int](time.Minute)
	var calls atomic.Int32

	loader := func(context.Context) ([]int, error) {
		calls.Add(1)
		time.Sleep(20 * time.Millisecond)
		return []int{1, 2, 3}, nil
	}

	const workers = 32
	start := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(workers)
	errCh := make(chan error, workers)

	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			<-start
			v, err := store.GetOrLoad(context.Background(), "bootstrap", loader)
			if err != nil {
				errCh <- err
				return
			}
			if len(v) != 3 {
				errCh <- errUnexpectedValue
			}
		}()
	}

	close(start)
	wg.Wait()
	close(errCh)
	for err := range errCh {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := calls.Load(); got != 1 {
		t.Fatalf("loader called %d times, want 1", got)
	}
}

func TestStore_ExpiresEntries(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 8, 15, 10, 0, 0, 0, time.UTC)
	store := NewStore[string](5 * time.Minute)
	store.now = func() time.Time { return now }

	store.Set(context.Background(), "k", "v")
	if got, ok := store.Get(context.Background(), "k"); !ok || got != "v" {
		t.Fatalf("expected fresh entry, got %q ok=%v", got, ok)
	}

	now = now.Add(5 * time.Minute)
	if _, ok := store.Get(context.Background(), "k"); ok {
		t.Fatalf("expected entry to expire at ttl boundary")
	}
	if store.Len() != 0 {
		t.Fatalf("expected expired entry to be evicted, len=%d", store.Len())
	}
}

func TestStore_GetOrLoad_DoesNotCacheErrors(t *testing.T) {
	t.Parallel()

	store := NewStore[string](time.Minute)
	var calls atomic.Int32
	failing := func(context.Context) (string, error) {
		calls.Add(1)
		return "", errUnexpectedValue
	}

	for i := 0; i < 2; i++ {
		if _, err := store.GetOrLoad(context.Background(), "k", failing); !errors.Is(err, errUnexpectedValue) {
			t.Fatalf("expected loader error, got %v", err)
		}
	}
	if got := calls.Load(); got != 2 {
		t.Fatalf("loader called %d times, want 2", got)
	}
}

func TestStore_GetOrLoad_ServesStaleOnError(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 8, 15, 10, 0, 0, 0, time.UTC)
	var (
		hookKey string
		hookAge time.Duration
	)
	store := NewStore[string](time.Minute, WithStaleOnError(10*time.Minute, func(key string, age time.Duration, _ error) {
		hookKey, hookAge = key, age
	}))
	store.now = func() time.Time { return now }
	ctx := context.Background()

	store.Set(ctx, "/bootstrap-static/", "gw1")
	now = now.Add(3 * time.Minute)

	if _, ok := store.Get(ctx, "/bootstrap-static/"); ok {
		t.Fatalf("expected Get to skip a stale entry")
	}
	got, err := store.GetOrLoad(ctx, "/bootstrap-static/", func(context.Context) (string, error) {
		return "", errUnexpectedValue
	})
	if err != nil || got != "gw1" {
		t.Fatalf("expected stale value, got %q err=%v", got, err)
	}
	if hookKey != "/bootstrap-static/" || hookAge != 3*time.Minute {
		t.Fatalf("stale hook got key=%q age=%s", hookKey, hookAge)
	}

	now = now.Add(10 * time.Minute)
	if _, err := store.GetOrLoad(ctx, "/bootstrap-static/", func(context.Context) (string, error) {
		return "", errUnexpectedValue
	}); !errors.Is(err, errUnexpectedValue) {
		t.Fatalf("expected loader error past the stale window, got %v", err)
	}
	if store.Len() != 0 {
		t.Fatalf("expected entry evicted past the stale window, len=%d", store.Len())
	}
}

func TestStore_ExpireForcesReloadButKeepsFallback(t *testing.T) {
	t.Parallel()

	store := NewStore[int](time.Hour, WithStaleOnError(time.Hour, nil))
	ctx := context.Background()
	store.Set(ctx, "/fixtures/", 1)
	store.Set(ctx, "/event/3/live/", 2)

	store.Expire(ctx, "/fixtures/")

	if _, ok := store.Get(ctx, "/fixtures/"); ok {
		t.Fatalf("expected expired entry to need a reload")
	}
	if v, ok := store.Get(ctx, "/event/3/live/"); !ok || v != 2 {
		t.Fatalf("expected other keys untouched, got %d ok=%v", v, ok)
	}

	got, err := store.GetOrLoad(ctx, "/fixtures/", func(context.Context) (int, error) {
		return 0, errUnexpectedValue
	})
	if err != nil || got != 1 {
		t.Fatalf("expected fallback to the expired value, got %d err=%v", got, err)
	}

	got, err = store.GetOrLoad(ctx, "/fixtures/", func(context.Context) (int, error) { return 5, nil })
	if err != nil || got != 5 {
		t.Fatalf("expected reload, got %d err=%v", got, err)
	}
}

var errUnexpectedValue = errors.New("unexpected loaded value")

package cache

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

var errNilLoader = errors.New("cache: loader is required")

// StaleHook observes a loader failure that was answered from a stale entry.
type StaleHook func(key string, age time.Duration, err error)

type Option func(*settings)

type settings struct {
	staleFor time.Duration
	onStale  StaleHook
}

// WithStaleOnError keeps entries for window past their ttl and serves them from
// GetOrLoad when the loader fails. hook may be nil.
func WithStaleOnError(window time.Duration, hook StaleHook) Option {
	return func(s *settings) {
		s.staleFor = window
		s.onStale = hook
	}
}

type entry[V any] struct {
	value     V
	fetchedAt time.Time
}

// Store is an in-process TTL map keyed by string, with each value stamped by
// its fetch time. A zero or negative ttl keeps entries forever.
type Store[V any] struct {
	mu       sync.RWMutex
	entries  map[string]entry[V]
	ttl      time.Duration
	settings settings
	flight   singleflight.Group
	now      func() time.Time
}

func NewStore[V any](ttl time.Duration, opts ...Option) *Store[V] {
	s := &Store[V]{
		entries: make(map[string]entry[V]),
		ttl:     ttl,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(&s.settings)
	}
	return s
}

// Get returns a fresh value only.
func (s *Store[V]) Get(_ context.Context, key string) (V, bool) {
	e, ok := s.lookup(key)
	if !ok || !s.fresh(e) {
		var zero V
		return zero, false
	}
	return e.value, true
}

func (s *Store[V]) Set(_ context.Context, key string, value V) {
	if key == "" {
		return
	}
	s.mu.Lock()
	s.entries[key] = entry[V]{value: value, fetchedAt: s.now()}
	s.mu.Unlock()
}

func (s *Store[V]) Delete(_ context.Context, key string) {
	s.mu.Lock()
	delete(s.entries, key)
	s.mu.Unlock()
}

// Expire marks the entries under prefix as due for reload without dropping
// them, so a failed reload can still fall back to them. An empty prefix
// expires everything.
func (s *Store[V]) Expire(_ context.Context, prefix string) {
	if s.ttl <= 0 {
		return
	}
	due := s.now().Add(-s.ttl)

	s.mu.Lock()
	for key, e := range s.entries {
		if strings.HasPrefix(key, prefix) && e.fetchedAt.After(due) {
			e.fetchedAt = due
			s.entries[key] = e
		}
	}
	s.mu.Unlock()
}

func (s *Store[V]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// GetOrLoad returns the fresh value or runs loader once per key across
// concurrent callers. Loader errors are never cached; with WithStaleOnError
// a stale entry inside the window is returned instead of the error.
func (s *Store[V]) GetOrLoad(ctx context.Context, key string, loader func(context.Context) (V, error)) (V, error) {
	var zero V
	if loader == nil {
		return zero, errNilLoader
	}
	if key == "" {
		return loader(ctx)
	}
	if value, ok := s.Get(ctx, key); ok {
		return value, nil
	}

	out, err, _ := s.flight.Do(key, func() (any, error) {
		if cached, ok := s.Get(ctx, key); ok {
			return cached, nil
		}

		loaded, loadErr := loader(ctx)
		if loadErr == nil {
			s.Set(ctx, key, loaded)
			return loaded, nil
		}

		if stale, ok := s.lookup(key); ok && s.settings.staleFor > 0 {
			if s.settings.onStale != nil {
				s.settings.onStale(key, s.now().Sub(stale.fetchedAt), loadErr)
			}
			return stale.value, nil
		}
		return nil, loadErr
	})
	if err != nil {
		return zero, err
	}
	return out.(V), nil
}

// lookup returns the entry if it is fresh or still inside the stale window,
// evicting it otherwise.
func (s *Store[V]) lookup(key string) (entry[V], bool) {
	if key == "" {
		return entry[V]{}, false
	}

	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok {
		return entry[V]{}, false
	}
	if s.fresh(e) || s.withinStaleWindow(e) {
		return e, true
	}

	s.mu.Lock()
	if current, still := s.entries[key]; still && current.fetchedAt.Equal(e.fetchedAt) {
		delete(s.entries, key)
	}
	s.mu.Unlock()
	return entry[V]{}, false
}

func (s *Store[V]) fresh(e entry[V]) bool {
	return s.ttl <= 0 || s.now().Sub(e.fetchedAt) < s.ttl
}

func (s *Store[V]) withinStaleWindow(e entry[V]) bool {
	return s.settings.staleFor > 0 && s.now().Sub(e.fetchedAt) < s.ttl+s.settings.staleFor
}

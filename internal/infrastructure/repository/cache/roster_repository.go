package cache

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/riskibarqy/fpl-team-builder/internal/domain/roster"
	basecache "github.com/riskibarqy/fpl-team-builder/internal/platform/cache"
)

const rosterListKey = "roster:list"

// RosterRepository is a read-through cache in front of another roster
// repository. Writes go to next first and then invalidate affected keys.
// A load that overlaps a write is dropped once it lands, so it cannot pin the
// pre-write value for a full TTL.
type RosterRepository struct {
	next   roster.Repository
	items  *basecache.Store[cachedRoster]
	lists  *basecache.Store[[]roster.Roster]
	writes atomic.Uint64
}

type cachedRoster struct {
	value  roster.Roster
	exists bool
}

func NewRosterRepository(next roster.Repository, ttl time.Duration) *RosterRepository {
	return &RosterRepository{
		next:  next,
		items: basecache.NewStore[cachedRoster](ttl),
		lists: basecache.NewStore[[]roster.Roster](ttl),
	}
}

func (r *RosterRepository) Create(ctx context.Context, item roster.Roster) error {
	if err := r.next.Create(ctx, item); err != nil {
		return err
	}
	r.invalidate(ctx, item.ID)
	return nil
}

func (r *RosterRepository) Get(ctx context.Context, rosterID string) (roster.Roster, bool, error) {
	key := rosterKey(rosterID)
	seen := r.writes.Load()
	cached, err := r.items.GetOrLoad(ctx, key, func(ctx context.Context) (cachedRoster, error) {
		item, exists, err := r.next.Get(ctx, rosterID)
		if err != nil {
			return cachedRoster{}, err
		}
		return cachedRoster{value: item.Clone(), exists: exists}, nil
	})
	if err != nil {
		return roster.Roster{}, false, err
	}
	if r.writes.Load() != seen {
		r.items.Delete(ctx, key)
	}

	return cached.value.Clone(), cached.exists, nil
}

func (r *RosterRepository) List(ctx context.Context) ([]roster.Roster, error) {
	seen := r.writes.Load()
	items, err := r.lists.GetOrLoad(ctx, rosterListKey, func(ctx context.Context) ([]roster.Roster, error) {
		items, err := r.next.List(ctx)
		if err != nil {
			return nil, err
		}
		return cloneRosters(items), nil
	})
	if err != nil {
		return nil, err
	}
	if r.writes.Load() != seen {
		r.lists.Delete(ctx, rosterListKey)
	}

	return cloneRosters(items), nil
}

func (r *RosterRepository) Update(ctx context.Context, item roster.Roster) (bool, error) {
	updated, err := r.next.Update(ctx, item)
	if err != nil {
		return false, err
	}
	r.invalidate(ctx, item.ID)
	return updated, nil
}

func (r *RosterRepository) Delete(ctx context.Context, rosterID string) (bool, error) {
	deleted, err := r.next.Delete(ctx, rosterID)
	if err != nil {
		return false, err
	}
	r.invalidate(ctx, rosterID)
	return deleted, nil
}

func (r *RosterRepository) invalidate(ctx context.Context, rosterID string) {
	r.writes.Add(1)
	r.items.Delete(ctx, rosterKey(rosterID))
	r.lists.Delete(ctx, rosterListKey)
}

func cloneRosters(items []roster.Roster) []roster.Roster {
	out := make([]roster.Roster, 0, len(items))
	for _, item := range items {
		out = append(out, item.Clone())
	}
	return out
}

func rosterKey(rosterID string) string {
	return "roster:id:" + rosterID
}

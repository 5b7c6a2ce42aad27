package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/riskibarqy/fpl-team-builder/internal/domain/roster"
)

type RosterRepository struct {
	mu    sync.RWMutex
	items map[string]roster.Roster
}

func NewRosterRepository() *RosterRepository {
	return &RosterRepository{items: make(map[string]roster.Roster)}
}

func (r *RosterRepository) Create(_ context.Context, item roster.Roster) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[item.ID]; exists {
		return fmt.Errorf("%w: id=%s", roster.ErrAlreadyExists, item.ID)
	}
	r.items[item.ID] = item.Clone()
	return nil
}

func (r *RosterRepository) Get(_ context.Context, rosterID string) (roster.Roster, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[rosterID]
	if !ok {
		return roster.Roster{}, false, nil
	}
	return item.Clone(), true, nil
}

func (r *RosterRepository) List(_ context.Context) ([]roster.Roster, error) {
	r.mu.RLock()
	out := make([]roster.Roster, 0, len(r.items))
	for _, item := range r.items {
		out = append(out, item.Clone())
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r *RosterRepository) Update(_ context.Context, item roster.Roster) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[item.ID]; !ok {
		return false, nil
	}
	r.items[item.ID] = item.Clone()
	return true, nil
}

func (r *RosterRepository) Delete(_ context.Context, rosterID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[rosterID]; !ok {
		return false, nil
	}
	delete(r.items, rosterID)
	return true, nil
}

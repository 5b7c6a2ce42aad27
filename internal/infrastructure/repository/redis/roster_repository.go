package redis

import (
	"context"
	"errors"
	"fmt"

	goredis "github.com/go-redis/redis/v8"
	"github.com/riskibarqy/fpl-team-builder/internal/domain/roster"
)

const defaultKeyPrefix = "fpl:"

// RosterRepository stores one JSON document per roster and keeps a sorted set
// of ids scored by creation time for listing.
type RosterRepository struct {
	client goredis.UniversalClient
	prefix string
}

func NewRosterRepository(client goredis.UniversalClient, prefix string) *RosterRepository {
	if prefix == "" {
		prefix = defaultKeyPrefix
	}
	return &RosterRepository{client: client, prefix: prefix}
}

func (r *RosterRepository) Create(ctx context.Context, item roster.Roster) error {
	payload, err := encodeRoster(item)
	if err != nil {
		return fmt.Errorf("encode roster id=%s: %w", item.ID, err)
	}

	key := r.rosterKey(item.ID)
	index := &goredis.Z{Score: float64(item.CreatedAt.UnixNano()), Member: item.ID}

	err = r.client.Watch(ctx, func(tx *goredis.Tx) error {
		exists, err := tx.Exists(ctx, key).Result()
		if err != nil {
			return err
		}
		if exists > 0 {
			return roster.ErrAlreadyExists
		}

		var stored *goredis.StatusCmd
		_, err = tx.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
			stored = pipe.Set(ctx, key, payload, 0)
			pipe.ZAdd(ctx, r.indexKey(), index)
			return nil
		})
		if err != nil && stored != nil && stored.Err() == nil {
			// EXEC does not roll back; drop the unindexed document.
			if cleanupErr := r.client.Del(ctx, key).Err(); cleanupErr != nil {
				return errors.Join(err, cleanupErr)
			}
		}
		return err
	}, key)

	switch {
	case err == nil:
		return nil
	case errors.Is(err, roster.ErrAlreadyExists), errors.Is(err, goredis.TxFailedErr):
		return fmt.Errorf("%w: id=%s", roster.ErrAlreadyExists, item.ID)
	default:
		return fmt.Errorf("store roster id=%s: %w", item.ID, err)
	}
}

func (r *RosterRepository) Get(ctx context.Context, rosterID string) (roster.Roster, bool, error) {
	raw, err := r.client.Get(ctx, r.rosterKey(rosterID)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return roster.Roster{}, false, nil
	}
	if err != nil {
		return roster.Roster{}, false, fmt.Errorf("get roster id=%s: %w", rosterID, err)
	}

	item, err := decodeRoster(raw)
	if err != nil {
		return roster.Roster{}, false, fmt.Errorf("decode roster id=%s: %w", rosterID, err)
	}
	return item, true, nil
}

func (r *RosterRepository) List(ctx context.Context) ([]roster.Roster, error) {
	ids, err := r.client.ZRange(ctx, r.indexKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("list roster index: %w", err)
	}
	if len(ids) == 0 {
		return []roster.Roster{}, nil
	}

	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, r.rosterKey(id))
	}
	values, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("load rosters: %w", err)
	}

	out := make([]roster.Roster, 0, len(values))
	for i, value := range values {
		raw, ok := value.(string)
		if !ok {
			// index entry outlived its document
			continue
		}
		item, err := decodeRoster([]byte(raw))
		if err != nil {
			return nil, fmt.Errorf("decode roster id=%s: %w", ids[i], err)
		}
		out = append(out, item)
	}
	return out, nil
}

func (r *RosterRepository) Update(ctx context.Context, item roster.Roster) (bool, error) {
	payload, err := encodeRoster(item)
	if err != nil {
		return false, fmt.Errorf("encode roster id=%s: %w", item.ID, err)
	}

	updated, err := r.client.SetXX(ctx, r.rosterKey(item.ID), payload, 0).Result()
	if err != nil {
		return false, fmt.Errorf("update roster id=%s: %w", item.ID, err)
	}
	return updated, nil
}

func (r *RosterRepository) Delete(ctx context.Context, rosterID string) (bool, error) {
	var removed *goredis.IntCmd
	_, err := r.client.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		removed = pipe.Del(ctx, r.rosterKey(rosterID))
		pipe.ZRem(ctx, r.indexKey(), rosterID)
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("delete roster id=%s: %w", rosterID, err)
	}
	return removed.Val() > 0, nil
}

func (r *RosterRepository) rosterKey(id string) string {
	return r.prefix + "roster:" + id
}

func (r *RosterRepository) indexKey() string {
	return r.prefix + "rosters"
}

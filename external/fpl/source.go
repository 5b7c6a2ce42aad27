package fpl

import (
	"context"
	"fmt"
	"sort"

	"github.com/riskibarqy/fpl-team-builder/internal/domain/fixture"
	"github.com/riskibarqy/fpl-team-builder/internal/domain/player"
)

const (
	bootstrapPath = "/bootstrap-static/"
	fixturesPath  = "/fixtures/"
)

var (
	_ player.Source  = (*Client)(nil)
	_ fixture.Source = (*Client)(nil)
)

func (c *Client) bootstrap(ctx context.Context) (bootstrapEnvelope, error) {
	var out bootstrapEnvelope
	if err := c.doJSON(ctx, bootstrapPath, &out); err != nil {
		return bootstrapEnvelope{}, fmt.Errorf("fetch bootstrap: %w", err)
	}
	return out, nil
}

func clubIndex(teams []teamDTO) map[int64]player.Club {
	out := make(map[int64]player.Club, len(teams))
	for _, t := range teams {
		out[t.ID] = mapClub(t)
	}
	return out
}

func (c *Client) ListPlayers(ctx context.Context) ([]player.Player, error) {
	env, err := c.bootstrap(ctx)
	if err != nil {
		return nil, err
	}

	clubs := clubIndex(env.Teams)
	out := make([]player.Player, 0, len(env.Elements))
	for _, e := range env.Elements {
		if p, ok := mapElement(e, clubs); ok {
			out = append(out, p)
		}
	}
	return out, nil
}

// GetByIDs returns the known players in request order. Unknown ids are skipped.
func (c *Client) GetByIDs(ctx context.Context, playerIDs []int64) ([]player.Player, error) {
	if len(playerIDs) == 0 {
		return []player.Player{}, nil
	}

	all, err := c.ListPlayers(ctx)
	if err != nil {
		return nil, err
	}
	byID := make(map[int64]player.Player, len(all))
	for _, p := range all {
		byID[p.ID] = p
	}

	out := make([]player.Player, 0, len(playerIDs))
	for _, id := range playerIDs {
		if p, ok := byID[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (c *Client) ListClubs(ctx context.Context) ([]player.Club, error) {
	env, err := c.bootstrap(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]player.Club, 0, len(env.Teams))
	for _, t := range env.Teams {
		out = append(out, mapClub(t))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (c *Client) CurrentGameweek(ctx context.Context) (int, error) {
	env, err := c.bootstrap(ctx)
	if err != nil {
		return 0, err
	}
	return currentGameweek(env.Events), nil
}

func (c *Client) ListAppearances(ctx context.Context, playerID int64) ([]player.Appearance, error) {
	var env elementSummaryEnvelope
	if err := c.doJSON(ctx, fmt.Sprintf("/element-summary/%d/", playerID), &env); err != nil {
		return nil, fmt.Errorf("fetch element summary player_id=%d: %w", playerID, err)
	}

	out := make([]player.Appearance, 0, len(env.History))
	for _, h := range env.History {
		out = append(out, mapAppearance(h))
	}
	return out, nil
}

func (c *Client) ListLiveStats(ctx context.Context, gameweek int) ([]player.LiveStat, error) {
	var env liveEnvelope
	if err := c.doJSON(ctx, fmt.Sprintf("/event/%d/live/", gameweek), &env); err != nil {
		return nil, fmt.Errorf("fetch live gameweek=%d: %w", gameweek, err)
	}

	out := make([]player.LiveStat, 0, len(env.Elements))
	for _, e := range env.Elements {
		out = append(out, mapLiveStat(e))
	}
	return out, nil
}

// ListFixtures returns the season's fixtures ordered by gameweek then id.
// Unscheduled fixtures carry gameweek 0 and sort first.
func (c *Client) ListFixtures(ctx context.Context) ([]fixture.Fixture, error) {
	var rows []fixtureDTO
	if err := c.doJSON(ctx, fixturesPath, &rows); err != nil {
		return nil, fmt.Errorf("fetch fixtures: %w", err)
	}

	out := make([]fixture.Fixture, 0, len(rows))
	for _, row := range rows {
		out = append(out, mapFixture(row))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Gameweek != out[j].Gameweek {
			return out[i].Gameweek < out[j].Gameweek
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

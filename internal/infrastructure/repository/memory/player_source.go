package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/riskibarqy/fpl-team-builder/internal/domain/fixture"
	"github.com/riskibarqy/fpl-team-builder/internal/domain/player"
)

// PlayerSource serves a fixed snapshot of upstream data. It backs offline mode
// and tests.
type PlayerSource struct {
	mu          sync.RWMutex
	players     []player.Player
	index       map[int64]player.Player
	clubs       []player.Club
	fixtures    []fixture.Fixture
	gameweek    int
	appearances map[int64][]player.Appearance
	live        map[int][]player.LiveStat
}

type Snapshot struct {
	Players     []player.Player
	Clubs       []player.Club
	Fixtures    []fixture.Fixture
	Gameweek    int
	Appearances map[int64][]player.Appearance
	Live        map[int][]player.LiveStat
}

// NewPlayerSource copies snapshot. Players failing player.Validate are left out.
func NewPlayerSource(snapshot Snapshot) *PlayerSource {
	players := make([]player.Player, 0, len(snapshot.Players))
	index := make(map[int64]player.Player, len(snapshot.Players))
	for _, p := range snapshot.Players {
		if err := p.Validate(); err != nil {
			continue
		}
		players = append(players, p)
		index[p.ID] = p
	}

	appearances := make(map[int64][]player.Appearance, len(snapshot.Appearances))
	for id, rows := range snapshot.Appearances {
		appearances[id] = append([]player.Appearance(nil), rows...)
	}
	live := make(map[int][]player.LiveStat, len(snapshot.Live))
	for gw, rows := range snapshot.Live {
		live[gw] = append([]player.LiveStat(nil), rows...)
	}

	return &PlayerSource{
		players:     players,
		index:       index,
		clubs:       append([]player.Club(nil), snapshot.Clubs...),
		fixtures:    append([]fixture.Fixture(nil), snapshot.Fixtures...),
		gameweek:    snapshot.Gameweek,
		appearances: appearances,
		live:        live,
	}
}

func (s *PlayerSource) ListPlayers(_ context.Context) ([]player.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]player.Player(nil), s.players...), nil
}

// GetByIDs keeps the order of playerIDs and skips unknown ids.
func (s *PlayerSource) GetByIDs(_ context.Context, playerIDs []int64) ([]player.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]player.Player, 0, len(playerIDs))
	for _, id := range playerIDs {
		p, ok := s.index[id]
		if !ok {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (s *PlayerSource) ListClubs(_ context.Context) ([]player.Club, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]player.Club(nil), s.clubs...), nil
}

func (s *PlayerSource) CurrentGameweek(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.gameweek, nil
}

func (s *PlayerSource) ListAppearances(_ context.Context, playerID int64) ([]player.Appearance, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]player.Appearance(nil), s.appearances[playerID]...), nil
}

func (s *PlayerSource) ListLiveStats(_ context.Context, gameweek int) ([]player.LiveStat, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]player.LiveStat(nil), s.live[gameweek]...), nil
}

func (s *PlayerSource) ListFixtures(_ context.Context) ([]fixture.Fixture, error) {
	s.mu.RLock()
	out := append([]fixture.Fixture(nil), s.fixtures...)
	s.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Gameweek == out[j].Gameweek {
			return out[i].ID < out[j].ID
		}
		return out[i].Gameweek < out[j].Gameweek
	})
	return out, nil
}

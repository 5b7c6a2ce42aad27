package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/riskibarqy/fpl-team-builder/internal/domain/fixture"
	"github.com/riskibarqy/fpl-team-builder/internal/domain/player"
	"github.com/riskibarqy/fpl-team-builder/internal/platform/logging"
	"github.com/sourcegraph/conc/pool"
	"go.opentelemetry.io/otel/attribute"
)

// PlayerDetail is a player's season history plus the fixtures of their club.
type PlayerDetail struct {
	Player   player.Player
	Club     player.Club
	History  []player.Appearance
	Fixtures []fixture.Fixture
}

type PlayerService struct {
	players  player.Source
	fixtures fixture.Source
	logger   *logging.Logger
}

func NewPlayerService(players player.Source, fixtures fixture.Source, logger *logging.Logger) *PlayerService {
	if logger == nil {
		logger = logging.Default()
	}

	return &PlayerService{
		players:  players,
		fixtures: fixtures,
		logger:   logger,
	}
}

func (s *PlayerService) ListPlayers(ctx context.Context, filter player.Filter) ([]player.Player, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerService.ListPlayers")
	defer span.End()

	if filter.MinPrice < 0 || filter.MaxPrice < 0 {
		return nil, fmt.Errorf("%w: price bounds cannot be negative", ErrInvalidInput)
	}
	if filter.MaxPrice > 0 && filter.MinPrice > filter.MaxPrice {
		return nil, fmt.Errorf("%w: min price exceeds max price", ErrInvalidInput)
	}

	items, err := s.players.ListPlayers(ctx)
	if err != nil {
		return nil, dependencyError(ctx, "list players", err)
	}

	var clubs []player.Club
	if strings.TrimSpace(filter.Club) != "" {
		clubs, err = s.players.ListClubs(ctx)
		if err != nil {
			return nil, dependencyError(ctx, "list clubs", err)
		}
	}

	return filter.Apply(items, clubs), nil
}

func (s *PlayerService) GetPlayer(ctx context.Context, playerID int64) (player.Player, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerService.GetPlayer", attribute.Int64("player.id", playerID))
	defer span.End()

	if playerID <= 0 {
		return player.Player{}, fmt.Errorf("%w: player id must be positive", ErrInvalidInput)
	}

	found, err := s.players.GetByIDs(ctx, []int64{playerID})
	if err != nil {
		return player.Player{}, dependencyError(ctx, "get player", err)
	}
	if len(found) == 0 {
		return player.Player{}, fmt.Errorf("%w: player id=%d", ErrNotFound, playerID)
	}
	return found[0], nil
}

// GetPlayerDetail loads the player's history, the club table and the fixture
// list concurrently.
func (s *PlayerService) GetPlayerDetail(ctx context.Context, playerID int64) (PlayerDetail, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerService.GetPlayerDetail", attribute.Int64("player.id", playerID))
	defer span.End()

	p, err := s.GetPlayer(ctx, playerID)
	if err != nil {
		return PlayerDetail{}, err
	}

	var (
		history  []player.Appearance
		clubs    []player.Club
		fixtures []fixture.Fixture
	)
	group := pool.New().WithContext(ctx).WithCancelOnError()
	group.Go(func(ctx context.Context) error {
		rows, err := s.players.ListAppearances(ctx, playerID)
		if err != nil {
			return fmt.Errorf("list appearances: %w", err)
		}
		history = rows
		return nil
	})
	group.Go(func(ctx context.Context) error {
		rows, err := s.players.ListClubs(ctx)
		if err != nil {
			return fmt.Errorf("list clubs: %w", err)
		}
		clubs = rows
		return nil
	})
	group.Go(func(ctx context.Context) error {
		rows, err := s.fixtures.ListFixtures(ctx)
		if err != nil {
			return fmt.Errorf("list fixtures: %w", err)
		}
		fixtures = rows
		return nil
	})
	if err := group.Wait(); err != nil {
		return PlayerDetail{}, dependencyError(ctx, "load player detail", err)
	}

	detail := PlayerDetail{Player: p, History: history}
	for _, c := range clubs {
		if c.Name == p.Club {
			detail.Club = c
			break
		}
	}
	for _, f := range fixtures {
		if f.InvolvesClub(detail.Club.ID) {
			detail.Fixtures = append(detail.Fixtures, f)
		}
	}

	return detail, nil
}

func (s *PlayerService) ListClubs(ctx context.Context) ([]player.Club, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerService.ListClubs")
	defer span.End()

	clubs, err := s.players.ListClubs(ctx)
	if err != nil {
		return nil, dependencyError(ctx, "list clubs", err)
	}
	return clubs, nil
}

func (s *PlayerService) CurrentGameweek(ctx context.Context) (int, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerService.CurrentGameweek")
	defer span.End()

	gw, err := s.players.CurrentGameweek(ctx)
	if err != nil {
		return 0, dependencyError(ctx, "current gameweek", err)
	}
	return gw, nil
}

// ListFixtures returns every fixture, or only one gameweek's when gameweek > 0.
func (s *PlayerService) ListFixtures(ctx context.Context, gameweek int) ([]fixture.Fixture, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerService.ListFixtures", attribute.Int("gameweek", gameweek))
	defer span.End()

	if gameweek < 0 {
		return nil, fmt.Errorf("%w: gameweek cannot be negative", ErrInvalidInput)
	}

	items, err := s.fixtures.ListFixtures(ctx)
	if err != nil {
		return nil, dependencyError(ctx, "list fixtures", err)
	}
	if gameweek == 0 {
		return items, nil
	}

	out := make([]fixture.Fixture, 0, len(items))
	for _, f := range items {
		if f.Gameweek == gameweek {
			out = append(out, f)
		}
	}
	return out, nil
}

func (s *PlayerService) LiveGameweek(ctx context.Context, gameweek int) ([]player.LiveStat, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerService.LiveGameweek", attribute.Int("gameweek", gameweek))
	defer span.End()

	if gameweek <= 0 {
		return nil, fmt.Errorf("%w: gameweek must be positive", ErrInvalidInput)
	}

	stats, err := s.players.ListLiveStats(ctx, gameweek)
	if err != nil {
		return nil, dependencyError(ctx, "live gameweek", err)
	}
	return stats, nil
}

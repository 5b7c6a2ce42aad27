package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/riskibarqy/fpl-team-builder/internal/domain/player"
	"github.com/riskibarqy/fpl-team-builder/internal/domain/recommendation"
	"github.com/riskibarqy/fpl-team-builder/internal/domain/roster"
	"github.com/riskibarqy/fpl-team-builder/internal/infrastructure/repository/memory"
	recommendationmock "github.com/riskibarqy/fpl-team-builder/internal/mocks/domain/recommendation"
	rostermock "github.com/riskibarqy/fpl-team-builder/internal/mocks/domain/roster"
	"github.com/riskibarqy/fpl-team-builder/internal/platform/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type staticIDGenerator struct {
	id string
}

func (g staticIDGenerator) NewID() (string, error) {
	return g.id, nil
}

func seedSquad(t *testing.T, src player.Source) []player.Player {
	t.Helper()

	players, err := src.GetByIDs(context.Background(), memory.SeedSquadIDs())
	require.NoError(t, err)
	require.Len(t, players, 15)
	return players
}

func newTestRosterService(t *testing.T, generator recommendation.Generator) (*RosterService, *memory.RosterRepository, *memory.PlayerSource) {
	t.Helper()

	repo := memory.NewRosterRepository()
	src := memory.NewPlayerSource(memory.SeedSnapshot())
	service := NewRosterService(repo, src, generator, roster.DefaultRules(), staticIDGenerator{id: "team-001"}, 4, logging.NewNop())
	return service, repo, src
}

func TestRosterService_CreateRoster_StoresGeneratedSquad(t *testing.T) {
	generator := recommendationmock.NewGenerator(t)
	service, repo, src := newTestRosterService(t, generator)
	squad := seedSquad(t, src)

	now := time.Date(2026, 8, 15, 12, 0, 0, 0, time.UTC)
	service.now = func() time.Time { return now }

	prefs := recommendation.Preferences{RiskTolerance: recommendation.RiskHigh, PreferredClubs: []string{"Arsenal"}}
	generator.
		On("Recommend", mock.Anything, recommendation.Request{Budget: 100, Preferences: prefs, Strategy: "wildcard"}).
		Return(recommendation.Recommendation{
			Players:        squad,
			Formation:      "4-4-2",
			Captain:        squad[7],
			ViceCaptain:    squad[12],
			ExpectedPoints: 61.5,
			Reasoning:      "balanced squad",
		}, nil).
		Once()

	created, err := service.CreateRoster(context.Background(), CreateRosterInput{
		Name:        "  Gooners XI ",
		Budget:      100,
		Preferences: prefs,
		Strategy:    "wildcard",
	})
	require.NoError(t, err)

	assert.Equal(t, "team-001", created.ID)
	assert.Equal(t, "Gooners XI", created.Name)
	assert.True(t, created.CreatedAt.Equal(now))
	assert.Equal(t, squad[7], created.Captain)

	stored, ok, err := repo.Get(context.Background(), "team-001")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Len(t, stored.Players, 15)

	result, err := service.ValidateRoster(context.Background(), "team-001")
	require.NoError(t, err)
	assert.True(t, result.Valid, "violations: %v", result.Messages())
}

func TestRosterService_CreateRoster_Errors(t *testing.T) {
	t.Run("rejects blank name without calling generator", func(t *testing.T) {
		service, _, _ := newTestRosterService(t, recommendationmock.NewGenerator(t))

		_, err := service.CreateRoster(context.Background(), CreateRosterInput{Name: " ", Budget: 100})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("rejects non-positive budget", func(t *testing.T) {
		service, _, _ := newTestRosterService(t, recommendationmock.NewGenerator(t))

		_, err := service.CreateRoster(context.Background(), CreateRosterInput{Name: "x", Budget: 0})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("maps generator failure to dependency error", func(t *testing.T) {
		generator := recommendationmock.NewGenerator(t)
		generator.On("Recommend", mock.Anything, mock.Anything).
			Return(recommendation.Recommendation{}, errors.New("upstream 503")).
			Once()
		service, _, _ := newTestRosterService(t, generator)

		_, err := service.CreateRoster(context.Background(), CreateRosterInput{Name: "x", Budget: 100})
		assert.ErrorIs(t, err, ErrDependencyUnavailable)
	})

	t.Run("reports missing generator", func(t *testing.T) {
		service, _, _ := newTestRosterService(t, nil)

		_, err := service.CreateRoster(context.Background(), CreateRosterInput{Name: "x", Budget: 100})
		assert.ErrorIs(t, err, ErrDependencyUnavailable)
	})
}

func storeSeedRoster(t *testing.T, repo roster.Repository, squad []player.Player) roster.Roster {
	t.Helper()

	item := roster.Roster{
		ID:          "team-001",
		Name:        "Seed",
		Budget:      100,
		Players:     squad,
		Captain:     squad[0],
		ViceCaptain: squad[1],
		Formation:   "4-4-2",
		CreatedAt:   time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, repo.Create(context.Background(), item))
	return item
}

func TestRosterService_UpdateRoster(t *testing.T) {
	ctx := context.Background()

	t.Run("name only keeps squad", func(t *testing.T) {
		service, repo, src := newTestRosterService(t, nil)
		seeded := storeSeedRoster(t, repo, seedSquad(t, src))

		name := "Renamed"
		got, err := service.UpdateRoster(ctx, seeded.ID, UpdateRosterInput{Name: &name})
		require.NoError(t, err)
		assert.Equal(t, "Renamed", got.Name)
		assert.Equal(t, seeded.Players, got.Players)
	})

	t.Run("duplicate pick is stored and reported by validation", func(t *testing.T) {
		service, repo, src := newTestRosterService(t, nil)
		seeded := storeSeedRoster(t, repo, seedSquad(t, src))

		ids := memory.SeedSquadIDs()
		ids[7] = ids[3]
		_, err := service.UpdateRoster(ctx, seeded.ID, UpdateRosterInput{PlayerIDs: ids})
		require.NoError(t, err)

		result, err := service.ValidateRoster(ctx, seeded.ID)
		require.NoError(t, err)
		assert.False(t, result.Valid)
		assert.Contains(t, result.Messages(), "Team contains duplicate players")
	})

	t.Run("captain outside squad is accepted then flagged", func(t *testing.T) {
		service, repo, src := newTestRosterService(t, nil)
		seeded := storeSeedRoster(t, repo, seedSquad(t, src))

		salah := int64(21)
		got, err := service.UpdateRoster(ctx, seeded.ID, UpdateRosterInput{CaptainID: &salah})
		require.NoError(t, err)
		assert.Equal(t, "Salah", got.Captain.Name)

		result, err := service.ValidateRoster(ctx, seeded.ID)
		require.NoError(t, err)
		assert.Equal(t, []string{"Captain must be in the team"}, result.Messages())
	})

	t.Run("unknown player id is invalid input", func(t *testing.T) {
		service, repo, src := newTestRosterService(t, nil)
		seeded := storeSeedRoster(t, repo, seedSquad(t, src))

		_, err := service.UpdateRoster(ctx, seeded.ID, UpdateRosterInput{PlayerIDs: []int64{1, 9999}})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("missing roster", func(t *testing.T) {
		service, _, _ := newTestRosterService(t, nil)

		name := "x"
		_, err := service.UpdateRoster(ctx, "missing", UpdateRosterInput{Name: &name})
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestRosterService_DeleteRoster(t *testing.T) {
	ctx := context.Background()
	service, repo, src := newTestRosterService(t, nil)
	seeded := storeSeedRoster(t, repo, seedSquad(t, src))

	require.NoError(t, service.DeleteRoster(ctx, seeded.ID))
	assert.ErrorIs(t, service.DeleteRoster(ctx, seeded.ID), ErrNotFound)

	_, err := service.GetRoster(ctx, seeded.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRosterService_RosterStats_UsingMockery(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := rostermock.NewRepository(t)
	src := memory.NewPlayerSource(memory.SeedSnapshot())
	service := NewRosterService(repo, src, nil, roster.DefaultRules(), staticIDGenerator{id: "x"}, 2, nil)

	squad := seedSquad(t, src)
	repo.
		On("Get", mock.Anything, "team-xyz").
		Return(roster.Roster{ID: "team-xyz", Name: "Mocked", Budget: 100, Players: squad}, true, nil).
		Once()

	stats, err := service.RosterStats(ctx, "team-xyz")
	require.NoError(t, err)
	assert.InDelta(t, 97.0, stats.TotalValue, 1e-9)
	assert.InDelta(t, 3.0, stats.RemainingBudget, 1e-9)
	assert.Equal(t, 2, stats.PositionBreakdown[player.PositionGoalkeeper])
	assert.Equal(t, 3, stats.PositionBreakdown[player.PositionForward])
}

func TestRosterService_RosterStats_RepositoryFailure(t *testing.T) {
	t.Parallel()

	repo := rostermock.NewRepository(t)
	service := NewRosterService(repo, nil, nil, roster.DefaultRules(), staticIDGenerator{id: "x"}, 2, nil)

	boom := errors.New("connection reset")
	repo.On("Get", mock.Anything, "team-xyz").Return(roster.Roster{}, false, boom).Once()

	_, err := service.RosterStats(context.Background(), "team-xyz")
	assert.ErrorIs(t, err, boom)
}

func TestRosterService_ValidateBatch_PreservesOrder(t *testing.T) {
	service, _, src := newTestRosterService(t, nil)
	squad := seedSquad(t, src)

	drafts := make([]roster.Roster, 40)
	for i := range drafts {
		budget := 100.0
		if i%3 == 0 {
			budget = 50
		}
		drafts[i] = roster.Roster{
			ID:          fmt.Sprintf("draft-%d", i),
			Budget:      budget,
			Players:     squad,
			Captain:     squad[0],
			ViceCaptain: squad[1],
		}
	}

	reports, err := service.ValidateBatch(context.Background(), drafts)
	require.NoError(t, err)
	require.Len(t, reports, len(drafts))
	for i, report := range reports {
		wantValid := i%3 != 0
		assert.Equal(t, wantValid, report.Validation.Valid, "draft %d", i)
		assert.InDelta(t, drafts[i].Budget-97.0, report.Stats.RemainingBudget, 1e-9, "draft %d", i)
	}
}

func TestRosterService_ValidateBatch_Limits(t *testing.T) {
	service, _, _ := newTestRosterService(t, nil)

	reports, err := service.ValidateBatch(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, reports)

	_, err = service.ValidateBatch(context.Background(), make([]roster.Roster, MaxBatchSize+1))
	assert.ErrorIs(t, err, ErrInvalidInput)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = service.ValidateBatch(ctx, make([]roster.Roster, 3))
	assert.ErrorIs(t, err, context.Canceled)
}

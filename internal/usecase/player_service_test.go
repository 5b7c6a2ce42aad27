package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/riskibarqy/fpl-team-builder/internal/domain/player"
	"github.com/riskibarqy/fpl-team-builder/internal/infrastructure/repository/memory"
	playermock "github.com/riskibarqy/fpl-team-builder/internal/mocks/domain/player"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestPlayerService() *PlayerService {
	snapshot := memory.SeedSnapshot()
	snapshot.Appearances = map[int64][]player.Appearance{
		20: {
			{Gameweek: 1, OpponentClubID: 14, Minutes: 90, Goals: 1, Points: 8, Price: 10},
		},
	}
	snapshot.Live = map[int][]player.LiveStat{
		1: {{PlayerID: 20, Minutes: 90, Goals: 1, Points: 8}},
	}
	src := memory.NewPlayerSource(snapshot)
	return NewPlayerService(src, src, nil)
}

func TestPlayerService_ListPlayers(t *testing.T) {
	service := newTestPlayerService()

	tests := []struct {
		name    string
		filter  player.Filter
		wantIDs []int64
		wantErr error
	}{
		{
			name:    "club short name and position",
			filter:  player.Filter{Club: "ars", Position: player.PositionDefender},
			wantIDs: []int64{10},
		},
		{
			name:    "price window sorted ascending",
			filter:  player.Filter{MinPrice: 4.0, MaxPrice: 5.0, SortBy: player.SortByPrice},
			wantIDs: []int64{3, 2, 14},
		},
		{
			name:    "inverted price window",
			filter:  player.Filter{MinPrice: 9, MaxPrice: 5},
			wantErr: ErrInvalidInput,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := service.ListPlayers(context.Background(), tc.filter)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)

			ids := make([]int64, 0, len(got))
			for _, p := range got {
				ids = append(ids, p.ID)
			}
			assert.Equal(t, tc.wantIDs, ids)
		})
	}
}

func TestPlayerService_GetPlayer(t *testing.T) {
	service := newTestPlayerService()

	got, err := service.GetPlayer(context.Background(), 30)
	require.NoError(t, err)
	assert.Equal(t, "Haaland", got.Name)

	_, err = service.GetPlayer(context.Background(), 404)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = service.GetPlayer(context.Background(), 0)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestPlayerService_GetPlayerDetail(t *testing.T) {
	service := newTestPlayerService()

	detail, err := service.GetPlayerDetail(context.Background(), 20)
	require.NoError(t, err)

	assert.Equal(t, "Saka", detail.Player.Name)
	assert.Equal(t, int64(1), detail.Club.ID)
	require.Len(t, detail.History, 1)
	assert.Equal(t, 8, detail.History[0].Points)

	fixtureIDs := make([]int64, 0, len(detail.Fixtures))
	for _, f := range detail.Fixtures {
		fixtureIDs = append(fixtureIDs, f.ID)
	}
	assert.Equal(t, []int64{2, 5}, fixtureIDs)
}

func TestPlayerService_GetPlayerDetail_UpstreamFailureUsingMockery(t *testing.T) {
	t.Parallel()

	src := playermock.NewSource(t)
	fixtures := memory.NewPlayerSource(memory.SeedSnapshot())
	service := NewPlayerService(src, fixtures, nil)

	src.On("GetByIDs", mock.Anything, []int64{20}).
		Return([]player.Player{{ID: 20, Name: "Saka", Club: "Arsenal"}}, nil).
		Once()
	src.On("ListAppearances", mock.Anything, int64(20)).
		Return(nil, errors.New("element-summary: status 502")).
		Once()
	src.On("ListClubs", mock.Anything).
		Return(memory.SeedClubs(), nil).
		Maybe()

	_, err := service.GetPlayerDetail(context.Background(), 20)
	assert.ErrorIs(t, err, ErrDependencyUnavailable)
}

func TestPlayerService_FixturesAndLive(t *testing.T) {
	service := newTestPlayerService()
	ctx := context.Background()

	all, err := service.ListFixtures(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 6)

	gw2, err := service.ListFixtures(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, gw2, 2)

	gw, err := service.CurrentGameweek(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, gw)

	live, err := service.LiveGameweek(ctx, 1)
	require.NoError(t, err)
	require.Len(t, live, 1)
	assert.Equal(t, int64(20), live[0].PlayerID)

	_, err = service.LiveGameweek(ctx, 0)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/riskibarqy/fpl-team-builder/internal/domain/recommendation"
	"github.com/riskibarqy/fpl-team-builder/internal/domain/roster"
	"github.com/riskibarqy/fpl-team-builder/internal/infrastructure/repository/memory"
	recommendationmock "github.com/riskibarqy/fpl-team-builder/internal/mocks/domain/recommendation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestAdvisor(t *testing.T, analyst recommendation.Analyst) (*AdvisorService, *RosterService, *memory.RosterRepository) {
	t.Helper()

	rosters, repo, src := newTestRosterService(t, nil)
	return NewAdvisorService(nil, analyst, rosters, src, roster.DefaultRules(), nil), rosters, repo
}

func hasFact(req recommendation.AnalysisRequest, label, value string) bool {
	for _, f := range req.Facts {
		if f.Label == label && f.Value == value {
			return true
		}
	}
	return false
}

func TestAdvisorService_AnalyzeTeam_StoredRoster(t *testing.T) {
	analyst := recommendationmock.NewAnalyst(t)
	advisor, _, repo := newTestAdvisor(t, analyst)
	seeded := storeSeedRoster(t, repo, seedSquad(t, memory.NewPlayerSource(memory.SeedSnapshot())))

	analyst.
		On("Analyze", mock.Anything, mock.MatchedBy(func(req recommendation.AnalysisRequest) bool {
			return req.Kind == recommendation.AnalysisTeam &&
				req.Focus == "comprehensive" &&
				hasFact(req, "Budget Used", "£97m") &&
				hasFact(req, "Remaining Budget", "£3m") &&
				hasFact(req, "Team Name", "Seed")
		})).
		Return("solid defence", nil).
		Once()

	got, err := advisor.AnalyzeTeam(context.Background(), AnalyzeTeamInput{RosterID: seeded.ID})
	require.NoError(t, err)
	assert.Equal(t, "solid defence", got.Analysis)
	assert.True(t, got.Validation.Valid)
	assert.InDelta(t, 97.0, got.Stats.TotalValue, 1e-9)
}

func TestAdvisorService_AnalyzeTeam_Errors(t *testing.T) {
	t.Run("needs id or draft", func(t *testing.T) {
		advisor, _, _ := newTestAdvisor(t, recommendationmock.NewAnalyst(t))
		_, err := advisor.AnalyzeTeam(context.Background(), AnalyzeTeamInput{})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("unknown roster", func(t *testing.T) {
		advisor, _, _ := newTestAdvisor(t, recommendationmock.NewAnalyst(t))
		_, err := advisor.AnalyzeTeam(context.Background(), AnalyzeTeamInput{RosterID: "nope"})
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("analyst missing", func(t *testing.T) {
		advisor, _, _ := newTestAdvisor(t, nil)
		draft := roster.Roster{Name: "Draft", Budget: 100}
		_, err := advisor.AnalyzeTeam(context.Background(), AnalyzeTeamInput{Draft: &draft})
		assert.ErrorIs(t, err, ErrDependencyUnavailable)
	})

	t.Run("analyst failure", func(t *testing.T) {
		analyst := recommendationmock.NewAnalyst(t)
		analyst.On("Analyze", mock.Anything, mock.Anything).Return("", errors.New("rate limited")).Once()
		advisor, _, _ := newTestAdvisor(t, analyst)

		draft := roster.Roster{Name: "Draft", Budget: 100}
		_, err := advisor.AnalyzeTeam(context.Background(), AnalyzeTeamInput{Draft: &draft})
		assert.ErrorIs(t, err, ErrDependencyUnavailable)
	})
}

func TestAdvisorService_AnalyzePlayer(t *testing.T) {
	analyst := recommendationmock.NewAnalyst(t)
	advisor, _, _ := newTestAdvisor(t, analyst)

	analyst.
		On("Analyze", mock.Anything, mock.MatchedBy(func(req recommendation.AnalysisRequest) bool {
			return req.Kind == recommendation.AnalysisPlayer && hasFact(req, "Price", "£14m") && hasFact(req, "Team", "Man City")
		})).
		Return("captain material", nil).
		Once()

	got, err := advisor.AnalyzePlayer(context.Background(), 30)
	require.NoError(t, err)
	assert.Equal(t, "Haaland", got.Player.Name)
	assert.Equal(t, "captain material", got.Analysis)

	_, err = advisor.AnalyzePlayer(context.Background(), 404)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAdvisorService_SuggestFormations_CountsPositions(t *testing.T) {
	analyst := recommendationmock.NewAnalyst(t)
	advisor, _, _ := newTestAdvisor(t, analyst)

	analyst.
		On("Analyze", mock.Anything, mock.MatchedBy(func(req recommendation.AnalysisRequest) bool {
			return req.Kind == recommendation.AnalysisFormation &&
				hasFact(req, "Available GK", "2") &&
				hasFact(req, "Available DEF", "5") &&
				hasFact(req, "Available FWD", "3")
		})).
		Return("3-5-2", nil).
		Once()

	got, err := advisor.SuggestFormations(context.Background(), FormationInput{PlayerIDs: memory.SeedSquadIDs(), Budget: 100})
	require.NoError(t, err)
	assert.Equal(t, "3-5-2", got)

	_, err = advisor.SuggestFormations(context.Background(), FormationInput{Budget: 0})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestAdvisorService_OptimizeRoster_LeavesRosterUnchanged(t *testing.T) {
	analyst := recommendationmock.NewAnalyst(t)
	advisor, _, repo := newTestAdvisor(t, analyst)
	seeded := storeSeedRoster(t, repo, seedSquad(t, memory.NewPlayerSource(memory.SeedSnapshot())))

	analyst.
		On("Analyze", mock.Anything, mock.MatchedBy(func(req recommendation.AnalysisRequest) bool {
			return req.Kind == recommendation.AnalysisOptimize && hasFact(req, "Risk Level", "medium")
		})).
		Return("swap Mount for Palmer", nil).
		Once()

	got, err := advisor.OptimizeRoster(context.Background(), seeded.ID, OptimizeInput{})
	require.NoError(t, err)
	assert.Equal(t, "swap Mount for Palmer", got.Analysis)
	assert.Equal(t, seeded.Players, got.Roster.Players)

	stored, _, err := repo.Get(context.Background(), seeded.ID)
	require.NoError(t, err)
	assert.Equal(t, seeded.Name, stored.Name)
}

func TestAdvisorService_Recommend(t *testing.T) {
	generator := recommendationmock.NewGenerator(t)
	rosters, _, src := newTestRosterService(t, generator)
	advisor := NewAdvisorService(generator, nil, rosters, src, roster.DefaultRules(), nil)

	_, err := advisor.Recommend(context.Background(), recommendation.Request{Budget: -1})
	assert.ErrorIs(t, err, ErrInvalidInput)

	generator.On("Recommend", mock.Anything, recommendation.Request{Budget: 100}).
		Return(recommendation.Recommendation{Formation: "4-3-3", RiskLevel: recommendation.RiskLow}, nil).
		Once()
	got, err := advisor.Recommend(context.Background(), recommendation.Request{Budget: 100})
	require.NoError(t, err)
	assert.Equal(t, "4-3-3", got.Formation)
}

package usecase

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/riskibarqy/fpl-team-builder/internal/domain/player"
	"github.com/riskibarqy/fpl-team-builder/internal/domain/recommendation"
	"github.com/riskibarqy/fpl-team-builder/internal/domain/roster"
	"github.com/riskibarqy/fpl-team-builder/internal/platform/logging"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
)

const defaultAnalysisType = "comprehensive"

// AnalyzeTeamInput names a stored roster or carries an unsaved draft.
// RosterID wins when both are set.
type AnalyzeTeamInput struct {
	RosterID     string
	Draft        *roster.Roster
	AnalysisType string
}

type TeamAnalysis struct {
	Analysis   string
	Stats      roster.Stats
	Validation roster.ValidationResult
}

type PlayerAnalysis struct {
	Player   player.Player
	Analysis string
}

type FormationInput struct {
	PlayerIDs []int64
	Budget    float64
	Strategy  string
}

type OptimizeInput struct {
	Strategy  string
	RiskLevel recommendation.RiskLevel
}

// OptimizeResult carries the advice next to the roster it was given for. The
// roster itself is not changed.
type OptimizeResult struct {
	Roster   roster.Roster
	Analysis string
}

type AdvisorService struct {
	generator recommendation.Generator
	analyst   recommendation.Analyst
	rosters   *RosterService
	players   player.Source
	rules     roster.Rules
	logger    *logging.Logger
}

func NewAdvisorService(
	generator recommendation.Generator,
	analyst recommendation.Analyst,
	rosters *RosterService,
	players player.Source,
	rules roster.Rules,
	logger *logging.Logger,
) *AdvisorService {
	if logger == nil {
		logger = logging.Default()
	}

	return &AdvisorService{
		generator: generator,
		analyst:   analyst,
		rosters:   rosters,
		players:   players,
		rules:     rules,
		logger:    logger,
	}
}

func (s *AdvisorService) Recommend(ctx context.Context, req recommendation.Request) (recommendation.Recommendation, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AdvisorService.Recommend")
	defer span.End()

	if err := req.Validate(); err != nil {
		return recommendation.Recommendation{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if s.generator == nil {
		return recommendation.Recommendation{}, fmt.Errorf("%w: recommendation generator is not configured", ErrDependencyUnavailable)
	}

	rec, err := s.generator.Recommend(ctx, req)
	if err != nil {
		return recommendation.Recommendation{}, dependencyError(ctx, "generate recommendation", err)
	}
	return rec, nil
}

func (s *AdvisorService) AnalyzeTeam(ctx context.Context, input AnalyzeTeamInput) (TeamAnalysis, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AdvisorService.AnalyzeTeam")
	defer span.End()

	var team roster.Roster
	switch {
	case strings.TrimSpace(input.RosterID) != "":
		loaded, err := s.rosters.GetRoster(ctx, input.RosterID)
		if err != nil {
			return TeamAnalysis{}, err
		}
		team = loaded
	case input.Draft != nil:
		team = *input.Draft
	default:
		return TeamAnalysis{}, fmt.Errorf("%w: team id or team body is required", ErrInvalidInput)
	}

	analysisType := strings.TrimSpace(input.AnalysisType)
	if analysisType == "" {
		analysisType = defaultAnalysisType
	}

	stats := roster.ComputeStats(team)
	facts := []recommendation.Fact{
		{Label: "Team Name", Value: team.Name},
		{Label: "Budget Used", Value: money(stats.TotalValue)},
		{Label: "Remaining Budget", Value: money(stats.RemainingBudget)},
		{Label: "Formation", Value: team.Formation},
		{Label: "Captain", Value: team.Captain.Name},
		{Label: "Vice Captain", Value: team.ViceCaptain.Name},
		{Label: "Average Form", Value: strconv.FormatFloat(stats.AverageForm, 'f', 2, 64)},
		{Label: "Analysis Type", Value: analysisType},
	}

	text, err := s.analyze(ctx, recommendation.AnalysisRequest{
		Kind:  recommendation.AnalysisTeam,
		Focus: analysisType,
		Facts: facts,
	})
	if err != nil {
		return TeamAnalysis{}, err
	}

	return TeamAnalysis{
		Analysis:   text,
		Stats:      stats,
		Validation: roster.Validate(team, s.rules),
	}, nil
}

func (s *AdvisorService) AnalyzePlayer(ctx context.Context, playerID int64) (PlayerAnalysis, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AdvisorService.AnalyzePlayer", attribute.Int64("player.id", playerID))
	defer span.End()

	if playerID <= 0 {
		return PlayerAnalysis{}, fmt.Errorf("%w: player id must be positive", ErrInvalidInput)
	}
	found, err := s.players.GetByIDs(ctx, []int64{playerID})
	if err != nil {
		return PlayerAnalysis{}, dependencyError(ctx, "get player", err)
	}
	if len(found) == 0 {
		return PlayerAnalysis{}, fmt.Errorf("%w: player id=%d", ErrNotFound, playerID)
	}
	p := found[0]

	text, err := s.analyze(ctx, recommendation.AnalysisRequest{
		Kind:  recommendation.AnalysisPlayer,
		Focus: p.Name,
		Facts: []recommendation.Fact{
			{Label: "Name", Value: p.Name},
			{Label: "Team", Value: p.Club},
			{Label: "Position", Value: string(p.Position)},
			{Label: "Price", Value: money(p.Price)},
			{Label: "Form", Value: strconv.FormatFloat(p.Form, 'f', 1, 64)},
			{Label: "Total Points", Value: strconv.Itoa(p.TotalPoints)},
		},
	})
	if err != nil {
		return PlayerAnalysis{}, err
	}

	return PlayerAnalysis{Player: p, Analysis: text}, nil
}

func (s *AdvisorService) SuggestFormations(ctx context.Context, input FormationInput) (string, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AdvisorService.SuggestFormations")
	defer span.End()

	if input.Budget <= 0 {
		return "", fmt.Errorf("%w: budget must be greater than zero", ErrInvalidInput)
	}

	facts := []recommendation.Fact{
		{Label: "Available Players", Value: fmt.Sprintf("%d players", len(input.PlayerIDs))},
		{Label: "Budget", Value: money(input.Budget)},
		{Label: "Strategy", Value: orDefault(input.Strategy, "Balanced")},
	}
	if len(input.PlayerIDs) > 0 {
		found, err := s.players.GetByIDs(ctx, input.PlayerIDs)
		if err != nil {
			return "", dependencyError(ctx, "resolve players", err)
		}
		counts := make(map[player.Position]int, len(player.OrderedPositions))
		for _, p := range found {
			counts[p.Position]++
		}
		for _, pos := range player.OrderedPositions {
			facts = append(facts, recommendation.Fact{Label: "Available " + string(pos), Value: strconv.Itoa(counts[pos])})
		}
	}

	return s.analyze(ctx, recommendation.AnalysisRequest{
		Kind:  recommendation.AnalysisFormation,
		Focus: orDefault(input.Strategy, "Balanced"),
		Facts: facts,
	})
}

func (s *AdvisorService) OptimizeRoster(ctx context.Context, rosterID string, input OptimizeInput) (OptimizeResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AdvisorService.OptimizeRoster", attribute.String("roster.id", rosterID))
	defer span.End()

	team, err := s.rosters.GetRoster(ctx, rosterID)
	if err != nil {
		return OptimizeResult{}, err
	}
	risk := input.RiskLevel
	if risk == "" {
		risk = recommendation.RiskMedium
	}

	stats := roster.ComputeStats(team)
	text, err := s.analyze(ctx, recommendation.AnalysisRequest{
		Kind:  recommendation.AnalysisOptimize,
		Focus: orDefault(input.Strategy, "Balanced"),
		Facts: []recommendation.Fact{
			{Label: "Current Team", Value: team.Name},
			{Label: "Current Formation", Value: team.Formation},
			{Label: "Current Budget Used", Value: money(stats.TotalValue)},
			{Label: "Remaining Budget", Value: money(stats.RemainingBudget)},
			{Label: "Strategy", Value: orDefault(input.Strategy, "Balanced")},
			{Label: "Risk Level", Value: string(risk)},
		},
	})
	if err != nil {
		return OptimizeResult{}, err
	}

	return OptimizeResult{Roster: team, Analysis: text}, nil
}

func (s *AdvisorService) analyze(ctx context.Context, req recommendation.AnalysisRequest) (string, error) {
	if s.analyst == nil {
		return "", fmt.Errorf("%w: analyst is not configured", ErrDependencyUnavailable)
	}

	text, err := s.analyst.Analyze(ctx, req)
	if err != nil {
		s.logger.WarnContext(ctx, "analysis request failed", "kind", string(req.Kind), "error", err)
		return "", dependencyError(ctx, string(req.Kind)+" analysis", err)
	}
	return text, nil
}

func money(v float64) string {
	return "£" + decimal.NewFromFloat(v).Round(1).String() + "m"
}

func orDefault(v, fallback string) string {
	if v = strings.TrimSpace(v); v != "" {
		return v
	}
	return fallback
}

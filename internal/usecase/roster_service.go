package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/riskibarqy/fpl-team-builder/internal/domain/player"
	"github.com/riskibarqy/fpl-team-builder/internal/domain/recommendation"
	"github.com/riskibarqy/fpl-team-builder/internal/domain/roster"
	idgen "github.com/riskibarqy/fpl-team-builder/internal/platform/id"
	"github.com/riskibarqy/fpl-team-builder/internal/platform/logging"
	"go.opentelemetry.io/otel/attribute"
)

const (
	defaultValidationWorkers = 8
	MaxBatchSize             = 100
)

// CreateRosterInput is the incoming payload for generating and storing a roster.
type CreateRosterInput struct {
	Name        string
	Budget      float64
	Preferences recommendation.Preferences
	Strategy    string
}

// UpdateRosterInput is a partial update. Nil fields are left unchanged.
type UpdateRosterInput struct {
	Name          *string
	Budget        *float64
	PlayerIDs     []int64
	BenchIDs      []int64
	CaptainID     *int64
	ViceCaptainID *int64
	Formation     *string
}

// DraftReport pairs a roster's rule check with its aggregate figures.
type DraftReport struct {
	Validation roster.ValidationResult
	Stats      roster.Stats
}

type RosterService struct {
	repo      roster.Repository
	players   player.Source
	generator recommendation.Generator
	rules     roster.Rules
	idGen     idgen.Generator
	logger    *logging.Logger
	now       func() time.Time
	workers   int
}

func NewRosterService(
	repo roster.Repository,
	players player.Source,
	generator recommendation.Generator,
	rules roster.Rules,
	idGen idgen.Generator,
	validationWorkers int,
	logger *logging.Logger,
) *RosterService {
	if logger == nil {
		logger = logging.Default()
	}
	if validationWorkers <= 0 {
		validationWorkers = defaultValidationWorkers
	}

	return &RosterService{
		repo:      repo,
		players:   players,
		generator: generator,
		rules:     rules,
		idGen:     idGen,
		logger:    logger,
		now:       time.Now,
		workers:   validationWorkers,
	}
}

// CreateRoster asks the generator for a squad and stores it as returned. The
// stored roster may break squad rules; callers check it with ValidateRoster.
func (s *RosterService) CreateRoster(ctx context.Context, input CreateRosterInput) (roster.Roster, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RosterService.CreateRoster")
	defer span.End()

	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		return roster.Roster{}, fmt.Errorf("%w: team name is required", ErrInvalidInput)
	}
	req := recommendation.Request{
		Budget:      input.Budget,
		Preferences: input.Preferences,
		Strategy:    strings.TrimSpace(input.Strategy),
	}
	if err := req.Validate(); err != nil {
		return roster.Roster{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if s.generator == nil {
		return roster.Roster{}, fmt.Errorf("%w: recommendation generator is not configured", ErrDependencyUnavailable)
	}

	rec, err := s.generator.Recommend(ctx, req)
	if err != nil {
		return roster.Roster{}, dependencyError(ctx, "generate recommendation", err)
	}

	id, err := s.idGen.NewID()
	if err != nil {
		return roster.Roster{}, fmt.Errorf("generate roster id: %w", err)
	}

	now := s.now().UTC()
	item := roster.Roster{
		ID:             id,
		Name:           input.Name,
		Budget:         input.Budget,
		Players:        rec.Players,
		Captain:        rec.Captain,
		ViceCaptain:    rec.ViceCaptain,
		Formation:      rec.Formation,
		Bench:          rec.Bench,
		ExpectedPoints: rec.ExpectedPoints,
		Reasoning:      rec.Reasoning,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := item.ValidateBasic(); err != nil {
		return roster.Roster{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if err := s.repo.Create(ctx, item); err != nil {
		if errors.Is(err, roster.ErrAlreadyExists) {
			return roster.Roster{}, fmt.Errorf("%w: %v", ErrConflict, err)
		}
		return roster.Roster{}, fmt.Errorf("create roster: %w", err)
	}

	if result := roster.Validate(item, s.rules); !result.Valid {
		s.logger.WarnContext(ctx, "generated roster breaks squad rules",
			"roster_id", item.ID,
			"violations", result.Messages(),
		)
	}
	s.logger.InfoContext(ctx, "roster created",
		"roster_id", item.ID,
		"players", len(item.Players),
	)

	return item, nil
}

func (s *RosterService) GetRoster(ctx context.Context, rosterID string) (roster.Roster, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RosterService.GetRoster", attribute.String("roster.id", rosterID))
	defer span.End()

	return s.loadRoster(ctx, rosterID)
}

func (s *RosterService) ListRosters(ctx context.Context) ([]roster.Roster, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RosterService.ListRosters")
	defer span.End()

	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list rosters: %w", err)
	}
	return items, nil
}

// UpdateRoster applies a partial update. Player and armband ids are resolved
// against the player source; a captain outside the squad is accepted and left
// for validation to report.
func (s *RosterService) UpdateRoster(ctx context.Context, rosterID string, input UpdateRosterInput) (roster.Roster, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RosterService.UpdateRoster", attribute.String("roster.id", rosterID))
	defer span.End()

	item, err := s.loadRoster(ctx, rosterID)
	if err != nil {
		return roster.Roster{}, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return roster.Roster{}, fmt.Errorf("%w: team name cannot be empty", ErrInvalidInput)
		}
		item.Name = name
	}
	if input.Budget != nil {
		if *input.Budget <= 0 {
			return roster.Roster{}, fmt.Errorf("%w: budget must be greater than zero", ErrInvalidInput)
		}
		item.Budget = *input.Budget
	}
	if input.Formation != nil {
		item.Formation = strings.TrimSpace(*input.Formation)
	}

	wanted := collectIDs(input.PlayerIDs, input.BenchIDs, input.CaptainID, input.ViceCaptainID)
	index, err := s.resolvePlayers(ctx, wanted)
	if err != nil {
		return roster.Roster{}, err
	}

	if input.PlayerIDs != nil {
		item.Players = pick(index, input.PlayerIDs)
	}
	if input.BenchIDs != nil {
		item.Bench = pick(index, input.BenchIDs)
	}
	if input.CaptainID != nil {
		item.Captain = index[*input.CaptainID]
	}
	if input.ViceCaptainID != nil {
		item.ViceCaptain = index[*input.ViceCaptainID]
	}
	item.UpdatedAt = s.now().UTC()

	updated, err := s.repo.Update(ctx, item)
	if err != nil {
		return roster.Roster{}, fmt.Errorf("update roster: %w", err)
	}
	if !updated {
		return roster.Roster{}, fmt.Errorf("%w: team id=%s", ErrNotFound, rosterID)
	}

	return item, nil
}

func (s *RosterService) DeleteRoster(ctx context.Context, rosterID string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.RosterService.DeleteRoster", attribute.String("roster.id", rosterID))
	defer span.End()

	rosterID = strings.TrimSpace(rosterID)
	if rosterID == "" {
		return fmt.Errorf("%w: team id is required", ErrInvalidInput)
	}

	deleted, err := s.repo.Delete(ctx, rosterID)
	if err != nil {
		return fmt.Errorf("delete roster: %w", err)
	}
	if !deleted {
		return fmt.Errorf("%w: team id=%s", ErrNotFound, rosterID)
	}
	return nil
}

func (s *RosterService) ValidateRoster(ctx context.Context, rosterID string) (roster.ValidationResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RosterService.ValidateRoster", attribute.String("roster.id", rosterID))
	defer span.End()

	item, err := s.loadRoster(ctx, rosterID)
	if err != nil {
		return roster.ValidationResult{}, err
	}
	return roster.Validate(item, s.rules), nil
}

func (s *RosterService) RosterStats(ctx context.Context, rosterID string) (roster.Stats, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RosterService.RosterStats", attribute.String("roster.id", rosterID))
	defer span.End()

	item, err := s.loadRoster(ctx, rosterID)
	if err != nil {
		return roster.Stats{}, err
	}
	return roster.ComputeStats(item), nil
}

// ValidateDraft checks an unsaved roster. It never fails.
func (s *RosterService) ValidateDraft(draft roster.Roster) DraftReport {
	return DraftReport{
		Validation: roster.Validate(draft, s.rules),
		Stats:      roster.ComputeStats(draft),
	}
}

// ValidateBatch checks drafts on a bounded worker pool. Reports keep the
// order of drafts.
func (s *RosterService) ValidateBatch(ctx context.Context, drafts []roster.Roster) ([]DraftReport, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RosterService.ValidateBatch", attribute.Int("batch.size", len(drafts)))
	defer span.End()

	if len(drafts) == 0 {
		return []DraftReport{}, nil
	}
	if len(drafts) > MaxBatchSize {
		return nil, fmt.Errorf("%w: batch size %d exceeds limit %d", ErrInvalidInput, len(drafts), MaxBatchSize)
	}

	pool, err := ants.NewPool(min(s.workers, len(drafts)))
	if err != nil {
		return nil, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	reports := make([]DraftReport, len(drafts))
	var workers sync.WaitGroup
	for i := range drafts {
		if err := ctx.Err(); err != nil {
			workers.Wait()
			return nil, err
		}

		idx := i
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()
			reports[idx] = s.ValidateDraft(drafts[idx])
		}); err != nil {
			workers.Done()
			workers.Wait()
			return nil, fmt.Errorf("submit validation to worker pool: %w", err)
		}
	}
	workers.Wait()

	return reports, nil
}

func (s *RosterService) loadRoster(ctx context.Context, rosterID string) (roster.Roster, error) {
	rosterID = strings.TrimSpace(rosterID)
	if rosterID == "" {
		return roster.Roster{}, fmt.Errorf("%w: team id is required", ErrInvalidInput)
	}

	item, exists, err := s.repo.Get(ctx, rosterID)
	if err != nil {
		return roster.Roster{}, fmt.Errorf("get roster: %w", err)
	}
	if !exists {
		return roster.Roster{}, fmt.Errorf("%w: team id=%s", ErrNotFound, rosterID)
	}
	return item, nil
}

// resolvePlayers fetches each distinct id once and fails if any is unknown.
func (s *RosterService) resolvePlayers(ctx context.Context, ids []int64) (map[int64]player.Player, error) {
	index := make(map[int64]player.Player, len(ids))
	if len(ids) == 0 {
		return index, nil
	}

	found, err := s.players.GetByIDs(ctx, ids)
	if err != nil {
		return nil, dependencyError(ctx, "resolve players", err)
	}
	for _, p := range found {
		index[p.ID] = p
	}

	var missing []int64
	for _, id := range ids {
		if _, ok := index[id]; !ok {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: unknown player ids %v", ErrInvalidInput, missing)
	}
	return index, nil
}

// collectIDs returns the distinct ids referenced by an update, in first-seen order.
func collectIDs(players, bench []int64, captain, vice *int64) []int64 {
	seen := make(map[int64]struct{}, len(players)+len(bench)+2)
	out := make([]int64, 0, len(players)+len(bench)+2)
	add := func(id int64) {
		if _, ok := seen[id]; ok {
			return
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}

	for _, id := range players {
		add(id)
	}
	for _, id := range bench {
		add(id)
	}
	if captain != nil {
		add(*captain)
	}
	if vice != nil {
		add(*vice)
	}
	return out
}

// pick keeps ids order and repeats, so duplicate picks stay visible to validation.
func pick(index map[int64]player.Player, ids []int64) []player.Player {
	out := make([]player.Player, 0, len(ids))
	for _, id := range ids {
		out = append(out, index[id])
	}
	return out
}

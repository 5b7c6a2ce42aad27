package httpapi

import (
	"time"

	"github.com/riskibarqy/fpl-team-builder/internal/domain/fixture"
	"github.com/riskibarqy/fpl-team-builder/internal/domain/player"
	"github.com/riskibarqy/fpl-team-builder/internal/domain/recommendation"
	"github.com/riskibarqy/fpl-team-builder/internal/domain/roster"
	"github.com/riskibarqy/fpl-team-builder/internal/usecase"
)

type playerDTO struct {
	ID          int64   `json:"id" validate:"gt=0"`
	Name        string  `json:"name" validate:"required"`
	Team        string  `json:"team" validate:"required"`
	Position    string  `json:"position" validate:"oneof=GK DEF MID FWD"`
	Price       float64 `json:"price" validate:"gte=0"`
	Form        float64 `json:"form"`
	TotalPoints int     `json:"totalPoints"`
	ValueForm   float64 `json:"valueForm"`
}

type clubDTO struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	ShortName string `json:"shortName"`
	Strength  int    `json:"strength"`
}

type fixtureDTO struct {
	ID             int64      `json:"id"`
	Gameweek       int        `json:"gameweek"`
	HomeTeamID     int64      `json:"homeTeamId"`
	AwayTeamID     int64      `json:"awayTeamId"`
	KickoffTime    *time.Time `json:"kickoffTime"`
	HomeScore      *int       `json:"homeScore"`
	AwayScore      *int       `json:"awayScore"`
	HomeDifficulty int        `json:"homeDifficulty"`
	AwayDifficulty int        `json:"awayDifficulty"`
	Started        bool       `json:"started"`
	Finished       bool       `json:"finished"`
}

type appearanceDTO struct {
	Gameweek       int     `json:"gameweek"`
	OpponentTeamID int64   `json:"opponentTeamId"`
	WasHome        bool    `json:"wasHome"`
	Minutes        int     `json:"minutes"`
	Goals          int     `json:"goals"`
	Assists        int     `json:"assists"`
	CleanSheets    int     `json:"cleanSheets"`
	Bonus          int     `json:"bonus"`
	Points         int     `json:"points"`
	Price          float64 `json:"price"`
}

type liveStatDTO struct {
	PlayerID int64 `json:"playerId"`
	Minutes  int   `json:"minutes"`
	Goals    int   `json:"goals"`
	Assists  int   `json:"assists"`
	Bonus    int   `json:"bonus"`
	Points   int   `json:"points"`
}

type playerStatsDTO struct {
	Player   playerDTO       `json:"player"`
	Club     clubDTO         `json:"club"`
	History  []appearanceDTO `json:"history"`
	Fixtures []fixtureDTO    `json:"fixtures"`
}

type gameweekDTO struct {
	Gameweek int `json:"gameweek"`
}

// teamDTO is both the stored team view and the draft body accepted by the
// validation endpoints.
type teamDTO struct {
	ID             string      `json:"id,omitempty"`
	Name           string      `json:"name" validate:"max=100"`
	Budget         float64     `json:"budget" validate:"gt=0"`
	Players        []playerDTO `json:"players" validate:"dive"`
	Captain        *playerDTO  `json:"captain,omitempty" validate:"omitempty"`
	ViceCaptain    *playerDTO  `json:"viceCaptain,omitempty" validate:"omitempty"`
	Formation      string      `json:"formation"`
	Bench          []playerDTO `json:"bench" validate:"dive"`
	ExpectedPoints float64     `json:"expectedPoints"`
	Reasoning      string      `json:"reasoning,omitempty"`
	CreatedAt      *time.Time  `json:"createdAt,omitempty"`
	UpdatedAt      *time.Time  `json:"updatedAt,omitempty"`
}

type violationDTO struct {
	Rule     string `json:"rule"`
	Position string `json:"position,omitempty"`
	Message  string `json:"message"`
}

type validationDTO struct {
	Valid      bool           `json:"valid"`
	Errors     []string       `json:"errors"`
	Violations []violationDTO `json:"violations"`
}

type statsDTO struct {
	TotalValue        float64        `json:"totalValue"`
	RemainingBudget   float64        `json:"remainingBudget"`
	PositionBreakdown map[string]int `json:"positionBreakdown"`
	TeamBreakdown     map[string]int `json:"teamBreakdown"`
	AverageForm       float64        `json:"averageForm"`
	TotalPoints       int            `json:"totalPoints"`
	Formation         string         `json:"formation"`
	ExpectedPoints    float64        `json:"expectedPoints"`
}

type draftReportDTO struct {
	Validation validationDTO `json:"validation"`
	Stats      statsDTO      `json:"stats"`
}

type teamReportDTO struct {
	Team       teamDTO       `json:"team"`
	Validation validationDTO `json:"validation"`
	Stats      statsDTO      `json:"stats"`
}

type recommendationDTO struct {
	Players        []playerDTO `json:"players"`
	Formation      string      `json:"formation"`
	Captain        *playerDTO  `json:"captain,omitempty"`
	ViceCaptain    *playerDTO  `json:"viceCaptain,omitempty"`
	Bench          []playerDTO `json:"bench"`
	Reasoning      string      `json:"reasoning"`
	ExpectedPoints float64     `json:"expectedPoints"`
	RiskLevel      string      `json:"riskLevel"`
	Strategy       string      `json:"strategy"`
}

type teamAnalysisDTO struct {
	Analysis   string        `json:"analysis"`
	Validation validationDTO `json:"validation"`
	Stats      statsDTO      `json:"stats"`
}

type playerAnalysisDTO struct {
	Player   playerDTO `json:"player"`
	Analysis string    `json:"analysis"`
}

type analysisTextDTO struct {
	Analysis string `json:"analysis"`
}

type optimizeResultDTO struct {
	Team     teamDTO `json:"team"`
	Analysis string  `json:"analysis"`
}

type preferencesDTO struct {
	PreferredFormation string   `json:"preferredFormation" validate:"max=20"`
	RiskTolerance      string   `json:"riskTolerance" validate:"omitempty,oneof=low medium high"`
	PreferredTeams     []string `json:"preferredTeams" validate:"max=20,dive,max=50"`
	AvoidTeams         []string `json:"avoidTeams" validate:"max=20,dive,max=50"`
	CaptainStrategy    string   `json:"captainStrategy" validate:"max=200"`
	ChipStrategy       string   `json:"chipStrategy" validate:"max=200"`
}

type createTeamRequest struct {
	Name        string         `json:"name" validate:"required,max=100"`
	Budget      float64        `json:"budget" validate:"required,gt=0,lte=200"`
	Preferences preferencesDTO `json:"preferences"`
	Strategy    string         `json:"strategy" validate:"max=200"`
}

type updateTeamRequest struct {
	Name          *string  `json:"name" validate:"omitempty,min=1,max=100"`
	Budget        *float64 `json:"budget" validate:"omitempty,gt=0,lte=200"`
	PlayerIDs     []int64  `json:"playerIds" validate:"omitempty,max=30,dive,gt=0"`
	BenchIDs      []int64  `json:"benchIds" validate:"omitempty,max=15,dive,gt=0"`
	CaptainID     *int64   `json:"captainId" validate:"omitempty,gt=0"`
	ViceCaptainID *int64   `json:"viceCaptainId" validate:"omitempty,gt=0"`
	Formation     *string  `json:"formation" validate:"omitempty,max=20"`
}

type validateBatchRequest struct {
	Teams []teamDTO `json:"teams" validate:"required,min=1,dive"`
}

type recommendRequest struct {
	Budget      float64        `json:"budget" validate:"required,gt=0,lte=200"`
	Preferences preferencesDTO `json:"preferences"`
	Strategy    string         `json:"strategy" validate:"max=200"`
}

type analyzeTeamRequest struct {
	TeamID       string   `json:"teamId" validate:"max=100"`
	Team         *teamDTO `json:"team" validate:"omitempty"`
	AnalysisType string   `json:"analysisType" validate:"max=50"`
}

type formationRequest struct {
	PlayerIDs []int64 `json:"playerIds" validate:"max=50,dive,gt=0"`
	Budget    float64 `json:"budget" validate:"required,gt=0,lte=200"`
	Strategy  string  `json:"strategy" validate:"max=200"`
}

type optimizeRequest struct {
	Strategy  string `json:"strategy" validate:"max=200"`
	RiskLevel string `json:"riskLevel" validate:"omitempty,oneof=low medium high"`
}

func playerToDTO(p player.Player) playerDTO {
	return playerDTO{
		ID:          p.ID,
		Name:        p.Name,
		Team:        p.Club,
		Position:    string(p.Position),
		Price:       p.Price,
		Form:        p.Form,
		TotalPoints: p.TotalPoints,
		ValueForm:   p.ValueForm,
	}
}

func playersToDTO(items []player.Player) []playerDTO {
	out := make([]playerDTO, 0, len(items))
	for _, p := range items {
		out = append(out, playerToDTO(p))
	}
	return out
}

// optionalPlayerDTO maps an unset armband to null.
func optionalPlayerDTO(p player.Player) *playerDTO {
	if p.ID == 0 {
		return nil
	}
	dto := playerToDTO(p)
	return &dto
}

func playerFromDTO(d playerDTO) player.Player {
	return player.Player{
		ID:          d.ID,
		Name:        d.Name,
		Club:        d.Team,
		Position:    player.Position(d.Position),
		Price:       d.Price,
		Form:        d.Form,
		TotalPoints: d.TotalPoints,
		ValueForm:   d.ValueForm,
	}
}

func playersFromDTO(items []playerDTO) []player.Player {
	out := make([]player.Player, 0, len(items))
	for _, d := range items {
		out = append(out, playerFromDTO(d))
	}
	return out
}

func clubToDTO(c player.Club) clubDTO {
	return clubDTO{ID: c.ID, Name: c.Name, ShortName: c.ShortName, Strength: c.Strength}
}

func fixtureToDTO(f fixture.Fixture) fixtureDTO {
	return fixtureDTO{
		ID:             f.ID,
		Gameweek:       f.Gameweek,
		HomeTeamID:     f.HomeClubID,
		AwayTeamID:     f.AwayClubID,
		KickoffTime:    f.KickoffAt,
		HomeScore:      f.HomeScore,
		AwayScore:      f.AwayScore,
		HomeDifficulty: f.HomeDifficulty,
		AwayDifficulty: f.AwayDifficulty,
		Started:        f.Started,
		Finished:       f.Finished,
	}
}

func fixturesToDTO(items []fixture.Fixture) []fixtureDTO {
	out := make([]fixtureDTO, 0, len(items))
	for _, f := range items {
		out = append(out, fixtureToDTO(f))
	}
	return out
}

func playerDetailToDTO(d usecase.PlayerDetail) playerStatsDTO {
	history := make([]appearanceDTO, 0, len(d.History))
	for _, a := range d.History {
		history = append(history, appearanceDTO{
			Gameweek:       a.Gameweek,
			OpponentTeamID: a.OpponentClubID,
			WasHome:        a.WasHome,
			Minutes:        a.Minutes,
			Goals:          a.Goals,
			Assists:        a.Assists,
			CleanSheets:    a.CleanSheets,
			Bonus:          a.Bonus,
			Points:         a.Points,
			Price:          a.Price,
		})
	}
	return playerStatsDTO{
		Player:   playerToDTO(d.Player),
		Club:     clubToDTO(d.Club),
		History:  history,
		Fixtures: fixturesToDTO(d.Fixtures),
	}
}

func liveStatsToDTO(items []player.LiveStat) []liveStatDTO {
	out := make([]liveStatDTO, 0, len(items))
	for _, s := range items {
		out = append(out, liveStatDTO{
			PlayerID: s.PlayerID,
			Minutes:  s.Minutes,
			Goals:    s.Goals,
			Assists:  s.Assists,
			Bonus:    s.Bonus,
			Points:   s.Points,
		})
	}
	return out
}

func teamToDTO(r roster.Roster) teamDTO {
	dto := teamDTO{
		ID:             r.ID,
		Name:           r.Name,
		Budget:         r.Budget,
		Players:        playersToDTO(r.Players),
		Captain:        optionalPlayerDTO(r.Captain),
		ViceCaptain:    optionalPlayerDTO(r.ViceCaptain),
		Formation:      r.Formation,
		Bench:          playersToDTO(r.Bench),
		ExpectedPoints: r.ExpectedPoints,
		Reasoning:      r.Reasoning,
	}
	if !r.CreatedAt.IsZero() {
		created := r.CreatedAt
		dto.CreatedAt = &created
	}
	if !r.UpdatedAt.IsZero() {
		updated := r.UpdatedAt
		dto.UpdatedAt = &updated
	}
	return dto
}

func teamFromDTO(d teamDTO) roster.Roster {
	r := roster.Roster{
		ID:             d.ID,
		Name:           d.Name,
		Budget:         d.Budget,
		Players:        playersFromDTO(d.Players),
		Formation:      d.Formation,
		Bench:          playersFromDTO(d.Bench),
		ExpectedPoints: d.ExpectedPoints,
		Reasoning:      d.Reasoning,
	}
	if d.Captain != nil {
		r.Captain = playerFromDTO(*d.Captain)
	}
	if d.ViceCaptain != nil {
		r.ViceCaptain = playerFromDTO(*d.ViceCaptain)
	}
	return r
}

func validationToDTO(v roster.ValidationResult) validationDTO {
	violations := make([]violationDTO, 0, len(v.Violations))
	for _, item := range v.Violations {
		violations = append(violations, violationDTO{
			Rule:     string(item.Rule),
			Position: string(item.Position),
			Message:  item.Message,
		})
	}
	return validationDTO{
		Valid:      v.Valid,
		Errors:     v.Messages(),
		Violations: violations,
	}
}

func statsToDTO(s roster.Stats) statsDTO {
	positions := make(map[string]int, len(s.PositionBreakdown))
	for pos, n := range s.PositionBreakdown {
		positions[string(pos)] = n
	}
	clubs := make(map[string]int, len(s.ClubBreakdown))
	for club, n := range s.ClubBreakdown {
		clubs[club] = n
	}
	return statsDTO{
		TotalValue:        s.TotalValue,
		RemainingBudget:   s.RemainingBudget,
		PositionBreakdown: positions,
		TeamBreakdown:     clubs,
		AverageForm:       s.AverageForm,
		TotalPoints:       s.TotalPoints,
		Formation:         s.Formation,
		ExpectedPoints:    s.ExpectedPoints,
	}
}

func draftReportToDTO(r usecase.DraftReport) draftReportDTO {
	return draftReportDTO{
		Validation: validationToDTO(r.Validation),
		Stats:      statsToDTO(r.Stats),
	}
}

func recommendationToDTO(r recommendation.Recommendation) recommendationDTO {
	return recommendationDTO{
		Players:        playersToDTO(r.Players),
		Formation:      r.Formation,
		Captain:        optionalPlayerDTO(r.Captain),
		ViceCaptain:    optionalPlayerDTO(r.ViceCaptain),
		Bench:          playersToDTO(r.Bench),
		Reasoning:      r.Reasoning,
		ExpectedPoints: r.ExpectedPoints,
		RiskLevel:      string(r.RiskLevel),
		Strategy:       r.Strategy,
	}
}

func preferencesFromDTO(d preferencesDTO) recommendation.Preferences {
	risk, err := recommendation.ParseRiskLevel(d.RiskTolerance)
	if err != nil {
		risk = recommendation.RiskMedium
	}
	return recommendation.Preferences{
		PreferredFormation: d.PreferredFormation,
		RiskTolerance:      risk,
		PreferredClubs:     d.PreferredTeams,
		AvoidClubs:         d.AvoidTeams,
		CaptainStrategy:    d.CaptainStrategy,
		ChipStrategy:       d.ChipStrategy,
	}
}

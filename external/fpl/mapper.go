package fpl

import (
	"strconv"
	"strings"
	"time"

	"github.com/riskibarqy/fpl-team-builder/internal/domain/fixture"
	"github.com/riskibarqy/fpl-team-builder/internal/domain/player"
	"github.com/shopspring/decimal"
)

var elementPositions = map[int]player.Position{
	1: player.PositionGoalkeeper,
	2: player.PositionDefender,
	3: player.PositionMidfielder,
	4: player.PositionForward,
}

// tenthsToMillions converts the API's integer price in tenths of a million.
func tenthsToMillions(v int64) float64 {
	f, _ := decimal.New(v, -1).Float64()
	return f
}

func parseDecimalString(v string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return 0
	}
	return f
}

func mapClub(t teamDTO) player.Club {
	return player.Club{
		ID:        t.ID,
		Name:      t.Name,
		ShortName: t.ShortName,
		Strength:  t.Strength,
	}
}

// mapElement returns false for elements that are not outfield or goalkeeper
// players (managers use element_type 5) and for records that fail
// player.Validate.
func mapElement(e elementDTO, clubs map[int64]player.Club) (player.Player, bool) {
	pos, ok := elementPositions[e.ElementType]
	if !ok {
		return player.Player{}, false
	}

	name := strings.TrimSpace(e.WebName)
	if name == "" {
		name = strings.TrimSpace(e.FirstName + " " + e.SecondName)
	}

	club := clubs[e.Team].Name
	if club == "" {
		club = "Unknown"
	}

	p := player.Player{
		ID:          e.ID,
		Name:        name,
		Club:        club,
		Position:    pos,
		Price:       tenthsToMillions(e.NowCost),
		Form:        parseDecimalString(e.Form),
		TotalPoints: e.TotalPoints,
		ValueForm:   parseDecimalString(e.ValueForm),
	}
	if err := p.Validate(); err != nil {
		return player.Player{}, false
	}
	return p, true
}

func mapAppearance(h historyDTO) player.Appearance {
	return player.Appearance{
		Gameweek:       h.Round,
		OpponentClubID: h.OpponentTeam,
		WasHome:        h.WasHome,
		Minutes:        h.Minutes,
		Goals:          h.GoalsScored,
		Assists:        h.Assists,
		CleanSheets:    h.CleanSheets,
		Bonus:          h.Bonus,
		Points:         h.TotalPoints,
		Price:          tenthsToMillions(h.Value),
	}
}

func mapFixture(f fixtureDTO) fixture.Fixture {
	out := fixture.Fixture{
		ID:             f.ID,
		HomeClubID:     f.TeamH,
		AwayClubID:     f.TeamA,
		HomeScore:      f.TeamHScore,
		AwayScore:      f.TeamAScore,
		HomeDifficulty: f.TeamHDifficulty,
		AwayDifficulty: f.TeamADifficulty,
		Finished:       f.Finished,
	}
	if f.Event != nil {
		out.Gameweek = *f.Event
	}
	if f.Started != nil {
		out.Started = *f.Started
	}
	if f.KickoffTime != nil {
		if ts, err := time.Parse(time.RFC3339, *f.KickoffTime); err == nil {
			ts = ts.UTC()
			out.KickoffAt = &ts
		}
	}
	return out
}

func mapLiveStat(e liveElementDTO) player.LiveStat {
	return player.LiveStat{
		PlayerID: e.ID,
		Minutes:  e.Stats.Minutes,
		Goals:    e.Stats.GoalsScored,
		Assists:  e.Stats.Assists,
		Bonus:    e.Stats.Bonus,
		Points:   e.Stats.TotalPoints,
	}
}

// currentGameweek picks the event flagged as current, falling back to 1
// before the season starts.
func currentGameweek(events []eventDTO) int {
	for _, ev := range events {
		if ev.IsCurrent {
			return ev.ID
		}
	}
	return 1
}

package roster

import (
	"github.com/riskibarqy/fpl-team-builder/internal/domain/player"
	"github.com/shopspring/decimal"
)

// Stats is a point-in-time summary of a roster. It is computed on demand and
// never cached.
type Stats struct {
	TotalValue        float64
	RemainingBudget   float64
	PositionBreakdown map[player.Position]int
	ClubBreakdown     map[string]int
	AverageForm       float64
	TotalPoints       int
	Formation         string
	ExpectedPoints    float64
}

// ComputeStats never fails. Breakdowns reflect the players literally present,
// duplicates included, and AverageForm is 0 for an empty roster.
func ComputeStats(r Roster) Stats {
	positions := make(map[player.Position]int, len(player.OrderedPositions))
	for _, pos := range player.OrderedPositions {
		positions[pos] = 0
	}
	clubs := make(map[string]int)

	totalForm := decimal.Zero
	totalPoints := 0
	for _, p := range r.Players {
		positions[p.Position]++
		clubs[p.Club]++
		totalForm = totalForm.Add(decimal.NewFromFloat(p.Form))
		totalPoints += p.TotalPoints
	}

	averageForm := decimal.Zero
	if len(r.Players) > 0 {
		averageForm = totalForm.Div(decimal.NewFromInt(int64(len(r.Players))))
	}

	total := sumPrices(r.Players)
	return Stats{
		TotalValue:        total.InexactFloat64(),
		RemainingBudget:   decimal.NewFromFloat(r.Budget).Sub(total).InexactFloat64(),
		PositionBreakdown: positions,
		ClubBreakdown:     clubs,
		AverageForm:       averageForm.InexactFloat64(),
		TotalPoints:       totalPoints,
		Formation:         r.Formation,
		ExpectedPoints:    r.ExpectedPoints,
	}
}

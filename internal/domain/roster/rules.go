package roster

import (
	"fmt"

	"github.com/riskibarqy/fpl-team-builder/internal/domain/player"
	"github.com/shopspring/decimal"
)

// Rule identifies which structural constraint a violation breaks.
type Rule string

const (
	RuleSquadSize          Rule = "squad_size"
	RuleMinPosition        Rule = "min_position"
	RuleBudget             Rule = "budget"
	RuleDuplicatePlayer    Rule = "duplicate_player"
	RuleCaptainInSquad     Rule = "captain_in_squad"
	RuleViceCaptainInSquad Rule = "vice_captain_in_squad"
)

// Violation is one broken rule with a message suitable for end users.
type Violation struct {
	Rule     Rule
	Position player.Position
	Message  string
}

// ValidationResult is freshly built on every call; Valid is true iff Violations is empty.
type ValidationResult struct {
	Valid      bool
	Violations []Violation
}

func (v ValidationResult) Messages() []string {
	out := make([]string, 0, len(v.Violations))
	for _, item := range v.Violations {
		out = append(out, item.Message)
	}
	return out
}

// Rules stores squad validation parameters.
type Rules struct {
	SquadSize     int
	MinByPosition map[player.Position]int
}

func DefaultRules() Rules {
	return Rules{
		SquadSize: 15,
		MinByPosition: map[player.Position]int{
			player.PositionGoalkeeper: 2,
			player.PositionDefender:   3,
			player.PositionMidfielder: 3,
			player.PositionForward:    1,
		},
	}
}

var positionNouns = map[player.Position][2]string{
	player.PositionGoalkeeper: {"goalkeeper", "goalkeepers"},
	player.PositionDefender:   {"defender", "defenders"},
	player.PositionMidfielder: {"midfielder", "midfielders"},
	player.PositionForward:    {"forward", "forwards"},
}

// Validate checks r against rules and reports every violation at once. Checks
// run against the players actually present, whatever their count.
//
// Captain and ViceCaptain with a non-positive ID count as unset and are
// reported as not being in the squad, even when a squad entry has ID 0.
func Validate(r Roster, rules Rules) ValidationResult {
	violations := make([]Violation, 0)

	if len(r.Players) != rules.SquadSize {
		violations = append(violations, Violation{
			Rule:    RuleSquadSize,
			Message: fmt.Sprintf("Team must have exactly %d players", rules.SquadSize),
		})
	}

	positionCount := countPositions(r.Players)
	for _, pos := range player.OrderedPositions {
		minRequired, ok := rules.MinByPosition[pos]
		if !ok || positionCount[pos] >= minRequired {
			continue
		}
		violations = append(violations, Violation{
			Rule:     RuleMinPosition,
			Position: pos,
			Message:  fmt.Sprintf("Team must have at least %d %s", minRequired, positionNoun(pos, minRequired)),
		})
	}

	total := sumPrices(r.Players)
	budget := decimal.NewFromFloat(r.Budget)
	if total.GreaterThan(budget) {
		violations = append(violations, Violation{
			Rule:    RuleBudget,
			Message: fmt.Sprintf("Team value (%s) exceeds budget (%s)", total.String(), budget.String()),
		})
	}

	ids := make(map[int64]struct{}, len(r.Players))
	for _, p := range r.Players {
		ids[p.ID] = struct{}{}
	}
	if len(ids) != len(r.Players) {
		violations = append(violations, Violation{
			Rule:    RuleDuplicatePlayer,
			Message: "Team contains duplicate players",
		})
	}

	if !inSquad(ids, r.Captain) {
		violations = append(violations, Violation{
			Rule:    RuleCaptainInSquad,
			Message: "Captain must be in the team",
		})
	}
	if !inSquad(ids, r.ViceCaptain) {
		violations = append(violations, Violation{
			Rule:    RuleViceCaptainInSquad,
			Message: "Vice-captain must be in the team",
		})
	}

	return ValidationResult{
		Valid:      len(violations) == 0,
		Violations: violations,
	}
}

func inSquad(ids map[int64]struct{}, p player.Player) bool {
	if p.ID <= 0 {
		return false
	}
	_, ok := ids[p.ID]
	return ok
}

func positionNoun(pos player.Position, n int) string {
	nouns, ok := positionNouns[pos]
	if !ok {
		return string(pos)
	}
	if n == 1 {
		return nouns[0]
	}
	return nouns[1]
}

func countPositions(players []player.Player) map[player.Position]int {
	out := make(map[player.Position]int, len(player.OrderedPositions))
	for _, p := range players {
		out[p.Position]++
	}
	return out
}

func sumPrices(players []player.Player) decimal.Decimal {
	total := decimal.Zero
	for _, p := range players {
		total = total.Add(decimal.NewFromFloat(p.Price))
	}
	return total
}

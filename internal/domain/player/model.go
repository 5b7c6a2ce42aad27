package player

import (
	"fmt"
	"strings"
)

// Position represents football position categories used in squad rules.
type Position string

const (
	PositionGoalkeeper Position = "GK"
	PositionDefender   Position = "DEF"
	PositionMidfielder Position = "MID"
	PositionForward    Position = "FWD"
)

var AllPositions = map[Position]struct{}{
	PositionGoalkeeper: {},
	PositionDefender:   {},
	PositionMidfielder: {},
	PositionForward:    {},
}

// OrderedPositions lists positions from the back line forward.
var OrderedPositions = []Position{
	PositionGoalkeeper,
	PositionDefender,
	PositionMidfielder,
	PositionForward,
}

func ParsePosition(v string) (Position, error) {
	pos := Position(strings.ToUpper(strings.TrimSpace(v)))
	if _, ok := AllPositions[pos]; !ok {
		return "", fmt.Errorf("unknown player position: %q", v)
	}
	return pos, nil
}

// Player is a selectable Premier League footballer. Values are read-only snapshots
// from the upstream data source.
type Player struct {
	ID          int64
	Name        string
	Club        string
	Position    Position
	Price       float64
	Form        float64
	TotalPoints int
	// ValueForm is the upstream points-per-million-on-form figure, used for sorting only.
	ValueForm float64
}

// Validate checks the fields every stored or fetched player must carry. Form
// and points may legitimately be negative upstream, so they are not checked.
func (p Player) Validate() error {
	if p.ID <= 0 {
		return fmt.Errorf("player id must be greater than zero")
	}
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("player name is required")
	}
	if strings.TrimSpace(p.Club) == "" {
		return fmt.Errorf("player club is required")
	}
	if _, ok := AllPositions[p.Position]; !ok {
		return fmt.Errorf("invalid player position: %s", p.Position)
	}
	if p.Price < 0 {
		return fmt.Errorf("player price cannot be negative")
	}
	return nil
}

// Club is a Premier League team a player belongs to.
type Club struct {
	ID        int64
	Name      string
	ShortName string
	Strength  int
}

// Appearance is one finished gameweek row from a player's season history.
type Appearance struct {
	Gameweek       int
	OpponentClubID int64
	WasHome        bool
	Minutes        int
	Goals          int
	Assists        int
	CleanSheets    int
	Bonus          int
	Points         int
	Price          float64
}

// LiveStat is a player's running tally inside one gameweek.
type LiveStat struct {
	PlayerID int64
	Minutes  int
	Goals    int
	Assists  int
	Bonus    int
	Points   int
}

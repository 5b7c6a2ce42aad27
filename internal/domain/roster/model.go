package roster

import (
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/fpl-team-builder/internal/domain/player"
)

// Roster is a manager's 15-player squad together with its declared budget and
// armband choices. Players are held as value copies and never mutated here.
//
// Captain and ViceCaptain are expected to reference squad members; nothing
// stops them naming the same player.
type Roster struct {
	ID             string
	Name           string
	Budget         float64
	Players        []player.Player
	Captain        player.Player
	ViceCaptain    player.Player
	Formation      string
	Bench          []player.Player
	ExpectedPoints float64
	Reasoning      string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// ValidateBasic checks the fields required before a roster can be persisted.
// Squad legality is reported by Validate, not here.
func (r Roster) ValidateBasic() error {
	if strings.TrimSpace(r.ID) == "" {
		return fmt.Errorf("roster id is required")
	}
	if strings.TrimSpace(r.Name) == "" {
		return fmt.Errorf("roster name is required")
	}
	if r.Budget <= 0 {
		return fmt.Errorf("budget must be greater than zero")
	}

	return nil
}

// Clone returns a copy that shares no slices with r.
func (r Roster) Clone() Roster {
	copied := r
	copied.Players = append([]player.Player(nil), r.Players...)
	copied.Bench = append([]player.Player(nil), r.Bench...)
	return copied
}

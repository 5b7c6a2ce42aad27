package roster

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/riskibarqy/fpl-team-builder/internal/domain/player"
)

func buildPlayers(price float64) []player.Player {
	layout := []struct {
		pos   player.Position
		count int
	}{
		{player.PositionGoalkeeper, 2},
		{player.PositionDefender, 5},
		{player.PositionMidfielder, 5},
		{player.PositionForward, 3},
	}

	players := make([]player.Player, 0, 15)
	for _, slot := range layout {
		for i := 0; i < slot.count; i++ {
			id := int64(len(players) + 1)
			players = append(players, player.Player{
				ID:          id,
				Name:        fmt.Sprintf("Player %d", id),
				Club:        fmt.Sprintf("Club %d", id%5),
				Position:    slot.pos,
				Price:       price,
				Form:        float64(id % 4),
				TotalPoints: int(id) * 10,
			})
		}
	}
	return players
}

func validRoster() Roster {
	players := buildPlayers(4.0)
	return Roster{
		ID:          "roster-1",
		Name:        "Gegenpress XI",
		Budget:      100,
		Players:     players,
		Captain:     players[0],
		ViceCaptain: players[1],
		Formation:   "4-4-2",
	}
}

func TestValidate(t *testing.T) {
	rules := DefaultRules()

	tests := []struct {
		name      string
		mutate    func(*Roster)
		wantRules []Rule
		wantMsgs  []string
	}{
		{
			name:   "valid roster",
			mutate: func(_ *Roster) {},
		},
		{
			name: "budget exceeded",
			mutate: func(r *Roster) {
				r.Budget = 50
			},
			wantRules: []Rule{RuleBudget},
			wantMsgs:  []string{"Team value (60) exceeds budget (50)"},
		},
		{
			name: "squad too small",
			mutate: func(r *Roster) {
				r.Players = r.Players[:14]
			},
			wantRules: []Rule{RuleSquadSize},
			wantMsgs:  []string{"Team must have exactly 15 players"},
		},
		{
			name: "squad too large",
			mutate: func(r *Roster) {
				r.Players = append(r.Players, player.Player{ID: 16, Club: "Club 1", Position: player.PositionForward, Price: 4})
			},
			wantRules: []Rule{RuleSquadSize},
		},
		{
			name: "one goalkeeper",
			mutate: func(r *Roster) {
				r.Players[1].Position = player.PositionDefender
			},
			wantRules: []Rule{RuleMinPosition},
			wantMsgs:  []string{"Team must have at least 2 goalkeepers"},
		},
		{
			name: "two defenders",
			mutate: func(r *Roster) {
				for i := 2; i <= 4; i++ {
					r.Players[i].Position = player.PositionMidfielder
				}
			},
			wantRules: []Rule{RuleMinPosition},
			wantMsgs:  []string{"Team must have at least 3 defenders"},
		},
		{
			name: "two midfielders",
			mutate: func(r *Roster) {
				for i := 7; i <= 9; i++ {
					r.Players[i].Position = player.PositionForward
				}
			},
			wantRules: []Rule{RuleMinPosition},
			wantMsgs:  []string{"Team must have at least 3 midfielders"},
		},
		{
			name: "no forwards",
			mutate: func(r *Roster) {
				for i := 12; i <= 14; i++ {
					r.Players[i].Position = player.PositionMidfielder
				}
			},
			wantRules: []Rule{RuleMinPosition},
			wantMsgs:  []string{"Team must have at least 1 forward"},
		},
		{
			name: "duplicate player",
			mutate: func(r *Roster) {
				r.Players[7] = r.Players[3]
			},
			wantRules: []Rule{RuleDuplicatePlayer},
			wantMsgs:  []string{"Team contains duplicate players"},
		},
		{
			name: "captain outside squad",
			mutate: func(r *Roster) {
				r.Captain = player.Player{ID: 999, Name: "Outsider"}
			},
			wantRules: []Rule{RuleCaptainInSquad},
			wantMsgs:  []string{"Captain must be in the team"},
		},
		{
			name: "vice-captain outside squad",
			mutate: func(r *Roster) {
				r.ViceCaptain = player.Player{ID: 999, Name: "Outsider"}
			},
			wantRules: []Rule{RuleViceCaptainInSquad},
			wantMsgs:  []string{"Vice-captain must be in the team"},
		},
		{
			name: "unset captains with a zero-id squad entry",
			mutate: func(r *Roster) {
				r.Players[0].ID = 0
				r.Captain = player.Player{}
				r.ViceCaptain = player.Player{}
			},
			wantRules: []Rule{RuleCaptainInSquad, RuleViceCaptainInSquad},
			wantMsgs:  []string{"Captain must be in the team", "Vice-captain must be in the team"},
		},
		{
			name: "captain and vice-captain may match",
			mutate: func(r *Roster) {
				r.ViceCaptain = r.Captain
			},
		},
		{
			name: "several violations are all reported",
			mutate: func(r *Roster) {
				r.Players = append(r.Players[:1:1], r.Players[2:]...)
				r.ViceCaptain = r.Players[1]
				r.Budget = 50
			},
			wantRules: []Rule{RuleSquadSize, RuleMinPosition, RuleBudget},
			wantMsgs: []string{
				"Team must have exactly 15 players",
				"Team must have at least 2 goalkeepers",
				"Team value (56) exceeds budget (50)",
			},
		},
		{
			name: "empty roster",
			mutate: func(r *Roster) {
				r.Players = nil
			},
			wantRules: []Rule{
				RuleSquadSize,
				RuleMinPosition,
				RuleMinPosition,
				RuleMinPosition,
				RuleMinPosition,
				RuleCaptainInSquad,
				RuleViceCaptainInSquad,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := validRoster()
			tt.mutate(&r)

			got := Validate(r, rules)
			if got.Valid != (len(tt.wantRules) == 0) {
				t.Fatalf("unexpected valid flag %v with violations %v", got.Valid, got.Messages())
			}

			gotRules := make([]Rule, 0, len(got.Violations))
			for _, v := range got.Violations {
				gotRules = append(gotRules, v.Rule)
			}
			if len(tt.wantRules) == 0 {
				if len(gotRules) != 0 {
					t.Fatalf("expected no violations, got %v", got.Messages())
				}
				return
			}
			if !reflect.DeepEqual(gotRules, tt.wantRules) {
				t.Fatalf("expected rules %v, got %v (%v)", tt.wantRules, gotRules, got.Messages())
			}
			if tt.wantMsgs != nil && !reflect.DeepEqual(got.Messages(), tt.wantMsgs) {
				t.Fatalf("expected messages %q, got %q", tt.wantMsgs, got.Messages())
			}
		})
	}
}

func TestValidate_DuplicateKeepsLiteralCounts(t *testing.T) {
	r := validRoster()
	r.Players[7] = r.Players[3]

	stats := ComputeStats(r)
	if stats.PositionBreakdown[player.PositionDefender] != 6 {
		t.Fatalf("expected 6 defenders counted literally, got %d", stats.PositionBreakdown[player.PositionDefender])
	}
	if stats.PositionBreakdown[player.PositionMidfielder] != 4 {
		t.Fatalf("expected 4 midfielders, got %d", stats.PositionBreakdown[player.PositionMidfielder])
	}
}

func TestValidate_Idempotent(t *testing.T) {
	r := validRoster()
	r.Budget = 10
	r.Players = r.Players[:12]

	first := Validate(r, DefaultRules())
	second := Validate(r, DefaultRules())
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("expected identical results, got %+v and %+v", first, second)
	}
}

func TestValidate_DecimalBudgetBoundary(t *testing.T) {
	players := buildPlayers(4.3)
	r := Roster{
		Budget:      64.5,
		Players:     players,
		Captain:     players[0],
		ViceCaptain: players[1],
	}

	got := Validate(r, DefaultRules())
	if !got.Valid {
		t.Fatalf("expected squad priced exactly at budget to be valid, got %v", got.Messages())
	}
}

func TestValidate_DoesNotMutateInput(t *testing.T) {
	r := validRoster()
	before := r.Clone()

	_ = Validate(r, DefaultRules())
	_ = ComputeStats(r)

	if !reflect.DeepEqual(before, r) {
		t.Fatalf("roster mutated during validation")
	}
}

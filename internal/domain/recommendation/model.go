package recommendation

import (
	"fmt"
	"strings"

	"github.com/riskibarqy/fpl-team-builder/internal/domain/player"
)

type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

func ParseRiskLevel(v string) (RiskLevel, error) {
	switch level := RiskLevel(strings.ToLower(strings.TrimSpace(v))); level {
	case "":
		return RiskMedium, nil
	case RiskLow, RiskMedium, RiskHigh:
		return level, nil
	default:
		return "", fmt.Errorf("unknown risk level: %q", v)
	}
}

// Preferences captures what a manager asks the generator to optimise for.
type Preferences struct {
	PreferredFormation string
	RiskTolerance      RiskLevel
	PreferredClubs     []string
	AvoidClubs         []string
	CaptainStrategy    string
	ChipStrategy       string
}

type Request struct {
	Budget      float64
	Preferences Preferences
	Strategy    string
}

func (r Request) Validate() error {
	if r.Budget <= 0 {
		return fmt.Errorf("budget must be greater than zero")
	}
	return nil
}

// Recommendation is a candidate squad produced by an external generator. It is
// not guaranteed to satisfy squad rules.
type Recommendation struct {
	Players        []player.Player
	Formation      string
	Captain        player.Player
	ViceCaptain    player.Player
	Bench          []player.Player
	Reasoning      string
	ExpectedPoints float64
	RiskLevel      RiskLevel
	Strategy       string
}

type AnalysisKind string

const (
	AnalysisTeam      AnalysisKind = "team"
	AnalysisPlayer    AnalysisKind = "player"
	AnalysisFormation AnalysisKind = "formation"
	AnalysisOptimize  AnalysisKind = "optimize"
)

// AnalysisRequest carries the facts an analyst should reason about, in the
// order they should be presented.
type AnalysisRequest struct {
	Kind  AnalysisKind
	Focus string
	Facts []Fact
}

type Fact struct {
	Label string
	Value string
}

package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/fpl-team-builder/internal/domain/player"
	"github.com/riskibarqy/fpl-team-builder/internal/domain/recommendation"
	"github.com/riskibarqy/fpl-team-builder/internal/platform/logging"
)

var errNoJSON = crerr.New("model reply contains no json object")

var (
	_ recommendation.Generator = (*Advisor)(nil)
	_ recommendation.Analyst   = (*Advisor)(nil)
)

// Advisor turns model replies into recommendations and analysis text.
type Advisor struct {
	llm     completer
	players player.Source
	logger  *logging.Logger
}

func NewAdvisor(llm completer, players player.Source, logger *logging.Logger) *Advisor {
	if logger == nil {
		logger = logging.Default()
	}
	return &Advisor{llm: llm, players: players, logger: logger}
}

type recommendationPayload struct {
	PlayerIDs      []int64 `json:"player_ids"`
	Formation      string  `json:"formation"`
	CaptainID      int64   `json:"captain_id"`
	ViceCaptainID  int64   `json:"vice_captain_id"`
	BenchIDs       []int64 `json:"bench_ids"`
	Reasoning      string  `json:"reasoning"`
	ExpectedPoints float64 `json:"expected_points"`
	RiskLevel      string  `json:"risk_level"`
	Strategy       string  `json:"strategy"`
}

func (a *Advisor) Recommend(ctx context.Context, req recommendation.Request) (recommendation.Recommendation, error) {
	reply, err := a.llm.Complete(ctx, systemPrompt, recommendationPrompt(req))
	if err != nil {
		return recommendation.Recommendation{}, err
	}

	raw, err := extractJSON(reply)
	if err != nil {
		a.logger.WarnContext(ctx, "llm recommendation reply not parseable", "reply", truncateForLog(reply, 512))
		return recommendation.Recommendation{}, err
	}
	var payload recommendationPayload
	if err := sonic.UnmarshalString(raw, &payload); err != nil {
		return recommendation.Recommendation{}, fmt.Errorf("decode recommendation json: %w", err)
	}
	if len(payload.PlayerIDs) == 0 {
		return recommendation.Recommendation{}, crerr.New("recommendation has no players")
	}

	ids := append(append([]int64{}, payload.PlayerIDs...), payload.BenchIDs...)
	ids = append(ids, payload.CaptainID, payload.ViceCaptainID)
	resolved, err := a.players.GetByIDs(ctx, ids)
	if err != nil {
		return recommendation.Recommendation{}, fmt.Errorf("resolve recommended players: %w", err)
	}
	byID := make(map[int64]player.Player, len(resolved))
	for _, p := range resolved {
		byID[p.ID] = p
	}

	squad, missing := pickPlayers(payload.PlayerIDs, byID)
	bench, benchMissing := pickPlayers(payload.BenchIDs, byID)
	if missing+benchMissing > 0 {
		a.logger.WarnContext(ctx, "llm recommendation referenced unknown players", "unknown", missing+benchMissing)
	}

	risk, err := recommendation.ParseRiskLevel(payload.RiskLevel)
	if err != nil {
		risk = recommendation.RiskMedium
	}

	return recommendation.Recommendation{
		Players:        squad,
		Formation:      payload.Formation,
		Captain:        byID[payload.CaptainID],
		ViceCaptain:    byID[payload.ViceCaptainID],
		Bench:          bench,
		Reasoning:      payload.Reasoning,
		ExpectedPoints: payload.ExpectedPoints,
		RiskLevel:      risk,
		Strategy:       orAny(payload.Strategy, req.Strategy),
	}, nil
}

func (a *Advisor) Analyze(ctx context.Context, req recommendation.AnalysisRequest) (string, error) {
	reply, err := a.llm.Complete(ctx, systemPrompt, analysisPrompt(req))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(reply), nil
}

func pickPlayers(ids []int64, byID map[int64]player.Player) ([]player.Player, int) {
	out := make([]player.Player, 0, len(ids))
	missing := 0
	for _, id := range ids {
		p, ok := byID[id]
		if !ok {
			missing++
			continue
		}
		out = append(out, p)
	}
	return out, missing
}

// extractJSON returns the first JSON object in a model reply, preferring a
// fenced ```json block when present.
func extractJSON(reply string) (string, error) {
	text := reply
	if start := strings.Index(text, "```"); start >= 0 {
		rest := text[start+3:]
		if nl := strings.IndexByte(rest, '\n'); nl >= 0 && !strings.Contains(rest[:nl], "{") {
			rest = rest[nl+1:]
		}
		if end := strings.Index(rest, "```"); end >= 0 {
			text = rest[:end]
		}
	}

	open := strings.IndexByte(text, '{')
	if open < 0 {
		return "", errNoJSON
	}

	depth := 0
	inString, escaped := false, false
	for i := open; i < len(text); i++ {
		ch := text[i]
		switch {
		case escaped:
			escaped = false
		case inString && ch == '\\':
			escaped = true
		case ch == '"':
			inString = !inString
		case inString:
		case ch == '{':
			depth++
		case ch == '}':
			depth--
			if depth == 0 {
				return text[open : i+1], nil
			}
		}
	}
	return "", errNoJSON
}

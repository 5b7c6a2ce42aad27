package llm

import (
	"strconv"
	"strings"

	"github.com/riskibarqy/fpl-team-builder/internal/domain/recommendation"
	"github.com/valyala/bytebufferpool"
)

const systemPrompt = "You are an expert Fantasy Premier League analyst. " +
	"Base advice on player form, fixtures, price value, squad balance and captaincy."

const recommendationTask = `Pick a complete 15 player squad: 2 GK, 5 DEF, 5 MID, 3 FWD, at most 3 players per club, within the budget.
Reply with JSON only, using FPL element ids:
{"player_ids":[...15 ids],"formation":"4-4-2","captain_id":0,"vice_captain_id":0,"bench_ids":[...4 ids],"reasoning":"","expected_points":0,"risk_level":"low|medium|high","strategy":""}`

var analysisTasks = map[recommendation.AnalysisKind]string{
	recommendation.AnalysisTeam:      "Assess this team: strengths, formation, captaincy, budget use, fixtures, transfers and risks.",
	recommendation.AnalysisPlayer:    "Assess this player: form, value, fixtures, risk, captaincy potential and a final verdict.",
	recommendation.AnalysisFormation: "Suggest the best formation for these players with alternatives and captaincy per option.",
	recommendation.AnalysisOptimize:  "Suggest transfers in and out, formation changes and captaincy changes with expected impact.",
}

func recommendationPrompt(req recommendation.Request) string {
	prefs := req.Preferences
	return renderPrompt([]recommendation.Fact{
		{Label: "Budget", Value: "£" + strconv.FormatFloat(req.Budget, 'f', -1, 64) + "m"},
		{Label: "Risk Tolerance", Value: string(prefs.RiskTolerance)},
		{Label: "Preferred Formation", Value: orAny(prefs.PreferredFormation, "Any")},
		{Label: "Preferred Teams", Value: orAny(strings.Join(prefs.PreferredClubs, ", "), "None specified")},
		{Label: "Teams to Avoid", Value: orAny(strings.Join(prefs.AvoidClubs, ", "), "None specified")},
		{Label: "Captain Strategy", Value: prefs.CaptainStrategy},
		{Label: "Chip Strategy", Value: prefs.ChipStrategy},
		{Label: "Strategy", Value: orAny(req.Strategy, "Balanced")},
	}, recommendationTask)
}

func analysisPrompt(req recommendation.AnalysisRequest) string {
	task := analysisTasks[req.Kind]
	if task == "" {
		task = "Provide a detailed analysis with actionable recommendations."
	}
	if focus := strings.TrimSpace(req.Focus); focus != "" {
		task = task + "\nFocus: " + focus
	}
	return renderPrompt(req.Facts, task)
}

// renderPrompt writes facts as "Label: Value" lines, skipping empty values,
// followed by the task.
func renderPrompt(facts []recommendation.Fact, task string) string {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	for _, f := range facts {
		value := strings.TrimSpace(f.Value)
		if value == "" {
			continue
		}
		_, _ = buf.WriteString(f.Label)
		_, _ = buf.WriteString(": ")
		_, _ = buf.WriteString(value)
		_ = buf.WriteByte('\n')
	}
	if buf.Len() > 0 {
		_ = buf.WriteByte('\n')
	}
	_, _ = buf.WriteString(task)

	return buf.String()
}

func orAny(v, fallback string) string {
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	return v
}

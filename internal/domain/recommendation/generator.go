package recommendation

import "context"

// Generator proposes a full squad for a budget and set of preferences.
type Generator interface {
	Recommend(ctx context.Context, req Request) (Recommendation, error)
}

// Analyst returns free-text analysis for a team, player or formation question.
type Analyst interface {
	Analyze(ctx context.Context, req AnalysisRequest) (string, error)
}

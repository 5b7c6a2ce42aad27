package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler, opts RouterOptions) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
	if opts.Metrics != nil {
		mux.Handle("GET /metrics", opts.Metrics.Handler())
	}
	if !opts.SwaggerEnabled {
		return
	}

	mux.HandleFunc("GET /openapi.yaml", handler.OpenAPI)
	mux.HandleFunc("GET /docs", handler.SwaggerUI)
	mux.HandleFunc("GET /docs/", handler.SwaggerUI)
}

func registerPlayerRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/players", handler.ListPlayers)
	mux.HandleFunc("GET /v1/players/{playerID}", handler.GetPlayer)
	mux.HandleFunc("GET /v1/players/{playerID}/stats", handler.GetPlayerStats)
	mux.HandleFunc("GET /v1/clubs", handler.ListClubs)
	mux.HandleFunc("GET /v1/gameweeks/current", handler.GetCurrentGameweek)
	mux.HandleFunc("GET /v1/gameweeks/{gameweek}/live", handler.GetLiveGameweek)
	mux.HandleFunc("GET /v1/fixtures", handler.ListFixtures)
}

func registerTeamRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("POST /v1/teams", handler.CreateTeam)
	mux.HandleFunc("GET /v1/teams", handler.ListTeams)
	mux.HandleFunc("POST /v1/teams/validate", handler.ValidateDraft)
	mux.HandleFunc("POST /v1/teams/validate/batch", handler.ValidateDraftBatch)
	mux.HandleFunc("GET /v1/teams/{teamID}", handler.GetTeam)
	mux.HandleFunc("PUT /v1/teams/{teamID}", handler.UpdateTeam)
	mux.HandleFunc("DELETE /v1/teams/{teamID}", handler.DeleteTeam)
	mux.HandleFunc("GET /v1/teams/{teamID}/validation", handler.ValidateTeam)
	mux.HandleFunc("GET /v1/teams/{teamID}/stats", handler.GetTeamStats)
	mux.HandleFunc("POST /v1/teams/{teamID}/optimize", handler.OptimizeTeam)
}

func registerAIRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("POST /v1/ai/recommendations", handler.Recommend)
	mux.HandleFunc("POST /v1/ai/analyze-team", handler.AnalyzeTeam)
	mux.HandleFunc("GET /v1/ai/players/{playerID}/analysis", handler.AnalyzePlayer)
	mux.HandleFunc("POST /v1/ai/formations", handler.SuggestFormations)
}

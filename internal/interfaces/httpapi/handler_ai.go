package httpapi

import (
	"net/http"

	"github.com/riskibarqy/fpl-team-builder/internal/domain/recommendation"
	"github.com/riskibarqy/fpl-team-builder/internal/usecase"
)

func (h *Handler) Recommend(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r.Context(), "Recommend")
	defer span.End()

	var req recommendRequest
	if err := h.decodeJSON(ctx, r, &req, false); err != nil {
		writeError(ctx, w, err)
		return
	}

	rec, err := h.advisorService.Recommend(ctx, recommendation.Request{
		Budget:      req.Budget,
		Preferences: preferencesFromDTO(req.Preferences),
		Strategy:    req.Strategy,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "recommend failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, recommendationToDTO(rec))
}

func (h *Handler) AnalyzeTeam(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r.Context(), "AnalyzeTeam")
	defer span.End()

	var req analyzeTeamRequest
	if err := h.decodeJSON(ctx, r, &req, false); err != nil {
		writeError(ctx, w, err)
		return
	}

	input := usecase.AnalyzeTeamInput{RosterID: req.TeamID, AnalysisType: req.AnalysisType}
	if req.Team != nil {
		draft := teamFromDTO(*req.Team)
		input.Draft = &draft
	}

	result, err := h.advisorService.AnalyzeTeam(ctx, input)
	if err != nil {
		h.logger.WarnContext(ctx, "analyze team failed", "team_id", req.TeamID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, teamAnalysisDTO{
		Analysis:   result.Analysis,
		Validation: validationToDTO(result.Validation),
		Stats:      statsToDTO(result.Stats),
	})
}

func (h *Handler) AnalyzePlayer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r.Context(), "AnalyzePlayer")
	defer span.End()

	playerID, err := parsePathInt64(r, "playerID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.advisorService.AnalyzePlayer(ctx, playerID)
	if err != nil {
		h.logger.WarnContext(ctx, "analyze player failed", "player_id", playerID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, playerAnalysisDTO{
		Player:   playerToDTO(result.Player),
		Analysis: result.Analysis,
	})
}

func (h *Handler) SuggestFormations(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r.Context(), "SuggestFormations")
	defer span.End()

	var req formationRequest
	if err := h.decodeJSON(ctx, r, &req, false); err != nil {
		writeError(ctx, w, err)
		return
	}

	text, err := h.advisorService.SuggestFormations(ctx, usecase.FormationInput{
		PlayerIDs: req.PlayerIDs,
		Budget:    req.Budget,
		Strategy:  req.Strategy,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "suggest formations failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, analysisTextDTO{Analysis: text})
}

func riskFromDTO(v string) recommendation.RiskLevel {
	if v == "" {
		return ""
	}
	risk, err := recommendation.ParseRiskLevel(v)
	if err != nil {
		return recommendation.RiskMedium
	}
	return risk
}

package httpapi

import (
	"net/http"
	"strings"

	"github.com/riskibarqy/fpl-team-builder/internal/domain/roster"
	"github.com/riskibarqy/fpl-team-builder/internal/usecase"
	"go.opentelemetry.io/otel/attribute"
)

func (h *Handler) CreateTeam(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r.Context(), "CreateTeam")
	defer span.End()

	var req createTeamRequest
	if err := h.decodeJSON(ctx, r, &req, false); err != nil {
		writeError(ctx, w, err)
		return
	}

	item, err := h.rosterService.CreateRoster(ctx, usecase.CreateRosterInput{
		Name:        req.Name,
		Budget:      req.Budget,
		Preferences: preferencesFromDTO(req.Preferences),
		Strategy:    req.Strategy,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "create team failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	report := h.rosterService.ValidateDraft(item)
	writeSuccess(ctx, w, http.StatusCreated, teamReportDTO{
		Team:       teamToDTO(item),
		Validation: validationToDTO(report.Validation),
		Stats:      statsToDTO(report.Stats),
	})
}

func (h *Handler) ListTeams(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r.Context(), "ListTeams")
	defer span.End()

	items, err := h.rosterService.ListRosters(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "list teams failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	out := make([]teamDTO, 0, len(items))
	for _, item := range items {
		out = append(out, teamToDTO(item))
	}
	writeSuccess(ctx, w, http.StatusOK, out)
}

func (h *Handler) GetTeam(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r.Context(), "GetTeam")
	defer span.End()

	teamID := strings.TrimSpace(r.PathValue("teamID"))
	span.SetAttributes(attribute.String("team.id", teamID))
	item, err := h.rosterService.GetRoster(ctx, teamID)
	if err != nil {
		h.logger.WarnContext(ctx, "get team failed", "team_id", teamID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, teamToDTO(item))
}

func (h *Handler) UpdateTeam(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r.Context(), "UpdateTeam")
	defer span.End()

	teamID := strings.TrimSpace(r.PathValue("teamID"))
	span.SetAttributes(attribute.String("team.id", teamID))
	var req updateTeamRequest
	if err := h.decodeJSON(ctx, r, &req, false); err != nil {
		writeError(ctx, w, err)
		return
	}

	item, err := h.rosterService.UpdateRoster(ctx, teamID, usecase.UpdateRosterInput{
		Name:          req.Name,
		Budget:        req.Budget,
		PlayerIDs:     req.PlayerIDs,
		BenchIDs:      req.BenchIDs,
		CaptainID:     req.CaptainID,
		ViceCaptainID: req.ViceCaptainID,
		Formation:     req.Formation,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "update team failed", "team_id", teamID, "error", err)
		writeError(ctx, w, err)
		return
	}

	report := h.rosterService.ValidateDraft(item)
	writeSuccess(ctx, w, http.StatusOK, teamReportDTO{
		Team:       teamToDTO(item),
		Validation: validationToDTO(report.Validation),
		Stats:      statsToDTO(report.Stats),
	})
}

func (h *Handler) DeleteTeam(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r.Context(), "DeleteTeam")
	defer span.End()

	teamID := strings.TrimSpace(r.PathValue("teamID"))
	span.SetAttributes(attribute.String("team.id", teamID))
	if err := h.rosterService.DeleteRoster(ctx, teamID); err != nil {
		h.logger.WarnContext(ctx, "delete team failed", "team_id", teamID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"id": teamID, "status": "deleted"})
}

// ValidateTeam reports rule violations as data: a failing team is still a 200.
func (h *Handler) ValidateTeam(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r.Context(), "ValidateTeam")
	defer span.End()

	teamID := strings.TrimSpace(r.PathValue("teamID"))
	span.SetAttributes(attribute.String("team.id", teamID))
	result, err := h.rosterService.ValidateRoster(ctx, teamID)
	if err != nil {
		h.logger.WarnContext(ctx, "validate team failed", "team_id", teamID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, validationToDTO(result))
}

func (h *Handler) GetTeamStats(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r.Context(), "GetTeamStats")
	defer span.End()

	teamID := strings.TrimSpace(r.PathValue("teamID"))
	span.SetAttributes(attribute.String("team.id", teamID))
	stats, err := h.rosterService.RosterStats(ctx, teamID)
	if err != nil {
		h.logger.WarnContext(ctx, "get team stats failed", "team_id", teamID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, statsToDTO(stats))
}

func (h *Handler) ValidateDraft(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r.Context(), "ValidateDraft")
	defer span.End()

	var req teamDTO
	if err := h.decodeJSON(ctx, r, &req, false); err != nil {
		writeError(ctx, w, err)
		return
	}

	report := h.rosterService.ValidateDraft(teamFromDTO(req))
	writeSuccess(ctx, w, http.StatusOK, draftReportToDTO(report))
}

func (h *Handler) ValidateDraftBatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r.Context(), "ValidateDraftBatch")
	defer span.End()

	var req validateBatchRequest
	if err := h.decodeJSON(ctx, r, &req, false); err != nil {
		writeError(ctx, w, err)
		return
	}

	drafts := make([]roster.Roster, 0, len(req.Teams))
	for _, t := range req.Teams {
		drafts = append(drafts, teamFromDTO(t))
	}

	reports, err := h.rosterService.ValidateBatch(ctx, drafts)
	if err != nil {
		h.logger.WarnContext(ctx, "validate batch failed", "size", len(drafts), "error", err)
		writeError(ctx, w, err)
		return
	}

	out := make([]draftReportDTO, 0, len(reports))
	for _, report := range reports {
		out = append(out, draftReportToDTO(report))
	}
	writeSuccess(ctx, w, http.StatusOK, out)
}

func (h *Handler) OptimizeTeam(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r.Context(), "OptimizeTeam")
	defer span.End()

	teamID := strings.TrimSpace(r.PathValue("teamID"))
	span.SetAttributes(attribute.String("team.id", teamID))
	var req optimizeRequest
	if err := h.decodeJSON(ctx, r, &req, true); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.advisorService.OptimizeRoster(ctx, teamID, usecase.OptimizeInput{
		Strategy:  req.Strategy,
		RiskLevel: riskFromDTO(req.RiskLevel),
	})
	if err != nil {
		h.logger.WarnContext(ctx, "optimize team failed", "team_id", teamID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, optimizeResultDTO{
		Team:     teamToDTO(result.Roster),
		Analysis: result.Analysis,
	})
}

package httpapi

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/riskibarqy/fpl-team-builder/internal/domain/player"
	"github.com/riskibarqy/fpl-team-builder/internal/usecase"
)

func (h *Handler) ListPlayers(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r.Context(), "ListPlayers")
	defer span.End()

	filter, err := playerFilterFromQuery(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	players, err := h.playerService.ListPlayers(ctx, filter)
	if err != nil {
		h.logger.WarnContext(ctx, "list players failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, playersToDTO(players))
}

func (h *Handler) GetPlayer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r.Context(), "GetPlayer")
	defer span.End()

	playerID, err := parsePathInt64(r, "playerID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	item, err := h.playerService.GetPlayer(ctx, playerID)
	if err != nil {
		h.logger.WarnContext(ctx, "get player failed", "player_id", playerID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, playerToDTO(item))
}

func (h *Handler) GetPlayerStats(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r.Context(), "GetPlayerStats")
	defer span.End()

	playerID, err := parsePathInt64(r, "playerID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	detail, err := h.playerService.GetPlayerDetail(ctx, playerID)
	if err != nil {
		h.logger.WarnContext(ctx, "get player stats failed", "player_id", playerID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, playerDetailToDTO(detail))
}

func (h *Handler) ListClubs(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r.Context(), "ListClubs")
	defer span.End()

	clubs, err := h.playerService.ListClubs(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "list clubs failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]clubDTO, 0, len(clubs))
	for _, c := range clubs {
		items = append(items, clubToDTO(c))
	}
	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetCurrentGameweek(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r.Context(), "GetCurrentGameweek")
	defer span.End()

	gw, err := h.playerService.CurrentGameweek(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "get current gameweek failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, gameweekDTO{Gameweek: gw})
}

func (h *Handler) GetLiveGameweek(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r.Context(), "GetLiveGameweek")
	defer span.End()

	gw, err := strconv.Atoi(strings.TrimSpace(r.PathValue("gameweek")))
	if err != nil {
		writeError(ctx, w, fmt.Errorf("%w: gameweek must be an integer", usecase.ErrInvalidInput))
		return
	}

	stats, err := h.playerService.LiveGameweek(ctx, gw)
	if err != nil {
		h.logger.WarnContext(ctx, "get live gameweek failed", "gameweek", gw, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, liveStatsToDTO(stats))
}

func (h *Handler) ListFixtures(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r.Context(), "ListFixtures")
	defer span.End()

	gw, err := parseQueryInt(r, "gameweek")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	fixtures, err := h.playerService.ListFixtures(ctx, gw)
	if err != nil {
		h.logger.WarnContext(ctx, "list fixtures failed", "gameweek", gw, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, fixturesToDTO(fixtures))
}

// playerFilterFromQuery reads position, team, minPrice, maxPrice and sortBy.
func playerFilterFromQuery(r *http.Request) (player.Filter, error) {
	q := r.URL.Query()
	filter := player.Filter{Club: strings.TrimSpace(q.Get("team"))}

	if raw := strings.TrimSpace(q.Get("position")); raw != "" {
		pos, err := player.ParsePosition(raw)
		if err != nil {
			return player.Filter{}, fmt.Errorf("%w: %v", usecase.ErrInvalidInput, err)
		}
		filter.Position = pos
	}

	sortKey, err := player.ParseSortKey(q.Get("sortBy"))
	if err != nil {
		return player.Filter{}, fmt.Errorf("%w: %v", usecase.ErrInvalidInput, err)
	}
	filter.SortBy = sortKey

	if filter.MinPrice, err = parseQueryFloat(r, "minPrice"); err != nil {
		return player.Filter{}, err
	}
	if filter.MaxPrice, err = parseQueryFloat(r, "maxPrice"); err != nil {
		return player.Filter{}, err
	}
	return filter, nil
}

package httpapi

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/riskibarqy/auction-draft/internal/domain/player"
	"github.com/riskibarqy/auction-draft/internal/usecase"
)

const (
	playerStatusAll       = "all"
	playerStatusAvailable = string(player.StatusAvailable)
	playerStatusDrafted   = string(player.StatusDrafted)
)

// ListPlayers serves the board. A search query only matches available players.
func (h *Handler) ListPlayers(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListPlayers")
	defer span.End()

	limit, err := queryInt(r, "limit", 0)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	if limit < 0 {
		writeError(ctx, w, fmt.Errorf("%w: limit must not be negative", usecase.ErrInvalidInput))
		return
	}

	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query != "" {
		writeSuccess(ctx, w, http.StatusOK, playersToDTO(h.draft.SearchPlayers(ctx, query, limit)))
		return
	}

	status := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("status")))
	var players []player.Player
	switch status {
	case "", playerStatusAvailable:
		players = h.draft.AvailablePlayers(ctx)
	case playerStatusDrafted:
		players = h.draft.DraftedPlayers(ctx)
	case playerStatusAll:
		players = h.draft.AllPlayers(ctx)
	default:
		writeError(ctx, w, fmt.Errorf("%w: unknown status %q", usecase.ErrInvalidInput, status))
		return
	}
	if limit > 0 && len(players) > limit {
		players = players[:limit]
	}

	writeSuccess(ctx, w, http.StatusOK, playersToDTO(players))
}

func (h *Handler) GetPlayer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetPlayer")
	defer span.End()

	name := r.PathValue("name")
	p, err := h.draft.PlayerInfo(ctx, name)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, playerToDTO(p))
}

func (h *Handler) ListTeams(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListTeams")
	defer span.End()

	summaries := h.draft.TeamSummary(ctx)
	items := make([]teamSummaryDTO, 0, len(summaries))
	for _, s := range summaries {
		items = append(items, summaryToDTO(s))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) ListAffordableTeams(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListAffordableTeams")
	defer span.End()

	amount, err := requiredQueryInt(r, "amount")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	teams := h.draft.AffordableTeams(ctx, amount)
	if teams == nil {
		teams = []string{}
	}
	writeSuccess(ctx, w, http.StatusOK, affordableDTO{Amount: amount, Teams: teams})
}

func (h *Handler) GetLeague(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetLeague")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, leagueToDTO(h.draft.Settings(ctx)))
}

package httpapi

import (
	"fmt"
	"net/http"

	"github.com/riskibarqy/auction-draft/internal/usecase"
)

func (h *Handler) RenameTeam(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RenameTeam")
	defer span.End()

	var req renameTeamRequest
	if err := h.decodeAndValidate(r.WithContext(ctx), &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	oldName := r.PathValue("name")
	renamed, err := h.draft.RenameTeam(ctx, oldName, req.NewName)
	if err != nil && !usecase.IsWarning(err) {
		h.logger.WarnContext(ctx, "rename team rejected", "team", oldName, "new_name", req.NewName, "error", err)
	}
	writeCommandResult(ctx, w, http.StatusOK, commandDTO{Accepted: renamed}, err)
}

func (h *Handler) UpdateLeague(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpdateLeague")
	defer span.End()

	var req updateLeagueRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	_, err := h.draft.UpdateLeagueSettings(ctx, req.patch())
	if err != nil && !usecase.IsWarning(err) {
		writeError(ctx, w, err)
		return
	}
	writeCommandResult(ctx, w, http.StatusOK, leagueToDTO(h.draft.Settings(ctx)), err)
}

func (h *Handler) ResetDraft(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ResetDraft")
	defer span.End()

	reset, err := h.draft.ResetDraft(ctx)
	writeCommandResult(ctx, w, http.StatusOK, commandDTO{Accepted: reset, Message: "draft reset"}, err)
}

func (h *Handler) ExportDraft(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ExportDraft")
	defer span.End()

	path, err := h.draft.ExportDraftResults(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "export draft results failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, exportDTO{Path: path})
}

func (h *Handler) StartPoolRefresh(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.StartPoolRefresh")
	defer span.End()

	if h.refresher == nil {
		writeError(ctx, w, fmt.Errorf("%w: stats collection is disabled", usecase.ErrDependencyUnavailable))
		return
	}

	job, err := h.refresher.Start(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	progress := usecase.Progress{JobID: job.ID, Stage: usecase.StageQueued}
	if latest, _ := h.refresher.Latest(); latest.JobID == job.ID {
		progress = latest
	}
	writeSuccess(ctx, w, http.StatusAccepted, refreshDTO{Running: true, Progress: &progress})
}

func (h *Handler) GetPoolRefresh(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetPoolRefresh")
	defer span.End()

	if h.refresher == nil {
		writeError(ctx, w, fmt.Errorf("%w: stats collection is disabled", usecase.ErrDependencyUnavailable))
		return
	}

	latest, running := h.refresher.Latest()
	out := refreshDTO{Running: running}
	if latest.JobID != "" {
		out.Progress = &latest
	}
	writeSuccess(ctx, w, http.StatusOK, out)
}

func (h *Handler) CancelPoolRefresh(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CancelPoolRefresh")
	defer span.End()

	if h.refresher == nil {
		writeError(ctx, w, fmt.Errorf("%w: stats collection is disabled", usecase.ErrDependencyUnavailable))
		return
	}

	cancelled := h.refresher.Cancel()
	out := commandDTO{Accepted: cancelled, Message: "refresh cancelled"}
	if !cancelled {
		out.Message = "no refresh in progress"
	}
	writeSuccess(ctx, w, http.StatusOK, out)
}

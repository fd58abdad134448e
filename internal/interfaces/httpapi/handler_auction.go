package httpapi

import (
	"net/http"
	"strings"

	"github.com/riskibarqy/auction-draft/internal/usecase"
)

func (h *Handler) GetAuction(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetAuction")
	defer span.End()

	info := h.draft.CurrentAuctionInfo(ctx)
	writeSuccess(ctx, w, http.StatusOK, auctionToDTO(info, h.draft.SuggestedBids(ctx), h.draft.BidHistory(ctx)))
}

func (h *Handler) StartAuction(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.StartAuction")
	defer span.End()

	var req startAuctionRequest
	if err := h.decodeAndValidate(r.WithContext(ctx), &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	playerName := strings.TrimSpace(req.Player)
	_, err := h.draft.StartAuction(ctx, playerName)
	if err != nil && !usecase.IsWarning(err) {
		h.logger.WarnContext(ctx, "start auction rejected", "player", playerName, "error", err)
		writeError(ctx, w, err)
		return
	}

	info := h.draft.CurrentAuctionInfo(ctx)
	writeCommandResult(ctx, w, http.StatusCreated, auctionToDTO(info, h.draft.SuggestedBids(ctx), h.draft.BidHistory(ctx)), err)
}

func (h *Handler) PlaceBid(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.PlaceBid")
	defer span.End()

	var req placeBidRequest
	if err := h.decodeAndValidate(r.WithContext(ctx), &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	outcome, err := h.draft.PlaceBid(ctx, strings.TrimSpace(req.Team), req.Amount)
	if err != nil && !usecase.IsWarning(err) {
		h.logger.InfoContext(ctx, "bid rejected", "team", req.Team, "amount", req.Amount, "reason", outcome.Message)
	}
	writeCommandResult(ctx, w, http.StatusOK, commandDTO{Accepted: outcome.Accepted, Message: outcome.Message}, err)
}

func (h *Handler) FinalizeAuction(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.FinalizeAuction")
	defer span.End()

	outcome, err := h.draft.FinalizeAuction(ctx)
	writeCommandResult(ctx, w, http.StatusOK, saleDTO{
		Accepted: outcome.Accepted,
		Message:  outcome.Message,
		Player:   outcome.Result.Player,
		Team:     outcome.Result.Team,
		Price:    outcome.Result.Price,
	}, err)
}

func (h *Handler) CancelAuction(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CancelAuction")
	defer span.End()

	cancelled, err := h.draft.CancelAuction(ctx)
	out := commandDTO{Accepted: cancelled, Message: "auction cancelled"}
	if !cancelled {
		out.Message = "no auction in progress"
	}
	writeCommandResult(ctx, w, http.StatusOK, out, err)
}

func (h *Handler) ValidateBid(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ValidateBid")
	defer span.End()

	amount, err := requiredQueryInt(r, "amount")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	valid, message := h.draft.ValidateBidAmount(ctx, amount)
	writeSuccess(ctx, w, http.StatusOK, validationDTO{Amount: amount, Valid: valid, Message: message})
}

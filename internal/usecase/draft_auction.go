package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/riskibarqy/auction-draft/internal/domain/auction"
	"github.com/riskibarqy/auction-draft/internal/domain/draft"
	"github.com/riskibarqy/auction-draft/internal/domain/player"
	"github.com/riskibarqy/auction-draft/internal/domain/team"
)

// SuggestionLadder is added to the current highest bid to produce quick-bid amounts.
var SuggestionLadder = []int{5, 10, 15, 20}

type BidOutcome struct {
	Accepted bool
	Message  string
}

type FinalizeOutcome struct {
	Accepted bool
	Message  string
	Result   auction.Result
}

type AuctionInfo struct {
	Active         bool
	AuctionID      string
	Player         *player.Player
	HighestBid     int
	HighestBidder  string
	NextMinimumBid int
}

// StartAuction puts an available player on the block.
func (s *DraftService) StartAuction(ctx context.Context, playerName string) (bool, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.DraftService.StartAuction")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.Active {
		return false, reject(ErrConflict, auction.ErrAlreadyActive, "auction for %s is already in progress", s.state.CurrentPlayer)
	}
	if _, err := s.pool.FindAvailable(playerName); err != nil {
		kind := ErrNotFound
		if errors.Is(err, player.ErrNotAvailable) {
			kind = ErrConflict
		}
		return false, reject(kind, auction.ErrUnknownOrUnavailablePlayer, "player %q is unknown or not available", playerName)
	}

	auctionID, err := s.ids.NewID()
	if err != nil {
		return false, fmt.Errorf("generate auction id: %w", err)
	}
	if err := s.state.Start(playerName); err != nil {
		return false, reject(ErrConflict, err, "%v", err)
	}
	s.auctionID = auctionID
	s.bids = nil

	s.logger.InfoContext(ctx, "auction started", "auction_id", auctionID, "player", playerName)
	s.publish(ctx, draft.Event{Type: draft.EventAuctionStarted, AuctionID: auctionID, Player: playerName, Amount: s.state.HighestBid})
	return true, s.saveState(ctx, "start auction")
}

// PlaceBid validates a bid against the ledger and league rules before handing it
// to the state machine, which checks it again.
func (s *DraftService) PlaceBid(ctx context.Context, teamName string, amount int) (BidOutcome, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.DraftService.PlaceBid")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.state.Active {
		return rejectBid(reject(ErrConflict, auction.ErrNoActiveAuction, "no auction in progress"))
	}
	t, ok := s.ledger.Get(teamName)
	if !ok {
		return rejectBid(reject(ErrNotFound, auction.ErrUnknownTeam, "team %q does not exist", teamName))
	}
	if amount > t.BudgetLeft {
		return rejectBid(reject(ErrInvalidInput, auction.ErrInsufficientBudget, "insufficient budget: %s has $%d left", teamName, t.BudgetLeft))
	}
	if floor := s.state.NextMinimumBid(s.settings.MinBidIncrement); amount < floor {
		return rejectBid(reject(ErrInvalidInput, auction.ErrBidTooLow, "minimum bid is $%d", floor))
	}
	if len(t.Players) >= s.settings.MaxPlayersPerTeam {
		return rejectBid(reject(ErrConflict, auction.ErrRosterFull, "%s already has %d players", teamName, len(t.Players)))
	}

	if err := s.state.Bid(teamName, amount, t.BudgetLeft, s.settings.MinBidIncrement); err != nil {
		return rejectBid(reject(ErrConflict, err, "bid rejected: %v", err))
	}
	s.bids = append(s.bids, auction.Bid{Team: teamName, Amount: amount, PlacedAt: s.clock.Now()})

	s.logger.InfoContext(ctx, "bid accepted", "auction_id", s.auctionID, "player", s.state.CurrentPlayer, "team", teamName, "amount", amount)
	s.publish(ctx, draft.Event{Type: draft.EventBidPlaced, AuctionID: s.auctionID, Player: s.state.CurrentPlayer, Team: teamName, Amount: amount})
	return BidOutcome{Accepted: true, Message: fmt.Sprintf("%s bid $%d", teamName, amount)}, s.saveState(ctx, "place bid")
}

func rejectBid(err *CommandError) (BidOutcome, error) {
	return BidOutcome{Message: err.Message}, err
}

// FinalizeAuction sells the player to the highest bidder. The pool, the ledger and
// the auction state change together or not at all; persistence runs last.
func (s *DraftService) FinalizeAuction(ctx context.Context) (FinalizeOutcome, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.DraftService.FinalizeAuction")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.state.Active {
		err := reject(ErrConflict, auction.ErrNoActiveAuction, "no auction in progress")
		return FinalizeOutcome{Message: err.Message}, err
	}
	if s.state.HighestBidder == "" {
		err := reject(ErrConflict, auction.ErrNoBidder, "no bids have been placed for %s", s.state.CurrentPlayer)
		return FinalizeOutcome{Message: err.Message}, err
	}

	pool := s.pool.Clone()
	ledger := s.ledger.Clone()
	state := s.state

	result, err := state.Close()
	if err != nil {
		return FinalizeOutcome{Message: err.Error()}, reject(ErrConflict, err, "%v", err)
	}
	sold, err := pool.MarkDrafted(result.Player, result.Price, result.Team)
	if err != nil {
		return FinalizeOutcome{Message: err.Error()}, reject(ErrConflict, err, "cannot draft %s: %v", result.Player, err)
	}
	if _, err := ledger.AddPlayer(result.Team, sold, result.Price); err != nil {
		kind := ErrConflict
		if errors.Is(err, team.ErrNotFound) {
			kind = ErrNotFound
		}
		return FinalizeOutcome{Message: err.Error()}, reject(kind, err, "cannot charge %s: %v", result.Team, err)
	}

	auctionID := s.auctionID
	s.pool = pool
	s.ledger = ledger
	s.state = state
	s.bids = nil
	s.auctionID = ""

	s.logger.InfoContext(ctx, "auction finalized", "auction_id", auctionID, "player", result.Player, "team", result.Team, "price", result.Price)
	s.publish(ctx, draft.Event{Type: draft.EventAuctionFinalized, AuctionID: auctionID, Player: result.Player, Team: result.Team, Amount: result.Price})
	return FinalizeOutcome{
		Accepted: true,
		Message:  fmt.Sprintf("%s sold to %s for $%d", result.Player, result.Team, result.Price),
		Result:   result,
	}, s.commit(ctx, "finalize auction")
}

// CancelAuction abandons the current auction. It reports false when idle.
func (s *DraftService) CancelAuction(ctx context.Context) (bool, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.DraftService.CancelAuction")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.state.Active {
		return false, nil
	}

	playerName, auctionID := s.state.CurrentPlayer, s.auctionID
	s.resetAuction()

	s.logger.InfoContext(ctx, "auction cancelled", "auction_id", auctionID, "player", playerName)
	s.publish(ctx, draft.Event{Type: draft.EventAuctionCancelled, AuctionID: auctionID, Player: playerName})
	return true, s.saveState(ctx, "cancel auction")
}

func (s *DraftService) CurrentAuctionInfo(ctx context.Context) AuctionInfo {
	_, span := startUsecaseSpan(ctx, "usecase.DraftService.CurrentAuctionInfo")
	defer span.End()

	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.state.Active {
		return AuctionInfo{NextMinimumBid: auction.OpeningBid}
	}

	info := AuctionInfo{
		Active:         true,
		AuctionID:      s.auctionID,
		HighestBid:     s.state.HighestBid,
		HighestBidder:  s.state.HighestBidder,
		NextMinimumBid: s.state.NextMinimumBid(s.settings.MinBidIncrement),
	}
	if p, ok := s.pool.Find(s.state.CurrentPlayer); ok {
		info.Player = &p
	}
	return info
}

// SuggestedBids lists quick-bid amounts: the next minimum, then the current bid plus
// each ladder step, deduplicated in that order. Amounts above the richest budget are dropped.
func (s *DraftService) SuggestedBids(ctx context.Context) []int {
	_, span := startUsecaseSpan(ctx, "usecase.DraftService.SuggestedBids")
	defer span.End()

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []int{}
	if !s.state.Active {
		return out
	}

	floor := s.state.NextMinimumBid(s.settings.MinBidIncrement)
	ceiling := s.ledger.MaxBudget()
	candidates := []int{floor}
	for _, step := range SuggestionLadder {
		candidates = append(candidates, s.state.HighestBid+step)
	}

	seen := make(map[int]struct{}, len(candidates))
	for _, amount := range candidates {
		if _, dup := seen[amount]; dup {
			continue
		}
		seen[amount] = struct{}{}
		if amount > ceiling {
			continue
		}
		out = append(out, amount)
	}
	return out
}

func (s *DraftService) BidHistory(ctx context.Context) []auction.Bid {
	_, span := startUsecaseSpan(ctx, "usecase.DraftService.BidHistory")
	defer span.End()

	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]auction.Bid{}, s.bids...)
}

// ValidateBidAmount checks an amount without placing it: an auction must be running,
// the amount must clear the minimum and some team must be able to pay it.
func (s *DraftService) ValidateBidAmount(ctx context.Context, amount int) (bool, string) {
	_, span := startUsecaseSpan(ctx, "usecase.DraftService.ValidateBidAmount")
	defer span.End()

	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.state.Active {
		return false, "no auction in progress"
	}
	if amount <= 0 {
		return false, "bid amount must be greater than zero"
	}
	if floor := s.state.NextMinimumBid(s.settings.MinBidIncrement); amount < floor {
		return false, fmt.Sprintf("minimum bid is $%d", floor)
	}
	if len(s.ledger.Affordable(amount)) == 0 {
		return false, fmt.Sprintf("no team can afford $%d", amount)
	}
	return true, "valid bid amount"
}

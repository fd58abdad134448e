package auction

import (
	"errors"
	"testing"
)

func TestStateLifecycle(t *testing.T) {
	var s State

	if err := s.Bid("Alpha", 5, 200, 1); !errors.Is(err, ErrNoActiveAuction) {
		t.Fatalf("expected ErrNoActiveAuction from idle, got %v", err)
	}
	if _, err := s.Close(); !errors.Is(err, ErrNoActiveAuction) {
		t.Fatalf("expected ErrNoActiveAuction on close from idle, got %v", err)
	}
	if s.Cancel() {
		t.Fatalf("expected cancel from idle to report false")
	}

	if err := s.Start("LeBron James"); err != nil {
		t.Fatalf("start: %v", err)
	}
	if !s.Active || s.HighestBid != OpeningBid || s.HighestBidder != "" {
		t.Fatalf("unexpected state after start: %+v", s)
	}
	if err := s.Start("Nikola Jokic"); !errors.Is(err, ErrAlreadyActive) {
		t.Fatalf("expected ErrAlreadyActive, got %v", err)
	}
	if s.CurrentPlayer != "LeBron James" {
		t.Fatalf("second start must not affect current auction, got %q", s.CurrentPlayer)
	}

	if _, err := s.Close(); !errors.Is(err, ErrNoBidder) {
		t.Fatalf("expected ErrNoBidder, got %v", err)
	}

	if err := s.Bid("Alpha", 1, 200, 1); !errors.Is(err, ErrBidTooLow) {
		t.Fatalf("opening bid floor must count, got %v", err)
	}
	if err := s.Bid("Alpha", 2, 200, 1); err != nil {
		t.Fatalf("bid: %v", err)
	}
	if err := s.Bid("Alpha", 2, 200, 1); !errors.Is(err, ErrBidTooLow) {
		t.Fatalf("expected ErrBidTooLow on repeat bid, got %v", err)
	}
	if err := s.Bid("Beta", 10, 5, 1); !errors.Is(err, ErrInsufficientBudget) {
		t.Fatalf("expected ErrInsufficientBudget, got %v", err)
	}
	if s.HighestBid != 2 || s.HighestBidder != "Alpha" {
		t.Fatalf("failed bids must not change state: %+v", s)
	}

	res, err := s.Close()
	if err != nil {
		t.Fatalf("close: %v", err)
	}
	if res != (Result{Player: "LeBron James", Price: 2, Team: "Alpha"}) {
		t.Fatalf("unexpected result: %+v", res)
	}
	if s != (State{}) {
		t.Fatalf("expected idle after close, got %+v", s)
	}
}

func TestStateMinIncrement(t *testing.T) {
	s := State{}
	if err := s.Start("Jalen Brunson"); err != nil {
		t.Fatalf("start: %v", err)
	}
	if got := s.NextMinimumBid(5); got != 6 {
		t.Fatalf("expected next minimum 6, got %d", got)
	}
	if err := s.Bid("Alpha", 5, 200, 5); !errors.Is(err, ErrBidTooLow) {
		t.Fatalf("expected ErrBidTooLow, got %v", err)
	}
	if err := s.Bid("Alpha", 6, 200, 5); err != nil {
		t.Fatalf("bid: %v", err)
	}
}

func TestStateCancelAndRename(t *testing.T) {
	s := State{}
	_ = s.Start("Jalen Brunson")
	_ = s.Bid("Alpha", 3, 200, 1)

	if !s.RenameBidder("Alpha", "Omega") || s.HighestBidder != "Omega" {
		t.Fatalf("expected bidder renamed, got %+v", s)
	}
	if s.RenameBidder("Alpha", "Zeta") {
		t.Fatalf("rename of non-bidder must report false")
	}

	if !s.Cancel() {
		t.Fatalf("expected cancel to succeed")
	}
	if err := s.Validate(); err != nil {
		t.Fatalf("idle invariant broken after cancel: %v", err)
	}
}

func TestStateValidate(t *testing.T) {
	if err := (State{HighestBid: 3}).Validate(); err == nil {
		t.Fatalf("expected idle state with bid to be invalid")
	}
	if err := (State{Active: true}).Validate(); err == nil {
		t.Fatalf("expected active state without player to be invalid")
	}
	if err := (State{Active: true, CurrentPlayer: "X", HighestBid: 1}).Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

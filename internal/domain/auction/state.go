package auction

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrAlreadyActive              = errors.New("an auction is already active")
	ErrNoActiveAuction            = errors.New("no active auction")
	ErrNoBidder                   = errors.New("auction has no bidder")
	ErrUnknownOrUnavailablePlayer = errors.New("unknown or unavailable player")
	ErrUnknownTeam                = errors.New("unknown team")
	ErrInsufficientBudget         = errors.New("insufficient budget")
	ErrBidTooLow                  = errors.New("bid too low")
	ErrRosterFull                 = errors.New("team roster is full")
)

// OpeningBid is the floor every auction starts from.
const OpeningBid = 1

// State is the single current auction. The zero value is Idle.
type State struct {
	Active        bool
	CurrentPlayer string
	HighestBid    int
	HighestBidder string
}

// Result is the outcome of closing an auction with a winner.
type Result struct {
	Player string
	Price  int
	Team   string
}

// Bid is one entry of the current auction's bid history.
type Bid struct {
	Team     string
	Amount   int
	PlacedAt time.Time
}

func (s State) IsIdle() bool {
	return !s.Active
}

func (s *State) Start(playerName string) error {
	if s.Active {
		return fmt.Errorf("%w: %s is on the block", ErrAlreadyActive, s.CurrentPlayer)
	}
	if strings.TrimSpace(playerName) == "" {
		return fmt.Errorf("%w: player name is required", ErrUnknownOrUnavailablePlayer)
	}

	*s = State{
		Active:        true,
		CurrentPlayer: playerName,
		HighestBid:    OpeningBid,
	}
	return nil
}

// Bid raises the auction. The team's budget is supplied by the caller's ledger.
func (s *State) Bid(teamName string, amount, budgetLeft, minIncrement int) error {
	if !s.Active {
		return ErrNoActiveAuction
	}
	if amount > budgetLeft {
		return fmt.Errorf("%w: %s has %d left", ErrInsufficientBudget, teamName, budgetLeft)
	}
	if floor := s.NextMinimumBid(minIncrement); amount < floor {
		return fmt.Errorf("%w: minimum bid is %d", ErrBidTooLow, floor)
	}

	s.HighestBid = amount
	s.HighestBidder = teamName
	return nil
}

// Close ends an auction that has a bidder and returns the sale.
func (s *State) Close() (Result, error) {
	if !s.Active {
		return Result{}, ErrNoActiveAuction
	}
	if s.HighestBidder == "" {
		return Result{}, ErrNoBidder
	}

	res := Result{Player: s.CurrentPlayer, Price: s.HighestBid, Team: s.HighestBidder}
	s.Reset()
	return res, nil
}

// Cancel resets an active auction; it reports false when already idle.
func (s *State) Cancel() bool {
	if !s.Active {
		return false
	}
	s.Reset()
	return true
}

func (s *State) Reset() {
	*s = State{}
}

func (s *State) RenameBidder(oldName, newName string) bool {
	if s.HighestBidder == "" || s.HighestBidder != oldName {
		return false
	}
	s.HighestBidder = newName
	return true
}

func (s State) NextMinimumBid(minIncrement int) int {
	return s.HighestBid + minIncrement
}

// Validate checks the idle invariant of a restored state.
func (s State) Validate() error {
	if s.Active {
		if strings.TrimSpace(s.CurrentPlayer) == "" {
			return fmt.Errorf("active auction without current player")
		}
		if s.HighestBid < 0 {
			return fmt.Errorf("negative highest bid %d", s.HighestBid)
		}
		return nil
	}
	if s.CurrentPlayer != "" || s.HighestBid != 0 || s.HighestBidder != "" {
		return fmt.Errorf("idle auction carries current player %q, bid %d, bidder %q", s.CurrentPlayer, s.HighestBid, s.HighestBidder)
	}
	return nil
}

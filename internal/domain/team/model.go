package team

import (
	"errors"
	"fmt"
	"strings"

	"github.com/riskibarqy/auction-draft/internal/domain/player"
)

var (
	ErrNotFound           = errors.New("team not found")
	ErrNameCollision      = errors.New("team name already exists")
	ErrInvalidName        = errors.New("invalid team name")
	ErrInsufficientBudget = errors.New("insufficient budget")
)

// Acquisition is the compact record a team keeps for each player it won.
type Acquisition struct {
	Name     string
	Position string
	Price    int
	Stats    player.Stats
}

// Team is one bidder of the league with its remaining budget.
type Team struct {
	Name       string
	BudgetLeft int
	Players    []Acquisition
}

func (t Team) HasDrafted() bool {
	return len(t.Players) > 0
}

func (t Team) TotalPaid() int {
	total := 0
	for _, p := range t.Players {
		total += p.Price
	}
	return total
}

func (t Team) clone() Team {
	t.Players = append([]Acquisition(nil), t.Players...)
	return t
}

func (t Team) Validate() error {
	if strings.TrimSpace(t.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidName)
	}
	if t.BudgetLeft < 0 {
		return fmt.Errorf("%w: team %s has negative budget %d", ErrInsufficientBudget, t.Name, t.BudgetLeft)
	}
	return nil
}

// Summary is the read view of a team used by the draft board.
type Summary struct {
	Name        string
	BudgetLeft  int
	TotalSpent  int
	PlayerCount int
	Players     []Acquisition
}

package team

import (
	"fmt"
	"strings"

	"github.com/riskibarqy/auction-draft/internal/domain/league"
	"github.com/riskibarqy/auction-draft/internal/domain/player"
)

// Ledger holds the league's teams in slot order, keyed by name.
type Ledger struct {
	order []string
	teams map[string]Team
}

func NewLedger(names []string, budget int) *Ledger {
	l := &Ledger{
		order: make([]string, 0, len(names)),
		teams: make(map[string]Team, len(names)),
	}
	for _, name := range names {
		if _, exists := l.teams[name]; exists {
			continue
		}
		l.order = append(l.order, name)
		l.teams[name] = Team{Name: name, BudgetLeft: budget, Players: []Acquisition{}}
	}
	return l
}

// Restore rebuilds a ledger from persisted teams, keeping their order.
func Restore(teams []Team) (*Ledger, error) {
	l := &Ledger{
		order: make([]string, 0, len(teams)),
		teams: make(map[string]Team, len(teams)),
	}
	for _, t := range teams {
		if err := t.Validate(); err != nil {
			return nil, err
		}
		if _, exists := l.teams[t.Name]; exists {
			return nil, fmt.Errorf("%w: %s", ErrNameCollision, t.Name)
		}
		if t.Players == nil {
			t.Players = []Acquisition{}
		}
		l.order = append(l.order, t.Name)
		l.teams[t.Name] = t.clone()
	}
	return l, nil
}

func (l *Ledger) Len() int {
	return len(l.order)
}

func (l *Ledger) Names() []string {
	return append([]string(nil), l.order...)
}

func (l *Ledger) Teams() []Team {
	out := make([]Team, 0, len(l.order))
	for _, name := range l.order {
		out = append(out, l.teams[name].clone())
	}
	return out
}

func (l *Ledger) Get(name string) (Team, bool) {
	t, ok := l.teams[name]
	if !ok {
		return Team{}, false
	}
	return t.clone(), true
}

// AddPlayer records an acquisition and debits the winning team.
func (l *Ledger) AddPlayer(name string, p player.Player, price int) (Team, error) {
	t, ok := l.teams[name]
	if !ok {
		return Team{}, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	if price < 0 {
		return Team{}, fmt.Errorf("%w: negative price %d", ErrInsufficientBudget, price)
	}
	if price > t.BudgetLeft {
		return Team{}, fmt.Errorf("%w: team %s has %d left, price %d", ErrInsufficientBudget, name, t.BudgetLeft, price)
	}

	t = t.clone()
	t.Players = append(t.Players, Acquisition{
		Name:     p.Name,
		Position: p.Position,
		Price:    price,
		Stats:    p.Stats,
	})
	t.BudgetLeft -= price
	l.teams[name] = t
	return t.clone(), nil
}

// Rename moves a team to a new key keeping its slot.
func (l *Ledger) Rename(oldName, newName string) error {
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return fmt.Errorf("%w: new name is required", ErrInvalidName)
	}
	t, ok := l.teams[oldName]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, oldName)
	}
	if _, exists := l.teams[newName]; exists {
		return fmt.Errorf("%w: %s", ErrNameCollision, newName)
	}

	delete(l.teams, oldName)
	t.Name = newName
	l.teams[newName] = t
	for i, name := range l.order {
		if name == oldName {
			l.order[i] = newName
			break
		}
	}
	return nil
}

// Resize builds a ledger over the canonical names for total slots. Teams whose name
// appears in both ledgers keep their data; new names start at budget and every
// other team is returned as dropped.
func (l *Ledger) Resize(total, budget int, canonical []string) (*Ledger, []string) {
	next := NewLedger(league.TeamNames(total, canonical), budget)
	for name := range next.teams {
		if prev, ok := l.teams[name]; ok {
			next.teams[name] = prev.clone()
		}
	}

	var dropped []string
	for _, name := range l.order {
		if _, kept := next.teams[name]; !kept {
			dropped = append(dropped, name)
		}
	}
	return next, dropped
}

// RebaseBudget moves every team that has not drafted anyone to newBudget.
func (l *Ledger) RebaseBudget(newBudget int) []string {
	var rebased []string
	for _, name := range l.order {
		t := l.teams[name]
		if t.HasDrafted() {
			continue
		}
		t.BudgetLeft = newBudget
		l.teams[name] = t
		rebased = append(rebased, name)
	}
	return rebased
}

// Reset returns every team to a full budget and an empty roster.
func (l *Ledger) Reset(budget int) {
	for _, name := range l.order {
		l.teams[name] = Team{Name: name, BudgetLeft: budget, Players: []Acquisition{}}
	}
}

func (l *Ledger) Budgets() map[string]int {
	out := make(map[string]int, len(l.teams))
	for name, t := range l.teams {
		out[name] = t.BudgetLeft
	}
	return out
}

func (l *Ledger) MaxBudget() int {
	highest := 0
	for _, t := range l.teams {
		if t.BudgetLeft > highest {
			highest = t.BudgetLeft
		}
	}
	return highest
}

// Affordable lists, in slot order, the teams that can pay amount.
func (l *Ledger) Affordable(amount int) []string {
	out := make([]string, 0, len(l.order))
	for _, name := range l.order {
		if l.teams[name].BudgetLeft >= amount {
			out = append(out, name)
		}
	}
	return out
}

func (l *Ledger) Summary() []Summary {
	out := make([]Summary, 0, len(l.order))
	for _, name := range l.order {
		t := l.teams[name]
		out = append(out, Summary{
			Name:        t.Name,
			BudgetLeft:  t.BudgetLeft,
			TotalSpent:  t.TotalPaid(),
			PlayerCount: len(t.Players),
			Players:     append([]Acquisition(nil), t.Players...),
		})
	}
	return out
}

func (l *Ledger) Clone() *Ledger {
	next := &Ledger{
		order: append([]string(nil), l.order...),
		teams: make(map[string]Team, len(l.teams)),
	}
	for name, t := range l.teams {
		next.teams[name] = t.clone()
	}
	return next
}

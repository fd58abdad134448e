package player

import (
	"fmt"
	"sort"
	"strings"
)

const DefaultSearchLimit = 10

// Pool is the in-memory set of draftable players keyed by name.
type Pool struct {
	players []Player
	index   map[string]int
}

// NewPool installs players as-is, keeping their stored ranks.
func NewPool(players []Player) (*Pool, error) {
	p := &Pool{}
	if err := p.install(players); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Pool) install(players []Player) error {
	index := make(map[string]int, len(players))
	out := make([]Player, 0, len(players))
	for _, item := range players {
		if _, exists := index[item.Name]; exists {
			return fmt.Errorf("%w: %s", ErrDuplicateName, item.Name)
		}
		index[item.Name] = len(out)
		out = append(out, item)
	}

	p.players = out
	p.index = index
	return nil
}

// Replace discards the current pool and installs snapshot, re-deriving fantasy ranks.
func (p *Pool) Replace(snapshot []Player) error {
	ranked := Rank(snapshot)
	return p.install(ranked)
}

func (p *Pool) Len() int {
	if p == nil {
		return 0
	}
	return len(p.players)
}

func (p *Pool) Load() []Player {
	if p == nil {
		return nil
	}
	return append([]Player(nil), p.players...)
}

func (p *Pool) Available() []Player {
	return p.filter(StatusAvailable)
}

func (p *Pool) Drafted() []Player {
	return p.filter(StatusDrafted)
}

func (p *Pool) filter(status Status) []Player {
	if p == nil {
		return nil
	}
	out := make([]Player, 0, len(p.players))
	for _, item := range p.players {
		if item.Status == status {
			out = append(out, item)
		}
	}
	return out
}

// Search matches query case-insensitively against available player names.
func (p *Pool) Search(query string, limit int) []Player {
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	needle := strings.ToLower(strings.TrimSpace(query))

	out := make([]Player, 0, limit)
	for _, item := range p.Available() {
		if len(out) >= limit {
			break
		}
		if strings.Contains(strings.ToLower(item.Name), needle) {
			out = append(out, item)
		}
	}
	return out
}

func (p *Pool) Find(name string) (Player, bool) {
	if p == nil {
		return Player{}, false
	}
	idx, ok := p.index[name]
	if !ok {
		return Player{}, false
	}
	return p.players[idx], true
}

func (p *Pool) FindAvailable(name string) (Player, error) {
	item, ok := p.Find(name)
	if !ok {
		return Player{}, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	if !item.IsAvailable() {
		return Player{}, fmt.Errorf("%w: %s", ErrNotAvailable, name)
	}
	return item, nil
}

// MarkDrafted moves an available player to drafted; it happens once per player.
func (p *Pool) MarkDrafted(name string, price int, team string) (Player, error) {
	idx, ok := p.index[name]
	if !ok {
		return Player{}, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	if p.players[idx].Status == StatusDrafted {
		return Player{}, fmt.Errorf("%w: %s", ErrAlreadyDrafted, name)
	}
	if price < 0 {
		return Player{}, fmt.Errorf("%w: negative draft price %d", ErrInvalidPlayer, price)
	}

	p.players[idx].Status = StatusDrafted
	p.players[idx].DraftPrice = price
	p.players[idx].DraftTeam = team
	return p.players[idx], nil
}

// AssignDraft records a sale on the player regardless of its current status.
func (p *Pool) AssignDraft(name string, price int, team string) error {
	idx, ok := p.index[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	if price < 0 {
		return fmt.Errorf("%w: negative draft price %d", ErrInvalidPlayer, price)
	}
	p.players[idx].Status = StatusDrafted
	p.players[idx].DraftPrice = price
	p.players[idx].DraftTeam = team
	return nil
}

// Release returns a drafted player to the pool.
func (p *Pool) Release(name string) bool {
	idx, ok := p.index[name]
	if !ok || p.players[idx].Status != StatusDrafted {
		return false
	}
	p.players[idx].Status = StatusAvailable
	p.players[idx].DraftPrice = 0
	p.players[idx].DraftTeam = ""
	return true
}

// RenameDraftTeam rewrites drafted-by references and reports how many changed.
func (p *Pool) RenameDraftTeam(oldName, newName string) int {
	changed := 0
	for i := range p.players {
		if p.players[i].DraftTeam == oldName {
			p.players[i].DraftTeam = newName
			changed++
		}
	}
	return changed
}

func (p *Pool) ResetDraft() {
	for i := range p.players {
		p.players[i].Status = StatusAvailable
		p.players[i].DraftPrice = 0
		p.players[i].DraftTeam = ""
	}
}

func (p *Pool) Clone() *Pool {
	if p == nil {
		return &Pool{index: map[string]int{}}
	}
	players := append([]Player(nil), p.players...)
	index := make(map[string]int, len(p.index))
	for k, v := range p.index {
		index[k] = v
	}
	return &Pool{players: players, index: index}
}

// Rank orders players by descending fantasy value and assigns ranks 1..N.
// Equal values keep their input order.
func Rank(players []Player) []Player {
	out := append([]Player(nil), players...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].FantasyValue > out[j].FantasyValue
	})
	for i := range out {
		out[i].FantasyRank = i + 1
	}
	return out
}

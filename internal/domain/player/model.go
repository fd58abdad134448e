package player

import (
	"errors"
	"fmt"
	"hash/fnv"
	"math"
	"strings"
)

var (
	ErrNotFound       = errors.New("player not found")
	ErrNotAvailable   = errors.New("player is not available")
	ErrDuplicateName  = errors.New("duplicate player name in pool")
	ErrInvalidPlayer  = errors.New("invalid player record")
	ErrAlreadyDrafted = errors.New("player already drafted")
)

// Status is the draft status of a pool entry.
type Status string

const (
	StatusAvailable Status = "available"
	StatusDrafted   Status = "drafted"
)

func (s Status) Valid() bool {
	return s == StatusAvailable || s == StatusDrafted
}

// Stats holds the five per-game counters the draft board tracks.
type Stats struct {
	Points   float64
	Rebounds float64
	Assists  float64
	Steals   float64
	Blocks   float64
}

// Player is one draftable entry of the pool.
type Player struct {
	ID           int64
	Name         string
	Team         string
	Position     string
	Stats        Stats
	FantasyValue float64
	FantasyRank  int
	Status       Status
	DraftPrice   int
	DraftTeam    string
}

func (p Player) IsAvailable() bool {
	return p.Status == StatusAvailable
}

func (p Player) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("%w: player name is required", ErrInvalidPlayer)
	}
	for label, v := range map[string]float64{
		"points":        p.Stats.Points,
		"rebounds":      p.Stats.Rebounds,
		"assists":       p.Stats.Assists,
		"steals":        p.Stats.Steals,
		"blocks":        p.Stats.Blocks,
		"fantasy value": p.FantasyValue,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return fmt.Errorf("%w: %s must be a finite non-negative number for %s", ErrInvalidPlayer, label, p.Name)
		}
	}
	if !p.Status.Valid() {
		return fmt.Errorf("%w: unknown draft status %q for %s", ErrInvalidPlayer, p.Status, p.Name)
	}
	if p.DraftPrice < 0 {
		return fmt.Errorf("%w: draft price must be >= 0 for %s", ErrInvalidPlayer, p.Name)
	}
	if p.Status == StatusDrafted && strings.TrimSpace(p.DraftTeam) == "" {
		return fmt.Errorf("%w: drafted player %s has no draft team", ErrInvalidPlayer, p.Name)
	}

	return nil
}

// StableID derives a non-negative numeric id from the player name using the top 63
// bits of its FNV-1a hash.
func StableID(name string) int64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(strings.TrimSpace(name)))
	return int64(h.Sum64() >> 1)
}

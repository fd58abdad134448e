package league

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrInvalidSettings = errors.New("invalid league settings")

const (
	MinTotalTeams        = 4
	MaxTotalTeams        = 16
	MinTeamBudget        = 100
	MaxTeamBudget        = 1000
	MinBidIncrementFloor = 1
	MaxBidIncrementCap   = 10
	MinRosterSize        = 10
	MaxRosterSize        = 20
)

// DefaultTeamNames is the canonical slot order for a fresh league.
var DefaultTeamNames = []string{
	"준희", "정명", "단열", "경찬", "병욱", "원준",
	"윤범", "진빈", "지원", "두현", "수현", "철웅",
}

// Settings stores league-wide auction parameters.
type Settings struct {
	LeagueName        string
	TotalTeams        int
	TeamBudget        int
	MinBidIncrement   int
	MaxPlayersPerTeam int
}

func DefaultSettings() Settings {
	return Settings{
		LeagueName:        "NBA Fantasy League",
		TotalTeams:        12,
		TeamBudget:        200,
		MinBidIncrement:   1,
		MaxPlayersPerTeam: 15,
	}
}

func (s Settings) Validate() error {
	if strings.TrimSpace(s.LeagueName) == "" {
		return fmt.Errorf("%w: league name is required", ErrInvalidSettings)
	}
	if s.TotalTeams < MinTotalTeams || s.TotalTeams > MaxTotalTeams {
		return fmt.Errorf("%w: total teams must be between %d and %d, got %d", ErrInvalidSettings, MinTotalTeams, MaxTotalTeams, s.TotalTeams)
	}
	if s.TeamBudget < MinTeamBudget || s.TeamBudget > MaxTeamBudget {
		return fmt.Errorf("%w: team budget must be between %d and %d, got %d", ErrInvalidSettings, MinTeamBudget, MaxTeamBudget, s.TeamBudget)
	}
	if s.MinBidIncrement < MinBidIncrementFloor || s.MinBidIncrement > MaxBidIncrementCap {
		return fmt.Errorf("%w: min bid increment must be between %d and %d, got %d", ErrInvalidSettings, MinBidIncrementFloor, MaxBidIncrementCap, s.MinBidIncrement)
	}
	if s.MaxPlayersPerTeam < MinRosterSize || s.MaxPlayersPerTeam > MaxRosterSize {
		return fmt.Errorf("%w: max players per team must be between %d and %d, got %d", ErrInvalidSettings, MinRosterSize, MaxRosterSize, s.MaxPlayersPerTeam)
	}

	return nil
}

// Patch is a partial settings update; nil fields keep their current value.
type Patch struct {
	LeagueName        *string `validate:"omitempty,min=1,max=100"`
	TotalTeams        *int    `validate:"omitempty,min=4,max=16"`
	TeamBudget        *int    `validate:"omitempty,min=100,max=1000"`
	MinBidIncrement   *int    `validate:"omitempty,min=1,max=10"`
	MaxPlayersPerTeam *int    `validate:"omitempty,min=10,max=20"`
}

func (p Patch) IsEmpty() bool {
	return p.LeagueName == nil &&
		p.TotalTeams == nil &&
		p.TeamBudget == nil &&
		p.MinBidIncrement == nil &&
		p.MaxPlayersPerTeam == nil
}

func (p Patch) Apply(s Settings) Settings {
	if p.LeagueName != nil {
		s.LeagueName = strings.TrimSpace(*p.LeagueName)
	}
	if p.TotalTeams != nil {
		s.TotalTeams = *p.TotalTeams
	}
	if p.TeamBudget != nil {
		s.TeamBudget = *p.TeamBudget
	}
	if p.MinBidIncrement != nil {
		s.MinBidIncrement = *p.MinBidIncrement
	}
	if p.MaxPlayersPerTeam != nil {
		s.MaxPlayersPerTeam = *p.MaxPlayersPerTeam
	}
	return s
}

// TeamNames returns the canonical ordered team names for a league of the given size.
// Slots beyond the canonical list are named "Team N".
func TeamNames(total int, canonical []string) []string {
	if total <= 0 {
		return nil
	}

	out := make([]string, 0, total)
	for i := 0; i < total; i++ {
		if i < len(canonical) && strings.TrimSpace(canonical[i]) != "" {
			out = append(out, canonical[i])
			continue
		}
		out = append(out, SlotName(i))
	}
	return out
}

// SlotName is the fallback name for the zero-based slot index.
func SlotName(slot int) string {
	return "Team " + strconv.Itoa(slot+1)
}

package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/riskibarqy/auction-draft/internal/domain/league"
)

// LeagueFile is the optional YAML league definition.
//
//	settings:
//	  league_name: Weekend League
//	  total_teams: 8
//	team_names: [Alpha, Beta, Gamma]
//	roster_overrides:
//	  Luka Doncic: LAL
type LeagueFile struct {
	Settings        LeagueSettingsFile `yaml:"settings"`
	TeamNames       []string           `yaml:"team_names"`
	RosterOverrides map[string]string  `yaml:"roster_overrides"`
}

type LeagueSettingsFile struct {
	LeagueName        *string `yaml:"league_name"`
	TotalTeams        *int    `yaml:"total_teams"`
	TeamBudget        *int    `yaml:"team_budget"`
	MinBidIncrement   *int    `yaml:"min_bid_increment"`
	MaxPlayersPerTeam *int    `yaml:"max_players_per_team"`
}

func LoadLeagueFile(path string) (LeagueFile, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return LeagueFile{}, fmt.Errorf("read league file: %w", err)
	}
	return ParseLeagueFile(raw)
}

func ParseLeagueFile(raw []byte) (LeagueFile, error) {
	var out LeagueFile
	if err := yaml.Unmarshal(raw, &out); err != nil {
		return LeagueFile{}, fmt.Errorf("parse league file: %w", err)
	}

	names := make([]string, 0, len(out.TeamNames))
	seen := make(map[string]struct{}, len(out.TeamNames))
	for _, name := range out.TeamNames {
		name = strings.TrimSpace(name)
		if name == "" {
			return LeagueFile{}, fmt.Errorf("league file: team names must not be blank")
		}
		if _, dup := seen[name]; dup {
			return LeagueFile{}, fmt.Errorf("league file: duplicate team name %q", name)
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	out.TeamNames = names

	if _, err := out.DefaultSettings(); err != nil {
		return LeagueFile{}, err
	}
	return out, nil
}

func (f LeagueFile) patch() league.Patch {
	return league.Patch{
		LeagueName:        f.Settings.LeagueName,
		TotalTeams:        f.Settings.TotalTeams,
		TeamBudget:        f.Settings.TeamBudget,
		MinBidIncrement:   f.Settings.MinBidIncrement,
		MaxPlayersPerTeam: f.Settings.MaxPlayersPerTeam,
	}
}

// DefaultSettings applies the file's settings over league.DefaultSettings.
func (f LeagueFile) DefaultSettings() (league.Settings, error) {
	settings := f.patch().Apply(league.DefaultSettings())
	if err := settings.Validate(); err != nil {
		return league.Settings{}, fmt.Errorf("league file: %w", err)
	}
	return settings, nil
}

// CanonicalTeamNames returns the file's team names or league.DefaultTeamNames.
func (f LeagueFile) CanonicalTeamNames() []string {
	if len(f.TeamNames) == 0 {
		return league.DefaultTeamNames
	}
	return f.TeamNames
}

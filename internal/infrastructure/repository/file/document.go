package file

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/riskibarqy/auction-draft/internal/domain/auction"
	"github.com/riskibarqy/auction-draft/internal/domain/draft"
	"github.com/riskibarqy/auction-draft/internal/domain/league"
	"github.com/riskibarqy/auction-draft/internal/domain/player"
	"github.com/riskibarqy/auction-draft/internal/domain/team"
)

// legacyTimeLayout is the naive local timestamp older state files carry.
const legacyTimeLayout = "2006-01-02T15:04:05.999999"

type stateDocument struct {
	LeagueSettings settingsDocument        `json:"league_settings"`
	Teams          map[string]teamDocument `json:"teams"`
	TeamOrder      []string                `json:"team_order,omitempty"`
	AuctionState   auctionDocument         `json:"auction_state"`
	LastUpdated    string                  `json:"last_updated"`
}

type settingsDocument struct {
	LeagueName        string `json:"league_name"`
	TotalTeams        int    `json:"total_teams"`
	TeamBudget        int    `json:"team_budget"`
	MinBidIncrement   int    `json:"min_bid_increment"`
	MaxPlayersPerTeam int    `json:"max_players_per_team"`
}

type teamDocument struct {
	Name       string                `json:"name"`
	BudgetLeft int                   `json:"budget_left"`
	Players    []acquisitionDocument `json:"players"`
}

type acquisitionDocument struct {
	Name     string  `json:"name"`
	Position string  `json:"position"`
	Price    int     `json:"price"`
	Points   float64 `json:"points"`
	Rebounds float64 `json:"rebounds"`
	Assists  float64 `json:"assists"`
	Steals   float64 `json:"steals"`
	Blocks   float64 `json:"blocks"`
}

type auctionDocument struct {
	CurrentPlayer *string `json:"current_player"`
	HighestBid    int     `json:"highest_bid"`
	HighestBidder string  `json:"highest_bidder"`
	IsActive      bool    `json:"is_active"`
}

func newStateDocument() stateDocument {
	defaults := league.DefaultSettings()
	return stateDocument{
		LeagueSettings: settingsDocument{
			LeagueName:        defaults.LeagueName,
			TotalTeams:        defaults.TotalTeams,
			TeamBudget:        defaults.TeamBudget,
			MinBidIncrement:   defaults.MinBidIncrement,
			MaxPlayersPerTeam: defaults.MaxPlayersPerTeam,
		},
	}
}

func documentFromSnapshot(s draft.Snapshot) stateDocument {
	doc := stateDocument{
		LeagueSettings: settingsDocument{
			LeagueName:        s.Settings.LeagueName,
			TotalTeams:        s.Settings.TotalTeams,
			TeamBudget:        s.Settings.TeamBudget,
			MinBidIncrement:   s.Settings.MinBidIncrement,
			MaxPlayersPerTeam: s.Settings.MaxPlayersPerTeam,
		},
		Teams:     make(map[string]teamDocument, len(s.Teams)),
		TeamOrder: make([]string, 0, len(s.Teams)),
		AuctionState: auctionDocument{
			HighestBid:    s.Auction.HighestBid,
			HighestBidder: s.Auction.HighestBidder,
			IsActive:      s.Auction.Active,
		},
		LastUpdated: s.LastUpdated.UTC().Format(time.RFC3339Nano),
	}
	if s.Auction.Active {
		current := s.Auction.CurrentPlayer
		doc.AuctionState.CurrentPlayer = &current
	}

	for _, t := range s.Teams {
		players := make([]acquisitionDocument, 0, len(t.Players))
		for _, a := range t.Players {
			players = append(players, acquisitionDocument{
				Name:     a.Name,
				Position: a.Position,
				Price:    a.Price,
				Points:   a.Stats.Points,
				Rebounds: a.Stats.Rebounds,
				Assists:  a.Stats.Assists,
				Steals:   a.Stats.Steals,
				Blocks:   a.Stats.Blocks,
			})
		}
		doc.Teams[t.Name] = teamDocument{Name: t.Name, BudgetLeft: t.BudgetLeft, Players: players}
		doc.TeamOrder = append(doc.TeamOrder, t.Name)
	}
	return doc
}

// snapshot converts the document back. Without team_order, teams follow the
// canonical slot order and then sort by name.
func (d stateDocument) snapshot(canonical []string) (draft.Snapshot, error) {
	lastUpdated, err := parseTimestamp(d.LastUpdated)
	if err != nil {
		return draft.Snapshot{}, err
	}

	out := draft.Snapshot{
		Settings: league.Settings{
			LeagueName:        d.LeagueSettings.LeagueName,
			TotalTeams:        d.LeagueSettings.TotalTeams,
			TeamBudget:        d.LeagueSettings.TeamBudget,
			MinBidIncrement:   d.LeagueSettings.MinBidIncrement,
			MaxPlayersPerTeam: d.LeagueSettings.MaxPlayersPerTeam,
		},
		Auction: auction.State{
			Active:        d.AuctionState.IsActive,
			HighestBid:    d.AuctionState.HighestBid,
			HighestBidder: d.AuctionState.HighestBidder,
		},
		LastUpdated: lastUpdated,
	}
	if d.AuctionState.CurrentPlayer != nil {
		out.Auction.CurrentPlayer = *d.AuctionState.CurrentPlayer
	}

	for _, key := range d.orderedKeys(canonical) {
		doc := d.Teams[key]
		name := strings.TrimSpace(doc.Name)
		if name == "" {
			name = key
		}
		var players []team.Acquisition
		for _, a := range doc.Players {
			players = append(players, team.Acquisition{
				Name:     a.Name,
				Position: a.Position,
				Price:    a.Price,
				Stats: player.Stats{
					Points:   a.Points,
					Rebounds: a.Rebounds,
					Assists:  a.Assists,
					Steals:   a.Steals,
					Blocks:   a.Blocks,
				},
			})
		}
		out.Teams = append(out.Teams, team.Team{Name: name, BudgetLeft: doc.BudgetLeft, Players: players})
	}
	return out, nil
}

func (d stateDocument) orderedKeys(canonical []string) []string {
	out := make([]string, 0, len(d.Teams))
	seen := make(map[string]struct{}, len(d.Teams))
	take := func(name string) {
		if _, ok := d.Teams[name]; !ok {
			return
		}
		if _, dup := seen[name]; dup {
			return
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}

	for _, name := range d.TeamOrder {
		take(name)
	}
	for _, name := range canonical {
		take(name)
	}

	rest := make([]string, 0, len(d.Teams)-len(out))
	for name := range d.Teams {
		if _, ok := seen[name]; !ok {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)
	return append(out, rest...)
}

func parseTimestamp(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		return t.UTC(), nil
	}
	t, err := time.ParseInLocation(legacyTimeLayout, raw, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse last_updated %q: %w", raw, err)
	}
	return t.UTC(), nil
}

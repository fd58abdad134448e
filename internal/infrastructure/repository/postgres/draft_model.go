package postgres

import (
	"database/sql"
	"time"

	"github.com/riskibarqy/auction-draft/internal/domain/auction"
	"github.com/riskibarqy/auction-draft/internal/domain/league"
	"github.com/riskibarqy/auction-draft/internal/domain/player"
	"github.com/riskibarqy/auction-draft/internal/domain/team"
)

const stateRowID = 1

type draftStateModel struct {
	ID                int            `db:"id"`
	LeagueName        string         `db:"league_name"`
	TotalTeams        int            `db:"total_teams"`
	TeamBudget        int            `db:"team_budget"`
	MinBidIncrement   int            `db:"min_bid_increment"`
	MaxPlayersPerTeam int            `db:"max_players_per_team"`
	AuctionActive     bool           `db:"auction_active"`
	CurrentPlayer     sql.NullString `db:"current_player"`
	HighestBid        int            `db:"highest_bid"`
	HighestBidder     string         `db:"highest_bidder"`
	LastUpdated       time.Time      `db:"last_updated"`
}

func stateModelFrom(settings league.Settings, state auction.State, lastUpdated time.Time) draftStateModel {
	return draftStateModel{
		ID:                stateRowID,
		LeagueName:        settings.LeagueName,
		TotalTeams:        settings.TotalTeams,
		TeamBudget:        settings.TeamBudget,
		MinBidIncrement:   settings.MinBidIncrement,
		MaxPlayersPerTeam: settings.MaxPlayersPerTeam,
		AuctionActive:     state.Active,
		CurrentPlayer:     sql.NullString{String: state.CurrentPlayer, Valid: state.Active},
		HighestBid:        state.HighestBid,
		HighestBidder:     state.HighestBidder,
		LastUpdated:       lastUpdated,
	}
}

func (m draftStateModel) settings() league.Settings {
	return league.Settings{
		LeagueName:        m.LeagueName,
		TotalTeams:        m.TotalTeams,
		TeamBudget:        m.TeamBudget,
		MinBidIncrement:   m.MinBidIncrement,
		MaxPlayersPerTeam: m.MaxPlayersPerTeam,
	}
}

func (m draftStateModel) auction() auction.State {
	return auction.State{
		Active:        m.AuctionActive,
		CurrentPlayer: m.CurrentPlayer.String,
		HighestBid:    m.HighestBid,
		HighestBidder: m.HighestBidder,
	}
}

type draftTeamModel struct {
	Slot       int    `db:"slot"`
	Name       string `db:"name"`
	BudgetLeft int    `db:"budget_left"`
}

type draftAcquisitionModel struct {
	TeamSlot   int     `db:"team_slot"`
	Pick       int     `db:"pick"`
	PlayerName string  `db:"player_name"`
	Position   string  `db:"position"`
	Price      int     `db:"price"`
	Points     float64 `db:"points"`
	Rebounds   float64 `db:"rebounds"`
	Assists    float64 `db:"assists"`
	Steals     float64 `db:"steals"`
	Blocks     float64 `db:"blocks"`
}

func acquisitionModelFrom(slot, pick int, a team.Acquisition) draftAcquisitionModel {
	return draftAcquisitionModel{
		TeamSlot:   slot,
		Pick:       pick,
		PlayerName: a.Name,
		Position:   a.Position,
		Price:      a.Price,
		Points:     a.Stats.Points,
		Rebounds:   a.Stats.Rebounds,
		Assists:    a.Stats.Assists,
		Steals:     a.Stats.Steals,
		Blocks:     a.Stats.Blocks,
	}
}

func (m draftAcquisitionModel) acquisition() team.Acquisition {
	return team.Acquisition{
		Name:     m.PlayerName,
		Position: m.Position,
		Price:    m.Price,
		Stats: player.Stats{
			Points:   m.Points,
			Rebounds: m.Rebounds,
			Assists:  m.Assists,
			Steals:   m.Steals,
			Blocks:   m.Blocks,
		},
	}
}

type draftPlayerModel struct {
	Ordinal      int     `db:"ordinal"`
	PlayerID     int64   `db:"player_id"`
	Name         string  `db:"name"`
	Team         string  `db:"team"`
	Position     string  `db:"position"`
	Points       float64 `db:"points"`
	Rebounds     float64 `db:"rebounds"`
	Assists      float64 `db:"assists"`
	Steals       float64 `db:"steals"`
	Blocks       float64 `db:"blocks"`
	FantasyValue float64 `db:"fantasy_value"`
	FantasyRank  int     `db:"fantasy_rank"`
	DraftStatus  string  `db:"draft_status"`
	DraftPrice   int     `db:"draft_price"`
	DraftTeam    string  `db:"draft_team"`
}

func playerModelFrom(ordinal int, p player.Player) draftPlayerModel {
	return draftPlayerModel{
		Ordinal:      ordinal,
		PlayerID:     p.ID,
		Name:         p.Name,
		Team:         p.Team,
		Position:     p.Position,
		Points:       p.Stats.Points,
		Rebounds:     p.Stats.Rebounds,
		Assists:      p.Stats.Assists,
		Steals:       p.Stats.Steals,
		Blocks:       p.Stats.Blocks,
		FantasyValue: p.FantasyValue,
		FantasyRank:  p.FantasyRank,
		DraftStatus:  string(p.Status),
		DraftPrice:   p.DraftPrice,
		DraftTeam:    p.DraftTeam,
	}
}

func (m draftPlayerModel) player() player.Player {
	return player.Player{
		ID:       m.PlayerID,
		Name:     m.Name,
		Team:     m.Team,
		Position: m.Position,
		Stats: player.Stats{
			Points:   m.Points,
			Rebounds: m.Rebounds,
			Assists:  m.Assists,
			Steals:   m.Steals,
			Blocks:   m.Blocks,
		},
		FantasyValue: m.FantasyValue,
		FantasyRank:  m.FantasyRank,
		Status:       player.Status(m.DraftStatus),
		DraftPrice:   m.DraftPrice,
		DraftTeam:    m.DraftTeam,
	}
}

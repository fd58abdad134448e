package httpapi

import (
	"time"

	"github.com/riskibarqy/auction-draft/internal/domain/auction"
	"github.com/riskibarqy/auction-draft/internal/domain/league"
	"github.com/riskibarqy/auction-draft/internal/domain/player"
	"github.com/riskibarqy/auction-draft/internal/domain/team"
	"github.com/riskibarqy/auction-draft/internal/usecase"
)

type startAuctionRequest struct {
	Player string `json:"player" validate:"required"`
}

type placeBidRequest struct {
	Team   string `json:"team" validate:"required"`
	Amount int    `json:"amount" validate:"gt=0"`
}

type renameTeamRequest struct {
	NewName string `json:"new_name" validate:"required,max=50"`
}

type updateLeagueRequest struct {
	LeagueName        *string `json:"league_name"`
	TotalTeams        *int    `json:"total_teams"`
	TeamBudget        *int    `json:"team_budget"`
	MinBidIncrement   *int    `json:"min_bid_increment"`
	MaxPlayersPerTeam *int    `json:"max_players_per_team"`
}

func (r updateLeagueRequest) patch() league.Patch {
	return league.Patch{
		LeagueName:        r.LeagueName,
		TotalTeams:        r.TotalTeams,
		TeamBudget:        r.TeamBudget,
		MinBidIncrement:   r.MinBidIncrement,
		MaxPlayersPerTeam: r.MaxPlayersPerTeam,
	}
}

type statsDTO struct {
	Points   float64 `json:"points"`
	Rebounds float64 `json:"rebounds"`
	Assists  float64 `json:"assists"`
	Steals   float64 `json:"steals"`
	Blocks   float64 `json:"blocks"`
}

type playerDTO struct {
	ID           int64    `json:"id"`
	Name         string   `json:"name"`
	Team         string   `json:"team"`
	Position     string   `json:"position"`
	Stats        statsDTO `json:"stats"`
	FantasyValue float64  `json:"fantasy_value"`
	FantasyRank  int      `json:"fantasy_rank"`
	Status       string   `json:"status"`
	DraftPrice   int      `json:"draft_price,omitempty"`
	DraftTeam    string   `json:"draft_team,omitempty"`
}

type bidDTO struct {
	Team     string    `json:"team"`
	Amount   int       `json:"amount"`
	PlacedAt time.Time `json:"placed_at"`
}

type auctionDTO struct {
	Active         bool       `json:"active"`
	AuctionID      string     `json:"auction_id,omitempty"`
	Player         *playerDTO `json:"player,omitempty"`
	HighestBid     int        `json:"highest_bid"`
	HighestBidder  string     `json:"highest_bidder,omitempty"`
	NextMinimumBid int        `json:"next_minimum_bid"`
	SuggestedBids  []int      `json:"suggested_bids"`
	BidHistory     []bidDTO   `json:"bid_history"`
}

type commandDTO struct {
	Accepted bool   `json:"accepted"`
	Message  string `json:"message,omitempty"`
}

type saleDTO struct {
	Accepted bool   `json:"accepted"`
	Message  string `json:"message"`
	Player   string `json:"player"`
	Team     string `json:"team"`
	Price    int    `json:"price"`
}

type validationDTO struct {
	Amount  int    `json:"amount"`
	Valid   bool   `json:"valid"`
	Message string `json:"message"`
}

type acquisitionDTO struct {
	Name     string   `json:"name"`
	Position string   `json:"position"`
	Price    int      `json:"price"`
	Stats    statsDTO `json:"stats"`
}

type teamSummaryDTO struct {
	Name        string           `json:"name"`
	BudgetLeft  int              `json:"budget_left"`
	TotalSpent  int              `json:"total_spent"`
	PlayerCount int              `json:"player_count"`
	Players     []acquisitionDTO `json:"players"`
}

type affordableDTO struct {
	Amount int      `json:"amount"`
	Teams  []string `json:"teams"`
}

type leagueDTO struct {
	LeagueName        string `json:"league_name"`
	TotalTeams        int    `json:"total_teams"`
	TeamBudget        int    `json:"team_budget"`
	MinBidIncrement   int    `json:"min_bid_increment"`
	MaxPlayersPerTeam int    `json:"max_players_per_team"`
}

type exportDTO struct {
	Path string `json:"path"`
}

type refreshDTO struct {
	Running  bool              `json:"running"`
	Progress *usecase.Progress `json:"progress,omitempty"`
}

func statsToDTO(s player.Stats) statsDTO {
	return statsDTO{
		Points:   s.Points,
		Rebounds: s.Rebounds,
		Assists:  s.Assists,
		Steals:   s.Steals,
		Blocks:   s.Blocks,
	}
}

func playerToDTO(p player.Player) playerDTO {
	return playerDTO{
		ID:           p.ID,
		Name:         p.Name,
		Team:         p.Team,
		Position:     p.Position,
		Stats:        statsToDTO(p.Stats),
		FantasyValue: p.FantasyValue,
		FantasyRank:  p.FantasyRank,
		Status:       string(p.Status),
		DraftPrice:   p.DraftPrice,
		DraftTeam:    p.DraftTeam,
	}
}

func playersToDTO(players []player.Player) []playerDTO {
	items := make([]playerDTO, 0, len(players))
	for _, p := range players {
		items = append(items, playerToDTO(p))
	}
	return items
}

func auctionToDTO(info usecase.AuctionInfo, suggested []int, history []auction.Bid) auctionDTO {
	out := auctionDTO{
		Active:         info.Active,
		AuctionID:      info.AuctionID,
		HighestBid:     info.HighestBid,
		HighestBidder:  info.HighestBidder,
		NextMinimumBid: info.NextMinimumBid,
		SuggestedBids:  suggested,
		BidHistory:     make([]bidDTO, 0, len(history)),
	}
	if out.SuggestedBids == nil {
		out.SuggestedBids = []int{}
	}
	if info.Player != nil {
		p := playerToDTO(*info.Player)
		out.Player = &p
	}
	for _, b := range history {
		out.BidHistory = append(out.BidHistory, bidDTO{Team: b.Team, Amount: b.Amount, PlacedAt: b.PlacedAt})
	}
	return out
}

func summaryToDTO(s team.Summary) teamSummaryDTO {
	players := make([]acquisitionDTO, 0, len(s.Players))
	for _, a := range s.Players {
		players = append(players, acquisitionDTO{
			Name:     a.Name,
			Position: a.Position,
			Price:    a.Price,
			Stats:    statsToDTO(a.Stats),
		})
	}
	return teamSummaryDTO{
		Name:        s.Name,
		BudgetLeft:  s.BudgetLeft,
		TotalSpent:  s.TotalSpent,
		PlayerCount: s.PlayerCount,
		Players:     players,
	}
}

func leagueToDTO(s league.Settings) leagueDTO {
	return leagueDTO{
		LeagueName:        s.LeagueName,
		TotalTeams:        s.TotalTeams,
		TeamBudget:        s.TeamBudget,
		MinBidIncrement:   s.MinBidIncrement,
		MaxPlayersPerTeam: s.MaxPlayersPerTeam,
	}
}

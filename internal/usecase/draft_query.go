package usecase

import (
	"context"
	"strings"

	"github.com/riskibarqy/auction-draft/internal/domain/league"
	"github.com/riskibarqy/auction-draft/internal/domain/player"
	"github.com/riskibarqy/auction-draft/internal/domain/team"
)

func (s *DraftService) SearchPlayers(ctx context.Context, query string, limit int) []player.Player {
	_, span := startUsecaseSpan(ctx, "usecase.DraftService.SearchPlayers")
	defer span.End()

	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.pool.Search(query, limit)
}

func (s *DraftService) PlayerInfo(ctx context.Context, name string) (player.Player, error) {
	_, span := startUsecaseSpan(ctx, "usecase.DraftService.PlayerInfo")
	defer span.End()

	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.pool.Find(strings.TrimSpace(name))
	if !ok {
		return player.Player{}, reject(ErrNotFound, player.ErrNotFound, "player %q not found", name)
	}
	return p, nil
}

func (s *DraftService) AvailablePlayers(ctx context.Context) []player.Player {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.pool.Available()
}

func (s *DraftService) DraftedPlayers(ctx context.Context) []player.Player {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.pool.Drafted()
}

func (s *DraftService) AllPlayers(ctx context.Context) []player.Player {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.pool.Load()
}

func (s *DraftService) Settings(ctx context.Context) league.Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.settings
}

func (s *DraftService) Teams(ctx context.Context) []team.Team {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.ledger.Teams()
}

func (s *DraftService) TeamSummary(ctx context.Context) []team.Summary {
	_, span := startUsecaseSpan(ctx, "usecase.DraftService.TeamSummary")
	defer span.End()

	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.ledger.Summary()
}

func (s *DraftService) AffordableTeams(ctx context.Context, amount int) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.ledger.Affordable(amount)
}

package usecase

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/valyala/bytebufferpool"

	"github.com/riskibarqy/auction-draft/internal/domain/draft"
	"github.com/riskibarqy/auction-draft/internal/domain/league"
	"github.com/riskibarqy/auction-draft/internal/domain/player"
	"github.com/riskibarqy/auction-draft/internal/domain/team"
)

const exportTimeLayout = "20060102_150405"

// RenameTeam moves a team to a new name and rewrites every reference to the old
// one: drafted-by fields in the pool and the current highest bidder.
func (s *DraftService) RenameTeam(ctx context.Context, oldName, newName string) (bool, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.DraftService.RenameTeam")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	newName = strings.TrimSpace(newName)
	if oldName == newName {
		if _, ok := s.ledger.Get(oldName); !ok {
			return false, reject(ErrNotFound, team.ErrNotFound, "team %q does not exist", oldName)
		}
		return true, nil
	}

	ledger := s.ledger.Clone()
	if err := ledger.Rename(oldName, newName); err != nil {
		switch {
		case errors.Is(err, team.ErrNotFound):
			return false, reject(ErrNotFound, err, "team %q does not exist", oldName)
		case errors.Is(err, team.ErrNameCollision):
			return false, reject(ErrConflict, err, "team name %q is already taken", newName)
		default:
			return false, reject(ErrInvalidInput, err, "%v", err)
		}
	}

	pool := s.pool.Clone()
	rewritten := pool.RenameDraftTeam(oldName, newName)
	s.ledger = ledger
	s.pool = pool
	bidderRenamed := s.state.RenameBidder(oldName, newName)
	for i := range s.bids {
		if s.bids[i].Team == oldName {
			s.bids[i].Team = newName
		}
	}

	s.logger.InfoContext(ctx, "team renamed", "from", oldName, "to", newName, "drafted_players", rewritten, "highest_bidder", bidderRenamed)
	s.publish(ctx, draft.Event{
		Type:       draft.EventTeamRenamed,
		Team:       newName,
		Attributes: map[string]any{"previous_name": oldName},
	})
	return true, s.commit(ctx, "rename team")
}

// UpdateLeagueSettings applies a partial settings change. A team-count change resizes
// the ledger; a budget change rebases every team that has not drafted yet. A running
// auction is cancelled when its highest bidder is dropped or can no longer pay.
func (s *DraftService) UpdateLeagueSettings(ctx context.Context, patch league.Patch) (bool, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.DraftService.UpdateLeagueSettings")
	defer span.End()

	if err := s.validate.StructCtx(ctx, patch); err != nil {
		return false, reject(ErrInvalidInput, league.ErrInvalidSettings, "invalid league settings: %v", err)
	}
	if patch.IsEmpty() {
		return false, reject(ErrInvalidInput, league.ErrInvalidSettings, "no settings to update")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.settings
	next := patch.Apply(prev)
	if err := next.Validate(); err != nil {
		return false, reject(ErrInvalidInput, err, "%v", err)
	}

	ledger := s.ledger.Clone()
	var dropped, rebased []string
	if next.TotalTeams != prev.TotalTeams {
		ledger, dropped = ledger.Resize(next.TotalTeams, next.TeamBudget, s.canonical)
	}
	if next.TeamBudget != prev.TeamBudget {
		rebased = ledger.RebaseBudget(next.TeamBudget)
	}
	if s.state.Active && s.state.HighestBidder != "" {
		bidder, ok := ledger.Get(s.state.HighestBidder)
		switch {
		case !ok:
			s.logger.WarnContext(ctx, "highest bidder removed by resize, cancelling auction", "team", s.state.HighestBidder, "player", s.state.CurrentPlayer)
			s.resetAuction()
		case bidder.BudgetLeft < s.state.HighestBid:
			s.logger.WarnContext(ctx, "highest bidder can no longer cover the standing bid, cancelling auction",
				"team", bidder.Name, "budget_left", bidder.BudgetLeft, "highest_bid", s.state.HighestBid, "player", s.state.CurrentPlayer)
			s.resetAuction()
		}
	}

	s.settings = next
	s.ledger = ledger

	if len(dropped) > 0 {
		s.logger.WarnContext(ctx, "teams dropped by league resize", "teams", dropped)
	}
	s.logger.InfoContext(ctx, "league settings updated",
		"league", next.LeagueName,
		"total_teams", next.TotalTeams,
		"team_budget", next.TeamBudget,
		"min_bid_increment", next.MinBidIncrement,
		"max_players_per_team", next.MaxPlayersPerTeam,
		"rebased_teams", len(rebased),
	)
	s.publish(ctx, draft.Event{
		Type: draft.EventLeagueUpdated,
		Attributes: map[string]any{
			"total_teams":   next.TotalTeams,
			"team_budget":   next.TeamBudget,
			"dropped_teams": dropped,
		},
	})
	return true, s.saveState(ctx, "update league settings")
}

// ResetDraft returns every player to the pool and every team to a full budget.
func (s *DraftService) ResetDraft(ctx context.Context) (bool, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.DraftService.ResetDraft")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	pool := s.pool.Clone()
	pool.ResetDraft()
	ledger := s.ledger.Clone()
	ledger.Reset(s.settings.TeamBudget)

	s.pool = pool
	s.ledger = ledger
	s.resetAuction()

	s.logger.InfoContext(ctx, "draft reset", "teams", ledger.Len(), "players", pool.Len())
	s.publish(ctx, draft.Event{Type: draft.EventDraftReset})
	return true, s.commit(ctx, "reset draft")
}

// ReplacePool installs a freshly collected snapshot. Draft results already recorded
// are carried over by player name, and an auction for a player missing from the new
// snapshot is cancelled.
func (s *DraftService) ReplacePool(ctx context.Context, snapshot []player.Player) (int, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.DraftService.ReplacePool")
	defer span.End()

	if len(snapshot) == 0 {
		return 0, reject(ErrInvalidInput, player.ErrInvalidPlayer, "player snapshot is empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	carried := make([]player.Player, 0, len(snapshot))
	kept := 0
	for _, p := range snapshot {
		if prev, ok := s.pool.Find(p.Name); ok && prev.Status == player.StatusDrafted {
			p.Status = prev.Status
			p.DraftPrice = prev.DraftPrice
			p.DraftTeam = prev.DraftTeam
			kept++
		}
		carried = append(carried, p)
	}

	pool, _ := player.NewPool(nil)
	if err := pool.Replace(carried); err != nil {
		return 0, reject(ErrInvalidInput, err, "invalid player snapshot: %v", err)
	}
	if s.state.Active {
		if _, err := pool.FindAvailable(s.state.CurrentPlayer); err != nil {
			s.logger.WarnContext(ctx, "cancelling auction for player missing from new pool", "player", s.state.CurrentPlayer)
			s.resetAuction()
		}
	}
	if lost := len(s.pool.Drafted()) - kept; lost > 0 {
		s.logger.WarnContext(ctx, "drafted players missing from new pool", "count", lost)
	}
	s.pool = pool

	s.logger.InfoContext(ctx, "player pool replaced", "players", pool.Len(), "drafted_carried", kept)
	s.publish(ctx, draft.Event{Type: draft.EventPoolReplaced, Amount: pool.Len()})
	return pool.Len(), s.commit(ctx, "replace pool")
}

// ExportDraftResults writes the draft-result subset of the pool to a timestamped CSV
// in the export directory and returns its path.
func (s *DraftService) ExportDraftResults(ctx context.Context) (string, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.DraftService.ExportDraftResults")
	defer span.End()

	s.mu.RLock()
	players := s.pool.Load()
	s.mu.RUnlock()

	if len(players) == 0 {
		return "", reject(ErrNotFound, player.ErrNotFound, "player pool is empty, nothing to export")
	}

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	if err := player.WriteCSV(buf, players, player.ExportColumns); err != nil {
		return "", fmt.Errorf("encode draft results: %w", err)
	}
	if err := os.MkdirAll(s.exportDir, 0o755); err != nil {
		return "", fmt.Errorf("%w: create export dir: %v", ErrPersistence, err)
	}

	name := fmt.Sprintf("draft_results_%s.csv", s.clock.Now().Format(exportTimeLayout))
	path := filepath.Join(s.exportDir, name)
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("%w: write export: %v", ErrPersistence, err)
	}

	s.logger.InfoContext(ctx, "draft results exported", "path", path, "players", len(players))
	return path, nil
}

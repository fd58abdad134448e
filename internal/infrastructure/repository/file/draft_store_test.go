package file

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/auction-draft/internal/domain/auction"
	"github.com/riskibarqy/auction-draft/internal/domain/draft"
	"github.com/riskibarqy/auction-draft/internal/domain/league"
	"github.com/riskibarqy/auction-draft/internal/domain/player"
	"github.com/riskibarqy/auction-draft/internal/domain/team"
)

func sampleSnapshot() draft.Snapshot {
	return draft.Snapshot{
		Settings: league.Settings{
			LeagueName:        "Weekend League",
			TotalTeams:        4,
			TeamBudget:        200,
			MinBidIncrement:   1,
			MaxPlayersPerTeam: 15,
		},
		Teams: []team.Team{
			{Name: "Zeta", BudgetLeft: 188, Players: []team.Acquisition{
				{Name: "Nikola Jokic", Position: "C", Price: 12, Stats: player.Stats{Points: 26.4, Rebounds: 12.4, Assists: 9}},
			}},
			{Name: "Alpha", BudgetLeft: 200},
			{Name: "Beta", BudgetLeft: 200},
			{Name: "Gamma", BudgetLeft: 200},
		},
		Auction: auction.State{
			Active:        true,
			CurrentPlayer: "LeBron James",
			HighestBid:    7,
			HighestBidder: "Alpha",
		},
		LastUpdated: time.Date(2025, 3, 14, 20, 30, 15, 0, time.UTC),
	}
}

func samplePool() []player.Player {
	return []player.Player{
		{ID: player.StableID("Nikola Jokic"), Name: "Nikola Jokic", Team: "DEN", Position: "C", FantasyValue: 61.2, FantasyRank: 1, Status: player.StatusDrafted, DraftPrice: 12, DraftTeam: "Zeta"},
		{ID: player.StableID("LeBron James"), Name: "LeBron James", Team: "LAL", Position: "F", FantasyValue: 48.5, FantasyRank: 2, Status: player.StatusAvailable},
	}
}

func TestDraftStore_RoundTrip(t *testing.T) {
	store, err := NewDraftStore(t.TempDir(), nil, nil)
	require.NoError(t, err)
	ctx := context.Background()

	_, ok, err := store.LoadState(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	pool, err := store.LoadPool(ctx)
	require.NoError(t, err)
	assert.Empty(t, pool)

	want := sampleSnapshot()
	require.NoError(t, store.Commit(ctx, want, samplePool()))

	got, ok, err := store.LoadState(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, want, got)

	players, err := store.LoadPool(ctx)
	require.NoError(t, err)
	require.Len(t, players, 2)
	assert.Equal(t, "Nikola Jokic", players[0].Name)
	assert.Equal(t, player.StatusDrafted, players[0].Status)
	assert.Equal(t, "Zeta", players[0].DraftTeam)
	assert.Equal(t, 12, players[0].DraftPrice)
	assert.True(t, players[1].IsAvailable())
}

func TestDraftStore_IdleAuctionWritesNullPlayer(t *testing.T) {
	dir := t.TempDir()
	store, err := NewDraftStore(dir, nil, nil)
	require.NoError(t, err)

	snapshot := sampleSnapshot()
	snapshot.Auction = auction.State{}
	require.NoError(t, store.SaveState(context.Background(), snapshot))

	raw, err := os.ReadFile(filepath.Join(dir, StateFileName))
	require.NoError(t, err)
	body := string(raw)
	assert.Contains(t, body, `"current_player": null`)
	assert.Contains(t, body, `"is_active": false`)
	assert.Contains(t, body, `"last_updated": "2025-03-14T20:30:15Z"`)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, e := range entries {
		assert.False(t, strings.HasSuffix(e.Name(), ".tmp"), "temp file left behind: %s", e.Name())
	}
}

func TestDraftStore_LegacyDocument(t *testing.T) {
	dir := t.TempDir()
	legacy := `{
  "league_settings": {"league_name": "Old League", "total_teams": 4, "team_budget": 150},
  "teams": {
    "Delta": {"name": "Delta", "budget_left": 150, "players": []},
    "Beta": {"name": "Beta", "budget_left": 140, "players": [{"name": "Luka Doncic", "position": "G", "price": 10, "points": 28.1}]},
    "Alpha": {"name": "Alpha", "budget_left": 150, "players": []},
    "Gamma": {"name": "Gamma", "budget_left": 150, "players": []}
  },
  "auction_state": {"current_player": null, "highest_bid": 0, "highest_bidder": "", "is_active": false},
  "last_updated": "2025-03-14T20:30:15.123456"
}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, StateFileName), []byte(legacy), 0o644))

	store, err := NewDraftStore(dir, []string{"Gamma", "Beta"}, nil)
	require.NoError(t, err)

	got, ok, err := store.LoadState(context.Background())
	require.NoError(t, err)
	require.True(t, ok)

	names := make([]string, 0, len(got.Teams))
	for _, tm := range got.Teams {
		names = append(names, tm.Name)
	}
	assert.Equal(t, []string{"Gamma", "Beta", "Alpha", "Delta"}, names)
	assert.Equal(t, 1, got.Settings.MinBidIncrement)
	assert.Equal(t, 15, got.Settings.MaxPlayersPerTeam)
	assert.Equal(t, 150, got.Settings.TeamBudget)
	assert.Equal(t, 10, got.Teams[1].Players[0].Price)
	assert.False(t, got.LastUpdated.IsZero())
	assert.True(t, got.Auction.IsIdle())
}

func TestDraftStore_CorruptState(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, StateFileName), []byte("{not json"), 0o644))

	store, err := NewDraftStore(dir, nil, nil)
	require.NoError(t, err)

	_, _, err = store.LoadState(context.Background())
	assert.Error(t, err)
}

func TestDraftStore_PoolQuarantinesBadRows(t *testing.T) {
	dir := t.TempDir()
	csv := "name,team,position,points,rebounds,assists,steals,blocks,fantasy_value,fantasy_rank,draft_status,draft_price,draft_team\n" +
		"Nikola Jokic,DEN,C,26.4,12.4,9.0,1.4,0.9,61.2,1,available,0,\n" +
		"Broken Row,DEN,C,abc,1,1,1,1,1,2,available,0,\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, PoolFileName), []byte(csv), 0o644))

	store, err := NewDraftStore(dir, nil, nil)
	require.NoError(t, err)

	players, err := store.LoadPool(context.Background())
	require.NoError(t, err)
	require.Len(t, players, 1)
	assert.Equal(t, "Nikola Jokic", players[0].Name)
}

func soldSnapshot() (draft.Snapshot, []player.Player) {
	snapshot := sampleSnapshot()
	snapshot.Auction = auction.State{}
	snapshot.Teams[1] = team.Team{Name: "Alpha", BudgetLeft: 150, Players: []team.Acquisition{
		{Name: "LeBron James", Position: "F", Price: 50},
	}}
	pool := samplePool()
	pool[1].Status = player.StatusDrafted
	pool[1].DraftPrice = 50
	pool[1].DraftTeam = "Alpha"
	return snapshot, pool
}

func blockPath(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.Remove(path))
	require.NoError(t, os.MkdirAll(filepath.Join(path, "occupied"), 0o755))
}

func TestDraftStore_CommitStateFailureLeavesPoolUntouched(t *testing.T) {
	dir := t.TempDir()
	store, err := NewDraftStore(dir, nil, nil)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, store.Commit(ctx, sampleSnapshot(), samplePool()))
	poolBefore, err := os.ReadFile(filepath.Join(dir, PoolFileName))
	require.NoError(t, err)

	blockPath(t, filepath.Join(dir, StateFileName))

	snapshot, pool := soldSnapshot()
	require.Error(t, store.Commit(ctx, snapshot, pool))

	poolAfter, err := os.ReadFile(filepath.Join(dir, PoolFileName))
	require.NoError(t, err)
	assert.Equal(t, string(poolBefore), string(poolAfter))

	players, err := store.LoadPool(ctx)
	require.NoError(t, err)
	assert.Equal(t, player.StatusAvailable, players[1].Status)
}

func TestDraftStore_CommitPoolFailureRestoresState(t *testing.T) {
	dir := t.TempDir()
	store, err := NewDraftStore(dir, nil, nil)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, store.Commit(ctx, sampleSnapshot(), samplePool()))
	stateBefore, err := os.ReadFile(filepath.Join(dir, StateFileName))
	require.NoError(t, err)

	blockPath(t, filepath.Join(dir, PoolFileName))

	snapshot, pool := soldSnapshot()
	require.Error(t, store.Commit(ctx, snapshot, pool))

	stateAfter, err := os.ReadFile(filepath.Join(dir, StateFileName))
	require.NoError(t, err)
	assert.Equal(t, string(stateBefore), string(stateAfter))

	got, ok, err := store.LoadState(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 200, got.Teams[1].BudgetLeft)
	assert.True(t, got.Auction.Active)
}

package usecase

import (
	"context"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/auction-draft/internal/domain/auction"
	"github.com/riskibarqy/auction-draft/internal/domain/draft"
	"github.com/riskibarqy/auction-draft/internal/domain/league"
	"github.com/riskibarqy/auction-draft/internal/domain/player"
	"github.com/riskibarqy/auction-draft/internal/domain/team"
	"github.com/riskibarqy/auction-draft/internal/infrastructure/repository/file"
	draftmock "github.com/riskibarqy/auction-draft/internal/mocks/domain/draft"
	"github.com/riskibarqy/auction-draft/internal/platform/logging"
)

func playerByName(t *testing.T, svc *DraftService, name string) player.Player {
	t.Helper()
	for _, p := range svc.AllPlayers(context.Background()) {
		if p.Name == name {
			return p
		}
	}
	t.Fatalf("player %s not found", name)
	return player.Player{}
}

func newFileService(t *testing.T, dir string) *DraftService {
	t.Helper()
	store, err := file.NewDraftStore(dir, nil, nil)
	require.NoError(t, err)

	settings := testSettings()
	svc := NewDraftService(store, nil, DraftConfig{
		CanonicalTeamNames: []string{"Alpha", "Beta", "Gamma", "Delta"},
		ExportDir:          dir,
		Defaults:           &settings,
		Clock:              clockwork.NewFakeClockAt(testNow),
	}, nil)
	require.NoError(t, svc.Load(context.Background()))
	return svc
}

func TestDraftService_FinalizeStateWriteFailureSurvivesRestart(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	dir := t.TempDir()

	seed, err := file.NewDraftStore(dir, nil, nil)
	require.NoError(t, err)
	require.NoError(t, seed.SavePool(ctx, testPlayers()))

	svc := newFileService(t, dir)
	_, err = svc.StartAuction(ctx, "LeBron James")
	require.NoError(t, err)
	_, err = svc.PlaceBid(ctx, "Alpha", 50)
	require.NoError(t, err)

	statePath := filepath.Join(dir, file.StateFileName)
	lastState, err := os.ReadFile(statePath)
	require.NoError(t, err)
	require.NoError(t, os.Remove(statePath))
	require.NoError(t, os.MkdirAll(filepath.Join(statePath, "occupied"), 0o755))

	outcome, err := svc.FinalizeAuction(ctx)
	require.Error(t, err)
	assert.True(t, IsWarning(err))
	assert.True(t, outcome.Accepted)

	require.NoError(t, os.RemoveAll(statePath))
	require.NoError(t, os.WriteFile(statePath, lastState, 0o644))

	restarted := newFileService(t, dir)
	lebron := playerByName(t, restarted, "LeBron James")
	assert.Equal(t, player.StatusAvailable, lebron.Status)
	assert.Equal(t, 200, teamByName(t, restarted, "Alpha").BudgetLeft)

	info := restarted.CurrentAuctionInfo(ctx)
	assert.True(t, info.Active)
	assert.Equal(t, 50, info.HighestBid)
	assert.Equal(t, "Alpha", info.HighestBidder)
}

func TestDraftService_LoadReconcilesPoolWithLedger(t *testing.T) {
	t.Parallel()

	players := testPlayers()
	players[1].Status, players[1].DraftPrice, players[1].DraftTeam = player.StatusDrafted, 50, "Alpha"
	players[2].Status, players[2].DraftPrice, players[2].DraftTeam = player.StatusDrafted, 9, "Omega"

	teams := testTeams()
	teams[2] = team.Team{Name: "Gamma", BudgetLeft: 170, Players: []team.Acquisition{{Name: "Nikola Jokic", Position: "C", Price: 30}}}

	store := draftmock.NewStore(t)
	store.On("LoadPool", mock.Anything).Return(players, nil).Once()
	store.On("LoadState", mock.Anything).Return(draft.Snapshot{Settings: testSettings(), Teams: teams}, true, nil).Once()
	store.On("SavePool", mock.Anything, mock.MatchedBy(func(saved []player.Player) bool {
		return len(saved) == 3 &&
			saved[0].Status == player.StatusDrafted && saved[0].DraftTeam == "Gamma" && saved[0].DraftPrice == 30 &&
			saved[1].Status == player.StatusAvailable && saved[1].DraftTeam == "" &&
			saved[2].Status == player.StatusDrafted && saved[2].DraftTeam == "Omega"
	})).Return(nil).Once()

	svc := NewDraftService(store, nil, DraftConfig{}, nil)
	require.NoError(t, svc.Load(context.Background()))

	assert.Equal(t, player.StatusAvailable, playerByName(t, svc, "LeBron James").Status)
	jokic := playerByName(t, svc, "Nikola Jokic")
	assert.Equal(t, "Gamma", jokic.DraftTeam)
	assert.Equal(t, 30, jokic.DraftPrice)
	assert.Equal(t, "Omega", playerByName(t, svc, "Luka Doncic").DraftTeam)
	assert.Equal(t, 200, teamByName(t, svc, "Alpha").BudgetLeft)
}

func TestDraftService_FinalizeFailureLeavesEverythingUnchanged(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := draftmock.NewStore(t)
	store.On("LoadPool", mock.Anything).Return(testPlayers(), nil).Once()
	store.On("LoadState", mock.Anything).Return(draft.Snapshot{
		Settings: testSettings(),
		Teams:    testTeams(),
		Auction:  auction.State{Active: true, CurrentPlayer: "LeBron James", HighestBid: 30, HighestBidder: "Beta"},
	}, true, nil).Once()

	svc := NewDraftService(store, nil, DraftConfig{}, nil)
	require.NoError(t, svc.Load(ctx))

	poolBefore := svc.AllPlayers(ctx)
	teamsBefore := svc.Teams(ctx)
	infoBefore := svc.CurrentAuctionInfo(ctx)

	outcome, err := svc.FinalizeAuction(ctx)
	require.Error(t, err)
	assert.False(t, IsWarning(err))
	assert.ErrorIs(t, err, ErrConflict)
	assert.ErrorIs(t, err, team.ErrInsufficientBudget)
	assert.False(t, outcome.Accepted)

	assert.Equal(t, poolBefore, svc.AllPlayers(ctx))
	assert.Equal(t, teamsBefore, svc.Teams(ctx))
	assert.Equal(t, infoBefore, svc.CurrentAuctionInfo(ctx))
	store.AssertNotCalled(t, "Commit", mock.Anything, mock.Anything, mock.Anything)
}

func TestDraftService_BudgetChangeCancelsUnpayableAuction(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newFixture(t, nil)

	_, err := f.svc.StartAuction(ctx, "LeBron James")
	require.NoError(t, err)
	_, err = f.svc.PlaceBid(ctx, "Alpha", 150)
	require.NoError(t, err)

	budget := 100
	ok, err := f.svc.UpdateLeagueSettings(ctx, league.Patch{TeamBudget: &budget})
	require.NoError(t, err)
	require.True(t, ok)

	assert.Equal(t, 100, teamByName(t, f.svc, "Alpha").BudgetLeft)
	assert.False(t, f.svc.CurrentAuctionInfo(ctx).Active)
	assert.Empty(t, f.svc.BidHistory(ctx))
	assert.Equal(t, player.StatusAvailable, playerByName(t, f.svc, "LeBron James").Status)
}

func TestDraftService_BudgetChangeKeepsPayableAuction(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newFixture(t, nil)

	_, err := f.svc.StartAuction(ctx, "LeBron James")
	require.NoError(t, err)
	_, err = f.svc.PlaceBid(ctx, "Alpha", 50)
	require.NoError(t, err)

	budget := 100
	_, err = f.svc.UpdateLeagueSettings(ctx, league.Patch{TeamBudget: &budget})
	require.NoError(t, err)
	require.True(t, f.svc.CurrentAuctionInfo(ctx).Active)

	outcome, err := f.svc.FinalizeAuction(ctx)
	require.NoError(t, err)
	assert.True(t, outcome.Accepted)
	assert.Equal(t, 50, teamByName(t, f.svc, "Alpha").BudgetLeft)
}

// Random command sequences never drive a budget negative, and every team's budget
// left plus what it paid stays equal to what it started with.
func TestDraftService_BudgetsStayNonNegativeAcrossCommandSequences(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	initial := map[string]int{}
	for _, tm := range testTeams() {
		initial[tm.Name] = tm.BudgetLeft
	}
	names := []string{"Alpha", "Beta", "Gamma", "Delta", "Nobody"}
	playerNames := []string{"Nikola Jokic", "LeBron James", "Luka Doncic", "Ghost Player"}

	for seed := int64(1); seed <= 25; seed++ {
		store := draftmock.NewStore(t)
		store.On("LoadPool", mock.Anything).Return(testPlayers(), nil).Once()
		store.On("LoadState", mock.Anything).Return(draft.Snapshot{Settings: testSettings(), Teams: testTeams()}, true, nil).Once()
		store.On("SaveState", mock.Anything, mock.Anything).Return(nil).Maybe()
		store.On("Commit", mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()

		svc := NewDraftService(store, nil, DraftConfig{}, logging.NewNop())
		require.NoError(t, svc.Load(ctx))
		rng := rand.New(rand.NewSource(seed))

		for step := 0; step < 60; step++ {
			switch rng.Intn(5) {
			case 0:
				_, _ = svc.StartAuction(ctx, playerNames[rng.Intn(len(playerNames))])
			case 1, 2:
				_, _ = svc.PlaceBid(ctx, names[rng.Intn(len(names))], rng.Intn(220)-10)
			case 3:
				_, _ = svc.FinalizeAuction(ctx)
			case 4:
				_, _ = svc.CancelAuction(ctx)
			}

			drafted := 0
			for _, p := range svc.AllPlayers(ctx) {
				if p.Status == player.StatusDrafted {
					drafted++
				}
			}
			acquired := 0
			for _, tm := range svc.Teams(ctx) {
				require.GreaterOrEqualf(t, tm.BudgetLeft, 0, "seed %d step %d: team %s", seed, step, tm.Name)
				require.Equalf(t, initial[tm.Name], tm.BudgetLeft+tm.TotalPaid(), "seed %d step %d: team %s", seed, step, tm.Name)
				acquired += len(tm.Players)
			}
			require.Equalf(t, drafted, acquired, "seed %d step %d", seed, step)
		}
	}
}

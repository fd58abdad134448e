package memory

import (
	"context"
	"testing"

	"github.com/riskibarqy/auction-draft/internal/domain/draft"
	"github.com/riskibarqy/auction-draft/internal/domain/league"
	"github.com/riskibarqy/auction-draft/internal/domain/player"
	"github.com/riskibarqy/auction-draft/internal/domain/team"
)

func TestDraftStore_CommitIsolatesCallerSlices(t *testing.T) {
	ctx := context.Background()
	store := NewDraftStore(nil)

	if _, found, err := store.LoadState(ctx); err != nil || found {
		t.Fatalf("expected empty store, found=%v err=%v", found, err)
	}

	teams := []team.Team{{Name: "Alpha", BudgetLeft: 190, Players: []team.Acquisition{{Name: "LeBron James", Price: 10}}}}
	players := []player.Player{{Name: "LeBron James", Status: player.StatusDrafted, DraftPrice: 10, DraftTeam: "Alpha"}}
	if err := store.Commit(ctx, draft.Snapshot{Settings: league.DefaultSettings(), Teams: teams}, players); err != nil {
		t.Fatalf("commit: %v", err)
	}

	teams[0].Players[0].Price = 99
	players[0].DraftPrice = 99

	snap, found, err := store.LoadState(ctx)
	if err != nil || !found {
		t.Fatalf("load state: found=%v err=%v", found, err)
	}
	if snap.Teams[0].Players[0].Price != 10 {
		t.Fatalf("stored acquisition changed through caller slice: %+v", snap.Teams[0])
	}

	pool, err := store.LoadPool(ctx)
	if err != nil {
		t.Fatalf("load pool: %v", err)
	}
	if pool[0].DraftPrice != 10 {
		t.Fatalf("stored player changed through caller slice: %+v", pool[0])
	}
}

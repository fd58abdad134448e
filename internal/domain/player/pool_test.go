package player

import (
	"errors"
	"testing"
)

func samplePlayers() []Player {
	return []Player{
		{ID: 1, Name: "Nikola Jokic", Team: "DEN", Position: "C", FantasyValue: 71.2, Status: StatusAvailable},
		{ID: 2, Name: "LeBron James", Team: "LAL", Position: "SF", FantasyValue: 55.0, Status: StatusAvailable},
		{ID: 3, Name: "Jalen Brunson", Team: "NYK", Position: "PG", FantasyValue: 48.3, Status: StatusAvailable},
		{ID: 4, Name: "Jalen Williams", Team: "OKC", Position: "SG", FantasyValue: 55.0, Status: StatusAvailable},
		{ID: 5, Name: "Jaylen Brown", Team: "BOS", Position: "SG", FantasyValue: 44.9, Status: StatusAvailable},
	}
}

func TestPoolReplace_DenseRankStableTies(t *testing.T) {
	pool := &Pool{}
	if err := pool.Replace(samplePlayers()); err != nil {
		t.Fatalf("replace pool: %v", err)
	}

	want := map[string]int{
		"Nikola Jokic":   1,
		"LeBron James":   2,
		"Jalen Williams": 3,
		"Jalen Brunson":  4,
		"Jaylen Brown":   5,
	}
	for name, rank := range want {
		got, ok := pool.Find(name)
		if !ok {
			t.Fatalf("expected %s in pool", name)
		}
		if got.FantasyRank != rank {
			t.Fatalf("unexpected rank for %s: got=%d want=%d", name, got.FantasyRank, rank)
		}
	}

	if err := pool.Replace([]Player{{Name: "Solo", FantasyValue: 1, Status: StatusAvailable}}); err != nil {
		t.Fatalf("replace pool: %v", err)
	}
	if pool.Len() != 1 {
		t.Fatalf("expected prior pool to be discarded, got %d players", pool.Len())
	}
}

func TestPoolReplace_RejectsDuplicateNames(t *testing.T) {
	pool, err := NewPool(samplePlayers())
	if err != nil {
		t.Fatalf("new pool: %v", err)
	}

	dup := append(samplePlayers(), Player{Name: "LeBron James", FantasyValue: 3, Status: StatusAvailable})
	if err := pool.Replace(dup); !errors.Is(err, ErrDuplicateName) {
		t.Fatalf("expected ErrDuplicateName, got %v", err)
	}
	if pool.Len() != 5 {
		t.Fatalf("expected pool untouched after failed replace, got %d", pool.Len())
	}
}

func TestPoolSearch(t *testing.T) {
	pool, err := NewPool(samplePlayers())
	if err != nil {
		t.Fatalf("new pool: %v", err)
	}
	if _, err := pool.MarkDrafted("Jalen Williams", 12, "Alpha"); err != nil {
		t.Fatalf("mark drafted: %v", err)
	}

	got := pool.Search("JALEN", 10)
	if len(got) != 1 || got[0].Name != "Jalen Brunson" {
		t.Fatalf("expected only available Jalen Brunson, got %+v", got)
	}

	got = pool.Search("j", 2)
	if len(got) != 2 {
		t.Fatalf("expected search truncated to 2, got %d", len(got))
	}

	if got := pool.Search("", 0); len(got) != 4 {
		t.Fatalf("expected default limit over 4 available players, got %d", len(got))
	}
}

func TestPoolMarkDrafted(t *testing.T) {
	pool, err := NewPool(samplePlayers())
	if err != nil {
		t.Fatalf("new pool: %v", err)
	}

	drafted, err := pool.MarkDrafted("LeBron James", 2, "Alpha")
	if err != nil {
		t.Fatalf("mark drafted: %v", err)
	}
	if drafted.Status != StatusDrafted || drafted.DraftPrice != 2 || drafted.DraftTeam != "Alpha" {
		t.Fatalf("unexpected drafted record: %+v", drafted)
	}
	if _, err := pool.MarkDrafted("LeBron James", 3, "Beta"); !errors.Is(err, ErrAlreadyDrafted) {
		t.Fatalf("expected ErrAlreadyDrafted, got %v", err)
	}
	if _, err := pool.MarkDrafted("Nobody", 3, "Beta"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := pool.FindAvailable("LeBron James"); !errors.Is(err, ErrNotAvailable) {
		t.Fatalf("expected ErrNotAvailable, got %v", err)
	}

	if len(pool.Drafted()) != 1 || len(pool.Available()) != 4 {
		t.Fatalf("unexpected status split: drafted=%d available=%d", len(pool.Drafted()), len(pool.Available()))
	}
}

func TestPoolCloneIsolation(t *testing.T) {
	pool, err := NewPool(samplePlayers())
	if err != nil {
		t.Fatalf("new pool: %v", err)
	}

	clone := pool.Clone()
	if _, err := clone.MarkDrafted("Jaylen Brown", 9, "Gamma"); err != nil {
		t.Fatalf("mark drafted on clone: %v", err)
	}

	original, _ := pool.Find("Jaylen Brown")
	if !original.IsAvailable() {
		t.Fatalf("clone mutation leaked into original pool")
	}
}

func TestPoolRenameAndReset(t *testing.T) {
	pool, err := NewPool(samplePlayers())
	if err != nil {
		t.Fatalf("new pool: %v", err)
	}
	_, _ = pool.MarkDrafted("LeBron James", 2, "Alpha")
	_, _ = pool.MarkDrafted("Jaylen Brown", 7, "Alpha")

	if changed := pool.RenameDraftTeam("Alpha", "Omega"); changed != 2 {
		t.Fatalf("expected 2 renamed records, got %d", changed)
	}
	if got, _ := pool.Find("LeBron James"); got.DraftTeam != "Omega" {
		t.Fatalf("expected draft team Omega, got %q", got.DraftTeam)
	}

	pool.ResetDraft()
	if len(pool.Available()) != 5 {
		t.Fatalf("expected all players available after reset")
	}
}

func TestPoolAssignAndRelease(t *testing.T) {
	pool, err := NewPool(samplePlayers())
	if err != nil {
		t.Fatalf("new pool: %v", err)
	}

	if err := pool.AssignDraft("LeBron James", 40, "Alpha"); err != nil {
		t.Fatalf("assign: %v", err)
	}
	if err := pool.AssignDraft("LeBron James", 45, "Beta"); err != nil {
		t.Fatalf("reassign: %v", err)
	}
	got, _ := pool.Find("LeBron James")
	if got.Status != StatusDrafted || got.DraftPrice != 45 || got.DraftTeam != "Beta" {
		t.Fatalf("unexpected assigned player: %+v", got)
	}
	if err := pool.AssignDraft("Nobody", 1, "Alpha"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if !pool.Release("LeBron James") {
		t.Fatalf("expected release to report a change")
	}
	if pool.Release("LeBron James") {
		t.Fatalf("expected second release to be a no-op")
	}
	got, _ = pool.Find("LeBron James")
	if got.Status != StatusAvailable || got.DraftPrice != 0 || got.DraftTeam != "" {
		t.Fatalf("unexpected released player: %+v", got)
	}
}

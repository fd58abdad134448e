package memory

import (
	"context"
	"sync"

	"github.com/riskibarqy/auction-draft/internal/domain/draft"
	"github.com/riskibarqy/auction-draft/internal/domain/player"
	"github.com/riskibarqy/auction-draft/internal/domain/team"
)

// DraftStore keeps the draft in process memory; nothing survives a restart.
type DraftStore struct {
	mu       sync.RWMutex
	snapshot draft.Snapshot
	hasState bool
	players  []player.Player
}

func NewDraftStore(players []player.Player) *DraftStore {
	return &DraftStore{players: append([]player.Player(nil), players...)}
}

func (s *DraftStore) LoadState(_ context.Context) (draft.Snapshot, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.hasState {
		return draft.Snapshot{}, false, nil
	}
	return cloneSnapshot(s.snapshot), true, nil
}

func (s *DraftStore) SaveState(_ context.Context, snapshot draft.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshot = cloneSnapshot(snapshot)
	s.hasState = true
	return nil
}

func (s *DraftStore) LoadPool(_ context.Context) ([]player.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]player.Player(nil), s.players...), nil
}

func (s *DraftStore) SavePool(_ context.Context, players []player.Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.players = append([]player.Player(nil), players...)
	return nil
}

func (s *DraftStore) Commit(_ context.Context, snapshot draft.Snapshot, players []player.Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshot = cloneSnapshot(snapshot)
	s.hasState = true
	s.players = append([]player.Player(nil), players...)
	return nil
}

func cloneSnapshot(in draft.Snapshot) draft.Snapshot {
	out := in
	out.Teams = make([]team.Team, 0, len(in.Teams))
	for _, t := range in.Teams {
		t.Players = append([]team.Acquisition{}, t.Players...)
		out.Teams = append(out.Teams, t)
	}
	return out
}

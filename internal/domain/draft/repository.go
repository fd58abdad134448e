package draft

import (
	"context"

	"github.com/riskibarqy/auction-draft/internal/domain/player"
)

// Store describes draft persistence needs from use cases.
type Store interface {
	LoadState(ctx context.Context) (Snapshot, bool, error)
	SaveState(ctx context.Context, snapshot Snapshot) error
	LoadPool(ctx context.Context) ([]player.Player, error)
	SavePool(ctx context.Context, players []player.Player) error
	// Commit persists the state record and the pool as one unit.
	Commit(ctx context.Context, snapshot Snapshot, players []player.Player) error
}

package draft

import (
	"fmt"
	"time"

	"github.com/riskibarqy/auction-draft/internal/domain/auction"
	"github.com/riskibarqy/auction-draft/internal/domain/league"
	"github.com/riskibarqy/auction-draft/internal/domain/team"
)

// Snapshot is the persisted state record: settings, ledger and auction saved as a unit.
type Snapshot struct {
	Settings    league.Settings
	Teams       []team.Team
	Auction     auction.State
	LastUpdated time.Time
}

func (s Snapshot) Validate() error {
	if err := s.Settings.Validate(); err != nil {
		return err
	}
	if _, err := team.Restore(s.Teams); err != nil {
		return fmt.Errorf("restore teams: %w", err)
	}
	if err := s.Auction.Validate(); err != nil {
		return fmt.Errorf("auction state: %w", err)
	}
	return nil
}

package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/jonboulle/clockwork"

	"github.com/riskibarqy/auction-draft/internal/domain/auction"
	"github.com/riskibarqy/auction-draft/internal/domain/draft"
	"github.com/riskibarqy/auction-draft/internal/domain/league"
	"github.com/riskibarqy/auction-draft/internal/domain/player"
	"github.com/riskibarqy/auction-draft/internal/domain/team"
	"github.com/riskibarqy/auction-draft/internal/platform/id"
	"github.com/riskibarqy/auction-draft/internal/platform/logging"
)

type DraftConfig struct {
	// CanonicalTeamNames names the league slots in order; defaults to league.DefaultTeamNames.
	CanonicalTeamNames []string
	// ExportDir receives draft result exports.
	ExportDir string
	// Defaults seeds a fresh league; nil means league.DefaultSettings.
	Defaults *league.Settings
	Clock    clockwork.Clock
	IDs      id.Generator
}

// DraftService coordinates the live auction over the pool, the ledger and the
// auction state. Every entry point is serialized; a mutation and its persistence
// write complete before the next command starts.
type DraftService struct {
	mu sync.RWMutex

	store     draft.Store
	publisher draft.Publisher
	validate  *validator.Validate
	clock     clockwork.Clock
	ids       id.Generator
	logger    *logging.Logger
	canonical []string
	exportDir string
	defaults  league.Settings

	settings  league.Settings
	pool      *player.Pool
	ledger    *team.Ledger
	state     auction.State
	auctionID string
	bids      []auction.Bid
}

func NewDraftService(store draft.Store, publisher draft.Publisher, cfg DraftConfig, logger *logging.Logger) *DraftService {
	if logger == nil {
		logger = logging.Default()
	}
	if publisher == nil {
		publisher = draft.NopPublisher{}
	}
	if cfg.Clock == nil {
		cfg.Clock = clockwork.NewRealClock()
	}
	if cfg.IDs == nil {
		cfg.IDs = id.NewUUIDGenerator()
	}
	canonical := cfg.CanonicalTeamNames
	if len(canonical) == 0 {
		canonical = league.DefaultTeamNames
	}
	exportDir := strings.TrimSpace(cfg.ExportDir)
	if exportDir == "" {
		exportDir = "."
	}

	settings := league.DefaultSettings()
	if cfg.Defaults != nil {
		settings = *cfg.Defaults
	}

	pool, _ := player.NewPool(nil)
	return &DraftService{
		store:     store,
		publisher: publisher,
		validate:  validator.New(validator.WithRequiredStructEnabled()),
		clock:     cfg.Clock,
		ids:       cfg.IDs,
		logger:    logger.Named("draft"),
		canonical: append([]string(nil), canonical...),
		exportDir: exportDir,
		defaults:  settings,
		settings:  settings,
		pool:      pool,
		ledger:    team.NewLedger(league.TeamNames(settings.TotalTeams, canonical), settings.TeamBudget),
	}
}

// Load restores the persisted session or initializes a fresh league. A fresh league
// is persisted immediately.
func (s *DraftService) Load(ctx context.Context) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.DraftService.Load")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	players, err := s.store.LoadPool(ctx)
	if err != nil {
		return fmt.Errorf("load pool: %w", err)
	}
	pool, err := player.NewPool(players)
	if err != nil {
		return fmt.Errorf("install pool: %w", err)
	}

	snapshot, found, err := s.store.LoadState(ctx)
	if err != nil {
		return fmt.Errorf("load state: %w", err)
	}

	s.pool = pool
	s.bids = nil
	s.auctionID = ""

	if !found {
		s.settings = s.defaults
		s.ledger = team.NewLedger(s.teamNames(s.settings.TotalTeams), s.settings.TeamBudget)
		s.state = auction.State{}
		s.logger.InfoContext(ctx, "initialized new league", "league", s.settings.LeagueName, "teams", s.ledger.Len(), "players", pool.Len())
		if err := s.store.SaveState(ctx, s.snapshot()); err != nil {
			s.logger.WarnContext(ctx, "persist initial state failed", "error", err)
			return &PersistenceWarning{Op: "initialize league", Err: err}
		}
		return nil
	}

	if err := snapshot.Validate(); err != nil {
		return fmt.Errorf("restore state: %w", err)
	}
	ledger, err := team.Restore(snapshot.Teams)
	if err != nil {
		return fmt.Errorf("restore teams: %w", err)
	}
	if ledger.Len() == 0 {
		ledger = team.NewLedger(s.teamNames(snapshot.Settings.TotalTeams), snapshot.Settings.TeamBudget)
	}

	s.settings = snapshot.Settings
	s.ledger = ledger
	s.state = snapshot.Auction
	repaired := s.reconcileSales(ctx)
	if s.state.Active {
		if _, err := pool.FindAvailable(s.state.CurrentPlayer); err != nil {
			s.logger.WarnContext(ctx, "discarding restored auction for unavailable player", "player", s.state.CurrentPlayer, "error", err)
			s.state.Reset()
		} else if auctionID, err := s.ids.NewID(); err == nil {
			s.auctionID = auctionID
		}
	}

	s.logger.InfoContext(ctx, "restored draft state",
		"league", s.settings.LeagueName,
		"teams", s.ledger.Len(),
		"players", pool.Len(),
		"auction_active", s.state.Active,
		"last_updated", snapshot.LastUpdated,
	)
	if repaired {
		if err := s.store.SavePool(ctx, s.pool.Load()); err != nil {
			s.logger.WarnContext(ctx, "persist reconciled pool failed", "error", err)
			return &PersistenceWarning{Op: "reconcile pool", Err: err}
		}
	}
	return nil
}

// reconcileSales aligns drafted pool rows with the ledger's acquisitions, which are
// authoritative. A drafted row whose team still exists but holds no acquisition for
// the player is released; rows of teams dropped by a resize stay drafted. It reports
// whether the pool changed.
func (s *DraftService) reconcileSales(ctx context.Context) bool {
	type sale struct {
		team  string
		price int
	}
	sales := make(map[string]sale)
	for _, t := range s.ledger.Teams() {
		for _, a := range t.Players {
			sales[a.Name] = sale{team: t.Name, price: a.Price}
		}
	}

	changed := false
	for _, p := range s.pool.Load() {
		if sold, ok := sales[p.Name]; ok {
			delete(sales, p.Name)
			if p.Status == player.StatusDrafted && p.DraftTeam == sold.team && p.DraftPrice == sold.price {
				continue
			}
			if err := s.pool.AssignDraft(p.Name, sold.price, sold.team); err != nil {
				s.logger.WarnContext(ctx, "reconcile sale failed", "player", p.Name, "error", err)
				continue
			}
			s.logger.WarnContext(ctx, "pool row re-marked from ledger", "player", p.Name, "team", sold.team, "price", sold.price)
			changed = true
			continue
		}
		if p.Status != player.StatusDrafted {
			continue
		}
		if _, ok := s.ledger.Get(p.DraftTeam); ok && s.pool.Release(p.Name) {
			s.logger.WarnContext(ctx, "released drafted player missing from ledger", "player", p.Name, "team", p.DraftTeam, "price", p.DraftPrice)
			changed = true
		}
	}

	if len(sales) > 0 {
		orphans := make([]string, 0, len(sales))
		for name := range sales {
			orphans = append(orphans, name)
		}
		sort.Strings(orphans)
		s.logger.InfoContext(ctx, "acquisitions without a pool record", "players", orphans)
	}
	return changed
}

func (s *DraftService) teamNames(total int) []string {
	return league.TeamNames(total, s.canonical)
}

func (s *DraftService) snapshot() draft.Snapshot {
	return draft.Snapshot{
		Settings:    s.settings,
		Teams:       s.ledger.Teams(),
		Auction:     s.state,
		LastUpdated: s.clock.Now().UTC(),
	}
}

// saveState writes the state record. Failures come back as a warning.
func (s *DraftService) saveState(ctx context.Context, op string) error {
	if err := s.store.SaveState(ctx, s.snapshot()); err != nil {
		s.logger.WarnContext(ctx, "persist state failed", "op", op, "error", err)
		return &PersistenceWarning{Op: op, Err: err}
	}
	return nil
}

// commit writes the state record and the pool as one unit.
func (s *DraftService) commit(ctx context.Context, op string) error {
	if err := s.store.Commit(ctx, s.snapshot(), s.pool.Load()); err != nil {
		s.logger.WarnContext(ctx, "persist state and pool failed", "op", op, "error", err)
		return &PersistenceWarning{Op: op, Err: err}
	}
	return nil
}

func (s *DraftService) publish(ctx context.Context, event draft.Event) {
	event.OccurredAt = s.clock.Now().UTC()
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "publish draft event failed", "type", event.Type, "error", err)
	}
}

func (s *DraftService) resetAuction() {
	s.state.Reset()
	s.bids = nil
	s.auctionID = ""
}

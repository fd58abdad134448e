package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/riskibarqy/auction-draft/internal/domain/draft"
	"github.com/riskibarqy/auction-draft/internal/domain/player"
	"github.com/riskibarqy/auction-draft/internal/domain/team"
	qb "github.com/riskibarqy/auction-draft/internal/platform/querybuilder"
)

const (
	stateTable        = "draft_state"
	teamsTable        = "draft_teams"
	acquisitionsTable = "draft_acquisitions"
	playersTable      = "draft_players"
)

const stateUpsertConflict = `(id) DO UPDATE SET
    league_name = EXCLUDED.league_name,
    total_teams = EXCLUDED.total_teams,
    team_budget = EXCLUDED.team_budget,
    min_bid_increment = EXCLUDED.min_bid_increment,
    max_players_per_team = EXCLUDED.max_players_per_team,
    auction_active = EXCLUDED.auction_active,
    current_player = EXCLUDED.current_player,
    highest_bid = EXCLUDED.highest_bid,
    highest_bidder = EXCLUDED.highest_bidder,
    last_updated = EXCLUDED.last_updated`

const playerUpsertConflict = `(name) DO UPDATE SET
    ordinal = EXCLUDED.ordinal,
    player_id = EXCLUDED.player_id,
    team = EXCLUDED.team,
    position = EXCLUDED.position,
    points = EXCLUDED.points,
    rebounds = EXCLUDED.rebounds,
    assists = EXCLUDED.assists,
    steals = EXCLUDED.steals,
    blocks = EXCLUDED.blocks,
    fantasy_value = EXCLUDED.fantasy_value,
    fantasy_rank = EXCLUDED.fantasy_rank,
    draft_status = EXCLUDED.draft_status,
    draft_price = EXCLUDED.draft_price,
    draft_team = EXCLUDED.draft_team`

// DraftStore keeps the draft state record and the player pool in Postgres.
type DraftStore struct {
	db *sqlx.DB
}

func NewDraftStore(db *sqlx.DB) *DraftStore {
	return &DraftStore{db: db}
}

func (s *DraftStore) LoadState(ctx context.Context) (draft.Snapshot, bool, error) {
	query, args, err := qb.Select("*").From(stateTable).Where(qb.Eq("id", stateRowID)).Limit(1).ToSQL()
	if err != nil {
		return draft.Snapshot{}, false, fmt.Errorf("build get draft state query: %w", err)
	}

	var row draftStateModel
	if err := s.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return draft.Snapshot{}, false, nil
		}
		return draft.Snapshot{}, false, fmt.Errorf("get draft state: %w", err)
	}

	teamsQuery, teamsArgs, err := qb.Select("slot", "name", "budget_left").From(teamsTable).OrderBy("slot").ToSQL()
	if err != nil {
		return draft.Snapshot{}, false, fmt.Errorf("build list draft teams query: %w", err)
	}
	var teamRows []draftTeamModel
	if err := s.db.SelectContext(ctx, &teamRows, teamsQuery, teamsArgs...); err != nil {
		return draft.Snapshot{}, false, fmt.Errorf("list draft teams: %w", err)
	}

	acqQuery, acqArgs, err := qb.Select("*").From(acquisitionsTable).OrderBy("team_slot", "pick").ToSQL()
	if err != nil {
		return draft.Snapshot{}, false, fmt.Errorf("build list acquisitions query: %w", err)
	}
	var acqRows []draftAcquisitionModel
	if err := s.db.SelectContext(ctx, &acqRows, acqQuery, acqArgs...); err != nil {
		return draft.Snapshot{}, false, fmt.Errorf("list acquisitions: %w", err)
	}

	return draft.Snapshot{
		Settings:    row.settings(),
		Teams:       assembleTeams(teamRows, acqRows),
		Auction:     row.auction(),
		LastUpdated: row.LastUpdated.UTC(),
	}, true, nil
}

func assembleTeams(teamRows []draftTeamModel, acqRows []draftAcquisitionModel) []team.Team {
	bySlot := make(map[int][]team.Acquisition, len(teamRows))
	for _, a := range acqRows {
		bySlot[a.TeamSlot] = append(bySlot[a.TeamSlot], a.acquisition())
	}

	out := make([]team.Team, 0, len(teamRows))
	for _, row := range teamRows {
		players := bySlot[row.Slot]
		if players == nil {
			players = []team.Acquisition{}
		}
		out = append(out, team.Team{Name: row.Name, BudgetLeft: row.BudgetLeft, Players: players})
	}
	return out
}

func (s *DraftStore) SaveState(ctx context.Context, snapshot draft.Snapshot) error {
	return withTx(ctx, s.db, "save draft state", func(tx *sqlx.Tx) error {
		return saveState(ctx, tx, snapshot)
	})
}

func (s *DraftStore) LoadPool(ctx context.Context) ([]player.Player, error) {
	query, args, err := qb.Select("*").From(playersTable).OrderBy("ordinal").ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list players query: %w", err)
	}

	var rows []draftPlayerModel
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list players: %w", err)
	}

	out := make([]player.Player, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.player())
	}
	return out, nil
}

func (s *DraftStore) SavePool(ctx context.Context, players []player.Player) error {
	return withTx(ctx, s.db, "save player pool", func(tx *sqlx.Tx) error {
		return savePool(ctx, tx, players)
	})
}

// Commit writes the state record and the pool in one transaction.
func (s *DraftStore) Commit(ctx context.Context, snapshot draft.Snapshot, players []player.Player) error {
	return withTx(ctx, s.db, "commit draft", func(tx *sqlx.Tx) error {
		if err := savePool(ctx, tx, players); err != nil {
			return err
		}
		return saveState(ctx, tx, snapshot)
	})
}

func saveState(ctx context.Context, tx *sqlx.Tx, snapshot draft.Snapshot) error {
	stateQuery, stateArgs, err := qb.InsertModels(stateTable,
		[]draftStateModel{stateModelFrom(snapshot.Settings, snapshot.Auction, snapshot.LastUpdated)},
		stateUpsertConflict,
	)
	if err != nil {
		return fmt.Errorf("build upsert draft state query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, stateQuery, stateArgs...); err != nil {
		return fmt.Errorf("upsert draft state: %w", err)
	}

	// Acquisitions cascade from teams.
	if err := clearTable(ctx, tx, teamsTable); err != nil {
		return err
	}
	if len(snapshot.Teams) == 0 {
		return nil
	}

	teamRows := make([]draftTeamModel, 0, len(snapshot.Teams))
	var acqRows []draftAcquisitionModel
	for slot, t := range snapshot.Teams {
		teamRows = append(teamRows, draftTeamModel{Slot: slot, Name: t.Name, BudgetLeft: t.BudgetLeft})
		for pick, a := range t.Players {
			acqRows = append(acqRows, acquisitionModelFrom(slot, pick, a))
		}
	}

	teamQuery, teamArgs, err := qb.InsertModels(teamsTable, teamRows, "")
	if err != nil {
		return fmt.Errorf("build insert draft teams query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, teamQuery, teamArgs...); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("insert draft teams: %w: %v", team.ErrNameCollision, err)
		}
		return fmt.Errorf("insert draft teams: %w", err)
	}

	for _, batch := range chunks(acqRows, insertChunkSize) {
		query, args, err := qb.InsertModels(acquisitionsTable, batch, "")
		if err != nil {
			return fmt.Errorf("build insert acquisitions query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert acquisitions: %w", err)
		}
	}
	return nil
}

// savePool upserts the pool by name and prunes players no longer in it.
func savePool(ctx context.Context, tx *sqlx.Tx, players []player.Player) error {
	names := make([]string, 0, len(players))
	rows := make([]draftPlayerModel, 0, len(players))
	for i, p := range players {
		names = append(names, p.Name)
		rows = append(rows, playerModelFrom(i, p))
	}

	pruneQuery, pruneArgs, err := prunePlayersQuery(names)
	if err != nil {
		return fmt.Errorf("build prune players query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, pruneQuery, pruneArgs...); err != nil {
		return fmt.Errorf("prune players: %w", err)
	}

	for _, batch := range chunks(rows, insertChunkSize) {
		query, args, err := qb.InsertModels(playersTable, batch, playerUpsertConflict)
		if err != nil {
			return fmt.Errorf("build upsert players query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("upsert players: %w", err)
		}
	}
	return nil
}

func prunePlayersQuery(keep []string) (string, []any, error) {
	return qb.DeleteFrom(playersTable).Where(qb.Expr("name <> ALL(?)", pq.Array(keep))).ToSQL()
}

func clearTable(ctx context.Context, tx *sqlx.Tx, table string) error {
	query, args, err := qb.DeleteFrom(table).ToSQL()
	if err != nil {
		return fmt.Errorf("build clear %s query: %w", table, err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("clear %s: %w", table, err)
	}
	return nil
}

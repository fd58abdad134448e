package player

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Tabular column names of the pool record set.
const (
	ColPlayerID     = "player_id"
	ColName         = "name"
	ColTeam         = "team"
	ColPosition     = "position"
	ColPoints       = "points"
	ColRebounds     = "rebounds"
	ColAssists      = "assists"
	ColSteals       = "steals"
	ColBlocks       = "blocks"
	ColFantasyValue = "fantasy_value"
	ColFantasyRank  = "fantasy_rank"
	ColDraftStatus  = "draft_status"
	ColDraftPrice   = "draft_price"
	ColDraftTeam    = "draft_team"
)

// Columns is the full pool record layout.
var Columns = []string{
	ColPlayerID, ColName, ColTeam, ColPosition,
	ColPoints, ColRebounds, ColAssists, ColSteals, ColBlocks,
	ColFantasyValue, ColFantasyRank,
	ColDraftStatus, ColDraftPrice, ColDraftTeam,
}

// ExportColumns is the draft-result subset written by exports.
var ExportColumns = []string{
	ColName, ColTeam, ColPosition,
	ColDraftStatus, ColDraftPrice, ColDraftTeam,
	ColPoints, ColRebounds, ColAssists, ColSteals, ColBlocks,
	ColFantasyRank,
}

// RawRecord is one untyped row keyed by column name.
type RawRecord struct {
	Row    int
	Fields map[string]string
}

func (r RawRecord) get(col string) string {
	return strings.TrimSpace(r.Fields[col])
}

// Rejected is a quarantined row with the reason it failed coercion.
type Rejected struct {
	Row    int
	Name   string
	Reason string
}

func (r Rejected) String() string {
	if r.Name == "" {
		return fmt.Sprintf("row %d: %s", r.Row, r.Reason)
	}
	return fmt.Sprintf("row %d (%s): %s", r.Row, r.Name, r.Reason)
}

// Ingest coerces raw rows into typed players once. Rows that fail coercion or
// validation are returned as rejected instead of being defaulted.
func Ingest(rows []RawRecord) ([]Player, []Rejected) {
	players := make([]Player, 0, len(rows))
	var rejected []Rejected
	seen := make(map[string]struct{}, len(rows))

	for _, row := range rows {
		item, err := coerce(row)
		if err != nil {
			rejected = append(rejected, Rejected{Row: row.Row, Name: row.get(ColName), Reason: err.Error()})
			continue
		}
		if _, dup := seen[item.Name]; dup {
			rejected = append(rejected, Rejected{Row: row.Row, Name: item.Name, Reason: ErrDuplicateName.Error()})
			continue
		}
		seen[item.Name] = struct{}{}
		players = append(players, item)
	}

	return players, rejected
}

func coerce(row RawRecord) (Player, error) {
	name := row.get(ColName)
	if name == "" {
		return Player{}, fmt.Errorf("%w: name is required", ErrInvalidPlayer)
	}

	var err error
	item := Player{
		Name:      name,
		Team:      row.get(ColTeam),
		Position:  row.get(ColPosition),
		DraftTeam: row.get(ColDraftTeam),
	}

	if raw := row.get(ColPlayerID); raw != "" {
		if item.ID, err = strconv.ParseInt(raw, 10, 64); err != nil {
			return Player{}, fmt.Errorf("%w: player_id %q is not an integer", ErrInvalidPlayer, raw)
		}
	} else {
		item.ID = StableID(name)
	}

	numbers := []struct {
		col string
		dst *float64
	}{
		{ColPoints, &item.Stats.Points},
		{ColRebounds, &item.Stats.Rebounds},
		{ColAssists, &item.Stats.Assists},
		{ColSteals, &item.Stats.Steals},
		{ColBlocks, &item.Stats.Blocks},
		{ColFantasyValue, &item.FantasyValue},
	}
	for _, n := range numbers {
		if *n.dst, err = parseFloat(n.col, row.get(n.col)); err != nil {
			return Player{}, err
		}
	}

	if raw := row.get(ColFantasyRank); raw != "" {
		if item.FantasyRank, err = parseInt(ColFantasyRank, raw); err != nil {
			return Player{}, err
		}
	}

	item.Status = StatusAvailable
	if raw := strings.ToLower(row.get(ColDraftStatus)); raw != "" {
		item.Status = Status(raw)
	}

	if raw := row.get(ColDraftPrice); raw != "" {
		if item.DraftPrice, err = parseInt(ColDraftPrice, raw); err != nil {
			return Player{}, err
		}
	}

	if err := item.Validate(); err != nil {
		return Player{}, err
	}
	return item, nil
}

func parseFloat(col, raw string) (float64, error) {
	if raw == "" {
		return 0, fmt.Errorf("%w: %s is missing", ErrInvalidPlayer, col)
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %s %q is not a number", ErrInvalidPlayer, col, raw)
	}
	return v, nil
}

// parseInt accepts integral floats such as "12.0" written by spreadsheet tools.
func parseInt(col, raw string) (int, error) {
	if v, err := strconv.Atoi(raw); err == nil {
		return v, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || f != math.Trunc(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%w: %s %q is not an integer", ErrInvalidPlayer, col, raw)
	}
	return int(f), nil
}

// Record renders a player into its tabular form.
func Record(p Player) map[string]string {
	return map[string]string{
		ColPlayerID:     strconv.FormatInt(p.ID, 10),
		ColName:         p.Name,
		ColTeam:         p.Team,
		ColPosition:     p.Position,
		ColPoints:       formatFloat(p.Stats.Points),
		ColRebounds:     formatFloat(p.Stats.Rebounds),
		ColAssists:      formatFloat(p.Stats.Assists),
		ColSteals:       formatFloat(p.Stats.Steals),
		ColBlocks:       formatFloat(p.Stats.Blocks),
		ColFantasyValue: formatFloat(p.FantasyValue),
		ColFantasyRank:  strconv.Itoa(p.FantasyRank),
		ColDraftStatus:  string(p.Status),
		ColDraftPrice:   strconv.Itoa(p.DraftPrice),
		ColDraftTeam:    p.DraftTeam,
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

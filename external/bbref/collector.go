package bbref

import (
	"context"
	stderrors "errors"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/riskibarqy/auction-draft/internal/domain/player"
	"github.com/riskibarqy/auction-draft/internal/platform/logging"
	"github.com/riskibarqy/auction-draft/internal/usecase"
)

const (
	MinGamesPlayed    = 10
	MinMinutesPerGame = 5.0
)

// aggregateTeam matches multi-team season totals such as TOT or 2TM.
var aggregateTeam = regexp.MustCompile(`^(TOT|\d+TM)$`)

// PageFetcher returns the raw per-game page of a season.
type PageFetcher interface {
	FetchPerGame(ctx context.Context, season int) ([]byte, error)
}

type CollectorConfig struct {
	Season         int
	FallbackSeason int
	// RosterOverrides maps a player name to the team abbreviation to report.
	RosterOverrides map[string]string
	Logger          *logging.Logger
}

// Collector builds a ranked player pool from the per-game stats page.
type Collector struct {
	pages          PageFetcher
	season         int
	fallbackSeason int
	overrides      map[string]string
	overrideNames  []string
	logger         *logging.Logger
}

func NewCollector(pages PageFetcher, cfg CollectorConfig) *Collector {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	overrides := make(map[string]string, len(cfg.RosterOverrides))
	names := make([]string, 0, len(cfg.RosterOverrides))
	for name, team := range cfg.RosterOverrides {
		name = strings.TrimSpace(name)
		team = strings.TrimSpace(team)
		if name == "" || team == "" {
			continue
		}
		overrides[name] = team
		names = append(names, name)
	}
	sort.Strings(names)

	return &Collector{
		pages:          pages,
		season:         cfg.Season,
		fallbackSeason: cfg.FallbackSeason,
		overrides:      overrides,
		overrideNames:  names,
		logger:         logger.Named("bbref"),
	}
}

var _ usecase.StatsCollector = (*Collector)(nil)

// CollectSeasonPool fetches the configured season, falling back to the previous
// one when the page is missing or yields no qualifying players.
func (c *Collector) CollectSeasonPool(ctx context.Context, report func(stage, message string)) ([]player.Player, error) {
	if report == nil {
		report = func(string, string) {}
	}

	seasons := []int{c.season}
	if c.fallbackSeason > 0 && c.fallbackSeason != c.season {
		seasons = append(seasons, c.fallbackSeason)
	}

	var lastErr error
	for _, season := range seasons {
		players, err := c.collectSeason(ctx, season, report)
		if err == nil && len(players) > 0 {
			return players, nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		if err == nil {
			err = fmt.Errorf("season %d has no qualifying players", season)
		}
		lastErr = err
		c.logger.WarnContext(ctx, "season unavailable, trying fallback", "season", season, "error", err)
	}

	if stderrors.Is(lastErr, usecase.ErrDependencyUnavailable) {
		return nil, lastErr
	}
	return nil, fmt.Errorf("%w: collect player stats: %v", usecase.ErrDependencyUnavailable, lastErr)
}

func (c *Collector) collectSeason(ctx context.Context, season int, report func(stage, message string)) ([]player.Player, error) {
	report(usecase.StageFetching, fmt.Sprintf("fetching %d per-game stats", season))
	page, err := c.pages.FetchPerGame(ctx, season)
	if err != nil {
		return nil, fmt.Errorf("fetch season %d: %w", season, err)
	}

	report(usecase.StageParsing, fmt.Sprintf("parsing %d per-game table", season))
	rows, err := ParsePerGame(page)
	if err != nil {
		return nil, fmt.Errorf("parse season %d: %w", season, err)
	}
	lines := c.qualifying(rows)
	c.logger.InfoContext(ctx, "parsed season page", "season", season, "rows", len(rows), "qualifying", len(lines))

	report(usecase.StageScoring, fmt.Sprintf("scoring %d players", len(lines)))
	records := make([]player.RawRecord, 0, len(lines))
	for i, l := range lines {
		records = append(records, l.record(i+1))
	}
	players, rejected := player.Ingest(records)
	for _, r := range rejected {
		c.logger.WarnContext(ctx, "dropped collected row", "season", season, "row", r.Row, "player", r.Name, "reason", r.Reason)
	}
	return player.Rank(players), nil
}

type seasonLine struct {
	name     string
	team     string
	position string
	line     player.Line
}

// qualifying drops aggregate rows and players under the games/minutes floor. A player
// listed for several teams keeps the stint with the most games.
func (c *Collector) qualifying(rows []Row) []seasonLine {
	byName := make(map[string]int, len(rows))
	out := make([]seasonLine, 0, len(rows))

	for _, row := range rows {
		name := row.Get(statName)
		team := row.Get(statTeam)
		if name == "" || name == "Player" || aggregateTeam.MatchString(team) {
			continue
		}

		l := seasonLine{
			name:     name,
			team:     team,
			position: row.Get(statPosition),
			line: player.Line{
				Stats: player.Stats{
					Points:   row.Float(statPoints),
					Rebounds: row.Float(statRebounds),
					Assists:  row.Float(statAssists),
					Steals:   row.Float(statSteals),
					Blocks:   row.Float(statBlocks),
				},
				GamesPlayed:    int(row.Float(statGames)),
				MinutesPerGame: row.Float(statMinutes),
				FieldGoalPct:   row.Float(statFGPct),
				ThreePointPct:  row.Float(statThreePct),
				FreeThrowPct:   row.Float(statFreeThrow),
			},
		}
		if l.line.GamesPlayed < MinGamesPlayed || l.line.MinutesPerGame < MinMinutesPerGame {
			continue
		}
		if override, ok := c.overrideTeam(name); ok {
			l.team = override
		}

		if idx, seen := byName[name]; seen {
			if l.line.GamesPlayed > out[idx].line.GamesPlayed {
				out[idx] = l
			}
			continue
		}
		byName[name] = len(out)
		out = append(out, l)
	}
	return out
}

// overrideTeam matches exactly first, then by last name plus at least one shared
// name token.
func (c *Collector) overrideTeam(name string) (string, bool) {
	if team, ok := c.overrides[name]; ok {
		return team, true
	}

	tokens := strings.Fields(strings.ToLower(name))
	if len(tokens) == 0 {
		return "", false
	}
	lastName := tokens[len(tokens)-1]

	for _, candidate := range c.overrideNames {
		lower := strings.ToLower(candidate)
		if !strings.Contains(lower, lastName) && !strings.Contains(strings.ToLower(name), lower) {
			continue
		}
		if sharesToken(tokens, strings.Fields(lower)) {
			return c.overrides[candidate], true
		}
	}
	return "", false
}

func sharesToken(a, b []string) bool {
	set := make(map[string]struct{}, len(a))
	for _, t := range a {
		set[t] = struct{}{}
	}
	for _, t := range b {
		if _, ok := set[t]; ok {
			return true
		}
	}
	return false
}

func (l seasonLine) record(row int) player.RawRecord {
	stats := l.line.Stats
	return player.RawRecord{
		Row: row,
		Fields: map[string]string{
			player.ColName:         l.name,
			player.ColTeam:         l.team,
			player.ColPosition:     l.position,
			player.ColPoints:       formatFloat(stats.Points),
			player.ColRebounds:     formatFloat(stats.Rebounds),
			player.ColAssists:      formatFloat(stats.Assists),
			player.ColSteals:       formatFloat(stats.Steals),
			player.ColBlocks:       formatFloat(stats.Blocks),
			player.ColFantasyValue: formatFloat(player.FantasyScore(l.line)),
			player.ColDraftStatus:  string(player.StatusAvailable),
			player.ColDraftPrice:   "0",
			player.ColDraftTeam:    "",
		},
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

package player

import "math"

// League-average shooting percentages the bonus is measured against.
const (
	avgFieldGoalPct  = 0.465
	avgThreePointPct = 0.365
	avgFreeThrowPct  = 0.780
	referenceMinutes = 30.0
)

// Line is a season per-game line as produced by the stats collector.
type Line struct {
	Stats          Stats
	GamesPlayed    int
	MinutesPerGame float64
	FieldGoalPct   float64
	ThreePointPct  float64
	FreeThrowPct   float64
}

// FantasyScore weights counting stats and adds shooting bonuses scaled by minutes.
// The result is never negative.
func FantasyScore(l Line) float64 {
	score := l.Stats.Points*1.0 +
		l.Stats.Rebounds*1.2 +
		l.Stats.Assists*1.5 +
		l.Stats.Steals*3.0 +
		l.Stats.Blocks*3.0

	weight := l.MinutesPerGame / referenceMinutes
	score += (l.FieldGoalPct - avgFieldGoalPct) * 100 * weight
	score += (l.ThreePointPct - avgThreePointPct) * 50 * weight
	score += (l.FreeThrowPct - avgFreeThrowPct) * 30 * weight

	return math.Max(score, 0)
}

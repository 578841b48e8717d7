// Package scoring turns a single entry's resolved picks into a point total
// under one of the league-selectable scoring modes. Scores are never stored;
// every caller recomputes from the current bracket state.
package scoring

import (
	"log/slog"

	"github.com/google/uuid"
)

type Mode string

const (
	Momentum         Mode = "momentum"
	AccuracyBoldness Mode = "accuracy_boldness"
	StreakSurvival   Mode = "streak_survival"
	FanCredEdge      Mode = "fancred_edge"
)

// ParseMode maps a league's stored scoring-mode string to a Mode. Unknown
// values fall back to Momentum so one bad row cannot take down a whole
// standings computation.
func ParseMode(s string) Mode {
	switch Mode(s) {
	case Momentum, AccuracyBoldness, StreakSurvival, FanCredEdge:
		return Mode(s)
	case "":
		return Momentum
	default:
		slog.Warn("unknown scoring mode, falling back to momentum", "mode", s)
		return Momentum
	}
}

// Round point tables, indexed by round 1..6.
var (
	DefaultRoundPoints = map[int]float64{1: 1, 2: 2, 3: 4, 4: 8, 5: 16, 6: 32}
	FanCredRoundPoints = map[int]float64{1: 1, 2: 2, 3: 5, 4: 10, 5: 18, 6: 30}
)

// RoundPoints returns the point table a mode scores correct picks with.
func RoundPoints(mode Mode) map[int]float64 {
	if mode == FanCredEdge {
		return FanCredRoundPoints
	}
	return DefaultRoundPoints
}

// PickResult is one pick joined against the current bracket state.
type PickResult struct {
	NodeID         uuid.UUID
	Round          int
	PickedTeamName string
	// IsCorrect is nil while the node's game is unresolved
	IsCorrect  *bool
	PickedSeed *int
}

func (p PickResult) correct() bool {
	return p.IsCorrect != nil && *p.IsCorrect
}

// Distribution counts, per node, how many entries in the league picked each
// team. The crowd-aware strategies use it to reward contrarian picks.
type Distribution map[uuid.UUID]map[string]int

// Share returns the fraction of the league that picked team on this node.
// Missing data yields 1.0 so the pick scores as "typical" instead of erroring.
func (d Distribution) Share(nodeID uuid.UUID, team string) float64 {
	counts, ok := d[nodeID]
	if !ok {
		return 1.0
	}
	total := 0
	for _, c := range counts {
		total += c
	}
	if total == 0 || counts[team] == 0 {
		return 1.0
	}
	return float64(counts[team]) / float64(total)
}

// Result is a mode's total plus the mode-specific breakdown the UI renders.
type Result struct {
	Total   float64
	Details map[string]any
}

// Strategy scores one entry's picks. Unresolved picks contribute nothing;
// incorrect picks contribute nothing and, where the mode tracks streaks,
// end the active run.
type Strategy interface {
	Score(picks []PickResult, dist Distribution) Result
}

// ForMode returns the Strategy implementing the given mode.
func ForMode(mode Mode) Strategy {
	switch mode {
	case AccuracyBoldness:
		return crowdCurve{
			name:     "accuracy_boldness",
			points:   DefaultRoundPoints,
			exponent: 0.5,
			maxBonus: 3.0,
		}
	case StreakSurvival:
		return streakSurvival{points: DefaultRoundPoints}
	case FanCredEdge:
		return crowdCurve{
			name:     "fancred_edge",
			points:   FanCredRoundPoints,
			exponent: 0.75,
			maxBonus: 4.0,
		}
	default:
		return momentum{points: DefaultRoundPoints}
	}
}

package scoring

import (
	"testing"

	"github.com/allfantasy/bracket-live/internal/utils"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func correctPick(round int, team string) PickResult {
	return PickResult{NodeID: uuid.New(), Round: round, PickedTeamName: team, IsCorrect: utils.Ptr(true)}
}

func wrongPick(round int, team string) PickResult {
	return PickResult{NodeID: uuid.New(), Round: round, PickedTeamName: team, IsCorrect: utils.Ptr(false)}
}

func pendingPick(round int, team string) PickResult {
	return PickResult{NodeID: uuid.New(), Round: round, PickedTeamName: team}
}

func TestParseMode(t *testing.T) {
	testCases := []struct {
		input    string
		expected Mode
	}{
		{"momentum", Momentum},
		{"accuracy_boldness", AccuracyBoldness},
		{"streak_survival", StreakSurvival},
		{"fancred_edge", FanCredEdge},
		{"", Momentum},
		{"banana", Momentum},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			assert.Equal(t, tc.expected, ParseMode(tc.input))
		})
	}
}

func TestMomentumTotals(t *testing.T) {
	strategy := ForMode(Momentum)

	picks := []PickResult{
		correctPick(1, "Team A"),
		correctPick(2, "Team A"),
		wrongPick(3, "Team B"),
		pendingPick(4, "Team A"),
	}

	result := strategy.Score(picks, nil)
	assert.Equal(t, 3.0, result.Total, "1 + 2 points, nothing for wrong or pending")
}

// Adding one more correct round-r pick must raise the total by exactly the
// round's point value.
func TestMomentumMonotonicity(t *testing.T) {
	strategy := ForMode(Momentum)

	picks := []PickResult{correctPick(1, "Team A"), correctPick(3, "Team C")}
	before := strategy.Score(picks, nil).Total

	for round, pts := range DefaultRoundPoints {
		extended := append([]PickResult{}, picks...)
		extended = append(extended, correctPick(round, "Team X"))
		after := strategy.Score(extended, nil).Total
		assert.InDelta(t, pts, after-before, 1e-9, "round %d", round)
	}
}

func TestCrowdBoundaries(t *testing.T) {
	strategy := ForMode(AccuracyBoldness)

	node := uuid.New()
	pick := PickResult{NodeID: node, Round: 1, PickedTeamName: "Chalk U", IsCorrect: utils.Ptr(true)}

	t.Run("whole league on the same pick gives no bonus", func(t *testing.T) {
		dist := Distribution{node: {"Chalk U": 20}}
		result := strategy.Score([]PickResult{pick}, dist)
		assert.Equal(t, 1.0, result.Total)
	})

	t.Run("lone correct pick gets the max configured bonus", func(t *testing.T) {
		dist := Distribution{node: {"Chalk U": 1, "Other U": 99}}
		result := strategy.Score([]PickResult{pick}, dist)
		// share 1/100, sqrt curve gives x10, capped at 3
		assert.Equal(t, 3.0, result.Total)
	})

	t.Run("missing distribution scores as typical", func(t *testing.T) {
		result := strategy.Score([]PickResult{pick}, Distribution{})
		assert.Equal(t, 1.0, result.Total)
	})
}

func TestCrowdCurveBetweenBounds(t *testing.T) {
	strategy := ForMode(AccuracyBoldness)

	node := uuid.New()
	pick := PickResult{NodeID: node, Round: 2, PickedTeamName: "Upset State", IsCorrect: utils.Ptr(true)}

	// share 1/4 -> sqrt(4) = 2x on 2 base points
	dist := Distribution{node: {"Upset State": 1, "Chalk U": 3}}
	result := strategy.Score([]PickResult{pick}, dist)
	assert.InDelta(t, 4.0, result.Total, 1e-9)
	assert.InDelta(t, 2.0, result.Details["boldnessBonus"], 1e-9)
}

func TestFanCredEdgeUsesItsOwnTable(t *testing.T) {
	strategy := ForMode(FanCredEdge)

	node := uuid.New()
	pick := PickResult{NodeID: node, Round: 3, PickedTeamName: "Chalk U", IsCorrect: utils.Ptr(true)}
	dist := Distribution{node: {"Chalk U": 10}}

	result := strategy.Score([]PickResult{pick}, dist)
	assert.Equal(t, 5.0, result.Total, "round 3 pays 5 on the FanCred table")
}

func TestStreakSurvival(t *testing.T) {
	strategy := ForMode(StreakSurvival)

	t.Run("unbroken run accumulates escalating bonus", func(t *testing.T) {
		picks := []PickResult{
			correctPick(1, "A"),
			correctPick(2, "A"),
			correctPick(3, "A"),
		}
		result := strategy.Score(picks, nil)
		// 1 + (2+2) + (4+4) = 13
		assert.Equal(t, 13.0, result.Total)
		assert.Equal(t, 3, result.Details["currentStreak"])
		assert.Equal(t, 3, result.Details["longestStreak"])
	})

	t.Run("a wrong pick zeroes the active run", func(t *testing.T) {
		picks := []PickResult{
			correctPick(1, "A"),
			correctPick(2, "A"),
			wrongPick(3, "A"),
			correctPick(4, "A"),
		}
		result := strategy.Score(picks, nil)
		// 1 + (2+2) then reset, round 4 starts a fresh run at 8
		assert.Equal(t, 13.0, result.Total)
		assert.Equal(t, 1, result.Details["currentStreak"])
		assert.Equal(t, 2, result.Details["longestStreak"])
	})

	t.Run("pending picks neither extend nor break a run", func(t *testing.T) {
		picks := []PickResult{
			correctPick(1, "A"),
			pendingPick(2, "A"),
			correctPick(3, "A"),
		}
		result := strategy.Score(picks, nil)
		// 1 + (4+2): round 3 continues the run
		assert.Equal(t, 7.0, result.Total)
		assert.Equal(t, 2, result.Details["currentStreak"])
	})

	t.Run("rounds are walked in order regardless of input order", func(t *testing.T) {
		picks := []PickResult{
			correctPick(3, "A"),
			wrongPick(1, "A"),
			correctPick(2, "A"),
		}
		result := strategy.Score(picks, nil)
		assert.Equal(t, 2, result.Details["currentStreak"])
		assert.Equal(t, 2, result.Details["longestStreak"])
	})
}

func TestDistributionShare(t *testing.T) {
	node := uuid.New()
	dist := Distribution{node: {"A": 3, "B": 1}}

	assert.InDelta(t, 0.75, dist.Share(node, "A"), 1e-9)
	assert.InDelta(t, 0.25, dist.Share(node, "B"), 1e-9)
	assert.Equal(t, 1.0, dist.Share(node, "C"), "unknown team is treated as typical")
	assert.Equal(t, 1.0, dist.Share(uuid.New(), "A"), "unknown node is treated as typical")
}

func TestRoundPointsTables(t *testing.T) {
	require.Equal(t, DefaultRoundPoints, RoundPoints(Momentum))
	require.Equal(t, DefaultRoundPoints, RoundPoints(AccuracyBoldness))
	require.Equal(t, DefaultRoundPoints, RoundPoints(StreakSurvival))
	require.Equal(t, FanCredRoundPoints, RoundPoints(FanCredEdge))
}

package service

import (
	"testing"

	"github.com/allfantasy/bracket-live/internal/bracket"
	"github.com/allfantasy/bracket-live/internal/scoring"
	"github.com/allfantasy/bracket-live/internal/utils"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pick(entryID, nodeID uuid.UUID, team string, correct *bool) bracket.Pick {
	return bracket.Pick{
		ID:             uuid.New(),
		EntryID:        entryID,
		NodeID:         nodeID,
		PickedTeamName: team,
		IsCorrect:      correct,
	}
}

func TestResolveLedgerTallies(t *testing.T) {
	entryID := uuid.New()
	n1, n2, n3, n4 := uuid.New(), uuid.New(), uuid.New(), uuid.New()
	rounds := map[uuid.UUID]int{n1: 1, n2: 2, n3: 3, n4: 6}

	picks := []bracket.Pick{
		pick(entryID, n1, "A", utils.Ptr(true)),
		pick(entryID, n2, "A", utils.Ptr(false)),
		pick(entryID, n3, "A", nil),
		pick(entryID, n4, "A", nil),
	}

	ledger := ResolveLedger(picks, rounds, nil, scoring.DefaultRoundPoints)

	assert.Equal(t, 1, ledger.CorrectPicks)
	assert.Equal(t, 2, ledger.TotalPicks, "only resolved picks count")
	assert.Equal(t, map[int]int{1: 1}, ledger.RoundCorrect)
	require.NotNil(t, ledger.ChampionPick)
	assert.Equal(t, "A", *ledger.ChampionPick)

	// Correct round 1 + pending rounds 3 and 6 stay in the ceiling; the
	// wrong round-2 pick drops out
	assert.Equal(t, 1.0+4.0+32.0, ledger.MaxPossible)
}

// correct + wrong + pending always partitions the pick count
func TestLedgerConservation(t *testing.T) {
	entryID := uuid.New()
	rounds := map[uuid.UUID]int{}
	var picks []bracket.Pick

	states := []*bool{utils.Ptr(true), utils.Ptr(false), nil, utils.Ptr(true), nil, utils.Ptr(false), utils.Ptr(true)}
	for i, state := range states {
		nodeID := uuid.New()
		rounds[nodeID] = i%6 + 1
		picks = append(picks, pick(entryID, nodeID, "A", state))
	}

	ledger := ResolveLedger(picks, rounds, nil, scoring.DefaultRoundPoints)

	wrong := 0
	pending := 0
	for _, p := range picks {
		switch {
		case p.IsCorrect == nil:
			pending++
		case !*p.IsCorrect:
			wrong++
		}
	}
	assert.Equal(t, len(picks), ledger.CorrectPicks+wrong+pending)
	assert.Equal(t, len(picks)-pending, ledger.TotalPicks)
}

func TestResolveLedgerMissingNode(t *testing.T) {
	entryID := uuid.New()
	orphan := pick(entryID, uuid.New(), "A", utils.Ptr(true))

	ledger := ResolveLedger([]bracket.Pick{orphan}, map[uuid.UUID]int{}, nil, scoring.DefaultRoundPoints)

	assert.Equal(t, 1, ledger.CorrectPicks, "orphaned pick still counts as correct")
	assert.Empty(t, ledger.RoundCorrect, "round 0 is excluded from round buckets")
	assert.Equal(t, 0.0, ledger.MaxPossible, "round 0 awards no points")
}

// The strategy total can never exceed the ledger ceiling under the same mode.
func TestMaxPossibleIsUpperBound(t *testing.T) {
	entryID := uuid.New()
	rounds := map[uuid.UUID]int{}
	var picks []bracket.Pick
	for r := 1; r <= 6; r++ {
		nodeID := uuid.New()
		rounds[nodeID] = r
		var state *bool
		if r <= 4 {
			state = utils.Ptr(r%2 == 1)
		}
		picks = append(picks, pick(entryID, nodeID, "A", state))
	}

	for _, mode := range []scoring.Mode{scoring.Momentum, scoring.FanCredEdge} {
		ledger := ResolveLedger(picks, rounds, nil, scoring.RoundPoints(mode))
		total := scoring.ForMode(mode).Score(ledger.Results, nil).Total
		assert.LessOrEqual(t, total, ledger.MaxPossible, "mode %s", mode)
	}
}

func TestBuildSeedMapUsesRound1Only(t *testing.T) {
	nodes := []bracket.Node{
		{
			ID: uuid.New(), Round: 1,
			HomeTeamName: utils.Ptr("Top Seed U"), SeedHome: utils.Ptr(1),
			AwayTeamName: utils.Ptr("Longshot State"), SeedAway: utils.Ptr(16),
		},
		{
			ID: uuid.New(), Round: 2,
			HomeTeamName: utils.Ptr("Top Seed U"), SeedHome: utils.Ptr(99),
		},
	}

	seeds := BuildSeedMap(nodes)
	assert.Equal(t, map[string]int{"Top Seed U": 1, "Longshot State": 16}, seeds)
}

func TestSleeperTeams(t *testing.T) {
	r1a := bracket.Node{
		ID: uuid.New(), Round: 1,
		HomeTeamName: utils.Ptr("Top Seed U"), SeedHome: utils.Ptr(1),
		AwayTeamName: utils.Ptr("Longshot State"), SeedAway: utils.Ptr(16),
	}
	r1b := bracket.Node{
		ID: uuid.New(), Round: 1,
		HomeTeamName: utils.Ptr("Eight U"), SeedHome: utils.Ptr(8),
		AwayTeamName: utils.Ptr("Nine Tech"), SeedAway: utils.Ptr(9),
	}
	r2 := bracket.Node{ID: uuid.New(), Round: 2}
	nodes := []bracket.Node{r1a, r1b, r2}

	t.Run("a 16 seed winning twice is a sleeper", func(t *testing.T) {
		winners := map[uuid.UUID]*string{
			r1a.ID: utils.Ptr("Longshot State"),
			r1b.ID: utils.Ptr("Eight U"),
			r2.ID:  utils.Ptr("Longshot State"),
		}
		assert.Equal(t, []string{"Longshot State"}, SleeperTeams(nodes, winners))
	})

	t.Run("a 1 seed meeting its baseline is not", func(t *testing.T) {
		winners := map[uuid.UUID]*string{
			r1a.ID: utils.Ptr("Top Seed U"),
			r1b.ID: utils.Ptr("Nine Tech"),
			r2.ID:  utils.Ptr("Top Seed U"),
		}
		// Top Seed U has 2 wins against an expected 4; Nine Tech has 1
		// against an expected 0
		assert.Equal(t, []string{"Nine Tech"}, SleeperTeams(nodes, winners))
	})

	t.Run("no winners, no sleepers", func(t *testing.T) {
		assert.Empty(t, SleeperTeams(nodes, map[uuid.UUID]*string{}))
	})
}

func TestSortStandingsStable(t *testing.T) {
	rows := []StandingsRow{
		{EntryName: "first in, ten", TotalPoints: 10},
		{EntryName: "twelve", TotalPoints: 12},
		{EntryName: "second in, ten", TotalPoints: 10},
		{EntryName: "third in, ten", TotalPoints: 10},
	}

	SortStandings(rows)

	assert.Equal(t, "twelve", rows[0].EntryName)
	assert.Equal(t, "first in, ten", rows[1].EntryName)
	assert.Equal(t, "second in, ten", rows[2].EntryName)
	assert.Equal(t, "third in, ten", rows[3].EntryName)
}

func TestBuildDistribution(t *testing.T) {
	node := uuid.New()
	picks := []bracket.Pick{
		pick(uuid.New(), node, "A", nil),
		pick(uuid.New(), node, "A", nil),
		pick(uuid.New(), node, "B", nil),
	}

	dist := BuildDistribution(picks)
	assert.Equal(t, 2, dist[node]["A"])
	assert.Equal(t, 1, dist[node]["B"])
}

package service

import (
	"log/slog"
	"sort"

	"github.com/allfantasy/bracket-live/internal/bracket"
	"github.com/allfantasy/bracket-live/internal/scoring"
	"github.com/google/uuid"
)

// Rounds above this never award points; the championship pick lives here.
const championRound = 6

// Expected bracket wins per seed. A team that wins more rounds than its seed
// baseline is flagged as a sleeper.
var seedExpectedWins = map[int]int{1: 4, 2: 3, 3: 2, 4: 2, 5: 1, 6: 1, 7: 1, 8: 1}

// Ledger is one entry's picks resolved against the current bracket state,
// plus the tallies the standings table renders.
type Ledger struct {
	Results      []scoring.PickResult
	CorrectPicks int
	TotalPicks   int
	RoundCorrect map[int]int
	ChampionPick *string
	MaxPossible  float64
}

// BuildRoundMap indexes node id to round for the whole tournament.
func BuildRoundMap(nodes []bracket.Node) map[uuid.UUID]int {
	rounds := make(map[uuid.UUID]int, len(nodes))
	for _, n := range nodes {
		rounds[n.ID] = n.Round
	}
	return rounds
}

// BuildSeedMap maps team name to seed using round-1 nodes only. Seeds on
// later rounds are meaningless and must not leak into the map.
func BuildSeedMap(nodes []bracket.Node) map[string]int {
	seeds := map[string]int{}
	for _, n := range nodes {
		if n.Round != 1 {
			continue
		}
		if n.HomeTeamName != nil && n.SeedHome != nil {
			seeds[*n.HomeTeamName] = *n.SeedHome
		}
		if n.AwayTeamName != nil && n.SeedAway != nil {
			seeds[*n.AwayTeamName] = *n.SeedAway
		}
	}
	return seeds
}

// ResolveLedger joins an entry's picks against the round and seed maps and
// tallies correctness. A pick whose node is missing from the round map is
// kept at round 0 and excluded from round buckets; that points at a
// data-integrity problem upstream, so it is logged rather than fatal.
func ResolveLedger(picks []bracket.Pick, rounds map[uuid.UUID]int, seeds map[string]int, points map[int]float64) Ledger {
	ledger := Ledger{RoundCorrect: map[int]int{}}
	for _, p := range picks {
		round, ok := rounds[p.NodeID]
		if !ok {
			slog.Warn("pick references unknown node", "pick", p.ID, "node", p.NodeID)
			round = 0
		}

		result := scoring.PickResult{
			NodeID:         p.NodeID,
			Round:          round,
			PickedTeamName: p.PickedTeamName,
			IsCorrect:      p.IsCorrect,
		}
		if seed, ok := seeds[p.PickedTeamName]; ok {
			s := seed
			result.PickedSeed = &s
		}
		ledger.Results = append(ledger.Results, result)

		if p.IsCorrect != nil {
			ledger.TotalPicks++
			if *p.IsCorrect {
				ledger.CorrectPicks++
				if round >= 1 && round <= championRound {
					ledger.RoundCorrect[round]++
				}
			}
		}

		// Still-alive picks count toward the theoretical ceiling
		if (p.IsCorrect == nil || *p.IsCorrect) && round >= 1 && round <= championRound {
			ledger.MaxPossible += points[round]
		}

		if round == championRound {
			name := p.PickedTeamName
			ledger.ChampionPick = &name
		}
	}
	return ledger
}

// BuildDistribution counts, per node, how many league entries picked each
// team.
func BuildDistribution(picks []bracket.Pick) scoring.Distribution {
	dist := scoring.Distribution{}
	for _, p := range picks {
		counts, ok := dist[p.NodeID]
		if !ok {
			counts = map[string]int{}
			dist[p.NodeID] = counts
		}
		counts[p.PickedTeamName]++
	}
	return dist
}

// SleeperTeams flags teams whose resolved bracket wins exceed the expected
// win count for their seed. Winners is node id -> resolved winner, nil while
// undecided.
func SleeperTeams(nodes []bracket.Node, winners map[uuid.UUID]*string) []string {
	wins := map[string]int{}
	for _, n := range nodes {
		if w := winners[n.ID]; w != nil {
			wins[*w]++
		}
	}

	seeds := BuildSeedMap(nodes)
	sleepers := []string{}
	for team, won := range wins {
		seed, ok := seeds[team]
		if !ok {
			continue
		}
		if won > seedExpectedWins[seed] {
			sleepers = append(sleepers, team)
		}
	}
	sort.Strings(sleepers)
	return sleepers
}

// StandingsRow is one leaderboard line; rank is implicit in array order.
type StandingsRow struct {
	EntryID        uuid.UUID      `json:"entryId"`
	EntryName      string         `json:"entryName"`
	UserID         uuid.UUID      `json:"userId"`
	DisplayName    string         `json:"displayName"`
	AvatarURL      *string        `json:"avatarUrl"`
	TotalPoints    float64        `json:"totalPoints"`
	CorrectPicks   int            `json:"correctPicks"`
	TotalPicks     int            `json:"totalPicks"`
	RoundCorrect   map[int]int    `json:"roundCorrect"`
	ChampionPick   *string        `json:"championPick"`
	MaxPossible    float64        `json:"maxPossible"`
	ScoringDetails map[string]any `json:"scoringDetails"`
}

// SortStandings orders rows by total points descending. Ties keep their
// sign-up order: there is no documented secondary key, so the sort stays
// stable instead of inventing one.
func SortStandings(rows []StandingsRow) {
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].TotalPoints > rows[j].TotalPoints
	})
}

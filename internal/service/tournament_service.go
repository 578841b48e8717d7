package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/allfantasy/bracket-live/internal/bracket"
	"github.com/allfantasy/bracket-live/internal/store"
	"github.com/allfantasy/bracket-live/internal/utils"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const (
	regionTeams  = 16
	regionRounds = 4
	totalRounds  = 6
)

type TournamentService struct {
	db    *sqlx.DB
	store *store.TournamentStore
}

func NewTournamentService(db *sqlx.DB, store *store.TournamentStore) *TournamentService {
	return &TournamentService{db: db, store: store}
}

type SeedTeam struct {
	Name string
	Seed int
}

type RegionInput struct {
	Name  string
	Teams []SeedTeam
}

// generateRound1Pairs lays out the first round of a bracket of the given
// size so that, in later rounds, the highest surviving seeds meet as late as
// possible. Seeds are 0-indexed here.
func generateRound1Pairs(bracketSize int) [][2]int {
	if bracketSize == 0 {
		return [][2]int{}
	}

	rounds := []int{0}
	for len(rounds) < bracketSize {
		var nextRound []int
		currentCount := len(rounds) * 2

		for _, seed := range rounds {
			nextRound = append(nextRound, seed)
			nextRound = append(nextRound, (currentCount-1)-seed)
		}
		rounds = nextRound
	}

	pairs := make([][2]int, 0, bracketSize/2)
	for i := 0; i < len(rounds); i += 2 {
		matchup := [2]int{rounds[i], rounds[i+1]}
		pairs = append(pairs, matchup)
	}

	return pairs
}

// GenerateBracket builds the full node graph for a four-region field:
// rounds 1..4 inside each region, the Final Four at round 5 and the
// championship at round 6. Nodes are emitted championship-first so each
// node's next-node edge always points at a node earlier in the slice.
func GenerateBracket(tournamentID uuid.UUID, regions []RegionInput) []bracket.Node {
	var nodes []bracket.Node

	champ := bracket.Node{
		ID:           uuid.New(),
		TournamentID: tournamentID,
		Round:        totalRounds,
		Slot:         "CHAMP",
	}
	nodes = append(nodes, champ)

	finalFour := make([]bracket.Node, 2)
	for i := range finalFour {
		side := bracket.HomeSide
		if i == 1 {
			side = bracket.AwaySide
		}
		finalFour[i] = bracket.Node{
			ID:           uuid.New(),
			TournamentID: tournamentID,
			Round:        totalRounds - 1,
			Slot:         fmt.Sprintf("FF-%02d", i+1),
			NextNodeID:   &champ.ID,
			NextNodeSide: utils.Ptr(side),
		}
		nodes = append(nodes, finalFour[i])
	}

	for ri, region := range regions {
		teams := make([]SeedTeam, len(region.Teams))
		copy(teams, region.Teams)
		sort.Slice(teams, func(i, j int) bool { return teams[i].Seed < teams[j].Seed })

		// The regional final feeds its half of the Final Four
		ffNode := finalFour[ri/2]
		ffSide := bracket.HomeSide
		if ri%2 == 1 {
			ffSide = bracket.AwaySide
		}

		// Same backward construction as the Final Four: each round's nodes
		// point at the already-built round above it.
		nextRoundNodes := []bracket.Node{}
		for r := regionRounds; r >= 1; r-- {
			nodesInRound := 1 << (regionRounds - r)
			currentRoundNodes := make([]bracket.Node, 0, nodesInRound)

			for i := 0; i < nodesInRound; i++ {
				n := bracket.Node{
					ID:           uuid.New(),
					TournamentID: tournamentID,
					Round:        r,
					Slot:         fmt.Sprintf("%s-R%d-%02d", region.Name, r, i+1),
					Region:       utils.Ptr(region.Name),
				}

				if r == regionRounds {
					n.NextNodeID = &ffNode.ID
					n.NextNodeSide = utils.Ptr(ffSide)
				} else {
					parent := nextRoundNodes[i/2]
					n.NextNodeID = &parent.ID
					if i%2 == 0 {
						n.NextNodeSide = utils.Ptr(bracket.HomeSide)
					} else {
						n.NextNodeSide = utils.Ptr(bracket.AwaySide)
					}
				}

				currentRoundNodes = append(currentRoundNodes, n)
			}
			nodes = append(nodes, currentRoundNodes...)
			nextRoundNodes = currentRoundNodes
		}

		// nextRoundNodes now holds round 1; fill in the seeded matchups
		pairs := generateRound1Pairs(regionTeams)
		for i, pair := range pairs {
			if i >= len(nextRoundNodes) {
				break
			}
			n := &nodes[len(nodes)-len(nextRoundNodes)+i]
			if pair[0] < len(teams) {
				n.HomeTeamName = utils.Ptr(teams[pair[0]].Name)
				n.SeedHome = utils.Ptr(teams[pair[0]].Seed)
			}
			if pair[1] < len(teams) {
				n.AwayTeamName = utils.Ptr(teams[pair[1]].Name)
				n.SeedAway = utils.Ptr(teams[pair[1]].Seed)
			}
		}
	}

	return nodes
}

// CreateTournament seeds a tournament and its whole bracket in one
// transaction. Four regions of sixteen teams each are required; the bracket
// topology never changes after this.
func (s *TournamentService) CreateTournament(ctx context.Context, name, season, sport string, regions []RegionInput) (uuid.UUID, error) {
	if len(regions) != 4 {
		return uuid.Nil, fmt.Errorf("expected 4 regions, got %d", len(regions))
	}
	for _, r := range regions {
		if len(r.Teams) != regionTeams {
			return uuid.Nil, fmt.Errorf("region %s has %d teams, expected %d", r.Name, len(r.Teams), regionTeams)
		}
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return uuid.Nil, err
	}
	defer tx.Rollback()

	tournamentID := uuid.New()
	tournament := bracket.Tournament{
		ID:     tournamentID,
		Name:   name,
		Season: season,
		Sport:  sport,
	}

	if err := s.store.CreateTournament(ctx, tx, &tournament); err != nil {
		return uuid.Nil, err
	}

	nodes := GenerateBracket(tournamentID, regions)
	if err := s.store.CreateNodes(ctx, tx, nodes); err != nil {
		return uuid.Nil, err
	}

	return tournamentID, tx.Commit()
}

// LinkGame attaches a live-game record to a node.
func (s *TournamentService) LinkGame(ctx context.Context, nodeID, gameID uuid.UUID) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := s.store.AttachGame(ctx, tx, nodeID, gameID); err != nil {
		return err
	}
	return tx.Commit()
}

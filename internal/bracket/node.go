package bracket

import (
	"time"

	"github.com/google/uuid"
)

type NodeSide string

const (
	HomeSide NodeSide = "home"
	AwaySide NodeSide = "away"
)

// Node is one matchup slot in the single-elimination tree. Nodes are created
// once at seeding time; team names fill in as earlier rounds resolve. Every
// node except the championship carries exactly one outgoing edge
// (NextNodeID + NextNodeSide), so the nodes of a tournament form a binary
// in-tree converging on the championship node.
type Node struct {
	ID           uuid.UUID `db:"id"`
	TournamentID uuid.UUID `db:"tournament_id"`

	// Position in the bracket for reconstructing the view
	Round  int     `db:"round"`
	Slot   string  `db:"slot"`
	Region *string `db:"region"`

	// Seeds are only meaningful on round-1 nodes
	SeedHome *int `db:"seed_home"`
	SeedAway *int `db:"seed_away"`

	HomeTeamName *string `db:"home_team_name"`
	AwayTeamName *string `db:"away_team_name"`

	NextNodeID   *uuid.UUID `db:"next_node_id"`
	NextNodeSide *NodeSide  `db:"next_node_side"`

	// Link to the external live-game record, if one has been attached
	SportsGameID *uuid.UUID `db:"sports_game_id"`

	CreatedAt time.Time `db:"created_at"`
}

// Winner derives the node's resolved winner from its linked game. A game that
// is absent, not final, or tied at final yields nil: a tied final is a
// data-integrity problem and the node stays unresolved rather than guessing.
func (n *Node) Winner(game *Game) *string {
	if game == nil || game.Status != GameFinal {
		return nil
	}
	switch {
	case game.HomeScore > game.AwayScore:
		return n.HomeTeamName
	case game.AwayScore > game.HomeScore:
		return n.AwayTeamName
	default:
		return nil
	}
}

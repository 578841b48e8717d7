package bracket

import (
	"time"

	"github.com/google/uuid"
)

// League binds a set of entries to a tournament and a scoring mode. The mode
// is kept as a plain string here; the scoring package owns parsing it.
type League struct {
	ID           uuid.UUID `db:"id"`
	TournamentID uuid.UUID `db:"tournament_id"`
	Name         string    `db:"name"`
	ScoringMode  string    `db:"scoring_mode"`
	CreatedAt    time.Time `db:"created_at"`
}

type Entry struct {
	ID        uuid.UUID `db:"id"`
	LeagueID  uuid.UUID `db:"league_id"`
	UserID    uuid.UUID `db:"user_id"`
	Name      string    `db:"name"`
	CreatedAt time.Time `db:"created_at"`
}

// Pick is one entry's predicted winner for one node. IsCorrect is tri-state:
// nil while the node is unresolved, then set by the resolution job. It is
// derived data, never user-set.
type Pick struct {
	ID             uuid.UUID `db:"id"`
	EntryID        uuid.UUID `db:"entry_id"`
	NodeID         uuid.UUID `db:"node_id"`
	PickedTeamName string    `db:"picked_team_name"`
	IsCorrect      *bool     `db:"is_correct"`
	UpdatedAt      time.Time `db:"updated_at"`
}

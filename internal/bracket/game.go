package bracket

import (
	"time"

	"github.com/google/uuid"
)

type GameStatus string

const (
	GameScheduled  GameStatus = "scheduled"
	GameInProgress GameStatus = "in_progress"
	GameFinal      GameStatus = "final"
)

// Game mirrors the external live-score feed. The engine reads these rows and
// never mutates them; an ingest endpoint upserts them from the feed.
type Game struct {
	ID        uuid.UUID  `db:"id"`
	HomeTeam  string     `db:"home_team"`
	AwayTeam  string     `db:"away_team"`
	HomeScore int        `db:"home_score"`
	AwayScore int        `db:"away_score"`
	Status    GameStatus `db:"status"`
	StartTime *time.Time `db:"start_time"`
	Venue     *string    `db:"venue"`
	FetchedAt time.Time  `db:"fetched_at"`
}

// Started reports whether picks on this game's node should be locked.
func (g *Game) Started(now time.Time) bool {
	if g.Status != GameScheduled {
		return true
	}
	return g.StartTime != nil && !now.Before(*g.StartTime)
}

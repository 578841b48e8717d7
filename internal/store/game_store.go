package store

import (
	"context"

	"github.com/allfantasy/bracket-live/internal/bracket"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type GameStore struct {
	db *sqlx.DB
}

func NewGameStore(db *sqlx.DB) *GameStore {
	return &GameStore{db: db}
}

// UpsertGame writes the latest feed snapshot for a game. The row is a mirror
// of the external system of record; nothing in this service edits scores by
// hand.
func (s *GameStore) UpsertGame(ctx context.Context, game *bracket.Game) error {
	_, err := s.db.NamedExecContext(ctx, `INSERT INTO games (id, home_team, away_team, home_score, away_score, status, start_time, venue, fetched_at)
		VALUES (:id, :home_team, :away_team, :home_score, :away_score, :status, :start_time, :venue, :fetched_at)
		ON CONFLICT(id) DO UPDATE SET
			home_score = excluded.home_score,
			away_score = excluded.away_score,
			status = excluded.status,
			start_time = excluded.start_time,
			venue = excluded.venue,
			fetched_at = excluded.fetched_at`, game)
	return err
}

func (s *GameStore) GetGame(ctx context.Context, id string) (*bracket.Game, error) {
	var game bracket.Game
	err := s.db.GetContext(ctx, &game, "SELECT * FROM games WHERE id = ?", id)
	return &game, err
}

func (s *GameStore) GetGamesByIDs(ctx context.Context, ids []uuid.UUID) ([]bracket.Game, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query, args, err := sqlx.In("SELECT * FROM games WHERE id IN (?)", ids)
	if err != nil {
		return nil, err
	}
	var games []bracket.Game
	err = s.db.SelectContext(ctx, &games, s.db.Rebind(query), args...)
	return games, err
}

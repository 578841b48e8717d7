package store

import (
	"context"

	"github.com/allfantasy/bracket-live/internal/bracket"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type LeagueStore struct {
	db *sqlx.DB
}

func NewLeagueStore(db *sqlx.DB) *LeagueStore {
	return &LeagueStore{db: db}
}

func (s *LeagueStore) CreateLeague(ctx context.Context, tx *sqlx.Tx, league *bracket.League) error {
	_, err := tx.NamedExecContext(ctx, `INSERT INTO leagues (id, tournament_id, name, scoring_mode)
		VALUES (:id, :tournament_id, :name, :scoring_mode)`, league)
	return err
}

func (s *LeagueStore) GetLeague(ctx context.Context, id string) (*bracket.League, error) {
	var league bracket.League
	err := s.db.GetContext(ctx, &league, "SELECT * FROM leagues WHERE id = ?", id)
	return &league, err
}

func (s *LeagueStore) CreateEntry(ctx context.Context, tx *sqlx.Tx, entry *bracket.Entry) error {
	_, err := tx.NamedExecContext(ctx, `INSERT INTO entries (id, league_id, user_id, name)
		VALUES (:id, :league_id, :user_id, :name)`, entry)
	return err
}

func (s *LeagueStore) GetEntry(ctx context.Context, id string) (*bracket.Entry, error) {
	var entry bracket.Entry
	err := s.db.GetContext(ctx, &entry, "SELECT * FROM entries WHERE id = ?", id)
	return &entry, err
}

// GetEntries returns a league's entries in sign-up order. Standings rely on
// this ordering for stable tie handling, so keep it deterministic.
func (s *LeagueStore) GetEntries(ctx context.Context, leagueID string) ([]bracket.Entry, error) {
	var entries []bracket.Entry
	err := s.db.SelectContext(ctx, &entries, "SELECT * FROM entries WHERE league_id = ? ORDER BY created_at ASC, rowid ASC", leagueID)
	return entries, err
}

func (s *LeagueStore) UpsertPick(ctx context.Context, pick *bracket.Pick) error {
	_, err := s.db.NamedExecContext(ctx, `INSERT INTO picks (id, entry_id, node_id, picked_team_name, updated_at)
		VALUES (:id, :entry_id, :node_id, :picked_team_name, :updated_at)
		ON CONFLICT(entry_id, node_id) DO UPDATE SET
			picked_team_name = excluded.picked_team_name,
			is_correct = NULL,
			updated_at = excluded.updated_at`, pick)
	return err
}

func (s *LeagueStore) GetPicksByEntry(ctx context.Context, entryID string) ([]bracket.Pick, error) {
	var picks []bracket.Pick
	err := s.db.SelectContext(ctx, &picks, "SELECT * FROM picks WHERE entry_id = ?", entryID)
	return picks, err
}

// GetPicksByLeague returns every pick across all of a league's entries, used
// to build the per-node pick distribution for the crowd-aware scoring modes.
func (s *LeagueStore) GetPicksByLeague(ctx context.Context, leagueID string) ([]bracket.Pick, error) {
	var picks []bracket.Pick
	err := s.db.SelectContext(ctx, &picks, `SELECT p.* FROM picks p
		JOIN entries e ON e.id = p.entry_id
		WHERE e.league_id = ?`, leagueID)
	return picks, err
}

func (s *LeagueStore) GetPicksByNodeIDs(ctx context.Context, nodeIDs []uuid.UUID) ([]bracket.Pick, error) {
	if len(nodeIDs) == 0 {
		return nil, nil
	}
	query, args, err := sqlx.In("SELECT * FROM picks WHERE node_id IN (?)", nodeIDs)
	if err != nil {
		return nil, err
	}
	var picks []bracket.Pick
	err = s.db.SelectContext(ctx, &picks, s.db.Rebind(query), args...)
	return picks, err
}

func (s *LeagueStore) SetPickCorrectness(ctx context.Context, tx *sqlx.Tx, pickID uuid.UUID, correct bool) error {
	_, err := tx.ExecContext(ctx, "UPDATE picks SET is_correct = ? WHERE id = ?", correct, pickID)
	return err
}

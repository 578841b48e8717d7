package store

import (
	"context"

	"github.com/allfantasy/bracket-live/internal/bracket"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type TournamentStore struct {
	db *sqlx.DB
}

func NewTournamentStore(db *sqlx.DB) *TournamentStore {
	return &TournamentStore{db: db}
}

func (s *TournamentStore) CreateTournament(ctx context.Context, tx *sqlx.Tx, tournament *bracket.Tournament) error {
	_, err := tx.NamedExecContext(ctx, `INSERT INTO tournaments (id, name, season, sport)
        VALUES (:id, :name, :season, :sport)`, tournament)
	return err
}

func (s *TournamentStore) CreateNodes(ctx context.Context, tx *sqlx.Tx, nodes []bracket.Node) error {
	if len(nodes) == 0 {
		return nil
	}
	_, err := tx.NamedExecContext(ctx, `INSERT INTO nodes (id, tournament_id, round, slot, region, seed_home, seed_away, home_team_name, away_team_name, next_node_id, next_node_side, sports_game_id)
		VALUES (:id, :tournament_id, :round, :slot, :region, :seed_home, :seed_away, :home_team_name, :away_team_name, :next_node_id, :next_node_side, :sports_game_id)`, nodes)
	return err
}

func (s *TournamentStore) GetTournament(ctx context.Context, id string) (*bracket.Tournament, error) {
	var tournament bracket.Tournament
	err := s.db.GetContext(ctx, &tournament, "SELECT * FROM tournaments WHERE id = ?", id)
	return &tournament, err
}

// GetNodes returns all nodes of a tournament in ascending round order, so a
// caller seeding winners forward always sees a node's feeders before the
// node itself.
func (s *TournamentStore) GetNodes(ctx context.Context, tournamentID string) ([]bracket.Node, error) {
	var nodes []bracket.Node
	err := s.db.SelectContext(ctx, &nodes, "SELECT * FROM nodes WHERE tournament_id = ? ORDER BY round ASC, slot ASC", tournamentID)
	return nodes, err
}

func (s *TournamentStore) GetNode(ctx context.Context, id string) (*bracket.Node, error) {
	var node bracket.Node
	err := s.db.GetContext(ctx, &node, "SELECT * FROM nodes WHERE id = ?", id)
	return &node, err
}

func (s *TournamentStore) UpdateNodeTeams(ctx context.Context, tx *sqlx.Tx, node *bracket.Node) error {
	_, err := tx.NamedExecContext(ctx, `UPDATE nodes SET home_team_name = :home_team_name, away_team_name = :away_team_name WHERE id = :id`, node)
	return err
}

func (s *TournamentStore) AttachGame(ctx context.Context, tx *sqlx.Tx, nodeID, gameID uuid.UUID) error {
	_, err := tx.ExecContext(ctx, "UPDATE nodes SET sports_game_id = ? WHERE id = ?", gameID, nodeID)
	return err
}

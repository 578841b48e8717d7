package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/allfantasy/bracket-live/internal/bracket"
	"github.com/allfantasy/bracket-live/internal/store"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// ResolutionService is the write path the live read path assumes has already
// run: it derives winners from final games, carries winner names into the
// next round's nodes and marks pick correctness. Safe to run repeatedly.
type ResolutionService struct {
	db          *sqlx.DB
	tournaments *store.TournamentStore
	games       *store.GameStore
	leagues     *store.LeagueStore
}

func NewResolutionService(db *sqlx.DB, tournaments *store.TournamentStore, games *store.GameStore, leagues *store.LeagueStore) *ResolutionService {
	return &ResolutionService{db: db, tournaments: tournaments, games: games, leagues: leagues}
}

// ResolveTournament walks the bracket in ascending round order so every
// node's team names are in place before its own winner is derived. Returns
// the number of nodes with a resolved winner.
func (s *ResolutionService) ResolveTournament(ctx context.Context, tournamentID string) (int, error) {
	nodes, err := s.tournaments.GetNodes(ctx, tournamentID)
	if err != nil {
		return 0, fmt.Errorf("failed to get nodes: %w", err)
	}

	var gameIDs []uuid.UUID
	for _, n := range nodes {
		if n.SportsGameID != nil {
			gameIDs = append(gameIDs, *n.SportsGameID)
		}
	}
	games, err := s.games.GetGamesByIDs(ctx, gameIDs)
	if err != nil {
		return 0, fmt.Errorf("failed to get games: %w", err)
	}
	gamesByID := make(map[uuid.UUID]*bracket.Game, len(games))
	for i := range games {
		gamesByID[games[i].ID] = &games[i]
	}

	nodesByID := make(map[uuid.UUID]*bracket.Node, len(nodes))
	for i := range nodes {
		nodesByID[nodes[i].ID] = &nodes[i]
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	resolved := 0
	var resolvedIDs []uuid.UUID
	winners := map[uuid.UUID]string{}

	// GetNodes orders by round, so feeders are always processed first
	for i := range nodes {
		n := &nodes[i]

		var game *bracket.Game
		if n.SportsGameID != nil {
			game = gamesByID[*n.SportsGameID]
		}
		if game != nil && game.Status == bracket.GameFinal && game.HomeScore == game.AwayScore {
			// Tied finals stall this branch of the bracket; leave the node
			// unresolved and let an operator sort the feed out.
			slog.Warn("final game is tied, node left unresolved", "node", n.ID, "game", game.ID)
			continue
		}

		winner := n.Winner(game)
		if winner == nil {
			continue
		}
		resolved++
		resolvedIDs = append(resolvedIDs, n.ID)
		winners[n.ID] = *winner

		if n.NextNodeID == nil || n.NextNodeSide == nil {
			continue
		}
		next, ok := nodesByID[*n.NextNodeID]
		if !ok {
			slog.Warn("node references unknown next node", "node", n.ID, "next", *n.NextNodeID)
			continue
		}

		switch *n.NextNodeSide {
		case bracket.HomeSide:
			next.HomeTeamName = winner
		case bracket.AwaySide:
			next.AwayTeamName = winner
		}
		if err := s.tournaments.UpdateNodeTeams(ctx, tx, next); err != nil {
			return 0, fmt.Errorf("failed to propagate winner: %w", err)
		}
	}

	picks, err := s.leagues.GetPicksByNodeIDs(ctx, resolvedIDs)
	if err != nil {
		return 0, fmt.Errorf("failed to get picks: %w", err)
	}
	for _, p := range picks {
		correct := p.PickedTeamName == winners[p.NodeID]
		if p.IsCorrect != nil && *p.IsCorrect == correct {
			continue
		}
		if err := s.leagues.SetPickCorrectness(ctx, tx, p.ID, correct); err != nil {
			return 0, fmt.Errorf("failed to set pick correctness: %w", err)
		}
	}

	return resolved, tx.Commit()
}

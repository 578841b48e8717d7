package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/allfantasy/bracket-live/internal/bracket"
	"github.com/allfantasy/bracket-live/internal/scoring"
	"github.com/allfantasy/bracket-live/internal/store"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// ErrPickLocked is returned when a pick arrives after the node's game has
// started.
var ErrPickLocked = errors.New("picks are locked once the game has started")

type LeagueService struct {
	db          *sqlx.DB
	leagues     *store.LeagueStore
	tournaments *store.TournamentStore
	games       *store.GameStore
}

func NewLeagueService(db *sqlx.DB, leagues *store.LeagueStore, tournaments *store.TournamentStore, games *store.GameStore) *LeagueService {
	return &LeagueService{db: db, leagues: leagues, tournaments: tournaments, games: games}
}

// CreateLeague binds a league to a tournament with a scoring mode. The mode
// string is normalized through the scoring package so a typo becomes
// momentum at write time instead of surprising the standings later.
func (s *LeagueService) CreateLeague(ctx context.Context, tournamentID uuid.UUID, name, scoringMode string) (uuid.UUID, error) {
	if _, err := s.tournaments.GetTournament(ctx, tournamentID.String()); err != nil {
		return uuid.Nil, fmt.Errorf("failed to get tournament: %w", err)
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return uuid.Nil, err
	}
	defer tx.Rollback()

	league := bracket.League{
		ID:           uuid.New(),
		TournamentID: tournamentID,
		Name:         name,
		ScoringMode:  string(scoring.ParseMode(scoringMode)),
	}
	if err := s.leagues.CreateLeague(ctx, tx, &league); err != nil {
		return uuid.Nil, err
	}
	return league.ID, tx.Commit()
}

func (s *LeagueService) CreateEntry(ctx context.Context, leagueID, userID uuid.UUID, name string) (uuid.UUID, error) {
	if _, err := s.leagues.GetLeague(ctx, leagueID.String()); err != nil {
		return uuid.Nil, fmt.Errorf("failed to get league: %w", err)
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return uuid.Nil, err
	}
	defer tx.Rollback()

	entry := bracket.Entry{
		ID:       uuid.New(),
		LeagueID: leagueID,
		UserID:   userID,
		Name:     name,
	}
	if err := s.leagues.CreateEntry(ctx, tx, &entry); err != nil {
		return uuid.Nil, err
	}
	return entry.ID, tx.Commit()
}

// SubmitPick creates or overwrites an entry's pick for a node. Picks lock
// the moment the node's linked game starts; overwriting clears any stale
// correctness so the resolution job re-derives it.
func (s *LeagueService) SubmitPick(ctx context.Context, entryID, nodeID uuid.UUID, teamName string) error {
	if _, err := s.leagues.GetEntry(ctx, entryID.String()); err != nil {
		return fmt.Errorf("failed to get entry: %w", err)
	}

	node, err := s.tournaments.GetNode(ctx, nodeID.String())
	if err != nil {
		return fmt.Errorf("failed to get node: %w", err)
	}

	if node.SportsGameID != nil {
		game, err := s.games.GetGame(ctx, node.SportsGameID.String())
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("failed to get game: %w", err)
		}
		if err == nil && game.Started(time.Now()) {
			return ErrPickLocked
		}
	}

	pick := bracket.Pick{
		ID:             uuid.New(),
		EntryID:        entryID,
		NodeID:         nodeID,
		PickedTeamName: teamName,
		UpdatedAt:      time.Now().UTC(),
	}
	return s.leagues.UpsertPick(ctx, &pick)
}

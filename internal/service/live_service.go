package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/allfantasy/bracket-live/internal/bracket"
	"github.com/allfantasy/bracket-live/internal/scoring"
	"github.com/allfantasy/bracket-live/internal/store"
	"github.com/google/uuid"
)

// Poll-interval hints handed to the client: tight while any linked game is
// in progress, relaxed otherwise. The server does not enforce them.
const (
	LivePollIntervalMs = 10000
	IdlePollIntervalMs = 60000
)

type LiveService struct {
	tournaments *store.TournamentStore
	games       *store.GameStore
	leagues     *store.LeagueStore
	users       *store.UserStore
}

func NewLiveService(tournaments *store.TournamentStore, games *store.GameStore, leagues *store.LeagueStore, users *store.UserStore) *LiveService {
	return &LiveService{tournaments: tournaments, games: games, leagues: leagues, users: users}
}

type TournamentView struct {
	ID     uuid.UUID `json:"id"`
	Name   string    `json:"name"`
	Season string    `json:"season"`
	Sport  string    `json:"sport"`
}

type GameView struct {
	ID        uuid.UUID          `json:"id"`
	HomeTeam  string             `json:"homeTeam"`
	AwayTeam  string             `json:"awayTeam"`
	HomeScore int                `json:"homeScore"`
	AwayScore int                `json:"awayScore"`
	Status    bracket.GameStatus `json:"status"`
	StartTime *time.Time         `json:"startTime"`
}

type LiveGameView struct {
	HomeScore int                `json:"homeScore"`
	AwayScore int                `json:"awayScore"`
	Status    bracket.GameStatus `json:"status"`
	StartTime *time.Time         `json:"startTime"`
	Venue     *string            `json:"venue"`
	FetchedAt time.Time          `json:"fetchedAt"`
}

type NodeView struct {
	ID           uuid.UUID         `json:"id"`
	Slot         string            `json:"slot"`
	Round        int               `json:"round"`
	Region       *string           `json:"region"`
	SeedHome     *int              `json:"seedHome"`
	SeedAway     *int              `json:"seedAway"`
	HomeTeamName *string           `json:"homeTeamName"`
	AwayTeamName *string           `json:"awayTeamName"`
	NextNodeID   *uuid.UUID        `json:"nextNodeId"`
	NextNodeSide *bracket.NodeSide `json:"nextNodeSide"`
	LiveGame     *LiveGameView     `json:"liveGame"`
	Winner       *string           `json:"winner"`
}

type LiveBracketData struct {
	OK             bool           `json:"ok"`
	TournamentID   uuid.UUID      `json:"tournamentId"`
	Tournament     TournamentView `json:"tournament"`
	Games          []GameView     `json:"games"`
	Nodes          []NodeView     `json:"nodes"`
	Standings      []StandingsRow `json:"standings"`
	SleeperTeams   []string       `json:"sleeperTeams"`
	HasLiveGames   bool           `json:"hasLiveGames"`
	PollIntervalMs int            `json:"pollIntervalMs"`
}

// BuildNodeViews joins each node to its linked game, derives the node's
// winner and reports whether any linked game is still in progress. A node
// whose game id is not in the fetched set is rendered with a nil liveGame
// and nil winner rather than failing the whole response.
func BuildNodeViews(nodes []bracket.Node, games []bracket.Game) ([]NodeView, map[uuid.UUID]*string, bool) {
	gamesByID := make(map[uuid.UUID]*bracket.Game, len(games))
	for i := range games {
		gamesByID[games[i].ID] = &games[i]
	}

	views := make([]NodeView, 0, len(nodes))
	winners := make(map[uuid.UUID]*string, len(nodes))
	hasLive := false
	for i := range nodes {
		n := &nodes[i]

		var game *bracket.Game
		if n.SportsGameID != nil {
			game = gamesByID[*n.SportsGameID]
		}

		var liveGame *LiveGameView
		if game != nil {
			liveGame = &LiveGameView{
				HomeScore: game.HomeScore,
				AwayScore: game.AwayScore,
				Status:    game.Status,
				StartTime: game.StartTime,
				Venue:     game.Venue,
				FetchedAt: game.FetchedAt,
			}
			if game.Status == bracket.GameInProgress {
				hasLive = true
			}
		}

		winner := n.Winner(game)
		winners[n.ID] = winner

		views = append(views, NodeView{
			ID:           n.ID,
			Slot:         n.Slot,
			Round:        n.Round,
			Region:       n.Region,
			SeedHome:     n.SeedHome,
			SeedAway:     n.SeedAway,
			HomeTeamName: n.HomeTeamName,
			AwayTeamName: n.AwayTeamName,
			NextNodeID:   n.NextNodeID,
			NextNodeSide: n.NextNodeSide,
			LiveGame:     liveGame,
			Winner:       winner,
		})
	}
	return views, winners, hasLive
}

// GetLiveBracket assembles the full live response for a tournament, with
// standings included when a league id is given. All scoring is recomputed
// from the rows fetched here; nothing is read from a stored score.
func (s *LiveService) GetLiveBracket(ctx context.Context, tournamentID, leagueID string) (*LiveBracketData, error) {
	tournament, err := s.tournaments.GetTournament(ctx, tournamentID)
	if err != nil {
		return nil, err
	}

	nodes, err := s.tournaments.GetNodes(ctx, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to get nodes: %w", err)
	}

	var gameIDs []uuid.UUID
	for _, n := range nodes {
		if n.SportsGameID != nil {
			gameIDs = append(gameIDs, *n.SportsGameID)
		}
	}

	// The games lookup and the league fetch are independent; overlap them.
	var (
		wg        sync.WaitGroup
		games     []bracket.Game
		gamesErr  error
		league    *bracket.League
		entries   []bracket.Entry
		picks     []bracket.Pick
		leagueErr error
	)

	wg.Add(1)
	go func() {
		defer wg.Done()
		games, gamesErr = s.games.GetGamesByIDs(ctx, gameIDs)
	}()

	if leagueID != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			league, leagueErr = s.leagues.GetLeague(ctx, leagueID)
			if leagueErr != nil {
				return
			}
			entries, leagueErr = s.leagues.GetEntries(ctx, leagueID)
			if leagueErr != nil {
				return
			}
			picks, leagueErr = s.leagues.GetPicksByLeague(ctx, leagueID)
		}()
	}

	wg.Wait()
	if gamesErr != nil {
		return nil, fmt.Errorf("failed to get games: %w", gamesErr)
	}
	if leagueErr != nil {
		return nil, fmt.Errorf("failed to get league: %w", leagueErr)
	}

	nodeViews, winners, hasLive := BuildNodeViews(nodes, games)

	var standings []StandingsRow
	if league != nil {
		standings, err = s.computeStandings(ctx, league, nodes, entries, picks)
		if err != nil {
			return nil, err
		}
	}

	gameViews := make([]GameView, 0, len(games))
	for _, g := range games {
		gameViews = append(gameViews, GameView{
			ID:        g.ID,
			HomeTeam:  g.HomeTeam,
			AwayTeam:  g.AwayTeam,
			HomeScore: g.HomeScore,
			AwayScore: g.AwayScore,
			Status:    g.Status,
			StartTime: g.StartTime,
		})
	}

	pollInterval := IdlePollIntervalMs
	if hasLive {
		pollInterval = LivePollIntervalMs
	}

	return &LiveBracketData{
		OK:           true,
		TournamentID: tournament.ID,
		Tournament: TournamentView{
			ID:     tournament.ID,
			Name:   tournament.Name,
			Season: tournament.Season,
			Sport:  tournament.Sport,
		},
		Games:          gameViews,
		Nodes:          nodeViews,
		Standings:      standings,
		SleeperTeams:   SleeperTeams(nodes, winners),
		HasLiveGames:   hasLive,
		PollIntervalMs: pollInterval,
	}, nil
}

func (s *LiveService) computeStandings(ctx context.Context, league *bracket.League, nodes []bracket.Node, entries []bracket.Entry, picks []bracket.Pick) ([]StandingsRow, error) {
	userIDs := make([]uuid.UUID, 0, len(entries))
	for _, e := range entries {
		userIDs = append(userIDs, e.UserID)
	}
	usersByID, err := s.users.GetUsersByIDs(ctx, userIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to get users: %w", err)
	}

	mode := scoring.ParseMode(league.ScoringMode)
	strategy := scoring.ForMode(mode)
	points := scoring.RoundPoints(mode)

	rounds := BuildRoundMap(nodes)
	seeds := BuildSeedMap(nodes)
	dist := BuildDistribution(picks)

	picksByEntry := map[uuid.UUID][]bracket.Pick{}
	for _, p := range picks {
		picksByEntry[p.EntryID] = append(picksByEntry[p.EntryID], p)
	}

	rows := make([]StandingsRow, 0, len(entries))
	for _, e := range entries {
		ledger := ResolveLedger(picksByEntry[e.ID], rounds, seeds, points)
		result := strategy.Score(ledger.Results, dist)

		row := StandingsRow{
			EntryID:        e.ID,
			EntryName:      e.Name,
			UserID:         e.UserID,
			TotalPoints:    result.Total,
			CorrectPicks:   ledger.CorrectPicks,
			TotalPicks:     ledger.TotalPicks,
			RoundCorrect:   ledger.RoundCorrect,
			ChampionPick:   ledger.ChampionPick,
			MaxPossible:    ledger.MaxPossible,
			ScoringDetails: result.Details,
		}
		if u, ok := usersByID[e.UserID]; ok {
			row.DisplayName = u.DisplayName
			row.AvatarURL = u.AvatarURL
		}
		rows = append(rows, row)
	}

	SortStandings(rows)
	return rows, nil
}

package service

import (
	"context"
	"testing"
	"time"

	"github.com/allfantasy/bracket-live/internal/bracket"
	"github.com/allfantasy/bracket-live/internal/store"
	"github.com/allfantasy/bracket-live/internal/users"
	"github.com/allfantasy/bracket-live/internal/utils"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmitPickLocking(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	tournamentStore := store.NewTournamentStore(db)
	gameStore := store.NewGameStore(db)
	leagueStore := store.NewLeagueStore(db)
	leagueService := NewLeagueService(db, leagueStore, tournamentStore, gameStore)

	ctx := context.Background()

	tournamentID := uuid.New()
	tx, err := db.BeginTxx(ctx, nil)
	require.NoError(t, err)
	require.NoError(t, tournamentStore.CreateTournament(ctx, tx, &bracket.Tournament{ID: tournamentID, Name: "Lock Test", Season: "2026", Sport: "ncaam"}))

	upcoming := bracket.Game{ID: uuid.New(), HomeTeam: "A", AwayTeam: "B", Status: bracket.GameScheduled, StartTime: utils.Ptr(time.Now().Add(time.Hour)), FetchedAt: time.Now().UTC()}
	started := bracket.Game{ID: uuid.New(), HomeTeam: "C", AwayTeam: "D", Status: bracket.GameInProgress, FetchedAt: time.Now().UTC()}

	openNode := bracket.Node{ID: uuid.New(), TournamentID: tournamentID, Round: 1, Slot: "R1-01", SportsGameID: &upcoming.ID}
	lockedNode := bracket.Node{ID: uuid.New(), TournamentID: tournamentID, Round: 1, Slot: "R1-02", SportsGameID: &started.ID}
	unlinkedNode := bracket.Node{ID: uuid.New(), TournamentID: tournamentID, Round: 2, Slot: "F-01"}
	require.NoError(t, tx.Commit())

	require.NoError(t, gameStore.UpsertGame(ctx, &upcoming))
	require.NoError(t, gameStore.UpsertGame(ctx, &started))

	tx, err = db.BeginTxx(ctx, nil)
	require.NoError(t, err)
	require.NoError(t, tournamentStore.CreateNodes(ctx, tx, []bracket.Node{unlinkedNode, openNode, lockedNode}))
	require.NoError(t, tx.Commit())

	user := users.User{ID: uuid.New(), DisplayName: "Alex"}
	require.NoError(t, store.NewUserStore(db).CreateUser(ctx, &user))

	leagueID, err := leagueService.CreateLeague(ctx, tournamentID, "Pool", "not_a_mode")
	require.NoError(t, err)

	league, err := leagueStore.GetLeague(ctx, leagueID.String())
	require.NoError(t, err)
	assert.Equal(t, "momentum", league.ScoringMode, "unknown modes normalize at write time")

	entryID, err := leagueService.CreateEntry(ctx, leagueID, user.ID, "Alex's Bracket")
	require.NoError(t, err)

	assert.NoError(t, leagueService.SubmitPick(ctx, entryID, openNode.ID, "A"))
	assert.NoError(t, leagueService.SubmitPick(ctx, entryID, unlinkedNode.ID, "A"))

	err = leagueService.SubmitPick(ctx, entryID, lockedNode.ID, "C")
	assert.ErrorIs(t, err, ErrPickLocked)

	picks, err := leagueStore.GetPicksByEntry(ctx, entryID.String())
	require.NoError(t, err)
	assert.Len(t, picks, 2)
}

package main

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/allfantasy/bracket-live/internal/bracket"
	"github.com/allfantasy/bracket-live/internal/httputil"
	"github.com/allfantasy/bracket-live/internal/service"
	"github.com/allfantasy/bracket-live/internal/store"
	"github.com/allfantasy/bracket-live/internal/users"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

func newRouter(db *sqlx.DB) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)

	tournamentStore := store.NewTournamentStore(db)
	gameStore := store.NewGameStore(db)
	leagueStore := store.NewLeagueStore(db)
	userStore := store.NewUserStore(db)

	liveService := service.NewLiveService(tournamentStore, gameStore, leagueStore, userStore)
	tournamentService := service.NewTournamentService(db, tournamentStore)
	leagueService := service.NewLeagueService(db, leagueStore, tournamentStore, gameStore)
	resolutionService := service.NewResolutionService(db, tournamentStore, gameStore, leagueStore)

	r.Get("/api/bracket/live", func(w http.ResponseWriter, r *http.Request) {
		tournamentID := r.URL.Query().Get("tournamentId")
		if tournamentID == "" {
			httputil.BadRequest(w, "tournamentId is required", nil)
			return
		}
		leagueID := r.URL.Query().Get("leagueId")

		data, err := liveService.GetLiveBracket(r.Context(), tournamentID, leagueID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				httputil.NotFound(w, "Tournament not found", err)
				return
			}
			httputil.InternalServerError(w, "Failed to get live bracket", err)
			return
		}
		httputil.JSON(w, http.StatusOK, data)
	})

	r.Post("/api/tournaments", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Name    string `json:"name"`
			Season  string `json:"season"`
			Sport   string `json:"sport"`
			Regions []struct {
				Name  string `json:"name"`
				Teams []struct {
					Name string `json:"name"`
					Seed int    `json:"seed"`
				} `json:"teams"`
			} `json:"regions"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httputil.BadRequest(w, "Invalid request body", err)
			return
		}

		regions := make([]service.RegionInput, 0, len(req.Regions))
		for _, region := range req.Regions {
			teams := make([]service.SeedTeam, 0, len(region.Teams))
			for _, t := range region.Teams {
				teams = append(teams, service.SeedTeam{Name: t.Name, Seed: t.Seed})
			}
			regions = append(regions, service.RegionInput{Name: region.Name, Teams: teams})
		}

		id, err := tournamentService.CreateTournament(r.Context(), req.Name, req.Season, req.Sport, regions)
		if err != nil {
			if strings.Contains(err.Error(), "expected") {
				httputil.BadRequest(w, err.Error(), err)
				return
			}
			httputil.InternalServerError(w, "Failed to create tournament", err)
			return
		}
		httputil.JSON(w, http.StatusCreated, map[string]string{"id": id.String()})
	})

	r.Post("/api/tournaments/{id}/resolve", func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		resolved, err := resolutionService.ResolveTournament(r.Context(), id)
		if err != nil {
			httputil.InternalServerError(w, "Failed to resolve tournament", err)
			return
		}
		httputil.JSON(w, http.StatusOK, map[string]int{"resolvedNodes": resolved})
	})

	r.Post("/api/games", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			ID        *uuid.UUID         `json:"id"`
			HomeTeam  string             `json:"homeTeam"`
			AwayTeam  string             `json:"awayTeam"`
			HomeScore int                `json:"homeScore"`
			AwayScore int                `json:"awayScore"`
			Status    bracket.GameStatus `json:"status"`
			StartTime *time.Time         `json:"startTime"`
			Venue     *string            `json:"venue"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httputil.BadRequest(w, "Invalid request body", err)
			return
		}

		id := uuid.New()
		if req.ID != nil {
			id = *req.ID
		}
		game := bracket.Game{
			ID:        id,
			HomeTeam:  req.HomeTeam,
			AwayTeam:  req.AwayTeam,
			HomeScore: req.HomeScore,
			AwayScore: req.AwayScore,
			Status:    req.Status,
			StartTime: req.StartTime,
			Venue:     req.Venue,
			FetchedAt: time.Now().UTC(),
		}
		if err := gameStore.UpsertGame(r.Context(), &game); err != nil {
			httputil.InternalServerError(w, "Failed to upsert game", err)
			return
		}
		httputil.JSON(w, http.StatusOK, map[string]string{"id": id.String()})
	})

	r.Post("/api/nodes/{id}/game", func(w http.ResponseWriter, r *http.Request) {
		nodeID, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			httputil.BadRequest(w, "Invalid node ID", err)
			return
		}
		var req struct {
			GameID uuid.UUID `json:"gameId"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httputil.BadRequest(w, "Invalid request body", err)
			return
		}
		if err := tournamentService.LinkGame(r.Context(), nodeID, req.GameID); err != nil {
			httputil.InternalServerError(w, "Failed to link game", err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})

	r.Post("/api/users", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			DisplayName string  `json:"displayName"`
			AvatarURL   *string `json:"avatarUrl"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httputil.BadRequest(w, "Invalid request body", err)
			return
		}
		user := users.User{
			ID:          uuid.New(),
			DisplayName: req.DisplayName,
			AvatarURL:   req.AvatarURL,
		}
		if err := userStore.CreateUser(r.Context(), &user); err != nil {
			httputil.InternalServerError(w, "Failed to create user", err)
			return
		}
		httputil.JSON(w, http.StatusCreated, map[string]string{"id": user.ID.String()})
	})

	r.Post("/api/leagues", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			TournamentID uuid.UUID `json:"tournamentId"`
			Name         string    `json:"name"`
			ScoringMode  string    `json:"scoringMode"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httputil.BadRequest(w, "Invalid request body", err)
			return
		}
		id, err := leagueService.CreateLeague(r.Context(), req.TournamentID, req.Name, req.ScoringMode)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				httputil.NotFound(w, "Tournament not found", err)
				return
			}
			httputil.InternalServerError(w, "Failed to create league", err)
			return
		}
		httputil.JSON(w, http.StatusCreated, map[string]string{"id": id.String()})
	})

	r.Post("/api/leagues/{id}/entries", func(w http.ResponseWriter, r *http.Request) {
		leagueID, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			httputil.BadRequest(w, "Invalid league ID", err)
			return
		}
		var req struct {
			UserID uuid.UUID `json:"userId"`
			Name   string    `json:"name"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httputil.BadRequest(w, "Invalid request body", err)
			return
		}
		id, err := leagueService.CreateEntry(r.Context(), leagueID, req.UserID, req.Name)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				httputil.NotFound(w, "League not found", err)
				return
			}
			httputil.InternalServerError(w, "Failed to create entry", err)
			return
		}
		httputil.JSON(w, http.StatusCreated, map[string]string{"id": id.String()})
	})

	r.Put("/api/entries/{id}/picks", func(w http.ResponseWriter, r *http.Request) {
		entryID, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			httputil.BadRequest(w, "Invalid entry ID", err)
			return
		}
		var req struct {
			NodeID         uuid.UUID `json:"nodeId"`
			PickedTeamName string    `json:"pickedTeamName"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httputil.BadRequest(w, "Invalid request body", err)
			return
		}
		if err := leagueService.SubmitPick(r.Context(), entryID, req.NodeID, req.PickedTeamName); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				httputil.NotFound(w, "Entry or node not found", err)
				return
			}
			if errors.Is(err, service.ErrPickLocked) {
				httputil.BadRequest(w, err.Error(), err)
				return
			}
			httputil.InternalServerError(w, "Failed to submit pick", err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})

	return r
}

package handlers

import (
	"fmt"
	"net/http"

	"github.com/Dosada05/bracket-engine/models"
	"github.com/Dosada05/bracket-engine/services"
)

type BracketHandler struct {
	bracketService   services.BracketService
	standingsService services.StandingsService
	swissService     services.SwissService
}

func NewBracketHandler(
	bracketService services.BracketService,
	standingsService services.StandingsService,
	swissService services.SwissService,
) *BracketHandler {
	return &BracketHandler{
		bracketService:   bracketService,
		standingsService: standingsService,
		swissService:     swissService,
	}
}

type generateBracketRequest struct {
	Format  string `json:"format"`
	TeamIDs []int  `json:"team_ids"`
}

// GenerateBracket godoc
// @Summary Generate the bracket of a match
// @Tags brackets
// @Description Pairs the listed teams in seed order and creates every game the format lays out up front. A bracket can be generated once per match.
// @Accept json
// @Produce json
// @Param matchID path int true "Match ID"
// @Param body body generateBracketRequest true "Format (optional, must match the match) and team ids in seed order"
// @Success 201 {object} map[string]interface{} "Created games"
// @Failure 400 {object} map[string]string "Invalid input or fewer than two teams"
// @Failure 404 {object} map[string]string "Match not found"
// @Failure 409 {object} map[string]string "Bracket already generated or match closed"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /matches/{matchID}/bracket [post]
func (h *BracketHandler) GenerateBracket(w http.ResponseWriter, r *http.Request) {
	matchID, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var req generateBracketRequest
	if err := readJSON(w, r, &req); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	input := services.GenerateBracketInput{MatchID: matchID, TeamIDs: req.TeamIDs}
	if req.Format != "" {
		format, err := models.ParseFormat(req.Format)
		if err != nil {
			badRequestResponse(w, r, fmt.Errorf("%w: %w", services.ErrInvalidInput, err))
			return
		}
		input.Format = format
	}

	games, err := h.bracketService.GenerateBracket(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"games": games}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetBracket godoc
// @Summary Get the bracket of a match
// @Tags brackets
// @Produce json
// @Param matchID path int true "Match ID"
// @Success 200 {object} services.BracketView
// @Failure 400 {object} map[string]string "Invalid match ID"
// @Failure 404 {object} map[string]string "Match not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /matches/{matchID}/bracket [get]
func (h *BracketHandler) GetBracket(w http.ResponseWriter, r *http.Request) {
	matchID, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	view, err := h.bracketService.GetBracket(r.Context(), matchID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, view, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetStandings godoc
// @Summary Get the standings table of a match
// @Tags brackets
// @Description Recomputed from completed games on every call. Only round robin, league and swiss keep standings.
// @Produce json
// @Param matchID path int true "Match ID"
// @Success 200 {object} map[string]interface{} "Ranked rows"
// @Failure 400 {object} map[string]string "Invalid match ID"
// @Failure 404 {object} map[string]string "Match not found"
// @Failure 422 {object} map[string]string "Format has no standings"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /matches/{matchID}/standings [get]
func (h *BracketHandler) GetStandings(w http.ResponseWriter, r *http.Request) {
	matchID, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	rows, err := h.standingsService.GetStandings(r.Context(), matchID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"standings": rows}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// PairNextSwissRound godoc
// @Summary Pair the next swiss round
// @Tags brackets
// @Produce json
// @Param matchID path int true "Match ID"
// @Success 201 {object} map[string]interface{} "Games of the new round"
// @Failure 400 {object} map[string]string "Match is not swiss"
// @Failure 404 {object} map[string]string "Match not found"
// @Failure 409 {object} map[string]string "Round unfinished, all rounds played or bracket not generated"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /matches/{matchID}/swiss/rounds [post]
func (h *BracketHandler) PairNextSwissRound(w http.ResponseWriter, r *http.Request) {
	matchID, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	games, err := h.swissService.PairNextRound(r.Context(), matchID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"games": games}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

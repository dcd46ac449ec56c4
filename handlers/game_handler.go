package handlers

import (
	"net/http"
	"time"

	"github.com/Dosada05/bracket-engine/services"
)

type GameHandler struct {
	resultService services.ResultService
}

func NewGameHandler(resultService services.ResultService) *GameHandler {
	return &GameHandler{resultService: resultService}
}

type submitResultRequest struct {
	Team1Score *int `json:"team1_score"`
	Team2Score *int `json:"team2_score"`
}

type scheduleGameRequest struct {
	ScheduledAt *time.Time `json:"scheduled_at"`
	Venue       *string    `json:"venue"`
}

// SubmitResult godoc
// @Summary Submit the final score of a game
// @Tags games
// @Description Completes the game once and moves the winner (and in double elimination the loser) into the next games.
// @Accept json
// @Produce json
// @Param gameID path int true "Game ID"
// @Param body body submitResultRequest true "Scores for slot 1 and slot 2"
// @Success 200 {object} services.ResultOutcome
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 404 {object} map[string]string "Game not found"
// @Failure 409 {object} map[string]string "Game already completed or slots not filled"
// @Failure 422 {object} map[string]string "Missing score or result not allowed by the format"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /games/{gameID}/result [post]
func (h *GameHandler) SubmitResult(w http.ResponseWriter, r *http.Request) {
	gameID, err := getIDFromURL(r, "gameID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var req submitResultRequest
	if err := readJSON(w, r, &req); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	errs := make(map[string]string)
	if req.Team1Score == nil {
		errs["team1_score"] = "must be provided"
	}
	if req.Team2Score == nil {
		errs["team2_score"] = "must be provided"
	}
	if len(errs) > 0 {
		failedValidationResponse(w, r, errs)
		return
	}

	outcome, err := h.resultService.SubmitGameResult(r.Context(), gameID, *req.Team1Score, *req.Team2Score)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, outcome, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// StartGame godoc
// @Summary Mark a scheduled game as in progress
// @Tags games
// @Produce json
// @Param gameID path int true "Game ID"
// @Success 200 {object} map[string]interface{} "Started game"
// @Failure 400 {object} map[string]string "Invalid game ID"
// @Failure 404 {object} map[string]string "Game not found"
// @Failure 409 {object} map[string]string "Game not startable or slots not filled"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /games/{gameID}/start [post]
func (h *GameHandler) StartGame(w http.ResponseWriter, r *http.Request) {
	gameID, err := getIDFromURL(r, "gameID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	game, err := h.resultService.StartGame(r.Context(), gameID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"game": game}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ScheduleGame godoc
// @Summary Set the time and venue of a game
// @Tags games
// @Accept json
// @Produce json
// @Param gameID path int true "Game ID"
// @Param body body scheduleGameRequest true "Scheduled time (RFC 3339) and venue"
// @Success 200 {object} map[string]interface{} "Updated game"
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 404 {object} map[string]string "Game not found"
// @Failure 409 {object} map[string]string "Game already completed"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /games/{gameID}/schedule [put]
func (h *GameHandler) ScheduleGame(w http.ResponseWriter, r *http.Request) {
	gameID, err := getIDFromURL(r, "gameID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var req scheduleGameRequest
	if err := readJSON(w, r, &req); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	game, err := h.resultService.ScheduleGame(r.Context(), gameID, req.ScheduledAt, req.Venue)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"game": game}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

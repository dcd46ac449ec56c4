package handlers

import (
	"net/http"

	"github.com/Dosada05/bracket-engine/models"
	"github.com/Dosada05/bracket-engine/services"
)

type MatchHandler struct {
	matchService services.MatchService
}

func NewMatchHandler(matchService services.MatchService) *MatchHandler {
	return &MatchHandler{matchService: matchService}
}

type createMatchRequest struct {
	Name            string                `json:"name"`
	Format          string                `json:"format"`
	MaxParticipants int                   `json:"max_participants"`
	Settings        *models.MatchSettings `json:"settings"`
}

// CreateMatch godoc
// @Summary Create a match
// @Tags matches
// @Accept json
// @Produce json
// @Param body body createMatchRequest true "Name, format, participant limit and settings"
// @Success 201 {object} map[string]interface{} "Match created"
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /matches [post]
func (h *MatchHandler) CreateMatch(w http.ResponseWriter, r *http.Request) {
	var req createMatchRequest
	if err := readJSON(w, r, &req); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	match, err := h.matchService.CreateMatch(r.Context(), services.CreateMatchInput{
		Name:            req.Name,
		Format:          req.Format,
		MaxParticipants: req.MaxParticipants,
		Settings:        req.Settings,
	})
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"match": match}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetMatch godoc
// @Summary Get a match by ID
// @Tags matches
// @Produce json
// @Param matchID path int true "Match ID"
// @Success 200 {object} map[string]interface{} "Match"
// @Failure 400 {object} map[string]string "Invalid match ID"
// @Failure 404 {object} map[string]string "Match not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /matches/{matchID} [get]
func (h *MatchHandler) GetMatch(w http.ResponseWriter, r *http.Request) {
	matchID, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	match, err := h.matchService.GetMatch(r.Context(), matchID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"match": match}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ListMatches godoc
// @Summary List matches
// @Tags matches
// @Produce json
// @Param status query string false "Filter by status (registration, active, completed, canceled)"
// @Success 200 {object} map[string]interface{} "Matches"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /matches [get]
func (h *MatchHandler) ListMatches(w http.ResponseWriter, r *http.Request) {
	var status *models.MatchStatus
	if raw := r.URL.Query().Get("status"); raw != "" {
		s := models.MatchStatus(raw)
		status = &s
	}

	matches, err := h.matchService.ListMatches(r.Context(), status)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"matches": matches}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

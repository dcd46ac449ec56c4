package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Dosada05/bracket-engine/services"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapServiceErrorToHTTP(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("load: %w", services.ErrMatchNotFound), http.StatusNotFound},
		{services.ErrGameNotFound, http.StatusNotFound},
		{services.ErrAlreadyGenerated, http.StatusConflict},
		{fmt.Errorf("%w: game 3", services.ErrAlreadyCompleted), http.StatusConflict},
		{services.ErrSlotsIncomplete, http.StatusConflict},
		{services.ErrRoundIncomplete, http.StatusConflict},
		{services.ErrInvalidResult, http.StatusUnprocessableEntity},
		{fmt.Errorf("%w: %w", services.ErrInvalidInput, services.ErrInvalidResult), http.StatusUnprocessableEntity},
		{fmt.Errorf("%w: %w", services.ErrInvalidInput, services.ErrStandingsUnsupported), http.StatusUnprocessableEntity},
		{services.ErrInvalidInput, http.StatusBadRequest},
		{services.ErrInsufficientTeams, http.StatusBadRequest},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		mapServiceErrorToHTTP(rec, req, tt.err)
		assert.Equal(t, tt.want, rec.Code, "%v", tt.err)
		assert.Contains(t, rec.Body.String(), `"error"`)
	}
}

func TestReadJSON(t *testing.T) {
	var dst generateBracketRequest

	read := func(body string) error {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
		return readJSON(rec, req, &dst)
	}

	require.NoError(t, read(`{"format":"swiss","team_ids":[3,1,2]}`))
	assert.Equal(t, []int{3, 1, 2}, dst.TeamIDs)

	assert.ErrorContains(t, read(``), "must not be empty")
	assert.ErrorContains(t, read(`{"team_ids":"x"}`), "incorrect JSON type")
	assert.ErrorContains(t, read(`{"teams":[1]}`), "unknown key")
	assert.ErrorContains(t, read(`{"format":"swiss"}{}`), "single JSON value")
}

func TestGetIDFromURL(t *testing.T) {
	var got int
	var gotErr error
	router := chi.NewRouter()
	router.Get("/games/{gameID}", func(w http.ResponseWriter, r *http.Request) {
		got, gotErr = getIDFromURL(r, "gameID")
	})

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/games/42", nil))
	require.NoError(t, gotErr)
	assert.Equal(t, 42, got)

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/games/abc", nil))
	assert.Error(t, gotErr)

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/games/0", nil))
	assert.Error(t, gotErr)
}

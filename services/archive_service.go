package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/Dosada05/bracket-engine/brackets"
	"github.com/Dosada05/bracket-engine/models"
	"github.com/Dosada05/bracket-engine/storage"
)

// MatchArchive is the document written to object storage for a finished match.
type MatchArchive struct {
	Match        *models.Match         `json:"match"`
	Participants []*models.Participant `json:"participants"`
	Games        []*models.Game        `json:"games"`
	Standings    []models.StandingsRow `json:"standings,omitempty"`
	ArchivedAt   time.Time             `json:"archived_at"`
}

type MatchArchiver interface {
	Archive(ctx context.Context, matchID int) (*storage.UploadResult, error)
}

type matchArchiver struct {
	bracketService BracketService
	uploader       storage.FileUploader
	logger         *slog.Logger
	now            func() time.Time
}

func NewMatchArchiver(bracketService BracketService, uploader storage.FileUploader, logger *slog.Logger) MatchArchiver {
	return &matchArchiver{
		bracketService: bracketService,
		uploader:       uploader,
		logger:         logger,
		now:            time.Now,
	}
}

func ArchiveKey(matchID int) string {
	return fmt.Sprintf("matches/%d/bracket.json", matchID)
}

func (a *matchArchiver) Archive(ctx context.Context, matchID int) (*storage.UploadResult, error) {
	view, err := a.bracketService.GetBracket(ctx, matchID)
	if err != nil {
		return nil, err
	}

	doc := MatchArchive{
		Match:        view.Match,
		Participants: view.Participants,
		Games:        view.Games,
		ArchivedAt:   a.now().UTC(),
	}
	if view.Match.Format.HasStandings() {
		doc.Standings = brackets.ComputeStandings(view.Participants, view.Games)
	}

	body, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to encode archive for match %d: %w", matchID, err)
	}

	result, err := a.uploader.Upload(ctx, ArchiveKey(matchID), storage.ContentTypeJSON, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	a.logger.InfoContext(ctx, "match archived",
		slog.Int("match_id", matchID),
		slog.String("key", result.Key),
		slog.String("location", result.Location))
	return result, nil
}

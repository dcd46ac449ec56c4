package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

type Format string

const (
	FormatSingleElimination Format = "single_elimination"
	FormatDoubleElimination Format = "double_elimination"
	FormatRoundRobin        Format = "round_robin"
	FormatSwiss             Format = "swiss"
	FormatLeague            Format = "league"
)

var ErrUnknownFormat = errors.New("unknown competition format")

// ParseFormat validates a raw format string coming from the boundary.
func ParseFormat(raw string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(raw)))
	switch f {
	case FormatSingleElimination, FormatDoubleElimination, FormatRoundRobin, FormatSwiss, FormatLeague:
		return f, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, raw)
}

func (f Format) IsElimination() bool {
	return f == FormatSingleElimination || f == FormatDoubleElimination
}

// AllowsDraw reports whether equal scores are a valid final result.
func (f Format) AllowsDraw() bool {
	return f == FormatRoundRobin || f == FormatLeague
}

func (f Format) HasStandings() bool {
	return f == FormatRoundRobin || f == FormatLeague || f == FormatSwiss
}

// MatchSettings are per-match knobs stored as JSON next to the match row.
type MatchSettings struct {
	Legs            int  `json:"legs,omitempty"`              // 1 or 2, round_robin / league
	GrandFinalReset bool `json:"grand_final_reset,omitempty"` // double_elimination
	SwissRounds     int  `json:"swiss_rounds,omitempty"`      // 0 means ceil(log2(n))
}

// ParseMatchSettings decodes settings JSON. Out of range values are reset to
// defaults; a decode error is returned together with the defaults.
func ParseMatchSettings(raw *string) (MatchSettings, error) {
	settings := MatchSettings{Legs: 1}
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return settings, nil
	}
	if err := json.Unmarshal([]byte(*raw), &settings); err != nil {
		return MatchSettings{Legs: 1}, fmt.Errorf("invalid match settings: %w", err)
	}
	if settings.Legs < 1 || settings.Legs > 2 {
		settings.Legs = 1
	}
	if settings.SwissRounds < 0 {
		settings.SwissRounds = 0
	}
	return settings, nil
}

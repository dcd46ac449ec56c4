package brackets

import (
	"sort"

	"github.com/Dosada05/bracket-engine/models"
)

// ComputeStandings aggregates completed games into a ranked table. Ordering is
// points, goal difference, goals for; anything still tied keeps seed order.
func ComputeStandings(participants []*models.Participant, games []*models.Game) []models.StandingsRow {
	seeded := make([]*models.Participant, 0, len(participants))
	for _, p := range participants {
		if p != nil {
			seeded = append(seeded, p)
		}
	}
	sort.SliceStable(seeded, func(i, j int) bool {
		return seeded[i].Seed < seeded[j].Seed
	})

	rows := make([]models.StandingsRow, len(seeded))
	index := make(map[int]*models.StandingsRow, len(seeded))
	for i, p := range seeded {
		rows[i] = models.StandingsRow{TeamID: p.TeamID, Seed: p.Seed}
		if p.Team != nil {
			rows[i].TeamName = p.Team.Name
		}
		index[p.TeamID] = &rows[i]
	}

	for _, g := range games {
		if !g.IsCompleted() || !g.HasBothTeams() || g.Team1Score == nil || g.Team2Score == nil {
			continue
		}
		home, away := index[*g.Team1ID], index[*g.Team2ID]
		if home == nil || away == nil {
			continue
		}
		s1, s2 := *g.Team1Score, *g.Team2Score
		recordResult(home, s1, s2)
		recordResult(away, s2, s1)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.Points != b.Points {
			return a.Points > b.Points
		}
		if a.GoalDifference != b.GoalDifference {
			return a.GoalDifference > b.GoalDifference
		}
		return a.GoalsFor > b.GoalsFor
	})
	for i := range rows {
		rows[i].Rank = i + 1
	}
	return rows
}

func recordResult(row *models.StandingsRow, scored, conceded int) {
	row.Played++
	row.GoalsFor += scored
	row.GoalsAgainst += conceded
	row.GoalDifference = row.GoalsFor - row.GoalsAgainst
	switch {
	case scored > conceded:
		row.Wins++
		row.Points += models.PointsForWin
	case scored < conceded:
		row.Losses++
		row.Points += models.PointsForLoss
	default:
		row.Draws++
		row.Points += models.PointsForDraw
	}
}

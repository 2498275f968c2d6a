package bracket

import (
	"cmp"
	"slices"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

type Participant struct {
	TeamID     string `json:"teamId" db:"team_id"`
	TeamName   string `json:"teamName" db:"team_name"`
	LeagueID   string `json:"leagueId" db:"league_id"`
	LeagueName string `json:"leagueName" db:"league_name"`

	// Ranking inputs, compared in this order
	LeaguePosition int `json:"leaguePosition" db:"league_position"`
	Points         int `json:"points" db:"points"`
	GoalDifference int `json:"goalDifference" db:"goal_difference"`
	Scored         int `json:"scored" db:"scored"`

	// 1-based, zero until RankParticipants assigns it
	Seed int `json:"seed,omitempty" db:"seed"`
}

// SortParticipants returns a sorted copy: league position ascending, then points, goal
// difference and goals scored descending, then team name.
func SortParticipants(participants []Participant) []Participant {
	sorted := make([]Participant, len(participants))
	copy(sorted, participants)

	// Collators keep internal buffers, so each call gets its own.
	names := collate.New(language.Und)
	slices.SortStableFunc(sorted, func(a, b Participant) int {
		return compareParticipants(names, a, b)
	})
	return sorted
}

// RankParticipants sorts the participants and assigns seeds 1..n in that order.
func RankParticipants(participants []Participant) []Participant {
	ranked := SortParticipants(participants)
	for i := range ranked {
		ranked[i].Seed = i + 1
	}
	return ranked
}

func compareParticipants(names *collate.Collator, a, b Participant) int {
	if a.LeaguePosition != b.LeaguePosition {
		return cmp.Compare(a.LeaguePosition, b.LeaguePosition)
	}
	if a.Points != b.Points {
		return cmp.Compare(b.Points, a.Points)
	}
	if a.GoalDifference != b.GoalDifference {
		return cmp.Compare(b.GoalDifference, a.GoalDifference)
	}
	if a.Scored != b.Scored {
		return cmp.Compare(b.Scored, a.Scored)
	}
	return names.CompareString(a.TeamName, b.TeamName)
}

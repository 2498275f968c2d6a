package bracket

import "fmt"

const (
	DefaultTimezone         = "Europe/Istanbul"
	DefaultRoundSpacingDays = 2
)

type Bracket struct {
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Timezone    string `json:"timezone"`
	KickoffHour int    `json:"kickoffHour"`

	Participants []Participant `json:"participants"`
	Rounds       []Round       `json:"rounds"`
}

type Round struct {
	Round   int     `json:"round"`
	Name    string  `json:"name"`
	Matches []Match `json:"matches"`
}

func (b *Bracket) BracketSize() int {
	return BracketSize(len(b.Participants))
}

func (b *Bracket) Match(id string) (*Match, bool) {
	for r := range b.Rounds {
		for i := range b.Rounds[r].Matches {
			if b.Rounds[r].Matches[i].ID == id {
				return &b.Rounds[r].Matches[i], true
			}
		}
	}
	return nil, false
}

func (b *Bracket) ParticipantByTeam(teamID string) (*Participant, bool) {
	for i := range b.Participants {
		if b.Participants[i].TeamID == teamID {
			return &b.Participants[i], true
		}
	}
	return nil, false
}

// RoundName names a round by how many bracket slots are still in play.
func RoundName(bracketSize, roundIndex int) string {
	remaining := bracketSize >> roundIndex
	switch remaining {
	case 2:
		return "Final"
	case 4:
		return "Semi Final"
	case 8:
		return "Quarter Final"
	case 16:
		return "Round of 16"
	}
	return fmt.Sprintf("Round of %d", remaining)
}

func matchID(slug string, round, index int) string {
	return fmt.Sprintf("%s-R%d-M%d", slug, round, index)
}

package bracket

import "time"

type SourceKind string

const (
	SeedSource   SourceKind = "seed"
	WinnerSource SourceKind = "winner"
)

// SlotSource says where a side of a match comes from: a literal seed, or the winner of an
// earlier match. Winner references are resolved by whoever holds the results.
type SlotSource struct {
	Kind    SourceKind `json:"type"`
	Seed    int        `json:"seed,omitempty"`
	MatchID string     `json:"matchId,omitempty"`
}

type Match struct {
	ID          string    `json:"id"`
	Round       int       `json:"round"`
	RoundName   string    `json:"roundName"`
	ScheduledAt time.Time `json:"scheduledAt"`

	HomeSeed        *int         `json:"homeSeed"`
	AwaySeed        *int         `json:"awaySeed"`
	HomeParticipant *Participant `json:"homeParticipant"`
	AwayParticipant *Participant `json:"awayParticipant"`

	// Only set when the side is fed by an earlier match
	HomeSource *SlotSource `json:"homeSource,omitempty"`
	AwaySource *SlotSource `json:"awaySource,omitempty"`

	IsBye           bool  `json:"isBye"`
	AutoAdvanceSeed *int  `json:"autoAdvanceSeed"`
	Legs            []Leg `json:"legs"`
}

type Leg struct {
	Leg         int       `json:"leg"`
	ScheduledAt time.Time `json:"scheduledAt"`

	HomeSeed        *int         `json:"homeSeed"`
	AwaySeed        *int         `json:"awaySeed"`
	HomeParticipant *Participant `json:"homeParticipant"`
	AwayParticipant *Participant `json:"awayParticipant"`
}

// Involves reports whether the team is one of the two resolved participants.
func (m *Match) Involves(teamID string) bool {
	return (m.HomeParticipant != nil && m.HomeParticipant.TeamID == teamID) ||
		(m.AwayParticipant != nil && m.AwayParticipant.TeamID == teamID)
}

// Playable is true once both sides are concrete participants.
func (m *Match) Playable() bool {
	return !m.IsBye && m.HomeParticipant != nil && m.AwayParticipant != nil
}

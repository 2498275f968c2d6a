package views

import (
	"fmt"
	"time"

	"github.com/turhan-exe/Soccer-React-sub000/internal/bracket"
)

const kickoffLayout = "02 Jan 2006 15:04"

type SideView struct {
	Label string
	// No concrete team yet, either a bye or a pending winner
	Placeholder bool
	Winner      bool
}

type LegView struct {
	Leg     int
	Home    string
	Away    string
	Kickoff string
}

type MatchView struct {
	ID      string
	Home    SideView
	Away    SideView
	Kickoff string
	IsBye   bool
	Legs    []LegView
}

type RoundView struct {
	Name    string
	Matches []MatchView
}

type BracketData struct {
	Name     string
	Slug     string
	Timezone string
	Rounds   []RoundView
}

// PrepareBracketData flattens a bracket into display strings, with every kickoff shown in
// the bracket's own timezone.
func PrepareBracketData(b *bracket.Bracket, results []bracket.Result) BracketData {
	loc, err := time.LoadLocation(b.Timezone)
	if err != nil {
		loc = time.UTC
	}
	kickoff := func(t time.Time) string {
		return t.In(loc).Format(kickoffLayout)
	}

	winners := make(map[string]string, len(results))
	for _, r := range results {
		winners[r.MatchID] = r.WinnerTeamID
	}

	rounds := make([]RoundView, 0, len(b.Rounds))
	for _, round := range b.Rounds {
		matches := make([]MatchView, 0, len(round.Matches))
		for _, m := range round.Matches {
			view := MatchView{
				ID:      m.ID,
				Home:    sideView(m.HomeParticipant, m.HomeSource, winners[m.ID]),
				Away:    sideView(m.AwayParticipant, m.AwaySource, winners[m.ID]),
				Kickoff: kickoff(m.ScheduledAt),
				IsBye:   m.IsBye,
			}
			for _, leg := range m.Legs {
				view.Legs = append(view.Legs, LegView{
					Leg:     leg.Leg,
					Home:    participantLabel(leg.HomeParticipant),
					Away:    participantLabel(leg.AwayParticipant),
					Kickoff: kickoff(leg.ScheduledAt),
				})
			}
			matches = append(matches, view)
		}
		rounds = append(rounds, RoundView{Name: round.Name, Matches: matches})
	}

	return BracketData{
		Name:     b.Name,
		Slug:     b.Slug,
		Timezone: b.Timezone,
		Rounds:   rounds,
	}
}

func sideView(p *bracket.Participant, source *bracket.SlotSource, winnerTeamID string) SideView {
	switch {
	case p != nil:
		return SideView{Label: participantLabel(p), Winner: winnerTeamID != "" && p.TeamID == winnerTeamID}
	case source != nil && source.Kind == bracket.WinnerSource:
		return SideView{Label: "Winner of " + source.MatchID, Placeholder: true}
	default:
		return SideView{Label: "BYE", Placeholder: true}
	}
}

func participantLabel(p *bracket.Participant) string {
	if p == nil {
		return "TBD"
	}
	name := p.TeamName
	if name == "" {
		name = p.TeamID
	}
	return fmt.Sprintf("%s (%d)", name, p.Seed)
}

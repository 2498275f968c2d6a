package bracket

import "time"

const (
	DefaultDerivedName        = "Konferans Ligi"
	DefaultDerivedSlug        = "conference-league"
	DefaultDerivedKickoffHour = 12
)

// Result is a completed round-one tie of a source bracket.
type Result struct {
	MatchID      string `json:"matchId" db:"match_id"`
	WinnerTeamID string `json:"winnerTeamId" db:"winner_team_id"`
	LoserTeamID  string `json:"loserTeamId" db:"loser_team_id"`
}

type DerivedOptions struct {
	Name string
	Slug string
	// Nil means DefaultDerivedKickoffHour
	KickoffHour *int
	// Empty means the source bracket's timezone
	Timezone string
	// Zero means one day after the builder clock's current time
	StartDate time.Time
	// Takes precedence over StartDate, read in the derived bracket's timezone
	StartDay         *Day
	RoundSpacingDays *int
	LegsPerTie       int
	LegKickoffHours  []int
}

func BuildDerived(source *Bracket, results []Result, opts DerivedOptions) (*Bracket, error) {
	return defaultBuilder.BuildDerived(source, results, opts)
}

// BuildDerived builds a second bracket out of the teams that lost their round-one tie in
// source. Results naming a loser the source bracket does not know are dropped.
func (b *Builder) BuildDerived(source *Bracket, results []Result, opts DerivedOptions) (*Bracket, error) {
	losers := eliminated(source, results)
	if len(losers) == 0 {
		return nil, ErrNoEligibleTeams
	}

	name := opts.Name
	if name == "" {
		name = DefaultDerivedName
	}
	slug := opts.Slug
	if slug == "" {
		slug = DefaultDerivedSlug
	}
	kickoffHour := DefaultDerivedKickoffHour
	if opts.KickoffHour != nil {
		kickoffHour = *opts.KickoffHour
	}
	timezone := opts.Timezone
	if timezone == "" && source != nil {
		timezone = source.Timezone
	}
	startDate := opts.StartDate
	if startDate.IsZero() && opts.StartDay == nil {
		startDate = b.clock.Now().AddDate(0, 0, 1)
	}

	return b.Build(losers, Options{
		Name:             name,
		Slug:             slug,
		KickoffHour:      kickoffHour,
		Timezone:         timezone,
		StartDate:        startDate,
		StartDay:         opts.StartDay,
		RoundSpacingDays: opts.RoundSpacingDays,
		LegsPerTie:       opts.LegsPerTie,
		LegKickoffHours:  opts.LegKickoffHours,
	})
}

// eliminated looks up each result's loser in the source bracket, keeping the first-seen
// order. A repeated loser replaces its earlier entry.
func eliminated(source *Bracket, results []Result) []Participant {
	if source == nil {
		return nil
	}

	byTeam := make(map[string]Participant, len(source.Participants))
	for _, p := range source.Participants {
		if p.TeamID != "" {
			byTeam[p.TeamID] = p
		}
	}

	losers := make([]Participant, 0, len(results))
	index := make(map[string]int, len(results))
	for _, result := range results {
		loser, ok := byTeam[result.LoserTeamID]
		if !ok {
			continue
		}
		if i, seen := index[loser.TeamID]; seen {
			losers[i] = loser
			continue
		}
		index[loser.TeamID] = len(losers)
		losers = append(losers, loser)
	}
	return losers
}

package bracket

import (
	"fmt"
	"math/bits"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/turhan-exe/Soccer-React-sub000/internal/utils"
)

type Options struct {
	Name        string
	Slug        string
	KickoffHour int

	// Empty means DefaultTimezone
	Timezone string
	// Zero means the builder clock's current time
	StartDate time.Time
	// Takes precedence over StartDate, read in Timezone
	StartDay *Day
	// Nil means DefaultRoundSpacingDays
	RoundSpacingDays *int
	// Values below 1 mean a single leg
	LegsPerTie int
	// Negative entries fall back to the derived hour for that leg
	LegKickoffHours []int
}

// Builder turns ranked participants into a single-elimination bracket. The clock is only
// read when a start date has to be defaulted, so a Builder is safe for concurrent use.
type Builder struct {
	clock clockwork.Clock
}

func NewBuilder(clock clockwork.Clock) *Builder {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Builder{clock: clock}
}

var defaultBuilder = NewBuilder(nil)

func Build(participants []Participant, opts Options) (*Bracket, error) {
	return defaultBuilder.Build(participants, opts)
}

type plan struct {
	timezone    string
	loc         *time.Location
	start       time.Time
	kickoffHour int
	spacing     int
	legsPerTie  int
	legHours    []int
}

func (b *Builder) resolve(opts Options) (plan, error) {
	timezone := opts.Timezone
	if timezone == "" {
		timezone = DefaultTimezone
	}
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return plan{}, fmt.Errorf("%w %q: %v", ErrUnknownTimezone, timezone, err)
	}

	if !validHour(opts.KickoffHour) {
		return plan{}, fmt.Errorf("%w: got %d", ErrInvalidKickoffHour, opts.KickoffHour)
	}

	spacing := DefaultRoundSpacingDays
	if opts.RoundSpacingDays != nil {
		spacing = *opts.RoundSpacingDays
	}
	if spacing < 0 {
		return plan{}, fmt.Errorf("%w: got %d", ErrInvalidRoundSpacing, spacing)
	}

	legsPerTie := max(1, opts.LegsPerTie)
	legHours := ResolveLegHours(opts.KickoffHour, legsPerTie, opts.LegKickoffHours)
	for i, hour := range legHours {
		if !validHour(hour) {
			return plan{}, fmt.Errorf("%w: leg %d got %d", ErrInvalidKickoffHour, i+1, hour)
		}
	}

	start := opts.StartDate
	switch {
	case opts.StartDay != nil:
		start = opts.StartDay.In(loc)
	case start.IsZero():
		start = b.clock.Now()
	}

	return plan{
		timezone:    timezone,
		loc:         loc,
		start:       start,
		kickoffHour: opts.KickoffHour,
		spacing:     spacing,
		legsPerTie:  legsPerTie,
		legHours:    legHours,
	}, nil
}

func (p plan) kickoff(hour, roundIndex int) time.Time {
	return KickoffAt(p.start, p.loc, hour, roundIndex, p.spacing)
}

// side is one half of a pairing: a seeded participant, a winner reference, or nothing.
type side struct {
	seed        *int
	participant *Participant
	source      *SlotSource
}

func (s side) present() bool {
	return s.participant != nil || s.source != nil
}

func resolveSide(entry SlotSource, bySeed map[int]Participant) side {
	if entry.Kind == WinnerSource {
		return side{source: utils.Ptr(entry)}
	}

	p, ok := bySeed[entry.Seed]
	if !ok {
		return side{}
	}
	return side{seed: utils.Ptr(entry.Seed), participant: utils.Ptr(p)}
}

// Build seeds the participants and lays out every round of the bracket.
func (b *Builder) Build(participants []Participant, opts Options) (*Bracket, error) {
	if len(participants) < 2 {
		return nil, fmt.Errorf("%w: got %d", ErrInsufficientParticipants, len(participants))
	}

	p, err := b.resolve(opts)
	if err != nil {
		return nil, err
	}

	seeded := RankParticipants(participants)
	bySeed := make(map[int]Participant, len(seeded))
	for _, participant := range seeded {
		bySeed[participant.Seed] = participant
	}

	bracketSize := BracketSize(len(seeded))
	order, err := SeedOrder(bracketSize)
	if err != nil {
		return nil, err
	}

	entries := make([]SlotSource, len(order))
	for i, seed := range order {
		entries[i] = SlotSource{Kind: SeedSource, Seed: seed}
	}

	totalRounds := bits.TrailingZeros(uint(bracketSize))
	rounds := make([]Round, 0, totalRounds)

	for roundIdx := 0; roundIdx < totalRounds; roundIdx++ {
		roundNumber := roundIdx + 1
		name := RoundName(bracketSize, roundIdx)
		roundKickoff := p.kickoff(p.kickoffHour, roundIdx)

		matches := make([]Match, 0, len(entries)/2)
		for i := 0; i < len(entries); i += 2 {
			home := resolveSide(entries[i], bySeed)
			away := resolveSide(entries[i+1], bySeed)
			if !home.present() && !away.present() {
				return nil, fmt.Errorf("round %d match %d has no participants", roundNumber, i/2+1)
			}

			m := Match{
				ID:              matchID(opts.Slug, roundNumber, i/2+1),
				Round:           roundNumber,
				RoundName:       name,
				ScheduledAt:     roundKickoff,
				HomeSeed:        home.seed,
				AwaySeed:        away.seed,
				HomeParticipant: home.participant,
				AwayParticipant: away.participant,
				HomeSource:      home.source,
				AwaySource:      away.source,
				IsBye:           home.present() != away.present(),
				Legs:            []Leg{},
			}

			if m.IsBye {
				if home.present() {
					m.AutoAdvanceSeed = utils.Clone(home.seed)
				} else {
					m.AutoAdvanceSeed = utils.Clone(away.seed)
				}
			} else {
				m.Legs = p.legs(roundIdx, home, away)
				m.ScheduledAt = m.Legs[0].ScheduledAt
			}

			matches = append(matches, m)
		}

		rounds = append(rounds, Round{Round: roundNumber, Name: name, Matches: matches})
		entries = nextEntries(matches)
	}

	return &Bracket{
		Name:         opts.Name,
		Slug:         opts.Slug,
		Timezone:     p.timezone,
		KickoffHour:  opts.KickoffHour,
		Participants: seeded,
		Rounds:       rounds,
	}, nil
}

// legs alternates venues when a tie has more than one leg: the nominal away side hosts the
// even (0-based) legs, so the second leg is always the first one reversed.
func (p plan) legs(roundIdx int, home, away side) []Leg {
	legs := make([]Leg, p.legsPerTie)
	for i := range legs {
		legHome, legAway := home, away
		if p.legsPerTie > 1 && i%2 == 0 {
			legHome, legAway = away, home
		}

		legs[i] = Leg{
			Leg:             i + 1,
			ScheduledAt:     p.kickoff(p.legHours[i], roundIdx),
			HomeSeed:        utils.Clone(legHome.seed),
			AwaySeed:        utils.Clone(legAway.seed),
			HomeParticipant: utils.Clone(legHome.participant),
			AwayParticipant: utils.Clone(legAway.participant),
		}
	}
	return legs
}

// nextEntries feeds a round's outcome into the next one. A bye carries its seed forward
// directly, a played match is referenced by id until its result is known.
func nextEntries(matches []Match) []SlotSource {
	entries := make([]SlotSource, len(matches))
	for i, m := range matches {
		if m.IsBye && m.AutoAdvanceSeed != nil {
			entries[i] = SlotSource{Kind: SeedSource, Seed: *m.AutoAdvanceSeed}
			continue
		}
		entries[i] = SlotSource{Kind: WinnerSource, MatchID: m.ID}
	}
	return entries
}

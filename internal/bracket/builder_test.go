package bracket

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/turhan-exe/Soccer-React-sub000/internal/utils"
)

func sixParticipants() []Participant {
	return []Participant{
		makeParticipant("A1", 1, 60, 25, 55, "L1"),
		makeParticipant("A2", 1, 58, 20, 50, "L2"),
		makeParticipant("A3", 1, 56, 18, 48, "L3"),
		makeParticipant("B1", 2, 52, 15, 40, "L1"),
		makeParticipant("B2", 2, 50, 12, 38, "L2"),
		makeParticipant("B3", 2, 49, 10, 36, "L3"),
	}
}

func numberedParticipants(n int) []Participant {
	participants := make([]Participant, n)
	for i := range participants {
		participants[i] = Participant{
			TeamID:         fmt.Sprintf("team-%02d", i+1),
			TeamName:       fmt.Sprintf("Team %02d", i+1),
			LeaguePosition: 1,
			Points:         100 - i,
		}
	}
	return participants
}

func seedOf(p *Participant) int {
	if p == nil {
		return 0
	}
	return p.Seed
}

func TestBuildSixParticipants(t *testing.T) {
	startDate := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	b, err := Build(sixParticipants(), Options{
		Name:             "Test Champions",
		Slug:             "test-champions",
		KickoffHour:      15,
		Timezone:         "Europe/Istanbul",
		StartDate:        startDate,
		RoundSpacingDays: utils.Ptr(2),
	})
	require.NoError(t, err)

	assert.Equal(t, "Test Champions", b.Name)
	assert.Equal(t, "test-champions", b.Slug)
	assert.Equal(t, "Europe/Istanbul", b.Timezone)
	assert.Equal(t, 15, b.KickoffHour)
	assert.Equal(t, 8, b.BracketSize())

	seeds := make([]int, len(b.Participants))
	for i, p := range b.Participants {
		seeds[i] = p.Seed
	}
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6}, seeds)

	require.Len(t, b.Rounds, 3)
	assert.Equal(t, "Quarter Final", b.Rounds[0].Name)
	assert.Equal(t, "Semi Final", b.Rounds[1].Name)
	assert.Equal(t, "Final", b.Rounds[2].Name)

	round1 := b.Rounds[0].Matches
	require.Len(t, round1, 4)

	// Slots for seeds 7 and 8 are empty, so seeds 2 and 1 go through without playing
	assert.True(t, round1[0].IsBye)
	assert.Equal(t, 1, seedOf(round1[0].HomeParticipant))
	assert.Nil(t, round1[0].AwayParticipant)
	assert.Nil(t, round1[0].AwaySeed)
	assert.Equal(t, utils.Ptr(1), round1[0].AutoAdvanceSeed)
	assert.Empty(t, round1[0].Legs)

	assert.False(t, round1[1].IsBye)
	assert.Equal(t, 4, seedOf(round1[1].HomeParticipant))
	assert.Equal(t, 5, seedOf(round1[1].AwayParticipant))

	assert.True(t, round1[2].IsBye)
	assert.Equal(t, utils.Ptr(2), round1[2].AutoAdvanceSeed)

	assert.False(t, round1[3].IsBye)
	assert.Equal(t, 3, seedOf(round1[3].HomeParticipant))
	assert.Equal(t, 6, seedOf(round1[3].AwayParticipant))

	byes := 0
	for _, m := range round1 {
		if m.IsBye {
			byes++
			continue
		}
		assert.Nil(t, m.AutoAdvanceSeed)
		require.Len(t, m.Legs, 1)
		assert.Equal(t, "15:00", m.ScheduledAt.In(mustLoadLocation(t, "Europe/Istanbul")).Format("15:04"))
		assert.Equal(t, m.HomeParticipant, m.Legs[0].HomeParticipant)
		assert.Equal(t, m.AwayParticipant, m.Legs[0].AwayParticipant)
	}
	assert.Equal(t, 2, byes)

	for _, m := range round1 {
		assertInstant(t, time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC), m.ScheduledAt)
	}

	// Byes re-enter as seeds, played matches as winner references
	semi := b.Rounds[1].Matches
	require.Len(t, semi, 2)
	assert.Equal(t, "test-champions-R2-M1", semi[0].ID)
	assert.False(t, semi[0].IsBye)
	assert.Equal(t, utils.Ptr(1), semi[0].HomeSeed)
	assert.Equal(t, 1, seedOf(semi[0].HomeParticipant))
	assert.Nil(t, semi[0].AwayParticipant)
	require.NotNil(t, semi[0].AwaySource)
	assert.Equal(t, SlotSource{Kind: WinnerSource, MatchID: "test-champions-R1-M2"}, *semi[0].AwaySource)
	assert.Equal(t, 2, seedOf(semi[1].HomeParticipant))
	assert.Equal(t, "test-champions-R1-M4", semi[1].AwaySource.MatchID)
	assertInstant(t, time.Date(2025, 1, 3, 12, 0, 0, 0, time.UTC), semi[0].ScheduledAt)

	final := b.Rounds[2].Matches
	require.Len(t, final, 1)
	assert.Equal(t, "test-champions-R3-M1", final[0].ID)
	assert.Equal(t, "test-champions-R2-M1", final[0].HomeSource.MatchID)
	assert.Equal(t, "test-champions-R2-M2", final[0].AwaySource.MatchID)
	assert.Nil(t, final[0].HomeParticipant)
	assert.Nil(t, final[0].AwayParticipant)
	assertInstant(t, time.Date(2025, 1, 5, 12, 0, 0, 0, time.UTC), final[0].ScheduledAt)
}

func TestBuildTwoLeggedTies(t *testing.T) {
	participants := []Participant{
		makeParticipant("A1", 1, 60, 25, 55, "L1"),
		makeParticipant("A2", 1, 58, 20, 50, "L2"),
		makeParticipant("B1", 2, 52, 15, 40, "L1"),
		makeParticipant("B2", 2, 50, 12, 38, "L2"),
	}

	b, err := Build(participants, Options{
		Name:             "Two-Leg Test",
		Slug:             "two-leg-test",
		KickoffHour:      10,
		LegKickoffHours:  []int{10, 20},
		Timezone:         "Europe/Istanbul",
		StartDate:        time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		RoundSpacingDays: utils.Ptr(3),
		LegsPerTie:       2,
	})
	require.NoError(t, err)

	istanbul := mustLoadLocation(t, "Europe/Istanbul")
	for _, m := range b.Rounds[0].Matches {
		require.False(t, m.IsBye)
		require.Len(t, m.Legs, 2)

		first, second := m.Legs[0], m.Legs[1]
		assert.Equal(t, 1, first.Leg)
		assert.Equal(t, 2, second.Leg)
		assert.Equal(t, "10:00", first.ScheduledAt.In(istanbul).Format("15:04"))
		assert.Equal(t, "20:00", second.ScheduledAt.In(istanbul).Format("15:04"))
		assert.Equal(t, first.ScheduledAt, m.ScheduledAt)

		assert.Equal(t, m.AwayParticipant.TeamID, first.HomeParticipant.TeamID)
		assert.Equal(t, m.HomeParticipant.TeamID, second.HomeParticipant.TeamID)
		assert.Equal(t, first.HomeParticipant, second.AwayParticipant)
		assert.Equal(t, first.AwayParticipant, second.HomeParticipant)
		assert.Equal(t, first.HomeSeed, second.AwaySeed)
		assert.Equal(t, first.AwaySeed, second.HomeSeed)
	}

	final := b.Rounds[1].Matches[0]
	require.Len(t, final.Legs, 2)
	assert.Nil(t, final.Legs[0].HomeParticipant)
	assertInstant(t, time.Date(2025, 1, 4, 7, 0, 0, 0, time.UTC), final.Legs[0].ScheduledAt)
	assertInstant(t, time.Date(2025, 1, 4, 17, 0, 0, 0, time.UTC), final.Legs[1].ScheduledAt)
}

func TestBuildThreeLegsDerivesHours(t *testing.T) {
	b, err := Build(numberedParticipants(2), Options{
		Slug:        "three",
		KickoffHour: 15,
		Timezone:    "UTC",
		StartDate:   time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
		LegsPerTie:  3,
	})
	require.NoError(t, err)

	legs := b.Rounds[0].Matches[0].Legs
	require.Len(t, legs, 3)
	assert.Equal(t, 15, legs[0].ScheduledAt.Hour())
	assert.Equal(t, 21, legs[1].ScheduledAt.Hour())
	assert.Equal(t, 23, legs[2].ScheduledAt.Hour())

	assert.Equal(t, 2, legs[0].HomeParticipant.Seed)
	assert.Equal(t, 1, legs[1].HomeParticipant.Seed)
	assert.Equal(t, 2, legs[2].HomeParticipant.Seed)
}

func TestBuildStructure(t *testing.T) {
	for n := 2; n <= 40; n++ {
		t.Run(fmt.Sprintf("%d participants", n), func(t *testing.T) {
			b, err := Build(numberedParticipants(n), Options{
				Slug:        "cup",
				KickoffHour: 18,
				StartDate:   time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC),
			})
			require.NoError(t, err)

			size := BracketSize(n)
			require.Len(t, b.Participants, n)
			for i, p := range b.Participants {
				assert.Equal(t, i+1, p.Seed)
			}

			expectedRounds := 0
			for s := size; s > 1; s >>= 1 {
				expectedRounds++
			}
			require.Len(t, b.Rounds, expectedRounds)

			matchCount := size / 2
			for r, round := range b.Rounds {
				assert.Equal(t, r+1, round.Round)
				require.Len(t, round.Matches, matchCount)

				byes := 0
				for i, m := range round.Matches {
					assert.Equal(t, fmt.Sprintf("cup-R%d-M%d", r+1, i+1), m.ID)

					homePresent := m.HomeParticipant != nil || m.HomeSource != nil
					awayPresent := m.AwayParticipant != nil || m.AwaySource != nil
					require.True(t, homePresent || awayPresent, "match %s has no sides", m.ID)
					assert.Equal(t, homePresent != awayPresent, m.IsBye, "match %s", m.ID)

					if m.IsBye {
						byes++
						assert.Empty(t, m.Legs)
						require.NotNil(t, m.AutoAdvanceSeed)
						if homePresent {
							assert.Equal(t, m.HomeSeed, m.AutoAdvanceSeed)
						} else {
							assert.Equal(t, m.AwaySeed, m.AutoAdvanceSeed)
						}
					} else {
						assert.Nil(t, m.AutoAdvanceSeed)
						assert.Len(t, m.Legs, 1)
					}
				}

				if r == 0 {
					assert.Equal(t, size-n, byes)
				} else {
					assert.Zero(t, byes)
				}
				matchCount /= 2
			}

			if size > 2 {
				half := len(b.Rounds[0].Matches) / 2
				top := b.Rounds[0].Matches[:half]
				bottom := b.Rounds[0].Matches[half:]
				assert.True(t, containsSeed(top, 1))
				assert.True(t, containsSeed(bottom, 2))
			}
		})
	}
}

func containsSeed(matches []Match, seed int) bool {
	for _, m := range matches {
		if seedOf(m.HomeParticipant) == seed || seedOf(m.AwayParticipant) == seed {
			return true
		}
	}
	return false
}

func TestBuildIsIdempotent(t *testing.T) {
	opts := Options{
		Name:        "Cup",
		Slug:        "cup",
		KickoffHour: 19,
		Timezone:    "Europe/Istanbul",
		StartDate:   time.Date(2025, 9, 12, 6, 0, 0, 0, time.UTC),
		LegsPerTie:  2,
	}

	first, err := Build(numberedParticipants(11), opts)
	require.NoError(t, err)
	second, err := Build(numberedParticipants(11), opts)
	require.NoError(t, err)

	firstJSON, err := json.Marshal(first)
	require.NoError(t, err)
	secondJSON, err := json.Marshal(second)
	require.NoError(t, err)
	assert.JSONEq(t, string(firstJSON), string(secondJSON))
}

func TestBuildDefaults(t *testing.T) {
	clock := clockwork.NewFakeClockAt(time.Date(2025, 6, 1, 22, 0, 0, 0, time.UTC))
	builder := NewBuilder(clock)

	b, err := builder.Build(numberedParticipants(4), Options{Slug: "defaults", KickoffHour: 15})
	require.NoError(t, err)

	assert.Equal(t, DefaultTimezone, b.Timezone)
	// 22:00 UTC is already June 2nd in Istanbul
	assertInstant(t, time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC), b.Rounds[0].Matches[0].ScheduledAt)
	assertInstant(t, time.Date(2025, 6, 4, 12, 0, 0, 0, time.UTC), b.Rounds[1].Matches[0].ScheduledAt)
	assert.Len(t, b.Rounds[0].Matches[0].Legs, 1)
}

func TestBuildStartDayReadInTimezone(t *testing.T) {
	b, err := Build(numberedParticipants(2), Options{
		Slug:        "west",
		KickoffHour: 15,
		Timezone:    "America/Los_Angeles",
		// Ignored when a day is given
		StartDate: time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC),
		StartDay:  &Day{Year: 2025, Month: time.March, Day: 10},
	})
	require.NoError(t, err)

	// 15:00 PDT on March 10th
	assertInstant(t, time.Date(2025, 3, 10, 22, 0, 0, 0, time.UTC), b.Rounds[0].Matches[0].ScheduledAt)
}

func TestBuildErrors(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	testCases := []struct {
		name          string
		participants  []Participant
		opts          Options
		expectedError error
	}{
		{
			name:          "No participants",
			participants:  nil,
			opts:          Options{Slug: "x", KickoffHour: 15, StartDate: start},
			expectedError: ErrInsufficientParticipants,
		},
		{
			name:          "One participant",
			participants:  numberedParticipants(1),
			opts:          Options{Slug: "x", KickoffHour: 15, StartDate: start},
			expectedError: ErrInsufficientParticipants,
		},
		{
			name:          "Kickoff hour out of range",
			participants:  numberedParticipants(4),
			opts:          Options{Slug: "x", KickoffHour: 24, StartDate: start},
			expectedError: ErrInvalidKickoffHour,
		},
		{
			name:          "Leg hour out of range",
			participants:  numberedParticipants(4),
			opts:          Options{Slug: "x", KickoffHour: 15, LegsPerTie: 2, LegKickoffHours: []int{15, 30}, StartDate: start},
			expectedError: ErrInvalidKickoffHour,
		},
		{
			name:          "Negative spacing",
			participants:  numberedParticipants(4),
			opts:          Options{Slug: "x", KickoffHour: 15, RoundSpacingDays: utils.Ptr(-1), StartDate: start},
			expectedError: ErrInvalidRoundSpacing,
		},
		{
			name:          "Unknown timezone",
			participants:  numberedParticipants(4),
			opts:          Options{Slug: "x", KickoffHour: 15, Timezone: "Mars/Olympus", StartDate: start},
			expectedError: ErrUnknownTimezone,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			b, err := Build(tc.participants, tc.opts)
			assert.ErrorIs(t, err, tc.expectedError)
			assert.True(t, IsInputError(err))
			assert.Nil(t, b)
		})
	}
}

func TestBuildIgnoresSurplusLegHours(t *testing.T) {
	b, err := Build(numberedParticipants(2), Options{
		Slug:            "surplus",
		KickoffHour:     12,
		Timezone:        "UTC",
		StartDate:       time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		LegKickoffHours: []int{12, 99},
	})
	require.NoError(t, err)
	assert.Len(t, b.Rounds[0].Matches[0].Legs, 1)
}

func TestRoundName(t *testing.T) {
	assert.Equal(t, "Final", RoundName(2, 0))
	assert.Equal(t, "Semi Final", RoundName(4, 0))
	assert.Equal(t, "Final", RoundName(4, 1))
	assert.Equal(t, "Quarter Final", RoundName(8, 0))
	assert.Equal(t, "Round of 16", RoundName(16, 0))
	assert.Equal(t, "Round of 32", RoundName(32, 0))
	assert.Equal(t, "Round of 64", RoundName(128, 1))
}

func TestBracketLookups(t *testing.T) {
	b, err := Build(sixParticipants(), Options{Slug: "lookups", KickoffHour: 15, StartDate: time.Now()})
	require.NoError(t, err)

	m, ok := b.Match("lookups-R1-M2")
	require.True(t, ok)
	assert.True(t, m.Involves("team-B1"))
	assert.True(t, m.Playable())
	assert.False(t, m.Involves("team-A1"))

	_, ok = b.Match("lookups-R9-M1")
	assert.False(t, ok)

	p, ok := b.ParticipantByTeam("team-A3")
	require.True(t, ok)
	assert.Equal(t, 3, p.Seed)
}

package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/mattn/go-sqlite3"
	"github.com/turhan-exe/Soccer-React-sub000/internal/bracket"
)

var (
	ErrSlugTaken    = errors.New("tournament slug already exists")
	ErrResultExists = errors.New("result already recorded for this match")
)

type TournamentKind string

const (
	KnockoutTournament   TournamentKind = "knockout"
	ChampionsTournament  TournamentKind = "champions"
	ConferenceTournament TournamentKind = "conference"
)

type Tournament struct {
	ID          uuid.UUID      `db:"id" json:"id"`
	Slug        string         `db:"slug" json:"slug"`
	Name        string         `db:"name" json:"name"`
	Kind        TournamentKind `db:"kind" json:"kind"`
	SourceSlug  *string        `db:"source_slug" json:"sourceSlug,omitempty"`
	Timezone    string         `db:"timezone" json:"timezone"`
	KickoffHour int            `db:"kickoff_hour" json:"kickoffHour"`
	CreatedAt   time.Time      `db:"created_at" json:"createdAt"`
}

type participantRow struct {
	TournamentID uuid.UUID `db:"tournament_id"`
	bracket.Participant
}

type matchRow struct {
	ID           string    `db:"id"`
	TournamentID uuid.UUID `db:"tournament_id"`

	// Position in the bracket for rebuilding the rounds
	RoundNumber int    `db:"round_number"`
	RoundName   string `db:"round_name"`
	MatchOrder  int    `db:"match_order"`

	ScheduledAt       time.Time `db:"scheduled_at"`
	HomeSeed          *int      `db:"home_seed"`
	AwaySeed          *int      `db:"away_seed"`
	HomeSourceMatchID *string   `db:"home_source_match_id"`
	AwaySourceMatchID *string   `db:"away_source_match_id"`
	IsBye             bool      `db:"is_bye"`
	AutoAdvanceSeed   *int      `db:"auto_advance_seed"`
}

type legRow struct {
	MatchID     string    `db:"match_id"`
	Leg         int       `db:"leg"`
	ScheduledAt time.Time `db:"scheduled_at"`
	HomeSeed    *int      `db:"home_seed"`
	AwaySeed    *int      `db:"away_seed"`
}

const (
	createTournamentQuery = `
		INSERT INTO tournaments (id, slug, name, kind, source_slug, timezone, kickoff_hour, created_at)
		VALUES (:id, :slug, :name, :kind, :source_slug, :timezone, :kickoff_hour, :created_at)
	`
	createParticipantsQuery = `
		INSERT INTO tournament_participants (tournament_id, seed, team_id, team_name, league_id, league_name, league_position, points, goal_difference, scored)
		VALUES (:tournament_id, :seed, :team_id, :team_name, :league_id, :league_name, :league_position, :points, :goal_difference, :scored)
	`
	createMatchesQuery = `
		INSERT INTO matches (id, tournament_id, round_number, round_name, match_order, scheduled_at, home_seed, away_seed, home_source_match_id, away_source_match_id, is_bye, auto_advance_seed)
		VALUES (:id, :tournament_id, :round_number, :round_name, :match_order, :scheduled_at, :home_seed, :away_seed, :home_source_match_id, :away_source_match_id, :is_bye, :auto_advance_seed)
	`
	createLegsQuery = `
		INSERT INTO match_legs (match_id, leg, scheduled_at, home_seed, away_seed)
		VALUES (:match_id, :leg, :scheduled_at, :home_seed, :away_seed)
	`
	createResultQuery = `
		INSERT INTO match_results (match_id, winner_team_id, loser_team_id)
		VALUES (:match_id, :winner_team_id, :loser_team_id)
	`

	getTournamentBySlugQuery = "SELECT * FROM tournaments WHERE slug = ?"
	listTournamentsQuery     = "SELECT * FROM tournaments ORDER BY created_at DESC, slug ASC"
	getParticipantsQuery     = "SELECT * FROM tournament_participants WHERE tournament_id = ? ORDER BY seed ASC"
	getMatchesQuery          = "SELECT * FROM matches WHERE tournament_id = ? ORDER BY round_number ASC, match_order ASC"
	getLegsQuery             = `
		SELECT l.* FROM match_legs l
		JOIN matches m ON m.id = l.match_id
		WHERE m.tournament_id = ?
		ORDER BY l.match_id ASC, l.leg ASC
	`
	getResultsByRoundQuery = `
		SELECT r.match_id, r.winner_team_id, r.loser_team_id FROM match_results r
		JOIN matches m ON m.id = r.match_id
		WHERE m.tournament_id = ? AND m.round_number = ?
		ORDER BY m.match_order ASC
	`
)

type TournamentStore struct {
	db *sqlx.DB
}

func NewTournamentStore(db *sqlx.DB) *TournamentStore {
	return &TournamentStore{db: db}
}

// CreateBracket stores the tournament record together with every participant, match and leg.
func (s *TournamentStore) CreateBracket(ctx context.Context, tx *sqlx.Tx, tournament *Tournament, b *bracket.Bracket) error {
	if _, err := tx.NamedExecContext(ctx, createTournamentQuery, tournament); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %s", ErrSlugTaken, tournament.Slug)
		}
		return err
	}

	participants := make([]participantRow, len(b.Participants))
	for i, p := range b.Participants {
		participants[i] = participantRow{TournamentID: tournament.ID, Participant: p}
	}
	if len(participants) > 0 {
		if _, err := tx.NamedExecContext(ctx, createParticipantsQuery, participants); err != nil {
			return fmt.Errorf("failed to insert participants: %w", err)
		}
	}

	var matches []matchRow
	var legs []legRow
	for _, round := range b.Rounds {
		for i, m := range round.Matches {
			matches = append(matches, matchRow{
				ID:                m.ID,
				TournamentID:      tournament.ID,
				RoundNumber:       m.Round,
				RoundName:         m.RoundName,
				MatchOrder:        i + 1,
				ScheduledAt:       m.ScheduledAt.UTC(),
				HomeSeed:          m.HomeSeed,
				AwaySeed:          m.AwaySeed,
				HomeSourceMatchID: sourceMatchID(m.HomeSource),
				AwaySourceMatchID: sourceMatchID(m.AwaySource),
				IsBye:             m.IsBye,
				AutoAdvanceSeed:   m.AutoAdvanceSeed,
			})
			for _, leg := range m.Legs {
				legs = append(legs, legRow{
					MatchID:     m.ID,
					Leg:         leg.Leg,
					ScheduledAt: leg.ScheduledAt.UTC(),
					HomeSeed:    leg.HomeSeed,
					AwaySeed:    leg.AwaySeed,
				})
			}
		}
	}

	if len(matches) > 0 {
		if _, err := tx.NamedExecContext(ctx, createMatchesQuery, matches); err != nil {
			return fmt.Errorf("failed to insert matches: %w", err)
		}
	}
	if len(legs) > 0 {
		if _, err := tx.NamedExecContext(ctx, createLegsQuery, legs); err != nil {
			return fmt.Errorf("failed to insert legs: %w", err)
		}
	}
	return nil
}

func (s *TournamentStore) GetTournamentBySlug(ctx context.Context, slug string) (*Tournament, error) {
	var tournament Tournament
	err := s.db.GetContext(ctx, &tournament, getTournamentBySlugQuery, slug)
	if err != nil {
		return nil, err
	}
	return &tournament, nil
}

func (s *TournamentStore) ListTournaments(ctx context.Context) ([]Tournament, error) {
	var tournaments []Tournament
	err := s.db.SelectContext(ctx, &tournaments, listTournamentsQuery)
	return tournaments, err
}

// GetBracket rebuilds the stored bracket of a tournament, with instants expressed in the
// tournament's timezone.
func (s *TournamentStore) GetBracket(ctx context.Context, tournament *Tournament) (*bracket.Bracket, error) {
	loc, err := time.LoadLocation(tournament.Timezone)
	if err != nil {
		return nil, fmt.Errorf("failed to load timezone %q: %w", tournament.Timezone, err)
	}

	var participantRows []participantRow
	if err := s.db.SelectContext(ctx, &participantRows, getParticipantsQuery, tournament.ID); err != nil {
		return nil, fmt.Errorf("failed to get participants: %w", err)
	}
	var matchRows []matchRow
	if err := s.db.SelectContext(ctx, &matchRows, getMatchesQuery, tournament.ID); err != nil {
		return nil, fmt.Errorf("failed to get matches: %w", err)
	}
	var legRows []legRow
	if err := s.db.SelectContext(ctx, &legRows, getLegsQuery, tournament.ID); err != nil {
		return nil, fmt.Errorf("failed to get legs: %w", err)
	}

	participants := make([]bracket.Participant, len(participantRows))
	bySeed := make(map[int]bracket.Participant, len(participantRows))
	for i, row := range participantRows {
		participants[i] = row.Participant
		bySeed[row.Seed] = row.Participant
	}
	participantAt := func(seed *int) *bracket.Participant {
		if seed == nil {
			return nil
		}
		p, ok := bySeed[*seed]
		if !ok {
			return nil
		}
		return &p
	}

	legsByMatch := make(map[string][]bracket.Leg)
	for _, row := range legRows {
		legsByMatch[row.MatchID] = append(legsByMatch[row.MatchID], bracket.Leg{
			Leg:             row.Leg,
			ScheduledAt:     row.ScheduledAt.In(loc),
			HomeSeed:        row.HomeSeed,
			AwaySeed:        row.AwaySeed,
			HomeParticipant: participantAt(row.HomeSeed),
			AwayParticipant: participantAt(row.AwaySeed),
		})
	}

	rounds := []bracket.Round{}
	for _, row := range matchRows {
		if len(rounds) == 0 || rounds[len(rounds)-1].Round != row.RoundNumber {
			rounds = append(rounds, bracket.Round{Round: row.RoundNumber, Name: row.RoundName})
		}

		legs, ok := legsByMatch[row.ID]
		if !ok {
			legs = []bracket.Leg{}
		}

		round := &rounds[len(rounds)-1]
		round.Matches = append(round.Matches, bracket.Match{
			ID:              row.ID,
			Round:           row.RoundNumber,
			RoundName:       row.RoundName,
			ScheduledAt:     row.ScheduledAt.In(loc),
			HomeSeed:        row.HomeSeed,
			AwaySeed:        row.AwaySeed,
			HomeParticipant: participantAt(row.HomeSeed),
			AwayParticipant: participantAt(row.AwaySeed),
			HomeSource:      winnerOf(row.HomeSourceMatchID),
			AwaySource:      winnerOf(row.AwaySourceMatchID),
			IsBye:           row.IsBye,
			AutoAdvanceSeed: row.AutoAdvanceSeed,
			Legs:            legs,
		})
	}

	return &bracket.Bracket{
		Name:         tournament.Name,
		Slug:         tournament.Slug,
		Timezone:     tournament.Timezone,
		KickoffHour:  tournament.KickoffHour,
		Participants: participants,
		Rounds:       rounds,
	}, nil
}

func (s *TournamentStore) CreateResult(ctx context.Context, tx *sqlx.Tx, result *bracket.Result) error {
	_, err := tx.NamedExecContext(ctx, createResultQuery, result)
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: %s", ErrResultExists, result.MatchID)
	}
	return err
}

func (s *TournamentStore) GetResults(ctx context.Context, tournamentID uuid.UUID, round int) ([]bracket.Result, error) {
	var results []bracket.Result
	err := s.db.SelectContext(ctx, &results, getResultsByRoundQuery, tournamentID, round)
	return results, err
}

func sourceMatchID(source *bracket.SlotSource) *string {
	if source == nil || source.Kind != bracket.WinnerSource {
		return nil
	}
	id := source.MatchID
	return &id
}

func winnerOf(matchID *string) *bracket.SlotSource {
	if matchID == nil {
		return nil
	}
	return &bracket.SlotSource{Kind: bracket.WinnerSource, MatchID: *matchID}
}

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
		sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
}

package service

import (
	"cmp"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
	"github.com/turhan-exe/Soccer-React-sub000/internal/bracket"
	"github.com/turhan-exe/Soccer-React-sub000/internal/store"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Upper bound on concurrent standings queries
const maxStandingsFetches = 8

type ParticipantService struct {
	db                  *sqlx.DB
	store               *store.StandingsStore
	qualifiersPerLeague int
}

func NewParticipantService(db *sqlx.DB, store *store.StandingsStore, qualifiersPerLeague int) *ParticipantService {
	return &ParticipantService{
		db:                  db,
		store:               store,
		qualifiersPerLeague: max(1, qualifiersPerLeague),
	}
}

type LeagueData struct {
	League    *store.League
	Standings []store.Standing
}

// SaveLeague creates or updates a league and replaces its standings table.
func (s *ParticipantService) SaveLeague(ctx context.Context, league *store.League, standings []store.Standing) error {
	if league.ID == "" {
		return fmt.Errorf("%w: id is required", ErrInvalidLeague)
	}
	if league.State == "" {
		league.State = store.LeagueActive
	}
	if league.State != store.LeagueActive && league.State != store.LeagueCompleted {
		return fmt.Errorf("%w: unknown state %q", ErrInvalidLeague, league.State)
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := s.store.UpsertLeague(ctx, tx, league); err != nil {
		return fmt.Errorf("failed to save league %s: %w", league.ID, err)
	}
	if err := s.store.ReplaceStandings(ctx, tx, league.ID, standings); err != nil {
		return fmt.Errorf("failed to save standings of league %s: %w", league.ID, err)
	}
	if err := tx.Commit(); err != nil {
		return err
	}

	log.Info().
		Str("league", league.ID).
		Str("state", string(league.State)).
		Int("teams", len(standings)).
		Msg("league saved")
	return nil
}

func (s *ParticipantService) GetLeague(ctx context.Context, id string) (*LeagueData, error) {
	league, err := s.store.GetLeague(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrLeagueNotFound, id)
	}
	if err != nil {
		return nil, err
	}

	standings, err := s.store.GetStandings(ctx, id)
	if err != nil {
		return nil, err
	}
	return &LeagueData{League: league, Standings: standings}, nil
}

// ChampionsParticipants collects the top finishers of every completed league, ranked for
// seeding. Standings are read one league per goroutine.
func (s *ParticipantService) ChampionsParticipants(ctx context.Context) ([]bracket.Participant, error) {
	leagues, err := s.store.ListCompletedLeagues(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list completed leagues: %w", err)
	}

	qualified := make([][]bracket.Participant, len(leagues))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxStandingsFetches)

	for i, league := range leagues {
		g.Go(func() error {
			standings, err := s.store.GetStandings(gctx, league.ID)
			if err != nil {
				return fmt.Errorf("failed to get standings of league %s: %w", league.ID, err)
			}
			qualified[i] = leagueQualifiers(league, standings, s.qualifiersPerLeague)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var participants []bracket.Participant
	for _, teams := range qualified {
		participants = append(participants, teams...)
	}

	log.Debug().
		Int("leagues", len(leagues)).
		Int("participants", len(participants)).
		Msg("collected champions participants")
	return bracket.SortParticipants(participants), nil
}

// leagueQualifiers orders a league table by points, goal difference and goals for, then by
// name, and keeps the first n rows that name a team.
func leagueQualifiers(league store.League, standings []store.Standing, n int) []bracket.Participant {
	rows := slices.DeleteFunc(slices.Clone(standings), func(row store.Standing) bool {
		return row.TeamID == ""
	})

	names := collate.New(language.Und)
	slices.SortStableFunc(rows, func(a, b store.Standing) int {
		if c := cmp.Compare(b.Points, a.Points); c != 0 {
			return c
		}
		if c := cmp.Compare(b.GoalDifference, a.GoalDifference); c != 0 {
			return c
		}
		if c := cmp.Compare(b.GoalsFor, a.GoalsFor); c != 0 {
			return c
		}
		return names.CompareString(displayName(a), displayName(b))
	})

	leagueName := league.Name
	if leagueName == "" {
		leagueName = league.ID
	}

	participants := make([]bracket.Participant, 0, min(n, len(rows)))
	for i, row := range rows[:min(n, len(rows))] {
		participants = append(participants, bracket.Participant{
			TeamID:         row.TeamID,
			TeamName:       displayName(row),
			LeagueID:       league.ID,
			LeagueName:     leagueName,
			LeaguePosition: i + 1,
			Points:         row.Points,
			GoalDifference: row.GoalDifference,
			Scored:         row.GoalsFor,
		})
	}
	return participants
}

func displayName(row store.Standing) string {
	if row.Name != "" {
		return row.Name
	}
	return row.TeamID
}

package store

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
)

type LeagueState string

const (
	LeagueActive    LeagueState = "active"
	LeagueCompleted LeagueState = "completed"
)

type League struct {
	ID        string      `db:"id" json:"id"`
	Name      string      `db:"name" json:"name"`
	State     LeagueState `db:"state" json:"state"`
	CreatedAt time.Time   `db:"created_at" json:"createdAt"`
}

// Standing is one row of a league table.
type Standing struct {
	LeagueID       string `db:"league_id" json:"-"`
	TeamID         string `db:"team_id" json:"teamId"`
	Name           string `db:"name" json:"name"`
	Points         int    `db:"points" json:"points"`
	GoalDifference int    `db:"goal_difference" json:"goalDifference"`
	GoalsFor       int    `db:"goals_for" json:"goalsFor"`
}

type StandingsStore struct {
	db *sqlx.DB
}

const (
	upsertLeagueQuery = `
		INSERT INTO leagues (id, name, state) VALUES (:id, :name, :state)
		ON CONFLICT (id) DO UPDATE SET name = excluded.name, state = excluded.state
	`
	deleteStandingsQuery = "DELETE FROM standings WHERE league_id = ?"
	insertStandingsQuery = `
		INSERT INTO standings (league_id, team_id, name, points, goal_difference, goals_for)
		VALUES (:league_id, :team_id, :name, :points, :goal_difference, :goals_for)
	`
	getLeagueQuery            = "SELECT * FROM leagues WHERE id = ?"
	getLeaguesByStateQuery    = "SELECT * FROM leagues WHERE state = ? ORDER BY id ASC"
	getStandingsByLeagueQuery = "SELECT * FROM standings WHERE league_id = ? ORDER BY team_id ASC"
)

func NewStandingsStore(db *sqlx.DB) *StandingsStore {
	return &StandingsStore{db: db}
}

func (s *StandingsStore) UpsertLeague(ctx context.Context, tx *sqlx.Tx, league *League) error {
	_, err := tx.NamedExecContext(ctx, upsertLeagueQuery, league)
	return err
}

// ReplaceStandings swaps the whole table of a league for the given rows.
func (s *StandingsStore) ReplaceStandings(ctx context.Context, tx *sqlx.Tx, leagueID string, standings []Standing) error {
	if _, err := tx.ExecContext(ctx, deleteStandingsQuery, leagueID); err != nil {
		return err
	}
	if len(standings) == 0 {
		return nil
	}

	rows := make([]Standing, len(standings))
	for i, row := range standings {
		row.LeagueID = leagueID
		rows[i] = row
	}
	_, err := tx.NamedExecContext(ctx, insertStandingsQuery, rows)
	return err
}

func (s *StandingsStore) GetLeague(ctx context.Context, id string) (*League, error) {
	var league League
	err := s.db.GetContext(ctx, &league, getLeagueQuery, id)
	if err != nil {
		return nil, err
	}
	return &league, nil
}

func (s *StandingsStore) ListCompletedLeagues(ctx context.Context) ([]League, error) {
	var leagues []League
	err := s.db.SelectContext(ctx, &leagues, getLeaguesByStateQuery, LeagueCompleted)
	return leagues, err
}

func (s *StandingsStore) GetStandings(ctx context.Context, leagueID string) ([]Standing, error) {
	var standings []Standing
	err := s.db.SelectContext(ctx, &standings, getStandingsByLeagueQuery, leagueID)
	return standings, err
}

package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
	"github.com/turhan-exe/Soccer-React-sub000/internal/bracket"
	"github.com/turhan-exe/Soccer-React-sub000/internal/store"
)

type MatchService struct {
	db    *sqlx.DB
	store *store.TournamentStore
}

func NewMatchService(db *sqlx.DB, store *store.TournamentStore) *MatchService {
	return &MatchService{db: db, store: store}
}

// RecordResult stores the outcome of a played round-one tie. Only round one is tracked, as
// that is all a derived tournament needs.
func (s *MatchService) RecordResult(ctx context.Context, slug string, result bracket.Result) error {
	tournament, err := s.store.GetTournamentBySlug(ctx, slug)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %s", ErrTournamentNotFound, slug)
	}
	if err != nil {
		return err
	}

	b, err := s.store.GetBracket(ctx, tournament)
	if err != nil {
		return err
	}

	match, ok := b.Match(result.MatchID)
	if !ok {
		return fmt.Errorf("%w: %s", ErrMatchNotFound, result.MatchID)
	}
	if err := validateResult(match, result); err != nil {
		return err
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := s.store.CreateResult(ctx, tx, &result); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}

	log.Info().
		Str("slug", slug).
		Str("match", result.MatchID).
		Str("winner", result.WinnerTeamID).
		Msg("result recorded")
	return nil
}

func validateResult(match *bracket.Match, result bracket.Result) error {
	switch {
	case match.Round != 1:
		return fmt.Errorf("%w: only round one results are recorded", ErrInvalidResult)
	case !match.Playable():
		return fmt.Errorf("%w: %s is a bye", ErrInvalidResult, match.ID)
	case result.WinnerTeamID == result.LoserTeamID:
		return fmt.Errorf("%w: winner and loser must differ", ErrInvalidResult)
	case !match.Involves(result.WinnerTeamID):
		return fmt.Errorf("%w: winner is not part of this match", ErrInvalidResult)
	case !match.Involves(result.LoserTeamID):
		return fmt.Errorf("%w: loser is not part of this match", ErrInvalidResult)
	}
	return nil
}

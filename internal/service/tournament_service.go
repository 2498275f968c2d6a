package service

import (
	"cmp"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
	"github.com/turhan-exe/Soccer-React-sub000/internal/bracket"
	"github.com/turhan-exe/Soccer-React-sub000/internal/config"
	"github.com/turhan-exe/Soccer-React-sub000/internal/store"
	"github.com/turhan-exe/Soccer-React-sub000/internal/utils"
)

// Leg hour used for the second leg when neither the request nor the presets name one
const defaultSecondLegHour = 20

type TournamentService struct {
	db           *sqlx.DB
	store        *store.TournamentStore
	participants *ParticipantService
	builder      *bracket.Builder
	clock        clockwork.Clock
	presets      config.Presets
}

func NewTournamentService(db *sqlx.DB, store *store.TournamentStore, participants *ParticipantService, presets config.Presets, clock clockwork.Clock) *TournamentService {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &TournamentService{
		db:           db,
		store:        store,
		participants: participants,
		builder:      bracket.NewBuilder(clock),
		clock:        clock,
		presets:      presets,
	}
}

// ChampionsRequest overrides the champions preset. Nil and zero fields keep the preset value.
type ChampionsRequest struct {
	Name             string
	Slug             string
	KickoffHour      *int
	Timezone         string
	StartDate        time.Time
	StartDay         *bracket.Day
	RoundSpacingDays *int
	LegsPerTie       *int
	LegKickoffHours  []int
}

type TournamentData struct {
	Tournament *store.Tournament
	Bracket    *bracket.Bracket
	// Stored round-one results in bracket order
	Results []bracket.Result
}

func (s *TournamentService) List(ctx context.Context) ([]store.Tournament, error) {
	return s.store.ListTournaments(ctx)
}

func (s *TournamentService) Get(ctx context.Context, slug string) (*TournamentData, error) {
	tournament, err := s.store.GetTournamentBySlug(ctx, slug)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrTournamentNotFound, slug)
	}
	if err != nil {
		return nil, err
	}

	b, err := s.store.GetBracket(ctx, tournament)
	if err != nil {
		return nil, fmt.Errorf("failed to load bracket %s: %w", slug, err)
	}

	results, err := s.store.GetResults(ctx, tournament.ID, 1)
	if err != nil {
		return nil, fmt.Errorf("failed to load results %s: %w", slug, err)
	}

	return &TournamentData{Tournament: tournament, Bracket: b, Results: results}, nil
}

// Preview builds a bracket without storing it.
func (s *TournamentService) Preview(participants []bracket.Participant, opts bracket.Options) (*bracket.Bracket, error) {
	return s.builder.Build(participants, s.withDefaults(opts))
}

// CreateKnockout builds a bracket from caller supplied participants and stores it.
func (s *TournamentService) CreateKnockout(ctx context.Context, participants []bracket.Participant, opts bracket.Options) (*TournamentData, error) {
	if opts.Slug == "" {
		return nil, ErrSlugRequired
	}

	b, err := s.builder.Build(participants, s.withDefaults(opts))
	if err != nil {
		return nil, err
	}
	return s.persist(ctx, store.KnockoutTournament, "", b)
}

// CreateChampions seeds the top finishers of every completed league into a two-legged
// knockout, unless the request or presets say otherwise.
func (s *TournamentService) CreateChampions(ctx context.Context, req ChampionsRequest) (*TournamentData, error) {
	participants, err := s.participants.ChampionsParticipants(ctx)
	if err != nil {
		return nil, err
	}

	b, err := s.builder.Build(participants, s.championsOptions(req))
	if err != nil {
		return nil, err
	}
	return s.persist(ctx, store.ChampionsTournament, "", b)
}

func (s *TournamentService) championsOptions(req ChampionsRequest) bracket.Options {
	preset := s.presets.Champions

	legsPerTie := preset.LegsPerTie
	if req.LegsPerTie != nil {
		legsPerTie = *req.LegsPerTie
	}

	kickoffHour := preset.KickoffHour
	if req.KickoffHour != nil {
		kickoffHour = *req.KickoffHour
	}

	var legHours []int
	switch {
	case len(req.LegKickoffHours) > 0:
		legHours = req.LegKickoffHours
	case req.KickoffHour == nil && len(preset.LegKickoffHours) > 0:
		legHours = preset.LegKickoffHours
	default:
		legHours = []int{kickoffHour, defaultSecondLegHour}
	}
	// The first leg decides the tournament's kickoff hour
	if legHours[0] >= 0 {
		kickoffHour = legHours[0]
	}

	spacing := preset.RoundSpacingDays
	if req.RoundSpacingDays != nil {
		spacing = *req.RoundSpacingDays
	}

	return bracket.Options{
		Name:             cmp.Or(req.Name, preset.Name),
		Slug:             cmp.Or(req.Slug, preset.Slug),
		KickoffHour:      kickoffHour,
		Timezone:         cmp.Or(req.Timezone, s.presets.Timezone),
		StartDate:        req.StartDate,
		StartDay:         req.StartDay,
		RoundSpacingDays: utils.Ptr(spacing),
		LegsPerTie:       legsPerTie,
		LegKickoffHours:  bracket.ResolveLegHours(kickoffHour, max(1, legsPerTie), legHours),
	}
}

// CreateConference builds the secondary tournament from the teams that lost their round-one
// tie in the source tournament.
func (s *TournamentService) CreateConference(ctx context.Context, sourceSlug string, opts bracket.DerivedOptions) (*TournamentData, error) {
	source, err := s.Get(ctx, sourceSlug)
	if err != nil {
		return nil, err
	}

	preset := s.presets.Conference
	opts.Name = cmp.Or(opts.Name, preset.Name)
	opts.Slug = cmp.Or(opts.Slug, preset.Slug)
	if opts.KickoffHour == nil {
		opts.KickoffHour = utils.Ptr(preset.KickoffHour)
	}
	if opts.RoundSpacingDays == nil {
		opts.RoundSpacingDays = utils.Ptr(preset.RoundSpacingDays)
	}

	b, err := s.builder.BuildDerived(source.Bracket, source.Results, opts)
	if err != nil {
		return nil, err
	}
	return s.persist(ctx, store.ConferenceTournament, sourceSlug, b)
}

func (s *TournamentService) withDefaults(opts bracket.Options) bracket.Options {
	if opts.Timezone == "" {
		opts.Timezone = s.presets.Timezone
	}
	if opts.Name == "" {
		opts.Name = opts.Slug
	}
	return opts
}

func (s *TournamentService) persist(ctx context.Context, kind store.TournamentKind, sourceSlug string, b *bracket.Bracket) (*TournamentData, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	tournament := &store.Tournament{
		ID:          uuid.New(),
		Slug:        b.Slug,
		Name:        b.Name,
		Kind:        kind,
		SourceSlug:  utils.StringOrNil(sourceSlug),
		Timezone:    b.Timezone,
		KickoffHour: b.KickoffHour,
		CreatedAt:   s.clock.Now().UTC(),
	}
	if err := s.store.CreateBracket(ctx, tx, tournament, b); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}

	log.Info().
		Str("slug", b.Slug).
		Str("kind", string(kind)).
		Int("participants", len(b.Participants)).
		Int("rounds", len(b.Rounds)).
		Msg("tournament created")
	return &TournamentData{Tournament: tournament, Bracket: b, Results: []bracket.Result{}}, nil
}

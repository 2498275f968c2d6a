package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/turhan-exe/Soccer-React-sub000/internal/bracket"
	"github.com/turhan-exe/Soccer-React-sub000/internal/service"
	"github.com/turhan-exe/Soccer-React-sub000/internal/store"
)

var errInvalidRequest = errors.New("invalid request")

type knockoutRequest struct {
	Name             string                `json:"name"`
	Slug             string                `json:"slug"`
	KickoffHour      *int                  `json:"kickoffHour"`
	Timezone         string                `json:"timezone"`
	StartDate        string                `json:"startDate"`
	RoundSpacingDays *int                  `json:"roundSpacingDays"`
	LegsPerTie       int                   `json:"legsPerTie"`
	LegKickoffHours  []int                 `json:"legKickoffHours"`
	Participants     []bracket.Participant `json:"participants"`
}

func (req knockoutRequest) options() (bracket.Options, error) {
	if req.KickoffHour == nil {
		return bracket.Options{}, fmt.Errorf("%w: kickoffHour is required", errInvalidRequest)
	}
	start, day, err := parseStartDate(req.StartDate)
	if err != nil {
		return bracket.Options{}, err
	}

	return bracket.Options{
		Name:             strings.TrimSpace(req.Name),
		Slug:             strings.TrimSpace(req.Slug),
		KickoffHour:      *req.KickoffHour,
		Timezone:         req.Timezone,
		StartDate:        start,
		StartDay:         day,
		RoundSpacingDays: req.RoundSpacingDays,
		LegsPerTie:       req.LegsPerTie,
		LegKickoffHours:  req.LegKickoffHours,
	}, nil
}

type championsRequest struct {
	Name             string `json:"name"`
	Slug             string `json:"slug"`
	KickoffHour      *int   `json:"kickoffHour"`
	Timezone         string `json:"timezone"`
	StartDate        string `json:"startDate"`
	RoundSpacingDays *int   `json:"roundSpacingDays"`
	LegsPerTie       *int   `json:"legsPerTie"`
	LegKickoffHours  []int  `json:"legKickoffHours"`
}

func (req championsRequest) toService() (service.ChampionsRequest, error) {
	start, day, err := parseStartDate(req.StartDate)
	if err != nil {
		return service.ChampionsRequest{}, err
	}

	return service.ChampionsRequest{
		Name:             strings.TrimSpace(req.Name),
		Slug:             strings.TrimSpace(req.Slug),
		KickoffHour:      req.KickoffHour,
		Timezone:         req.Timezone,
		StartDate:        start,
		StartDay:         day,
		RoundSpacingDays: req.RoundSpacingDays,
		LegsPerTie:       req.LegsPerTie,
		LegKickoffHours:  req.LegKickoffHours,
	}, nil
}

type conferenceRequest struct {
	Name             string `json:"name"`
	Slug             string `json:"slug"`
	KickoffHour      *int   `json:"kickoffHour"`
	Timezone         string `json:"timezone"`
	StartDate        string `json:"startDate"`
	RoundSpacingDays *int   `json:"roundSpacingDays"`
	LegsPerTie       int    `json:"legsPerTie"`
	LegKickoffHours  []int  `json:"legKickoffHours"`
}

func (req conferenceRequest) options() (bracket.DerivedOptions, error) {
	start, day, err := parseStartDate(req.StartDate)
	if err != nil {
		return bracket.DerivedOptions{}, err
	}

	return bracket.DerivedOptions{
		Name:             strings.TrimSpace(req.Name),
		Slug:             strings.TrimSpace(req.Slug),
		KickoffHour:      req.KickoffHour,
		Timezone:         req.Timezone,
		StartDate:        start,
		StartDay:         day,
		RoundSpacingDays: req.RoundSpacingDays,
		LegsPerTie:       req.LegsPerTie,
		LegKickoffHours:  req.LegKickoffHours,
	}, nil
}

type leagueRequest struct {
	Name      string            `json:"name"`
	State     store.LeagueState `json:"state"`
	Standings []store.Standing  `json:"standings"`
}

type tournamentResponse struct {
	Tournament *store.Tournament `json:"tournament"`
	Bracket    *bracket.Bracket  `json:"bracket"`
	Results    []bracket.Result  `json:"results"`
}

func newTournamentResponse(data *service.TournamentData) tournamentResponse {
	results := data.Results
	if results == nil {
		results = []bracket.Result{}
	}
	return tournamentResponse{Tournament: data.Tournament, Bracket: data.Bracket, Results: results}
}

type leagueResponse struct {
	League    *store.League    `json:"league"`
	Standings []store.Standing `json:"standings"`
}

// parseStartDate accepts RFC 3339 timestamps or plain dates. A plain date stays a calendar
// day so the builder reads it in the tournament's own timezone. Empty means unset.
func parseStartDate(value string) (time.Time, *bracket.Day, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, nil, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil, nil
	}
	if day, err := bracket.ParseDay(value); err == nil {
		return time.Time{}, &day, nil
	}
	return time.Time{}, nil, fmt.Errorf("%w: startDate %q is neither a date nor an RFC 3339 timestamp", errInvalidRequest, value)
}

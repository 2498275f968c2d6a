package service

import "errors"

var (
	ErrTournamentNotFound = errors.New("tournament not found")
	ErrMatchNotFound      = errors.New("match not found")
	ErrLeagueNotFound     = errors.New("league not found")
	ErrInvalidResult      = errors.New("invalid result")
	ErrInvalidLeague      = errors.New("invalid league")
	ErrSlugRequired       = errors.New("slug is required")
)

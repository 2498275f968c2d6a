package bracket

import "errors"

var (
	ErrInvalidBracketSize       = errors.New("invalid bracket size")
	ErrInsufficientParticipants = errors.New("at least two participants required")
	ErrNoEligibleTeams          = errors.New("no eligible teams found")

	ErrInvalidKickoffHour  = errors.New("kickoff hour must be between 0 and 23")
	ErrInvalidRoundSpacing = errors.New("round spacing must not be negative")
	ErrUnknownTimezone     = errors.New("unknown timezone")
)

// IsInputError reports whether err was caused by the caller's participants or options
// rather than by a failure inside the engine.
func IsInputError(err error) bool {
	return errors.Is(err, ErrInsufficientParticipants) ||
		errors.Is(err, ErrNoEligibleTeams) ||
		errors.Is(err, ErrInvalidKickoffHour) ||
		errors.Is(err, ErrInvalidRoundSpacing) ||
		errors.Is(err, ErrUnknownTimezone)
}

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/turhan-exe/Soccer-React-sub000/internal/bracket"
	"gopkg.in/yaml.v3"
)

type ChampionsPreset struct {
	Name                string `yaml:"name"`
	Slug                string `yaml:"slug"`
	KickoffHour         int    `yaml:"kickoffHour"`
	LegsPerTie          int    `yaml:"legsPerTie"`
	LegKickoffHours     []int  `yaml:"legKickoffHours"`
	QualifiersPerLeague int    `yaml:"qualifiersPerLeague"`
	RoundSpacingDays    int    `yaml:"roundSpacingDays"`
}

type ConferencePreset struct {
	Name             string `yaml:"name"`
	Slug             string `yaml:"slug"`
	KickoffHour      int    `yaml:"kickoffHour"`
	RoundSpacingDays int    `yaml:"roundSpacingDays"`
}

// Presets hold the defaults applied to the two league-driven competitions.
type Presets struct {
	Timezone   string           `yaml:"timezone"`
	Champions  ChampionsPreset  `yaml:"champions"`
	Conference ConferencePreset `yaml:"conference"`
}

func DefaultPresets() Presets {
	return Presets{
		Timezone: bracket.DefaultTimezone,
		Champions: ChampionsPreset{
			Name:                "Şampiyonlar Ligi",
			Slug:                "champions-league",
			KickoffHour:         11,
			LegsPerTie:          2,
			QualifiersPerLeague: 2,
			RoundSpacingDays:    bracket.DefaultRoundSpacingDays,
		},
		Conference: ConferencePreset{
			Name:             bracket.DefaultDerivedName,
			Slug:             bracket.DefaultDerivedSlug,
			KickoffHour:      bracket.DefaultDerivedKickoffHour,
			RoundSpacingDays: bracket.DefaultRoundSpacingDays,
		},
	}
}

// LoadPresets overlays the YAML file at path on the defaults. A missing file is not an error.
func LoadPresets(path string) (Presets, error) {
	presets := DefaultPresets()

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		log.Info().Str("path", path).Msg("no tournament presets file, using defaults")
		return presets, nil
	}
	if err != nil {
		return Presets{}, fmt.Errorf("failed to read presets: %w", err)
	}

	if err := yaml.Unmarshal(data, &presets); err != nil {
		return Presets{}, fmt.Errorf("failed to parse presets %s: %w", path, err)
	}
	if err := presets.Validate(); err != nil {
		return Presets{}, fmt.Errorf("invalid presets %s: %w", path, err)
	}
	return presets, nil
}

func (p Presets) Validate() error {
	if _, err := time.LoadLocation(p.Timezone); err != nil {
		return fmt.Errorf("%w %q", bracket.ErrUnknownTimezone, p.Timezone)
	}

	hours := append([]int{p.Champions.KickoffHour, p.Conference.KickoffHour}, p.Champions.LegKickoffHours...)
	for _, hour := range hours {
		if hour < 0 || hour > 23 {
			return fmt.Errorf("%w: got %d", bracket.ErrInvalidKickoffHour, hour)
		}
	}

	switch {
	case p.Champions.Slug == "" || p.Conference.Slug == "":
		return errors.New("slugs must not be empty")
	case p.Champions.Slug == p.Conference.Slug:
		return errors.New("champions and conference slugs must differ")
	case p.Champions.LegsPerTie < 1:
		return errors.New("legsPerTie must be at least 1")
	case p.Champions.QualifiersPerLeague < 1:
		return errors.New("qualifiersPerLeague must be at least 1")
	case p.Champions.RoundSpacingDays < 0 || p.Conference.RoundSpacingDays < 0:
		return bracket.ErrInvalidRoundSpacing
	}
	return nil
}

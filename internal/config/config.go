package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	DefaultHTTPAddr         = ":8080"
	DefaultDatabasePath     = "tournaments.db"
	DefaultTournamentConfig = "configs/tournaments.yaml"
)

type Config struct {
	HTTPAddr         string
	DatabasePath     string
	LogLevel         zerolog.Level
	TournamentConfig string
	// Origins allowed by CORS, "*" when unset
	AllowedOrigins []string
	// Mutating requests per second across all clients, 0 disables the limit
	WriteRateLimit float64
}

// Load reads a .env file when one exists, then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read .env: %w", err)
	}

	level, err := zerolog.ParseLevel(strings.ToLower(getEnv("LOG_LEVEL", "info")))
	if err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}

	writeRateLimit, err := strconv.ParseFloat(getEnv("WRITE_RATE_LIMIT", "10"), 64)
	if err != nil || writeRateLimit < 0 {
		return nil, fmt.Errorf("invalid WRITE_RATE_LIMIT %q", getEnv("WRITE_RATE_LIMIT", "10"))
	}

	cfg := &Config{
		HTTPAddr:         getEnv("HTTP_ADDR", DefaultHTTPAddr),
		DatabasePath:     getEnv("DATABASE_PATH", DefaultDatabasePath),
		LogLevel:         level,
		TournamentConfig: getEnv("TOURNAMENT_CONFIG", DefaultTournamentConfig),
		AllowedOrigins:   splitList(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		WriteRateLimit:   writeRateLimit,
	}
	if cfg.DatabasePath == "" {
		return nil, errors.New("DATABASE_PATH must not be empty")
	}

	log.Debug().
		Str("addr", cfg.HTTPAddr).
		Str("database", cfg.DatabasePath).
		Str("presets", cfg.TournamentConfig).
		Msg("configuration loaded")
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && strings.TrimSpace(value) != "" {
		return strings.TrimSpace(value)
	}
	return fallback
}

func splitList(value string) []string {
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

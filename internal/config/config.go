package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"importcalc/internal/money"
)

// Courier table sources.
const (
	SourceBuiltin  = "builtin"
	SourceFile     = "file"
	SourcePostgres = "postgres"
)

const (
	defaultPort   = "8080"
	defaultFXRate = 58.50
)

type Config struct {
	Port     string
	LogLevel string
	// CourierSource selects where courier rate cards are read from at startup.
	CourierSource string
	ProfilesFile  string
	DatabaseURL   string
	// DefaultFXRate is applied when a request does not carry a rate. 0 disables it.
	DefaultFXRate float64
}

func Load() (Config, error) {
	cfg := Config{
		Port:          strings.TrimSpace(os.Getenv("PORT")),
		LogLevel:      strings.TrimSpace(os.Getenv("LOG_LEVEL")),
		CourierSource: strings.ToLower(strings.TrimSpace(os.Getenv("COURIER_SOURCE"))),
		ProfilesFile:  strings.TrimSpace(os.Getenv("COURIER_PROFILES_FILE")),
		DatabaseURL:   strings.TrimSpace(os.Getenv("DATABASE_URL")),
		DefaultFXRate: defaultFXRate,
	}
	if cfg.Port == "" {
		cfg.Port = defaultPort
	}
	if cfg.CourierSource == "" {
		cfg.CourierSource = SourceBuiltin
		if cfg.ProfilesFile != "" {
			cfg.CourierSource = SourceFile
		}
	}
	if v := strings.TrimSpace(os.Getenv("DEFAULT_FX_RATE")); v != "" {
		fx, err := strconv.ParseFloat(v, 64)
		// 0 disables conversion; anything else must be a usable rate.
		if err != nil || (fx != 0 && !money.RateSet(fx)) {
			return Config{}, fmt.Errorf("config: invalid DEFAULT_FX_RATE %q", v)
		}
		cfg.DefaultFXRate = fx
	}

	switch cfg.CourierSource {
	case SourceBuiltin:
	case SourceFile:
		if cfg.ProfilesFile == "" {
			return Config{}, fmt.Errorf("config: COURIER_SOURCE=%s requires COURIER_PROFILES_FILE", SourceFile)
		}
	case SourcePostgres:
		if cfg.DatabaseURL == "" {
			return Config{}, fmt.Errorf("config: COURIER_SOURCE=%s requires DATABASE_URL", SourcePostgres)
		}
	default:
		return Config{}, fmt.Errorf("config: unknown COURIER_SOURCE %q", cfg.CourierSource)
	}
	return cfg, nil
}

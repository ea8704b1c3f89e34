package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// Config holds all converter settings. File paths and conversion options
// come from command-line flags; log settings fall back to the environment
// so the binary behaves like the rest of the fleet under systemd.
type Config struct {
	InputPath  string
	OutputPath string

	// MomentumVars and ThermodynamicVars name the profile variables that
	// use momentum (SV) and thermodynamic (SH) vertical levels.
	MomentumVars      []string
	ThermodynamicVars []string

	// MissingBottomLevel assumes the bottom profile level is physically
	// missing and trims it from the vertical-axis arrays.
	MissingBottomLevel bool

	// SquashForecasts collapses the forecast-offset axis into an absolute
	// validity-time axis when all data shares one date of origin.
	SquashForecasts bool

	// MetricsAddr, when non-empty, serves /metrics and /healthz while a
	// conversion runs.
	MetricsAddr string

	LogLevel  string
	LogFormat string
}

// New builds a Config with environment-derived defaults for log settings.
func New() *Config {
	return &Config{
		LogLevel:  envOrDefault("LOG_LEVEL", "info"),
		LogFormat: envOrDefault("LOG_FORMAT", "text"),
	}
}

// Validate checks required settings and option consistency.
func (c *Config) Validate() error {
	if c.InputPath == "" {
		return errors.New("input record dump path is required")
	}
	if c.OutputPath == "" {
		return errors.New("output netCDF path is required")
	}
	for _, name := range c.MomentumVars {
		for _, other := range c.ThermodynamicVars {
			if name == other {
				return fmt.Errorf("variable %q cannot use both momentum and thermodynamic levels", name)
			}
		}
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level %q", c.LogLevel)
	}
	switch c.LogFormat {
	case "json", "text":
	default:
		return fmt.Errorf("invalid log format %q", c.LogFormat)
	}
	return nil
}

// SplitVarList parses a comma- or whitespace-separated variable name list.
func SplitVarList(s string) []string {
	s = strings.ReplaceAll(s, ",", " ")
	return strings.Fields(s)
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

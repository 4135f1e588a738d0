package cache

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// TTL configuration constants and defaults.
const (
	// DefaultTTLSeconds is the default row cache TTL (5 minutes).
	DefaultTTLSeconds = 300

	// MinTTLSeconds is the minimum allowed TTL.
	MinTTLSeconds = 1

	// MaxTTLSeconds is the maximum allowed TTL (1 day).
	MaxTTLSeconds = 86400

	// DefaultMaxEntries bounds the row cache when nothing else is configured.
	DefaultMaxEntries = 2048

	// minutesPerHour is used for duration formatting calculations.
	minutesPerHour = 60

	// hoursPerDay is used for duration formatting calculations.
	hoursPerDay = 24

	// EnvTTLSeconds is the environment variable for overriding TTL.
	EnvTTLSeconds = "ROLLCALL_CACHE_TTL"

	// EnvCacheEnabled is the environment variable for enabling/disabling the cache.
	EnvCacheEnabled = "ROLLCALL_CACHE_ENABLED"

	// EnvMaxEntries is the environment variable for the entry bound.
	EnvMaxEntries = "ROLLCALL_CACHE_MAX_ENTRIES"
)

// ErrInvalidTTL reports a TTL outside the allowed range.
var ErrInvalidTTL = fmt.Errorf("TTL must be between %d and %d seconds", MinTTLSeconds, MaxTTLSeconds)

// TTLConfig holds a validated cache TTL.
type TTLConfig struct {
	Seconds  int
	Duration time.Duration
}

// NewTTLConfig validates seconds and returns the TTL configuration.
func NewTTLConfig(seconds int) (*TTLConfig, error) {
	if seconds < MinTTLSeconds || seconds > MaxTTLSeconds {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidTTL, seconds)
	}
	return &TTLConfig{Seconds: seconds, Duration: time.Duration(seconds) * time.Second}, nil
}

// DefaultTTLConfig returns the default TTL configuration.
func DefaultTTLConfig() *TTLConfig {
	return &TTLConfig{
		Seconds:  DefaultTTLSeconds,
		Duration: time.Duration(DefaultTTLSeconds) * time.Second,
	}
}

// GetTTLFromEnv returns the TTL from EnvTTLSeconds, accepting anything ParseTTL
// accepts, or fallback when unset or invalid.
func GetTTLFromEnv(fallback int) int {
	envVal := os.Getenv(EnvTTLSeconds)
	if envVal == "" {
		return fallback
	}
	ttl, err := ParseTTL(envVal)
	if err != nil {
		return fallback
	}
	return ttl
}

// GetCacheEnabledFromEnv returns EnvCacheEnabled as a bool, or fallback when unset or invalid.
func GetCacheEnabledFromEnv(fallback bool) bool {
	enabled, err := strconv.ParseBool(os.Getenv(EnvCacheEnabled))
	if err != nil {
		return fallback
	}
	return enabled
}

// GetMaxEntriesFromEnv returns EnvMaxEntries, or fallback when unset, invalid or negative.
func GetMaxEntriesFromEnv(fallback int) int {
	n, err := strconv.Atoi(os.Getenv(EnvMaxEntries))
	if err != nil || n < 0 {
		return fallback
	}
	return n
}

// FormatDuration formats a duration in a compact human-readable way.
// Examples: "30s", "5m", "2h30m", "3d2h".
func FormatDuration(d time.Duration) string {
	switch {
	case d < time.Minute:
		return fmt.Sprintf("%.0fs", d.Seconds())
	case d < time.Hour:
		return fmt.Sprintf("%.0fm", d.Minutes())
	case d < hoursPerDay*time.Hour:
		hours := int(d.Hours())
		if minutes := int(d.Minutes()) % minutesPerHour; minutes != 0 {
			return fmt.Sprintf("%dh%dm", hours, minutes)
		}
		return fmt.Sprintf("%dh", hours)
	default:
		days := int(d.Hours()) / hoursPerDay
		if hours := int(d.Hours()) % hoursPerDay; hours != 0 {
			return fmt.Sprintf("%dd%dh", days, hours)
		}
		return fmt.Sprintf("%dd", days)
	}
}

// ParseTTL parses a TTL given as integer seconds ("300") or a duration ("5m", "1h30m").
func ParseTTL(s string) (int, error) {
	seconds, err := strconv.Atoi(s)
	if err != nil {
		d, durErr := time.ParseDuration(s)
		if durErr != nil {
			return 0, fmt.Errorf("invalid TTL format: %w", durErr)
		}
		seconds = int(d.Seconds())
	}
	if seconds < MinTTLSeconds || seconds > MaxTTLSeconds {
		return 0, fmt.Errorf("%w: got %d", ErrInvalidTTL, seconds)
	}
	return seconds, nil
}

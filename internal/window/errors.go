package window

import (
	"errors"
	"fmt"
)

// Configuration and input validation errors.
var (
	ErrInvalidItemExtent     = errors.New("item extent must be a finite number > 0")
	ErrInvalidViewportExtent = errors.New("viewport extent must be a finite number > 0")
	ErrInvalidOverscan       = errors.New("overscan must be >= 0")
	ErrNegativeItemCount     = errors.New("item count must be >= 0")
	ErrInvalidScrollOffset   = errors.New("scroll offset must be a finite number >= 0")
	ErrNilEngine             = errors.New("engine cannot be nil")
)

// ConfigError reports which Config field failed validation.
// It unwraps to one of the ErrInvalid* sentinels so callers can use errors.Is.
type ConfigError struct {
	// Field is the yaml name of the offending field (e.g., "item_extent").
	Field string

	// Value is the rejected value.
	Value any

	// Err is the underlying sentinel error.
	Err error
}

// Error implements error.
func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid window config %s=%v: %v", e.Field, e.Value, e.Err)
}

// Unwrap returns the underlying sentinel.
func (e *ConfigError) Unwrap() error {
	return e.Err
}

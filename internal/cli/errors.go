package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rshade/rollcall/internal/cache"
	"github.com/rshade/rollcall/internal/cli/pagination"
	"github.com/rshade/rollcall/internal/config"
	"github.com/rshade/rollcall/internal/roster"
	"github.com/rshade/rollcall/internal/window"
	"github.com/rshade/rollcall/internal/window/sweep"
)

// Process exit codes.
const (
	ExitOK      = 0
	ExitFailure = 1
	ExitUsage   = 2
)

// UsageError is a bad flag, argument or config value. It exits with ExitUsage.
type UsageError struct {
	Err error
}

func (e *UsageError) Error() string {
	return e.Err.Error()
}

func (e *UsageError) Unwrap() error {
	return e.Err
}

// usageErrors are the sentinels that mean the user asked for something invalid.
//
//nolint:gochecknoglobals // Read-only lookup table.
var usageErrors = []error{
	config.ErrInvalidConfig,
	config.ErrUnsupportedVersion,
	config.ErrUnknownKey,
	window.ErrInvalidItemExtent,
	window.ErrInvalidViewportExtent,
	window.ErrInvalidOverscan,
	window.ErrNegativeItemCount,
	window.ErrInvalidScrollOffset,
	window.ErrUnsupportedFormat,
	pagination.ErrInvalidCount,
	pagination.ErrInvalidOffset,
	pagination.ErrInvalidPage,
	pagination.ErrInvalidIndex,
	pagination.ErrMixedScrollModes,
	pagination.ErrIndexOutOfRange,
	pagination.ErrPageOutOfRange,
	roster.ErrUnsupportedFormat,
	cache.ErrInvalidTTL,
	sweep.ErrInvalidStep,
	sweep.ErrInvalidBatchSize,
	sweep.ErrTooManyOffsets,
}

// ExitCode maps a command error to a process exit status: ExitOK for nil,
// ExitUsage for usage and configuration errors, ExitFailure otherwise.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var usage *UsageError
	if errors.As(err, &usage) {
		return ExitUsage
	}
	for _, target := range usageErrors {
		if errors.Is(err, target) {
			return ExitUsage
		}
	}
	return ExitFailure
}

// exactArgs is cobra.ExactArgs reporting a UsageError.
func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) != n {
			return &UsageError{Err: fmt.Errorf("%s accepts %d arg(s), received %d", cmd.CommandPath(), n, len(args))}
		}
		return nil
	}
}

package cli

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/rshade/rollcall/internal/config"
	"github.com/rshade/rollcall/internal/logging"
	"github.com/rshade/rollcall/internal/roster"
	"github.com/rshade/rollcall/internal/tui"
	"github.com/rshade/rollcall/internal/tui/listview"
)

// ErrNotInteractive is returned when browse runs without a terminal.
var ErrNotInteractive = errors.New("browse requires an interactive terminal")

// browseFlags holds the browse command's flags.
type browseFlags struct {
	rosterPath string
	synthetic  int
	seed       uint64
	exportPath string
	overscan   int
}

// NewBrowseCmd creates the browse command.
func NewBrowseCmd() *cobra.Command {
	var flags browseFlags

	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Browse a roster in a virtualized terminal list",
		Long: `Opens an interactive list over a roster. Only the rows in the window around
the viewport are rendered, so rosters of hundreds of thousands of records
scroll as fast as small ones.

The roster comes from --roster (CSV or YAML), then roster.source in the config
file, then a generated roster of --synthetic records.

Keys: ↑/↓ or j/k move, PgUp/PgDn page, g/G jump to the ends, / filters,
s cycles the sort, e exports the filtered roster, Enter shows a record,
q quits.`,
		Example: `  # Browse a CSV export
  rollcall browse --roster students.csv

  # Browse 250,000 generated records and allow exporting them
  rollcall browse --synthetic 250000 --export out/roster.csv`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runBrowse(cmd, flags)
		},
	}

	cmd.Flags().StringVar(&flags.rosterPath, "roster", "", "roster file (.csv, .yaml or .yml)")
	cmd.Flags().IntVar(&flags.synthetic, "synthetic", 0, "generate this many records (default roster.synthetic_count)")
	cmd.Flags().Uint64Var(&flags.seed, "seed", 1, "seed for generated rosters")
	cmd.Flags().StringVar(&flags.exportPath, "export", "", "CSV file the e key writes (default .rollcall/exports/roster.csv in a project)")
	cmd.Flags().IntVar(&flags.overscan, "overscan", 0, "rows rendered beyond each edge of the screen (default window.overscan)")

	return cmd
}

func runBrowse(cmd *cobra.Command, flags browseFlags) error {
	ctx := cmd.Context()

	if tui.DetectOutputMode(false, false, false) != tui.OutputModeInteractive {
		return fmt.Errorf("%w; use 'rollcall window compute' for scripted output", ErrNotInteractive)
	}

	fetcher, err := rosterFetcher(cmd, flags)
	if err != nil {
		return err
	}

	model := tui.NewRosterViewModelWithLoading(ctx, fetcher, browseListOptions(cmd, flags)...)
	model.SetExportPath(exportPath(flags))

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))
	if _, err = p.Run(); err != nil {
		return fmt.Errorf("failed to run interactive TUI: %w", err)
	}
	return model.Err()
}

// rosterFetcher picks the roster source: --roster, then --synthetic, then
// roster.source, then roster.synthetic_count.
func rosterFetcher(cmd *cobra.Command, flags browseFlags) (tui.RosterFetcher, error) {
	rc := config.GetRosterConfig()

	path := flags.rosterPath
	count := flags.synthetic
	switch {
	case path != "" && cmd.Flags().Changed("synthetic"):
		return nil, &UsageError{Err: errors.New("--roster and --synthetic are mutually exclusive")}
	case path != "":
	case cmd.Flags().Changed("synthetic"):
		if count < 0 {
			return nil, &UsageError{Err: fmt.Errorf("--synthetic must be >= 0, got %d", count)}
		}
	case rc.Source != "":
		path = rc.Source
	default:
		count = rc.SyntheticCount
	}

	if path != "" {
		if _, err := roster.FormatOf(path); err != nil {
			return nil, err
		}
		return func(ctx context.Context) ([]roster.Record, error) {
			logging.FromContext(ctx).Debug().Ctx(ctx).Str("component", "cli").Str("path", path).Msg("loading roster")
			return roster.Load(path)
		}, nil
	}

	seed := flags.seed
	return func(context.Context) ([]roster.Record, error) {
		return roster.Synthetic(count, seed), nil
	}, nil
}

// browseListOptions builds list options from flags and the window and cache config.
func browseListOptions(cmd *cobra.Command, flags browseFlags) []listview.Option {
	overscan := config.GetWindowConfig().Overscan
	if cmd.Flags().Changed("overscan") {
		overscan = flags.overscan
	}
	return []listview.Option{
		listview.WithOverscan(overscan),
		listview.WithRowCache(config.GetCacheConfig().ToStoreOptions()),
	}
}

// exportPath returns --export, or exports/roster.csv inside the project directory.
func exportPath(flags browseFlags) string {
	if flags.exportPath != "" {
		return flags.exportPath
	}
	if dir := config.GetResolvedProjectDir(); dir != "" {
		return filepath.Join(dir, "exports", "roster.csv")
	}
	return ""
}

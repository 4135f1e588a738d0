package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/rshade/rollcall/internal/cli/pagination"
	"github.com/rshade/rollcall/internal/config"
	"github.com/rshade/rollcall/internal/window"
)

// newWindowCmd creates the window command group.
func newWindowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "window",
		Short: "Windowing engine commands",
		Long: `Compute the range of list items to materialize for a scroll position.

Item extent, viewport extent and overscan default to the window section of
the config file.`,
	}
	cmd.AddCommand(NewWindowComputeCmd(), NewWindowScrollToCmd(), NewWindowSweepCmd())
	return cmd
}

// windowFlags are the list-shape flags shared by the window subcommands.
type windowFlags struct {
	count      int
	itemExtent float64
	viewport   float64
	overscan   int
}

func (f *windowFlags) register(fs *pflag.FlagSet, withViewport bool) {
	fs.IntVar(&f.count, "count", 0, "number of items in the list")
	fs.Float64Var(&f.itemExtent, "item-extent", 0, "extent of one item (default window.item_extent)")
	if withViewport {
		fs.Float64Var(&f.viewport, "viewport", 0, "extent of the viewport (default window.viewport_extent)")
		fs.IntVar(&f.overscan, "overscan", 0, "items materialized beyond each viewport edge (default window.overscan)")
	}
}

// resolve fills flags the user did not set from the configured window defaults.
func (f *windowFlags) resolve(cmd *cobra.Command) window.Config {
	cfg := config.GetWindowConfig().ToWindowConfig()
	if cmd.Flags().Changed("item-extent") {
		cfg.ItemExtent = f.itemExtent
	}
	if cmd.Flags().Changed("viewport") {
		cfg.ViewportExtent = f.viewport
	}
	if cmd.Flags().Changed("overscan") {
		cfg.Overscan = f.overscan
	}
	return cfg
}

// outputFormat returns --output, or the configured default format.
func outputFormat(cmd *cobra.Command, flagValue string) (window.OutputFormat, error) {
	if !cmd.Flags().Changed("output") {
		flagValue = config.GetDefaultOutputFormat()
	}
	return window.ParseOutputFormat(flagValue)
}

// NewWindowComputeCmd creates the window compute command.
func NewWindowComputeCmd() *cobra.Command {
	var (
		flags  windowFlags
		params = pagination.NewParams(window.Config{})
		output string
	)

	cmd := &cobra.Command{
		Use:   "compute",
		Short: "Compute the window of items to materialize at a scroll position",
		Long: `Computes the inclusive range of item indices to materialize, with overscan,
for a list of --count uniform items scrolled to a position.

The position is given as a raw --offset, a viewport-sized --page, or an --index
to bring to the top. Offsets past the end are clamped to the maximum scroll offset.`,
		Example: `  # Window at offset 1000
  rollcall window compute --count 10000 --item-extent 50 --viewport 500 --offset 1000

  # Window for the third page, as NDJSON entries
  rollcall window compute --count 10000 --item-extent 50 --viewport 500 --page 3 --output ndjson

  # Window with row 250 at the top, no overscan
  rollcall window compute --count 10000 --item-extent 50 --viewport 500 --overscan 0 --index 250`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			params.Count = flags.count
			params.Window = flags.resolve(cmd)
			return runWindowCompute(cmd, *params, output)
		},
	}

	flags.register(cmd.Flags(), true)
	cmd.Flags().Float64Var(&params.Offset, "offset", pagination.DefaultOffset, "scroll offset in extent units")
	cmd.Flags().IntVar(&params.Page, "page", pagination.DefaultPage, "1-based viewport-sized page to show")
	cmd.Flags().IntVar(&params.Index, "index", pagination.NoIndex, "item index to scroll to the top")
	cmd.Flags().StringVarP(&output, "output", "o", "table", "output format: table, json, ndjson, yaml, csv")

	return cmd
}

func runWindowCompute(cmd *cobra.Command, params pagination.Params, output string) error {
	ctx := cmd.Context()
	log := logger.With().Str("operation", "window_compute").Logger()

	format, err := outputFormat(cmd, output)
	if err != nil {
		return err
	}

	engine, err := params.Engine()
	if err != nil {
		return err
	}

	offset, err := params.EffectiveOffset(engine)
	if err != nil {
		return err
	}

	result, err := engine.NewResult(params.Count, offset)
	if err != nil {
		return err
	}

	log.Debug().Ctx(ctx).
		Int("count", params.Count).
		Float64("offset", result.ScrollOffset).
		Int("start_index", result.Window.Start).
		Int("end_index", result.Window.End).
		Msg("window computed")

	return window.RenderResult(cmd.OutOrStdout(), format, result)
}

// NewWindowScrollToCmd creates the window scroll-to command.
func NewWindowScrollToCmd() *cobra.Command {
	var (
		flags  windowFlags
		output string
	)

	cmd := &cobra.Command{
		Use:   "scroll-to INDEX",
		Short: "Print the scroll offset that brings an item to the viewport's leading edge",
		Long: `Prints INDEX × item extent. With --count, an index past the end of the list
is rejected.`,
		Example: `  # Offset of row 250 with 50px rows
  rollcall window scroll-to 250 --item-extent 50

  # As JSON
  rollcall window scroll-to 250 --item-extent 50 --output json`,
		Args: exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := strconv.Atoi(args[0])
			if err != nil {
				return &UsageError{Err: fmt.Errorf("INDEX must be an integer: %w", err)}
			}

			params := pagination.NewParams(flags.resolve(cmd))
			params.Count = flags.count
			params.Index = index
			return runWindowScrollTo(cmd, *params, output)
		},
	}

	flags.register(cmd.Flags(), false)
	cmd.Flags().StringVarP(&output, "output", "o", "table", "output format: table, json, ndjson, yaml, csv")

	return cmd
}

func runWindowScrollTo(cmd *cobra.Command, params pagination.Params, output string) error {
	format, err := outputFormat(cmd, output)
	if err != nil {
		return err
	}

	engine, err := params.Engine()
	if err != nil {
		return err
	}
	offset, err := params.EffectiveOffset(engine)
	if err != nil {
		return err
	}

	logger.Debug().Ctx(cmd.Context()).Int("index", params.Index).Float64("offset", offset).Msg("scroll-to computed")

	return renderEntry(cmd.OutOrStdout(), format, window.Entry{Index: params.Index, Offset: offset})
}

// renderEntry writes a single index/offset pair.
func renderEntry(w io.Writer, format window.OutputFormat, e window.Entry) error {
	switch format {
	case window.OutputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(e)
	case window.OutputNDJSON:
		return json.NewEncoder(w).Encode(e)
	case window.OutputYAML:
		return yaml.NewEncoder(w).Encode(e)
	case window.OutputCSV:
		_, err := fmt.Fprintf(w, "index,offset\n%d,%s\n", e.Index, strconv.FormatFloat(e.Offset, 'f', -1, 64))
		return err
	default:
		_, err := fmt.Fprintln(w, strconv.FormatFloat(e.Offset, 'f', -1, 64))
		return err
	}
}

package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gopkg.in/yaml.v3"

	"github.com/rshade/rollcall/internal/cli/pagination"
	"github.com/rshade/rollcall/internal/config"
	"github.com/rshade/rollcall/internal/tui"
	"github.com/rshade/rollcall/internal/window"
	"github.com/rshade/rollcall/internal/window/sweep"
)

// ErrInvariantViolations is returned when a sweep finds at least one violation.
var ErrInvariantViolations = errors.New("window invariants violated")

// maxListedViolations caps the violations printed in table output.
const maxListedViolations = 20

// sweepProgressInterval throttles progress log lines.
const sweepProgressInterval = time.Second

// NewWindowSweepCmd creates the window sweep command.
func NewWindowSweepCmd() *cobra.Command {
	var (
		flags windowFlags
		opts  sweep.Options
		out   string
	)

	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Check the window invariants at every scroll offset of a list",
		Long: `Evaluates the engine at every --step from offset 0 to the maximum scroll
offset and checks, at each one:
  - 0 ≤ start ≤ end ≤ count-1, or an empty window for an empty list
  - total extent equals count × item extent
  - every materialized offset equals index × item extent
  - recomputing gives the same window
  - start and end never decrease as the offset grows
  - overscan never narrows the range

Offsets are split into batches evaluated concurrently. The command exits
non-zero if any invariant fails.`,
		Example: `  # Sweep 100,000 rows, one row per step
  rollcall window sweep --count 100000 --item-extent 50 --viewport 500

  # Fractional steps on 4 workers, JSON report
  rollcall window sweep --count 5000 --item-extent 32 --viewport 700 --step 7.5 --concurrency 4 --output json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			params := pagination.NewParams(flags.resolve(cmd))
			params.Count = flags.count
			return runWindowSweep(cmd, *params, opts, out)
		},
	}

	flags.register(cmd.Flags(), true)
	cmd.Flags().Float64Var(&opts.Step, "step", 0, "distance between offsets (default one item extent)")
	cmd.Flags().IntVar(&opts.BatchSize, "batch-size", sweep.DefaultBatchSize, "offsets per batch")
	cmd.Flags().IntVar(&opts.Concurrency, "concurrency", 0, "batches evaluated at once (default number of CPUs)")
	cmd.Flags().StringVarP(&out, "output", "o", "table", "output format: table, json, yaml")

	return cmd
}

func runWindowSweep(cmd *cobra.Command, params pagination.Params, opts sweep.Options, output string) error {
	ctx := cmd.Context()
	log := logger.With().Str("operation", "window_sweep").Logger()

	format, err := outputFormat(cmd, output)
	if err != nil {
		return err
	}
	switch format {
	case window.OutputTable, window.OutputJSON, window.OutputYAML:
	default:
		return &UsageError{Err: fmt.Errorf("%w: sweep reports support table, json and yaml", window.ErrUnsupportedFormat)}
	}

	engine, err := params.Engine()
	if err != nil {
		return err
	}

	var (
		mu         sync.Mutex
		lastLogged time.Time
	)
	opts.OnProgress = func(s sweep.Snapshot) {
		mu.Lock()
		defer mu.Unlock()
		if time.Since(lastLogged) < sweepProgressInterval && !s.Complete {
			return
		}
		lastLogged = time.Now()
		log.Debug().Ctx(ctx).
			Int("processed_offsets", s.ProcessedOffsets).
			Int("total_offsets", s.TotalOffsets).
			Float64("percent", s.PercentComplete).
			Msg("sweep progress")
	}

	report, err := sweep.Run(ctx, engine, params.Count, opts)
	if err != nil {
		return err
	}

	log.Info().Ctx(ctx).
		Int("offsets", report.Offsets).
		Int("violations", len(report.Violations)).
		Dur("elapsed", report.Progress.Elapsed).
		Msg("sweep complete")

	forceColor, noColor := tui.ColorFlags(config.GetGlobalConfig().Output.Color)
	styled := tui.DetectOutputMode(forceColor, noColor, false) != tui.OutputModePlain
	if err = renderSweepReport(cmd.OutOrStdout(), format, report, styled); err != nil {
		return err
	}
	if !report.OK() {
		return fmt.Errorf("%w: %d violation(s)", ErrInvariantViolations, len(report.Violations))
	}
	return nil
}

func renderSweepReport(w io.Writer, format window.OutputFormat, report *sweep.Report, styled bool) error {
	switch format {
	case window.OutputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	case window.OutputYAML:
		return yaml.NewEncoder(w).Encode(report)
	default:
		return renderSweepTable(w, report, styled)
	}
}

// renderSweepTable writes the summary and the first violations. styled colors
// the result line.
func renderSweepTable(w io.Writer, report *sweep.Report, styled bool) error {
	p := message.NewPrinter(language.English)

	status := "OK"
	if !report.OK() {
		status = "FAILED"
	}
	if styled {
		if report.OK() {
			status = tui.OKStyle.Render(status)
		} else {
			status = tui.ErrorStyle.Render(status)
		}
	}

	summary := []string{
		"SWEEP\t\n",
		p.Sprintf("Items:\t%d\n", report.ItemCount),
		p.Sprintf("Item extent:\t%.2f\n", report.Config.ItemExtent),
		p.Sprintf("Viewport:\t%.2f\n", report.Config.ViewportExtent),
		p.Sprintf("Overscan:\t%d\n", report.Config.Overscan),
		p.Sprintf("Step:\t%.2f\n", report.Step),
		p.Sprintf("Offsets:\t%d in %d batches\n", report.Offsets, report.Progress.TotalBatches),
		p.Sprintf("Elapsed:\t%s (%.0f offsets/s)\n",
			report.Progress.Elapsed.Round(time.Millisecond), report.Progress.OffsetsPerSecond),
		p.Sprintf("Violations:\t%d\n", len(report.Violations)),
		"Result:\t" + status + "\n",
	}
	if err := writeTable(w, summary); err != nil {
		return err
	}

	if report.OK() {
		return nil
	}

	rows := []string{"\nOFFSET\tPROPERTY\tDETAIL\n", "------\t--------\t------\n"}
	for i, v := range report.Violations {
		if i == maxListedViolations {
			rows = append(rows, p.Sprintf("...\t\t%d more\n", len(report.Violations)-maxListedViolations))
			break
		}
		rows = append(rows, fmt.Sprintf("%s\t%s\t%s\n", p.Sprintf("%.2f", v.Offset), v.Property, v.Detail))
	}
	return writeTable(w, rows)
}

// writeTable aligns tab-separated lines through a tabwriter.
func writeTable(w io.Writer, lines []string) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, line := range lines {
		if _, err := io.WriteString(tw, line); err != nil {
			return err
		}
	}
	return tw.Flush()
}

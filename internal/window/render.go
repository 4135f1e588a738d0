package window

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gopkg.in/yaml.v3"
)

// OutputFormat selects how a Result is rendered.
type OutputFormat string

// Supported output formats.
const (
	OutputTable  OutputFormat = "table"
	OutputJSON   OutputFormat = "json"
	OutputNDJSON OutputFormat = "ndjson"
	OutputYAML   OutputFormat = "yaml"
	OutputCSV    OutputFormat = "csv"
)

// tabwriterPadding is the minimum padding between table columns.
const tabwriterPadding = 2

// ErrUnsupportedFormat is returned for an unknown output format.
var ErrUnsupportedFormat = errors.New("unsupported output format")

// ParseOutputFormat validates s as an output format, case-insensitively.
func ParseOutputFormat(s string) (OutputFormat, error) {
	f := OutputFormat(strings.ToLower(strings.TrimSpace(s)))
	switch f {
	case OutputTable, OutputJSON, OutputNDJSON, OutputYAML, OutputCSV:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q (use table, json, ndjson, yaml or csv)", ErrUnsupportedFormat, s)
	}
}

// Result is a computed window with everything needed to report it.
type Result struct {
	ItemCount    int     `json:"item_count"    yaml:"item_count"`
	ScrollOffset float64 `json:"scroll_offset" yaml:"scroll_offset"`
	Config       Config  `json:"config"        yaml:"config"`
	Window       Window  `json:"window"        yaml:"window"`
	Meta         Meta    `json:"meta"          yaml:"meta"`
	Entries      []Entry `json:"entries"       yaml:"entries"`
}

// NewResult computes the window and metadata for itemCount at scrollOffset.
// ScrollOffset in the result is the clamped offset actually used.
func (e *Engine) NewResult(itemCount int, scrollOffset float64) (Result, error) {
	w, err := e.Window(itemCount, scrollOffset)
	if err != nil {
		return Result{}, err
	}
	offset := e.ClampOffset(itemCount, scrollOffset)
	meta, err := e.Meta(itemCount, offset)
	if err != nil {
		return Result{}, err
	}
	return Result{
		ItemCount:    itemCount,
		ScrollOffset: offset,
		Config:       e.cfg,
		Window:       w,
		Meta:         meta,
		Entries:      w.Entries(),
	}, nil
}

// RenderResult writes r to w in the given format.
func RenderResult(w io.Writer, format OutputFormat, r Result) error {
	switch format {
	case OutputTable:
		return renderTable(w, r)
	case OutputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(r); err != nil {
			return fmt.Errorf("encoding JSON: %w", err)
		}
		return nil
	case OutputNDJSON:
		return renderNDJSON(w, r.Entries)
	case OutputYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(r); err != nil {
			return fmt.Errorf("encoding YAML: %w", err)
		}
		return enc.Close()
	case OutputCSV:
		return renderCSV(w, r.Entries)
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

func renderTable(w io.Writer, r Result) error {
	p := message.NewPrinter(language.English)

	var summary strings.Builder
	summary.WriteString(p.Sprintf("Items:        %d × %.2f = %.2f\n", r.ItemCount, r.Config.ItemExtent, r.Window.TotalExtent))
	summary.WriteString(p.Sprintf("Viewport:     %.2f at offset %.2f (overscan %d)\n",
		r.Config.ViewportExtent, r.ScrollOffset, r.Config.Overscan))
	if r.Window.Empty() {
		summary.WriteString("Window:       empty\n")
	} else {
		summary.WriteString(p.Sprintf("Window:       %d–%d (%d items)\n", r.Window.Start, r.Window.End, r.Window.Len()))
		summary.WriteString(p.Sprintf("Visible:      %d–%d, page %d of %d, %.1f%% scrolled\n",
			r.Meta.FirstVisible, r.Meta.LastVisible, r.Meta.CurrentPage, r.Meta.TotalPages, r.Meta.PercentScrolled))
	}
	if _, err := io.WriteString(w, summary.String()); err != nil {
		return err
	}
	if len(r.Entries) == 0 {
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, tabwriterPadding, ' ', tabwriter.AlignRight)
	if _, err := fmt.Fprintln(tw, "\nINDEX\tOFFSET\t"); err != nil {
		return err
	}
	for _, e := range r.Entries {
		if _, err := fmt.Fprint(tw, p.Sprintf("%d\t%.2f\t\n", e.Index, e.Offset)); err != nil {
			return err
		}
	}
	return tw.Flush()
}

func renderNDJSON(w io.Writer, entries []Entry) error {
	for _, e := range entries {
		data, err := json.Marshal(e)
		if err != nil {
			return fmt.Errorf("marshaling entry: %w", err)
		}
		if _, err = fmt.Fprintf(w, "%s\n", data); err != nil {
			return fmt.Errorf("writing NDJSON line: %w", err)
		}
	}
	return nil
}

func renderCSV(w io.Writer, entries []Entry) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"index", "offset"}); err != nil {
		return err
	}
	for _, e := range entries {
		if err := cw.Write([]string{strconv.Itoa(e.Index), strconv.FormatFloat(e.Offset, 'f', -1, 64)}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

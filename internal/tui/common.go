// Package tui holds the interactive Bubble Tea views for rollcall and the
// terminal detection the CLI uses to decide between interactive and plain output.
package tui

import (
	"os"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// ViewState is the screen a model is showing.
type ViewState int

const (
	// ViewStateLoading shows a spinner while data loads.
	ViewStateLoading ViewState = iota
	// ViewStateList shows the scrollable list.
	ViewStateList
	// ViewStateDetail shows the selected item.
	ViewStateDetail
	// ViewStateQuitting renders nothing while the program exits.
	ViewStateQuitting
	// ViewStateError shows the load error.
	ViewStateError
)

// Key strings.
const (
	keyQuit  = "q"
	keyCtrlC = "ctrl+c"
	keyEnter = "enter"
	keyEsc   = "esc"
	keySlash = "/"
	keyS     = "s"
	keyE     = "e"
)

// Layout defaults.
const (
	defaultWidth         = 100
	defaultHeight        = 30
	minHeight            = 5
	borderPadding        = 2
	filterInputCharLimit = 64
	filterInputWidth     = 40
	truncateSuffix       = "..."
)

// LoadingState is a spinner plus the message shown beside it.
type LoadingState struct {
	spinner spinner.Model
	message string
}

// NewLoadingState creates a dot spinner with a default message.
func NewLoadingState() *LoadingState {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(ColorSpinner)
	return &LoadingState{spinner: s, message: "Loading roster..."}
}

// Init starts the spinner.
func (l *LoadingState) Init() tea.Cmd {
	return l.spinner.Tick
}

// Update advances the spinner.
func (l *LoadingState) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	l.spinner, cmd = l.spinner.Update(msg)
	return cmd
}

// RenderLoading returns the loading screen, or "Loading..." when loading is nil.
func RenderLoading(loading *LoadingState) string {
	if loading == nil {
		return "Loading..."
	}
	return "\n " + loading.spinner.View() + " " + loading.message + "\n\n"
}

// OutputMode is how the CLI should present results.
type OutputMode int

const (
	// OutputModePlain writes unstyled text.
	OutputModePlain OutputMode = iota
	// OutputModeStyled writes lipgloss-styled text without interaction.
	OutputModeStyled
	// OutputModeInteractive runs a Bubble Tea program.
	OutputModeInteractive
)

// IsTTY reports whether both stdin and stdout are terminals.
func IsTTY() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}

// DetectOutputMode picks the output mode. plain and noColor (or NO_COLOR, or
// TERM=dumb) force plain output; forceColor styles output even without a terminal.
func DetectOutputMode(forceColor, noColor, plain bool) OutputMode {
	if plain || noColor || os.Getenv("NO_COLOR") != "" || os.Getenv("TERM") == "dumb" {
		return OutputModePlain
	}
	if IsTTY() {
		return OutputModeInteractive
	}
	if forceColor {
		return OutputModeStyled
	}
	return OutputModePlain
}

// ColorFlags maps the output.color setting ("auto", "always", "never") to the
// forceColor and noColor arguments of DetectOutputMode.
//
//nolint:nonamedreturns // Named returns document the pair.
func ColorFlags(setting string) (forceColor, noColor bool) {
	switch setting {
	case "always":
		return true, false
	case "never":
		return false, true
	default:
		return false, false
	}
}

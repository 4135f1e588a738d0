package tui

import "github.com/charmbracelet/lipgloss"

// Color palette (ANSI 256).
//
//nolint:gochecknoglobals // Shared style constants.
var (
	ColorPrimary   = lipgloss.Color("63")
	ColorAccent    = lipgloss.Color("229")
	ColorSelection = lipgloss.Color("57")
	ColorSubtle    = lipgloss.Color("240")
	ColorLabel     = lipgloss.Color("245")
	ColorError     = lipgloss.Color("196")
	ColorOK        = lipgloss.Color("42")
	ColorSpinner   = lipgloss.Color("205")
)

// Shared styles.
//
//nolint:gochecknoglobals // Shared style constants.
var (
	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary)

	LabelStyle = lipgloss.NewStyle().
			Foreground(ColorLabel)

	ValueStyle = lipgloss.NewStyle().
			Bold(true)

	SubtleStyle = lipgloss.NewStyle().
			Foreground(ColorSubtle)

	InfoStyle = lipgloss.NewStyle().
			Foreground(ColorAccent)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorError).
			Bold(true)

	OKStyle = lipgloss.NewStyle().
		Foreground(ColorOK)

	SelectedStyle = lipgloss.NewStyle().
			Foreground(ColorAccent).
			Background(ColorSelection)

	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorPrimary).
			Padding(0, 1)

	CardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorSubtle).
			Padding(0, 1).
			MarginRight(1)

	TableHeaderStyle = lipgloss.NewStyle().
				BorderStyle(lipgloss.NormalBorder()).
				BorderForeground(ColorSubtle).
				BorderBottom(true).
				Bold(true)
)

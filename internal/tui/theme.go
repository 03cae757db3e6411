package tui

import "github.com/charmbracelet/lipgloss"

// Catppuccin Mocha, the subset the world viewer uses.
const (
	colorPink     lipgloss.Color = "#f5c2e7"
	colorMauve    lipgloss.Color = "#cba6f7"
	colorRed      lipgloss.Color = "#f38ba8"
	colorPeach    lipgloss.Color = "#fab387"
	colorYellow   lipgloss.Color = "#f9e2af"
	colorGreen    lipgloss.Color = "#a6e3a1"
	colorTeal     lipgloss.Color = "#94e2d5"
	colorLavender lipgloss.Color = "#b4befe"
	colorText     lipgloss.Color = "#cdd6f4"
	colorSubtext0 lipgloss.Color = "#a6adc8"
	colorOverlay0 lipgloss.Color = "#6c7086"
	colorSurface1 lipgloss.Color = "#45475a"
)

const (
	colorAccent  = colorPink
	colorFocus   = colorLavender
	colorSuccess = colorGreen
	colorError   = colorRed
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Underline(true).Foreground(colorAccent)
	subtitleStyle = lipgloss.NewStyle().Foreground(colorSubtext0).Italic(true)
	labelStyle    = lipgloss.NewStyle().Bold(true).Foreground(colorText)
	dimStyle      = lipgloss.NewStyle().Foreground(colorOverlay0)
	headingStyle  = lipgloss.NewStyle().Bold(true).Foreground(colorMauve)
	nameStyle     = lipgloss.NewStyle().Bold(true).Foreground(colorPeach)
	fieldStyle    = lipgloss.NewStyle().Foreground(colorTeal)
	quoteStyle    = lipgloss.NewStyle().Foreground(colorYellow)
	successStyle  = lipgloss.NewStyle().Bold(true).Foreground(colorSuccess)

	errorStyle = lipgloss.NewStyle().
			Foreground(colorError).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorError).
			Padding(0, 1)

	tabStyle       = lipgloss.NewStyle().Padding(0, 1).Foreground(colorSubtext0)
	activeTabStyle = lipgloss.NewStyle().Padding(0, 1).Bold(true).Foreground(colorAccent).Underline(true)

	optionStyle        = lipgloss.NewStyle().Padding(0, 1).Foreground(colorSubtext0)
	selectedStyle      = lipgloss.NewStyle().Padding(0, 1).Bold(true).Foreground(colorText).Background(colorSurface1)
	focusedMarkerStyle = lipgloss.NewStyle().Foreground(colorFocus).Bold(true)

	buttonStyle         = lipgloss.NewStyle().Padding(0, 2).Bold(true).Foreground(colorText).Background(colorMauve)
	disabledButtonStyle = lipgloss.NewStyle().Padding(0, 2).Foreground(colorOverlay0).Background(colorSurface1)
)

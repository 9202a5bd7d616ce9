package ui

import "github.com/charmbracelet/lipgloss"

const (
	colorAccent = lipgloss.Color("#FF8C42")
	colorAmber  = lipgloss.Color("#FFB84D")
	colorMuted  = lipgloss.Color("#6B7280")
	colorAlert  = lipgloss.Color("#FF4757")
	colorText   = lipgloss.Color("#FFFFFF")

	// progress bar gradient ends
	gradientStart = string(colorAccent)
	gradientEnd   = "#FF9F5A"
)

var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorAccent).
			MarginTop(1)

	LinkStyle = lipgloss.NewStyle().
			Foreground(colorAmber).
			Underline(true)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			MarginBottom(1)

	// CheckedStyle marks a file that has already been picked.
	CheckedStyle = lipgloss.NewStyle().
			Foreground(colorAmber).
			Bold(true)

	// ErrorStyle is used for failures and for changed delivery dates.
	ErrorStyle = lipgloss.NewStyle().
			Foreground(colorAlert).
			Bold(true)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(colorAmber).
			Bold(true)

	HelpStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			MarginTop(1)

	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorAccent).
			Padding(1, 2)
)

package tui

import (
	"github.com/charmbracelet/lipgloss"
)

// Color palette
var (
	PrimaryColor = lipgloss.Color("#7D56F4") // Purple
	SuccessColor = lipgloss.Color("#43BF6D") // Green
	WarningColor = lipgloss.Color("#FFA500") // Orange
	ErrorColor   = lipgloss.Color("#FF5555") // Red
	TextColor    = lipgloss.Color("#FFFFFF") // White
	SubtleColor  = lipgloss.Color("#626262") // Gray
)

var (
	StatusBarStyle = lipgloss.NewStyle().
			Foreground(TextColor).
			Background(PrimaryColor)

	StatusTitleStyle = lipgloss.NewStyle().
				Foreground(TextColor).
				Background(PrimaryColor).
				Bold(true).
				Padding(0, 1)

	StatusInfoStyle = lipgloss.NewStyle().
			Foreground(TextColor).
			Background(PrimaryColor).
			Padding(0, 1)

	StatusMessageStyle = lipgloss.NewStyle().
				Foreground(SuccessColor).
				Background(PrimaryColor).
				Padding(0, 1)

	StatusErrorStyle = lipgloss.NewStyle().
				Foreground(ErrorColor).
				Background(PrimaryColor).
				Bold(true).
				Padding(0, 1)

	PromptLabelStyle = lipgloss.NewStyle().
				Foreground(WarningColor).
				Bold(true)

	TitleStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor).
			Bold(true).
			Padding(1, 0).
			MarginBottom(1)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(SubtleColor).
			Italic(true)

	HelpBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(PrimaryColor).
			Padding(1, 2)

	CommandNameStyle = lipgloss.NewStyle().
				Foreground(SuccessColor).
				Bold(true).
				Width(12)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ErrorColor).
			Bold(true)
)

var (
	SpinnerStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor)

	SelectedItemStyle = lipgloss.NewStyle().
				Foreground(PrimaryColor).
				Bold(true)

	WarningStyle = lipgloss.NewStyle().
			Foreground(WarningColor).
			Bold(true)
)

package fancy

import (
	"github.com/charmbracelet/lipgloss"
)

// Common styles that can be used across the application
var (
	RootStyle = lipgloss.NewStyle().
			Foreground(ColorBlue).
			Bold(true)

	HeaderStyle = lipgloss.NewStyle().
			Foreground(ColorWhite).
			Bold(true)

	InfoStyle = lipgloss.NewStyle().
			Foreground(ColorGray).
			Italic(true)

	BranchStyle = lipgloss.NewStyle().
			Foreground(ColorDarkGray)

	PhaseStyle = lipgloss.NewStyle().
			Foreground(ColorCyan)

	TargetStyle = lipgloss.NewStyle().
			Foreground(ColorOrange)

	CommandStyle = lipgloss.NewStyle().
			Foreground(ColorYellow)

	ValueStyle = lipgloss.NewStyle().
			Foreground(ColorGreen)

	WarnStyle = lipgloss.NewStyle().
			Foreground(ColorMagenta)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorRed)
)

// PhaseText styles a boot phase name
func PhaseText(text string) string {
	return PhaseStyle.Render(text)
}

// TargetText styles a probe target
func TargetText(text string) string {
	return TargetStyle.Render(text)
}

// CommandText styles a subcommand line
func CommandText(text string) string {
	return CommandStyle.Render(text)
}

// ValueText styles a configured value
func ValueText(text string) string {
	return ValueStyle.Render(text)
}

// WarnText styles a warning annotation
func WarnText(text string) string {
	return WarnStyle.Render(text)
}

// ErrorText styles error text (red)
func ErrorText(text string) string {
	return ErrorStyle.Render(text)
}

// PathText styles file paths (gray)
func PathText(text string) string {
	return InfoStyle.Render(text)
}

// SummaryText styles summary information (dark gray)
func SummaryText(text string) string {
	return BranchStyle.Render(text)
}

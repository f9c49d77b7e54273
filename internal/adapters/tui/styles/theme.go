package styles

import "github.com/charmbracelet/lipgloss"

var (
	// Colors
	Primary   = lipgloss.Color("#7C3AED") // Purple
	Secondary = lipgloss.Color("#10B981") // Green
	Muted     = lipgloss.Color("#6B7280") // Gray
	Warning   = lipgloss.Color("#F59E0B") // Amber
	Error     = lipgloss.Color("#EF4444") // Red
	White     = lipgloss.Color("#FFFFFF")

	// Chunk status colors
	StatusPending  = lipgloss.Color("#6B7280") // Gray
	StatusScanning = lipgloss.Color("#F59E0B") // Amber
	StatusDone     = lipgloss.Color("#10B981") // Green

	// Base styles
	App = lipgloss.NewStyle().
		Padding(1, 2)

	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary).
		MarginBottom(1)

	Subtitle = lipgloss.NewStyle().
			Foreground(Muted).
			Italic(true)

	// Chunk row styles
	RowPending = lipgloss.NewStyle().
			Foreground(StatusPending)

	RowScanning = lipgloss.NewStyle().
			Foreground(StatusScanning)

	RowDone = lipgloss.NewStyle().
		Foreground(StatusDone)

	RowSelected = lipgloss.NewStyle().
			Background(Primary).
			Foreground(White).
			Bold(true)

	// Summary panel
	Label = lipgloss.NewStyle().
		Foreground(Secondary).
		Bold(true)

	Value = lipgloss.NewStyle().
		Foreground(White)

	// Help styles
	HelpKey = lipgloss.NewStyle().
		Foreground(Primary).
		Bold(true)

	HelpDesc = lipgloss.NewStyle().
			Foreground(Muted)

	HelpSeparator = lipgloss.NewStyle().
			Foreground(Muted).
			SetString(" • ")

	// Message styles
	Success = lipgloss.NewStyle().
		Foreground(Secondary).
		Bold(true)

	ErrorMsg = lipgloss.NewStyle().
			Foreground(Error).
			Bold(true)

	// Muted text style (for using Muted color as a style)
	MutedText = lipgloss.NewStyle().
			Foreground(Muted)
)

// StatusColor returns the color for a chunk status string
func StatusColor(status string) lipgloss.Color {
	switch status {
	case "done":
		return StatusDone
	case "scanning":
		return StatusScanning
	default:
		return StatusPending
	}
}

package theme

import "github.com/charmbracelet/lipgloss"

// Adaptive color pairs (dark terminal value, light terminal value).
var (
	ColorBlue    = lipgloss.AdaptiveColor{Dark: "#5B9BD5", Light: "#2B6CB0"}
	ColorGreen   = lipgloss.AdaptiveColor{Dark: "#6BCB77", Light: "#2F855A"}
	ColorYellow  = lipgloss.AdaptiveColor{Dark: "#FFD93D", Light: "#B7791F"}
	ColorRed     = lipgloss.AdaptiveColor{Dark: "#FF6B6B", Light: "#C53030"}
	ColorMagenta = lipgloss.AdaptiveColor{Dark: "#CC5DE8", Light: "#805AD5"}
	ColorGray    = lipgloss.AdaptiveColor{Dark: "#868E96", Light: "#718096"}
	ColorWhite   = lipgloss.AdaptiveColor{Dark: "#F8F9FA", Light: "#1A202C"}
	ColorBorder  = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#E2E8F0"}
)

// HeaderStyle is used for table headers and titles.
var HeaderStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorWhite).
	Background(ColorBlue).
	Padding(0, 1)

// CellStyle pads ordinary table cells.
var CellStyle = lipgloss.NewStyle().Padding(0, 1)

// HelpStyle is used for hints and secondary text.
var HelpStyle = lipgloss.NewStyle().
	Foreground(ColorGray).
	Italic(true)

// SuccessStyle marks completed actions.
var SuccessStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorGreen)

// ErrorStyle marks failures.
var ErrorStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorRed)

// StateStyle returns a color-coded style for a workflow state. from and
// to are the states of the logged transition and get their own colors.
func StateStyle(state, from, to string) lipgloss.Style {
	base := CellStyle.Bold(true)

	switch state {
	case from:
		return base.Foreground(ColorYellow)
	case to:
		return base.Foreground(ColorMagenta)
	case "":
		return base.Foreground(ColorGray)
	default:
		return base.Foreground(ColorBlue)
	}
}

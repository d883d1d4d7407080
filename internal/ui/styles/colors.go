package styles

import "github.com/charmbracelet/lipgloss"

// Color palette, dark mode optimized, semantic colors
var (
	// Primary semantic colors
	Accent  = lipgloss.Color("#7C3AED") // violet-500 - highlights, interactive
	Success = lipgloss.Color("#10B981") // emerald-500 - success
	Warning = lipgloss.Color("#F59E0B") // amber-500 - warnings, row limits
	Error   = lipgloss.Color("#EF4444") // red-500 - errors
	Info    = lipgloss.Color("#3B82F6") // blue-500 - info, column headers
	Muted   = lipgloss.Color("#6B7280") // gray-500 - secondary text

	// Text colors
	TextPrimary  = lipgloss.Color("#F9FAFB") // gray-50 - main text
	TextTertiary = lipgloss.Color("#6B7280") // gray-500 - row numbers

	// Background colors
	BgHighlight = lipgloss.Color("#1F2937") // gray-800 - fly-over
	BgBorder    = lipgloss.Color("#374151") // gray-700 - scrollbars
)

// Semantic color aliases for table cells
var (
	ColorHeader   = Info // Column names
	ColorNumber   = TextPrimary
	ColorNull     = Muted // NULL values
	ColorGutter   = TextTertiary
	ColorSelected = Accent  // Selected cells
	ColorTooltip  = Warning // Scroll tooltips
	ColorLimit    = Warning // Row limit notice
)

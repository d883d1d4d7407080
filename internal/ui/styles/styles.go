package styles

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
)

// Symbols - Unicode with ASCII fallbacks
const (
	SymbolSuccess = "✓"
	SymbolWarning = "⚠"
	SymbolArrow   = "→"
)

// NoColor checks if colors should be disabled
func NoColor() bool {
	return os.Getenv("NO_COLOR") != "" || os.Getenv("PGRID_NO_COLOR") != ""
}

// SetNoColor disables colors for the rest of the process.
func SetNoColor(v bool) {
	if v {
		_ = os.Setenv("PGRID_NO_COLOR", "1")
	}
}

// IsAccessible checks if accessibility mode is enabled
// When enabled: no animations, no spinner, simplified output
func IsAccessible() bool {
	return os.Getenv("PGRID_ACCESSIBLE") == "1" || os.Getenv("PGRID_ACCESSIBLE") == "true"
}

// Base text styles
var (
	Bold      = lipgloss.NewStyle().Bold(true)
	Underline = lipgloss.NewStyle().Underline(true)
)

// Semantic styles - use these instead of raw colors
var (
	// Message types
	SuccessStyle = lipgloss.NewStyle().Foreground(Success)
	ErrorStyle   = lipgloss.NewStyle().Foreground(Error)
	WarningStyle = lipgloss.NewStyle().Foreground(Warning)
	InfoStyle    = lipgloss.NewStyle().Foreground(Info)
	MutedStyle   = lipgloss.NewStyle().Foreground(Muted)

	// Table cells
	HeaderCell   = lipgloss.NewStyle().Bold(true).Foreground(ColorHeader)
	TextCell     = lipgloss.NewStyle()
	NumberCell   = lipgloss.NewStyle().Foreground(ColorNumber)
	NullCell     = lipgloss.NewStyle().Italic(true).Foreground(ColorNull)
	PendingCell  = lipgloss.NewStyle().Foreground(BgBorder)
	SelectedCell = lipgloss.NewStyle().Background(ColorSelected).Foreground(lipgloss.Color("#000000"))
	FlyoverCell  = lipgloss.NewStyle().Background(BgHighlight).Foreground(TextPrimary)
	Separator    = lipgloss.NewStyle().Foreground(BgBorder)
	Gutter       = lipgloss.NewStyle().Foreground(ColorGutter)
	ResizeLine   = lipgloss.NewStyle().Foreground(Accent).Bold(true)

	// Scrollbars and tooltips
	ScrollTrack = lipgloss.NewStyle().Foreground(BgBorder)
	ScrollThumb = lipgloss.NewStyle().Foreground(Accent)
	Tooltip     = lipgloss.NewStyle().Background(ColorTooltip).Foreground(lipgloss.Color("#000000"))

	// Title bar
	TitleStyle = lipgloss.NewStyle().Bold(true).Foreground(Accent)
	LimitStyle = lipgloss.NewStyle().Foreground(ColorLimit)
)

// ═══════════════════════════════════════════════════════════════════════════
// Render functions - centralized formatting with NoColor support
// ═══════════════════════════════════════════════════════════════════════════

// render applies a style if colors are enabled
func render(s lipgloss.Style, text string) string {
	if NoColor() {
		return text
	}
	return s.Render(text)
}

// ═══════════════════════════════════════════════════════════════════════════
// Message formatters - structured output
// ═══════════════════════════════════════════════════════════════════════════

// SuccessMsg formats a success message with checkmark
func SuccessMsg(msg string) string {
	symbol := SymbolSuccess
	if NoColor() {
		symbol = "+"
	}
	return fmt.Sprintf("%s %s", render(SuccessStyle, symbol), msg)
}

// ErrorMsg formats an error message
func ErrorMsg(title string) string {
	return render(ErrorStyle, "Error: "+title)
}

// WarningMsg formats a warning message
func WarningMsg(msg string) string {
	symbol := SymbolWarning
	if NoColor() {
		symbol = "!"
	}
	return fmt.Sprintf("%s %s", render(WarningStyle, symbol), msg)
}

// MutedMsg formats muted/secondary text
func MutedMsg(msg string) string {
	return render(MutedStyle, msg)
}

// ═══════════════════════════════════════════════════════════════════════════
// Section formatters - consistent output structure
// ═══════════════════════════════════════════════════════════════════════════

// SectionHeader formats a section header
func SectionHeader(title string) string {
	return render(Bold, title)
}

// ═══════════════════════════════════════════════════════════════════════════
// Color functions - simple string coloring (non-printf versions)
// ═══════════════════════════════════════════════════════════════════════════

func Cyan(s string) string        { return render(InfoStyle, s) }
func Mute(s string) string        { return render(MutedStyle, s) }
func Bolded(s string) string      { return render(Bold, s) }
func Limit(s string) string       { return render(LimitStyle, s) }
func Title(s string) string       { return render(TitleStyle, s) }
func SuccessText(s string) string { return render(SuccessStyle, s) }
func WarningText(s string) string { return render(WarningStyle, s) }
func ErrorText(s string) string   { return render(ErrorStyle, s) }

// Printf-style color functions
func Boldf(format string, a ...any) string { return Bolded(fmt.Sprintf(format, a...)) }

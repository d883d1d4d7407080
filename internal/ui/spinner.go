package ui

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/imgajeed76/pgrid/internal/ui/styles"
	"golang.org/x/term"
)

// Spinner provides a simple animated spinner for long operations. It draws
// on stderr so that results on stdout stay pipeable.
type Spinner struct {
	message string
	out     io.Writer
	done    chan struct{}
	stopped chan struct{}
}

// NewSpinner creates a new spinner with the given message
func NewSpinner(message string) *Spinner {
	return &Spinner{
		message: message,
		out:     os.Stderr,
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
}

// interactive reports whether f is a terminal worth animating on.
func interactive(f *os.File) bool {
	return !styles.IsAccessible() && term.IsTerminal(int(f.Fd()))
}

// Start begins the spinner animation in the background
func (s *Spinner) Start() {
	// Accessible mode or non-TTY: just print static message
	if !interactive(os.Stderr) {
		fmt.Fprintln(s.out, s.message+"...")
		close(s.stopped)
		return
	}

	go func() {
		defer close(s.stopped)
		frames := []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
		style := lipgloss.NewStyle().Foreground(styles.Accent)
		i := 0
		ticker := time.NewTicker(80 * time.Millisecond)
		defer ticker.Stop()

		for {
			select {
			case <-s.done:
				// Clear the spinner line
				fmt.Fprint(s.out, "\r\033[K")
				return
			case <-ticker.C:
				frame := style.Render(frames[i%len(frames)])
				fmt.Fprintf(s.out, "\r%s %s", frame, s.message)
				i++
			}
		}
	}()
}

// Stop stops the spinner and waits for its line to be cleared.
func (s *Spinner) Stop() {
	select {
	case <-s.done:
	default:
		close(s.done)
	}
	<-s.stopped
}

// Success stops the spinner and shows a success message
func (s *Spinner) Success(msg string) {
	s.Stop()
	fmt.Fprintln(s.out, styles.SuccessMsg(msg))
}

// Error stops the spinner and shows an error message
func (s *Spinner) Error(msg string) {
	s.Stop()
	fmt.Fprintln(s.out, styles.ErrorMsg(msg))
}

// ══════════════════════════════════════════════════════════════════════════
// Progress bar for operations with known progress
// ══════════════════════════════════════════════════════════════════════════

// Progress renders rows written out of a total on stderr.
type Progress struct {
	out      io.Writer
	total    int
	current  int
	label    string
	width    int
	static   bool
	lastStep int // last printed tenth, -1 before the first
}

// NewProgress creates a new progress bar
func NewProgress(label string, total int) *Progress {
	return &Progress{
		out:      os.Stderr,
		label:    label,
		total:    total,
		width:    30,
		static:   !interactive(os.Stderr),
		lastStep: -1,
	}
}

// Update updates the progress and renders. A total of zero keeps the
// previous total.
func (p *Progress) Update(current, total int) {
	if total > 0 {
		p.total = total
	}
	p.current = current
	p.render()
}

func (p *Progress) render() {
	pct := 100
	if p.total > 0 {
		pct = min(100, p.current*100/p.total)
	}

	// Accessible mode or non-TTY: print simple text progress
	if p.static {
		// Print every 10% to avoid spam
		if step := pct / 10; step != p.lastStep {
			p.lastStep = step
			fmt.Fprintf(p.out, "%s: %d%% (%s of %s)\n", p.label, pct, humanize.Comma(int64(p.current)), humanize.Comma(int64(p.total)))
		}
		return
	}

	filled := pct * p.width / 100
	empty := p.width - filled

	bar := lipgloss.NewStyle().Foreground(styles.Success).Render(
		strings.Repeat("█", filled),
	) + lipgloss.NewStyle().Foreground(styles.Muted).Render(
		strings.Repeat("░", empty),
	)

	fmt.Fprintf(p.out, "\r%s %s %3d%% [%s/%s]", p.label, bar, pct, humanize.Comma(int64(p.current)), humanize.Comma(int64(p.total)))
}

// Done finishes the progress bar
func (p *Progress) Done() {
	p.current = p.total
	p.render()
	if !p.static {
		fmt.Fprintln(p.out)
	}
}

// Package table provides the interactive table viewer and output formatters
// for pgrid. The viewer pages through a source with the grid engine: only
// the rows around the viewport are loaded. Plain text, JSON and raw
// tab-separated output walk the whole source in blocks.
package table

import (
	"context"
	"os"

	"github.com/imgajeed76/pgrid/internal/grid"
	"github.com/imgajeed76/pgrid/internal/source"
	"golang.org/x/term"
)

// Source is a table the viewer can page through.
type Source interface {
	grid.Provider
	// OnEvent registers the receiver of click, details and max-mode
	// actions.
	OnEvent(func(source.Event))
}

// DisplayOptions controls how results are rendered.
type DisplayOptions struct {
	// JSON outputs results as a JSON array of objects.
	JSON bool
	// Raw outputs results as tab-separated values (for piping).
	Raw bool
	// NoPager forces plain table output even on a TTY.
	NoPager bool
	// Engine tunes the interactive viewer.
	Engine grid.Options
}

// DisplayResults picks the right output mode based on options and
// environment, then renders src. The title is shown in the interactive TUI
// header; for non-interactive modes it is ignored.
func DisplayResults(ctx context.Context, title string, src Source, opts DisplayOptions) error {
	if opts.Raw {
		return PrintRawResults(ctx, src)
	}

	if opts.JSON {
		return PrintJSONResults(ctx, src)
	}

	isTTY := term.IsTerminal(int(os.Stdout.Fd()))

	if !isTTY || opts.NoPager {
		return PrintPlainTable(ctx, src)
	}

	return RunTableTUI(ctx, title, src, opts.Engine)
}

// Package grid is the viewport engine behind pgrid's table views. It keeps
// the scroll geometry of a table whose full data set lives with a provider,
// loads row blocks on demand, and runs the resize, selection and fly-over
// gestures against it.
//
// An Engine is driven from a single event loop. Hosts forward scroll,
// pointer and size events and re-render from Metrics, View and the loaded
// cells afterwards.
package grid

import (
	"context"
	"log/slog"
	"time"

	"github.com/imgajeed76/pgrid/internal/logging"
	"github.com/imgajeed76/pgrid/internal/util"
)

// Options tunes an Engine.
type Options struct {
	// MinBlockSize is the smallest number of rows a load asks for.
	MinBlockSize int
	// LoadDebounce is the quiet period before a scroll-triggered load fires.
	LoadDebounce time.Duration
	// FlyoverDebounce is the quiet period before fly-over is reported.
	FlyoverDebounce time.Duration
	// MinWidth and MinHeight floor resized dimensions.
	MinWidth  int
	MinHeight int
	// LoadTimeout bounds a provider load; zero leaves it to the provider.
	LoadTimeout time.Duration

	Variant Variant
	Logger  *slog.Logger

	// OnLoad is called on the loop after every completed load.
	OnLoad func(LoadOutcome)
	// OnCommitError is called on the loop when a resize commit, fly-over
	// notification or action fails.
	OnCommitError func(error)
	// OnCommitted is called on the loop after a provider call succeeded,
	// with the operation name ("resize columns", "resize row", ...).
	OnCommitted func(op string)
}

// DefaultOptions returns the engine defaults.
func DefaultOptions() Options {
	return Options{
		MinBlockSize:    100,
		LoadDebounce:    200 * time.Millisecond,
		FlyoverDebounce: 100 * time.Millisecond,
		MinWidth:        10,
		MinHeight:       10,
		Variant:         GridVariant{},
	}
}

type cellKey struct {
	row, col int
}

// Engine is the viewport engine for one table.
type Engine struct {
	id       string
	ctx      context.Context
	provider Provider
	loop     Loop
	opts     Options
	log      *slog.Logger

	metrics  TableMetrics
	revision uint64
	vp       Viewport
	view     ViewState

	loaded    LoadedWindow
	hasLoaded bool
	header    [][]Cell
	body      [][]Cell
	index     map[cellKey]*Cell

	// loader
	opened       bool
	loadDebounce debouncer
	pendingStart int
	pendingCount int
	inFlight     bool
	recheck      bool
	seq          uint64
	lastErr      error

	resize    ResizeController
	selection SelectionState
	flyover   debouncer
	tooltips  TooltipPresenter
	maximized bool
}

// New creates an engine for provider. ctx bounds every provider call.
func New(ctx context.Context, provider Provider, loop Loop, opts Options) *Engine {
	defaults := DefaultOptions()
	if opts.MinBlockSize <= 0 {
		opts.MinBlockSize = defaults.MinBlockSize
	}
	if opts.LoadDebounce <= 0 {
		opts.LoadDebounce = defaults.LoadDebounce
	}
	if opts.FlyoverDebounce <= 0 {
		opts.FlyoverDebounce = defaults.FlyoverDebounce
	}
	if opts.MinWidth <= 0 {
		opts.MinWidth = defaults.MinWidth
	}
	if opts.MinHeight <= 0 {
		opts.MinHeight = defaults.MinHeight
	}
	if opts.Variant == nil {
		opts.Variant = defaults.Variant
	}

	id := util.NewTableID()
	logger := opts.Logger
	if logger == nil {
		logger = logging.Logger()
	}

	e := &Engine{
		id:           id,
		ctx:          ctx,
		provider:     provider,
		loop:         loop,
		opts:         opts,
		log:          logger.With("table", util.ShortID(id), "variant", opts.Variant.Name()),
		index:        make(map[cellKey]*Cell),
		loadDebounce: debouncer{delay: opts.LoadDebounce},
		flyover:      debouncer{delay: opts.FlyoverDebounce},
		resize:       ResizeController{minWidth: opts.MinWidth, minHeight: opts.MinHeight},
	}
	e.selection.reset()
	return e
}

// ID returns the table id used in every provider call.
func (e *Engine) ID() string { return e.id }

// Metrics returns the live metrics. Callers must not modify them.
func (e *Engine) Metrics() *TableMetrics { return &e.metrics }

// Revision increases whenever metrics or loaded cells change.
func (e *Engine) Revision() uint64 { return e.revision }

// Viewport returns the current scroll position and size.
func (e *Engine) Viewport() Viewport { return e.vp }

// View returns the visible range derived from the last event.
func (e *Engine) View() ViewState { return e.view }

// Loaded returns the resident row window; ok is false before the first
// successful load.
func (e *Engine) Loaded() (w LoadedWindow, ok bool) { return e.loaded, e.hasLoaded }

// HeaderCells returns the expanded header cells of the last load.
func (e *Engine) HeaderCells() [][]Cell { return e.header }

// BodyCells returns the expanded body cells of the last load.
func (e *Engine) BodyCells() [][]Cell { return e.body }

// CellAt returns the loaded cell anchored at (row, col).
func (e *Engine) CellAt(row, col int) (*Cell, bool) {
	c, ok := e.index[cellKey{row, col}]
	return c, ok
}

func (e *Engine) rebuildIndex() {
	e.index = make(map[cellKey]*Cell, len(e.body)*max(1, e.metrics.ColCount))
	for _, rows := range [][][]Cell{e.header, e.body} {
		for i := range rows {
			for j := range rows[i] {
				c := &rows[i][j]
				e.index[cellKey{c.Row, c.Col}] = c
			}
		}
	}
}

// SetViewport records a new viewport size and re-evaluates the window.
func (e *Engine) SetViewport(width, height int) {
	e.vp.Width = width
	e.vp.Height = height
	e.clampScroll()
	e.evaluate()
}

// ScrollTo moves the viewport to (x, y), clamped to the known extent. The
// visible range is recomputed synchronously; any load it needs is debounced.
func (e *Engine) ScrollTo(x, y int) {
	e.vp.ScrollX = min(max(0, x), e.vp.MaxScrollX(&e.metrics))
	e.vp.ScrollY = min(max(0, y), e.vp.MaxScrollY(&e.metrics))
	e.evaluate()
}

// ScrollBy moves the viewport by (dx, dy).
func (e *Engine) ScrollBy(dx, dy int) {
	e.ScrollTo(e.vp.ScrollX+dx, e.vp.ScrollY+dy)
}

// ScrollToRow scrolls so absolute row idx is the first visible data row.
func (e *Engine) ScrollToRow(idx int) {
	r := max(0, idx-e.metrics.HeaderRowCount)
	e.ScrollTo(e.vp.ScrollX, e.metrics.DataRowTop(r))
}

// evaluate recomputes the visible range and applies the load policy.
func (e *Engine) evaluate() {
	e.view = ComputeView(&e.metrics, e.vp)

	switch {
	case e.inFlight:
		e.recheck = true
	case !e.hasLoaded:
		if e.opened {
			start, count := loadBlock(e.view, &e.metrics, e.opts.MinBlockSize)
			e.pendingCount = count
			e.RequestRows(start)
		}
	case needsRows(e.view, &e.metrics, e.loaded):
		start, count := loadBlock(e.view, &e.metrics, e.opts.MinBlockSize)
		e.pendingCount = count
		e.RequestRows(start)
	case e.loadDebounce.pending:
		e.loadDebounce.cancel()
		e.log.Debug("pending load cancelled", "current", e.view.CurrentRow, "last", e.view.LastVisibleRow)
	}
}

// TableHeight returns the height the hosting view should reserve.
func (e *Engine) TableHeight() int {
	return e.opts.Variant.TableHeight(&e.metrics, e.vp)
}

// Maximized reports the max/restore mode.
func (e *Engine) Maximized() bool { return e.maximized }

// ToggleMaxMode flips max/restore mode and reports it to the provider.
func (e *Engine) ToggleMaxMode() {
	e.maximized = !e.maximized
	maximized := e.maximized
	e.action("toggle max mode", func(ctx context.Context, a Actions) error {
		return a.ToggleMaxMode(ctx, e.id, maximized)
	})
}

// ClickCell dispatches a cell click (hyperlink or drill-through).
func (e *Engine) ClickCell(ref CellRef) {
	path := ref.Path()
	e.action("cell click", func(ctx context.Context, a Actions) error {
		return a.CellClick(ctx, e.id, path)
	})
}

// ShowDetails asks the provider to show details of the current selection.
func (e *Engine) ShowDetails() {
	paths := e.selection.Paths()
	e.action("show details", func(ctx context.Context, a Actions) error {
		return a.ShowDetails(ctx, e.id, paths)
	})
}

func (e *Engine) action(op string, call func(context.Context, Actions) error) {
	a, ok := e.provider.(Actions)
	if !ok {
		return
	}
	e.call(op, func(ctx context.Context) error { return call(ctx, a) })
}

// call runs a one-shot provider call off the loop and reports failures
// through OnCommitError.
func (e *Engine) call(op string, fn func(context.Context) error) {
	ctx := e.ctx
	e.loop.Go(func() func() {
		err := fn(ctx)
		return func() {
			if err == nil {
				if e.opts.OnCommitted != nil {
					e.opts.OnCommitted(op)
				}
				return
			}
			cerr := &CommitError{TableID: e.id, Op: op, Err: err}
			e.log.Warn("provider call failed", "op", op, "err", err)
			if e.opts.OnCommitError != nil {
				e.opts.OnCommitError(cerr)
			}
		}
	})
}

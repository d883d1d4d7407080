package grid

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// LoadRequest identifies one dispatched provider load.
type LoadRequest struct {
	TableID string
	Start   int
	Count   int
	Seq     uint64
}

// LoadOutcome is reported to Options.OnLoad after every completed load.
type LoadOutcome struct {
	Request LoadRequest
	Err     error
	// Stale is set when the merged window no longer covers the rows the
	// viewport needs; the engine has already re-evaluated.
	Stale bool
	// Clamped is set when a shrinking scroll height pulled the vertical
	// offset back into range.
	Clamped bool
	// Short is set when the provider returned fewer rows than requested
	// although its row count promised more. A short result that covered
	// the viewport is not re-requested until the viewport moves.
	Short bool
	// Elapsed is how long the provider took.
	Elapsed time.Duration
}

// Open dispatches the first load immediately, without debounce.
func (e *Engine) Open() {
	if e.opened {
		return
	}
	e.opened = true
	e.dispatch(0, e.opts.MinBlockSize)
}

// RequestRows asks for a block starting at start. Calls within the debounce
// window coalesce into one provider round trip for the latest start.
func (e *Engine) RequestRows(start int) {
	e.pendingStart = start
	if e.pendingCount <= 0 {
		e.pendingCount = e.opts.MinBlockSize
	}
	e.loadDebounce.trigger(e.loop, e.fireLoad)
}

// Reload requests the current block again, e.g. after the provider changed
// its layout.
func (e *Engine) Reload() {
	start, count := loadBlock(e.view, &e.metrics, e.opts.MinBlockSize)
	e.pendingCount = count
	e.RequestRows(start)
}

// Loading reports whether a load is in flight.
func (e *Engine) Loading() bool {
	return e.inFlight
}

// LoadPending reports whether a debounced load is waiting to fire.
func (e *Engine) LoadPending() bool {
	return e.loadDebounce.pending
}

func (e *Engine) fireLoad() {
	if e.inFlight {
		e.recheck = true
		return
	}
	e.dispatch(e.pendingStart, e.pendingCount)
}

func (e *Engine) dispatch(start, count int) {
	e.inFlight = true
	e.seq++
	req := LoadRequest{TableID: e.id, Start: start, Count: count, Seq: e.seq}
	e.log.Debug("load dispatched", "start", req.Start, "count", req.Count, "seq", req.Seq)

	provider := e.provider
	ctx, timeout := e.ctx, e.opts.LoadTimeout
	e.loop.Go(func() func() {
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}
		began := time.Now()
		res, err := provider.LoadRows(ctx, req.TableID, req.Start, req.Count)
		elapsed := time.Since(began)
		return func() { e.completeLoad(req, res, err, elapsed) }
	})
}

func (e *Engine) completeLoad(req LoadRequest, res *LoadResult, err error, elapsed time.Duration) {
	e.inFlight = false
	if err == nil {
		err = e.merge(req, res)
	}
	if err != nil {
		lerr := &LoadError{TableID: e.id, Start: req.Start, Count: req.Count, Err: err}
		e.lastErr = lerr
		e.recheck = false
		e.log.Warn("load failed", "start", req.Start, "count", req.Count, "err", err, "elapsed", elapsed)
		e.notify(LoadOutcome{Request: req, Err: lerr, Elapsed: elapsed})
		return
	}
	e.lastErr = nil

	clamped := e.clampScroll()
	e.view = ComputeView(&e.metrics, e.vp)
	stale := needsRows(e.view, &e.metrics, e.loaded)
	short := e.loaded.End < min(e.metrics.RowCount, req.Start+req.Count)
	e.log.Debug("load merged",
		"start", e.loaded.Start, "end", e.loaded.End,
		"rows", e.metrics.RowCount, "stale", stale, "short", short, "clamped", clamped, "elapsed", elapsed)
	if short {
		e.log.Warn("provider returned fewer rows than its row count",
			"start", req.Start, "count", req.Count, "got", e.loaded.Len(), "rows", e.metrics.RowCount)
	}

	recheck := e.recheck
	e.recheck = false
	if recheck || (stale && !(short && covers(req, e.view))) {
		e.evaluate()
	}
	e.notify(LoadOutcome{Request: req, Stale: stale, Short: short, Clamped: clamped, Elapsed: elapsed})
}

// covers reports whether req asked for every row the view shows.
func covers(req LoadRequest, vs ViewState) bool {
	return req.Start <= vs.CurrentRow && vs.LastVisibleRow < req.Start+req.Count
}

func (e *Engine) notify(out LoadOutcome) {
	if e.opts.OnLoad != nil {
		e.opts.OnLoad(out)
	}
}

// merge validates and expands res, then swaps it in as one step. Nothing is
// mutated when any part of res is rejected.
func (e *Engine) merge(req LoadRequest, res *LoadResult) error {
	if res == nil {
		return fmt.Errorf("%w: empty result", ErrInvalidResult)
	}
	if err := validateResult(res); err != nil {
		return err
	}
	header, err := expandCells(res.HeaderCells, res.Prototypes)
	if err != nil {
		return err
	}
	body, err := expandCells(res.BodyCells, res.Prototypes)
	if err != nil {
		return err
	}

	e.metrics.apply(res)
	start := max(req.Start, res.HeaderRowCount)
	end := min(res.RowCount, start+len(body))
	if end < start {
		end = start
	}
	e.loaded = LoadedWindow{Start: start, End: end}
	e.hasLoaded = true
	e.header = header
	e.body = body
	e.rebuildIndex()
	e.revision++
	return nil
}

func validateResult(res *LoadResult) error {
	switch {
	case res.RowCount < 0 || res.ColCount < 0 || res.HeaderRowCount < 0 || res.HeaderColCount < 0:
		return fmt.Errorf("%w: negative count", ErrInvalidResult)
	case res.HeaderRowCount > res.RowCount:
		return fmt.Errorf("%w: %d header rows exceed %d rows", ErrInvalidResult, res.HeaderRowCount, res.RowCount)
	case res.HeaderColCount > res.ColCount:
		return fmt.Errorf("%w: %d header columns exceed %d columns", ErrInvalidResult, res.HeaderColCount, res.ColCount)
	case len(res.ColWidths) != res.ColCount:
		return fmt.Errorf("%w: %d widths for %d columns", ErrInvalidResult, len(res.ColWidths), res.ColCount)
	}
	if res.Wrapped {
		m := TableMetrics{Wrapped: true, HeaderRowPositions: res.HeaderRowPositions, DataRowPositions: res.DataRowPositions}
		if err := m.ValidatePositions(); err != nil {
			return err
		}
	}
	return nil
}

// expandCells copies rows, inflating prototype references and filling the
// optional fields: Label defaults to Data and spans default to 1.
func expandCells(rows [][]Cell, protos []Cell) ([][]Cell, error) {
	out := make([][]Cell, len(rows))
	for i, row := range rows {
		cells := make([]Cell, len(row))
		for j, c := range row {
			if c.FormatRef != 0 {
				idx := c.FormatRef - 1
				if idx < 0 || idx >= len(protos) {
					return nil, fmt.Errorf("%w: ref %d at row %d col %d", ErrBadPrototype, c.FormatRef, c.Row, c.Col)
				}
				inherit(&c, protos[idx])
				c.FormatRef = 0
			}
			if c.Label == "" {
				c.Label = c.Data
			}
			if c.RowSpan < 1 {
				c.RowSpan = 1
			}
			if c.ColSpan < 1 {
				c.ColSpan = 1
			}
			cells[j] = c
		}
		out[i] = cells
	}
	return out, nil
}

func inherit(c *Cell, p Cell) {
	if c.Style == "" {
		c.Style = p.Style
	}
	if c.Align == "" {
		c.Align = p.Align
	}
	if c.Link == "" {
		c.Link = p.Link
	}
	if c.RowSpan == 0 {
		c.RowSpan = p.RowSpan
	}
	if c.ColSpan == 0 {
		c.ColSpan = p.ColSpan
	}
}

// clampScroll pulls the offsets back into range after the known world
// shrank.
func (e *Engine) clampScroll() bool {
	clamped := false
	if maxY := e.vp.MaxScrollY(&e.metrics); e.vp.ScrollY > maxY {
		e.vp.ScrollY = maxY
		clamped = true
	}
	if maxX := e.vp.MaxScrollX(&e.metrics); e.vp.ScrollX > maxX {
		e.vp.ScrollX = maxX
		clamped = true
	}
	return clamped
}

// LastError returns the most recent load failure, cleared by the next
// successful load.
func (e *Engine) LastError() error {
	return e.lastErr
}

// IsLoadError reports whether err is a load failure.
func IsLoadError(err error) bool {
	var lerr *LoadError
	return errors.As(err, &lerr)
}

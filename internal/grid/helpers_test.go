package grid

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"time"
)

// manualLoop is a deterministic Loop: timers fire only on advance, and
// provider work runs either inline or when flush is called.
type manualLoop struct {
	now    time.Duration
	timers []manualTimer
	async  bool
	work   []func() func()
}

type manualTimer struct {
	at  time.Duration
	seq int
	fn  func()
}

func (l *manualLoop) AfterFunc(delay time.Duration, fn func()) {
	l.timers = append(l.timers, manualTimer{at: l.now + delay, seq: len(l.timers), fn: fn})
}

func (l *manualLoop) Go(work func() func()) {
	if l.async {
		l.work = append(l.work, work)
		return
	}
	work()()
}

// advance moves the clock forward and fires every timer that came due.
func (l *manualLoop) advance(d time.Duration) {
	l.now += d
	for {
		sort.SliceStable(l.timers, func(i, j int) bool { return l.timers[i].at < l.timers[j].at })
		if len(l.timers) == 0 || l.timers[0].at > l.now {
			return
		}
		t := l.timers[0]
		l.timers = l.timers[1:]
		t.fn()
	}
}

// flush completes queued provider work in order.
func (l *manualLoop) flush() {
	for len(l.work) > 0 {
		w := l.work[0]
		l.work = l.work[1:]
		w()()
	}
}

type loadCall struct {
	start, count int
}

type rowResize struct {
	blockStart, blockRows, row, height int
	header                             bool
	span                               int
}

type colResize struct {
	row, start, end int
	widths          []int
}

// fakeProvider serves a fixed-height table of generated cells.
type fakeProvider struct {
	rows       int
	headerRows int
	cols       int
	colWidth   int
	rowHeight  int
	wrapped    []int
	runtime    *int
	// drop hides the last rows from bodies while RowCount still counts them.
	drop int

	err error

	loads     []loadCall
	rowCommit []rowResize
	colCommit []colResize
	flyovers  []map[int][]int
	clicks    []DataPath
}

func newFakeProvider(rows, headerRows, cols int) *fakeProvider {
	return &fakeProvider{rows: rows, headerRows: headerRows, cols: cols, colWidth: 20, rowHeight: 20}
}

func (p *fakeProvider) LoadRows(_ context.Context, _ string, start, count int) (*LoadResult, error) {
	p.loads = append(p.loads, loadCall{start, count})
	if p.err != nil {
		return nil, p.err
	}

	total := p.rows + p.headerRows
	res := &LoadResult{
		RowCount:            total,
		ColCount:            p.cols,
		DataRowCount:        p.rows + p.headerRows,
		HeaderRowCount:      p.headerRows,
		DataRowHeight:       p.rowHeight,
		RuntimeDataRowCount: p.runtime,
	}
	for c := 0; c < p.cols; c++ {
		res.ColWidths = append(res.ColWidths, p.colWidth)
	}
	for h := 0; h < p.headerRows; h++ {
		res.HeaderRowHeights = append(res.HeaderRowHeights, p.rowHeight)
		res.HeaderCells = append(res.HeaderCells, p.row(h))
	}
	if p.wrapped != nil {
		res.Wrapped = true
		res.DataRowPositions = p.wrapped
		for h := 0; h <= p.headerRows; h++ {
			res.HeaderRowPositions = append(res.HeaderRowPositions, h*p.rowHeight)
		}
	}
	for r := max(start, p.headerRows); r < min(start+count, total-p.drop); r++ {
		res.BodyCells = append(res.BodyCells, p.row(r))
	}
	return res, nil
}

func (p *fakeProvider) row(r int) []Cell {
	cells := make([]Cell, p.cols)
	for c := range cells {
		cells[c] = Cell{Row: r, Col: c, Data: "r" + strconv.Itoa(r) + "c" + strconv.Itoa(c)}
	}
	return cells
}

func (p *fakeProvider) ResizeColumns(_ context.Context, _ string, row, startCol, endCol int, widths []int) error {
	p.colCommit = append(p.colCommit, colResize{row, startCol, endCol, widths})
	return nil
}

func (p *fakeProvider) ResizeRow(_ context.Context, _ string, blockStart, blockRows, row, height int, isHeader bool, rowSpan int) error {
	p.rowCommit = append(p.rowCommit, rowResize{blockStart, blockRows, row, height, isHeader, rowSpan})
	return nil
}

func (p *fakeProvider) NotifyFlyover(_ context.Context, _ string, selected map[int][]int) error {
	p.flyovers = append(p.flyovers, selected)
	return nil
}

func (p *fakeProvider) CellClick(_ context.Context, _ string, path DataPath) error {
	p.clicks = append(p.clicks, path)
	return nil
}

func (p *fakeProvider) ShowDetails(context.Context, string, []DataPath) error { return nil }

func (p *fakeProvider) ToggleMaxMode(context.Context, string, bool) error {
	return errors.New("max mode unavailable")
}

// openEngine builds an engine over p, opens it and sizes the viewport.
func openEngine(p *fakeProvider, loop *manualLoop, width, height int) *Engine {
	e := New(context.Background(), p, loop, Options{})
	e.vp.Width, e.vp.Height = width, height
	e.Open()
	return e
}

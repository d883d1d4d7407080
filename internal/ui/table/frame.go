package table

import (
	"strconv"

	"github.com/imgajeed76/pgrid/internal/grid"
)

// frame maps between screen cells and table coordinates for one render.
// The table is drawn at (gutter, top) and is vp.Width x height cells; the
// vertical scrollbar sits in the column right of it.
type frame struct {
	m      *grid.TableMetrics
	vp     grid.Viewport
	vs     grid.ViewState
	gutter int
	top    int
	height int
}

// gutterWidth returns the width of the row number gutter for n data rows.
func gutterWidth(n int) int {
	return len(strconv.Itoa(max(n, 1))) + 1
}

// slot is the visible part of one column.
type slot struct {
	col  int
	x    int // screen x of the first visible cell
	w    int // visible width
	skip int // cells cut off on the left
}

// edge reports whether the column's right edge, its separator, is visible.
func (s slot) edge(m *grid.TableMetrics) bool {
	return s.skip+s.w == m.ColWidth(s.col)
}

// slots returns the visible columns left to right: frozen columns first,
// then the scrolled ones clipped to the body.
func (f frame) slots() []slot {
	var out []slot
	frozen := f.m.FrozenWidth()
	for c := 0; c < f.m.HeaderColCount && c < len(f.m.ColWidths); c++ {
		start := f.m.ColStart(c)
		if start >= f.vp.Width {
			break
		}
		out = append(out, slot{col: c, x: f.gutter + start, w: min(f.m.ColWidth(c), f.vp.Width-start)})
	}
	for c := f.m.HeaderColCount; c < len(f.m.ColWidths); c++ {
		start := f.m.ColStart(c) - f.vp.ScrollX
		end := start + f.m.ColWidth(c)
		if end <= frozen {
			continue
		}
		if start >= f.vp.Width {
			break
		}
		from := max(start, frozen)
		out = append(out, slot{
			col:  c,
			x:    f.gutter + from,
			w:    min(end, f.vp.Width) - from,
			skip: from - start,
		})
	}
	return out
}

// rowAtLine returns the absolute row drawn on table line ty and the line
// within that row.
func (f frame) rowAtLine(ty int) (row, line int, ok bool) {
	if ty < 0 || ty >= f.height {
		return 0, 0, false
	}
	hh := f.m.HeaderHeight()
	if ty < hh {
		y := 0
		for r := 0; r < f.m.HeaderRowCount; r++ {
			h := f.m.HeaderRowHeight(r)
			if ty < y+h {
				return r, ty - y, true
			}
			y += h
		}
		return 0, 0, false
	}
	off := ty - hh + f.vp.ScrollY
	if off >= f.m.BodyHeight() || f.m.RowCount <= f.m.HeaderRowCount {
		return 0, 0, false
	}
	r := f.m.RowAt(off)
	return f.m.HeaderRowCount + r, off - f.m.DataRowTop(r), true
}

// rowTop returns the table line on which absolute row idx starts. Scrolled
// out rows give a negative or too large line.
func (f frame) rowTop(idx int) int {
	if idx < f.m.HeaderRowCount {
		y := 0
		for r := 0; r < idx; r++ {
			y += f.m.HeaderRowHeight(r)
		}
		return y
	}
	return f.m.HeaderHeight() + f.m.DataRowTop(idx-f.m.HeaderRowCount) - f.vp.ScrollY
}

// visibleRows returns the header rows followed by the visible data rows.
func (f frame) visibleRows() []int {
	var rows []int
	for r := 0; r < f.m.HeaderRowCount; r++ {
		rows = append(rows, r)
	}
	if f.m.RowCount <= f.m.HeaderRowCount {
		return rows
	}
	for r := f.vs.CurrentRow; r <= f.vs.LastVisibleRow && r < f.m.RowCount; r++ {
		rows = append(rows, r)
	}
	return rows
}

// rendered returns the screen bounds of every visible cell, clipped to the
// table area. Header rows are not clipped by the scroll offset.
func (f frame) rendered() []grid.RenderedCell {
	slots := f.slots()
	hh := f.m.HeaderHeight()
	var out []grid.RenderedCell
	for _, row := range f.visibleRows() {
		y0 := f.rowTop(row)
		y1 := y0 + f.m.RowHeight(row)
		if row >= f.m.HeaderRowCount {
			y0 = max(y0, hh)
		}
		y1 = min(y1, f.height)
		if y1 <= y0 {
			continue
		}
		for _, s := range slots {
			out = append(out, grid.RenderedCell{
				Ref:    grid.CellRef{Row: row, Col: s.col, Header: row < f.m.HeaderRowCount},
				Bounds: grid.Rect{X: s.x, Y: f.top + y0, W: s.w, H: y1 - y0},
			})
		}
	}
	return out
}

// hitKind says what a pointer position landed on.
type hitKind int

const (
	hitNone hitKind = iota
	hitCell
	hitColumnEdge // separator of a column: starts a width drag
	hitGutter     // row number gutter: starts a height drag
	hitTitle
)

type hit struct {
	kind hitKind
	ref  grid.CellRef
}

// hitTest resolves a screen position.
func (f frame) hitTest(x, y int) hit {
	if f.top > 0 && y == f.top-1 {
		return hit{kind: hitTitle}
	}
	row, _, ok := f.rowAtLine(y - f.top)
	if !ok || x < 0 {
		return hit{}
	}
	header := row < f.m.HeaderRowCount
	if x < f.gutter {
		return hit{kind: hitGutter, ref: grid.CellRef{Row: row, Col: 0, Header: header}}
	}
	for _, s := range f.slots() {
		if x < s.x || x >= s.x+s.w {
			continue
		}
		ref := grid.CellRef{Row: row, Col: s.col, Header: header}
		if header && x == s.x+s.w-1 && s.edge(f.m) {
			return hit{kind: hitColumnEdge, ref: ref}
		}
		return hit{kind: hitCell, ref: ref}
	}
	return hit{}
}

// thumb returns the line of the vertical scrollbar thumb within the body
// and the body height it moves in.
func (f frame) thumb() (line, track int) {
	track = max(0, f.height-f.m.HeaderHeight())
	maxY := f.vp.MaxScrollY(f.m)
	if track == 0 || maxY == 0 {
		return 0, track
	}
	return f.vp.ScrollY * (track - 1) / maxY, track
}

// hthumb returns the x of the horizontal scrollbar thumb within the body
// width.
func (f frame) hthumb() int {
	track := f.vp.BodyWidth(f.m)
	maxX := f.vp.MaxScrollX(f.m)
	if track == 0 || maxX == 0 {
		return 0
	}
	return f.vp.ScrollX * (track - 1) / maxX
}

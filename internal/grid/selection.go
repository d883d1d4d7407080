package grid

import (
	"context"
	"sort"
	"strings"
)

// DataPath addresses one cell of a table in provider terms.
type DataPath struct {
	Row    int
	Col    int
	Header bool
}

// CellRef is a cell a gesture landed on.
type CellRef struct {
	Row    int
	Col    int
	Header bool
}

// Path converts the reference to a DataPath.
func (r CellRef) Path() DataPath {
	return DataPath{Row: r.Row, Col: r.Col, Header: r.Header}
}

// Modifiers are the keys held during a pointer gesture. Ctrl toggles a cell
// in or out of the selection; Shift adds it.
type Modifiers struct {
	Ctrl  bool
	Shift bool
}

// Additive reports whether the gesture extends the selection.
func (m Modifiers) Additive() bool {
	return m.Ctrl || m.Shift
}

// Point is a viewport pixel coordinate.
type Point struct {
	X, Y int
}

// Rect is a half-open pixel rectangle.
type Rect struct {
	X, Y, W, H int
}

// Intersects reports whether r and o overlap.
func (r Rect) Intersects(o Rect) bool {
	return r.X < o.X+o.W && o.X < r.X+r.W && r.Y < o.Y+o.H && o.Y < r.Y+r.H
}

// Normalize returns r with non-negative width and height.
func (r Rect) Normalize() Rect {
	if r.W < 0 {
		r.X, r.W = r.X+r.W, -r.W
	}
	if r.H < 0 {
		r.Y, r.H = r.Y+r.H, -r.H
	}
	return r
}

// RenderedCell is a cell the host currently draws, with its bounds.
type RenderedCell struct {
	Ref    CellRef
	Bounds Rect
}

type colSet map[int]struct{}

// SelectionState is the selection and fly-over state of one table. Regions
// holds click selections only. Headers and Data mirror the click selection
// by row; while nothing is pinned they hold the fly-over entry instead, and
// then at most one of them is populated.
type SelectionState struct {
	Regions map[DataPath]struct{}
	Headers map[int]colSet
	Data    map[int]colSet

	TitleSelected bool
	FirstRow      int
	FirstCol      int
	LastPointer   *Point
	Annotation    string

	pinned bool
}

func (s *SelectionState) reset() {
	s.Regions = make(map[DataPath]struct{})
	s.Headers = make(map[int]colSet)
	s.Data = make(map[int]colSet)
	s.TitleSelected = false
	s.FirstRow = -1
	s.FirstCol = -1
	s.LastPointer = nil
	s.Annotation = ""
	s.pinned = false
}

// Empty reports whether nothing is selected or hovered.
func (s *SelectionState) Empty() bool {
	return len(s.Regions) == 0 && len(s.Headers) == 0 && len(s.Data) == 0 &&
		!s.TitleSelected && s.FirstRow < 0 && s.FirstCol < 0 && s.LastPointer == nil && s.Annotation == ""
}

// Pinned reports whether a click selection holds the fly-over off.
func (s *SelectionState) Pinned() bool { return s.pinned }

// IsSelected reports whether the cell is part of the selection.
func (s *SelectionState) IsSelected(ref CellRef) bool {
	if _, ok := s.Regions[ref.Path()]; ok {
		return true
	}
	m := s.Data
	if ref.Header {
		m = s.Headers
	}
	_, ok := m[ref.Row][ref.Col]
	return ok
}

// Paths returns the selected regions in row, column order.
func (s *SelectionState) Paths() []DataPath {
	paths := make([]DataPath, 0, len(s.Regions))
	for p := range s.Regions {
		paths = append(paths, p)
	}
	sort.Slice(paths, func(i, j int) bool {
		if paths[i].Row != paths[j].Row {
			return paths[i].Row < paths[j].Row
		}
		return paths[i].Col < paths[j].Col
	})
	return paths
}

// ByRow returns the header or data cells keyed by row, columns sorted.
func (s *SelectionState) ByRow() map[int][]int {
	src := s.Data
	if len(src) == 0 {
		src = s.Headers
	}
	out := make(map[int][]int, len(src))
	for row, cols := range src {
		list := make([]int, 0, len(cols))
		for c := range cols {
			list = append(list, c)
		}
		sort.Ints(list)
		out[row] = list
	}
	return out
}

func addCol(m map[int]colSet, row, col int) {
	if m[row] == nil {
		m[row] = make(colSet)
	}
	m[row][col] = struct{}{}
}

func removeCol(m map[int]colSet, row, col int) {
	delete(m[row], col)
	if len(m[row]) == 0 {
		delete(m, row)
	}
}

// hovering reports whether ref is the current fly-over entry.
func (s *SelectionState) hovering(ref CellRef) bool {
	if s.pinned {
		return false
	}
	m := s.Data
	if ref.Header {
		m = s.Headers
	}
	_, ok := m[ref.Row][ref.Col]
	return ok && len(s.Headers)+len(s.Data) == 1 && len(m[ref.Row]) == 1
}

// dropFlyover removes the fly-over entry before a click selection takes
// over. Pinned maps belong to the click selection and stay.
func (s *SelectionState) dropFlyover() {
	if s.pinned {
		return
	}
	clear(s.Headers)
	clear(s.Data)
}

func (s *SelectionState) clearRegions() {
	clear(s.Regions)
	clear(s.Headers)
	clear(s.Data)
	s.FirstRow, s.FirstCol = -1, -1
}

// set adds or, when toggle is set and the cell is present, removes it.
func (s *SelectionState) set(m map[int]colSet, ref CellRef, toggle bool) {
	path := ref.Path()
	if _, ok := s.Regions[path]; ok && toggle {
		delete(s.Regions, path)
		removeCol(m, ref.Row, ref.Col)
		return
	}
	s.Regions[path] = struct{}{}
	addCol(m, ref.Row, ref.Col)
	if s.FirstRow < 0 {
		s.FirstRow, s.FirstCol = ref.Row, ref.Col
	}
}

// SelectCell applies a click selection through the table's variant.
func (e *Engine) SelectCell(ref CellRef, mods Modifiers) {
	e.flyover.cancel()
	e.selection.dropFlyover()
	e.opts.Variant.SelectCell(&e.selection, ref, mods)
	e.selection.pinned = len(e.selection.Regions) > 0
	e.revision++
}

// SetPointer records the last pointer position.
func (e *Engine) SetPointer(p Point) {
	e.selection.LastPointer = &p
}

// SelectTitle marks the table title as selected.
func (e *Engine) SelectTitle() {
	e.selection.TitleSelected = true
	e.revision++
}

// SetAnnotation selects an annotation by id.
func (e *Engine) SetAnnotation(id string) {
	e.selection.Annotation = id
	e.revision++
}

// PointerEnter handles the pointer entering a cell. Unless a click selection
// is pinned, the fly-over is replaced by this single cell and reported to the
// provider after the fly-over debounce.
func (e *Engine) PointerEnter(ref CellRef) {
	if e.selection.pinned {
		return
	}
	if e.selection.hovering(ref) {
		return
	}
	e.selection.dropFlyover()
	if ref.Header {
		addCol(e.selection.Headers, ref.Row, ref.Col)
	} else {
		addCol(e.selection.Data, ref.Row, ref.Col)
	}
	e.revision++

	e.flyover.trigger(e.loop, e.sendFlyover)
}

func (e *Engine) sendFlyover() {
	id := e.id
	provider := e.provider
	selected := e.selection.ByRow()
	e.call("fly-over", func(ctx context.Context) error {
		return provider.NotifyFlyover(ctx, id, selected)
	})
}

// ClearSelection resets regions, headers, data, title selection, the first
// selected cell, the last pointer and any annotation selection. Clearing an
// empty selection is a no-op.
func (e *Engine) ClearSelection() {
	e.flyover.cancel()
	if e.selection.Empty() {
		return
	}
	e.selection.reset()
	e.revision++
}

// BoxSelect adds every rendered cell intersecting rect, as if each had been
// shift-clicked.
func (e *Engine) BoxSelect(rect Rect, rendered []RenderedCell) int {
	rect = rect.Normalize()
	n := 0
	for _, rc := range rendered {
		if rect.Intersects(rc.Bounds) {
			if n == 0 {
				e.flyover.cancel()
				e.selection.dropFlyover()
			}
			e.opts.Variant.SelectCell(&e.selection, rc.Ref, Modifiers{Shift: true})
			n++
		}
	}
	if n > 0 {
		e.selection.pinned = true
		e.revision++
	}
	return n
}

// Selection returns the live selection state. Callers must not modify it.
func (e *Engine) Selection() *SelectionState {
	return &e.selection
}

// SelectedText joins the labels of the selected loaded cells: tabs between
// columns, newlines between rows.
func (e *Engine) SelectedText() string {
	paths := e.selection.Paths()
	var sb strings.Builder
	prevRow := -1
	for i, p := range paths {
		c, ok := e.CellAt(p.Row, p.Col)
		if !ok {
			continue
		}
		if i > 0 {
			if p.Row != prevRow {
				sb.WriteByte('\n')
			} else {
				sb.WriteByte('\t')
			}
		}
		sb.WriteString(c.Label)
		prevRow = p.Row
	}
	return sb.String()
}

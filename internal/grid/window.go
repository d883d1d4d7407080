package grid

// Viewport is the scroll position and pixel size of the visible region.
// ScrollY is measured within the body (below the frozen header rows) and
// ScrollX within the columns to the right of the frozen header columns.
type Viewport struct {
	ScrollX int
	ScrollY int
	Width   int
	Height  int
}

// BodyHeight returns the viewport height left for data rows.
func (v Viewport) BodyHeight(m *TableMetrics) int {
	return max(0, v.Height-m.HeaderHeight())
}

// BodyWidth returns the viewport width left for scrollable columns.
func (v Viewport) BodyWidth(m *TableMetrics) int {
	return max(0, v.Width-m.FrozenWidth())
}

// MaxScrollY returns the largest valid vertical offset.
func (v Viewport) MaxScrollY(m *TableMetrics) int {
	return max(0, m.BodyHeight()-v.BodyHeight(m))
}

// MaxScrollX returns the largest valid horizontal offset.
func (v Viewport) MaxScrollX(m *TableMetrics) int {
	return max(0, m.TotalWidth()-m.FrozenWidth()-v.BodyWidth(m))
}

// ViewState is the visible row and column range derived from a Viewport.
// Row and column indices are absolute; ranges are inclusive.
type ViewState struct {
	CurrentRow      int
	LastVisibleRow  int
	VisibleRowCount int

	CurrentCol        int
	LastVisibleCol    int
	ApproxVisibleCols int

	HeaderRows int
	HeaderCols int

	ScrollableX bool
	ScrollableY bool
}

// ComputeView derives the visible range for vp over m.
func ComputeView(m *TableMetrics, vp Viewport) ViewState {
	vs := ViewState{
		HeaderRows: m.HeaderRowCount,
		HeaderCols: m.HeaderColCount,
	}

	if m.dataRows() == 0 {
		vs.CurrentRow = m.HeaderRowCount
		vs.LastVisibleRow = m.HeaderRowCount
	} else {
		bodyH := vp.BodyHeight(m)
		first := m.RowAt(vp.ScrollY)
		last := first
		if bodyH > 0 {
			last = m.RowAt(vp.ScrollY + bodyH)
		}
		vs.CurrentRow = m.HeaderRowCount + first
		vs.LastVisibleRow = m.HeaderRowCount + last
		vs.VisibleRowCount = max(1, last-first)
	}

	vs.CurrentCol, vs.ApproxVisibleCols = visibleCols(m, vp)
	vs.LastVisibleCol = vs.CurrentCol + max(0, vs.ApproxVisibleCols-1)

	vs.ScrollableX = m.TotalWidth() > vp.Width
	vs.ScrollableY = m.HeaderHeight()+m.BodyHeight() > vp.Height
	return vs
}

// visibleCols scans the scrollable columns linearly. Column counts are small
// and widths are never in position-table form.
func visibleCols(m *TableMetrics, vp Viewport) (current, count int) {
	current = m.HeaderColCount
	if current >= m.ColCount {
		return current, 0
	}

	x := 0
	c := m.HeaderColCount
	for ; c < m.ColCount; c++ {
		w := m.ColWidth(c)
		if x+w > vp.ScrollX {
			break
		}
		x += w
	}
	if c >= m.ColCount {
		c = m.ColCount - 1
	}
	current = c

	right := vp.ScrollX + vp.BodyWidth(m)
	for ; c < m.ColCount; c++ {
		count++
		x += m.ColWidth(c)
		if x >= right {
			break
		}
	}
	return current, count
}

// IsRowVisible reports whether absolute row idx intersects the viewport.
// Header rows are always visible.
func (vs ViewState) IsRowVisible(idx int) bool {
	if idx < vs.HeaderRows {
		return true
	}
	return idx >= vs.CurrentRow && idx <= vs.LastVisibleRow
}

// IsRowSpanVisible reports whether any row of [idx, idx+span) is visible.
func (vs ViewState) IsRowSpanVisible(idx, span int) bool {
	if span < 1 {
		span = 1
	}
	if idx < vs.HeaderRows {
		return true
	}
	return idx <= vs.LastVisibleRow && idx+span-1 >= vs.CurrentRow
}

// IsColVisible reports whether column idx intersects the viewport. Header
// columns are always visible.
func (vs ViewState) IsColVisible(idx int) bool {
	if idx < vs.HeaderCols {
		return true
	}
	return idx >= vs.CurrentCol && idx <= vs.LastVisibleCol
}

// IsColSpanVisible reports whether any column of [idx, idx+span) is visible.
func (vs ViewState) IsColSpanVisible(idx, span int) bool {
	if span < 1 {
		span = 1
	}
	if idx < vs.HeaderCols {
		return true
	}
	return idx <= vs.LastVisibleCol && idx+span-1 >= vs.CurrentCol
}

// loadBlock returns the block the load policy asks for: at least minBlock
// rows, centred on the current row so scrolling either way stays inside it.
func loadBlock(vs ViewState, m *TableMetrics, minBlock int) (start, count int) {
	count = max(minBlock, vs.VisibleRowCount)
	margin := (count - vs.VisibleRowCount) / 2
	start = max(0, vs.CurrentRow-margin)
	if start < m.HeaderRowCount {
		start = m.HeaderRowCount
	}
	return start, count
}

// needsRows reports whether the visible range reaches outside loaded.
func needsRows(vs ViewState, m *TableMetrics, loaded LoadedWindow) bool {
	if vs.LastVisibleRow >= loaded.End && loaded.End < m.RowCount {
		return true
	}
	return vs.CurrentRow < loaded.Start
}

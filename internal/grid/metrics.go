package grid

// TableMetrics describes the geometry of a table as last reported by its
// provider. All dimensions are in px-equivalent units; the terminal host maps
// one unit to one cell.
//
// Rows are addressed absolutely: rows [0, HeaderRowCount) are frozen header
// rows and rows [HeaderRowCount, RowCount) are data rows. Position tables are
// only consulted when Wrapped is set.
type TableMetrics struct {
	ColWidths []int

	HeaderRowHeights []int
	DataRowHeight    int

	HeaderRowPositions []int
	DataRowPositions   []int

	HeaderRowCount int
	HeaderColCount int
	RowCount       int
	ColCount       int
	DataRowCount   int

	ScrollHeight int
	Wrapped      bool
	LimitMessage string

	// RuntimeDataRowCount is nil when the provider does not report one. A
	// negative value -n-1 means "at least n rows".
	RuntimeDataRowCount *int
}

// LoadedWindow is the half-open range of rows whose cell content is resident.
type LoadedWindow struct {
	Start int
	End   int
}

// Len returns the number of rows in the window.
func (w LoadedWindow) Len() int {
	if w.End < w.Start {
		return 0
	}
	return w.End - w.Start
}

// Contains reports whether row lies inside the window.
func (w LoadedWindow) Contains(row int) bool {
	return row >= w.Start && row < w.End
}

// Cell is one cell record as delivered by a provider.
type Cell struct {
	Row     int
	Col     int
	Data    string
	Label   string
	RowSpan int
	ColSpan int
	Style   string
	Align   string
	Link    string

	// FormatRef points into LoadResult.Prototypes, 1-based. Zero means the
	// cell carries all of its fields inline.
	FormatRef int
}

// LoadResult is a provider's answer to a load request: the complete metric
// field set plus the header and body cell batches.
type LoadResult struct {
	ColWidths           []int
	RowCount            int
	ColCount            int
	DataRowCount        int
	HeaderRowCount      int
	HeaderColCount      int
	HeaderRowHeights    []int
	DataRowHeight       int
	HeaderRowPositions  []int
	DataRowPositions    []int
	ScrollHeight        int
	Wrapped             bool
	LimitMessage        string
	RuntimeDataRowCount *int

	// Prototypes holds shared cell templates referenced by Cell.FormatRef.
	Prototypes []Cell

	HeaderCells [][]Cell
	BodyCells   [][]Cell
}

// dataRows returns the number of addressable data rows.
func (m *TableMetrics) dataRows() int {
	n := m.RowCount - m.HeaderRowCount
	if n < 0 {
		return 0
	}
	return n
}

// HeaderHeight returns the height of the frozen header band.
func (m *TableMetrics) HeaderHeight() int {
	if m.Wrapped && len(m.HeaderRowPositions) > m.HeaderRowCount && m.HeaderRowCount > 0 {
		return m.HeaderRowPositions[m.HeaderRowCount] - m.HeaderRowPositions[0]
	}
	total := 0
	for i := 0; i < m.HeaderRowCount && i < len(m.HeaderRowHeights); i++ {
		total += m.HeaderRowHeights[i]
	}
	return total
}

// HeaderRowHeight returns the height of header row i.
func (m *TableMetrics) HeaderRowHeight(i int) int {
	if m.Wrapped && i+1 < len(m.HeaderRowPositions) {
		return m.HeaderRowPositions[i+1] - m.HeaderRowPositions[i]
	}
	if i >= 0 && i < len(m.HeaderRowHeights) {
		return m.HeaderRowHeights[i]
	}
	return m.DataRowHeight
}

// DataRowTop returns the body-relative offset of data row r (0-based among
// data rows).
func (m *TableMetrics) DataRowTop(r int) int {
	if m.Wrapped && len(m.DataRowPositions) > 0 {
		if r < 0 {
			r = 0
		}
		if r < len(m.DataRowPositions) {
			return m.DataRowPositions[r] - m.DataRowPositions[0]
		}
		last := len(m.DataRowPositions) - 1
		return m.DataRowPositions[last] - m.DataRowPositions[0] + (r-last)*m.DataRowHeight
	}
	return r * m.DataRowHeight
}

// DataRowHeightAt returns the height of data row r.
func (m *TableMetrics) DataRowHeightAt(r int) int {
	if m.Wrapped && r >= 0 && r+1 < len(m.DataRowPositions) {
		return m.DataRowPositions[r+1] - m.DataRowPositions[r]
	}
	return m.DataRowHeight
}

// RowHeight returns the height of absolute row idx.
func (m *TableMetrics) RowHeight(idx int) int {
	if idx < m.HeaderRowCount {
		return m.HeaderRowHeight(idx)
	}
	return m.DataRowHeightAt(idx - m.HeaderRowCount)
}

// BodyHeight returns the total scrollable height of the data rows. The
// provider's ScrollHeight wins when reported.
func (m *TableMetrics) BodyHeight() int {
	if m.ScrollHeight > 0 {
		return m.ScrollHeight
	}
	return m.DataRowTop(m.dataRows())
}

// ColWidth returns the width of column c, or zero when out of range.
func (m *TableMetrics) ColWidth(c int) int {
	if c < 0 || c >= len(m.ColWidths) {
		return 0
	}
	return m.ColWidths[c]
}

// ColStart returns the x offset of column c measured from the first column.
func (m *TableMetrics) ColStart(c int) int {
	x := 0
	for i := 0; i < c && i < len(m.ColWidths); i++ {
		x += m.ColWidths[i]
	}
	return x
}

// FrozenWidth returns the combined width of the header columns.
func (m *TableMetrics) FrozenWidth() int {
	return m.ColStart(m.HeaderColCount)
}

// TotalWidth returns the combined width of every column.
func (m *TableMetrics) TotalWidth() int {
	return m.ColStart(len(m.ColWidths))
}

// SpanWidth returns the summed width of columns [col, col+span).
func (m *TableMetrics) SpanWidth(col, span int) int {
	total := 0
	for c := col; c < col+span; c++ {
		total += m.ColWidth(c)
	}
	return total
}

// SpanHeight returns the summed height of rows [row, row+span).
func (m *TableMetrics) SpanHeight(row, span int) int {
	total := 0
	for r := row; r < row+span; r++ {
		total += m.RowHeight(r)
	}
	return total
}

// setRowHeight changes the height of absolute row idx in place, shifting
// position tables and the scroll height so they stay consistent. In fixed
// mode a data row change applies to every data row.
func (m *TableMetrics) setRowHeight(idx, h int) {
	if idx < m.HeaderRowCount {
		delta := h - m.HeaderRowHeight(idx)
		if idx < len(m.HeaderRowHeights) {
			m.HeaderRowHeights[idx] = h
		}
		if m.Wrapped {
			shiftFrom(m.HeaderRowPositions, idx+1, delta)
		}
		return
	}
	r := idx - m.HeaderRowCount
	if !m.Wrapped {
		if m.ScrollHeight > 0 {
			m.ScrollHeight += (h - m.DataRowHeight) * m.dataRows()
		}
		m.DataRowHeight = h
		return
	}
	delta := h - m.DataRowHeightAt(r)
	shiftFrom(m.DataRowPositions, r+1, delta)
	if m.ScrollHeight > 0 {
		m.ScrollHeight += delta
	}
}

func shiftFrom(positions []int, from, delta int) {
	for i := from; i < len(positions); i++ {
		positions[i] += delta
	}
}

// apply replaces every metric field from res. It is the only place a load
// mutates metrics, so callers never observe a partially merged state.
func (m *TableMetrics) apply(res *LoadResult) {
	*m = TableMetrics{
		ColWidths:           cloneInts(res.ColWidths),
		HeaderRowHeights:    cloneInts(res.HeaderRowHeights),
		DataRowHeight:       res.DataRowHeight,
		HeaderRowPositions:  cloneInts(res.HeaderRowPositions),
		DataRowPositions:    cloneInts(res.DataRowPositions),
		HeaderRowCount:      res.HeaderRowCount,
		HeaderColCount:      res.HeaderColCount,
		RowCount:            res.RowCount,
		ColCount:            res.ColCount,
		DataRowCount:        res.DataRowCount,
		ScrollHeight:        res.ScrollHeight,
		Wrapped:             res.Wrapped,
		LimitMessage:        res.LimitMessage,
		RuntimeDataRowCount: res.RuntimeDataRowCount,
	}
	if !m.Wrapped {
		m.HeaderRowPositions = nil
		m.DataRowPositions = nil
	}
}

func cloneInts(s []int) []int {
	if s == nil {
		return nil
	}
	out := make([]int, len(s))
	copy(out, s)
	return out
}

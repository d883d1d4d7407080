package grid

// Variant is the part of a table that differs between plain grids and
// crosstabs: how a click turns into a selection and how tall the table is.
type Variant interface {
	Name() string
	SelectCell(s *SelectionState, ref CellRef, mods Modifiers)
	TableHeight(m *TableMetrics, vp Viewport) int
}

// ColumnRow marks a header selection that covers a whole column.
const ColumnRow = -1

// GridVariant is a plain result table. Header clicks select whole columns.
type GridVariant struct{}

func (GridVariant) Name() string { return "grid" }

func (GridVariant) SelectCell(s *SelectionState, ref CellRef, mods Modifiers) {
	if !mods.Additive() {
		s.clearRegions()
	}
	if ref.Header {
		s.set(s.Headers, CellRef{Row: ColumnRow, Col: ref.Col, Header: true}, mods.Ctrl)
		return
	}
	s.set(s.Data, ref, mods.Ctrl)
}

// TableHeight fills the viewport but never grows past the content.
func (GridVariant) TableHeight(m *TableMetrics, vp Viewport) int {
	total := m.HeaderHeight() + m.BodyHeight()
	if vp.Height <= 0 {
		return total
	}
	return min(total, vp.Height)
}

// CrosstabVariant is a pivot table whose header cells are selectable on
// their own.
type CrosstabVariant struct{}

func (CrosstabVariant) Name() string { return "crosstab" }

func (CrosstabVariant) SelectCell(s *SelectionState, ref CellRef, mods Modifiers) {
	if !mods.Additive() {
		s.clearRegions()
	}
	if ref.Header {
		s.set(s.Headers, ref, mods.Ctrl)
		return
	}
	s.set(s.Data, ref, mods.Ctrl)
}

// TableHeight reserves one extra line for the horizontal scroll indicator
// when the columns overflow.
func (CrosstabVariant) TableHeight(m *TableMetrics, vp Viewport) int {
	total := m.HeaderHeight() + m.BodyHeight()
	if vp.Width > 0 && m.TotalWidth() > vp.Width {
		total++
	}
	if vp.Height <= 0 {
		return total
	}
	return min(total, vp.Height)
}

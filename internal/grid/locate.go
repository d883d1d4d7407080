package grid

import (
	"errors"
	"fmt"
)

// ErrMalformedPositions is returned when a position table is not
// monotonically non-decreasing.
var ErrMalformedPositions = errors.New("grid: position table is not monotonically non-decreasing")

// RowAt returns the data row (0-based among data rows) under the given
// body-relative scroll offset.
//
// In fixed mode this is floor(offset / DataRowHeight). In wrapped mode it is
// the unique r with pos(r) <= offset < pos(r+1); an offset on a boundary
// belongs to the row that starts there. Offsets before the first row map to
// row 0 and offsets past the last known start map to the last row.
func (m *TableMetrics) RowAt(offset int) int {
	n := m.dataRows()
	if n == 0 {
		return 0
	}
	if offset < 0 {
		offset = 0
	}

	if !m.Wrapped || len(m.DataRowPositions) == 0 {
		if m.DataRowHeight <= 0 {
			return 0
		}
		r := offset / m.DataRowHeight
		if r >= n {
			r = n - 1
		}
		return r
	}

	return searchPositions(m.DataRowPositions, min(n, len(m.DataRowPositions)), offset)
}

// searchPositions binary-searches the first n row starts in pos.
//
// Pre: n >= 1, pos[:n] non-decreasing.
// Post: returns r in [0, n) with pos[r] <= offset and, when r < n-1,
// offset < pos[r+1]; the first and last rows are handled before the loop
// because pos(-1) and pos(n) are not part of the table.
func searchPositions(pos []int, n, offset int) int {
	if n == 1 || offset < pos[1] {
		return 0
	}
	last := n - 1
	if offset >= pos[last] {
		return last
	}

	// pos[lo] <= offset < pos[hi]
	lo, hi := 1, last
	for hi-lo > 1 {
		mid := lo + (hi-lo)/2
		if pos[mid] <= offset {
			lo = mid
		} else {
			hi = mid
		}
	}
	return lo
}

// ValidatePositions checks that both position tables are non-decreasing.
// Only wrapped tables are checked.
func (m *TableMetrics) ValidatePositions() error {
	if !m.Wrapped {
		return nil
	}
	if err := checkMonotonic("header", m.HeaderRowPositions); err != nil {
		return err
	}
	return checkMonotonic("data", m.DataRowPositions)
}

func checkMonotonic(name string, pos []int) error {
	for i := 1; i < len(pos); i++ {
		if pos[i] < pos[i-1] {
			return fmt.Errorf("%w: %s row %d at %d precedes %d", ErrMalformedPositions, name, i, pos[i], pos[i-1])
		}
	}
	return nil
}

package source

import (
	"context"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/imgajeed76/pgrid/internal/db"
	"github.com/imgajeed76/pgrid/internal/grid"
)

// sampleRows is how many rows size the columns.
const sampleRows = 1000

// MemorySource serves a table held in memory.
type MemorySource struct {
	*layout
	rows [][]db.Value
}

// NewMemory creates a source over rows. Columns are sized from the first
// rows.
func NewMemory(columns []db.Column, rows [][]db.Value, opts Options) *MemorySource {
	s := &MemorySource{layout: newLayout(opts), rows: rows}
	s.setColumns(columns, rows[:min(len(rows), sampleRows)])
	return s
}

// NewMemoryStrings is NewMemory for plain string tables.
func NewMemoryStrings(header []string, rows [][]string, opts Options) *MemorySource {
	cols := make([]db.Column, len(header))
	for i, h := range header {
		cols[i] = db.Column{Name: h}
	}
	vals := make([][]db.Value, len(rows))
	for r, row := range rows {
		vals[r] = make([]db.Value, len(row))
		for c, v := range row {
			vals[r][c] = db.Value{Text: v}
		}
	}
	return NewMemory(cols, vals, opts)
}

// visible returns the number of rows the table exposes.
func (s *MemorySource) visible() int {
	if s.opts.RowLimit > 0 && len(s.rows) > s.opts.RowLimit {
		return s.opts.RowLimit
	}
	return len(s.rows)
}

// LoadRows returns the header and rows [startRow, startRow+rowCount).
func (s *MemorySource) LoadRows(ctx context.Context, _ string, startRow, rowCount int) (*grid.LoadResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	n := s.visible()
	res := &grid.LoadResult{}
	var all [][]db.Value
	if s.opts.Wrap {
		all = s.rows[:n]
	}
	s.metrics(res, n, all)
	if n < len(s.rows) {
		limited(res, n)
	}

	from := min(max(startRow-1, 0), n)
	to := min(max(startRow-1+rowCount, from), n)
	s.cells(res, from+1, s.rows[from:to])
	return res, nil
}

// limited marks res as cut off after n rows.
func limited(res *grid.LoadResult, n int) {
	runtime := -n - 1
	res.RuntimeDataRowCount = &runtime
	res.LimitMessage = fmt.Sprintf("showing the first %s rows", humanize.Comma(int64(n)))
}

func (s *MemorySource) lookup(row, col int) (db.Value, bool) {
	r := row - 1
	if r < 0 || r >= len(s.rows) || col < 0 || col >= len(s.rows[r]) {
		return db.Value{}, false
	}
	return s.rows[r][col], true
}

// ResizeColumns stores the new widths.
func (s *MemorySource) ResizeColumns(ctx context.Context, _ string, _, startCol, endCol int, widths []int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.resizeColumns(startCol, endCol, widths)
	return nil
}

// ResizeRow stores the new height.
func (s *MemorySource) ResizeRow(ctx context.Context, _ string, _, _, row, height int, isHeader bool, _ int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.resizeRow(row, height, isHeader)
	return nil
}

// NotifyFlyover records the hovered cells.
func (s *MemorySource) NotifyFlyover(_ context.Context, _ string, selected map[int][]int) error {
	s.recordFlyover(selected)
	return nil
}

// CellClick reports a clicked cell.
func (s *MemorySource) CellClick(ctx context.Context, tableID string, path grid.DataPath) error {
	return s.action(ctx, Event{Kind: EventClick, TableID: tableID, Paths: []grid.DataPath{path}}, s.lookup)
}

// ShowDetails reports the selected cells.
func (s *MemorySource) ShowDetails(ctx context.Context, tableID string, paths []grid.DataPath) error {
	return s.action(ctx, Event{Kind: EventDetails, TableID: tableID, Paths: paths}, s.lookup)
}

// ToggleMaxMode reports the max/restore toggle.
func (s *MemorySource) ToggleMaxMode(ctx context.Context, tableID string, maximized bool) error {
	return s.action(ctx, Event{Kind: EventMaxMode, TableID: tableID, Maximized: maximized}, s.lookup)
}

var (
	_ grid.Provider = (*MemorySource)(nil)
	_ grid.Actions  = (*MemorySource)(nil)
)

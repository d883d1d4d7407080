package source

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"github.com/imgajeed76/pgrid/internal/db"
	"github.com/imgajeed76/pgrid/internal/grid"
	"github.com/imgajeed76/pgrid/internal/logging"
	"github.com/imgajeed76/pgrid/internal/util"
)

// SQLSource pages through the result of a read-only query. Rows are
// fetched with LIMIT/OFFSET per block; only the last block is kept.
type SQLSource struct {
	*layout
	q     db.Queryer
	query string

	countMu sync.Mutex
	count   int
	counted bool
	capped  bool

	blockStart int
	block      [][]db.Value
}

// NewSQL creates a source for query on q. Rows always have a fixed
// height: wrapping would need every row to compute positions.
func NewSQL(q db.Queryer, query string, opts Options) (*SQLSource, error) {
	if !db.IsBrowsable(query) {
		return nil, util.WriteQueryError(query)
	}
	opts.Wrap = false
	return &SQLSource{layout: newLayout(opts), q: q, query: db.Normalize(query)}, nil
}

// Query returns the browsed query.
func (s *SQLSource) Query() string { return s.query }

// Dialect returns the backend name.
func (s *SQLSource) Dialect() string { return s.q.Dialect() }

// Refresh drops the cached row count; the next load counts again.
func (s *SQLSource) Refresh() {
	s.countMu.Lock()
	s.counted = false
	s.countMu.Unlock()
}

// rowCount counts the result once. With a row limit the count stops at
// limit+1 so huge results are not scanned to the end.
func (s *SQLSource) rowCount(ctx context.Context) (n int, capped bool, err error) {
	s.countMu.Lock()
	defer s.countMu.Unlock()
	if s.counted {
		return s.count, s.capped, nil
	}

	q := s.query
	limit := s.opts.RowLimit
	if limit > 0 {
		q = "SELECT * FROM (" + q + ") AS pgrid_l LIMIT " + strconv.Itoa(limit+1)
	}
	n, err = s.q.Count(ctx, q)
	if err != nil {
		return 0, false, fmt.Errorf("count rows: %w", err)
	}
	capped = limit > 0 && n > limit
	if capped {
		n = limit
	}
	s.count, s.capped, s.counted = n, capped, true
	logging.Logger().Debug("query counted", "dialect", s.q.Dialect(), "rows", n, "capped", capped)
	return n, capped, nil
}

// LoadRows returns the header and rows [startRow, startRow+rowCount).
func (s *SQLSource) LoadRows(ctx context.Context, tableID string, startRow, rowCount int) (*grid.LoadResult, error) {
	n, capped, err := s.rowCount(ctx)
	if err != nil {
		return nil, err
	}

	from := min(max(startRow-1, 0), n)
	limit := min(max(rowCount, 0), n-from)
	page, err := s.q.Window(ctx, s.query, from, max(limit, 0))
	if err != nil {
		return nil, err
	}
	if len(page.Columns) == 0 {
		return nil, util.ErrEmptyResultSet
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.columns == nil {
		s.setColumns(page.Columns, page.Rows)
	}

	res := &grid.LoadResult{}
	s.metrics(res, n, nil)
	if capped {
		limited(res, n)
	}
	s.cells(res, from+1, page.Rows)
	s.blockStart, s.block = from+1, page.Rows

	logging.Logger().Debug("block fetched", "table", util.ShortID(tableID), "from", from, "rows", len(page.Rows))
	return res, nil
}

// lookup is called with mu held.
func (s *SQLSource) lookup(row, col int) (db.Value, bool) {
	r := row - s.blockStart
	if r < 0 || r >= len(s.block) || col < 0 || col >= len(s.block[r]) {
		return db.Value{}, false
	}
	return s.block[r][col], true
}

// ResizeColumns keeps the new widths for this session.
func (s *SQLSource) ResizeColumns(ctx context.Context, _ string, _, startCol, endCol int, widths []int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.resizeColumns(startCol, endCol, widths)
	return nil
}

// ResizeRow keeps the new height for this session.
func (s *SQLSource) ResizeRow(ctx context.Context, _ string, _, _, row, height int, isHeader bool, _ int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.resizeRow(row, height, isHeader)
	return nil
}

// NotifyFlyover logs and records the hovered cells.
func (s *SQLSource) NotifyFlyover(_ context.Context, tableID string, selected map[int][]int) error {
	logging.Logger().Debug("fly-over", "table", util.ShortID(tableID), "cells", selected)
	s.recordFlyover(selected)
	return nil
}

// CellClick reports a clicked cell.
func (s *SQLSource) CellClick(ctx context.Context, tableID string, path grid.DataPath) error {
	return s.action(ctx, Event{Kind: EventClick, TableID: tableID, Paths: []grid.DataPath{path}}, s.lookup)
}

// ShowDetails reports the selected cells.
func (s *SQLSource) ShowDetails(ctx context.Context, tableID string, paths []grid.DataPath) error {
	return s.action(ctx, Event{Kind: EventDetails, TableID: tableID, Paths: paths}, s.lookup)
}

// ToggleMaxMode reports the max/restore toggle.
func (s *SQLSource) ToggleMaxMode(ctx context.Context, tableID string, maximized bool) error {
	return s.action(ctx, Event{Kind: EventMaxMode, TableID: tableID, Maximized: maximized}, s.lookup)
}

var (
	_ grid.Provider = (*SQLSource)(nil)
	_ grid.Actions  = (*SQLSource)(nil)
)

package grid

import "context"

// Provider is the table data provider an Engine loads from and reports
// gestures to. Calls are made off the event loop.
type Provider interface {
	// LoadRows returns metrics plus header cells and the body cells for
	// rows [startRow, startRow+rowCount).
	LoadRows(ctx context.Context, tableID string, startRow, rowCount int) (*LoadResult, error)

	// ResizeColumns commits widths for columns [startCol, endCol).
	ResizeColumns(ctx context.Context, tableID string, row, startCol, endCol int, widths []int) error

	// ResizeRow commits the height of one row.
	ResizeRow(ctx context.Context, tableID string, blockStart, blockRowCount, row, height int, isHeader bool, rowSpan int) error

	// NotifyFlyover reports the fly-over cells, keyed by row.
	NotifyFlyover(ctx context.Context, tableID string, selected map[int][]int) error
}

// Actions are optional one-shot gestures. A Provider that also implements
// Actions receives them.
type Actions interface {
	CellClick(ctx context.Context, tableID string, path DataPath) error
	ShowDetails(ctx context.Context, tableID string, paths []DataPath) error
	ToggleMaxMode(ctx context.Context, tableID string, maximized bool) error
}

package grid

import "context"

// ResizeState is the resize gesture state.
type ResizeState int

const (
	ResizeIdle ResizeState = iota
	ResizeDragging
	ResizeCommitting
)

func (s ResizeState) String() string {
	switch s {
	case ResizeDragging:
		return "dragging"
	case ResizeCommitting:
		return "committing"
	default:
		return "idle"
	}
}

// ResizeKind says which axis a session resizes.
type ResizeKind int

const (
	ResizeColumn ResizeKind = iota
	ResizeRow
)

// ResizeSession is the transient state of one drag.
type ResizeSession struct {
	Kind ResizeKind
	// Row and Col are the anchor of the dragged cell.
	Row  int
	Col  int
	Span int

	StartPointer int
	// Initial and Current are span-aware: the sum over the whole span.
	Initial int
	Current int
	Touch   bool

	parts []int // per column/row dimension at drag start
}

// Line returns the position of the resize line the touch path draws at the
// dragged boundary.
func (s *ResizeSession) Line() int {
	return s.StartPointer + (s.Current - s.Initial)
}

// Target returns the row or first column a commit applies to.
func (s *ResizeSession) Target() int {
	if s.Kind == ResizeRow {
		return s.Row + s.Span - 1
	}
	return s.Col
}

// ResizeController is the Idle -> Dragging -> Committing -> Idle state
// machine for row and column drags.
type ResizeController struct {
	state     ResizeState
	session   *ResizeSession
	minWidth  int
	minHeight int
}

// State returns the current state.
func (rc *ResizeController) State() ResizeState { return rc.state }

// Session returns the active session, or nil when idle.
func (rc *ResizeController) Session() *ResizeSession { return rc.session }

func (rc *ResizeController) beginColumn(m *TableMetrics, row, col, span, pointer int, touch bool) error {
	if rc.state != ResizeIdle {
		return ErrResizeActive
	}
	if col < 0 || col >= len(m.ColWidths) {
		return ErrOutOfRange
	}
	span = clampSpan(span, col, len(m.ColWidths))
	parts := make([]int, span)
	for i := range parts {
		parts[i] = m.ColWidth(col + i)
	}
	rc.start(&ResizeSession{Kind: ResizeColumn, Row: row, Col: col, Span: span, StartPointer: pointer, Touch: touch, parts: parts})
	return nil
}

func (rc *ResizeController) beginRow(m *TableMetrics, row, col, span, pointer int, touch bool) error {
	if rc.state != ResizeIdle {
		return ErrResizeActive
	}
	if row < 0 || row >= m.RowCount {
		return ErrOutOfRange
	}
	span = clampSpan(span, row, m.RowCount)
	parts := make([]int, span)
	for i := range parts {
		parts[i] = m.RowHeight(row + i)
	}
	rc.start(&ResizeSession{Kind: ResizeRow, Row: row, Col: col, Span: span, StartPointer: pointer, Touch: touch, parts: parts})
	return nil
}

func (rc *ResizeController) start(s *ResizeSession) {
	for _, p := range s.parts {
		s.Initial += p
	}
	s.Current = s.Initial
	rc.session = s
	rc.state = ResizeDragging
}

func clampSpan(span, at, limit int) int {
	if span < 1 {
		span = 1
	}
	if at+span > limit {
		span = max(1, limit-at)
	}
	return span
}

// move recomputes the candidate dimension and writes it into m.
func (rc *ResizeController) move(m *TableMetrics, pointer int) error {
	if rc.state != ResizeDragging {
		return ErrResizeInactive
	}
	s := rc.session
	delta := pointer - s.StartPointer
	switch s.Kind {
	case ResizeColumn:
		total := max(s.Initial+delta, rc.minWidth)
		for i, w := range distribute(total, s.Span) {
			m.ColWidths[s.Col+i] = w
		}
		s.Current = total
	case ResizeRow:
		total := max(s.Initial+delta, rc.minHeight)
		others := s.Initial - s.parts[len(s.parts)-1]
		h := max(total-others, rc.minHeight)
		m.setRowHeight(s.Target(), h)
		s.Current = m.SpanHeight(s.Row, s.Span)
	}
	return nil
}

// distribute splits total evenly over span units; the last unit absorbs the
// remainder so the parts always sum to total.
func distribute(total, span int) []int {
	parts := make([]int, span)
	each := total / span
	for i := range parts {
		parts[i] = each
	}
	parts[span-1] += total - each*span
	return parts
}

// resizeCommit is what a finished drag reports to the provider.
type resizeCommit struct {
	kind     ResizeKind
	row      int
	startCol int
	endCol   int
	widths   []int
	height   int
	isHeader bool
	rowSpan  int
}

// end moves to Committing and returns the commit to send, if any. Width
// drags always commit; height drags only commit when the height changed.
func (rc *ResizeController) end(m *TableMetrics) (*resizeCommit, error) {
	if rc.state != ResizeDragging {
		return nil, ErrResizeInactive
	}
	rc.state = ResizeCommitting
	s := rc.session

	switch s.Kind {
	case ResizeColumn:
		widths := make([]int, s.Span)
		copy(widths, m.ColWidths[s.Col:s.Col+s.Span])
		return &resizeCommit{kind: ResizeColumn, row: s.Row, startCol: s.Col, endCol: s.Col + s.Span, widths: widths}, nil
	default:
		if s.Current == s.Initial {
			return nil, nil
		}
		target := s.Target()
		return &resizeCommit{
			kind:     ResizeRow,
			row:      target,
			height:   m.RowHeight(target),
			isHeader: target < m.HeaderRowCount,
			rowSpan:  s.Span,
		}, nil
	}
}

// finish clears the session and returns to Idle.
func (rc *ResizeController) finish() {
	rc.session = nil
	rc.state = ResizeIdle
}

// BeginColumnResize starts dragging the right edge of the cell at (row, col).
// The cell's column span decides how many columns share the new width.
func (e *Engine) BeginColumnResize(row, col, pointer int, touch bool) error {
	span := 1
	if c, ok := e.CellAt(row, col); ok {
		span = c.ColSpan
	}
	return e.resize.beginColumn(&e.metrics, row, col, span, pointer, touch)
}

// BeginRowResize starts dragging the bottom edge of the cell at (row, col).
func (e *Engine) BeginRowResize(row, col, pointer int, touch bool) error {
	span := 1
	if c, ok := e.CellAt(row, col); ok {
		span = c.RowSpan
	}
	return e.resize.beginRow(&e.metrics, row, col, span, pointer, touch)
}

// ResizeMove feeds a pointer position to the active drag.
func (e *Engine) ResizeMove(pointer int) error {
	if err := e.resize.move(&e.metrics, pointer); err != nil {
		return err
	}
	e.revision++
	e.view = ComputeView(&e.metrics, e.vp)
	return nil
}

// ResizeEnd finishes the drag, commits it immediately and recomputes
// scrollability.
func (e *Engine) ResizeEnd() error {
	commit, err := e.resize.end(&e.metrics)
	if err != nil {
		return err
	}
	if commit != nil {
		e.sendCommit(*commit)
	}
	e.resize.finish()
	e.clampScroll()
	e.evaluate()
	return nil
}

func (e *Engine) sendCommit(c resizeCommit) {
	id := e.id
	provider := e.provider
	if c.kind == ResizeColumn {
		e.log.Debug("commit column resize", "row", c.row, "cols", c.startCol, "end", c.endCol, "widths", c.widths)
		e.call("resize columns", func(ctx context.Context) error {
			return provider.ResizeColumns(ctx, id, c.row, c.startCol, c.endCol, c.widths)
		})
		return
	}
	blockStart, blockRows := e.loaded.Start, e.loaded.Len()
	e.log.Debug("commit row resize", "row", c.row, "height", c.height, "header", c.isHeader, "span", c.rowSpan)
	e.call("resize row", func(ctx context.Context) error {
		return provider.ResizeRow(ctx, id, blockStart, blockRows, c.row, c.height, c.isHeader, c.rowSpan)
	})
}

// Resizing reports whether a drag is active. Renderers use it to hold off
// layout-affecting work until the drag ends.
func (e *Engine) Resizing() bool {
	return e.resize.State() != ResizeIdle
}

// ResizeSession returns the active drag, or nil.
func (e *Engine) ResizeSession() *ResizeSession {
	return e.resize.Session()
}

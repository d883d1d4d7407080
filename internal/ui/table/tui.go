package table

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/imgajeed76/pgrid/internal/grid"
	"github.com/imgajeed76/pgrid/internal/logging"
	"github.com/imgajeed76/pgrid/internal/source"
	"github.com/mattn/go-runewidth"
)

// ═══════════════════════════════════════════════════════════════════════════
// Constants
// ═══════════════════════════════════════════════════════════════════════════

const (
	wheelStep       = 3
	resizeStep      = 2
	tooltipDuration = time.Second
	statusDuration  = 2 * time.Second
	maxDetailLines  = 6
)

// Table mode
type tableMode int

const (
	tableModeNormal tableMode = iota
	tableModeGoto
)

// exitMode selects what happens after the TUI quits.
type exitMode int

const (
	exitNormal exitMode = iota
	exitJSON
	exitRaw
	exitPlain
)

// Pointer drag in progress
type dragKind int

const (
	dragNone dragKind = iota
	dragResize
	dragBox
)

// ═══════════════════════════════════════════════════════════════════════════
// Model
// ═══════════════════════════════════════════════════════════════════════════

type tableModel struct {
	title  string
	src    Source
	engine *grid.Engine
	loop   *teaLoop
	events chan source.Event

	width  int // terminal width
	height int // terminal height
	ready  bool

	mode      tableMode
	gotoInput textinput.Model
	exitMode  exitMode

	cursor   grid.CellRef // keyboard cursor, an absolute data cell
	drag     dragKind
	boxStart grid.Point

	details *source.Event // last click or details event, shown under the table

	tooltipUntil time.Time // scroll tooltips are shown until then
	lastLoad     time.Duration

	// Status message (flash notification, e.g. after yank)
	statusMsg   string
	statusErr   bool
	statusUntil time.Time
}

// ═══════════════════════════════════════════════════════════════════════════
// Key Bindings
// ═══════════════════════════════════════════════════════════════════════════

type tableKeyMap struct {
	Up          key.Binding
	Down        key.Binding
	Left        key.Binding
	Right       key.Binding
	ShiftUp     key.Binding
	ShiftDown   key.Binding
	ShiftLeft   key.Binding
	ShiftRight  key.Binding
	PageUp      key.Binding
	PageDown    key.Binding
	Home        key.Binding
	End         key.Binding
	Wider       key.Binding
	Narrower    key.Binding
	Taller      key.Binding
	Shorter     key.Binding
	Goto        key.Binding
	Reload      key.Binding
	Clear       key.Binding
	MaxMode     key.Binding
	Details     key.Binding
	Open        key.Binding
	Quit        key.Binding
	YankCell    key.Binding
	YankRow     key.Binding
	ExportJSON  key.Binding
	ExportRaw   key.Binding
	ExportPlain key.Binding
}

var tableKeys = tableKeyMap{
	Up:          key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:        key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Left:        key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "prev column")),
	Right:       key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "next column")),
	ShiftUp:     key.NewBinding(key.WithKeys("shift+up"), key.WithHelp("⇧↑", "extend up")),
	ShiftDown:   key.NewBinding(key.WithKeys("shift+down"), key.WithHelp("⇧↓", "extend down")),
	ShiftLeft:   key.NewBinding(key.WithKeys("shift+left"), key.WithHelp("⇧←", "extend left")),
	ShiftRight:  key.NewBinding(key.WithKeys("shift+right"), key.WithHelp("⇧→", "extend right")),
	PageUp:      key.NewBinding(key.WithKeys("pgup", "ctrl+u"), key.WithHelp("pgup", "page up")),
	PageDown:    key.NewBinding(key.WithKeys("pgdown", "ctrl+d"), key.WithHelp("pgdn", "page down")),
	Home:        key.NewBinding(key.WithKeys("home", "g"), key.WithHelp("g", "first row")),
	End:         key.NewBinding(key.WithKeys("end", "G"), key.WithHelp("G", "last row")),
	Wider:       key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "wider")),
	Narrower:    key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "narrower")),
	Taller:      key.NewBinding(key.WithKeys("}"), key.WithHelp("}", "taller row")),
	Shorter:     key.NewBinding(key.WithKeys("{"), key.WithHelp("{", "shorter row")),
	Goto:        key.NewBinding(key.WithKeys(":"), key.WithHelp(":", "go to row")),
	Reload:      key.NewBinding(key.WithKeys("r", "ctrl+r"), key.WithHelp("r", "reload")),
	Clear:       key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "clear")),
	MaxMode:     key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "maximize")),
	Details:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "details")),
	Open:        key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "open cell")),
	Quit:        key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	YankCell:    key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy selection")),
	YankRow:     key.NewBinding(key.WithKeys("Y"), key.WithHelp("Y", "copy row")),
	ExportJSON:  key.NewBinding(key.WithKeys("J"), key.WithHelp("J", "print as JSON")),
	ExportRaw:   key.NewBinding(key.WithKeys("R"), key.WithHelp("R", "print raw")),
	ExportPlain: key.NewBinding(key.WithKeys("P"), key.WithHelp("P", "print table")),
}

// ═══════════════════════════════════════════════════════════════════════════
// Entry Point
// ═══════════════════════════════════════════════════════════════════════════

func newTableModel(ctx context.Context, title string, src Source, opts grid.Options) *tableModel {
	ti := textinput.New()
	ti.Placeholder = "row number"
	ti.CharLimit = 20
	ti.Width = 20

	m := &tableModel{
		title:     title,
		src:       src,
		loop:      &teaLoop{},
		events:    make(chan source.Event, 16),
		gotoInput: ti,
		cursor:    grid.CellRef{Row: -1},
	}
	opts.OnLoad = m.onLoad
	opts.OnCommitError = m.onCommitError
	opts.OnCommitted = m.onCommitted
	m.engine = grid.New(ctx, src, m.loop, opts)
	src.OnEvent(func(ev source.Event) { m.events <- ev })
	return m
}

// RunTableTUI launches the interactive table viewer. It blocks until the
// user quits. If the user requests an export (J/R/P), the whole table is
// printed to stdout after the TUI exits.
func RunTableTUI(ctx context.Context, title string, src Source, opts grid.Options) error {
	m := newTableModel(ctx, title, src, opts)

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseAllMotion(), tea.WithContext(ctx))
	finalModel, err := p.Run()
	if err != nil {
		return err
	}

	// Check if user requested output after exit
	if fm, ok := finalModel.(*tableModel); ok {
		switch fm.exitMode {
		case exitJSON:
			return PrintJSONResults(ctx, src)
		case exitRaw:
			return PrintRawResults(ctx, src)
		case exitPlain:
			return PrintPlainTable(ctx, src)
		}
	}
	return nil
}

// ═══════════════════════════════════════════════════════════════════════════
// Bubble Tea Interface
// ═══════════════════════════════════════════════════════════════════════════

type eventMsg source.Event

type statusClearMsg struct{}

type tooltipClearMsg struct{}

func waitForEvent(ch <-chan source.Event) tea.Cmd {
	return func() tea.Msg {
		return eventMsg(<-ch)
	}
}

func (m *tableModel) Init() tea.Cmd {
	m.engine.Open()
	logging.Logger().Debug("table opened", "table", m.engine.ID(), "title", m.title)
	m.loop.add(waitForEvent(m.events))
	return m.loop.drain()
}

func (m *tableModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.layout()

	case loopMsg:
		if msg.fn != nil {
			msg.fn()
		}

	case eventMsg:
		m.onEvent(source.Event(msg))
		m.loop.add(waitForEvent(m.events))

	case statusClearMsg:
		// Clear the flash message if it has expired
		if !m.statusUntil.IsZero() && time.Now().After(m.statusUntil) {
			m.statusMsg = ""
			m.statusUntil = time.Time{}
		}

	case tooltipClearMsg:
		// re-render only

	case tea.MouseMsg:
		m.updateMouse(msg)

	case tea.KeyMsg:
		if m.mode == tableModeGoto {
			return m.updateGoto(msg)
		}
		if quit := m.updateKeys(msg); quit {
			return m, tea.Quit
		}
	}

	return m, m.loop.drain()
}

// updateKeys handles a key in normal mode and reports whether to quit.
func (m *tableModel) updateKeys(msg tea.KeyMsg) bool {
	e := m.engine
	switch {
	case key.Matches(msg, tableKeys.Quit):
		return true

	case key.Matches(msg, tableKeys.Up):
		m.moveCursor(-1, 0, false)
	case key.Matches(msg, tableKeys.Down):
		m.moveCursor(1, 0, false)
	case key.Matches(msg, tableKeys.Left):
		m.moveCursor(0, -1, false)
	case key.Matches(msg, tableKeys.Right):
		m.moveCursor(0, 1, false)
	case key.Matches(msg, tableKeys.ShiftUp):
		m.moveCursor(-1, 0, true)
	case key.Matches(msg, tableKeys.ShiftDown):
		m.moveCursor(1, 0, true)
	case key.Matches(msg, tableKeys.ShiftLeft):
		m.moveCursor(0, -1, true)
	case key.Matches(msg, tableKeys.ShiftRight):
		m.moveCursor(0, 1, true)

	case key.Matches(msg, tableKeys.PageUp):
		m.moveCursor(-max(1, e.View().VisibleRowCount), 0, false)
		m.showTooltips()
	case key.Matches(msg, tableKeys.PageDown):
		m.moveCursor(max(1, e.View().VisibleRowCount), 0, false)
		m.showTooltips()
	case key.Matches(msg, tableKeys.Home):
		m.jumpToRow(e.Metrics().HeaderRowCount)
	case key.Matches(msg, tableKeys.End):
		m.jumpToRow(e.Metrics().RowCount - 1)

	case key.Matches(msg, tableKeys.Wider):
		m.nudgeColumn(resizeStep)
	case key.Matches(msg, tableKeys.Narrower):
		m.nudgeColumn(-resizeStep)
	case key.Matches(msg, tableKeys.Taller):
		m.nudgeRow(1)
	case key.Matches(msg, tableKeys.Shorter):
		m.nudgeRow(-1)

	case key.Matches(msg, tableKeys.Goto):
		m.mode = tableModeGoto
		m.gotoInput.SetValue("")
		m.loop.add(m.gotoInput.Focus())

	case key.Matches(msg, tableKeys.Reload):
		if r, ok := m.src.(interface{ Refresh() }); ok {
			r.Refresh()
		}
		e.Reload()
		m.setStatus("Reloading…", false)

	case key.Matches(msg, tableKeys.Clear):
		if m.details != nil {
			m.details = nil
			m.layout()
			break
		}
		e.ClearSelection()

	case key.Matches(msg, tableKeys.MaxMode):
		e.ToggleMaxMode()
		m.layout()

	case key.Matches(msg, tableKeys.Details):
		if m.cursor.Row >= 0 && !e.Selection().Pinned() {
			e.SelectCell(m.cursor, grid.Modifiers{})
		}
		e.ShowDetails()

	case key.Matches(msg, tableKeys.Open):
		if m.cursor.Row >= 0 {
			e.ClickCell(m.cursor)
		}

	case key.Matches(msg, tableKeys.YankCell):
		m.yankSelection()
	case key.Matches(msg, tableKeys.YankRow):
		m.yankRow()

	case key.Matches(msg, tableKeys.ExportJSON):
		m.exitMode = exitJSON
		return true
	case key.Matches(msg, tableKeys.ExportRaw):
		m.exitMode = exitRaw
		return true
	case key.Matches(msg, tableKeys.ExportPlain):
		m.exitMode = exitPlain
		return true
	}
	return false
}

// ═══════════════════════════════════════════════════════════════════════════
// Go to row
// ═══════════════════════════════════════════════════════════════════════════

func (m *tableModel) updateGoto(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.mode = tableModeNormal
		m.gotoInput.Blur()
		return m, m.loop.drain()
	case tea.KeyEnter:
		m.mode = tableModeNormal
		m.gotoInput.Blur()
		n, err := strconv.Atoi(strings.TrimSpace(m.gotoInput.Value()))
		if err != nil || n < 1 {
			m.setStatus("not a row number: "+m.gotoInput.Value(), true)
			return m, m.loop.drain()
		}
		m.jumpToRow(m.engine.Metrics().HeaderRowCount + n - 1)
		return m, m.loop.drain()
	}

	var cmd tea.Cmd
	m.gotoInput, cmd = m.gotoInput.Update(msg)
	m.loop.add(cmd)
	return m, m.loop.drain()
}

// ═══════════════════════════════════════════════════════════════════════════
// Layout
// ═══════════════════════════════════════════════════════════════════════════

// chrome returns the lines above and below the table.
func (m *tableModel) chrome() (above, below int) {
	if !m.engine.Maximized() {
		above = 1 // title
		below = 1 // help or status
	}
	below += 2 // horizontal scrollbar, info line
	if m.details != nil {
		below += 1 + min(len(m.details.Columns), maxDetailLines)
	}
	return above, below
}

func (m *tableModel) gutter() int {
	mt := m.engine.Metrics()
	return gutterWidth(mt.RowCount - mt.HeaderRowCount)
}

// layout hands the space left for the table to the engine.
func (m *tableModel) layout() {
	if !m.ready {
		return
	}
	above, below := m.chrome()
	w := max(0, m.width-m.gutter()-1)
	h := max(0, m.height-above-below)
	if vp := m.engine.Viewport(); vp.Width != w || vp.Height != h {
		m.engine.SetViewport(w, h)
	}
}

func (m *tableModel) frame() frame {
	e := m.engine
	above, _ := m.chrome()
	vp := e.Viewport()
	return frame{
		m:      e.Metrics(),
		vp:     vp,
		vs:     e.View(),
		gutter: m.gutter(),
		top:    above,
		height: min(e.TableHeight(), vp.Height),
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Engine callbacks
// ═══════════════════════════════════════════════════════════════════════════

func (m *tableModel) onLoad(out grid.LoadOutcome) {
	m.lastLoad = out.Elapsed
	if out.Err != nil {
		m.setStatus("load failed: "+out.Err.Error()+" (r to retry)", true)
		return
	}
	mt := m.engine.Metrics()
	if m.cursor.Row < 0 && mt.RowCount > mt.HeaderRowCount && mt.ColCount > 0 {
		m.cursor = grid.CellRef{Row: mt.HeaderRowCount, Col: 0}
	}
	m.layout()
}

func (m *tableModel) onCommitError(err error) {
	m.setStatus(err.Error(), true)
}

// onCommitted reloads after a width change of wrapped rows: the provider
// re-wraps and reports new row positions.
func (m *tableModel) onCommitted(op string) {
	if op == "resize columns" && m.engine.Metrics().Wrapped {
		m.engine.Reload()
	}
}

func (m *tableModel) onEvent(ev source.Event) {
	switch ev.Kind {
	case source.EventMaxMode:
		if ev.Maximized {
			m.setStatus("maximized (m to restore)", false)
		}
		m.layout()
	default:
		m.details = &ev
		m.layout()
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Mouse
// ═══════════════════════════════════════════════════════════════════════════

func (m *tableModel) updateMouse(msg tea.MouseMsg) {
	e := m.engine
	f := m.frame()
	p := grid.Point{X: msg.X, Y: msg.Y}

	switch {
	case msg.Button == tea.MouseButtonWheelUp && !msg.Shift:
		e.ScrollBy(0, -wheelStep)
		m.showTooltips()
		return
	case msg.Button == tea.MouseButtonWheelDown && !msg.Shift:
		e.ScrollBy(0, wheelStep)
		m.showTooltips()
		return
	case msg.Button == tea.MouseButtonWheelLeft || (msg.Button == tea.MouseButtonWheelUp && msg.Shift):
		e.ScrollBy(-wheelStep, 0)
		m.showTooltips()
		return
	case msg.Button == tea.MouseButtonWheelRight || (msg.Button == tea.MouseButtonWheelDown && msg.Shift):
		e.ScrollBy(wheelStep, 0)
		m.showTooltips()
		return
	}

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return
		}
		m.press(f, p, msg)

	case tea.MouseActionMotion:
		e.SetPointer(p)
		switch m.drag {
		case dragResize:
			m.dragTo(p)
			return
		case dragBox:
			return
		}
		if h := f.hitTest(p.X, p.Y); h.kind == hitCell {
			e.PointerEnter(h.ref)
		}

	case tea.MouseActionRelease:
		switch m.drag {
		case dragResize:
			m.dragTo(p)
			if err := e.ResizeEnd(); err != nil {
				logging.Logger().Debug("resize end", "err", err)
			}
		case dragBox:
			r := grid.Rect{X: m.boxStart.X, Y: m.boxStart.Y, W: p.X - m.boxStart.X, H: p.Y - m.boxStart.Y}.Normalize()
			r.W++
			r.H++
			if n := e.BoxSelect(r, f.rendered()); n > 0 {
				m.setStatus(fmt.Sprintf("%d cells selected", len(e.Selection().Regions)), false)
			}
		}
		m.drag = dragNone
	}
}

func (m *tableModel) press(f frame, p grid.Point, msg tea.MouseMsg) {
	e := m.engine
	h := f.hitTest(p.X, p.Y)
	switch h.kind {
	case hitTitle:
		e.SelectTitle()
	case hitColumnEdge:
		if err := e.BeginColumnResize(h.ref.Row, h.ref.Col, p.X, false); err == nil {
			m.drag = dragResize
		}
	case hitGutter:
		// the gutter cell of a row is the handle of its bottom edge
		if err := e.BeginRowResize(h.ref.Row, 0, p.Y, false); err == nil {
			m.drag = dragResize
		}
	case hitCell:
		if msg.Alt {
			m.drag = dragBox
			m.boxStart = p
			return
		}
		e.SelectCell(h.ref, grid.Modifiers{Ctrl: msg.Ctrl, Shift: msg.Shift})
		if !h.ref.Header {
			m.cursor = h.ref
		}
	}
}

func (m *tableModel) dragTo(p grid.Point) {
	s := m.engine.ResizeSession()
	if s == nil {
		return
	}
	pointer := p.X
	if s.Kind == grid.ResizeRow {
		pointer = p.Y
	}
	if err := m.engine.ResizeMove(pointer); err != nil {
		logging.Logger().Debug("resize move", "err", err)
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Cursor
// ═══════════════════════════════════════════════════════════════════════════

func (m *tableModel) moveCursor(dr, dc int, extend bool) {
	mt := m.engine.Metrics()
	if mt.RowCount <= mt.HeaderRowCount || mt.ColCount == 0 {
		return
	}
	c := m.cursor
	if c.Row < 0 {
		c = grid.CellRef{Row: m.engine.View().CurrentRow}
	}
	c.Row = min(max(c.Row+dr, mt.HeaderRowCount), mt.RowCount-1)
	c.Col = min(max(c.Col+dc, 0), mt.ColCount-1)
	c.Header = false
	m.cursor = c
	m.engine.SelectCell(c, grid.Modifiers{Shift: extend})
	m.reveal(c)
}

func (m *tableModel) jumpToRow(row int) {
	mt := m.engine.Metrics()
	if mt.RowCount <= mt.HeaderRowCount {
		return
	}
	row = min(max(row, mt.HeaderRowCount), mt.RowCount-1)
	col := max(m.cursor.Col, 0)
	m.cursor = grid.CellRef{Row: row, Col: col}
	m.engine.ScrollToRow(row)
	m.engine.SelectCell(m.cursor, grid.Modifiers{})
	m.showTooltips()
}

// reveal scrolls the least amount that brings ref fully into view.
func (m *tableModel) reveal(ref grid.CellRef) {
	e := m.engine
	mt := e.Metrics()
	vp := e.Viewport()
	x, y := vp.ScrollX, vp.ScrollY

	r := ref.Row - mt.HeaderRowCount
	top, h := mt.DataRowTop(r), mt.DataRowHeightAt(r)
	if bodyH := vp.BodyHeight(mt); top < y {
		y = top
	} else if top+h > y+bodyH {
		y = top + h - bodyH
	}

	if ref.Col >= mt.HeaderColCount {
		start := mt.ColStart(ref.Col) - mt.FrozenWidth()
		end := start + mt.ColWidth(ref.Col)
		bodyW := vp.BodyWidth(mt)
		switch {
		case start < x:
			x = start
		case end > x+bodyW:
			x = max(start, end-bodyW)
			if end-start > bodyW {
				x = start
			}
		}
	}
	if x != vp.ScrollX || y != vp.ScrollY {
		e.ScrollTo(x, y)
	}
}

// nudgeColumn resizes the cursor column by delta through the resize
// controller, as if its header edge had been dragged.
func (m *tableModel) nudgeColumn(delta int) {
	if m.cursor.Row < 0 {
		return
	}
	e := m.engine
	if err := e.BeginColumnResize(0, m.cursor.Col, 0, false); err != nil {
		m.setStatus(err.Error(), true)
		return
	}
	_ = e.ResizeMove(delta)
	_ = e.ResizeEnd()
}

// nudgeRow resizes the cursor row by delta.
func (m *tableModel) nudgeRow(delta int) {
	if m.cursor.Row < 0 {
		return
	}
	e := m.engine
	if err := e.BeginRowResize(m.cursor.Row, m.cursor.Col, 0, false); err != nil {
		m.setStatus(err.Error(), true)
		return
	}
	_ = e.ResizeMove(delta)
	_ = e.ResizeEnd()
}

// ═══════════════════════════════════════════════════════════════════════════
// Status Message (flash notification)
// ═══════════════════════════════════════════════════════════════════════════

// setStatus sets a temporary status message that auto-clears.
func (m *tableModel) setStatus(msg string, isErr bool) {
	m.statusMsg = msg
	m.statusErr = isErr
	m.statusUntil = time.Now().Add(statusDuration)
	m.loop.add(tea.Tick(statusDuration, func(time.Time) tea.Msg {
		return statusClearMsg{}
	}))
}

// showTooltips shows the scroll tooltips for a moment after scrolling.
func (m *tableModel) showTooltips() {
	m.tooltipUntil = time.Now().Add(tooltipDuration)
	m.loop.add(tea.Tick(tooltipDuration, func(time.Time) tea.Msg {
		return tooltipClearMsg{}
	}))
}

// ═══════════════════════════════════════════════════════════════════════════
// Clipboard (yank)
// ═══════════════════════════════════════════════════════════════════════════

// yankSelection copies the selected cells, tab and newline separated.
func (m *tableModel) yankSelection() {
	text := m.engine.SelectedText()
	if text == "" && m.cursor.Row >= 0 {
		if c, ok := m.engine.CellAt(m.cursor.Row, m.cursor.Col); ok {
			text = c.Label
		}
	}
	if err := clipboard.WriteAll(text); err != nil {
		m.setStatus(fmt.Sprintf("clipboard error: %s", err), true)
		return
	}
	m.setStatus("Copied: "+runewidth.Truncate(strings.ReplaceAll(text, "\n", " ↵ "), 40, "..."), false)
}

// yankRow copies the cursor row (tab-separated) to the clipboard.
func (m *tableModel) yankRow() {
	if m.cursor.Row < 0 {
		return
	}
	mt := m.engine.Metrics()
	vals := make([]string, 0, mt.ColCount)
	for c := 0; c < mt.ColCount; c++ {
		cell, ok := m.engine.CellAt(m.cursor.Row, c)
		if !ok {
			m.setStatus("row not loaded yet", true)
			return
		}
		vals = append(vals, cell.Label)
	}
	if err := clipboard.WriteAll(strings.Join(vals, "\t")); err != nil {
		m.setStatus(fmt.Sprintf("clipboard error: %s", err), true)
		return
	}
	m.setStatus(fmt.Sprintf("Copied row (%d columns)", len(vals)), false)
}

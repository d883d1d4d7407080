package table

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/imgajeed76/pgrid/internal/grid"
	"github.com/imgajeed76/pgrid/internal/logging"
	"github.com/imgajeed76/pgrid/internal/source"
	"github.com/imgajeed76/pgrid/internal/ui/styles"
	"github.com/imgajeed76/pgrid/internal/util"
	"github.com/mattn/go-runewidth"
)

// ═══════════════════════════════════════════════════════════════════════════
// View
// ═══════════════════════════════════════════════════════════════════════════

func (m *tableModel) View() string {
	if !m.ready {
		return "Loading..."
	}

	f := m.frame()
	var out []string
	if !m.engine.Maximized() {
		out = append(out, m.titleLine())
	}

	lines := m.tableLines(f)
	m.overlayTooltips(f, lines)
	for _, l := range lines {
		out = append(out, l.render())
	}
	out = append(out, m.hscrollLine(f).render())
	out = append(out, m.infoLine())
	out = append(out, m.detailLines()...)

	// Footer
	switch {
	case m.statusMsg != "" && time.Now().Before(m.statusUntil):
		if m.statusErr {
			out = append(out, styles.ErrorMsg(m.statusMsg))
		} else {
			out = append(out, styles.SuccessMsg(m.statusMsg))
		}
	case m.mode == tableModeGoto:
		out = append(out, ":"+m.gotoInput.View())
	case !m.engine.Maximized():
		out = append(out, styles.MutedMsg("↑↓←→ move  ⇧ extend  click select  alt+drag box  drag header edge/gutter resize  +/- width  : go to  enter details  y copy  r reload  m max  J json  R raw  P table  q quit"))
	}

	return strings.Join(out, "\n")
}

func (m *tableModel) titleLine() string {
	mt := m.engine.Metrics()
	rows := humanize.Comma(int64(max(0, mt.DataRowCount-mt.HeaderRowCount)))
	if n := mt.RuntimeDataRowCount; n != nil {
		if *n < 0 {
			rows = "at least " + humanize.Comma(int64(-*n-1))
		} else {
			rows = humanize.Comma(int64(*n))
		}
	}
	title := styles.Title(fmt.Sprintf("%s: %s rows, %d columns", m.title, rows, mt.ColCount))
	if mt.LimitMessage != "" {
		title += "  " + styles.Limit(mt.LimitMessage)
	}
	if m.engine.Selection().TitleSelected {
		title = styles.Underline.Render(title)
	}
	return title
}

// infoLine shows the loaded window, the selection and loader state.
func (m *tableModel) infoLine() string {
	e := m.engine
	var parts []string
	if w, ok := e.Loaded(); ok && w.Len() > 0 {
		h := e.Metrics().HeaderRowCount
		parts = append(parts, fmt.Sprintf("loaded rows %s–%s", humanize.Comma(int64(w.Start-h+1)), humanize.Comma(int64(w.End-h))))
		if m.lastLoad > 0 {
			parts = append(parts, "in "+util.FormatElapsed(m.lastLoad))
		}
	}
	if n := len(e.Selection().Regions); n > 0 && e.Selection().Pinned() {
		parts = append(parts, fmt.Sprintf("%d selected", n))
	}
	if s := e.ResizeSession(); s != nil {
		parts = append(parts, fmt.Sprintf("resizing %d %s %d", s.Initial, styles.SymbolArrow, s.Current))
	}
	switch {
	case e.Loading():
		parts = append(parts, "loading…")
	case e.LoadPending():
		parts = append(parts, "waiting…")
	case e.LastError() != nil:
		return styles.ErrorText("load failed (r to retry)")
	}
	return styles.MutedMsg(strings.Join(parts, "  ·  "))
}

func (m *tableModel) detailLines() []string {
	if m.details == nil {
		return nil
	}
	ev := m.details
	head := "details"
	if ev.Kind == source.EventClick {
		head = "cell"
	}
	out := []string{styles.SectionHeader(head) + styles.MutedMsg("  (esc to close)")}
	for i := 0; i < len(ev.Columns) && i < maxDetailLines; i++ {
		name := ev.Columns[i]
		val := ""
		if i < len(ev.Values) {
			val = ev.Values[i]
		}
		text := fmt.Sprintf("%s: %s", name, val)
		if i == maxDetailLines-1 && len(ev.Columns) > maxDetailLines {
			text = fmt.Sprintf("… and %d more", len(ev.Columns)-i)
		}
		out = append(out, "  "+runewidth.Truncate(text, max(1, m.width-2), "…"))
	}
	return out
}

// ═══════════════════════════════════════════════════════════════════════════
// Render Table
// ═══════════════════════════════════════════════════════════════════════════

// tableLines renders the viewport: gutter, cells and vertical scrollbar.
func (m *tableModel) tableLines(f frame) []line {
	lines := make([]line, f.vp.Height)
	if f.m.ColCount == 0 {
		if f.vp.Height > 0 {
			lines[0] = line{{text: "No columns", style: styles.MutedStyle}}
		}
		return lines
	}

	slots := f.slots()
	hh := f.m.HeaderHeight()
	thumb, track := f.thumb()
	for ty := 0; ty < f.height; ty++ {
		row, k, ok := f.rowAtLine(ty)
		if !ok {
			continue
		}
		var l line

		g := strings.Repeat(" ", f.gutter)
		if row >= f.m.HeaderRowCount && k == 0 {
			g = fit(strconv.Itoa(row-f.m.HeaderRowCount+1), f.gutter-1, true) + " "
		}
		l = append(l, seg{text: g, style: styles.Gutter})

		for _, s := range slots {
			l = append(l, m.cellSegs(f, row, k, s)...)
		}

		if f.vs.ScrollableY && ty >= hh && track > 0 {
			if pad := f.gutter + f.vp.Width - l.width(); pad > 0 {
				l = append(l, seg{text: strings.Repeat(" ", pad)})
			}
			if ty-hh == thumb {
				l = append(l, seg{text: "█", style: styles.ScrollThumb})
			} else {
				l = append(l, seg{text: "│", style: styles.ScrollTrack})
			}
		}
		lines[ty] = l
	}
	return lines
}

// cellSegs renders line k of the cell at (row, s.col), cut to the slot.
func (m *tableModel) cellSegs(f frame, row, k int, s slot) []seg {
	e := m.engine
	w := f.m.ColWidth(s.col)
	inner := max(0, w-1)
	h := f.m.RowHeight(row)

	text, style := "", styles.PendingCell
	if c, ok := e.CellAt(row, s.col); ok {
		text = fit(cellLine(c.Label, inner, h, k), inner, c.Align == source.AlignRight)
		style = cellStyle(c)
	} else if k == 0 {
		text = fit("…", inner, false)
	} else {
		text = fit("", inner, false)
	}

	ref := grid.CellRef{Row: row, Col: s.col, Header: row < f.m.HeaderRowCount}
	sel := e.Selection()
	if sel.IsSelected(ref) || (ref.Header && sel.IsSelected(grid.CellRef{Row: grid.ColumnRow, Col: s.col, Header: true})) {
		if sel.Pinned() {
			style = styles.SelectedCell
		} else {
			style = styles.FlyoverCell
		}
	}

	if !s.edge(f.m) {
		return []seg{{text: cut(text, s.skip, s.w), style: style}}
	}
	sep := styles.Separator
	if r := e.ResizeSession(); r != nil && r.Kind == grid.ResizeColumn && s.col == r.Col+r.Span-1 {
		sep = styles.ResizeLine
	}
	return []seg{
		{text: cut(text, s.skip, s.w-1), style: style},
		{text: "│", style: sep},
	}
}

func cellStyle(c *grid.Cell) lipgloss.Style {
	switch c.Style {
	case source.StyleHeader:
		return styles.HeaderCell
	case source.StyleNumber:
		return styles.NumberCell
	case source.StyleNull:
		return styles.NullCell
	default:
		return styles.TextCell
	}
}

func (m *tableModel) hscrollLine(f frame) line {
	l := line{{text: strings.Repeat(" ", f.gutter+f.m.FrozenWidth())}}
	bodyW := f.vp.BodyWidth(f.m)
	if !f.vs.ScrollableX || bodyW == 0 {
		return l
	}
	scrollW := f.m.TotalWidth() - f.m.FrozenWidth()
	size := max(1, bodyW*bodyW/max(1, scrollW))
	at := min(f.hthumb(), bodyW-size)
	return append(l,
		seg{text: strings.Repeat("─", at), style: styles.ScrollTrack},
		seg{text: strings.Repeat("━", size), style: styles.ScrollThumb},
		seg{text: strings.Repeat("─", max(0, bodyW-at-size)), style: styles.ScrollTrack},
	)
}

// overlayTooltips draws the scroll tooltips next to the scrollbar thumbs
// while the table is being scrolled.
func (m *tableModel) overlayTooltips(f frame, lines []line) {
	if time.Now().After(m.tooltipUntil) || len(lines) == 0 {
		return
	}
	e := m.engine
	hh := f.m.HeaderHeight()
	if f.vs.ScrollableY {
		thumb, _ := f.thumb()
		t := e.VerticalTooltip(grid.Point{X: f.vp.Width, Y: hh + thumb})
		m.placeTooltip(f, lines, t)
	}
	if f.vs.ScrollableX {
		t := e.HorizontalTooltip(grid.Point{X: f.m.FrozenWidth() + f.hthumb(), Y: f.vp.Height})
		m.placeTooltip(f, lines, t)
	}
}

func (m *tableModel) placeTooltip(f frame, lines []line, t grid.Tooltip) {
	if t.Recreate {
		logging.Logger().Debug("scroll tooltip flipped", "side", t.Side.String())
	}
	if t.Y < 0 || t.Y >= len(lines) {
		return
	}
	lines[t.Y] = lines[t.Y].overlay(f.gutter+t.X, seg{text: t.Text, style: styles.Tooltip})
}

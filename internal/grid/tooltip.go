package grid

import (
	"strconv"

	"github.com/mattn/go-runewidth"
)

// TooltipSide is where a scroll tooltip sits relative to its anchor.
type TooltipSide int

const (
	SideRight TooltipSide = iota
	SideLeft
	SideBottom
	SideTop
)

func (s TooltipSide) String() string {
	switch s {
	case SideLeft:
		return "left"
	case SideBottom:
		return "bottom"
	case SideTop:
		return "top"
	default:
		return "right"
	}
}

// Tooltip is a positioned scroll tooltip. Recreate is set when the side
// changed since the previous placement and the host must rebuild it.
type Tooltip struct {
	Text     string
	Side     TooltipSide
	X, Y     int
	Recreate bool
}

// VerticalText returns "row (total)" for the vertical scroll tooltip. The
// row is 1-based among data rows. A negative runtime count -n-1 reads as
// "n*", meaning at least n rows.
func VerticalText(vs ViewState, m *TableMetrics) string {
	total := m.DataRowCount - m.HeaderRowCount
	if m.RuntimeDataRowCount != nil {
		total = *m.RuntimeDataRowCount
	}
	suffix := ""
	if total < 0 {
		total = -total - 1
		suffix = "*"
	}
	row := vs.CurrentRow - m.HeaderRowCount + 1
	return strconv.Itoa(row) + " (" + strconv.Itoa(total) + suffix + ")"
}

// HorizontalText returns "col (total)" for the horizontal scroll tooltip,
// counting scrollable columns only.
func HorizontalText(vs ViewState, m *TableMetrics) string {
	total := m.ColCount - m.HeaderColCount
	if total < 2 {
		total = m.ColCount
	}
	col := vs.CurrentCol - m.HeaderColCount + 1
	return strconv.Itoa(col) + " (" + strconv.Itoa(total) + ")"
}

// TooltipPresenter places the two scroll tooltips, flipping them when they
// would overflow their bounds.
type TooltipPresenter struct {
	vertical   TooltipSide
	horizontal TooltipSide
	vPlaced    bool
	hPlaced    bool
}

// PlaceVertical puts text to the right of anchor, or to the left when it
// would run past the right edge of bounds.
func (p *TooltipPresenter) PlaceVertical(text string, anchor Point, bounds Rect) Tooltip {
	w := runewidth.StringWidth(text)
	t := Tooltip{Text: text, Side: SideRight, X: anchor.X + 1, Y: anchor.Y}
	if anchor.X+1+w > bounds.X+bounds.W {
		t.Side = SideLeft
		t.X = max(bounds.X, anchor.X-w)
	}
	t.Recreate = p.vPlaced && t.Side != p.vertical
	p.vertical, p.vPlaced = t.Side, true
	return t
}

// PlaceHorizontal puts text below anchor, or above it when it would run past
// the bottom of bounds.
func (p *TooltipPresenter) PlaceHorizontal(text string, anchor Point, bounds Rect) Tooltip {
	w := runewidth.StringWidth(text)
	t := Tooltip{Text: text, Side: SideBottom, X: min(anchor.X, max(bounds.X, bounds.X+bounds.W-w)), Y: anchor.Y + 1}
	if anchor.Y+1 >= bounds.Y+bounds.H {
		t.Side = SideTop
		t.Y = max(bounds.Y, anchor.Y-1)
	}
	t.Recreate = p.hPlaced && t.Side != p.horizontal
	p.horizontal, p.hPlaced = t.Side, true
	return t
}

// VerticalTooltip returns the vertical scroll tooltip anchored at the
// scrollbar thumb.
func (e *Engine) VerticalTooltip(anchor Point) Tooltip {
	return e.tooltips.PlaceVertical(VerticalText(e.view, &e.metrics), anchor, Rect{W: e.vp.Width, H: e.vp.Height})
}

// HorizontalTooltip returns the horizontal scroll tooltip anchored at the
// scrollbar thumb.
func (e *Engine) HorizontalTooltip(anchor Point) Tooltip {
	return e.tooltips.PlaceHorizontal(HorizontalText(e.view, &e.metrics), anchor, Rect{W: e.vp.Width, H: e.vp.Height})
}

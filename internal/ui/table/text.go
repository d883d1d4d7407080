package table

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/imgajeed76/pgrid/internal/ui/styles"
	"github.com/mattn/go-runewidth"
)

// seg is a run of plain text drawn in one style.
type seg struct {
	text  string
	style lipgloss.Style
}

// line is a screen line built from segments. Text is kept plain until
// render so lines can be cut and overlaid by display width.
type line []seg

func (l line) width() int {
	w := 0
	for _, s := range l {
		w += runewidth.StringWidth(s.text)
	}
	return w
}

// overlay replaces the cells [x, x+width(s)) with s, padding the line when
// it is too short.
func (l line) overlay(x int, s seg) line {
	w := runewidth.StringWidth(s.text)
	if pad := x - l.width(); pad > 0 {
		l = append(l, seg{text: strings.Repeat(" ", pad)})
	}
	var out line
	pos := 0
	for _, cur := range l {
		cw := runewidth.StringWidth(cur.text)
		end := pos + cw
		if end <= x || pos >= x+w {
			out = append(out, cur)
			pos = end
			continue
		}
		if pos < x {
			out = append(out, seg{text: cut(cur.text, 0, x-pos), style: cur.style})
		}
		if pos <= x {
			out = append(out, s)
		}
		if end > x+w {
			out = append(out, seg{text: cut(cur.text, x+w-pos, end-(x+w)), style: cur.style})
		}
		pos = end
	}
	if pos <= x {
		out = append(out, s)
	}
	return out
}

func (l line) render() string {
	var sb strings.Builder
	for _, s := range l {
		if s.text == "" {
			continue
		}
		if styles.NoColor() {
			sb.WriteString(s.text)
			continue
		}
		sb.WriteString(s.style.Render(s.text))
	}
	return sb.String()
}

// cut returns the w display cells of s starting at cell from. A wide rune
// split by either edge becomes a space.
func cut(s string, from, w int) string {
	if w <= 0 {
		return ""
	}
	var sb strings.Builder
	pos, out := 0, 0
	for _, r := range s {
		rw := runewidth.RuneWidth(r)
		switch {
		case pos+rw <= from:
		case pos < from:
			sb.WriteString(strings.Repeat(" ", min(pos+rw-from, w-out)))
			out += min(pos+rw-from, w-out)
		case out+rw > w:
			sb.WriteString(strings.Repeat(" ", w-out))
			out = w
		default:
			sb.WriteRune(r)
			out += rw
		}
		pos += rw
		if out >= w {
			break
		}
	}
	if out < w {
		sb.WriteString(strings.Repeat(" ", w-out))
	}
	return sb.String()
}

// fit pads or truncates s to exactly w cells, right-aligned when right is
// set.
func fit(s string, w int, right bool) string {
	if w <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) > w {
		return runewidth.Truncate(s, w, "…")
	}
	if right {
		return runewidth.FillLeft(s, w)
	}
	return runewidth.FillRight(s, w)
}

// wrapLines splits s into lines of at most w cells.
func wrapLines(s string, w int) []string {
	if w <= 0 {
		return []string{""}
	}
	return strings.Split(runewidth.Wrap(s, w), "\n")
}

// cellLine returns line k of a cell h lines tall. The last line gets an
// ellipsis when the text does not fit.
func cellLine(label string, w, h, k int) string {
	lines := wrapLines(label, w)
	if k >= len(lines) {
		return ""
	}
	if k == h-1 && len(lines) > h {
		return runewidth.Truncate(lines[k]+"…", w, "…")
	}
	return lines[k]
}

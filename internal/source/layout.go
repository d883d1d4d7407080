// Package source holds the table providers behind pgrid's viewport engine:
// an in-memory table and a windowed SQL query.
package source

import (
	"strconv"
	"strings"
	"sync"

	"github.com/imgajeed76/pgrid/internal/db"
	"github.com/imgajeed76/pgrid/internal/grid"
	"github.com/imgajeed76/pgrid/internal/util"
	"github.com/mattn/go-runewidth"
)

// Cell styles a source emits.
const (
	StyleHeader = "header"
	StyleText   = "text"
	StyleNumber = "num"
	StyleNull   = "null"
)

// Cell alignments a source emits.
const (
	AlignLeft  = "left"
	AlignRight = "right"
)

const nullLabel = "NULL"

// Options shape the tables a source reports.
type Options struct {
	// DefaultColWidth is used for columns with no sampled values.
	DefaultColWidth int
	// MaxColWidth caps auto-sized columns.
	MaxColWidth int
	// MinColWidth floors auto-sized columns.
	MinColWidth int
	// Wrap switches to wrapped rows with per-row heights.
	Wrap bool
	// RowLimit caps the rows a table exposes; zero means no limit.
	RowLimit int
	// FrozenCols is the number of leading columns that do not scroll.
	FrozenCols int
}

func (o Options) withDefaults() Options {
	if o.DefaultColWidth <= 0 {
		o.DefaultColWidth = 20
	}
	if o.MaxColWidth <= 0 {
		o.MaxColWidth = 60
	}
	if o.MinColWidth <= 0 {
		o.MinColWidth = 3
	}
	if o.RowLimit < 0 {
		o.RowLimit = 0
	}
	if o.FrozenCols < 0 {
		o.FrozenCols = 0
	}
	return o
}

// layout is the column and row geometry shared by every source: widths,
// heights, resize overrides and cell building.
type layout struct {
	mu   sync.Mutex
	opts Options

	columns []db.Column
	numeric []bool
	widths  []int

	colOverride    map[int]int
	headerOverride map[int]int
	rowOverride    map[int]int
	dataHeight     int

	// positions caches wrapped data row positions until the geometry changes
	positions []int

	flyovers []map[int][]int
	events   *events
}

func newLayout(opts Options) *layout {
	return &layout{
		opts:           opts.withDefaults(),
		colOverride:    make(map[int]int),
		headerOverride: make(map[int]int),
		rowOverride:    make(map[int]int),
		dataHeight:     1,
		events:         &events{},
	}
}

// setColumns sizes the columns from their names and a sample of rows.
func (l *layout) setColumns(cols []db.Column, sample [][]db.Value) {
	l.columns = cols
	l.numeric = make([]bool, len(cols))
	l.widths = make([]int, len(cols))

	for c, col := range cols {
		l.numeric[c] = isNumericType(col.Type) || (col.Type == "" && numericSample(sample, c))

		w := runewidth.StringWidth(col.Name)
		if len(sample) == 0 {
			w = max(w, l.opts.DefaultColWidth)
		}
		for _, row := range sample {
			if c < len(row) {
				w = max(w, runewidth.StringWidth(labelOf(row[c])))
			}
		}
		w = min(max(w, l.opts.MinColWidth), l.opts.MaxColWidth)
		// one cell for the separator
		l.widths[c] = w + 1
	}
}

func isNumericType(t string) bool {
	switch strings.ToLower(t) {
	case "int2", "int4", "int8", "smallint", "integer", "bigint", "int",
		"float4", "float8", "real", "double", "double precision", "numeric", "decimal", "oid":
		return true
	}
	return false
}

func numericSample(sample [][]db.Value, c int) bool {
	seen := false
	for _, row := range sample {
		if c >= len(row) || row[c].Null {
			continue
		}
		if _, err := strconv.ParseFloat(row[c].Text, 64); err != nil {
			return false
		}
		seen = true
	}
	return seen
}

func labelOf(v db.Value) string {
	if v.Null {
		return nullLabel
	}
	return util.SingleLine(v.Text)
}

// colWidths returns the widths with resize overrides applied.
func (l *layout) colWidths() []int {
	out := make([]int, len(l.widths))
	for c, w := range l.widths {
		if o, ok := l.colOverride[c]; ok {
			w = o
		}
		out[c] = w
	}
	return out
}

// lines returns how many lines label takes in a column of width w.
func lines(label string, w int) int {
	inner := w - 1
	if inner < 1 || label == "" {
		return 1
	}
	return strings.Count(runewidth.Wrap(label, inner), "\n") + 1
}

func (l *layout) headerHeight(widths []int) int {
	if h, ok := l.headerOverride[0]; ok {
		return h
	}
	if !l.opts.Wrap {
		return 1
	}
	h := 1
	for c, col := range l.columns {
		h = max(h, lines(col.Name, widths[c]))
	}
	return h
}

func (l *layout) rowHeight(r int, row []db.Value, widths []int) int {
	if h, ok := l.rowOverride[r]; ok {
		return h
	}
	h := 1
	for c, v := range row {
		if c < len(widths) {
			h = max(h, lines(labelOf(v), widths[c]))
		}
	}
	return h
}

// metrics fills the metric fields of res for a table of n data rows. rows
// holds every data row when the layout is wrapped and is ignored otherwise.
func (l *layout) metrics(res *grid.LoadResult, n int, rows [][]db.Value) {
	widths := l.colWidths()
	res.ColWidths = widths
	res.ColCount = len(widths)
	res.HeaderColCount = min(l.opts.FrozenCols, len(widths))
	res.HeaderRowCount = 1
	res.RowCount = 1 + n
	res.DataRowCount = 1 + n
	res.DataRowHeight = l.dataHeight

	hh := l.headerHeight(widths)
	res.HeaderRowHeights = []int{hh}

	if !l.opts.Wrap || rows == nil {
		return
	}
	res.Wrapped = true
	res.HeaderRowPositions = []int{0, hh}
	if len(l.positions) != n+1 {
		pos := make([]int, n+1)
		for r := 0; r < n; r++ {
			pos[r+1] = pos[r] + l.rowHeight(r, rows[r], widths)
		}
		l.positions = pos
	}
	res.DataRowPositions = l.positions
	res.ScrollHeight = l.positions[n]
}

type protoKey struct {
	style, align string
}

// cellBuilder interns cell formats into prototypes.
type cellBuilder struct {
	protos []grid.Cell
	refs   map[protoKey]int
}

func (b *cellBuilder) ref(style, align string) int {
	if b.refs == nil {
		b.refs = make(map[protoKey]int)
	}
	k := protoKey{style, align}
	if ref, ok := b.refs[k]; ok {
		return ref
	}
	b.protos = append(b.protos, grid.Cell{Style: style, Align: align, RowSpan: 1, ColSpan: 1})
	ref := len(b.protos)
	b.refs[k] = ref
	return ref
}

// cells builds the header row and the body rows starting at absolute row
// start.
func (l *layout) cells(res *grid.LoadResult, start int, rows [][]db.Value) {
	var b cellBuilder

	header := make([]grid.Cell, len(l.columns))
	for c, col := range l.columns {
		align := AlignLeft
		if l.numeric[c] {
			align = AlignRight
		}
		header[c] = grid.Cell{Row: 0, Col: c, Data: col.Name, FormatRef: b.ref(StyleHeader, align)}
	}
	res.HeaderCells = [][]grid.Cell{header}

	res.BodyCells = make([][]grid.Cell, len(rows))
	for i, row := range rows {
		cells := make([]grid.Cell, len(row))
		for c, v := range row {
			style, align := StyleText, AlignLeft
			switch {
			case v.Null:
				style = StyleNull
			case c < len(l.numeric) && l.numeric[c]:
				style, align = StyleNumber, AlignRight
			}
			cell := grid.Cell{Row: start + i, Col: c, Data: v.Text, FormatRef: b.ref(style, align)}
			if label := labelOf(v); label != v.Text {
				cell.Label = label
			}
			cells[c] = cell
		}
		res.BodyCells[i] = cells
	}
	res.Prototypes = b.protos
}

// resizeColumns stores width overrides for [startCol, endCol).
func (l *layout) resizeColumns(startCol, endCol int, widths []int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i, c := 0, startCol; c < endCol && i < len(widths); i, c = i+1, c+1 {
		l.colOverride[c] = widths[i]
	}
	l.positions = nil
}

// resizeRow stores a height override. Fixed-height data rows share one
// height.
func (l *layout) resizeRow(row, height int, isHeader bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	switch {
	case isHeader:
		l.headerOverride[row] = height
	case l.opts.Wrap:
		l.rowOverride[row-1] = height
	default:
		l.dataHeight = height
	}
	l.positions = nil
}

func (l *layout) recordFlyover(selected map[int][]int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.flyovers = append(l.flyovers, selected)
}

// Flyovers returns every fly-over notification received so far.
func (l *layout) Flyovers() []map[int][]int {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]map[int][]int, len(l.flyovers))
	copy(out, l.flyovers)
	return out
}

package table

import (
	"testing"

	"github.com/imgajeed76/pgrid/internal/grid"
)

func testFrame() frame {
	mt := &grid.TableMetrics{
		RowCount: 101, HeaderRowCount: 1, DataRowCount: 101,
		HeaderRowHeights: []int{1}, DataRowHeight: 1,
		ColCount: 3, HeaderColCount: 1, ColWidths: []int{5, 10, 10},
	}
	vp := grid.Viewport{ScrollX: 4, ScrollY: 10, Width: 20, Height: 8}
	return frame{m: mt, vp: vp, vs: grid.ComputeView(mt, vp), gutter: 4, top: 1, height: 8}
}

func TestFrameSlots(t *testing.T) {
	f := testFrame()
	want := []slot{
		{col: 0, x: 4, w: 5, skip: 0},
		{col: 1, x: 9, w: 6, skip: 4},
		{col: 2, x: 15, w: 9, skip: 0},
	}
	got := f.slots()
	if len(got) != len(want) {
		t.Fatalf("got %d slots, want %d: %+v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("slot %d = %+v, want %+v", i, got[i], want[i])
		}
	}
	if !got[1].edge(f.m) || got[2].edge(f.m) {
		t.Fatal("edge visibility wrong")
	}
}

func TestFrameRowAtLine(t *testing.T) {
	f := testFrame()
	tests := []struct {
		ty, row, line int
		ok            bool
	}{
		{0, 0, 0, true},
		{1, 11, 0, true},
		{7, 17, 0, true},
		{8, 0, 0, false},
		{-1, 0, 0, false},
	}
	for _, tt := range tests {
		row, line, ok := f.rowAtLine(tt.ty)
		if ok != tt.ok || (ok && (row != tt.row || line != tt.line)) {
			t.Errorf("rowAtLine(%d) = %d, %d, %v; want %d, %d, %v", tt.ty, row, line, ok, tt.row, tt.line, tt.ok)
		}
	}
}

func TestFrameRowAtLine_TallRows(t *testing.T) {
	f := testFrame()
	f.m.DataRowHeight = 3
	f.vp.ScrollY = 4
	row, line, ok := f.rowAtLine(1)
	if !ok || row != 2 || line != 1 {
		t.Fatalf("got row %d line %d (%v), want row 2 line 1", row, line, ok)
	}
}

func TestFrameHitTest(t *testing.T) {
	f := testFrame()
	tests := []struct {
		name string
		x, y int
		want hit
	}{
		{"title", 5, 0, hit{kind: hitTitle}},
		{"header edge", 8, 1, hit{kind: hitColumnEdge, ref: grid.CellRef{Row: 0, Col: 0, Header: true}}},
		{"header cell", 6, 1, hit{kind: hitCell, ref: grid.CellRef{Row: 0, Col: 0, Header: true}}},
		{"body cell", 10, 3, hit{kind: hitCell, ref: grid.CellRef{Row: 12, Col: 1}}},
		{"body edge is a cell", 14, 3, hit{kind: hitCell, ref: grid.CellRef{Row: 12, Col: 1}}},
		{"gutter", 2, 3, hit{kind: hitGutter, ref: grid.CellRef{Row: 12}}},
		{"below table", 10, 20, hit{}},
	}
	for _, tt := range tests {
		if got := f.hitTest(tt.x, tt.y); got != tt.want {
			t.Errorf("%s: hitTest(%d, %d) = %+v, want %+v", tt.name, tt.x, tt.y, got, tt.want)
		}
	}
}

func TestFrameRendered(t *testing.T) {
	f := testFrame()
	cells := f.rendered()
	if len(cells) != 24 {
		t.Fatalf("got %d rendered cells, want 24", len(cells))
	}
	var found bool
	for _, c := range cells {
		if c.Ref == (grid.CellRef{Row: 11, Col: 2}) {
			found = true
			if c.Bounds != (grid.Rect{X: 15, Y: 2, W: 9, H: 1}) {
				t.Fatalf("bounds = %+v", c.Bounds)
			}
		}
	}
	if !found {
		t.Fatal("row 11 col 2 not rendered")
	}
}

func TestGutterWidth(t *testing.T) {
	for n, want := range map[int]int{0: 2, 9: 2, 10: 3, 500: 4, 1_000_000: 8} {
		if got := gutterWidth(n); got != want {
			t.Errorf("gutterWidth(%d) = %d, want %d", n, got, want)
		}
	}
}

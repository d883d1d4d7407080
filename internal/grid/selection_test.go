package grid

import (
	"context"
	"reflect"
	"testing"
	"time"
)

func TestClearSelection_Idempotent(t *testing.T) {
	p := newFakeProvider(20, 1, 3)
	e := openEngine(p, &manualLoop{}, 60, 10)

	e.SelectCell(CellRef{Row: 2, Col: 1}, Modifiers{})
	e.SelectTitle()
	e.SetAnnotation("note-1")
	e.SetPointer(Point{X: 3, Y: 4})

	e.ClearSelection()
	once := *e.Selection()
	rev := e.Revision()

	e.ClearSelection()
	twice := *e.Selection()

	if !reflect.DeepEqual(once, twice) {
		t.Fatalf("second clear changed state:\n  once:  %+v\n  twice: %+v", once, twice)
	}
	if !twice.Empty() || twice.FirstRow != -1 || twice.FirstCol != -1 || twice.LastPointer != nil {
		t.Fatalf("state not reset: %+v", twice)
	}
	if e.Revision() != rev {
		t.Fatal("clearing an empty selection bumped the revision")
	}
}

func TestSelectCell_Modifiers(t *testing.T) {
	p := newFakeProvider(20, 0, 3)
	e := openEngine(p, &manualLoop{}, 60, 10)

	e.SelectCell(CellRef{Row: 1, Col: 0}, Modifiers{})
	e.SelectCell(CellRef{Row: 2, Col: 0}, Modifiers{Shift: true})
	e.SelectCell(CellRef{Row: 3, Col: 1}, Modifiers{Ctrl: true})
	if n := len(e.Selection().Regions); n != 3 {
		t.Fatalf("got %d regions, want 3", n)
	}

	e.SelectCell(CellRef{Row: 2, Col: 0}, Modifiers{Ctrl: true})
	if e.Selection().IsSelected(CellRef{Row: 2, Col: 0}) {
		t.Fatal("ctrl-click should toggle the cell off")
	}

	e.SelectCell(CellRef{Row: 5, Col: 2}, Modifiers{})
	want := []DataPath{{Row: 5, Col: 2}}
	if got := e.Selection().Paths(); !reflect.DeepEqual(got, want) {
		t.Fatalf("plain click: got %v, want %v", got, want)
	}
	if s := e.Selection(); s.FirstRow != 5 || s.FirstCol != 2 {
		t.Fatalf("first selected = %d,%d", s.FirstRow, s.FirstCol)
	}
}

func TestSelectCell_GridHeaderSelectsColumn(t *testing.T) {
	p := newFakeProvider(20, 1, 3)
	e := openEngine(p, &manualLoop{}, 60, 10)

	e.SelectCell(CellRef{Row: 0, Col: 1, Header: true}, Modifiers{})
	want := []DataPath{{Row: ColumnRow, Col: 1, Header: true}}
	if got := e.Selection().Paths(); !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestSelectCell_CrosstabHeader(t *testing.T) {
	p := newFakeProvider(20, 1, 3)
	e := New(context.Background(), p, &manualLoop{}, Options{Variant: CrosstabVariant{}})
	e.Open()

	e.SelectCell(CellRef{Row: 0, Col: 1, Header: true}, Modifiers{})
	if _, ok := e.Selection().Headers[0][1]; !ok {
		t.Fatalf("header cell not in selected headers: %+v", e.Selection().Headers)
	}
	if len(e.Selection().Data) != 0 {
		t.Fatal("data selection should be empty")
	}
}

func TestBoxSelect(t *testing.T) {
	p := newFakeProvider(20, 0, 3)
	e := openEngine(p, &manualLoop{}, 60, 10)

	var rendered []RenderedCell
	for r := 0; r < 4; r++ {
		for c := 0; c < 3; c++ {
			rendered = append(rendered, RenderedCell{
				Ref:    CellRef{Row: r, Col: c},
				Bounds: Rect{X: c * 10, Y: r, W: 10, H: 1},
			})
		}
	}

	e.SelectCell(CellRef{Row: 10, Col: 0}, Modifiers{})
	// dragged up and to the left: covers rows 1..2, columns 1..2
	n := e.BoxSelect(Rect{X: 25, Y: 3, W: -10, H: -2}, rendered)
	if n != 4 {
		t.Fatalf("box hit %d cells, want 4", n)
	}
	want := []DataPath{{Row: 1, Col: 1}, {Row: 1, Col: 2}, {Row: 2, Col: 1}, {Row: 2, Col: 2}, {Row: 10, Col: 0}}
	if got := e.Selection().Paths(); !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestPointerEnter_DebouncedFlyover(t *testing.T) {
	p := newFakeProvider(20, 0, 3)
	loop := &manualLoop{}
	e := openEngine(p, loop, 60, 10)

	for c := 0; c < 3; c++ {
		e.PointerEnter(CellRef{Row: 4, Col: c})
		loop.advance(30 * time.Millisecond)
	}
	if len(p.flyovers) != 0 {
		t.Fatalf("fly-over sent during the burst: %v", p.flyovers)
	}
	loop.advance(100 * time.Millisecond)

	if len(p.flyovers) != 1 {
		t.Fatalf("got %d notifications, want 1", len(p.flyovers))
	}
	if want := map[int][]int{4: {2}}; !reflect.DeepEqual(p.flyovers[0], want) {
		t.Fatalf("fly-over = %v, want %v", p.flyovers[0], want)
	}
	if n := len(e.Selection().Data); n != 1 {
		t.Fatalf("fly-over holds %d rows, want 1", n)
	}
	if n := len(e.Selection().Regions); n != 0 {
		t.Fatalf("fly-over leaked into %d click regions", n)
	}
}

func TestPointerEnter_ThenCtrlClickAdds(t *testing.T) {
	p := newFakeProvider(20, 0, 3)
	loop := &manualLoop{}
	e := openEngine(p, loop, 60, 10)

	e.PointerEnter(CellRef{Row: 4, Col: 1})
	loop.advance(time.Second)
	if e.Selection().Pinned() || len(e.Selection().Paths()) != 0 {
		t.Fatalf("hover pinned a selection: %v", e.Selection().Paths())
	}

	e.SelectCell(CellRef{Row: 4, Col: 1}, Modifiers{Ctrl: true})
	s := e.Selection()
	if !s.IsSelected(CellRef{Row: 4, Col: 1}) || !s.Pinned() {
		t.Fatalf("ctrl-click on the hovered cell: selected=%v pinned=%v", s.IsSelected(CellRef{Row: 4, Col: 1}), s.Pinned())
	}
	if want := []DataPath{{Row: 4, Col: 1}}; !reflect.DeepEqual(s.Paths(), want) {
		t.Fatalf("paths = %v, want %v", s.Paths(), want)
	}
}

func TestPointerEnter_NotPartOfClickSelection(t *testing.T) {
	p := newFakeProvider(20, 0, 3)
	loop := &manualLoop{}
	e := openEngine(p, loop, 60, 10)

	e.PointerEnter(CellRef{Row: 2, Col: 0})
	e.SelectCell(CellRef{Row: 5, Col: 2}, Modifiers{Shift: true})
	want := []DataPath{{Row: 5, Col: 2}}
	if got := e.Selection().Paths(); !reflect.DeepEqual(got, want) {
		t.Fatalf("shift-click kept the hovered cell: %v", got)
	}
	if e.Selection().IsSelected(CellRef{Row: 2, Col: 0}) {
		t.Fatal("hovered cell still highlighted after a click")
	}

	e.ClearSelection()
	e.PointerEnter(CellRef{Row: 0, Col: 0})
	rendered := []RenderedCell{{Ref: CellRef{Row: 3, Col: 1}, Bounds: Rect{X: 10, Y: 3, W: 10, H: 1}}}
	e.BoxSelect(Rect{X: 12, Y: 3, W: 2, H: 1}, rendered)
	want = []DataPath{{Row: 3, Col: 1}}
	if got := e.Selection().Paths(); !reflect.DeepEqual(got, want) {
		t.Fatalf("box select kept the hovered cell: %v", got)
	}
	loop.advance(time.Second)
	if len(p.flyovers) != 0 {
		t.Fatalf("fly-over reported after a box select: %v", p.flyovers)
	}
}

func TestPointerEnter_PinnedSelectionWins(t *testing.T) {
	p := newFakeProvider(20, 0, 3)
	loop := &manualLoop{}
	e := openEngine(p, loop, 60, 10)

	e.SelectCell(CellRef{Row: 1, Col: 1}, Modifiers{})
	e.PointerEnter(CellRef{Row: 7, Col: 2})
	loop.advance(time.Second)

	if len(p.flyovers) != 0 {
		t.Fatal("fly-over reported over a pinned selection")
	}
	if !e.Selection().IsSelected(CellRef{Row: 1, Col: 1}) {
		t.Fatal("pinned selection replaced")
	}
}

func TestSelectedText(t *testing.T) {
	p := newFakeProvider(20, 0, 3)
	e := openEngine(p, &manualLoop{}, 60, 10)

	e.SelectCell(CellRef{Row: 1, Col: 0}, Modifiers{})
	e.SelectCell(CellRef{Row: 1, Col: 2}, Modifiers{Shift: true})
	e.SelectCell(CellRef{Row: 2, Col: 0}, Modifiers{Shift: true})

	if got, want := e.SelectedText(), "r1c0\tr1c2\nr2c0"; got != want {
		t.Fatalf("SelectedText = %q, want %q", got, want)
	}
}

func TestActions(t *testing.T) {
	p := newFakeProvider(20, 0, 3)
	var errs []error
	e := New(context.Background(), p, &manualLoop{}, Options{OnCommitError: func(err error) { errs = append(errs, err) }})
	e.Open()

	e.ClickCell(CellRef{Row: 3, Col: 1})
	if len(p.clicks) != 1 || p.clicks[0] != (DataPath{Row: 3, Col: 1}) {
		t.Fatalf("clicks = %v", p.clicks)
	}

	e.ToggleMaxMode()
	if !e.Maximized() {
		t.Fatal("max mode not toggled")
	}
	if len(errs) != 1 {
		t.Fatalf("provider refusal not reported: %v", errs)
	}
}

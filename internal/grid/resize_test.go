package grid

import (
	"context"
	"errors"
	"testing"
)

func TestColumnResize_SpanDistributes(t *testing.T) {
	p := newFakeProvider(10, 1, 6)
	p.colWidth = 30
	e := openEngine(p, &manualLoop{}, 200, 20)
	e.index[cellKey{0, 2}].ColSpan = 3

	if err := e.BeginColumnResize(0, 2, 150, false); err != nil {
		t.Fatalf("begin: %v", err)
	}
	if s := e.ResizeSession(); s.Initial != 90 || s.Span != 3 {
		t.Fatalf("session = %+v, want initial 90 over 3 columns", s)
	}
	if err := e.ResizeMove(180); err != nil {
		t.Fatalf("move: %v", err)
	}
	for c := 2; c <= 4; c++ {
		if w := e.Metrics().ColWidth(c); w != 40 {
			t.Fatalf("col %d width = %d, want 40", c, w)
		}
	}
	if w := e.Metrics().SpanWidth(2, 3); w != 120 {
		t.Fatalf("span width = %d, want 120", w)
	}
	if err := e.ResizeEnd(); err != nil {
		t.Fatalf("end: %v", err)
	}

	if len(p.colCommit) != 1 {
		t.Fatalf("got %d column commits, want 1", len(p.colCommit))
	}
	c := p.colCommit[0]
	if c.start != 2 || c.end != 5 || len(c.widths) != 3 || c.widths[0] != 40 || c.widths[2] != 40 {
		t.Fatalf("commit = %+v", c)
	}
	if e.Resizing() {
		t.Fatal("controller should be idle after end")
	}
}

func TestColumnResize_RemainderToLastColumn(t *testing.T) {
	got := distribute(100, 3)
	if got[0] != 33 || got[1] != 33 || got[2] != 34 {
		t.Fatalf("distribute(100, 3) = %v", got)
	}
}

func TestColumnResize_AlwaysCommits(t *testing.T) {
	p := newFakeProvider(10, 0, 2)
	e := openEngine(p, &manualLoop{}, 80, 20)

	if err := e.BeginColumnResize(0, 0, 20, false); err != nil {
		t.Fatal(err)
	}
	if err := e.ResizeEnd(); err != nil {
		t.Fatal(err)
	}
	if len(p.colCommit) != 1 {
		t.Fatalf("width drag without change: got %d commits, want 1", len(p.colCommit))
	}
}

func TestColumnResize_MinWidth(t *testing.T) {
	p := newFakeProvider(10, 0, 2)
	e := openEngine(p, &manualLoop{}, 80, 20)

	_ = e.BeginColumnResize(0, 1, 40, false)
	_ = e.ResizeMove(-500)
	if w := e.Metrics().ColWidth(1); w != 10 {
		t.Fatalf("width = %d, want min 10", w)
	}
	_ = e.ResizeEnd()
}

func TestRowResize_NoChangeNoCommit(t *testing.T) {
	p := newFakeProvider(10, 0, 2)
	e := openEngine(p, &manualLoop{}, 80, 100)

	_ = e.BeginRowResize(3, 0, 70, false)
	_ = e.ResizeMove(90)
	_ = e.ResizeMove(70)
	if err := e.ResizeEnd(); err != nil {
		t.Fatal(err)
	}
	if len(p.rowCommit) != 0 {
		t.Fatalf("unchanged height committed: %+v", p.rowCommit)
	}
}

func TestRowResize_WrappedCommit(t *testing.T) {
	p := newFakeProvider(4, 0, 1)
	p.wrapped = []int{0, 20, 40, 60, 80}
	e := openEngine(p, &manualLoop{}, 20, 200)

	_ = e.BeginRowResize(1, 0, 40, true)
	_ = e.ResizeMove(55)

	s := e.ResizeSession()
	if s.Line() != 55 {
		t.Fatalf("resize line = %d, want 55", s.Line())
	}
	m := e.Metrics()
	if h := m.RowHeight(1); h != 35 {
		t.Fatalf("row height = %d, want 35", h)
	}
	if m.DataRowTop(2) != 55 || m.DataRowTop(3) != 75 {
		t.Fatalf("positions not shifted: %v", m.DataRowPositions)
	}
	if err := m.ValidatePositions(); err != nil {
		t.Fatal(err)
	}
	_ = e.ResizeEnd()

	if len(p.rowCommit) != 1 {
		t.Fatalf("got %d row commits, want 1", len(p.rowCommit))
	}
	c := p.rowCommit[0]
	if c.row != 1 || c.height != 35 || c.header || c.span != 1 || c.blockStart != 0 || c.blockRows != 4 {
		t.Fatalf("commit = %+v", c)
	}
}

func TestRowResize_SpanAcrossHeader(t *testing.T) {
	p := newFakeProvider(10, 1, 1)
	p.rowHeight = 10
	e := openEngine(p, &manualLoop{}, 20, 100)
	e.index[cellKey{0, 0}].RowSpan = 2

	_ = e.BeginRowResize(0, 0, 20, false)
	if s := e.ResizeSession(); s.Initial != 20 || s.Target() != 1 {
		t.Fatalf("session = %+v", s)
	}
	_ = e.ResizeMove(35)

	m := e.Metrics()
	if m.HeaderRowHeight(0) != 10 {
		t.Fatalf("header row changed: %d", m.HeaderRowHeight(0))
	}
	if m.RowHeight(1) != 25 {
		t.Fatalf("target row = %d, want 25", m.RowHeight(1))
	}
	if got := m.SpanHeight(0, 2); got != 35 {
		t.Fatalf("span height = %d, want 35", got)
	}
	_ = e.ResizeEnd()
	if c := p.rowCommit[0]; c.row != 1 || c.header || c.span != 2 {
		t.Fatalf("commit = %+v", c)
	}
}

func TestResize_StateErrors(t *testing.T) {
	p := newFakeProvider(10, 0, 2)
	e := openEngine(p, &manualLoop{}, 80, 20)

	if err := e.ResizeMove(5); !errors.Is(err, ErrResizeInactive) {
		t.Fatalf("move while idle: %v", err)
	}
	if err := e.ResizeEnd(); !errors.Is(err, ErrResizeInactive) {
		t.Fatalf("end while idle: %v", err)
	}
	if err := e.BeginColumnResize(0, 9, 0, false); !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("bad column: %v", err)
	}
	_ = e.BeginColumnResize(0, 0, 0, false)
	if err := e.BeginRowResize(0, 0, 0, false); !errors.Is(err, ErrResizeActive) {
		t.Fatalf("second drag: %v", err)
	}
}

func TestResize_CommitFailureReported(t *testing.T) {
	p := &failingResize{fakeProvider: newFakeProvider(10, 0, 2)}
	var got error
	e := New(context.Background(), p, &manualLoop{}, Options{OnCommitError: func(err error) { got = err }})
	e.Open()

	_ = e.BeginColumnResize(0, 0, 0, false)
	_ = e.ResizeEnd()

	var cerr *CommitError
	if !errors.As(got, &cerr) || cerr.Op != "resize columns" {
		t.Fatalf("got %v, want a resize commit error", got)
	}
}

type failingResize struct {
	*fakeProvider
}

func (p *failingResize) ResizeColumns(context.Context, string, int, int, int, []int) error {
	return errors.New("read-only table")
}

func TestResize_CommittedReported(t *testing.T) {
	p := newFakeProvider(10, 0, 2)
	var ops []string
	e := New(context.Background(), p, &manualLoop{}, Options{OnCommitted: func(op string) { ops = append(ops, op) }})
	e.Open()

	_ = e.BeginColumnResize(0, 1, 0, false)
	_ = e.ResizeMove(5)
	_ = e.ResizeEnd()

	if len(ops) != 1 || ops[0] != "resize columns" {
		t.Fatalf("committed = %v", ops)
	}
}

package grid

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestOpen_LoadsFirstBlockImmediately(t *testing.T) {
	p := newFakeProvider(500, 0, 3)
	e := openEngine(p, &manualLoop{}, 60, 400)

	if len(p.loads) != 1 || p.loads[0] != (loadCall{0, 100}) {
		t.Fatalf("loads = %v, want one load of 0..100", p.loads)
	}
	w, ok := e.Loaded()
	if !ok || w != (LoadedWindow{Start: 0, End: 100}) {
		t.Fatalf("loaded = %v (%v), want 0..100", w, ok)
	}
	if e.Metrics().RowCount != 500 {
		t.Fatalf("RowCount = %d, want 500", e.Metrics().RowCount)
	}
}

func TestScroll_CoalescesLoads(t *testing.T) {
	p := newFakeProvider(5000, 0, 3)
	loop := &manualLoop{}
	e := openEngine(p, loop, 60, 400)

	for y := 3000; y < 3400; y += 20 {
		e.ScrollTo(0, y)
		loop.advance(50 * time.Millisecond)
	}
	if len(p.loads) != 1 {
		t.Fatalf("load fired during the burst: %v", p.loads)
	}

	loop.advance(200 * time.Millisecond)
	if len(p.loads) != 2 {
		t.Fatalf("got %d loads, want 2 (open + one coalesced)", len(p.loads))
	}

	// the last scroll position wins: y=3380 is row 169
	want := loadCall{169 - 40, 100}
	if p.loads[1] != want {
		t.Fatalf("coalesced load = %v, want %v", p.loads[1], want)
	}
	if e.LoadPending() || e.Loading() {
		t.Fatal("loader should be idle")
	}
}

func TestScroll_CancelsPendingLoadWhenBackInWindow(t *testing.T) {
	p := newFakeProvider(5000, 0, 3)
	loop := &manualLoop{}
	e := openEngine(p, loop, 60, 400)

	e.ScrollTo(0, 4000)
	if !e.LoadPending() {
		t.Fatal("expected a pending load")
	}
	e.ScrollTo(0, 0)
	if e.LoadPending() {
		t.Fatal("pending load should be cancelled")
	}
	loop.advance(time.Second)
	if len(p.loads) != 1 {
		t.Fatalf("cancelled load fired: %v", p.loads)
	}
}

func TestLoad_InFlightRechecks(t *testing.T) {
	p := newFakeProvider(5000, 0, 3)
	loop := &manualLoop{}
	e := openEngine(p, loop, 60, 400)
	loop.async = true

	e.ScrollTo(0, 4000)
	loop.advance(200 * time.Millisecond)
	if !e.Loading() {
		t.Fatal("expected a load in flight")
	}

	// further scrolling while in flight does not issue a second request
	e.ScrollTo(0, 40000)
	loop.advance(200 * time.Millisecond)
	if len(loop.work) != 1 {
		t.Fatalf("got %d queued loads, want 1", len(loop.work))
	}

	loop.flush()
	loop.advance(200 * time.Millisecond)
	loop.flush()

	if len(p.loads) != 3 {
		t.Fatalf("loads = %v, want open + first + recheck", p.loads)
	}
	w, _ := e.Loaded()
	if !w.Contains(e.View().CurrentRow) || !w.Contains(e.View().LastVisibleRow) {
		t.Fatalf("window %v does not cover %d..%d", w, e.View().CurrentRow, e.View().LastVisibleRow)
	}
}

func TestLoad_FailureKeepsState(t *testing.T) {
	p := newFakeProvider(500, 0, 3)
	loop := &manualLoop{}
	var outcomes []LoadOutcome
	e := New(context.Background(), p, loop, Options{OnLoad: func(o LoadOutcome) { outcomes = append(outcomes, o) }})
	e.SetViewport(60, 400)
	e.Open()

	before, _ := e.Loaded()
	rev := e.Revision()

	boom := errors.New("connection reset")
	p.err = boom
	e.ScrollTo(0, 4000)
	loop.advance(200 * time.Millisecond)

	if got, _ := e.Loaded(); got != before {
		t.Fatalf("window changed on failure: %v -> %v", before, got)
	}
	if e.Revision() != rev {
		t.Fatal("metrics revision changed on failure")
	}
	if !errors.Is(e.LastError(), boom) || !IsLoadError(e.LastError()) {
		t.Fatalf("LastError = %v", e.LastError())
	}
	last := outcomes[len(outcomes)-1]
	if last.Err == nil {
		t.Fatal("outcome should carry the error")
	}
	if e.Loading() || e.LoadPending() {
		t.Fatal("a failed load must not retry on its own")
	}

	p.err = nil
	e.Reload()
	loop.advance(200 * time.Millisecond)
	if e.LastError() != nil {
		t.Fatalf("error not cleared by a good load: %v", e.LastError())
	}
}

func TestMerge_RoundTripWithDefaults(t *testing.T) {
	e := New(context.Background(), newFakeProvider(0, 0, 0), &manualLoop{}, Options{})
	runtime := -8
	res := &LoadResult{
		ColWidths:           []int{12, 7},
		RowCount:            4,
		ColCount:            2,
		DataRowCount:        4,
		HeaderRowCount:      1,
		HeaderColCount:      1,
		HeaderRowHeights:    []int{2},
		DataRowHeight:       1,
		ScrollHeight:        3,
		LimitMessage:        "showing first 3 rows",
		RuntimeDataRowCount: &runtime,
		Prototypes:          []Cell{{Style: "num", Align: "right", ColSpan: 1}},
		HeaderCells:         [][]Cell{{{Row: 0, Col: 0, Data: "id"}, {Row: 0, Col: 1, Data: "name", Label: "Name"}}},
		BodyCells: [][]Cell{
			{{Row: 1, Col: 0, Data: "1", FormatRef: 1}, {Row: 1, Col: 1, Data: "ann"}},
			{{Row: 2, Col: 0, Data: "2", FormatRef: 1}, {Row: 2, Col: 1, Data: "bob", RowSpan: 2}},
		},
	}
	if err := e.merge(LoadRequest{Start: 0, Count: 100}, res); err != nil {
		t.Fatalf("merge: %v", err)
	}

	m := e.Metrics()
	if m.RowCount != 4 || m.ColCount != 2 || m.HeaderRowCount != 1 || m.HeaderColCount != 1 {
		t.Fatalf("counts not merged: %+v", m)
	}
	if len(m.ColWidths) != 2 || m.ColWidths[0] != 12 || m.ColWidths[1] != 7 {
		t.Fatalf("ColWidths = %v", m.ColWidths)
	}
	if m.ScrollHeight != 3 || m.LimitMessage != "showing first 3 rows" || *m.RuntimeDataRowCount != -8 {
		t.Fatalf("optional fields not merged: %+v", m)
	}

	c, ok := e.CellAt(1, 0)
	if !ok {
		t.Fatal("cell 1,0 missing")
	}
	if c.Label != "1" || c.RowSpan != 1 || c.ColSpan != 1 {
		t.Fatalf("defaults not applied: %+v", c)
	}
	if c.Style != "num" || c.Align != "right" || c.FormatRef != 0 {
		t.Fatalf("prototype not expanded: %+v", c)
	}
	if h, _ := e.CellAt(0, 1); h.Label != "Name" {
		t.Fatalf("explicit label overwritten: %q", h.Label)
	}
	if b, _ := e.CellAt(2, 1); b.RowSpan != 2 {
		t.Fatalf("explicit span overwritten: %d", b.RowSpan)
	}

	w, _ := e.Loaded()
	if w != (LoadedWindow{Start: 1, End: 3}) {
		t.Fatalf("window = %v, want 1..3", w)
	}

	// mutating the result afterwards must not leak into the engine
	res.ColWidths[0] = 99
	if m.ColWidths[0] != 12 {
		t.Fatal("metrics alias the load result")
	}
}

func TestMerge_RejectsBadResultAtomically(t *testing.T) {
	p := newFakeProvider(50, 0, 2)
	e := openEngine(p, &manualLoop{}, 40, 10)
	before := *e.Metrics()

	tests := []struct {
		name string
		res  *LoadResult
		want error
	}{
		{"nil", nil, ErrInvalidResult},
		{"widths", &LoadResult{RowCount: 3, ColCount: 2, ColWidths: []int{1}}, ErrInvalidResult},
		{"headers", &LoadResult{RowCount: 1, HeaderRowCount: 2}, ErrInvalidResult},
		{"positions", &LoadResult{RowCount: 3, Wrapped: true, DataRowPositions: []int{0, 5, 2}}, ErrMalformedPositions},
		{"prototype", &LoadResult{RowCount: 1, ColCount: 1, ColWidths: []int{3}, BodyCells: [][]Cell{{{FormatRef: 4}}}}, ErrBadPrototype},
	}
	for _, tt := range tests {
		err := e.merge(LoadRequest{}, tt.res)
		if !errors.Is(err, tt.want) {
			t.Errorf("%s: got %v, want %v", tt.name, err, tt.want)
		}
		if e.Metrics().RowCount != before.RowCount || len(e.Metrics().ColWidths) != len(before.ColWidths) {
			t.Errorf("%s: metrics mutated by rejected result", tt.name)
		}
	}
}

func TestLoad_ShortResultDoesNotPoll(t *testing.T) {
	p := newFakeProvider(500, 0, 3)
	p.drop = 30
	loop := &manualLoop{}
	var outcomes []LoadOutcome
	e := New(context.Background(), p, loop, Options{OnLoad: func(o LoadOutcome) { outcomes = append(outcomes, o) }})
	e.SetViewport(60, 400)
	e.Open()

	e.ScrollTo(0, 1<<20)
	loop.advance(200 * time.Millisecond)
	if len(p.loads) != 2 {
		t.Fatalf("loads = %v, want open + one", p.loads)
	}
	last := outcomes[len(outcomes)-1]
	if !last.Short || !last.Stale {
		t.Fatalf("outcome = %+v, want a short stale result", last)
	}

	loop.advance(10 * time.Second)
	if len(p.loads) != 2 {
		t.Fatalf("idle engine kept loading: %d loads", len(p.loads))
	}
	if e.LoadPending() || e.Loading() {
		t.Fatal("loader should be idle")
	}

	// moving the viewport asks again
	e.ScrollBy(0, -20)
	loop.advance(200 * time.Millisecond)
	if len(p.loads) != 3 {
		t.Fatalf("loads after scrolling = %d, want 3", len(p.loads))
	}
}

func TestLoad_ShrinkClampsScroll(t *testing.T) {
	p := newFakeProvider(500, 0, 3)
	loop := &manualLoop{}
	var outcomes []LoadOutcome
	e := New(context.Background(), p, loop, Options{OnLoad: func(o LoadOutcome) { outcomes = append(outcomes, o) }})
	e.SetViewport(60, 400)
	e.Open()
	e.ScrollTo(0, 9000)

	p.rows = 100
	loop.advance(200 * time.Millisecond)

	if got, want := e.Viewport().ScrollY, 100*20-400; got != want {
		t.Fatalf("ScrollY = %d, want %d", got, want)
	}
	last := outcomes[len(outcomes)-1]
	if !last.Clamped {
		t.Fatal("outcome should report the clamp")
	}
}

func TestLoad_Timeout(t *testing.T) {
	p := &slowProvider{fakeProvider: newFakeProvider(10, 0, 1)}
	loop := &manualLoop{}
	e := New(context.Background(), p, loop, Options{LoadTimeout: time.Millisecond})
	e.Open()
	if !errors.Is(e.LastError(), context.DeadlineExceeded) {
		t.Fatalf("LastError = %v, want deadline exceeded", e.LastError())
	}
}

type slowProvider struct {
	*fakeProvider
}

func (p *slowProvider) LoadRows(ctx context.Context, _ string, _, _ int) (*LoadResult, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

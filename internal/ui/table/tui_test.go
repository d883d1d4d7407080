package table

import (
	"context"
	"fmt"
	"reflect"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/imgajeed76/pgrid/internal/grid"
	"github.com/imgajeed76/pgrid/internal/source"
)

// pump runs the commands a model returns and feeds their messages back
// into Update from the test goroutine, the way a tea.Program does.
type pump struct {
	t   *testing.T
	m   *tableModel
	out chan tea.Msg
}

func (p *pump) run(cmd tea.Cmd) {
	if cmd == nil {
		return
	}
	go func() {
		if msg := cmd(); msg != nil {
			p.out <- msg
		}
	}()
}

func (p *pump) send(msg tea.Msg) {
	_, cmd := p.m.Update(msg)
	p.run(cmd)
}

// settle handles messages until none arrive for a while.
func (p *pump) settle() {
	for {
		select {
		case msg := <-p.out:
			if batch, ok := msg.(tea.BatchMsg); ok {
				for _, c := range batch {
					p.run(c)
				}
				continue
			}
			p.send(msg)
		case <-time.After(150 * time.Millisecond):
			return
		}
	}
}

func (p *pump) key(s string) {
	switch s {
	case "down":
		p.send(tea.KeyMsg{Type: tea.KeyDown})
	case "enter":
		p.send(tea.KeyMsg{Type: tea.KeyEnter})
	case "esc":
		p.send(tea.KeyMsg{Type: tea.KeyEsc})
	default:
		p.send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
	}
	p.settle()
}

func (p *pump) mouse(x, y int, action tea.MouseAction) {
	p.send(tea.MouseMsg{X: x, Y: y, Action: action, Button: tea.MouseButtonLeft})
	p.settle()
}

func peopleSource(n int) *source.MemorySource {
	rows := make([][]string, n)
	for i := range rows {
		rows[i] = []string{fmt.Sprint(i + 1), fmt.Sprintf("name %d", i+1)}
	}
	return source.NewMemoryStrings([]string{"id", "name"}, rows, source.Options{})
}

// startModel opens a 60x20 table over src.
func startModel(t *testing.T, src Source) *pump {
	t.Helper()
	opts := grid.Options{
		LoadDebounce:    time.Millisecond,
		FlyoverDebounce: time.Millisecond,
		MinWidth:        3,
		MinHeight:       1,
	}
	m := newTableModel(context.Background(), "people", src, opts)
	p := &pump{t: t, m: m, out: make(chan tea.Msg, 64)}
	p.run(m.Init())
	p.send(tea.WindowSizeMsg{Width: 60, Height: 20})
	p.settle()
	if _, ok := m.engine.Loaded(); !ok {
		t.Fatal("first block never loaded")
	}
	return p
}

func TestModel_OpensAndRenders(t *testing.T) {
	p := startModel(t, peopleSource(50))
	m := p.m

	if m.cursor != (grid.CellRef{Row: 1, Col: 0}) {
		t.Fatalf("cursor = %+v, want the first data cell", m.cursor)
	}
	if vp := m.engine.Viewport(); vp.Width != 56 || vp.Height != 16 {
		t.Fatalf("viewport = %+v, want 56x16", vp)
	}
	view := m.View()
	for _, want := range []string{"people: 50 rows, 2 columns", "name 1", "loaded rows 1–50"} {
		if !strings.Contains(view, want) {
			t.Errorf("view is missing %q:\n%s", want, view)
		}
	}
}

func TestModel_CursorSelects(t *testing.T) {
	p := startModel(t, peopleSource(50))
	p.key("down")

	want := []grid.DataPath{{Row: 2, Col: 0}}
	if got := p.m.engine.Selection().Paths(); !reflect.DeepEqual(got, want) {
		t.Fatalf("selection = %v, want %v", got, want)
	}
	p.key("esc")
	if !p.m.engine.Selection().Empty() {
		t.Fatal("esc should clear the selection")
	}
}

func TestModel_GotoRow(t *testing.T) {
	p := startModel(t, peopleSource(50))
	p.key(":")
	if p.m.mode != tableModeGoto {
		t.Fatal("goto mode not entered")
	}
	p.key("4")
	p.key("0")
	p.key("enter")

	if p.m.mode != tableModeNormal || p.m.cursor.Row != 40 {
		t.Fatalf("mode %v, cursor %+v; want row 40", p.m.mode, p.m.cursor)
	}
	vs := p.m.engine.View()
	if vs.CurrentRow > 40 || vs.LastVisibleRow < 40 {
		t.Fatalf("row 40 not visible: %d..%d", vs.CurrentRow, vs.LastVisibleRow)
	}
}

func TestModel_DragColumnEdge(t *testing.T) {
	src := peopleSource(50)
	p := startModel(t, src)

	// gutter is 3 wide, the id column 4 wide: its edge is at x=6 on the
	// header line below the title
	if h := p.m.frame().hitTest(6, 1); h.kind != hitColumnEdge || h.ref.Col != 0 {
		t.Fatalf("hit = %+v, want the edge of column 0", h)
	}
	p.mouse(6, 1, tea.MouseActionPress)
	if !p.m.engine.Resizing() {
		t.Fatal("press on the edge should start a resize")
	}
	p.mouse(10, 1, tea.MouseActionMotion)
	p.mouse(10, 1, tea.MouseActionRelease)

	if p.m.engine.Resizing() {
		t.Fatal("release should end the resize")
	}
	if w := p.m.engine.Metrics().ColWidth(0); w != 8 {
		t.Fatalf("width = %d, want 8", w)
	}
	res, err := src.LoadRows(context.Background(), "t", 0, 1)
	if err != nil {
		t.Fatal(err)
	}
	if res.ColWidths[0] != 8 {
		t.Fatalf("source width = %d, want the committed 8", res.ColWidths[0])
	}
}

func TestModel_DetailsEvent(t *testing.T) {
	p := startModel(t, peopleSource(50))
	p.key("enter")

	d := p.m.details
	if d == nil || d.Kind != source.EventDetails {
		t.Fatalf("details = %+v", d)
	}
	if len(d.Columns) != 1 || d.Columns[0] != "id" || d.Values[0] != "1" {
		t.Fatalf("details = %v %v", d.Columns, d.Values)
	}
	if !strings.Contains(p.m.View(), "id: 1") {
		t.Fatal("details not rendered")
	}

	p.key("esc")
	if p.m.details != nil {
		t.Fatal("esc should close the details first")
	}
	if p.m.engine.Selection().Empty() {
		t.Fatal("closing details must keep the selection")
	}
}

func TestModel_HoverReportsFlyover(t *testing.T) {
	src := peopleSource(50)
	p := startModel(t, src)

	// row 3 is on line 1+1+2, column name starts at x=7
	p.mouse(9, 4, tea.MouseActionMotion)

	fly := src.Flyovers()
	if len(fly) == 0 {
		t.Fatal("no fly-over reported")
	}
	if want := map[int][]int{3: {1}}; !reflect.DeepEqual(fly[len(fly)-1], want) {
		t.Fatalf("fly-over = %v, want %v", fly[len(fly)-1], want)
	}
}

func TestModel_DetailsAfterHover(t *testing.T) {
	p := startModel(t, peopleSource(50))
	p.mouse(9, 4, tea.MouseActionMotion)
	p.key("enter")

	d := p.m.details
	if d == nil || len(d.Values) == 0 || d.Values[0] != "1" {
		t.Fatalf("details after hover = %+v, want the cursor cell", d)
	}
	if got := p.m.engine.Selection().Paths(); len(got) != 1 || got[0].Row != 1 {
		t.Fatalf("selection = %v, want the cursor cell only", got)
	}
}

func TestModel_Quit(t *testing.T) {
	p := startModel(t, peopleSource(5))
	_, cmd := p.m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("J")})
	if cmd == nil {
		t.Fatal("J should quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatal("J should return tea.Quit")
	}
	if p.m.exitMode != exitJSON {
		t.Fatalf("exit mode = %v, want JSON", p.m.exitMode)
	}
}

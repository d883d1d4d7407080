package source

import (
	"context"
	"sync"

	"github.com/imgajeed76/pgrid/internal/db"
	"github.com/imgajeed76/pgrid/internal/grid"
)

// EventKind identifies a one-shot table action.
type EventKind int

const (
	EventClick EventKind = iota
	EventDetails
	EventMaxMode
)

// Event is a table action resolved against the source's data.
type Event struct {
	Kind      EventKind
	TableID   string
	Paths     []grid.DataPath
	Columns   []string
	Values    []string
	Maximized bool
}

type events struct {
	mu sync.Mutex
	fn func(Event)
}

func (e *events) set(fn func(Event)) {
	e.mu.Lock()
	e.fn = fn
	e.mu.Unlock()
}

func (e *events) emit(ev Event) {
	e.mu.Lock()
	fn := e.fn
	e.mu.Unlock()
	if fn != nil {
		fn(ev)
	}
}

// OnEvent registers fn for click, details and max-mode actions. fn is
// called off the event loop.
func (l *layout) OnEvent(fn func(Event)) {
	l.events.set(fn)
}

// lookupFunc returns the value at an absolute row and column.
type lookupFunc func(row, col int) (db.Value, bool)

// describe resolves paths to column names and display values. Header paths
// and whole-column selections resolve to the column name.
func (l *layout) describe(paths []grid.DataPath, lookup lookupFunc) (cols, vals []string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, p := range paths {
		name := ""
		if p.Col >= 0 && p.Col < len(l.columns) {
			name = l.columns[p.Col].Name
		}
		cols = append(cols, name)
		if p.Header || p.Row < 1 {
			vals = append(vals, name)
			continue
		}
		v, ok := lookup(p.Row, p.Col)
		if !ok {
			vals = append(vals, "")
			continue
		}
		vals = append(vals, labelOf(v))
	}
	return cols, vals
}

func (l *layout) action(ctx context.Context, ev Event, lookup lookupFunc) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(ev.Paths) > 0 {
		ev.Columns, ev.Values = l.describe(ev.Paths, lookup)
	}
	l.events.emit(ev)
	return nil
}

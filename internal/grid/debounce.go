package grid

import "time"

// Loop is the event loop an Engine runs on. The engine never touches its
// state from any other goroutine: timers and provider calls re-enter through
// the loop.
type Loop interface {
	// AfterFunc runs fn on the loop once delay has elapsed.
	AfterFunc(delay time.Duration, fn func())
	// Go runs work off the loop, then runs the continuation it returns on
	// the loop.
	Go(work func() func())
}

// debouncer is a per-instance debounce handle. Every trigger bumps the
// generation; a scheduled timer only takes effect when it still carries the
// current generation, so earlier timers become no-ops.
type debouncer struct {
	delay   time.Duration
	gen     uint64
	pending bool
}

// trigger arms the debouncer on loop and runs fn after a quiet period.
func (d *debouncer) trigger(loop Loop, fn func()) {
	d.gen++
	d.pending = true
	gen := d.gen
	loop.AfterFunc(d.delay, func() {
		if !d.pending || gen != d.gen {
			return
		}
		d.pending = false
		fn()
	})
}

// cancel drops the pending trigger, if any.
func (d *debouncer) cancel() {
	if d.pending {
		d.gen++
		d.pending = false
	}
}

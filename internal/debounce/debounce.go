// Package debounce coalesces bursts of triggers into a single callback.
package debounce

import (
	"sync"
	"time"
)

// Debouncer delays fn until delay has passed without another Trigger.
// Each Debouncer owns its own timer; create one per recomputation context.
type Debouncer struct {
	delay time.Duration
	fn    func()

	mu    sync.Mutex
	timer *time.Timer
	gen   uint64 // bumped on every Trigger/Stop; stale timers compare and bail

	running bool // fn is executing
	queued  int  // calls that arrived while fn was executing
}

// New returns a Debouncer that calls fn delay after the last Trigger.
// Calls to fn never overlap. fn may call Trigger, Flush or Stop on the
// same Debouncer.
func New(delay time.Duration, fn func()) *Debouncer {
	return &Debouncer{delay: delay, fn: fn}
}

// Trigger cancels any pending call and schedules a new one.
func (d *Debouncer) Trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	gen := d.gen
	d.timer = time.AfterFunc(d.delay, func() { d.fire(gen) })
}

// Stop cancels a pending call. It reports whether one was pending.
func (d *Debouncer) Stop() bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.gen++
	if d.timer == nil {
		return false
	}
	d.timer.Stop()
	d.timer = nil
	return true
}

// Pending reports whether a call is scheduled and has not fired yet.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil
}

// Flush runs a pending call immediately instead of waiting for the timer.
// It does nothing when no call is pending. If fn is already executing,
// including when Flush is called from fn itself, the call is queued to run
// after the current one returns.
func (d *Debouncer) Flush() {
	if !d.Stop() {
		return
	}
	d.call()
}

func (d *Debouncer) fire(gen uint64) {
	d.mu.Lock()
	if gen != d.gen {
		// Superseded by a later Trigger or cancelled by Stop.
		d.mu.Unlock()
		return
	}
	d.timer = nil
	d.mu.Unlock()

	d.call()
}

func (d *Debouncer) call() {
	d.mu.Lock()
	if d.running {
		d.queued++
		d.mu.Unlock()
		return
	}
	d.running = true
	d.mu.Unlock()

	for {
		d.fn()

		d.mu.Lock()
		if d.queued == 0 {
			d.running = false
			d.mu.Unlock()
			return
		}
		d.queued--
		d.mu.Unlock()
	}
}

package narrow

import (
	"sync"
	"time"
)

// FireAt returns the instant a sync scheduled for an edit at lastEdit
// should run, given the configured quiet window. Exposed as a pure
// function so debounce arithmetic is testable apart from the timer.
func FireAt(lastEdit time.Time, quiet time.Duration) time.Time {
	return lastEdit.Add(quiet)
}

// Debouncer coalesces rapid calls into one deferred execution. At most
// one timer is pending; scheduling again cancels the predecessor, so only
// the most recently scheduled function ever runs.
type Debouncer struct {
	mu    sync.Mutex
	timer *time.Timer
	fn    func()
}

// NewDebouncer returns an idle Debouncer.
func NewDebouncer() *Debouncer {
	return &Debouncer{}
}

// Schedule arranges for fn to run after the quiet window elapses,
// cancelling any previously scheduled call first. fn runs on the timer's
// goroutine.
func (d *Debouncer) Schedule(quiet time.Duration, fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.fn = fn

	var t *time.Timer
	t = time.AfterFunc(quiet, func() {
		d.mu.Lock()
		if d.timer != t {
			// Superseded or cancelled after firing was committed.
			d.mu.Unlock()
			return
		}
		run := d.fn
		d.timer = nil
		d.fn = nil
		d.mu.Unlock()
		run()
	})
	d.timer = t
}

// Cancel stops a pending call and reports whether one was pending.
func (d *Debouncer) Cancel() bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer == nil {
		return false
	}
	d.timer.Stop()
	d.timer = nil
	d.fn = nil
	return true
}

// Flush runs a pending call synchronously, if any, and reports whether it
// ran. Callers must not hold locks the pending function acquires.
func (d *Debouncer) Flush() bool {
	d.mu.Lock()
	if d.timer == nil {
		d.mu.Unlock()
		return false
	}
	d.timer.Stop()
	run := d.fn
	d.timer = nil
	d.fn = nil
	d.mu.Unlock()

	run()
	return true
}

// Pending reports whether a call is scheduled but not yet run.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil
}
